package dtos

type JobStat struct {
	Name     string `json:"name"`
	JobCount int64  `json:"job_count"`
}

type RevenueStat struct {
	PaymentMethod string  `json:"payment_method"`
	Total         float64 `json:"total"`
}

type UserStat struct {
	Role  string `json:"role"`
	Total int64  `json:"total"`
}

// StatsReport is the admin dashboard aggregate.
type StatsReport struct {
	JobStats     []JobStat     `json:"job_stats"`
	RevenueStats []RevenueStat `json:"revenue_stats"`
	UserStats    []UserStat    `json:"user_stats"`
}
