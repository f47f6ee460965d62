package models

import (
	"time"
)

// Roles
const (
	RoleAdmin     = "ADMIN"
	RoleEmployer  = "EMPLOYER"
	RoleCandidate = "CANDIDATE"
)

// Job post statuses
const (
	JobStatusOpening = "OPENING"
	JobStatusClosed  = "CLOSED"
	JobStatusExpired = "EXPIRED"
)

// Application statuses
const (
	ApplicationPending   = "PENDING"
	ApplicationReviewing = "REVIEWING"
	ApplicationAccepted  = "ACCEPTED"
	ApplicationRejected  = "REJECTED"
)

// Payment statuses
const (
	PaymentPending = "PENDING"
	PaymentSuccess = "SUCCESS"
	PaymentFailed  = "FAILED"
)

// Payment methods
const (
	PaymentCash   = "CASH"
	PaymentMomo   = "MOMO"
	PaymentVNPay  = "VNPAY"
	PaymentPaypal = "PAYPAL"
	PaymentStripe = "STRIPE"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Username     string `gorm:"uniqueIndex;size:150;not null" json:"username"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Email        string `gorm:"size:254" json:"email"`
	FirstName    string `gorm:"size:150" json:"first_name"`
	LastName     string `gorm:"size:150" json:"last_name"`
	Avatar       string `json:"avatar"`
	Role         string `gorm:"size:20;not null;index;default:'CANDIDATE'" json:"role"`
	IsActive     bool   `gorm:"not null;default:true" json:"is_active"`
}

type JobCategory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name   string `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Active bool   `gorm:"not null;default:true" json:"active"`
}

type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name string `gorm:"uniqueIndex;size:50;not null" json:"name"`
}

type EmployerProfile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID uint  `gorm:"uniqueIndex;not null" json:"user_id"`
	User   *User `json:"user,omitempty"`

	CompanyName string `gorm:"size:255;not null;index" json:"company_name"`
	Logo        string `json:"logo"`
	Website     string `json:"website"`
	Address     string `json:"address"`
	Description string `gorm:"type:text" json:"description"`
	IsApproved  bool   `gorm:"not null;default:false" json:"is_approved"`
}

type CandidateProfile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID uint  `gorm:"uniqueIndex;not null" json:"user_id"`
	User   *User `json:"user,omitempty"`

	FullName   string `gorm:"size:255;not null" json:"full_name"`
	Phone      string `gorm:"size:20" json:"phone"`
	CVFile     string `json:"cv_file"`
	Skills     string `gorm:"type:text" json:"skills"`
	Experience string `gorm:"type:text" json:"experience"`
}

type JobPost struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Foreign Keys. GORM needs Preload() to fill the associations.
	EmployerID uint             `gorm:"not null;index" json:"employer_id"`
	Employer   *EmployerProfile `json:"employer,omitempty"`
	CategoryID uint             `gorm:"not null;index" json:"category_id"`
	Category   *JobCategory     `json:"category,omitempty"`
	Tags       []Tag            `gorm:"many2many:job_post_tags;" json:"tags,omitempty"`

	Title        string     `gorm:"size:255;not null" json:"title"`
	Description  string     `gorm:"type:text" json:"description"`
	Requirements string     `gorm:"type:text" json:"requirements"`
	Benefits     string     `gorm:"type:text" json:"benefits"`
	Location     string     `gorm:"size:255;index" json:"location"`
	SalaryMin    int64      `json:"salary_min"`
	SalaryMax    int64      `json:"salary_max"`
	Status       string     `gorm:"size:20;not null;index;default:'OPENING'" json:"status"`
	IsFeatured   bool       `gorm:"not null;default:false" json:"is_featured"`
	Deadline     *time.Time `json:"deadline"`
	Active       bool       `gorm:"not null;default:true" json:"active"`
}

type JobApplication struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	JobID       uint              `gorm:"not null;uniqueIndex:idx_application_job_candidate" json:"job_id"`
	Job         *JobPost          `json:"job,omitempty"`
	CandidateID uint              `gorm:"not null;uniqueIndex:idx_application_job_candidate" json:"candidate_id"`
	Candidate   *CandidateProfile `json:"candidate,omitempty"`

	CVFile      string `gorm:"not null" json:"cv_file"`
	CoverLetter string `gorm:"type:text" json:"cover_letter"`
	Status      string `gorm:"size:20;not null;index;default:'PENDING'" json:"status"`
}

type Payment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	EmployerID uint             `gorm:"not null;index" json:"employer_id"`
	Employer   *EmployerProfile `json:"employer,omitempty"`
	JobPostID  *uint            `gorm:"index" json:"job_post_id"`
	JobPost    *JobPost         `json:"-"`

	Amount        float64 `gorm:"type:decimal(12,2);not null" json:"amount"`
	PaymentMethod string  `gorm:"size:20;not null;index" json:"payment_method"`
	Status        string  `gorm:"size:20;not null;index;default:'PENDING'" json:"status"`
	TransactionID string  `gorm:"uniqueIndex;size:64;not null" json:"transaction_id"`
}

type ApplicationReview struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ApplicationID uint             `gorm:"not null;uniqueIndex:idx_review_application_employer" json:"application_id"`
	Application   *JobApplication  `json:"application,omitempty"`
	EmployerID    uint             `gorm:"not null;uniqueIndex:idx_review_application_employer" json:"employer_id"`
	Employer      *EmployerProfile `json:"employer,omitempty"`

	Score   int    `gorm:"not null;index" json:"score"`
	Comment string `gorm:"type:text" json:"comment"`
}

// All lists every model, in dependency order, for migrations.
func All() []any {
	return []any{
		&User{},
		&JobCategory{},
		&Tag{},
		&EmployerProfile{},
		&CandidateProfile{},
		&JobPost{},
		&JobApplication{},
		&Payment{},
		&ApplicationReview{},
	}
}

// IsOpen reports whether the post is visible on the public board.
func (j *JobPost) IsOpen() bool {
	return j.Active && j.Status == JobStatusOpening
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleEmployer, RoleCandidate:
		return true
	}
	return false
}
