package dtos

type ReviewRequest struct {
	Score   int    `json:"score" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

type PaymentRequest struct {
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	PaymentMethod string  `json:"payment_method" binding:"required,oneof=CASH MOMO VNPAY PAYPAL STRIPE"`
	JobPostID     *uint   `json:"job_post_id"`
}
