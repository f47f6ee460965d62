package dtos

type RegisterRequest struct {
	Username  string `form:"username" json:"username" binding:"required,max=150"`
	Password  string `form:"password" json:"password" binding:"required,min=8,max=72"`
	Email     string `form:"email" json:"email" binding:"omitempty,email"`
	FirstName string `form:"first_name" json:"first_name" binding:"max=150"`
	LastName  string `form:"last_name" json:"last_name" binding:"max=150"`
	Role      string `form:"role" json:"role" binding:"required,oneof=CANDIDATE EMPLOYER"`
}

type UpdateUserRequest struct {
	Email     *string `form:"email" json:"email" binding:"omitempty,email"`
	FirstName *string `form:"first_name" json:"first_name" binding:"omitempty,max=150"`
	LastName  *string `form:"last_name" json:"last_name" binding:"omitempty,max=150"`
	Password  *string `form:"password" json:"password" binding:"omitempty,min=8,max=72"`
}

type TokenRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type CandidateProfileRequest struct {
	FullName   string `form:"full_name" json:"full_name" binding:"required,max=255"`
	Phone      string `form:"phone" json:"phone" binding:"max=20"`
	Skills     string `form:"skills" json:"skills"`
	Experience string `form:"experience" json:"experience"`
}

type EmployerProfileRequest struct {
	CompanyName string `form:"company_name" json:"company_name" binding:"required,max=255"`
	Website     string `form:"website" json:"website" binding:"omitempty,url"`
	Address     string `form:"address" json:"address"`
	Description string `form:"description" json:"description"`
}
