package dtos

import "time"

type JobExtractionRequest struct {
	RawHTML string `json:"raw_html" binding:"required"`
	URL     string `json:"url" binding:"omitempty,url"`
}

// JobPostDraft is what the extraction model is asked to return.
type JobPostDraft struct {
	CompanyName  string   `json:"company_name"`
	Title        string   `json:"role_title"`
	Location     string   `json:"location"`
	Description  string   `json:"description"`
	Requirements string   `json:"requirements"`
	Benefits     string   `json:"benefits"`
	TechStack    []string `json:"tech_stack"`
	SalaryMin    *int64   `json:"salary_min"`
	SalaryMax    *int64   `json:"salary_max"`
}

type JobExtractionResponse struct {
	Draft               *JobPostDraft `json:"draft"`
	SuggestedCategoryID *uint         `json:"suggested_category_id"`
	SourceURL           string        `json:"source_url,omitempty"`
}

type JobPostCreateRequest struct {
	CategoryID   uint       `json:"category_id" binding:"required"`
	Title        string     `json:"title" binding:"required,max=255"`
	Description  string     `json:"description" binding:"required"`
	Requirements string     `json:"requirements"`
	Benefits     string     `json:"benefits"`
	Location     string     `json:"location" binding:"max=255"`
	SalaryMin    int64      `json:"salary_min" binding:"min=0"`
	SalaryMax    int64      `json:"salary_max" binding:"min=0"`
	IsFeatured   bool       `json:"is_featured"`
	Deadline     *time.Time `json:"deadline"`
	TagIDs       []uint     `json:"tag_ids"`
}

// JobPostUpdateRequest is a partial update; nil fields are left alone.
type JobPostUpdateRequest struct {
	CategoryID   *uint      `json:"category_id"`
	Title        *string    `json:"title" binding:"omitempty,min=1,max=255"`
	Description  *string    `json:"description"`
	Requirements *string    `json:"requirements"`
	Benefits     *string    `json:"benefits"`
	Location     *string    `json:"location" binding:"omitempty,max=255"`
	SalaryMin    *int64     `json:"salary_min" binding:"omitempty,min=0"`
	SalaryMax    *int64     `json:"salary_max" binding:"omitempty,min=0"`
	Status       *string    `json:"status" binding:"omitempty,oneof=OPENING CLOSED EXPIRED"`
	IsFeatured   *bool      `json:"is_featured"`
	Deadline     *time.Time `json:"deadline"`
	Active       *bool      `json:"active"`
	TagIDs       *[]uint    `json:"tag_ids"`
}

// JobPostFilter narrows the public job post list. Zero values mean "any".
type JobPostFilter struct {
	Q          string
	CategoryID *uint
	Location   string
	Salary     *int64
}

type ApplyRequest struct {
	CoverLetter string `form:"cover_letter" json:"cover_letter"`
}

// PageResponse is the paginated list envelope.
type PageResponse struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}
