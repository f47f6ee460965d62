package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/justsurfingit/ejobs/internal/models"
)

var (
	roles           = []string{models.RoleAdmin, models.RoleEmployer, models.RoleCandidate}
	jobStatuses     = []string{models.JobStatusOpening, models.JobStatusClosed, models.JobStatusExpired}
	appStatuses     = []string{models.ApplicationPending, models.ApplicationReviewing, models.ApplicationAccepted, models.ApplicationRejected}
	paymentStatuses = []string{models.PaymentPending, models.PaymentSuccess, models.PaymentFailed}
	paymentMethods  = []string{models.PaymentCash, models.PaymentMomo, models.PaymentVNPay, models.PaymentPaypal, models.PaymentStripe}
)

func adminResources(db *gorm.DB) []AdminResource {
	return []AdminResource{
		&resource[models.User]{
			name:   "users",
			table:  "users",
			db:     db,
			search: []string{"users.username", "users.email"},
			filters: map[string]field{
				"role":      {column: "users.role", enum: roles},
				"is_active": {column: "users.is_active", kind: kindBool},
			},
			editable: map[string]field{
				"role":       {enum: roles},
				"is_active":  {kind: kindBool},
				"email":      {},
				"first_name": {},
				"last_name":  {},
			},
		},
		&resource[models.JobCategory]{
			name:      "categories",
			table:     "job_categories",
			db:        db,
			creatable: true,
			search:    []string{"job_categories.name"},
			filters: map[string]field{
				"active": {column: "job_categories.active", kind: kindBool},
			},
			editable: map[string]field{
				"name":   {required: true},
				"active": {kind: kindBool},
			},
		},
		&resource[models.Tag]{
			name:      "tags",
			table:     "tags",
			db:        db,
			creatable: true,
			search:    []string{"tags.name"},
			editable: map[string]field{
				"name": {required: true},
			},
			beforeDelete: func(tx *gorm.DB, id uint) error {
				return tx.Exec("DELETE FROM job_post_tags WHERE tag_id = ?", id).Error
			},
		},
		&resource[models.EmployerProfile]{
			name:     "employers",
			table:    "employer_profiles",
			db:       db,
			preloads: []string{"User"},
			search:   []string{"employer_profiles.company_name"},
			filters: map[string]field{
				"is_approved": {column: "employer_profiles.is_approved", kind: kindBool},
			},
			editable: map[string]field{
				"is_approved":  {kind: kindBool},
				"company_name": {required: true},
				"website":      {},
				"address":      {},
				"description":  {},
			},
		},
		&resource[models.CandidateProfile]{
			name:     "candidates",
			table:    "candidate_profiles",
			db:       db,
			preloads: []string{"User"},
			search:   []string{"candidate_profiles.full_name"},
			editable: map[string]field{
				"full_name":  {required: true},
				"phone":      {},
				"skills":     {},
				"experience": {},
			},
		},
		&resource[models.JobPost]{
			name:     "jobposts",
			table:    "job_posts",
			db:       db,
			joins:    []string{"LEFT JOIN employer_profiles ON employer_profiles.id = job_posts.employer_id"},
			preloads: []string{"Employer", "Category", "Tags"},
			search:   []string{"job_posts.title", "employer_profiles.company_name"},
			filters: map[string]field{
				"category_id": {column: "job_posts.category_id", kind: kindInt},
				"status":      {column: "job_posts.status", enum: jobStatuses},
				"is_featured": {column: "job_posts.is_featured", kind: kindBool},
				"location":    {column: "job_posts.location"},
			},
			editable: map[string]field{
				"title":       {required: true},
				"status":      {enum: jobStatuses},
				"is_featured": {kind: kindBool},
				"active":      {kind: kindBool},
				"location":    {},
				"salary_min":  {kind: kindInt, bounded: true, min: 0, max: 1 << 53},
				"salary_max":  {kind: kindInt, bounded: true, min: 0, max: 1 << 53},
				"deadline":    {kind: kindTime},
			},
			check: checkJobPostSalary,
		},
		&resource[models.JobApplication]{
			name:     "applications",
			table:    "job_applications",
			db:       db,
			joins:    []string{"LEFT JOIN candidate_profiles ON candidate_profiles.id = job_applications.candidate_id"},
			preloads: []string{"Candidate", "Job"},
			search:   []string{"candidate_profiles.full_name"},
			filters: map[string]field{
				"status": {column: "job_applications.status", enum: appStatuses},
			},
			editable: map[string]field{
				"status": {enum: appStatuses},
			},
		},
		&resource[models.Payment]{
			name:     "payments",
			table:    "payments",
			db:       db,
			preloads: []string{"Employer"},
			search:   []string{"payments.transaction_id"},
			filters: map[string]field{
				"status":         {column: "payments.status", enum: paymentStatuses},
				"payment_method": {column: "payments.payment_method", enum: paymentMethods},
			},
			editable: map[string]field{
				"status": {enum: paymentStatuses},
			},
		},
		&resource[models.ApplicationReview]{
			name:  "reviews",
			table: "application_reviews",
			db:    db,
			joins: []string{
				"LEFT JOIN job_applications ON job_applications.id = application_reviews.application_id",
				"LEFT JOIN candidate_profiles ON candidate_profiles.id = job_applications.candidate_id",
				"LEFT JOIN employer_profiles ON employer_profiles.id = application_reviews.employer_id",
			},
			preloads: []string{"Application", "Application.Candidate", "Employer"},
			search:   []string{"candidate_profiles.full_name", "employer_profiles.company_name"},
			filters: map[string]field{
				"score":        {column: "application_reviews.score", kind: kindInt},
				"created_date": {column: "application_reviews.created_at", kind: kindDate},
			},
			editable: map[string]field{
				"score":   {kind: kindInt, bounded: true, min: 1, max: 5},
				"comment": {},
			},
		},
	}
}

// checkJobPostSalary keeps salary_min <= salary_max across partial updates.
func checkJobPostSalary(ctx context.Context, db *gorm.DB, id uint, values map[string]any) error {
	_, hasMin := values["salary_min"]
	_, hasMax := values["salary_max"]
	if !hasMin && !hasMax {
		return nil
	}

	var post models.JobPost
	if err := db.WithContext(ctx).First(&post, id).Error; err != nil {
		return fmt.Errorf("job post %d: %w", id, translate(err))
	}
	if v, ok := values["salary_min"].(int64); ok {
		post.SalaryMin = v
	}
	if v, ok := values["salary_max"].(int64); ok {
		post.SalaryMax = v
	}
	return checkSalary(post.SalaryMin, post.SalaryMax)
}
