package services

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidPage        = errors.New("Invalid page.")
	ErrAlreadyApplied     = errors.New("you have already applied for this job")
	ErrProfileRequired    = errors.New("please complete your candidate profile before applying")
	ErrCVRequired         = errors.New("please attach a CV file")
	ErrForbidden          = errors.New("you do not have permission to perform this action")
	ErrConflict           = errors.New("resource already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrValidation         = errors.New("invalid input")
	ErrLLMUnavailable     = errors.New("job extraction is not configured")
	ErrLLMBadResponse     = errors.New("job extraction model returned an unusable response")
)

// translate maps gorm errors onto service sentinels. Other errors pass
// through untouched.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrConflict
	}
	return err
}
