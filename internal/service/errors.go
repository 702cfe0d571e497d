package service

import (
	"elearning_backend/internal/util"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// storeErr translates repository errors into the shared taxonomy. Anything it
// does not recognise is wrapped and left for RespondError to report as a 500.
func storeErr(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	what := fmt.Sprintf(format, args...)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s", util.ErrNotFound, what)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %s", util.ErrConflict, what)
	}
	return fmt.Errorf("%s: %w", what, err)
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{util.ErrInvalidInput}, args...)...)
}

func isNotFound(err error) bool {
	return errors.Is(err, util.ErrNotFound)
}
