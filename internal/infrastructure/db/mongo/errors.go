package mongo

import (
	"strings"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/userhub/user-api/internal/core/domain"
)

// uniqueIndexName names the unique index guarding field.
func uniqueIndexName(field string) string {
	return "uniq_" + field
}

// duplicateKeyError turns a unique index violation into the validation error
// the caller would have received had the uniqueness check seen the conflict.
// Other errors are returned unchanged.
func duplicateKeyError(err error, fields ...string) error {
	if !mongo.IsDuplicateKeyError(err) {
		return err
	}
	msg := err.Error()
	var errs domain.ValidationErrors
	for _, f := range fields {
		if strings.Contains(msg, uniqueIndexName(f)) {
			errs = append(errs, domain.ValidationError{
				Field:   f,
				Message: strings.ToUpper(f[:1]) + f[1:] + " already exists",
			})
		}
	}
	if len(errs) == 0 {
		return err
	}
	return errs
}
