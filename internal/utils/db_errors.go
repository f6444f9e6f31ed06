package utils

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// IsDuplicateKeyError reports whether err is a unique constraint violation.
// Dialects that translate errors return gorm.ErrDuplicatedKey; the message
// checks cover drivers that pass the raw error through.
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}

// IsForeignKeyError reports whether err is a foreign key violation, such as
// a write that references a row deleted after it was looked up.
func IsForeignKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "FOREIGN KEY constraint failed") ||
		strings.Contains(msg, "violates foreign key constraint")
}
