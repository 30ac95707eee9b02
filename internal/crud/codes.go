package crud

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RandomCode returns n uppercase hex characters.
func RandomCode(n int) string {
	var b strings.Builder
	for b.Len() < n {
		b.WriteString(strings.ReplaceAll(uuid.NewString(), "-", ""))
	}
	return strings.ToUpper(b.String()[:n])
}

// NextSequence returns prefix followed by the next zero-padded number for
// column, counting soft-deleted rows so codes are never reused.
func NextSequence(tx *gorm.DB, model any, column, prefix string, width int) (string, error) {
	var codes []string
	err := tx.Unscoped().Model(model).
		Where(column+" LIKE ?", prefix+"%").
		Pluck(column, &codes).Error
	if err != nil {
		return "", fmt.Errorf("next %s sequence: %w", column, err)
	}

	highest := 0
	for _, code := range codes {
		n, err := strconv.Atoi(strings.TrimPrefix(code, prefix))
		if err == nil && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s%0*d", prefix, width, highest+1), nil
}
