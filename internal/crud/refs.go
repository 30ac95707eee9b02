package crud

import (
	"farmadmin/internal/respond"

	"gorm.io/gorm"
)

// Ref names a foreign key that must point at a live row.
type Ref struct {
	Field string
	Model any
	ID    *uint
}

// To builds a Ref for a required key.
func To(field string, model any, id uint) Ref {
	return Ref{Field: field, Model: model, ID: &id}
}

// ToOptional builds a Ref for a nullable key; nil or zero is accepted.
func ToOptional(field string, model any, id *uint) Ref {
	return Ref{Field: field, Model: model, ID: id}
}

// CheckRefs reports every dangling key as a validation error.
func CheckRefs(tx *gorm.DB, refs ...Ref) error {
	verr := respond.NewValidationError()
	for _, ref := range refs {
		if ref.ID == nil || *ref.ID == 0 {
			continue
		}
		var n int64
		if err := tx.Model(ref.Model).Where("id = ?", *ref.ID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			verr.Add(ref.Field, "The selected "+label(ref.Field)+" is invalid.")
		}
	}
	if verr.Empty() {
		return nil
	}
	return verr
}

// Unique fails when another row, soft-deleted ones included, already uses
// value in column.
func Unique(tx *gorm.DB, model any, column, value string, selfID uint) error {
	if value == "" {
		return nil
	}
	var n int64
	q := tx.Unscoped().Model(model).Where(column+" = ?", value)
	if selfID != 0 {
		q = q.Where("id <> ?", selfID)
	}
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return respond.Invalid(column, "The "+label(column)+" has already been taken.")
	}
	return nil
}

func label(field string) string {
	out := []byte(field)
	for i, b := range out {
		if b == '_' {
			out[i] = ' '
		}
	}
	return string(out)
}
