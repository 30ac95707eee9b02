package staff

import (
	"time"

	"farmadmin/internal/crud"
	"farmadmin/internal/models"
	"farmadmin/internal/respond"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var assignableModels = map[string]func() any{
	"farm": func() any { return &models.Farm{} },
	"site": func() any { return &models.Site{} },
	"zone": func() any { return &models.Zone{} },
}

func AssignmentHandlers(log *zap.Logger) crud.Handlers {
	return crud.New(crud.Options[models.StaffAssignment]{
		Name:       "Staff assignment",
		EntityType: "staff_assignment",
		Preloads:   []string{"User"},
		Order:      "assigned_from DESC",
		Filters: map[string]string{
			"user_id":         "user_id",
			"assignable_type": "assignable_type",
			"assignable_id":   "assignable_id",
		},
		DateColumn: "assigned_from",
		Logger:     log,
		Prepare: func(tx *gorm.DB, a *models.StaffAssignment, creating bool) error {
			a.Derive(time.Now())
			return nil
		},
		Check: func(tx *gorm.DB, a *models.StaffAssignment) error {
			if a.AssignedTo != nil && a.AssignedTo.Before(a.AssignedFrom.Time) {
				return respond.Invalid("assigned_to", "The assigned to field must be a date after or equal to assigned from.")
			}
			refs := []crud.Ref{crud.To("user_id", &models.User{}, a.UserID)}
			if newModel, ok := assignableModels[a.AssignableType]; ok {
				refs = append(refs, crud.To("assignable_id", newModel(), a.AssignableID))
			}
			return crud.CheckRefs(tx, refs...)
		},
	})
}
