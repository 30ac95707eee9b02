package audit

import (
	"errors"
	"fmt"

	"farmadmin/internal/auth"
	"farmadmin/internal/database"
	"farmadmin/internal/models"
	"farmadmin/internal/respond"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Record writes a log entry for the authenticated user of c. Failures are
// returned so the caller can decide; handlers log and continue.
func Record(c *fiber.Ctx, entityType string, entityID uint, action models.AuditAction, description string, before, after any) error {
	opts := LogOptions{
		EntityType:  entityType,
		EntityID:    entityID,
		Action:      action,
		Description: description,
		Before:      before,
		After:       after,
	}
	if u := auth.CurrentUser(c); u != nil {
		opts.UserID = u.ID
		opts.UserName = u.Name
	}
	return WriteLog(opts)
}

type AuditLogResponse struct {
	ID          uint               `json:"id"`
	CreatedAt   string             `json:"created_at"`
	UserID      uint               `json:"user_id"`
	UserName    string             `json:"user_name"`
	EntityType  string             `json:"entity_type"`
	EntityID    uint               `json:"entity_id"`
	Action      models.AuditAction `json:"action"`
	Description string             `json:"description"`
	IsUndone    bool               `json:"is_undone"`
	UndoneBy    *uint              `json:"undone_by"`
	UndoneAt    *string            `json:"undone_at"`
}

// GET /api/v1/audit-logs?entity_type=farm&entity_id=1&user_id=1
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.AuditLog{})

		if v := c.Query("entity_type"); v != "" {
			dbq = dbq.Where("entity_type = ?", v)
		}
		for _, key := range []string{"entity_id", "user_id"} {
			if v := c.Query(key); v != "" {
				var id uint
				if _, err := fmt.Sscan(v, &id); err != nil || id == 0 {
					return fiber.NewError(fiber.StatusBadRequest, "Invalid "+key)
				}
				dbq = dbq.Where(key+" = ?", id)
			}
		}

		var logs []models.AuditLog
		if err := dbq.Order("created_at DESC").Order("id DESC").Limit(500).Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Audit logs could not be listed")
		}

		resp := make([]AuditLogResponse, 0, len(logs))
		for _, l := range logs {
			var undoneAt *string
			if l.UndoneAt != nil {
				formatted := l.UndoneAt.Format("2006-01-02 15:04:05")
				undoneAt = &formatted
			}
			resp = append(resp, AuditLogResponse{
				ID:          l.ID,
				CreatedAt:   l.CreatedAt.Format("2006-01-02 15:04:05"),
				UserID:      l.UserID,
				UserName:    l.UserName,
				EntityType:  l.EntityType,
				EntityID:    l.EntityID,
				Action:      l.Action,
				Description: l.Description,
				IsUndone:    l.IsUndone,
				UndoneBy:    l.UndoneBy,
				UndoneAt:    undoneAt,
			})
		}

		return respond.Data(c, resp)
	}
}

// POST /api/v1/audit-logs/:id/undo
func UndoAuditLogHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		logID, err := c.ParamsInt("id")
		if err != nil || logID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid log id")
		}

		u := auth.CurrentUser(c)
		if u == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthenticated.")
		}

		err = UndoLog(uint(logID), u.ID, u.Name)
		switch {
		case err == nil:
		case errors.Is(err, gorm.ErrRecordNotFound):
			return fiber.NewError(fiber.StatusNotFound, "Audit log not found")
		case errors.Is(err, ErrAlreadyUndone), errors.Is(err, ErrNotUndoable), errors.Is(err, ErrUnknownEntity):
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		default:
			return err
		}

		return c.JSON(fiber.Map{"message": "Change undone"})
	}
}
