package audit

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"farmadmin/internal/database"
	"farmadmin/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrUnknownEntity = errors.New("unknown entity type")
	ErrAlreadyUndone = errors.New("this change has already been undone")
	ErrNotUndoable   = errors.New("this action cannot be undone")
)

type LogOptions struct {
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

var (
	registryMu sync.RWMutex
	registry   = map[string]func() any{}
)

// Register makes an entity type undoable. newModel returns a pointer to a
// fresh zero value of the gorm model stored under entityType.
func Register(entityType string, newModel func() any) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[entityType] = newModel
}

func lookup(entityType string) (func() any, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	newModel, ok := registry[entityType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntity, entityType)
	}
	return newModel, nil
}

func snapshot(v any) string {
	if v == nil {
		return "null"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

func WriteLog(opts LogOptions) error {
	entry := models.AuditLog{
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  snapshot(opts.Before),
		AfterData:   snapshot(opts.After),
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}

// UndoLog reverts one logged change: a create is soft-deleted, an update is
// restored from its before snapshot and a delete is un-deleted.
func UndoLog(logID uint, userID uint, userName string) error {
	var entry models.AuditLog
	if err := database.DB.First(&entry, logID).Error; err != nil {
		return fmt.Errorf("load audit log: %w", err)
	}
	if entry.IsUndone {
		return ErrAlreadyUndone
	}

	newModel, err := lookup(entry.EntityType)
	if err != nil {
		return err
	}

	return database.DB.Transaction(func(tx *gorm.DB) error {
		switch entry.Action {
		case models.AuditActionCreate:
			if err := tx.Delete(newModel(), entry.EntityID).Error; err != nil {
				return fmt.Errorf("remove created record: %w", err)
			}
		case models.AuditActionUpdate:
			// Save on a soft-deleted row would insert it again.
			if err := tx.Select("id").First(newModel(), entry.EntityID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: the record has been deleted", ErrNotUndoable)
				}
				return fmt.Errorf("load record: %w", err)
			}
			record := newModel()
			if err := json.Unmarshal([]byte(entry.BeforeData), record); err != nil {
				return fmt.Errorf("decode before snapshot: %w", err)
			}
			if err := tx.Omit(clause.Associations).Save(record).Error; err != nil {
				return fmt.Errorf("restore record: %w", err)
			}
		case models.AuditActionDelete:
			res := tx.Unscoped().Model(newModel()).Where("id = ?", entry.EntityID).Update("deleted_at", nil)
			if res.Error != nil {
				return fmt.Errorf("restore deleted record: %w", res.Error)
			}
		default:
			return ErrNotUndoable
		}

		now := time.Now()
		entry.IsUndone = true
		entry.UndoneBy = &userID
		entry.UndoneAt = &now
		if err := tx.Save(&entry).Error; err != nil {
			return fmt.Errorf("mark audit log undone: %w", err)
		}

		undo := models.AuditLog{
			UserID:      userID,
			UserName:    userName,
			EntityType:  entry.EntityType,
			EntityID:    entry.EntityID,
			Action:      models.AuditActionUndo,
			Description: "Undone: " + entry.Description,
			BeforeData:  entry.AfterData,
			AfterData:   entry.BeforeData,
		}
		if err := tx.Create(&undo).Error; err != nil {
			return fmt.Errorf("write undo log: %w", err)
		}
		return nil
	})
}
