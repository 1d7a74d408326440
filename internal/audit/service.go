package audit

import (
	"encoding/json"
	"fmt"

	"rentpos-backend/internal/models"

	"gorm.io/gorm"
)

// Actor is the signed-in user on whose behalf a mutation runs.
type Actor struct {
	UserID uint
	Name   string
}

// System is used by the operator CLI and background jobs.
var System = Actor{Name: "system"}

type LogOptions struct {
	Actor       Actor
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

// WriteLog appends one audit row. Pass the transaction handle so the row
// commits or rolls back together with the change it describes.
func WriteLog(db *gorm.DB, opts LogOptions) error {
	log := models.AuditLog{
		UserID:      opts.Actor.UserID,
		UserName:    opts.Actor.Name,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  snapshot(opts.Before),
		AfterData:   snapshot(opts.After),
	}

	if err := db.Create(&log).Error; err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
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
