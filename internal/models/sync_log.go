package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SyncStatus string

const (
	SyncSuccess SyncStatus = "success"
	SyncError   SyncStatus = "error"
)

// SyncLog records the outcome of one adapter pass. Rows are append-only.
type SyncLog struct {
	ID           string     `json:"id" gorm:"type:uuid;primaryKey"`
	Platform     Platform   `json:"platform" gorm:"type:varchar(50);not null"`
	Status       SyncStatus `json:"status" gorm:"type:varchar(20);not null"`
	OrdersSynced int        `json:"orders_synced"`
	ErrorMessage string     `json:"error_message,omitempty"`
	SyncedAt     time.Time  `json:"synced_at" gorm:"index"`
}

func (l *SyncLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if l.SyncedAt.IsZero() {
		l.SyncedAt = time.Now()
	}
	return nil
}
