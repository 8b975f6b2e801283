package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Ledger struct {
	ID           uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string        `gorm:"not null;size:100" json:"name"`
	Currency     string        `gorm:"default:USD;size:3" json:"currency"`
	CreatedBy    uuid.UUID     `gorm:"type:uuid" json:"created_by"`
	Owner        User          `gorm:"foreignKey:CreatedBy" json:"owner,omitempty"`
	Participants []Participant `gorm:"foreignKey:LedgerID" json:"participants,omitempty"`
	Shares       []LedgerShare `gorm:"foreignKey:LedgerID" json:"shares,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

func (l *Ledger) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// LedgerShare grants another user read/write access to a ledger.
type LedgerShare struct {
	LedgerID uuid.UUID `gorm:"type:uuid;primaryKey" json:"ledger_id"`
	UserID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	User     User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	SharedAt time.Time `gorm:"autoCreateTime" json:"shared_at"`
}

// Request structs
type CreateLedgerRequest struct {
	Name     string `json:"name" binding:"required"`
	Currency string `json:"currency"`
}

type UpdateLedgerRequest struct {
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

type ShareLedgerRequest struct {
	Email string `json:"email" binding:"required,email"`
}
