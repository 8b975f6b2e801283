package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LedgerInvite is a pending share for an email address that has no account
// yet. It converts into a LedgerShare when the recipient registers.
type LedgerInvite struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LedgerID  uuid.UUID `gorm:"type:uuid;index" json:"ledger_id"`
	InvitedBy uuid.UUID `gorm:"type:uuid" json:"invited_by"`
	Email     string    `gorm:"size:255" json:"email"`
	Status    string    `gorm:"default:pending;size:20" json:"status"` // pending, accepted
	CreatedAt time.Time `json:"created_at"`
}

func (i *LedgerInvite) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
