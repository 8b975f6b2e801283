package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Participant is a named party inside a ledger. Participants are plain
// entries, not users: a ledger owner records expenses for everyone who was
// on the trip whether or not they have an account.
type Participant struct {
	ID        uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	LedgerID  uuid.UUID     `gorm:"type:uuid;index" json:"ledger_id"`
	Name      string        `gorm:"not null;size:100" json:"name"`
	Position  int           `gorm:"not null;default:0" json:"position"` // insertion order within the ledger
	Items     []ExpenseItem `gorm:"foreignKey:ParticipantID" json:"items,omitempty"`
	Payments  []Payment     `gorm:"foreignKey:ParticipantID" json:"payments,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

func (p *Participant) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ExpenseItem is a single expense attributed to a participant.
type ExpenseItem struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ParticipantID uuid.UUID `gorm:"type:uuid;index" json:"participant_id"`
	Name          string    `gorm:"not null;size:255" json:"name"`
	Value         float64   `gorm:"type:decimal(12,2);not null" json:"value"`
	CreatedAt     time.Time `json:"created_at"`
}

func (ei *ExpenseItem) BeforeCreate(tx *gorm.DB) error {
	if ei.ID == uuid.Nil {
		ei.ID = uuid.New()
	}
	return nil
}

// Payment is an amount a participant paid into the shared pool.
type Payment struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ParticipantID uuid.UUID `gorm:"type:uuid;index" json:"participant_id"`
	Amount        float64   `gorm:"type:decimal(12,2);not null" json:"amount"`
	CreatedAt     time.Time `json:"created_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Request structs
type AddParticipantRequest struct {
	Name string `json:"name" binding:"required"`
}

type AddItemRequest struct {
	Name  string  `json:"name" binding:"required"`
	Value float64 `json:"value" binding:"required,gt=0"`
}

type AddPaymentRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}
