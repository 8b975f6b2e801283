package services

import (
	"log"
	"splitledger-backend/database"
	"splitledger-backend/models"

	"github.com/google/uuid"
)

// InviteToLedger records a pending invite for an unregistered email and
// sends the invitation mail.
func InviteToLedger(ledgerID uuid.UUID, invitedBy uuid.UUID, email string) {
	var existing models.LedgerInvite
	err := database.DB.Where("ledger_id = ? AND email = ? AND status = ?", ledgerID, email, "pending").
		First(&existing).Error
	if err == nil {
		log.Printf("⚠️  Invitation already exists for %s in ledger %s", email, ledgerID)
		return
	}

	invite := models.LedgerInvite{
		LedgerID:  ledgerID,
		InvitedBy: invitedBy,
		Email:     email,
		Status:    "pending",
	}

	if err := database.DB.Create(&invite).Error; err != nil {
		log.Printf("❌ Failed to create invitation: %v", err)
		return
	}

	var inviter models.User
	database.DB.First(&inviter, invitedBy)
	var ledger models.Ledger
	database.DB.First(&ledger, ledgerID)

	GetNotificationService().NotifyInvitation(email, inviter.Name, ledger.Name)

	log.Printf("✅ Invitation sent to %s for ledger %s", email, ledgerID)
}
