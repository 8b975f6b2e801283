package handlers

import (
	"fmt"
	"net/http"
	"splitledger-backend/database"
	"splitledger-backend/models"
	"splitledger-backend/services"
	"splitledger-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// logActivity records one ledger event for the activity feed.
func logActivity(ledgerID, userID, refID uuid.UUID, kind, description string) {
	database.DB.Create(&models.Activity{
		LedgerID:    ledgerID,
		UserID:      userID,
		Type:        kind,
		ReferenceID: refID,
		Description: description,
	})
}

// POST /api/ledgers/:id/participants
func AddParticipant(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	ledgerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid ledger ID")
		return
	}

	if !canAccess(ledgerID, userID) {
		utils.Unauthorized(c, "You do not have access to this ledger")
		return
	}

	var req models.AddParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	// Next insertion position keeps settlement snapshots in ledger order.
	var count int64
	database.DB.Model(&models.Participant{}).Where("ledger_id = ?", ledgerID).Count(&count)

	participant := models.Participant{
		LedgerID: ledgerID,
		Name:     req.Name,
		Position: int(count),
	}

	if err := database.DB.Create(&participant).Error; err != nil {
		utils.InternalError(c, "Failed to add participant")
		return
	}

	invalidateSettlementCache(ledgerID)
	logActivity(ledgerID, userID, participant.ID, "participant_added",
		fmt.Sprintf("%s joined the ledger", participant.Name))

	utils.SuccessResponse(c, http.StatusCreated, "Participant added", participant)
}

// DELETE /api/ledgers/:id/participants/:pid
func RemoveParticipant(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	ledgerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid ledger ID")
		return
	}
	participantID, err := uuid.Parse(c.Param("pid"))
	if err != nil {
		utils.BadRequest(c, "Invalid participant ID")
		return
	}

	if !canAccess(ledgerID, userID) {
		utils.Unauthorized(c, "You do not have access to this ledger")
		return
	}

	var participant models.Participant
	if err := database.DB.Where("id = ? AND ledger_id = ?", participantID, ledgerID).First(&participant).Error; err != nil {
		utils.NotFound(c, "Participant not found")
		return
	}

	database.DB.Where("participant_id = ?", participantID).Delete(&models.ExpenseItem{})
	database.DB.Where("participant_id = ?", participantID).Delete(&models.Payment{})
	database.DB.Delete(&participant)

	invalidateSettlementCache(ledgerID)
	logActivity(ledgerID, userID, participantID, "participant_removed",
		fmt.Sprintf("%s was removed from the ledger", participant.Name))

	utils.SuccessResponse(c, http.StatusOK, "Participant removed", nil)
}

// POST /api/participants/:id/items
func AddItem(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	participantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid participant ID")
		return
	}

	var participant models.Participant
	if err := database.DB.First(&participant, participantID).Error; err != nil {
		utils.NotFound(c, "Participant not found")
		return
	}
	if !canAccess(participant.LedgerID, userID) {
		utils.Unauthorized(c, "You do not have access to this ledger")
		return
	}

	var req models.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	item := models.ExpenseItem{
		ParticipantID: participantID,
		Name:          req.Name,
		Value:         req.Value,
	}

	if err := database.DB.Create(&item).Error; err != nil {
		utils.InternalError(c, "Failed to add item")
		return
	}

	invalidateSettlementCache(participant.LedgerID)
	logActivity(participant.LedgerID, userID, item.ID, "item_added",
		fmt.Sprintf("\"%s\" (%.2f) added for %s", item.Name, item.Value, participant.Name))

	// Notify everyone the ledger is shared with
	go services.GetNotificationService().NotifyItemAdded(participant.LedgerID, participant.Name, item)

	utils.SuccessResponse(c, http.StatusCreated, "Item added", item)
}

// DELETE /api/items/:id
func RemoveItem(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid item ID")
		return
	}

	var item models.ExpenseItem
	if err := database.DB.First(&item, itemID).Error; err != nil {
		utils.NotFound(c, "Item not found")
		return
	}

	var participant models.Participant
	if err := database.DB.First(&participant, item.ParticipantID).Error; err != nil {
		utils.NotFound(c, "Participant not found")
		return
	}
	if !canAccess(participant.LedgerID, userID) {
		utils.Unauthorized(c, "You do not have access to this ledger")
		return
	}

	database.DB.Delete(&item)

	invalidateSettlementCache(participant.LedgerID)
	logActivity(participant.LedgerID, userID, itemID, "item_removed",
		fmt.Sprintf("\"%s\" removed for %s", item.Name, participant.Name))

	utils.SuccessResponse(c, http.StatusOK, "Item removed", nil)
}

// POST /api/participants/:id/payments
func AddPayment(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	participantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid participant ID")
		return
	}

	var participant models.Participant
	if err := database.DB.First(&participant, participantID).Error; err != nil {
		utils.NotFound(c, "Participant not found")
		return
	}
	if !canAccess(participant.LedgerID, userID) {
		utils.Unauthorized(c, "You do not have access to this ledger")
		return
	}

	var req models.AddPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	payment := models.Payment{
		ParticipantID: participantID,
		Amount:        req.Amount,
	}

	if err := database.DB.Create(&payment).Error; err != nil {
		utils.InternalError(c, "Failed to add payment")
		return
	}

	invalidateSettlementCache(participant.LedgerID)
	logActivity(participant.LedgerID, userID, payment.ID, "payment_added",
		fmt.Sprintf("%s paid %.2f into the pool", participant.Name, payment.Amount))

	utils.SuccessResponse(c, http.StatusCreated, "Payment added", payment)
}

// DELETE /api/payments/:id
func RemovePayment(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid payment ID")
		return
	}

	var payment models.Payment
	if err := database.DB.First(&payment, paymentID).Error; err != nil {
		utils.NotFound(c, "Payment not found")
		return
	}

	var participant models.Participant
	if err := database.DB.First(&participant, payment.ParticipantID).Error; err != nil {
		utils.NotFound(c, "Participant not found")
		return
	}
	if !canAccess(participant.LedgerID, userID) {
		utils.Unauthorized(c, "You do not have access to this ledger")
		return
	}

	database.DB.Delete(&payment)

	invalidateSettlementCache(participant.LedgerID)
	logActivity(participant.LedgerID, userID, paymentID, "payment_removed",
		fmt.Sprintf("Payment of %.2f removed for %s", payment.Amount, participant.Name))

	utils.SuccessResponse(c, http.StatusOK, "Payment removed", nil)
}
