package handlers

import (
	"fmt"
	"net/http"
	"splitledger-backend/database"
	"splitledger-backend/models"
	"splitledger-backend/services"
	"splitledger-backend/utils"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// canAccess reports whether the user owns the ledger or has it shared.
func canAccess(ledgerID uuid.UUID, userID uuid.UUID) bool {
	var ledger models.Ledger
	if err := database.DB.First(&ledger, ledgerID).Error; err != nil {
		return false
	}
	if ledger.CreatedBy == userID {
		return true
	}
	var share models.LedgerShare
	err := database.DB.Where("ledger_id = ? AND user_id = ?", ledgerID, userID).First(&share).Error
	return err == nil
}

// POST /api/ledgers
func CreateLedger(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	var req models.CreateLedgerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	ledger := models.Ledger{
		Name:      req.Name,
		Currency:  currency,
		CreatedBy: userID,
	}

	if err := database.DB.Create(&ledger).Error; err != nil {
		utils.InternalError(c, "Failed to create ledger")
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Ledger created", ledger)
}

// GET /api/ledgers — ledgers the user owns or that were shared with them
func GetLedgers(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	var shares []models.LedgerShare
	database.DB.Where("user_id = ?", userID).Find(&shares)

	sharedIDs := make([]uuid.UUID, 0, len(shares))
	for _, s := range shares {
		sharedIDs = append(sharedIDs, s.LedgerID)
	}

	var ledgers []models.Ledger
	query := database.DB.Where("created_by = ?", userID)
	if len(sharedIDs) > 0 {
		query = query.Or("id IN ?", sharedIDs)
	}
	query.Order("created_at DESC").Find(&ledgers)

	utils.SuccessResponse(c, http.StatusOK, "", ledgers)
}

// GET /api/ledgers/:id
func GetLedger(c *gin.Context) {
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

	var ledger models.Ledger
	if err := database.DB.
		Preload("Participants", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Participants.Items").
		Preload("Participants.Payments").
		Preload("Shares.User").
		First(&ledger, ledgerID).Error; err != nil {
		utils.NotFound(c, "Ledger not found")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", ledger)
}

// PUT /api/ledgers/:id
func UpdateLedger(c *gin.Context) {
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

	var req models.UpdateLedgerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	var ledger models.Ledger
	if err := database.DB.First(&ledger, ledgerID).Error; err != nil {
		utils.NotFound(c, "Ledger not found")
		return
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Currency != "" {
		updates["currency"] = req.Currency
	}
	database.DB.Model(&ledger).Updates(updates)

	utils.SuccessResponse(c, http.StatusOK, "Ledger updated", ledger)
}

// DELETE /api/ledgers/:id — owner only
func DeleteLedger(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	ledgerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid ledger ID")
		return
	}

	var ledger models.Ledger
	if err := database.DB.First(&ledger, ledgerID).Error; err != nil {
		utils.NotFound(c, "Ledger not found")
		return
	}
	if ledger.CreatedBy != userID {
		utils.Unauthorized(c, "Only the owner can delete a ledger")
		return
	}

	var participants []models.Participant
	database.DB.Where("ledger_id = ?", ledgerID).Find(&participants)
	for _, p := range participants {
		database.DB.Where("participant_id = ?", p.ID).Delete(&models.ExpenseItem{})
		database.DB.Where("participant_id = ?", p.ID).Delete(&models.Payment{})
	}
	database.DB.Where("ledger_id = ?", ledgerID).Delete(&models.Participant{})
	database.DB.Where("ledger_id = ?", ledgerID).Delete(&models.LedgerShare{})
	database.DB.Where("ledger_id = ?", ledgerID).Delete(&models.LedgerInvite{})
	database.DB.Where("ledger_id = ?", ledgerID).Delete(&models.Activity{})
	database.DB.Delete(&ledger)

	invalidateSettlementCache(ledgerID)

	utils.SuccessResponse(c, http.StatusOK, "Ledger deleted", nil)
}

// POST /api/ledgers/:id/share
func ShareLedger(c *gin.Context) {
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

	var req models.ShareLedgerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Unregistered emails get a pending invite that converts into a share
	// when they sign up.
	var recipient models.User
	if err := database.DB.Where("email = ?", email).First(&recipient).Error; err != nil {
		go services.InviteToLedger(ledgerID, userID, email)
		utils.SuccessResponse(c, http.StatusCreated, "Invitation sent", nil)
		return
	}
	if recipient.ID == userID {
		utils.BadRequest(c, "Cannot share a ledger with yourself")
		return
	}

	var existing models.LedgerShare
	if err := database.DB.Where("ledger_id = ? AND user_id = ?", ledgerID, recipient.ID).First(&existing).Error; err == nil {
		utils.BadRequest(c, "Ledger already shared with this user")
		return
	}

	share := models.LedgerShare{LedgerID: ledgerID, UserID: recipient.ID}
	if err := database.DB.Create(&share).Error; err != nil {
		utils.InternalError(c, "Failed to share ledger")
		return
	}

	var owner models.User
	database.DB.First(&owner, userID)
	var ledger models.Ledger
	database.DB.First(&ledger, ledgerID)

	database.DB.Create(&models.Activity{
		LedgerID:    ledgerID,
		UserID:      userID,
		Type:        "ledger_shared",
		ReferenceID: recipient.ID,
		Description: fmt.Sprintf("%s shared %s with %s", owner.Name, ledger.Name, recipient.Name),
	})

	// Notify the recipient
	go services.GetNotificationService().NotifyLedgerShared(ledger, owner, recipient)

	utils.SuccessResponse(c, http.StatusCreated, "Ledger shared", share)
}
