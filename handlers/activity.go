package handlers

import (
	"net/http"
	"splitledger-backend/database"
	"splitledger-backend/models"
	"splitledger-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// accessibleLedgerIDs collects every ledger the user owns or has shared.
func accessibleLedgerIDs(userID uuid.UUID) []uuid.UUID {
	var ledgers []models.Ledger
	database.DB.Where("created_by = ?", userID).Find(&ledgers)

	var shares []models.LedgerShare
	database.DB.Where("user_id = ?", userID).Find(&shares)

	ids := make([]uuid.UUID, 0, len(ledgers)+len(shares))
	for _, l := range ledgers {
		ids = append(ids, l.ID)
	}
	for _, s := range shares {
		ids = append(ids, s.LedgerID)
	}
	return ids
}

// GET /api/activity — global activity feed for current user
func GetActivity(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	var pagination utils.PaginationQuery
	c.ShouldBindQuery(&pagination)

	ledgerIDs := accessibleLedgerIDs(userID)

	var activities []models.Activity
	if len(ledgerIDs) > 0 {
		database.DB.Where("ledger_id IN ?", ledgerIDs).
			Preload("User").
			Order("created_at DESC").
			Offset(pagination.Offset()).
			Limit(pagination.Limit).
			Find(&activities)

		// Attach ledger names
		ledgerNames := make(map[uuid.UUID]string)
		var ledgers []models.Ledger
		database.DB.Where("id IN ?", ledgerIDs).Find(&ledgers)
		for _, l := range ledgers {
			ledgerNames[l.ID] = l.Name
		}
		for i := range activities {
			activities[i].LedgerName = ledgerNames[activities[i].LedgerID]
		}
	}

	utils.SuccessResponse(c, http.StatusOK, "", activities)
}

// GET /api/ledgers/:id/activity — activity feed for a specific ledger
func GetLedgerActivity(c *gin.Context) {
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

	var pagination utils.PaginationQuery
	c.ShouldBindQuery(&pagination)

	var activities []models.Activity
	database.DB.Where("ledger_id = ?", ledgerID).
		Preload("User").
		Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit).
		Find(&activities)

	utils.SuccessResponse(c, http.StatusOK, "", activities)
}
