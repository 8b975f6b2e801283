package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"splitledger-backend/database"
	"splitledger-backend/models"
	"splitledger-backend/settlement"
	"splitledger-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const settlementCacheTTL = 10 * time.Minute

func settlementCacheKey(ledgerID uuid.UUID) string {
	return "settlement:" + ledgerID.String()
}

// invalidateSettlementCache drops the cached settlement for a ledger. Called
// by every handler that mutates the ledger's participants, items or payments.
func invalidateSettlementCache(ledgerID uuid.UUID) {
	if database.Redis == nil {
		return
	}
	database.Redis.Del(context.Background(), settlementCacheKey(ledgerID))
}

// loadSnapshot reads a ledger's participants with their items and payments,
// in insertion order, and maps them to the settlement package's types. The
// core never sees database rows.
func loadSnapshot(ledgerID uuid.UUID) ([]settlement.Participant, error) {
	var participants []models.Participant
	err := database.DB.Where("ledger_id = ?", ledgerID).
		Preload("Items").
		Preload("Payments").
		Order("position ASC").
		Find(&participants).Error
	if err != nil {
		return nil, err
	}
	return toSnapshot(participants), nil
}

func toSnapshot(participants []models.Participant) []settlement.Participant {
	snapshot := make([]settlement.Participant, 0, len(participants))
	for _, p := range participants {
		sp := settlement.Participant{Name: p.Name}
		for _, it := range p.Items {
			sp.Items = append(sp.Items, settlement.Item{Name: it.Name, Value: it.Value})
		}
		for _, pay := range p.Payments {
			sp.Payments = append(sp.Payments, pay.Amount)
		}
		snapshot = append(snapshot, sp)
	}
	return snapshot
}

// GET /api/ledgers/:id/balances
func GetLedgerBalances(c *gin.Context) {
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
	database.DB.First(&ledger, ledgerID)

	var participants []models.Participant
	database.DB.Where("ledger_id = ?", ledgerID).
		Preload("Items").
		Preload("Payments").
		Order("position ASC").
		Find(&participants)

	balances, totalSpent, totalPaid := settlement.Aggregate(toSnapshot(participants))

	// Rounding happens here, at the display boundary only.
	rows := make([]models.ParticipantBalance, 0, len(balances))
	for i, b := range balances {
		rows = append(rows, models.ParticipantBalance{
			ParticipantID: participants[i].ID,
			Name:          b.Name,
			Spent:         utils.RoundToTwo(b.Spent),
			Paid:          utils.RoundToTwo(b.Paid),
			Balance:       utils.RoundToTwo(b.Net),
		})
	}

	summary := models.LedgerBalanceSummary{
		LedgerID:   ledgerID,
		LedgerName: ledger.Name,
		Currency:   ledger.Currency,
		Balances:   rows,
		TotalSpent: utils.RoundToTwo(totalSpent),
		TotalPaid:  utils.RoundToTwo(totalPaid),
	}

	utils.SuccessResponse(c, http.StatusOK, "", summary)
}

// GET /api/ledgers/:id/settlement
func GetSettlement(c *gin.Context) {
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

	// Serve from cache when the ledger hasn't changed since the last view.
	if database.Redis != nil {
		cached, err := database.Redis.Get(context.Background(), settlementCacheKey(ledgerID)).Result()
		if err == nil {
			var response models.SettlementResponse
			if json.Unmarshal([]byte(cached), &response) == nil {
				utils.SuccessResponse(c, http.StatusOK, "", response)
				return
			}
		}
	}

	var ledger models.Ledger
	database.DB.First(&ledger, ledgerID)

	snapshot, err := loadSnapshot(ledgerID)
	if err != nil {
		utils.InternalError(c, "Failed to load ledger")
		return
	}

	transfers, err := settlement.Compute(snapshot)
	if errors.Is(err, settlement.ErrImbalance) {
		// The ledger does not balance. Surfaced verbatim so the user can
		// fix their items and payments.
		utils.BadRequest(c, err.Error())
		return
	}
	if err != nil {
		utils.InternalError(c, "Failed to compute settlement")
		return
	}

	response := models.SettlementResponse{
		LedgerID:  ledgerID,
		Transfers: make([]models.TransferResponse, 0, len(transfers)),
	}
	for _, t := range transfers {
		response.Transfers = append(response.Transfers, models.TransferResponse{
			From:     t.From,
			To:       t.To,
			Amount:   utils.RoundToTwo(t.Amount),
			Currency: ledger.Currency,
		})
	}

	if database.Redis != nil {
		if payload, err := json.Marshal(response); err == nil {
			database.Redis.Set(context.Background(), settlementCacheKey(ledgerID), payload, settlementCacheTTL)
		}
	}

	utils.SuccessResponse(c, http.StatusOK, "", response)
}
