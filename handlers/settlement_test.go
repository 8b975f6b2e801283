package handlers

import (
	"testing"

	"splitledger-backend/models"
	"splitledger-backend/settlement"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSnapshot(t *testing.T) {
	t.Parallel()

	participants := []models.Participant{
		{
			ID:   uuid.New(),
			Name: "Alice",
			Items: []models.ExpenseItem{
				{Name: "hotel", Value: 120},
				{Name: "dinner", Value: 45.5},
			},
			Payments: []models.Payment{
				{Amount: 100},
				{Amount: 80},
			},
		},
		{ID: uuid.New(), Name: "Bob"},
	}

	snapshot := toSnapshot(participants)

	require.Len(t, snapshot, 2)
	assert.Equal(t, settlement.Participant{
		Name:     "Alice",
		Items:    []settlement.Item{{Name: "hotel", Value: 120}, {Name: "dinner", Value: 45.5}},
		Payments: []float64{100, 80},
	}, snapshot[0])

	// Participants without items or payments map to empty entries.
	assert.Equal(t, settlement.Participant{Name: "Bob"}, snapshot[1])
}

func TestToSnapshotPreservesOrder(t *testing.T) {
	t.Parallel()

	participants := []models.Participant{
		{Name: "Carol", Position: 0},
		{Name: "Alice", Position: 1},
		{Name: "Bob", Position: 2},
	}

	snapshot := toSnapshot(participants)

	require.Len(t, snapshot, 3)
	assert.Equal(t, "Carol", snapshot[0].Name)
	assert.Equal(t, "Alice", snapshot[1].Name)
	assert.Equal(t, "Bob", snapshot[2].Name)
}

func TestToSnapshotFeedsSettlement(t *testing.T) {
	t.Parallel()

	participants := []models.Participant{
		{
			Name:     "Alice",
			Items:    []models.ExpenseItem{{Name: "lunch", Value: 10}},
			Payments: []models.Payment{{Amount: 30}},
		},
		{
			Name:  "Bob",
			Items: []models.ExpenseItem{{Name: "lunch", Value: 20}},
		},
	}

	transfers, err := settlement.Compute(toSnapshot(participants))
	require.NoError(t, err)
	assert.Equal(t, []settlement.Transfer{{From: "Bob", To: "Alice", Amount: 20}}, transfers)
}
