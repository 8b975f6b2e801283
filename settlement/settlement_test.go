package settlement

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func participant(name string, spent, paid float64) Participant {
	p := Participant{Name: name}
	if spent != 0 {
		p.Items = []Item{{Name: "stuff", Value: spent}}
	}
	if paid != 0 {
		p.Payments = []float64{paid}
	}
	return p
}

func TestAggregate(t *testing.T) {
	t.Parallel()

	participants := []Participant{
		{
			Name:     "Alice",
			Items:    []Item{{Name: "hotel", Value: 120}, {Name: "dinner", Value: 45.5}},
			Payments: []float64{100, 80},
		},
		{Name: "Bob"},
	}

	balances, totalSpent, totalPaid := Aggregate(participants)

	require.Len(t, balances, 2)
	assert.Equal(t, "Alice", balances[0].Name)
	assert.InDelta(t, 165.5, balances[0].Spent, 1e-9)
	assert.InDelta(t, 180.0, balances[0].Paid, 1e-9)
	assert.InDelta(t, 14.5, balances[0].Net, 1e-9)

	// No items, no payments contributes zero everywhere.
	assert.Equal(t, Balance{Name: "Bob"}, balances[1])

	assert.InDelta(t, 165.5, totalSpent, 1e-9)
	assert.InDelta(t, 180.0, totalPaid, 1e-9)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Validate(100, 100))
	assert.NoError(t, Validate(100, 100.009))
	assert.NoError(t, Validate(0, 0))

	err := Validate(100, 105)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrImbalance)
	assert.Equal(t, "Totals do not match", err.Error())
}

func TestComputeTwoParticipants(t *testing.T) {
	t.Parallel()

	transfers, err := Compute([]Participant{
		participant("Alice", 10, 30),
		participant("Bob", 20, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, []Transfer{{From: "Bob", To: "Alice", Amount: 20}}, transfers)
}

func TestComputeLargestCreditorFirst(t *testing.T) {
	t.Parallel()

	transfers, err := Compute([]Participant{
		participant("Alice", 0, 30),
		participant("Bob", 0, 10),
		participant("Carol", 40, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, []Transfer{
		{From: "Carol", To: "Alice", Amount: 30},
		{From: "Carol", To: "Bob", Amount: 10},
	}, transfers)
}

func TestComputeImbalancedLedger(t *testing.T) {
	t.Parallel()

	transfers, err := Compute([]Participant{
		participant("Alice", 10, 0),
		participant("Bob", 0, 15),
	})
	assert.ErrorIs(t, err, ErrImbalance)
	assert.Nil(t, transfers)
}

func TestComputeSingleSettledParticipant(t *testing.T) {
	t.Parallel()

	transfers, err := Compute([]Participant{{Name: "Alice"}})
	require.NoError(t, err)
	assert.Empty(t, transfers)
}

func TestComputeEmptyLedger(t *testing.T) {
	t.Parallel()

	transfers, err := Compute(nil)
	require.NoError(t, err)
	assert.Empty(t, transfers)
}

func TestComputeBothPointersAdvance(t *testing.T) {
	t.Parallel()

	// Amounts match exactly at each step, so creditor and debtor pointers
	// advance together and two transfers settle four participants.
	transfers, err := Compute([]Participant{
		participant("Alice", 0, 25),
		participant("Bob", 0, 25),
		participant("Carol", 25, 0),
		participant("Dave", 25, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, []Transfer{
		{From: "Carol", To: "Alice", Amount: 25},
		{From: "Dave", To: "Bob", Amount: 25},
	}, transfers)
}

func TestComputeTieBreakIsInputOrder(t *testing.T) {
	t.Parallel()

	// Equal creditor amounts keep ledger order regardless of name.
	transfers, err := Compute([]Participant{
		participant("Zoe", 0, 25),
		participant("Amy", 0, 25),
		participant("Carol", 50, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, []Transfer{
		{From: "Carol", To: "Zoe", Amount: 25},
		{From: "Carol", To: "Amy", Amount: 25},
	}, transfers)
}

func TestComputeDeterministic(t *testing.T) {
	t.Parallel()

	ledger := []Participant{
		participant("Alice", 12.5, 40),
		participant("Bob", 27.5, 20),
		participant("Carol", 30, 10),
	}

	first, err := Compute(ledger)
	require.NoError(t, err)
	second, err := Compute(ledger)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestComputeDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	ledger := []Participant{
		participant("Alice", 10, 30),
		participant("Bob", 20, 0),
	}

	_, err := Compute(ledger)
	require.NoError(t, err)

	assert.Equal(t, participant("Alice", 10, 30), ledger[0])
	assert.Equal(t, participant("Bob", 20, 0), ledger[1])
}

func TestComputeFloatingPointDust(t *testing.T) {
	t.Parallel()

	// A hundred split three ways never reduces to clean decimals. The walk
	// must still terminate without emitting a near-zero dust transfer.
	share := 100.0 / 3.0
	transfers, err := Compute([]Participant{
		{Name: "Alice", Items: []Item{{Name: "share", Value: share}}, Payments: []float64{100}},
		{Name: "Bob", Items: []Item{{Name: "share", Value: share}}},
		{Name: "Carol", Items: []Item{{Name: "share", Value: share}}},
	})
	require.NoError(t, err)

	require.Len(t, transfers, 2)
	for _, tr := range transfers {
		assert.Equal(t, "Alice", tr.To)
		assert.InDelta(t, share, tr.Amount, 1e-9)
		assert.Greater(t, tr.Amount, 0.0)
	}
}

func TestComputeConservation(t *testing.T) {
	t.Parallel()

	ledger := []Participant{
		{
			Name:     "Alice",
			Items:    []Item{{Name: "hotel", Value: 240}, {Name: "taxi", Value: 32.4}},
			Payments: []float64{400},
		},
		{
			Name:     "Bob",
			Items:    []Item{{Name: "dinner", Value: 96.6}},
			Payments: []float64{50, 19},
		},
		{
			Name:     "Carol",
			Items:    []Item{{Name: "tickets", Value: 100}},
			Payments: []float64{0},
		},
	}

	balances, totalSpent, totalPaid := Aggregate(ledger)
	require.NoError(t, Validate(totalSpent, totalPaid))

	transfers := Match(balances)

	// Every transfer is strictly positive and the list is bounded by
	// creditors + debtors - 1.
	var creditors, debtors int
	for _, b := range balances {
		if b.Net > 0 {
			creditors++
		} else if b.Net < 0 {
			debtors++
		}
	}
	assert.LessOrEqual(t, len(transfers), creditors+debtors-1)

	// Inflows match each creditor's surplus, outflows each debtor's deficit.
	in := map[string]float64{}
	out := map[string]float64{}
	for _, tr := range transfers {
		assert.Greater(t, tr.Amount, 0.0)
		in[tr.To] += tr.Amount
		out[tr.From] += tr.Amount
	}
	for _, b := range balances {
		switch {
		case b.Net > 0:
			assert.InDelta(t, b.Net, in[b.Name], 1e-9, "creditor %s", b.Name)
		case b.Net < 0:
			assert.InDelta(t, -b.Net, out[b.Name], 1e-9, "debtor %s", b.Name)
		default:
			assert.NotContains(t, in, b.Name)
			assert.NotContains(t, out, b.Name)
		}
	}

	// After applying every transfer, all balances are zero.
	final := map[string]float64{}
	for _, b := range balances {
		final[b.Name] = b.Net
	}
	for _, tr := range transfers {
		final[tr.From] += tr.Amount
		final[tr.To] -= tr.Amount
	}
	for name, net := range final {
		assert.InDelta(t, 0, net, 1e-9, "participant %s", name)
	}
}

func TestMatchDropsZeroBalances(t *testing.T) {
	t.Parallel()

	transfers := Match([]Balance{
		{Name: "Alice", Net: 10},
		{Name: "Bob", Net: 0},
		{Name: "Carol", Net: -10},
	})
	require.Len(t, transfers, 1)
	assert.Equal(t, Transfer{From: "Carol", To: "Alice", Amount: 10}, transfers[0])
}

func TestValidateToleranceBoundary(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Validate(0, 0.01))
	assert.Error(t, Validate(0, 0.01+1e-6))
	assert.NoError(t, Validate(math.Pi, math.Pi))
}
