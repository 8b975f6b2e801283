// Package settlement computes the minimal set of peer-to-peer transfers that
// settles a shared-expense ledger. It is a pure library: it reads a snapshot
// of participants, never mutates it, and recomputes everything from scratch
// on every call. Persistence, caching and display rounding are the caller's
// concern.
package settlement

import (
	"errors"
	"math"
	"sort"
)

// Item is a single expense attributed to a participant.
type Item struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Participant is a named party in the ledger, with the expenses attributed
// to them and the payments they made into the shared pool.
type Participant struct {
	Name     string    `json:"name"`
	Items    []Item    `json:"items"`
	Payments []float64 `json:"payments"`
}

// Transfer instructs From to pay Amount to To. Amount is always > 0.
type Transfer struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

// Balance is a participant's net position: payments minus item costs.
// Positive means the group owes them money, negative means they owe.
type Balance struct {
	Name  string  `json:"name"`
	Spent float64 `json:"spent"`
	Paid  float64 `json:"paid"`
	Net   float64 `json:"net"`
}

const (
	// closureTolerance absorbs floating-point drift when checking that the
	// ledger's grand totals agree. One cent, for currency-style values.
	closureTolerance = 0.01

	// residual is the cutoff below which a remaining amount in the greedy
	// walk counts as zero. Repeated subtraction can leave dust like 1e-13
	// where the balances were not clean decimals.
	residual = 1e-9
)

// ErrImbalance is returned when aggregate spend and aggregate payment
// disagree beyond the closure tolerance. The message is shown to the user
// verbatim; the ledger itself must be corrected by editing items or payments.
var ErrImbalance = errors.New("Totals do not match")

// Aggregate reduces every participant to a signed net balance and
// accumulates the ledger-wide totals. Empty item or payment lists simply
// contribute zero; no rounding is applied at this stage.
func Aggregate(participants []Participant) (balances []Balance, totalSpent, totalPaid float64) {
	balances = make([]Balance, 0, len(participants))
	for _, p := range participants {
		var spent, paid float64
		for _, it := range p.Items {
			spent += it.Value
		}
		for _, amount := range p.Payments {
			paid += amount
		}
		balances = append(balances, Balance{
			Name:  p.Name,
			Spent: spent,
			Paid:  paid,
			Net:   paid - spent,
		})
		totalSpent += spent
		totalPaid += paid
	}
	return balances, totalSpent, totalPaid
}

// Validate confirms the ledger is internally closed: every item cost must
// ultimately be covered by some payment, so total spend and total payment
// have to agree within the closure tolerance.
func Validate(totalSpent, totalPaid float64) error {
	if math.Abs(totalSpent-totalPaid) > closureTolerance {
		return ErrImbalance
	}
	return nil
}

type stake struct {
	name   string
	amount float64
}

// Match greedily pairs the largest creditor with the largest debtor until
// both sides are exhausted. Balances must already have passed Validate.
// Participants whose net is exactly zero are dropped; every emitted transfer
// has a strictly positive amount.
func Match(balances []Balance) []Transfer {
	var creditors, debtors []stake
	for _, b := range balances {
		switch {
		case b.Net > 0:
			creditors = append(creditors, stake{b.Name, b.Net})
		case b.Net < 0:
			debtors = append(debtors, stake{b.Name, -b.Net})
		}
	}

	// Stable sort keeps input order as the tie-break on equal amounts, so
	// the same snapshot always yields the same transfer list.
	sort.SliceStable(creditors, func(i, j int) bool { return creditors[i].amount > creditors[j].amount })
	sort.SliceStable(debtors, func(i, j int) bool { return debtors[i].amount > debtors[j].amount })

	transfers := []Transfer{}
	i, j := 0, 0
	for i < len(creditors) && j < len(debtors) {
		amount := math.Min(creditors[i].amount, debtors[j].amount)
		if amount > residual {
			transfers = append(transfers, Transfer{
				From:   debtors[j].name,
				To:     creditors[i].name,
				Amount: amount,
			})
		}
		creditors[i].amount -= amount
		debtors[j].amount -= amount
		if creditors[i].amount <= residual {
			i++
		}
		if debtors[j].amount <= residual {
			j++
		}
	}
	return transfers
}

// Compute runs the full pipeline over a ledger snapshot: aggregate balances,
// validate closure, match debts. It returns either the transfer list (empty
// when every balance is already zero) or ErrImbalance, never both.
func Compute(participants []Participant) ([]Transfer, error) {
	balances, totalSpent, totalPaid := Aggregate(participants)
	if err := Validate(totalSpent, totalPaid); err != nil {
		return nil, err
	}
	return Match(balances), nil
}
