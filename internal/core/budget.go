package core

const (
	StatusOverBudget   = "Over budget!"
	StatusWithinBudget = "Within budget"
)

// BudgetStatus compares a user's monthly budget against everything they spent.
type BudgetStatus struct {
	TotalSpent    float64
	MonthlyBudget float64
	Remaining     float64
	Status        string
}

// TotalSpent sums the amounts of the given expenses in order.
func TotalSpent(expenses []Expense) float64 {
	var total float64
	for _, e := range expenses {
		total += e.Amount
	}
	return total
}

// TrackBudget builds the budget report. Totals are rounded for display, the
// over/under decision is taken on the unrounded sum.
func TrackBudget(monthlyBudget float64, expenses []Expense) BudgetStatus {
	total := TotalSpent(expenses)
	status := StatusWithinBudget
	if total > monthlyBudget {
		status = StatusOverBudget
	}
	return BudgetStatus{
		TotalSpent:    RoundCents(total),
		MonthlyBudget: monthlyBudget,
		Remaining:     RoundCents(monthlyBudget - total),
		Status:        status,
	}
}

// OverBudget reports whether the report is in the over-budget state.
func (b BudgetStatus) OverBudget() bool {
	return b.Status == StatusOverBudget
}
