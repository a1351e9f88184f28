package dashboard

import (
	"sort"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/money"
)

// BudgetStatus classifies a category's budget consumption.
type BudgetStatus string

const (
	BudgetStatusNone     BudgetStatus = "none"
	BudgetStatusOK       BudgetStatus = "ok"
	BudgetStatusWarning  BudgetStatus = "warning"
	BudgetStatusExceeded BudgetStatus = "exceeded"
)

// DayPoint is one day of the target month's income/expense series.
type DayPoint struct {
	Day     int     `json:"day"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// CategorySpend is one row of the category breakdown, ordered by spend.
type CategorySpend struct {
	Name        string       `json:"name"`
	Spent       float64      `json:"spent"`
	Color       string       `json:"color"`
	BudgetLimit float64      `json:"budget_limit"`
	Percent     float64      `json:"percent"`
	Status      BudgetStatus `json:"status"`
}

// PeriodStats is the aggregated dashboard payload for one month.
type PeriodStats struct {
	Year              int             `json:"year"`
	Month             int             `json:"month"`
	Balance           float64         `json:"balance"`
	MonthlyIncome     float64         `json:"monthly_income"`
	MonthlyExpense    float64         `json:"monthly_expense"`
	IncomeChangePct   float64         `json:"income_change_pct"`
	ExpenseChangePct  float64         `json:"expense_change_pct"`
	DailySeries       []DayPoint      `json:"daily_series"`
	CategoryBreakdown []CategorySpend `json:"category_breakdown"`
}

// Aggregate computes the dashboard stats for the given month.
//
// Monthly totals and the category breakdown use billing-resolved
// buckets; the daily series plots bucket members by their raw
// day-of-month. The balance spans the entire history regardless of the
// target month. An empty transaction list yields all-zero stats.
func Aggregate(txs []models.Transaction, year int, month time.Month, profile *models.Profile, categories []models.Category) *PeriodStats {
	var closingDay *int
	if profile != nil {
		closingDay = profile.CreditCardClosingDay
	}

	prevYear, prevMonth := previousMonth(year, month)
	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()

	var balanceCents int64
	var incomeCents, expenseCents int64
	var prevIncomeCents, prevExpenseCents int64

	daily := make([]DayPoint, daysInMonth)
	for i := range daily {
		daily[i].Day = i + 1
	}
	dailyIncome := make([]int64, daysInMonth+1)
	dailyExpense := make([]int64, daysInMonth+1)
	spentByCategory := make(map[string]int64)

	for i := range txs {
		tx := &txs[i]
		date, err := ParseDate(tx.Date)
		if err != nil {
			continue
		}
		cents := money.ToCents(tx.Amount)

		if tx.Type == models.TransactionTypeIncome {
			balanceCents += cents
		} else {
			balanceCents -= cents
		}

		if billsInPeriod(tx, date, year, month, closingDay) {
			switch tx.Type {
			case models.TransactionTypeIncome:
				incomeCents += cents
			case models.TransactionTypeExpense:
				expenseCents += cents
				spentByCategory[tx.Category] += cents
			}
			if day := date.Day(); day <= daysInMonth {
				if tx.Type == models.TransactionTypeIncome {
					dailyIncome[day] += cents
				} else {
					dailyExpense[day] += cents
				}
			}
		}

		if billsInPeriod(tx, date, prevYear, prevMonth, closingDay) {
			switch tx.Type {
			case models.TransactionTypeIncome:
				prevIncomeCents += cents
			case models.TransactionTypeExpense:
				prevExpenseCents += cents
			}
		}
	}

	for i := range daily {
		daily[i].Income = money.FromCents(dailyIncome[i+1])
		daily[i].Expense = money.FromCents(dailyExpense[i+1])
	}

	return &PeriodStats{
		Year:              year,
		Month:             int(month),
		Balance:           money.FromCents(balanceCents),
		MonthlyIncome:     money.FromCents(incomeCents),
		MonthlyExpense:    money.FromCents(expenseCents),
		IncomeChangePct:   percentChange(prevIncomeCents, incomeCents),
		ExpenseChangePct:  percentChange(prevExpenseCents, expenseCents),
		DailySeries:       daily,
		CategoryBreakdown: breakdown(spentByCategory, categories),
	}
}

// percentChange implements the dashboard's month-over-month formula.
// A previous month of zero shows +100% for any nonzero current value
// rather than dividing by zero.
func percentChange(prev, cur int64) float64 {
	if prev == 0 {
		if cur > 0 {
			return 100
		}
		return 0
	}
	return float64(cur-prev) / float64(prev) * 100
}

func previousMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}

func breakdown(spentByCategory map[string]int64, categories []models.Category) []CategorySpend {
	byName := make(map[string]*models.Category, len(categories))
	for i := range categories {
		byName[categories[i].Name] = &categories[i]
	}

	rows := make([]CategorySpend, 0, len(spentByCategory))
	for name, cents := range spentByCategory {
		row := CategorySpend{
			Name:   name,
			Spent:  money.FromCents(cents),
			Color:  models.FallbackCategoryColor,
			Status: BudgetStatusNone,
		}
		if cat, ok := byName[name]; ok {
			row.Color = cat.Color
			row.BudgetLimit = cat.BudgetLimit
		}
		if row.BudgetLimit > 0 {
			ratio := float64(cents) / float64(money.ToCents(row.BudgetLimit))
			capped := ratio
			if capped > 1 {
				capped = 1
			}
			row.Percent = capped * 100
			switch {
			case ratio >= 1:
				row.Status = BudgetStatusExceeded
			case ratio >= 0.75:
				row.Status = BudgetStatusWarning
			default:
				row.Status = BudgetStatusOK
			}
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Spent != rows[j].Spent {
			return rows[i].Spent > rows[j].Spent
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}
