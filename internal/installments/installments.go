// Package installments expands a single purchase into a dated series
// of equal monthly slices.
package installments

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
)

const dateLayout = "2006-01-02"

// Template carries the fields copied onto every generated row.
type Template struct {
	UserID        string
	Description   string
	Type          models.TransactionType
	Category      string
	PaymentMethod models.PaymentMethod
}

// Expand generates count transactions for a purchase of totalAmount
// starting at startDate.
//
// Every row carries round(totalAmount/count, 2); the residual cent
// loss is accepted rather than redistributed, so the series may sum to
// slightly less than the total (100.00 over 3 gives three rows of
// 33.33). Dates advance one calendar month per slice using native
// date-overflow rollover: day 31 plus one month lands in the month
// after next, never on a clamped month end.
func Expand(totalAmount float64, count int, startDate string, tmpl Template) ([]models.Transaction, error) {
	if count < 2 {
		return nil, fmt.Errorf("installment count must be at least 2, got %d", count)
	}
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}

	per, _ := decimal.NewFromFloat(totalAmount).
		Div(decimal.NewFromInt(int64(count))).
		Round(2).
		Float64()

	rows := make([]models.Transaction, 0, count)
	for i := 0; i < count; i++ {
		current := i + 1
		total := count
		rows = append(rows, models.Transaction{
			UserID:             tmpl.UserID,
			Date:               start.AddDate(0, i, 0).Format(dateLayout),
			Description:        fmt.Sprintf("%s (%d/%d)", tmpl.Description, current, count),
			Amount:             per,
			Type:               tmpl.Type,
			Category:           tmpl.Category,
			PaymentMethod:      tmpl.PaymentMethod,
			InstallmentCurrent: &current,
			InstallmentTotal:   &total,
		})
	}
	return rows, nil
}
