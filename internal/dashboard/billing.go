// Package dashboard computes monthly aggregates over a user's
// transaction history, including credit-card billing-cycle
// reassignment and per-category budget tracking.
package dashboard

import (
	"time"

	"fintrack/internal/models"
)

// DateLayout is the calendar-date format used by transaction rows.
const DateLayout = "2006-01-02"

// ParseDate parses an ISO YYYY-MM-DD transaction date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// ResolveBillingPeriod returns the billing year/month a transaction
// belongs to.
//
// Only CREDIT_CARD transactions with a configured closing day are
// reassigned: a purchase on or after the closing day bills in the next
// month, wrapping December into January of the following year. The
// comparison is purely numeric; a closing day of 30 or 31 is never
// clamped to the month's actual length.
func ResolveBillingPeriod(date time.Time, method models.PaymentMethod, closingDay *int) (int, time.Month) {
	year, month, day := date.Date()
	if method != models.PaymentMethodCreditCard || closingDay == nil {
		return year, month
	}
	if day >= *closingDay {
		if month == time.December {
			return year + 1, time.January
		}
		return year, month + 1
	}
	return year, month
}

// billsInPeriod reports whether a transaction bills in the given
// year/month. Billing reassignment applies to credit-card expenses
// only; everything else buckets by its raw calendar month.
func billsInPeriod(tx *models.Transaction, date time.Time, year int, month time.Month, closingDay *int) bool {
	if tx.Type == models.TransactionTypeExpense && tx.PaymentMethod == models.PaymentMethodCreditCard {
		y, m := ResolveBillingPeriod(date, tx.PaymentMethod, closingDay)
		return y == year && m == month
	}
	return date.Year() == year && date.Month() == month
}
