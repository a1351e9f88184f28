package dashboard

import (
	"testing"
	"time"

	"fintrack/internal/models"
)

func day(s string) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func intPtr(v int) *int { return &v }

func TestResolveBillingPeriod(t *testing.T) {
	t.Run("non credit card keeps own month", func(t *testing.T) {
		y, m := ResolveBillingPeriod(day("2024-06-28"), models.PaymentMethodPix, intPtr(25))
		if y != 2024 || m != time.June {
			t.Errorf("got %d-%v, want 2024-June", y, m)
		}
	})

	t.Run("no closing day keeps own month", func(t *testing.T) {
		y, m := ResolveBillingPeriod(day("2024-06-28"), models.PaymentMethodCreditCard, nil)
		if y != 2024 || m != time.June {
			t.Errorf("got %d-%v, want 2024-June", y, m)
		}
	})

	t.Run("day before closing day keeps own month", func(t *testing.T) {
		y, m := ResolveBillingPeriod(day("2024-06-24"), models.PaymentMethodCreditCard, intPtr(25))
		if y != 2024 || m != time.June {
			t.Errorf("got %d-%v, want 2024-June", y, m)
		}
	})

	t.Run("day on closing day moves to next month", func(t *testing.T) {
		y, m := ResolveBillingPeriod(day("2024-06-25"), models.PaymentMethodCreditCard, intPtr(25))
		if y != 2024 || m != time.July {
			t.Errorf("got %d-%v, want 2024-July", y, m)
		}
	})

	t.Run("december wraps into january of next year", func(t *testing.T) {
		y, m := ResolveBillingPeriod(day("2024-12-28"), models.PaymentMethodCreditCard, intPtr(25))
		if y != 2025 || m != time.January {
			t.Errorf("got %d-%v, want 2025-January", y, m)
		}
	})

	t.Run("closing day above month length is compared as given", func(t *testing.T) {
		// February 28 with closing day 30: 28 < 30, stays in February.
		y, m := ResolveBillingPeriod(day("2023-02-28"), models.PaymentMethodCreditCard, intPtr(30))
		if y != 2023 || m != time.February {
			t.Errorf("got %d-%v, want 2023-February", y, m)
		}
	})
}
