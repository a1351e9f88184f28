package models

// TransactionType represents the direction of a transaction.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// PaymentMethod represents how a transaction was paid.
type PaymentMethod string

const (
	PaymentMethodCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentMethodDebitCard  PaymentMethod = "DEBIT_CARD"
	PaymentMethodCash       PaymentMethod = "CASH"
	PaymentMethodPix        PaymentMethod = "PIX"
	PaymentMethodOther      PaymentMethod = "OTHER"
)

// Transaction represents a single income or expense entry.
//
// Date is stored as an ISO "YYYY-MM-DD" string with no time component.
// Category is a soft reference by name: renaming a category does not
// rewrite historical rows.
type Transaction struct {
	Base
	UserID        string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Date          string          `gorm:"size:10;not null;index" json:"date"`
	Description   string          `gorm:"not null" json:"description"`
	Amount        float64         `gorm:"not null" json:"amount"`
	Type          TransactionType `gorm:"size:10;not null" json:"type"`
	Category      string          `gorm:"not null" json:"category"`
	PaymentMethod PaymentMethod   `gorm:"size:20;not null;default:OTHER" json:"payment_method"`

	// Installment tag. Both nil for single purchases; for a series,
	// 1 <= current <= total with one row per slice.
	InstallmentCurrent *int `json:"installment_current,omitempty"`
	InstallmentTotal   *int `json:"installment_total,omitempty"`
}

// IsInstallment reports whether the transaction is part of an installment series.
func (t *Transaction) IsInstallment() bool {
	return t.InstallmentCurrent != nil && t.InstallmentTotal != nil
}
