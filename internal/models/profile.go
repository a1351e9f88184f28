package models

// Profile holds a user's finance profile. Exactly one per user,
// created lazily and upserted wholesale on every save.
//
// CreditCardClosingDay drives billing-cycle reassignment on the
// dashboard; both day fields accept 1-31 and are nil when unset.
type Profile struct {
	Base
	UserID               string  `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Name                 string  `json:"name"`
	MonthlySalary        float64 `json:"monthly_salary"`
	FinancialGoals       string  `json:"financial_goals"`
	Bio                  string  `json:"bio"`
	AvatarURL            string  `json:"avatar_url"`
	CreditCardClosingDay *int    `json:"credit_card_closing_day,omitempty"`
	CreditCardDueDay     *int    `json:"credit_card_due_day,omitempty"`
}
