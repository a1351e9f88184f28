package services

import (
	"context"
	"time"

	"fintrack/internal/chat"
	"fintrack/internal/dashboard"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// TransactionInput holds the fields for creating a single transaction.
type TransactionInput struct {
	Date          string
	Description   string
	Amount        float64
	Type          models.TransactionType
	Category      string
	PaymentMethod models.PaymentMethod
}

// TransactionUpdateFields holds optional fields for a partial update.
// Nil fields are left unchanged.
type TransactionUpdateFields struct {
	Date          *string
	Description   *string
	Amount        *float64
	Type          *models.TransactionType
	Category      *string
	PaymentMethod *models.PaymentMethod
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate *string
	ToDate   *string
	Type     *models.TransactionType
	Category *string
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID string, input TransactionInput) (*models.Transaction, error)
	CreateTransactionBatch(userID string, rows []models.Transaction) ([]models.Transaction, error)
	GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetRecentTransactions(userID string, limit int) ([]models.Transaction, error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID string, fields TransactionUpdateFields) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	GetUserCategories(userID string) ([]models.Category, error)
	CreateCategory(userID, name, color string, budgetLimit float64) (*models.Category, error)
	GetCategoryByID(userID, categoryID string) (*models.Category, error)
	UpdateCategory(userID, categoryID string, name, color *string, budgetLimit *float64) (*models.Category, error)
	DeleteCategory(userID, categoryID string) error
}

// ProfileInput holds the full profile payload; saves replace the row
// wholesale rather than diffing fields.
type ProfileInput struct {
	Name                 string
	MonthlySalary        float64
	FinancialGoals       string
	Bio                  string
	AvatarURL            string
	CreditCardClosingDay *int
	CreditCardDueDay     *int
}

// ProfileServicer defines the contract for finance-profile logic.
type ProfileServicer interface {
	GetProfile(userID string) (*models.Profile, error)
	UpsertProfile(userID string, input ProfileInput) (*models.Profile, error)
}

// DashboardServicer defines the contract for dashboard aggregation.
type DashboardServicer interface {
	GetStats(ctx context.Context, userID string, year int, month time.Month) (*dashboard.PeriodStats, error)
}

// AssistantServicer builds model context snapshots and applies the
// model's tool calls; it satisfies chat.ToolApplier.
type AssistantServicer interface {
	BuildUserContext(userID string) (string, error)
	Apply(userID string, call chat.ToolCall) (string, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]any)
}
