package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"fintrack/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a category with a unique name and no budget limit.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string) *models.Category {
	t.Helper()
	return CreateTestCategoryWithBudget(t, db, userID, 0)
}

// CreateTestCategoryWithBudget creates a category with the given monthly budget limit.
func CreateTestCategoryWithBudget(t *testing.T, db *gorm.DB, userID string, budgetLimit float64) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID:      userID,
		Name:        fmt.Sprintf("Test Category %d", nextID()),
		Color:       "#60a5fa",
		BudgetLimit: budgetLimit,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a transaction of the given type and amount,
// dated today and categorized under the given category name.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID string, txType models.TransactionType, amount float64, category string) *models.Transaction {
	t.Helper()
	return CreateTestTransactionOnDate(t, db, userID, txType, amount, category, time.Now().Format("2006-01-02"))
}

// CreateTestTransactionOnDate creates a transaction on a specific date.
func CreateTestTransactionOnDate(t *testing.T, db *gorm.DB, userID string, txType models.TransactionType, amount float64, category, date string) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:        userID,
		Date:          date,
		Description:   fmt.Sprintf("Test Transaction %d", nextID()),
		Amount:        amount,
		Type:          txType,
		Category:      category,
		PaymentMethod: models.PaymentMethodOther,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestProfile creates a finance profile for the user.
func CreateTestProfile(t *testing.T, db *gorm.DB, userID string, monthlySalary float64, closingDay *int) *models.Profile {
	t.Helper()

	profile := &models.Profile{
		UserID:               userID,
		Name:                 fmt.Sprintf("Test User %d", nextID()),
		MonthlySalary:        monthlySalary,
		CreditCardClosingDay: closingDay,
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("failed to create test profile: %v", err)
	}
	return profile
}
