package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"fintrack/internal/chat"
	"fintrack/internal/models"
	"fintrack/internal/testutil"
)

func newAssistantForTest(t *testing.T) (AssistantServicer, TransactionServicer, string, func()) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	txSvc := NewTransactionService(db, nil)
	profileSvc := NewProfileService(db, nil)
	user := testutil.CreateTestUser(t, db)
	svc := NewAssistantService(txSvc, profileSvc)
	return svc, txSvc, user.ID, func() { testutil.TeardownTestDB(t, db) }
}

func TestBuildUserContext(t *testing.T) {
	t.Run("renders_transactions_and_profile", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, nil)
		profileSvc := NewProfileService(db, nil)
		user := testutil.CreateTestUser(t, db)
		svc := NewAssistantService(txSvc, profileSvc)

		tx := &models.Transaction{
			UserID:        user.ID,
			Date:          "2026-03-10",
			Description:   "Mercado",
			Amount:        120.5,
			Type:          models.TransactionTypeExpense,
			Category:      "Alimentação",
			PaymentMethod: models.PaymentMethodPix,
		}
		testutil.AssertNoError(t, db.Create(tx).Error)
		testutil.CreateTestProfile(t, db, user.ID, 6000, nil)
		testutil.AssertNoError(t, db.Model(&models.Profile{}).
			Where("user_id = ?", user.ID).
			Update("financial_goals", "Comprar um carro").Error)

		ctx, err := svc.BuildUserContext(user.ID)
		testutil.AssertNoError(t, err)

		wantLine := fmt.Sprintf("[ID:%s] 2026-03-10: Mercado (Alimentação) EXPENSE R$120.50", tx.ID)
		if !strings.Contains(ctx, wantLine) {
			t.Errorf("context missing transaction line %q in:\n%s", wantLine, ctx)
		}
		if !strings.Contains(ctx, "PERFIL: Salário R$6000.00, Meta: Comprar um carro") {
			t.Errorf("context missing profile line in:\n%s", ctx)
		}
	})

	t.Run("caps_at_fifty_rows", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, nil)
		profileSvc := NewProfileService(db, nil)
		user := testutil.CreateTestUser(t, db)
		svc := NewAssistantService(txSvc, profileSvc)

		for i := 0; i < 60; i++ {
			date := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i).Format("2006-01-02")
			testutil.CreateTestTransactionOnDate(t, db, user.ID, models.TransactionTypeExpense, 1, "A", date)
		}

		ctx, err := svc.BuildUserContext(user.ID)
		testutil.AssertNoError(t, err)

		if n := strings.Count(ctx, "[ID:"); n != 50 {
			t.Errorf("expected 50 transaction lines, got %d", n)
		}
	})

	t.Run("no_profile_line_without_profile", func(t *testing.T) {
		svc, _, userID, teardown := newAssistantForTest(t)
		defer teardown()

		ctx, err := svc.BuildUserContext(userID)
		testutil.AssertNoError(t, err)

		if strings.Contains(ctx, "PERFIL") {
			t.Errorf("expected no profile line, got:\n%s", ctx)
		}
	})
}

func TestApplyAddTransaction(t *testing.T) {
	t.Run("single", func(t *testing.T) {
		svc, txSvc, userID, teardown := newAssistantForTest(t)
		defer teardown()

		msg, err := svc.Apply(userID, chat.ToolCall{
			Name: "addTransaction",
			Args: map[string]any{
				"amount":      50.0,
				"description": "Lanche",
				"type":        "EXPENSE",
				"category":    "Alimentação",
				"date":        "2026-03-10",
			},
		})
		testutil.AssertNoError(t, err)

		if msg != "✅ Transação adicionada com sucesso!" {
			t.Errorf("unexpected confirmation: %q", msg)
		}

		recent, err := txSvc.GetRecentTransactions(userID, 10)
		testutil.AssertNoError(t, err)
		if len(recent) != 1 {
			t.Fatalf("expected 1 transaction, got %d", len(recent))
		}
		if recent[0].Amount != 50 || recent[0].Category != "Alimentação" {
			t.Errorf("unexpected row: %+v", recent[0])
		}
	})

	t.Run("defaults", func(t *testing.T) {
		svc, txSvc, userID, teardown := newAssistantForTest(t)
		defer teardown()

		_, err := svc.Apply(userID, chat.ToolCall{
			Name: "addTransaction",
			Args: map[string]any{"amount": 10.0, "description": "Algo"},
		})
		testutil.AssertNoError(t, err)

		recent, err := txSvc.GetRecentTransactions(userID, 10)
		testutil.AssertNoError(t, err)
		row := recent[0]
		if row.Type != models.TransactionTypeExpense {
			t.Errorf("expected EXPENSE default, got %s", row.Type)
		}
		if row.Category != models.FallbackCategoryName {
			t.Errorf("expected fallback category, got %s", row.Category)
		}
		if row.Date != time.Now().Format("2006-01-02") {
			t.Errorf("expected today's date, got %s", row.Date)
		}
	})

	t.Run("installments", func(t *testing.T) {
		svc, txSvc, userID, teardown := newAssistantForTest(t)
		defer teardown()

		msg, err := svc.Apply(userID, chat.ToolCall{
			Name: "addTransaction",
			Args: map[string]any{
				"amount":           300.0,
				"description":      "Celular",
				"type":             "EXPENSE",
				"category":         "Compras",
				"date":             "2026-01-10",
				"installmentCount": 3.0,
			},
		})
		testutil.AssertNoError(t, err)

		if msg != "✅ Adicionei 3 parcelas de R$ 100.00." {
			t.Errorf("unexpected confirmation: %q", msg)
		}

		recent, err := txSvc.GetRecentTransactions(userID, 10)
		testutil.AssertNoError(t, err)
		if len(recent) != 3 {
			t.Fatalf("expected 3 rows, got %d", len(recent))
		}
		for _, row := range recent {
			if row.PaymentMethod != models.PaymentMethodCreditCard {
				t.Errorf("installments should default to CREDIT_CARD, got %s", row.PaymentMethod)
			}
			if !row.IsInstallment() {
				t.Errorf("row %s should carry installment tags", row.ID)
			}
		}
	})

	t.Run("missing_amount", func(t *testing.T) {
		svc, _, userID, teardown := newAssistantForTest(t)
		defer teardown()

		_, err := svc.Apply(userID, chat.ToolCall{
			Name: "addTransaction",
			Args: map[string]any{"description": "Sem valor"},
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestApplyDeleteTransaction(t *testing.T) {
	t.Run("deletes_and_confirms", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, nil)
		user := testutil.CreateTestUser(t, db)
		svc := NewAssistantService(txSvc, NewProfileService(db, nil))
		tx := testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, 10, "A")

		msg, err := svc.Apply(user.ID, chat.ToolCall{
			Name: "deleteTransaction",
			Args: map[string]any{"id": tx.ID},
		})
		testutil.AssertNoError(t, err)

		if msg != "🗑️ Transação removida." {
			t.Errorf("unexpected confirmation: %q", msg)
		}
		_, err = txSvc.GetTransactionByID(user.ID, tx.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})

	t.Run("unknown_id_still_confirms", func(t *testing.T) {
		svc, _, userID, teardown := newAssistantForTest(t)
		defer teardown()

		msg, err := svc.Apply(userID, chat.ToolCall{
			Name: "deleteTransaction",
			Args: map[string]any{"id": "00000000-0000-0000-0000-000000000000"},
		})
		testutil.AssertNoError(t, err)
		if msg != "🗑️ Transação removida." {
			t.Errorf("unexpected confirmation: %q", msg)
		}
	})

	t.Run("missing_id", func(t *testing.T) {
		svc, _, userID, teardown := newAssistantForTest(t)
		defer teardown()

		_, err := svc.Apply(userID, chat.ToolCall{Name: "deleteTransaction", Args: map[string]any{}})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestApplyEditTransaction(t *testing.T) {
	t.Run("partial_edit", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, nil)
		user := testutil.CreateTestUser(t, db)
		svc := NewAssistantService(txSvc, NewProfileService(db, nil))
		tx := testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, 10, "A")

		msg, err := svc.Apply(user.ID, chat.ToolCall{
			Name: "editTransaction",
			Args: map[string]any{"id": tx.ID, "amount": 99.0},
		})
		testutil.AssertNoError(t, err)

		if msg != "✏️ Transação atualizada." {
			t.Errorf("unexpected confirmation: %q", msg)
		}

		updated, err := txSvc.GetTransactionByID(user.ID, tx.ID)
		testutil.AssertNoError(t, err)
		if updated.Amount != 99 {
			t.Errorf("expected amount 99, got %f", updated.Amount)
		}
		if updated.Category != "A" {
			t.Errorf("category should be unchanged, got %s", updated.Category)
		}
	})

	t.Run("unknown_id", func(t *testing.T) {
		svc, _, userID, teardown := newAssistantForTest(t)
		defer teardown()

		_, err := svc.Apply(userID, chat.ToolCall{
			Name: "editTransaction",
			Args: map[string]any{"id": "00000000-0000-0000-0000-000000000000", "amount": 5.0},
		})
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestApplyUnknownTool(t *testing.T) {
	svc, _, userID, teardown := newAssistantForTest(t)
	defer teardown()

	_, err := svc.Apply(userID, chat.ToolCall{Name: "dropAllTables"})
	testutil.AssertAppError(t, err, "INVALID_INPUT")
}
