package services

import (
	"fmt"
	"strings"
	"time"

	"fintrack/internal/chat"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/installments"
	"fintrack/internal/models"
)

// userContextLimit caps how many recent transactions go into the
// model's context snapshot.
const userContextLimit = 50

// assistantService builds model context snapshots and applies the
// model's tool calls against the user's data.
type assistantService struct {
	transactions TransactionServicer
	profiles     ProfileServicer
}

// NewAssistantService creates a new AssistantServicer.
func NewAssistantService(transactions TransactionServicer, profiles ProfileServicer) AssistantServicer {
	return &assistantService{
		transactions: transactions,
		profiles:     profiles,
	}
}

// BuildUserContext renders the user's recent transactions and profile
// into the plain-text snapshot the model receives with every turn.
func (s *assistantService) BuildUserContext(userID string) (string, error) {
	txs, err := s.transactions.GetRecentTransactions(userID, userContextLimit)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, tx := range txs {
		fmt.Fprintf(&b, "[ID:%s] %s: %s (%s) %s R$%.2f\n",
			tx.ID, tx.Date, tx.Description, tx.Category, tx.Type, tx.Amount)
	}

	profile, err := s.profiles.GetProfile(userID)
	if err == nil {
		goals := profile.FinancialGoals
		if goals == "" {
			goals = "Nenhuma"
		}
		fmt.Fprintf(&b, "PERFIL: Salário R$%.2f, Meta: %s\n", profile.MonthlySalary, goals)
	}

	return b.String(), nil
}

// Apply executes one structured tool call. Confirmations are chat
// messages appended to the session history; an empty confirmation
// means the call was a no-op.
func (s *assistantService) Apply(userID string, call chat.ToolCall) (string, error) {
	switch call.Name {
	case "addTransaction":
		return s.applyAdd(userID, call.Args)
	case "deleteTransaction":
		return s.applyDelete(userID, call.Args)
	case "editTransaction":
		return s.applyEdit(userID, call.Args)
	default:
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown tool: "+call.Name)
	}
}

func (s *assistantService) applyAdd(userID string, args map[string]any) (string, error) {
	amount, ok := argFloat(args, "amount")
	if !ok || amount < 0 {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "addTransaction requires a non-negative amount")
	}

	txType := models.TransactionType(argString(args, "type"))
	if txType == "" {
		txType = models.TransactionTypeExpense
	}
	category := argString(args, "category")
	if category == "" {
		category = models.FallbackCategoryName
	}
	date := argString(args, "date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	description := argString(args, "description")

	if count, ok := argInt(args, "installmentCount"); ok && count >= 2 {
		rows, err := installments.Expand(amount, count, date, installments.Template{
			UserID:        userID,
			Description:   description,
			Type:          txType,
			Category:      category,
			PaymentMethod: models.PaymentMethodCreditCard,
		})
		if err != nil {
			return "", apperrors.WithMessage(apperrors.ErrInvalidInstallments, err.Error())
		}
		if _, err := s.transactions.CreateTransactionBatch(userID, rows); err != nil {
			return "", err
		}
		return fmt.Sprintf("✅ Adicionei %d parcelas de R$ %.2f.", count, rows[0].Amount), nil
	}

	paymentMethod := models.PaymentMethod(argString(args, "paymentMethod"))
	_, err := s.transactions.CreateTransaction(userID, TransactionInput{
		Date:          date,
		Description:   description,
		Amount:        amount,
		Type:          txType,
		Category:      category,
		PaymentMethod: paymentMethod,
	})
	if err != nil {
		return "", err
	}
	return "✅ Transação adicionada com sucesso!", nil
}

func (s *assistantService) applyDelete(userID string, args map[string]any) (string, error) {
	id := argString(args, "id")
	if id == "" {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "deleteTransaction requires an id")
	}
	if err := s.transactions.DeleteTransaction(userID, id); err != nil {
		return "", err
	}
	return "🗑️ Transação removida.", nil
}

func (s *assistantService) applyEdit(userID string, args map[string]any) (string, error) {
	id := argString(args, "id")
	if id == "" {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "editTransaction requires an id")
	}

	var fields TransactionUpdateFields
	if v := argString(args, "date"); v != "" {
		fields.Date = &v
	}
	if v := argString(args, "description"); v != "" {
		fields.Description = &v
	}
	if v, ok := argFloat(args, "amount"); ok {
		fields.Amount = &v
	}
	if v := argString(args, "type"); v != "" {
		t := models.TransactionType(v)
		fields.Type = &t
	}
	if v := argString(args, "category"); v != "" {
		fields.Category = &v
	}
	if v := argString(args, "paymentMethod"); v != "" {
		m := models.PaymentMethod(v)
		fields.PaymentMethod = &m
	}

	if _, err := s.transactions.UpdateTransaction(userID, id, fields); err != nil {
		return "", err
	}
	return "✏️ Transação atualizada.", nil
}

// Tool call arguments arrive as decoded JSON, so numbers are float64
// regardless of the declared schema type.

func argString(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

func argFloat(args map[string]any, key string) (float64, bool) {
	switch v := args[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

func argInt(args map[string]any, key string) (int, bool) {
	f, ok := argFloat(args, key)
	if !ok {
		return 0, false
	}
	return int(f), true
}
