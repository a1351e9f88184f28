package integration

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"fintrack/internal/chat"
	"fintrack/internal/gemini"
	"fintrack/internal/models"
)

func TestAssistantFlow_ChatAddsTransaction(t *testing.T) {
	app := setupApp(t)
	token, _, userID := app.registerUser(t, "assistant@test.com", "password123")

	app.Model.ChatFn = func(_ context.Context, req *chat.TurnRequest) (*chat.TurnReply, error) {
		return &chat.TurnReply{
			Text: "Anotado! Registrei sua compra no mercado.",
			ToolCalls: []chat.ToolCall{
				{Name: "addTransaction", Args: map[string]any{
					"amount":      87.9,
					"description": "Mercado",
					"type":        "EXPENSE",
					"category":    "Alimentação",
					"date":        "2026-03-14",
				}},
			},
		}, nil
	}

	rec := app.request("POST", "/api/v1/assistant/chat",
		`{"message":"gastei 87,90 no mercado hoje"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("chat failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	confirmations := result["confirmations"].([]interface{})
	if len(confirmations) != 1 || confirmations[0] != "✅ Transação adicionada com sucesso!" {
		t.Fatalf("unexpected confirmations: %v", confirmations)
	}

	// The tool call landed in storage
	var txs []models.Transaction
	if err := app.DB.Where("user_id = ?", userID).Find(&txs).Error; err != nil {
		t.Fatalf("failed to load transactions: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("expected 1 persisted transaction, got %d", len(txs))
	}
	if txs[0].Amount != 87.9 || txs[0].Category != "Alimentação" {
		t.Errorf("unexpected persisted transaction: %+v", txs[0])
	}
}

func TestAssistantFlow_ChatReceivesUserContext(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "context@test.com", "password123")

	rec := app.request("PUT", "/api/v1/profile",
		`{"name":"Test","monthly_salary":6500,"financial_goals":"Reserva de emergência"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("save profile failed: %d", rec.Code)
	}
	rec = app.request("POST", "/api/v1/transactions",
		`{"type":"EXPENSE","amount":42.5,"description":"Padaria","date":"2026-03-01"}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create transaction failed: %d", rec.Code)
	}

	var captured string
	app.Model.ChatFn = func(_ context.Context, req *chat.TurnRequest) (*chat.TurnReply, error) {
		captured = req.UserContext
		return &chat.TurnReply{Text: "ok"}, nil
	}

	rec = app.request("POST", "/api/v1/assistant/chat", `{"message":"como estão minhas finanças?"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("chat failed: %d %s", rec.Code, rec.Body.String())
	}

	if !strings.Contains(captured, "Padaria") {
		t.Errorf("expected transaction snapshot in context, got %q", captured)
	}
	if !strings.Contains(captured, "PERFIL: Salário R$6500.00, Meta: Reserva de emergência") {
		t.Errorf("expected profile line in context, got %q", captured)
	}
}

func TestAssistantFlow_HistoryAndReset(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "history@test.com", "password123")

	rec := app.request("POST", "/api/v1/assistant/chat", `{"message":"oi"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("chat failed: %d", rec.Code)
	}

	rec = app.request("GET", "/api/v1/assistant/history", "", token)
	result := parseJSON(t, rec)
	history := result["history"].([]interface{})
	if len(history) != 2 {
		t.Fatalf("expected 2 history messages, got %d", len(history))
	}

	rec = app.request("DELETE", "/api/v1/assistant/chat", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("reset failed: %d", rec.Code)
	}

	rec = app.request("GET", "/api/v1/assistant/history", "", token)
	result = parseJSON(t, rec)
	history = result["history"].([]interface{})
	if len(history) != 0 {
		t.Errorf("expected empty history after reset, got %d messages", len(history))
	}
}

func TestAssistantFlow_ParseThenImport(t *testing.T) {
	app := setupApp(t)
	token, _, userID := app.registerUser(t, "parse@test.com", "password123")

	app.Model.ParseFn = func(_ context.Context, req *gemini.ParseRequest) ([]gemini.ParsedTransaction, error) {
		return []gemini.ParsedTransaction{
			{Date: "2026-03-03", Description: "Farmácia", Amount: 35.2, Type: "EXPENSE", Category: "Saúde"},
			{Date: "2026-03-05", Description: "Pix recebido", Amount: 150, Type: "INCOME", Category: "Outros"},
		}, nil
	}

	rec := app.uploadFile(t, "/api/v1/assistant/parse", "extrato.csv", "text/csv",
		"data,descricao,valor\n2026-03-03,Farmácia,35.20\n2026-03-05,Pix recebido,150.00\n", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("parse failed: %d %s", rec.Code, rec.Body.String())
	}
	parsed := parseJSON(t, rec)
	candidates := parsed["transactions"].([]interface{})
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidate rows, got %d", len(candidates))
	}

	// Parsing alone persists nothing
	var count int64
	app.DB.Model(&models.Transaction{}).Where("user_id = ?", userID).Count(&count)
	if count != 0 {
		t.Fatalf("expected no persisted rows after parse, got %d", count)
	}

	// The user confirms via batch import
	rec = app.request("POST", "/api/v1/transactions/batch",
		`{"transactions":[
			{"type":"EXPENSE","amount":35.2,"description":"Farmácia","category":"Saúde","date":"2026-03-03"},
			{"type":"INCOME","amount":150,"description":"Pix recebido","category":"Outros","date":"2026-03-05"}
		]}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("batch import failed: %d %s", rec.Code, rec.Body.String())
	}

	app.DB.Model(&models.Transaction{}).Where("user_id = ?", userID).Count(&count)
	if count != 2 {
		t.Errorf("expected 2 imported transactions, got %d", count)
	}
}

func TestAssistantFlow_ModelFailureKeepsApologyInHistory(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "failure@test.com", "password123")

	app.Model.ChatFn = func(_ context.Context, _ *chat.TurnRequest) (*chat.TurnReply, error) {
		return nil, context.DeadlineExceeded
	}

	rec := app.request("POST", "/api/v1/assistant/chat", `{"message":"oi"}`, token)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = app.request("GET", "/api/v1/assistant/history", "", token)
	result := parseJSON(t, rec)
	history := result["history"].([]interface{})
	if len(history) != 2 {
		t.Fatalf("expected user message plus apology, got %d messages", len(history))
	}
	last := history[1].(map[string]interface{})
	if !strings.Contains(last["text"].(string), "Desculpe") {
		t.Errorf("expected apology message, got %v", last["text"])
	}
}
