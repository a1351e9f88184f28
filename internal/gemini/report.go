package gemini

import (
	"context"
	"encoding/json"
	"strings"

	"google.golang.org/genai"

	apperrors "fintrack/internal/errors"
)

// FinancialAdvice is the structured report the assistant produces from
// a user's transaction history.
type FinancialAdvice struct {
	Summary          string   `json:"summary"`
	SpendingAnalysis string   `json:"spendingAnalysis"`
	Tips             []string `json:"tips"`
}

// Report generates a financial-advice report over the user-context
// snapshot. When the model answers in prose instead of JSON, the text
// is degraded into the analysis field rather than failing the call.
func (c *Client) Report(ctx context.Context, userContext string) (*FinancialAdvice, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(chatSystemPrompt(userContext), genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.5),
	}
	contents := []*genai.Content{genai.NewContentFromText(reportPrompt, genai.RoleUser)}

	resp, err := c.genai.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return nil, mapAPIError(err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, apperrors.ErrExternalService
	}

	var advice FinancialAdvice
	if err := json.Unmarshal([]byte(cleanModelJSON(text)), &advice); err != nil {
		return &FinancialAdvice{
			Summary:          "Análise realizada.",
			SpendingAnalysis: text,
			Tips:             []string{"Verifique seus gastos."},
		}, nil
	}
	return &advice, nil
}
