package gemini

import (
	"context"
	"encoding/json"
	"strings"

	"google.golang.org/genai"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
)

// ParseRequest carries a document for transaction extraction: either
// locally extracted text or opaque binary content with its mime type.
type ParseRequest struct {
	FileName string
	Text     string
	Data     []byte
	MIMEType string
}

// ParsedTransaction is one candidate row extracted from a document.
type ParsedTransaction struct {
	Date          string  `json:"date"`
	Description   string  `json:"description"`
	Amount        float64 `json:"amount"`
	Type          string  `json:"type"`
	Category      string  `json:"category"`
	PaymentMethod string  `json:"payment_method"`
}

// parsedRow mirrors the model's camelCase output field names.
type parsedRow struct {
	Date          string  `json:"date"`
	Description   string  `json:"description"`
	Amount        float64 `json:"amount"`
	Type          string  `json:"type"`
	Category      string  `json:"category"`
	PaymentMethod string  `json:"paymentMethod"`
}

// ParseStatement extracts candidate transactions from a statement or
// receipt. The result is always a non-nil slice: empty means the model
// found nothing, an undecodable response maps to UNREADABLE_DOCUMENT.
func (c *Client) ParseStatement(ctx context.Context, req *ParseRequest) ([]ParsedTransaction, error) {
	prompt := parsePrompt
	if req.FileName != "" {
		prompt += "\nNome do arquivo: " + req.FileName + "\n"
	}
	if req.Text != "" {
		prompt += "\nConteúdo:\n" + req.Text
	}

	parts := []*genai.Part{{Text: prompt}}
	if len(req.Data) > 0 {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: req.MIMEType, Data: req.Data},
		})
	}
	contents := []*genai.Content{{Role: string(genai.RoleUser), Parts: parts}}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.1),
	}

	resp, err := c.genai.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return nil, mapAPIError(err)
	}

	raw := strings.TrimSpace(resp.Text())
	if raw == "" {
		return nil, apperrors.ErrUnreadableDocument
	}

	var rows []parsedRow
	if err := json.Unmarshal([]byte(cleanModelJSON(raw)), &rows); err != nil {
		logger.Get().Warnw("statement parse returned invalid JSON", "error", err, "raw", raw)
		return nil, apperrors.Wrap(apperrors.ErrUnreadableDocument, err)
	}

	out := make([]ParsedTransaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, ParsedTransaction{
			Date:          row.Date,
			Description:   row.Description,
			Amount:        row.Amount,
			Type:          row.Type,
			Category:      row.Category,
			PaymentMethod: row.PaymentMethod,
		})
	}
	return out, nil
}
