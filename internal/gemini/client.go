// Package gemini backs the assistant's model boundary with the Gemini
// API: the chat collaborator with function calling, the bank-statement
// parser, and the financial-advice report generator.
package gemini

import (
	"context"
	"errors"
	"net/http"

	"google.golang.org/genai"

	"fintrack/internal/chat"
	apperrors "fintrack/internal/errors"
)

// Client wraps a genai client for one configured model.
type Client struct {
	genai *genai.Client
	model string
}

// NewClient creates a Gemini client. The API key comes from
// configuration; an empty key should disable the assistant before this
// constructor is reached.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrExternalService, err)
	}
	return &Client{genai: c, model: model}, nil
}

// Chat sends one conversation turn and maps the response onto the
// orchestrator's boundary contract.
func (c *Client) Chat(ctx context.Context, req *chat.TurnRequest) (*chat.TurnReply, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(chatSystemPrompt(req.UserContext), genai.RoleUser),
		Tools:             []*genai.Tool{{FunctionDeclarations: mutationTools()}},
		Temperature:       genai.Ptr[float32](0.5),
	}

	contents := make([]*genai.Content, 0, len(req.History)+1)
	for _, msg := range req.History {
		if msg.Text == "" {
			continue
		}
		role := genai.RoleUser
		if msg.Role == chat.RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(msg.Text, genai.Role(role)))
	}

	parts := []*genai.Part{{Text: req.Message}}
	if req.Attachment != nil && len(req.Attachment.Data) > 0 {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{
				MIMEType: req.Attachment.MIMEType,
				Data:     req.Attachment.Data,
			},
		})
	}
	contents = append(contents, &genai.Content{Role: string(genai.RoleUser), Parts: parts})

	resp, err := c.genai.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return nil, mapAPIError(err)
	}

	reply := &chat.TurnReply{Text: resp.Text()}
	for _, fc := range resp.FunctionCalls() {
		reply.ToolCalls = append(reply.ToolCalls, chat.ToolCall{Name: fc.Name, Args: fc.Args})
	}
	reply.Sources = extractSources(resp)
	return reply, nil
}

// mutationTools declares the three transaction mutation functions the
// model may call.
func mutationTools() []*genai.FunctionDeclaration {
	paymentMethods := []string{"CREDIT_CARD", "DEBIT_CARD", "CASH", "PIX", "OTHER"}
	return []*genai.FunctionDeclaration{
		{
			Name:        "addTransaction",
			Description: "Adiciona uma transação financeira. Use installmentCount acima de 1 para compras parceladas.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"description":      {Type: genai.TypeString},
					"amount":           {Type: genai.TypeNumber, Description: "Valor total da compra"},
					"type":             {Type: genai.TypeString, Enum: []string{"INCOME", "EXPENSE"}},
					"date":             {Type: genai.TypeString, Description: "Data no formato YYYY-MM-DD"},
					"category":         {Type: genai.TypeString},
					"paymentMethod":    {Type: genai.TypeString, Enum: paymentMethods},
					"installmentCount": {Type: genai.TypeInteger, Description: "Número de parcelas mensais"},
				},
				Required: []string{"description", "amount", "type", "date", "category"},
			},
		},
		{
			Name:        "deleteTransaction",
			Description: "Remove uma transação pelo ID informado no contexto.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"id": {Type: genai.TypeString},
				},
				Required: []string{"id"},
			},
		},
		{
			Name:        "editTransaction",
			Description: "Edita campos de uma transação existente. Informe apenas os campos a alterar.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"id":            {Type: genai.TypeString},
					"description":   {Type: genai.TypeString},
					"amount":        {Type: genai.TypeNumber},
					"type":          {Type: genai.TypeString, Enum: []string{"INCOME", "EXPENSE"}},
					"date":          {Type: genai.TypeString},
					"category":      {Type: genai.TypeString},
					"paymentMethod": {Type: genai.TypeString, Enum: paymentMethods},
				},
				Required: []string{"id"},
			},
		},
	}
}

func extractSources(resp *genai.GenerateContentResponse) []chat.Source {
	var sources []chat.Source
	for _, cand := range resp.Candidates {
		if cand.GroundingMetadata == nil {
			continue
		}
		for _, chunk := range cand.GroundingMetadata.GroundingChunks {
			if chunk.Web == nil {
				continue
			}
			sources = append(sources, chat.Source{Title: chunk.Web.Title, URI: chunk.Web.URI})
		}
	}
	return sources
}

// mapAPIError converts genai transport errors into the app taxonomy.
// A 429 from the provider surfaces as the distinguished rate-limit kind.
func mapAPIError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return apperrors.Wrap(apperrors.ErrRateLimited, err)
	}
	return apperrors.Wrap(apperrors.ErrExternalService, err)
}
