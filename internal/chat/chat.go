// Package chat implements the conversational mutation orchestrator: a
// per-user session holding chat history and a bounded user-context
// snapshot, driving one model round trip at a time and applying the
// structured tool calls the model returns.
package chat

import "context"

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Source is a retrieval citation attached to a model reply.
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// AttachmentInfo describes an attachment without carrying its content.
type AttachmentInfo struct {
	Name     string `json:"name"`
	MIMEType string `json:"mime_type"`
}

// Message is one entry in a session's append-only history.
type Message struct {
	ID         string          `json:"id"`
	Role       Role            `json:"role"`
	Text       string          `json:"text"`
	Sources    []Source        `json:"sources,omitempty"`
	Attachment *AttachmentInfo `json:"attachment,omitempty"`
}

// Attachment is the content of a file sent with a user turn.
//
// Text holds locally extracted content for document formats and is
// concatenated into the outgoing message. Data holds opaque binary
// payloads (image, PDF, audio) forwarded to the model untouched; the
// orchestrator never interprets these bytes.
type Attachment struct {
	Name     string
	MIMEType string
	Text     string
	Data     []byte
}

// ToolCall is a structured mutation request returned by the model.
type ToolCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

// TurnRequest is the boundary contract sent to the model collaborator.
type TurnRequest struct {
	Message     string
	History     []Message
	UserContext string
	Attachment  *Attachment
}

// TurnReply is the model collaborator's response.
type TurnReply struct {
	Text      string
	ToolCalls []ToolCall
	Sources   []Source
}

// ModelClient is the language-model collaborator boundary.
type ModelClient interface {
	Chat(ctx context.Context, req *TurnRequest) (*TurnReply, error)
}

// ToolApplier applies a single tool call against the user's data,
// returning a confirmation message for the chat history. An empty
// confirmation means the call was ignored.
type ToolApplier interface {
	Apply(userID string, call ToolCall) (string, error)
}

// TurnResult is what a completed turn hands back to the HTTP layer.
type TurnResult struct {
	Reply         string    `json:"reply"`
	Sources       []Source  `json:"sources,omitempty"`
	Confirmations []string  `json:"confirmations,omitempty"`
	History       []Message `json:"history"`
}
