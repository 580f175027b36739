// Package model contains the data structures of the application.
package model

// Message roles. The set is closed: every ChatMessage is one or the other.
const (
	RoleHuman     = "human"
	RoleAssistant = "assistant"
)

// ChatMessage is a single message of the conversation history.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// HistoryRecord is the persisted form of one message, kept compatible
// with the chatHistory.json layout the ingestion tooling and earlier
// deployments use: {"type": "human"|"ai", "content": "..."}.
type HistoryRecord struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// ToRecord converts an in-memory message to its persisted form.
func (m ChatMessage) ToRecord() HistoryRecord {
	t := "human"
	if m.Role == RoleAssistant {
		t = "ai"
	}
	return HistoryRecord{Type: t, Content: m.Content}
}

// MessageFromRecord converts a persisted record back to a message.
// Returns false for records with an unknown type tag.
func MessageFromRecord(r HistoryRecord) (ChatMessage, bool) {
	switch r.Type {
	case "human":
		return ChatMessage{Role: RoleHuman, Content: r.Content}, true
	case "ai":
		return ChatMessage{Role: RoleAssistant, Content: r.Content}, true
	}
	return ChatMessage{}, false
}
