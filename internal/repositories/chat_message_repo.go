package repositories

import "kmonitor/internal/models"

// ChatMessageRepository defines the interface for chat message data access.
// Messages are append-only.
type ChatMessageRepository interface {
	Create(message *models.ChatMessage) error
	// GetByUserID returns the user's most recent limit messages in
	// ascending chronological order.
	GetByUserID(userID string, limit int) ([]models.ChatMessage, error)
}
