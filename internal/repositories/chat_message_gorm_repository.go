package repositories

import (
	"fmt"

	"kmonitor/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMChatMessageRepository is a GORM implementation of ChatMessageRepository.
type GORMChatMessageRepository struct {
	db *gorm.DB
}

// NewGORMChatMessageRepository creates a new instance of GORMChatMessageRepository.
func NewGORMChatMessageRepository(db *gorm.DB) *GORMChatMessageRepository {
	return &GORMChatMessageRepository{
		db: db,
	}
}

// Create appends a new message to the database.
func (r *GORMChatMessageRepository) Create(message *models.ChatMessage) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if err := r.db.Create(message).Error; err != nil {
		return fmt.Errorf("failed to create chat message: %w", err)
	}
	return nil
}

// GetByUserID returns the user's most recent limit messages in ascending
// chronological order. The newest rows are selected first, then reversed.
func (r *GORMChatMessageRepository) GetByUserID(userID string, limit int) ([]models.ChatMessage, error) {
	query := r.db.Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var messages []models.ChatMessage
	if err := query.Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to get chat messages for user %s: %w", userID, err)
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
