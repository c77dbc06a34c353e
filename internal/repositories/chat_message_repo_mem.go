package repositories

import (
	"sort"
	"sync"
	"time"

	"kmonitor/internal/models"

	"github.com/google/uuid"
)

// MemChatMessageRepository is an in-memory implementation of ChatMessageRepository.
type MemChatMessageRepository struct {
	messages map[string]models.ChatMessage
	seq      map[string]uint64 // insertion order, breaks CreatedAt ties
	nextSeq  uint64
	mu       sync.RWMutex
}

// NewMemChatMessageRepository creates a new instance of MemChatMessageRepository.
func NewMemChatMessageRepository() *MemChatMessageRepository {
	return &MemChatMessageRepository{
		messages: make(map[string]models.ChatMessage),
		seq:      make(map[string]uint64),
	}
}

// Create appends a new message, assigning an ID and creation time.
func (r *MemChatMessageRepository) Create(message *models.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	message.CreatedAt = time.Now()
	r.messages[message.ID] = *message
	r.nextSeq++
	r.seq[message.ID] = r.nextSeq
	return nil
}

// GetByUserID returns the user's most recent limit messages in ascending
// chronological order: the window is cut from the tail, not the head.
func (r *MemChatMessageRepository) GetByUserID(userID string, limit int) ([]models.ChatMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	messageList := make([]models.ChatMessage, 0)
	for _, message := range r.messages {
		if message.UserID == userID {
			messageList = append(messageList, message)
		}
	}
	sort.Slice(messageList, func(i, j int) bool {
		if messageList[i].CreatedAt.Equal(messageList[j].CreatedAt) {
			return r.seq[messageList[i].ID] < r.seq[messageList[j].ID]
		}
		return messageList[i].CreatedAt.Before(messageList[j].CreatedAt)
	})
	if limit > 0 && len(messageList) > limit {
		messageList = messageList[len(messageList)-limit:]
	}
	return messageList, nil
}
