package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Message sender types. The assistant persona is "kmonitor".
const (
	MessageTypeUser     = "user"
	MessageTypeKmonitor = "kmonitor"
)

// Metadata kinds. Each kind tells the client which supplementary view to
// render alongside the reply.
const (
	MetadataAnalysis = "analysis"
	MetadataTrends   = "trends"
	MetadataInsights = "insights"
)

// FuelData carries the values parsed out of a refueling message.
type FuelData struct {
	Liters        float64 `json:"liters"`
	TotalPrice    float64 `json:"total_price"`
	PricePerLiter float64 `json:"price_per_liter"`
}

// Insight is one canned entry of a dashboard-photo reply.
type Insight struct {
	Icon string `json:"icon"`
	Text string `json:"text"`
}

// MessageMetadata is the tagged payload attached to assistant replies.
// Kind selects the variant; FuelData is set for analysis, Insights for
// insights, trends carries no extra fields.
type MessageMetadata struct {
	Kind     string    `json:"kind"`
	FuelData *FuelData `json:"fuel_data,omitempty"`
	Insights []Insight `json:"insights,omitempty"`
}

// Value encodes the metadata to a JSON text column. Encoding happens only
// at the storage boundary; everything above it works with the struct.
func (m MessageMetadata) Value() (driver.Value, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode message metadata: %w", err)
	}
	return string(b), nil
}

// Scan decodes the metadata from its JSON text column.
func (m *MessageMetadata) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot decode message metadata from %T", value)
	}
	if err := json.Unmarshal(raw, m); err != nil {
		return fmt.Errorf("failed to decode message metadata: %w", err)
	}
	return nil
}

// ChatMessage represents one message in a user's conversation with the
// assistant. Metadata is nil for plain messages.
type ChatMessage struct {
	ID        string           `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string           `json:"user_id" gorm:"index;type:varchar(36)"`
	Type      string           `json:"type" gorm:"type:varchar(20)"`
	Content   string           `json:"content" gorm:"type:text"`
	Metadata  *MessageMetadata `json:"metadata" gorm:"type:text"`
	CreatedAt time.Time        `json:"created_at"`
}

// InsertChatMessage is the payload accepted when appending a message.
type InsertChatMessage struct {
	Type     string           `json:"type" validate:"required,oneof=user kmonitor"`
	Content  string           `json:"content" validate:"required"`
	Metadata *MessageMetadata `json:"metadata"`
}
