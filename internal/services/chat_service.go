package services

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"kmonitor/internal/models"
	"kmonitor/internal/repositories"
)

var (
	litersPattern = regexp.MustCompile(`(?i)(\d+,?\d*)\s*l`)
	pricePattern  = regexp.MustCompile(`(?i)r\$?\s*(\d+,?\d*)`)
)

// parseFuelValues extracts liters and total price from a refueling message.
// Numbers use a decimal comma. Any malformed or missing value fails the
// match as a whole; parsing never errors outward.
func parseFuelValues(content string) (liters, totalPrice float64, ok bool) {
	litersMatch := litersPattern.FindStringSubmatch(content)
	priceMatch := pricePattern.FindStringSubmatch(content)
	if litersMatch == nil || priceMatch == nil {
		return 0, 0, false
	}

	liters, err := strconv.ParseFloat(strings.ReplaceAll(litersMatch[1], ",", "."), 64)
	if err != nil || liters <= 0 {
		return 0, 0, false
	}
	totalPrice, err = strconv.ParseFloat(strings.ReplaceAll(priceMatch[1], ",", "."), 64)
	if err != nil || totalPrice <= 0 {
		return 0, 0, false
	}
	return liters, totalPrice, true
}

func containsAny(content string, keywords ...string) bool {
	lower := strings.ToLower(content)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// chatRule pairs an intent predicate with its responder. Rules are tried
// in declaration order; the first match wins.
type chatRule struct {
	match   func(content string) bool
	respond func(s *ChatService, userID, content string) (string, *models.MessageMetadata)
}

// chatRules is the ordered intent table. The fuel-keyword rules come
// before the consumption rule; new intents are appended without touching
// existing branches.
var chatRules = []chatRule{
	{
		// Refueling with parseable liters and price.
		match: func(content string) bool {
			if !containsAny(content, "abastec", "gasolina") {
				return false
			}
			_, _, ok := parseFuelValues(content)
			return ok
		},
		respond: (*ChatService).respondFuelRecorded,
	},
	{
		// Refueling mentioned, but the numbers are missing or malformed.
		match: func(content string) bool {
			return containsAny(content, "abastec", "gasolina")
		},
		respond: (*ChatService).respondFuelClarification,
	},
	{
		match: func(content string) bool {
			return containsAny(content, "consumo", "média")
		},
		respond: (*ChatService).respondTrends,
	},
	{
		match: func(content string) bool {
			return containsAny(content, "foto", "painel")
		},
		respond: (*ChatService).respondInsights,
	},
	{
		match:   func(string) bool { return true },
		respond: (*ChatService).respondDefault,
	},
}

// ChatService persists conversations and synthesizes assistant replies
// from an ordered rule table. It holds no conversation state between
// calls; everything it needs lives in the store.
type ChatService struct {
	messageRepo repositories.ChatMessageRepository
	vehicleRepo repositories.VehicleRepository
	fuelService *FuelRecordService
}

// NewChatService creates a new ChatService.
func NewChatService(messageRepo repositories.ChatMessageRepository, vehicleRepo repositories.VehicleRepository, fuelService *FuelRecordService) *ChatService {
	return &ChatService{
		messageRepo: messageRepo,
		vehicleRepo: vehicleRepo,
		fuelService: fuelService,
	}
}

// ListMessages returns the user's most recent limit messages in ascending
// chronological order.
func (s *ChatService) ListMessages(userID string, limit int) ([]models.ChatMessage, error) {
	return s.messageRepo.GetByUserID(userID, limit)
}

// Append persists a single message for the user.
func (s *ChatService) Append(userID string, insert *models.InsertChatMessage) (*models.ChatMessage, error) {
	message := &models.ChatMessage{
		UserID:   userID,
		Type:     insert.Type,
		Content:  insert.Content,
		Metadata: insert.Metadata,
	}
	if err := s.messageRepo.Create(message); err != nil {
		return nil, fmt.Errorf("failed to create chat message: %w", err)
	}
	return message, nil
}

// ProcessMessage persists the inbound message, classifies it against the
// rule table and persists the synthesized reply. Both messages are
// returned. The responder itself never fails on user input; only storage
// errors surface.
func (s *ChatService) ProcessMessage(userID, content, messageType string) (*models.ChatMessage, *models.ChatMessage, error) {
	userMessage, err := s.Append(userID, &models.InsertChatMessage{
		Type:    messageType,
		Content: content,
	})
	if err != nil {
		return nil, nil, err
	}

	var reply string
	var metadata *models.MessageMetadata
	for _, rule := range chatRules {
		if rule.match(content) {
			reply, metadata = rule.respond(s, userID, content)
			break
		}
	}

	aiMessage, err := s.Append(userID, &models.InsertChatMessage{
		Type:     models.MessageTypeKmonitor,
		Content:  reply,
		Metadata: metadata,
	})
	if err != nil {
		return nil, nil, err
	}
	return userMessage, aiMessage, nil
}

// respondFuelRecorded parses the refueling values, stores a fuel record
// against the user's first vehicle when one exists, and asks the client
// to render the analysis view.
func (s *ChatService) respondFuelRecorded(userID, content string) (string, *models.MessageMetadata) {
	liters, totalPrice, ok := parseFuelValues(content)
	if !ok {
		// The matching rule already parsed these values.
		return s.respondFuelClarification(userID, content)
	}
	pricePerLiter := totalPrice / liters

	vehicles, err := s.vehicleRepo.GetByUserID(userID)
	if err != nil {
		log.Printf("Failed to list vehicles for user %s while recording fuel: %v", userID, err)
	} else if len(vehicles) > 0 {
		insert := &models.InsertFuelRecord{
			Liters:        liters,
			PriceTotal:    totalPrice,
			PricePerLiter: pricePerLiter,
		}
		if _, err := s.fuelService.Record(vehicles[0].ID, insert); err != nil {
			log.Printf("Failed to store fuel record from chat for user %s: %v", userID, err)
		}
	}

	reply := fmt.Sprintf(
		"Perfeito! Analisei seu abastecimento de %gL por R$ %.2f. Seu consumo está sendo calculado e você fez uma boa escolha!",
		liters, totalPrice,
	)
	return reply, &models.MessageMetadata{
		Kind: models.MetadataAnalysis,
		FuelData: &models.FuelData{
			Liters:        liters,
			TotalPrice:    totalPrice,
			PricePerLiter: pricePerLiter,
		},
	}
}

func (s *ChatService) respondFuelClarification(string, string) (string, *models.MessageMetadata) {
	return "Entendi que você abasteceu! Pode me dar mais detalhes sobre a quantidade de litros e o valor pago?", nil
}

func (s *ChatService) respondTrends(string, string) (string, *models.MessageMetadata) {
	return "Seu consumo está muito bom! Vou mostrar os detalhes e tendências dos últimos meses.",
		&models.MessageMetadata{Kind: models.MetadataTrends}
}

// respondInsights is a stub: no image analysis happens, the insight
// entries are canned.
func (s *ChatService) respondInsights(string, string) (string, *models.MessageMetadata) {
	return "Identifiquei os dados da sua foto! Vou analisar as informações do painel para você.",
		&models.MessageMetadata{
			Kind: models.MetadataInsights,
			Insights: []models.Insight{
				{Icon: "MapPin", Text: "Dados extraídos do painel com sucesso"},
				{Icon: "Fuel", Text: "Nível de combustível identificado"},
				{Icon: "Clock", Text: "Quilometragem atual registrada"},
			},
		}
}

func (s *ChatService) respondDefault(string, string) (string, *models.MessageMetadata) {
	return "Estou aqui para ajudar com seu monitoramento de combustível! Pode me contar sobre abastecimentos, consumo, ou enviar fotos do painel.", nil
}
