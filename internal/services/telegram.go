package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// TelegramConfig represents Telegram notification configuration
type TelegramConfig struct {
	BotToken string
	ChatID   string
}

// TelegramService sends back-office notifications via the Telegram Bot API.
// With no bot token configured the service logs and drops messages, so the
// shop works without Telegram in development.
type TelegramService struct {
	config  TelegramConfig
	client  *http.Client
	baseURL string
}

// NewTelegramService creates a new Telegram notification service
func NewTelegramService(config TelegramConfig) *TelegramService {
	return &TelegramService{
		config:  config,
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: "https://api.telegram.org",
	}
}

// Enabled reports whether the service has credentials to send messages
func (s *TelegramService) Enabled() bool {
	return s.config.BotToken != "" && s.config.ChatID != ""
}

// SendMessage sends a plain-text message to the configured chat
func (s *TelegramService) SendMessage(text string) error {
	if !s.Enabled() {
		log.Printf("Telegram disabled, dropping notification: %s", text)
		return nil
	}

	payload := map[string]string{
		"chat_id": s.config.ChatID,
		"text":    text,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode telegram message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.baseURL, s.config.BotToken)
	resp, err := s.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Description string `json:"description"`
		}
		json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("telegram API error: status %d: %s", resp.StatusCode, apiErr.Description)
	}
	return nil
}

// NotifyNewOrder notifies the back office about a new order
func (s *TelegramService) NotifyNewOrder(humanOrderNumber, athleteName string, totalAmount int) error {
	text := fmt.Sprintf("New order %s\nAthlete: %s\nTotal: %d.%02d",
		humanOrderNumber, athleteName, totalAmount/100, totalAmount%100)
	return s.SendMessage(text)
}
