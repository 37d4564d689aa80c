// Package chat provides a client for an OpenAI-compatible chat completion
// API, used by the FAQ chatbot sidebar.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gramseva/gram-seva-backend/internal/config"
	"github.com/gramseva/gram-seva-backend/pkg/logger"
)

// SystemPrompt is the fixed instruction the bot always runs with.
const SystemPrompt = "You are the Gram Seva chatbot. You can:\n" +
	"- Register complaints (e.g., 'I want to report a water issue.')\n" +
	"- Track complaint status (e.g., 'What happened to my complaint ID 123?')\n" +
	"- Show local info (e.g., 'Who is the supervisor of my village?')\n" +
	"- Announce updates (e.g., 'Important: Water supply cut tomorrow.')\n" +
	"- Answer FAQs (e.g., 'What documents are needed for a birth certificate?')\n" +
	"- Connect users to a supervisor (e.g., 'Talk to a live officer').\n" +
	"If a user asks to register a complaint, ask for details. If they want to track, " +
	"ask for their complaint ID. For local info, ask for their village. For supervisor, " +
	"provide contact info if available. For FAQs, answer helpfully."

// FallbackReply is returned to the citizen when the provider fails.
const FallbackReply = "Sorry, something went wrong. Please try again."

// Message is one turn of the conversation sent to the provider.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client calls the chat completion provider.
type Client struct {
	apiURL string
	apiKey string
	model  string
	log    *logger.Logger
	http   *http.Client
}

// NewClient creates a new chat completion client.
func NewClient(cfg *config.ChatConfig, log *logger.Logger) *Client {
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = "https://api.groq.com/openai/v1/chat/completions"
	}
	model := cfg.Model
	if model == "" {
		model = "mixtral-8x7b-32768"
	}
	return &Client{
		apiURL: apiURL,
		apiKey: cfg.APIKey,
		model:  model,
		log:    log,
		http:   &http.Client{Timeout: 30 * time.Second},
	}
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// Complete sends the system prompt, prior history and the new user message,
// returning the single reply string. No streaming, no function calling.
func (c *Client) Complete(ctx context.Context, message string, history []Message) (string, error) {
	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{Role: "system", Content: SystemPrompt})
	messages = append(messages, history...)
	messages = append(messages, Message{Role: "user", Content: message})

	payload, err := json.Marshal(completionRequest{Model: c.model, Messages: messages})
	if err != nil {
		return "", fmt.Errorf("failed to marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call chat provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat provider returned status %d", resp.StatusCode)
	}

	var body completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}

	if len(body.Choices) == 0 || body.Choices[0].Message.Content == "" {
		return "Sorry, I didn't understand that.", nil
	}

	c.log.Debug().
		Int("history_len", len(history)).
		Msg("Chat completion returned")

	return body.Choices[0].Message.Content, nil
}
