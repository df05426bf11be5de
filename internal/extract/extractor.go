// Package extract wraps the AI document-scanning service behind a small
// opaque interface: raw text or a photographed document in, best-effort
// purchase-order fields out. Failures surface as a single human-readable
// error; there are no retries.
package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Fields is the structured record pulled from a purchase-order document.
// Every field is optional; Confidence is the model's own low/medium/high
// estimate.
type Fields struct {
	PONumber   *string `json:"poNumber"`
	PartNumber *string `json:"partNumber"`
	Quantity   *int    `json:"quantity"`
	DueDate    *string `json:"dueDate"` // YYYY-MM-DD
	Customer   *string `json:"customer"`
	Notes      *string `json:"notes"`
	Confidence string  `json:"confidence"`
}

var ErrNotConfigured = errors.New("scanning is not configured on this server")

const systemPrompt = `You extract purchase-order data from shop paperwork.
Respond with a single JSON object with these keys: poNumber, partNumber,
quantity (integer), dueDate (YYYY-MM-DD), customer, notes, confidence
(one of "low", "medium", "high"). Use null for anything you cannot find.`

type Extractor struct {
	client *openai.Client
	model  string
}

// New returns an extractor, or one that reports ErrNotConfigured on every
// call when no API key is set.
func New(apiKey, model string) *Extractor {
	e := &Extractor{model: model}
	if apiKey != "" {
		e.client = openai.NewClient(apiKey)
	}
	return e
}

func (e *Extractor) Enabled() bool { return e.client != nil }

// FromText extracts fields from already-OCRed or typed text.
func (e *Extractor) FromText(ctx context.Context, text string) (*Fields, error) {
	if e.client == nil {
		return nil, ErrNotConfigured
	}
	return e.complete(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: text},
	})
}

// FromImage extracts fields from a photographed document, supplied as a
// base64 payload (with or without a data-URI prefix).
func (e *Extractor) FromImage(ctx context.Context, imageBase64 string) (*Fields, error) {
	if e.client == nil {
		return nil, ErrNotConfigured
	}
	url := imageBase64
	if !strings.HasPrefix(url, "data:") {
		url = "data:image/jpeg;base64," + imageBase64
	}
	return e.complete(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: "Extract the purchase-order fields from this document."},
				{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: url}},
			},
		},
	})
}

func (e *Extractor) complete(ctx context.Context, messages []openai.ChatCompletionMessage) (*Fields, error) {
	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    e.model,
		Messages: messages,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("document scan failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("document scan failed: empty response")
	}

	var fields Fields
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &fields); err != nil {
		return nil, fmt.Errorf("document scan returned malformed data: %w", err)
	}
	if fields.Confidence == "" {
		fields.Confidence = "low"
	}
	return &fields, nil
}
