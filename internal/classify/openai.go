package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spec-kit/ticket-triage/internal/config"
	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/pkg/util/errorutil"
)

// systemPrompt pins the output contract. The model must answer with a
// single JSON object matching domain.Classification.
const systemPrompt = `You are a customer support ticket analyst. Analyze the ticket and respond with a single JSON object and nothing else:
{"summary": "<one sentence summary>", "category": "<billing|technical|feature_request|general>", "priority": "<low|medium|high|critical>", "sentiment_score": <float between 0.0 and 1.0, 0.0 = very negative, 1.0 = very positive>}`

// OpenAIClassifier talks to any OpenAI-compatible chat completions API
// (OpenAI, Azure OpenAI, OpenRouter, vLLM, Ollama, llama.cpp, etc.).
type OpenAIClassifier struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	maxTokens  int
}

// NewOpenAIClassifier creates a classifier from config.
func NewOpenAIClassifier(cfg config.ClassifierConfig) *OpenAIClassifier {
	return &OpenAIClassifier{
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		maxTokens:  cfg.MaxTokens,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Classify sends the ticket text to the chat completions endpoint and
// decodes the structured classification from the reply. Transport
// errors, non-2xx statuses, malformed payloads, and out-of-contract
// values all surface as errors; nothing is retried here.
func (c *OpenAIClassifier) Classify(ctx context.Context, rawContent string) (domain.Classification, error) {
	wireRequest := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: "Analyze this customer support ticket:\n\n" + rawContent},
		},
		MaxTokens:      c.maxTokens,
		Temperature:    0,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	body, err := json.Marshal(wireRequest)
	if err != nil {
		return domain.Classification{}, errorutil.NewClassificationError(fmt.Errorf("encode request: %w", err))
	}

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return domain.Classification{}, errorutil.NewClassificationError(err)
	}
	httpRequest.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpRequest.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	httpResponse, err := c.httpClient.Do(httpRequest)
	if err != nil {
		return domain.Classification{}, errorutil.NewClassificationError(err)
	}
	defer httpResponse.Body.Close()

	responseBody, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return domain.Classification{}, errorutil.NewClassificationError(fmt.Errorf("read response: %w", err))
	}

	if httpResponse.StatusCode < 200 || httpResponse.StatusCode >= 300 {
		return domain.Classification{}, errorutil.NewClassificationError(
			fmt.Errorf("classification service returned %d: %s", httpResponse.StatusCode, truncateBody(responseBody)))
	}

	var wireResponse chatResponse
	if err := json.Unmarshal(responseBody, &wireResponse); err != nil {
		return domain.Classification{}, errorutil.NewClassificationError(fmt.Errorf("decode response: %w", err))
	}
	if wireResponse.Error != nil {
		return domain.Classification{}, errorutil.NewClassificationError(
			fmt.Errorf("classification service error: %s", wireResponse.Error.Message))
	}
	if len(wireResponse.Choices) == 0 {
		return domain.Classification{}, errorutil.NewClassificationError(fmt.Errorf("response contains no choices"))
	}

	var classification domain.Classification
	if err := json.Unmarshal([]byte(wireResponse.Choices[0].Message.Content), &classification); err != nil {
		return domain.Classification{}, errorutil.NewClassificationError(fmt.Errorf("decode classification: %w", err))
	}
	if err := classification.Validate(); err != nil {
		return domain.Classification{}, errorutil.NewClassificationError(err)
	}

	return classification, nil
}

// truncateBody keeps error messages readable when the upstream answers
// with a large payload.
func truncateBody(body []byte) string {
	const limit = 512
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit]) + "..."
}
