package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-triage/internal/config"
	"github.com/spec-kit/ticket-triage/internal/domain"
)

func newTestClassifier(serverURL string) *OpenAIClassifier {
	return NewOpenAIClassifier(config.ClassifierConfig{
		BaseURL:        serverURL,
		APIKey:         "test-key",
		Model:          "test-model",
		TimeoutSeconds: 5,
		MaxTokens:      512,
	})
}

func chatCompletionBody(content string) string {
	response := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
	}
	encoded, _ := json.Marshal(response)
	return string(encoded)
}

func TestClassifyDecodesStructuredResult(t *testing.T) {
	var gotAuth string
	var gotRequest chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotRequest)
		fmt.Fprint(w, chatCompletionBody(`{"summary":"Duplicate billing charge","category":"billing","priority":"critical","sentiment_score":0.15}`))
	}))
	defer server.Close()

	classification, err := newTestClassifier(server.URL).Classify(context.Background(), "I was charged twice!")
	require.NoError(t, err)

	assert.Equal(t, "Duplicate billing charge", classification.Summary)
	assert.Equal(t, domain.CategoryBilling, classification.Category)
	assert.Equal(t, domain.PriorityCritical, classification.Priority)
	assert.InDelta(t, 0.15, classification.SentimentScore, 1e-9)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "test-model", gotRequest.Model)
	require.Len(t, gotRequest.Messages, 2)
	assert.Contains(t, gotRequest.Messages[1].Content, "I was charged twice!")
}

func TestClassifyRejectsUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"quota exceeded","type":"rate_limit"}}`)
	}))
	defer server.Close()

	_, err := newTestClassifier(server.URL).Classify(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestClassifyRejectsMalformedContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chatCompletionBody("sorry, I cannot help with that"))
	}))
	defer server.Close()

	_, err := newTestClassifier(server.URL).Classify(context.Background(), "anything")
	require.Error(t, err)
}

func TestClassifyRejectsOutOfContractValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "unknown category",
			content: `{"summary":"s","category":"spam","priority":"low","sentiment_score":0.5}`,
		},
		{
			name:    "unknown priority",
			content: `{"summary":"s","category":"general","priority":"urgent","sentiment_score":0.5}`,
		},
		{
			name:    "sentiment above range",
			content: `{"summary":"s","category":"general","priority":"low","sentiment_score":1.5}`,
		},
		{
			name:    "sentiment below range",
			content: `{"summary":"s","category":"general","priority":"low","sentiment_score":-0.1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, chatCompletionBody(tt.content))
			}))
			defer server.Close()

			_, err := newTestClassifier(server.URL).Classify(context.Background(), "anything")
			require.Error(t, err)
		})
	}
}

func TestClassifyRejectsEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer server.Close()

	_, err := newTestClassifier(server.URL).Classify(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}
