package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"hotel_reviews/internal/adapters/observability"
)

// OpenAIClassifier asks a chat model for the same (stars, confidence)
// judgment the dedicated sentiment model produces. Useful where no
// inference endpoint is deployed.
type OpenAIClassifier struct {
	client *openai.Client
	model  string
	rl     *rate.Limiter
}

func NewOpenAI(apiKey string, rps int) (*OpenAIClassifier, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if rps <= 0 {
		rps = 3
	}
	return &OpenAIClassifier{
		client: openai.NewClient(apiKey),
		model:  "gpt-4o",
		rl:     rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

const classifyPrompt = `Rate the sentiment of the following review text on a 1-5 star scale.
Respond with only a JSON object of the form {"stars": <1-5>, "confidence": <0.0-1.0>} and nothing else.

Text:
`

type openaiResult struct {
	Stars      int     `json:"stars"`
	Confidence float64 `json:"confidence"`
}

func (c *OpenAIClassifier) Classify(ctx context.Context, text string) (int, float64, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return 0, 0, err
	}

	// Longer inputs get a longer deadline.
	timeout := 30*time.Second + time.Duration(len(text)/500)*time.Second
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: classifyPrompt + text},
		},
	})
	if err != nil {
		observability.ObserveClassifier("openai", 0, time.Since(start))
		return 0, 0, err
	}
	observability.ObserveClassifier("openai", 200, time.Since(start))

	if len(resp.Choices) == 0 {
		return 0, 0, fmt.Errorf("openai: empty response")
	}
	var out openaiResult
	if err := json.Unmarshal([]byte(extractJSON(resp.Choices[0].Message.Content)), &out); err != nil {
		return 0, 0, fmt.Errorf("openai: parse response: %w", err)
	}
	if out.Stars < 1 || out.Stars > 5 {
		return 0, 0, fmt.Errorf("openai: stars %d out of range", out.Stars)
	}
	if out.Confidence < 0 || out.Confidence > 1 {
		return 0, 0, fmt.Errorf("openai: confidence %v out of range", out.Confidence)
	}
	return out.Stars, out.Confidence, nil
}

// extractJSON tolerates code fences and prose around the JSON object.
func extractJSON(s string) string {
	i := strings.IndexByte(s, '{')
	j := strings.LastIndexByte(s, '}')
	if i < 0 || j < i {
		return s
	}
	return s[i : j+1]
}
