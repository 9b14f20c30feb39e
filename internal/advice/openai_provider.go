package advice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fdg312/energy-hub/internal/config"
)

type OpenAIProvider struct {
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	baseURL     string
	httpClient  *http.Client
}

func NewOpenAIProvider(cfg *config.Config) *OpenAIProvider {
	timeoutSeconds := cfg.AITimeoutSeconds
	if timeoutSeconds <= 0 {
		timeoutSeconds = 20
	}

	return &OpenAIProvider{
		apiKey:      cfg.OpenAIAPIKey,
		model:       cfg.OpenAIModel,
		maxTokens:   cfg.AIMaxOutputTokens,
		temperature: cfg.AITemperature,
		baseURL:     "https://api.openai.com",
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		},
	}
}

func (p *OpenAIProvider) Advise(ctx context.Context, req AdviceRequest) (AdviceResponse, error) {
	requestPayload := chatCompletionsRequest{
		Model:       p.model,
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
		Messages: []chatMessageRequest{
			{Role: "system", Content: p.systemPrompt(req)},
			{Role: "user", Content: "Дай совет на день по снимку метрик."},
		},
	}

	body, err := json.Marshal(requestPayload)
	if err != nil {
		return AdviceResponse{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return AdviceResponse{}, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return AdviceResponse{}, err
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return AdviceResponse{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return AdviceResponse{}, fmt.Errorf("openai: status %d: %s", resp.StatusCode, truncate(string(responseBody), 300))
	}

	var parsed chatCompletionsResponse
	if err := json.Unmarshal(responseBody, &parsed); err != nil {
		return AdviceResponse{}, err
	}
	if len(parsed.Choices) == 0 {
		return AdviceResponse{}, fmt.Errorf("openai: empty choices")
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	return AdviceResponse{AdviceText: content, Highlights: extractHighlights(content)}, nil
}

func (p *OpenAIProvider) systemPrompt(req AdviceRequest) string {
	snap := req.Snapshot
	return fmt.Sprintf(
		"Ты помощник EnergyHub. Не ставь диагнозы и не заменяй врача. "+
			"Если метрики указывают на ухудшение состояния — рекомендуй обратиться к врачу. "+
			"Отвечай кратко, по-русски, с опорой на метрики пользователя. "+
			"Снимок дня: date=%s, sleep_score=%s, hrv_score=%s, activity_score=%s, rhythm_score=%s, "+
			"battery_level=%s, battery_state=%s, rhythm_status=%s, stable_days=%d, mode=%s. "+
			"Каждый совет оформи отдельной строкой, начинающейся с «- ».",
		snap.Date,
		intOrDash(snap.SleepScore),
		intOrDash(snap.HRVScore),
		intOrDash(snap.ActivityScore),
		intOrDash(snap.RhythmScore),
		floatOrDash(snap.BatteryLevel),
		orDash(snap.BatteryState),
		orDash(snap.StabilityStatus),
		snap.ConsecutiveStableDays,
		orDash(req.Mode),
	)
}

// extractHighlights выдёргивает строки-советы формата «- ...» из ответа модели.
func extractHighlights(content string) []string {
	var highlights []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "- ") {
			highlights = append(highlights, strings.TrimSpace(strings.TrimPrefix(line, "- ")))
		}
	}
	return highlights
}

func intOrDash(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

func floatOrDash(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.0f", *v)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

type chatCompletionsRequest struct {
	Model       string               `json:"model"`
	Messages    []chatMessageRequest `json:"messages"`
	Temperature float64              `json:"temperature"`
	MaxTokens   int                  `json:"max_tokens"`
}

type chatMessageRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionsResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}
