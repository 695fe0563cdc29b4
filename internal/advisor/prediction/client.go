package prediction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/radieske/sports-bet-advisor-poc/internal/advisor/model"
)

// Recommendation é a resposta estruturada do modelo de linguagem.
type Recommendation struct {
	RecommendationType model.BetType
	RecommendedBet     string
	Confidence         int
	EdgeScore          decimal.Decimal
	Reasoning          string
}

// Client fala com uma API compatível com chat-completions da OpenAI.
type Client struct {
	BaseURL string
	APIKey  string
	Model   string
	HTTP    *http.Client
}

func NewClient(baseURL, apiKey, modelName string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   modelName,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat *respFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type respFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type recommendationJSON struct {
	RecommendationType string  `json:"recommendationType"`
	RecommendedBet     string  `json:"recommendedBet"`
	Confidence         int     `json:"confidence"`
	EdgeScore          float64 `json:"edgeScore"`
	Reasoning          string  `json:"reasoning"`
}

const systemPrompt = `You are a sports betting analyst. Given a game with its betting lines,
recommend the single best bet. Respond with JSON only, no prose, in this shape:
{"recommendationType":"spread|moneyline|total","recommendedBet":"<selection label>","confidence":<1-100>,"edgeScore":<number>,"reasoning":"<one or two sentences>"}`

// Recommend pede ao modelo uma recomendação de aposta pro jogo. Erros de
// rede, HTTP ou parse voltam pro chamador decidir o fallback.
func (c *Client) Recommend(ctx context.Context, g *model.Game) (*Recommendation, error) {
	prompt := fmt.Sprintf(
		"%s: %s (home) vs %s (away). Spread: %s (odds %d). Moneyline: home %d, away %d. Total: %s (odds %d).",
		g.Sport, g.HomeTeam, g.AwayTeam,
		g.Spread.String(), g.SpreadOdds,
		g.MoneylineHome, g.MoneylineAway,
		g.TotalLine.String(), g.TotalOdds,
	)

	body, _ := json.Marshal(chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		ResponseFormat: &respFormat{Type: "json_object"},
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return nil, fmt.Errorf("chat completions http %d", res.StatusCode)
	}

	var out chatResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, err
	}
	if len(out.Choices) == 0 {
		return nil, fmt.Errorf("chat completions returned no choices")
	}

	return parseRecommendation(out.Choices[0].Message.Content)
}

func parseRecommendation(content string) (*Recommendation, error) {
	// alguns modelos embrulham o JSON em cerca de código
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var rj recommendationJSON
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &rj); err != nil {
		return nil, fmt.Errorf("parse recommendation: %w", err)
	}

	var betType model.BetType
	switch model.BetType(rj.RecommendationType) {
	case model.BetSpread, model.BetMoneyline, model.BetTotal:
		betType = model.BetType(rj.RecommendationType)
	default:
		return nil, fmt.Errorf("unknown recommendation type %q", rj.RecommendationType)
	}

	confidence := rj.Confidence
	if confidence < 1 {
		confidence = 1
	}
	if confidence > 100 {
		confidence = 100
	}

	return &Recommendation{
		RecommendationType: betType,
		RecommendedBet:     rj.RecommendedBet,
		Confidence:         confidence,
		EdgeScore:          decimal.NewFromFloat(rj.EdgeScore).Round(2),
		Reasoning:          rj.Reasoning,
	}, nil
}
