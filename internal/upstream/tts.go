package upstream

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/pulseboard/pulseboard/internal/config"
)

// TTSCredits is the normalized text-to-speech subscription usage.
type TTSCredits struct {
	CharacterCount int     `json:"character_count"`
	CharacterLimit int     `json:"character_limit"`
	Tier           string  `json:"tier"`
	UsagePct       float64 `json:"usage_percentage"`
}

// ErrLimitedKey marks a key that authenticated but lacks permission to read
// subscription data. The dashboard renders it differently from an outage.
var ErrLimitedKey = errors.New("API key may have limited permissions")

// TTS talks to the ElevenLabs-style subscription endpoint.
type TTS struct {
	cfg    config.Upstream
	client *http.Client
}

func NewTTS(cfg config.Upstream) *TTS {
	return &TTS{
		cfg:    cfg,
		client: newClient("xi-api-key", "", cfg.Key),
	}
}

// FetchCredits retrieves character usage and derives the usage percentage.
func (t *TTS) FetchCredits(ctx context.Context) (TTSCredits, error) {
	if t.cfg.Key() == "" {
		return TTSCredits{}, fmt.Errorf("%s %w", t.cfg.KeyEnv, ErrNotConfigured)
	}

	// The limit default mirrors the provider's free tier; a payload that
	// omits the field still yields a sane percentage.
	body := struct {
		CharacterCount int    `json:"character_count"`
		CharacterLimit int    `json:"character_limit"`
		Tier           string `json:"tier"`
	}{CharacterLimit: 10000, Tier: "free"}

	err := getJSON(ctx, t.client, t.cfg.BaseURL+"/v1/user/subscription", nil, &body)
	var se *StatusError
	if errors.As(err, &se) {
		return TTSCredits{}, ErrLimitedKey
	}
	if err != nil {
		return TTSCredits{}, fmt.Errorf("tts credits: %w", err)
	}

	return TTSCredits{
		CharacterCount: body.CharacterCount,
		CharacterLimit: body.CharacterLimit,
		Tier:           body.Tier,
		UsagePct:       UsagePercent(body.CharacterCount, body.CharacterLimit),
	}, nil
}

// UsagePercent computes used/limit as a percentage rounded to one decimal.
// The denominator is floored at 1 so a zero limit cannot divide by zero.
func UsagePercent(used, limit int) float64 {
	if limit < 1 {
		limit = 1
	}
	pct := float64(used) / float64(limit) * 100
	return math.Round(pct*10) / 10
}
