package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mailpilot/core/domain"
	"mailpilot/core/port/out"
	"mailpilot/pkg/httputil"
	"mailpilot/pkg/logger"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
)

var _ out.TextGenerator = (*Client)(nil)

// ErrEmptyCompletion is returned when the backend answers without any text.
var ErrEmptyCompletion = errors.New("llm: empty completion")

type Client struct {
	client *openai.Client
	cb     *gobreaker.CircuitBreaker
	model  string
}

type ClientConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration

	// Model replaces the requested model id, for gateways that name models differently.
	Model string

	// BreakerFailures is the number of consecutive failures that opens the breaker.
	BreakerFailures int

	// BreakerCooldown is how long the breaker stays open before probing again.
	BreakerCooldown time.Duration
}

func NewClient(cfg ClientConfig) *Client {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	oc.HTTPClient = httputil.NewOptimizedClient(httputil.OpenAIClientConfig(timeout))

	failures := cfg.BreakerFailures
	if failures < 1 {
		failures = 5
	}
	cooldown := cfg.BreakerCooldown
	if cooldown == 0 {
		cooldown = 30 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        "openai-chat",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(failures)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("[CircuitBreaker] %s: state changed from %s to %s", name, from.String(), to.String())
		},
	}

	return &Client{
		client: openai.NewClientWithConfig(oc),
		cb:     gobreaker.NewCircuitBreaker(settings),
		model:  cfg.Model,
	}
}

// Generate sends prompt as a single user message and returns the first choice.
func (c *Client) Generate(ctx context.Context, prompt string, params domain.GenerationParameters) (string, error) {
	model := params.Model
	if c.model != "" {
		model = c.model
	}

	result, err := c.cb.Execute(func() (interface{}, error) {
		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: params.Temperature,
			MaxTokens:   params.MaxOutputTokens,
		})
		if err != nil {
			return nil, err
		}
		if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
			return nil, ErrEmptyCompletion
		}
		return resp.Choices[0].Message.Content, nil
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	return result.(string), nil
}

// State reports the breaker state for health output.
func (c *Client) State() string {
	return c.cb.State().String()
}
