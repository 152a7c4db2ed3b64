// Package summarizer implements chat-transcript summarization via an
// OpenAI-compatible chat-completion API such as OpenRouter.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"

	"github.com/talkweave/recapbot/internal/config"
	"github.com/talkweave/recapbot/internal/database"
)

// ErrNotEnoughMessages indicates the message set is below the configured
// minimum; callers treat this as a skip, not a failure.
var ErrNotEnoughMessages = errors.New("not enough messages to summarize")

// maxMessageChars caps a single message's contribution to the transcript.
const maxMessageChars = 1000

// Service defines the summarization operations used by handlers and
// scheduled tasks.
type Service interface {
	// Summarize produces a summary of the given messages using the prompt
	// template. Returns ErrNotEnoughMessages when the message count is
	// below the configured minimum; no API request is made in that case.
	Summarize(ctx context.Context, messages []database.Message, promptTemplate string) (string, error)
}

type client struct {
	api              *openai.Client
	log              *slog.Logger
	model            string
	temperature      float32
	minMessages      int
	transcriptBudget int
}

// New creates a summarization client against the configured base URL.
// The HTTP client enforces the connect and overall request timeouts.
func New(cfg config.AIConfig, sumCfg config.SummaryConfig, log *slog.Logger) Service {
	apiCfg := openai.DefaultConfig(cfg.Token)
	apiCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	apiCfg.HTTPClient = &http.Client{
		Timeout: cfg.RequestTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: cfg.ConnectTimeout,
			}).DialContext,
		},
	}

	return &client{
		api:              openai.NewClientWithConfig(apiCfg),
		log:              log.With("component", "summarizer"),
		model:            cfg.Model,
		temperature:      cfg.Temperature,
		minMessages:      sumCfg.MinMessages,
		transcriptBudget: sumCfg.TranscriptBudget,
	}
}

func (c *client) Summarize(ctx context.Context, messages []database.Message, promptTemplate string) (string, error) {
	if len(messages) < c.minMessages {
		return "", ErrNotEnoughMessages
	}

	transcript := BuildTranscript(messages, c.transcriptBudget)
	if transcript == "" {
		return "", ErrNotEnoughMessages
	}

	prompt := promptTemplate
	if prompt == "" {
		prompt = DefaultPromptTemplate
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt},
			{Role: openai.ChatMessageRoleUser, Content: transcript},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			c.log.WarnContext(ctx, "Completion API throttled request", "model", c.model)
			return "", fmt.Errorf("completion API rate limited: %w", err)
		}
		return "", fmt.Errorf("completion request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("completion response contained no choices")
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	if summary == "" {
		return "", errors.New("completion response was empty")
	}

	c.log.InfoContext(ctx, "Generated summary",
		"messages", len(messages),
		"transcript_chars", len(transcript),
		"summary_chars", len(summary))

	return summary, nil
}

// BuildTranscript renders messages as "[HH:MM] username: text" lines in
// chronological order. When the combined size exceeds budget characters the
// oldest messages are dropped first, so the result is always a contiguous
// suffix of the conversation.
func BuildTranscript(messages []database.Message, budget int) string {
	lines := make([]string, len(messages))
	for i, m := range messages {
		lines[i] = fmt.Sprintf("[%s] %s: %s", m.Timestamp.UTC().Format("15:04"), m.Username, truncateRunes(m.Text, maxMessageChars))
	}

	total := 0
	start := len(lines)
	for i := len(lines) - 1; i >= 0; i-- {
		size := len(lines[i]) + 1
		if total+size > budget {
			break
		}
		total += size
		start = i
	}

	return strings.Join(lines[start:], "\n")
}

// truncateRunes caps s at max runes. Counting runes rather than bytes keeps
// multibyte text intact and gives non-Latin alphabets the full cap.
func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
