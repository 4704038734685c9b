// Package llm holds the upstream chat completion providers.
package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/wadjakorntonsri/knowhub/pkg/core/domain"
	"github.com/wadjakorntonsri/knowhub/pkg/ports"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIProvider streams completions from any OpenAI-compatible
// /chat/completions endpoint over server-sent events.
type OpenAIProvider struct {
	client  *http.Client
	baseURL string
	model   string
	logger  *zap.Logger
}

// NewOpenAIProvider builds a provider whose HTTP client attaches apiKey as a
// bearer token. ctx may carry an oauth2.HTTPClient to override transport.
func NewOpenAIProvider(ctx context.Context, apiKey, baseURL, model string, logger *zap.Logger) *OpenAIProvider {
	if model == "" {
		model = defaultOpenAIModel
	}
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiKey}))
	return &OpenAIProvider{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		logger:  logger,
	}
}

var _ ports.ChatProvider = (*OpenAIProvider)(nil)

func (p *OpenAIProvider) Name() string { return "openai" }

type openAIRequest struct {
	Model    string          `json:"model"`
	Messages []openAIMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p *OpenAIProvider) StreamChat(ctx context.Context, msgs []domain.ChatMessage, emit func(string) error) error {
	reqBody := openAIRequest{Model: p.model, Stream: true}
	for _, m := range msgs {
		reqBody.Messages = append(reqBody.Messages, openAIMessage{Role: string(m.Role), Content: m.Content})
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := p.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &domain.UpstreamError{Service: p.Name(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &domain.UpstreamError{
			Service:    p.Name(),
			StatusCode: resp.StatusCode,
			Err:        errors.New(strings.TrimSpace(string(body))),
		}
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" {
			continue
		}
		if data == "[DONE]" {
			return nil
		}

		var chunk openAIChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			p.logger.Debug("Skipping malformed SSE chunk", zap.Error(err))
			continue
		}
		if chunk.Error != nil {
			return &domain.UpstreamError{Service: p.Name(), Err: errors.New(chunk.Error.Message)}
		}
		if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
			continue
		}
		if err := emit(chunk.Choices[0].Delta.Content); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &domain.UpstreamError{Service: p.Name(), Err: err}
	}
	// Stream closed without a [DONE] marker.
	return nil
}
