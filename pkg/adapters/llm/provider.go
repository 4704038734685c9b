package llm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/wadjakorntonsri/knowhub/pkg/ports"
)

// NewProvider selects the chat provider by name.
func NewProvider(ctx context.Context, name, model, openAIKey, openAIBaseURL, geminiKey string, logger *zap.Logger) (ports.ChatProvider, error) {
	switch strings.ToLower(name) {
	case "", "openai":
		if openAIKey == "" {
			logger.Warn("OPENAI_API_KEY is not set; chat requests will be rejected upstream")
		}
		return NewOpenAIProvider(ctx, openAIKey, openAIBaseURL, model, logger), nil
	case "gemini":
		return NewGeminiProvider(ctx, geminiKey, model, logger)
	default:
		return nil, fmt.Errorf("unknown chat provider %q", name)
	}
}
