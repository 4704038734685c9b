package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/wadjakorntonsri/knowhub/pkg/core/domain"
	"github.com/wadjakorntonsri/knowhub/pkg/ports"
	"github.com/wadjakorntonsri/knowhub/pkg/stream"
)

type ChatService struct {
	provider     ports.ChatProvider
	systemPrompt string
	logger       *zap.Logger
}

func NewChatService(provider ports.ChatProvider, systemPrompt string, logger *zap.Logger) *ChatService {
	return &ChatService{provider: provider, systemPrompt: systemPrompt, logger: logger}
}

var _ ports.ChatService = (*ChatService)(nil)

// Stream validates the history and starts the upstream completion. The
// configured system prompt is prepended unless the caller sent one.
func (s *ChatService) Stream(ctx context.Context, msgs []domain.ChatMessage) (*stream.Stream, error) {
	if err := domain.ValidateMessages(msgs); err != nil {
		return nil, err
	}
	if s.systemPrompt != "" && msgs[0].Role != domain.RoleSystem {
		msgs = append([]domain.ChatMessage{{Role: domain.RoleSystem, Content: s.systemPrompt}}, msgs...)
	}

	provider := s.provider.Name()
	s.logger.Debug("Starting chat stream", zap.String("provider", provider), zap.Int("messages", len(msgs)))

	return stream.Start(ctx, func(ctx context.Context, emit func(string) error) error {
		start := time.Now()
		chunks := 0
		err := s.provider.StreamChat(ctx, msgs, func(chunk string) error {
			chunks++
			return emit(chunk)
		})
		fields := []zap.Field{
			zap.String("provider", provider),
			zap.Int("chunks", chunks),
			zap.Duration("elapsed", time.Since(start)),
		}
		switch {
		case err == nil:
			s.logger.Info("Chat stream completed", fields...)
		case ctx.Err() != nil:
			s.logger.Warn("Chat stream cancelled", fields...)
		default:
			s.logger.Error("Chat stream failed", append(fields, zap.Error(err))...)
		}
		return err
	}), nil
}
