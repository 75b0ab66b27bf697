package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/liliang-cn/askpaper/internal/domain"
	"github.com/liliang-cn/askpaper/internal/repository"
)

// ChatService answers questions about summarized papers and keeps the history
type ChatService struct {
	docs      repository.DocumentStore
	histories repository.HistoryStore
	responder Responder
	log       *zap.Logger
}

// NewChatService creates a new chat service
func NewChatService(
	docs repository.DocumentStore,
	histories repository.HistoryStore,
	responder Responder,
	log *zap.Logger,
) *ChatService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ChatService{
		docs:      docs,
		histories: histories,
		responder: responder,
		log:       log,
	}
}

// Chat handles a chat message. The user turn is appended before the LLM call
// and rolled back if the call fails, so a failed exchange leaves no trace.
func (s *ChatService) Chat(ctx context.Context, req *domain.ChatRequest) (*domain.ChatResponse, error) {
	paperURL := strings.TrimSpace(req.PaperURL)
	message := strings.TrimSpace(req.Message)
	if paperURL == "" || message == "" {
		return nil, fmt.Errorf("%w: missing url or message", domain.ErrInvalidRequest)
	}
	if req.SessionID == "" {
		return nil, fmt.Errorf("%w: missing session", domain.ErrInvalidRequest)
	}
	log := s.log.With(zap.String("url", paperURL), zap.String("session_id", req.SessionID))

	doc, err := s.docs.GetDocument(ctx, paperURL)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			log.Warn("document cache read failed", zap.Error(err))
		}
		return nil, domain.ErrNotSummarized
	}

	history := s.history(ctx, req.SessionID, paperURL, log)
	history = append(history, domain.Turn{Role: domain.RoleUser, Text: message})

	answer, err := s.responder.Answer(ctx, doc.Text, history[:len(history)-1], message)
	if err != nil {
		history = history[:len(history)-1]
		log.Error("chat answer failed", zap.Int("turns", len(history)), zap.Error(err))
		return nil, err
	}

	history = append(history, domain.Turn{Role: domain.RoleAssistant, Text: answer})
	if err := s.histories.PutHistory(ctx, req.SessionID, paperURL, history); err != nil {
		log.Warn("history write failed", zap.Error(err))
	}

	return &domain.ChatResponse{OK: true, Answer: answer, SessionID: req.SessionID}, nil
}

// History returns the stored turns, empty when there are none
func (s *ChatService) History(ctx context.Context, sessionID, paperURL string) []domain.Turn {
	return s.history(ctx, sessionID, strings.TrimSpace(paperURL), s.log)
}

func (s *ChatService) history(ctx context.Context, sessionID, paperURL string, log *zap.Logger) []domain.Turn {
	turns, err := s.histories.GetHistory(ctx, sessionID, paperURL)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			log.Warn("history read failed", zap.Error(err))
		}
		return nil
	}
	return turns
}
