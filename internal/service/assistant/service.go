package assistant

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"taskpilot/internal/llm"
	"taskpilot/internal/util"
	pkglogger "taskpilot/pkg/logger"
	"taskpilot/pkg/metrics"
)

// StoreProvider hands out a task store scoped to one user.
type StoreProvider interface {
	ForUser(userID int) TaskStore
}

// Service is the single entry point the HTTP layer calls: build prompt →
// LLM → parse → execute. One command per user runs at a time; a second
// utterance from the same user waits until the first has fully executed, so
// two near-simultaneous commands can never interleave on the task list.
type Service struct {
	llmClient llm.Client
	stores    StoreProvider
	limiter   *util.RateLimiter
	timeout   time.Duration
	logger    *zap.Logger

	mu        sync.Mutex
	userLocks map[int]*sync.Mutex
}

func NewService(
	llmClient llm.Client,
	stores StoreProvider,
	limiter *util.RateLimiter,
	timeout time.Duration,
	logger *zap.Logger,
) *Service {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Service{
		llmClient: llmClient,
		stores:    stores,
		limiter:   limiter,
		timeout:   timeout,
		logger:    logger,
		userLocks: make(map[int]*sync.Mutex),
	}
}

// InterpretAndExecute runs one utterance through the whole pipeline and
// returns the chat reply. Errors carry the taxonomy (llm.ErrRateLimited,
// llm.ErrModelUnavailable, TargetNotFoundError, ErrMutationFailed); convert
// them with UserMessage at the boundary.
func (s *Service) InterpretAndExecute(ctx context.Context, userID int, utterance string) (string, error) {
	utterance = strings.TrimSpace(utterance)
	if utterance == "" {
		return "", fmt.Errorf("empty utterance")
	}

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, userID)
		if err != nil {
			s.logger.Warn("Rate limiter unavailable, allowing request", zap.Error(err))
		}
		if !allowed {
			return "", llm.ErrRateLimited
		}
	}

	lock := s.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	start := time.Now()
	reply, err := s.run(ctx, userID, utterance)
	if err != nil {
		metrics.RecordAssistantPipelineLatency("failed", time.Since(start))
		return "", err
	}
	metrics.RecordAssistantPipelineLatency("success", time.Since(start))
	return reply, nil
}

func (s *Service) run(ctx context.Context, userID int, utterance string) (string, error) {
	log := pkglogger.WithUser(userID, s.logger)
	prompt := BuildPrompt(utterance)

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.llmClient.Complete(callCtx, prompt)
	if err != nil {
		log.Error("LLM call failed",
			zap.String("provider", s.llmClient.Provider()),
			zap.Error(err),
		)
		return "", err
	}

	cmd, parseErr := Parse(raw)
	if parseErr != nil {
		// Recovered internally: the fallback command carries the model's
		// prose. Logged for diagnostics, never surfaced as an error.
		log.Warn("Malformed model output, using fallback",
			zap.String("raw_output", raw),
			zap.Error(parseErr),
		)
		metrics.IncrementAssistantCommand(string(cmd.Kind), "fallback")
	}

	executor := NewExecutor(s.stores.ForUser(userID), log)
	reply, err := executor.Execute(ctx, cmd)
	if err != nil {
		metrics.IncrementAssistantCommand(string(cmd.Kind), "failed")
		return "", err
	}

	if parseErr == nil {
		metrics.IncrementAssistantCommand(string(cmd.Kind), "success")
	}
	log.Info("Assistant command executed",
		zap.String("action", string(cmd.Kind)),
	)
	return reply, nil
}

func (s *Service) lockFor(userID int) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.userLocks[userID] = lock
	}
	return lock
}
