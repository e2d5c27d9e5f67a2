package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"brain-battle/internal/domain"
	"github.com/google/uuid"
)

// AccountStore registers players and checks their credentials.
type AccountStore interface {
	Signup(ctx context.Context, username, password string) error
	Authenticate(ctx context.Context, username, password string) error
}

// SessionRepository abstracts where live sessions are kept (in-memory, Redis, etc).
type SessionRepository interface {
	Put(ctx context.Context, session *Session)
	Get(ctx context.Context, sessionID string) (*Session, bool)
	Delete(ctx context.Context, sessionID string)
}

// Service contains the game use cases the presentation layer calls into.
type Service struct {
	accounts AccountStore
	sessions SessionRepository
	bank     []domain.Question
	perGame  int
	newID    func() string
	now      func() time.Time
	logger   *slog.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithQuestionsPerGame sets the active set size; non-positive values keep the default.
func WithQuestionsPerGame(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.perGame = n
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSessionIDs overrides session id generation; tests use it for stable ids.
func WithSessionIDs(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithClock sets the time source stamped on new sessions.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(accounts AccountStore, sessions SessionRepository, bank []domain.Question, opts ...Option) *Service {
	s := &Service{
		accounts: accounts,
		sessions: sessions,
		bank:     bank,
		perGame:  DefaultQuestionsPerGame,
		newID:    uuid.NewString,
		now:      time.Now,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Signup registers a new account. It does not log the player in.
func (s *Service) Signup(ctx context.Context, username, password string) error {
	if err := s.accounts.Signup(ctx, username, password); err != nil {
		return fmt.Errorf("signup: %w", err)
	}
	s.logger.Info("account created", "username", username)
	return nil
}

// Login authenticates the player and starts a fresh game in a new session.
func (s *Service) Login(ctx context.Context, username, password string) (string, domain.GameState, error) {
	if err := s.accounts.Authenticate(ctx, username, password); err != nil {
		s.logger.Debug("login rejected", "username", username)
		return "", domain.GameState{}, fmt.Errorf("login: %w", err)
	}

	id := s.newID()
	session := NewSessionWithClock(id, username, s.newGame(username), s.now)
	s.sessions.Put(ctx, session)
	s.logger.Info("player logged in", "username", username, "session", id)

	state, err := session.snapshot()
	return id, state, err
}

// Logout discards the session. The account itself is kept.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	session, ok := s.sessions.Get(ctx, sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	username := session.Username()
	session.logout()
	s.sessions.Delete(ctx, sessionID)
	s.logger.Info("player logged out",
		"username", username,
		"session", sessionID,
		"played", session.Age().Round(time.Second))
	return nil
}

// StartGame replaces the session's game with a newly sampled one ("play again").
func (s *Service) StartGame(ctx context.Context, sessionID string) (domain.GameState, error) {
	session, ok := s.sessions.Get(ctx, sessionID)
	if !ok {
		return domain.GameState{}, domain.ErrSessionNotFound
	}
	state, err := session.restart(s.newGame(session.Username()))
	if err != nil {
		return domain.GameState{}, err
	}
	s.logger.Debug("game started", "session", sessionID, "questions", state.Total)
	return state, nil
}

// SubmitAnswer scores the chosen option for the current question.
func (s *Service) SubmitAnswer(ctx context.Context, sessionID string, label domain.Label) (domain.AnswerOutcome, error) {
	session, ok := s.sessions.Get(ctx, sessionID)
	if !ok {
		return domain.AnswerOutcome{}, domain.ErrSessionNotFound
	}
	outcome, err := session.submit(label)
	if err != nil {
		return domain.AnswerOutcome{}, err
	}

	if outcome.RankChanged {
		s.logger.Info("tier changed",
			"session", sessionID,
			"from", outcome.TierBefore.Name,
			"to", outcome.TierAfter.Name,
			"score", outcome.State.Score)
	}
	if outcome.State.Mode == domain.ModeFinished {
		s.logger.Info("game finished",
			"session", sessionID,
			"username", outcome.State.Username,
			"score", outcome.State.Score,
			"tier", outcome.State.Tier.Name)
	}
	return outcome, nil
}

// AcknowledgeRankRoom resumes the quiz after a tier change.
func (s *Service) AcknowledgeRankRoom(ctx context.Context, sessionID string) (domain.GameState, error) {
	session, ok := s.sessions.Get(ctx, sessionID)
	if !ok {
		return domain.GameState{}, domain.ErrSessionNotFound
	}
	return session.acknowledge()
}

// State returns the current snapshot for rendering.
func (s *Service) State(ctx context.Context, sessionID string) (domain.GameState, error) {
	session, ok := s.sessions.Get(ctx, sessionID)
	if !ok {
		return domain.GameState{}, domain.ErrSessionNotFound
	}
	return session.snapshot()
}

// Subscribe returns a channel of notifications for a session.
// The caller must invoke the returned cancel function to avoid leaks.
// The channel is closed on cancel or logout.
func (s *Service) Subscribe(ctx context.Context, sessionID string) (<-chan domain.Event, func(), error) {
	session, ok := s.sessions.Get(ctx, sessionID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	return session.subscribe()
}

// BankSize reports how many questions games are sampled from.
func (s *Service) BankSize() int { return len(s.bank) }

func (s *Service) newGame(username string) *Game {
	return NewGame(username, s.bank, s.perGame)
}
