package app

import (
	"sync"
	"time"

	"brain-battle/internal/domain"
)

// Session binds an authenticated player to their current game and to the
// presentation layers watching it.
type Session struct {
	id          string
	username    string
	createdAt   time.Time
	now         func() time.Time
	mu          sync.Mutex
	game        *Game
	closed      bool
	subscribers map[chan domain.Event]struct{}
}

// NewSession is exported for infrastructure layers that need to seed sessions.
func NewSession(id, username string, game *Game) *Session {
	return NewSessionWithClock(id, username, game, time.Now)
}

// NewSessionWithClock stamps the session with the given time source.
func NewSessionWithClock(id, username string, game *Game, now func() time.Time) *Session {
	return &Session{
		id:          id,
		username:    username,
		createdAt:   now(),
		now:         now,
		game:        game,
		subscribers: make(map[chan domain.Event]struct{}),
	}
}

func (s *Session) ID() string { return s.id }

// Username returns the logged-in player, or "" after logout.
func (s *Session) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username
}

// CreatedAt reports when the player logged in.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// Age is how long the player has been logged in.
func (s *Session) Age() time.Duration { return s.now().Sub(s.createdAt) }

func (s *Session) snapshot() (domain.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.GameState{}, domain.ErrSessionNotFound
	}
	return s.game.Snapshot(), nil
}

func (s *Session) restart(game *Game) (domain.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.GameState{}, domain.ErrSessionNotFound
	}
	s.game = game
	return game.Snapshot(), nil
}

func (s *Session) submit(label domain.Label) (domain.AnswerOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.AnswerOutcome{}, domain.ErrSessionNotFound
	}

	outcome, err := s.game.Submit(label)
	if err != nil {
		return domain.AnswerOutcome{}, err
	}

	fb := outcome.Feedback
	s.broadcastLocked(domain.Event{Type: domain.EventFeedback, Feedback: &fb})
	if outcome.RankChanged {
		t := outcome.State.RankRoom
		s.broadcastLocked(domain.Event{Type: domain.EventRankChange, Tier: t})
	}
	if outcome.State.Summary != nil {
		summary := *outcome.State.Summary
		s.broadcastLocked(domain.Event{Type: domain.EventFinished, Summary: &summary})
	}
	return outcome, nil
}

func (s *Session) acknowledge() (domain.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.GameState{}, domain.ErrSessionNotFound
	}
	if err := s.game.AcknowledgeRankRoom(); err != nil {
		return domain.GameState{}, err
	}
	return s.game.Snapshot(), nil
}

// logout clears the player and releases every subscriber.
func (s *Session) logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.username = ""
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
}

func (s *Session) subscribe() (<-chan domain.Event, func(), error) {
	ch := make(chan domain.Event, 8)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, nil, domain.ErrSessionNotFound
	}
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel, nil
}

func (s *Session) broadcastLocked(ev domain.Event) {
	for ch := range s.subscribers {
		select {
		case ch <- ev:
		default:
			// Slow subscribers lose their oldest pending event rather than stall the game.
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	}
}
