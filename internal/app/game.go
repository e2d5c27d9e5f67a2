package app

import (
	"fmt"
	"math/rand"

	"brain-battle/internal/domain"
	"brain-battle/internal/rank"
)

// DefaultQuestionsPerGame is the size of the active set when the bank is large enough.
const DefaultQuestionsPerGame = 50

// Game is the mutable state of a single player's quiz run.
// It is not safe for concurrent use; Session serializes access.
type Game struct {
	username    string
	questions   []domain.Question
	position    int
	score       int
	mode        domain.Mode
	pendingTier int
	feedback    *domain.Feedback
}

// NewGame samples min(size, len(bank)) questions without replacement and starts in quiz mode.
func NewGame(username string, bank []domain.Question, size int) *Game {
	g := &Game{username: username}
	g.questions = sample(bank, size)
	g.mode = domain.ModeQuiz
	if len(g.questions) == 0 {
		g.mode = domain.ModeFinished
	}
	return g
}

// NewGameWithQuestions starts a game over a fixed active set, in order.
func NewGameWithQuestions(username string, questions []domain.Question) *Game {
	g := &Game{username: username, mode: domain.ModeQuiz}
	g.questions = append([]domain.Question(nil), questions...)
	if len(g.questions) == 0 {
		g.mode = domain.ModeFinished
	}
	return g
}

func sample(bank []domain.Question, size int) []domain.Question {
	if size <= 0 || size > len(bank) {
		size = len(bank)
	}
	out := make([]domain.Question, 0, size)
	for _, idx := range rand.Perm(len(bank))[:size] {
		out = append(out, bank[idx])
	}
	return out
}

// Submit scores an answer for the current question.
func (g *Game) Submit(label domain.Label) (domain.AnswerOutcome, error) {
	if g.mode != domain.ModeQuiz || g.position >= len(g.questions) {
		return domain.AnswerOutcome{}, fmt.Errorf("%w: cannot answer in %s mode", domain.ErrInvalidTransition, g.mode)
	}
	if label.Index() < 0 {
		return domain.AnswerOutcome{}, fmt.Errorf("%w: unknown option %q", domain.ErrInvalidInput, label)
	}

	before := rank.Of(g.score)
	q := g.questions[g.position]

	var fb domain.Feedback
	if label == q.Correct {
		g.score++
		fb = domain.Feedback{Correct: true, Message: "Correct! +1 star"}
	} else {
		g.score = max(0, g.score-1)
		fb = domain.Feedback{Message: fmt.Sprintf("Wrong. Correct was %s. %s", q.Correct, q.Option(q.Correct))}
	}
	g.feedback = &fb

	after := rank.Of(g.score)
	changed := after.Index != before.Index
	if changed {
		// Position stays put: the same question is shown again after the rank room.
		g.pendingTier = after.Index
		g.mode = domain.ModeRankRoom
	} else {
		g.position++
		if g.position >= len(g.questions) {
			g.mode = domain.ModeFinished
		}
	}

	return domain.AnswerOutcome{
		Correct:     fb.Correct,
		Feedback:    fb,
		TierBefore:  before,
		TierAfter:   after,
		RankChanged: changed,
		State:       g.Snapshot(),
	}, nil
}

// AcknowledgeRankRoom leaves the rank room and resumes the quiz.
func (g *Game) AcknowledgeRankRoom() error {
	if g.mode != domain.ModeRankRoom {
		return fmt.Errorf("%w: no rank room to acknowledge in %s mode", domain.ErrInvalidTransition, g.mode)
	}
	g.mode = domain.ModeQuiz
	return nil
}

func (g *Game) Score() int        { return g.score }
func (g *Game) Mode() domain.Mode { return g.mode }
func (g *Game) Tier() domain.Tier { return rank.Of(g.score) }

// Progress returns the current position and the size of the active set.
func (g *Game) Progress() (int, int) {
	return g.position, len(g.questions)
}

// CurrentQuestion returns the question awaiting an answer, if any.
func (g *Game) CurrentQuestion() (domain.Question, bool) {
	if g.mode == domain.ModeFinished || g.position >= len(g.questions) {
		return domain.Question{}, false
	}
	return g.questions[g.position], true
}

// Snapshot builds the presentation view of the game.
func (g *Game) Snapshot() domain.GameState {
	state := domain.GameState{
		Username: g.username,
		Mode:     g.mode,
		Score:    g.score,
		Tier:     rank.Of(g.score),
		Position: g.position,
		Total:    len(g.questions),
	}
	if g.feedback != nil {
		fb := *g.feedback
		state.LastFeedback = &fb
	}
	switch g.mode {
	case domain.ModeQuiz:
		if q, ok := g.CurrentQuestion(); ok {
			view := q.View(g.position + 1)
			state.Question = &view
		}
	case domain.ModeRankRoom:
		t := rank.Tier(g.pendingTier)
		state.RankRoom = &t
	case domain.ModeFinished:
		state.Summary = &domain.Summary{Score: g.score, Tier: rank.Of(g.score)}
	}
	return state
}
