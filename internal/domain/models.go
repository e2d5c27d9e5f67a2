package domain

import (
	"fmt"
	"strings"
)

// Label identifies one of the five answer options of a question.
type Label string

const (
	LabelA Label = "A"
	LabelB Label = "B"
	LabelC Label = "C"
	LabelD Label = "D"
	LabelE Label = "E"
)

// Labels lists option labels in display order.
var Labels = [OptionCount]Label{LabelA, LabelB, LabelC, LabelD, LabelE}

// OptionCount is the number of options every question carries.
const OptionCount = 5

// ParseLabel accepts a single letter A-E, case-insensitive, surrounding spaces ignored.
func ParseLabel(raw string) (Label, error) {
	l := Label(strings.ToUpper(strings.TrimSpace(raw)))
	if l.Index() < 0 {
		return "", fmt.Errorf("%w: option must be one of A-E, got %q", ErrInvalidInput, raw)
	}
	return l, nil
}

// Index returns the option slot for the label, or -1 when the label is unknown.
func (l Label) Index() int {
	for i, known := range Labels {
		if l == known {
			return i
		}
	}
	return -1
}

// Question is an immutable multiple-choice record from the question bank.
type Question struct {
	Text    string
	Options [OptionCount]string
	Correct Label
}

// Option returns the option text for a label.
func (q Question) Option(l Label) string {
	i := l.Index()
	if i < 0 {
		return ""
	}
	return q.Options[i]
}

// View strips the answer key so the question can be shown to players.
func (q Question) View(number int) QuestionView {
	options := make([]OptionView, 0, OptionCount)
	for i, l := range Labels {
		options = append(options, OptionView{Label: l, Text: q.Options[i]})
	}
	return QuestionView{Number: number, Text: q.Text, Options: options}
}

// OptionView is one selectable answer.
type OptionView struct {
	Label Label  `json:"label"`
	Text  string `json:"text"`
}

// QuestionView is the player-facing form of a question.
type QuestionView struct {
	Number  int          `json:"number"`
	Text    string       `json:"text"`
	Options []OptionView `json:"options"`
}

// Account is a registered player.
type Account struct {
	Username string
	Password string
}

// Mode is the phase a game is in.
type Mode string

const (
	ModeQuiz     Mode = "quiz"
	ModeRankRoom Mode = "rank_room"
	ModeFinished Mode = "finished"
)

// Tier is the achievement band derived from a score.
type Tier struct {
	Index    int    `json:"index"`
	Name     string `json:"name"`
	Progress int    `json:"progress"` // stars earned inside the tier, 0..10
}

// Feedback describes the outcome of the latest answer.
type Feedback struct {
	Correct bool   `json:"correct"`
	Message string `json:"message"`
}

// Summary is reported once the active set is exhausted.
type Summary struct {
	Score int  `json:"score"`
	Tier  Tier `json:"tier"`
}

// GameState is a read-only snapshot of a player's game.
type GameState struct {
	Username     string        `json:"username"`
	Mode         Mode          `json:"mode"`
	Score        int           `json:"score"`
	Tier         Tier          `json:"tier"`
	Position     int           `json:"position"`
	Total        int           `json:"total"`
	Question     *QuestionView `json:"question,omitempty"`
	LastFeedback *Feedback     `json:"lastFeedback,omitempty"`
	RankRoom     *Tier         `json:"rankRoom,omitempty"`
	Summary      *Summary      `json:"summary,omitempty"`
}

// AnswerOutcome summarizes a single submission.
type AnswerOutcome struct {
	Correct     bool      `json:"correct"`
	Feedback    Feedback  `json:"feedback"`
	TierBefore  Tier      `json:"tierBefore"`
	TierAfter   Tier      `json:"tierAfter"`
	RankChanged bool      `json:"rankChanged"`
	State       GameState `json:"state"`
}

// EventType names a notification pushed to subscribers.
type EventType string

const (
	EventFeedback   EventType = "feedback"
	EventRankChange EventType = "rankChange"
	EventFinished   EventType = "finished"
)

// Event is a transient notification for the presentation layer.
type Event struct {
	Type     EventType `json:"type"`
	Feedback *Feedback `json:"feedback,omitempty"`
	Tier     *Tier     `json:"tier,omitempty"`
	Summary  *Summary  `json:"summary,omitempty"`
}
