package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"brain-battle/internal/app"
	"brain-battle/internal/config"
	"brain-battle/internal/domain"
	"brain-battle/internal/logging"
	"brain-battle/internal/rank"
	"github.com/spf13/cobra"
)

// NewPlayCmd runs a game in the terminal against an in-process service.
func NewPlayCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play Brain Battle in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			// Terminal play keeps sessions local; logs stay quiet unless asked for.
			cfg.Redis.Addr = ""
			if cfg.Log.Level == "" {
				cfg.Log.Level = "warn"
			}
			service := newService(cfg, logging.New(os.Stderr, cfg.Log.Level))
			return Play(cmd.Context(), service, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

type terminal struct {
	service *app.Service
	in      *bufio.Reader
	out     io.Writer
}

// Play drives the sign-up, login and quiz loop over a line-oriented terminal.
// It returns nil when the player quits or input ends.
func Play(ctx context.Context, service *app.Service, in io.Reader, out io.Writer) error {
	t := &terminal{service: service, in: bufio.NewReader(in), out: out}
	fmt.Fprintln(out, "Brain Battle! Answer questions, earn stars, climb ranks:")
	fmt.Fprintln(out, strings.Join(rank.Names(), " -> "))

	for {
		fmt.Fprint(out, "\n[l]ogin, [s]ignup or [q]uit: ")
		choice, ok := t.readLine()
		if !ok {
			return nil
		}
		switch strings.ToLower(choice) {
		case "s", "signup":
			t.signup(ctx)
		case "l", "login":
			sessionID, ok := t.login(ctx)
			if !ok {
				continue
			}
			if err := t.play(ctx, sessionID); err != nil {
				return err
			}
		case "q", "quit":
			return nil
		default:
			fmt.Fprintln(out, "Please choose l, s or q.")
		}
	}
}

func (t *terminal) signup(ctx context.Context) {
	username, password, ok := t.credentials()
	if !ok {
		return
	}
	if err := t.service.Signup(ctx, username, password); err != nil {
		fmt.Fprintf(t.out, "Sign up failed: %s\n", describe(err))
		return
	}
	fmt.Fprintln(t.out, "Account created! Please log in.")
}

func (t *terminal) login(ctx context.Context) (string, bool) {
	username, password, ok := t.credentials()
	if !ok {
		return "", false
	}
	id, _, err := t.service.Login(ctx, username, password)
	if err != nil {
		fmt.Fprintf(t.out, "Login failed: %s\n", describe(err))
		return "", false
	}
	fmt.Fprintf(t.out, "Welcome %s! Let's battle brains!\n", username)
	return id, true
}

// play runs one logged-in session until logout or end of input.
func (t *terminal) play(ctx context.Context, sessionID string) error {
	defer t.service.Logout(ctx, sessionID)

	for {
		state, err := t.service.State(ctx, sessionID)
		if err != nil {
			return err
		}
		t.header(state)

		switch state.Mode {
		case domain.ModeQuiz:
			if done := t.ask(ctx, sessionID, state); done {
				return nil
			}
		case domain.ModeRankRoom:
			fmt.Fprintf(t.out, "\nRank changed! You are now: %s\nPress Enter to continue.", state.RankRoom.Name)
			if _, ok := t.readLine(); !ok {
				return nil
			}
			if _, err := t.service.AcknowledgeRankRoom(ctx, sessionID); err != nil {
				return err
			}
		case domain.ModeFinished:
			fmt.Fprintf(t.out, "\nQuiz completed!\nFinal stars: %d\nFinal rank: %s\n", state.Summary.Score, state.Summary.Tier.Name)
			fmt.Fprint(t.out, "[p]lay again or [l]ogout: ")
			choice, ok := t.readLine()
			if !ok || strings.ToLower(choice) != "p" {
				fmt.Fprintln(t.out, "Logged out.")
				return nil
			}
			if _, err := t.service.StartGame(ctx, sessionID); err != nil {
				return err
			}
		}
	}
}

// ask shows the current question and submits the answer; it reports whether the player left.
func (t *terminal) ask(ctx context.Context, sessionID string, state domain.GameState) bool {
	q := state.Question
	fmt.Fprintf(t.out, "\nQ%d: %s\n", q.Number, q.Text)
	for _, opt := range q.Options {
		fmt.Fprintf(t.out, "  %s. %s\n", opt.Label, opt.Text)
	}

	for {
		fmt.Fprint(t.out, "Your answer (A-E, or x to logout): ")
		raw, ok := t.readLine()
		if !ok || strings.EqualFold(raw, "x") {
			fmt.Fprintln(t.out, "Logged out.")
			return true
		}
		label, err := domain.ParseLabel(raw)
		if err != nil {
			fmt.Fprintln(t.out, "Please enter a letter A-E.")
			continue
		}
		outcome, err := t.service.SubmitAnswer(ctx, sessionID, label)
		if err != nil {
			fmt.Fprintf(t.out, "Could not submit: %s\n", describe(err))
			return false
		}
		fmt.Fprintln(t.out, outcome.Feedback.Message)
		return false
	}
}

func (t *terminal) header(state domain.GameState) {
	fmt.Fprintf(t.out, "\n[%s] Stars: %d | Rank: %s %s | Progress: %d/%d\n",
		state.Username, state.Score, state.Tier.Name, rank.StarBar(state.Tier.Progress), state.Position, state.Total)
}

func (t *terminal) credentials() (string, string, bool) {
	fmt.Fprint(t.out, "Username: ")
	username, ok := t.readLine()
	if !ok {
		return "", "", false
	}
	fmt.Fprint(t.out, "Password: ")
	password, ok := t.readLine()
	if !ok {
		return "", "", false
	}
	return username, password, true
}

func (t *terminal) readLine() (string, bool) {
	line, err := t.in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", false
	}
	return strings.TrimSpace(line), true
}

func describe(err error) string {
	switch {
	case errors.Is(err, domain.ErrDuplicateUser):
		return "username already exists"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid username or password"
	case errors.Is(err, domain.ErrInvalidInput):
		return "please fill both fields"
	default:
		return err.Error()
	}
}
