package simulator

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Flowwrian/blackjack-simulator/internal/bot"
	"github.com/Flowwrian/blackjack-simulator/internal/fileutil"
	"github.com/Flowwrian/blackjack-simulator/internal/game"
	"github.com/Flowwrian/blackjack-simulator/internal/statistics"
	"github.com/charmbracelet/log"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.WarnLevel})
}

func TestNew(t *testing.T) {
	t.Parallel()

	s := New(Config{Rounds: 10})
	if s.config.Tables != 1 || s.config.BaseBet != 10 || s.config.Decks != game.DefaultDecks {
		t.Errorf("defaults not applied: %+v", s.config)
	}
	if s.config.Bot != "basic" || s.config.Bankroll != game.DefaultBankroll {
		t.Errorf("defaults not applied: bot=%s bankroll=%d", s.config.Bot, s.config.Bankroll)
	}
}

func TestRun(t *testing.T) {
	t.Parallel()

	for _, name := range bot.Names() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			report, err := New(Config{
				Rounds: 200,
				Tables: 3,
				Bot:    name,
				Decks:  2,
				Seed:   12345,
				Logger: quietLogger(),
			}).Run(context.Background())
			if err != nil {
				t.Fatalf("Run() failed: %v", err)
			}
			s := report.Summary
			if s.Rounds != 600 {
				t.Errorf("Expected 600 rounds, got %d", s.Rounds)
			}
			if s.Wins+s.Losses+s.Pushes != s.Rounds {
				t.Errorf("outcomes do not add up: %+v", s)
			}
			if s.Reshuffles == 0 {
				t.Error("two decks over 200 rounds should reshuffle")
			}
			if name == "dealer" && s.Doubles != 0 {
				t.Errorf("dealer bot never doubles, got %d", s.Doubles)
			}
		})
	}
}

func TestRunIsDeterministic(t *testing.T) {
	t.Parallel()

	cfg := Config{Rounds: 100, Tables: 4, Bot: "random", Seed: 7, Logger: quietLogger()}
	a, err := New(cfg).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(cfg).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if a.Summary != b.Summary {
		t.Errorf("same seed gave different results:\n%+v\n%+v", a.Summary, b.Summary)
	}
}

func TestRunErrors(t *testing.T) {
	t.Parallel()

	if _, err := New(Config{Rounds: 0}).Run(context.Background()); err == nil {
		t.Error("Expected error for zero rounds")
	}
	if _, err := New(Config{Rounds: 1, Bot: "psychic"}).Run(context.Background()); err == nil {
		t.Error("Expected error for unknown bot")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(Config{Rounds: 10, Logger: quietLogger()}).Run(ctx); err == nil {
		t.Error("Expected error for cancelled context")
	}
}

func TestPlayRound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		cards string
		check func(t *testing.T, r statistics.RoundResult)
	}{
		{
			name:  "dealer natural",
			cards: "As Kh",
			check: func(t *testing.T, r statistics.RoundResult) {
				if !r.DealerNatural || r.Outcome != game.DealerWon || r.Net != -10 {
					t.Errorf("got %+v", r)
				}
			},
		},
		{
			// player 5, 6 then doubles onto Kd for 21 vs dealer 17
			name:  "double win",
			cards: "Th 7s 5c 6d Kd",
			check: func(t *testing.T, r statistics.RoundResult) {
				if !r.Doubled || r.Outcome != game.PlayerWon || r.Net != 20 || r.Wagered != 20 {
					t.Errorf("got %+v", r)
				}
			},
		},
		{
			// player Kc, hits 6d to 16 vs dealer 10, hits again and busts on Qh
			name:  "player bust",
			cards: "Th 7s Kc 6d Qh",
			check: func(t *testing.T, r statistics.RoundResult) {
				if !r.PlayerBust || r.Outcome != game.DealerWon || r.Net != -10 {
					t.Errorf("got %+v", r)
				}
			},
		},
		{
			// player stands on 17 vs dealer 16 which draws a king
			name:  "dealer bust",
			cards: "Th 6s Kc 7d Kh",
			check: func(t *testing.T, r statistics.RoundResult) {
				if !r.DealerBust || r.Outcome != game.PlayerWon || r.Net != 10 {
					t.Errorf("got %+v", r)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := game.NewTestGame(tt.cards)
			r, err := PlayRound(g, bot.NewChartBot(quietLogger()), 10)
			if err != nil {
				t.Fatal(err)
			}
			tt.check(t, r)
			if g.Status() != game.Initialized {
				t.Errorf("round not settled, status %s", g.Status())
			}
		})
	}
}

func TestReportOutput(t *testing.T) {
	t.Parallel()

	report, err := New(Config{Rounds: 50, Bot: "counter", Seed: 1, Logger: quietLogger()}).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	PrintSummary(&buf, report)
	if !strings.Contains(buf.String(), "counter-bot") || !strings.Contains(buf.String(), "House edge") {
		t.Errorf("unexpected summary:\n%s", buf.String())
	}

	path := filepath.Join(t.TempDir(), "report.json")
	if err := fileutil.WriteJSONAtomic(path, report, 0o644); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["bot"] != "counter" {
		t.Errorf("bot = %v", decoded["bot"])
	}
	if _, ok := decoded["Stats"]; ok {
		t.Error("raw statistics should not be serialised")
	}
}
