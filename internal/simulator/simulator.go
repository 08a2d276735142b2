package simulator

import (
	"context"
	"fmt"
	"io"
	rand "math/rand/v2"
	"time"

	"github.com/Flowwrian/blackjack-simulator/internal/bot"
	"github.com/Flowwrian/blackjack-simulator/internal/game"
	"github.com/Flowwrian/blackjack-simulator/internal/randutil"
	"github.com/Flowwrian/blackjack-simulator/internal/statistics"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// Config holds configuration for running simulations
type Config struct {
	Rounds   int // Rounds per table
	Tables   int // Independent tables played in parallel
	Bot      string
	BaseBet  int
	Decks    int
	Bankroll int
	Seed     int64
	Logger   *log.Logger
	Monitor  RoundMonitor // Optional progress output
}

// Simulator plays many rounds with a bot and aggregates the results
type Simulator struct {
	config Config
}

// New creates a new simulator, filling unset fields with defaults
func New(config Config) *Simulator {
	if config.Tables < 1 {
		config.Tables = 1
	}
	if config.BaseBet < 1 {
		config.BaseBet = 10
	}
	if config.Decks < 1 {
		config.Decks = game.DefaultDecks
	}
	if config.Bankroll == 0 {
		config.Bankroll = game.DefaultBankroll
	}
	if config.Bot == "" {
		config.Bot = "basic"
	}
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	if config.Monitor == nil {
		config.Monitor = NullMonitor{}
	}
	return &Simulator{config: config}
}

// Run plays Config.Tables tables of Config.Rounds rounds each. Tables run in
// parallel with their own seeded RNG, so equal seeds give equal reports.
func (s *Simulator) Run(ctx context.Context) (*Report, error) {
	if s.config.Rounds < 1 {
		return nil, fmt.Errorf("rounds must be positive, got %d", s.config.Rounds)
	}
	if _, err := bot.ByName(s.config.Bot, randutil.New(0), s.config.Logger); err != nil {
		return nil, err
	}

	logger := s.config.Logger.WithPrefix("simulator")
	start := time.Now()

	// Seeds are drawn up front so scheduling cannot change them.
	master := randutil.New(s.config.Seed)
	seeds := make([]int64, s.config.Tables)
	for i := range seeds {
		seeds[i] = master.Int64()
	}

	s.config.Monitor.OnSimulationStart(s.config.Tables, s.config.Rounds)

	perTable := make([]*statistics.Statistics, s.config.Tables)
	g, ctx := errgroup.WithContext(ctx)
	for i, seed := range seeds {
		g.Go(func() error {
			stats, err := s.playTable(ctx, i, randutil.New(seed))
			if err != nil {
				return fmt.Errorf("table %d: %w", i, err)
			}
			perTable[i] = stats
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.config.Monitor.OnSimulationComplete(countRounds(perTable), "stopped: "+err.Error())
		return nil, err
	}

	total := &statistics.Statistics{}
	for _, stats := range perTable {
		total.Merge(stats)
	}
	if err := total.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	s.config.Monitor.OnSimulationComplete(total.Rounds, "completed")

	report := NewReport(s.config, total, time.Since(start))
	logger.Info("Simulation complete",
		"bot", s.config.Bot,
		"rounds", total.Rounds,
		"mean", fmt.Sprintf("%.4f", total.Mean()),
		"duration", report.Duration)
	return report, nil
}

func (s *Simulator) playTable(ctx context.Context, table int, rng *rand.Rand) (*statistics.Statistics, error) {
	logger := s.config.Logger.WithPrefix("simulator").With("table", table)

	b, err := bot.ByName(s.config.Bot, randutil.Child(rng), s.config.Logger)
	if err != nil {
		return nil, err
	}

	var reshuffles int
	g := game.New(rng,
		game.WithDecks(s.config.Decks),
		game.WithBankroll(s.config.Bankroll),
		game.WithLogger(s.config.Logger),
		game.WithEventHandler(func(ev game.GameEvent) {
			if d, ok := ev.(game.DrawEvent); ok && d.Reshuffled {
				reshuffles++
			}
		}),
	)

	stats := &statistics.Statistics{}
	for round := range s.config.Rounds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		reshuffles = 0
		result, err := PlayRound(g, b, s.config.BaseBet)
		if err != nil {
			return nil, fmt.Errorf("round %d: %w", round, err)
		}
		result.Reshuffles = reshuffles
		stats.Add(result)
		s.config.Monitor.OnRoundComplete(table, result)
	}

	logger.Debug("Table finished", "rounds", stats.Rounds, "net", stats.Net, "bankroll", g.Bankroll())
	return stats, nil
}

// PlayRound drives one complete round through the same entry points a
// client uses: start, actions, dealer turn, settle.
func PlayRound(g *game.Game, b bot.Bot, baseBet int) (statistics.RoundResult, error) {
	before := g.Bankroll()
	view := g.PlayerView()
	result := statistics.RoundResult{
		BaseBet:   baseBet,
		CardCount: view.Stats.CardCount,
	}

	status, err := g.StartRound(b.Bet(view, baseBet))
	if err != nil {
		return result, err
	}
	result.DealerNatural = status == game.DealerWon

	for status == game.Ongoing {
		d := b.Decide(g.PlayerView())
		if status, err = g.ApplyAction(d.Action); err != nil {
			return result, fmt.Errorf("%s: %w", d.Action, err)
		}
		if d.Action == game.Double {
			result.Doubled = true
		}
	}

	snap := g.Snapshot()
	result.PlayerBust = snap.PlayerHand.IsBust()

	if status == game.PlayerFinished || status == game.PlayerWon {
		if status, err = g.PlayDealersTurn(); err != nil {
			return result, err
		}
		result.DealerBust = g.Snapshot().DealerHand.IsBust()
	}

	result.Wagered = g.Bet()
	if err := g.SettleRound(status); err != nil {
		return result, err
	}

	result.Outcome = status
	result.Net = g.Bankroll() - before
	return result, nil
}

func countRounds(perTable []*statistics.Statistics) int {
	n := 0
	for _, stats := range perTable {
		if stats != nil {
			n += stats.Rounds
		}
	}
	return n
}
