package simulator

import (
	"fmt"
	"io"
	"time"

	"github.com/Flowwrian/blackjack-simulator/internal/statistics"
)

// Report is the JSON-serialisable result of a simulation
type Report struct {
	Bot      string        `json:"bot"`
	Tables   int           `json:"tables"`
	Rounds   int           `json:"rounds_per_table"`
	Decks    int           `json:"decks"`
	BaseBet  int           `json:"base_bet"`
	Seed     int64         `json:"seed"`
	Duration time.Duration `json:"duration_ns"`
	Summary  Summary       `json:"summary"`

	Stats *statistics.Statistics `json:"-"`
}

// Summary holds the derived figures, in base-bet units where applicable
type Summary struct {
	Rounds         int     `json:"rounds"`
	Mean           float64 `json:"mean_units"`
	Median         float64 `json:"median_units"`
	StdDev         float64 `json:"stddev_units"`
	StdError       float64 `json:"stderr_units"`
	CILow          float64 `json:"ci95_low"`
	CIHigh         float64 `json:"ci95_high"`
	HouseEdge      float64 `json:"house_edge"`
	WinRate        float64 `json:"win_rate"`
	Net            int     `json:"net"`
	Wagered        int     `json:"wagered"`
	Wins           int     `json:"wins"`
	Losses         int     `json:"losses"`
	Pushes         int     `json:"pushes"`
	Doubles        int     `json:"doubles"`
	PlayerBusts    int     `json:"player_busts"`
	DealerBusts    int     `json:"dealer_busts"`
	DealerNaturals int     `json:"dealer_naturals"`
	Reshuffles     int     `json:"reshuffles"`
}

// NewReport summarises stats for the given configuration
func NewReport(cfg Config, stats *statistics.Statistics, d time.Duration) *Report {
	low, high := stats.ConfidenceInterval95()
	return &Report{
		Bot:      cfg.Bot,
		Tables:   cfg.Tables,
		Rounds:   cfg.Rounds,
		Decks:    cfg.Decks,
		BaseBet:  cfg.BaseBet,
		Seed:     cfg.Seed,
		Duration: d,
		Stats:    stats,
		Summary: Summary{
			Rounds:         stats.Rounds,
			Mean:           stats.Mean(),
			Median:         stats.Median(),
			StdDev:         stats.StdDev(),
			StdError:       stats.StdError(),
			CILow:          low,
			CIHigh:         high,
			HouseEdge:      stats.HouseEdge(),
			WinRate:        stats.WinRate(),
			Net:            stats.Net,
			Wagered:        stats.Wagered,
			Wins:           stats.Wins,
			Losses:         stats.Losses,
			Pushes:         stats.Pushes,
			Doubles:        stats.Doubles,
			PlayerBusts:    stats.PlayerBusts,
			DealerBusts:    stats.DealerBusts,
			DealerNaturals: stats.DealerNaturals,
			Reshuffles:     stats.Reshuffles,
		},
	}
}

// PrintSummary prints a human-readable summary of simulation results
func PrintSummary(w io.Writer, r *Report) {
	s := r.Summary
	pct := func(n int) float64 {
		if s.Rounds == 0 {
			return 0
		}
		return float64(n) / float64(s.Rounds) * 100
	}

	fmt.Fprintf(w, "\n=== FINAL RESULTS for %s-bot ===\n", r.Bot)
	fmt.Fprintf(w, "Rounds played: %d (%d tables x %d), %d decks, base bet %d\n",
		s.Rounds, r.Tables, r.Rounds, r.Decks, r.BaseBet)

	fmt.Fprintf(w, "\n=== STATISTICAL RESULTS ===\n")
	fmt.Fprintf(w, "Mean: %.4f units/round\n", s.Mean)
	fmt.Fprintf(w, "Median: %.4f units/round\n", s.Median)
	fmt.Fprintf(w, "Std Dev: %.4f units\n", s.StdDev)
	fmt.Fprintf(w, "Std Error: %.4f units\n", s.StdError)
	fmt.Fprintf(w, "95%% CI: [%.4f, %.4f] units/round\n", s.CILow, s.CIHigh)
	fmt.Fprintf(w, "House edge: %.2f%% of %d wagered (net %d)\n", s.HouseEdge*100, s.Wagered, s.Net)

	fmt.Fprintf(w, "\n=== OUTCOMES ===\n")
	fmt.Fprintf(w, "Wins: %d (%.1f%%), Losses: %d (%.1f%%), Pushes: %d (%.1f%%)\n",
		s.Wins, pct(s.Wins), s.Losses, pct(s.Losses), s.Pushes, pct(s.Pushes))
	fmt.Fprintf(w, "Doubles: %d, Player busts: %d, Dealer busts: %d, Dealer naturals: %d\n",
		s.Doubles, s.PlayerBusts, s.DealerBusts, s.DealerNaturals)
	fmt.Fprintf(w, "Reshuffles: %d\n", s.Reshuffles)
}
