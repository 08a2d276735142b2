package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/Flowwrian/blackjack-simulator/internal/game"
)

// RoundResult represents the outcome of a single blackjack round
type RoundResult struct {
	Net           int         // Bankroll change for the round
	Wagered       int         // Final stake, doubled stakes included
	BaseBet       int         // Unit used to normalise Net
	Outcome       game.Status // PlayerWon, DealerWon or Draw
	Doubled       bool
	PlayerBust    bool
	DealerBust    bool
	DealerNatural bool
	Reshuffles    int
	CardCount     int // Running count when the round was bet
}

// Units returns Net expressed in base bets
func (r RoundResult) Units() float64 {
	if r.BaseBet == 0 {
		return 0
	}
	return float64(r.Net) / float64(r.BaseBet)
}

// Statistics tracks results over many rounds. Means and variances are in
// base-bet units per round.
type Statistics struct {
	Rounds  int
	SumU    float64
	SumU2   float64   // Sum of squares for variance calculation
	Values  []float64 // Store all values for median/percentile calculation
	Net     int
	Wagered int

	Wins   int
	Losses int
	Pushes int

	// Net split by outcome; must add up to Net
	WinNet  int
	LossNet int

	Doubles        int
	DoubleNet      int
	PlayerBusts    int
	DealerBusts    int
	DealerNaturals int
	Reshuffles     int

	// Rounds bet with a positive running count
	PositiveCountRounds int
	PositiveCountNet    int
}

// Add incorporates a new round result into the statistics
func (s *Statistics) Add(r RoundResult) {
	u := r.Units()
	s.Rounds++
	s.SumU += u
	s.SumU2 += u * u
	s.Values = append(s.Values, u)
	s.Net += r.Net
	s.Wagered += r.Wagered

	switch r.Outcome {
	case game.PlayerWon:
		s.Wins++
		s.WinNet += r.Net
	case game.DealerWon:
		s.Losses++
		s.LossNet += r.Net
	default:
		s.Pushes++
	}

	if r.Doubled {
		s.Doubles++
		s.DoubleNet += r.Net
	}
	if r.PlayerBust {
		s.PlayerBusts++
	}
	if r.DealerBust {
		s.DealerBusts++
	}
	if r.DealerNatural {
		s.DealerNaturals++
	}
	s.Reshuffles += r.Reshuffles

	if r.CardCount > 0 {
		s.PositiveCountRounds++
		s.PositiveCountNet += r.Net
	}
}

// Merge folds other into s. Used to combine per-table results.
func (s *Statistics) Merge(other *Statistics) {
	s.Rounds += other.Rounds
	s.SumU += other.SumU
	s.SumU2 += other.SumU2
	s.Values = append(s.Values, other.Values...)
	s.Net += other.Net
	s.Wagered += other.Wagered
	s.Wins += other.Wins
	s.Losses += other.Losses
	s.Pushes += other.Pushes
	s.WinNet += other.WinNet
	s.LossNet += other.LossNet
	s.Doubles += other.Doubles
	s.DoubleNet += other.DoubleNet
	s.PlayerBusts += other.PlayerBusts
	s.DealerBusts += other.DealerBusts
	s.DealerNaturals += other.DealerNaturals
	s.Reshuffles += other.Reshuffles
	s.PositiveCountRounds += other.PositiveCountRounds
	s.PositiveCountNet += other.PositiveCountNet
}

// Mean returns the arithmetic mean of all results in units per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumU / float64(s.Rounds)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumU2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// WinRate returns the share of rounds the player won
func (s *Statistics) WinRate() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Rounds)
}

// HouseEdge returns the house's take per unit wagered
func (s *Statistics) HouseEdge() float64 {
	if s.Wagered == 0 {
		return 0
	}
	return -float64(s.Net) / float64(s.Wagered)
}

// IsLedgerBalanced checks that wins and losses account for the whole net;
// pushes never move money.
func (s *Statistics) IsLedgerBalanced() bool {
	return s.WinNet+s.LossNet == s.Net
}

// Validate performs comprehensive validation of statistics data
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: Net=%d, WinNet=%d, LossNet=%d",
			s.Net, s.WinNet, s.LossNet)
	}

	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}

	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values array length (%d) does not match rounds count (%d)",
			len(s.Values), s.Rounds)
	}

	if total := s.Wins + s.Losses + s.Pushes; total != s.Rounds {
		return fmt.Errorf("outcomes total (%d) does not match rounds count (%d)", total, s.Rounds)
	}

	if s.Doubles > s.Rounds || s.PlayerBusts > s.Losses {
		return fmt.Errorf("event counts exceed rounds: doubles=%d busts=%d losses=%d",
			s.Doubles, s.PlayerBusts, s.Losses)
	}

	return nil
}
