package statistics

import (
	"math"
	"strings"
	"testing"

	"github.com/Flowwrian/blackjack-simulator/internal/game"
)

func win(net int) RoundResult {
	return RoundResult{Net: net, Wagered: net, BaseBet: 10, Outcome: game.PlayerWon}
}

func loss(net int) RoundResult {
	return RoundResult{Net: -net, Wagered: net, BaseBet: 10, Outcome: game.DealerWon}
}

func push(stake int) RoundResult {
	return RoundResult{Wagered: stake, BaseBet: 10, Outcome: game.Draw}
}

func TestStatistics_Empty(t *testing.T) {
	stats := &Statistics{}

	if stats.Mean() != 0 {
		t.Errorf("Expected mean of 0 for empty stats, got %f", stats.Mean())
	}
	if stats.Variance() != 0 {
		t.Errorf("Expected variance of 0 for empty stats, got %f", stats.Variance())
	}
	if stats.StdError() != 0 {
		t.Errorf("Expected stderr of 0 for empty stats, got %f", stats.StdError())
	}
	if stats.Median() != 0 {
		t.Errorf("Expected median of 0 for empty stats, got %f", stats.Median())
	}
	if stats.Percentile(0.5) != 0 {
		t.Errorf("Expected percentile of 0 for empty stats, got %f", stats.Percentile(0.5))
	}
	if stats.HouseEdge() != 0 || stats.WinRate() != 0 {
		t.Error("Expected zero rates for empty stats")
	}
}

func TestStatistics_MultipleValues(t *testing.T) {
	stats := &Statistics{}

	results := []RoundResult{
		win(10),
		loss(20),
		{Net: 20, Wagered: 20, BaseBet: 10, Outcome: game.PlayerWon, Doubled: true},
		push(10),
		{Net: -10, Wagered: 10, BaseBet: 10, Outcome: game.DealerWon, PlayerBust: true, Reshuffles: 1},
	}
	for _, r := range results {
		stats.Add(r)
	}

	// units: 1, -2, 2, 0, -1
	if math.Abs(stats.Mean()-0.0) > 1e-9 {
		t.Errorf("Expected mean of 0, got %f", stats.Mean())
	}
	if stats.Median() != 0.0 {
		t.Errorf("Expected median of 0.0, got %f", stats.Median())
	}
	if stats.Wins != 2 || stats.Losses != 2 || stats.Pushes != 1 {
		t.Errorf("Outcomes = %d/%d/%d, want 2/2/1", stats.Wins, stats.Losses, stats.Pushes)
	}
	if stats.Doubles != 1 || stats.DoubleNet != 20 {
		t.Errorf("Doubles = %d (%d), want 1 (20)", stats.Doubles, stats.DoubleNet)
	}
	if stats.PlayerBusts != 1 || stats.Reshuffles != 1 {
		t.Errorf("busts=%d reshuffles=%d", stats.PlayerBusts, stats.Reshuffles)
	}
	if stats.Wagered != 70 {
		t.Errorf("Expected 70 wagered, got %d", stats.Wagered)
	}
	if !stats.IsLedgerBalanced() {
		t.Error("Expected ledger to be balanced")
	}
	if err := stats.Validate(); err != nil {
		t.Errorf("Expected valid stats, got %v", err)
	}
}

func TestStatistics_Percentiles(t *testing.T) {
	stats := &Statistics{}
	for i := 1; i <= 5; i++ {
		stats.Add(win(i * 10))
	}

	tests := []struct {
		percentile float64
		expected   float64
	}{
		{0.0, 1.0},
		{0.25, 2.0},
		{0.5, 3.0},
		{0.75, 4.0},
		{1.0, 5.0},
	}

	for _, test := range tests {
		result := stats.Percentile(test.percentile)
		if math.Abs(result-test.expected) > 1e-9 {
			t.Errorf("Percentile %.2f: expected %f, got %f", test.percentile, test.expected, result)
		}
	}
}

func TestStatistics_VarianceAndInterval(t *testing.T) {
	stats := &Statistics{}
	// units [1, 3, 5] -> sample variance 4
	for _, net := range []int{10, 30, 50} {
		stats.Add(win(net))
	}

	if math.Abs(stats.Variance()-4.0) > 1e-9 {
		t.Errorf("Expected variance of 4, got %f", stats.Variance())
	}
	if math.Abs(stats.StdDev()-2.0) > 1e-9 {
		t.Errorf("Expected stddev of 2, got %f", stats.StdDev())
	}

	low, high := stats.ConfidenceInterval95()
	if math.Abs((low+high)/2-stats.Mean()) > 1e-9 {
		t.Errorf("Confidence interval not symmetric around mean. Low: %f, High: %f", low, high)
	}
	if high-low <= 0 {
		t.Errorf("Confidence interval should be positive width, got %f", high-low)
	}
}

func TestStatistics_HouseEdge(t *testing.T) {
	stats := &Statistics{}
	stats.Add(loss(10))
	stats.Add(loss(10))
	stats.Add(win(10))
	stats.Add(push(10))

	if got := stats.HouseEdge(); math.Abs(got-0.25) > 1e-9 {
		t.Errorf("Expected house edge 0.25, got %f", got)
	}
	if got := stats.WinRate(); math.Abs(got-0.25) > 1e-9 {
		t.Errorf("Expected win rate 0.25, got %f", got)
	}
}

func TestStatistics_CountTracking(t *testing.T) {
	stats := &Statistics{}
	stats.Add(RoundResult{Net: 20, Wagered: 20, BaseBet: 10, Outcome: game.PlayerWon, CardCount: 3})
	stats.Add(RoundResult{Net: -10, Wagered: 10, BaseBet: 10, Outcome: game.DealerWon, CardCount: -2})

	if stats.PositiveCountRounds != 1 || stats.PositiveCountNet != 20 {
		t.Errorf("positive count: rounds=%d net=%d", stats.PositiveCountRounds, stats.PositiveCountNet)
	}
}

func TestStatistics_Merge(t *testing.T) {
	a, b := &Statistics{}, &Statistics{}
	a.Add(win(10))
	a.Add(loss(10))
	b.Add(push(10))
	b.Add(RoundResult{Net: -10, Wagered: 10, BaseBet: 10, Outcome: game.DealerWon, DealerNatural: true})

	a.Merge(b)
	if a.Rounds != 4 || len(a.Values) != 4 {
		t.Fatalf("Expected 4 rounds after merge, got %d (%d values)", a.Rounds, len(a.Values))
	}
	if a.DealerNaturals != 1 || a.Pushes != 1 {
		t.Errorf("naturals=%d pushes=%d", a.DealerNaturals, a.Pushes)
	}
	if err := a.Validate(); err != nil {
		t.Errorf("merged stats invalid: %v", err)
	}
}

func TestStatistics_Validate(t *testing.T) {
	tests := []struct {
		name  string
		stats Statistics
		want  string
	}{
		{"no rounds", Statistics{}, "invalid rounds count"},
		{"ledger", Statistics{Rounds: 1, Values: []float64{1}, Net: 10, WinNet: 5, Wins: 1}, "ledger mismatch"},
		{"values", Statistics{Rounds: 2, Values: []float64{1}, Pushes: 2}, "values array length"},
		{"outcomes", Statistics{Rounds: 2, Values: []float64{0, 0}, Pushes: 1}, "outcomes total"},
		{"busts", Statistics{Rounds: 1, Values: []float64{0}, Pushes: 1, PlayerBusts: 1}, "event counts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.stats.Validate()
			if err == nil {
				t.Fatal("Expected validation to fail")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected %q error, got: %v", tt.want, err)
			}
		})
	}
}
