package game

import (
	"slices"

	"github.com/Flowwrian/blackjack-simulator/internal/deck"
)

// PlayerStats accumulates betting, outcome and card-count history. Entries
// are only ever appended.
type PlayerStats struct {
	bets          []int
	wins          []int
	matchesPlayed int
	timesDoubled  int
	averageBet    int
	averageWin    int
	cardCount     int
}

// StatsSnapshot is a by-value copy of PlayerStats
type StatsSnapshot struct {
	AllBets       []int `json:"all_bets"`
	AllWins       []int `json:"all_wins"`
	MatchesPlayed int   `json:"matches_played"`
	AverageBet    int   `json:"average_bet"`
	TimesDoubled  int   `json:"times_doubled"`
	AverageWin    int   `json:"average_win"`
	CardCount     int   `json:"card_count"`
}

// RecordBet appends a bet and recomputes the average bet. The divisor uses
// the counters as they stand before the current match or double is counted.
func (s *PlayerStats) RecordBet(amount int) {
	s.bets = append(s.bets, amount)
	s.averageBet = sum(s.bets) / (s.matchesPlayed + s.timesDoubled + 1)
}

// RecordMatchPlayed counts one round
func (s *PlayerStats) RecordMatchPlayed() {
	s.matchesPlayed++
}

// RecordDouble counts one double down
func (s *PlayerStats) RecordDouble() {
	s.timesDoubled++
}

// RecordWin appends a settlement delta: +bet for a win, 0 for a push and
// -bet for a loss.
func (s *PlayerStats) RecordWin(delta int) error {
	if s.matchesPlayed == 0 {
		return ErrNoMatchesPlayed
	}
	s.wins = append(s.wins, delta)
	s.averageWin = sum(s.wins) / s.matchesPlayed
	return nil
}

// RecordCardSeen updates the running count: tens, faces and aces lower it,
// two through six raise it, seven through nine leave it alone.
func (s *PlayerStats) RecordCardSeen(c deck.Card) {
	switch v := c.Value(); {
	case v >= 10:
		s.cardCount--
	case v <= 6:
		s.cardCount++
	}
}

// MatchesPlayed returns the number of rounds bet on
func (s *PlayerStats) MatchesPlayed() int { return s.matchesPlayed }

// TimesDoubled returns the number of double downs
func (s *PlayerStats) TimesDoubled() int { return s.timesDoubled }

// AverageBet returns the running average bet
func (s *PlayerStats) AverageBet() int { return s.averageBet }

// AverageWin returns the running average settlement delta
func (s *PlayerStats) AverageWin() int { return s.averageWin }

// CardCount returns the running count of cards seen face up
func (s *PlayerStats) CardCount() int { return s.cardCount }

// Snapshot returns a copy that shares no memory with s
func (s *PlayerStats) Snapshot() StatsSnapshot {
	bets := slices.Clone(s.bets)
	if bets == nil {
		bets = []int{}
	}
	wins := slices.Clone(s.wins)
	if wins == nil {
		wins = []int{}
	}
	return StatsSnapshot{
		AllBets:       bets,
		AllWins:       wins,
		MatchesPlayed: s.matchesPlayed,
		AverageBet:    s.averageBet,
		TimesDoubled:  s.timesDoubled,
		AverageWin:    s.averageWin,
		CardCount:     s.cardCount,
	}
}

func sum(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}
