package simulator

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/Flowwrian/blackjack-simulator/internal/game"
	"github.com/Flowwrian/blackjack-simulator/internal/statistics"
)

// RoundMonitor receives notifications about simulation progress. Tables run
// in parallel, so implementations must be safe for concurrent use.
type RoundMonitor interface {
	// OnSimulationStart is called once before any table starts.
	OnSimulationStart(tables, rounds int)

	// OnRoundComplete is called after each settled round.
	OnRoundComplete(table int, result statistics.RoundResult)

	// OnSimulationComplete is called once all tables have stopped.
	OnSimulationComplete(rounds int, reason string)
}

// NullMonitor is a no-op implementation.
type NullMonitor struct{}

func (NullMonitor) OnSimulationStart(int, int)                   {}
func (NullMonitor) OnRoundComplete(int, statistics.RoundResult) {}
func (NullMonitor) OnSimulationComplete(int, string)            {}

// MultiMonitor fans events out to several monitors.
type MultiMonitor struct {
	monitors []RoundMonitor
}

// NewMultiMonitor builds a composite monitor, pruning nil entries and
// returning a NullMonitor when none are left.
func NewMultiMonitor(monitors ...RoundMonitor) RoundMonitor {
	filtered := make([]RoundMonitor, 0, len(monitors))
	for _, monitor := range monitors {
		if monitor != nil {
			filtered = append(filtered, monitor)
		}
	}

	switch len(filtered) {
	case 0:
		return NullMonitor{}
	case 1:
		return filtered[0]
	default:
		return MultiMonitor{monitors: filtered}
	}
}

func (m MultiMonitor) OnSimulationStart(tables, rounds int) {
	for _, monitor := range m.monitors {
		monitor.OnSimulationStart(tables, rounds)
	}
}

func (m MultiMonitor) OnRoundComplete(table int, result statistics.RoundResult) {
	for _, monitor := range m.monitors {
		monitor.OnRoundComplete(table, result)
	}
}

func (m MultiMonitor) OnSimulationComplete(rounds int, reason string) {
	for _, monitor := range m.monitors {
		monitor.OnSimulationComplete(rounds, reason)
	}
}

const (
	dotGreen = "\033[32m●\033[0m" // Green dot for wins
	dotRed   = "\033[31m●\033[0m" // Red dot for losses
	dotGray  = "\033[90m●\033[0m" // Gray dot for pushes
)

// DotsMonitor prints one coloured dot per round: green when the player won,
// red when the dealer won, gray for a push.
type DotsMonitor struct {
	writer    io.Writer
	mu        sync.Mutex
	dotCount  int
	lineWidth int // Wrap after this many dots
}

// NewDotsMonitor creates a new dots monitor.
func NewDotsMonitor(writer io.Writer) *DotsMonitor {
	if writer == nil {
		writer = os.Stdout
	}

	return &DotsMonitor{
		writer:    writer,
		lineWidth: 80,
	}
}

// OnSimulationStart implements RoundMonitor.
func (d *DotsMonitor) OnSimulationStart(tables, rounds int) {}

// OnRoundComplete implements RoundMonitor.
func (d *DotsMonitor) OnRoundComplete(table int, result statistics.RoundResult) {
	d.mu.Lock()
	defer d.mu.Unlock()

	fmt.Fprint(d.writer, selectDot(result.Outcome))

	d.dotCount++
	if d.dotCount >= d.lineWidth {
		fmt.Fprintln(d.writer)
		d.dotCount = 0
	}
}

// OnSimulationComplete implements RoundMonitor.
func (d *DotsMonitor) OnSimulationComplete(rounds int, reason string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	// Print newline if we have dots on the current line
	if d.dotCount > 0 {
		fmt.Fprintln(d.writer)
		d.dotCount = 0
	}

	fmt.Fprintf(d.writer, "\nCompleted %d rounds (%s)\n", rounds, reason)
}

func selectDot(outcome game.Status) string {
	switch outcome {
	case game.PlayerWon:
		return dotGreen
	case game.DealerWon:
		return dotRed
	default:
		return dotGray
	}
}
