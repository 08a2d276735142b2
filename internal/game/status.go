package game

import "fmt"

// Status is the phase marker returned by every state transition
type Status int

const (
	Initialized Status = iota
	Ongoing
	PlayerWon
	PlayerFinished
	DealerWon
	Draw
)

func (s Status) String() string {
	switch s {
	case Initialized:
		return "Initialized"
	case Ongoing:
		return "Ongoing"
	case PlayerWon:
		return "PlayerWon"
	case PlayerFinished:
		return "PlayerFinished"
	case DealerWon:
		return "DealerWon"
	case Draw:
		return "Draw"
	default:
		return "Unknown"
	}
}

// IsOutcome reports whether the status decides the round
func (s Status) IsOutcome() bool {
	return s == PlayerWon || s == DealerWon || s == Draw
}

// ParseStatus converts a wire token such as "PlayerWon" into a Status
func ParseStatus(s string) (Status, error) {
	for st := Initialized; st <= Draw; st++ {
		if st.String() == s {
			return st, nil
		}
	}
	return Initialized, fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// MarshalText implements encoding.TextMarshaler
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Status) UnmarshalText(text []byte) error {
	st, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// Action represents a player decision
type Action int

const (
	Hit Action = iota
	Stand
	Double
	Split
)

func (a Action) String() string {
	switch a {
	case Hit:
		return "Hit"
	case Stand:
		return "Stand"
	case Double:
		return "Double"
	case Split:
		return "Split"
	default:
		return "Unknown"
	}
}

// ParseAction converts a wire token ("Hit", "Stand", "Double", "Split") into
// an Action. Unknown tokens are an error, never a default.
func ParseAction(s string) (Action, error) {
	switch s {
	case "Hit":
		return Hit, nil
	case "Stand":
		return Stand, nil
	case "Double":
		return Double, nil
	case "Split":
		return Split, nil
	default:
		return Hit, fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
}
