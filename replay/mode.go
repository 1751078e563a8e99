package replay

import "fmt"

// Mode selects how the simulation layer treats traffic.
type Mode int

const (
	// ModeDisabled leaves traffic untouched and records nothing.
	ModeDisabled Mode = iota

	// ModeRecord executes live and persists every response,
	// overwriting earlier recordings of the same fingerprint.
	ModeRecord

	// ModeReplay serves responses from the store and never touches
	// the network. An unknown fingerprint is a replay-miss fault.
	ModeReplay

	// ModePassThrough executes live and records fingerprints not yet
	// in the store; existing recordings are preserved.
	ModePassThrough
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeDisabled:
		return "disabled"
	case ModeRecord:
		return "record"
	case ModeReplay:
		return "replay"
	case ModePassThrough:
		return "passthrough"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode name as produced by String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "disabled", "":
		return ModeDisabled, nil
	case "record":
		return ModeRecord, nil
	case "replay":
		return ModeReplay, nil
	case "passthrough":
		return ModePassThrough, nil
	default:
		return ModeDisabled, fmt.Errorf("replay: unknown mode %q", s)
	}
}
