package photo

import "fmt"

type State int

const (
	Empty State = iota
	PendingFile
	ConfirmMatch
	ReadyToSave
	Saved
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case PendingFile:
		return "pending-file"
	case ConfirmMatch:
		return "confirm-match"
	case ReadyToSave:
		return "ready-to-save"
	case Saved:
		return "saved"
	}
	return "unknown"
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	for st := Empty; st <= Saved; st++ {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown photo state '%s'", text)
}
