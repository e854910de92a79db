package batch

// State is the phase a run is in.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateLoaded
	StateExporting
	StateDone
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateLoaded:
		return "loaded"
	case StateExporting:
		return "exporting"
	case StateDone:
		return "done"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}
