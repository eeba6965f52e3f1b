package runner

// State is the execution state of a runner.
type State int

// Runner states.
const (
	NotStarted State = iota
	Running
	Paused
	Stopped
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}
