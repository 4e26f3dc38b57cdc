package supervisor

// State is the lifecycle state of the supervised store handle.
type State int32

const (
	Disconnected State = iota
	Connecting
	Connected
	Errored
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "DISCONNECTED"
	case Connecting:
		return "CONNECTING"
	case Connected:
		return "CONNECTED"
	case Errored:
		return "ERRORED"
	default:
		return "UNKNOWN"
	}
}

// States lists every state, in declaration order.
var States = []State{Disconnected, Connecting, Connected, Errored}
