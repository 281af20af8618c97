package listener

// State tracks where a session is in its lifecycle:
//
//	idle -> connecting -> connected -> {receiving <-> dispatching} -> closed
//
// A connect fault moves connecting straight to closed; a clean stream end
// or cancellation moves receiving to closed. Decode faults stay inside the
// receiving/dispatching cycle.
type State int32

const (
	StateIdle State = iota
	StateConnecting
	StateConnected
	StateReceiving
	StateDispatching
	StateClosed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReceiving:
		return "receiving"
	case StateDispatching:
		return "dispatching"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// State returns the current lifecycle state. Safe to call from other
// goroutines while Listen runs.
func (l *Listener) State() State {
	return State(l.state.Load())
}

func (l *Listener) setState(s State) {
	l.state.Store(int32(s))
}
