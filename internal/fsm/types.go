package fsm

import "time"

// StateTag identifies which variant of the connection lifecycle is active.
type StateTag uint8

const (
	Initial StateTag = iota
	Connecting
	Open
	Closed
	Reconnecting
)

func (t StateTag) String() string {
	switch t {
	case Initial:
		return "INITIAL"
	case Connecting:
		return "CONNECTING"
	case Open:
		return "OPEN"
	case Closed:
		return "CLOSED"
	case Reconnecting:
		return "RECONNECTING"
	default:
		return "UNKNOWN"
	}
}

// Action is an event fed into Update: a socket event, a timer firing or an external call.
type Action uint8

const (
	ActionConnect Action = iota + 1
	ActionOpen
	ActionHeartbeat
	ActionPingTimeout
	ActionPongTimeout
	ActionClose
	ActionReconnect
)

func (a Action) String() string {
	switch a {
	case ActionConnect:
		return "CONNECT"
	case ActionOpen:
		return "OPEN"
	case ActionHeartbeat:
		return "HEARTBEAT"
	case ActionPingTimeout:
		return "PING_TIMEOUT"
	case ActionPongTimeout:
		return "PONG_TIMEOUT"
	case ActionClose:
		return "CLOSE"
	case ActionReconnect:
		return "RECONNECT"
	default:
		return "UNKNOWN"
	}
}

// TimeoutKey names one of the independent timer slots.
type TimeoutKey string

const (
	KeyPing    TimeoutKey = "ping"
	KeyPong    TimeoutKey = "pong"
	KeyConnect TimeoutKey = "connect"
)

// TimeoutKeys lists every timer slot, in a stable order.
var TimeoutKeys = []TimeoutKey{KeyPing, KeyPong, KeyConnect}

// BackoffFunc returns the reconnect delay in milliseconds for the given attempt.
type BackoffFunc func(attempt int, randSeed float64) float64

// Context is the data carried by every state.
type Context struct {
	URL              string
	ReconnectAttempt int
	// RandSeed is in [0,1) and fixed for the lifetime of a machine.
	RandSeed    float64
	PingTimeout time.Duration
	PongTimeout time.Duration
	Backoff     BackoffFunc
}

// State is an immutable snapshot of the machine. Update never mutates its input.
type State struct {
	Tag     StateTag
	Context Context
}

// NewState returns the INITIAL state for ctx. A nil Backoff is replaced by DefaultBackoff.
func NewState(ctx Context) State {
	if ctx.Backoff == nil {
		ctx.Backoff = DefaultBackoff
	}
	return State{Tag: Initial, Context: ctx}
}

// Effect describes a side effect for the interpreter. Update only returns them.
type Effect interface {
	effect()
}

// ConnectWS opens a new socket. The actions are injected when the matching socket event fires.
type ConnectWS struct {
	URL           string
	OnOpen        Action
	OnClose       Action
	OnPongMessage Action
}

// ScheduleTimeout arms the timer for Key; firing injects OnTimeout.
type ScheduleTimeout struct {
	Key       TimeoutKey
	Timeout   time.Duration
	OnTimeout Action
}

// SendPing writes the ping payload to the current socket.
type SendPing struct{}

// ClearTimeout cancels the pending timer for Key, if any.
type ClearTimeout struct {
	Key TimeoutKey
}

// TriggerAction re-injects Action into the machine before the batch completes.
type TriggerAction struct {
	Action Action
}

func (ConnectWS) effect()       {}
func (ScheduleTimeout) effect() {}
func (SendPing) effect()        {}
func (ClearTimeout) effect()    {}
func (TriggerAction) effect()   {}
