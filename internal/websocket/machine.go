package websocket

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/luciancaetano/rews"
	"github.com/luciancaetano/rews/internal/fsm"
)

// maxTriggerDepth bounds synchronous TriggerAction recursion. The transition table
// chains at most two levels (PONG_TIMEOUT -> CLOSE, RECONNECT).
const maxTriggerDepth = 8

type timer struct {
	key fsm.TimeoutKey
	t   *time.Timer
}

// Machine runs fsm.Update and executes the returned effects against a real socket
// and real timers.
//
// Every entry point (external calls, timer fires, socket events) goes through mu, so
// transitions are applied one at a time, as on a single-threaded event loop. The
// current state and socket are also published atomically so State and Send never
// wait on a dispatch in progress.
type Machine struct {
	cfg    *ClientConfig
	logger *slog.Logger

	mu       sync.Mutex
	timers   map[fsm.TimeoutKey]*timer
	observer OnStateChangeFn
	depth    int

	state  atomic.Pointer[fsm.State]
	socket atomic.Pointer[socket]
}

// NewMachine returns a machine in the INITIAL state. cfg must already carry defaults.
func NewMachine(cfg *ClientConfig, randSeed float64, logger *slog.Logger) *Machine {
	m := &Machine{
		cfg:      cfg,
		logger:   logger,
		timers:   make(map[fsm.TimeoutKey]*timer),
		observer: cfg.OnStateChange,
	}
	initial := fsm.NewState(fsm.Context{
		URL:         cfg.URL,
		RandSeed:    randSeed,
		PingTimeout: cfg.PingTimeout,
		PongTimeout: cfg.PongTimeout,
		Backoff:     cfg.Backoff,
	})
	m.state.Store(&initial)
	return m
}

// State returns the current state snapshot.
func (m *Machine) State() fsm.State {
	return *m.state.Load()
}

// Dispatch applies action and runs the resulting effects before returning.
func (m *Machine) Dispatch(action fsm.Action) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.step(action)
}

// Reset detaches and closes the socket, cancels every timer and forces INITIAL with
// ReconnectAttempt 0. The observer is removed first, so the reset is not reported.
func (m *Machine) Reset() {
	m.mu.Lock()
	m.observer = nil
	s := m.socket.Swap(nil)
	m.clearAll()
	st := m.State()
	st.Tag = fsm.Initial
	st.Context.ReconnectAttempt = 0
	m.state.Store(&st)
	m.mu.Unlock()

	if s != nil {
		s.close()
	}
	m.logger.Info("Client disconnected")
}

// step must be called with mu held.
func (m *Machine) step(action fsm.Action) {
	if m.depth >= maxTriggerDepth {
		m.logger.Error("Dropping action, trigger depth exceeded", "action", action, "depth", m.depth)
		return
	}
	m.depth++
	defer func() { m.depth-- }()

	prev := m.State()
	next, effects := fsm.Update(action, prev)
	m.state.Store(&next)

	m.logger.Debug("Transition",
		"action", action,
		"from", prev.Tag,
		"to", next.Tag,
		"attempt", next.Context.ReconnectAttempt,
		"effects", len(effects))

	if m.observer != nil {
		m.observer(rews.StateChange{Previous: prev, Current: next})
	}

	for _, e := range effects {
		m.execute(e)
	}
}

func (m *Machine) execute(e fsm.Effect) {
	switch e := e.(type) {
	case fsm.ConnectWS:
		m.connect(e)
	case fsm.ScheduleTimeout:
		m.schedule(e)
	case fsm.SendPing:
		m.sendPing()
	case fsm.ClearTimeout:
		m.clear(e.Key)
	case fsm.TriggerAction:
		m.step(e.Action)
	default:
		m.logger.Error("Unknown effect", "effect", e)
	}
}

func (m *Machine) connect(e fsm.ConnectWS) {
	if old := m.socket.Swap(nil); old != nil {
		m.clearAll()
		old.close()
	}

	if st := m.State(); st.Context.ReconnectAttempt > 0 {
		m.logger.Info("Reconnecting", "url", e.URL, "attempt", st.Context.ReconnectAttempt)
	} else {
		m.logger.Info("Connecting", "url", e.URL)
	}

	cfg := *m.cfg
	cfg.URL = e.URL
	s := newSocket(&cfg, m.logger)
	m.socket.Store(s)

	s.open(socketHandlers{
		onOpen: func() {
			m.dispatchFrom(s, e.OnOpen)
		},
		onClose: func() {
			// Every close, requested or not, is followed by a reconnect attempt.
			m.dispatchFrom(s, e.OnClose, fsm.ActionReconnect)
		},
		onMessage: func(payload string) {
			if m.socket.Load() != s {
				return
			}
			if payload != m.cfg.PongMsg {
				m.cfg.OnMessage(payload)
			}
			m.dispatchFrom(s, e.OnPongMessage)
		},
	})
}

// dispatchFrom applies actions in order unless s has been detached.
func (m *Machine) dispatchFrom(s *socket, actions ...fsm.Action) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.socket.Load() != s {
		return
	}
	for _, a := range actions {
		m.step(a)
	}
}

func (m *Machine) schedule(e fsm.ScheduleTimeout) {
	// The table clears before it schedules; cancel anyway so a key never has two live timers.
	m.clear(e.Key)

	tm := &timer{key: e.Key}
	tm.t = time.AfterFunc(e.Timeout, func() {
		m.fire(tm, e.OnTimeout)
	})
	m.timers[e.Key] = tm

	if e.Key == fsm.KeyConnect {
		m.logger.Info("Reconnect scheduled", "delay", e.Timeout)
	}
}

// fire dispatches action unless tm was cleared or replaced after it was armed.
func (m *Machine) fire(tm *timer, action fsm.Action) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.timers[tm.key] != tm {
		return
	}
	delete(m.timers, tm.key)
	m.step(action)
}

func (m *Machine) clear(key fsm.TimeoutKey) {
	if tm, ok := m.timers[key]; ok {
		tm.t.Stop()
		delete(m.timers, key)
	}
}

func (m *Machine) clearAll() {
	for _, key := range fsm.TimeoutKeys {
		m.clear(key)
	}
}

func (m *Machine) sendPing() {
	s := m.socket.Load()
	if s == nil {
		return
	}
	if err := s.write(m.cfg.PingMsg); err != nil {
		m.logger.Debug("Ping not sent", "error", err)
	}
}
