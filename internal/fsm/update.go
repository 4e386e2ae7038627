// Package fsm holds the pure connection lifecycle machine.
//
// Update maps an Action and the current State to the next State plus an ordered list
// of Effects. It performs no I/O and never looks at the clock; the interpreter in
// internal/websocket executes the effects and feeds socket and timer events back in
// as new actions.
package fsm

import "time"

// Update applies action to state. Every combination is defined: pairs without a
// transition return state unchanged and no effects.
func Update(action Action, state State) (State, []Effect) {
	ctx := state.Context

	switch state.Tag {
	case Initial, Reconnecting:
		if action == ActionConnect {
			return State{Tag: Connecting, Context: ctx}, connectEffects(ctx)
		}

	case Connecting:
		switch action {
		case ActionOpen:
			ctx.ReconnectAttempt = 0
			return State{Tag: Open, Context: ctx}, []Effect{
				ScheduleTimeout{Key: KeyPing, Timeout: ctx.PingTimeout, OnTimeout: ActionPingTimeout},
			}
		case ActionClose:
			return State{Tag: Closed, Context: ctx}, closeEffects()
		}

	case Open:
		switch action {
		case ActionPingTimeout:
			return state, []Effect{
				ClearTimeout{Key: KeyPing},
				SendPing{},
				ScheduleTimeout{Key: KeyPong, Timeout: ctx.PongTimeout, OnTimeout: ActionPongTimeout},
			}
		case ActionPongTimeout:
			// CLOSE clears the timers, RECONNECT schedules the next attempt.
			return state, []Effect{
				TriggerAction{Action: ActionClose},
				TriggerAction{Action: ActionReconnect},
			}
		case ActionHeartbeat:
			return state, []Effect{
				ClearTimeout{Key: KeyPing},
				ClearTimeout{Key: KeyPong},
				ScheduleTimeout{Key: KeyPing, Timeout: ctx.PingTimeout, OnTimeout: ActionPingTimeout},
			}
		case ActionClose:
			return State{Tag: Closed, Context: ctx}, closeEffects()
		}

	case Closed:
		if action == ActionReconnect {
			ctx.ReconnectAttempt++
			backoff := ctx.Backoff
			if backoff == nil {
				backoff = DefaultBackoff
			}
			delay := millis(backoff(ctx.ReconnectAttempt, ctx.RandSeed))
			return State{Tag: Reconnecting, Context: ctx}, []Effect{
				ScheduleTimeout{Key: KeyConnect, Timeout: delay, OnTimeout: ActionConnect},
			}
		}
	}

	return state, nil
}

func connectEffects(ctx Context) []Effect {
	return []Effect{
		ClearTimeout{Key: KeyConnect},
		ConnectWS{
			URL:           ctx.URL,
			OnOpen:        ActionOpen,
			OnClose:       ActionClose,
			OnPongMessage: ActionHeartbeat,
		},
	}
}

func closeEffects() []Effect {
	return []Effect{
		ClearTimeout{Key: KeyConnect},
		ClearTimeout{Key: KeyPing},
		ClearTimeout{Key: KeyPong},
	}
}

func millis(ms float64) time.Duration {
	if ms <= 0 {
		return 0
	}
	return time.Duration(ms * float64(time.Millisecond))
}
