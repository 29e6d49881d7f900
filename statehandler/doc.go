// Package statehandler implements a state-indexed machine: every state owns
// one handler, and Run invokes the handler of the current state.
//
// Transitions are named, directed edges kept as data. NextState looks one up
// without touching the machine, so the caller decides when to move:
//
//	m, err := statehandler.New(statehandler.Config{
//		InitialState: "idle",
//		States:       []string{"idle", "eating", "stopped"},
//		Transitions: []statehandler.Transition{
//			{Name: "rumble", From: "idle", To: "eating"},
//			{Name: "stop", From: "eating", To: "stopped"},
//		},
//		Handlers: map[string]statehandler.Handler{
//			"idle":   onIdle,
//			"eating": onEating,
//		},
//	})
//	if err != nil {
//		return err
//	}
//
//	m.Reset()
//	_ = m.Run(ctx)
//
//	next, _ := m.NextState("rumble")
//	m.SetCurrentState(next)
//	_ = m.Run(ctx)
//
// NextState followed by SetCurrentState never checks the transition's From
// state. Fire does, for callers that want the machine to refuse moves that
// were not declared from the current state.
//
// A Machine is not safe for concurrent use.
package statehandler
