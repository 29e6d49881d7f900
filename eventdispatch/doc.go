// Package eventdispatch implements an event-indexed machine: every state
// owns a table of event handlers, and ProcessEvent runs the handler for an
// event under the current state.
//
// There is no transition table. A handler moves the machine by calling
// SetCurrentStateContext on it with the context it was given, which also
// records the change on the dispatch span. ProcessEvent itself never
// changes state.
//
//	var m *eventdispatch.Machine
//
//	m, err := eventdispatch.New(eventdispatch.Config{
//		InitialState: "start",
//		States: []eventdispatch.StateSpec{
//			{Name: "start", Handlers: eventdispatch.EventTable{
//				"capture": func(ctx context.Context) error {
//					return m.SetCurrentStateContext(ctx, "capturing")
//				},
//			}},
//			{Name: "capturing", Handlers: eventdispatch.EventTable{
//				"submit": submit,
//			}},
//		},
//	})
//
// A Machine is not safe for concurrent use.
package eventdispatch
