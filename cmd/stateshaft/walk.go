package main

import (
	"context"
	"fmt"
	"io"

	"github.com/amp-labs/stateshaft/cli"
	"github.com/amp-labs/stateshaft/logger"
	"github.com/amp-labs/stateshaft/statehandler"
)

const quitChoice = "[quit]"

// walk starts at the initial state and applies the transitions the user
// picks until there are none left or the user confirms quitting. Every
// state's handler announces the state on out.
func walk(ctx context.Context, out io.Writer, def *statehandler.Definition, prompt prompter) error {
	handlers := make(map[string]statehandler.Handler, len(def.States)+1)
	for _, state := range append([]string{def.InitialState}, def.States...) {
		handlers[state] = func(context.Context, ...any) error {
			_, err := fmt.Fprintf(out, "entered %s\n", state)

			return err
		}
	}

	m, err := def.Build(handlers, statehandler.WithLogger(logger.Get(ctx)))
	if err != nil {
		return err
	}

	m.Reset()

	if err := m.Run(ctx); err != nil {
		return err
	}

	for {
		current, _ := m.CurrentState()

		transitions := m.TransitionsFrom(current)
		if len(transitions) == 0 {
			_, err := fmt.Fprintf(out, "%s has no outgoing transitions\n", current)

			return err
		}

		choices := make([]string, 0, len(transitions)+1)
		for _, t := range transitions {
			choices = append(choices, t.Name)
		}

		choices = append(choices, quitChoice)

		choice, err := prompt.choose(fmt.Sprintf("Transition from %s", current), choices...)
		if err != nil {
			if cli.IsAborted(err) {
				return nil
			}

			return err
		}

		if choice == quitChoice {
			quit, err := prompt.confirm(fmt.Sprintf("Quit while %s still has transitions", current))
			if err != nil {
				if cli.IsAborted(err) {
					return nil
				}

				return err
			}

			if quit {
				return nil
			}

			continue
		}

		if err := m.Fire(ctx, choice); err != nil {
			return err
		}

		if err := m.Run(ctx); err != nil {
			return err
		}
	}
}
