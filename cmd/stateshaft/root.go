package main

import (
	"fmt"
	"io"

	"github.com/amp-labs/stateshaft/cli"
	"github.com/spf13/cobra"
)

// prompter asks the questions of an interactive walk. The binary prompts
// with promptui, tests script the answers.
type prompter struct {
	choose  func(label string, choices ...string) (string, error)
	confirm func(label string) (bool, error)
}

func terminalPrompter() prompter {
	return prompter{
		choose:  cli.Select,
		confirm: cli.PromptConfirm,
	}
}

func newRootCmd(out, errOut io.Writer, prompt prompter) *cobra.Command {
	root := &cobra.Command{
		Use:          "stateshaft",
		Short:        "Inspect and walk YAML state machine definitions",
		SilenceUsage: true,
	}

	root.SetOut(out)
	root.SetErr(errOut)

	root.AddCommand(
		newValidateCmd(),
		newDescribeCmd(),
		newWalkCmd(prompt),
	)

	return root
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Parse a definition and report every problem in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := loadDefinition(args[0])
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: valid %s definition\n", args[0], def.kind())

			return err
		},
	}
}

func newDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <file>",
		Short: "Print the states and transitions or events of a definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := loadDefinition(args[0])
			if err != nil {
				return err
			}

			return def.describe(cmd.OutOrStdout())
		},
	}
}

func newWalkCmd(prompt prompter) *cobra.Command {
	return &cobra.Command{
		Use:   "walk <file>",
		Short: "Step through a statehandler definition by choosing transitions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := loadDefinition(args[0])
			if err != nil {
				return err
			}

			if def.stateHandler == nil {
				return errWalkNeedsStateHandler
			}

			return walk(cmd.Context(), cmd.OutOrStdout(), def.stateHandler, prompt)
		},
	}
}
