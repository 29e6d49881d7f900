// Package cli holds the interactive prompts used by the stateshaft binary.
package cli

import (
	"errors"
	"io"
	"os"

	"github.com/manifoldco/promptui"
)

//nolint:gochecknoglobals
var (
	stdin  io.ReadCloser  = os.Stdin
	stdout io.WriteCloser = os.Stdout
)

// PromptConfirm asks a yes/no question. An answer other than yes is false.
func PromptConfirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Stdin:     stdin,
		Stdout:    stdout,
	}

	_, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

// IsAborted reports whether err means the user left the prompt (Ctrl-C or Ctrl-D).
func IsAborted(err error) bool {
	return errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF)
}
