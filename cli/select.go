package cli

import (
	"errors"
	"strings"

	"github.com/manifoldco/promptui"
)

// ErrNoChoices is returned by Select when there is nothing to choose from.
var ErrNoChoices = errors.New("no choices to select from")

// Select shows an interactive list and returns the chosen entry. Typing
// filters the list by prefix.
func Select(label string, choices ...string) (string, error) {
	if len(choices) == 0 {
		return "", ErrNoChoices
	}

	sel := &promptui.Select{
		Label:    label,
		Items:    choices,
		Size:     min(len(choices), 10), //nolint:mnd
		Searcher: prefixSearcher(choices),
		Stdin:    stdin,
		Stdout:   stdout,
	}

	_, value, err := sel.Run()
	if err != nil {
		return "", err
	}

	return value, nil
}

func prefixSearcher(choices []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		if len(input) == 0 {
			return false
		}

		return strings.HasPrefix(choices[index], input)
	}
}
