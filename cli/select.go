// Package cli holds the interactive prompts used by fsmctl.
package cli

import (
	"errors"
	"slices"
	"strings"

	"facette.io/natsort"
	"github.com/manifoldco/promptui"
)

// Entries shown around the event names in SelectEvent.
const (
	ChoiceQuit  = "[Quit]"
	ChoiceOther = "[Other event]"
)

// ErrNoChoices is returned when Select is given nothing to choose from.
var ErrNoChoices = errors.New("no choices to select from")

// Select asks the user to pick one of choices. Duplicates are dropped and
// the rest shown in natural order; typing filters by prefix.
func Select(label string, choices ...string) (string, error) {
	names := sortedUnique(choices)
	if len(names) == 0 {
		return "", ErrNoChoices
	}

	sel := &promptui.Select{
		Label:    label,
		Items:    names,
		Searcher: prefixSearcher(names, 0),
	}

	_, value, err := sel.Run()
	if err != nil {
		return "", err
	}

	return value, nil
}

// SelectEvent asks for the next event to dispatch. The list starts with
// ChoiceQuit and ends with ChoiceOther, which prompts for a free-form name.
// quit is true when the user picks ChoiceQuit or interrupts the prompt.
func SelectEvent(label string, events []string) (name string, quit bool, err error) {
	items := eventItems(events)

	sel := &promptui.Select{
		Label:    label,
		Items:    items,
		Size:     min(len(items), 10), //nolint:mnd
		Searcher: prefixSearcher(items, 1),
	}

	_, value, err := sel.Run()

	switch {
	case isInterrupt(err):
		return "", true, nil
	case err != nil:
		return "", false, err
	case value == ChoiceQuit:
		return "", true, nil
	case value == ChoiceOther:
		name, err = PromptString("Event name")
		if isInterrupt(err) {
			return "", true, nil
		}

		return name, false, err
	default:
		return value, false, nil
	}
}

func eventItems(events []string) []string {
	items := []string{ChoiceQuit}
	items = append(items, sortedUnique(events)...)

	return append(items, ChoiceOther)
}

func sortedUnique(choices []string) []string {
	names := slices.Clone(choices)
	natsort.Sort(names)

	return slices.Compact(names)
}

// prefixSearcher matches items by prefix, never matching the first skip
// entries so fixed menu items do not crowd search results.
func prefixSearcher(items []string, skip int) func(input string, index int) bool {
	return func(input string, index int) bool {
		if index < skip || input == "" {
			return false
		}

		return strings.HasPrefix(items[index], input)
	}
}

func isInterrupt(err error) bool {
	return errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF)
}
