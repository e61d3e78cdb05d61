package cli

import (
	"errors"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
)

// ErrEmptyInput is reported by PromptString's validator for blank input.
var ErrEmptyInput = errors.New("you must enter something")

// PromptConfirm asks a yes/no question. Declining is not an error.
func PromptConfirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
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

// PromptString asks for a non-blank line of text.
func PromptString(label string) (string, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Validate: validateNonEmpty,
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
	}

	return prompt.Run()
}

func validateNonEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return ErrEmptyInput
	}

	return nil
}
