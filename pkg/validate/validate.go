// Package validate holds the input rules for diary entries.
package validate

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

const (
	MaxActionLength = 200
	MaxNoteLength   = 1000
)

var (
	ErrValidation     = errors.New("validation failed")
	ErrEmptyAction    = fmt.Errorf("%w: action is required", ErrValidation)
	ErrActionTooLong  = fmt.Errorf("%w: action must be at most %d characters", ErrValidation, MaxActionLength)
	ErrNoteTooLong    = fmt.Errorf("%w: note must be at most %d characters", ErrValidation, MaxNoteLength)
	actionRules       = fmt.Sprintf("required,max=%d", MaxActionLength)
	noteRules         = fmt.Sprintf("max=%d", MaxNoteLength)
	validatorInstance = validator.New()
)

// Validator returns the shared validator so struct tags elsewhere use the same instance.
func Validator() *validator.Validate {
	return validatorInstance
}

// trim strips leading and trailing whitespace, including the byte order mark
// some clipboards and mobile keyboards prepend.
func trim(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})
}

// ValidateAction trims raw and checks it is non-empty and within MaxActionLength characters.
func ValidateAction(raw string) (string, error) {
	action := trim(raw)
	if err := validatorInstance.Var(action, actionRules); err != nil {
		switch failedTag(err) {
		case "required":
			return "", ErrEmptyAction
		case "max":
			return "", ErrActionTooLong
		default:
			return "", fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}
	return action, nil
}

// ValidateNote trims raw. A nil or blank note is absent and yields nil.
func ValidateNote(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	note := trim(*raw)
	if note == "" {
		return nil, nil
	}
	if err := validatorInstance.Var(note, noteRules); err != nil {
		if failedTag(err) == "max" {
			return nil, ErrNoteTooLong
		}
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return &note, nil
}

// ValidateDraft checks the action first and stops at the first failure.
func ValidateDraft(action, note string) (string, *string, error) {
	validAction, err := ValidateAction(action)
	if err != nil {
		return "", nil, err
	}
	validNote, err := ValidateNote(&note)
	if err != nil {
		return "", nil, err
	}
	return validAction, validNote, nil
}

func failedTag(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Tag()
	}
	return ""
}
