package validate

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateAction(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{name: "plain", raw: "Irrigação manual", want: "Irrigação manual"},
		{name: "trimmed", raw: "  Adubação  ", want: "Adubação"},
		{name: "empty", raw: "", wantErr: ErrEmptyAction},
		{name: "whitespace only", raw: " \t\n ", wantErr: ErrEmptyAction},
		{name: "byte order mark only", raw: "\uFEFF", wantErr: ErrEmptyAction},
		{name: "byte order mark and nbsp trimmed", raw: "\uFEFF\u00a0Adubação\u00a0", want: "Adubação"},
		{name: "exactly max", raw: strings.Repeat("a", MaxActionLength), want: strings.Repeat("a", MaxActionLength)},
		{name: "one over max", raw: strings.Repeat("a", MaxActionLength+1), wantErr: ErrActionTooLong},
		{name: "max multibyte runes", raw: strings.Repeat("ç", MaxActionLength), want: strings.Repeat("ç", MaxActionLength)},
		{name: "padding does not count", raw: "   " + strings.Repeat("a", MaxActionLength) + "   ", want: strings.Repeat("a", MaxActionLength)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateAction(tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
				}
				if !errors.Is(err, ErrValidation) {
					t.Errorf("Expected error to wrap ErrValidation, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestValidateNote(t *testing.T) {
	s := func(v string) *string { return &v }

	tests := []struct {
		name    string
		raw     *string
		want    *string
		wantErr error
	}{
		{name: "nil", raw: nil, want: nil},
		{name: "empty", raw: s(""), want: nil},
		{name: "blank", raw: s("   "), want: nil},
		{name: "byte order mark only", raw: s("\uFEFF "), want: nil},
		{name: "trimmed", raw: s("  solo seco "), want: s("solo seco")},
		{name: "exactly max", raw: s(strings.Repeat("n", MaxNoteLength)), want: s(strings.Repeat("n", MaxNoteLength))},
		{name: "one over max", raw: s(strings.Repeat("n", MaxNoteLength+1)), wantErr: ErrNoteTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateNote(tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("Expected nil note, got %q", *got)
			case tt.want != nil && got == nil:
				t.Errorf("Expected %q, got nil", *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Errorf("Expected %q, got %q", *tt.want, *got)
			}
		})
	}
}

func TestValidateDraft_ActionCheckedFirst(t *testing.T) {
	_, _, err := ValidateDraft("", strings.Repeat("n", MaxNoteLength+1))
	if !errors.Is(err, ErrEmptyAction) {
		t.Errorf("Expected ErrEmptyAction to win over the note error, got %v", err)
	}

	action, note, err := ValidateDraft(" Irrigação ", "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if action != "Irrigação" {
		t.Errorf("Expected trimmed action, got %q", action)
	}
	if note != nil {
		t.Errorf("Expected nil note, got %q", *note)
	}
}
