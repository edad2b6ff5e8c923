package syllabus

import (
	"strings"
	"testing"
)

func TestStatusDeriverDerive(t *testing.T) {
	placeholder := DefaultNoteContent("Thermodynamics")

	tests := []struct {
		name    string
		content string
		want    Status
	}{
		{"empty content", "", StatusNotStarted},
		{"untouched placeholder", placeholder, StatusNotStarted},
		{"placeholder plus whitespace", placeholder + "\n\n   ", StatusNotStarted},
		{"short addition", placeholder + "\nHeat flows.", StatusInProgress},
		{"just under the threshold", strings.Repeat("x", 49), StatusInProgress},
		{"at the threshold", strings.Repeat("x", 50), StatusCompleted},
		{"long notes", placeholder + "\n" + strings.Repeat("entropy never decreases. ", 10), StatusCompleted},
		{"placeholder only stripped once", placeholder + "\n" + placeholder, StatusCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d StatusDeriver
			if got := d.Derive(tt.content, placeholder); got != tt.want {
				t.Errorf("Derive() = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestStatusDeriverCustomThreshold(t *testing.T) {
	d := StatusDeriver{Threshold: 5}
	if got := d.Derive("abcd", ""); got != StatusInProgress {
		t.Errorf("Derive() = %q; want %q", got, StatusInProgress)
	}
	if got := d.Derive("abcde", ""); got != StatusCompleted {
		t.Errorf("Derive() = %q; want %q", got, StatusCompleted)
	}
}

func TestDefaultNoteContent(t *testing.T) {
	want := "# Algebra\n\n" + PlaceholderText
	if got := DefaultNoteContent("Algebra"); got != want {
		t.Errorf("DefaultNoteContent() = %q; want %q", got, want)
	}
	if got := DefaultNoteTitle("Algebra"); got != "Algebra Notes" {
		t.Errorf("DefaultNoteTitle() = %q; want %q", got, "Algebra Notes")
	}
}
