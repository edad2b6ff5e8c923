package syllabus

import "strings"

// PlaceholderText is the boilerplate a fresh note starts with; it does not
// count towards a subtopic's progress.
const PlaceholderText = "Start writing your notes here..."

const completedThreshold = 50

// DefaultNoteContent is the initial content for a subtopic's note.
func DefaultNoteContent(subtopicName string) string {
	return "# " + subtopicName + "\n\n" + PlaceholderText
}

// DefaultNoteTitle is the initial title for a subtopic's note.
func DefaultNoteTitle(subtopicName string) string {
	return subtopicName + " Notes"
}

// StatusDeriver computes a subtopic's completion status from its note content.
// The zero value uses the default threshold.
type StatusDeriver struct {
	// Threshold is the minimum number of non-placeholder characters for a
	// subtopic to count as completed; 0 means the default (50).
	Threshold int
}

// Derive strips the first occurrence of the placeholder (the generated
// heading plus boilerplate) before measuring, so an untouched note is
// not_started rather than completed by virtue of placeholder length.
func (d StatusDeriver) Derive(content, placeholder string) Status {
	threshold := d.Threshold
	if threshold == 0 {
		threshold = completedThreshold
	}

	trimmed := strings.TrimSpace(strings.Replace(content, placeholder, "", 1))
	switch {
	case len(trimmed) == 0:
		return StatusNotStarted
	case len(trimmed) < threshold:
		return StatusInProgress
	default:
		return StatusCompleted
	}
}
