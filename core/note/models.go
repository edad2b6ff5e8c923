package note

import "time"

// Note is a markdown document, optionally attached to a syllabus subtopic
// via SubtopicID (a weak back-reference; the subtopic does not own the
// note's lifecycle).
type Note struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	SubtopicID string    `json:"subtopic_id,omitempty"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	UpdatedAt  time.Time `json:"updated_at"` // UTC
}
