package syllabus

// Status is the derived completion indicator for a subtopic, computed from
// its note's content; it is never set directly by callers.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

type (
	Subtopic struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		NoteID string `json:"note_id,omitempty"`
		Status Status `json:"status"`
	}

	Topic struct {
		ID        string     `json:"id"`
		Name      string     `json:"name"`
		Subtopics []Subtopic `json:"subtopics"`
	}

	Subject struct {
		ID     string  `json:"id"`
		Name   string  `json:"name"`
		Topics []Topic `json:"topics"`
	}
)

// SubtopicRef locates a subtopic within the tree along with its ancestors'
// names, as needed by the sharing projector.
type SubtopicRef struct {
	SubjectID   string
	SubjectName string
	TopicID     string
	TopicName   string
	Subtopic    Subtopic
}

type (
	SubjectProgress struct {
		Name     string `json:"name"`
		Progress int    `json:"progress"` // percent of completed subtopics
	}

	Progress struct {
		Overall  int               `json:"overall"`
		Subjects []SubjectProgress `json:"subjects"`
	}
)
