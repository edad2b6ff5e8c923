package community

import "time"

// Kind discriminates a post's content payload.
type Kind string

const (
	KindNote      Kind = "note"
	KindNotes     Kind = "notes"
	KindSubject   Kind = "subject"
	KindSubtopic  Kind = "subtopic"
	KindSubtopics Kind = "subtopics"
	KindTopic     Kind = "topic"
	KindTopics    Kind = "topics"
	KindSyllabus  Kind = "syllabus"
)

var allKinds = map[Kind]bool{
	KindNote: true, KindNotes: true, KindSubject: true, KindSubtopic: true,
	KindSubtopics: true, KindTopic: true, KindTopics: true, KindSyllabus: true,
}

func ValidKind(k Kind) bool { return allKinds[k] }

// Content payload variants; exactly one is set per post, matching Kind.
type (
	NoteContent struct {
		Title string `json:"title"`
		Text  string `json:"text"`
	}

	TopicOutline struct {
		Name      string   `json:"name"`
		Subtopics []string `json:"subtopics"`
	}

	SubjectContent struct {
		Name   string         `json:"name"`
		Topics []TopicOutline `json:"topics"`
	}

	SubtopicContent struct {
		SubjectName string `json:"subject_name"`
		TopicName   string `json:"topic_name"`
		Name        string `json:"name"`
		Notes       string `json:"notes"` // attached note's raw content, or ""
	}

	SubtopicNotes struct {
		Name  string `json:"name"`
		Notes string `json:"notes"`
	}

	SubtopicsContent struct {
		SubjectName string          `json:"subject_name"`
		TopicName   string          `json:"topic_name"`
		Subtopics   []SubtopicNotes `json:"subtopics"`
	}

	TopicContent struct {
		SubjectName string   `json:"subject_name"`
		Name        string   `json:"name"`
		Subtopics   []string `json:"subtopics"`
	}

	TopicsContent struct {
		SubjectName string         `json:"subject_name"`
		Topics      []TopicOutline `json:"topics"`
	}

	SubjectOutline struct {
		Name   string   `json:"name"`
		Topics []string `json:"topics"`
	}

	SyllabusContent struct {
		Subjects []SubjectOutline `json:"subjects"`
	}
)

// PostContent is the tagged union of shareable payloads, keyed by Kind.
type PostContent struct {
	Kind      Kind              `json:"kind"`
	Note      *NoteContent      `json:"note,omitempty"`
	Notes     []NoteContent     `json:"notes,omitempty"`
	Subject   *SubjectContent   `json:"subject,omitempty"`
	Subtopic  *SubtopicContent  `json:"subtopic,omitempty"`
	Subtopics *SubtopicsContent `json:"subtopics,omitempty"`
	Topic     *TopicContent     `json:"topic,omitempty"`
	Topics    *TopicsContent    `json:"topics,omitempty"`
	Syllabus  *SyllabusContent  `json:"syllabus,omitempty"`
}

type Comment struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"` // UTC
}

// Post is a community-shared, read-mostly snapshot of tree/note content.
// Everything but Likes, Comments and the liked set is immutable after Share.
type Post struct {
	ID         string      `json:"id"`
	AuthorID   string      `json:"author_id"`
	AuthorName string      `json:"author_name"`
	Kind       Kind        `json:"kind"`
	Title      string      `json:"title"`
	Preview    string      `json:"preview"`
	Content    PostContent `json:"content"`
	Likes      int         `json:"likes"`
	Comments   []Comment   `json:"comments"`
	CreatedAt  time.Time   `json:"created_at"` // UTC

	// LikedBy holds the ids of viewers who currently like the post.
	LikedBy map[string]bool `json:"-"`
}

// UserLiked reports the viewer-relative like state.
func (p Post) UserLiked(viewerID string) bool {
	return p.LikedBy[viewerID]
}

// CloneLikedBy returns a copy of the liked set so repository snapshots do
// not share mutable state with callers.
func (p Post) CloneLikedBy() map[string]bool {
	cp := make(map[string]bool, len(p.LikedBy))
	for k, v := range p.LikedBy {
		cp[k] = v
	}
	return cp
}
