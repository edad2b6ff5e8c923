package community

import (
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/note"
	"github.com/trezcool/darasa/core/syllabus"
)

// ErrEmptySelection is returned when a share targets zero items; callers
// must reject the share before a post is built.
var ErrEmptySelection = errors.New("nothing selected to share")

// The projector builds a post's content payload as a one-way deep copy:
// mutating the post afterwards never touches the source tree, and vice
// versa. Structural snapshots (subject/topic/syllabus) carry names only,
// never note text.

func projectNote(n note.Note) PostContent {
	return PostContent{
		Kind: KindNote,
		Note: &NoteContent{Title: n.Title, Text: n.Content},
	}
}

func projectNotes(notes []note.Note) (PostContent, error) {
	if len(notes) == 0 {
		return PostContent{}, ErrEmptySelection
	}
	items := make([]NoteContent, 0, len(notes))
	for _, n := range notes {
		items = append(items, NoteContent{Title: n.Title, Text: n.Content})
	}
	return PostContent{Kind: KindNotes, Notes: items}, nil
}

func topicOutline(t syllabus.Topic) TopicOutline {
	names := make([]string, 0, len(t.Subtopics))
	for _, st := range t.Subtopics {
		names = append(names, st.Name)
	}
	return TopicOutline{Name: t.Name, Subtopics: names}
}

func projectSubject(s syllabus.Subject) PostContent {
	topics := make([]TopicOutline, 0, len(s.Topics))
	for _, t := range s.Topics {
		topics = append(topics, topicOutline(t))
	}
	return PostContent{
		Kind:    KindSubject,
		Subject: &SubjectContent{Name: s.Name, Topics: topics},
	}
}

func projectSubtopic(ref syllabus.SubtopicRef, noteContent string) PostContent {
	return PostContent{
		Kind: KindSubtopic,
		Subtopic: &SubtopicContent{
			SubjectName: ref.SubjectName,
			TopicName:   ref.TopicName,
			Name:        ref.Subtopic.Name,
			Notes:       noteContent,
		},
	}
}

func projectSubtopics(subjectName string, t syllabus.Topic, noteContents map[string]string) (PostContent, error) {
	if len(t.Subtopics) == 0 {
		return PostContent{}, ErrEmptySelection
	}
	items := make([]SubtopicNotes, 0, len(t.Subtopics))
	for _, st := range t.Subtopics {
		items = append(items, SubtopicNotes{Name: st.Name, Notes: noteContents[st.ID]})
	}
	return PostContent{
		Kind: KindSubtopics,
		Subtopics: &SubtopicsContent{
			SubjectName: subjectName,
			TopicName:   t.Name,
			Subtopics:   items,
		},
	}, nil
}

func projectTopic(subjectName string, t syllabus.Topic) PostContent {
	outline := topicOutline(t)
	return PostContent{
		Kind: KindTopic,
		Topic: &TopicContent{
			SubjectName: subjectName,
			Name:        outline.Name,
			Subtopics:   outline.Subtopics,
		},
	}
}

func projectTopics(s syllabus.Subject) (PostContent, error) {
	if len(s.Topics) == 0 {
		return PostContent{}, ErrEmptySelection
	}
	topics := make([]TopicOutline, 0, len(s.Topics))
	for _, t := range s.Topics {
		topics = append(topics, topicOutline(t))
	}
	return PostContent{
		Kind:   KindTopics,
		Topics: &TopicsContent{SubjectName: s.Name, Topics: topics},
	}, nil
}

func projectSyllabus(subjects []syllabus.Subject) (PostContent, error) {
	if len(subjects) == 0 {
		return PostContent{}, ErrEmptySelection
	}
	outlines := make([]SubjectOutline, 0, len(subjects))
	for _, s := range subjects {
		names := make([]string, 0, len(s.Topics))
		for _, t := range s.Topics {
			names = append(names, t.Name)
		}
		outlines = append(outlines, SubjectOutline{Name: s.Name, Topics: names})
	}
	return PostContent{
		Kind:     KindSyllabus,
		Syllabus: &SyllabusContent{Subjects: outlines},
	}, nil
}
