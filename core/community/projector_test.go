package community

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/darasa/core/syllabus"
)

func sampleSubject() syllabus.Subject {
	return syllabus.Subject{
		ID:   "subject-1",
		Name: "Physics",
		Topics: []syllabus.Topic{
			{
				ID:   "topic-1",
				Name: "Mechanics",
				Subtopics: []syllabus.Subtopic{
					{ID: "subtopic-1", Name: "Kinematics", NoteID: "note-1", Status: syllabus.StatusCompleted},
					{ID: "subtopic-2", Name: "Dynamics", Status: syllabus.StatusNotStarted},
				},
			},
			{ID: "topic-2", Name: "Optics", Subtopics: []syllabus.Subtopic{}},
		},
	}
}

func TestProjectSubjectIsStructureOnly(t *testing.T) {
	subj := sampleSubject()
	content := projectSubject(subj)

	require.Equal(t, KindSubject, content.Kind)
	require.NotNil(t, content.Subject)
	assert.Equal(t, "Physics", content.Subject.Name)
	require.Len(t, content.Subject.Topics, 2)
	assert.Equal(t, []string{"Kinematics", "Dynamics"}, content.Subject.Topics[0].Subtopics)

	// the snapshot carries names only; everything else stays nil
	assert.Nil(t, content.Note)
	assert.Nil(t, content.Notes)
	assert.Nil(t, content.Subtopic)
	assert.Nil(t, content.Subtopics)
	assert.Nil(t, content.Topic)
	assert.Nil(t, content.Topics)
	assert.Nil(t, content.Syllabus)

	// mutating the source afterwards does not touch the snapshot
	subj.Topics[0].Subtopics[0].Name = "changed"
	assert.Equal(t, "Kinematics", content.Subject.Topics[0].Subtopics[0])
}

func TestProjectSubtopicsCarriesNotes(t *testing.T) {
	subj := sampleSubject()
	content, err := projectSubtopics(subj.Name, subj.Topics[0], map[string]string{
		"subtopic-1": "v = u + at",
	})
	require.NoError(t, err)
	require.Equal(t, KindSubtopics, content.Kind)
	require.Len(t, content.Subtopics.Subtopics, 2)
	assert.Equal(t, "v = u + at", content.Subtopics.Subtopics[0].Notes)
	assert.Empty(t, content.Subtopics.Subtopics[1].Notes)
}

func TestProjectEmptySelections(t *testing.T) {
	_, err := projectNotes(nil)
	assert.Equal(t, ErrEmptySelection, err)

	_, err = projectSubtopics("Physics", syllabus.Topic{Name: "Optics"}, nil)
	assert.Equal(t, ErrEmptySelection, err)

	_, err = projectTopics(syllabus.Subject{Name: "Physics"})
	assert.Equal(t, ErrEmptySelection, err)

	_, err = projectSyllabus(nil)
	assert.Equal(t, ErrEmptySelection, err)
}
