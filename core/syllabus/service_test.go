package syllabus_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/darasa/core/note"
	"github.com/trezcool/darasa/core/syllabus"
	"github.com/trezcool/darasa/storage/database/inmem"
)

const owner = "user-test"

func newTestService(t *testing.T) (*syllabus.Service, *note.Service) {
	t.Helper()
	db := inmem.NewDB()
	noteSvc := note.NewService(inmem.NewNoteRepository(db))
	return syllabus.NewService(inmem.NewSyllabusRepository(db), noteSvc), noteSvc
}

func TestAddSubjects(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	subjects, err := svc.AddSubjects(ctx, owner, "Math, Physics, ,  Chemistry")
	require.NoError(t, err)
	require.Len(t, subjects, 3)
	assert.Equal(t, "Math", subjects[0].Name)
	assert.Equal(t, "Physics", subjects[1].Name)
	assert.Equal(t, "Chemistry", subjects[2].Name)

	tree, err := svc.Tree(ctx, owner)
	require.NoError(t, err)
	require.Len(t, tree, 3)
	for i, subj := range tree {
		assert.Equal(t, subjects[i].ID, subj.ID)
		assert.NotEmpty(t, subj.ID)
		assert.Empty(t, subj.Topics)
	}

	// whitespace-only input is a no-op
	subjects, err = svc.AddSubjects(ctx, owner, " ,  , ")
	require.NoError(t, err)
	assert.Empty(t, subjects)
	tree, _ = svc.Tree(ctx, owner)
	assert.Len(t, tree, 3)
}

func TestAddTopicsUnknownSubject(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	topics, err := svc.AddTopics(ctx, owner, "nope", "Algebra")
	require.NoError(t, err)
	assert.Empty(t, topics)
}

func TestAddSubtopics(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	subjects, err := svc.AddSubjects(ctx, owner, "Math")
	require.NoError(t, err)
	topics, err := svc.AddTopics(ctx, owner, subjects[0].ID, "Algebra, Geometry")
	require.NoError(t, err)
	require.Len(t, topics, 2)

	subtopics, err := svc.AddSubtopics(ctx, owner, subjects[0].ID, topics[0].ID, "Linear Equations, Quadratics")
	require.NoError(t, err)
	require.Len(t, subtopics, 2)
	for _, st := range subtopics {
		assert.Equal(t, syllabus.StatusNotStarted, st.Status)
		assert.Empty(t, st.NoteID)
	}

	// unknown topic under a known subject is a no-op
	subtopics, err = svc.AddSubtopics(ctx, owner, subjects[0].ID, "nope", "Orphan")
	require.NoError(t, err)
	assert.Empty(t, subtopics)
}

func TestAttachNoteDerivesStatus(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	subjects, _ := svc.AddSubjects(ctx, owner, "Math")
	topics, _ := svc.AddTopics(ctx, owner, subjects[0].ID, "Algebra")
	subtopics, _ := svc.AddSubtopics(ctx, owner, subjects[0].ID, topics[0].ID, "Quadratics")
	stID := subtopics[0].ID

	// saving the untouched default keeps the subtopic not_started
	st, err := svc.AttachNote(ctx, owner, stID, "Quadratics Notes", syllabus.DefaultNoteContent("Quadratics"))
	require.NoError(t, err)
	assert.Equal(t, syllabus.StatusNotStarted, st.Status)
	assert.NotEmpty(t, st.NoteID)

	st, err = svc.AttachNote(ctx, owner, stID, "Quadratics Notes", "short notes")
	require.NoError(t, err)
	assert.Equal(t, syllabus.StatusInProgress, st.Status)

	st, err = svc.AttachNote(ctx, owner, stID, "Quadratics Notes", strings.Repeat("complete the square. ", 5))
	require.NoError(t, err)
	assert.Equal(t, syllabus.StatusCompleted, st.Status)

	// status is visible in the tree right away
	ref, err := svc.FindSubtopic(ctx, owner, stID)
	require.NoError(t, err)
	assert.Equal(t, syllabus.StatusCompleted, ref.Subtopic.Status)
	assert.Equal(t, st.NoteID, ref.Subtopic.NoteID)
}

func TestAttachNoteUpsertsInPlace(t *testing.T) {
	svc, noteSvc := newTestService(t)
	ctx := context.Background()

	subjects, _ := svc.AddSubjects(ctx, owner, "Math")
	topics, _ := svc.AddTopics(ctx, owner, subjects[0].ID, "Algebra")
	subtopics, _ := svc.AddSubtopics(ctx, owner, subjects[0].ID, topics[0].ID, "Quadratics")

	first, err := svc.AttachNote(ctx, owner, subtopics[0].ID, "v1", "first version")
	require.NoError(t, err)
	second, err := svc.AttachNote(ctx, owner, subtopics[0].ID, "v2", "second version")
	require.NoError(t, err)
	assert.Equal(t, first.NoteID, second.NoteID)

	notes, err := noteSvc.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "v2", notes[0].Title)
	assert.Equal(t, "second version", notes[0].Content)
}

func TestOpenNoteDefaults(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	subjects, _ := svc.AddSubjects(ctx, owner, "Math")
	topics, _ := svc.AddTopics(ctx, owner, subjects[0].ID, "Algebra")
	subtopics, _ := svc.AddSubtopics(ctx, owner, subjects[0].ID, topics[0].ID, "Quadratics")

	n, err := svc.OpenNote(ctx, owner, subtopics[0].ID)
	require.NoError(t, err)
	assert.Empty(t, n.ID)
	assert.Equal(t, "Quadratics Notes", n.Title)
	assert.Equal(t, syllabus.DefaultNoteContent("Quadratics"), n.Content)
}

func TestDeleteSubjectKeepsNotes(t *testing.T) {
	svc, noteSvc := newTestService(t)
	ctx := context.Background()

	subjects, _ := svc.AddSubjects(ctx, owner, "Math")
	topics, _ := svc.AddTopics(ctx, owner, subjects[0].ID, "Algebra")
	subtopics, _ := svc.AddSubtopics(ctx, owner, subjects[0].ID, topics[0].ID, "Quadratics")
	st, err := svc.AttachNote(ctx, owner, subtopics[0].ID, "Quadratics Notes", "keep me around")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSubject(ctx, owner, subjects[0].ID))

	tree, _ := svc.Tree(ctx, owner)
	assert.Empty(t, tree)

	n, err := noteSvc.Get(ctx, st.NoteID)
	require.NoError(t, err)
	assert.Equal(t, "keep me around", n.Content)
	assert.Empty(t, n.SubtopicID)

	// the removed subtopic no longer resolves to the note
	_, err = noteSvc.FindBySubtopic(ctx, subtopics[0].ID)
	assert.Equal(t, note.ErrNotFound, err)

	// deleting again is not an error
	assert.NoError(t, svc.DeleteSubject(ctx, owner, subjects[0].ID))
}

func TestDeleteSubtopicDetachesNote(t *testing.T) {
	svc, noteSvc := newTestService(t)
	ctx := context.Background()

	subjects, _ := svc.AddSubjects(ctx, owner, "Math")
	topics, _ := svc.AddTopics(ctx, owner, subjects[0].ID, "Algebra")
	subtopics, _ := svc.AddSubtopics(ctx, owner, subjects[0].ID, topics[0].ID, "Quadratics, Matrices")
	st, err := svc.AttachNote(ctx, owner, subtopics[0].ID, "Quadratics Notes", "keep me around")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSubtopic(ctx, owner, subjects[0].ID, topics[0].ID, subtopics[0].ID))

	n, err := noteSvc.Get(ctx, st.NoteID)
	require.NoError(t, err)
	assert.Equal(t, "keep me around", n.Content)
	assert.Empty(t, n.SubtopicID)

	_, err = noteSvc.FindBySubtopic(ctx, subtopics[0].ID)
	assert.Equal(t, note.ErrNotFound, err)

	// the sibling subtopic is untouched
	subj, err := svc.GetSubject(ctx, owner, subjects[0].ID)
	require.NoError(t, err)
	require.Len(t, subj.Topics[0].Subtopics, 1)
	assert.Equal(t, "Matrices", subj.Topics[0].Subtopics[0].Name)
}

func TestProgress(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	subjects, _ := svc.AddSubjects(ctx, owner, "Math, Physics")
	topics, _ := svc.AddTopics(ctx, owner, subjects[0].ID, "Algebra")
	subtopics, _ := svc.AddSubtopics(ctx, owner, subjects[0].ID, topics[0].ID, "A, B, C, D")
	_, err := svc.AttachNote(ctx, owner, subtopics[0].ID, "A", strings.Repeat("done. ", 10))
	require.NoError(t, err)

	prog, err := svc.Progress(ctx, owner)
	require.NoError(t, err)
	require.Len(t, prog.Subjects, 2)
	assert.Equal(t, 25, prog.Subjects[0].Progress)
	assert.Equal(t, 0, prog.Subjects[1].Progress)
	assert.Equal(t, 25, prog.Overall)
}
