package syllabus

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/note"
)

var ErrNotFound = errors.New("syllabus item not found")

type (
	Repository interface {
		CreateSubjects(ctx context.Context, ownerID string, subjects []Subject) error
		QuerySubjects(ctx context.Context, ownerID string) ([]Subject, error)
		GetSubject(ctx context.Context, ownerID, id string) (Subject, error)
		DeleteSubject(ctx context.Context, ownerID, id string) error
		CreateTopics(ctx context.Context, ownerID, subjectID string, topics []Topic) error
		GetTopic(ctx context.Context, ownerID, subjectID, topicID string) (Topic, error)
		DeleteTopic(ctx context.Context, ownerID, subjectID, topicID string) error
		CreateSubtopics(ctx context.Context, ownerID, subjectID, topicID string, subtopics []Subtopic) error
		DeleteSubtopic(ctx context.Context, ownerID, subjectID, topicID, subtopicID string) error
		FindSubtopic(ctx context.Context, ownerID, subtopicID string) (SubtopicRef, error)
		UpdateSubtopic(ctx context.Context, ownerID string, st Subtopic) error
	}

	Service struct {
		repo    Repository
		noteSvc *note.Service
		deriver StatusDeriver
	}
)

func NewService(repo Repository, noteSvc *note.Service) *Service {
	return &Service{repo: repo, noteSvc: noteSvc}
}

// AddSubjects splits a comma-delimited input into subjects and appends them
// to the owner's tree in input order. Whitespace-only input is a no-op.
func (svc *Service) AddSubjects(ctx context.Context, ownerID, names string) ([]Subject, error) {
	items := core.SplitList(names)
	if len(items) == 0 {
		return nil, nil
	}

	subjects := make([]Subject, 0, len(items))
	for _, name := range items {
		subjects = append(subjects, Subject{
			ID:     core.NewID("subject"),
			Name:   name,
			Topics: []Topic{},
		})
	}
	if err := svc.repo.CreateSubjects(ctx, ownerID, subjects); err != nil {
		return nil, errors.Wrap(err, "creating subjects")
	}
	return subjects, nil
}

// AddTopics appends topics under the given subject; an unknown subject is a no-op.
func (svc *Service) AddTopics(ctx context.Context, ownerID, subjectID, names string) ([]Topic, error) {
	items := core.SplitList(names)
	if len(items) == 0 {
		return nil, nil
	}
	if _, err := svc.repo.GetSubject(ctx, ownerID, subjectID); err != nil {
		if errors.Cause(err) == ErrNotFound {
			return nil, nil
		}
		return nil, err
	}

	topics := make([]Topic, 0, len(items))
	for _, name := range items {
		topics = append(topics, Topic{
			ID:        core.NewID("topic"),
			Name:      name,
			Subtopics: []Subtopic{},
		})
	}
	if err := svc.repo.CreateTopics(ctx, ownerID, subjectID, topics); err != nil {
		return nil, errors.Wrap(err, "creating topics")
	}
	return topics, nil
}

// AddSubtopics appends subtopics under the given topic; new subtopics start
// not_started with no note. An unknown subject or topic is a no-op.
func (svc *Service) AddSubtopics(ctx context.Context, ownerID, subjectID, topicID, names string) ([]Subtopic, error) {
	items := core.SplitList(names)
	if len(items) == 0 {
		return nil, nil
	}
	if _, err := svc.repo.GetTopic(ctx, ownerID, subjectID, topicID); err != nil {
		if errors.Cause(err) == ErrNotFound {
			return nil, nil
		}
		return nil, err
	}

	subtopics := make([]Subtopic, 0, len(items))
	for _, name := range items {
		subtopics = append(subtopics, Subtopic{
			ID:     core.NewID("subtopic"),
			Name:   name,
			Status: StatusNotStarted,
		})
	}
	if err := svc.repo.CreateSubtopics(ctx, ownerID, subjectID, topicID, subtopics); err != nil {
		return nil, errors.Wrap(err, "creating subtopics")
	}
	return subtopics, nil
}

// DeleteSubject removes the subject and all of its descendants. Notes
// referenced by removed subtopics are kept in the note store, detached
// from the tree.
func (svc *Service) DeleteSubject(ctx context.Context, ownerID, id string) error {
	subj, err := svc.repo.GetSubject(ctx, ownerID, id)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return nil
		}
		return err
	}
	if err = svc.repo.DeleteSubject(ctx, ownerID, id); err != nil && errors.Cause(err) != ErrNotFound {
		return err
	}
	return svc.detachNotes(ctx, subjectNoteIDs(subj))
}

func (svc *Service) DeleteTopic(ctx context.Context, ownerID, subjectID, id string) error {
	topic, err := svc.repo.GetTopic(ctx, ownerID, subjectID, id)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return nil
		}
		return err
	}
	if err = svc.repo.DeleteTopic(ctx, ownerID, subjectID, id); err != nil && errors.Cause(err) != ErrNotFound {
		return err
	}
	return svc.detachNotes(ctx, topicNoteIDs(topic))
}

func (svc *Service) DeleteSubtopic(ctx context.Context, ownerID, subjectID, topicID, id string) error {
	ref, err := svc.repo.FindSubtopic(ctx, ownerID, id)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return nil
		}
		return err
	}
	if err = svc.repo.DeleteSubtopic(ctx, ownerID, subjectID, topicID, id); err != nil && errors.Cause(err) != ErrNotFound {
		return err
	}
	if ref.Subtopic.NoteID == "" {
		return nil
	}
	return svc.detachNotes(ctx, []string{ref.Subtopic.NoteID})
}

// detachNotes clears the subtopic back-reference on notes whose subtopics
// were just removed; the notes themselves survive.
func (svc *Service) detachNotes(ctx context.Context, noteIDs []string) error {
	for _, id := range noteIDs {
		if err := svc.noteSvc.Detach(ctx, id); err != nil {
			return errors.Wrap(err, "detaching note")
		}
	}
	return nil
}

func subjectNoteIDs(subj Subject) []string {
	var ids []string
	for _, t := range subj.Topics {
		ids = append(ids, topicNoteIDs(t)...)
	}
	return ids
}

func topicNoteIDs(t Topic) []string {
	var ids []string
	for _, st := range t.Subtopics {
		if st.NoteID != "" {
			ids = append(ids, st.NoteID)
		}
	}
	return ids
}

// AttachNote saves the note for a subtopic and recomputes the subtopic's
// status before returning; no staleness is observable once it completes.
func (svc *Service) AttachNote(ctx context.Context, ownerID, subtopicID, title, content string) (Subtopic, error) {
	ref, err := svc.repo.FindSubtopic(ctx, ownerID, subtopicID)
	if err != nil {
		return Subtopic{}, err
	}

	n := note.Note{
		ID:         ref.Subtopic.NoteID,
		OwnerID:    ownerID,
		SubtopicID: subtopicID,
		Title:      title,
		Content:    content,
		UpdatedAt:  time.Now().UTC(),
	}
	saved, err := svc.noteSvc.Upsert(ctx, n)
	if err != nil {
		return Subtopic{}, errors.Wrap(err, "saving note")
	}

	st := ref.Subtopic
	st.NoteID = saved.ID
	st.Status = svc.deriver.Derive(saved.Content, DefaultNoteContent(st.Name))
	if err := svc.repo.UpdateSubtopic(ctx, ownerID, st); err != nil {
		return Subtopic{}, errors.Wrap(err, "updating subtopic")
	}
	return st, nil
}

// OpenNote returns the subtopic's note, materializing the default
// title/content when none has been saved yet.
func (svc *Service) OpenNote(ctx context.Context, ownerID, subtopicID string) (note.Note, error) {
	ref, err := svc.repo.FindSubtopic(ctx, ownerID, subtopicID)
	if err != nil {
		return note.Note{}, err
	}
	if ref.Subtopic.NoteID != "" {
		if n, err := svc.noteSvc.Get(ctx, ref.Subtopic.NoteID); err == nil {
			return n, nil
		}
	}
	return note.Note{
		OwnerID:    ownerID,
		SubtopicID: subtopicID,
		Title:      DefaultNoteTitle(ref.Subtopic.Name),
		Content:    DefaultNoteContent(ref.Subtopic.Name),
	}, nil
}

func (svc *Service) Tree(ctx context.Context, ownerID string) ([]Subject, error) {
	return svc.repo.QuerySubjects(ctx, ownerID)
}

func (svc *Service) GetSubject(ctx context.Context, ownerID, id string) (Subject, error) {
	return svc.repo.GetSubject(ctx, ownerID, id)
}

func (svc *Service) GetTopic(ctx context.Context, ownerID, subjectID, topicID string) (Topic, error) {
	return svc.repo.GetTopic(ctx, ownerID, subjectID, topicID)
}

func (svc *Service) FindSubtopic(ctx context.Context, ownerID, subtopicID string) (SubtopicRef, error) {
	return svc.repo.FindSubtopic(ctx, ownerID, subtopicID)
}

// Progress reports the share of completed subtopics, overall and per subject.
func (svc *Service) Progress(ctx context.Context, ownerID string) (Progress, error) {
	subjects, err := svc.repo.QuerySubjects(ctx, ownerID)
	if err != nil {
		return Progress{}, err
	}

	var prog Progress
	var total, completed int
	for _, subj := range subjects {
		var subjTotal, subjCompleted int
		for _, topic := range subj.Topics {
			for _, st := range topic.Subtopics {
				subjTotal++
				if st.Status == StatusCompleted {
					subjCompleted++
				}
			}
		}
		total += subjTotal
		completed += subjCompleted
		prog.Subjects = append(prog.Subjects, SubjectProgress{
			Name:     subj.Name,
			Progress: percent(subjCompleted, subjTotal),
		})
	}
	prog.Overall = percent(completed, total)
	return prog, nil
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return part * 100 / total
}
