package note

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

var ErrNotFound = errors.New("note not found")

type (
	Repository interface {
		UpsertNote(ctx context.Context, n Note) (Note, error)
		GetNote(ctx context.Context, id string) (Note, error)
		GetNoteBySubtopic(ctx context.Context, subtopicID string) (Note, error)
		QueryNotesByOwner(ctx context.Context, ownerID string) ([]Note, error)
		DeleteNote(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository

		// per-note-id locks; concurrent saves for the same id are
		// serialized (last write wins), different ids are independent.
		mu    sync.Mutex
		locks map[string]*sync.Mutex
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo, locks: make(map[string]*sync.Mutex)}
}

func (svc *Service) lockFor(id string) *sync.Mutex {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	l, ok := svc.locks[id]
	if !ok {
		l = new(sync.Mutex)
		svc.locks[id] = l
	}
	return l
}

// Upsert creates the note when its id is unseen, else replaces
// title/content/updatedAt in place. Idempotent with respect to id.
func (svc *Service) Upsert(ctx context.Context, n Note) (Note, error) {
	if n.ID == "" {
		n.ID = core.NewID("note")
	}
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = time.Now().UTC()
	}

	l := svc.lockFor(n.ID)
	l.Lock()
	defer l.Unlock()
	return svc.repo.UpsertNote(ctx, n)
}

func (svc *Service) Get(ctx context.Context, id string) (Note, error) {
	return svc.repo.GetNote(ctx, id)
}

func (svc *Service) FindBySubtopic(ctx context.Context, subtopicID string) (Note, error) {
	if subtopicID == "" {
		return Note{}, ErrNotFound
	}
	return svc.repo.GetNoteBySubtopic(ctx, subtopicID)
}

// Detach clears a note's subtopic back-reference while keeping its title and
// content; used when the referencing subtopic is removed from the tree.
func (svc *Service) Detach(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}

	l := svc.lockFor(id)
	l.Lock()
	defer l.Unlock()

	n, err := svc.repo.GetNote(ctx, id)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return nil
		}
		return err
	}
	if n.SubtopicID == "" {
		return nil
	}
	n.SubtopicID = ""
	_, err = svc.repo.UpsertNote(ctx, n)
	return err
}

func (svc *Service) List(ctx context.Context, ownerID string) ([]Note, error) {
	return svc.repo.QueryNotesByOwner(ctx, ownerID)
}

// Search filters the owner's notes by a case-insensitive title substring.
func (svc *Service) Search(ctx context.Context, ownerID, query string) ([]Note, error) {
	notes, err := svc.repo.QueryNotesByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if query = core.CleanString(query, true /* lower */); query == "" {
		return notes, nil
	}

	matches := make([]Note, 0, len(notes))
	for _, n := range notes {
		if strings.Contains(strings.ToLower(n.Title), query) {
			matches = append(matches, n)
		}
	}
	return matches, nil
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	if err := svc.repo.DeleteNote(ctx, id); err != nil && errors.Cause(err) != ErrNotFound {
		return err
	}
	return nil
}
