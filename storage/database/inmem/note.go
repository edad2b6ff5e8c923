package inmem

import (
	"context"

	"github.com/trezcool/darasa/core/note"
)

type NoteRepository struct {
	db *DB
}

var _ note.Repository = (*NoteRepository)(nil)

func NewNoteRepository(db *DB) *NoteRepository { return &NoteRepository{db: db} }

func (repo *NoteRepository) UpsertNote(ctx context.Context, n note.Note) (note.Note, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.notes[n.ID]; !ok {
		repo.db.noteOrder = append(repo.db.noteOrder, n.ID)
	}
	repo.db.notes[n.ID] = n
	return n, nil
}

func (repo *NoteRepository) GetNote(ctx context.Context, id string) (note.Note, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	n, ok := repo.db.notes[id]
	if !ok {
		return note.Note{}, note.ErrNotFound
	}
	return n, nil
}

func (repo *NoteRepository) GetNoteBySubtopic(ctx context.Context, subtopicID string) (note.Note, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, id := range repo.db.noteOrder {
		if n := repo.db.notes[id]; n.SubtopicID == subtopicID {
			return n, nil
		}
	}
	return note.Note{}, note.ErrNotFound
}

func (repo *NoteRepository) QueryNotesByOwner(ctx context.Context, ownerID string) ([]note.Note, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	notes := make([]note.Note, 0, len(repo.db.noteOrder))
	for _, id := range repo.db.noteOrder {
		if n := repo.db.notes[id]; n.OwnerID == ownerID {
			notes = append(notes, n)
		}
	}
	return notes, nil
}

func (repo *NoteRepository) DeleteNote(ctx context.Context, id string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.notes[id]; !ok {
		return note.ErrNotFound
	}
	delete(repo.db.notes, id)
	for i, nid := range repo.db.noteOrder {
		if nid == id {
			repo.db.noteOrder = append(repo.db.noteOrder[:i], repo.db.noteOrder[i+1:]...)
			break
		}
	}
	return nil
}
