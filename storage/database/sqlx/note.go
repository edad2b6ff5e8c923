package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core/note"
)

type noteRow struct {
	ID         string      `db:"id"`
	OwnerID    string      `db:"owner_id"`
	SubtopicID null.String `db:"subtopic_id"`
	Title      string      `db:"title"`
	Content    string      `db:"content"`
	UpdatedAt  time.Time   `db:"updated_at"`
}

func (r noteRow) toNote() note.Note {
	return note.Note{
		ID:         r.ID,
		OwnerID:    r.OwnerID,
		SubtopicID: r.SubtopicID.String,
		Title:      r.Title,
		Content:    r.Content,
		UpdatedAt:  r.UpdatedAt,
	}
}

func toNoteRow(n note.Note) noteRow {
	return noteRow{
		ID:         n.ID,
		OwnerID:    n.OwnerID,
		SubtopicID: null.NewString(n.SubtopicID, n.SubtopicID != ""),
		Title:      n.Title,
		Content:    n.Content,
		UpdatedAt:  n.UpdatedAt,
	}
}

type NoteRepository struct {
	db *sqlx.DB
}

var _ note.Repository = (*NoteRepository)(nil)

func NewNoteRepository(db *sqlx.DB) *NoteRepository { return &NoteRepository{db: db} }

func (repo *NoteRepository) UpsertNote(ctx context.Context, n note.Note) (note.Note, error) {
	q := `
UPDATE notes SET subtopic_id = :subtopic_id, title = :title, content = :content, updated_at = :updated_at
WHERE id = :id AND owner_id = :owner_id`
	res, err := repo.db.NamedExecContext(ctx, q, toNoteRow(n))
	if err != nil {
		return note.Note{}, errors.Wrap(err, "updating note")
	}
	if affected, err := res.RowsAffected(); err == nil && affected > 0 {
		return n, nil
	}

	q = `
INSERT INTO notes (id, owner_id, subtopic_id, title, content, updated_at)
VALUES (:id, :owner_id, :subtopic_id, :title, :content, :updated_at)`
	if _, err = repo.db.NamedExecContext(ctx, q, toNoteRow(n)); err != nil {
		return note.Note{}, errors.Wrap(err, "creating note")
	}
	return n, nil
}

func (repo *NoteRepository) GetNote(ctx context.Context, id string) (note.Note, error) {
	var r noteRow
	err := repo.db.GetContext(ctx, &r, repo.db.Rebind(`SELECT * FROM notes WHERE id = ?`), id)
	if err != nil {
		if err == sql.ErrNoRows {
			return note.Note{}, note.ErrNotFound
		}
		return note.Note{}, errors.Wrap(err, "getting note")
	}
	return r.toNote(), nil
}

func (repo *NoteRepository) GetNoteBySubtopic(ctx context.Context, subtopicID string) (note.Note, error) {
	var r noteRow
	q := repo.db.Rebind(`SELECT * FROM notes WHERE subtopic_id = ? ORDER BY updated_at DESC LIMIT 1`)
	if err := repo.db.GetContext(ctx, &r, q, subtopicID); err != nil {
		if err == sql.ErrNoRows {
			return note.Note{}, note.ErrNotFound
		}
		return note.Note{}, errors.Wrap(err, "getting note by subtopic")
	}
	return r.toNote(), nil
}

func (repo *NoteRepository) QueryNotesByOwner(ctx context.Context, ownerID string) ([]note.Note, error) {
	var rows []noteRow
	q := repo.db.Rebind(`SELECT * FROM notes WHERE owner_id = ? ORDER BY updated_at DESC`)
	if err := repo.db.SelectContext(ctx, &rows, q, ownerID); err != nil {
		return nil, errors.Wrap(err, "querying notes")
	}
	notes := make([]note.Note, 0, len(rows))
	for _, r := range rows {
		notes = append(notes, r.toNote())
	}
	return notes, nil
}

func (repo *NoteRepository) DeleteNote(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, repo.db.Rebind(`DELETE FROM notes WHERE id = ?`), id)
	if err != nil {
		return errors.Wrap(err, "deleting note")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return note.ErrNotFound
	}
	return nil
}
