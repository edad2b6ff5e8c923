package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core/syllabus"
)

type (
	subjectRow struct {
		ID       string `db:"id"`
		OwnerID  string `db:"owner_id"`
		Name     string `db:"name"`
		Position int    `db:"position"`
	}

	topicRow struct {
		ID        string `db:"id"`
		SubjectID string `db:"subject_id"`
		Name      string `db:"name"`
		Position  int    `db:"position"`
	}

	subtopicRow struct {
		ID       string      `db:"id"`
		TopicID  string      `db:"topic_id"`
		Name     string      `db:"name"`
		NoteID   null.String `db:"note_id"`
		Status   string      `db:"status"`
		Position int         `db:"position"`
	}
)

func (r subtopicRow) toSubtopic() syllabus.Subtopic {
	return syllabus.Subtopic{
		ID:     r.ID,
		Name:   r.Name,
		NoteID: r.NoteID.String,
		Status: syllabus.Status(r.Status),
	}
}

type SyllabusRepository struct {
	db *sqlx.DB
}

var _ syllabus.Repository = (*SyllabusRepository)(nil)

func NewSyllabusRepository(db *sqlx.DB) *SyllabusRepository { return &SyllabusRepository{db: db} }

func (repo *SyllabusRepository) nextPosition(ctx context.Context, table, scopeCol, scopeVal string) (int, error) {
	var pos sql.NullInt64
	q := `SELECT MAX(position) FROM ` + table + ` WHERE ` + scopeCol + ` = ?`
	if err := repo.db.GetContext(ctx, &pos, repo.db.Rebind(q), scopeVal); err != nil {
		return 0, err
	}
	return int(pos.Int64) + 1, nil
}

func (repo *SyllabusRepository) CreateSubjects(ctx context.Context, ownerID string, subjects []syllabus.Subject) error {
	pos, err := repo.nextPosition(ctx, "subjects", "owner_id", ownerID)
	if err != nil {
		return errors.Wrap(err, "allocating subject position")
	}

	q := repo.db.Rebind(`INSERT INTO subjects (id, owner_id, name, position) VALUES (?, ?, ?, ?)`)
	for i, subj := range subjects {
		if _, err = repo.db.ExecContext(ctx, q, subj.ID, ownerID, subj.Name, pos+i); err != nil {
			return errors.Wrap(err, "creating subject")
		}
	}
	return nil
}

func (repo *SyllabusRepository) QuerySubjects(ctx context.Context, ownerID string) ([]syllabus.Subject, error) {
	var subjRows []subjectRow
	q := repo.db.Rebind(`SELECT * FROM subjects WHERE owner_id = ? ORDER BY position`)
	if err := repo.db.SelectContext(ctx, &subjRows, q, ownerID); err != nil {
		return nil, errors.Wrap(err, "querying subjects")
	}
	if len(subjRows) == 0 {
		return []syllabus.Subject{}, nil
	}

	subjectIDs := make([]string, 0, len(subjRows))
	for _, r := range subjRows {
		subjectIDs = append(subjectIDs, r.ID)
	}
	var topicRows []topicRow
	q, args, err := sqlx.In(`SELECT * FROM topics WHERE subject_id IN (?) ORDER BY position`, subjectIDs)
	if err != nil {
		return nil, errors.Wrap(err, "expanding subject ids")
	}
	if err = repo.db.SelectContext(ctx, &topicRows, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying topics")
	}

	var stRows []subtopicRow
	if len(topicRows) > 0 {
		topicIDs := make([]string, 0, len(topicRows))
		for _, r := range topicRows {
			topicIDs = append(topicIDs, r.ID)
		}
		q, args, err = sqlx.In(`SELECT * FROM subtopics WHERE topic_id IN (?) ORDER BY position`, topicIDs)
		if err != nil {
			return nil, errors.Wrap(err, "expanding topic ids")
		}
		if err = repo.db.SelectContext(ctx, &stRows, repo.db.Rebind(q), args...); err != nil {
			return nil, errors.Wrap(err, "querying subtopics")
		}
	}

	return assembleTree(subjRows, topicRows, stRows), nil
}

func assembleTree(subjRows []subjectRow, topicRows []topicRow, stRows []subtopicRow) []syllabus.Subject {
	stsByTopic := make(map[string][]syllabus.Subtopic)
	for _, r := range stRows {
		stsByTopic[r.TopicID] = append(stsByTopic[r.TopicID], r.toSubtopic())
	}

	topicsBySubject := make(map[string][]syllabus.Topic)
	for _, r := range topicRows {
		sts := stsByTopic[r.ID]
		if sts == nil {
			sts = []syllabus.Subtopic{}
		}
		topicsBySubject[r.SubjectID] = append(topicsBySubject[r.SubjectID], syllabus.Topic{
			ID:        r.ID,
			Name:      r.Name,
			Subtopics: sts,
		})
	}

	subjects := make([]syllabus.Subject, 0, len(subjRows))
	for _, r := range subjRows {
		topics := topicsBySubject[r.ID]
		if topics == nil {
			topics = []syllabus.Topic{}
		}
		subjects = append(subjects, syllabus.Subject{ID: r.ID, Name: r.Name, Topics: topics})
	}
	return subjects
}

func (repo *SyllabusRepository) GetSubject(ctx context.Context, ownerID, id string) (syllabus.Subject, error) {
	var r subjectRow
	q := repo.db.Rebind(`SELECT * FROM subjects WHERE owner_id = ? AND id = ?`)
	if err := repo.db.GetContext(ctx, &r, q, ownerID, id); err != nil {
		if err == sql.ErrNoRows {
			return syllabus.Subject{}, syllabus.ErrNotFound
		}
		return syllabus.Subject{}, errors.Wrap(err, "getting subject")
	}

	var topicRows []topicRow
	q = repo.db.Rebind(`SELECT * FROM topics WHERE subject_id = ? ORDER BY position`)
	if err := repo.db.SelectContext(ctx, &topicRows, q, id); err != nil {
		return syllabus.Subject{}, errors.Wrap(err, "querying topics")
	}

	var stRows []subtopicRow
	if len(topicRows) > 0 {
		topicIDs := make([]string, 0, len(topicRows))
		for _, tr := range topicRows {
			topicIDs = append(topicIDs, tr.ID)
		}
		q, args, err := sqlx.In(`SELECT * FROM subtopics WHERE topic_id IN (?) ORDER BY position`, topicIDs)
		if err != nil {
			return syllabus.Subject{}, errors.Wrap(err, "expanding topic ids")
		}
		if err = repo.db.SelectContext(ctx, &stRows, repo.db.Rebind(q), args...); err != nil {
			return syllabus.Subject{}, errors.Wrap(err, "querying subtopics")
		}
	}

	return assembleTree([]subjectRow{r}, topicRows, stRows)[0], nil
}

func (repo *SyllabusRepository) DeleteSubject(ctx context.Context, ownerID, id string) error {
	q := repo.db.Rebind(`DELETE FROM subjects WHERE owner_id = ? AND id = ?`)
	res, err := repo.db.ExecContext(ctx, q, ownerID, id)
	if err != nil {
		return errors.Wrap(err, "deleting subject")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return syllabus.ErrNotFound
	}
	return nil
}

func (repo *SyllabusRepository) ensureSubject(ctx context.Context, ownerID, subjectID string) error {
	var count int
	q := repo.db.Rebind(`SELECT COUNT(*) FROM subjects WHERE owner_id = ? AND id = ?`)
	if err := repo.db.GetContext(ctx, &count, q, ownerID, subjectID); err != nil {
		return errors.Wrap(err, "checking subject")
	}
	if count == 0 {
		return syllabus.ErrNotFound
	}
	return nil
}

func (repo *SyllabusRepository) CreateTopics(ctx context.Context, ownerID, subjectID string, topics []syllabus.Topic) error {
	if err := repo.ensureSubject(ctx, ownerID, subjectID); err != nil {
		return err
	}
	pos, err := repo.nextPosition(ctx, "topics", "subject_id", subjectID)
	if err != nil {
		return errors.Wrap(err, "allocating topic position")
	}

	q := repo.db.Rebind(`INSERT INTO topics (id, subject_id, name, position) VALUES (?, ?, ?, ?)`)
	for i, topic := range topics {
		if _, err = repo.db.ExecContext(ctx, q, topic.ID, subjectID, topic.Name, pos+i); err != nil {
			return errors.Wrap(err, "creating topic")
		}
	}
	return nil
}

func (repo *SyllabusRepository) GetTopic(ctx context.Context, ownerID, subjectID, topicID string) (syllabus.Topic, error) {
	var r topicRow
	q := repo.db.Rebind(`
SELECT t.* FROM topics t
JOIN subjects s ON s.id = t.subject_id
WHERE s.owner_id = ? AND t.subject_id = ? AND t.id = ?`)
	if err := repo.db.GetContext(ctx, &r, q, ownerID, subjectID, topicID); err != nil {
		if err == sql.ErrNoRows {
			return syllabus.Topic{}, syllabus.ErrNotFound
		}
		return syllabus.Topic{}, errors.Wrap(err, "getting topic")
	}

	var stRows []subtopicRow
	q = repo.db.Rebind(`SELECT * FROM subtopics WHERE topic_id = ? ORDER BY position`)
	if err := repo.db.SelectContext(ctx, &stRows, q, topicID); err != nil {
		return syllabus.Topic{}, errors.Wrap(err, "querying subtopics")
	}

	sts := make([]syllabus.Subtopic, 0, len(stRows))
	for _, sr := range stRows {
		sts = append(sts, sr.toSubtopic())
	}
	return syllabus.Topic{ID: r.ID, Name: r.Name, Subtopics: sts}, nil
}

func (repo *SyllabusRepository) DeleteTopic(ctx context.Context, ownerID, subjectID, topicID string) error {
	q := repo.db.Rebind(`
DELETE FROM topics
WHERE id = ? AND subject_id IN (SELECT id FROM subjects WHERE owner_id = ? AND id = ?)`)
	res, err := repo.db.ExecContext(ctx, q, topicID, ownerID, subjectID)
	if err != nil {
		return errors.Wrap(err, "deleting topic")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return syllabus.ErrNotFound
	}
	return nil
}

func (repo *SyllabusRepository) CreateSubtopics(ctx context.Context, ownerID, subjectID, topicID string, subtopics []syllabus.Subtopic) error {
	if _, err := repo.GetTopic(ctx, ownerID, subjectID, topicID); err != nil {
		return err
	}
	pos, err := repo.nextPosition(ctx, "subtopics", "topic_id", topicID)
	if err != nil {
		return errors.Wrap(err, "allocating subtopic position")
	}

	q := repo.db.Rebind(`INSERT INTO subtopics (id, topic_id, name, note_id, status, position) VALUES (?, ?, ?, ?, ?, ?)`)
	for i, st := range subtopics {
		noteID := null.NewString(st.NoteID, st.NoteID != "")
		if _, err = repo.db.ExecContext(ctx, q, st.ID, topicID, st.Name, noteID, string(st.Status), pos+i); err != nil {
			return errors.Wrap(err, "creating subtopic")
		}
	}
	return nil
}

func (repo *SyllabusRepository) DeleteSubtopic(ctx context.Context, ownerID, subjectID, topicID, subtopicID string) error {
	q := repo.db.Rebind(`
DELETE FROM subtopics
WHERE id = ? AND topic_id IN (
	SELECT t.id FROM topics t
	JOIN subjects s ON s.id = t.subject_id
	WHERE s.owner_id = ? AND s.id = ? AND t.id = ?
)`)
	res, err := repo.db.ExecContext(ctx, q, subtopicID, ownerID, subjectID, topicID)
	if err != nil {
		return errors.Wrap(err, "deleting subtopic")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return syllabus.ErrNotFound
	}
	return nil
}

func (repo *SyllabusRepository) FindSubtopic(ctx context.Context, ownerID, subtopicID string) (syllabus.SubtopicRef, error) {
	var row struct {
		subtopicRow
		TopicName   string `db:"topic_name"`
		SubjectID   string `db:"s_id"`
		SubjectName string `db:"subject_name"`
	}
	q := repo.db.Rebind(`
SELECT st.*, t.name AS topic_name, s.id AS s_id, s.name AS subject_name
FROM subtopics st
JOIN topics t ON t.id = st.topic_id
JOIN subjects s ON s.id = t.subject_id
WHERE s.owner_id = ? AND st.id = ?`)
	if err := repo.db.GetContext(ctx, &row, q, ownerID, subtopicID); err != nil {
		if err == sql.ErrNoRows {
			return syllabus.SubtopicRef{}, syllabus.ErrNotFound
		}
		return syllabus.SubtopicRef{}, errors.Wrap(err, "finding subtopic")
	}
	return syllabus.SubtopicRef{
		SubjectID:   row.SubjectID,
		SubjectName: row.SubjectName,
		TopicID:     row.TopicID,
		TopicName:   row.TopicName,
		Subtopic:    row.toSubtopic(),
	}, nil
}

func (repo *SyllabusRepository) UpdateSubtopic(ctx context.Context, ownerID string, st syllabus.Subtopic) error {
	q := repo.db.Rebind(`
UPDATE subtopics SET name = ?, note_id = ?, status = ?
WHERE id = ? AND topic_id IN (
	SELECT t.id FROM topics t
	JOIN subjects s ON s.id = t.subject_id
	WHERE s.owner_id = ?
)`)
	noteID := null.NewString(st.NoteID, st.NoteID != "")
	res, err := repo.db.ExecContext(ctx, q, st.Name, noteID, string(st.Status), st.ID, ownerID)
	if err != nil {
		return errors.Wrap(err, "updating subtopic")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return syllabus.ErrNotFound
	}
	return nil
}
