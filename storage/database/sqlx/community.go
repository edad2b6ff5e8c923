package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/community"
)

type (
	postRow struct {
		ID         string    `db:"id"`
		AuthorID   string    `db:"author_id"`
		AuthorName string    `db:"author_name"`
		Kind       string    `db:"kind"`
		Title      string    `db:"title"`
		Preview    string    `db:"preview"`
		Content    string    `db:"content"`
		Likes      int       `db:"likes"`
		CreatedAt  time.Time `db:"created_at"`
	}

	commentRow struct {
		ID         string    `db:"id"`
		PostID     string    `db:"post_id"`
		AuthorID   string    `db:"author_id"`
		AuthorName string    `db:"author_name"`
		Content    string    `db:"content"`
		CreatedAt  time.Time `db:"created_at"`
	}
)

func (r commentRow) toComment() community.Comment {
	return community.Comment{
		ID:         r.ID,
		AuthorID:   r.AuthorID,
		AuthorName: r.AuthorName,
		Content:    r.Content,
		CreatedAt:  r.CreatedAt,
	}
}

func (r postRow) toPost(comments []community.Comment, likedBy map[string]bool) (community.Post, error) {
	var content community.PostContent
	if err := json.Unmarshal([]byte(r.Content), &content); err != nil {
		return community.Post{}, errors.Wrap(err, "decoding post content")
	}
	if comments == nil {
		comments = []community.Comment{}
	}
	if likedBy == nil {
		likedBy = make(map[string]bool)
	}
	return community.Post{
		ID:         r.ID,
		AuthorID:   r.AuthorID,
		AuthorName: r.AuthorName,
		Kind:       community.Kind(r.Kind),
		Title:      r.Title,
		Preview:    r.Preview,
		Content:    content,
		Likes:      r.Likes,
		Comments:   comments,
		CreatedAt:  r.CreatedAt,
		LikedBy:    likedBy,
	}, nil
}

type CommunityRepository struct {
	db *sqlx.DB
}

var _ community.Repository = (*CommunityRepository)(nil)

func NewCommunityRepository(db *sqlx.DB) *CommunityRepository { return &CommunityRepository{db: db} }

func (repo *CommunityRepository) CreatePost(ctx context.Context, p community.Post) (community.Post, error) {
	content, err := json.Marshal(p.Content)
	if err != nil {
		return community.Post{}, errors.Wrap(err, "encoding post content")
	}

	q := repo.db.Rebind(`
INSERT INTO posts (id, author_id, author_name, kind, title, preview, content, likes, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err = repo.db.ExecContext(ctx, q,
		p.ID, p.AuthorID, p.AuthorName, string(p.Kind), p.Title, p.Preview, string(content), p.Likes, p.CreatedAt)
	if err != nil {
		return community.Post{}, errors.Wrap(err, "creating post")
	}
	return repo.GetPost(ctx, p.ID)
}

func (repo *CommunityRepository) QueryAllPosts(ctx context.Context) ([]community.Post, error) {
	var rows []postRow
	// id is a ULID, so the tiebreaker keeps creation order for same-timestamp rows
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM posts ORDER BY created_at, id`); err != nil {
		return nil, errors.Wrap(err, "querying posts")
	}
	if len(rows) == 0 {
		return []community.Post{}, nil
	}

	postIDs := make([]string, 0, len(rows))
	for _, r := range rows {
		postIDs = append(postIDs, r.ID)
	}

	var cRows []commentRow
	q, args, err := sqlx.In(`SELECT * FROM comments WHERE post_id IN (?) ORDER BY created_at, id`, postIDs)
	if err != nil {
		return nil, errors.Wrap(err, "expanding post ids")
	}
	if err = repo.db.SelectContext(ctx, &cRows, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying comments")
	}
	commentsByPost := make(map[string][]community.Comment)
	for _, cr := range cRows {
		commentsByPost[cr.PostID] = append(commentsByPost[cr.PostID], cr.toComment())
	}

	var likeRows []struct {
		PostID string `db:"post_id"`
		UserID string `db:"user_id"`
	}
	q, args, err = sqlx.In(`SELECT post_id, user_id FROM post_likes WHERE post_id IN (?)`, postIDs)
	if err != nil {
		return nil, errors.Wrap(err, "expanding post ids")
	}
	if err = repo.db.SelectContext(ctx, &likeRows, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying likes")
	}
	likedByPost := make(map[string]map[string]bool)
	for _, lr := range likeRows {
		if likedByPost[lr.PostID] == nil {
			likedByPost[lr.PostID] = make(map[string]bool)
		}
		likedByPost[lr.PostID][lr.UserID] = true
	}

	posts := make([]community.Post, 0, len(rows))
	for _, r := range rows {
		p, err := r.toPost(commentsByPost[r.ID], likedByPost[r.ID])
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, nil
}

func (repo *CommunityRepository) GetPost(ctx context.Context, id string) (community.Post, error) {
	var r postRow
	err := repo.db.GetContext(ctx, &r, repo.db.Rebind(`SELECT * FROM posts WHERE id = ?`), id)
	if err != nil {
		if err == sql.ErrNoRows {
			return community.Post{}, community.ErrNotFound
		}
		return community.Post{}, errors.Wrap(err, "getting post")
	}

	var cRows []commentRow
	q := repo.db.Rebind(`SELECT * FROM comments WHERE post_id = ? ORDER BY created_at, id`)
	if err = repo.db.SelectContext(ctx, &cRows, q, id); err != nil {
		return community.Post{}, errors.Wrap(err, "querying comments")
	}
	comments := make([]community.Comment, 0, len(cRows))
	for _, cr := range cRows {
		comments = append(comments, cr.toComment())
	}

	var likerIDs []string
	q = repo.db.Rebind(`SELECT user_id FROM post_likes WHERE post_id = ?`)
	if err = repo.db.SelectContext(ctx, &likerIDs, q, id); err != nil {
		return community.Post{}, errors.Wrap(err, "querying likes")
	}
	likedBy := make(map[string]bool, len(likerIDs))
	for _, uid := range likerIDs {
		likedBy[uid] = true
	}

	return r.toPost(comments, likedBy)
}

func (repo *CommunityRepository) ToggleLike(ctx context.Context, postID, viewerID string) (community.Post, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return community.Post{}, errors.Wrap(err, "starting transaction")
	}
	defer func() { _ = tx.Rollback() }()

	var count int
	q := repo.db.Rebind(`SELECT COUNT(*) FROM posts WHERE id = ?`)
	if err = tx.GetContext(ctx, &count, q, postID); err != nil {
		return community.Post{}, errors.Wrap(err, "checking post")
	}
	if count == 0 {
		return community.Post{}, community.ErrNotFound
	}

	var liked int
	q = repo.db.Rebind(`SELECT COUNT(*) FROM post_likes WHERE post_id = ? AND user_id = ?`)
	if err = tx.GetContext(ctx, &liked, q, postID, viewerID); err != nil {
		return community.Post{}, errors.Wrap(err, "checking like")
	}

	if liked > 0 {
		q = repo.db.Rebind(`DELETE FROM post_likes WHERE post_id = ? AND user_id = ?`)
		if _, err = tx.ExecContext(ctx, q, postID, viewerID); err != nil {
			return community.Post{}, errors.Wrap(err, "removing like")
		}
		q = repo.db.Rebind(`UPDATE posts SET likes = likes - 1 WHERE id = ? AND likes > 0`)
	} else {
		q = repo.db.Rebind(`INSERT INTO post_likes (post_id, user_id) VALUES (?, ?)`)
		if _, err = tx.ExecContext(ctx, q, postID, viewerID); err != nil {
			return community.Post{}, errors.Wrap(err, "adding like")
		}
		q = repo.db.Rebind(`UPDATE posts SET likes = likes + 1 WHERE id = ?`)
	}
	if _, err = tx.ExecContext(ctx, q, postID); err != nil {
		return community.Post{}, errors.Wrap(err, "updating like count")
	}

	if err = tx.Commit(); err != nil {
		return community.Post{}, errors.Wrap(err, "committing like")
	}
	return repo.GetPost(ctx, postID)
}

func (repo *CommunityRepository) AddComment(ctx context.Context, postID string, c community.Comment) (community.Post, error) {
	var count int
	q := repo.db.Rebind(`SELECT COUNT(*) FROM posts WHERE id = ?`)
	if err := repo.db.GetContext(ctx, &count, q, postID); err != nil {
		return community.Post{}, errors.Wrap(err, "checking post")
	}
	if count == 0 {
		return community.Post{}, community.ErrNotFound
	}

	q = repo.db.Rebind(`
INSERT INTO comments (id, post_id, author_id, author_name, content, created_at)
VALUES (?, ?, ?, ?, ?, ?)`)
	if _, err := repo.db.ExecContext(ctx, q, c.ID, postID, c.AuthorID, c.AuthorName, c.Content, c.CreatedAt); err != nil {
		return community.Post{}, errors.Wrap(err, "creating comment")
	}
	return repo.GetPost(ctx, postID)
}

func (repo *CommunityRepository) DeletePost(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, repo.db.Rebind(`DELETE FROM posts WHERE id = ?`), id)
	if err != nil {
		return errors.Wrap(err, "deleting post")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return community.ErrNotFound
	}
	return nil
}
