package inmem

import (
	"context"

	"github.com/trezcool/darasa/core/community"
)

type CommunityRepository struct {
	db *DB
}

var _ community.Repository = (*CommunityRepository)(nil)

func NewCommunityRepository(db *DB) *CommunityRepository { return &CommunityRepository{db: db} }

func (repo *CommunityRepository) CreatePost(ctx context.Context, p community.Post) (community.Post, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if p.LikedBy == nil {
		p.LikedBy = make(map[string]bool)
	}
	repo.db.posts[p.ID] = p
	repo.db.postOrder = append(repo.db.postOrder, p.ID)
	return snapshotPost(p), nil
}

func (repo *CommunityRepository) QueryAllPosts(ctx context.Context) ([]community.Post, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	posts := make([]community.Post, 0, len(repo.db.postOrder))
	for _, id := range repo.db.postOrder {
		posts = append(posts, snapshotPost(repo.db.posts[id]))
	}
	return posts, nil
}

func (repo *CommunityRepository) GetPost(ctx context.Context, id string) (community.Post, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	p, ok := repo.db.posts[id]
	if !ok {
		return community.Post{}, community.ErrNotFound
	}
	return snapshotPost(p), nil
}

func (repo *CommunityRepository) ToggleLike(ctx context.Context, postID, viewerID string) (community.Post, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	p, ok := repo.db.posts[postID]
	if !ok {
		return community.Post{}, community.ErrNotFound
	}
	if p.LikedBy == nil {
		p.LikedBy = make(map[string]bool)
	}
	if p.LikedBy[viewerID] {
		delete(p.LikedBy, viewerID)
		if p.Likes > 0 {
			p.Likes--
		}
	} else {
		p.LikedBy[viewerID] = true
		p.Likes++
	}
	repo.db.posts[postID] = p
	return snapshotPost(p), nil
}

func (repo *CommunityRepository) AddComment(ctx context.Context, postID string, c community.Comment) (community.Post, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	p, ok := repo.db.posts[postID]
	if !ok {
		return community.Post{}, community.ErrNotFound
	}
	p.Comments = append(p.Comments, c)
	repo.db.posts[postID] = p
	return snapshotPost(p), nil
}

func (repo *CommunityRepository) DeletePost(ctx context.Context, id string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.posts[id]; !ok {
		return community.ErrNotFound
	}
	delete(repo.db.posts, id)
	for i, pid := range repo.db.postOrder {
		if pid == id {
			repo.db.postOrder = append(repo.db.postOrder[:i], repo.db.postOrder[i+1:]...)
			break
		}
	}
	return nil
}

func snapshotPost(p community.Post) community.Post {
	p.Comments = append([]community.Comment(nil), p.Comments...)
	p.LikedBy = p.CloneLikedBy()
	return p
}
