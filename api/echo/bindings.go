package echoapi

import (
	"github.com/trezcool/darasa/core/community"
)

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}

	PasswordResetRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}

	// AddItemsRequest carries a comma-separated list of names for the
	// syllabus add endpoints.
	AddItemsRequest struct {
		Names string `json:"names" validate:"required"`
	}

	SaveNoteRequest struct {
		Title   string `json:"title" validate:"required"`
		Content string `json:"content"`
	}

	UpsertNoteRequest struct {
		ID      string `json:"id"`
		Title   string `json:"title" validate:"required"`
		Content string `json:"content"`
	}

	CommentRequest struct {
		Content string `json:"content"`
	}

	// ShareRequest selects what to publish; the fields read depend on Kind.
	ShareRequest struct {
		Kind       community.Kind `json:"kind" validate:"required"`
		NoteID     string         `json:"note_id"`
		NoteIDs    []string       `json:"note_ids"`
		SubjectID  string         `json:"subject_id"`
		TopicID    string         `json:"topic_id"`
		SubtopicID string         `json:"subtopic_id"`
	}

	// PostResponse decorates a post with the viewer-relative like state.
	PostResponse struct {
		community.Post
		UserLiked bool `json:"user_liked"`
	}
)

func newPostResponse(p community.Post, viewerID string) PostResponse {
	return PostResponse{Post: p, UserLiked: p.UserLiked(viewerID)}
}

func newPostResponses(posts []community.Post, viewerID string) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, newPostResponse(p, viewerID))
	}
	return out
}
