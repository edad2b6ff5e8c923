package tests

import (
	"context"
	"net/http"
	"testing"

	. "github.com/trezcool/darasa/api/echo"
	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/community"
	"github.com/trezcool/darasa/core/user"
)

// seedTree gives the user a one-subject syllabus and returns the subject.
func seedTree(t *testing.T, e *env, ownerID string) (subjectID, topicID, subtopicID string) {
	t.Helper()
	subjects := mustAddSubjects(t, e, ownerID, "Pakistan Affairs")
	topics := mustAddTopics(t, e, ownerID, subjects[0].ID, "Historical Background")
	subtopics := mustAddSubtopics(t, e, ownerID, subjects[0].ID, topics[0].ID, "Ideology of Pakistan")
	return subjects[0].ID, topics[0].ID, subtopics[0].ID
}

func sharePost(t *testing.T, e *env, token string, data interface{}) PostResponse {
	t.Helper()
	req, rec := newAuthRequest(http.MethodPost, "/v1/community/share", token, marchallObj(t, data))
	e.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("sharing: code = %v; body %v", rec.Code, rec.Body.String())
	}
	var p PostResponse
	decodeBody(t, rec, &p)
	return p
}

func Test_communityApi_share(t *testing.T) {
	e := setup(t)
	alice := createUser(t, e.usrSvc, "Alice", "alice@test.pk", "s3cretPwd!")
	token := getToken(t, alice)
	subjectID, _, _ := seedTree(t, e, alice.ID)

	t.Run("subject", func(t *testing.T) {
		p := sharePost(t, e, token, map[string]string{"kind": "subject", "subject_id": subjectID})
		if p.Kind != community.KindSubject {
			t.Errorf("p.Kind = %q; want %q", p.Kind, community.KindSubject)
		}
		if p.Title != "Pakistan Affairs" {
			t.Errorf("p.Title = %q; want %q", p.Title, "Pakistan Affairs")
		}
		if p.Preview != "Complete syllabus for Pakistan Affairs" {
			t.Errorf("p.Preview = %q", p.Preview)
		}
		if p.AuthorName != "Alice" {
			t.Errorf("p.AuthorName = %q; want Alice", p.AuthorName)
		}
	})

	t.Run("syllabus", func(t *testing.T) {
		p := sharePost(t, e, token, map[string]string{"kind": "syllabus"})
		if p.Title != "Complete Exam Syllabus" {
			t.Errorf("p.Title = %q", p.Title)
		}
		if p.Preview != "Full syllabus with 1 subjects" {
			t.Errorf("p.Preview = %q", p.Preview)
		}
	})

	t.Run("unknown kind rejected", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/community/share", token,
			marchallObj(t, map[string]string{"kind": "meme"}))
		e.server.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "unknown post kind"}),
		}, rec)
	})

	t.Run("anonymous note share", func(t *testing.T) {
		n := seedNote(t, e, user.AnonymousID, "Open Notes", "Shared without an account.")
		req, rec := newRequest(http.MethodPost, "/v1/community/share",
			marchallObj(t, map[string]string{"kind": "note", "note_id": n.ID}))
		e.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; body %v", rec.Code, rec.Body.String())
		}
		var p PostResponse
		decodeBody(t, rec, &p)
		if p.AuthorID != user.AnonymousID {
			t.Errorf("p.AuthorID = %q; want %q", p.AuthorID, user.AnonymousID)
		}
		if p.AuthorName != user.AnonymousName {
			t.Errorf("p.AuthorName = %q; want %q", p.AuthorName, user.AnonymousName)
		}
	})
}

func Test_communityApi_feed(t *testing.T) {
	e := setup(t)
	alice := createUser(t, e.usrSvc, "Alice", "alice@test.pk", "s3cretPwd!")
	token := getToken(t, alice)
	subjectID, _, _ := seedTree(t, e, alice.ID)

	sharePost(t, e, token, map[string]string{"kind": "subject", "subject_id": subjectID})
	sharePost(t, e, token, map[string]string{"kind": "syllabus"})

	tests := []struct {
		name string
		path string
		want int
	}{
		{"all", "/v1/community", 2},
		{"filter subject", "/v1/community?filter=subject", 1},
		{"filter unknown kind", "/v1/community?filter=note", 0},
		{"explicit all", "/v1/community?filter=all", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// the feed is readable logged out
			req, rec := newRequest(http.MethodGet, tt.path)
			e.server.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("code = %v; body %v", rec.Code, rec.Body.String())
			}
			var posts []PostResponse
			decodeBody(t, rec, &posts)
			if len(posts) != tt.want {
				t.Errorf("len(posts) = %d; want %d", len(posts), tt.want)
			}
		})
	}

	t.Run("retrieve missing post", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/community/nope")
		e.server.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "post not found"}),
		}, rec)
	})
}

func Test_communityApi_like(t *testing.T) {
	e := setup(t)
	alice := createUser(t, e.usrSvc, "Alice", "alice@test.pk", "s3cretPwd!")
	bob := createUser(t, e.usrSvc, "Bob", "bob@test.pk", "s3cretPwd!")
	subjectID, _, _ := seedTree(t, e, alice.ID)
	p := sharePost(t, e, getToken(t, alice), map[string]string{"kind": "subject", "subject_id": subjectID})

	t.Run("requires token", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/community/"+p.ID+"/like")
		e.server.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		}, rec)
	})

	bobToken := getToken(t, bob)

	t.Run("like", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/community/"+p.ID+"/like", bobToken)
		e.server.ServeHTTP(rec, req)

		var liked PostResponse
		decodeBody(t, rec, &liked)
		if liked.Likes != 1 {
			t.Errorf("liked.Likes = %d; want 1", liked.Likes)
		}
		if !liked.UserLiked {
			t.Error("liked.UserLiked = false; want true")
		}
	})

	t.Run("likes are viewer-relative", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/community/"+p.ID, getToken(t, alice))
		e.server.ServeHTTP(rec, req)

		var seen PostResponse
		decodeBody(t, rec, &seen)
		if seen.Likes != 1 {
			t.Errorf("seen.Likes = %d; want 1", seen.Likes)
		}
		if seen.UserLiked {
			t.Error("seen.UserLiked = true for a non-liker")
		}
	})

	t.Run("records an activity notification", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/notifications", bobToken)
		e.server.ServeHTTP(rec, req)

		var events []core.Notification
		decodeBody(t, rec, &events)
		if len(events) != 1 {
			t.Fatalf("len(events) = %d; want 1", len(events))
		}
		want := "You liked Alice's subject on Pakistan Affairs"
		if events[0].Message != want {
			t.Errorf("events[0].Message = %q; want %q", events[0].Message, want)
		}
	})

	t.Run("unlike", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/community/"+p.ID+"/like", bobToken)
		e.server.ServeHTTP(rec, req)

		var unliked PostResponse
		decodeBody(t, rec, &unliked)
		if unliked.Likes != 0 {
			t.Errorf("unliked.Likes = %d; want 0", unliked.Likes)
		}
		if unliked.UserLiked {
			t.Error("unliked.UserLiked = true; want false")
		}
	})
}

func Test_communityApi_comment(t *testing.T) {
	e := setup(t)
	alice := createUser(t, e.usrSvc, "Alice", "alice@test.pk", "s3cretPwd!")
	bob := createUser(t, e.usrSvc, "Bob", "bob@test.pk", "s3cretPwd!")
	subjectID, _, _ := seedTree(t, e, alice.ID)
	p := sharePost(t, e, getToken(t, alice), map[string]string{"kind": "subject", "subject_id": subjectID})

	body := marchallObj(t, map[string]string{"content": "Very helpful, thanks!"})
	req, rec := newAuthRequest(http.MethodPost, "/v1/community/"+p.ID+"/comments", getToken(t, bob), body)
	e.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; body %v", rec.Code, rec.Body.String())
	}

	var commented PostResponse
	decodeBody(t, rec, &commented)
	if len(commented.Comments) != 1 {
		t.Fatalf("len(commented.Comments) = %d; want 1", len(commented.Comments))
	}
	c := commented.Comments[0]
	if c.AuthorName != "Bob" {
		t.Errorf("c.AuthorName = %q; want Bob", c.AuthorName)
	}
	if c.Content != "Very helpful, thanks!" {
		t.Errorf("c.Content = %q", c.Content)
	}
}

func Test_communityApi_incorporate(t *testing.T) {
	e := setup(t)
	alice := createUser(t, e.usrSvc, "Alice", "alice@test.pk", "s3cretPwd!")
	bob := createUser(t, e.usrSvc, "Bob", "bob@test.pk", "s3cretPwd!")
	subjectID, _, _ := seedTree(t, e, alice.ID)
	p := sharePost(t, e, getToken(t, alice), map[string]string{"kind": "subject", "subject_id": subjectID})

	req, rec := newAuthRequest(http.MethodPost, "/v1/community/"+p.ID+"/incorporate", getToken(t, bob))
	e.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; body %v", rec.Code, rec.Body.String())
	}

	tree, err := e.syllSvc.Tree(context.Background(), bob.ID)
	if err != nil {
		t.Fatalf("Tree() failed: %v", err)
	}
	if len(tree) != 1 {
		t.Fatalf("len(tree) = %d; want 1", len(tree))
	}
	if tree[0].Name != "Pakistan Affairs" {
		t.Errorf("tree[0].Name = %q", tree[0].Name)
	}
	if tree[0].ID == subjectID {
		t.Error("incorporated subject reuses the source id")
	}
}

func Test_communityApi_incorporateNote(t *testing.T) {
	e := setup(t)
	alice := createUser(t, e.usrSvc, "Alice", "alice@test.pk", "s3cretPwd!")
	bob := createUser(t, e.usrSvc, "Bob", "bob@test.pk", "s3cretPwd!")
	n := seedNote(t, e, alice.ID, "Indus Water Treaty", "Signed in 1960.")
	p := sharePost(t, e, getToken(t, alice), map[string]string{"kind": "note", "note_id": n.ID})

	req, rec := newAuthRequest(http.MethodPost, "/v1/community/"+p.ID+"/incorporate", getToken(t, bob))
	e.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; body %v", rec.Code, rec.Body.String())
	}

	notes, err := e.noteSvc.List(context.Background(), bob.ID)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("len(notes) = %d; want 1", len(notes))
	}
	if notes[0].ID == n.ID {
		t.Error("incorporated note reuses the source id")
	}
	if notes[0].Title != "Indus Water Treaty" {
		t.Errorf("notes[0].Title = %q", notes[0].Title)
	}
}

func Test_communityApi_destroy(t *testing.T) {
	e := setup(t)
	alice := createUser(t, e.usrSvc, "Alice", "alice@test.pk", "s3cretPwd!")
	bob := createUser(t, e.usrSvc, "Bob", "bob@test.pk", "s3cretPwd!")
	subjectID, _, _ := seedTree(t, e, alice.ID)
	p := sharePost(t, e, getToken(t, alice), map[string]string{"kind": "subject", "subject_id": subjectID})

	t.Run("author only", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/community/"+p.ID, getToken(t, bob))
		e.server.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "only the author can delete a post"}),
		}, rec)
	})

	t.Run("author", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/community/"+p.ID, getToken(t, alice))
		e.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("code = %v; body %v", rec.Code, rec.Body.String())
		}

		if _, err := e.commSvc.Get(context.Background(), p.ID); err == nil {
			t.Error("post still retrievable after delete")
		}
	})
}
