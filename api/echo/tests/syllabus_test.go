package tests

import (
	"net/http"
	"strings"
	"testing"

	"github.com/trezcool/darasa/core/note"
	"github.com/trezcool/darasa/core/syllabus"
)

func Test_syllabusApi_requiresAuth(t *testing.T) {
	e := setup(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/v1/syllabus"},
		{http.MethodGet, "/v1/syllabus/progress"},
		{http.MethodPost, "/v1/syllabus/subjects"},
		{http.MethodGet, "/v1/syllabus/subtopics/st1/note"},
	}
	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			req, rec := newRequest(p.method, p.path)
			e.server.ServeHTTP(rec, req)
			checkCodeAndData(t, httpTest{
				wantCode: http.StatusUnauthorized,
				wantData: marchallObj(t, errMissingToken),
			}, rec)
		})
	}
}

func Test_syllabusApi_buildTree(t *testing.T) {
	e := setup(t)
	usr := createUser(t, e.usrSvc, "Awe", "awe@test.pk", "s3cretPwd!")
	token := getToken(t, usr)

	// comma-separated names fan out into sibling subjects
	req, rec := newAuthRequest(http.MethodPost, "/v1/syllabus/subjects", token,
		marchallObj(t, map[string]string{"names": "Pakistan Affairs, Current Affairs"}))
	e.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("adding subjects: code = %v; body %v", rec.Code, rec.Body.String())
	}
	var subjects []syllabus.Subject
	decodeBody(t, rec, &subjects)
	if len(subjects) != 2 {
		t.Fatalf("len(subjects) = %d; want 2", len(subjects))
	}
	pa := subjects[0]

	req, rec = newAuthRequest(http.MethodPost, "/v1/syllabus/subjects/"+pa.ID+"/topics", token,
		marchallObj(t, map[string]string{"names": "Historical Background"}))
	e.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("adding topics: code = %v; body %v", rec.Code, rec.Body.String())
	}
	var topics []syllabus.Topic
	decodeBody(t, rec, &topics)
	if len(topics) != 1 {
		t.Fatalf("len(topics) = %d; want 1", len(topics))
	}
	hist := topics[0]

	req, rec = newAuthRequest(http.MethodPost,
		"/v1/syllabus/subjects/"+pa.ID+"/topics/"+hist.ID+"/subtopics", token,
		marchallObj(t, map[string]string{"names": "Ideology of Pakistan, Lahore Resolution"}))
	e.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("adding subtopics: code = %v; body %v", rec.Code, rec.Body.String())
	}
	var subtopics []syllabus.Subtopic
	decodeBody(t, rec, &subtopics)
	if len(subtopics) != 2 {
		t.Fatalf("len(subtopics) = %d; want 2", len(subtopics))
	}
	for _, st := range subtopics {
		if st.Status != syllabus.StatusNotStarted {
			t.Errorf("new subtopic status = %q; want %q", st.Status, syllabus.StatusNotStarted)
		}
	}

	// the tree reflects all of it
	req, rec = newAuthRequest(http.MethodGet, "/v1/syllabus", token)
	e.server.ServeHTTP(rec, req)
	var tree []syllabus.Subject
	decodeBody(t, rec, &tree)
	if len(tree) != 2 {
		t.Fatalf("len(tree) = %d; want 2", len(tree))
	}
	if got := tree[0].Topics[0].Subtopics; len(got) != 2 {
		t.Errorf("len(tree[0].Topics[0].Subtopics) = %d; want 2", len(got))
	}

	// other users see an empty tree
	other := createUser(t, e.usrSvc, "Other", "other@test.pk", "s3cretPwd!")
	req, rec = newAuthRequest(http.MethodGet, "/v1/syllabus", getToken(t, other))
	e.server.ServeHTTP(rec, req)
	tree = nil
	decodeBody(t, rec, &tree)
	if len(tree) != 0 {
		t.Errorf("other user's tree has %d subjects; want 0", len(tree))
	}
}

func Test_syllabusApi_notes(t *testing.T) {
	e := setup(t)
	usr := createUser(t, e.usrSvc, "Awe", "awe@test.pk", "s3cretPwd!")
	token := getToken(t, usr)

	subjects := mustAddSubjects(t, e, usr.ID, "Essay")
	topics := mustAddTopics(t, e, usr.ID, subjects[0].ID, "Structure")
	subtopics := mustAddSubtopics(t, e, usr.ID, subjects[0].ID, topics[0].ID, "Outlining")
	st := subtopics[0]

	t.Run("open note defaults", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/syllabus/subtopics/"+st.ID+"/note", token)
		e.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %v", rec.Code, rec.Body.String())
		}
		var n note.Note
		decodeBody(t, rec, &n)
		if n.Title != "Outlining Notes" {
			t.Errorf("n.Title = %q; want %q", n.Title, "Outlining Notes")
		}
		if !strings.Contains(n.Content, "# Outlining") {
			t.Errorf("n.Content = %q; want the placeholder heading", n.Content)
		}
	})

	t.Run("save note derives status", func(t *testing.T) {
		body := marchallObj(t, map[string]string{
			"title":   "Outlining",
			"content": "# Outlining\n\n" + strings.Repeat("Every essay needs a skeleton first. ", 5),
		})
		req, rec := newAuthRequest(http.MethodPut, "/v1/syllabus/subtopics/"+st.ID+"/note", token, body)
		e.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %v", rec.Code, rec.Body.String())
		}
		var saved syllabus.Subtopic
		decodeBody(t, rec, &saved)
		if saved.Status != syllabus.StatusCompleted {
			t.Errorf("saved.Status = %q; want %q", saved.Status, syllabus.StatusCompleted)
		}
		if saved.NoteID == "" {
			t.Error("saved.NoteID is empty")
		}
	})

	t.Run("progress counts completed subtopics", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/syllabus/progress", token)
		e.server.ServeHTTP(rec, req)
		var prog syllabus.Progress
		decodeBody(t, rec, &prog)
		if prog.Overall != 100 {
			t.Errorf("prog.Overall = %d; want 100", prog.Overall)
		}
		if len(prog.Subjects) != 1 || prog.Subjects[0].Progress != 100 {
			t.Errorf("prog.Subjects = %+v", prog.Subjects)
		}
	})

	t.Run("deleting the subject keeps the note", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/syllabus/subjects/"+subjects[0].ID, token)
		e.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("code = %v; body %v", rec.Code, rec.Body.String())
		}

		req, rec = newAuthRequest(http.MethodGet, "/v1/notes", token)
		e.server.ServeHTTP(rec, req)
		var notes []note.Note
		decodeBody(t, rec, &notes)
		if len(notes) != 1 {
			t.Fatalf("len(notes) = %d; want 1", len(notes))
		}
		if notes[0].Title != "Outlining" {
			t.Errorf("notes[0].Title = %q; want %q", notes[0].Title, "Outlining")
		}
	})
}
