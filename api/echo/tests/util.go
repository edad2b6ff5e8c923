package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/trezcool/darasa/api/echo"
	"github.com/trezcool/darasa/core/community"
	"github.com/trezcool/darasa/core/note"
	"github.com/trezcool/darasa/core/syllabus"
	"github.com/trezcool/darasa/core/user"
	emailsvc "github.com/trezcool/darasa/services/email"
	logsvc "github.com/trezcool/darasa/services/logger"
	notifysvc "github.com/trezcool/darasa/services/notifier"
	"github.com/trezcool/darasa/storage/database/inmem"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type env struct {
	server   Server
	usrSvc   *user.Service
	syllSvc  *syllabus.Service
	noteSvc  *note.Service
	commSvc  *community.Service
	notifier *notifysvc.Store
}

func setup(t *testing.T) *env {
	t.Helper()

	db := inmem.NewDB()

	mailSvc := emailsvc.NewConsoleServiceMock()
	logger := logsvc.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags))
	notifier := notifysvc.NewStore(logger)

	noteSvc := note.NewService(inmem.NewNoteRepository(db))
	syllSvc := syllabus.NewService(inmem.NewSyllabusRepository(db), noteSvc)
	usrSvc := user.NewService(inmem.NewUserRepository(db), mailSvc)
	commSvc := community.NewService(inmem.NewCommunityRepository(db), notifier, syllSvc, noteSvc)

	server := NewServer(
		&Options{
			DisableReqLogs: true,
			Logger:         logger,
			UserSvc:        usrSvc,
			SyllabusSvc:    syllSvc,
			NoteSvc:        noteSvc,
			CommunitySvc:   commSvc,
			Notifications:  notifier,
		},
	)
	return &env{
		server:   server,
		usrSvc:   usrSvc,
		syllSvc:  syllSvc,
		noteSvc:  noteSvc,
		commSvc:  commSvc,
		notifier: notifier,
	}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func createUser(t *testing.T, svc *user.Service, name, email, pwd string) user.User {
	t.Helper()
	usr, err := svc.Register(context.Background(), user.NewUser{Name: name, Email: email, Password: pwd})
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

func mustAddSubjects(t *testing.T, e *env, ownerID, names string) []syllabus.Subject {
	t.Helper()
	subjects, err := e.syllSvc.AddSubjects(context.Background(), ownerID, names)
	if err != nil {
		t.Fatalf("mustAddSubjects() failed: %v", err)
	}
	return subjects
}

func mustAddTopics(t *testing.T, e *env, ownerID, subjectID, names string) []syllabus.Topic {
	t.Helper()
	topics, err := e.syllSvc.AddTopics(context.Background(), ownerID, subjectID, names)
	if err != nil {
		t.Fatalf("mustAddTopics() failed: %v", err)
	}
	return topics
}

func mustAddSubtopics(t *testing.T, e *env, ownerID, subjectID, topicID, names string) []syllabus.Subtopic {
	t.Helper()
	subtopics, err := e.syllSvc.AddSubtopics(context.Background(), ownerID, subjectID, topicID, names)
	if err != nil {
		t.Fatalf("mustAddSubtopics() failed: %v", err)
	}
	return subtopics
}

func getToken(t *testing.T, usr user.User) string {
	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decoding response body %q: %v", rec.Body.String(), err)
	}
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
