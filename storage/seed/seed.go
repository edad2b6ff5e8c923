// Package seed loads the demo fixtures when the app runs with DEMODATA
// enabled. Loading is idempotent by user email: a database that already has
// the demo user is left untouched.
package seed

import (
	"context"
	"embed"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/trezcool/darasa/core/community"
	"github.com/trezcool/darasa/core/note"
	"github.com/trezcool/darasa/core/syllabus"
	"github.com/trezcool/darasa/core/user"
)

//go:embed fixtures/*.yml
var fixturesFS embed.FS

type (
	fixtureUser struct {
		ID       string `yaml:"id"`
		Name     string `yaml:"name"`
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
		ExamDate string `yaml:"exam_date"`
		Goals    string `yaml:"goals"`
	}

	fixtureSubtopic struct {
		ID   string `yaml:"id"`
		Name string `yaml:"name"`
		Note string `yaml:"note"`
	}

	fixtureTopic struct {
		ID        string            `yaml:"id"`
		Name      string            `yaml:"name"`
		Subtopics []fixtureSubtopic `yaml:"subtopics"`
	}

	fixtureSubject struct {
		ID     string         `yaml:"id"`
		Owner  string         `yaml:"owner"`
		Name   string         `yaml:"name"`
		Topics []fixtureTopic `yaml:"topics"`
	}

	fixtureNote struct {
		ID       string `yaml:"id"`
		Owner    string `yaml:"owner"`
		Subtopic string `yaml:"subtopic"`
		Title    string `yaml:"title"`
		Content  string `yaml:"content"`
	}

	fixtureComment struct {
		ID         string    `yaml:"id"`
		AuthorID   string    `yaml:"author_id"`
		AuthorName string    `yaml:"author_name"`
		Content    string    `yaml:"content"`
		CreatedAt  time.Time `yaml:"created_at"`
	}

	fixturePost struct {
		ID         string                     `yaml:"id"`
		AuthorID   string                     `yaml:"author_id"`
		AuthorName string                     `yaml:"author_name"`
		Kind       string                     `yaml:"kind"`
		Title      string                     `yaml:"title"`
		Preview    string                     `yaml:"preview"`
		Likes      int                        `yaml:"likes"`
		CreatedAt  time.Time                  `yaml:"created_at"`
		Note       *community.NoteContent     `yaml:"note"`
		Notes      []community.NoteContent    `yaml:"notes"`
		Subject    *community.SubjectContent  `yaml:"subject"`
		Syllabus   *community.SyllabusContent `yaml:"syllabus"`
		Comments   []fixtureComment           `yaml:"comments"`
	}

	fixtures struct {
		Users    []fixtureUser    `yaml:"users"`
		Subjects []fixtureSubject `yaml:"subjects"`
		Notes    []fixtureNote    `yaml:"notes"`
		Posts    []fixturePost    `yaml:"posts"`
	}
)

type Repos struct {
	User      user.Repository
	Syllabus  syllabus.Repository
	Note      note.Repository
	Community community.Repository
}

func Load(ctx context.Context, repos Repos) error {
	raw, err := fixturesFS.ReadFile("fixtures/demo.yml")
	if err != nil {
		return errors.Wrap(err, "reading fixtures")
	}
	var fix fixtures
	if err = yaml.Unmarshal(raw, &fix); err != nil {
		return errors.Wrap(err, "decoding fixtures")
	}

	if len(fix.Users) > 0 {
		if _, err = repos.User.GetUserByEmail(ctx, fix.Users[0].Email); err == nil {
			return nil // already seeded
		}
	}

	deriver := syllabus.StatusDeriver{}
	notesByID := make(map[string]fixtureNote, len(fix.Notes))
	for _, fn := range fix.Notes {
		notesByID[fn.ID] = fn
	}

	for _, fu := range fix.Users {
		now := time.Now().UTC()
		usr := user.User{
			ID:        fu.ID,
			Name:      fu.Name,
			Email:     fu.Email,
			ExamDate:  fu.ExamDate,
			Goals:     fu.Goals,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err = usr.SetPassword(fu.Password); err != nil {
			return errors.Wrap(err, "hashing fixture password")
		}
		if _, err = repos.User.CreateUser(ctx, usr); err != nil {
			return errors.Wrap(err, "seeding user")
		}
	}

	for _, fs := range fix.Subjects {
		subj := syllabus.Subject{ID: fs.ID, Name: fs.Name, Topics: []syllabus.Topic{}}
		if err = repos.Syllabus.CreateSubjects(ctx, fs.Owner, []syllabus.Subject{subj}); err != nil {
			return errors.Wrap(err, "seeding subject")
		}
		for _, ft := range fs.Topics {
			topic := syllabus.Topic{ID: ft.ID, Name: ft.Name, Subtopics: []syllabus.Subtopic{}}
			if err = repos.Syllabus.CreateTopics(ctx, fs.Owner, fs.ID, []syllabus.Topic{topic}); err != nil {
				return errors.Wrap(err, "seeding topic")
			}
			sts := make([]syllabus.Subtopic, 0, len(ft.Subtopics))
			for _, fst := range ft.Subtopics {
				st := syllabus.Subtopic{ID: fst.ID, Name: fst.Name, Status: syllabus.StatusNotStarted}
				if fn, ok := notesByID[fst.Note]; ok {
					st.NoteID = fn.ID
					st.Status = deriver.Derive(fn.Content, syllabus.DefaultNoteContent(fst.Name))
				}
				sts = append(sts, st)
			}
			if err = repos.Syllabus.CreateSubtopics(ctx, fs.Owner, fs.ID, ft.ID, sts); err != nil {
				return errors.Wrap(err, "seeding subtopics")
			}
		}
	}

	for _, fn := range fix.Notes {
		n := note.Note{
			ID:         fn.ID,
			OwnerID:    fn.Owner,
			SubtopicID: fn.Subtopic,
			Title:      fn.Title,
			Content:    fn.Content,
			UpdatedAt:  time.Now().UTC(),
		}
		if _, err = repos.Note.UpsertNote(ctx, n); err != nil {
			return errors.Wrap(err, "seeding note")
		}
	}

	for _, fp := range fix.Posts {
		comments := make([]community.Comment, 0, len(fp.Comments))
		for _, fc := range fp.Comments {
			comments = append(comments, community.Comment{
				ID:         fc.ID,
				AuthorID:   fc.AuthorID,
				AuthorName: fc.AuthorName,
				Content:    fc.Content,
				CreatedAt:  fc.CreatedAt,
			})
		}
		kind := community.Kind(fp.Kind)
		p := community.Post{
			ID:         fp.ID,
			AuthorID:   fp.AuthorID,
			AuthorName: fp.AuthorName,
			Kind:       kind,
			Title:      fp.Title,
			Preview:    fp.Preview,
			Content: community.PostContent{
				Kind:     kind,
				Note:     fp.Note,
				Notes:    fp.Notes,
				Subject:  fp.Subject,
				Syllabus: fp.Syllabus,
			},
			Likes:     fp.Likes,
			CreatedAt: fp.CreatedAt,
			LikedBy:   make(map[string]bool),
		}
		if _, err = repos.Community.CreatePost(ctx, p); err != nil {
			return errors.Wrap(err, "seeding post")
		}
		for _, c := range comments {
			if _, err = repos.Community.AddComment(ctx, p.ID, c); err != nil {
				return errors.Wrap(err, "seeding comment")
			}
		}
	}
	return nil
}
