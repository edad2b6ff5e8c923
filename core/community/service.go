package community

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/note"
	"github.com/trezcool/darasa/core/syllabus"
	"github.com/trezcool/darasa/core/user"
)

var (
	ErrNotFound  = errors.New("post not found")
	ErrNotAuthor = errors.New("only the author can delete a post")
)

// Sort orders for Query.
const (
	SortRecent = "recent"
	SortLikes  = "likes"
)

const previewMaxLen = 100

type (
	Repository interface {
		CreatePost(ctx context.Context, p Post) (Post, error)
		QueryAllPosts(ctx context.Context) ([]Post, error)
		GetPost(ctx context.Context, id string) (Post, error)
		// ToggleLike atomically flips the viewer's like and adjusts the
		// counter; the count never goes negative.
		ToggleLike(ctx context.Context, postID, viewerID string) (Post, error)
		AddComment(ctx context.Context, postID string, c Comment) (Post, error)
		DeletePost(ctx context.Context, id string) error
	}

	Service struct {
		repo     Repository
		notifier core.Notifier
		syllSvc  *syllabus.Service
		noteSvc  *note.Service
	}
)

func NewService(repo Repository, notifier core.Notifier, syllSvc *syllabus.Service, noteSvc *note.Service) *Service {
	return &Service{repo: repo, notifier: notifier, syllSvc: syllSvc, noteSvc: noteSvc}
}

func (svc *Service) newPost(actor user.User, kind Kind, title, preview string, content PostContent) Post {
	return Post{
		ID:         core.NewID("post"),
		AuthorID:   actor.ID,
		AuthorName: actor.Name,
		Kind:       kind,
		Title:      title,
		Preview:    preview,
		Content:    content,
		Likes:      0,
		Comments:   []Comment{},
		CreatedAt:  time.Now().UTC(),
		LikedBy:    make(map[string]bool),
	}
}

// ShareNote publishes a single note's title and full content.
func (svc *Service) ShareNote(ctx context.Context, actor user.User, noteID string) (Post, error) {
	n, err := svc.noteSvc.Get(ctx, noteID)
	if err != nil {
		return Post{}, err
	}
	return svc.repo.CreatePost(ctx, svc.newPost(
		actor, KindNote, n.Title, truncate(n.Content, previewMaxLen), projectNote(n),
	))
}

// ShareNotes publishes a collection of notes; an empty selection is rejected.
func (svc *Service) ShareNotes(ctx context.Context, actor user.User, noteIDs []string) (Post, error) {
	notes := make([]note.Note, 0, len(noteIDs))
	for _, id := range noteIDs {
		n, err := svc.noteSvc.Get(ctx, id)
		if err != nil {
			return Post{}, err
		}
		notes = append(notes, n)
	}
	content, err := projectNotes(notes)
	if err != nil {
		return Post{}, err
	}
	return svc.repo.CreatePost(ctx, svc.newPost(
		actor, KindNotes,
		fmt.Sprintf("%s's Note Collection", actor.Name),
		fmt.Sprintf("%d notes on various topics", len(notes)),
		content,
	))
}

// ShareSubject publishes a structural snapshot of a subject (names only).
func (svc *Service) ShareSubject(ctx context.Context, actor user.User, ownerID, subjectID string) (Post, error) {
	subj, err := svc.syllSvc.GetSubject(ctx, ownerID, subjectID)
	if err != nil {
		return Post{}, err
	}
	return svc.repo.CreatePost(ctx, svc.newPost(
		actor, KindSubject, subj.Name,
		fmt.Sprintf("Complete syllabus for %s", subj.Name),
		projectSubject(subj),
	))
}

func (svc *Service) ShareTopic(ctx context.Context, actor user.User, ownerID, subjectID, topicID string) (Post, error) {
	subj, err := svc.syllSvc.GetSubject(ctx, ownerID, subjectID)
	if err != nil {
		return Post{}, err
	}
	topic, err := svc.syllSvc.GetTopic(ctx, ownerID, subjectID, topicID)
	if err != nil {
		return Post{}, err
	}
	return svc.repo.CreatePost(ctx, svc.newPost(
		actor, KindTopic, topic.Name,
		fmt.Sprintf("Topic under %s: %s", subj.Name, topic.Name),
		projectTopic(subj.Name, topic),
	))
}

func (svc *Service) ShareTopics(ctx context.Context, actor user.User, ownerID, subjectID string) (Post, error) {
	subj, err := svc.syllSvc.GetSubject(ctx, ownerID, subjectID)
	if err != nil {
		return Post{}, err
	}
	content, err := projectTopics(subj)
	if err != nil {
		return Post{}, err
	}
	return svc.repo.CreatePost(ctx, svc.newPost(
		actor, KindTopics,
		fmt.Sprintf("Topics for %s", subj.Name),
		fmt.Sprintf("List of %d topics for %s", len(subj.Topics), subj.Name),
		content,
	))
}

// ShareSubtopic publishes a subtopic along with its note's raw content (or
// an empty string when no note is attached).
func (svc *Service) ShareSubtopic(ctx context.Context, actor user.User, ownerID, subtopicID string) (Post, error) {
	ref, err := svc.syllSvc.FindSubtopic(ctx, ownerID, subtopicID)
	if err != nil {
		return Post{}, err
	}
	return svc.repo.CreatePost(ctx, svc.newPost(
		actor, KindSubtopic, ref.Subtopic.Name,
		fmt.Sprintf("Subtopic under %s: %s", ref.TopicName, ref.Subtopic.Name),
		projectSubtopic(ref, svc.noteContent(ctx, ref.Subtopic.NoteID)),
	))
}

func (svc *Service) ShareSubtopics(ctx context.Context, actor user.User, ownerID, subjectID, topicID string) (Post, error) {
	subj, err := svc.syllSvc.GetSubject(ctx, ownerID, subjectID)
	if err != nil {
		return Post{}, err
	}
	topic, err := svc.syllSvc.GetTopic(ctx, ownerID, subjectID, topicID)
	if err != nil {
		return Post{}, err
	}

	contents := make(map[string]string, len(topic.Subtopics))
	for _, st := range topic.Subtopics {
		contents[st.ID] = svc.noteContent(ctx, st.NoteID)
	}
	content, err := projectSubtopics(subj.Name, topic, contents)
	if err != nil {
		return Post{}, err
	}
	return svc.repo.CreatePost(ctx, svc.newPost(
		actor, KindSubtopics,
		fmt.Sprintf("Subtopics for %s", topic.Name),
		fmt.Sprintf("List of %d subtopics for %s", len(topic.Subtopics), topic.Name),
		content,
	))
}

// ShareSyllabus publishes the owner's entire tree as a names-only outline.
func (svc *Service) ShareSyllabus(ctx context.Context, actor user.User, ownerID string) (Post, error) {
	subjects, err := svc.syllSvc.Tree(ctx, ownerID)
	if err != nil {
		return Post{}, err
	}
	content, err := projectSyllabus(subjects)
	if err != nil {
		return Post{}, err
	}
	return svc.repo.CreatePost(ctx, svc.newPost(
		actor, KindSyllabus, "Complete Exam Syllabus",
		fmt.Sprintf("Full syllabus with %d subjects", len(subjects)),
		content,
	))
}

func (svc *Service) noteContent(ctx context.Context, noteID string) string {
	if noteID == "" {
		return ""
	}
	n, err := svc.noteSvc.Get(ctx, noteID)
	if err != nil {
		return ""
	}
	return n.Content
}

func (svc *Service) Get(ctx context.Context, id string) (Post, error) {
	return svc.repo.GetPost(ctx, id)
}

// Query returns the feed filtered by kind ("" or "all" is a passthrough)
// and sorted by recency or like count. Sorting is stable: ties keep their
// original (storage) relative order.
func (svc *Service) Query(ctx context.Context, kindFilter, sortBy string) ([]Post, error) {
	posts, err := svc.repo.QueryAllPosts(ctx)
	if err != nil {
		return nil, err
	}

	if kindFilter != "" && kindFilter != "all" {
		filtered := make([]Post, 0, len(posts))
		for _, p := range posts {
			if p.Kind == Kind(kindFilter) {
				filtered = append(filtered, p)
			}
		}
		posts = filtered
	}

	switch sortBy {
	case SortLikes:
		sort.SliceStable(posts, func(i, j int) bool { return posts[i].Likes > posts[j].Likes })
	case SortRecent:
		sort.SliceStable(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	}
	return posts, nil
}

// ToggleLike flips the viewer's like state: liked→unliked or unliked→liked,
// adjusting the shared counter by ±1. Applying it twice restores the
// original state. The author is notified on like (not unlike) unless the
// viewer is the author.
func (svc *Service) ToggleLike(ctx context.Context, postID string, viewer user.User) (Post, error) {
	p, err := svc.repo.ToggleLike(ctx, postID, viewer.ID)
	if err != nil {
		return Post{}, err
	}

	if p.UserLiked(viewer.ID) && p.AuthorID != viewer.ID {
		svc.notifier.Notify(ctx, core.Notification{
			Kind:      core.NotifyLike,
			Message:   fmt.Sprintf("You liked %s's %s on %s", p.AuthorName, kindLabel(p.Kind), p.Title),
			PostID:    p.ID,
			ActorID:   viewer.ID,
			ActorName: viewer.Name,
		})
	}
	return p, nil
}

// AddComment appends a comment to the post; empty or whitespace-only
// content is a no-op returning the unchanged post.
func (svc *Service) AddComment(ctx context.Context, postID string, actor user.User, content string) (Post, error) {
	if content = core.CleanString(content); content == "" {
		return svc.repo.GetPost(ctx, postID)
	}

	c := Comment{
		ID:         core.NewID("comment"),
		AuthorID:   actor.ID,
		AuthorName: actor.Name,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
	}
	p, err := svc.repo.AddComment(ctx, postID, c)
	if err != nil {
		return Post{}, err
	}

	if p.AuthorID != actor.ID {
		svc.notifier.Notify(ctx, core.Notification{
			Kind:      core.NotifyComment,
			Message:   fmt.Sprintf("You commented on %s's %s on %s", p.AuthorName, kindLabel(p.Kind), p.Title),
			PostID:    p.ID,
			ActorID:   actor.ID,
			ActorName: actor.Name,
		})
	}
	return p, nil
}

// Incorporate copies a post's content into the actor's own data: note
// payloads become notes, tree payloads become a new subject snapshot.
func (svc *Service) Incorporate(ctx context.Context, postID string, actor user.User) (Post, error) {
	p, err := svc.repo.GetPost(ctx, postID)
	if err != nil {
		return Post{}, err
	}

	switch p.Kind {
	case KindNote:
		if err = svc.incorporateNotes(ctx, actor, *p.Content.Note); err != nil {
			return Post{}, err
		}
	case KindNotes:
		if err = svc.incorporateNotes(ctx, actor, p.Content.Notes...); err != nil {
			return Post{}, err
		}
	case KindSubject:
		err = svc.incorporateOutline(ctx, actor, p.Content.Subject.Name, p.Content.Subject.Topics)
	case KindTopic:
		t := p.Content.Topic
		err = svc.incorporateOutline(ctx, actor, t.SubjectName, []TopicOutline{{Name: t.Name, Subtopics: t.Subtopics}})
	case KindTopics:
		err = svc.incorporateOutline(ctx, actor, p.Content.Topics.SubjectName, p.Content.Topics.Topics)
	case KindSubtopic:
		st := p.Content.Subtopic
		err = svc.incorporateOutline(ctx, actor, st.SubjectName,
			[]TopicOutline{{Name: st.TopicName, Subtopics: []string{st.Name}}})
	case KindSubtopics:
		sts := p.Content.Subtopics
		names := make([]string, 0, len(sts.Subtopics))
		for _, st := range sts.Subtopics {
			names = append(names, st.Name)
		}
		err = svc.incorporateOutline(ctx, actor, sts.SubjectName,
			[]TopicOutline{{Name: sts.TopicName, Subtopics: names}})
	case KindSyllabus:
		for _, subj := range p.Content.Syllabus.Subjects {
			outlines := make([]TopicOutline, 0, len(subj.Topics))
			for _, name := range subj.Topics {
				outlines = append(outlines, TopicOutline{Name: name})
			}
			if err = svc.incorporateOutline(ctx, actor, subj.Name, outlines); err != nil {
				break
			}
		}
	}
	if err != nil {
		return Post{}, errors.Wrap(err, "incorporating content")
	}

	if p.AuthorID != actor.ID {
		svc.notifier.Notify(ctx, core.Notification{
			Kind:      core.NotifyIncorporate,
			Message:   fmt.Sprintf("You incorporated %s's %s on %s", p.AuthorName, kindLabel(p.Kind), p.Title),
			PostID:    p.ID,
			ActorID:   actor.ID,
			ActorName: actor.Name,
		})
	}
	return p, nil
}

func (svc *Service) incorporateNotes(ctx context.Context, actor user.User, notes ...NoteContent) error {
	for _, nc := range notes {
		if _, err := svc.noteSvc.Upsert(ctx, note.Note{
			OwnerID: actor.ID,
			Title:   nc.Title,
			Content: nc.Text,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (svc *Service) incorporateOutline(ctx context.Context, actor user.User, subjectName string, topics []TopicOutline) error {
	subjects, err := svc.syllSvc.AddSubjects(ctx, actor.ID, subjectName)
	if err != nil {
		return err
	}
	if len(subjects) == 0 {
		return nil
	}
	subjectID := subjects[0].ID

	for _, t := range topics {
		created, err := svc.syllSvc.AddTopics(ctx, actor.ID, subjectID, t.Name)
		if err != nil {
			return err
		}
		if len(created) == 0 || len(t.Subtopics) == 0 {
			continue
		}
		names := strings.Join(t.Subtopics, ", ")
		if _, err := svc.syllSvc.AddSubtopics(ctx, actor.ID, subjectID, created[0].ID, names); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a post; only its author may do so.
func (svc *Service) Delete(ctx context.Context, postID string, actor user.User) error {
	p, err := svc.repo.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if p.AuthorID != actor.ID {
		return ErrNotAuthor
	}
	return svc.repo.DeletePost(ctx, postID)
}

func kindLabel(k Kind) string {
	switch k {
	case KindNote:
		return "note"
	case KindNotes:
		return "notes"
	case KindSubject:
		return "subject"
	default:
		return "syllabus"
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
