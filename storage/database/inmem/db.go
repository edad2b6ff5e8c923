// Package inmem provides map-backed repositories. They are the default in
// dev and test modes and hold everything a single process needs; nothing
// survives a restart.
package inmem

import (
	"sync"

	"github.com/trezcool/darasa/core/community"
	"github.com/trezcool/darasa/core/note"
	"github.com/trezcool/darasa/core/syllabus"
	"github.com/trezcool/darasa/core/user"
)

// DB holds all tables behind a single lock. Ordered id slices preserve
// insertion order for listing, the maps serve lookups.
type DB struct {
	mu sync.RWMutex

	users     map[string]user.User
	userOrder []string

	// subjects are stored per owner as an ordered tree.
	subjects map[string][]syllabus.Subject

	notes     map[string]note.Note
	noteOrder []string

	posts     map[string]community.Post
	postOrder []string
}

func NewDB() *DB {
	return &DB{
		users:    make(map[string]user.User),
		subjects: make(map[string][]syllabus.Subject),
		notes:    make(map[string]note.Note),
		posts:    make(map[string]community.Post),
	}
}
