// Package bookmark stores command lines so they can be replayed later.
package bookmark

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/anmitsu/go-shlex"
	"github.com/josephlewis42/myshell/core/shell"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

var (
	// ErrIndexOutOfRange is returned for an index that doesn't name a bookmark.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrEmptyBookmark is returned when adding a bookmark with no words.
	ErrEmptyBookmark = errors.New("nothing to bookmark")
)

// Entry is a bookmark and its current position.
type Entry struct {
	Index int
	Text  string
}

type bookmarkFile struct {
	Bookmarks []string `json:"bookmarks"`
}

// Store holds bookmarks in insertion order. Deleting a bookmark shifts later
// ones down by one.
type Store struct {
	mu      sync.Mutex
	entries []string

	fs   afero.Fs
	path string
}

// NewStore creates an in-memory store.
func NewStore() *Store {
	return &Store{}
}

// Open creates a store persisted to path on fs, loading any existing
// bookmarks.
func Open(fs afero.Fs, path string) (*Store, error) {
	s := &Store{fs: fs, path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	data, err := afero.ReadFile(s.fs, s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil
	case err != nil:
		return err
	}

	var bf bookmarkFile
	if err := yaml.UnmarshalStrict(data, &bf); err != nil {
		return fmt.Errorf("parse %s: %w", s.path, err)
	}
	s.entries = bf.Bookmarks
	return nil
}

// save writes the bookmarks out, the caller must hold mu.
func (s *Store) save() error {
	if s.fs == nil {
		return nil
	}

	data, err := yaml.Marshal(bookmarkFile{Bookmarks: s.entries})
	if err != nil {
		return err
	}
	return afero.WriteFile(s.fs, s.path, data, 0600)
}

// Add joins words with single spaces and stores the result. Shell quoting
// around the words is removed, so the words `"echo` `hi"` are stored as
// `echo hi`.
func (s *Store) Add(words []string) (Entry, error) {
	text, err := normalize(words)
	if err != nil {
		return Entry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, text)
	entry := Entry{Index: len(s.entries) - 1, Text: text}
	return entry, s.save()
}

func normalize(words []string) (string, error) {
	unquoted, err := shlex.Split(strings.Join(words, " "), true)
	if err != nil {
		return "", err
	}
	text := strings.Join(strings.Fields(strings.Join(unquoted, " ")), " ")
	if text == "" {
		return "", ErrEmptyBookmark
	}
	return text, nil
}

// Delete removes the bookmark at index.
func (s *Store) Delete(index int) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.entries) {
		return Entry{}, fmt.Errorf("%d: %w", index, ErrIndexOutOfRange)
	}

	removed := Entry{Index: index, Text: s.entries[index]}
	s.entries = append(s.entries[:index], s.entries[index+1:]...)
	return removed, s.save()
}

// List returns the bookmarks with their current indexes.
func (s *Store) List() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, 0, len(s.entries))
	for i, text := range s.entries {
		out = append(out, Entry{Index: i, Text: text})
	}
	return out
}

// Materialize tokenizes the bookmark at index as if it had been typed.
func (s *Store) Materialize(index int, maxLine int) (shell.Command, error) {
	s.mu.Lock()
	if index < 0 || index >= len(s.entries) {
		s.mu.Unlock()
		return shell.Command{}, fmt.Errorf("%d: %w", index, ErrIndexOutOfRange)
	}
	text := s.entries[index]
	s.mu.Unlock()

	return shell.Tokenize(text, maxLine)
}
