package store

import (
	"context"
	"sort"
	"sync"

	"github.com/fpang/social-content-toolkit/internal/assets"
	"github.com/fpang/social-content-toolkit/internal/tools"
)

// MemoryStore is an in-process AdminStore. Data is lost on restart.
type MemoryStore struct {
	mu        sync.RWMutex
	users     map[string]*User // by name
	templates []Template
	blacklist map[string]bool
}

var _ AdminStore = (*MemoryStore)(nil)

// NewMemoryStore returns a MemoryStore seeded with the embedded default templates.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		users:     make(map[string]*User),
		blacklist: make(map[string]bool),
	}
	for _, t := range assets.SeedTemplates() {
		s.templates = append(s.templates, Template{ID: t.ID, Name: t.Name, Prompt: t.Prompt, Category: t.Category})
	}
	return s
}

func (s *MemoryStore) ListUsers(ctx context.Context) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}

func (s *MemoryStore) ListTemplates(ctx context.Context) ([]Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Template(nil), s.templates...), nil
}

func (s *MemoryStore) PutTemplate(ctx context.Context, t Template) (Template, error) {
	t, err := normalizeTemplate(t)
	if err != nil {
		return t, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.templates {
		if s.templates[i].ID == t.ID {
			s.templates[i] = t
			return t, nil
		}
	}
	s.templates = append(s.templates, t)
	return t, nil
}

func (s *MemoryStore) DeleteTemplate(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.templates {
		if s.templates[i].ID == id {
			s.templates = append(s.templates[:i], s.templates[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) ListBlacklist(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.blacklist))
	for name := range s.blacklist {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *MemoryStore) AddToBlacklist(ctx context.Context, username string) error {
	username, err := normalizeUsername(username)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blacklist[username] = true
	if u, ok := s.users[username]; ok {
		u.Status = StatusBanned
	}
	return nil
}

func (s *MemoryStore) RemoveFromBlacklist(ctx context.Context, username string) error {
	username, err := normalizeUsername(username)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blacklist, username)
	if u, ok := s.users[username]; ok {
		u.Status = StatusActive
	}
	return nil
}

func (s *MemoryStore) IsBlacklisted(ctx context.Context, username string) (bool, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.blacklist[username], nil
}

func (s *MemoryStore) RecordGeneration(ctx context.Context, username string, tool tools.ID, n int) error {
	username, err := normalizeUsername(username)
	if err != nil {
		return err
	}
	captions, comments := counterDeltas(tool, n)

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		u = &User{ID: newUserID(), Name: username, Status: StatusActive}
		if s.blacklist[username] {
			u.Status = StatusBanned
		}
		s.users[username] = u
	}
	u.CaptionsGenerated += captions
	u.CommentsGenerated += comments
	return nil
}
