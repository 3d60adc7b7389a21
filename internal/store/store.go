// Package store persists the admin data behind the content tools: users
// and their generation counters, prompt templates, and the username
// blacklist.
//
// Three implementations share the AdminStore interface. MemoryStore backs
// the local web server and tests. DynamoStore uses a single-table design
// where every record lives under the ADMIN partition and sort keys
// distinguish record types (USER#, TEMPLATE#, BLACKLIST#). DataAPIStore
// talks to an Aurora MySQL cluster through the RDS Data API using the
// users / templates / blacklist schema.
package store

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/fpang/social-content-toolkit/internal/tools"
)

// User status values.
const (
	StatusActive = "Active"
	StatusBanned = "Banned"
)

var (
	// ErrNotFound is returned when a record to delete does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmptyUsername is returned for blank usernames.
	ErrEmptyUsername = errors.New("username is required")

	// ErrIncompleteTemplate is returned when a template lacks a name, prompt or category.
	ErrIncompleteTemplate = errors.New("template name, prompt and category are required")
)

// User is a person who has generated content.
type User struct {
	ID                string `json:"id" dynamodbav:"id"`
	Name              string `json:"name" dynamodbav:"name"`
	CaptionsGenerated int64  `json:"captionsGenerated" dynamodbav:"captionsGenerated"`
	CommentsGenerated int64  `json:"commentsGenerated" dynamodbav:"commentsGenerated"`
	Status            string `json:"status" dynamodbav:"status"`
}

// Template is a reusable prompt offered to users.
type Template struct {
	ID       string `json:"id" dynamodbav:"id"`
	Name     string `json:"name" dynamodbav:"name"`
	Prompt   string `json:"prompt" dynamodbav:"prompt"`
	Category string `json:"category" dynamodbav:"category"`
}

// AdminStore is implemented by MemoryStore, DynamoStore and DataAPIStore.
// Each method is safe for concurrent use.
type AdminStore interface {
	ListUsers(ctx context.Context) ([]User, error)

	ListTemplates(ctx context.Context) ([]Template, error)

	// PutTemplate creates or replaces a template, assigning an ID when empty.
	PutTemplate(ctx context.Context, t Template) (Template, error)

	// DeleteTemplate returns ErrNotFound when no template has the ID.
	DeleteTemplate(ctx context.Context, id string) error

	ListBlacklist(ctx context.Context) ([]string, error)

	// AddToBlacklist is idempotent and marks an existing user Banned.
	AddToBlacklist(ctx context.Context, username string) error

	// RemoveFromBlacklist marks an existing user Active again.
	RemoveFromBlacklist(ctx context.Context, username string) error

	IsBlacklisted(ctx context.Context, username string) (bool, error)

	// RecordGeneration creates the user if needed and adds n to the
	// caption or comment counter for those tools.
	RecordGeneration(ctx context.Context, username string, tool tools.ID, n int) error
}

// NewTemplateID returns a fresh template ID.
func NewTemplateID() string {
	return "t-" + uuid.NewString()
}

func newUserID() string {
	return "u-" + uuid.NewString()
}

// normalizeTemplate trims fields, validates them and assigns an ID.
func normalizeTemplate(t Template) (Template, error) {
	t.ID = strings.TrimSpace(t.ID)
	t.Name = strings.TrimSpace(t.Name)
	t.Prompt = strings.TrimSpace(t.Prompt)
	t.Category = strings.TrimSpace(t.Category)
	if t.Name == "" || t.Prompt == "" || t.Category == "" {
		return t, ErrIncompleteTemplate
	}
	if t.ID == "" {
		t.ID = NewTemplateID()
	}
	return t, nil
}

func normalizeUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", ErrEmptyUsername
	}
	return username, nil
}

// counterDeltas maps a tool to increments of the caption and comment counters.
func counterDeltas(tool tools.ID, n int) (captions, comments int64) {
	switch tool {
	case tools.Caption:
		return int64(n), 0
	case tools.Comment:
		return 0, int64(n)
	}
	return 0, 0
}
