// Package store persists processed documents.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgallion1/docintel/internal/doctree"
)

// ErrNotFound is returned when a document or hash is not stored.
var ErrNotFound = errors.New("not found")

// Store persists whole documents. Save replaces any existing document with
// the same id.
type Store interface {
	Save(ctx context.Context, doc *doctree.Document) error
	Get(ctx context.Context, id string) (*doctree.Document, error)
	// List returns summaries, newest first. limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]doctree.Summary, error)
	Delete(ctx context.Context, id string) error
	// FindByHash returns the id of the document with the given content hash.
	FindByHash(ctx context.Context, hash string) (string, error)
	Close() error
}

// Config selects a backend.
type Config struct {
	Backend      string // sqlite or pathstore
	DBPath       string
	PathstoreURL string
	PathstoreKey string
}

// New opens the configured backend.
func New(cfg Config) (Store, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "sqlite":
		return OpenSQLite(cfg.DBPath)
	case "pathstore":
		return NewPathStore(cfg.PathstoreURL, cfg.PathstoreKey), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
