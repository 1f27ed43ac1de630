// Package store defines the document persistence contract shared by the
// template and project repositories.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

const (
	CollectionTemplates = "templates"
	CollectionProjects  = "projects"
)

var ErrNotFound = errors.New("document not found")

// Document is one stored record. Data holds the record's fields without the
// id and timestamps, which the store owns.
type Document struct {
	ID        string
	Data      json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store is a collection-oriented document database. Implementations set
// createdAt/updatedAt on every write and list documents newest-updated first.
type Store interface {
	List(ctx context.Context, collection string) ([]Document, error)
	Get(ctx context.Context, collection, id string) (*Document, error)
	Create(ctx context.Context, collection string, data json.RawMessage) (string, error)
	// Update merges the top-level fields of patch into the document.
	Update(ctx context.Context, collection, id string, patch json.RawMessage) error
	Delete(ctx context.Context, collection, id string) error
}

// Decode unmarshals the document's data into v.
func (d Document) Decode(v any) error {
	if len(d.Data) == 0 {
		return nil
	}
	return json.Unmarshal(d.Data, v)
}
