// Package firestore keeps documents in Cloud Firestore, the document
// database behind the Firebase project.
package firestore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/msgtobala/user-story-generator/internal/store"
)

const (
	fieldCreatedAt = "createdAt"
	fieldUpdatedAt = "updatedAt"
)

type Store struct {
	client *firestore.Client
}

func New(client *firestore.Client) *Store {
	return &Store{client: client}
}

func (s *Store) List(ctx context.Context, collection string) ([]store.Document, error) {
	snaps, err := s.client.Collection(collection).
		OrderBy(fieldUpdatedAt, firestore.Desc).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}

	out := make([]store.Document, 0, len(snaps))
	for _, snap := range snaps {
		doc, err := fromFields(snap.Ref.ID, snap.Data())
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (*store.Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}

	doc, err := fromFields(snap.Ref.ID, snap.Data())
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *Store) Create(ctx context.Context, collection string, data json.RawMessage) (string, error) {
	fields, err := toFields(data)
	if err != nil {
		return "", err
	}
	fields[fieldCreatedAt] = firestore.ServerTimestamp
	fields[fieldUpdatedAt] = firestore.ServerTimestamp

	ref, _, err := s.client.Collection(collection).Add(ctx, fields)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", collection, err)
	}
	return ref.ID, nil
}

func (s *Store) Update(ctx context.Context, collection, id string, patch json.RawMessage) error {
	updates, err := toUpdates(patch)
	if err != nil {
		return err
	}

	_, err = s.client.Collection(collection).Doc(id).Update(ctx, updates)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return store.ErrNotFound
		}
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	_, err := s.client.Collection(collection).Doc(id).Delete(ctx, firestore.Exists)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return store.ErrNotFound
		}
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func toFields(data json.RawMessage) (map[string]any, error) {
	fields := make(map[string]any)
	if len(data) == 0 {
		return fields, nil
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("document must be a JSON object: %w", err)
	}
	delete(fields, fieldCreatedAt)
	delete(fields, fieldUpdatedAt)
	return fields, nil
}

// toUpdates turns a patch into single-segment field updates so keys are
// never split on dots.
func toUpdates(patch json.RawMessage) ([]firestore.Update, error) {
	fields, err := toFields(patch)
	if err != nil {
		return nil, err
	}

	updates := make([]firestore.Update, 0, len(fields)+1)
	for k, v := range fields {
		updates = append(updates, firestore.Update{FieldPath: firestore.FieldPath{k}, Value: v})
	}
	updates = append(updates, firestore.Update{FieldPath: firestore.FieldPath{fieldUpdatedAt}, Value: firestore.ServerTimestamp})
	return updates, nil
}

func fromFields(id string, fields map[string]any) (store.Document, error) {
	doc := store.Document{ID: id}

	if t, ok := fields[fieldCreatedAt].(time.Time); ok {
		doc.CreatedAt = t
	}
	if t, ok := fields[fieldUpdatedAt].(time.Time); ok {
		doc.UpdatedAt = t
	}

	rest := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == fieldCreatedAt || k == fieldUpdatedAt {
			continue
		}
		rest[k] = v
	}

	data, err := json.Marshal(rest)
	if err != nil {
		return store.Document{}, fmt.Errorf("marshal document %s: %w", id, err)
	}
	doc.Data = data
	return doc, nil
}

var _ store.Store = (*Store)(nil)
