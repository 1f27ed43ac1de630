package repository

import (
	"context"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	modulesCollection = "modules"
	modulesDocument   = "data"
	moduleNameField   = "moduleName"
)

// FirestoreRepository keeps the vocabulary as the moduleName array of the
// modules/data document, extended with ArrayUnion.
type FirestoreRepository struct {
	client *firestore.Client
}

func NewFirestoreRepository(client *firestore.Client) *FirestoreRepository {
	return &FirestoreRepository{client: client}
}

func (r *FirestoreRepository) doc() *firestore.DocumentRef {
	return r.client.Collection(modulesCollection).Doc(modulesDocument)
}

func (r *FirestoreRepository) List(ctx context.Context) ([]string, error) {
	snap, err := r.doc().Get(ctx)
	if status.Code(err) == codes.NotFound {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list modules: %w", err)
	}
	return moduleNames(snap.Data()), nil
}

func (r *FirestoreRepository) Add(ctx context.Context, name string) error {
	_, err := r.doc().Set(ctx, map[string]any{
		moduleNameField: firestore.ArrayUnion(name),
		"updatedAt":     firestore.ServerTimestamp,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to add module: %w", err)
	}
	return nil
}

// moduleNames reads the sorted, de-duplicated names from the document data.
func moduleNames(data map[string]any) []string {
	raw, _ := data[moduleNameField].([]any)
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok || s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
