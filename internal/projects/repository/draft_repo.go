package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/msgtobala/user-story-generator/internal/projects/domain"
	"github.com/msgtobala/user-story-generator/internal/projects/selection"
)

const (
	draftKeyPrefix = "usg:draft:" // usg:draft:{user_id}:{draft_id}
	DraftTTL       = 2 * time.Hour
)

// Draft is an unsaved project selection. Catalogue is the template list the
// selection was last reconciled against.
type Draft struct {
	ID        string             `json:"id"`
	UserID    string             `json:"userId"`
	State     selection.State    `json:"state"`
	Catalogue []selection.Member `json:"catalogue"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// DraftRepository handles Redis operations for project drafts
type DraftRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewDraftRepository(client *redis.Client) *DraftRepository {
	return &DraftRepository{client: client, ttl: DraftTTL}
}

// Save writes the draft and restarts its TTL. A missing id is generated.
func (r *DraftRepository) Save(ctx context.Context, d *Draft) error {
	now := time.Now().UTC()
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now

	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	if err := r.client.Set(ctx, r.key(d.UserID, d.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

func (r *DraftRepository) Get(ctx context.Context, userID, id string) (*Draft, error) {
	data, err := r.client.Get(ctx, r.key(userID, id)).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}

	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	return &d, nil
}

func (r *DraftRepository) Delete(ctx context.Context, userID, id string) error {
	n, err := r.client.Del(ctx, r.key(userID, id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	if n == 0 {
		return domain.ErrDraftNotFound
	}
	return nil
}

func (r *DraftRepository) key(userID, id string) string {
	return draftKeyPrefix + userID + ":" + id
}
