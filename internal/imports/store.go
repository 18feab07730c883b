package imports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/stargym/internal/extraction"
	"github.com/2beens/stargym/internal/training"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultTTL = 24 * time.Hour
	keyPrefix  = "stargym-import||"
)

var ErrImportNotFound = errors.New("staged import not found or expired")

// Store keeps staged plans in redis until they are committed, dropped or expire.
type Store struct {
	rdb   *redis.Client
	ttl   time.Duration
	now   func() time.Time
	newID func() string
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		rdb:   rdb,
		ttl:   ttl,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

func key(owner training.Owner, id string) string {
	return keyPrefix + owner.AppID + "||" + owner.UserID + "||" + id
}

// Stage stores plan under a new import id.
func (s *Store) Stage(ctx context.Context, owner training.Owner, plan training.Plan) (*extraction.StagedPlan, error) {
	staged := &extraction.StagedPlan{
		ID:        s.newID(),
		Plan:      plan,
		CreatedAt: s.now().UTC(),
	}

	data, err := json.Marshal(staged)
	if err != nil {
		return nil, fmt.Errorf("marshal staged plan: %w", err)
	}

	if err := s.rdb.Set(ctx, key(owner, staged.ID), data, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("store staged plan: %w", err)
	}

	log.Debugf("staged import [%s] for %s, expires in %s", staged.ID, owner.UserID, s.ttl)
	return staged, nil
}

func (s *Store) Get(ctx context.Context, owner training.Owner, id string) (*extraction.StagedPlan, error) {
	data, err := s.rdb.Get(ctx, key(owner, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrImportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get staged plan: %w", err)
	}

	var staged extraction.StagedPlan
	if err := json.Unmarshal(data, &staged); err != nil {
		return nil, fmt.Errorf("unmarshal staged plan %s: %w", id, err)
	}
	return &staged, nil
}

// Save overwrites an existing staged plan and keeps its expiry.
func (s *Store) Save(ctx context.Context, owner training.Owner, staged extraction.StagedPlan) error {
	data, err := json.Marshal(staged)
	if err != nil {
		return fmt.Errorf("marshal staged plan: %w", err)
	}

	updated, err := s.rdb.SetXX(ctx, key(owner, staged.ID), data, redis.KeepTTL).Result()
	if err != nil {
		return fmt.Errorf("update staged plan: %w", err)
	}
	if !updated {
		return ErrImportNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, owner training.Owner, id string) error {
	deleted, err := s.rdb.Del(ctx, key(owner, id)).Result()
	if err != nil {
		return fmt.Errorf("delete staged plan: %w", err)
	}
	if deleted == 0 {
		return ErrImportNotFound
	}
	return nil
}
