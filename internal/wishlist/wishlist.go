// Package wishlist persists buyers' wishlists as JSON arrays in Redis, one
// key per owner under a fixed namespace.
package wishlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"giftyy-backend/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const DefaultNamespace = "giftyy_wishlist"

// maxTxRetries bounds optimistic retries when concurrent writers touch the
// same wishlist
const maxTxRetries = 5

var ErrConflict = errors.New("wishlist changed concurrently")

type Store struct {
	client    *redis.Client
	namespace string
	logger    *zap.Logger
	now       func() time.Time
}

func NewStore(client *redis.Client, namespace string, logger *zap.Logger) *Store {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		client:    client,
		namespace: namespace,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Store) key(owner string) string {
	return fmt.Sprintf("%s:%s", s.namespace, owner)
}

// List returns the owner's wishlist. Storage failures degrade to an empty
// list.
func (s *Store) List(ctx context.Context, owner string) []models.WishlistItem {
	items, err := s.load(ctx, s.client, owner)
	if err != nil {
		s.logger.Warn("wishlist read failed", zap.String("owner", owner), zap.Error(err))
		return []models.WishlistItem{}
	}
	return items
}

func (s *Store) Contains(ctx context.Context, owner, productID string) (bool, error) {
	items, err := s.load(ctx, s.client, owner)
	if err != nil {
		return false, err
	}
	return indexOf(items, productID) >= 0, nil
}

// Toggle adds productID when absent and removes it when present. It reports
// whether the product is in the wishlist afterwards.
func (s *Store) Toggle(ctx context.Context, owner, productID string) (bool, error) {
	var added bool
	err := s.update(ctx, owner, func(items []models.WishlistItem) []models.WishlistItem {
		if i := indexOf(items, productID); i >= 0 {
			added = false
			return append(items[:i], items[i+1:]...)
		}
		added = true
		return append(items, models.WishlistItem{ProductID: productID, AddedAt: s.now().UTC()})
	})
	return added, err
}

func (s *Store) Remove(ctx context.Context, owner, productID string) error {
	return s.update(ctx, owner, func(items []models.WishlistItem) []models.WishlistItem {
		if i := indexOf(items, productID); i >= 0 {
			return append(items[:i], items[i+1:]...)
		}
		return items
	})
}

func (s *Store) Clear(ctx context.Context, owner string) error {
	if err := s.client.Del(ctx, s.key(owner)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

// update runs a read-modify-write of the owner's wishlist inside a WATCH
// transaction, retrying when another writer got there first.
func (s *Store) update(ctx context.Context, owner string, mutate func([]models.WishlistItem) []models.WishlistItem) error {
	key := s.key(owner)

	txf := func(tx *redis.Tx) error {
		items, err := s.load(ctx, tx, owner)
		if err != nil {
			return err
		}
		data, err := json.Marshal(mutate(items))
		if err != nil {
			return fmt.Errorf("marshal wishlist failed: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return fmt.Errorf("wishlist update failed: %w", err)
	}
	return ErrConflict
}

func (s *Store) load(ctx context.Context, c redis.Cmdable, owner string) ([]models.WishlistItem, error) {
	data, err := c.Get(ctx, s.key(owner)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []models.WishlistItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var items []models.WishlistItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal wishlist failed: %w", err)
	}
	if items == nil {
		items = []models.WishlistItem{}
	}
	return items, nil
}

func indexOf(items []models.WishlistItem, productID string) int {
	for i, item := range items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}
