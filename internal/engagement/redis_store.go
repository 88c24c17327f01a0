package engagement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const spotsKey = "engagement:spots"

// RedisStore persists engagement state in Redis. The spots counter is a
// single shared key; popup state is per visitor.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) GetSpots(ctx context.Context) (SpotsState, error) {
	var state SpotsState
	if err := r.get(ctx, spotsKey, &state); err != nil {
		return SpotsState{}, err
	}
	return state, nil
}

func (r *RedisStore) SaveSpots(ctx context.Context, state SpotsState) error {
	return r.set(ctx, spotsKey, state)
}

func (r *RedisStore) GetPopup(ctx context.Context, visitorID string) (PopupState, error) {
	var state PopupState
	if err := r.get(ctx, popupKey(visitorID), &state); err != nil {
		return PopupState{}, err
	}
	return state, nil
}

func (r *RedisStore) SavePopup(ctx context.Context, visitorID string, state PopupState) error {
	return r.set(ctx, popupKey(visitorID), state)
}

func (r *RedisStore) get(ctx context.Context, key string, dest any) error {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrStateNotFound
	}
	if err != nil {
		return fmt.Errorf("redis get failed: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("unmarshal state failed: %w", err)
	}
	return nil
}

func (r *RedisStore) set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal state failed: %w", err)
	}
	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func popupKey(visitorID string) string {
	return fmt.Sprintf("engagement:popup:%s", visitorID)
}
