// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pdiddy/style-engine/pkg/types"
)

// maxWatchAttempts bounds optimistic transaction restarts when another
// client touches the watched keys between WATCH and EXEC.
const maxWatchAttempts = 3

// RedisStore keeps profiles and artifacts in Redis.
//
//	style:profile:<id>           JSON profile (immutable)
//	style:<scope>:profiles       list of profile IDs, oldest first
//	style:<scope>:active         ID of the active profile
//	style:artifact:<id>          JSON artifact (immutable)
//	style:<scope>:artifacts      list of artifact IDs, oldest first
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to the Redis server at addr and verifies it responds.
func NewRedisStore(addr string, db int) (*RedisStore, error) {
	if addr == "" {
		return nil, errors.New("redis store requires store.redis_addr")
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return &RedisStore{client: client}, nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func profileKey(id string) string { return "style:profile:" + id }
func artifactKey(id string) string { return "style:artifact:" + id }
func profilesKey(scope types.Scope) string { return fmt.Sprintf("style:%s:profiles", scope) }
func activeKey(scope types.Scope) string { return fmt.Sprintf("style:%s:active", scope) }
func artifactsKey(scope types.Scope) string { return fmt.Sprintf("style:%s:artifacts", scope) }

// WriteStyleProfile stores the profile record, appends its ID to the
// scope's sequence, and moves the active pointer in one MULTI/EXEC.
func (s *RedisStore) WriteStyleProfile(ctx context.Context, scope types.Scope, p types.StyleProfile) error {
	if err := checkProfile(scope, p); err != nil {
		return err
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	p.Scope = scope

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling profile: %w", err)
	}

	key := profileKey(p.ID)
	return s.watch(ctx, func(tx *redis.Tx) error {
		existing, err := s.loadProfile(ctx, tx, p.ID)
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		fresh := errors.Is(err, redis.Nil)
		if !fresh && existing.Scope != scope {
			return fmt.Errorf("style profile %s belongs to another scope", p.ID)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if fresh {
				pipe.Set(ctx, key, data, 0)
				pipe.RPush(ctx, profilesKey(scope), p.ID)
			}
			pipe.Set(ctx, activeKey(scope), p.ID, 0)
			return nil
		})
		return err
	}, key)
}

// ReadActiveStyleProfile returns the scope's active profile. Profile
// records are immutable, so a pointer move between the two reads yields
// either the old or the new profile, never a mix.
func (s *RedisStore) ReadActiveStyleProfile(ctx context.Context, scope types.Scope) (types.StyleProfile, bool, error) {
	if err := scope.Validate(); err != nil {
		return types.StyleProfile{}, false, err
	}

	id, err := s.client.Get(ctx, activeKey(scope)).Result()
	if errors.Is(err, redis.Nil) {
		return types.StyleProfile{}, false, nil
	}
	if err != nil {
		return types.StyleProfile{}, false, fmt.Errorf("reading active pointer: %w", err)
	}

	p, err := s.loadProfile(ctx, s.client, id)
	if errors.Is(err, redis.Nil) {
		return types.StyleProfile{}, false, fmt.Errorf("active profile %s is missing", id)
	}
	if err != nil {
		return types.StyleProfile{}, false, err
	}
	return p, true, nil
}

// WriteArtifact appends artifact. The active pointer and the artifact key
// are watched so the reference check and the insert form one transaction.
func (s *RedisStore) WriteArtifact(ctx context.Context, scope types.Scope, a types.GeneratedArtifact) error {
	if err := checkArtifact(scope, a); err != nil {
		return err
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	a.Scope = scope

	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshaling artifact: %w", err)
	}

	key := artifactKey(a.ID)
	return s.watch(ctx, func(tx *redis.Tx) error {
		if _, err := tx.Get(ctx, activeKey(scope)).Result(); err != nil {
			if errors.Is(err, redis.Nil) {
				return fmt.Errorf("%w: scope %q has no active profile", types.ErrDanglingReference, scope)
			}
			return fmt.Errorf("reading active pointer: %w", err)
		}

		ref, err := s.loadProfile(ctx, tx, a.StyleProfileRef.ID)
		if errors.Is(err, redis.Nil) || (err == nil && ref.Scope != scope) {
			return fmt.Errorf("%w: profile %s not stored in scope %q", types.ErrDanglingReference, a.StyleProfileRef.ID, scope)
		}
		if err != nil {
			return err
		}
		if !ref.CreatedAt.Equal(a.StyleProfileRef.CreatedAt) {
			return fmt.Errorf("%w: profile %s was created at %s, not %s", types.ErrDanglingReference,
				a.StyleProfileRef.ID, ref.CreatedAt.Format(time.RFC3339Nano), a.StyleProfileRef.CreatedAt.Format(time.RFC3339Nano))
		}

		n, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return fmt.Errorf("checking artifact id: %w", err)
		}
		if n > 0 {
			return fmt.Errorf("%w: %s", types.ErrArtifactExists, a.ID)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			pipe.RPush(ctx, artifactsKey(scope), a.ID)
			return nil
		})
		return err
	}, activeKey(scope), key)
}

// ListArtifacts returns the scope's artifacts, oldest first.
func (s *RedisStore) ListArtifacts(ctx context.Context, scope types.Scope, opts ListOptions) ([]types.GeneratedArtifact, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}

	ids, err := s.client.LRange(ctx, artifactsKey(scope), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange %s: %w", artifactsKey(scope), err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = artifactKey(id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("loading artifacts: %w", err)
	}

	arts := make([]types.GeneratedArtifact, 0, len(vals))
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("artifact %s is missing", ids[i])
		}
		var a types.GeneratedArtifact
		if err := json.Unmarshal([]byte(str), &a); err != nil {
			return nil, fmt.Errorf("decoding artifact %s: %w", ids[i], err)
		}
		if opts.Topic != "" && !strings.EqualFold(a.Topic, opts.Topic) {
			continue
		}
		arts = append(arts, a)
	}

	sort.SliceStable(arts, func(i, j int) bool {
		return arts[i].CreatedAt.Before(arts[j].CreatedAt)
	})
	return applyLimit(arts, opts.Limit), nil
}

// watch runs fn inside WATCH on keys, restarting when EXEC aborts because
// a watched key changed.
func (s *RedisStore) watch(ctx context.Context, fn func(*redis.Tx) error, keys ...string) error {
	var err error
	for attempt := 0; attempt < maxWatchAttempts; attempt++ {
		err = s.client.Watch(ctx, fn, keys...)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return fmt.Errorf("redis transaction kept conflicting: %w", err)
}

// getter is the read side shared by *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (s *RedisStore) loadProfile(ctx context.Context, c getter, id string) (types.StyleProfile, error) {
	data, err := c.Get(ctx, profileKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return types.StyleProfile{}, err
		}
		return types.StyleProfile{}, fmt.Errorf("reading profile %s: %w", id, err)
	}
	var p types.StyleProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return types.StyleProfile{}, fmt.Errorf("decoding profile %s: %w", id, err)
	}
	return p, nil
}
