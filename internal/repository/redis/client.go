package redis

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const snapshotKeyPrefix = "puissance4:game:"

// InitRedis connects to Redis. An empty address or an unreachable server
// returns a nil client: live snapshots then stay in memory only.
func InitRedis(addr, password string) *redis.Client {
	if addr == "" {
		log.Println("[REDIS] REDIS_URL not set, snapshot cache disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("[REDIS] Warning: Could not connect to Redis: %v. Snapshot cache disabled.", err)
		_ = client.Close()
		return nil
	}

	log.Println("[REDIS] Connected successfully")
	return client
}

// SnapshotCache keeps the latest serialized snapshot of each live game.
type SnapshotCache struct {
	client *redis.Client
}

func NewSnapshotCache(client *redis.Client) *SnapshotCache {
	return &SnapshotCache{client: client}
}

func snapshotKey(gameID string) string {
	return snapshotKeyPrefix + gameID
}

// Save stores a snapshot with expiration
func (r *SnapshotCache) Save(ctx context.Context, gameID string, data []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, snapshotKey(gameID), data, ttl).Err(); err != nil {
		return fmt.Errorf("cache snapshot %s: %w", gameID, err)
	}
	return nil
}

// Load returns (nil, nil) when nothing is cached for the game.
func (r *SnapshotCache) Load(ctx context.Context, gameID string) ([]byte, error) {
	data, err := r.client.Get(ctx, snapshotKey(gameID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", gameID, err)
	}
	return data, nil
}

func (r *SnapshotCache) Delete(ctx context.Context, gameID string) error {
	return r.client.Del(ctx, snapshotKey(gameID)).Err()
}

func (r *SnapshotCache) Close() error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Close()
}
