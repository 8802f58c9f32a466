package game

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

type RedisSnapshotStore struct {
	rdclient *redis.Client
}

func NewRedisSnapshotStore(redisURL string, redisPW string, redisDB int) *RedisSnapshotStore {
	rdclient := redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: redisPW,
		DB:       redisDB,
	})
	return &RedisSnapshotStore{
		rdclient: rdclient,
	}
}

func snapshotKey(tableID string) string {
	return fmt.Sprintf("table|%s|snapshot", tableID)
}

func (r *RedisSnapshotStore) Load(tableID string) (*Snapshot, error) {
	data, err := r.rdclient.Get(context.Background(), snapshotKey(tableID)).Result()
	if err == redis.Nil {
		return nil, fmt.Errorf("Snapshot for table: %s is not found", tableID)
	} else if err != nil {
		return nil, errors.Wrapf(err, "Unable to load snapshot for table %s", tableID)
	}
	return UnmarshalSnapshot([]byte(data))
}

func (r *RedisSnapshotStore) Save(tableID string, snapshot *Snapshot) error {
	data, err := snapshot.Marshal()
	if err != nil {
		return errors.Wrapf(err, "Unable to encode snapshot for table %s", tableID)
	}
	return r.rdclient.Set(context.Background(), snapshotKey(tableID), data, 0).Err()
}

func (r *RedisSnapshotStore) Remove(tableID string) error {
	return r.rdclient.Del(context.Background(), snapshotKey(tableID)).Err()
}
