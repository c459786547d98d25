package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/triviaduel/internal/model"
	"github.com/mcoot/triviaduel/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Room session operations

func (s *Storage) SaveRoom(ctx context.Context, room *model.RoomSession) error {
	next := room.Clone()
	next.Version = room.Version + 1

	data, err := json.Marshal(next)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, roomKey(room.Code), data, s.cfg.RoomTTL).Err(); err != nil {
		return err
	}
	room.Version = next.Version
	return nil
}

func (s *Storage) GetRoom(ctx context.Context, code model.RoomCode) (*model.RoomSession, error) {
	data, err := s.client.Get(ctx, roomKey(code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrRoomNotFound
		}
		return nil, err
	}

	var room model.RoomSession
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *Storage) DeleteRoom(ctx context.Context, code model.RoomCode) error {
	return s.client.Del(ctx, roomKey(code)).Err()
}

func (s *Storage) RoomExists(ctx context.Context, code model.RoomCode) (bool, error) {
	exists, err := s.client.Exists(ctx, roomKey(code)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

// CompareAndSwapRoom performs an optimistic-lock write using WATCH.
// The transaction aborts if any other client touches the key between
// the read and the write.
func (s *Storage) CompareAndSwapRoom(ctx context.Context, room *model.RoomSession) error {
	key := roomKey(room.Code)

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrRoomNotFound
			}
			return err
		}

		var stored model.RoomSession
		if err := json.Unmarshal(data, &stored); err != nil {
			return err
		}
		if stored.Version != room.Version {
			return model.ErrVersionConflict
		}

		next := room.Clone()
		next.Version = room.Version + 1
		payload, err := json.Marshal(next)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, s.cfg.RoomTTL)
			return nil
		})
		return err
	}, key)

	if err != nil {
		if errors.Is(err, redis.TxFailedErr) {
			return model.ErrVersionConflict
		}
		return err
	}

	room.Version++
	return nil
}

// Connection index operations

func (s *Storage) SetConnectionRoom(ctx context.Context, id model.ConnectionID, code model.RoomCode) error {
	return s.client.Set(ctx, connectionIndexKey(id), string(code), s.cfg.ConnectionTTL).Err()
}

func (s *Storage) GetConnectionRoom(ctx context.Context, id model.ConnectionID) (model.RoomCode, error) {
	code, err := s.client.Get(ctx, connectionIndexKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", model.ErrConnectionNotIndexed
		}
		return "", err
	}
	return model.RoomCode(code), nil
}

func (s *Storage) DeleteConnectionRoom(ctx context.Context, id model.ConnectionID) error {
	return s.client.Del(ctx, connectionIndexKey(id)).Err()
}
