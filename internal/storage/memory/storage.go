package memory

import (
	"context"
	"sync"

	"github.com/mcoot/triviaduel/internal/model"
	"github.com/mcoot/triviaduel/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	rooms       map[model.RoomCode]*model.RoomSession
	connections map[model.ConnectionID]model.RoomCode
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		rooms:       make(map[model.RoomCode]*model.RoomSession),
		connections: make(map[model.ConnectionID]model.RoomCode),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Room session operations

func (s *Storage) SaveRoom(ctx context.Context, room *model.RoomSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := room.Clone()
	stored.Version = room.Version + 1
	s.rooms[room.Code] = stored
	room.Version = stored.Version
	return nil
}

func (s *Storage) GetRoom(ctx context.Context, code model.RoomCode) (*model.RoomSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[code]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	return room.Clone(), nil
}

func (s *Storage) DeleteRoom(ctx context.Context, code model.RoomCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, code)
	return nil
}

func (s *Storage) RoomExists(ctx context.Context, code model.RoomCode) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rooms[code]
	return ok, nil
}

func (s *Storage) CompareAndSwapRoom(ctx context.Context, room *model.RoomSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.rooms[room.Code]
	if !ok {
		return model.ErrRoomNotFound
	}
	if stored.Version != room.Version {
		return model.ErrVersionConflict
	}

	next := room.Clone()
	next.Version = room.Version + 1
	s.rooms[room.Code] = next
	room.Version = next.Version
	return nil
}

// Connection index operations

func (s *Storage) SetConnectionRoom(ctx context.Context, id model.ConnectionID, code model.RoomCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connections[id] = code
	return nil
}

func (s *Storage) GetConnectionRoom(ctx context.Context, id model.ConnectionID) (model.RoomCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	code, ok := s.connections[id]
	if !ok {
		return "", model.ErrConnectionNotIndexed
	}
	return code, nil
}

func (s *Storage) DeleteConnectionRoom(ctx context.Context, id model.ConnectionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.connections, id)
	return nil
}
