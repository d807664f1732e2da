package memory

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// RoomCodeCache memoizes room-code → session-id lookups so the join path
// does not hit the sessions table on every attempt against a hot room.
// Entries expire on their own; session deletion also evicts explicitly.
type RoomCodeCache struct {
	cache *cache.Cache
}

func NewRoomCodeCache() *RoomCodeCache {
	// Rooms rarely outlive an afternoon; purge sweep every 10 minutes.
	c := cache.New(4*time.Hour, 10*time.Minute)
	return &RoomCodeCache{
		cache: c,
	}
}

func (r *RoomCodeCache) Save(roomCode string, sessionId uuid.UUID) {
	r.cache.Set(normalize(roomCode), sessionId, cache.DefaultExpiration)
}

func (r *RoomCodeCache) Get(roomCode string) (uuid.UUID, bool) {
	if x, found := r.cache.Get(normalize(roomCode)); found {
		return x.(uuid.UUID), true
	}
	return uuid.Nil, false
}

func (r *RoomCodeCache) Delete(roomCode string) {
	r.cache.Delete(normalize(roomCode))
}

func normalize(roomCode string) string {
	return strings.ToUpper(strings.TrimSpace(roomCode))
}
