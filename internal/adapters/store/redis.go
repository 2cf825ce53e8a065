// Package store provides core.Store implementations: Redis for production
// and an in-memory fake for tests.
package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-redis/redis/v7"

	"github.com/solivane/vcmeet/internal/core"
	"github.com/solivane/vcmeet/internal/domain"
)

const usersSuffix = ":users"

// redisStore keeps the room record as a JSON string at <prefix>room:<id>
// and the members in a hash at <prefix>room:<id>:users keyed by user_id.
// The split gives per-member reads/writes without full-room round trips.
type redisStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedis(rdb *redis.Client, prefix string) core.Store {
	return &redisStore{rdb: rdb, prefix: prefix}
}

func (s *redisStore) roomKey(roomID string) string {
	return s.prefix + "room:" + roomID
}

func (s *redisStore) usersKey(roomID string) string {
	return s.roomKey(roomID) + usersSuffix
}

func (s *redisStore) RoomExists(roomID string) (bool, error) {
	n, err := s.rdb.Exists(s.roomKey(roomID)).Result()
	if err != nil {
		return false, fmt.Errorf("room exists %s: %w", roomID, err)
	}
	return n == 1, nil
}

func (s *redisStore) GetRoom(roomID string) (*domain.Room, error) {
	data, err := s.rdb.Get(s.roomKey(roomID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get room %s: %w", roomID, err)
	}
	var room domain.Room
	if err := json.Unmarshal([]byte(data), &room); err != nil {
		return nil, fmt.Errorf("decode room %s: %w", roomID, err)
	}
	return &room, nil
}

func (s *redisStore) SetRoom(room *domain.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("encode room %s: %w", room.RoomID, err)
	}
	if err := s.rdb.Set(s.roomKey(room.RoomID), string(data), 0).Err(); err != nil {
		return fmt.Errorf("set room %s: %w", room.RoomID, err)
	}
	return nil
}

func (s *redisStore) DeleteRoom(roomID string) error {
	if err := s.rdb.Del(s.roomKey(roomID), s.usersKey(roomID)).Err(); err != nil {
		return fmt.Errorf("delete room %s: %w", roomID, err)
	}
	return nil
}

func (s *redisStore) GetMember(roomID, userID string) (*domain.Member, error) {
	data, err := s.rdb.HGet(s.usersKey(roomID), userID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get member %s/%s: %w", roomID, userID, err)
	}
	var m domain.Member
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		return nil, fmt.Errorf("decode member %s/%s: %w", roomID, userID, err)
	}
	return &m, nil
}

func (s *redisStore) SetMember(roomID string, m *domain.Member) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode member %s/%s: %w", roomID, m.UserID, err)
	}
	if err := s.rdb.HSet(s.usersKey(roomID), m.UserID, string(data)).Err(); err != nil {
		return fmt.Errorf("set member %s/%s: %w", roomID, m.UserID, err)
	}
	return nil
}

// SetMembers writes all records through one pipeline. This bounds the round
// trips of a bulk mutation; it is not a cross-key transaction.
func (s *redisStore) SetMembers(roomID string, members []*domain.Member) error {
	pipe := s.rdb.Pipeline()
	for _, m := range members {
		data, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("encode member %s/%s: %w", roomID, m.UserID, err)
		}
		pipe.HSet(s.usersKey(roomID), m.UserID, string(data))
	}
	if _, err := pipe.Exec(); err != nil {
		return fmt.Errorf("set members %s: %w", roomID, err)
	}
	return nil
}

func (s *redisStore) RemoveMember(roomID, userID string) error {
	if err := s.rdb.HDel(s.usersKey(roomID), userID).Err(); err != nil {
		return fmt.Errorf("remove member %s/%s: %w", roomID, userID, err)
	}
	return nil
}

func (s *redisStore) ListMembers(roomID string) ([]*domain.Member, error) {
	data, err := s.rdb.HGetAll(s.usersKey(roomID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list members %s: %w", roomID, err)
	}
	members := make([]*domain.Member, 0, len(data))
	for userID, raw := range data {
		var m domain.Member
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			return nil, fmt.Errorf("decode member %s/%s: %w", roomID, userID, err)
		}
		members = append(members, &m)
	}
	// Hash field order is not contractual; restore insertion order.
	domain.SortMembers(members)
	return members, nil
}

func (s *redisStore) MemberCount(roomID string) (int, error) {
	n, err := s.rdb.HLen(s.usersKey(roomID)).Result()
	if err != nil {
		return 0, fmt.Errorf("member count %s: %w", roomID, err)
	}
	return int(n), nil
}

func (s *redisStore) ListRoomIDs() ([]string, error) {
	keys, err := s.rdb.Keys(s.prefix + "room:*").Result()
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		if strings.HasSuffix(key, usersSuffix) {
			continue
		}
		ids = append(ids, strings.TrimPrefix(key, s.prefix+"room:"))
	}
	return ids, nil
}
