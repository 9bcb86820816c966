package store

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"portfolio-backend/model"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RedisContactStore implements ContactStore on Redis. Each message is a JSON
// document under contact:<id>; contacts:by_date orders ids by submission
// time and contacts:status:<status> sets track the status partition.
type RedisContactStore struct {
	rdb *redis.Client
}

// NewRedisContactStore creates a contact store backed by the given client
func NewRedisContactStore(rdb *redis.Client) *RedisContactStore {
	return &RedisContactStore{rdb: rdb}
}

func (s *RedisContactStore) Create(ctx context.Context, msg *model.ContactMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.Date.IsZero() {
		msg.Date = time.Now()
	}
	if msg.Status == "" {
		msg.Status = model.StatusUnread
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, contactKey(msg.ID), data, 0)
	pipe.ZAdd(ctx, contactIndexKey, &redis.Z{
		Score:  float64(msg.Date.UnixMilli()),
		Member: msg.ID,
	})
	pipe.SAdd(ctx, statusKey(msg.Status), msg.ID)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisContactStore) GetByID(ctx context.Context, id string) (model.ContactMessage, error) {
	var msg model.ContactMessage

	data, err := s.rdb.Get(ctx, contactKey(id)).Bytes()
	if err == redis.Nil {
		return msg, ErrNotFound
	} else if err != nil {
		return msg, err
	}

	err = json.Unmarshal(data, &msg)
	return msg, err
}

func (s *RedisContactStore) List(ctx context.Context, status string, page, limit int) ([]model.ContactMessage, int64, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}

	// Newest first
	ids, err := s.rdb.ZRevRange(ctx, contactIndexKey, 0, -1).Result()
	if err != nil {
		return nil, 0, 0, err
	}

	matched := make([]model.ContactMessage, 0, len(ids))
	for _, id := range ids {
		msg, err := s.GetByID(ctx, id)
		if err == ErrNotFound {
			// Stale index entry
			continue
		} else if err != nil {
			return nil, 0, 0, err
		}
		if status != "" && msg.Status != status {
			continue
		}
		matched = append(matched, msg)
	}

	total := int64(len(matched))

	unread, err := s.rdb.SCard(ctx, statusKey(model.StatusUnread)).Result()
	if err != nil {
		return nil, 0, 0, err
	}

	// Paginate in memory
	start := (page - 1) * limit
	if start >= len(matched) {
		return []model.ContactMessage{}, total, unread, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}

	return matched[start:end], total, unread, nil
}

func (s *RedisContactStore) UpdateStatus(ctx context.Context, id, status string) (model.ContactMessage, error) {
	msg, err := s.GetByID(ctx, id)
	if err != nil {
		return msg, err
	}

	oldStatus := msg.Status
	msg.Status = status

	data, err := json.Marshal(msg)
	if err != nil {
		return msg, err
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, contactKey(id), data, 0)
	if oldStatus != status {
		pipe.SMove(ctx, statusKey(oldStatus), statusKey(status), id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return msg, err
	}

	log.Info().Str("id", id).Str("from", oldStatus).Str("to", status).Msg("Contact status updated")
	return msg, nil
}

func (s *RedisContactStore) Delete(ctx context.Context, id string) error {
	msg, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, contactKey(id))
	pipe.ZRem(ctx, contactIndexKey, id)
	pipe.SRem(ctx, statusKey(msg.Status), id)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisContactStore) Stats(ctx context.Context) (model.ContactStats, error) {
	stats := model.ContactStats{ByStatus: make(map[string]int64)}

	total, err := s.rdb.ZCard(ctx, contactIndexKey).Result()
	if err != nil {
		return stats, err
	}
	stats.Total = total

	// Messages whose date falls within the current server-local calendar day
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today, err := s.rdb.ZCount(ctx, contactIndexKey,
		strconv.FormatInt(midnight.UnixMilli(), 10), "+inf").Result()
	if err != nil {
		return stats, err
	}
	stats.Today = today

	for _, status := range model.ValidStatuses {
		count, err := s.rdb.SCard(ctx, statusKey(status)).Result()
		if err != nil {
			return stats, err
		}
		if count > 0 {
			stats.ByStatus[status] = count
		}
	}

	return stats, nil
}
