package store

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"portfolio-backend/model"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// RedisVisitStore implements VisitStore on Redis. Each visit is an immutable
// JSON document under visit:<id>; visits:by_time orders ids by timestamp so
// every windowed query is a score-range scan over the index.
type RedisVisitStore struct {
	rdb *redis.Client
}

// NewRedisVisitStore creates a visit store backed by the given client
func NewRedisVisitStore(rdb *redis.Client) *RedisVisitStore {
	return &RedisVisitStore{rdb: rdb}
}

func (s *RedisVisitStore) Create(ctx context.Context, visit *model.Visit) error {
	if visit.ID == "" {
		visit.ID = uuid.New().String()
	}
	if visit.Timestamp.IsZero() {
		visit.Timestamp = time.Now()
	}
	if visit.Device == "" {
		visit.Device = model.DeviceUnknown
	}

	data, err := json.Marshal(visit)
	if err != nil {
		return err
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, visitKey(visit.ID), data, 0)
	pipe.ZAdd(ctx, visitIndexKey, &redis.Z{
		Score:  float64(visit.Timestamp.UnixMilli()),
		Member: visit.ID,
	})
	_, err = pipe.Exec(ctx)
	return err
}

func scoreMin(t time.Time) string {
	if t.IsZero() {
		return "-inf"
	}
	return strconv.FormatInt(t.UnixMilli(), 10)
}

func scoreMax(t time.Time) string {
	if t.IsZero() {
		return "+inf"
	}
	return strconv.FormatInt(t.UnixMilli(), 10)
}

// loadRange fetches all visits in [start, end], oldest first. Zero bounds are
// open-ended. Stale index entries (documents deleted mid-scan) are skipped.
func (s *RedisVisitStore) loadRange(ctx context.Context, start, end time.Time) ([]model.Visit, error) {
	ids, err := s.rdb.ZRangeByScore(ctx, visitIndexKey, &redis.ZRangeBy{
		Min: scoreMin(start),
		Max: scoreMax(end),
	}).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []model.Visit{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = visitKey(id)
	}

	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	visits := make([]model.Visit, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var visit model.Visit
		if err := json.Unmarshal([]byte(raw), &visit); err != nil {
			continue
		}
		visits = append(visits, visit)
	}
	return visits, nil
}

func (s *RedisVisitStore) List(ctx context.Context, filter VisitFilter) ([]model.Visit, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}

	visits, err := s.loadRange(ctx, filter.Start, filter.End)
	if err != nil {
		return nil, 0, err
	}

	matched := make([]model.Visit, 0, len(visits))
	for _, v := range visits {
		if filter.PageVisited != "" && v.PageVisited != filter.PageVisited {
			continue
		}
		if filter.Country != "" && (v.Country == nil || *v.Country != filter.Country) {
			continue
		}
		matched = append(matched, v)
	}

	// Newest first
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.Limit
	if start >= len(matched) {
		return []model.Visit{}, total, nil
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (s *RedisVisitStore) TotalVisits(ctx context.Context, start, end time.Time) (int64, error) {
	return s.rdb.ZCount(ctx, visitIndexKey, scoreMin(start), scoreMax(end)).Result()
}

func (s *RedisVisitStore) UniqueVisitors(ctx context.Context, start, end time.Time) (int64, error) {
	visits, err := s.loadRange(ctx, start, end)
	if err != nil {
		return 0, err
	}
	ips := make(map[string]struct{}, len(visits))
	for _, v := range visits {
		ips[v.IPAddress] = struct{}{}
	}
	return int64(len(ips)), nil
}

func (s *RedisVisitStore) UniqueSessions(ctx context.Context, start, end time.Time) (int64, error) {
	visits, err := s.loadRange(ctx, start, end)
	if err != nil {
		return 0, err
	}
	sessions := make(map[string]struct{}, len(visits))
	for _, v := range visits {
		sessions[v.SessionID] = struct{}{}
	}
	return int64(len(sessions)), nil
}

func (s *RedisVisitStore) BounceSessions(ctx context.Context, start, end time.Time) (int64, error) {
	visits, err := s.loadRange(ctx, start, end)
	if err != nil {
		return 0, err
	}
	pageCounts := make(map[string]int64, len(visits))
	for _, v := range visits {
		pageCounts[v.SessionID]++
	}
	var bounces int64
	for _, n := range pageCounts {
		if n == 1 {
			bounces++
		}
	}
	return bounces, nil
}

func (s *RedisVisitStore) PopularPages(ctx context.Context, limit int, start, end time.Time) ([]model.PageStats, error) {
	visits, err := s.loadRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	type pageAgg struct {
		visits int64
		ips    map[string]struct{}
	}
	pages := make(map[string]*pageAgg)
	for _, v := range visits {
		agg, ok := pages[v.PageVisited]
		if !ok {
			agg = &pageAgg{ips: make(map[string]struct{})}
			pages[v.PageVisited] = agg
		}
		agg.visits++
		agg.ips[v.IPAddress] = struct{}{}
	}

	stats := make([]model.PageStats, 0, len(pages))
	for page, agg := range pages {
		stats = append(stats, model.PageStats{
			Page:           page,
			Visits:         agg.visits,
			UniqueVisitors: int64(len(agg.ips)),
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Visits != stats[j].Visits {
			return stats[i].Visits > stats[j].Visits
		}
		return stats[i].Page < stats[j].Page
	})

	if limit > 0 && len(stats) > limit {
		stats = stats[:limit]
	}
	return stats, nil
}

func (s *RedisVisitStore) VisitsByCountry(ctx context.Context, limit int) ([]model.CountryStats, error) {
	visits, err := s.loadRange(ctx, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}

	countries := make(map[string]int64)
	for _, v := range visits {
		if v.Country == nil {
			continue
		}
		countries[*v.Country]++
	}

	stats := make([]model.CountryStats, 0, len(countries))
	for country, n := range countries {
		stats = append(stats, model.CountryStats{Country: country, Visits: n})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Visits != stats[j].Visits {
			return stats[i].Visits > stats[j].Visits
		}
		return stats[i].Country < stats[j].Country
	})

	if limit > 0 && len(stats) > limit {
		stats = stats[:limit]
	}
	return stats, nil
}

func (s *RedisVisitStore) VisitsByDevice(ctx context.Context) ([]model.DeviceStats, error) {
	visits, err := s.loadRange(ctx, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}

	devices := make(map[string]int64)
	for _, v := range visits {
		devices[v.Device]++
	}

	stats := make([]model.DeviceStats, 0, len(devices))
	for device, n := range devices {
		stats = append(stats, model.DeviceStats{Device: device, Visits: n})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Visits != stats[j].Visits {
			return stats[i].Visits > stats[j].Visits
		}
		return stats[i].Device < stats[j].Device
	})
	return stats, nil
}

func (s *RedisVisitStore) VisitsByBrowser(ctx context.Context) ([]model.BrowserStats, error) {
	visits, err := s.loadRange(ctx, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}

	browsers := make(map[string]int64)
	for _, v := range visits {
		browsers[v.Browser.Name]++
	}

	stats := make([]model.BrowserStats, 0, len(browsers))
	for browser, n := range browsers {
		stats = append(stats, model.BrowserStats{Browser: browser, Visits: n})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Visits != stats[j].Visits {
			return stats[i].Visits > stats[j].Visits
		}
		return stats[i].Browser < stats[j].Browser
	})
	return stats, nil
}

func (s *RedisVisitStore) DailyVisits(ctx context.Context, days int) ([]model.DailyStats, error) {
	if days < 1 {
		days = 7
	}
	start := time.Now().AddDate(0, 0, -days)

	visits, err := s.loadRange(ctx, start, time.Time{})
	if err != nil {
		return nil, err
	}

	type dayAgg struct {
		visits int64
		ips    map[string]struct{}
	}
	byDay := make(map[string]*dayAgg)
	for _, v := range visits {
		date := v.Timestamp.Format("2006-01-02")
		agg, ok := byDay[date]
		if !ok {
			agg = &dayAgg{ips: make(map[string]struct{})}
			byDay[date] = agg
		}
		agg.visits++
		agg.ips[v.IPAddress] = struct{}{}
	}

	stats := make([]model.DailyStats, 0, len(byDay))
	for date, agg := range byDay {
		stats = append(stats, model.DailyStats{
			Date:           date,
			Visits:         agg.visits,
			UniqueVisitors: int64(len(agg.ips)),
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Date < stats[j].Date })
	return stats, nil
}

func (s *RedisVisitStore) ActiveVisitors(ctx context.Context, since time.Time) ([]model.ActiveVisitor, error) {
	visits, err := s.loadRange(ctx, since, time.Time{})
	if err != nil {
		return nil, err
	}

	sessions := make(map[string]*model.ActiveVisitor)
	for _, v := range visits {
		active, ok := sessions[v.SessionID]
		if !ok {
			active = &model.ActiveVisitor{SessionID: v.SessionID}
			sessions[v.SessionID] = active
		}
		active.PagesViewed++
		// loadRange is oldest-first, so the last visit seen per session is
		// the most recent one
		if !v.Timestamp.Before(active.LastActivity) {
			active.LastActivity = v.Timestamp
			active.CurrentPage = v.PageVisited
		}
	}

	result := make([]model.ActiveVisitor, 0, len(sessions))
	for _, active := range sessions {
		result = append(result, *active)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].LastActivity.After(result[j].LastActivity)
	})
	return result, nil
}

func (s *RedisVisitStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	// Strictly before the cutoff
	max := "(" + strconv.FormatInt(cutoff.UnixMilli(), 10)

	ids, err := s.rdb.ZRangeByScore(ctx, visitIndexKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: max,
	}).Result()
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = visitKey(id)
	}

	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, keys...)
	pipe.ZRemRangeByScore(ctx, visitIndexKey, "-inf", max)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	return int64(len(ids)), nil
}

func (s *RedisVisitStore) DistinctSessionCount(ctx context.Context) (int64, error) {
	return s.UniqueSessions(ctx, time.Time{}, time.Time{})
}
