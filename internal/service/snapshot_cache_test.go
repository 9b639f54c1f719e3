package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"FightSync/internal/config"
	"FightSync/internal/model"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	snaps map[int]*model.EventSnapshot
	err   error
	calls int
}

func (s *stubFetcher) FetchEvent(ctx context.Context, id int) (*model.EventSnapshot, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	snap, ok := s.snaps[id]
	if !ok {
		return nil, model.ErrUpstream
	}
	return snap, nil
}

type recordingHistory struct {
	recorded []int
}

func (h *recordingHistory) Record(ctx context.Context, snap *model.EventSnapshot) error {
	h.recorded = append(h.recorded, snap.ID)
	return nil
}

func (h *recordingHistory) LoadAll(ctx context.Context) (map[int]model.HistoryRecord, error) {
	return map[int]model.HistoryRecord{}, nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func simpleSnap(id int, status string) *model.EventSnapshot {
	return &model.EventSnapshot{ID: id, Name: "UFC Test", Status: status}
}

func newTestCache(window time.Duration, capacity int, fetcher *stubFetcher, history *recordingHistory) (*SnapshotCache, *time.Time) {
	cfg := &config.CacheConfig{FreshnessWindow: window, Capacity: capacity}
	var cache *SnapshotCache
	if history == nil {
		cache = NewSnapshotCache(cfg, fetcher, nil, testLogger())
	} else {
		cache = NewSnapshotCache(cfg, fetcher, history, testLogger())
	}
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	return cache, &now
}

func TestGetOrFetchFreshness(t *testing.T) {
	fetcher := &stubFetcher{snaps: map[int]*model.EventSnapshot{7: simpleSnap(7, model.StatusScheduled)}}
	cache, now := newTestCache(15*time.Minute, 10, fetcher, nil)

	_, err := cache.GetOrFetch(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, 1, fetcher.calls)

	// 窗口内不触发新抓取
	*now = now.Add(14 * time.Minute)
	_, err = cache.GetOrFetch(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.calls)

	// 窗口外必须重新抓取
	*now = now.Add(2 * time.Minute)
	_, err = cache.GetOrFetch(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.calls)
}

func TestGetOrFetchEvictsOldest(t *testing.T) {
	fetcher := &stubFetcher{snaps: map[int]*model.EventSnapshot{
		1: simpleSnap(1, model.StatusScheduled),
		2: simpleSnap(2, model.StatusScheduled),
		3: simpleSnap(3, model.StatusScheduled),
	}}
	cache, now := newTestCache(time.Hour, 2, fetcher, nil)

	for _, id := range []int{1, 2, 3} {
		_, err := cache.GetOrFetch(context.Background(), id)
		require.NoError(t, err)
		*now = now.Add(time.Minute)
	}

	// 容量2，最旧的1被淘汰，2和3保留
	assert.Equal(t, 2, cache.Size())
	_, ok := cache.Peek(1)
	assert.False(t, ok)
	_, ok = cache.Peek(2)
	assert.True(t, ok)
	_, ok = cache.Peek(3)
	assert.True(t, ok)
}

func TestGetOrFetchColdFailure(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("connection refused")}
	cache, _ := newTestCache(15*time.Minute, 10, fetcher, nil)

	_, err := cache.GetOrFetch(context.Background(), 9)
	require.Error(t, err)
	assert.Equal(t, 0, cache.Size())
}

func TestGetOrFetchStaleNotServedSilently(t *testing.T) {
	fetcher := &stubFetcher{snaps: map[int]*model.EventSnapshot{5: simpleSnap(5, model.StatusInProgress)}}
	cache, now := newTestCache(15*time.Minute, 10, fetcher, nil)

	_, err := cache.GetOrFetch(context.Background(), 5)
	require.NoError(t, err)

	// 条目过期且上游挂掉：GetOrFetch报错，陈旧数据只能通过Peek显式拿
	*now = now.Add(time.Hour)
	fetcher.err = errors.New("timeout")
	_, err = cache.GetOrFetch(context.Background(), 5)
	require.Error(t, err)

	snap, ok := cache.Peek(5)
	require.True(t, ok)
	assert.Equal(t, 5, snap.ID)
}

func TestGetOrFetchRecordsCompletedHistory(t *testing.T) {
	fetcher := &stubFetcher{snaps: map[int]*model.EventSnapshot{
		10: simpleSnap(10, model.StatusCompleted),
		11: simpleSnap(11, model.StatusScheduled),
	}}
	history := &recordingHistory{}
	cache, _ := newTestCache(15*time.Minute, 10, fetcher, history)

	_, err := cache.GetOrFetch(context.Background(), 10)
	require.NoError(t, err)
	_, err = cache.GetOrFetch(context.Background(), 11)
	require.NoError(t, err)

	// 只有completed的快照写历史
	assert.Equal(t, []int{10}, history.recorded)
}
