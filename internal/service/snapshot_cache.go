package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"FightSync/internal/config"
	"FightSync/internal/interfaces"
	"FightSync/internal/model"

	"github.com/sirupsen/logrus"
)

// cacheEntry 快照 + 抓取时间
type cacheEntry struct {
	snap      *model.EventSnapshot
	fetchedAt time.Time
}

// SnapshotCache 赛事快照缓存：新鲜度窗口 + 容量上限（淘汰抓取时间最旧的条目）。
// 后台刷新与请求处理共用同一份状态，检查→抓取→写入整段持锁，
// 避免两个调用方同时未命中而重复抓取
type SnapshotCache struct {
	mu       sync.Mutex
	entries  map[int]cacheEntry
	window   time.Duration
	capacity int
	fetcher  interfaces.EventFetcher
	history  interfaces.HistoryStore
	logger   *logrus.Logger
	now      func() time.Time // 测试注入
}

func NewSnapshotCache(cfg *config.CacheConfig, fetcher interfaces.EventFetcher, history interfaces.HistoryStore, logger *logrus.Logger) *SnapshotCache {
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = 10
	}
	return &SnapshotCache{
		entries:  make(map[int]cacheEntry),
		window:   cfg.FreshnessWindow,
		capacity: capacity,
		fetcher:  fetcher,
		history:  history,
		logger:   logger,
		now:      time.Now,
	}
}

// GetOrFetch 返回指定赛事的快照。
// 新鲜条目直接返回；否则调上游抓取并写入缓存。
// 抓取失败且无任何缓存时返回 ErrUpstream；有陈旧条目时同样返回错误，
// 是否容忍陈旧数据由调用方通过 Peek 自行决定
func (c *SnapshotCache) GetOrFetch(ctx context.Context, id int) (*model.EventSnapshot, error) {
	c.mu.Lock()

	if entry, ok := c.entries[id]; ok && c.now().Sub(entry.fetchedAt) < c.window {
		snap := entry.snap
		c.mu.Unlock()
		return snap, nil
	}

	snap, err := c.fetcher.FetchEvent(ctx, id)
	if err != nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("获取赛事%d快照失败: %w", id, err)
	}

	c.entries[id] = cacheEntry{snap: snap, fetchedAt: c.now()}
	c.evictLocked()
	c.mu.Unlock()

	// 已结束的赛事顺手写历史（失败只记日志，不影响请求路径）
	if snap.Status == model.StatusCompleted && c.history != nil {
		if err := c.history.Record(ctx, snap); err != nil {
			c.logger.WithError(err).WithField("event_id", snap.ID).Warn("写入赛事历史失败")
		}
	}
	return snap, nil
}

// Peek 返回缓存中的条目（不论新鲜与否），不触发抓取
func (c *SnapshotCache) Peek(id int) (*model.EventSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[id]
	if !ok {
		return nil, false
	}
	return entry.snap, true
}

// Size 当前缓存条目数
func (c *SnapshotCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evictLocked 超出容量时淘汰抓取时间最旧的条目；时间相同取ID最小的，保证确定性
func (c *SnapshotCache) evictLocked() {
	for len(c.entries) > c.capacity {
		oldestID := 0
		var oldestAt time.Time
		first := true
		for id, entry := range c.entries {
			if first || entry.fetchedAt.Before(oldestAt) ||
				(entry.fetchedAt.Equal(oldestAt) && id < oldestID) {
				oldestID = id
				oldestAt = entry.fetchedAt
				first = false
			}
		}
		delete(c.entries, oldestID)
		c.logger.WithField("event_id", oldestID).Debug("缓存超限，淘汰最旧快照")
	}
}
