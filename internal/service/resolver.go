package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"FightSync/internal/config"
	"FightSync/internal/interfaces"
	"FightSync/internal/model"

	"github.com/sirupsen/logrus"
)

// Resolver 判定候选赛事中哪场是"上一场已结束"、"进行中"、"即将开始"。
// 解析结果在复用窗口内直接返回；解析过程绝不向外抛错，
// 一切不可恢复的失败都退回静态兜底三元组
type Resolver struct {
	mu      sync.Mutex
	lister  interfaces.EventLister
	cache   *SnapshotCache
	cfg     *config.ResolverConfig
	logger  *logrus.Logger
	current model.ResolvedIDs
	now     func() time.Time // 测试注入
}

func NewResolver(cfg *config.ResolverConfig, lister interfaces.EventLister, cache *SnapshotCache, logger *logrus.Logger) *Resolver {
	return &Resolver{
		lister: lister,
		cache:  cache,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Resolve 返回当前的赛事解析结果（必要时重新解析）
func (r *Resolver) Resolve(ctx context.Context) model.ResolvedIDs {
	r.mu.Lock()
	defer r.mu.Unlock()

	// 1. 上次解析仍在复用窗口内且字段齐全 → 直接复用
	if !r.current.ResolvedAt.IsZero() &&
		r.now().Sub(r.current.ResolvedAt) < r.cfg.MemoizeWindow &&
		r.current.Complete() {
		return r.current
	}

	// 2. 向列表源要候选；失败或为空退回静态兜底
	candidates := r.fetchCandidates(ctx)

	// 3. 候选不足3个时按相邻ID补齐（该域的赛事ID密集递增）
	candidates = synthesizeNeighbors(candidates)

	// 4. 逐个取状态（单个失败按unknown处理）
	statuses := make(map[int]string, len(candidates))
	for _, id := range candidates {
		snap, err := r.cache.GetOrFetch(ctx, id)
		if err != nil {
			r.logger.WithError(err).WithField("event_id", id).Warn("候选赛事状态获取失败，按unknown处理")
			statuses[id] = model.StatusUnknown
			continue
		}
		statuses[id] = snap.Status
	}

	// 5. 按状态分桶
	var completed, inProgress, rest []int
	for _, id := range candidates {
		switch statuses[id] {
		case model.StatusCompleted:
			completed = append(completed, id)
		case model.StatusInProgress:
			inProgress = append(inProgress, id)
		default:
			rest = append(rest, id)
		}
	}

	// 6. 选取规则（按优先级）
	resolved := pickSlots(candidates, completed, inProgress, rest)
	resolved.ResolvedAt = r.now()
	r.current = resolved

	r.logger.WithFields(logrus.Fields{
		"last_finished": intPtrField(resolved.LastFinished),
		"ongoing":       intPtrField(resolved.Ongoing),
		"upcoming":      intPtrField(resolved.Upcoming),
	}).Info("赛事解析完成")
	return resolved
}

// Current 返回上次解析结果，不触发新解析（banner/健康检查用）
func (r *Resolver) Current() model.ResolvedIDs {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// fetchCandidates 向列表源请求候选ID；失败或为空时退回静态兜底三元组
func (r *Resolver) fetchCandidates(ctx context.Context) []int {
	limit := r.cfg.CandidateLimit
	if limit <= 0 {
		limit = 3
	}
	ids, err := r.lister.ListRecentEventIDs(ctx, limit)
	if err != nil || len(ids) == 0 {
		if err != nil {
			r.logger.WithError(err).Warn("列表源不可用，使用静态兜底候选")
		}
		return []int{r.cfg.DefaultPrevious, r.cfg.DefaultCurrent, r.cfg.DefaultNext}
	}
	return dedupeInts(ids)
}

// synthesizeNeighbors 不足3个候选时按±1补齐相邻赛事ID
func synthesizeNeighbors(ids []int) []int {
	ids = dedupeInts(ids)
	sort.Ints(ids)
	switch len(ids) {
	case 0:
		return ids
	case 1:
		return []int{ids[0] - 1, ids[0], ids[0] + 1}
	case 2:
		return []int{ids[0], ids[1], ids[1] + 1}
	default:
		return ids[:3]
	}
}

// pickSlots 状态分桶 → 三档位。任何模式都匹配不上时按排序位置兜底
func pickSlots(candidates, completed, inProgress, rest []int) model.ResolvedIDs {
	var resolved model.ResolvedIDs

	switch {
	case len(inProgress) == 1:
		// 恰有一场进行中
		ongoing := inProgress[0]
		resolved.Ongoing = intPtr(ongoing)
		if len(completed) > 0 {
			resolved.LastFinished = intPtr(maxInt(completed))
		} else {
			resolved.LastFinished = intPtr(ongoing - 1)
		}
		if len(rest) > 0 {
			resolved.Upcoming = intPtr(minInt(rest))
		} else {
			resolved.Upcoming = intPtr(ongoing + 1)
		}
	case len(inProgress) == 0 && len(completed) > 0 && len(rest) > 0:
		// 两场赛事之间：没有进行中的比赛
		resolved.LastFinished = intPtr(maxInt(completed))
		resolved.Upcoming = intPtr(minInt(rest))
	default:
		// 退化兜底：排序后按位置指派
		sorted := append([]int(nil), candidates...)
		sort.Ints(sorted)
		if len(sorted) > 0 {
			resolved.LastFinished = intPtr(sorted[0])
		}
		if len(sorted) > 1 {
			resolved.Ongoing = intPtr(sorted[1])
		}
		if len(sorted) > 2 {
			resolved.Upcoming = intPtr(sorted[2])
		}
	}
	return resolved
}

func dedupeInts(ids []int) []int {
	seen := make(map[int]bool, len(ids))
	var out []int
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func intPtr(v int) *int { return &v }

func intPtrField(p *int) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func maxInt(ids []int) int {
	m := ids[0]
	for _, v := range ids[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func minInt(ids []int) int {
	m := ids[0]
	for _, v := range ids[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
