package service

import (
	"context"
	"time"

	"FightSync/internal/config"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// 单个刷新周期的总时限（解析 + 最多两次抓取）
const cycleTimeout = 2 * time.Minute

// Refresher 后台刷新任务：周期性重新解析赛事档位并预热缓存。
// 周期内的一切错误和panic只记日志，任务本身永不退出
type Refresher struct {
	resolver *Resolver
	cache    *SnapshotCache
	logger   *logrus.Logger
	cron     *cron.Cron
	spec     string
}

func NewRefresher(cfg *config.RefresherConfig, resolver *Resolver, cache *SnapshotCache, logger *logrus.Logger) *Refresher {
	spec := cfg.Cron
	if spec == "" {
		spec = "@every 30m"
	}
	return &Refresher{
		resolver: resolver,
		cache:    cache,
		logger:   logger,
		cron:     cron.New(),
		spec:     spec,
	}
}

// Start 注册调度并立刻跑一轮预热（cron首次触发要等满一个周期）
func (r *Refresher) Start() error {
	if _, err := r.cron.AddFunc(r.spec, r.runCycle); err != nil {
		return err
	}
	r.cron.Start()
	go r.runCycle()
	r.logger.Infof("后台刷新任务已启动，调度：%s", r.spec)
	return nil
}

// Stop 停止调度（进行中的周期会跑完）
func (r *Refresher) Stop() {
	r.cron.Stop()
}

// runCycle 单个刷新周期：重新解析 → 预热进行中/即将开始的赛事 → 顺带探测下一场
func (r *Refresher) runCycle() {
	defer func() {
		if p := recover(); p != nil {
			r.logger.WithField("panic", p).Error("刷新周期内部异常，等待下一周期")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), cycleTimeout)
	defer cancel()

	ids := r.resolver.Resolve(ctx)

	target := ids.Ongoing
	if target == nil {
		target = ids.Upcoming
	}
	if target == nil {
		r.logger.Warn("刷新周期：无可预热的赛事档位")
		return
	}

	if _, err := r.cache.GetOrFetch(ctx, *target); err != nil {
		r.logger.WithError(err).WithField("event_id", *target).Warn("刷新周期：预热赛事失败")
	}

	// 顺带探测下一场，提前暖缓存（失败无所谓）
	if _, err := r.cache.GetOrFetch(ctx, *target+1); err != nil {
		r.logger.WithError(err).WithField("event_id", *target+1).Debug("刷新周期：下一场探测失败")
	}
}
