package service

import (
	"context"
	"time"

	"FightSync/internal/interfaces"
	"FightSync/internal/model"

	"github.com/sirupsen/logrus"
)

// LiveChecker 推断某场对阵当前是否正在进行。
// 上游不按场次给live标记，只能从完成顺序倒推：
// 同环节中它之前的场次都已有结果、它自己和下一场还没有，它就是正在打的那场。
// 任何内部异常都按"不在进行中"处理，绝不向外抛错
type LiveChecker struct {
	signal interfaces.LiveSignal // 可为nil（次级信号缺失不影响主推断）
	logger *logrus.Logger
	now    func() time.Time // 测试注入
}

func NewLiveChecker(signal interfaces.LiveSignal, logger *logrus.Logger) *LiveChecker {
	return &LiveChecker{
		signal: signal,
		logger: logger,
		now:    time.Now,
	}
}

// IsLive 判断快照中第segIdx个环节的第fightIdx场对阵是否正在进行。
// 对阵按环节内位置识别（选手名可能重复，不按值比较）
func (l *LiveChecker) IsLive(ctx context.Context, snap *model.EventSnapshot, segIdx, fightIdx int) (live bool) {
	defer func() {
		if p := recover(); p != nil {
			l.logger.WithField("panic", p).Error("live推断内部异常，按false处理")
			live = false
		}
	}()

	if snap == nil || segIdx < 0 || segIdx >= len(snap.Segments) {
		return false
	}
	segment := snap.Segments[segIdx]
	if fightIdx < 0 || fightIdx >= len(segment.Fights) {
		return false
	}
	fight := segment.Fights[fightIdx]

	// 1. 已有结果 → 不在进行中
	if fight.Result.Decided() {
		return false
	}

	// 2. 赛事进行中但该环节还没开打 → false
	if snap.Status == model.StatusInProgress &&
		segment.StartTime != nil && segment.StartTime.After(l.now()) {
		return false
	}

	// 3/4. 该场之前的所有场次必须都已有结果
	for i := 0; i < fightIdx; i++ {
		if !segment.Fights[i].Result.Decided() {
			return false
		}
	}

	// 5. 下一场已有结果说明本场不是当前场（陈旧/乱序数据信号）
	if fightIdx+1 < len(segment.Fights) && segment.Fights[fightIdx+1].Result.Decided() {
		return false
	}

	// 6. 次级live信号给出定论时覆盖主推断
	if l.signal != nil {
		if liveMark, definite, err := l.signal.CheckLive(ctx, snap.ID); err == nil && definite {
			return liveMark
		} else if err != nil {
			l.logger.WithError(err).WithField("event_id", snap.ID).Debug("次级live信号不可用")
		}
	}

	// 7. 状态标记可能滞后：非in_progress时仍按完成顺序推断，
	//    但要求赛事确实已开打（环节时间已过或已有任一场结果）
	if snap.Status != model.StatusInProgress {
		return eventUnderway(snap, segment, l.now())
	}

	// 8. 主路径：进行中 + 环节已开始 + 前序已完成 + 后一场未完成
	return true
}

// eventUnderway 赛事是否已实际开打：该环节开始时间已过，或快照中已有任意一场出结果
func eventUnderway(snap *model.EventSnapshot, segment model.Segment, now time.Time) bool {
	if segment.StartTime != nil && !segment.StartTime.After(now) {
		return true
	}
	for _, seg := range snap.Segments {
		for _, f := range seg.Fights {
			if f.Result.Decided() {
				return true
			}
		}
	}
	return false
}
