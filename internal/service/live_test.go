package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"FightSync/internal/model"

	"github.com/stretchr/testify/assert"
)

type stubSignal struct {
	live     bool
	definite bool
	err      error
}

func (s *stubSignal) CheckLive(ctx context.Context, eventID int) (bool, bool, error) {
	return s.live, s.definite, s.err
}

var liveTestNow = time.Date(2026, 5, 1, 22, 0, 0, 0, time.UTC)

// cardSnap 构造单环节三场对阵的快照。methods[i]非空表示第i场已有结果
func cardSnap(status string, start *time.Time, methods [3]string) *model.EventSnapshot {
	segment := model.Segment{Name: "Main Card", StartTime: start}
	for i, method := range methods {
		fight := model.Fight{Index: i, Fighters: []string{"Fighter A", "Fighter B"}}
		if method != "" {
			fight.Result = &model.Result{Method: method, Round: 1, Time: "3:15"}
		}
		segment.Fights = append(segment.Fights, fight)
	}
	return &model.EventSnapshot{ID: 11, Name: "UFC Test", Status: status, Segments: []model.Segment{segment}}
}

func newTestChecker(signal *stubSignal) *LiveChecker {
	var checker *LiveChecker
	if signal == nil {
		checker = NewLiveChecker(nil, testLogger())
	} else {
		checker = NewLiveChecker(signal, testLogger())
	}
	checker.now = func() time.Time { return liveTestNow }
	return checker
}

func pastStart() *time.Time {
	t := liveTestNow.Add(-time.Hour)
	return &t
}

func futureStart() *time.Time {
	t := liveTestNow.Add(time.Hour)
	return &t
}

func TestIsLiveOrdering(t *testing.T) {
	// 第0场已结束、1和2未结束：第1场在打，第2场还没轮到
	snap := cardSnap(model.StatusInProgress, pastStart(), [3]string{"KO/TKO", "", ""})
	checker := newTestChecker(nil)

	assert.False(t, checker.IsLive(context.Background(), snap, 0, 0))
	assert.True(t, checker.IsLive(context.Background(), snap, 0, 1))
	assert.False(t, checker.IsLive(context.Background(), snap, 0, 2))
}

func TestIsLiveDecidedFight(t *testing.T) {
	snap := cardSnap(model.StatusInProgress, pastStart(), [3]string{"Decision", "Submission", ""})
	checker := newTestChecker(nil)

	assert.False(t, checker.IsLive(context.Background(), snap, 0, 0))
	assert.False(t, checker.IsLive(context.Background(), snap, 0, 1))
}

func TestIsLiveFutureSegment(t *testing.T) {
	// 赛事进行中但该环节还没开打：全部false
	snap := cardSnap(model.StatusInProgress, futureStart(), [3]string{"", "", ""})
	checker := newTestChecker(nil)

	for i := 0; i < 3; i++ {
		assert.False(t, checker.IsLive(context.Background(), snap, 0, i), "fight %d", i)
	}
}

func TestIsLiveMissingStartTime(t *testing.T) {
	// 开始时间缺失不拦截主路径
	snap := cardSnap(model.StatusInProgress, nil, [3]string{"KO/TKO", "", ""})
	checker := newTestChecker(nil)

	assert.True(t, checker.IsLive(context.Background(), snap, 0, 1))
}

func TestIsLiveLaterFightDecided(t *testing.T) {
	// 下一场已有结果：本场不可能是当前场（乱序数据按顺序优先处理）
	snap := cardSnap(model.StatusInProgress, pastStart(), [3]string{"KO/TKO", "", "Decision"})
	checker := newTestChecker(nil)

	assert.False(t, checker.IsLive(context.Background(), snap, 0, 1))
}

func TestIsLiveStatusLag(t *testing.T) {
	// 状态标记滞后：快照还是scheduled但已有结果出来，按完成顺序推断
	snap := cardSnap(model.StatusScheduled, pastStart(), [3]string{"KO/TKO", "", ""})
	checker := newTestChecker(nil)

	assert.True(t, checker.IsLive(context.Background(), snap, 0, 1))
}

func TestIsLiveScheduledUntouchedCard(t *testing.T) {
	// 未开打的未来赛事：没有任何结果、环节时间未到 → 一律false
	snap := cardSnap(model.StatusScheduled, futureStart(), [3]string{"", "", ""})
	checker := newTestChecker(nil)

	for i := 0; i < 3; i++ {
		assert.False(t, checker.IsLive(context.Background(), snap, 0, i), "fight %d", i)
	}
}

func TestIsLiveSignalOverride(t *testing.T) {
	snap := cardSnap(model.StatusInProgress, pastStart(), [3]string{"KO/TKO", "", ""})

	// 次级信号明确说不在直播：覆盖主推断
	checker := newTestChecker(&stubSignal{live: false, definite: true})
	assert.False(t, checker.IsLive(context.Background(), snap, 0, 1))

	// 次级信号拿不准：回到主推断
	checker = newTestChecker(&stubSignal{live: false, definite: false})
	assert.True(t, checker.IsLive(context.Background(), snap, 0, 1))

	// 次级信号报错：同样回到主推断
	checker = newTestChecker(&stubSignal{err: errors.New("listing down")})
	assert.True(t, checker.IsLive(context.Background(), snap, 0, 1))
}

func TestIsLiveOutOfRange(t *testing.T) {
	snap := cardSnap(model.StatusInProgress, pastStart(), [3]string{"", "", ""})
	checker := newTestChecker(nil)

	assert.False(t, checker.IsLive(context.Background(), nil, 0, 0))
	assert.False(t, checker.IsLive(context.Background(), snap, 5, 0))
	assert.False(t, checker.IsLive(context.Background(), snap, 0, 9))
	assert.False(t, checker.IsLive(context.Background(), snap, -1, -1))
}
