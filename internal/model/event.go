package model

import (
	"errors"
	"time"
)

// 赛事状态（上游各种写法统一映射为这四种）
const (
	StatusCompleted  = "completed"
	StatusInProgress = "in_progress"
	StatusScheduled  = "scheduled"
	StatusUnknown    = "unknown"
)

// 错误分类（调用方用 errors.Is 判断，handler 统一转成JSON错误体）
var (
	ErrUpstream   = errors.New("上游数据源不可用")
	ErrStorage    = errors.New("历史存储不可用")
	ErrUnresolved = errors.New("该档位暂无已解析赛事")
)

// EventSnapshot 单场赛事的完整快照。抓取后不可变，刷新产生新快照而非原地修改
type EventSnapshot struct {
	ID       int       `json:"id"`
	Name     string    `json:"name"`
	Status   string    `json:"status"`
	Segments []Segment `json:"segments"`
}

// Segment 赛事的一个环节（Main Card / Prelims 等）。
// Fights 的顺序即实际出场顺序，live推断依赖该顺序
type Segment struct {
	Name      string     `json:"name"`
	StartTime *time.Time `json:"start_time,omitempty"`
	Fights    []Fight    `json:"fights"`
}

// Fight 单场对阵。Index 为环节内的稳定位置，
// 对阵的同一性按位置判断（选手名可能重复，不能按值比较）
type Fight struct {
	Index    int      `json:"index"`
	Fighters []string `json:"fighters"`
	Result   *Result  `json:"result,omitempty"`
}

// Result 比赛结果。Method 为空表示尚无结果
type Result struct {
	Method string `json:"method"`
	Round  int    `json:"round"`
	Time   string `json:"time"`
}

// Decided 该结果是否已判定
func (r *Result) Decided() bool {
	return r != nil && r.Method != ""
}

// ResolvedIDs 赛事解析结果：上一场已结束 / 进行中 / 即将开始。
// 不变式：Ongoing 至多一个；三者都已知时 LastFinished ≤ Ongoing ≤ Upcoming
type ResolvedIDs struct {
	LastFinished *int      `json:"last_finished"`
	Ongoing      *int      `json:"ongoing"`
	Upcoming     *int      `json:"upcoming"`
	ResolvedAt   time.Time `json:"resolved_at"`
}

// Complete 备选档位是否都已填充（Ongoing 允许为空：两场赛事之间没有进行中的比赛）
func (r ResolvedIDs) Complete() bool {
	return r.LastFinished != nil && r.Upcoming != nil
}
