package service

import (
	"time"

	"FightSync/internal/model"
)

// 同环节内相邻场次的预计间隔
const slotSpacing = 30 * time.Minute

// ScheduledFight 单场对阵的预计开始时间（已转换到目标时区）
type ScheduledFight struct {
	EventID        int        `json:"event_id"`
	EventName      string     `json:"event_name"`
	Segment        string     `json:"segment"`
	Index          int        `json:"index"`
	Fighters       []string   `json:"fighters"`
	EstimatedStart *time.Time `json:"estimated_start,omitempty"`
}

// EstimatedStartAt 估算环节内第index场的开始时间：环节开始时间 + 30分钟×位置。
// 环节无开始时间时返回nil
func EstimatedStartAt(segment *model.Segment, index int, loc *time.Location) *time.Time {
	if segment == nil || segment.StartTime == nil {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}
	est := segment.StartTime.Add(time.Duration(index) * slotSpacing).In(loc)
	return &est
}

// BuildSchedule 按"环节开始时间 + 30分钟×环节内位置"估算每场开始时间，
// 转换到loc时区。环节无开始时间时对应场次的预计时间为空
func BuildSchedule(snap *model.EventSnapshot, loc *time.Location) []ScheduledFight {
	if snap == nil {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}

	var out []ScheduledFight
	for i := range snap.Segments {
		segment := &snap.Segments[i]
		for _, fight := range segment.Fights {
			out = append(out, ScheduledFight{
				EventID:        snap.ID,
				EventName:      snap.Name,
				Segment:        segment.Name,
				Index:          fight.Index,
				Fighters:       fight.Fighters,
				EstimatedStart: EstimatedStartAt(segment, fight.Index, loc),
			})
		}
	}
	return out
}
