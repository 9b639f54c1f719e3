package api

import (
	"context"
	"fmt"
	"strings"
	"time"

	"FightSync/internal/model"
	"FightSync/internal/service"
)

// fightView 响应里的单场对阵（带live推断结果和预计开始时间）
type fightView struct {
	Index          int           `json:"index"`
	Fighters       []string      `json:"fighters"`
	Result         *model.Result `json:"result,omitempty"`
	Live           bool          `json:"live"`
	EstimatedStart *time.Time    `json:"estimated_start,omitempty"`
}

type segmentView struct {
	Name      string      `json:"name"`
	StartTime *time.Time  `json:"start_time,omitempty"`
	Fights    []fightView `json:"fights"`
}

type eventView struct {
	ID       int           `json:"id"`
	Name     string        `json:"name"`
	Status   string        `json:"status"`
	Segments []segmentView `json:"segments"`
}

// buildEventView 快照 → 响应DTO，逐场补上live推断与预计开始时间
func buildEventView(ctx context.Context, snap *model.EventSnapshot, live *service.LiveChecker) eventView {
	view := eventView{
		ID:     snap.ID,
		Name:   snap.Name,
		Status: snap.Status,
	}
	for segIdx, segment := range snap.Segments {
		sv := segmentView{Name: segment.Name, StartTime: segment.StartTime}
		for _, fight := range segment.Fights {
			fv := fightView{
				Index:          fight.Index,
				Fighters:       fight.Fighters,
				Result:         fight.Result,
				EstimatedStart: service.EstimatedStartAt(&snap.Segments[segIdx], fight.Index, time.UTC),
			}
			if live != nil {
				fv.Live = live.IsLive(ctx, snap, segIdx, fight.Index)
			}
			sv.Fights = append(sv.Fights, fv)
		}
		view.Segments = append(view.Segments, sv)
	}
	return view
}

// prettyRender 人类可读的纯文本卡片
func prettyRender(ctx context.Context, snap *model.EventSnapshot, live *service.LiveChecker) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s]\n", snap.Name, snap.Status)

	for segIdx, segment := range snap.Segments {
		b.WriteString("\n")
		if segment.StartTime != nil {
			fmt.Fprintf(&b, "%s (%s)\n", segment.Name, segment.StartTime.UTC().Format("2006-01-02 15:04 MST"))
		} else {
			fmt.Fprintf(&b, "%s\n", segment.Name)
		}
		for _, fight := range segment.Fights {
			fmt.Fprintf(&b, "  %d. %s", fight.Index+1, strings.Join(fight.Fighters, " vs. "))
			switch {
			case fight.Result.Decided():
				fmt.Fprintf(&b, " - %s (R%d %s)", fight.Result.Method, fight.Result.Round, fight.Result.Time)
			case live != nil && live.IsLive(ctx, snap, segIdx, fight.Index):
				b.WriteString(" - LIVE")
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
