package interfaces

import (
	"context"

	"FightSync/internal/model"
)

// EventFetcher 上游赛事快照抓取接口（单场赛事的完整卡片与结果）
type EventFetcher interface {
	FetchEvent(ctx context.Context, id int) (*model.EventSnapshot, error)
}

// EventLister 上游近期赛事列表接口，按上游顺序返回少量候选赛事ID
type EventLister interface {
	ListRecentEventIDs(ctx context.Context, limit int) ([]int, error)
}

// LiveSignal 辅助live标记探测（尽力而为的次级信号）。
// definite=true 时答案可信并覆盖主推断；false 时不影响主推断结果
type LiveSignal interface {
	CheckLive(ctx context.Context, eventID int) (live bool, definite bool, err error)
}
