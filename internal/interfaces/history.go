package interfaces

import (
	"context"

	"FightSync/internal/model"
)

// HistoryStore 已结束赛事的历史存储。
// Record 幂等（同一赛事重复写入覆盖为最新数据）；
// LoadAll 读取失败时记日志并返回空映射（历史为尽力而为，不向上传播）
type HistoryStore interface {
	Record(ctx context.Context, snap *model.EventSnapshot) error
	LoadAll(ctx context.Context) (map[int]model.HistoryRecord, error)
}
