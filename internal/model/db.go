package model

import (
	"time"

	"gorm.io/datatypes"
)

// HistoryRecord 已结束赛事的历史记录（持久化，进程重启后仍在）。
// 同一 event_id 重复写入时覆盖为最新数据，不做版本化
type HistoryRecord struct {
	ID         uint64         `gorm:"column:id;primaryKey;autoIncrement"`           // 自增主键ID
	RecordUUID string         `gorm:"column:record_uuid;type:varchar(64);not null"` // 全局唯一记录ID
	EventID    int            `gorm:"column:event_id;uniqueIndex:uk_history_event"` // 赛事ID（上游标识，唯一）
	Name       string         `gorm:"column:name;type:varchar(256);not null"`       // 赛事名称
	Status     string         `gorm:"column:status;type:varchar(16);not null"`      // 记录时的赛事状态
	Card       datatypes.JSON `gorm:"column:card;not null"`                         // 环节+结果的JSON快照
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime"`             // 创建时间
	UpdatedAt  time.Time      `gorm:"column:updated_at;autoUpdateTime"`             // 更新时间
}

// TableName 指定历史表名
func (HistoryRecord) TableName() string {
	return "event_history"
}
