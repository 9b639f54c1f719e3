package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"FightSync/internal/interfaces"
	"FightSync/internal/model"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// HistoryRepository gorm实现的历史存储
type HistoryRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewHistoryRepository(db *gorm.DB, logger *logrus.Logger) interfaces.HistoryStore {
	return &HistoryRepository{db: db, logger: logger}
}

// Record 写入/覆盖一条历史记录（同一 event_id 只保留最新一条）
func (r *HistoryRepository) Record(ctx context.Context, snap *model.EventSnapshot) error {
	if snap == nil {
		return nil
	}

	// 1. 卡片内容序列化为JSON列
	card, err := json.Marshal(snap.Segments)
	if err != nil {
		return fmt.Errorf("%w: 序列化赛事%d卡片失败: %v", model.ErrStorage, snap.ID, err)
	}

	// 2. 已有记录则覆盖，否则新建
	var existing model.HistoryRecord
	err = r.db.WithContext(ctx).Where("event_id = ?", snap.ID).First(&existing).Error
	switch {
	case err == nil:
		updates := map[string]interface{}{
			"name":   snap.Name,
			"status": snap.Status,
			"card":   card,
		}
		if err := r.db.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
			return fmt.Errorf("%w: 更新赛事%d历史失败: %v", model.ErrStorage, snap.ID, err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		record := &model.HistoryRecord{
			RecordUUID: uuid.NewString(),
			EventID:    snap.ID,
			Name:       snap.Name,
			Status:     snap.Status,
			Card:       card,
		}
		if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
			return fmt.Errorf("%w: 保存赛事%d历史失败: %v", model.ErrStorage, snap.ID, err)
		}
	default:
		return fmt.Errorf("%w: 查询赛事%d历史失败: %v", model.ErrStorage, snap.ID, err)
	}
	return nil
}

// LoadAll 读取全部历史记录。存储不可读时记日志并返回空映射（历史为尽力而为）
func (r *HistoryRepository) LoadAll(ctx context.Context) (map[int]model.HistoryRecord, error) {
	var records []model.HistoryRecord
	if err := r.db.WithContext(ctx).Find(&records).Error; err != nil {
		r.logger.WithError(err).Error("读取历史记录失败，返回空结果")
		return map[int]model.HistoryRecord{}, nil
	}

	out := make(map[int]model.HistoryRecord, len(records))
	for _, rec := range records {
		out[rec.EventID] = rec
	}
	return out, nil
}
