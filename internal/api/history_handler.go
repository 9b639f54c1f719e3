package api

import (
	"encoding/json"
	"net/http"

	"FightSync/internal/interfaces"
	"FightSync/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// HistoryHandler 历史记录查询接口
type HistoryHandler struct {
	store  interfaces.HistoryStore
	logger *logrus.Logger
}

func NewHistoryHandler(store interfaces.HistoryStore, logger *logrus.Logger) *HistoryHandler {
	return &HistoryHandler{store: store, logger: logger}
}

// historyView 单条历史记录的响应形态（卡片JSON还原成结构）
type historyView struct {
	EventID    int             `json:"event_id"`
	RecordUUID string          `json:"record_uuid"`
	Name       string          `json:"name"`
	Status     string          `json:"status"`
	Segments   []model.Segment `json:"segments"`
}

// GetHistory 返回全部已记录的已结束赛事
// GET /history
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	records, err := h.store.LoadAll(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("GetHistory failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make(map[int]historyView, len(records))
	for id, rec := range records {
		view := historyView{
			EventID:    rec.EventID,
			RecordUUID: rec.RecordUUID,
			Name:       rec.Name,
			Status:     rec.Status,
		}
		if err := json.Unmarshal(rec.Card, &view.Segments); err != nil {
			h.logger.WithError(err).WithField("event_id", id).Warn("历史卡片JSON损坏，跳过环节内容")
		}
		out[id] = view
	}

	c.JSON(http.StatusOK, gin.H{"count": len(out), "events": out})
}
