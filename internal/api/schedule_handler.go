package api

import (
	"net/http"
	"time"

	"FightSync/internal/model"
	"FightSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ScheduleHandler 对阵时间表接口
type ScheduleHandler struct {
	cache    *service.SnapshotCache
	resolver *service.Resolver
	logger   *logrus.Logger
}

func NewScheduleHandler(cache *service.SnapshotCache, resolver *service.Resolver, logger *logrus.Logger) *ScheduleHandler {
	return &ScheduleHandler{cache: cache, resolver: resolver, logger: logger}
}

// GetSchedule 返回进行中（没有则即将开始）赛事的逐场预计开始时间。
// timezone 为IANA时区名，缺省或非法时静默退回UTC
// GET /fights/schedule?timezone=Europe/Amsterdam
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	loc := time.UTC
	if tz := c.Query("timezone"); tz != "" {
		parsed, err := time.LoadLocation(tz)
		if err != nil {
			h.logger.WithField("timezone", tz).Warn("非法时区名，退回UTC")
		} else {
			loc = parsed
		}
	}

	ids := h.resolver.Resolve(c.Request.Context())
	target := ids.Ongoing
	if target == nil {
		target = ids.Upcoming
	}
	if target == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": model.ErrUnresolved.Error()})
		return
	}

	snap, err := h.cache.GetOrFetch(c.Request.Context(), *target)
	if err != nil {
		h.logger.WithError(err).WithField("event_id", *target).Error("GetSchedule failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"event_id": snap.ID,
		"event":    snap.Name,
		"timezone": loc.String(),
		"fights":   service.BuildSchedule(snap, loc),
	})
}
