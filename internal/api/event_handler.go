package api

import (
	"net/http"
	"strconv"
	"time"

	"FightSync/internal/model"
	"FightSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// EventHandler 赛事查询接口（显式ID与解析档位）
type EventHandler struct {
	cache    *service.SnapshotCache
	resolver *service.Resolver
	live     *service.LiveChecker
	logger   *logrus.Logger
	started  time.Time
}

func NewEventHandler(cache *service.SnapshotCache, resolver *service.Resolver, live *service.LiveChecker, logger *logrus.Logger) *EventHandler {
	return &EventHandler{
		cache:    cache,
		resolver: resolver,
		live:     live,
		logger:   logger,
		started:  time.Now(),
	}
}

// Root 服务横幅：当前解析档位 + 缓存里有名字的赛事。永不返回错误状态
// GET /
func (h *EventHandler) Root(c *gin.Context) {
	ids := h.resolver.Current()

	events := gin.H{}
	for slot, id := range map[string]*int{
		"last_finished": ids.LastFinished,
		"ongoing":       ids.Ongoing,
		"upcoming":      ids.Upcoming,
	} {
		if id == nil {
			continue
		}
		entry := gin.H{"id": *id}
		if snap, ok := h.cache.Peek(*id); ok {
			entry["name"] = snap.Name
			entry["status"] = snap.Status
		}
		events[slot] = entry
	}

	c.JSON(http.StatusOK, gin.H{
		"service":  "fightsync",
		"resolved": ids,
		"events":   events,
	})
}

// GetEvent 按显式ID返回赛事快照
// GET /event/:id
func (h *EventHandler) GetEvent(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "赛事ID必须是整数"})
		return
	}

	snap, err := h.cache.GetOrFetch(c.Request.Context(), id)
	if err != nil {
		h.logger.WithError(err).WithField("event_id", id).Error("GetEvent failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, buildEventView(c.Request.Context(), snap, h.live))
}

// GetSlot 按解析档位返回赛事快照：/ongoing /upcoming /last_finished /latest。
// latest = 进行中的赛事，没有则取上一场已结束的
func (h *EventHandler) GetSlot(slot string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ids := h.resolver.Resolve(c.Request.Context())

		var id *int
		switch slot {
		case "ongoing":
			id = ids.Ongoing
		case "upcoming":
			id = ids.Upcoming
		case "last_finished":
			id = ids.LastFinished
		case "latest":
			id = ids.Ongoing
			if id == nil {
				id = ids.LastFinished
			}
		}
		if id == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": model.ErrUnresolved.Error(), "slot": slot})
			return
		}

		snap, err := h.cache.GetOrFetch(c.Request.Context(), *id)
		if err != nil {
			h.logger.WithError(err).WithField("event_id", *id).Error("GetSlot failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, buildEventView(c.Request.Context(), snap, h.live))
	}
}

// PrettyOutput 纯文本渲染。无:id时取latest档位
// GET /pretty_output[/:id]
func (h *EventHandler) PrettyOutput(c *gin.Context) {
	var id int
	if raw := c.Param("id"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.String(http.StatusBadRequest, "赛事ID必须是整数\n")
			return
		}
		id = parsed
	} else {
		ids := h.resolver.Resolve(c.Request.Context())
		target := ids.Ongoing
		if target == nil {
			target = ids.LastFinished
		}
		if target == nil {
			c.String(http.StatusNotFound, "%s\n", model.ErrUnresolved.Error())
			return
		}
		id = *target
	}

	snap, err := h.cache.GetOrFetch(c.Request.Context(), id)
	if err != nil {
		h.logger.WithError(err).WithField("event_id", id).Error("PrettyOutput failed")
		c.String(http.StatusInternalServerError, "%s\n", err.Error())
		return
	}

	c.String(http.StatusOK, prettyRender(c.Request.Context(), snap, h.live))
}

// Healthz 健康检查：缓存规模与上次解析距今时长
// GET /healthz
func (h *EventHandler) Healthz(c *gin.Context) {
	ids := h.resolver.Current()
	resp := gin.H{
		"status":     "ok",
		"cache_size": h.cache.Size(),
		"uptime":     time.Since(h.started).String(),
	}
	if !ids.ResolvedAt.IsZero() {
		resp["resolved_age"] = time.Since(ids.ResolvedAt).String()
	}
	c.JSON(http.StatusOK, resp)
}
