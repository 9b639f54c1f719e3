package ufcstats

import (
	"FightSync/internal/config"
	"FightSync/internal/utils/httpclient"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"FightSync/internal/interfaces"
	"FightSync/internal/model"

	"github.com/sirupsen/logrus"
)

// Adapter 上游赛事数据源客户端（实现 EventFetcher / EventLister / LiveSignal）
type Adapter struct {
	cfg        *config.UpstreamConfig
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewAdapter(cfg *config.UpstreamConfig, logger *logrus.Logger) *Adapter {
	return &Adapter{
		cfg:        cfg,
		httpClient: httpclient.NewHTTPClient(cfg, logger),
		logger:     logger,
	}
}

var _ interfaces.EventFetcher = (*Adapter)(nil)

// FetchEvent 抓取单场赛事的完整快照
func (a *Adapter) FetchEvent(ctx context.Context, id int) (*model.EventSnapshot, error) {
	// 1. 调用上游赛事接口
	eventURL := fmt.Sprintf("%s/events/%d", a.cfg.BaseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, eventURL, nil)
	if err != nil {
		return nil, fmt.Errorf("构造赛事请求失败: %w", err)
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: 获取赛事%d失败: %v", model.ErrUpstream, id, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			a.logger.Errorf("关闭上游响应体失败: %v", err)
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: 赛事%d接口返回%d", model.ErrUpstream, id, resp.StatusCode)
	}

	var raw model.UFCStatsEvent
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: 解析赛事%d响应失败: %v", model.ErrUpstream, id, err)
	}

	// 2. 转换为内部快照模型
	snap := a.convertEvent(id, &raw)
	a.logger.WithFields(logrus.Fields{
		"event_id": snap.ID,
		"status":   snap.Status,
		"segments": len(snap.Segments),
	}).Info("成功抓取赛事快照")
	return snap, nil
}

// convertEvent 上游原始结构 → 内部快照。对阵按环节内位置编号（同一性按位置判断）
func (a *Adapter) convertEvent(id int, raw *model.UFCStatsEvent) *model.EventSnapshot {
	snap := &model.EventSnapshot{
		ID:     id,
		Name:   raw.Name,
		Status: mapStatus(raw.Status),
	}
	if raw.ID != 0 {
		snap.ID = raw.ID
	}

	for _, rs := range raw.Segments {
		seg := model.Segment{
			Name:      rs.Name,
			StartTime: a.parseTimeStr(rs.StartTime, rs.Name),
		}
		for i, rf := range rs.Fights {
			fight := model.Fight{Index: i}
			for _, fighter := range rf.Fighters {
				fight.Fighters = append(fight.Fighters, fighter.Name)
			}
			if rf.Result != nil {
				fight.Result = &model.Result{
					Method: rf.Result.Method,
					Round:  rf.Result.EndingRound,
					Time:   rf.Result.EndingTime,
				}
			}
			seg.Fights = append(seg.Fights, fight)
		}
		snap.Segments = append(snap.Segments, seg)
	}
	return snap
}

// parseTimeStr 解析环节开始时间。解析失败返回nil（开始时间是可选字段，不兜底当前时间）
func (a *Adapter) parseTimeStr(timeStr string, segmentName string) *time.Time {
	if timeStr == "" {
		return nil
	}

	// 上游常见时间格式
	timeFormats := []string{
		time.RFC3339,          // "2006-01-02T15:04:05Z07:00"
		"2006-01-02 15:04:05", // 常规格式
		"2006-01-02",          // 仅日期
	}

	for _, format := range timeFormats {
		parsedTime, err := time.Parse(format, timeStr)
		if err == nil {
			return &parsedTime
		}
	}

	a.logger.Warnf("解析环节[%s]开始时间失败（值：%s），按缺失处理", segmentName, timeStr)
	return nil
}

// mapStatus 上游状态文本 → 内部状态
func mapStatus(upstream string) string {
	switch upstream {
	case "complete", "completed", "final":
		return model.StatusCompleted
	case "live", "in_progress":
		return model.StatusInProgress
	case "upcoming", "scheduled":
		return model.StatusScheduled
	default:
		return model.StatusUnknown
	}
}
