package ufcstats

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"FightSync/internal/interfaces"
	"FightSync/internal/model"
)

var (
	_ interfaces.EventLister = (*Adapter)(nil)
	_ interfaces.LiveSignal  = (*Adapter)(nil)
)

// ListRecentEventIDs 获取近期赛事候选ID（按上游顺序，最多limit个）
func (a *Adapter) ListRecentEventIDs(ctx context.Context, limit int) ([]int, error) {
	listing, err := a.fetchListing(ctx)
	if err != nil {
		return nil, err
	}

	var ids []int
	for _, e := range listing.Events {
		if e.ID <= 0 {
			continue
		}
		ids = append(ids, e.ID)
		if limit > 0 && len(ids) >= limit {
			break
		}
	}
	a.logger.Infof("成功获取近期赛事候选共%d条", len(ids))
	return ids, nil
}

// CheckLive 从列表源扫描live标记（次级信号，拿不准时 definite=false）
func (a *Adapter) CheckLive(ctx context.Context, eventID int) (bool, bool, error) {
	listing, err := a.fetchListing(ctx)
	if err != nil {
		return false, false, err
	}

	for _, e := range listing.Events {
		if e.ID != eventID {
			continue
		}
		status := strings.ToLower(e.Status)
		switch {
		case strings.Contains(status, "live"):
			return true, true, nil
		case strings.Contains(status, "final"), strings.Contains(status, "complete"):
			return false, true, nil
		}
		// 条目存在但状态文本不明确 → 不给出定论
		return false, false, nil
	}
	return false, false, nil
}

func (a *Adapter) fetchListing(ctx context.Context) (*model.UFCStatsListing, error) {
	listURL := fmt.Sprintf("%s/events/recent", a.cfg.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL, nil)
	if err != nil {
		return nil, fmt.Errorf("构造列表请求失败: %w", err)
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: 获取赛事列表失败: %v", model.ErrUpstream, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			a.logger.Errorf("关闭上游响应体失败: %v", err)
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: 赛事列表接口返回%d", model.ErrUpstream, resp.StatusCode)
	}

	var listing model.UFCStatsListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("%w: 解析赛事列表失败: %v", model.ErrUpstream, err)
	}
	return &listing, nil
}
