package ufcstats

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"FightSync/internal/config"
	"FightSync/internal/model"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleEventJSON = `{
	"id": 301,
	"name": "UFC 301",
	"status": "live",
	"card_segments": [
		{
			"name": "Main Card",
			"start_time": "2026-05-02T02:00:00Z",
			"fights": [
				{
					"fighters": [{"name": "Fighter A"}, {"name": "Fighter B"}],
					"result": {"method": "KO/TKO", "ending_round": 1, "ending_time": "3:12"}
				},
				{
					"fighters": [{"name": "Fighter C"}, {"name": "Fighter D"}],
					"result": null
				}
			]
		},
		{
			"name": "Prelims",
			"start_time": "",
			"fights": [
				{"fighters": [{"name": "Fighter E"}, {"name": "Fighter F"}]}
			]
		}
	]
}`

const sampleListingJSON = `{
	"events": [
		{"id": 302, "name": "UFC 302", "status": "upcoming"},
		{"id": 301, "name": "UFC 301", "status": "Live Now"},
		{"id": 300, "name": "UFC 300", "status": "Final"},
		{"id": 299, "name": "UFC 299", "status": "Final"}
	]
}`

func newTestAdapter(t *testing.T, handler http.HandlerFunc) *Adapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	cfg := &config.UpstreamConfig{
		BaseURL:      srv.URL,
		Timeout:      2,
		RetryCount:   1,
		RetryBackoff: 0,
	}
	return NewAdapter(cfg, logger)
}

func TestFetchEventConvertsSnapshot(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/events/301", r.URL.Path)
		_, _ = w.Write([]byte(sampleEventJSON))
	})

	snap, err := adapter.FetchEvent(context.Background(), 301)
	require.NoError(t, err)

	assert.Equal(t, 301, snap.ID)
	assert.Equal(t, "UFC 301", snap.Name)
	assert.Equal(t, model.StatusInProgress, snap.Status)
	require.Len(t, snap.Segments, 2)

	main := snap.Segments[0]
	require.NotNil(t, main.StartTime)
	assert.True(t, main.StartTime.Equal(time.Date(2026, 5, 2, 2, 0, 0, 0, time.UTC)))
	require.Len(t, main.Fights, 2)

	// 环节内位置编号稳定
	assert.Equal(t, 0, main.Fights[0].Index)
	assert.Equal(t, 1, main.Fights[1].Index)
	assert.Equal(t, []string{"Fighter A", "Fighter B"}, main.Fights[0].Fighters)
	require.NotNil(t, main.Fights[0].Result)
	assert.Equal(t, "KO/TKO", main.Fights[0].Result.Method)
	assert.Equal(t, 1, main.Fights[0].Result.Round)
	assert.Nil(t, main.Fights[1].Result)

	// 开始时间为空按缺失处理
	assert.Nil(t, snap.Segments[1].StartTime)
}

func TestFetchEventUpstreamError(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := adapter.FetchEvent(context.Background(), 301)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrUpstream))
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		upstream string
		expected string
	}{
		{"complete", model.StatusCompleted},
		{"completed", model.StatusCompleted},
		{"final", model.StatusCompleted},
		{"live", model.StatusInProgress},
		{"in_progress", model.StatusInProgress},
		{"upcoming", model.StatusScheduled},
		{"scheduled", model.StatusScheduled},
		{"postponed", model.StatusUnknown},
		{"", model.StatusUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, mapStatus(tt.upstream), "upstream=%q", tt.upstream)
	}
}

func TestListRecentEventIDs(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/events/recent", r.URL.Path)
		_, _ = w.Write([]byte(sampleListingJSON))
	})

	ids, err := adapter.ListRecentEventIDs(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []int{302, 301, 300}, ids)
}

func TestCheckLive(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleListingJSON))
	})

	live, definite, err := adapter.CheckLive(context.Background(), 301)
	require.NoError(t, err)
	assert.True(t, definite)
	assert.True(t, live)

	live, definite, err = adapter.CheckLive(context.Background(), 300)
	require.NoError(t, err)
	assert.True(t, definite)
	assert.False(t, live)

	// 状态文本不明确：不给定论
	live, definite, err = adapter.CheckLive(context.Background(), 302)
	require.NoError(t, err)
	assert.False(t, definite)
	assert.False(t, live)

	// 列表里没有该赛事：同样不给定论
	_, definite, err = adapter.CheckLive(context.Background(), 999)
	require.NoError(t, err)
	assert.False(t, definite)
}
