package model

// UFCStatsEvent 上游赛事接口的原始响应（只保留本服务用到的字段）
type UFCStatsEvent struct {
	ID       int               `json:"id"`            // 上游赛事ID
	Name     string            `json:"name"`          // 赛事名称（如 UFC 301）
	Status   string            `json:"status"`        // 上游状态：complete/live/upcoming 等
	Segments []UFCStatsSegment `json:"card_segments"` // 环节列表（按出场顺序）
}

// UFCStatsSegment 上游环节结构
type UFCStatsSegment struct {
	Name      string          `json:"name"`       // 环节名称（Main Card / Prelims）
	StartTime string          `json:"start_time"` // 开始时间（字符串，可能为空）
	Fights    []UFCStatsFight `json:"fights"`     // 对阵列表（按出场顺序）
}

// UFCStatsFight 上游对阵结构
type UFCStatsFight struct {
	Fighters []UFCStatsFighter `json:"fighters"` // 双方选手
	Result   *UFCStatsResult   `json:"result"`   // 结果（未打完为null或method为空）
}

// UFCStatsFighter 上游选手结构
type UFCStatsFighter struct {
	Name string `json:"name"` // 选手姓名
}

// UFCStatsResult 上游结果结构
type UFCStatsResult struct {
	Method      string `json:"method"`       // 获胜方式（KO/TKO、Decision 等，空=无结果）
	EndingRound int    `json:"ending_round"` // 结束回合
	EndingTime  string `json:"ending_time"`  // 回合内结束时间
}

// UFCStatsListing 上游近期赛事列表响应
type UFCStatsListing struct {
	Events []UFCStatsListedEvent `json:"events"`
}

// UFCStatsListedEvent 列表里的单个赛事条目
type UFCStatsListedEvent struct {
	ID     int    `json:"id"`     // 上游赛事ID
	Name   string `json:"name"`   // 赛事名称
	Status string `json:"status"` // 上游状态文本（live 标记从这里扫描）
}
