package model

// ColumnSelection 用户在页面上选定的列组合
// 每次下拉框变化都会重新派生，不跨会话持久化。
type ColumnSelection struct {
	TimeColumn   string   `json:"timeColumn"`
	MetricColumn string   `json:"metricColumn"`
	GroupColumns []string `json:"groupColumns"`
}

// Complete 时间列和指标列都已选定
func (s ColumnSelection) Complete() bool {
	return s.TimeColumn != "" && s.MetricColumn != ""
}

// KPISummary 四个标量指标
// Latest/Previous 按时间列升序排序后取末两行；只有一行时 Previous == Latest。
type KPISummary struct {
	Total    float64 `json:"total"`
	Mean     float64 `json:"mean"`
	Latest   float64 `json:"latest"`
	Previous float64 `json:"previous"`
	Delta    float64 `json:"delta"`
}

// RankingRow 排行榜一行：分组值 + 指标合计
type RankingRow struct {
	Group string  `json:"group"`
	Total float64 `json:"total"`
}

// ColumnOptions 列选择器的可选项
type ColumnOptions struct {
	All       []string `json:"all"`
	Numeric   []string `json:"numeric"`
	Groupable []string `json:"groupable"`
}
