package chart

import (
	"time"

	"kpidash/internal/model"
)

// 系列配色，前端和 PNG 渲染共用
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// LinePoint 折线图一个点
type LinePoint struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// LineSpec 时间序列折线图的声明式描述
type LineSpec struct {
	Title  string      `json:"title"`
	XLabel string      `json:"xLabel"`
	YLabel string      `json:"yLabel"`
	Points []LinePoint `json:"points"`
	Color  string      `json:"color"`
}

// BarSpec 排行榜条形图的声明式描述
type BarSpec struct {
	Title  string             `json:"title"`
	Label  string             `json:"label"`
	Rows   []model.RankingRow `json:"rows"`
	Colors []string           `json:"colors"`
}

// BuildLine 从时间序列构建折线图描述
func BuildLine(sel model.ColumnSelection, times []time.Time, values []float64) *LineSpec {
	if len(times) == 0 {
		return nil
	}
	points := make([]LinePoint, len(times))
	for i := range times {
		points[i] = LinePoint{Time: times[i], Value: values[i]}
	}
	return &LineSpec{
		Title:  "Evolução do KPI ao longo do tempo",
		XLabel: "Data",
		YLabel: "Valor",
		Points: points,
		Color:  defaultColors[0],
	}
}

// BuildBar 从排行榜构建条形图描述，分组为空时图表整体缺席
func BuildBar(sel model.ColumnSelection, ranking []model.RankingRow) *BarSpec {
	if len(ranking) == 0 || len(sel.GroupColumns) == 0 {
		return nil
	}
	colors := make([]string, len(ranking))
	for i := range ranking {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return &BarSpec{
		Title:  "Top 10 por dimensão: " + sel.GroupColumns[0],
		Label:  sel.GroupColumns[0],
		Rows:   ranking,
		Colors: colors,
	}
}
