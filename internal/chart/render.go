package chart

import (
	"bytes"
	"fmt"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// RenderLinePNG 服务端渲染时间序列折线图
func RenderLinePNG(spec *LineSpec) ([]byte, error) {
	if spec == nil || len(spec.Points) == 0 {
		return nil, fmt.Errorf("no line data to render")
	}

	xs := make([]time.Time, len(spec.Points))
	ys := make([]float64, len(spec.Points))
	for i, p := range spec.Points {
		xs[i] = p.Time
		ys[i] = p.Value
	}
	// go-chart 要求每个系列至少两个点
	if len(xs) == 1 {
		xs = append(xs, xs[0].Add(time.Second))
		ys = append(ys, ys[0])
	}

	stroke := drawing.ColorFromHex(spec.Color[1:])
	c := gochart.Chart{
		Title:  spec.Title,
		Width:  900,
		Height: 320,
		XAxis:  gochart.XAxis{Name: spec.XLabel},
		YAxis:  gochart.YAxis{Name: spec.YLabel, Range: yRange(ys)},
		Series: []gochart.Series{
			gochart.TimeSeries{
				Name:    spec.YLabel,
				XValues: xs,
				YValues: ys,
				Style: gochart.Style{
					StrokeColor: stroke,
					StrokeWidth: 2,
					DotColor:    stroke,
					DotWidth:    3,
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := c.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render line chart: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderBarPNG 服务端渲染排行榜条形图
func RenderBarPNG(spec *BarSpec) ([]byte, error) {
	if spec == nil || len(spec.Rows) == 0 {
		return nil, fmt.Errorf("no ranking data to render")
	}

	bars := make([]gochart.Value, len(spec.Rows))
	for i, r := range spec.Rows {
		bars[i] = gochart.Value{
			Label: r.Group,
			Value: r.Total,
			Style: gochart.Style{
				FillColor:   drawing.ColorFromHex(spec.Colors[i%len(spec.Colors)][1:]),
				StrokeWidth: 0,
			},
		}
	}

	values := make([]float64, len(spec.Rows))
	for i, r := range spec.Rows {
		values[i] = r.Total
	}

	c := gochart.BarChart{
		Title:    spec.Title,
		Width:    900,
		Height:   320,
		BarWidth: 40,
		Bars:     bars,
		YAxis:    gochart.YAxis{Range: yRange(values)},
	}

	var buf bytes.Buffer
	if err := c.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render bar chart: %w", err)
	}
	return buf.Bytes(), nil
}

// yRange 显式给定值域
// 所有值相同时 go-chart 的自动值域为零宽，会拒绝渲染。
func yRange(values []float64) gochart.Range {
	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if min == max {
		min, max = min-1, max+1
	}
	pad := (max - min) * 0.05
	return &gochart.ContinuousRange{Min: min - pad, Max: max + pad}
}
