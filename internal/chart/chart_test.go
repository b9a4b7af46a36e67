package chart

import (
	"bytes"
	"testing"
	"time"

	"kpidash/internal/model"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func testSelection() model.ColumnSelection {
	return model.ColumnSelection{
		TimeColumn:   "date",
		MetricColumn: "sales",
		GroupColumns: []string{"region"},
	}
}

// TestBuildLine 折线图描述
func TestBuildLine(t *testing.T) {
	times := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	values := []float64{10, 20}

	spec := BuildLine(testSelection(), times, values)
	if spec == nil {
		t.Fatal("BuildLine returned nil")
	}
	if len(spec.Points) != 2 {
		t.Errorf("points = %d, want 2", len(spec.Points))
	}
	if spec.Points[1].Value != 20 {
		t.Errorf("point value = %v, want 20", spec.Points[1].Value)
	}

	if BuildLine(testSelection(), nil, nil) != nil {
		t.Error("empty series should yield nil spec")
	}
}

// TestBuildBar 条形图描述：分组为空时图表缺席
func TestBuildBar(t *testing.T) {
	ranking := []model.RankingRow{
		{Group: "B", Total: 20},
		{Group: "A", Total: 15},
	}

	spec := BuildBar(testSelection(), ranking)
	if spec == nil {
		t.Fatal("BuildBar returned nil")
	}
	if spec.Title != "Top 10 por dimensão: region" {
		t.Errorf("title = %q", spec.Title)
	}
	if len(spec.Colors) != 2 {
		t.Errorf("colors = %d, want 2", len(spec.Colors))
	}

	noGroups := testSelection()
	noGroups.GroupColumns = nil
	if BuildBar(noGroups, ranking) != nil {
		t.Error("no grouping selection should yield nil spec")
	}
	if BuildBar(testSelection(), nil) != nil {
		t.Error("empty ranking should yield nil spec")
	}
}

// TestRenderLinePNG 渲染冒烟测试（含单点系列）
func TestRenderLinePNG(t *testing.T) {
	spec := BuildLine(testSelection(),
		[]time.Time{time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		[]float64{42})

	png, err := RenderLinePNG(spec)
	if err != nil {
		t.Fatalf("RenderLinePNG failed: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Error("output is not a PNG")
	}

	if _, err := RenderLinePNG(nil); err == nil {
		t.Error("nil spec should fail")
	}
}

// TestRenderBarPNG 渲染冒烟测试
func TestRenderBarPNG(t *testing.T) {
	spec := BuildBar(testSelection(), []model.RankingRow{
		{Group: "B", Total: 20},
		{Group: "A", Total: 15},
	})

	png, err := RenderBarPNG(spec)
	if err != nil {
		t.Fatalf("RenderBarPNG failed: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Error("output is not a PNG")
	}

	if _, err := RenderBarPNG(nil); err == nil {
		t.Error("nil spec should fail")
	}
}
