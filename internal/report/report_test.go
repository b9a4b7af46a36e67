package report

import (
	"bytes"
	"math"
	"reflect"
	"strconv"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"kpidash/internal/model"
)

func testDataset() *model.Dataset {
	return &model.Dataset{
		Columns: []string{"date", "region", "sales"},
		Types:   []model.ColumnType{model.TypeDate, model.TypeText, model.TypeNumeric},
		Rows: [][]any{
			{time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "A", float64(10)},
			{time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), "B", float64(20)},
			{time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), "A", float64(5)},
		},
	}
}

func testKPIs() model.KPISummary {
	return model.KPISummary{Total: 35, Mean: 35.0 / 3.0, Latest: 5, Previous: 20, Delta: -15}
}

// TestBuildRoundTrip 报表回读：Dados 行列一致，KPIs 四项指标一致
func TestBuildRoundTrip(t *testing.T) {
	ds := testDataset()
	kpis := testKPIs()

	data, err := Build(ds, kpis)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if !reflect.DeepEqual(sheets, []string{SheetData, SheetKPIs}) {
		t.Errorf("sheets = %v, want [Dados KPIs]", sheets)
	}

	rows, err := f.GetRows(SheetData)
	if err != nil {
		t.Fatalf("GetRows(Dados) failed: %v", err)
	}
	if len(rows) != ds.RowCount()+1 {
		t.Errorf("Dados rows = %d, want %d", len(rows), ds.RowCount()+1)
	}
	if !reflect.DeepEqual(rows[0], ds.Columns) {
		t.Errorf("Dados header = %v, want %v", rows[0], ds.Columns)
	}

	kpiRows, err := f.GetRows(SheetKPIs)
	if err != nil {
		t.Fatalf("GetRows(KPIs) failed: %v", err)
	}
	if len(kpiRows) != 5 {
		t.Fatalf("KPIs rows = %d, want 5 (header + 4 metrics)", len(kpiRows))
	}

	wantMetrics := map[string]float64{
		"Total acumulado": kpis.Total,
		"Média":           kpis.Mean,
		"Última leitura":  kpis.Latest,
		"Variação":        kpis.Delta,
	}
	for _, row := range kpiRows[1:] {
		if len(row) < 2 {
			t.Fatalf("kpi row too short: %v", row)
		}
		want, ok := wantMetrics[row[0]]
		if !ok {
			t.Errorf("unexpected metric %q", row[0])
			continue
		}
		got, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			t.Errorf("metric %q value %q not numeric", row[0], row[1])
			continue
		}
		if math.Abs(got-want) > 1e-6 {
			t.Errorf("metric %q = %v, want %v", row[0], got, want)
		}
		delete(wantMetrics, row[0])
	}
	if len(wantMetrics) != 0 {
		t.Errorf("missing metrics: %v", wantMetrics)
	}
}

// TestBuildDeterministic 相同输入产出相同的表内容
func TestBuildDeterministic(t *testing.T) {
	ds := testDataset()
	kpis := testKPIs()

	a, err := Build(ds, kpis)
	if err != nil {
		t.Fatalf("first build failed: %v", err)
	}
	b, err := Build(ds, kpis)
	if err != nil {
		t.Fatalf("second build failed: %v", err)
	}

	fa, err := excelize.OpenReader(bytes.NewReader(a))
	if err != nil {
		t.Fatalf("reopen a: %v", err)
	}
	defer fa.Close()
	fb, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("reopen b: %v", err)
	}
	defer fb.Close()

	for _, sheet := range []string{SheetData, SheetKPIs} {
		ra, _ := fa.GetRows(sheet)
		rb, _ := fb.GetRows(sheet)
		if !reflect.DeepEqual(ra, rb) {
			t.Errorf("sheet %s differs between builds", sheet)
		}
	}
}
