package report

import (
	"time"

	"github.com/xuri/excelize/v2"

	"kpidash/internal/model"
)

// 报表固定结构：两个工作表 + 下载文件名
const (
	SheetData = "Dados"
	SheetKPIs = "KPIs"

	Filename = "relatorio_kpis.xlsx"
	MIMEType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Build 生成两表报表并返回字节
// "Dados" 写入完整原始表（全部列，无行号），"KPIs" 写入
// Métrica/Valor 两列的四项指标。相同输入产出确定相同。
func Build(ds *model.Dataset, kpis model.KPISummary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetData); err != nil {
		return nil, model.NewError(model.ErrSerialization, "failed to name data sheet", err)
	}
	if _, err := f.NewSheet(SheetKPIs); err != nil {
		return nil, model.NewError(model.ErrSerialization, "failed to create kpi sheet", err)
	}

	if err := writeDataSheet(f, ds); err != nil {
		return nil, err
	}
	if err := writeKPISheet(f, kpis); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, model.NewError(model.ErrSerialization, "failed to encode workbook", err)
	}
	return buf.Bytes(), nil
}

func writeDataSheet(f *excelize.File, ds *model.Dataset) error {
	header := make([]any, len(ds.Columns))
	for i, c := range ds.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetData, "A1", &header); err != nil {
		return model.NewError(model.ErrSerialization, "failed to write header row", err)
	}

	for i, row := range ds.Rows {
		out := make([]any, len(row))
		for j, v := range row {
			out[j] = exportCell(v)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return model.NewError(model.ErrSerialization, "failed to compute cell name", err)
		}
		if err := f.SetSheetRow(SheetData, cell, &out); err != nil {
			return model.NewError(model.ErrSerialization, "failed to write data row", err)
		}
	}
	return nil
}

func writeKPISheet(f *excelize.File, kpis model.KPISummary) error {
	rows := [][]any{
		{"Métrica", "Valor"},
		{"Total acumulado", kpis.Total},
		{"Média", kpis.Mean},
		{"Última leitura", kpis.Latest},
		{"Variação", kpis.Delta},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return model.NewError(model.ErrSerialization, "failed to compute cell name", err)
		}
		r := row
		if err := f.SetSheetRow(SheetKPIs, cell, &r); err != nil {
			return model.NewError(model.ErrSerialization, "failed to write kpi row", err)
		}
	}
	return nil
}

// exportCell 时间值写为固定格式字符串，其余按原值写入
func exportCell(v any) any {
	if t, ok := v.(time.Time); ok {
		return t.Format("2006-01-02 15:04:05")
	}
	return v
}
