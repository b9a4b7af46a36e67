package source

import (
	"strconv"
	"strings"

	"kpidash/internal/model"
)

// inferDataset 从表头 + 字符串矩阵构建 Dataset
// 逐列推断类型：整列（忽略空值）可解析为数值则为 numeric，
// 可解析为时间则为 date，否则为 text。单元格按推断结果转换。
func inferDataset(header []string, records [][]string) *model.Dataset {
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.TrimSpace(h)
	}

	types := make([]model.ColumnType, len(cols))
	for i := range cols {
		types[i] = inferColumnType(records, i)
	}

	rows := make([][]any, 0, len(records))
	for _, rec := range records {
		row := make([]any, len(cols))
		for i := range cols {
			var raw string
			if i < len(rec) {
				raw = strings.TrimSpace(rec[i])
			}
			row[i] = convertCell(raw, types[i])
		}
		rows = append(rows, row)
	}

	return &model.Dataset{
		Columns: cols,
		Types:   types,
		Rows:    rows,
	}
}

func inferColumnType(records [][]string, col int) model.ColumnType {
	seen := false
	numeric := true
	date := true

	for _, rec := range records {
		if col >= len(rec) {
			continue
		}
		v := strings.TrimSpace(rec[col])
		if v == "" {
			continue
		}
		seen = true
		if numeric {
			if _, err := strconv.ParseFloat(normalizeNumber(v), 64); err != nil {
				numeric = false
			}
		}
		if date {
			if _, ok := model.ParseTime(v); !ok {
				date = false
			}
		}
		if !numeric && !date {
			break
		}
	}

	if !seen {
		return model.TypeText
	}
	if numeric {
		return model.TypeNumeric
	}
	if date {
		return model.TypeDate
	}
	return model.TypeText
}

func convertCell(raw string, t model.ColumnType) any {
	if raw == "" {
		switch t {
		case model.TypeNumeric:
			return float64(0)
		default:
			return ""
		}
	}
	switch t {
	case model.TypeNumeric:
		f, err := strconv.ParseFloat(normalizeNumber(raw), 64)
		if err != nil {
			return float64(0)
		}
		return f
	case model.TypeDate:
		if ts, ok := model.ParseTime(raw); ok {
			return ts
		}
		return raw
	default:
		return raw
	}
}

// normalizeNumber 去掉千分位逗号，如 "1,234.5"
func normalizeNumber(s string) string {
	if strings.Count(s, ",") > 0 && strings.Contains(s, ".") {
		return strings.ReplaceAll(s, ",", "")
	}
	return s
}
