package model

import (
	"fmt"
	"strconv"
	"time"
)

// ColumnType 推断出的列类型
type ColumnType string

const (
	TypeNumeric ColumnType = "numeric"
	TypeText    ColumnType = "text"
	TypeDate    ColumnType = "date"
)

// Dataset 一次加载得到的表格数据
// 所有行共享同一列集合；加载完成后不可变（时间列的类型转换在聚合层做，不回写）。
// 单元格值为 float64、time.Time 或 string。
type Dataset struct {
	Columns     []string     `json:"columns"`
	Types       []ColumnType `json:"types"`
	Rows        [][]any      `json:"rows"`
	Fingerprint string       `json:"fingerprint"`
}

// RowCount 数据行数
func (d *Dataset) RowCount() int {
	return len(d.Rows)
}

// ColumnIndex 列名对应的下标，找不到返回 -1
func (d *Dataset) ColumnIndex(name string) int {
	for i, c := range d.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// ColumnTypeOf 列的推断类型，列不存在返回 TypeText
func (d *Dataset) ColumnTypeOf(name string) ColumnType {
	i := d.ColumnIndex(name)
	if i < 0 {
		return TypeText
	}
	return d.Types[i]
}

// IsNumeric 列是否为数值列
func (d *Dataset) IsNumeric(name string) bool {
	return d.ColumnTypeOf(name) == TypeNumeric
}

// CellString 单元格的字符串表示（用于分组键和报表输出）
func CellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		return x.Format("2006-01-02 15:04:05")
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// CellFloat 单元格的数值表示
func CellFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	default:
		return 0, false
	}
}
