package aggregate

import (
	"fmt"

	"kpidash/internal/model"
)

// Options 列选择器的可选项
// 时间列可选全部列，指标列只可选数值列，
// 分组维度是除已选两列外的全部列。纯函数，不做额外校验。
func Options(ds *model.Dataset, sel model.ColumnSelection) model.ColumnOptions {
	opts := model.ColumnOptions{
		All:       append([]string(nil), ds.Columns...),
		Numeric:   []string{},
		Groupable: []string{},
	}

	for _, c := range ds.Columns {
		if ds.IsNumeric(c) {
			opts.Numeric = append(opts.Numeric, c)
		}
		if c != sel.TimeColumn && c != sel.MetricColumn {
			opts.Groupable = append(opts.Groupable, c)
		}
	}

	return opts
}

// ValidateSelection 校验列选择对给定数据集是否成立
func ValidateSelection(ds *model.Dataset, sel model.ColumnSelection) error {
	if ds.ColumnIndex(sel.TimeColumn) < 0 {
		return fmt.Errorf("time column %q not found", sel.TimeColumn)
	}
	if ds.ColumnIndex(sel.MetricColumn) < 0 {
		return fmt.Errorf("metric column %q not found", sel.MetricColumn)
	}
	if !ds.IsNumeric(sel.MetricColumn) {
		return fmt.Errorf("metric column %q is not numeric", sel.MetricColumn)
	}
	for _, g := range sel.GroupColumns {
		if g == sel.TimeColumn || g == sel.MetricColumn {
			return fmt.Errorf("group column %q overlaps time/metric selection", g)
		}
		if ds.ColumnIndex(g) < 0 {
			return fmt.Errorf("group column %q not found", g)
		}
	}
	return nil
}
