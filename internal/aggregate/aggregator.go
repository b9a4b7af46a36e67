package aggregate

import (
	"sort"
	"time"

	"kpidash/internal/model"
)

// MaxRankingRows 排行榜最多保留的分组数
const MaxRankingRows = 10

// Aggregator 指标聚合器
// 每次调用都从头重算，只有时间列解析结果做记忆化。
type Aggregator struct {
	coercer *coercer
}

// New 创建聚合器
func New() *Aggregator {
	return &Aggregator{coercer: newCoercer()}
}

// Summarize 计算 KPI 汇总
// 行按时间列升序稳定排序（时间相同保持原行序），
// Latest 取末行，Previous 取倒数第二行；单行表 Previous == Latest。
func (a *Aggregator) Summarize(ds *model.Dataset, sel model.ColumnSelection) (model.KPISummary, error) {
	var summary model.KPISummary

	if err := ValidateSelection(ds, sel); err != nil {
		return summary, err
	}

	times, err := a.coercer.coerce(ds, sel.TimeColumn)
	if err != nil {
		return summary, err
	}

	metricIdx := ds.ColumnIndex(sel.MetricColumn)
	n := ds.RowCount()

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return times[order[i]].Before(times[order[j]])
	})

	var total float64
	for _, row := range ds.Rows {
		v, _ := model.CellFloat(row[metricIdx])
		total += v
	}

	summary.Total = total
	summary.Mean = total / float64(n)
	summary.Latest, _ = model.CellFloat(ds.Rows[order[n-1]][metricIdx])
	if n > 1 {
		summary.Previous, _ = model.CellFloat(ds.Rows[order[n-2]][metricIdx])
	} else {
		summary.Previous = summary.Latest
	}
	summary.Delta = summary.Latest - summary.Previous

	return summary, nil
}

// Rank 按第一个分组维度求前十排行
// 组内求和，按合计降序排序；合计相同按分组首次出现顺序。
// 未选分组维度时返回 nil（排行榜整体缺席）。
func (a *Aggregator) Rank(ds *model.Dataset, sel model.ColumnSelection) ([]model.RankingRow, error) {
	if len(sel.GroupColumns) == 0 {
		return nil, nil
	}
	if err := ValidateSelection(ds, sel); err != nil {
		return nil, err
	}

	groupIdx := ds.ColumnIndex(sel.GroupColumns[0])
	metricIdx := ds.ColumnIndex(sel.MetricColumn)

	totals := make(map[string]float64)
	firstSeen := make(map[string]int)
	var keys []string

	for _, row := range ds.Rows {
		key := model.CellString(row[groupIdx])
		v, _ := model.CellFloat(row[metricIdx])
		if _, ok := totals[key]; !ok {
			firstSeen[key] = len(keys)
			keys = append(keys, key)
		}
		totals[key] += v
	}

	sort.SliceStable(keys, func(i, j int) bool {
		ti, tj := totals[keys[i]], totals[keys[j]]
		if ti != tj {
			return ti > tj
		}
		return firstSeen[keys[i]] < firstSeen[keys[j]]
	})

	if len(keys) > MaxRankingRows {
		keys = keys[:MaxRankingRows]
	}

	ranking := make([]model.RankingRow, 0, len(keys))
	for _, k := range keys {
		ranking = append(ranking, model.RankingRow{Group: k, Total: totals[k]})
	}
	return ranking, nil
}

// TimeSeries 返回按时间升序排列的 (时间, 指标) 点列
// 供折线图使用，排序规则与 Summarize 一致。
func (a *Aggregator) TimeSeries(ds *model.Dataset, sel model.ColumnSelection) ([]time.Time, []float64, error) {
	if err := ValidateSelection(ds, sel); err != nil {
		return nil, nil, err
	}

	times, err := a.coercer.coerce(ds, sel.TimeColumn)
	if err != nil {
		return nil, nil, err
	}

	metricIdx := ds.ColumnIndex(sel.MetricColumn)

	order := make([]int, ds.RowCount())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return times[order[i]].Before(times[order[j]])
	})

	outT := make([]time.Time, len(order))
	outV := make([]float64, len(order))
	for i, idx := range order {
		outT[i] = times[idx]
		outV[i], _ = model.CellFloat(ds.Rows[idx][metricIdx])
	}
	return outT, outV, nil
}
