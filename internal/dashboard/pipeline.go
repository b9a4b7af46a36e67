package dashboard

import (
	"errors"
	"time"

	"kpidash/internal/aggregate"
	"kpidash/internal/chart"
	"kpidash/internal/model"
	"kpidash/internal/source"
)

// 刷新间隔约束（秒）
const (
	MinRefreshSeconds     = 1
	DefaultRefreshSeconds = 10
)

// AwaitingMessage 等待输入时的占位提示
const AwaitingMessage = "Aguardando a seleção e carregamento da fonte de dados..."

// RunConfig 一轮管道运行的完整输入
// 不可变快照：数据源请求 + 列选择 + 刷新间隔。
// 每次交互或定时触发都重建一份传入，不存在全局可变状态。
type RunConfig struct {
	Source         source.Request
	Selection      model.ColumnSelection
	RefreshSeconds int
}

// Normalized 补齐默认值并套用下限
func (c RunConfig) Normalized() RunConfig {
	if c.RefreshSeconds == 0 {
		c.RefreshSeconds = DefaultRefreshSeconds
	}
	if c.RefreshSeconds < MinRefreshSeconds {
		c.RefreshSeconds = MinRefreshSeconds
	}
	return c
}

// 视图状态
const (
	StateAwaiting = "awaiting" // 必要输入未齐全
	StateReady    = "ready"    // 正常产出
	StateError    = "error"    // 本轮运行终止于错误
)

// View 一轮管道运行的产出
// 出错的部分以 Message 占位，其余部分照常产出；
// 会话本身不崩溃，用户修正输入后重新触发即可。
type View struct {
	State          string                `json:"state"`
	Message        string                `json:"message,omitempty"`
	ErrorKind      string                `json:"errorKind,omitempty"`
	Columns        *model.ColumnOptions  `json:"columns,omitempty"`
	Selection      model.ColumnSelection `json:"selection"`
	RowCount       int                   `json:"rowCount"`
	KPIs           *model.KPISummary     `json:"kpis,omitempty"`
	Line           *chart.LineSpec       `json:"line,omitempty"`
	Ranking        []model.RankingRow    `json:"ranking,omitempty"`
	Bar            *chart.BarSpec        `json:"bar,omitempty"`
	RefreshSeconds int                   `json:"refreshSeconds"`
	GeneratedAt    time.Time             `json:"generatedAt"`
}

// Pipeline 仪表盘管道：加载 → 选列 → 聚合 → 出图
// 除加载缓存和时间列解析缓存外无状态，Run 是输入的纯函数。
type Pipeline struct {
	agg   *aggregate.Aggregator
	cache *loadCache
}

// NewPipeline 创建管道
func NewPipeline() *Pipeline {
	return &Pipeline{
		agg:   aggregate.New(),
		cache: newLoadCache(),
	}
}

// Run 执行一轮完整管道
func (p *Pipeline) Run(cfg RunConfig) *View {
	cfg = cfg.Normalized()
	view := &View{
		Selection:      cfg.Selection,
		RefreshSeconds: cfg.RefreshSeconds,
		GeneratedAt:    time.Now(),
	}

	ds, err := p.load(cfg.Source)
	if err != nil {
		if errors.Is(err, model.ErrAwaitingInput) {
			view.State = StateAwaiting
			view.Message = AwaitingMessage
			return view
		}
		view.State = StateError
		view.Message = err.Error()
		view.ErrorKind = string(model.KindOf(err))
		return view
	}

	sel := defaultSelection(ds, cfg.Selection)
	view.Selection = sel
	view.RowCount = ds.RowCount()

	opts := aggregate.Options(ds, sel)
	view.Columns = &opts

	kpis, err := p.agg.Summarize(ds, sel)
	if err != nil {
		view.State = StateError
		view.Message = err.Error()
		view.ErrorKind = string(model.KindOf(err))
		return view
	}
	view.KPIs = &kpis

	times, values, err := p.agg.TimeSeries(ds, sel)
	if err == nil {
		view.Line = chart.BuildLine(sel, times, values)
	}

	ranking, err := p.agg.Rank(ds, sel)
	if err != nil {
		view.State = StateError
		view.Message = err.Error()
		view.ErrorKind = string(model.KindOf(err))
		return view
	}
	view.Ranking = ranking
	view.Bar = chart.BuildBar(sel, ranking)

	view.State = StateReady
	return view
}

// Dataset 返回当前缓存的数据集（未加载返回 nil）
func (p *Pipeline) Dataset(cfg RunConfig) *model.Dataset {
	ds, ok := p.cache.get(cfg.Source.Fingerprint())
	if !ok {
		return nil
	}
	return ds
}

// load 带指纹缓存的加载：指纹未变直接复用，变了重新读源
func (p *Pipeline) load(req source.Request) (*model.Dataset, error) {
	if !req.Complete() {
		p.cache.invalidate()
		return nil, model.ErrAwaitingInput
	}

	key := req.Fingerprint()
	if ds, ok := p.cache.get(key); ok {
		return ds, nil
	}

	ds, err := source.Load(req)
	if err != nil {
		return nil, err
	}
	p.cache.put(key, ds)
	return ds, nil
}

// defaultSelection 未选列时套用默认：时间列取第一列，指标列取第一个数值列
// 分组维度剔除与时间/指标重合的列。
func defaultSelection(ds *model.Dataset, sel model.ColumnSelection) model.ColumnSelection {
	if sel.TimeColumn == "" && len(ds.Columns) > 0 {
		sel.TimeColumn = ds.Columns[0]
	}
	if sel.MetricColumn == "" {
		for _, c := range ds.Columns {
			if ds.IsNumeric(c) {
				sel.MetricColumn = c
				break
			}
		}
	}
	groups := sel.GroupColumns[:0:0]
	for _, g := range sel.GroupColumns {
		if g != sel.TimeColumn && g != sel.MetricColumn {
			groups = append(groups, g)
		}
	}
	sel.GroupColumns = groups
	return sel
}
