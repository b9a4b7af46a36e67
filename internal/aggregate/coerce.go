package aggregate

import (
	"sync"
	"time"

	"kpidash/internal/model"
)

// coercer 时间列解析结果的记忆化缓存
// 键为 (数据集指纹, 时间列)；同一展示周期内避免重复解析整列。
type coercer struct {
	mu    sync.Mutex
	cache map[string][]time.Time
}

func newCoercer() *coercer {
	return &coercer{cache: make(map[string][]time.Time)}
}

// coerce 把时间列逐行解析为时间戳
// 任意一行解析失败即 TypeCoercionError，不静默丢行。
func (c *coercer) coerce(ds *model.Dataset, timeCol string) ([]time.Time, error) {
	key := ds.Fingerprint + "|" + timeCol

	c.mu.Lock()
	if ts, ok := c.cache[key]; ok && ds.Fingerprint != "" {
		c.mu.Unlock()
		return ts, nil
	}
	c.mu.Unlock()

	idx := ds.ColumnIndex(timeCol)
	if idx < 0 {
		return nil, model.Errorf(model.ErrTypeCoercion, "time column %q not found", timeCol)
	}

	ts := make([]time.Time, len(ds.Rows))
	for i, row := range ds.Rows {
		switch v := row[idx].(type) {
		case time.Time:
			ts[i] = v
		case string:
			parsed, ok := model.ParseTime(v)
			if !ok {
				return nil, model.Errorf(model.ErrTypeCoercion, "row %d: cannot parse %q as time", i+1, v)
			}
			ts[i] = parsed
		case float64:
			// 数值时间戳按 Unix 秒处理
			ts[i] = time.Unix(int64(v), 0).UTC()
		default:
			return nil, model.Errorf(model.ErrTypeCoercion, "row %d: unsupported time value %v", i+1, v)
		}
	}

	if ds.Fingerprint != "" {
		c.mu.Lock()
		c.cache[key] = ts
		c.mu.Unlock()
	}

	return ts, nil
}
