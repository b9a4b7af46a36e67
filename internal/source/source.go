package source

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"

	"kpidash/internal/model"
)

// Kind 数据源类别
type Kind string

const (
	KindCSV   Kind = "csv"
	KindExcel Kind = "excel"
	KindSQL   Kind = "sql"
)

// Request 一次数据加载请求
// 上传类携带文件内容，SQL 类携带连接参数；内容不可变，
// Fingerprint 覆盖全部输入，作为加载缓存的键。
type Request struct {
	Kind     Kind
	Filename string
	Content  []byte
	SQL      SQLParams
}

// KindForFilename 按扩展名识别上传类别，未知返回空
func KindForFilename(name string) Kind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return KindCSV
	case ".xlsx":
		return KindExcel
	default:
		return ""
	}
}

// Complete 必要输入是否齐全
func (r Request) Complete() bool {
	switch r.Kind {
	case KindCSV, KindExcel:
		return len(r.Content) > 0
	case KindSQL:
		return r.SQL.Complete()
	default:
		return false
	}
}

// Fingerprint 数据源指纹：类别 + 参数 + 上传内容的 SHA-256
func (r Request) Fingerprint() string {
	h := sha256.New()
	h.Write([]byte(r.Kind))
	h.Write([]byte{0})
	h.Write([]byte(r.Filename))
	h.Write([]byte{0})
	h.Write(r.Content)
	h.Write([]byte{0})
	p := r.SQL
	for _, s := range []string{string(p.Driver), p.Path, p.User, p.Password, p.Host, p.Port, p.Database, p.Query} {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Load 解析请求对应的数据源
// 输入不齐全返回 ErrAwaitingInput；加载结果为零行同样视为"无数据"。
// 每次调用只尝试一次 I/O，不重试。
func Load(r Request) (*model.Dataset, error) {
	if !r.Complete() {
		return nil, model.ErrAwaitingInput
	}

	var (
		ds  *model.Dataset
		err error
	)
	switch r.Kind {
	case KindCSV:
		ds, err = LoadCSV(bytes.NewReader(r.Content))
	case KindExcel:
		ds, err = LoadExcel(bytes.NewReader(r.Content))
	case KindSQL:
		ds, err = LoadSQL(r.SQL)
	default:
		return nil, model.ErrAwaitingInput
	}
	if err != nil {
		return nil, err
	}

	if ds.RowCount() == 0 {
		return nil, model.ErrAwaitingInput
	}

	ds.Fingerprint = r.Fingerprint()
	return ds, nil
}
