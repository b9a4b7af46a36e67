package source

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"kpidash/internal/model"
)

// DriverKind 数据库驱动类别
type DriverKind string

const (
	DriverPostgres DriverKind = "postgres" // 网络驱动
	DriverMySQL    DriverKind = "mysql"    // 网络驱动
	DriverSQLite   DriverKind = "sqlite"   // 文件驱动
)

// SQLParams SQL 数据源参数
// 文件驱动只需要 Path；网络驱动需要完整的连接五元组。
type SQLParams struct {
	Driver   DriverKind `json:"driver"`
	Path     string     `json:"path"`
	User     string     `json:"user"`
	Password string     `json:"password"`
	Host     string     `json:"host"`
	Port     string     `json:"port"`
	Database string     `json:"database"`
	Query    string     `json:"query"`
}

// Complete 必要参数是否齐全（不齐全是等待状态，不是错误）
func (p SQLParams) Complete() bool {
	if strings.TrimSpace(p.Query) == "" {
		return false
	}
	switch p.Driver {
	case DriverSQLite:
		return strings.TrimSpace(p.Path) != ""
	case DriverPostgres, DriverMySQL:
		return p.User != "" && p.Password != "" && p.Host != "" && p.Database != ""
	default:
		return false
	}
}

// DSN 组装驱动名和连接串
func (p SQLParams) DSN() (driverName, dsn string, err error) {
	switch p.Driver {
	case DriverSQLite:
		return "sqlite3", p.Path, nil
	case DriverPostgres:
		port := p.Port
		if port == "" {
			port = "5432"
		}
		return "pgx", fmt.Sprintf("postgres://%s:%s@%s:%s/%s", p.User, p.Password, p.Host, port, p.Database), nil
	case DriverMySQL:
		port := p.Port
		if port == "" {
			port = "3306"
		}
		return "mysql", fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", p.User, p.Password, p.Host, port, p.Database), nil
	default:
		return "", "", fmt.Errorf("unknown driver kind: %s", p.Driver)
	}
}

// LoadSQL 执行查询并返回 Dataset
// 连接和查询各尝试一次，失败直接上报，不重试。
func LoadSQL(p SQLParams) (*model.Dataset, error) {
	if !p.Complete() {
		return nil, model.ErrAwaitingInput
	}

	driverName, dsn, err := p.DSN()
	if err != nil {
		return nil, model.NewError(model.ErrConnection, "invalid connection parameters", err)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, model.NewError(model.ErrConnection, "failed to open database", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return nil, model.NewError(model.ErrConnection, "failed to ping database", err)
	}

	rows, err := db.Query(p.Query)
	if err != nil {
		return nil, model.NewError(model.ErrQuery, "query failed", err)
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, model.NewError(model.ErrQuery, "failed to read result columns", err)
	}

	var records [][]string
	values := make([]any, len(header))
	ptrs := make([]any, len(header))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, model.NewError(model.ErrQuery, "failed to scan row", err)
		}
		rec := make([]string, len(header))
		for i, v := range values {
			rec[i] = sqlValueString(v)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, model.NewError(model.ErrQuery, "failed to iterate rows", err)
	}

	return inferDataset(header, records), nil
}

func sqlValueString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case time.Time:
		return x.Format("2006-01-02 15:04:05")
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
