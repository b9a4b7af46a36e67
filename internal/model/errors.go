package model

import (
	"errors"
	"fmt"
)

// ErrKind 管道错误分类
type ErrKind string

const (
	ErrParse         ErrKind = "ParseError"         // 上传文件格式错误
	ErrConnection    ErrKind = "ConnectionError"    // 数据库连接失败
	ErrQuery         ErrKind = "QueryError"         // SQL 查询无效或对象不存在
	ErrTypeCoercion  ErrKind = "TypeCoercionError"  // 时间列无法解析
	ErrSerialization ErrKind = "SerializationError" // 报表写出失败
)

// ErrAwaitingInput 必要输入尚未齐全（不是错误，是等待状态）
var ErrAwaitingInput = errors.New("awaiting input")

// PipelineError 带分类的管道错误
// 所有分类对当前这一轮运行都是终止性的，不自动重试。
type PipelineError struct {
	Kind ErrKind
	Msg  string
	Err  error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// NewError 创建分类错误
func NewError(kind ErrKind, msg string, err error) *PipelineError {
	return &PipelineError{Kind: kind, Msg: msg, Err: err}
}

// Errorf 创建分类错误（格式化消息，无底层错误）
func Errorf(kind ErrKind, format string, args ...any) *PipelineError {
	return &PipelineError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf 取出错误分类，非管道错误返回空串
func KindOf(err error) ErrKind {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}
