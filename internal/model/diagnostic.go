package model

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// FailureKind 被容忍的失败类型
type FailureKind string

const (
	FailureTransport FailureKind = "transport" // 网络错误、超时
	FailureStatus    FailureKind = "status"    // 非 2xx
	FailureParse     FailureKind = "parse"     // 响应结构/HTML 解析失败
	FailurePage      FailureKind = "page"      // 单个详情页失败
	FailurePanic     FailureKind = "panic"     // 单个来源内部 panic
	FailureCanceled  FailureKind = "canceled"  // 调用方取消或超时
)

// SourceError 适配器返回的带分类的错误
type SourceError struct {
	Source string
	Kind   FailureKind
	URL    string
	Err    error
}

func (e *SourceError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("%s: %s %s: %v", e.Source, e.Kind, e.URL, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Source, e.Kind, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// NewSourceError 构造 SourceError
func NewSourceError(source string, kind FailureKind, url string, err error) *SourceError {
	return &SourceError{Source: source, Kind: kind, URL: url, Err: err}
}

// KindOf 取错误分类，非 SourceError 时按 transport 处理
func KindOf(err error) FailureKind {
	var se *SourceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return FailureTransport
}

// Diagnostic 一次被容忍的失败，发往可观测性通道
type Diagnostic struct {
	CycleID string      `json:"cycle_id,omitempty"`
	Source  string      `json:"source"`
	Kind    FailureKind `json:"kind"`
	URL     string      `json:"url,omitempty"`
	Cause   string      `json:"cause"`
	At      time.Time   `json:"at"`
}

type cycleIDKey struct{}

// WithCycleID 把聚合周期 ID 放进 context，供下游上报诊断时关联
func WithCycleID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, cycleIDKey{}, id)
}

// CycleIDFrom 取出聚合周期 ID，没有时为空串
func CycleIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(cycleIDKey{}).(string)
	return id
}
