package service

import (
	"sync"

	"StreamSync/internal/interfaces"
	"StreamSync/internal/model"

	"github.com/sirupsen/logrus"
)

// LogSink 把诊断写入 logrus（Warn 级别）
type LogSink struct {
	logger *logrus.Logger
}

func NewLogSink(logger *logrus.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Report(d model.Diagnostic) {
	fields := logrus.Fields{
		"source": d.Source,
		"kind":   d.Kind,
	}
	if d.CycleID != "" {
		fields["cycle_id"] = d.CycleID
	}
	if d.URL != "" {
		fields["url"] = d.URL
	}
	s.logger.WithFields(fields).Warn("来源失败已忽略: " + d.Cause)
}

// Recorder 在内存中保留诊断，最多 limit 条（<=0 不限）
type Recorder struct {
	mu    sync.Mutex
	limit int
	items []model.Diagnostic
}

func NewRecorder(limit int) *Recorder {
	return &Recorder{limit: limit}
}

func (r *Recorder) Report(d model.Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, d)
	if r.limit > 0 && len(r.items) > r.limit {
		r.items = append([]model.Diagnostic(nil), r.items[len(r.items)-r.limit:]...)
	}
}

// Snapshot 返回当前诊断副本，没有记录时为空切片而不是 nil
func (r *Recorder) Snapshot() []model.Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Diagnostic, len(r.items))
	copy(out, r.items)
	return out
}

// MultiSink 扇出到多个 sink
type MultiSink []interfaces.DiagnosticSink

func (m MultiSink) Report(d model.Diagnostic) {
	for _, s := range m {
		if s != nil {
			s.Report(d)
		}
	}
}
