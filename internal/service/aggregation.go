package service

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"

	"StreamSync/internal/interfaces"
	"StreamSync/internal/model"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNoSources 没有配置任何来源
	ErrNoSources = errors.New("no sources configured")
	// ErrCycleAborted 调用方在所有来源结束前取消
	ErrCycleAborted = errors.New("aggregation cycle aborted")
	// ErrEventNotFound 单赛事查询未命中
	ErrEventNotFound = errors.New("event not found")
)

// Option Aggregator 可选项
type Option func(*Aggregator)

// WithLogger 指定 logger
func WithLogger(logger *logrus.Logger) Option {
	return func(a *Aggregator) { a.logger = logger }
}

// WithSink 指定诊断通道，默认写日志
func WithSink(sink interfaces.DiagnosticSink) Option {
	return func(a *Aggregator) { a.sink = sink }
}

// WithClock 指定当前时间来源，测试用
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// Aggregator 聚合周期编排：并发拉取赛程与直播流，失败的来源只贡献空结果
type Aggregator struct {
	units      []interfaces.ProviderUnit
	extractors []interfaces.StreamExtractor
	sink       interfaces.DiagnosticSink
	logger     *logrus.Logger
	now        func() time.Time
}

// CycleResult 一个周期收集到的原始结果，按配置顺序合并
type CycleResult struct {
	CycleID  string
	Now      time.Time
	Events   []model.Event
	Streams  []model.RawStream
	Failures int
}

func NewAggregator(units []interfaces.ProviderUnit, extractors []interfaces.StreamExtractor, opts ...Option) (*Aggregator, error) {
	if len(units) == 0 && len(extractors) == 0 {
		return nil, ErrNoSources
	}
	a := &Aggregator{
		units:      units,
		extractors: extractors,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = logrus.StandardLogger()
	}
	if a.sink == nil {
		a.sink = NewLogSink(a.logger)
	}
	return a, nil
}

// Collect 执行所有来源单元。每个单元只写自己的结果槽，全部结束后按配置顺序合并，
// 不按完成先后交错
func (a *Aggregator) Collect(ctx context.Context) (*CycleResult, error) {
	cycleID := uuid.NewString()
	ctx = model.WithCycleID(ctx, cycleID)
	now := a.now().UTC()

	eventSlots := make([][]model.Event, len(a.units))
	streamSlots := make([][]model.RawStream, len(a.extractors))
	var failures atomic.Int32

	// 单元失败不取消其他单元，所以不用 WithContext
	var g errgroup.Group
	for i, unit := range a.units {
		g.Go(func() error {
			name := unit.Provider.GetName()
			defer a.recoverUnit(ctx, name, &failures)
			events, err := unit.Provider.FetchEvents(ctx, unit.League, now)
			if err != nil {
				failures.Add(1)
				a.report(ctx, name, err)
				return nil
			}
			eventSlots[i] = events
			return nil
		})
	}
	for i, ex := range a.extractors {
		g.Go(func() error {
			name := ex.GetName()
			defer a.recoverUnit(ctx, name, &failures)
			streams, err := ex.Extract(ctx)
			if err != nil {
				failures.Add(1)
				a.report(ctx, name, err)
				return nil
			}
			streamSlots[i] = streams
			return nil
		})
	}
	_ = g.Wait()

	// 调用方断开才中止；期限到达时未完成的单元已按 canceled 上报，返回已到达的部分结果
	if err := ctx.Err(); errors.Is(err, context.Canceled) {
		return nil, fmt.Errorf("%w: %v", ErrCycleAborted, err)
	} else if err != nil {
		a.logger.WithFields(logrus.Fields{
			"cycle_id": cycleID,
			"failures": failures.Load(),
		}).Warn("请求期限已到，返回部分结果")
	}

	return &CycleResult{
		CycleID:  cycleID,
		Now:      now,
		Events:   lo.Flatten(eventSlots),
		Streams:  lo.Flatten(streamSlots),
		Failures: int(failures.Load()),
	}, nil
}

// Run 完整周期：收集 → 去重 → 匹配
func (a *Aggregator) Run(ctx context.Context) ([]model.MatchedEvent, error) {
	start := time.Now()
	res, err := a.Collect(ctx)
	if err != nil {
		a.logger.WithError(err).Warn("聚合周期中止")
		return nil, err
	}
	unique := Dedup(res.Streams)
	matched := Match(res.Events, unique)

	a.logger.WithFields(logrus.Fields{
		"cycle_id":       res.CycleID,
		"events":         len(res.Events),
		"raw_streams":    len(res.Streams),
		"unique_streams": len(unique),
		"failures":       res.Failures,
		"duration":       time.Since(start).String(),
	}).Info("聚合周期完成")
	return matched, nil
}

// Find 跑一次完整周期后按 id 过滤
func (a *Aggregator) Find(ctx context.Context, id string) (*model.MatchedEvent, error) {
	matched, err := a.Run(ctx)
	if err != nil {
		return nil, err
	}
	ev, ok := lo.Find(matched, func(m model.MatchedEvent) bool { return m.ID == id })
	if !ok {
		return nil, ErrEventNotFound
	}
	return &ev, nil
}

// SourceNames 按合并顺序列出来源单元
func (a *Aggregator) SourceNames() []string {
	names := make([]string, 0, len(a.units)+len(a.extractors))
	for _, u := range a.units {
		names = append(names, u.Provider.GetName()+"/"+u.League.ID)
	}
	for _, ex := range a.extractors {
		names = append(names, ex.GetName())
	}
	return names
}

func (a *Aggregator) report(ctx context.Context, source string, err error) {
	url := ""
	var se *model.SourceError
	if errors.As(err, &se) {
		url = se.URL
	}
	kind := model.KindOf(err)
	if ctx.Err() != nil {
		kind = model.FailureCanceled
	}
	a.sink.Report(model.Diagnostic{
		CycleID: model.CycleIDFrom(ctx),
		Source:  source,
		Kind:    kind,
		URL:     url,
		Cause:   err.Error(),
		At:      a.now().UTC(),
	})
}

// recoverUnit 单个来源 panic 时降级为诊断
func (a *Aggregator) recoverUnit(ctx context.Context, source string, failures *atomic.Int32) {
	if r := recover(); r != nil {
		failures.Add(1)
		a.logger.WithField("source", source).Debugf("来源 panic 堆栈:\n%s", debug.Stack())
		a.report(ctx, source, model.NewSourceError(source, model.FailurePanic, "", fmt.Errorf("panic: %v", r)))
	}
}
