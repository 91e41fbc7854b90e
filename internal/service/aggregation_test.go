package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"StreamSync/internal/interfaces"
	"StreamSync/internal/model"

	"github.com/sirupsen/logrus"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeProvider struct {
	name   string
	events []model.Event
	err    error
	delay  time.Duration
	panics bool
}

func (f *fakeProvider) GetName() string { return f.name }

func (f *fakeProvider) FetchEvents(ctx context.Context, _ model.League, _ time.Time) ([]model.Event, error) {
	if f.panics {
		panic("provider exploded")
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.events, f.err
}

type fakeExtractor struct {
	name    string
	streams []model.RawStream
	err     error
	delay   time.Duration
}

func (f *fakeExtractor) GetName() string { return f.name }

func (f *fakeExtractor) Extract(ctx context.Context) ([]model.RawStream, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.streams, f.err
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func unit(p interfaces.EventProvider) interfaces.ProviderUnit {
	return interfaces.ProviderUnit{Provider: p, League: model.League{ID: "1", Name: "L"}}
}

func TestAggregator(t *testing.T) {
	fixed := time.Date(2026, 10, 18, 20, 0, 0, 0, time.UTC)

	Convey("NewAggregator 没有来源时报错", t, func() {
		_, err := NewAggregator(nil, nil)
		So(errors.Is(err, ErrNoSources), ShouldBeTrue)
	})

	Convey("部分来源失败不影响其余结果", t, func() {
		rec := NewRecorder(0)
		a, err := NewAggregator(
			[]interfaces.ProviderUnit{
				unit(&fakeProvider{name: "broken", err: model.NewSourceError("broken", model.FailureStatus, "https://p.example/x", errors.New("HTTP 503"))}),
				unit(&fakeProvider{name: "ok", events: []model.Event{
					{ID: "e1", HomeTeam: "Lakers", AwayTeam: "Celtics"},
					{ID: "e2", HomeTeam: "Heat", AwayTeam: "Bulls"},
				}}),
			},
			nil,
			WithLogger(quietLogger()), WithSink(rec), WithClock(func() time.Time { return fixed }),
		)
		So(err, ShouldBeNil)

		out, err := a.Run(context.Background())
		So(err, ShouldBeNil)
		So(len(out), ShouldEqual, 2)
		So(out[0].ID, ShouldEqual, "e1")

		diags := rec.Snapshot()
		So(len(diags), ShouldEqual, 1)
		So(diags[0].Source, ShouldEqual, "broken")
		So(diags[0].Kind, ShouldEqual, model.FailureStatus)
		So(diags[0].URL, ShouldEqual, "https://p.example/x")
		So(diags[0].CycleID, ShouldNotBeEmpty)
		So(diags[0].At, ShouldEqual, fixed)
	})

	Convey("所有来源都失败时返回空结果而非错误", t, func() {
		a, _ := NewAggregator(
			[]interfaces.ProviderUnit{unit(&fakeProvider{name: "p", err: errors.New("dial tcp: refused")})},
			[]interfaces.StreamExtractor{&fakeExtractor{name: "s", err: errors.New("listing down")}},
			WithLogger(quietLogger()), WithSink(NewRecorder(0)),
		)
		out, err := a.Run(context.Background())
		So(err, ShouldBeNil)
		So(out, ShouldBeEmpty)
	})

	Convey("两个站点给出同一地址时只保留一条并匹配到赛事", t, func() {
		a, _ := NewAggregator(
			[]interfaces.ProviderUnit{unit(&fakeProvider{name: "p", events: []model.Event{{ID: "e1", HomeTeam: "Lakers", AwayTeam: "Celtics"}}})},
			[]interfaces.StreamExtractor{
				&fakeExtractor{name: "s1", streams: []model.RawStream{{Source: "s1", Title: "Lakers vs Celtics", EmbedURL: "https://cdn.example/live/1"}}},
				&fakeExtractor{name: "s2", streams: []model.RawStream{{Source: "s2", Title: "LAL @ BOS Lakers", EmbedURL: "https://cdn.example/live/1"}}},
			},
			WithLogger(quietLogger()),
		)
		out, err := a.Run(context.Background())
		So(err, ShouldBeNil)
		So(len(out), ShouldEqual, 1)
		So(len(out[0].Streams), ShouldEqual, 1)
		So(out[0].Streams[0].Source, ShouldEqual, "s1")
	})

	Convey("合并顺序取决于配置顺序而不是完成先后", t, func() {
		a, _ := NewAggregator(
			[]interfaces.ProviderUnit{
				unit(&fakeProvider{name: "slow", delay: 60 * time.Millisecond, events: []model.Event{{ID: "slow-1"}}}),
				unit(&fakeProvider{name: "fast", events: []model.Event{{ID: "fast-1"}, {ID: "fast-2"}}}),
			},
			[]interfaces.StreamExtractor{
				&fakeExtractor{name: "s-slow", delay: 40 * time.Millisecond, streams: []model.RawStream{{Source: "s-slow", EmbedURL: "https://a.example/1"}}},
				&fakeExtractor{name: "s-fast", streams: []model.RawStream{{Source: "s-fast", EmbedURL: "https://b.example/1"}}},
			},
			WithLogger(quietLogger()),
		)
		res, err := a.Collect(context.Background())
		So(err, ShouldBeNil)
		So(len(res.Events), ShouldEqual, 3)
		So(res.Events[0].ID, ShouldEqual, "slow-1")
		So(res.Events[1].ID, ShouldEqual, "fast-1")
		So(res.Events[2].ID, ShouldEqual, "fast-2")
		So(res.Streams[0].Source, ShouldEqual, "s-slow")
		So(res.Streams[1].Source, ShouldEqual, "s-fast")
	})

	Convey("单个来源 panic 降级为诊断", t, func() {
		rec := NewRecorder(0)
		a, _ := NewAggregator(
			[]interfaces.ProviderUnit{
				unit(&fakeProvider{name: "bad", panics: true}),
				unit(&fakeProvider{name: "good", events: []model.Event{{ID: "g"}}}),
			},
			nil,
			WithLogger(quietLogger()), WithSink(rec),
		)
		res, err := a.Collect(context.Background())
		So(err, ShouldBeNil)
		So(len(res.Events), ShouldEqual, 1)
		So(res.Failures, ShouldEqual, 1)
		So(rec.Snapshot()[0].Kind, ShouldEqual, model.FailurePanic)
	})

	Convey("调用方取消后返回 ErrCycleAborted 且不等待慢来源", t, func() {
		a, _ := NewAggregator(
			[]interfaces.ProviderUnit{unit(&fakeProvider{name: "hang", delay: 10 * time.Second})},
			[]interfaces.StreamExtractor{&fakeExtractor{name: "hang-s", delay: 10 * time.Second}},
			WithLogger(quietLogger()), WithSink(NewRecorder(0)),
		)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		time.AfterFunc(50*time.Millisecond, cancel)

		start := time.Now()
		_, err := a.Run(ctx)
		So(errors.Is(err, ErrCycleAborted), ShouldBeTrue)
		So(time.Since(start), ShouldBeLessThan, 2*time.Second)
	})

	Convey("请求期限到达时返回已完成来源的结果，慢来源记为 canceled", t, func() {
		rec := NewRecorder(0)
		a, _ := NewAggregator(
			[]interfaces.ProviderUnit{unit(&fakeProvider{name: "fast", events: []model.Event{{ID: "e1", HomeTeam: "Lakers", AwayTeam: "Celtics"}}})},
			[]interfaces.StreamExtractor{&fakeExtractor{name: "slow-site", delay: 10 * time.Second}},
			WithLogger(quietLogger()), WithSink(rec),
		)
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		start := time.Now()
		out, err := a.Run(ctx)
		So(err, ShouldBeNil)
		So(time.Since(start), ShouldBeLessThan, 2*time.Second)
		So(len(out), ShouldEqual, 1)
		So(out[0].ID, ShouldEqual, "e1")
		So(out[0].Streams, ShouldBeEmpty)

		diags := rec.Snapshot()
		So(len(diags), ShouldEqual, 1)
		So(diags[0].Source, ShouldEqual, "slow-site")
		So(diags[0].Kind, ShouldEqual, model.FailureCanceled)
	})

	Convey("Find 按 id 查找", t, func() {
		a, _ := NewAggregator(
			[]interfaces.ProviderUnit{unit(&fakeProvider{name: "p", events: []model.Event{{ID: "42", HomeTeam: "Bruins", AwayTeam: "Rangers"}}})},
			nil,
			WithLogger(quietLogger()),
		)
		ev, err := a.Find(context.Background(), "42")
		So(err, ShouldBeNil)
		So(ev.HomeTeam, ShouldEqual, "Bruins")
		So(ev.Streams, ShouldNotBeNil)

		_, err = a.Find(context.Background(), "nope")
		So(errors.Is(err, ErrEventNotFound), ShouldBeTrue)
	})

	Convey("SourceNames 按合并顺序", t, func() {
		a, _ := NewAggregator(
			[]interfaces.ProviderUnit{unit(&fakeProvider{name: "p"})},
			[]interfaces.StreamExtractor{&fakeExtractor{name: "s"}},
			WithLogger(quietLogger()),
		)
		So(a.SourceNames(), ShouldResemble, []string{"p/1", "s"})
	})
}
