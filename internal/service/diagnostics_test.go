package service

import (
	"bytes"
	"encoding/json"
	"sync"
	"testing"

	"StreamSync/internal/model"

	"github.com/sirupsen/logrus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDiagnosticSinks(t *testing.T) {
	Convey("Recorder", t, func() {
		rec := NewRecorder(3)
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				rec.Report(model.Diagnostic{Source: "s", Kind: model.FailureTransport})
			}()
		}
		wg.Wait()
		So(len(rec.Snapshot()), ShouldEqual, 3)
	})

	Convey("空 Recorder 的快照序列化为 []", t, func() {
		snap := NewRecorder(5).Snapshot()
		So(snap, ShouldNotBeNil)
		raw, err := json.Marshal(snap)
		So(err, ShouldBeNil)
		So(string(raw), ShouldEqual, "[]")
	})

	Convey("LogSink 写 Warn 日志并带上结构化字段", t, func() {
		buf := &bytes.Buffer{}
		logger := logrus.New()
		logger.SetOutput(buf)
		logger.SetFormatter(&logrus.JSONFormatter{})

		NewLogSink(logger).Report(model.Diagnostic{
			CycleID: "c1", Source: "site", Kind: model.FailurePage, URL: "https://x.example/p", Cause: "boom",
		})
		out := buf.String()
		So(out, ShouldContainSubstring, `"level":"warning"`)
		So(out, ShouldContainSubstring, `"source":"site"`)
		So(out, ShouldContainSubstring, `"kind":"page"`)
		So(out, ShouldContainSubstring, `"cycle_id":"c1"`)
		So(out, ShouldContainSubstring, "boom")
	})

	Convey("MultiSink 扇出并跳过 nil", t, func() {
		a, b := NewRecorder(0), NewRecorder(0)
		MultiSink{a, nil, b}.Report(model.Diagnostic{Source: "s"})
		So(len(a.Snapshot()), ShouldEqual, 1)
		So(len(b.Snapshot()), ShouldEqual, 1)
	})
}
