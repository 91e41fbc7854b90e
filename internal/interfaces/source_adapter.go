package interfaces

import (
	"context"
	"time"

	"StreamSync/internal/config"
	"StreamSync/internal/model"

	"github.com/sirupsen/logrus"
)

// EventProvider 所有赛程 provider 必须实现的核心接口
type EventProvider interface {
	// GetName 来源名称
	GetName() string
	// FetchEvents 拉取单个联赛的赛事，now 为本周期的参考时间
	FetchEvents(ctx context.Context, league model.League, now time.Time) ([]model.Event, error)
}

// StreamExtractor 抓取站点接口：列表页发现比赛，详情页提取播放地址。
// 单个详情页失败由实现自行上报并跳过；只有列表页失败才返回 error
type StreamExtractor interface {
	GetName() string
	Extract(ctx context.Context) ([]model.RawStream, error)
}

// DiagnosticSink 被容忍失败的上报通道，实现必须并发安全
type DiagnosticSink interface {
	Report(d model.Diagnostic)
}

// ProviderFactory provider 工厂函数签名
type ProviderFactory func(cfg *config.ProviderConfig, logger *logrus.Logger) EventProvider

// ExtractorFactory 抓取站点工厂函数签名
type ExtractorFactory func(cfg *config.ScraperConfig, sink DiagnosticSink, logger *logrus.Logger) StreamExtractor

// ProviderUnit 一个 (provider, league) 组合，即编排器中的一个独立工作单元
type ProviderUnit struct {
	Provider EventProvider
	League   model.League
}
