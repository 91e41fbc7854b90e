package adapter

import (
	"StreamSync/internal/config"
	"StreamSync/internal/interfaces"

	"github.com/sirupsen/logrus"
)

// SourceRegistry 按配置顺序实例化的来源集合
type SourceRegistry struct {
	cfg        *config.Config
	logger     *logrus.Logger
	sink       interfaces.DiagnosticSink
	providers  []interfaces.EventProvider
	units      []interfaces.ProviderUnit
	extractors []interfaces.StreamExtractor
}

func NewSourceRegistry(cfg *config.Config, sink interfaces.DiagnosticSink, logger *logrus.Logger) *SourceRegistry {
	r := &SourceRegistry{
		cfg:    cfg,
		logger: logger,
		sink:   sink,
	}
	r.initFromFactories()
	return r
}

// initFromFactories 遍历配置（保持顺序），匹配工厂函数创建实例
func (r *SourceRegistry) initFromFactories() {
	providerKinds, extractorKinds := ListFactories()
	r.logger.WithFields(logrus.Fields{
		"provider_kinds":  providerKinds,
		"extractor_kinds": extractorKinds,
	}).Debug("已注册的适配器类型")

	for i := range r.cfg.Providers {
		pc := &r.cfg.Providers[i]
		if pc.RequiresKey() && pc.APIKey == "" {
			r.logger.WithFields(logrus.Fields{"source": pc.Name, "kind": pc.Kind}).Warn("provider 未配置 api_key，已跳过")
			continue
		}
		factory, ok := GetProviderFactory(pc.Kind)
		if !ok {
			r.logger.WithFields(logrus.Fields{"source": pc.Name, "kind": pc.Kind}).Error("未找到对应的 provider 工厂函数（init未注册？）")
			continue
		}
		p := factory(pc, r.logger)
		if p == nil {
			r.logger.WithField("source", pc.Name).Error("工厂函数返回nil provider")
			continue
		}
		r.providers = append(r.providers, p)
		for _, league := range pc.Leagues {
			r.units = append(r.units, interfaces.ProviderUnit{Provider: p, League: league})
		}
	}

	for i := range r.cfg.Scrapers {
		sc := &r.cfg.Scrapers[i]
		factory, ok := GetExtractorFactory(sc.Kind)
		if !ok {
			r.logger.WithFields(logrus.Fields{"source": sc.Name, "kind": sc.Kind}).Error("未找到对应的 scraper 工厂函数（init未注册？）")
			continue
		}
		e := factory(sc, r.sink, r.logger)
		if e == nil {
			r.logger.WithField("source", sc.Name).Error("工厂函数返回nil extractor")
			continue
		}
		r.extractors = append(r.extractors, e)
	}

	r.logger.WithFields(logrus.Fields{
		"providers":  len(r.providers),
		"units":      len(r.units),
		"extractors": len(r.extractors),
	}).Info("来源实例初始化完成")
}

// ProviderUnits 所有 (provider, league) 工作单元，顺序与配置一致
func (r *SourceRegistry) ProviderUnits() []interfaces.ProviderUnit {
	return r.units
}

// Extractors 所有抓取站点，顺序与配置一致
func (r *SourceRegistry) Extractors() []interfaces.StreamExtractor {
	return r.extractors
}

// GetSourceCount 已初始化的来源数量
func (r *SourceRegistry) GetSourceCount() int {
	return len(r.providers) + len(r.extractors)
}
