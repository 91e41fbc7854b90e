// internal/adapter/adapter.go
package adapter

import (
	"fmt"
	"sort"
	"sync"

	"StreamSync/internal/interfaces"

	"github.com/sirupsen/logrus"
)

// ========== 全局工厂函数注册表（各适配器 init 中注册） ==========
var (
	registryMu         sync.RWMutex
	providerFactories  = make(map[string]interfaces.ProviderFactory)
	extractorFactories = make(map[string]interfaces.ExtractorFactory)
)

// RegisterProvider 供 provider 适配器 init 调用，注册工厂函数
func RegisterProvider(kind string, factory interfaces.ProviderFactory) {
	if factory == nil {
		panic(fmt.Sprintf("provider %s 的工厂函数不能为nil", kind))
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := providerFactories[kind]; exists {
		logrus.Warnf("provider %s 已注册，将覆盖原有实现", kind)
	}
	providerFactories[kind] = factory
}

// RegisterExtractor 供抓取适配器 init 调用，注册工厂函数
func RegisterExtractor(kind string, factory interfaces.ExtractorFactory) {
	if factory == nil {
		panic(fmt.Sprintf("scraper %s 的工厂函数不能为nil", kind))
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := extractorFactories[kind]; exists {
		logrus.Warnf("scraper %s 已注册，将覆盖原有实现", kind)
	}
	extractorFactories[kind] = factory
}

// GetProviderFactory 获取指定类型的 provider 工厂函数
func GetProviderFactory(kind string) (interfaces.ProviderFactory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := providerFactories[kind]
	return f, ok
}

// GetExtractorFactory 获取指定类型的抓取工厂函数
func GetExtractorFactory(kind string) (interfaces.ExtractorFactory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := extractorFactories[kind]
	return f, ok
}

// ListFactories 列出所有已注册的类型（排序后返回）
func ListFactories() (providers []string, extractors []string) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	for k := range providerFactories {
		providers = append(providers, k)
	}
	for k := range extractorFactories {
		extractors = append(extractors, k)
	}
	sort.Strings(providers)
	sort.Strings(extractors)
	return providers, extractors
}
