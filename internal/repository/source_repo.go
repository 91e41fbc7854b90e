package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"StreamSync/internal/config"
	"StreamSync/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SourceRepository 来源目录仓储
type SourceRepository interface {
	// EnsureSources 按名称插入缺失的来源；已有行（包括 is_enabled）保持不变
	EnsureSources(ctx context.Context, sources []*model.StreamSource) error
	ListSources(ctx context.Context) ([]*model.StreamSource, error)
	// DisabledNames 被手动停用的来源名称
	DisabledNames(ctx context.Context) (map[string]bool, error)
}

type sourceRepository struct {
	db *gorm.DB
}

func NewSourceRepository(db *gorm.DB) SourceRepository {
	return &sourceRepository{db: db}
}

func (r *sourceRepository) EnsureSources(ctx context.Context, sources []*model.StreamSource) error {
	if len(sources) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&sources).Error
}

func (r *sourceRepository) ListSources(ctx context.Context) ([]*model.StreamSource, error) {
	var list []*model.StreamSource
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *sourceRepository) DisabledNames(ctx context.Context) (map[string]bool, error) {
	var names []string
	if err := r.db.WithContext(ctx).Model(&model.StreamSource{}).
		Where("is_enabled = ?", false).
		Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out, nil
}

// CatalogFromConfig 把配置中的来源转换为目录行，settings 为配置快照（不含密钥）
func CatalogFromConfig(cfg *config.Config) ([]*model.StreamSource, error) {
	out := make([]*model.StreamSource, 0, len(cfg.Providers)+len(cfg.Scrapers))
	for i := range cfg.Providers {
		p := &cfg.Providers[i]
		settings, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("序列化 provider %s 配置失败: %w", p.Name, err)
		}
		out = append(out, &model.StreamSource{
			Name:      p.Name,
			Role:      model.RoleProvider,
			Kind:      p.Kind,
			BaseURL:   p.BaseURL,
			Settings:  datatypes.JSON(settings),
			IsEnabled: true,
		})
	}
	for i := range cfg.Scrapers {
		s := &cfg.Scrapers[i]
		settings, err := json.Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("序列化 scraper %s 配置失败: %w", s.Name, err)
		}
		out = append(out, &model.StreamSource{
			Name:      s.Name,
			Role:      model.RoleScraper,
			Kind:      s.Kind,
			BaseURL:   s.BaseURL,
			Settings:  datatypes.JSON(settings),
			IsEnabled: true,
		})
	}
	return out, nil
}
