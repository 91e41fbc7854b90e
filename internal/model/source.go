package model

import (
	"time"

	"gorm.io/datatypes"
)

// SourceRole 来源角色
type SourceRole string

const (
	RoleProvider SourceRole = "provider"
	RoleScraper  SourceRole = "scraper"
)

// StreamSource 来源目录表：记录已配置的来源及其启用状态，不保存任何聚合结果
type StreamSource struct {
	ID        uint64         `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	Name      string         `gorm:"column:name;type:varchar(64);uniqueIndex;not null;comment:来源名称"`
	Role      SourceRole     `gorm:"column:role;type:varchar(16);not null;comment:provider/scraper"`
	Kind      string         `gorm:"column:kind;type:varchar(32);not null;comment:适配器类型"`
	BaseURL   string         `gorm:"column:base_url;type:varchar(256);comment:基础地址"`
	Settings  datatypes.JSON `gorm:"column:settings;type:jsonb;comment:配置快照"`
	IsEnabled bool           `gorm:"column:is_enabled;type:boolean;default:true;comment:是否启用"`
	CreatedAt time.Time      `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt time.Time      `gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

func (StreamSource) TableName() string { return "stream_sources" }
