package model

import "time"

// EventStatus 赛事状态
type EventStatus string

const (
	StatusScheduled EventStatus = "scheduled"
	StatusLive      EventStatus = "live"
	StatusFinished  EventStatus = "finished"
	StatusUpcoming  EventStatus = "upcoming"
)

// League 一个 provider 侧的联赛/运动标识（thesportsdb 的 league id、the-odds-api 的 sport key）
type League struct {
	ID    string `mapstructure:"id" json:"id"`
	Name  string `mapstructure:"name" json:"name"`
	Sport string `mapstructure:"sport" json:"sport,omitempty"`
}

// Event 统一的赛事模型（抹平各 provider 差异），每个聚合周期新建，构造后不再修改
type Event struct {
	ID        string      `json:"id"`                 // provider 侧 ID，仅在该 provider 单次结果内唯一
	Provider  string      `json:"provider"`           // 来源 provider 名称
	HomeTeam  string      `json:"homeTeam"`           // 主队（与流匹配的唯一依据）
	AwayTeam  string      `json:"awayTeam"`           // 客队
	League    string      `json:"league"`             // 联赛展示名
	StartTime string      `json:"startTime"`          // 解析成功时为 RFC3339，否则为 provider 原始字符串
	Status    EventStatus `json:"status"`             // scheduled/live/finished/upcoming
	HomeScore *int        `json:"homeScore"`          // nil 表示未知（不是 0）
	AwayScore *int        `json:"awayScore"`          // 同上
	HomeLogo  string      `json:"homeLogo,omitempty"` // 队徽（provider 提供时）
	AwayLogo  string      `json:"awayLogo,omitempty"`

	// Kickoff 解析后的开赛时间（UTC），无法解析时为零值
	Kickoff time.Time `json:"-"`
}
