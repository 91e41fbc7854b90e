package model

// RawStream 抓取到的单个候选播放地址
type RawStream struct {
	Source   string // 来源抓取站点名称
	Title    string // 列表页上的比赛标题（未规范化）
	EmbedURL string // 绝对地址
	PageURL  string // 发现该地址的详情页
}

// UniqueStream 去重后的播放地址。
// Quality 是按首次出现顺序给出的展示档位（每个来源第一条为 HD，其余为 SD），不是测量值；
// IsWorking 恒为 true，核心不做可用性探测。
type UniqueStream struct {
	ID        string `json:"id"`
	Source    string `json:"source"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Server    string `json:"server"`
	Quality   string `json:"quality"`
	IsWorking bool   `json:"isWorking"`
}

const (
	QualityHD = "HD"
	QualitySD = "SD"
)

// MatchedEvent 最终输出：一个赛事 + 0..n 条匹配的流。序列化时赛事字段平铺，streams 始终为数组
type MatchedEvent struct {
	Event
	Streams []UniqueStream `json:"streams"`
}
