package adapter

import (
	"strconv"
	"strings"
	"time"

	"StreamSync/internal/model"
)

// TrailingWindow 回看窗口：开赛在此时间内的赛事视为可能仍在进行
const TrailingWindow = 8 * time.Hour

// startLayouts provider 常见时间格式，无时区的一律按 UTC
var startLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// WithinWindow 保留开赛在过去 8 小时内，或开赛日期（UTC）等于今天（UTC）的赛事
func WithinWindow(start, now time.Time) bool {
	if start.IsZero() {
		return false
	}
	start, now = start.UTC(), now.UTC()
	if !start.After(now) && !start.Before(now.Add(-TrailingWindow)) {
		return true
	}
	sy, sm, sd := start.Date()
	ny, nm, nd := now.Date()
	return sy == ny && sm == nm && sd == nd
}

// DeriveStatus provider 未直接给出状态时推导：completed 优先，其次按开赛时间
func DeriveStatus(kickoff, now time.Time, completed bool) model.EventStatus {
	switch {
	case completed:
		return model.StatusFinished
	case kickoff.IsZero():
		return model.StatusScheduled
	case !kickoff.After(now):
		return model.StatusLive
	default:
		return model.StatusUpcoming
	}
}

// ParseStartTime 依次尝试候选字符串与格式；全部失败时返回第一个非空原始值和零时间
func ParseStartTime(candidates ...string) (display string, kickoff time.Time) {
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if display == "" {
			display = c
		}
		for _, layout := range startLayouts {
			if t, err := time.Parse(layout, c); err == nil {
				t = t.UTC()
				return t.Format(time.RFC3339), t
			}
		}
	}
	return display, time.Time{}
}

// ParseScore 解析字符串比分；空或非数字视为未知
func ParseScore(s *string) *int {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}
