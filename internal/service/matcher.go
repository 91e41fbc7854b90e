package service

import (
	"strings"

	"StreamSync/internal/model"
)

// Match 为每个赛事挑出规范化标题包含主队或客队规范化名称的流。
// 每个赛事都会出现在结果中；同一条流可以匹配多个赛事。规范化后为空的队名不参与匹配
func Match(events []model.Event, streams []model.UniqueStream) []model.MatchedEvent {
	titles := make([]string, len(streams))
	for i, s := range streams {
		titles[i] = NormalizeTitle(s.Title)
	}

	out := make([]model.MatchedEvent, 0, len(events))
	for _, ev := range events {
		home := NormalizeTitle(ev.HomeTeam)
		away := NormalizeTitle(ev.AwayTeam)
		matched := make([]model.UniqueStream, 0)
		for i, title := range titles {
			if containsTeam(title, home) || containsTeam(title, away) {
				matched = append(matched, streams[i])
			}
		}
		out = append(out, model.MatchedEvent{Event: ev, Streams: matched})
	}
	return out
}

func containsTeam(title, team string) bool {
	return team != "" && strings.Contains(title, team)
}
