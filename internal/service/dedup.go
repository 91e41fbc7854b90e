package service

import (
	"net/url"

	"StreamSync/internal/model"

	"github.com/google/uuid"
)

// Dedup 按 EmbedURL 稳定去重：保留首次出现，顺序不变。
// Quality 只是展示用的档位：每个来源第一条保留下来的流为 HD，其余为 SD
func Dedup(raw []model.RawStream) []model.UniqueStream {
	out := make([]model.UniqueStream, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	firstBySource := make(map[string]struct{})
	for _, r := range raw {
		if r.EmbedURL == "" {
			continue
		}
		if _, dup := seen[r.EmbedURL]; dup {
			continue
		}
		seen[r.EmbedURL] = struct{}{}

		quality := model.QualitySD
		if _, ok := firstBySource[r.Source]; !ok {
			firstBySource[r.Source] = struct{}{}
			quality = model.QualityHD
		}

		out = append(out, model.UniqueStream{
			ID:        uuid.NewSHA1(uuid.NameSpaceURL, []byte(r.EmbedURL)).String(),
			Source:    r.Source,
			Title:     r.Title,
			URL:       r.EmbedURL,
			Server:    hostOf(r.EmbedURL),
			Quality:   quality,
			IsWorking: true,
		})
	}
	return out
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}
