package thesportsdb

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"StreamSync/internal/adapter"
	"StreamSync/internal/config"
	"StreamSync/internal/interfaces"
	"StreamSync/internal/model"
	"StreamSync/internal/utils/httpclient"

	"github.com/sirupsen/logrus"
)

func init() {
	adapter.RegisterProvider(config.ProviderTheSportsDB, NewTheSportsDBAdapter)
}

type Adapter struct {
	cfg        *config.ProviderConfig
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewTheSportsDBAdapter(cfg *config.ProviderConfig, logger *logrus.Logger) interfaces.EventProvider {
	return &Adapter{
		cfg:        cfg,
		httpClient: httpclient.NewHTTPClient(httpclient.Options{Timeout: cfg.Timeout, Proxy: cfg.Proxy}, logger),
		logger:     logger,
	}
}

// GetName ========== 实现EventProvider接口 ==========
func (a *Adapter) GetName() string {
	return a.cfg.Name
}

// FetchEvents eventsday 只返回指定日期的赛事，因此不再做时间窗口过滤
func (a *Adapter) FetchEvents(ctx context.Context, league model.League, now time.Time) ([]model.Event, error) {
	day := now.UTC().Format("2006-01-02")
	eventsURL := fmt.Sprintf("%s/api/v1/json/%s/eventsday.php?d=%s&id=%s",
		strings.TrimSuffix(a.cfg.BaseURL, "/"),
		url.PathEscape(a.cfg.APIKey),
		url.QueryEscape(day),
		url.QueryEscape(league.ID),
	)

	var resp model.TheSportsDBEventsResponse
	if err := adapter.GetJSON(ctx, a.httpClient, a.GetName(), eventsURL, &resp); err != nil {
		return nil, err
	}

	events := make([]model.Event, 0, len(resp.Events))
	for _, raw := range resp.Events {
		if raw.IDEvent == "" {
			a.logger.WithFields(logrus.Fields{"source": a.GetName(), "league": league.ID}).Debug("赛事缺少 idEvent，跳过")
			continue
		}
		events = append(events, a.convert(raw, league, now))
	}

	a.logger.WithFields(logrus.Fields{
		"source": a.GetName(),
		"league": league.ID,
		"events": len(events),
	}).Debug("TheSportsDB 拉取完成")
	return events, nil
}

func (a *Adapter) convert(raw model.TheSportsDBEvent, league model.League, now time.Time) model.Event {
	// strTimestamp 缺失时由日期 + 时刻拼接
	var joined string
	if raw.DateEvent != "" {
		joined = strings.TrimSpace(raw.DateEvent + " " + raw.StrTime)
	}
	display, kickoff := adapter.ParseStartTime(raw.StrTimestamp, joined)

	leagueName := raw.StrLeague
	if leagueName == "" {
		leagueName = league.Name
	}

	return model.Event{
		ID:        raw.IDEvent,
		Provider:  a.GetName(),
		HomeTeam:  strings.TrimSpace(raw.StrHomeTeam),
		AwayTeam:  strings.TrimSpace(raw.StrAwayTeam),
		League:    leagueName,
		StartTime: display,
		Status:    mapStatus(raw.StrStatus, kickoff, now),
		HomeScore: adapter.ParseScore(raw.IntHomeScore),
		AwayScore: adapter.ParseScore(raw.IntAwayScore),
		HomeLogo:  raw.StrHomeTeamBadge,
		AwayLogo:  raw.StrAwayTeamBadge,
		Kickoff:   kickoff,
	}
}

var (
	finishedStatuses = map[string]struct{}{
		"ft": {}, "aet": {}, "pen": {}, "match finished": {}, "finished": {}, "ended": {}, "aot": {},
	}
	scheduledStatuses = map[string]struct{}{
		"ns": {}, "not started": {}, "tbd": {}, "pst": {}, "postponed": {}, "canc": {}, "cancelled": {},
	}
	liveStatuses = map[string]struct{}{
		"1h": {}, "2h": {}, "ht": {}, "et": {}, "bt": {}, "p": {}, "live": {}, "in progress": {},
		"q1": {}, "q2": {}, "q3": {}, "q4": {}, "ot": {}, "p1": {}, "p2": {}, "p3": {},
	}
)

// mapStatus 映射 strStatus；为空或无法识别时按开赛时间推导
func mapStatus(status string, kickoff, now time.Time) model.EventStatus {
	s := strings.ToLower(strings.TrimSpace(status))
	if _, ok := finishedStatuses[s]; ok {
		return model.StatusFinished
	}
	if _, ok := scheduledStatuses[s]; ok {
		return model.StatusScheduled
	}
	if _, ok := liveStatuses[s]; ok {
		return model.StatusLive
	}
	return adapter.DeriveStatus(kickoff, now, false)
}
