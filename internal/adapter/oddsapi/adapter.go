package oddsapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"StreamSync/internal/adapter"
	"StreamSync/internal/config"
	"StreamSync/internal/interfaces"
	"StreamSync/internal/model"
	"StreamSync/internal/utils/httpclient"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

func init() {
	adapter.RegisterProvider(config.ProviderOddsAPI, NewOddsAPIAdapter)
}

type Adapter struct {
	cfg        *config.ProviderConfig
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewOddsAPIAdapter(cfg *config.ProviderConfig, logger *logrus.Logger) interfaces.EventProvider {
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

// FetchEvents scores 接口返回的是一段时间内的全部赛事，需要按时间窗口过滤
func (a *Adapter) FetchEvents(ctx context.Context, league model.League, now time.Time) ([]model.Event, error) {
	q := url.Values{}
	q.Set("apiKey", a.cfg.APIKey)
	q.Set("daysFrom", strconv.Itoa(a.cfg.DaysFrom))
	q.Set("dateFormat", "iso")
	scoresURL := fmt.Sprintf("%s/v4/sports/%s/scores/?%s",
		strings.TrimSuffix(a.cfg.BaseURL, "/"),
		url.PathEscape(league.ID),
		q.Encode(),
	)

	var raws []model.OddsAPIScoreEvent
	if err := adapter.GetJSON(ctx, a.httpClient, a.GetName(), scoresURL, &raws); err != nil {
		return nil, err
	}

	events := lo.FilterMap(raws, func(raw model.OddsAPIScoreEvent, _ int) (model.Event, bool) {
		if raw.ID == "" {
			return model.Event{}, false
		}
		ev := a.convert(raw, league, now)
		return ev, adapter.WithinWindow(ev.Kickoff, now)
	})

	a.logger.WithFields(logrus.Fields{
		"source":   a.GetName(),
		"league":   league.ID,
		"received": len(raws),
		"kept":     len(events),
	}).Debug("OddsAPI 拉取完成")
	return events, nil
}

func (a *Adapter) convert(raw model.OddsAPIScoreEvent, league model.League, now time.Time) model.Event {
	display, kickoff := adapter.ParseStartTime(raw.CommenceTime)

	leagueName := raw.SportTitle
	if leagueName == "" {
		leagueName = league.Name
	}

	ev := model.Event{
		ID:        raw.ID,
		Provider:  a.GetName(),
		HomeTeam:  strings.TrimSpace(raw.HomeTeam),
		AwayTeam:  strings.TrimSpace(raw.AwayTeam),
		League:    leagueName,
		StartTime: display,
		Status:    adapter.DeriveStatus(kickoff, now, raw.Completed),
		Kickoff:   kickoff,
	}
	// scores 为 null 表示未开赛：比分未知而不是 0
	for _, s := range raw.Scores {
		score := s.Score
		switch s.Name {
		case raw.HomeTeam:
			ev.HomeScore = adapter.ParseScore(&score)
		case raw.AwayTeam:
			ev.AwayScore = adapter.ParseScore(&score)
		}
	}
	return ev
}
