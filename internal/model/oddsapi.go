package model

// ========== The Odds API GET /v4/sports/{sport}/scores 响应（根为数组） ==========

// OddsAPIScoreEvent 单场赛事；未开赛时 scores 为 null
type OddsAPIScoreEvent struct {
	ID           string         `json:"id"`
	SportKey     string         `json:"sport_key"`
	SportTitle   string         `json:"sport_title"`
	CommenceTime string         `json:"commence_time"`
	Completed    bool           `json:"completed"`
	HomeTeam     string         `json:"home_team"`
	AwayTeam     string         `json:"away_team"`
	Scores       []OddsAPIScore `json:"scores"`
	LastUpdate   *string        `json:"last_update"`
}

// OddsAPIScore 单队比分（字符串）
type OddsAPIScore struct {
	Name  string `json:"name"`
	Score string `json:"score"`
}
