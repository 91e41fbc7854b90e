package model

// ========== TheSportsDB GET /api/v1/json/{key}/eventsday.php 响应 ==========

// TheSportsDBEventsResponse eventsday 根响应，无赛事时 events 为 null
type TheSportsDBEventsResponse struct {
	Events []TheSportsDBEvent `json:"events"`
}

// TheSportsDBEvent 单场赛事；比分为字符串或 null
type TheSportsDBEvent struct {
	IDEvent          string  `json:"idEvent"`
	StrEvent         string  `json:"strEvent"`
	StrHomeTeam      string  `json:"strHomeTeam"`
	StrAwayTeam      string  `json:"strAwayTeam"`
	StrLeague        string  `json:"strLeague"`
	StrSport         string  `json:"strSport"`
	StrTimestamp     string  `json:"strTimestamp"`
	DateEvent        string  `json:"dateEvent"`
	StrTime          string  `json:"strTime"`
	StrStatus        string  `json:"strStatus"`
	IntHomeScore     *string `json:"intHomeScore"`
	IntAwayScore     *string `json:"intAwayScore"`
	StrHomeTeamBadge string  `json:"strHomeTeamBadge"`
	StrAwayTeamBadge string  `json:"strAwayTeamBadge"`
}
