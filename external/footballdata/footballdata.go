package footballdata

import (
	"strconv"
	"strings"
	"time"

	"github.com/pickwise/survivor-league/internal/usecase"
)

type matchesEnvelope struct {
	Matches []matchItem `json:"matches"`
}

type matchItem struct {
	ID       int64      `json:"id"`
	UTCDate  string     `json:"utcDate"`
	Status   string     `json:"status"`
	Matchday int        `json:"matchday"`
	Season   seasonRef  `json:"season"`
	HomeTeam teamRef    `json:"homeTeam"`
	AwayTeam teamRef    `json:"awayTeam"`
	Score    scoreBlock `json:"score"`
}

type seasonRef struct {
	ID        int64  `json:"id"`
	StartDate string `json:"startDate"`
}

type teamRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type scoreBlock struct {
	Winner   string     `json:"winner"`
	FullTime scorePart  `json:"fullTime"`
	HalfTime *scorePart `json:"halfTime"`
}

type scorePart struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

func mapMatchItem(item matchItem) usecase.ExternalMatch {
	out := usecase.ExternalMatch{
		ExternalID: item.ID,
		Status:     strings.TrimSpace(item.Status),
		Week:       item.Matchday,
		HomeTeam:   strings.TrimSpace(item.HomeTeam.Name),
		AwayTeam:   strings.TrimSpace(item.AwayTeam.Name),
		HomeScore:  item.Score.FullTime.Home,
		AwayScore:  item.Score.FullTime.Away,
		Season:     mapSeason(item.Season),
	}
	if parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(item.UTCDate)); err == nil {
		out.UTCDate = parsed.UTC()
	}
	return out
}

// mapSeason keys the season on its starting year, falling back to the
// provider's numeric id for records without a start date.
func mapSeason(season seasonRef) string {
	start := strings.TrimSpace(season.StartDate)
	if len(start) >= 4 {
		return start[:4]
	}
	if season.ID > 0 {
		return strconv.FormatInt(season.ID, 10)
	}
	return ""
}
