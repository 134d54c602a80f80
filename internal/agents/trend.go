package agents

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/loomworks/tubewatch/internal/memstore"
)

const (
	trendRecencyWindow = 14 * 24 * time.Hour
	trendSearchLimit   = 10
	trendChannelLimit  = 5
)

// TrendSpotter measures keyword activity and who is publishing on it.
type TrendSpotter struct {
	yt Capability
}

func NewTrendSpotter(yt Capability) *TrendSpotter {
	return &TrendSpotter{yt: yt}
}

func (a *TrendSpotter) Info() Info {
	return Info{
		ID:     "trend-spotter",
		Name:   "Trend Spotter",
		Role:   "Measures publishing velocity and voices around tracked keywords",
		Skills: []string{"search_videos"},
		Soul: "Counts first, concludes second. Flags quiet keywords as readily " +
			"as loud ones; an absence of recent videos is itself a finding.",
	}
}

func (a *TrendSpotter) Run(ctx context.Context, params Params) Result {
	var insights []memstore.InsightFields
	now := time.Now()

	for _, keyword := range params.Keywords {
		page, err := a.yt.SearchVideos(ctx, keyword, trendSearchLimit, "")
		if err != nil {
			log.Printf("[trend-spotter] search %q skipped: %v", keyword, err)
			continue
		}

		var recentTitles []string
		recentCount := 0
		var channels []string
		seen := map[string]bool{}
		for _, v := range page.Videos {
			if !seen[v.ChannelTitle] && len(channels) < trendChannelLimit {
				seen[v.ChannelTitle] = true
				channels = append(channels, v.ChannelTitle)
			}
			if now.Sub(v.PublishedAt) <= trendRecencyWindow {
				recentCount++
				if len(recentTitles) < 3 {
					recentTitles = append(recentTitles, fmt.Sprintf("%q", v.Title))
				}
			}
		}

		detail := fmt.Sprintf("%d total result(s) for %q, %d published in the last 14 days. Active channels: %s.",
			page.TotalResults, keyword, recentCount, strings.Join(channels, ", "))
		if recentCount > 0 {
			detail += " Recent: " + strings.Join(recentTitles, ", ")
		} else {
			detail += " No recent videos."
		}

		insights = append(insights, memstore.InsightFields{
			Kind:       memstore.InsightTrend,
			Title:      fmt.Sprintf("Trend check: %q (%d recent)", keyword, recentCount),
			Detail:     detail,
			Provenance: memstore.Provenance{Query: keyword},
		})
	}

	return Result{
		Success: true,
		Summary: fmt.Sprintf("Scanned %d keyword(s), produced %d trend insight(s)",
			len(params.Keywords), len(insights)),
		Insights: insights,
	}
}
