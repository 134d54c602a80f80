package agents

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/loomworks/tubewatch/internal/memstore"
)

const competitorRecencyWindow = 7 * 24 * time.Hour

// CompetitorMonitor watches tracked channels for fresh uploads and runs
// competitor-derived keyword searches.
type CompetitorMonitor struct {
	yt Capability
}

func NewCompetitorMonitor(yt Capability) *CompetitorMonitor {
	return &CompetitorMonitor{yt: yt}
}

func (a *CompetitorMonitor) Info() Info {
	return Info{
		ID:     "competitor-monitor",
		Name:   "Competitor Monitor",
		Role:   "Tracks competitor channels and coverage for new activity",
		Skills: []string{"channel_videos", "search_videos"},
		Soul: "Methodical watcher. Reports only what changed in the last week, " +
			"never speculates about intent. Prefers counts and titles over adjectives.",
	}
}

func (a *CompetitorMonitor) Run(ctx context.Context, params Params) Result {
	var insights []memstore.InsightFields
	now := time.Now()

	for _, channelID := range params.Channels {
		page, err := a.yt.ChannelVideos(ctx, channelID, 10, "")
		if err != nil {
			log.Printf("[competitor-monitor] channel %s skipped: %v", channelID, err)
			continue
		}
		var recent []string
		for _, v := range page.Videos {
			if now.Sub(v.PublishedAt) <= competitorRecencyWindow {
				recent = append(recent, v.Title)
			}
		}
		if len(recent) == 0 {
			continue
		}
		insights = append(insights, memstore.InsightFields{
			Kind:  memstore.InsightCompetitorMove,
			Title: fmt.Sprintf("%s published %d video(s) this week", page.ChannelTitle, len(recent)),
			Detail: fmt.Sprintf("Channel %s (%s) uploaded %d video(s) in the last 7 days: %s",
				page.ChannelTitle, channelID, len(recent), strings.Join(recent, "; ")),
			Provenance: memstore.Provenance{ChannelID: channelID},
		})
	}

	for _, keyword := range params.Keywords {
		page, err := a.yt.SearchVideos(ctx, keyword, 10, "")
		if err != nil {
			log.Printf("[competitor-monitor] search %q skipped: %v", keyword, err)
			continue
		}
		if len(page.Videos) == 0 {
			continue
		}
		var samples []string
		for i, v := range page.Videos {
			if i >= 3 {
				break
			}
			samples = append(samples, fmt.Sprintf("%q (%s)", v.Title, v.ChannelTitle))
		}
		insights = append(insights, memstore.InsightFields{
			Kind:  memstore.InsightCompetitorMove,
			Title: fmt.Sprintf("Coverage found for %q", keyword),
			Detail: fmt.Sprintf("%d video(s) matched %q. Top results: %s",
				page.TotalResults, keyword, strings.Join(samples, ", ")),
			Provenance: memstore.Provenance{Query: keyword},
		})
	}

	return Result{
		Success: true,
		Summary: fmt.Sprintf("Checked %d channel(s) and %d keyword(s), found %d competitor move(s)",
			len(params.Channels), len(params.Keywords), len(insights)),
		Insights: insights,
	}
}
