package agents

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/loomworks/tubewatch/internal/memstore"
	"github.com/loomworks/tubewatch/internal/youtube"
)

// fakeYouTube satisfies Capability and records every call.
type fakeYouTube struct {
	searchFn   func(query string) (*youtube.VideoPage, error)
	commentsFn func(videoID string) (*youtube.CommentPage, error)
	channelFn  func(channelID string) (*youtube.ChannelVideosPage, error)

	searchQueries []string
	commentVideos []string
	channelIDs    []string
}

func (f *fakeYouTube) calls() int {
	return len(f.searchQueries) + len(f.commentVideos) + len(f.channelIDs)
}

func (f *fakeYouTube) SearchVideos(_ context.Context, query string, _ int, _ string) (*youtube.VideoPage, error) {
	f.searchQueries = append(f.searchQueries, query)
	if f.searchFn != nil {
		return f.searchFn(query)
	}
	return &youtube.VideoPage{}, nil
}

func (f *fakeYouTube) ListComments(_ context.Context, videoID string, _ int, _ string) (*youtube.CommentPage, error) {
	f.commentVideos = append(f.commentVideos, videoID)
	if f.commentsFn != nil {
		return f.commentsFn(videoID)
	}
	return &youtube.CommentPage{}, nil
}

func (f *fakeYouTube) ChannelVideos(_ context.Context, channelID string, _ int, _ string) (*youtube.ChannelVideosPage, error) {
	f.channelIDs = append(f.channelIDs, channelID)
	if f.channelFn != nil {
		return f.channelFn(channelID)
	}
	return &youtube.ChannelVideosPage{}, nil
}

func daysAgo(n int) time.Time {
	return time.Now().Add(-time.Duration(n) * 24 * time.Hour)
}

func TestClassifyComment_PriorityOrder(t *testing.T) {
	// A request phrase beats a negative word, which beats a positive word.
	if got := classifyComment("I wish they added dark mode, the current UI is terrible"); got != "request" {
		t.Errorf("classify = %q, want request", got)
	}
	if got := classifyComment("Terrible update, used to be great"); got != "negative" {
		t.Errorf("classify = %q, want negative", got)
	}
	if got := classifyComment("This is GREAT"); got != "positive" {
		t.Errorf("classify = %q, want positive (case-insensitive)", got)
	}
	if got := classifyComment("first"); got != "neutral" {
		t.Errorf("classify = %q, want neutral", got)
	}
}

func TestSentimentAnalyst_RequestsStoredAsBuyingSignal(t *testing.T) {
	yt := &fakeYouTube{
		commentsFn: func(string) (*youtube.CommentPage, error) {
			return &youtube.CommentPage{Comments: []youtube.Comment{
				{Text: "please add offline support", LikeCount: 4},
				{Text: "worst release yet"},
				{Text: "love it, thank you"},
			}}, nil
		},
	}
	result := NewSentimentAnalyst(yt).Run(context.Background(), Params{VideoIDs: []string{"vid1"}})

	if !result.Success {
		t.Fatal("run should succeed")
	}
	if len(result.Insights) != 3 {
		t.Fatalf("len(insights) = %d, want 3", len(result.Insights))
	}

	var requestKind memstore.InsightKind
	for _, ins := range result.Insights {
		if strings.Contains(ins.Title, "feature request") {
			requestKind = ins.Kind
		}
		if ins.Provenance.VideoID != "vid1" {
			t.Errorf("insight provenance videoId = %q, want vid1", ins.Provenance.VideoID)
		}
	}
	// Regression pin: request findings are filed under buying_signal, not
	// sentiment. Do not "fix" this.
	if requestKind != memstore.InsightBuyingSignal {
		t.Errorf("request insight kind = %q, want %q", requestKind, memstore.InsightBuyingSignal)
	}
}

func TestSentimentAnalyst_SkipsInaccessibleVideo(t *testing.T) {
	yt := &fakeYouTube{
		commentsFn: func(videoID string) (*youtube.CommentPage, error) {
			if videoID == "blocked" {
				return nil, &youtube.APIError{StatusCode: 403, Reason: "commentsDisabled"}
			}
			return &youtube.CommentPage{Comments: []youtube.Comment{{Text: "awesome"}}}, nil
		},
	}
	result := NewSentimentAnalyst(yt).Run(context.Background(), Params{VideoIDs: []string{"blocked", "open"}})

	if !result.Success {
		t.Error("per-video failures must not fail the run")
	}
	if len(result.Insights) != 1 {
		t.Errorf("len(insights) = %d, want 1 (only the accessible video)", len(result.Insights))
	}
}

func TestSentimentAnalyst_QuoteTruncation(t *testing.T) {
	long := strings.Repeat("terrible ", 30)
	yt := &fakeYouTube{
		commentsFn: func(string) (*youtube.CommentPage, error) {
			return &youtube.CommentPage{Comments: []youtube.Comment{{Text: long}}}, nil
		},
	}
	result := NewSentimentAnalyst(yt).Run(context.Background(), Params{VideoIDs: []string{"v"}})

	if len(result.Insights) != 1 {
		t.Fatalf("len(insights) = %d, want 1", len(result.Insights))
	}
	if strings.Contains(result.Insights[0].Detail, long) {
		t.Error("quote should be truncated to 120 characters")
	}
	if !strings.Contains(result.Insights[0].Detail, "...") {
		t.Error("truncated quote should carry an ellipsis")
	}
}

func TestTrendSpotter_RecencyBoundary(t *testing.T) {
	yt := &fakeYouTube{
		searchFn: func(string) (*youtube.VideoPage, error) {
			return &youtube.VideoPage{
				TotalResults: 2,
				Videos: []youtube.Video{
					{Title: "recent", ChannelTitle: "Alpha", PublishedAt: daysAgo(13)},
					{Title: "stale", ChannelTitle: "Beta", PublishedAt: daysAgo(15)},
				},
			}, nil
		},
	}
	result := NewTrendSpotter(yt).Run(context.Background(), Params{Keywords: []string{"crm"}})

	if len(result.Insights) != 1 {
		t.Fatalf("len(insights) = %d, want 1", len(result.Insights))
	}
	ins := result.Insights[0]
	if !strings.Contains(ins.Detail, "1 published in the last 14 days") {
		t.Errorf("13-day video should count as recent, 15-day should not: %s", ins.Detail)
	}
	if !strings.Contains(ins.Detail, "Alpha, Beta") {
		t.Errorf("channels should list in first-seen order: %s", ins.Detail)
	}
	if ins.Kind != memstore.InsightTrend {
		t.Errorf("kind = %q, want trend", ins.Kind)
	}
}

func TestTrendSpotter_NoRecentVideosNote(t *testing.T) {
	yt := &fakeYouTube{
		searchFn: func(string) (*youtube.VideoPage, error) {
			return &youtube.VideoPage{
				TotalResults: 1,
				Videos:       []youtube.Video{{Title: "old", ChannelTitle: "Gamma", PublishedAt: daysAgo(60)}},
			}, nil
		},
	}
	result := NewTrendSpotter(yt).Run(context.Background(), Params{Keywords: []string{"crm"}})

	if len(result.Insights) != 1 {
		t.Fatalf("len(insights) = %d, want 1 (quiet keywords still report)", len(result.Insights))
	}
	if !strings.Contains(result.Insights[0].Detail, "No recent videos") {
		t.Errorf("detail should note the absence: %s", result.Insights[0].Detail)
	}
}

func TestCompetitorMonitor_WeekWindow(t *testing.T) {
	yt := &fakeYouTube{
		channelFn: func(channelID string) (*youtube.ChannelVideosPage, error) {
			if channelID == "quiet" {
				return &youtube.ChannelVideosPage{
					ChannelTitle: "Quiet Co",
					Videos:       []youtube.Video{{Title: "old", PublishedAt: daysAgo(8)}},
				}, nil
			}
			return &youtube.ChannelVideosPage{
				ChannelTitle: "Acme",
				Videos: []youtube.Video{
					{Title: "launch", PublishedAt: daysAgo(2)},
					{Title: "archive", PublishedAt: daysAgo(30)},
				},
			}, nil
		},
	}
	result := NewCompetitorMonitor(yt).Run(context.Background(), Params{Channels: []string{"quiet", "busy"}})

	if len(result.Insights) != 1 {
		t.Fatalf("len(insights) = %d, want 1 (only the active channel)", len(result.Insights))
	}
	ins := result.Insights[0]
	if ins.Kind != memstore.InsightCompetitorMove {
		t.Errorf("kind = %q, want competitor_move", ins.Kind)
	}
	if !strings.Contains(ins.Detail, "1 video(s) in the last 7 days") {
		t.Errorf("only the 2-day-old upload should count: %s", ins.Detail)
	}
	if ins.Provenance.ChannelID != "busy" {
		t.Errorf("provenance channelId = %q, want busy", ins.Provenance.ChannelID)
	}
}

func TestCompetitorMonitor_KeywordSearch(t *testing.T) {
	yt := &fakeYouTube{
		searchFn: func(string) (*youtube.VideoPage, error) {
			return &youtube.VideoPage{
				TotalResults: 12,
				Videos: []youtube.Video{
					{Title: "a", ChannelTitle: "C1"},
					{Title: "b", ChannelTitle: "C2"},
					{Title: "c", ChannelTitle: "C3"},
					{Title: "d", ChannelTitle: "C4"},
				},
			}, nil
		},
	}
	result := NewCompetitorMonitor(yt).Run(context.Background(), Params{Keywords: []string{"Acme review"}})

	if len(result.Insights) != 1 {
		t.Fatalf("len(insights) = %d, want 1", len(result.Insights))
	}
	detail := result.Insights[0].Detail
	if !strings.Contains(detail, "12 video(s)") {
		t.Errorf("detail should carry the total count: %s", detail)
	}
	if strings.Contains(detail, `"d"`) {
		t.Errorf("only the top 3 titles should be listed: %s", detail)
	}
}

func TestLeadQualifier_AugmentedQueryAndTopResultOnly(t *testing.T) {
	yt := &fakeYouTube{
		searchFn: func(string) (*youtube.VideoPage, error) {
			return &youtube.VideoPage{Videos: []youtube.Video{
				{ID: "top", Title: "Best CRM 2026"},
				{ID: "second", Title: "CRM setup"},
			}}, nil
		},
		commentsFn: func(string) (*youtube.CommentPage, error) {
			return &youtube.CommentPage{Comments: []youtube.Comment{
				{Text: "I'm looking for something cheaper", Author: "ann", LikeCount: 2},
				{Text: "nice video"},
				{Text: "what's the pricing like?", Author: "bob"},
			}}, nil
		},
	}
	result := NewLeadQualifier(yt).Run(context.Background(), Params{Keywords: []string{"CRM"}})

	if got, want := yt.searchQueries[0], "CRM review OR comparison OR alternative OR best"; got != want {
		t.Errorf("query = %q, want %q", got, want)
	}
	if len(yt.commentVideos) != 1 || yt.commentVideos[0] != "top" {
		t.Errorf("comments fetched for %v, want only the top result", yt.commentVideos)
	}
	if len(result.Insights) != 1 {
		t.Fatalf("len(insights) = %d, want 1", len(result.Insights))
	}
	ins := result.Insights[0]
	if ins.Kind != memstore.InsightBuyingSignal {
		t.Errorf("kind = %q, want buying_signal", ins.Kind)
	}
	if !strings.Contains(ins.Title, "2 buying signal(s)") {
		t.Errorf("two of three comments match: %s", ins.Title)
	}
	if !strings.Contains(ins.Detail, "[looking for]") || !strings.Contains(ins.Detail, "ann") {
		t.Errorf("detail should carry matched phrase and author: %s", ins.Detail)
	}
}

func TestLeadQualifier_DirectVideoIDs(t *testing.T) {
	yt := &fakeYouTube{
		commentsFn: func(videoID string) (*youtube.CommentPage, error) {
			if videoID == "silent" {
				return &youtube.CommentPage{Comments: []youtube.Comment{{Text: "cool"}}}, nil
			}
			return &youtube.CommentPage{Comments: []youtube.Comment{
				{Text: "is there a free trial?", Author: "cam"},
			}}, nil
		},
	}
	result := NewLeadQualifier(yt).Run(context.Background(), Params{VideoIDs: []string{"silent", "hot"}})

	if len(result.Insights) != 1 {
		t.Fatalf("len(insights) = %d, want 1 (videos without matches emit nothing)", len(result.Insights))
	}
	if result.Insights[0].Provenance.VideoID != "hot" {
		t.Errorf("provenance videoId = %q, want hot", result.Insights[0].Provenance.VideoID)
	}
}

func TestAgents_PerItemFailuresSwallowed(t *testing.T) {
	yt := &fakeYouTube{
		searchFn: func(query string) (*youtube.VideoPage, error) {
			if strings.HasPrefix(query, "bad") {
				return nil, errors.New("quota exceeded")
			}
			return &youtube.VideoPage{TotalResults: 1, Videos: []youtube.Video{
				{Title: "hit", ChannelTitle: "X", PublishedAt: daysAgo(1)},
			}}, nil
		},
	}
	result := NewTrendSpotter(yt).Run(context.Background(), Params{Keywords: []string{"bad one", "good one"}})

	if !result.Success {
		t.Error("a failing keyword must not fail the run")
	}
	if len(result.Insights) != 1 {
		t.Errorf("len(insights) = %d, want 1", len(result.Insights))
	}

	// Even when every item fails, the run itself still succeeds.
	allBad := NewTrendSpotter(&fakeYouTube{
		searchFn: func(string) (*youtube.VideoPage, error) { return nil, errors.New("quota") },
	}).Run(context.Background(), Params{Keywords: []string{"a", "b"}})
	if !allBad.Success {
		t.Error("success must stay true when all items fail")
	}
	if len(allBad.Insights) != 0 {
		t.Errorf("len(insights) = %d, want 0", len(allBad.Insights))
	}
}

func TestBuyingSignalVocabulary(t *testing.T) {
	if len(buyingSignalPhrases) != 19 {
		t.Errorf("len(buyingSignalPhrases) = %d, want 19", len(buyingSignalPhrases))
	}
	// First match wins: "looking for" precedes "pricing" in the list.
	if got := matchBuyingSignal("Looking for pricing info"); got != "looking for" {
		t.Errorf("match = %q, want looking for", got)
	}
	if got := matchBuyingSignal("nothing relevant here"); got != "" {
		t.Errorf("match = %q, want empty", got)
	}
}
