package agents

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/loomworks/tubewatch/internal/memstore"
	"github.com/loomworks/tubewatch/internal/youtube"
)

const (
	leadSearchLimit       = 5
	leadTopVideoComments  = 30
	leadDirectVideoLimit  = 50
	leadExampleLimit      = 5
	leadQueryAugmentation = " review OR comparison OR alternative OR best"
)

// LeadQualifier hunts for purchase-intent language in comment sections.
type LeadQualifier struct {
	yt Capability
}

func NewLeadQualifier(yt Capability) *LeadQualifier {
	return &LeadQualifier{yt: yt}
}

func (a *LeadQualifier) Info() Info {
	return Info{
		ID:     "lead-qualifier",
		Name:   "Lead Qualifier",
		Role:   "Flags comments showing buying intent around tracked keywords",
		Skills: []string{"search_videos", "list_comments"},
		Soul: "Opportunist with a fixed phrasebook. Trusts explicit language over " +
			"volume; one commenter asking about pricing outweighs a thousand views.",
	}
}

// matchBuyingSignal returns the first matching phrase, or "".
func matchBuyingSignal(text string) string {
	lower := strings.ToLower(text)
	for _, phrase := range buyingSignalPhrases {
		if strings.Contains(lower, phrase) {
			return phrase
		}
	}
	return ""
}

func (a *LeadQualifier) Run(ctx context.Context, params Params) Result {
	var insights []memstore.InsightFields

	for _, keyword := range params.Keywords {
		query := keyword + leadQueryAugmentation
		page, err := a.yt.SearchVideos(ctx, query, leadSearchLimit, "")
		if err != nil {
			log.Printf("[lead-qualifier] search %q skipped: %v", keyword, err)
			continue
		}
		if len(page.Videos) == 0 {
			continue
		}

		// Only the top-ranked result is mined for comments.
		top := page.Videos[0]
		comments, err := a.yt.ListComments(ctx, top.ID, leadTopVideoComments, "")
		if err != nil {
			log.Printf("[lead-qualifier] comments on %s skipped: %v", top.ID, err)
			continue
		}
		if detail, n := flagComments(comments.Comments); n > 0 {
			insights = append(insights, memstore.InsightFields{
				Kind:   memstore.InsightBuyingSignal,
				Title:  fmt.Sprintf("%d buying signal(s) around %q", n, keyword),
				Detail: fmt.Sprintf("Under %q (%s): %s", top.Title, top.ID, detail),
				Provenance: memstore.Provenance{
					VideoID: top.ID,
					Query:   query,
				},
			})
		}
	}

	for _, videoID := range params.VideoIDs {
		comments, err := a.yt.ListComments(ctx, videoID, leadDirectVideoLimit, "")
		if err != nil {
			log.Printf("[lead-qualifier] video %s skipped: %v", videoID, err)
			continue
		}
		if detail, n := flagComments(comments.Comments); n > 0 {
			insights = append(insights, memstore.InsightFields{
				Kind:       memstore.InsightBuyingSignal,
				Title:      fmt.Sprintf("%d buying signal(s) on video %s", n, videoID),
				Detail:     detail,
				Provenance: memstore.Provenance{VideoID: videoID},
			})
		}
	}

	return Result{
		Success: true,
		Summary: fmt.Sprintf("Qualified %d keyword(s) and %d video(s), found %d lead insight(s)",
			len(params.Keywords), len(params.VideoIDs), len(insights)),
		Insights: insights,
	}
}

// flagComments returns a formatted list of up to leadExampleLimit flagged
// comments and the total number flagged.
func flagComments(comments []youtube.Comment) (string, int) {
	var examples []string
	flagged := 0
	for _, c := range comments {
		phrase := matchBuyingSignal(c.Text)
		if phrase == "" {
			continue
		}
		flagged++
		if len(examples) < leadExampleLimit {
			examples = append(examples, fmt.Sprintf("[%s] %q by %s (%d likes)",
				phrase, truncate(c.Text, quoteLimit), c.Author, c.LikeCount))
		}
	}
	return strings.Join(examples, " | "), flagged
}
