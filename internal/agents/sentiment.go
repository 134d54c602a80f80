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
	sentimentCommentLimit = 50
	quoteLimit            = 120
)

// SentimentAnalyst classifies comments on given videos by vocabulary match.
type SentimentAnalyst struct {
	yt Capability
}

func NewSentimentAnalyst(yt Capability) *SentimentAnalyst {
	return &SentimentAnalyst{yt: yt}
}

func (a *SentimentAnalyst) Info() Info {
	return Info{
		ID:     "sentiment-analyst",
		Name:   "Sentiment Analyst",
		Role:   "Clusters video comments into negative, positive and request buckets",
		Skills: []string{"list_comments"},
		Soul: "Literal-minded classifier. Quotes the audience verbatim instead of " +
			"paraphrasing, and treats an explicit feature request as a stronger " +
			"signal than any amount of complaining.",
	}
}

// classifyComment checks the fixed vocabularies in priority order:
// request > negative > positive, defaulting to neutral.
func classifyComment(text string) string {
	lower := strings.ToLower(text)
	for _, phrase := range requestPhrases {
		if strings.Contains(lower, phrase) {
			return "request"
		}
	}
	for _, word := range negativeWords {
		if strings.Contains(lower, word) {
			return "negative"
		}
	}
	for _, word := range positiveWords {
		if strings.Contains(lower, word) {
			return "positive"
		}
	}
	return "neutral"
}

func (a *SentimentAnalyst) Run(ctx context.Context, params Params) Result {
	var insights []memstore.InsightFields
	analyzed := 0

	for _, videoID := range params.VideoIDs {
		page, err := a.yt.ListComments(ctx, videoID, sentimentCommentLimit, "")
		if err != nil {
			// Disabled comments and transient upstream failures both skip the
			// video without failing the run.
			log.Printf("[sentiment-analyst] video %s skipped: %v", videoID, err)
			continue
		}
		analyzed++

		var negatives, requests, positives []youtube.Comment
		for _, c := range page.Comments {
			switch classifyComment(c.Text) {
			case "request":
				requests = append(requests, c)
			case "negative":
				negatives = append(negatives, c)
			case "positive":
				positives = append(positives, c)
			}
		}

		if len(negatives) > 0 {
			insights = append(insights, memstore.InsightFields{
				Kind:       memstore.InsightSentiment,
				Title:      fmt.Sprintf("%d negative comment(s) on video %s", len(negatives), videoID),
				Detail:     quoteExamples(negatives, 5),
				Provenance: memstore.Provenance{VideoID: videoID},
			})
		}
		if len(requests) > 0 {
			// Feature requests are filed under buying_signal: someone asking
			// for a capability is treated as purchase-adjacent intent.
			insights = append(insights, memstore.InsightFields{
				Kind:       memstore.InsightBuyingSignal,
				Title:      fmt.Sprintf("%d feature request(s) on video %s", len(requests), videoID),
				Detail:     quoteExamples(requests, 5),
				Provenance: memstore.Provenance{VideoID: videoID},
			})
		}
		if len(positives) > 0 {
			insights = append(insights, memstore.InsightFields{
				Kind:       memstore.InsightSentiment,
				Title:      fmt.Sprintf("%d positive comment(s) on video %s", len(positives), videoID),
				Detail:     quoteExamples(positives, 3),
				Provenance: memstore.Provenance{VideoID: videoID},
			})
		}
	}

	return Result{
		Success: true,
		Summary: fmt.Sprintf("Analyzed comments on %d of %d video(s), produced %d insight(s)",
			analyzed, len(params.VideoIDs), len(insights)),
		Insights: insights,
	}
}

func quoteExamples(comments []youtube.Comment, max int) string {
	var quotes []string
	for i, c := range comments {
		if i >= max {
			break
		}
		quotes = append(quotes, fmt.Sprintf("%q (%d likes)", truncate(c.Text, quoteLimit), c.LikeCount))
	}
	return strings.Join(quotes, " | ")
}
