package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultBaseURL = "https://www.googleapis.com/youtube/v3"

// Client is a typed client for the YouTube Data API v3.
type Client struct {
	apiKey  string
	baseURL string
	hc      *http.Client
}

// NewClient creates a client. A missing API key is a configuration error.
func NewClient(apiKey string) (*Client, error) {
	return NewClientWithBaseURL(apiKey, defaultBaseURL)
}

// NewClientWithBaseURL creates a client against a custom endpoint (tests).
func NewClientWithBaseURL(apiKey, baseURL string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("youtube: API key not set (set TUBEWATCH_YOUTUBE_API_KEY or youtube.apiKey in config)")
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		hc:      &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// SearchVideos runs a video search. maxResults is clamped to 1-50.
func (c *Client) SearchVideos(ctx context.Context, query string, maxResults int, pageToken string) (*VideoPage, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(clamp(maxResults, 1, 50)))
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	var result struct {
		NextPageToken string `json:"nextPageToken"`
		PageInfo      struct {
			TotalResults int `json:"totalResults"`
		} `json:"pageInfo"`
		Items []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
			Snippet videoSnippet `json:"snippet"`
		} `json:"items"`
	}
	if err := c.get(ctx, "search", params, &result); err != nil {
		return nil, fmt.Errorf("search videos %q: %w", query, err)
	}

	page := &VideoPage{
		TotalResults:  result.PageInfo.TotalResults,
		NextPageToken: result.NextPageToken,
	}
	for _, item := range result.Items {
		page.Videos = append(page.Videos, item.Snippet.toVideo(item.ID.VideoID))
	}
	return page, nil
}

// ListComments fetches top-level comment threads for a video. maxResults is
// clamped to 1-100. Videos with comments turned off yield ErrCommentsDisabled.
func (c *Client) ListComments(ctx context.Context, videoID string, maxResults int, pageToken string) (*CommentPage, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("videoId", videoID)
	params.Set("maxResults", strconv.Itoa(clamp(maxResults, 1, 100)))
	params.Set("textFormat", "plainText")
	params.Set("order", "relevance")
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	var result struct {
		NextPageToken string `json:"nextPageToken"`
		PageInfo      struct {
			TotalResults int `json:"totalResults"`
		} `json:"pageInfo"`
		Items []struct {
			ID      string `json:"id"`
			Snippet struct {
				TopLevelComment struct {
					Snippet struct {
						AuthorDisplayName string    `json:"authorDisplayName"`
						TextDisplay       string    `json:"textDisplay"`
						LikeCount         int       `json:"likeCount"`
						PublishedAt       time.Time `json:"publishedAt"`
					} `json:"snippet"`
				} `json:"topLevelComment"`
				TotalReplyCount int `json:"totalReplyCount"`
			} `json:"snippet"`
		} `json:"items"`
	}
	if err := c.get(ctx, "commentThreads", params, &result); err != nil {
		return nil, fmt.Errorf("list comments for %s: %w", videoID, err)
	}

	page := &CommentPage{
		TotalResults:  result.PageInfo.TotalResults,
		NextPageToken: result.NextPageToken,
	}
	for _, item := range result.Items {
		cs := item.Snippet.TopLevelComment.Snippet
		page.Comments = append(page.Comments, Comment{
			ID:          item.ID,
			Author:      cs.AuthorDisplayName,
			Text:        cs.TextDisplay,
			LikeCount:   cs.LikeCount,
			PublishedAt: cs.PublishedAt,
			ReplyCount:  item.Snippet.TotalReplyCount,
		})
	}
	return page, nil
}

// ChannelVideos fetches a channel's most recent uploads. The Data API has no
// direct listing, so this resolves the channel's uploads playlist first and
// then pages through it.
func (c *Client) ChannelVideos(ctx context.Context, channelID string, maxResults int, pageToken string) (*ChannelVideosPage, error) {
	params := url.Values{}
	params.Set("part", "snippet,contentDetails")
	params.Set("id", channelID)

	var chResult struct {
		Items []struct {
			Snippet struct {
				Title string `json:"title"`
			} `json:"snippet"`
			ContentDetails struct {
				RelatedPlaylists struct {
					Uploads string `json:"uploads"`
				} `json:"relatedPlaylists"`
			} `json:"contentDetails"`
		} `json:"items"`
	}
	if err := c.get(ctx, "channels", params, &chResult); err != nil {
		return nil, fmt.Errorf("resolve channel %s: %w", channelID, err)
	}
	if len(chResult.Items) == 0 {
		return nil, fmt.Errorf("resolve channel %s: %w", channelID, ErrNotFound)
	}
	channelTitle := chResult.Items[0].Snippet.Title
	uploads := chResult.Items[0].ContentDetails.RelatedPlaylists.Uploads
	if uploads == "" {
		return &ChannelVideosPage{ChannelTitle: channelTitle}, nil
	}

	params = url.Values{}
	params.Set("part", "snippet,contentDetails")
	params.Set("playlistId", uploads)
	params.Set("maxResults", strconv.Itoa(clamp(maxResults, 1, 50)))
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	var plResult struct {
		NextPageToken string `json:"nextPageToken"`
		Items         []struct {
			Snippet        videoSnippet `json:"snippet"`
			ContentDetails struct {
				VideoID          string    `json:"videoId"`
				VideoPublishedAt time.Time `json:"videoPublishedAt"`
			} `json:"contentDetails"`
		} `json:"items"`
	}
	if err := c.get(ctx, "playlistItems", params, &plResult); err != nil {
		return nil, fmt.Errorf("list uploads for %s: %w", channelID, err)
	}

	page := &ChannelVideosPage{
		ChannelTitle:  channelTitle,
		NextPageToken: plResult.NextPageToken,
	}
	for _, item := range plResult.Items {
		v := item.Snippet.toVideo(item.ContentDetails.VideoID)
		if !item.ContentDetails.VideoPublishedAt.IsZero() {
			v.PublishedAt = item.ContentDetails.VideoPublishedAt
		}
		page.Videos = append(page.Videos, v)
	}
	return page, nil
}

// SearchChannels runs a channel search. maxResults is clamped to 1-10.
func (c *Client) SearchChannels(ctx context.Context, query string, maxResults int) ([]Channel, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "channel")
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(clamp(maxResults, 1, 10)))

	var result struct {
		Items []struct {
			ID struct {
				ChannelID string `json:"channelId"`
			} `json:"id"`
			Snippet struct {
				Title       string `json:"title"`
				Description string `json:"description"`
			} `json:"snippet"`
		} `json:"items"`
	}
	if err := c.get(ctx, "search", params, &result); err != nil {
		return nil, fmt.Errorf("search channels %q: %w", query, err)
	}

	var channels []Channel
	for _, item := range result.Items {
		channels = append(channels, Channel{
			ID:          item.ID.ChannelID,
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
		})
	}
	return channels, nil
}

func (c *Client) get(ctx context.Context, resource string, params url.Values, out any) error {
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, "GET",
		fmt.Sprintf("%s/%s?%s", c.baseURL, resource, params.Encode()), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", resource, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseAPIError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", resource, err)
	}
	return nil
}

func parseAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body struct {
		Error struct {
			Message string `json:"message"`
			Errors  []struct {
				Reason string `json:"reason"`
			} `json:"errors"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Message = body.Error.Message
		if len(body.Error.Errors) > 0 {
			apiErr.Reason = body.Error.Errors[0].Reason
		}
	}
	return apiErr
}

type videoSnippet struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ChannelID    string    `json:"channelId"`
	ChannelTitle string    `json:"channelTitle"`
	PublishedAt  time.Time `json:"publishedAt"`
	Thumbnails   struct {
		Default struct {
			URL string `json:"url"`
		} `json:"default"`
	} `json:"thumbnails"`
}

func (s videoSnippet) toVideo(id string) Video {
	return Video{
		ID:           id,
		Title:        s.Title,
		Description:  s.Description,
		ChannelID:    s.ChannelID,
		ChannelTitle: s.ChannelTitle,
		PublishedAt:  s.PublishedAt,
		Thumbnail:    s.Thumbnails.Default.URL,
	}
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
