package youtube

import "time"

// Video is one search or playlist result.
type Video struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ChannelID    string    `json:"channelId"`
	ChannelTitle string    `json:"channelTitle"`
	PublishedAt  time.Time `json:"publishedAt"`
	Thumbnail    string    `json:"thumbnail,omitempty"`
}

// VideoPage is one page of video search results.
type VideoPage struct {
	Videos        []Video `json:"videos"`
	TotalResults  int     `json:"totalResults"`
	NextPageToken string  `json:"nextPageToken,omitempty"`
}

// Comment is one top-level comment on a video.
type Comment struct {
	ID          string    `json:"id"`
	Author      string    `json:"author"`
	Text        string    `json:"text"`
	LikeCount   int       `json:"likeCount"`
	PublishedAt time.Time `json:"publishedAt"`
	ReplyCount  int       `json:"replyCount"`
}

// CommentPage is one page of comment threads.
type CommentPage struct {
	Comments      []Comment `json:"comments"`
	TotalResults  int       `json:"totalResults"`
	NextPageToken string    `json:"nextPageToken,omitempty"`
}

// ChannelVideosPage is one page of a channel's uploads.
type ChannelVideosPage struct {
	ChannelTitle  string  `json:"channelTitle"`
	Videos        []Video `json:"videos"`
	NextPageToken string  `json:"nextPageToken,omitempty"`
}

// Channel is one channel search result.
type Channel struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}
