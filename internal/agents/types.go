package agents

import (
	"context"

	"github.com/loomworks/tubewatch/internal/memstore"
	"github.com/loomworks/tubewatch/internal/youtube"
)

// Capability is the subset of the YouTube client the agents consume.
type Capability interface {
	SearchVideos(ctx context.Context, query string, maxResults int, pageToken string) (*youtube.VideoPage, error)
	ListComments(ctx context.Context, videoID string, maxResults int, pageToken string) (*youtube.CommentPage, error)
	ChannelVideos(ctx context.Context, channelID string, maxResults int, pageToken string) (*youtube.ChannelVideosPage, error)
}

// Info is an agent's static identity.
type Info struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Role   string   `json:"role"`
	Skills []string `json:"skills"`
	Soul   string   `json:"soul"`
}

// Params is the parameter bag passed to an agent run.
type Params struct {
	Keywords []string `json:"keywords,omitempty"`
	Channels []string `json:"channels,omitempty"`
	VideoIDs []string `json:"video_ids,omitempty"`
}

// Result is one agent run's outcome. Insights carry no id, timestamp or
// agent id; the orchestrator fills those in when persisting. Success stays
// true even when every upstream item failed; only structural errors (an
// unknown agent at dispatch) make it false.
type Result struct {
	AgentID  string                   `json:"agentId,omitempty"`
	Success  bool                     `json:"success"`
	Summary  string                   `json:"summary"`
	Insights []memstore.InsightFields `json:"insights,omitempty"`
}

// Agent is one named heuristic unit over the YouTube capability.
type Agent interface {
	Info() Info
	Run(ctx context.Context, params Params) Result
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
