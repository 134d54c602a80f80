package memstore

import "time"

// UserProfile is the singleton configuration driving agent selection.
type UserProfile struct {
	Industry        string    `json:"industry,omitempty"`
	Competitors     []string  `json:"competitors"`
	Keywords        []string  `json:"keywords"`
	TrackedChannels []string  `json:"trackedChannels"`
	Notes           []string  `json:"notes"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// MonitorKind tags a monitor target as a channel or a keyword.
type MonitorKind string

const (
	MonitorChannel MonitorKind = "channel"
	MonitorKeyword MonitorKind = "keyword"
)

// MonitorTarget is one watched channel or keyword.
type MonitorTarget struct {
	ID            string      `json:"id"`
	Kind          MonitorKind `json:"kind"`
	Value         string      `json:"value"`
	CreatedAt     time.Time   `json:"createdAt"`
	LastCheckedAt *time.Time  `json:"lastCheckedAt,omitempty"`
}

// InsightKind is the closed set of finding types agents produce.
type InsightKind string

const (
	InsightBuyingSignal   InsightKind = "buying_signal"
	InsightCompetitorMove InsightKind = "competitor_move"
	InsightSentiment      InsightKind = "sentiment"
	InsightTrend          InsightKind = "trend"
)

// Provenance records where a finding came from. None of the fields are
// required.
type Provenance struct {
	VideoID   string `json:"videoId,omitempty"`
	ChannelID string `json:"channelId,omitempty"`
	Query     string `json:"query,omitempty"`
}

// InsightFields is the part of an insight an agent fills in. The store adds
// id, agent id and timestamp on append.
type InsightFields struct {
	Kind       InsightKind `json:"kind"`
	Title      string      `json:"title"`
	Detail     string      `json:"detail"`
	Provenance Provenance  `json:"provenance"`
}

// InsightEntry is one persisted finding.
type InsightEntry struct {
	ID      string `json:"id"`
	AgentID string `json:"agentId"`
	InsightFields
	CreatedAt time.Time `json:"createdAt"`
}

// ConversationEntry is one log line of human or agent activity.
type ConversationEntry struct {
	Role      string    `json:"role"` // "user" or "agent"
	AgentID   string    `json:"agentId,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// MemoryState is the aggregate root; the whole document is the unit of
// persistence.
type MemoryState struct {
	Profile       UserProfile         `json:"profile"`
	Monitors      []MonitorTarget     `json:"monitors"`
	Insights      []InsightEntry      `json:"insights"`
	Conversations []ConversationEntry `json:"conversations"`
}

func newState() *MemoryState {
	return &MemoryState{
		Profile: UserProfile{
			Competitors:     []string{},
			Keywords:        []string{},
			TrackedChannels: []string{},
			Notes:           []string{},
		},
		Monitors:      []MonitorTarget{},
		Insights:      []InsightEntry{},
		Conversations: []ConversationEntry{},
	}
}
