package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/loomworks/tubewatch/internal/agents"
	"github.com/loomworks/tubewatch/internal/memstore"
)

func (s *Server) registerTools() {
	s.mcp.AddTool(&mcp.Tool{
		Name:        "configure_user",
		Description: "Update the monitoring profile. Supplied list fields replace the stored ones entirely.",
		InputSchema: objectSchema(map[string]any{
			"industry":         map[string]any{"type": "string"},
			"competitors":      stringArraySchema(),
			"keywords":         stringArraySchema(),
			"tracked_channels": stringArraySchema(),
			"notes":            stringArraySchema(),
		}, nil),
	}, s.handleConfigureUser)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "add_monitor",
		Description: "Register a channel or keyword for periodic monitoring. Idempotent by (type, value).",
		InputSchema: objectSchema(map[string]any{
			"type":  map[string]any{"type": "string", "enum": []string{"channel", "keyword"}},
			"value": map[string]any{"type": "string"},
		}, []string{"type", "value"}),
	}, s.handleAddMonitor)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "remove_monitor",
		Description: "Remove a monitor target by id.",
		InputSchema: objectSchema(map[string]any{
			"id": map[string]any{"type": "string"},
		}, []string{"id"}),
	}, s.handleRemoveMonitor)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "get_memory",
		Description: "Dump the stored profile, monitor targets and most recent insights.",
		InputSchema: objectSchema(map[string]any{}, nil),
	}, s.handleGetMemory)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "run_agent",
		Description: "Run one monitoring agent. Params default from the stored profile when omitted.",
		InputSchema: objectSchema(map[string]any{
			"agent_id": map[string]any{"type": "string"},
			"params": objectSchema(map[string]any{
				"keywords":  stringArraySchema(),
				"channels":  stringArraySchema(),
				"video_ids": stringArraySchema(),
			}, nil),
		}, []string{"agent_id"}),
	}, s.handleRunAgent)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "run_all_agents",
		Description: "Run every agent the stored profile warrants and persist their insights.",
		InputSchema: objectSchema(map[string]any{}, nil),
	}, s.handleRunAllAgents)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "list_agents",
		Description: "List the available monitoring agents and their identities.",
		InputSchema: objectSchema(map[string]any{}, nil),
	}, s.handleListAgents)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "get_insights",
		Description: "Query stored insights by agent and/or type. Returns the last N matches in append order.",
		InputSchema: objectSchema(map[string]any{
			"agent_id": map[string]any{"type": "string"},
			"type": map[string]any{"type": "string",
				"enum": []string{"buying_signal", "competitor_move", "sentiment", "trend"}},
			"limit": map[string]any{"type": "integer", "minimum": 1, "maximum": 100},
		}, nil),
	}, s.handleGetInsights)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "heartbeat",
		Description: "Control the periodic monitoring timer.",
		InputSchema: objectSchema(map[string]any{
			"action":           map[string]any{"type": "string", "enum": []string{"start", "stop", "status"}},
			"interval_minutes": map[string]any{"type": "integer", "minimum": 5, "maximum": 120},
		}, []string{"action"}),
	}, s.handleHeartbeat)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "search_videos",
		Description: "Search YouTube videos.",
		InputSchema: objectSchema(map[string]any{
			"query":       map[string]any{"type": "string"},
			"max_results": map[string]any{"type": "integer", "minimum": 1, "maximum": 50},
			"page_token":  map[string]any{"type": "string"},
		}, []string{"query"}),
	}, s.handleSearchVideos)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "get_video_comments",
		Description: "Fetch top-level comments for a video.",
		InputSchema: objectSchema(map[string]any{
			"video_id":    map[string]any{"type": "string"},
			"max_results": map[string]any{"type": "integer", "minimum": 1, "maximum": 100},
			"page_token":  map[string]any{"type": "string"},
		}, []string{"video_id"}),
	}, s.handleGetVideoComments)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "get_channel_videos",
		Description: "Fetch a channel's most recent uploads.",
		InputSchema: objectSchema(map[string]any{
			"channel_id":  map[string]any{"type": "string"},
			"max_results": map[string]any{"type": "integer", "minimum": 1, "maximum": 50},
			"page_token":  map[string]any{"type": "string"},
		}, []string{"channel_id"}),
	}, s.handleGetChannelVideos)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "search_channels",
		Description: "Search YouTube channels.",
		InputSchema: objectSchema(map[string]any{
			"query":       map[string]any{"type": "string"},
			"max_results": map[string]any{"type": "integer", "minimum": 1, "maximum": 10},
		}, []string{"query"}),
	}, s.handleSearchChannels)
}

func objectSchema(properties map[string]any, required []string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func stringArraySchema() map[string]any {
	return map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
}

func decodeArgs(req *mcp.CallToolRequest, out any) error {
	if len(req.Params.Arguments) == 0 {
		return nil
	}
	if err := json.Unmarshal(req.Params.Arguments, out); err != nil {
		return fmt.Errorf("decode arguments: %w", err)
	}
	return nil
}

func (s *Server) handleConfigureUser(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Industry        *string   `json:"industry"`
		Competitors     *[]string `json:"competitors"`
		Keywords        *[]string `json:"keywords"`
		TrackedChannels *[]string `json:"tracked_channels"`
		Notes           *[]string `json:"notes"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return errorResult("%v", err), nil
	}

	profile, err := s.store.UpdateProfile(memstore.ProfileUpdate{
		Industry:        args.Industry,
		Competitors:     args.Competitors,
		Keywords:        args.Keywords,
		TrackedChannels: args.TrackedChannels,
		Notes:           args.Notes,
	})
	if err != nil {
		return nil, err
	}
	return textResult("Profile updated: industry=%q, %d competitor(s), %d keyword(s), %d tracked channel(s), %d note(s)",
		profile.Industry, len(profile.Competitors), len(profile.Keywords),
		len(profile.TrackedChannels), len(profile.Notes)), nil
}

func (s *Server) handleAddMonitor(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return errorResult("%v", err), nil
	}
	kind, err := parseMonitorKind(args.Type)
	if err != nil {
		return errorResult("%v", err), nil
	}
	if args.Value == "" {
		return errorResult("value must not be empty"), nil
	}

	target, err := s.store.AddMonitor(kind, args.Value)
	if err != nil {
		return nil, err
	}
	return textResult("Monitoring %s %q (id %s, created %s)",
		target.Kind, target.Value, target.ID, target.CreatedAt.Format("2006-01-02 15:04:05")), nil
}

func (s *Server) handleRemoveMonitor(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		ID string `json:"id"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return errorResult("%v", err), nil
	}

	removed, err := s.store.RemoveMonitor(args.ID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return errorResult("no monitor with id %q", args.ID), nil
	}
	return textResult("Monitor %s removed", args.ID), nil
}

func (s *Server) handleGetMemory(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	p := state.Profile
	fmt.Fprintf(&b, "Profile: industry=%q, competitors=%v, keywords=%v, channels=%v, notes=%d\n",
		p.Industry, p.Competitors, p.Keywords, p.TrackedChannels, len(p.Notes))

	fmt.Fprintf(&b, "Monitors (%d):\n", len(state.Monitors))
	for _, m := range state.Monitors {
		checked := "never"
		if m.LastCheckedAt != nil {
			checked = m.LastCheckedAt.Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(&b, "  [%s] %s %q last checked %s\n", m.ID, m.Kind, m.Value, checked)
	}

	fmt.Fprintf(&b, "Insights: %d stored, %d conversation entries. Most recent:\n",
		len(state.Insights), len(state.Conversations))
	start := len(state.Insights) - 5
	if start < 0 {
		start = 0
	}
	for _, ins := range state.Insights[start:] {
		fmt.Fprintf(&b, "  [%s/%s] %s\n", ins.AgentID, ins.Kind, ins.Title)
	}
	return textResult("%s", b.String()), nil
}

func (s *Server) handleRunAgent(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		AgentID string         `json:"agent_id"`
		Params  *agents.Params `json:"params"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return errorResult("%v", err), nil
	}

	params := agents.Params{}
	if args.Params != nil {
		params = *args.Params
	} else {
		state, err := s.store.Load()
		if err != nil {
			return nil, err
		}
		params.Keywords = state.Profile.Keywords
		params.Channels = state.Profile.TrackedChannels
	}

	result, err := s.orch.RunAgent(ctx, args.AgentID, params)
	if err != nil {
		return nil, err
	}
	if !result.Success {
		return errorResult("%s", result.Summary), nil
	}
	return textResult("%s", formatResults([]agents.Result{result})), nil
}

func (s *Server) handleRunAllAgents(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	results, err := s.orch.RunAllAgents(ctx)
	if err != nil {
		return nil, err
	}
	if len(results) == 1 && !results[0].Success {
		return errorResult("%s", results[0].Summary), nil
	}
	return textResult("%s", formatResults(results)), nil
}

func (s *Server) handleListAgents(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var b strings.Builder
	for _, info := range s.orch.ListAgents() {
		fmt.Fprintf(&b, "%s (%s): %s\n  skills: %s\n  soul: %s\n",
			info.ID, info.Name, info.Role, strings.Join(info.Skills, ", "), info.Soul)
	}
	return textResult("%s", b.String()), nil
}

func (s *Server) handleGetInsights(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		AgentID string `json:"agent_id"`
		Type    string `json:"type"`
		Limit   *int   `json:"limit"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return errorResult("%v", err), nil
	}
	limit, err := parseLimit(args.Limit)
	if err != nil {
		return errorResult("%v", err), nil
	}
	kind, err := parseInsightKind(args.Type)
	if err != nil {
		return errorResult("%v", err), nil
	}

	insights, err := s.store.QueryInsights(memstore.InsightFilter{
		AgentID: args.AgentID,
		Kind:    kind,
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}
	if len(insights) == 0 {
		return textResult("No matching insights."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d insight(s):\n", len(insights))
	for _, ins := range insights {
		fmt.Fprintf(&b, "[%s] %s/%s: %s\n  %s\n",
			ins.CreatedAt.Format("2006-01-02 15:04"), ins.AgentID, ins.Kind, ins.Title, ins.Detail)
	}
	return textResult("%s", b.String()), nil
}

func (s *Server) handleHeartbeat(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Action          string `json:"action"`
		IntervalMinutes *int   `json:"interval_minutes"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return errorResult("%v", err), nil
	}

	switch args.Action {
	case "start":
		interval, err := parseInterval(args.IntervalMinutes)
		if err != nil {
			return errorResult("%v", err), nil
		}
		if !s.hb.Start(interval) {
			status := s.hb.Status()
			return textResult("started=false: heartbeat already running every %dm", status.IntervalMinutes), nil
		}
		return textResult("started=true: heartbeat running every %dm", interval), nil
	case "stop":
		if s.hb.Stop() {
			return textResult("Heartbeat stopped"), nil
		}
		return textResult("Heartbeat was not running"), nil
	case "status":
		status := s.hb.Status()
		if status.Running {
			return textResult("Heartbeat running every %dm", status.IntervalMinutes), nil
		}
		return textResult("Heartbeat not running"), nil
	default:
		return errorResult("action must be start, stop or status, got %q", args.Action), nil
	}
}

func (s *Server) handleSearchVideos(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Query      string `json:"query"`
		MaxResults int    `json:"max_results"`
		PageToken  string `json:"page_token"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return errorResult("%v", err), nil
	}
	if args.MaxResults == 0 {
		args.MaxResults = 10
	}

	page, err := s.yt.SearchVideos(ctx, args.Query, args.MaxResults, args.PageToken)
	if err != nil {
		return errorResult("%v", err), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d total result(s) for %q", page.TotalResults, args.Query)
	if page.NextPageToken != "" {
		fmt.Fprintf(&b, " (next page: %s)", page.NextPageToken)
	}
	b.WriteString("\n")
	for _, v := range page.Videos {
		fmt.Fprintf(&b, "[%s] %q by %s, published %s\n",
			v.ID, v.Title, v.ChannelTitle, v.PublishedAt.Format("2006-01-02"))
	}
	return textResult("%s", b.String()), nil
}

func (s *Server) handleGetVideoComments(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		VideoID    string `json:"video_id"`
		MaxResults int    `json:"max_results"`
		PageToken  string `json:"page_token"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return errorResult("%v", err), nil
	}
	if args.MaxResults == 0 {
		args.MaxResults = 20
	}

	page, err := s.yt.ListComments(ctx, args.VideoID, args.MaxResults, args.PageToken)
	if err != nil {
		return errorResult("%v", err), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d comment(s) on %s", page.TotalResults, args.VideoID)
	if page.NextPageToken != "" {
		fmt.Fprintf(&b, " (next page: %s)", page.NextPageToken)
	}
	b.WriteString("\n")
	for _, c := range page.Comments {
		fmt.Fprintf(&b, "%s (%d likes, %d replies): %s\n", c.Author, c.LikeCount, c.ReplyCount, c.Text)
	}
	return textResult("%s", b.String()), nil
}

func (s *Server) handleGetChannelVideos(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		ChannelID  string `json:"channel_id"`
		MaxResults int    `json:"max_results"`
		PageToken  string `json:"page_token"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return errorResult("%v", err), nil
	}
	if args.MaxResults == 0 {
		args.MaxResults = 10
	}

	page, err := s.yt.ChannelVideos(ctx, args.ChannelID, args.MaxResults, args.PageToken)
	if err != nil {
		return errorResult("%v", err), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Uploads from %s (%s)\n", page.ChannelTitle, args.ChannelID)
	for _, v := range page.Videos {
		fmt.Fprintf(&b, "[%s] %q published %s\n", v.ID, v.Title, v.PublishedAt.Format("2006-01-02"))
	}
	return textResult("%s", b.String()), nil
}

func (s *Server) handleSearchChannels(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Query      string `json:"query"`
		MaxResults int    `json:"max_results"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return errorResult("%v", err), nil
	}
	if args.MaxResults == 0 {
		args.MaxResults = 5
	}

	channels, err := s.yt.SearchChannels(ctx, args.Query, args.MaxResults)
	if err != nil {
		return errorResult("%v", err), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d channel(s) for %q\n", len(channels), args.Query)
	for _, ch := range channels {
		fmt.Fprintf(&b, "[%s] %s: %s\n", ch.ID, ch.Title, ch.Description)
	}
	return textResult("%s", b.String()), nil
}

func formatResults(results []agents.Result) string {
	var b strings.Builder
	for _, r := range results {
		fmt.Fprintf(&b, "%s: %s\n", r.AgentID, r.Summary)
		for _, ins := range r.Insights {
			fmt.Fprintf(&b, "  [%s] %s\n", ins.Kind, ins.Title)
		}
	}
	return b.String()
}

var errUnknownKind = errors.New("type must be one of buying_signal, competitor_move, sentiment, trend")

func parseMonitorKind(t string) (memstore.MonitorKind, error) {
	switch t {
	case "channel":
		return memstore.MonitorChannel, nil
	case "keyword":
		return memstore.MonitorKeyword, nil
	default:
		return "", fmt.Errorf("type must be channel or keyword, got %q", t)
	}
}

func parseInsightKind(t string) (memstore.InsightKind, error) {
	switch memstore.InsightKind(t) {
	case "", memstore.InsightBuyingSignal, memstore.InsightCompetitorMove,
		memstore.InsightSentiment, memstore.InsightTrend:
		return memstore.InsightKind(t), nil
	default:
		return "", errUnknownKind
	}
}

func parseLimit(limit *int) (int, error) {
	if limit == nil {
		return 20, nil
	}
	if *limit < 1 || *limit > 100 {
		return 0, fmt.Errorf("limit must be between 1 and 100, got %d", *limit)
	}
	return *limit, nil
}

func parseInterval(interval *int) (int, error) {
	if interval == nil {
		return 30, nil
	}
	if *interval < 5 || *interval > 120 {
		return 0, fmt.Errorf("interval_minutes must be between 5 and 120, got %d", *interval)
	}
	return *interval, nil
}
