package agents

import (
	"context"
	"fmt"
	"log"

	"github.com/loomworks/tubewatch/internal/memstore"
)

// Orchestrator selects and runs agents and persists what they find.
type Orchestrator struct {
	store  *memstore.Store
	agents map[string]Agent
	order  []string
}

func NewOrchestrator(store *memstore.Store, yt Capability) *Orchestrator {
	o := &Orchestrator{
		store:  store,
		agents: make(map[string]Agent),
	}
	for _, a := range []Agent{
		NewCompetitorMonitor(yt),
		NewSentimentAnalyst(yt),
		NewTrendSpotter(yt),
		NewLeadQualifier(yt),
	} {
		id := a.Info().ID
		o.agents[id] = a
		o.order = append(o.order, id)
	}
	return o
}

// ListAgents returns static metadata for every agent; no side effects.
func (o *Orchestrator) ListAgents() []Info {
	infos := make([]Info, 0, len(o.order))
	for _, id := range o.order {
		infos = append(infos, o.agents[id].Info())
	}
	return infos
}

// RunAgent dispatches to one agent and persists its insights tagged with the
// agent id. An unknown id is a structural failure result, not an error; the
// returned error is reserved for persistence failures.
func (o *Orchestrator) RunAgent(ctx context.Context, id string, params Params) (Result, error) {
	agent, ok := o.agents[id]
	if !ok {
		return Result{
			AgentID: id,
			Success: false,
			Summary: fmt.Sprintf("unknown agent %q; available: %v", id, o.order),
		}, nil
	}

	result := agent.Run(ctx, params)
	result.AgentID = id
	if result.Success {
		if err := o.persist(id, result.Insights); err != nil {
			return result, err
		}
	}
	return result, nil
}

// RunAllAgents loads the profile and invokes the agents it warrants, in a
// fixed order. An unconfigured profile yields a single failure result
// without any upstream calls.
func (o *Orchestrator) RunAllAgents(ctx context.Context) ([]Result, error) {
	state, err := o.store.Load()
	if err != nil {
		return nil, err
	}
	profile := state.Profile

	if len(profile.Competitors) == 0 && len(profile.Keywords) == 0 && len(profile.TrackedChannels) == 0 {
		return []Result{{
			Success: false,
			Summary: "profile has no competitors, keywords or tracked channels; use configure_user first",
		}}, nil
	}

	var results []Result

	if len(profile.TrackedChannels) > 0 || len(profile.Competitors) > 0 {
		keywords := make([]string, 0, len(profile.Competitors))
		for _, c := range profile.Competitors {
			keywords = append(keywords, c+" review")
		}
		r, err := o.RunAgent(ctx, "competitor-monitor", Params{
			Channels: profile.TrackedChannels,
			Keywords: keywords,
		})
		if err != nil {
			return results, err
		}
		results = append(results, r)
	}

	if len(profile.Keywords) > 0 {
		r, err := o.RunAgent(ctx, "trend-spotter", Params{Keywords: profile.Keywords})
		if err != nil {
			return results, err
		}
		results = append(results, r)
	}

	if len(profile.Keywords) > 0 || len(profile.Competitors) > 0 {
		keywords := append(append([]string{}, profile.Keywords...), profile.Competitors...)
		r, err := o.RunAgent(ctx, "lead-qualifier", Params{Keywords: keywords})
		if err != nil {
			return results, err
		}
		results = append(results, r)
	}

	// The sentiment analyst is never auto-selected: the profile carries no
	// video ids for it to work on.

	return results, nil
}

func (o *Orchestrator) persist(agentID string, insights []memstore.InsightFields) error {
	for _, fields := range insights {
		if _, err := o.store.AddInsight(agentID, fields); err != nil {
			return fmt.Errorf("persist insight from %s: %w", agentID, err)
		}
	}
	if len(insights) > 0 {
		log.Printf("[orchestrator] persisted %d insight(s) from %s", len(insights), agentID)
	}
	return nil
}
