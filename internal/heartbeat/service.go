package heartbeat

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	rcron "github.com/robfig/cron/v3"

	"github.com/loomworks/tubewatch/internal/agents"
	"github.com/loomworks/tubewatch/internal/memstore"
)

// Runner is the orchestrator surface the heartbeat drives.
type Runner interface {
	RunAllAgents(ctx context.Context) ([]agents.Result, error)
}

// Notifier pushes tick summaries to an external channel. May be nil.
type Notifier interface {
	Send(text string) error
}

// Status reports the timer's current state.
type Status struct {
	Running         bool `json:"running"`
	IntervalMinutes int  `json:"intervalMinutes,omitempty"`
}

// Service owns the single process-wide monitoring timer. It is created by
// the composition root and handed to whatever exposes the tool surface;
// state is process-local and never persisted.
type Service struct {
	store    *memstore.Store
	runner   Runner
	notifier Notifier

	mu       sync.Mutex
	cron     *rcron.Cron
	running  bool
	interval int
}

func NewService(store *memstore.Store, runner Runner, notifier Notifier) *Service {
	return &Service{store: store, runner: runner, notifier: notifier}
}

// Start arms the repeating timer. Returns false (leaving the existing
// schedule untouched) if it is already running.
func (s *Service) Start(intervalMinutes int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return false
	}

	c := rcron.New()
	if _, err := c.AddFunc(fmt.Sprintf("@every %dm", intervalMinutes), s.tick); err != nil {
		log.Printf("[heartbeat] arm timer: %v", err)
		return false
	}
	c.Start()

	s.cron = c
	s.running = true
	s.interval = intervalMinutes
	log.Printf("[heartbeat] started, interval %dm", intervalMinutes)
	return true
}

// Stop disarms the timer, reporting whether it was running. A tick already
// in flight runs to completion.
func (s *Service) Stop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return false
	}
	s.cron.Stop()
	s.cron = nil
	s.running = false
	s.interval = 0
	log.Printf("[heartbeat] stopped")
	return true
}

func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{Running: s.running, IntervalMinutes: s.interval}
}

// tick runs one monitoring pass. Failures are logged and the schedule
// continues; nothing here may kill the timer.
func (s *Service) tick() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[heartbeat] tick panicked: %v", r)
		}
	}()

	results, err := s.runner.RunAllAgents(context.Background())
	if err != nil {
		log.Printf("[heartbeat] tick failed: %v", err)
		return
	}

	total := 0
	ran := 0
	for _, r := range results {
		total += len(r.Insights)
		if r.Success {
			ran++
		}
	}
	summary := fmt.Sprintf("Heartbeat: ran %d agent(s), captured %d new insight(s)", ran, total)

	if err := s.store.AddConversation("agent", "heartbeat", summary); err != nil {
		log.Printf("[heartbeat] log conversation: %v", err)
		return
	}

	// RunAllAgents already performed its own load/save cycles, so the
	// monitor restamp must re-read the latest state rather than reuse a
	// snapshot from before the run.
	if n, err := s.store.TouchMonitors(time.Now().UTC()); err != nil {
		log.Printf("[heartbeat] stamp monitors: %v", err)
	} else if n > 0 {
		log.Printf("[heartbeat] stamped %d monitor(s)", n)
	}

	if s.notifier != nil {
		if err := s.notifier.Send(summary); err != nil {
			log.Printf("[heartbeat] notify: %v", err)
		}
	}
}
