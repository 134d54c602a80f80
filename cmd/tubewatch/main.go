package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/loomworks/tubewatch/internal/agents"
	"github.com/loomworks/tubewatch/internal/config"
	"github.com/loomworks/tubewatch/internal/heartbeat"
	"github.com/loomworks/tubewatch/internal/memstore"
	"github.com/loomworks/tubewatch/internal/notify"
	"github.com/loomworks/tubewatch/internal/server"
	"github.com/loomworks/tubewatch/internal/youtube"
)

const version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "tubewatch",
	Short: "tubewatch - YouTube monitoring agents",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tool surface over stdio",
	RunE:  runServe,
}

var runCmd = &cobra.Command{
	Use:   "run [agent-id]",
	Short: "Run one agent, or all profile-driven agents",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runOnce,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show tubewatch status",
	RunE:  runStatus,
}

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Initialize config",
	RunE:  runOnboard,
}

func init() {
	rootCmd.AddCommand(serveCmd, runCmd, statusCmd, onboardCmd)
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// deps is the wired object graph shared by the subcommands.
type deps struct {
	cfg   *config.Config
	store *memstore.Store
	orch  *agents.Orchestrator
	yt    *youtube.Client
	hb    *heartbeat.Service
}

func buildDeps() (*deps, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.YouTube.APIKey == "" {
		return nil, fmt.Errorf("YouTube API key not set. Run 'tubewatch onboard' or set TUBEWATCH_YOUTUBE_API_KEY / YOUTUBE_API_KEY")
	}

	yt, err := youtube.NewClient(cfg.YouTube.APIKey)
	if err != nil {
		return nil, err
	}

	store := memstore.NewStore(cfg.Memory.Path)
	orch := agents.NewOrchestrator(store, yt)

	var notifier heartbeat.Notifier
	if cfg.Notify.Telegram.Enabled {
		tg, err := notify.NewTelegram(cfg.Notify.Telegram.Token, cfg.Notify.Telegram.ChatID)
		if err != nil {
			log.Printf("[main] telegram disabled: %v", err)
		} else {
			notifier = tg
		}
	}
	hb := heartbeat.NewService(store, orch, notifier)

	return &deps{cfg: cfg, store: store, orch: orch, yt: yt, hb: hb}, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.hb.Stop()

	if d.cfg.Heartbeat.AutoStart {
		if d.hb.Start(d.cfg.Heartbeat.IntervalMinutes) {
			log.Printf("[main] heartbeat auto-started every %dm", d.cfg.Heartbeat.IntervalMinutes)
		}
	}

	srv := server.New(d.store, d.orch, d.yt, d.hb, version)
	log.Printf("[main] tubewatch %s serving on stdio (memory: %s)", version, d.store.Path())
	return srv.Run(context.Background())
}

func runOnce(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}

	ctx := context.Background()
	var results []agents.Result
	if len(args) == 1 {
		state, err := d.store.Load()
		if err != nil {
			return err
		}
		result, err := d.orch.RunAgent(ctx, args[0], agents.Params{
			Keywords: state.Profile.Keywords,
			Channels: state.Profile.TrackedChannels,
		})
		if err != nil {
			return err
		}
		results = []agents.Result{result}
	} else {
		results, err = d.orch.RunAllAgents(ctx)
		if err != nil {
			return err
		}
	}

	for _, r := range results {
		fmt.Printf("%s: %s\n", r.AgentID, r.Summary)
		for _, ins := range r.Insights {
			fmt.Printf("  [%s] %s\n    %s\n", ins.Kind, ins.Title, ins.Detail)
		}
	}
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Config: error (%v)\n", err)
		return nil
	}

	fmt.Printf("Config: %s\n", config.ConfigPath())
	fmt.Printf("Memory: %s\n", cfg.Memory.Path)
	if key := cfg.YouTube.APIKey; key != "" && len(key) > 8 {
		fmt.Printf("YouTube API key: %s...%s\n", key[:4], key[len(key)-4:])
	} else if key != "" {
		fmt.Println("YouTube API key: set")
	} else {
		fmt.Println("YouTube API key: not set")
	}
	fmt.Printf("Heartbeat: autoStart=%v interval=%dm\n", cfg.Heartbeat.AutoStart, cfg.Heartbeat.IntervalMinutes)
	fmt.Printf("Telegram: enabled=%v\n", cfg.Notify.Telegram.Enabled)

	store := memstore.NewStore(cfg.Memory.Path)
	state, err := store.Load()
	if err != nil {
		fmt.Printf("Memory state: error (%v)\n", err)
		return nil
	}
	fmt.Printf("Profile: industry=%q, %d keyword(s), %d competitor(s), %d channel(s)\n",
		state.Profile.Industry, len(state.Profile.Keywords),
		len(state.Profile.Competitors), len(state.Profile.TrackedChannels))
	fmt.Printf("Monitors: %d, insights: %d, conversation entries: %d\n",
		len(state.Monitors), len(state.Insights), len(state.Conversations))
	return nil
}

func runOnboard(cmd *cobra.Command, args []string) error {
	cfgDir := config.ConfigDir()
	cfgPath := config.ConfigPath()

	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		cfg := config.DefaultConfig()
		data, _ := json.MarshalIndent(cfg, "", "  ")
		if err := os.WriteFile(cfgPath, data, 0600); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		fmt.Printf("Created config: %s\n", cfgPath)
	} else {
		fmt.Printf("Config already exists: %s\n", cfgPath)
	}

	fmt.Println("\nNext steps:")
	fmt.Printf("  1. Edit %s to set your YouTube Data API key\n", cfgPath)
	fmt.Println("  2. Or set TUBEWATCH_YOUTUBE_API_KEY environment variable")
	fmt.Println("  3. Run 'tubewatch serve' to expose the tool surface")

	return nil
}
