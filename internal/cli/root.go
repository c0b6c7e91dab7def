package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"cadence-cli/internal/api"
	"cadence-cli/internal/format"
	"cadence-cli/internal/mutate"
	"cadence-cli/internal/refresh"
	"cadence-cli/internal/store"
	"cadence-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	ServerURL  string
	Token      string
	PrettyJSON bool
	NoCache    bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "cadence",
		Short:        "Initiative dashboard CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive dashboard
  cadence

  # Scriptable commands
  cadence triage
  cadence plan
  cadence actions toggle act-3f2
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.ServerURL, "server", envOr("CADENCE_SERVER", ""), "Dashboard server base URL (default from config.json)")
	cmd.PersistentFlags().StringVar(&app.Token, "token", envOr("CADENCE_TOKEN", ""), "Bearer token (default from config.json)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().BoolVar(&app.NoCache, "no-cache", false, "Skip the offline snapshot cache")

	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newSummaryCmd(app))
	cmd.AddCommand(newTriageCmd(app))
	cmd.AddCommand(newPlanCmd(app))
	cmd.AddCommand(newInitiativesCmd(app))
	cmd.AddCommand(newActionsCmd(app))
	cmd.AddCommand(newDecisionsCmd(app))
	cmd.AddCommand(newDatesCmd(app))
	cmd.AddCommand(newSyncsCmd(app))
	cmd.AddCommand(newRefreshCmd(app))

	return cmd
}

func runTUI(app *App) error {
	client, cache, err := app.collaborator()
	if err != nil {
		return err
	}
	return tui.Run(client, cache)
}

// collaborator resolves the API client (flags > env > config.json) and the
// snapshot cache.
func (app *App) collaborator() (*api.Client, *store.Cache, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	server := strings.TrimSpace(app.ServerURL)
	if server == "" {
		server = cfg.ServerURL
	}
	if server == "" {
		return nil, nil, errors.New("no server configured; run `cadence config set --server <url>` (or pass --server)")
	}
	token := strings.TrimSpace(app.Token)
	if token == "" {
		token = cfg.Token
	}

	var cache *store.Cache
	if !app.NoCache {
		dir, err := store.DefaultCacheDir(cfg)
		if err == nil {
			cache = &store.Cache{Dir: dir}
		}
	}
	return api.New(server, token), cache, nil
}

// loadDB refreshes a fresh store from the collaborator for the current
// month. Partial failures degrade to stale slices (filled from the cache
// when available); only a fully failed refresh with no cache is fatal.
func loadDB(app *App) (*store.DB, *refresh.Controller, *api.Client, error) {
	client, cache, err := app.collaborator()
	if err != nil {
		return nil, nil, nil, err
	}

	ctx := context.Background()
	db := store.NewDB()
	if cache != nil {
		if cached, err := cache.Load(ctx); err == nil && cached != nil {
			db = cached
		}
	}

	ctrl := &refresh.Controller{Source: client}
	now := time.Now()
	batch := ctrl.Fetch(ctx, now.Year(), now.Month())
	applied := refresh.Apply(db, batch)

	if !batch.Complete() {
		if batch.OkInitiatives || db.Initiatives != nil {
			// Degraded but usable; surface the failure once.
			fmt.Fprintln(os.Stderr, batch.Err().Error())
		} else {
			return nil, nil, nil, batch.Err()
		}
	}
	if applied && batch.Complete() && cache != nil {
		// Best-effort: keep the offline snapshot current.
		_ = cache.Save(ctx, db)
	}
	return db, ctrl, client, nil
}

func coordinator(db *store.DB, client *api.Client) *mutate.Coordinator {
	return &mutate.Coordinator{DB: db, Remote: client}
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.WriteJSON(cmd.OutOrStdout(), v, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or set connection settings",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the current config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			// Never echo the token.
			cfg.Token = strings.Repeat("*", min(len(cfg.Token), 8))
			return writeOut(cmd, app, cfg)
		},
	}

	var server, token, cacheDir string
	set := &cobra.Command{
		Use:   "set",
		Short: "Update connection settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			if strings.TrimSpace(server) != "" {
				cfg.ServerURL = strings.TrimSpace(server)
			}
			if strings.TrimSpace(token) != "" {
				cfg.Token = strings.TrimSpace(token)
			}
			if strings.TrimSpace(cacheDir) != "" {
				cfg.CacheDir = strings.TrimSpace(cacheDir)
			}
			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"ok": true})
		},
	}
	set.Flags().StringVar(&server, "server", "", "Dashboard server base URL")
	set.Flags().StringVar(&token, "token", "", "Bearer token")
	set.Flags().StringVar(&cacheDir, "cache-dir", "", "Snapshot cache directory")

	cmd.AddCommand(show)
	cmd.AddCommand(set)
	return cmd
}
