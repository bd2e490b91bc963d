package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MakeNowJust/heredoc"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kevinmichaelchen/portfolio-feed/internal/config"
	"github.com/kevinmichaelchen/portfolio-feed/internal/feed"
	"github.com/kevinmichaelchen/portfolio-feed/internal/github"
	"github.com/kevinmichaelchen/portfolio-feed/internal/pipeline"
	"github.com/kevinmichaelchen/portfolio-feed/internal/terminal"
	"github.com/kevinmichaelchen/portfolio-feed/internal/web"
)

func main() {
	root := &cobra.Command{
		Use:   "portfolio-feed",
		Short: "GitHub repositories → portfolio project cards",
		Long: heredoc.Doc(`
			Builds the projects section of a portfolio from a GitHub user's
			public repositories: forks (and, per profile, archived or
			undescribed repos) are dropped, the rest are ordered by last
			update and cut to the profile's size.

			When GitHub cannot be reached the hand-authored fallback
			projects are shown instead.

			Configuration comes from the environment (or a .env file):
			GITHUB_USERNAME, GITHUB_TOKEN, GITHUB_API_URL, FEED_PROFILE,
			FEED_PROFILES_FILE, FETCH_TIMEOUT, LISTEN_ADDR, CORS_ORIGINS,
			LOG_LEVEL.
		`),
		SilenceUsage: true,
	}

	root.AddCommand(feedCmd(), serveCmd(), profilesCmd())

	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func feedCmd() *cobra.Command {
	var profile, user string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Fetch and print the project cards",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if user == "" {
				user = cfg.GitHubUsername
			}

			b, err := newBuilder(cfg, profile)
			if err != nil {
				return err
			}

			res := pipeline.Run(cmd.Context(), b, user, pipeline.Options{
				Timeout: cfg.FetchTimeout,
				Observer: func(p pipeline.Phase) {
					if p == pipeline.Loading && !asJSON {
						fmt.Fprintln(cmd.ErrOrStderr(), feed.LoadingMessage)
					}
				},
			})

			if asJSON {
				data, err := json.MarshalIndent(res, "", "  ")
				if err != nil {
					return fmt.Errorf("encoding result: %w", err)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			return terminal.Render(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVarP(&profile, "profile", "p", "", "Selection profile (default $FEED_PROFILE)")
	cmd.Flags().StringVarP(&user, "user", "u", "", "GitHub user (default $GITHUB_USERNAME)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}

func serveCmd() *cobra.Command {
	var profile, addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the projects section over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.ListenAddr
			}

			b, err := newBuilder(cfg, profile)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := web.New(b, web.Settings{
				User:        cfg.GitHubUsername,
				Timeout:     cfg.FetchTimeout,
				CORSOrigins: cfg.CORSOrigins,
			})
			return srv.Run(ctx, addr)
		},
	}
	cmd.Flags().StringVarP(&profile, "profile", "p", "", "Selection profile (default $FEED_PROFILE)")
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default $LISTEN_ADDR)")
	return cmd
}

func profilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List selection profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-12s %5s %9s %9s %6s %6s\n",
				"PROFILE", "MAX", "ARCHIVED", "DESC REQ", "CHARS", "TECH")
			for _, name := range cfg.ProfileNames() {
				opts := cfg.Profiles[name].FeedOptions()
				marker := " "
				if name == cfg.Profile {
					marker = "*"
				}
				fmt.Fprintf(out, "%-12s %5d %9s %9t %6d %6d\n",
					name+marker, opts.MaxResults, archivedLabel(opts.ExcludeArchived),
					opts.RequireDescription, opts.DescriptionCharCap, opts.TechLabelCap)
			}
			return nil
		},
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)
	return cfg, nil
}

func newBuilder(cfg *config.Config, profile string) (*feed.Builder, error) {
	opts, err := cfg.FeedOptions(profile)
	if err != nil {
		return nil, err
	}
	gh := github.NewClient(cfg.GitHubAPIURL, cfg.GitHubToken)
	return feed.NewBuilder(gh, opts, cfg.Images)
}

func archivedLabel(exclude bool) string {
	if exclude {
		return "excluded"
	}
	return "kept"
}
