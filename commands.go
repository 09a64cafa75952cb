package main

import (
	"net/http"
	"os/signal"
	"syscall"

	"github.com/dreitier/releasegate/cache"
	"github.com/dreitier/releasegate/config"
	"github.com/dreitier/releasegate/release"
	"github.com/dreitier/releasegate/remote"
	"github.com/dreitier/releasegate/web"
	"github.com/pterm/pterm"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

var (
	configFile string
	debug      bool
	background bool
)

func newRootCmd() *cobra.Command {
	serve := newServeCmd()

	cmd := &cobra.Command{
		Use:           app,
		Short:         "Gated listing and download proxy for installer releases",
		SilenceUsage:  true,
		SilenceErrors: true,
		// serving is the default
		RunE: serve.RunE,
	}

	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path, searched in the default locations if empty")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&background, "background", "b", false, "do not read refresh keys from the terminal")

	cmd.AddCommand(serve, newListCmd())

	return cmd
}

func loadConfiguration() (*config.Configuration, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}

	applyLogLevel(cfg)

	return cfg, nil
}

func newWalker(cfg *config.Configuration, client *remote.Client) *remote.Walker {
	remoteCfg := cfg.Remote()
	return remote.NewWalker(client, remoteCfg.RootURL, remoteCfg.MaxDepth, cfg.Files())
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard, the file API and downloads",
		RunE: func(cmd *cobra.Command, args []string) error {
			printVersion()

			cfg, err := loadConfiguration()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			client := remote.NewClient(cfg.Remote())
			manager := cache.NewManager(newWalker(cfg, client), cfg.Cache().TTL)
			downloader := remote.NewDownloader(client, cfg.Remote().RootURL)

			configureTerminal(manager, stop)
			scheduleInvalidation(ctx, cfg.Cache(), manager)

			server := web.NewServer(cfg, manager, downloader)

			failed := make(chan error, 1)
			go func() {
				failed <- server.Start()
			}()

			select {
			case err := <-failed:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return errors.Errorf("running webserver: %w", err)
			case <-ctx.Done():
				log.Info("Shutting down")
				return nil
			}
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Walk the remote tree once and print all files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfiguration()
			if err != nil {
				return err
			}

			result, err := newWalker(cfg, remote.NewClient(cfg.Remote())).Walk(cmd.Context())
			if err != nil {
				return errors.Errorf("listing files: %w", err)
			}

			for _, skipped := range result.Skipped {
				pterm.Warning.Printfln("Skipped %s: %s", skipped.Path, skipped.Reason)
			}

			return renderTable(result.Records)
		},
	}
}

func renderTable(records []release.FileRecord) error {
	data := pterm.TableData{{"Path", "Version", "Description", "Size"}}

	for _, record := range records {
		data = append(data, []string{record.Path, record.Version, record.Description, record.Size})
	}

	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

