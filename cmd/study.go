package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pkoerner/revise/internal/apiclient"
	"github.com/pkoerner/revise/internal/app"
	"github.com/pkoerner/revise/internal/config"
	"github.com/pkoerner/revise/internal/journal"
	"github.com/pkoerner/revise/internal/logging"
	"github.com/pkoerner/revise/internal/syncer"
)

var studyCmd = &cobra.Command{
	Use:   "study",
	Short: "Start a study session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStudy(cmd)
	},
}

// runStudy builds the dependency graph and launches the TUI.
func runStudy(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		fmt.Fprintln(os.Stderr, "log file unavailable, logging disabled:", err)
		log = logging.Nop()
	}
	defer log.Sync()

	client := newClient(cfg)

	// The local journal is optional; study works without it.
	var reviewLog syncer.ReviewJournal
	if jnl := openJournal(log); jnl != nil {
		defer jnl.Close()
		reviewLog = jnl
	}

	sync := syncer.New(client, reviewLog, log, cfg.Sync.MaxRetries, cfg.Sync.BaseDelay)

	return app.Run(app.Options{
		API:  client,
		Sync: sync,
		Log:  log,
		Cfg:  cfg,
	})
}

func newClient(cfg config.Config) *apiclient.Client {
	client := apiclient.New(apiclient.Config{
		BaseURL: cfg.API.BaseURL,
		Token:   cfg.API.Token,
		Timeout: cfg.API.Timeout,
	})
	client.SetPageSize(cfg.Scheduler.PageSize)
	return client
}

func openJournal(log *zap.SugaredLogger) *journal.Journal {
	path, err := journal.DefaultPath()
	if err != nil {
		log.Warnw("journal path unresolvable, reviews will not be traced locally", "error", err)
		return nil
	}
	jnl, err := journal.Open(path)
	if err != nil {
		log.Warnw("journal unavailable, reviews will not be traced locally", "path", path, "error", err)
		return nil
	}
	return jnl
}
