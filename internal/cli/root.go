// Package cli wires the pipeline into cobra commands. Commands stay thin:
// they parse arguments, delegate to the services and render the outcome.
package cli

import (
	"bibliomatch/internal/config"
	"bibliomatch/internal/enrich"
	"bibliomatch/internal/metrics"
	"bibliomatch/internal/platform/googlebooks"
	"bibliomatch/internal/platform/openlibrary"
	"bibliomatch/internal/platform/recommender"
	"bibliomatch/internal/recommend"
	"bibliomatch/internal/shelf"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app carries the loaded configuration and shared infrastructure between
// the root command and its subcommands.
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	metrics *metrics.Metrics
}

// NewRootCmd builds the bibliomatch command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "bibliomatch",
		Short: "Book discovery and recommendations from the terminal",
		Long: `Bibliomatch turns a free-text book title into a verified book record,
enriches it with descriptions and covers from public catalogs, blends up
to five favorites into one personalized reading list, and keeps your
bookshelf across sessions.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg

			level, err := zerolog.ParseLevel(cfg.Logging.Level)
			if err != nil {
				level = zerolog.InfoLevel
			}
			a.log = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
				Level(level).
				With().Timestamp().Logger()
			a.metrics = metrics.New()
			return nil
		},
	}

	cmd.AddCommand(newSearchCmd(a), newBlendCmd(a), newShelfCmd(a))
	return cmd
}

func (a *app) recommendService() *recommend.Service {
	client := recommender.NewClient(
		a.cfg.Recommender.BaseURL,
		a.cfg.Metadata.UserAgent,
		a.cfg.Metadata.RequestsPerSecond,
		a.cfg.Recommender.Timeout,
		a.metrics,
		a.log,
	)
	return recommend.NewService(client, a.metrics, a.log)
}

func (a *app) enrichService() (*enrich.Service, error) {
	covers, err := enrich.NewCoverResolver(a.cfg.Covers.BaseURL, a.cfg.Covers.PlaceholderURL)
	if err != nil {
		return nil, err
	}
	return enrich.NewService(a.describer(), covers), nil
}

func (a *app) describer() enrich.Describer {
	mc := a.cfg.Metadata
	switch mc.Provider {
	case "googlebooks":
		client := googlebooks.NewClient(mc.GoogleBooksURL, mc.UserAgent, mc.RequestsPerSecond, mc.Timeout, a.metrics)
		return enrich.NewGoogleBooksDescriber(client, a.metrics, a.log)
	default:
		client := openlibrary.NewClient(mc.OpenLibraryURL, mc.UserAgent, mc.RequestsPerSecond, mc.Timeout, a.metrics)
		return enrich.NewOpenLibraryDescriber(client, a.metrics, a.log)
	}
}

// openShelf opens the durable store and returns the service plus a close
// function the caller must invoke when done.
func (a *app) openShelf() (*shelf.Service, func() error, error) {
	db, err := shelf.OpenDB(a.cfg.Shelf.Path)
	if err != nil {
		return nil, nil, err
	}
	return shelf.NewService(shelf.NewBadgerRepository(db), a.log), db.Close, nil
}
