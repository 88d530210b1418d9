package command

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/securetoken-go/internal/cli/config"
	"github.com/yndnr/securetoken-go/internal/cli/output"
	"github.com/yndnr/securetoken-go/internal/core/service"
	"github.com/yndnr/securetoken-go/internal/infra/buildinfo"
	"github.com/yndnr/securetoken-go/internal/storage"
	"github.com/yndnr/securetoken-go/internal/telemetry/logger"
	"github.com/yndnr/securetoken-go/internal/telemetry/metric"
	"github.com/yndnr/securetoken-go/pkg/securetoken"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "securetoken-cli",
		Usage:   "Secure token field management over a local record store",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			GenerateCommand(),
			RecordCommand(),
			ConfigCommand(),
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Config file path",
			EnvVars: []string{"SECURETOKEN_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "data-dir",
			Usage:   "Override the store data directory",
			EnvVars: []string{"SECURETOKEN_DATA_DIR"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level: debug, info, warn, error",
		},
	}
}

// env holds the wired components for one command invocation.
type env struct {
	cfg     *config.CLIConfig
	store   *storage.BadgerStore
	schema  *securetoken.Schema
	svc     *service.RecordService
	metrics *metric.Set
	logger  *slog.Logger
}

// loadConfig loads the CLI configuration and applies flag overrides.
func loadConfig(c *cli.Context) (*config.CLIConfig, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	if dir := c.String("data-dir"); dir != "" {
		cfg.Storage.Dir = dir
	}
	if format := c.String("output"); format != "" {
		cfg.Output = format
	}
	if level := c.String("log-level"); level != "" {
		cfg.Log.Level = level
	}

	return cfg, nil
}

// openEnv loads configuration, opens the store, and wires the schema
// and service. The caller must Close().
func openEnv(c *cli.Context) (*env, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	storeCfg := storage.DefaultBadgerConfig(cfg.Storage.Dir)
	storeCfg.SyncWrites = cfg.Storage.SyncWrites

	store, err := storage.NewBadgerStore(storeCfg, cfg.UniqueAttributes(), log)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	metrics := metric.NewSet()
	store.RegisterMetrics(metrics.Registry())

	schema := securetoken.NewSchema()
	for _, f := range cfg.Fields {
		opts := []securetoken.Option{
			securetoken.WithSize(f.Size),
			securetoken.WithInstrumentation(metrics),
		}
		if f.Unique {
			opts = append(opts, securetoken.WithUniqueness())
		}
		if _, err := schema.Declare(store, f.Attribute, opts...); err != nil {
			store.Close()
			return nil, fmt.Errorf("declare field %q: %w", f.Attribute, err)
		}
	}

	return &env{
		cfg:     cfg,
		store:   store,
		schema:  schema,
		svc:     service.NewRecordService(store, schema, log),
		metrics: metrics,
		logger:  log,
	}, nil
}

// Close releases the store.
func (e *env) Close() error {
	return e.store.Close()
}

// formatter returns the output formatter selected by config and flags.
func (e *env) formatter() output.Formatter {
	return output.NewFormatter(output.Format(e.cfg.Output))
}

// writer returns the app output writer.
func writer(c *cli.Context) io.Writer {
	return c.App.Writer
}
