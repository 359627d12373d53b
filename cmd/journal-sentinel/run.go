package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do/v2"
	"github.com/urfave/cli/v3"
	"github.com/web3tea/journal-sentinel/capturer"
	"github.com/web3tea/journal-sentinel/config"
	"github.com/web3tea/journal-sentinel/di"
	"github.com/web3tea/journal-sentinel/journal"
	"github.com/web3tea/journal-sentinel/pkg/log"
	"github.com/web3tea/journal-sentinel/processor"
	"github.com/web3tea/journal-sentinel/processor/filter"
	"github.com/web3tea/journal-sentinel/processor/transformer"
	"github.com/web3tea/journal-sentinel/sentinel"
	"github.com/web3tea/journal-sentinel/sink"
	"github.com/web3tea/journal-sentinel/store"
)

var runCmd = &cli.Command{
	Name:  "run",
	Usage: "Run the journal capture pipeline",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Value:   "journal-sentinel.toml",
			Usage:   "path to the configuration file",
		},
	},
	Action: func(ctx context.Context, c *cli.Command) error {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		injector := di.SetupContainer(c.String("config"))
		cfg := do.MustInvoke[*config.Config](injector)

		if err := log.SetLevelFromString(cfg.LogLevel); err != nil {
			return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
		}

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

		capt, cleanup, err := setupCapturer(ctx, cfg, injector)
		if err != nil {
			return fmt.Errorf("failed to setup capturer: %w", err)
		}
		defer cleanup()

		proc := setupProcessor(cfg)

		s, err := setupSink(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to setup sink: %w", err)
		}

		sentinelSystem := sentinel.NewSentinel(
			capt,
			proc,
			s,
			sentinel.WithCheckpointInterval(time.Duration(cfg.Checkpoint.IntervalSeconds)*time.Second),
		)

		if err := sentinelSystem.Start(ctx); err != nil {
			return fmt.Errorf("failed to start sentinel: %w", err)
		}

		log.Infof("Sentinel system started successfully")

		sig := <-sigChan
		log.Infof("Received signal: %s", sig.String())

		if err := sentinelSystem.Stop(); err != nil {
			return fmt.Errorf("failed to stop sentinel: %w", err)
		}

		log.Infof("Sentinel system stopped successfully")
		return nil
	},
}

func setupCapturer(ctx context.Context, cfg *config.Config, injector do.Injector) (capturer.Capturer, func(), error) {
	log.Infof("Setup capturer for %s.%s", cfg.Capturer.JournalLibrary, cfg.Capturer.JournalName)

	client, err := journal.Dial(ctx, cfg.Service.Address)
	if err != nil {
		return nil, nil, err
	}

	files := make([]journal.FileFilter, 0, len(cfg.Capturer.IncludeFiles))
	for _, raw := range cfg.Capturer.IncludeFiles {
		f, err := journal.ParseFileFilter(raw)
		if err != nil {
			client.Close()
			return nil, nil, err
		}
		files = append(files, f)
	}

	retriever := journal.NewRetriever(journal.Config{
		JournalName:          cfg.Capturer.JournalName,
		JournalLibrary:       cfg.Capturer.JournalLibrary,
		IncludeFiles:         files,
		Filtering:            len(files) > 0,
		DumpFolder:           cfg.Capturer.DumpFolder,
		MaxServerSideEntries: cfg.Capturer.MaxServerSideEntries,
	}, client, client, log.NewLogger("journal", os.Stdout).Zerolog())

	checkpoints := do.MustInvoke[*store.FileStore](injector)

	capt := capturer.NewJournalCapturer(
		capturer.Config(cfg.Capturer),
		retriever,
		client,
		checkpoints,
		log.NewCaptureLogger(cfg.Capturer.JournalName, cfg.Capturer.JournalLibrary, os.Stdout),
	)

	cleanup := func() {
		if err := client.Close(); err != nil {
			log.Warnf("failed to close journal service connection: %v", err)
		}
	}
	return capt, cleanup, nil
}

func setupProcessor(cfg *config.Config) processor.Processor {
	log.Infof("Setup processor")

	proc := processor.NewProcessorChain()

	if len(cfg.Processor.Filter.Types) > 0 {
		proc.AddFilter(filter.NewTypeFilter(cfg.Processor.Filter.Types))
	}

	if cfg.Processor.EnableTransformation {
		metadata := make(map[string]any, len(cfg.Processor.Metadata))
		for k, v := range cfg.Processor.Metadata {
			metadata[k] = v
		}
		proc.AddTransformer(transformer.NewMetadataTransformer(metadata))
	}
	return proc
}

func setupSink(ctx context.Context, cfg *config.Config) (sink.Sink, error) {
	log.Infof("Setup sink: %s", cfg.Sink.Type)

	var s sink.Sink
	switch cfg.Sink.Type {
	case "console":
		s = sink.NewConsoleSink()
	case "stdout":
		s = sink.NewStdoutSink()
	default:
		return nil, fmt.Errorf("unsupported sink type: %s", cfg.Sink.Type)
	}

	if err := s.Init(ctx, cfg.Sink.Options); err != nil {
		return nil, err
	}
	return s, nil
}
