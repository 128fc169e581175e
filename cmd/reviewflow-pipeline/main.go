package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"reviewflow/internal/adapters/blob"
	"reviewflow/internal/adapters/counter"
	"reviewflow/internal/adapters/events"
	"reviewflow/internal/platform/config"
	"reviewflow/internal/platform/logger"
	"reviewflow/internal/platform/store"

	"reviewflow/internal/services/analyze"
	moddom "reviewflow/internal/services/moderate/domain"
	modmod "reviewflow/internal/services/moderate/module"
	modrepo "reviewflow/internal/services/moderate/repo"
	modsvc "reviewflow/internal/services/moderate/service"
	"reviewflow/internal/services/pipeline"
	"reviewflow/internal/services/preprocess"
	"reviewflow/internal/services/split"
)

func main() {
	root := config.New()
	pipeCfg := root.Prefix("PIPELINE_")
	l := logger.Get()

	var (
		mode     = flag.String("mode", "local", "local (in-process bus) or sqs (queue poller)")
		batch    = flag.String("batch", "", "path to a batch file to run (local mode)")
		batchKey = flag.String("key", "", "object key for the batch, defaults to the file name")
	)
	flag.Parse()

	switch *mode {
	case "local":
		runLocal(l, root, pipeCfg, *batch, *batchKey)
	case "sqs":
		runSQS(l, root, pipeCfg)
	default:
		log.Fatalf("unknown -mode %q", *mode)
	}
}

// containersFromConfig reads the stage container names with the
// conventional defaults
func containersFromConfig(cfg config.Conf) pipeline.Containers {
	d := pipeline.DefaultContainers()
	return pipeline.Containers{
		Raw:       cfg.MayString("CONTAINER_RAW", d.Raw),
		Split:     cfg.MayString("CONTAINER_SPLIT", d.Split),
		Processed: cfg.MayString("CONTAINER_PROCESSED", d.Processed),
		Clean:     cfg.MayString("CONTAINER_CLEAN", d.Clean),
		Flagged:   cfg.MayString("CONTAINER_FLAGGED", d.Flagged),
		Final:     cfg.MayString("CONTAINER_FINAL", d.Final),
	}
}

// openBlob picks the object store backend (PIPELINE_BLOB=memory|s3)
func openBlob(l *logger.Logger, cfg config.Conf) blob.Store {
	switch backend := cfg.MayString("BLOB", "memory"); backend {
	case "memory":
		return blob.NewMemory()
	case "s3":
		s3, err := blob.NewS3(blob.S3Options{
			Region:       cfg.MustString("AWS_REGION"),
			BucketPrefix: cfg.MayString("S3_BUCKET_PREFIX", "reviewflow-"),
		})
		if err != nil {
			l.Fatal().Err(err).Msg("s3 store init failed")
		}
		return s3
	default:
		l.Fatal().Str("backend", backend).Msg("unknown PIPELINE_BLOB backend")
		return nil
	}
}

// openCounter picks the counter backend (PIPELINE_COUNTER=memory|postgres|dynamo)
func openCounter(l *logger.Logger, root, cfg config.Conf) (moddom.CounterPort, func()) {
	switch backend := cfg.MayString("COUNTER", "memory"); backend {
	case "memory":
		return modmod.Adapt(counter.NewMemory()), func() {}
	case "postgres":
		pgCfg := root.Prefix("SERVICE_PGSQL_")
		st, err := store.Open(context.Background(), store.Config{
			AppName: "reviewflow",
			PG: store.PGConfig{
				Enabled:     true,
				URL:         pgCfg.MustString("DBURL"),
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", false),
			},
		}, store.WithLogger(*l))
		if err != nil {
			l.Fatal().Err(err).Msg("store.Open failed")
		}
		return modrepo.NewCounter(st.PG), func() { _ = st.Close(context.Background()) }
	case "dynamo":
		dyn, err := counter.NewDynamo(counter.DynamoOptions{
			Region: cfg.MustString("AWS_REGION"),
			Table:  cfg.MayString("DYNAMO_TABLE", "reviewer_counters"),
		})
		if err != nil {
			l.Fatal().Err(err).Msg("dynamo counter init failed")
		}
		return modmod.Adapt(dyn), func() {}
	default:
		l.Fatal().Str("backend", backend).Msg("unknown PIPELINE_COUNTER backend")
		return nil, nil
	}
}

// openObserver attaches the optional ClickHouse analytics sink
func openObserver(l *logger.Logger, root, cfg config.Conf) (*pipeline.Observer, func()) {
	if !cfg.MayBool("ANALYTICS", false) {
		return pipeline.NewObserver(nil, ""), func() {}
	}
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")
	st, err := store.Open(context.Background(), store.Config{
		AppName: "reviewflow",
		CH: store.CHConfig{
			Enabled: true,
			URL:     chCfg.MustString("DBURL"),
			Role:    "pipeline",
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Fatal().Err(err).Msg("clickhouse open failed")
	}
	table := cfg.MayString("ANALYTICS_TABLE", "stage_events")
	return pipeline.NewObserver(st.CH, table), func() { _ = st.Close(context.Background()) }
}

// buildBindings constructs the four stage workers over the given store
func buildBindings(
	root config.Conf,
	conts pipeline.Containers,
	bs blob.Store,
	ctr moddom.CounterPort,
) ([]pipeline.Binding, *split.Service) {
	opts := modmod.FromConfig(root)

	splitter := split.New(bs, split.Config{Dest: conts.Split})
	pre := preprocess.New(bs, nil, preprocess.Config{Dest: conts.Processed})
	mod := modsvc.New(bs, ctr, nil, modsvc.Config{
		Threshold: opts.Threshold,
		Clean:     conts.Clean,
		Flagged:   conts.Flagged,
	})
	an := analyze.New(bs, nil, analyze.Config{Dest: conts.Final})

	return pipeline.Bindings(conts, splitter, pre, mod, an), splitter
}

// runLocal replays one batch file through the in-process bus and reports
func runLocal(l *logger.Logger, root, cfg config.Conf, batch, batchKey string) {
	if batch == "" {
		log.Fatal("-batch is required in local mode")
	}
	if batchKey == "" {
		batchKey = filepath.Base(batch)
	}
	payload, err := os.ReadFile(batch)
	if err != nil {
		log.Fatalf("read -batch: %v", err)
	}

	ctr, closeCtr := openCounter(l, root, cfg)
	defer closeCtr()
	obs, closeObs := openObserver(l, root, cfg)
	defer closeObs()

	bus := events.NewMemory(events.MemoryOptions{
		MaxAttempts: cfg.MayInt("MAX_ATTEMPTS", 3),
	})
	// every stage write goes through the evented store so creation events
	// chain the next stage
	bs := blob.NewEvented(openBlob(l, cfg), bus)

	conts := containersFromConfig(cfg)
	bindings, splitter := buildBindings(root, conts, bs, ctr)
	if err := pipeline.Install(bus, bindings, obs); err != nil {
		l.Fatal().Err(err).Msg("pipeline install failed")
	}

	runner := &pipeline.Runner{
		Store:    bs,
		Bus:      bus,
		Raw:      conts.Raw,
		Skips:    splitter.Skipped,
		Observer: obs,
	}
	rep, err := runner.RunBatch(context.Background(), batchKey, payload)
	if err != nil {
		l.Fatal().Err(err).Msg("batch run failed")
	}
	if rep.DeadLetters > 0 {
		l.Warn().Int("dead_letters", rep.DeadLetters).Msg("run finished with terminal failures")
	}
}

// runSQS folds the routing table into one dispatcher and polls the queue
// stage writes land in S3, S3 notifications come back through the queue,
// so no evented store wrapper is needed here
func runSQS(l *logger.Logger, root, cfg config.Conf) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctr, closeCtr := openCounter(l, root, cfg)
	defer closeCtr()
	obs, closeObs := openObserver(l, root, cfg)
	defer closeObs()

	conts := containersFromConfig(cfg)
	bindings, _ := buildBindings(root, conts, openBlob(l, cfg), ctr)

	poller, err := events.NewSQSPoller(ctx, events.SQSOptions{
		Region:      cfg.MustString("AWS_REGION"),
		QueueName:   cfg.MustString("SQS_QUEUE"),
		WaitSeconds: int64(cfg.MayInt("SQS_WAIT_SECONDS", 10)),
		BatchSize:   int64(cfg.MayInt("SQS_BATCH_SIZE", 10)),
	})
	if err != nil {
		l.Fatal().Err(err).Msg("sqs poller init failed")
	}

	if err := poller.Run(ctx, pipeline.Handler(bindings, obs)); err != nil {
		l.Fatal().Err(err).Msg("sqs poller stopped")
	}
}
