package ingest

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof" //nolint:gosec // pprof endpoint is opt-in via profiling-port
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"github.com/racelap/racelap-ingest-go/log"
	"github.com/racelap/racelap-ingest-go/pkg/config"
	"github.com/racelap/racelap-ingest-go/pkg/db/postgres"
	"github.com/racelap/racelap-ingest-go/pkg/processing/ingest"
	"github.com/racelap/racelap-ingest-go/pkg/service"
	"github.com/racelap/racelap-ingest-go/pkg/utils"
)

var source string

func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "consumes a telemetry capture stream and persists finalized sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startIngest()
		},
	}
	cmd.Flags().StringVarP(&source,
		"source",
		"s",
		"-",
		"capture stream to read (JSON lines, '-' for stdin)")
	cmd.Flags().StringVar(&config.LogLevel,
		"log-level",
		"info",
		"controls the log level (debug, info, warn, error, fatal)")
	cmd.Flags().StringVar(&config.SQLLogLevel,
		"sql-log-level",
		"info",
		"controls the log level for sql methods")
	cmd.Flags().StringVar(&config.LogFormat,
		"log-format",
		"json",
		"controls the log output format")
	cmd.Flags().StringVar(&config.NatsURL,
		"nats-url",
		"",
		"if set, flush summaries are published to this NATS server")
	cmd.Flags().IntVar(&config.ProfilingPort,
		"profiling-port",
		0,
		"port to use for providing profiling data")
	cmd.Flags().BoolVar(&config.PrintPackets,
		"print-packets",
		false,
		"if true and log level is debug, incoming packet payloads are printed")
	return cmd
}

func parseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

func setupLoggers() (logger, sqlLogger *log.Logger) {
	switch config.LogFormat {
	case "json":
		logger = log.New(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
		sqlLogger = log.New(
			os.Stderr,
			parseLogLevel(config.SQLLogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	default:
		logger = log.DevLogger(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.DebugLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
		sqlLogger = log.DevLogger(
			os.Stderr,
			parseLogLevel(config.SQLLogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	}
	return logger, sqlLogger
}

//nolint:funlen // linear wiring of the pipeline
func startIngest() error {
	logger, sqlLogger := setupLoggers()
	log.ResetDefault(logger)

	if config.ProfilingPort > 0 {
		log.Info("Starting profiling server on port", log.Int("port", config.ProfilingPort))
		go func() {
			//nolint:gosec // local diagnostics endpoint
			err := http.ListenAndServe(
				fmt.Sprintf("localhost:%d", config.ProfilingPort),
				nil)
			if err != nil {
				log.Error("Profiling server stopped", log.ErrorField(err))
			}
		}()
	}

	waitForRequiredServices()

	pool := postgres.InitWithURL(
		config.DB,
		postgres.WithTracer(sqlLogger, log.DebugLevel),
	)
	defer pool.Close()

	opts := []ingest.ProcessorOption{
		ingest.WithStore(service.InitIngestService(pool)),
		ingest.WithLogger(log.Default().Named("ingest")),
	}
	if config.NatsURL != "" {
		hook, closer, err := natsFlushHook(config.NatsURL)
		if err != nil {
			return err
		}
		defer closer()
		opts = append(opts, ingest.WithFlushHook(hook))
	}
	proc := ingest.NewProcessor(opts...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := proc.Start(ctx); err != nil {
		return err
	}

	in, closeIn, err := openSource(source)
	if err != nil {
		return err
	}
	defer closeIn()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		v := <-sigChan
		log.Debug("Got signal", log.Any("signal", v))
		cancel()
	}()

	if err := consume(ctx, in, proc); err != nil {
		return err
	}
	// incomplete sessions are flushed on shutdown
	return proc.Stop(context.Background())
}

func waitForRequiredServices() {
	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		log.Warn("Invalid duration value. Setting default 60s", log.ErrorField(err))
		timeout = 60 * time.Second
	}
	postgresAddr := utils.ExtractFromDBURL(config.DB)
	if err := utils.WaitForTCP(postgresAddr, timeout); err != nil {
		log.Fatal("database not ready", log.ErrorField(err))
	}
}

func openSource(arg string) (in *os.File, closer func(), err error) {
	if arg == "-" || arg == "" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(arg)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func consume(ctx context.Context, in *os.File, proc *ingest.Processor) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	lines := 0
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		lines++
		packet, err := ingest.DecodePacket(line)
		if err != nil {
			log.Warn("skipping undecodable packet",
				log.Int("line", lines), log.ErrorField(err))
			continue
		}
		if config.PrintPackets {
			log.Debug("packet",
				log.String("kind", packet.Kind().String()),
				log.Uint64("sessionUid", packet.Header().SessionUID),
				log.Float64("sessionTime", packet.Header().SessionTime))
		}
		proc.Process(ctx, packet)
	}
	return scanner.Err()
}

func natsFlushHook(url string) (hook ingest.FlushHook, closer func(), err error) {
	nc, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1))
	if err != nil {
		return nil, nil, err
	}
	hook = func(summary ingest.FlushSummary) {
		subject := fmt.Sprintf("racelap.session.flushed.%d", summary.SessionUID)
		payload, mErr := oj.Marshal(summary)
		if mErr != nil {
			log.Error("could not marshal flush summary", log.ErrorField(mErr))
			return
		}
		if pErr := nc.Publish(subject, payload); pErr != nil {
			log.Error("could not publish flush summary",
				log.String("subject", subject), log.ErrorField(pErr))
		}
	}
	closer = func() {
		if dErr := nc.Drain(); dErr != nil {
			log.Warn("nats drain failed", log.ErrorField(dErr))
		}
	}
	return hook, closer, nil
}
