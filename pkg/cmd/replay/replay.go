package replay

import (
	"bufio"
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/racelap/racelap-ingest-go/log"
	"github.com/racelap/racelap-ingest-go/pkg/config"
	"github.com/racelap/racelap-ingest-go/pkg/db/postgres"
	"github.com/racelap/racelap-ingest-go/pkg/model"
	"github.com/racelap/racelap-ingest-go/pkg/processing/ingest"
	"github.com/racelap/racelap-ingest-go/pkg/service"
)

var (
	speed        int
	fastForward  string
	doNotPersist bool
)

// NewReplayCmd replays a recorded capture file, pacing packets by their
// session time so the pipeline behaves as it would on a live stream.
func NewReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <capture-file>",
		Short: "replays a recorded capture file in session time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return startReplay(args[0])
		},
	}
	cmd.Flags().IntVar(&speed, "speed", 1,
		"replay speed (0 means: go as fast as possible)")
	cmd.Flags().StringVar(&fastForward, "fast-forward", "",
		"replay this duration of session time at max speed")
	cmd.Flags().BoolVar(&doNotPersist, "do-not-persist", false,
		"process packets without writing to the database")
	cmd.Flags().StringVar(&config.LogLevel, "log-level", "debug",
		"controls the log level (debug, info, warn, error, fatal)")
	return cmd
}

func startReplay(captureFile string) error {
	logger := log.DevLogger(
		os.Stderr,
		parseLogLevel(config.LogLevel, log.DebugLevel),
		log.WithCaller(true),
		log.AddCallerSkip(1))
	log.ResetDefault(logger)

	pool := postgres.InitWithURL(config.DB)
	defer pool.Close()
	var store ingest.Store = service.InitIngestService(pool)
	if doNotPersist {
		store = &readOnlyStore{Store: store}
	}
	proc := ingest.NewProcessor(
		ingest.WithStore(store),
		ingest.WithLogger(log.Default().Named("replay")))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if err := proc.Start(ctx); err != nil {
		return err
	}
	if err := replayFile(ctx, captureFile, proc); err != nil {
		return err
	}
	return proc.Stop(context.Background())
}

// readOnlyStore reads configuration data but swallows all writes. Used for
// dry runs against a production database.
type readOnlyStore struct {
	ingest.Store
}

func (s *readOnlyStore) FindOrCreateEventByTrack(
	ctx context.Context, seasonID int, trackName string,
) (*model.DbEvent, error) {
	return &model.DbEvent{SeasonID: seasonID, TrackName: trackName, Name: trackName}, nil
}

func (s *readOnlyStore) CreateParticipant(
	ctx context.Context, p *model.DbParticipant,
) error {
	return nil
}

func (s *readOnlyStore) CreateSessionResult(
	ctx context.Context, r *model.DbSessionResult,
) (*model.DbSessionResult, error) {
	return r, nil
}

func (s *readOnlyStore) CreateTyreStint(
	ctx context.Context, t *model.DbTyreStint,
) error {
	return nil
}

func (s *readOnlyStore) BulkInsertLaps(
	ctx context.Context, laps []*model.DbLap,
) (int, error) {
	return len(laps), nil
}

//nolint:cyclop // pacing loop
func replayFile(ctx context.Context, captureFile string, proc *ingest.Processor) error {
	f, err := os.Open(captureFile)
	if err != nil {
		return err
	}
	defer f.Close()

	var ffUntil float64
	if fastForward != "" {
		if d, pErr := time.ParseDuration(fastForward); pErr == nil {
			ffUntil = d.Seconds()
		} else {
			log.Warn("invalid fast-forward duration", log.ErrorField(pErr))
		}
	}

	lastSessionTime := -1.0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		packet, dErr := ingest.DecodePacket(line)
		if dErr != nil {
			log.Warn("skipping undecodable packet", log.ErrorField(dErr))
			continue
		}
		wait(ctx, packet, &lastSessionTime, ffUntil)
		proc.Process(ctx, packet)
	}
	return scanner.Err()
}

// wait sleeps the scaled session-time gap to the previous packet. Packets
// inside the fast-forward window and session-time jumps backwards (a new
// session in the same capture) are not paced.
func wait(ctx context.Context, packet model.Packet, lastSessionTime *float64, ffUntil float64) {
	st := packet.Header().SessionTime
	defer func() { *lastSessionTime = st }()
	if speed <= 0 || *lastSessionTime < 0 || st <= *lastSessionTime || st < ffUntil {
		return
	}
	delta := time.Duration((st - *lastSessionTime) / float64(speed) * float64(time.Second))
	select {
	case <-ctx.Done():
	case <-time.After(delta):
	}
}

func parseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}
