package analyse

import (
	"context"
	"fmt"
	"os"

	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"github.com/racelap/racelap-ingest-go/log"
	"github.com/racelap/racelap-ingest-go/pkg/config"
	"github.com/racelap/racelap-ingest-go/pkg/db/mytypes"
	"github.com/racelap/racelap-ingest-go/pkg/db/postgres"
	"github.com/racelap/racelap-ingest-go/pkg/service"
)

var (
	driverID   int
	compareID  int
	sessionUID uint64
)

// NewAnalyseCmd computes the analysis bundle of one driver in one session
// and prints it as JSON. With --compare-with it prints the driver-vs-driver
// overlay instead.
func NewAnalyseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyse",
		Short: "computes driver analytics for a persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyse()
		},
	}
	cmd.Flags().IntVar(&driverID, "driver-id", 0, "driver to analyse")
	cmd.Flags().IntVar(&compareID, "compare-with", 0,
		"second driver for a lap-by-lap comparison")
	cmd.Flags().Uint64Var(&sessionUID, "session-uid", 0, "session to analyse")
	cmd.Flags().StringVar(&config.LogLevel, "log-level", "warn",
		"controls the log level (debug, info, warn, error, fatal)")
	//nolint:errcheck // flags exist
	cmd.MarkFlagRequired("driver-id")
	//nolint:errcheck // flags exist
	cmd.MarkFlagRequired("session-uid")
	return cmd
}

func runAnalyse() error {
	logger := log.DevLogger(
		os.Stderr,
		parseLogLevel(config.LogLevel, log.WarnLevel),
		log.WithCaller(true),
		log.AddCallerSkip(1))
	log.ResetDefault(logger)

	pool := postgres.InitWithURL(config.DB)
	defer pool.Close()
	svc := service.NewAnalysisService(service.WithAnalysisPool(pool))

	ctx := context.Background()
	uid := mytypes.SessionUID(sessionUID)

	var out any
	var err error
	if compareID > 0 {
		out, err = svc.Comparison(ctx, driverID, compareID, uid)
	} else {
		out, err = svc.DriverBundle(ctx, driverID, uid)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, oj.JSON(out, &oj.Options{Indent: 2, OmitNil: true}))
	return nil
}

func parseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}
