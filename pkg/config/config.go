package config

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	DB                 string // connection string for the database
	WaitForServices    string // duration to wait for other services to be ready
	LogLevel           string // sets the log level (zap log level values)
	SQLLogLevel        string // sets the log level for sql subsystem
	LogFormat          string // text vs json
	MigrationSourceURL string // location of migration files
	NatsURL            string // if set, flush summaries are published to this NATS server
	SeasonName         string // name of the active competitive season
	ProfilingPort      int    // port for profiling
	PrintPackets       bool   // if true, incoming packet payloads are printed on debug level
)
