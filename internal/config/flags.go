package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// parseFlags parses configuration flags from args (typically os.Args[1:]).
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-c/-config json file path with configs
//	-d database DSN
//	-driver identity store driver (memory, postgres, sqlite)
//	-sessions session registry backend (memory, sql, redis)
//	-redis redis address for the session registry
//	-snapshot snapshot file path
//	-session-ttl session lifetime (e.g., "168h")
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-log-level zerolog level
//	-metrics expose prometheus metrics
func parseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("go-blog-auth", flag.ContinueOnError)

	var serverAddress NetAddress
	var jsonConfigPath string
	var databaseDSN string
	var driver string
	var sessionsBackend string
	var redisAddress string
	var snapshotPath string
	var sessionTTL time.Duration
	var requestTimeout time.Duration
	var logLevel string
	var metrics bool

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&driver, "driver", "", "Identity store driver (memory, postgres, sqlite)")
	fs.StringVar(&sessionsBackend, "sessions", "", "Session registry backend (memory, sql, redis)")
	fs.StringVar(&redisAddress, "redis", "", "Redis address for the session registry")
	fs.StringVar(&snapshotPath, "snapshot", "", "Snapshot file path")
	fs.DurationVar(&sessionTTL, "session-ttl", 0, "Session lifetime (e.g., 168h)")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.StringVar(&logLevel, "log-level", "", "Log level")
	fs.BoolVar(&metrics, "metrics", false, "Expose prometheus metrics on /metrics")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &StructuredConfig{
		App: App{
			LogLevel:   logLevel,
			SessionTTL: sessionTTL,
		},
		Storage: Storage{
			Driver: driver,
			DB: DB{
				DSN: databaseDSN,
			},
			Sessions: Sessions{
				Backend:      sessionsBackend,
				RedisAddress: redisAddress,
			},
			Snapshot: Snapshot{
				Path: snapshotPath,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
			MetricsEnabled: metrics,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in [1, 65535]")
	}

	if host != "localhost" {
		ip := net.ParseIP(host)
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
