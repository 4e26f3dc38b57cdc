package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/photoalbum/internal/flagx"
)

// serverFlags are the overrides parseFlags understands.
var serverFlags = []string{
	"-p", "-d", "-s", "-t",
	"-reconnect", "-health-interval", "-reconcile",
	"-tls-cert", "-tls-key", "-grpc", "-log-level",
}

// valueFlags lists every flag that consumes the next argument.
var valueFlags = append([]string{"-c", "-config", "-env"}, serverFlags...)

// FlagNames lists every flag Load understands, for tools that share their
// command line with it.
func FlagNames() []string {
	return append([]string(nil), valueFlags...)
}

// parseFlags overlays Config fields from command-line flags.
//
// Supported flags:
//
//	-p int              listen port
//	-d string           PostgreSQL DSN
//	-s string           JWT HMAC secret
//	-t duration         access token validity (e.g. 1h)
//	-reconnect duration store reconnect interval (e.g. 5s)
//	-health-interval    store probe interval
//	-reconcile duration reconciliation period, 0 disables
//	-tls-cert / -tls-key  TLS material
//	-grpc string        gRPC health bind address
//	-log-level string   debug|info|warn|error
//
// Only the flags above are taken from args; -c/-config and -env are handled
// separately and everything else is ignored.
func parseFlags(cfg *Config, args []string) error {
	filtered := flagx.FilterArgs(args, serverFlags)

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.IntVar(&cfg.Port, "p", cfg.Port, "listen port")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.JWTSecret, "s", cfg.JWTSecret, "jwt secret")
	fs.DurationVar(&cfg.TokenValidityDuration, "t", cfg.TokenValidityDuration, "access token validity")
	fs.DurationVar(&cfg.ReconnectInterval, "reconnect", cfg.ReconnectInterval, "store reconnect interval")
	fs.DurationVar(&cfg.HealthCheckInterval, "health-interval", cfg.HealthCheckInterval, "store probe interval")
	fs.DurationVar(&cfg.ReconcileInterval, "reconcile", cfg.ReconcileInterval, "reconciliation period (0 disables)")
	fs.StringVar(&cfg.TLSCertFile, "tls-cert", cfg.TLSCertFile, "TLS certificate file")
	fs.StringVar(&cfg.TLSKeyFile, "tls-key", cfg.TLSKeyFile, "TLS key file")
	fs.StringVar(&cfg.GRPCHealthAddr, "grpc", cfg.GRPCHealthAddr, "gRPC health address")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")

	return fs.Parse(filtered)
}

func envFlag(args []string) string {
	var env string

	fs := flag.NewFlagSet("env", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&env, "env", "", "environment profile name")
	_ = fs.Parse(flagx.FilterArgs(args, []string{"-env"}))

	return env
}
