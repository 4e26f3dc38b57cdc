package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/photoalbum/internal/flagx"
	"gopkg.in/yaml.v3"
)

// Profile is one named environment in the profiles file. Zero values leave
// the corresponding Config field untouched.
type Profile struct {
	Port                  int           `yaml:"port"`
	DatabaseDSN           string        `yaml:"database_dsn"`
	JWTSecret             string        `yaml:"jwt_secret"`
	TokenValidityDuration time.Duration `yaml:"token_validity_duration"`
	ReconnectInterval     time.Duration `yaml:"reconnect_interval"`
	HealthCheckInterval   time.Duration `yaml:"health_check_interval"`
	ReconcileInterval     time.Duration `yaml:"reconcile_interval"`
	TLSCertFile           string        `yaml:"tls_cert_file"`
	TLSKeyFile            string        `yaml:"tls_key_file"`
	GRPCHealthAddr        string        `yaml:"grpc_health_addr"`
	LogLevel              string        `yaml:"log_level"`
	S3RootUser            string        `yaml:"s3_root_user"`
	S3RootPassword        string        `yaml:"s3_root_password"`
	S3Bucket              string        `yaml:"s3_bucket"`
	S3Region              string        `yaml:"s3_region"`
	S3BaseEndpoint        string        `yaml:"s3_base_endpoint"`
}

// Profiles maps an environment name to its settings.
type Profiles map[string]Profile

// profilesPath extracts the profiles file path given via -c or -config.
func profilesPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("profiles", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "Path to profiles file")
	fs.StringVar(&path, "c", "", "Path to profiles file (short)")
	_ = fs.Parse(flagx.FilterArgs(args, []string{"-c", "-config"}))

	return path
}

// ReadProfiles loads and decodes a profiles file.
func ReadProfiles(path string) (Profiles, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profiles %s: %w", path, err)
	}

	profiles := Profiles{}
	if err := yaml.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("parse profiles %s: %w", path, err)
	}
	return profiles, nil
}

func applyProfile(cfg *Config, path, env string) error {
	profiles, err := ReadProfiles(path)
	if err != nil {
		return err
	}

	p, ok := profiles[env]
	if !ok {
		// unknown names run with the development profile
		if p, ok = profiles[DefaultEnvironment]; !ok {
			return fmt.Errorf("profile %q not found in %s", env, path)
		}
	}

	p.overlay(cfg)
	return nil
}

func (p Profile) overlay(cfg *Config) {
	setInt(&cfg.Port, p.Port)
	setString(&cfg.DatabaseDSN, p.DatabaseDSN)
	setString(&cfg.JWTSecret, p.JWTSecret)
	setDuration(&cfg.TokenValidityDuration, p.TokenValidityDuration)
	setDuration(&cfg.ReconnectInterval, p.ReconnectInterval)
	setDuration(&cfg.HealthCheckInterval, p.HealthCheckInterval)
	setDuration(&cfg.ReconcileInterval, p.ReconcileInterval)
	setString(&cfg.TLSCertFile, p.TLSCertFile)
	setString(&cfg.TLSKeyFile, p.TLSKeyFile)
	setString(&cfg.GRPCHealthAddr, p.GRPCHealthAddr)
	setString(&cfg.LogLevel, p.LogLevel)
	setString(&cfg.S3RootUser, p.S3RootUser)
	setString(&cfg.S3RootPassword, p.S3RootPassword)
	setString(&cfg.S3Bucket, p.S3Bucket)
	setString(&cfg.S3Region, p.S3Region)
	setString(&cfg.S3BaseEndpoint, p.S3BaseEndpoint)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v != 0 {
		*dst = v
	}
}
