package config

import (
	"crypto/sha256"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/caarlos0/env/v10"
	"github.com/gagliardetto/solana-go"
)

//go:embed schema.cue
var schemaCUE string

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "TRADELEDGER_"

// DefaultPath is read when no config file is named and it exists in the
// working directory.
const DefaultPath = "tradeledger.cue"

// Config is the resolved runtime configuration.
type Config struct {
	DBPath         string `json:"db_path" env:"DB_PATH"`
	ProgramID      string `json:"program_id,omitempty" env:"PROGRAM_ID"`
	RecordCapacity int    `json:"record_capacity" env:"RECORD_CAPACITY"`
	LogLevel       string `json:"log_level" env:"LOG_LEVEL"`
	LogFormat      string `json:"log_format" env:"LOG_FORMAT"`
}

// Load reads path (may be empty for schema defaults), then applies
// TRADELEDGER_* overrides from the process environment.
func Load(path string) (Config, error) {
	return LoadWithEnv(path, nil)
}

// LoadWithEnv is Load with an explicit environment. A nil map means the
// process environment.
func LoadWithEnv(path string, environ map[string]string) (Config, error) {
	cctx := cuecontext.New()
	schema, err := compileSchema(cctx)
	if err != nil {
		return Config{}, err
	}

	value := schema
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		file := cctx.CompileBytes(data, cue.Filename(path))
		if err := file.Err(); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		value = schema.Unify(file)
	}

	var cfg Config
	if err := value.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", displayPath(path), err)
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix, Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("config env: %w", err)
	}

	// Overrides bypass the file check, so the merged result goes through the
	// schema again.
	if err := validate(cctx, schema, cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the schema defaults.
func Default() Config {
	cfg, err := LoadWithEnv("", map[string]string{})
	if err != nil {
		panic(fmt.Sprintf("config: embedded schema defaults invalid: %v", err))
	}
	return cfg
}

func compileSchema(cctx *cue.Context) (cue.Value, error) {
	v := cctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := v.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("compile config schema: %w", err)
	}
	def := v.LookupPath(cue.ParsePath("#Config"))
	if err := def.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("lookup #Config: %w", err)
	}
	return def, nil
}

func validate(cctx *cue.Context, schema cue.Value, cfg Config) error {
	merged := schema.Unify(cctx.Encode(cfg))
	if err := merged.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func displayPath(path string) string {
	if path == "" {
		return "(defaults)"
	}
	return path
}

// ProgramKey returns the configured program identity, or the derived default
// when none is set.
func (c Config) ProgramKey() (solana.PublicKey, error) {
	if c.ProgramID == "" {
		return DefaultProgramID(), nil
	}
	key, err := solana.PublicKeyFromBase58(c.ProgramID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("program_id: %w", err)
	}
	return key, nil
}

// DefaultProgramID is the identity used when program_id is not configured.
func DefaultProgramID() solana.PublicKey {
	sum := sha256.Sum256([]byte("tradeledger/program"))
	return solana.PublicKeyFromBytes(sum[:])
}

// Level maps log_level to a slog level.
func (c Config) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger builds the process logger writing to w in log_format.
func (c Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.Level()}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
