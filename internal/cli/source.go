package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/adapters/file"
	"github.com/aretw0/turing/pkg/adapters/loam"
	"github.com/aretw0/turing/pkg/adapters/redis"
	"github.com/aretw0/turing/pkg/history"
	"github.com/aretw0/turing/pkg/persistence/middleware"
	"github.com/aretw0/turing/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// Options holds the flags shared by every command.
type Options struct {
	File     string // definition file (bulk, YAML or JSON)
	Dir      string // directory of definition files
	Machine  string // name inside Dir
	Loam     bool   // read Dir as a Loam markdown repository
	MaxSteps int    // <0 keeps the default
	Debug    bool
	LogFile  string
	RunsDir  string // file history location
	RedisURL string // redis history, takes precedence over RunsDir
	Redact   bool   // mask inputs and tapes in the history

	// HistoryKey is a base64 AES-256 key sealing recorded outcomes, read from
	// TURING_HISTORY_KEY. Older keys for rotation follow, comma separated.
	HistoryKey string
}

// EnvHistoryKey holds the history encryption keys.
const EnvHistoryKey = "TURING_HISTORY_KEY"

// Loader returns the table loader for Dir.
func (o Options) Loader() (ports.TableLoader, error) {
	if o.Loam {
		return loam.Open(o.Dir)
	}
	return file.NewLoader(o.Dir), nil
}

// MachineOptions translates flags into facade options.
func (o Options) MachineOptions(logger *slog.Logger, extra ...turing.Option) []turing.Option {
	opts := []turing.Option{turing.WithLogger(logger)}
	if o.MaxSteps >= 0 {
		opts = append(opts, turing.WithMaxSteps(o.MaxSteps))
	}
	return append(opts, extra...)
}

// HasSource reports whether a machine was named on the command line.
func (o Options) HasSource() bool {
	return o.File != "" || (o.Dir != "" && o.Machine != "")
}

// OpenMachine loads the machine named by the flags.
func OpenMachine(ctx context.Context, o Options, logger *slog.Logger, extra ...turing.Option) (*turing.Machine, error) {
	opts := o.MachineOptions(logger, extra...)

	switch {
	case o.File != "":
		return turing.Open(o.File, opts...)
	case o.Dir != "" && o.Machine != "":
		loader, err := o.Loader()
		if err != nil {
			return nil, err
		}
		return turing.Load(ctx, loader, o.Machine, opts...)
	default:
		return nil, ErrNoSource
	}
}

// OpenHistory builds the run history selected by the flags.
func OpenHistory(o Options, logger *slog.Logger) (*history.Manager, error) {
	mws, err := o.storeMiddleware()
	if err != nil {
		return nil, err
	}

	if o.RedisURL != "" {
		redisOpts, err := backend.ParseURL(o.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		client := backend.NewClient(redisOpts)
		return history.NewManager(
			middleware.Chain(redis.NewFromClient(client), mws...),
			history.WithLocker(redis.NewLocker(client, redis.DefaultPrefix)),
			history.WithLogger(logger),
		), nil
	}

	dir := o.RunsDir
	if dir == "" {
		dir = filepath.Join(".turing", "runs")
	}
	return history.NewManager(middleware.Chain(file.NewStore(dir), mws...), history.WithLogger(logger)), nil
}

// storeMiddleware returns the history decorators, redaction outermost.
func (o Options) storeMiddleware() ([]middleware.Middleware, error) {
	var mws []middleware.Middleware
	if o.Redact {
		mws = append(mws, middleware.NewRedactMiddleware())
	}
	if o.HistoryKey == "" {
		return mws, nil
	}

	var cfg middleware.EncryptionConfig
	for i, encoded := range strings.Split(o.HistoryKey, ",") {
		key, err := middleware.ParseKey(strings.TrimSpace(encoded))
		if err != nil {
			return nil, fmt.Errorf("%s: key %d: %w", EnvHistoryKey, i+1, err)
		}
		if i == 0 {
			cfg.ActiveKey = key
		} else {
			cfg.FallbackKeys = append(cfg.FallbackKeys, key)
		}
	}
	enc, err := middleware.NewEncryptionMiddleware(cfg)
	if err != nil {
		return nil, err
	}
	return append(mws, enc), nil
}

// stdinIsTerminal is replaced in tests.
var stdinIsTerminal = func() bool { return IsTerminal(os.Stdin) }
