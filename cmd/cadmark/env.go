package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/aretw0/cadmark"
	"github.com/aretw0/cadmark/internal/config"
	"github.com/aretw0/cadmark/internal/logging"
	"github.com/aretw0/cadmark/pkg/adapters/file"
	"github.com/aretw0/cadmark/pkg/adapters/memory"
	"github.com/aretw0/cadmark/pkg/adapters/redis"
	"github.com/aretw0/cadmark/pkg/domain"
	"github.com/aretw0/cadmark/pkg/observability"
	"github.com/aretw0/cadmark/pkg/ports"
	"github.com/aretw0/cadmark/pkg/session"
	"github.com/spf13/cobra"
	"seehuhn.de/go/geom/vec"
)

// env is the per-command runtime: configuration, logger and drawing manager.
type env struct {
	cfg     config.Config
	logger  *slog.Logger
	manager *session.Manager
	close   func() error
}

func setup(cmd *cobra.Command) (*env, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.New(level)

	e := &env{cfg: cfg, logger: logger, close: func() error { return nil }}
	opts := []session.Option{session.WithLogger(logger)}

	var store ports.DrawingStore
	switch cfg.Store {
	case config.StoreMemory:
		store = memory.NewStore()
	case config.StoreFile:
		store = file.New(cfg.DrawingDir)
	case config.StoreRedis:
		rs := redis.New(cfg.RedisAddr, "", 0, redis.WithPrefix(cfg.RedisPrefix))
		store = rs
		e.close = rs.Close
		opts = append(opts, session.WithLocker(redis.NewLocker(rs.Client(), cfg.RedisPrefix)))
	}
	e.manager = session.NewManager(store, opts...)
	return e, nil
}

// withDrawing runs fn on an engine bound to the selected drawing, holding
// the drawing lock. The drawing is saved afterwards when write is set.
func withDrawing(cmd *cobra.Command, write bool, fn func(ctx context.Context, eng *cadmark.Engine) error) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	id, _ := cmd.Flags().GetString("drawing")
	scale, err := domain.ParseScale(e.cfg.DefaultScale)
	if err != nil {
		return fmt.Errorf("default scale: %w", err)
	}

	return e.manager.WithLock(cmd.Context(), id, func(ctx context.Context) error {
		store := e.manager.Store()
		d, err := store.Load(ctx, id)
		if errors.Is(err, domain.ErrDrawingNotFound) {
			d, err = &domain.Drawing{ID: id}, nil
		}
		if err != nil {
			return err
		}

		doc := memory.FromDrawing(d)
		eng, err := cadmark.New(doc,
			cadmark.WithLogger(e.logger),
			cadmark.WithLifecycleHooks(observability.LogHooks(e.logger)),
			cadmark.WithNotifier(stderrNotifier{cmd: cmd}),
			cadmark.WithGripTolerance(e.cfg.GripTolerance),
			cadmark.WithDefaultScale(scale),
		)
		if err != nil {
			return err
		}
		if err := fn(ctx, eng); err != nil {
			return err
		}
		if !write {
			return nil
		}
		return store.Save(ctx, doc.Drawing())
	})
}

// stderrNotifier prints user notices to the command's error stream.
type stderrNotifier struct {
	cmd *cobra.Command
}

func (n stderrNotifier) Notify(_ context.Context, err error) {
	n.cmd.PrintErrln("warning:", err)
}

func parsePoint(s string) (vec.Vec2, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return vec.Vec2{}, fmt.Errorf("invalid point %q, want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return vec.Vec2{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return vec.Vec2{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	return vec.Vec2{X: x, Y: y}, nil
}
