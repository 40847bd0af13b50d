package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-circulation/circulation/auth"
	"github.com/AntonStoeckl/library-circulation/circulation/features/query/analytics"
	"github.com/AntonStoeckl/library-circulation/circulation/httpapi"
	"github.com/AntonStoeckl/library-circulation/circulation/session"
	"github.com/AntonStoeckl/library-circulation/circulation/shell/config"
	"github.com/AntonStoeckl/library-circulation/circulation/sweep"
)

const (
	shutdownTimeout = 10 * time.Second

	LogMsgServing             = "serving HTTP"
	LogMsgStopping            = "shutting down"
	LogMsgPlainSessions       = "session cookies are NOT signed"
	LogMsgSweepScheduled      = "overdue sweep scheduled"
	LogMsgSweepDisabled       = "overdue sweep disabled"
	LogMsgRateLimiterSelected = "login rate limiter selected"
	LogAttrAddr               = "addr"
	LogAttrSchedule           = "schedule"
	LogAttrLimiter            = "limiter"
)

var ErrRedisUnavailable = errors.New("redis is not reachable")

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API, the staff pages, and the overdue sweep",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if err = cfg.RequireSessionSecret(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg)
		},
	}
}

//nolint:funlen
func serve(ctx context.Context, cfg config.Config) error {
	rt, err := newRuntime(ctx, cfg, os.Stdout)
	if err != nil {
		return err
	}
	defer rt.shutdown(context.Background())

	if cfg.Store == config.StoreSQLite {
		if _, err = rt.createSchema(ctx); err != nil {
			return err
		}
	}

	server, err := rt.newAPIServer(ctx)
	if err != nil {
		return err
	}

	if err = rt.scheduleSweep(ctx); err != nil {
		return err
	}

	httpServer := httpapi.NewHTTPServer(cfg.HTTPAddr, server.Handler())

	serveErr := make(chan error, 1)
	go func() {
		rt.logger.Info(LogMsgServing, LogAttrAddr, cfg.HTTPAddr)
		if listenErr := httpServer.ListenAndServe(); listenErr != nil && !errors.Is(listenErr, http.ErrServerClosed) {
			serveErr <- listenErr
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err = <-serveErr:
		if err != nil {
			return err
		}
	}

	rt.logger.Info(LogMsgStopping)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return httpServer.Shutdown(shutdownCtx)
}

func (rt *runtime) newAPIServer(ctx context.Context) (*httpapi.Server, error) {
	commands, err := rt.commandHandlers()
	if err != nil {
		return nil, err
	}

	queries, err := rt.queryHandlers()
	if err != nil {
		return nil, err
	}

	credentials, err := rt.credentialsReader()
	if err != nil {
		return nil, err
	}

	limiter, err := rt.loginLimiter(ctx)
	if err != nil {
		return nil, err
	}

	codec, err := rt.sessionCodec()
	if err != nil {
		return nil, err
	}

	return httpapi.NewServer(httpapi.Dependencies{
		Commands:      commands,
		Queries:       queries,
		Authenticator: auth.NewService(credentials, limiter, auth.WithContextualLogger(rt.contextualLogger)),
		Codec:         codec,
		Cookies:       session.Cookies{Secure: rt.cfg.CookieSecure, TTL: rt.cfg.SessionTTL},
		Clock:         rt.clock,
		Logger:        rt.contextualLogger,
	}), nil
}

func (rt *runtime) sessionCodec() (session.Codec, error) {
	if rt.cfg.SessionSecret == "" {
		rt.logger.Warn(LogMsgPlainSessions)
		return session.NewPlainCodec(), nil
	}

	codec, err := session.NewSignedCodec(rt.cfg.SessionSecret, session.WithTTL(rt.cfg.SessionTTL))
	if err != nil {
		return nil, err
	}

	return codec, nil
}

func (rt *runtime) loginLimiter(ctx context.Context) (auth.Limiter, error) {
	if rt.cfg.RedisAddr == "" {
		rt.logger.Info(LogMsgRateLimiterSelected, LogAttrLimiter, "memory")
		return auth.NewMemoryLimiter(rt.cfg.LoginAttemptLimit, rt.cfg.LoginAttemptWindow), nil
	}

	client := redis.NewClient(&redis.Options{Addr: rt.cfg.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Join(ErrRedisUnavailable, err)
	}

	rt.closers = append(rt.closers, namedCloser{name: "redis", close: func(context.Context) error { return client.Close() }})
	rt.logger.Info(LogMsgRateLimiterSelected, LogAttrLimiter, "redis")

	return auth.NewRedisLimiter(client, rt.cfg.LoginAttemptLimit, rt.cfg.LoginAttemptWindow), nil
}

func (rt *runtime) scheduleSweep(ctx context.Context) error {
	hs := &handlerSet{rt: rt}
	reports := observeQuery[analytics.Query, analytics.Report](
		hs, analytics.NewQueryHandler(rt.store, rt.finePolicy))
	if err := errors.Join(hs.errs...); err != nil {
		return err
	}

	job := sweep.New(
		reports,
		rt.clock,
		sweep.WithContextualLogger(rt.contextualLogger),
		sweep.WithMetrics(rt.metrics),
	)

	scheduler, err := sweep.Schedule(ctx, rt.cfg.OverdueSweepSchedule, job)
	if err != nil {
		return err
	}

	if scheduler == nil {
		rt.logger.Info(LogMsgSweepDisabled)
		return nil
	}

	scheduler.Start()
	rt.closers = append(rt.closers, namedCloser{name: "sweep", close: func(stopCtx context.Context) error {
		select {
		case <-scheduler.Stop().Done():
		case <-stopCtx.Done():
		}
		return nil
	}})
	rt.logger.Info(LogMsgSweepScheduled, LogAttrSchedule, rt.cfg.OverdueSweepSchedule)

	return nil
}
