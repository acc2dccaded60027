package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"wsb/config"
	"wsb/shared/constant"
	"wsb/transport/http/response"
	"wsb/transport/http/router"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type ServerState int32

const (
	ServerStateReady ServerState = iota + 1
	ServerStateInGracePeriod
	ServerStateInCleanupPeriod
)

const (
	healthPath        = "/healthz"
	readHeaderTimeout = 10 * time.Second
)

type HTTP struct {
	Config *config.Config
	Router router.Router
	state  atomic.Int32
}

func New(cfg *config.Config, r router.Router) *HTTP {
	return &HTTP{
		Config: cfg,
		Router: r,
	}
}

func (h *HTTP) State() ServerState {
	return ServerState(h.state.Load())
}

// Handler builds the route tree. Health checks report 503 once shutdown began
// so the load balancer drains the instance while requests still complete.
func (h *HTTP) Handler() http.Handler {
	mux := chi.NewRouter()
	mux.Use(h.drain)

	h.Router.SetupRoutes(mux)
	h.state.Store(int32(ServerStateReady))

	return mux
}

func (h *HTTP) drain(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path == healthPath && h.State() != ServerStateReady {
			response.WithPreparingShutdown(writer)

			return
		}

		next.ServeHTTP(writer, request)
	})
}

// Serve listens until ctx is cancelled, then runs the grace period followed
// by a cleanup period bounded shutdown of in-flight requests.
func (h *HTTP) Serve(ctx context.Context) error {
	server := &http.Server{
		Addr:              net.JoinHostPort(h.Config.Server.Host, h.Config.Server.Port),
		Handler:           h.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)

	go func() {
		log.Info().Str("addr", server.Addr).Msg("starting up HTTP server")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}

		return nil
	case <-ctx.Done():
	}

	return h.shutdown(server)
}

func (h *HTTP) shutdown(server *http.Server) error {
	shutdownConfig := h.Config.Server.Shutdown

	if h.Config.Server.Env != constant.ServerEnvDevelopment {
		log.Info().Int64("seconds", shutdownConfig.GracePeriodSeconds).Msg("entering grace period")

		h.state.Store(int32(ServerStateInGracePeriod))
		time.Sleep(time.Duration(shutdownConfig.GracePeriodSeconds) * time.Second)
	}

	log.Info().Int64("seconds", shutdownConfig.CleanupPeriodSeconds).Msg("entering cleanup period")

	h.state.Store(int32(ServerStateInCleanupPeriod))

	ctx, cancel := context.Background(), context.CancelFunc(func() {})
	if shutdownConfig.CleanupPeriodSeconds > 0 {
		ctx, cancel = context.WithTimeout(ctx, time.Duration(shutdownConfig.CleanupPeriodSeconds)*time.Second)
	}
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("failed to drain HTTP server")

		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}

	log.Info().Msg("HTTP server stopped")

	return nil
}
