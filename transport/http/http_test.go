package http

import (
	"context"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"wsb/config"
	"wsb/infras/jwt"
	otelMocks "wsb/infras/otel/mocks"
	catalogMocks "wsb/internal/domains/catalog/mocks"
	notifMocks "wsb/internal/domains/notification/mocks"
	resMocks "wsb/internal/domains/reservation/mocks"
	slotMocks "wsb/internal/domains/slot/mocks"
	slotDto "wsb/internal/domains/slot/model/dto"
	"wsb/internal/handlers/admin"
	"wsb/internal/handlers/catalog"
	"wsb/internal/handlers/health"
	"wsb/internal/handlers/reservation"
	"wsb/internal/handlers/slot"
	"wsb/permissions"
	"wsb/shared/cache"
	"wsb/transport/http/middleware"
	"wsb/transport/http/router"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type upstream struct{}

func (upstream) Ping(context.Context) error { return nil }

func newServer(t *testing.T) (*HTTP, *slotMocks.MockSlot) {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.Name = "wsb"
	cfg.JWT.AccessSecret = "secret"
	cfg.JWT.AdminRole = "admin"

	ctrl := gomock.NewController(t)
	ot := otelMocks.NewOtel()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	slots := slotMocks.NewMockSlot(ctrl)
	catalogSvc := catalogMocks.NewMockCatalog(ctrl)

	handlers := router.DomainHandlers{
		Health:      health.New(upstream{}, client, ot),
		Catalog:     catalog.New(catalogSvc, ot),
		Slot:        slot.New(slots, ot),
		Reservation: reservation.New(resMocks.NewMockReservation(ctrl), ot),
		Admin:       admin.New(catalogSvc, notifMocks.NewMockScheduler(ctrl), ot),
	}

	r := router.New(
		handlers,
		middleware.NewAppMiddleware(ot, cfg, cache.NewRedisCache(client, ot)),
		middleware.NewAuthRoleMiddleware(jwt.New(cfg), ot, permissions.Get(), cfg),
	)

	return New(cfg, r), slots
}

func TestHTTP_Routes(t *testing.T) {
	h, slots := newServer(t)
	handler := h.Handler()

	assert.Equal(t, ServerStateReady, h.State())

	slots.EXPECT().DailyHeatmap(gomock.Any(), "2025-01-10").Return(slotDto.HeatmapResponse{Date: "2025-01-10"}, nil)

	tests := []struct {
		path       string
		wantStatus int
	}{
		{path: "/healthz", wantStatus: nethttp.StatusOK},
		{path: "/v1/heatmap?date=2025-01-10", wantStatus: nethttp.StatusOK},
		{path: "/v1/reservations/mine", wantStatus: nethttp.StatusUnauthorized},
		{path: "/v1/nowhere", wantStatus: nethttp.StatusUnauthorized},
		{path: "/swagger/doc.json", wantStatus: nethttp.StatusOK},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(nethttp.MethodGet, tt.path, nil))

		assert.Equal(t, tt.wantStatus, rec.Code, tt.path)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"), tt.path)
	}
}

func TestHTTP_HealthFailsDuringGracePeriod(t *testing.T) {
	h, _ := newServer(t)
	handler := h.Handler()

	h.state.Store(int32(ServerStateInGracePeriod))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(nethttp.MethodGet, "/healthz", nil))

	assert.Equal(t, nethttp.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"message":"SERVER PREPARING TO SHUT DOWN"}`, rec.Body.String())
}
