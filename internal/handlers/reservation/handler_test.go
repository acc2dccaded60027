package reservation_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	otelMocks "wsb/infras/otel/mocks"
	"wsb/internal/domains/reservation/mocks"
	"wsb/internal/domains/reservation/model/dto"
	"wsb/internal/handlers/reservation"
	"wsb/shared/constant"
	gDto "wsb/shared/dto"
	"wsb/shared/failure"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Reason  string `json:"reason"`
		Message string `json:"message"`
		Details any    `json:"details"`
	} `json:"error"`
}

func newRouter(t *testing.T) (http.Handler, *mocks.MockReservation) {
	t.Helper()

	svc := mocks.NewMockReservation(gomock.NewController(t))
	handler := reservation.New(svc, otelMocks.NewOtel())

	router := chi.NewRouter()
	handler.Router(router)

	return router, svc
}

func serve(t *testing.T, router http.Handler, method, path, body, actorID string, isAdmin bool) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if actorID != "" {
		ctx := context.WithValue(req.Context(), constant.ContextKeyActorID, actorID)
		ctx = context.WithValue(ctx, constant.ContextKeyIsAdmin, isAdmin)
		req = req.WithContext(ctx)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))

	return rec, env
}

func TestHandler_CreateReservation(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		router, svc := newRouter(t)

		req := dto.CreateReservationRequest{ResourceID: 1, Date: "2025-01-10", Start: "09:00", DurationMinutes: 90}
		svc.EXPECT().Create(gomock.Any(), "A", req).
			Return(dto.ReservationResponse{ID: 11, ResourceID: 1, OwnerID: "A", Start: "09:00", End: "10:30", State: "ACTIVE"}, nil)

		rec, env := serve(t, router, http.MethodPost, "/reservations",
			`{"resource_id":1,"date":"2025-01-10","start":"09:00","duration_minutes":90}`, "A", false)

		assert.Equal(t, http.StatusCreated, rec.Code)

		var got dto.ReservationResponse
		require.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, int64(11), got.ID)
		assert.Equal(t, "10:30", got.End)
	})

	t.Run("conflict carries intervals", func(t *testing.T) {
		router, svc := newRouter(t)

		svc.EXPECT().Create(gomock.Any(), "B", gomock.Any()).
			Return(dto.ReservationResponse{}, failure.WithDetails(failure.ReasonConflict, "resource is already booked", []string{"09:00-10:30"}))

		rec, env := serve(t, router, http.MethodPost, "/reservations",
			`{"resource_id":1,"date":"2025-01-10","start":"10:00","duration_minutes":60}`, "B", false)

		assert.Equal(t, http.StatusConflict, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "CONFLICT", env.Error.Reason)
		assert.Equal(t, []any{"09:00-10:30"}, env.Error.Details)
	})

	t.Run("malformed start", func(t *testing.T) {
		router, _ := newRouter(t)

		rec, env := serve(t, router, http.MethodPost, "/reservations",
			`{"resource_id":1,"date":"2025-01-10","start":"9:00","duration_minutes":60}`, "A", false)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "BAD_TIME_FORMAT", env.Error.Reason)
	})

	t.Run("anonymous", func(t *testing.T) {
		router, _ := newRouter(t)

		rec, env := serve(t, router, http.MethodPost, "/reservations", `{}`, "", false)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "UNAUTHORIZED", env.Error.Reason)
	})

	t.Run("store unavailable is opaque", func(t *testing.T) {
		router, svc := newRouter(t)

		svc.EXPECT().Create(gomock.Any(), "A", gomock.Any()).
			Return(dto.ReservationResponse{}, errors.New("failed to create reservation: dial tcp 10.0.0.5:5432: connection refused"))

		rec, env := serve(t, router, http.MethodPost, "/reservations",
			`{"resource_id":1,"date":"2025-01-10","start":"09:00","duration_minutes":30}`, "A", false)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "UNAVAILABLE", env.Error.Reason)
		assert.NotContains(t, env.Error.Message, "10.0.0.5")
	})
}

func TestHandler_Transitions(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		expect     func(svc *mocks.MockReservation)
		wantStatus int
		wantReason string
	}{
		{
			name: "cancel by owner",
			path: "/reservations/11/cancel",
			expect: func(svc *mocks.MockReservation) {
				svc.EXPECT().Cancel(gomock.Any(), int64(11), "A", false).Return(dto.ReservationResponse{ID: 11, State: "CANCELLED"}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "cancel by stranger",
			path: "/reservations/11/cancel",
			expect: func(svc *mocks.MockReservation) {
				svc.EXPECT().Cancel(gomock.Any(), int64(11), "A", false).Return(dto.ReservationResponse{}, failure.New(failure.ReasonDenied, "only the owner or an administrator can cancel"))
			},
			wantStatus: http.StatusForbidden,
			wantReason: "DENIED",
		},
		{
			name: "finish before start",
			path: "/reservations/11/finish",
			expect: func(svc *mocks.MockReservation) {
				svc.EXPECT().Finish(gomock.Any(), int64(11), "A", false).Return(dto.ReservationResponse{}, failure.New(failure.ReasonNotStarted, "reservation has not started yet"))
			},
			wantStatus: http.StatusConflict,
			wantReason: "NOT_STARTED",
		},
		{
			name:       "non numeric id",
			path:       "/reservations/abc/finish",
			expect:     func(*mocks.MockReservation) {},
			wantStatus: http.StatusBadRequest,
			wantReason: "INVALID_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, svc := newRouter(t)
			tt.expect(svc)

			rec, env := serve(t, router, http.MethodPost, tt.path, "", "A", false)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantReason != "" {
				require.NotNil(t, env.Error)
				assert.Equal(t, tt.wantReason, env.Error.Reason)
			}
		})
	}
}

func TestHandler_ExtendReservation(t *testing.T) {
	router, svc := newRouter(t)

	svc.EXPECT().Extend(gomock.Any(), int64(11), "admin-1", 30, true).
		Return(dto.ReservationResponse{ID: 11, End: "11:00"}, nil)

	rec, env := serve(t, router, http.MethodPost, "/reservations/11/extend", `{"added_minutes":30}`, "admin-1", true)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"end":"11:00"`)
}

func TestHandler_Listings(t *testing.T) {
	t.Run("mine", func(t *testing.T) {
		router, svc := newRouter(t)

		svc.EXPECT().ListMine(gomock.Any(), "A", "2025-01-10").Return([]dto.ReservationResponse{{ID: 1}, {ID: 2}}, nil)

		rec, env := serve(t, router, http.MethodGet, "/reservations/mine?date=2025-01-10", "", "A", false)

		assert.Equal(t, http.StatusOK, rec.Code)

		var got []dto.ReservationResponse
		require.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Len(t, got, 2)
	})

	t.Run("all for admin", func(t *testing.T) {
		router, svc := newRouter(t)

		svc.EXPECT().ListAll(gomock.Any(), "", gomock.AssignableToTypeOf(gDto.QueryParams{}), true).
			Return(dto.GetReservationsResponse{TotalData: 0, TotalPage: 1}, nil)

		rec, _ := serve(t, router, http.MethodGet, "/reservations", "", "root", true)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("single", func(t *testing.T) {
		router, svc := newRouter(t)

		svc.EXPECT().Get(gomock.Any(), int64(5), "A", false).Return(dto.ReservationResponse{}, failure.NotFound("reservation not found"))

		rec, env := serve(t, router, http.MethodGet, "/reservations/5", "", "A", false)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "NOT_FOUND", env.Error.Reason)
	})
}
