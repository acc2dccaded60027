package middleware

import (
	"context"
	"errors"
	"net/http"
	"slices"

	"wsb/config"
	"wsb/infras/jwt"
	"wsb/infras/otel"
	"wsb/permissions"
	"wsb/shared/constant"
	"wsb/shared/failure"
	"wsb/transport/http/response"

	"github.com/go-chi/chi/v5"
)

type SkipAuthKey string

// InternalActorID is the actor recorded for requests carrying the internal API key.
const InternalActorID = "internal"

// Auth defines the interface for authentication middleware
type Auth interface {
	Auth(http.Handler) http.Handler
	APIKey(http.Handler) http.Handler
}

// Role defines the interface for role-based access control middleware
type Role interface {
	RBAC(http.Handler) http.Handler
}

type AuthRole interface {
	Auth
	Role
}

type authRoleImpl struct {
	jwtService jwt.JWT
	otel       otel.Otel
	permission *permissions.PermissionData
	cfg        *config.Config
}

func NewAuthRoleMiddleware(jwtService jwt.JWT, otel otel.Otel, permissions *permissions.PermissionData, cfg *config.Config) AuthRole {
	return &authRoleImpl{
		jwtService: jwtService,
		otel:       otel,
		permission: permissions,
		cfg:        cfg,
	}
}

func skipped(ctx context.Context) bool {
	skip, _ := ctx.Value(SkipAuthKey("skip")).(bool)

	return skip
}

// route resolves the registered pattern of the request, e.g. /v1/reservations/{id}.
func route(request *http.Request) string {
	rctx := chi.RouteContext(request.Context())
	if rctx == nil || rctx.Routes == nil {
		return request.URL.Path
	}

	if pattern := rctx.Routes.Find(chi.NewRouteContext(), request.Method, request.URL.Path); pattern != "" {
		return pattern
	}

	return request.URL.Path
}

func (m *authRoleImpl) lookup(request *http.Request) (permissions.Permission, string) {
	path := route(request)
	if m.permission == nil {
		return permissions.Permission{}, path
	}

	return m.permission.FindPermissions(path, request.Method), path
}

// Auth verifies the bearer token and stores the actor in the request context.
// Endpoints marked skip in the permission table are public.
func (m *authRoleImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()

		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "auth.middleware")
		defer scope.End()

		if skipped(ctx) {
			next.ServeHTTP(writer, request)

			return
		}

		permission, path := m.lookup(request)
		if permission.Skip {
			next.ServeHTTP(writer, request)

			return
		}

		scope.SetAttributes(map[string]any{
			"middleware.type": "auth",
			"http.path":       path,
			"http.method":     request.Method,
		})

		tokenString, err := jwt.ExtractTokenFromHeader(request.Header.Get(constant.RequestHeaderAuthorization))
		if err != nil {
			err = failure.Unauthorized("Missing or malformed authorization header")
			scope.TraceError(err)
			response.WithError(writer, err)

			return
		}

		principal, err := m.jwtService.Verify(tokenString)
		if err != nil {
			var message string

			switch {
			case errors.Is(err, jwt.ErrExpiredToken):
				message = "Token has expired"
			case errors.Is(err, jwt.ErrInvalidClaim):
				message = "Invalid token claims"
			default:
				message = "Invalid token"
			}

			err = failure.Unauthorized(message)
			scope.TraceError(err)
			response.WithError(writer, err)

			return
		}

		scope.SetAttribute("actor.id", principal.ID)

		ctx = context.WithValue(ctx, constant.ContextKeyActorID, principal.ID)
		ctx = context.WithValue(ctx, constant.ContextKeyActorRole, principal.Role)
		ctx = context.WithValue(ctx, constant.ContextKeyIsAdmin, principal.IsAdmin)

		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// RBAC rejects actors whose role is not listed for the endpoint. An empty
// role list admits every authenticated actor.
func (m *authRoleImpl) RBAC(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()

		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "rbac.middleware")
		defer scope.End()

		if skipped(ctx) {
			next.ServeHTTP(writer, request)

			return
		}

		if m.permission == nil {
			scope.TraceError(failure.ForbiddenError)
			response.WithError(writer, failure.ForbiddenError)

			return
		}

		permission, _ := m.lookup(request)
		if m.permission.Skip || permission.Skip || len(permission.Permissions) == 0 {
			next.ServeHTTP(writer, request)

			return
		}

		role, _ := ctx.Value(constant.ContextKeyActorRole).(string)

		if !slices.Contains(permission.Permissions, role) {
			scope.TraceError(failure.ForbiddenError)
			scope.SetAttributes(map[string]any{
				"actor_role":    role,
				"allowed_roles": permission.Permissions,
				"reason":        "role_not_allowed",
			})
			response.WithError(writer, failure.ForbiddenError)

			return
		}

		next.ServeHTTP(writer, request)
	})
}

// APIKey admits internal callers (catalog editors, operators) as administrators.
// Requests without the header fall through to token authentication.
func (m *authRoleImpl) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()

		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "api_key.middleware")
		defer scope.End()

		apiKey := request.Header.Get(constant.RequestHeaderAPIKey)
		if apiKey == "" {
			scope.SetAttribute("http.source", "client")
			next.ServeHTTP(writer, request)

			return
		}

		scope.SetAttribute("http.source", "internal")

		if m.cfg.App.APIKey == "" || apiKey != m.cfg.App.APIKey {
			scope.TraceError(failure.ForbiddenError)
			response.WithError(writer, failure.ForbiddenError)

			return
		}

		ctx = context.WithValue(ctx, SkipAuthKey("skip"), true)
		ctx = context.WithValue(ctx, constant.ContextKeyActorID, InternalActorID)
		ctx = context.WithValue(ctx, constant.ContextKeyActorRole, m.cfg.JWT.AdminRole)
		ctx = context.WithValue(ctx, constant.ContextKeyIsAdmin, true)

		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}
