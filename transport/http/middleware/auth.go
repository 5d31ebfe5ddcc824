package middleware

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"travelnest/config"
	"travelnest/infras/jwt"
	"travelnest/infras/otel"
	"travelnest/permissions"
	"travelnest/shared/constant"
	"travelnest/shared/failure"
	"travelnest/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type SkipAuthKey string

const skipAuth = SkipAuthKey("skip")

// Auth defines the interface for authentication middleware
type Auth interface {
	Auth(http.Handler) http.Handler
	APIKey(http.Handler) http.Handler
}

// Role defines the interface for role-based access control middleware
type Role interface {
	RBAC(http.Handler) http.Handler
}

// AuthRole combines all middleware interfaces
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

// routePermission resolves the rule for the chi pattern the request will match.
func (m *authRoleImpl) routePermission(request *http.Request) (string, permissions.Permission) {
	rctx := chi.RouteContext(request.Context())
	if rctx == nil || rctx.Routes == nil {
		return request.URL.Path, permissions.Permission{}
	}

	path := rctx.Routes.Find(chi.NewRouteContext(), request.Method, request.URL.Path)
	if m.permission == nil {
		return path, permissions.Permission{}
	}

	return path, m.permission.FindPermissions(path, request.Method)
}

// tokenMessage maps a token validation error to the message returned to the client.
func tokenMessage(err error) string {
	switch {
	case errors.Is(err, jwt.ErrExpiredToken):
		return "Token has expired"
	case errors.Is(err, jwt.ErrInvalidToken):
		return "Invalid token"
	case errors.Is(err, jwt.ErrInvalidClaim):
		return "Invalid token claims"
	default:
		return "Token validation failed"
	}
}

func internalCall(ctx context.Context) bool {
	skip, _ := ctx.Value(skipAuth).(bool)

	return skip
}

// authenticate turns the Authorization header into claims.
func (m *authRoleImpl) authenticate(ctx context.Context, header string) (*jwt.Claims, error) {
	if header == "" {
		return nil, failure.Unauthorized("Missing authorization header")
	}

	token, err := jwt.ExtractTokenFromHeader(header)
	if err != nil {
		return nil, failure.Unauthorized("Invalid authorization header format")
	}

	claims, err := m.jwtService.ValidateToken(ctx, token, jwt.AccessToken)
	if err != nil {
		return nil, failure.Unauthorized(tokenMessage(err))
	}

	if claims.UserID == 0 || claims.Email == "" {
		log.Error().Int64("userID", claims.UserID).Str("email", claims.Email).Msg("JWT claims are incomplete")

		return nil, failure.Unauthorized("Invalid token claims")
	}

	return claims, nil
}

// Auth validates the bearer access token and stores its claims in the request
// context. Routes marked skip in permissions.json pass through untouched.
func (m *authRoleImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "auth.middleware")
		defer scope.End()

		if internalCall(ctx) {
			next.ServeHTTP(writer, request)

			return
		}

		path, permission := m.routePermission(request)
		if permission.Skip {
			next.ServeHTTP(writer, request)

			return
		}

		scope.SetAttributes(map[string]any{
			"middleware.type": "auth",
			"http.path":       path,
			"http.method":     request.Method,
		})

		claims, err := m.authenticate(ctx, request.Header.Get(constant.RequestHeaderAuthorization))
		if err != nil {
			scope.TraceError(err)
			response.WithError(writer, err)

			return
		}

		identity := request.Context()
		identity = context.WithValue(identity, constant.ContextKeyUserID, claims.UserID)
		identity = context.WithValue(identity, constant.ContextKeyUserEmail, claims.Email)
		identity = context.WithValue(identity, constant.ContextKeyUserRole, claims.Role)
		identity = context.WithValue(identity, constant.ContextKeyTokenID, claims.TokenID)

		next.ServeHTTP(writer, request.WithContext(identity))
	})
}

// RBAC checks the authenticated role against the roles allowed for the route.
// It runs after Auth.
func (m *authRoleImpl) RBAC(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "rbac.middleware")
		defer scope.End()

		switch {
		case internalCall(ctx):
		case m.permission == nil:
			response.WithError(writer, failure.ForbiddenError)

			return
		case m.permission.Skip:
		default:
			_, permission := m.routePermission(request)
			role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

			if !permission.Skip && len(permission.Permissions) > 0 && !slices.Contains(permission.Permissions, role) {
				scope.TraceError(failure.ForbiddenError)
				scope.SetAttributes(map[string]any{
					"user_role":     role,
					"allowed_roles": permission.Permissions,
				})
				response.WithError(writer, failure.ForbiddenError)

				return
			}
		}

		next.ServeHTTP(writer, request)
	})
}

// APIKey lets internal callers bypass user authentication with the shared key.
// A wrong key is rejected outright instead of falling back to the bearer token.
func (m *authRoleImpl) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "api_key.middleware")
		defer scope.End()

		key := request.Header.Get(constant.RequestHeaderAPIKey)
		internal := key != ""

		scope.SetAttribute("http.internal", internal)

		if internal && (m.cfg.App.APIKey == "" || key != m.cfg.App.APIKey) {
			scope.TraceError(failure.ForbiddenError)
			response.WithError(writer, failure.ForbiddenError)

			return
		}

		next.ServeHTTP(writer, request.WithContext(context.WithValue(request.Context(), skipAuth, internal)))
	})
}
