package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/procureflow/backend/internal/domain/shared"
	"github.com/procureflow/backend/internal/infrastructure/auth"
	"github.com/procureflow/backend/internal/infrastructure/logger"
	"github.com/procureflow/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey  = "jwt_claims"
	TenantIDKey   = "tenant_id"
	ActorKey      = "actor"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// JWTAuth validates the bearer token and places the tenant and actor
// identity in the request context. Every protected route runs behind it.
func JWTAuth(jwtService *auth.JWTService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			abortUnauthorized(c, "Missing authorization header")
			return
		}
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			if log != nil {
				log.Warn("token validation failed",
					zap.Error(err),
					zap.String("path", c.Request.URL.Path),
				)
			}
			message := "Invalid token"
			if err == auth.ErrExpiredToken {
				message = "Token has expired"
			}
			abortUnauthorized(c, message)
			return
		}

		tenantID, err := claims.TenantUUID()
		if err != nil {
			abortUnauthorized(c, "Invalid tenant in token")
			return
		}
		actor, err := claims.ActorContext()
		if err != nil {
			abortUnauthorized(c, "Invalid actor in token")
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(TenantIDKey, tenantID)
		c.Set(ActorKey, actor)

		// enrich the request-scoped logger with the tenant
		ctx := c.Request.Context()
		reqLog := logger.FromContext(ctx)
		ctx, _ = logger.WithTenantID(ctx, reqLog, tenantID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireBuyer rejects requests whose actor is not the buyer organization
func RequireBuyer() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok || !actor.IsBuyer() {
			abortForbidden(c, "This operation is restricted to the buyer organization")
			return
		}
		c.Next()
	}
}

// RequireSupplier rejects requests whose actor is not a supplier
func RequireSupplier() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok || !actor.IsSupplier() {
			abortForbidden(c, "This operation is restricted to suppliers")
			return
		}
		c.Next()
	}
}

// GetClaims retrieves JWT claims from gin.Context
func GetClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetTenantID retrieves the authenticated tenant from gin.Context
func GetTenantID(c *gin.Context) (uuid.UUID, bool) {
	if v, exists := c.Get(TenantIDKey); exists {
		if id, ok := v.(uuid.UUID); ok {
			return id, true
		}
	}
	return uuid.Nil, false
}

// GetActor retrieves the authenticated actor from gin.Context
func GetActor(c *gin.Context) (shared.ActorContext, bool) {
	if v, exists := c.Get(ActorKey); exists {
		if actor, ok := v.(shared.ActorContext); ok {
			return actor, true
		}
	}
	return shared.ActorContext{}, false
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponse(dto.ErrCodeUnauthorized, message))
}

func abortForbidden(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusForbidden,
		dto.NewErrorResponse(shared.CodeForbiddenActor, message))
}
