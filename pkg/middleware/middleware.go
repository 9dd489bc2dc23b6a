package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/Kilat-Hospitality/service-reservation/pkg/auth"
	"github.com/Kilat-Hospitality/service-reservation/pkg/domain"
	"github.com/Kilat-Hospitality/service-reservation/pkg/response"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	requestIDHeader = "X-Request-ID"

	ctxRequestID = "request_id"
	ctxUsername  = "username"
	ctxRole      = "role"
)

// RecoveryMiddleware turns panics into a generic 500 and logs the value.
func RecoveryMiddleware(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString(ctxRequestID)),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Envelope{
			Error: &response.ErrorBody{Code: string(domain.CodeInternal), Message: "internal server error"},
		})
	})
}

// LoggerMiddleware logs one line per request.
func LoggerMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString(ctxRequestID)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			log.Error("request completed", fields...)
		case status >= http.StatusBadRequest:
			log.Warn("request completed", fields...)
		default:
			log.Info("request completed", fields...)
		}
	}
}

// RequestIDMiddleware propagates or assigns an X-Request-ID.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(ctxRequestID, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// CORSMiddleware allows browser clients from any origin.
func CORSMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
		ExposeHeaders:    []string{requestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	})
}

// SecurityHeadersMiddleware sets conservative response headers.
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		c.Next()
	}
}

// AuthMiddleware requires a valid bearer token. When the manager has no
// secret configured every request passes through unauthenticated.
func AuthMiddleware(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !jwtManager.Enabled() {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			abort(c, domain.NewUnauthorizedError("missing bearer token"))
			return
		}

		claims, err := jwtManager.ValidateToken(token)
		if err != nil {
			abort(c, domain.NewUnauthorizedError("invalid or expired token"))
			return
		}

		c.Set(ctxUsername, claims.Subject)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

// RequireRole lets the request through only for one of roles. It is a no-op
// when authentication is disabled.
func RequireRole(jwtManager *auth.JWTManager, roles ...auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !jwtManager.Enabled() {
			c.Next()
			return
		}
		role, ok := GetUserRole(c)
		if !ok {
			abort(c, domain.NewUnauthorizedError("unauthorized"))
			return
		}
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		abort(c, domain.NewForbiddenError("insufficient role"))
	}
}

// GetUsername returns the authenticated username.
func GetUsername(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxUsername)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetUserRole returns the authenticated role.
func GetUserRole(c *gin.Context) (auth.Role, bool) {
	v, ok := c.Get(ctxRole)
	if !ok {
		return "", false
	}
	r, ok := v.(auth.Role)
	return r, ok
}

func abort(c *gin.Context, err *domain.DomainError) {
	response.Error(c, err)
	c.Abort()
}
