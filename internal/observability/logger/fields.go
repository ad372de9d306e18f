package logger

import (
	"time"

	"go.uber.org/zap"
)

// =================================================================================
// STANDARD FIELDS - HTTP
// =================================================================================

// RequestID tags the request ID.
func RequestID(v string) zap.Field {
	return zap.String("request_id", v)
}

// Method tags the HTTP method.
func Method(v string) zap.Field {
	return zap.String("method", v)
}

// Path tags the request path.
func Path(v string) zap.Field {
	return zap.String("path", v)
}

// Status tags the HTTP status code.
func Status(v int) zap.Field {
	return zap.Int("status", v)
}

// Duration tags the request duration.
func Duration(v time.Duration) zap.Field {
	return zap.Duration("duration", v)
}

// ClientIP tags the client IP.
func ClientIP(v string) zap.Field {
	return zap.String("client_ip", v)
}

// =================================================================================
// STANDARD FIELDS - DOMAIN
// =================================================================================

// UserID tags the local user ID.
func UserID(v string) zap.Field {
	return zap.String("user_id", v)
}

// Email tags an email address. Use sparingly in prod.
func Email(v string) zap.Field {
	return zap.String("email", v)
}

// Provider tags the identity provider (google, naver, kakao).
func Provider(v string) zap.Field {
	return zap.String("provider", v)
}

// TokenType tags the token kind (access, refresh).
func TokenType(v string) zap.Field {
	return zap.String("token_type", v)
}

// =================================================================================
// STANDARD FIELDS - SYSTEM
// =================================================================================

// Component tags the component/module.
func Component(v string) zap.Field {
	return zap.String("component", v)
}

// Op tags the current operation.
func Op(v string) zap.Field {
	return zap.String("op", v)
}

// Layer tags the layer (controller, service, repository).
func Layer(v string) zap.Field {
	return zap.String("layer", v)
}

// Err tags an error.
func Err(err error) zap.Field {
	return zap.Error(err)
}
