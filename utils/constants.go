package utils

import "time"

// SessionPrefix is the prefix used for Redis session keys.
const SessionPrefix = "session:"

// CategoryCacheKey holds the cached category list.
const CategoryCacheKey = "cache:categories"

// HealthCheckInterval is how often the health monitor pings its dependencies.
const HealthCheckInterval = 60 * time.Second

// Gin context keys shared by middleware and handlers.
const (
	SessionContextKey = "session"
	LoggerContextKey  = "logger"
	RequestIDKey      = "requestId"
)

// RequestIDHeader is echoed back on every response.
const RequestIDHeader = "X-Request-ID"

const (
	MsgInternalError = "일시적인 오류가 발생했습니다. 잠시 후 다시 시도해주세요."
	MsgLoginRequired = "로그인이 필요합니다."
	MsgForbidden     = "관리자만 접근할 수 있습니다."
	MsgTooManyReqs   = "요청이 너무 많습니다. 잠시 후 다시 시도해주세요."
	MsgNotFoundPage  = "페이지를 찾을 수 없습니다."
)
