package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joyeria/backend/internal/interfaces/http/dto"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SystemHandler exposes liveness and readiness probes
type SystemHandler struct {
	BaseHandler
	db    *gorm.DB
	redis *redis.Client
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db *gorm.DB, redisClient *redis.Client) *SystemHandler {
	return &SystemHandler{db: db, redis: redisClient}
}

// Health reports the service and its dependencies. Returns 503 when the
// database or Redis is unreachable so load balancers stop routing here.
func (h *SystemHandler) Health(c *gin.Context) {
	checks := map[string]string{
		"database": "ok",
		"redis":    "disabled",
	}
	healthy := true

	sqlDB, err := h.db.DB()
	if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		checks["database"] = "unreachable"
		healthy = false
	}

	if h.redis != nil {
		checks["redis"] = "ok"
		if err := h.redis.Ping(c.Request.Context()).Err(); err != nil {
			checks["redis"] = "unreachable"
			healthy = false
		}
	}

	status := http.StatusOK
	state := "healthy"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}
	c.JSON(status, dto.NewSuccessResponse(gin.H{
		"status": state,
		"checks": checks,
		"time":   time.Now().UTC().Format(time.RFC3339),
	}))
}
