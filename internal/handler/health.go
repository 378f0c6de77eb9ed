package handler

import (
	"context"
	"net/http"
	"time"

	"wareinc/internal/infra"
	"wareinc/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reports DB and Redis connectivity plus the mail breaker state and
// dead letter backlog. Only the database is required for a 200: without Redis
// the ledger still works, only background jobs stop.
func Health(db *gorm.DB, rdb *redis.Client, mailCB *infra.CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		body := gin.H{}

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}
		body["db"] = dbStatus

		redisStatus := "disabled"
		if rdb != nil {
			redisStatus = "connected"
			if rdb.Ping(ctx).Err() != nil {
				redisStatus = "error"
			} else if dlq, err := worker.DLQLengths(ctx, rdb); err == nil {
				body["dlq"] = dlq
			}
		}
		body["redis"] = redisStatus

		if mailCB != nil {
			body["mail"] = mailCB.State().String()
		}

		status := http.StatusOK
		if dbStatus != "connected" {
			status = http.StatusServiceUnavailable
		}
		body["ok"] = status == http.StatusOK
		c.JSON(status, body)
	}
}
