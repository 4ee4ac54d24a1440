package v1

import (
	"context"
	"net/http"
	"time"

	"ecell/pkg/queue"
	"ecell/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// QueueStatus 邮件队列状态，未启用 Redis 时为 nil
type QueueStatus interface {
	Ping(ctx context.Context) error
	Length(ctx context.Context) (int64, error)
	Metrics() *queue.QueueMetrics
}

type HealthController struct {
	db    *gorm.DB
	queue QueueStatus
}

// NewHealthController 创建健康检查控制器
func NewHealthController(db *gorm.DB, q QueueStatus) *HealthController {
	return &HealthController{db: db, queue: q}
}

// Show 健康检查端点，数据库不可用时返回 503
// GET /health
func (hc *HealthController) Show(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	checks := gin.H{}
	healthy := true

	if err := hc.pingDB(ctx); err != nil {
		checks["database"] = err.Error()
		healthy = false
	} else {
		checks["database"] = "ok"
	}

	if hc.queue != nil {
		q := gin.H{"metrics": hc.queue.Metrics().Snapshot()}
		if err := hc.queue.Ping(ctx); err != nil {
			q["status"] = err.Error()
			healthy = false
		} else {
			q["status"] = "ok"
			if n, err := hc.queue.Length(ctx); err == nil {
				q["length"] = n
			}
		}
		checks["mail_queue"] = q
	}

	if !healthy {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, response.Response{
			Status:  response.Error,
			Message: "Service unavailable",
			Data:    checks,
		})
		return
	}

	checks["time"] = time.Now().Unix()
	response.Data(c, checks)
}

func (hc *HealthController) pingDB(ctx context.Context) error {
	sqlDB, err := hc.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
