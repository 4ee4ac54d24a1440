// Package limiter 处理限流逻辑
package limiter

import (
	"strings"
	"sync"

	"ecell/pkg/config"
	"ecell/pkg/logger"
	"ecell/pkg/redis"

	"github.com/gin-gonic/gin"
	limiterlib "github.com/ulule/limiter/v3"
	smemory "github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

var (
	storeOnce sync.Once
	store     limiterlib.Store
	storeErr  error

	// 按限流格式缓存 limiter 对象
	limiters sync.Map
)

// GetKeyIP 获取 Limitor 的 Key，IP
func GetKeyIP(c *gin.Context) string {
	return c.ClientIP()
}

// GetKeyRouteWithIP Limitor 的 Key，路由+IP，针对单个路由做限流
func GetKeyRouteWithIP(c *gin.Context) string {
	return routeToKeyString(c.FullPath()) + c.ClientIP()
}

// CheckRate 检测请求是否超额，formatted 格式如 "5-S"、"10-M"、"1000-H"、"2000-D"
func CheckRate(c *gin.Context, key string, formatted string) (limiterlib.Context, error) {
	var context limiterlib.Context

	limiterObj, err := getLimiter(formatted)
	if err != nil {
		logger.LogIf(err)
		return context, err
	}

	// 获取限流的结果
	if c.GetBool("limiter-once") {
		// Peek() 取结果，不增加访问次数
		return limiterObj.Peek(c, key)
	}

	// 确保多个路由组里调用 LimitIP 进行限流时，只增加一次访问次数。
	c.Set("limiter-once", true)

	// Get() 取结果且增加访问次数
	return limiterObj.Get(c, key)
}

func getLimiter(formatted string) (*limiterlib.Limiter, error) {
	if l, ok := limiters.Load(formatted); ok {
		return l.(*limiterlib.Limiter), nil
	}

	rate, err := limiterlib.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, err
	}

	s, err := getStore()
	if err != nil {
		return nil, err
	}

	actual, _ := limiters.LoadOrStore(formatted, limiterlib.New(s, rate))
	return actual.(*limiterlib.Limiter), nil
}

// getStore 启用 Redis 时使用共用的 redis.Redis 对象，否则使用进程内存
func getStore() (limiterlib.Store, error) {
	storeOnce.Do(func() {
		options := limiterlib.StoreOptions{
			// 为 limiter 设置前缀，保持 redis 里数据的整洁
			Prefix: config.GetString("app.name", "ecell") + ":limiter",
		}
		if redis.Redis != nil {
			store, storeErr = sredis.NewStoreWithOptions(redis.Redis.Client, options)
			return
		}
		options.CleanUpInterval = limiterlib.DefaultCleanUpInterval
		store = smemory.NewStoreWithOptions(options)
	})
	return store, storeErr
}

// routeToKeyString 辅助方法，将 URL 中的 / 格式为 -
func routeToKeyString(routeName string) string {
	routeName = strings.ReplaceAll(routeName, "/", "-")
	routeName = strings.ReplaceAll(routeName, ":", "_")
	return routeName
}
