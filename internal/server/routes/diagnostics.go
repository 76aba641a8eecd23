package routes

import (
	"sort"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/static-hub/static-hub/internal/cache"
	"github.com/static-hub/static-hub/internal/server"
	"github.com/static-hub/static-hub/internal/static"
	"github.com/static-hub/static-hub/internal/version"
)

// RegisterDiagnostics 暴露 /-/ 前缀下的诊断与缓存管理接口，
// 供 SRE 查询挂载绑定关系并在文件变更后手动失效缓存。
func RegisterDiagnostics(app *fiber.App, registry *server.MountRegistry, handler *static.Handler, store cache.Store) {
	if app == nil || registry == nil {
		return
	}

	app.Get("/-/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"version": version.Full(),
		})
	})

	app.Get("/-/mounts", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"mounts": encodeMounts(registry.List()),
		})
	})

	app.Get("/-/cache", func(c fiber.Ctx) error {
		keys := store.Keys()
		sort.Strings(keys)
		return c.JSON(fiber.Map{
			"entries": store.Len(),
			"keys":    keys,
		})
	})

	// DELETE /-/cache?key=/a.txt&prefix=assets 失效单个条目；
	// 不带 key 则清空整个缓存。
	app.Delete("/-/cache", func(c fiber.Ctx) error {
		if handler == nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "cache_unavailable"})
		}
		args := c.Request().URI().QueryArgs()
		key := strings.TrimSpace(string(args.Peek("key")))
		prefix := string(args.Peek("prefix"))

		handler.ClearCache(key, static.Options{CachePrefix: prefix})

		cleared := "all"
		if key != "" {
			cleared = static.CacheKey(prefix, key)
		}
		return c.JSON(fiber.Map{"cleared": cleared})
	})
}

type mountPayload struct {
	Name        string   `json:"name"`
	Prefix      string   `json:"prefix"`
	Roots       []string `json:"roots"`
	CacheMode   string   `json:"cache_mode"`
	MaxAgeMs    int64    `json:"max_age_ms"`
	NoCache     bool     `json:"nocache"`
	CachePrefix string   `json:"cache_prefix,omitempty"`
	Transform   string   `json:"transform,omitempty"`
}

func encodeMounts(routes []server.MountRoute) []mountPayload {
	if len(routes) == 0 {
		return nil
	}
	result := make([]mountPayload, 0, len(routes))
	for _, route := range routes {
		result = append(result, mountPayload{
			Name:        route.Config.Name,
			Prefix:      route.Prefix,
			Roots:       append([]string(nil), route.Config.Roots...),
			CacheMode:   route.Config.CacheMode(),
			MaxAgeMs:    route.Config.MaxAge,
			NoCache:     route.Config.NoCache,
			CachePrefix: route.Config.CachePrefix,
			Transform:   route.Config.Transform,
		})
	}
	return result
}
