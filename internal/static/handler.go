package static

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/utils/v2"
	"github.com/sirupsen/logrus"

	"github.com/static-hub/static-hub/internal/cache"
	"github.com/static-hub/static-hub/internal/logging"
	"github.com/static-hub/static-hub/internal/server"
)

// Handler 负责 orchestrate “路径安全 → 缓存命中 → 多根解析 → 条件协商 → 写回缓存”
// 的全流程，对外同时暴露 MountRoute 入口与纯 Config/Options 入口。
type Handler struct {
	store   cache.Store
	logger  *logrus.Logger
	sniffer *Sniffer
	now     func() time.Time
}

// NewHandler constructs a static handler sharing the process-wide cache store.
func NewHandler(store cache.Store, logger *logrus.Logger) *Handler {
	return &Handler{
		store:   store,
		logger:  logger,
		sniffer: DefaultSniffer(),
		now:     time.Now,
	}
}

// Handle 实现 server.StaticHandler：按 MountRoute 拼装配置、剥离挂载前缀后
// 执行核心流程。未注册的 Transform 视为配置错误直接上抛。
func (h *Handler) Handle(c fiber.Ctx, route *server.MountRoute) (bool, error) {
	if route == nil {
		return false, errors.New("mount route is nil")
	}

	opts := Options{
		CachePrefix: route.Config.CachePrefix,
		NoCache:     route.Config.NoCache,
	}
	if key := route.Config.Transform; key != "" {
		fn, ok := LookupTransform(key)
		if !ok {
			return false, fmt.Errorf("transform %s is not registered", key)
		}
		opts.Transform = fn
	}

	cfg := Config{
		Roots:        route.Config.Roots,
		MaxAgeMillis: route.Config.MaxAge,
		CacheEnabled: route.Config.Cache.Enabled,
	}

	requestPath := stripMountPrefix(decodeRequestPath(c), route.Prefix)
	return h.serve(c, route.Config.Name, requestPath, cfg, opts)
}

// HandleRequest 是不经过挂载注册表的直接入口：根据 Config/Options 处理当前
// 请求，返回是否已写出响应。false 且无错误表示拒绝处理（方法不符或文件不存在），
// 调用方可以继续尝试其它 handler 或产出最终 404。
func (h *Handler) HandleRequest(c fiber.Ctx, cfg Config, opts Options) (bool, error) {
	return h.serve(c, "", decodeRequestPath(c), cfg, opts)
}

func (h *Handler) serve(c fiber.Ctx, mount, requestPath string, cfg Config, opts Options) (bool, error) {
	method := c.Method()
	if method != fiber.MethodGet && method != fiber.MethodHead {
		return false, nil
	}

	started := time.Now()

	// Mandatory input validation, before any cache or filesystem access.
	if containsDotDot(requestPath) {
		h.logResult(c, mount, method, requestPath, fiber.StatusForbidden, false, started)
		return true, c.Status(fiber.StatusForbidden).SendString("Forbidden")
	}

	cacheKey := CacheKey(opts.CachePrefix, requestPath)
	conditional := isConditional(c)

	// 条件请求必须基于实时元信息重新协商，缓存条目不回答条件校验。
	if cfg.CacheEnabled && !conditional {
		if entry, ok := h.store.Get(cacheKey); ok {
			h.logResult(c, mount, method, requestPath, fiber.StatusOK, true, started)
			var body []byte
			if method == fiber.MethodGet {
				body = entry.Body
			}
			return true, h.writeResponse(c, fiber.StatusOK, entry.Headers, body)
		}
	}

	lookupPath := requestPath
	if strings.HasSuffix(lookupPath, "/") {
		lookupPath += "index.html"
	}

	resolved, err := resolveFile(cfg.Roots, lookupPath)
	if err != nil {
		return false, err
	}
	if resolved == nil || resolved.Stat.IsDir() {
		return false, nil
	}

	body, err := os.ReadFile(resolved.AbsolutePath)
	if err != nil {
		return false, err
	}

	if opts.Transform != nil {
		body, err = opts.Transform(body)
		if err != nil {
			return false, err
		}
	}

	headers := h.buildHeaders(resolved, body, cfg, opts)

	if conditional && isNotModified(c, headers) {
		h.logResult(c, mount, method, requestPath, fiber.StatusNotModified, false, started)
		return true, h.writeResponse(c, fiber.StatusNotModified, stripContentHeaders(headers), nil)
	}

	if cfg.CacheEnabled {
		h.store.Set(cacheKey, cache.Entry{Headers: headers, Body: body})
	}

	h.logResult(c, mount, method, requestPath, fiber.StatusOK, false, started)
	var respBody []byte
	if method == fiber.MethodGet {
		respBody = body
	}
	return true, h.writeResponse(c, fiber.StatusOK, headers, respBody)
}

// ClearCache 使单个缓存键失效；key 为空时丢弃整个缓存。
// 与在途请求并发安全：后续读取只会发生 miss 并重新填充。
func (h *Handler) ClearCache(key string, opts Options) {
	if key == "" {
		h.store.Clear()
		return
	}
	h.store.Delete(CacheKey(opts.CachePrefix, key))
}

// buildHeaders 组装完整的响应头，约定所有键为小写。
func (h *Handler) buildHeaders(resolved *ResolvedFile, body []byte, cfg Config, opts Options) map[string]string {
	modTime := resolved.Stat.ModTime()

	headers := map[string]string{
		"content-type":   h.contentType(resolved.AbsolutePath, body),
		"content-length": strconv.Itoa(len(body)),
		"last-modified":  modTime.UTC().Format(http.TimeFormat),
		"etag":           fmt.Sprintf("\"%d-%d\"", resolved.Stat.Size(), modTime.UnixMilli()),
		"expires":        h.now().UTC().Format(http.TimeFormat),
	}

	if opts.NoCache {
		headers["cache-control"] = "no-cache, no-store, must-revalidate"
	} else {
		headers["cache-control"] = fmt.Sprintf("public, max-age=%d", cfg.MaxAgeMillis/1000)
	}

	// Executables are forced into a download instead of inline rendering.
	if strings.EqualFold(filepath.Ext(resolved.AbsolutePath), ".exe") {
		headers["content-disposition"] = fmt.Sprintf("attachment; filename=%q", filepath.Base(resolved.AbsolutePath))
	}

	return headers
}

// contentType 先按扩展名解析，落到二进制流兜底类型时再做签名探测。
func (h *Handler) contentType(path string, body []byte) string {
	mimeType := utils.GetMIME(filepath.Ext(path))
	if mimeType == "" {
		mimeType = fiber.MIMEOctetStream
	}
	if mimeType == fiber.MIMEOctetStream {
		if sniffed, ok := h.sniffer.Sniff(body); ok {
			return sniffed
		}
	}
	return mimeType
}

func (h *Handler) writeResponse(c fiber.Ctx, status int, headers map[string]string, body []byte) error {
	for name, value := range headers {
		c.Set(name, value)
	}
	c.Status(status)
	if status == fiber.StatusNotModified {
		// fasthttp 会为无 content-type 的响应补默认值，304 必须显式抑制。
		c.Response().Header.Del(fiber.HeaderContentType)
		c.Response().Header.SetNoDefaultContentType(true)
		return nil
	}
	if body == nil {
		return nil
	}
	return c.Send(body)
}

func (h *Handler) logResult(c fiber.Ctx, mount, method, path string, status int, cacheHit bool, started time.Time) {
	if h.logger == nil {
		return
	}
	fields := logging.RequestFields(mount, method, path, cacheHit)
	fields["action"] = "static"
	fields["status"] = status
	fields["elapsed_ms"] = time.Since(started).Milliseconds()
	if requestID := server.RequestID(c); requestID != "" {
		fields["request_id"] = requestID
	}
	h.logger.WithFields(fields).Info("static_complete")
}

// decodeRequestPath 返回百分号解码后的原始请求路径（不含 query）。
// 解码失败时按原样检查，宁可 403 也不放过可疑路径。
func decodeRequestPath(c fiber.Ctx) string {
	raw := string(c.Request().URI().PathOriginal())
	if raw == "" {
		raw = string(c.Request().URI().Path())
	}
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

// stripMountPrefix 去掉挂载前缀，保证交给核心流程的路径以 / 开头。
func stripMountPrefix(requestPath, prefix string) string {
	trimmed := strings.TrimSuffix(prefix, "/")
	if trimmed == "" {
		return requestPath
	}
	rel := strings.TrimPrefix(requestPath, trimmed)
	if rel == "" {
		return "/"
	}
	if !strings.HasPrefix(rel, "/") {
		return requestPath
	}
	return rel
}
