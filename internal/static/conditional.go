package static

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// requestHeader 读取单个请求头，fasthttp 的 Peek 返回值不可长期持有，立即转 string。
func requestHeader(c fiber.Ctx, name string) string {
	return string(c.Request().Header.Peek(name))
}

// isConditional 判断请求是否携带条件头。带条件头的请求必须绕过缓存命中，
// 基于实时文件元信息重新计算校验值。
func isConditional(c fiber.Ctx) bool {
	return requestHeader(c, fiber.HeaderIfNoneMatch) != "" ||
		requestHeader(c, fiber.HeaderIfModifiedSince) != ""
}

// isNotModified 依据已计算好的响应头评估条件请求：
// if-none-match 与 etag 完全相等视为未修改；否则回退到 if-modified-since
// 与 last-modified 的时间比较，无法解析的日期按缺失处理。
func isNotModified(c fiber.Ctx, headers map[string]string) bool {
	if inm := requestHeader(c, fiber.HeaderIfNoneMatch); inm != "" && inm == headers["etag"] {
		return true
	}

	ims := requestHeader(c, fiber.HeaderIfModifiedSince)
	if ims == "" {
		return false
	}
	since, err := http.ParseTime(ims)
	if err != nil {
		return false
	}
	lastModified, err := http.ParseTime(headers["last-modified"])
	if err != nil {
		return false
	}
	return !lastModified.After(since)
}

// stripContentHeaders 为 304 响应剔除所有 content- 开头的头部。
// 头部名在组装阶段统一为小写，这里按小写前缀匹配即可。
func stripContentHeaders(headers map[string]string) map[string]string {
	filtered := make(map[string]string, len(headers))
	for name, value := range headers {
		if strings.HasPrefix(name, "content") {
			continue
		}
		filtered[name] = value
	}
	return filtered
}
