package static

// Config 描述一次静态请求处理所需的全部挂载参数，构建后不再修改。
type Config struct {
	// Roots 按声明顺序尝试的绝对根目录，命中第一个存在的文件即停止。
	Roots []string
	// MaxAgeMillis 通过 cache-control 广播给浏览器的缓存寿命（毫秒）。
	MaxAgeMillis int64
	// CacheEnabled 为 true 时，成功的非条件响应会进入进程级缓存，
	// 直到被显式失效，永不按 TTL 过期。
	CacheEnabled bool
}

// Options 是调用时传入的每请求选项，与 Config 的构建期参数相对。
type Options struct {
	// CachePrefix 拼接在缓存键之前，让多个逻辑挂载点共享一个缓存而互不冲突。
	CachePrefix string
	// Transform 在读取文件后、写缓存与发送之前改写正文，结果整体替换原始字节。
	Transform TransformFunc
	// NoCache 强制本次响应使用 no-store 的 cache-control 头。
	NoCache bool
}

// CacheKey 根据可选前缀与请求路径组装缓存键。
func CacheKey(prefix, requestPath string) string {
	return prefix + requestPath
}
