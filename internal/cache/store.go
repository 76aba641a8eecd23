package cache

// Entry 表示一次完整的 200 响应快照：对外发送的头部与正文。
// 写入 Store 之后视为不可变，读取方不得修改返回的 Body。
type Entry struct {
	Headers map[string]string
	Body    []byte
}

// Store 是静态请求共享的进程级缓存。实现必须支持并发读写，
// 同一 key 的写入为幂等覆盖，不存在部分可见的中间状态。
type Store interface {
	// Get 返回 key 对应的条目副本；不存在时 ok 为 false。
	Get(key string) (Entry, bool)

	// Set 覆盖写入条目。实现需拷贝 Headers/Body，避免调用方后续修改污染缓存。
	Set(key string, entry Entry)

	// Delete 删除单个条目，key 不存在时为空操作。
	Delete(key string)

	// Clear 丢弃全部条目。
	Clear()

	// Len 返回当前条目数量，供诊断接口使用。
	Len() int

	// Keys 返回当前全部缓存键，仅用于诊断输出，顺序不做保证。
	Keys() []string
}
