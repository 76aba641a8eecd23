package cache

import "sync"

// NewMemoryStore 构建空的内存缓存，整个进程复用一份实例。
func NewMemoryStore() Store {
	return &memoryStore{
		entries: make(map[string]Entry),
	}
}

// memoryStore 用读写锁保护条目表；条目在写入时整体拷贝，
// 因此读取方拿到的 Entry 永远是某次完整写入的结果。
type memoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func (s *memoryStore) Get(key string) (Entry, bool) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return Entry{}, false
	}

	headers := make(map[string]string, len(entry.Headers))
	for name, value := range entry.Headers {
		headers[name] = value
	}
	return Entry{Headers: headers, Body: entry.Body}, true
}

func (s *memoryStore) Set(key string, entry Entry) {
	headers := make(map[string]string, len(entry.Headers))
	for name, value := range entry.Headers {
		headers[name] = value
	}
	body := append([]byte(nil), entry.Body...)

	s.mu.Lock()
	s.entries[key] = Entry{Headers: headers, Body: body}
	s.mu.Unlock()
}

func (s *memoryStore) Delete(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

func (s *memoryStore) Clear() {
	s.mu.Lock()
	s.entries = make(map[string]Entry)
	s.mu.Unlock()
}

func (s *memoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *memoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	return keys
}
