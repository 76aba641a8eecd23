package static

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// TransformFunc 在缓存与发送之前改写文件正文，例如在线压缩或占位符替换。
type TransformFunc func([]byte) ([]byte, error)

var transforms sync.Map

// ErrTransformExists indicates a transform has already been registered for the key.
var ErrTransformExists = errors.New("transform already registered")

// RegisterTransform 以小写键注册具名 Transform，供配置按名引用；重复键返回错误。
func RegisterTransform(key string, fn TransformFunc) error {
	normalized := normalizeTransformKey(key)
	if normalized == "" {
		return errors.New("transform key required")
	}
	if fn == nil {
		return errors.New("transform func required")
	}
	if _, loaded := transforms.LoadOrStore(normalized, fn); loaded {
		return fmt.Errorf("%w: %s", ErrTransformExists, normalized)
	}
	return nil
}

// MustRegisterTransform panics when registration fails; suitable for init().
func MustRegisterTransform(key string, fn TransformFunc) {
	if err := RegisterTransform(key, fn); err != nil {
		panic(err)
	}
}

// LookupTransform 查找具名 Transform，未注册时返回 false。
func LookupTransform(key string) (TransformFunc, bool) {
	normalized := normalizeTransformKey(key)
	if normalized == "" {
		return nil, false
	}
	if value, ok := transforms.Load(normalized); ok {
		if fn, ok := value.(TransformFunc); ok {
			return fn, true
		}
	}
	return nil, false
}

func normalizeTransformKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
