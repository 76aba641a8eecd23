package config

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultMaxAgeMillis 约等于一年，与浏览器长缓存的常见约定一致。
const DefaultMaxAgeMillis int64 = 31557600000

// CacheFlag 兼容布尔与数字两种配置写法：布尔值仅控制开关，
// 数字在开启缓存的同时作为 MaxAge（毫秒）候选值。
type CacheFlag struct {
	Enabled bool
	// MaxAgeMillis 仅在数字写法时大于 0，由 loader 决定是否回填 MaxAge。
	MaxAgeMillis int64
}

// UnmarshalText 让 Viper 识别 "true"/"false" 或纯数字毫秒值。
func (f *CacheFlag) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if raw == "" {
		*f = CacheFlag{}
		return nil
	}

	if parsed, err := strconv.ParseBool(raw); err == nil {
		*f = CacheFlag{Enabled: parsed}
		return nil
	}

	if millis, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*f = CacheFlag{Enabled: millis > 0, MaxAgeMillis: millis}
		return nil
	}

	return fmt.Errorf("invalid cache value: %s", raw)
}

// GlobalConfig 描述全局运行时行为，所有 Mount 共享同一份参数。
type GlobalConfig struct {
	ListenPort    int    `mapstructure:"ListenPort"`
	LogLevel      string `mapstructure:"LogLevel"`
	LogFilePath   string `mapstructure:"LogFilePath"`
	LogMaxSize    int    `mapstructure:"LogMaxSize"`
	LogMaxBackups int    `mapstructure:"LogMaxBackups"`
	LogCompress   bool   `mapstructure:"LogCompress"`
}

// MountConfig 决定单个静态挂载点如何对外提供文件。
type MountConfig struct {
	Name        string    `mapstructure:"Name"`
	Prefix      string    `mapstructure:"Prefix"`
	Root        string    `mapstructure:"Root"`
	Roots       []string  `mapstructure:"Roots"`
	MaxAge      int64     `mapstructure:"MaxAge"`
	Cache       CacheFlag `mapstructure:"Cache"`
	CachePrefix string    `mapstructure:"CachePrefix"`
	NoCache     bool      `mapstructure:"NoCache"`
	Transform   string    `mapstructure:"Transform"`
}

// Config 是 TOML 文件映射的整体结构。
type Config struct {
	Global GlobalConfig  `mapstructure:",squash"`
	Mounts []MountConfig `mapstructure:"Mount"`
}

// RootList 归并 Root/Roots 两种写法，保持配置中声明的顺序。
func (m MountConfig) RootList() []string {
	if len(m.Roots) > 0 {
		return append([]string(nil), m.Roots...)
	}
	if m.Root != "" {
		return []string{m.Root}
	}
	return nil
}

// CacheMode 输出 `cached` 或 `direct`，供日志字段使用。
func (m MountConfig) CacheMode() string {
	if m.Cache.Enabled {
		return "cached"
	}
	return "direct"
}

// CacheModes 返回所有 Mount 的缓存模式摘要，例如 assets:cached。
func CacheModes(mounts []MountConfig) []string {
	if len(mounts) == 0 {
		return nil
	}
	result := make([]string, len(mounts))
	for i, mount := range mounts {
		result[i] = fmt.Sprintf("%s:%s", mount.Name, mount.CacheMode())
	}
	return result
}
