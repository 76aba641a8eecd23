package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Load 读取并解析 TOML 配置文件，同时注入默认值与校验逻辑。
func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.toml"
	}

	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(cacheFlagDecodeHook())); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyGlobalDefaults(&cfg.Global)
	for i := range cfg.Mounts {
		if err := applyMountDefaults(&cfg.Mounts[i]); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ListenPort", 8080)
	v.SetDefault("LogLevel", "info")
	v.SetDefault("LogFilePath", "")
	v.SetDefault("LogMaxSize", 100)
	v.SetDefault("LogMaxBackups", 10)
	v.SetDefault("LogCompress", true)
}

func applyGlobalDefaults(g *GlobalConfig) {
	if g.ListenPort == 0 {
		g.ListenPort = 8080
	}
	if g.LogLevel == "" {
		g.LogLevel = "info"
	}
}

// applyMountDefaults 补齐 Mount 缺省值：根目录回退到进程工作目录，
// MaxAge 先采纳数字形式的 Cache 值，最后落到一年期默认值，并把所有
// 根目录规范化为绝对路径。
func applyMountDefaults(m *MountConfig) error {
	if m.Prefix == "" {
		m.Prefix = "/"
	}

	roots := m.RootList()
	if len(roots) == 0 {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolve working directory: %w", err)
		}
		roots = []string{cwd}
	}
	for i, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return fmt.Errorf("resolve root %s: %w", root, err)
		}
		roots[i] = abs
	}
	m.Roots = roots
	m.Root = ""

	if m.MaxAge == 0 && m.Cache.MaxAgeMillis > 0 {
		m.MaxAge = m.Cache.MaxAgeMillis
	}
	if m.MaxAge == 0 {
		m.MaxAge = DefaultMaxAgeMillis
	}

	if trimmed := strings.TrimSpace(m.Transform); trimmed != "" {
		m.Transform = strings.ToLower(trimmed)
	}

	return nil
}

// cacheFlagDecodeHook 使 Cache 字段同时接受 bool、整数与浮点写法。
func cacheFlagDecodeHook() mapstructure.DecodeHookFunc {
	targetType := reflect.TypeOf(CacheFlag{})

	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != targetType {
			return data, nil
		}

		switch v := data.(type) {
		case bool:
			return CacheFlag{Enabled: v}, nil
		case int:
			return CacheFlag{Enabled: v > 0, MaxAgeMillis: int64(v)}, nil
		case int64:
			return CacheFlag{Enabled: v > 0, MaxAgeMillis: v}, nil
		case float64:
			return CacheFlag{Enabled: v > 0, MaxAgeMillis: int64(v)}, nil
		case string:
			var flag CacheFlag
			if err := flag.UnmarshalText([]byte(v)); err != nil {
				return nil, err
			}
			return flag, nil
		case CacheFlag:
			return v, nil
		default:
			return nil, fmt.Errorf("unsupported cache value type: %T", v)
		}
	}
}
