package server

import (
	"errors"
	"strings"

	"github.com/static-hub/static-hub/internal/config"
)

// MountRoute 将 Mount 配置与派生属性聚合在一起，供路由/静态层直接复用，
// 避免每次请求重复解析配置。
type MountRoute struct {
	// Config 是用户在 config.toml 中声明的 Mount 字段副本，避免外部修改。
	Config config.MountConfig
	// Prefix 是规范化后的挂载前缀：除根挂载外一律不带尾部斜杠。
	Prefix string
}

// MountRegistry 提供按请求路径查询 MountRoute 的能力，
// 匹配顺序严格遵循配置文件中的声明顺序。
type MountRegistry struct {
	ordered []*MountRoute
}

// NewMountRegistry 根据配置构建挂载注册表。调用方应在启动阶段创建一次并复用。
func NewMountRegistry(cfg *config.Config) (*MountRegistry, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	registry := &MountRegistry{}
	for _, mount := range cfg.Mounts {
		route := &MountRoute{
			Config: mount,
			Prefix: normalizePrefix(mount.Prefix),
		}
		registry.ordered = append(registry.ordered, route)
	}

	return registry, nil
}

// Match 返回前缀覆盖该请求路径的全部挂载，保持配置顺序。
// 调用方按序尝试，第一个声明处理成功的挂载胜出。
func (r *MountRegistry) Match(path string) []*MountRoute {
	if r == nil {
		return nil
	}
	var matched []*MountRoute
	for _, route := range r.ordered {
		if prefixCovers(route.Prefix, path) {
			matched = append(matched, route)
		}
	}
	return matched
}

// List 返回当前注册的 MountRoute 列表（按配置定义的顺序），用于诊断输出。
func (r *MountRegistry) List() []MountRoute {
	if r == nil || len(r.ordered) == 0 {
		return nil
	}
	result := make([]MountRoute, len(r.ordered))
	for i, route := range r.ordered {
		result[i] = *route
	}
	return result
}

func normalizePrefix(prefix string) string {
	trimmed := strings.TrimSuffix(prefix, "/")
	if trimmed == "" {
		return "/"
	}
	return trimmed
}

// prefixCovers 做路径段边界上的前缀匹配，避免 /assets 误吞 /assets-v2。
func prefixCovers(prefix, path string) bool {
	if prefix == "/" {
		return true
	}
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+"/")
}
