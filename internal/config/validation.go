package config

import (
	"errors"
	"strings"
)

// Validate 针对语义级别做进一步校验，防止非法配置启动服务。
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	g := c.Global
	if g.ListenPort <= 0 || g.ListenPort > 65535 {
		return newFieldError("Global.ListenPort", "must be within 1-65535")
	}
	if g.LogMaxSize < 0 {
		return newFieldError("Global.LogMaxSize", "must not be negative")
	}
	if g.LogMaxBackups < 0 {
		return newFieldError("Global.LogMaxBackups", "must not be negative")
	}

	if len(c.Mounts) == 0 {
		return errors.New("at least one Mount is required")
	}

	seenNames := map[string]struct{}{}
	for i := range c.Mounts {
		mount := &c.Mounts[i]
		if mount.Name == "" {
			return newFieldError("Mount[].Name", "must not be empty")
		}
		if _, exists := seenNames[mount.Name]; exists {
			return newFieldError(mountField(mount.Name, "Name"), "duplicate")
		}
		seenNames[mount.Name] = struct{}{}

		if !strings.HasPrefix(mount.Prefix, "/") {
			return newFieldError(mountField(mount.Name, "Prefix"), "must start with /")
		}

		if len(mount.Roots) == 0 {
			return newFieldError(mountField(mount.Name, "Roots"), "must not be empty")
		}
		for _, root := range mount.Roots {
			if strings.TrimSpace(root) == "" {
				return newFieldError(mountField(mount.Name, "Roots"), "contains an empty entry")
			}
		}

		if mount.MaxAge < 0 {
			return newFieldError(mountField(mount.Name, "MaxAge"), "must not be negative")
		}
	}

	return nil
}
