package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// StaticHandler describes the component responsible for serving a mount. It
// allows injecting fake handlers during tests. A (false, nil) return means the
// handler declined and the chain should continue.
type StaticHandler interface {
	Handle(fiber.Ctx, *MountRoute) (bool, error)
}

// StaticHandlerFunc adapts a function to the StaticHandler interface.
type StaticHandlerFunc func(fiber.Ctx, *MountRoute) (bool, error)

// Handle makes StaticHandlerFunc satisfy StaticHandler.
func (f StaticHandlerFunc) Handle(c fiber.Ctx, route *MountRoute) (bool, error) {
	return f(c, route)
}

// AppOptions controls how the Fiber application should behave on a specific port.
type AppOptions struct {
	Logger     *logrus.Logger
	Registry   *MountRegistry
	Static     StaticHandler
	ListenPort int
}

const contextKeyRequestID = "_statichub_request_id"

// NewApp builds a Fiber application with the mount fallthrough chain and
// structured error handling.
func NewApp(opts AppOptions) (*fiber.App, error) {
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if opts.Registry == nil {
		return nil, errors.New("mount registry is required")
	}
	if opts.Static == nil {
		return nil, errors.New("static handler is required")
	}
	if opts.ListenPort <= 0 {
		return nil, fmt.Errorf("invalid listen port: %d", opts.ListenPort)
	}

	app := fiber.New(fiber.Config{
		CaseSensitive: true,
	})

	app.Use(recover.New())
	app.Use(requestIDMiddleware())

	app.All("/*", func(c fiber.Ctx) error {
		path := string(c.Request().URI().Path())
		if isDiagnosticsPath(path) {
			return c.Next()
		}
		return serveChain(c, opts, path)
	})

	return app, nil
}

// serveChain 按配置顺序尝试每个覆盖当前路径的挂载；
// 第一个声明处理的挂载胜出，全部拒绝则产出最终 404。
func serveChain(c fiber.Ctx, opts AppOptions, path string) error {
	for _, route := range opts.Registry.Match(path) {
		handled, err := opts.Static.Handle(c, route)
		if err != nil {
			return renderHandlerError(c, opts.Logger, route, path, err)
		}
		if handled {
			return nil
		}
	}
	return renderNotFound(c, opts.Logger, path)
}

// requestIDMiddleware 负责生成请求 ID 并写入响应头，供日志关联单次请求。
func requestIDMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		reqID := uuid.NewString()
		c.Locals(contextKeyRequestID, reqID)
		c.Set("X-Request-ID", reqID)
		return c.Next()
	}
}

func renderHandlerError(c fiber.Ctx, logger *logrus.Logger, route *MountRoute, path string, err error) error {
	logger.WithFields(logrus.Fields{
		"action": "static",
		"mount":  route.Config.Name,
		"path":   path,
		"error":  err.Error(),
	}).Error("static_failed")

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "filesystem_error",
	})
}

func renderNotFound(c fiber.Ctx, logger *logrus.Logger, path string) error {
	logger.WithFields(logrus.Fields{
		"action": "static",
		"path":   path,
	}).Warn("path unhandled")

	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "not_found",
	})
}

// RequestID returns the request identifier stored by the router middleware.
func RequestID(c fiber.Ctx) string {
	if value := c.Locals(contextKeyRequestID); value != nil {
		if reqID, ok := value.(string); ok {
			return reqID
		}
	}
	return ""
}

func isDiagnosticsPath(path string) bool {
	return strings.HasPrefix(path, "/-/")
}
