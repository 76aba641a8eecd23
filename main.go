package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/static-hub/static-hub/internal/cache"
	"github.com/static-hub/static-hub/internal/config"
	"github.com/static-hub/static-hub/internal/logging"
	"github.com/static-hub/static-hub/internal/server"
	"github.com/static-hub/static-hub/internal/server/routes"
	"github.com/static-hub/static-hub/internal/static"
	"github.com/static-hub/static-hub/internal/version"
)

// cliOptions 汇总 CLI 标志解析后的结果，便于在测试中注入。
type cliOptions struct {
	configPath  string
	checkOnly   bool
	showVersion bool
}

var (
	stdOut io.Writer = os.Stdout
	stdErr io.Writer = os.Stderr
)

func main() {
	opts, err := parseCLIFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(stdErr, err.Error())
		os.Exit(2)
	}
	os.Exit(run(opts))
}

// run 根据解析到的 CLI 选项执行业务流程，并返回退出码，方便测试。
func run(opts cliOptions) int {
	if opts.showVersion {
		printVersion()
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stdErr, "load config failed: %v\n", err)
		return 1
	}

	logger, err := logging.InitLogger(cfg.Global)
	if err != nil {
		fmt.Fprintf(stdErr, "init logger failed: %v\n", err)
		return 1
	}

	if opts.checkOnly {
		fields := logging.BaseFields("check_config", opts.configPath)
		fields["mounts"] = len(cfg.Mounts)
		fields["cache"] = config.CacheModes(cfg.Mounts)
		fields["result"] = "ok"
		logger.WithFields(fields).Info("config check passed")
		return 0
	}

	registry, err := server.NewMountRegistry(cfg)
	if err != nil {
		fmt.Fprintf(stdErr, "build mount registry failed: %v\n", err)
		return 1
	}

	if err := checkTransforms(cfg); err != nil {
		fmt.Fprintf(stdErr, "resolve transforms failed: %v\n", err)
		return 1
	}

	// 启动遵循“配置 → MountRegistry → 内存缓存 → Fiber server”顺序，
	// 保证所有请求共享统一的路由与缓存实例。
	store := cache.NewMemoryStore()
	staticHandler := static.NewHandler(store, logger)

	fields := logging.BaseFields("startup", opts.configPath)
	fields["mounts"] = len(cfg.Mounts)
	fields["listen_port"] = cfg.Global.ListenPort
	fields["cache"] = config.CacheModes(cfg.Mounts)
	fields["version"] = version.Full()
	logger.WithFields(fields).Info("config loaded")

	if err := startHTTPServer(cfg, registry, staticHandler, store, logger); err != nil {
		fmt.Fprintf(stdErr, "HTTP server failed: %v\n", err)
		return 1
	}
	return 0
}

// parseCLIFlags 解析 CLI 参数，并结合环境变量计算最终的配置路径。
func parseCLIFlags(args []string) (cliOptions, error) {
	fs := flag.NewFlagSet("static-hub", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		configFlag string
		checkOnly  bool
		showVer    bool
	)

	fs.StringVar(&configFlag, "config", "", "配置文件路径（默认 ./config.toml，可被 STATIC_HUB_CONFIG 覆盖）")
	fs.BoolVar(&checkOnly, "check-config", false, "仅校验配置后退出")
	fs.BoolVar(&showVer, "version", false, "显示版本信息")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, fmt.Errorf("parse flags: %w", err)
	}

	path := os.Getenv("STATIC_HUB_CONFIG")
	if configFlag != "" {
		path = configFlag
	}
	if path == "" {
		path = "config.toml"
	}

	return cliOptions{
		configPath:  path,
		checkOnly:   checkOnly,
		showVersion: showVer,
	}, nil
}

// checkTransforms 在启动阶段确认所有具名 Transform 均已注册，尽早暴露配置问题。
func checkTransforms(cfg *config.Config) error {
	for _, mount := range cfg.Mounts {
		if mount.Transform == "" {
			continue
		}
		if _, ok := static.LookupTransform(mount.Transform); !ok {
			return fmt.Errorf("mount %s: transform %s is not registered", mount.Name, mount.Transform)
		}
	}
	return nil
}

func startHTTPServer(cfg *config.Config, registry *server.MountRegistry, staticHandler *static.Handler, store cache.Store, logger *logrus.Logger) error {
	port := cfg.Global.ListenPort
	app, err := server.NewApp(server.AppOptions{
		Logger:     logger,
		Registry:   registry,
		Static:     staticHandler,
		ListenPort: port,
	})
	if err != nil {
		return err
	}
	routes.RegisterDiagnostics(app, registry, staticHandler, store)

	logger.WithFields(logrus.Fields{
		"action": "listen",
		"port":   port,
	}).Info("Fiber server listening")

	return app.Listen(fmt.Sprintf(":%d", port))
}
