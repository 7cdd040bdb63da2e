package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zhouzirui/wellness/backend/internal/config"
)

var (
	// ErrNotInstalled is returned when no runtime executable answers --version.
	ErrNotInstalled = errors.New("model runtime is not installed")
	// ErrStartTimeout is returned when the daemon does not accept connections in time.
	ErrStartTimeout = errors.New("model runtime did not become reachable in time")
)

const defaultExecutable = "ollama"

// Launcher 负责检测、启动本地模型运行时以及拉取模型。
type Launcher struct {
	executable   string
	addr         string
	commander    Commander
	logger       *zap.Logger
	dialTimeout  time.Duration
	startTimeout time.Duration
	pollInterval time.Duration
}

// Option customises a Launcher.
type Option func(*Launcher)

// WithCommander replaces the process runner.
func WithCommander(c Commander) Option {
	return func(l *Launcher) { l.commander = c }
}

// WithStartTimeout bounds how long Start waits for the daemon.
func WithStartTimeout(d time.Duration) Option {
	return func(l *Launcher) { l.startTimeout = d }
}

// WithPollInterval sets how often Start re-checks reachability.
func WithPollInterval(d time.Duration) Option {
	return func(l *Launcher) { l.pollInterval = d }
}

// New creates a launcher for the runtime described by cfg.
func New(cfg config.RuntimeConfig, logger *zap.Logger, opts ...Option) *Launcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	executable := strings.TrimSpace(cfg.OllamaPath)
	if executable == "" {
		executable = defaultExecutable
	}

	l := &Launcher{
		executable:   executable,
		addr:         cfg.DaemonAddr(),
		commander:    ExecCommander{},
		logger:       logger,
		dialTimeout:  time.Second,
		startTimeout: 30 * time.Second,
		pollInterval: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Installed reports the runtime version. The configured executable is tried
// first, then the one on PATH.
func (l *Launcher) Installed(ctx context.Context) (string, bool) {
	candidates := []string{l.executable}
	if l.executable != defaultExecutable {
		candidates = append(candidates, defaultExecutable)
	}

	for _, name := range candidates {
		out, err := l.commander.Output(ctx, name, "--version")
		if err != nil {
			l.logger.Debug("runtime version check failed", zap.String("executable", name), zap.Error(err))
			continue
		}
		l.executable = name
		return strings.TrimSpace(string(out)), true
	}
	return "", false
}

// Require is Installed with ErrNotInstalled for the negative case.
func (l *Launcher) Require(ctx context.Context) (string, error) {
	version, ok := l.Installed(ctx)
	if !ok {
		return "", ErrNotInstalled
	}
	return version, nil
}

// Running reports whether the daemon accepts TCP connections.
func (l *Launcher) Running(ctx context.Context) bool {
	dialer := net.Dialer{Timeout: l.dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", l.addr)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// Start 在守护进程未运行时以后台方式执行 "<runtime> serve"，并轮询直到可连接或超时。
func (l *Launcher) Start(ctx context.Context) error {
	if l.Running(ctx) {
		return nil
	}

	l.logger.Info("starting model runtime", zap.String("executable", l.executable), zap.String("addr", l.addr))
	if err := l.commander.Start(l.executable, "serve"); err != nil {
		return fmt.Errorf("start %s serve: %w", l.executable, err)
	}

	ctx, cancel := context.WithTimeout(ctx, l.startTimeout)
	defer cancel()

	ticker := time.NewTicker(l.pollInterval)
	defer ticker.Stop()

	for {
		if l.Running(ctx) {
			l.logger.Info("model runtime is reachable", zap.String("addr", l.addr))
			return nil
		}
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return ErrStartTimeout
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// HasModel reports whether "<runtime> list" mentions marker, ignoring case.
func (l *Launcher) HasModel(ctx context.Context, marker string) (bool, error) {
	out, err := l.commander.Output(ctx, l.executable, "list")
	if err != nil {
		return false, fmt.Errorf("list models: %w", err)
	}
	return strings.Contains(strings.ToLower(string(out)), strings.ToLower(marker)), nil
}

// Pull downloads model, streaming the runtime's progress output to w.
func (l *Launcher) Pull(ctx context.Context, model string, w io.Writer) error {
	l.logger.Info("pulling model", zap.String("model", model))
	if err := l.commander.Run(ctx, w, l.executable, "pull", model); err != nil {
		return fmt.Errorf("pull %s: %w", model, err)
	}
	return nil
}

// InstallHint 返回指定平台的安装说明。
func InstallHint(goos string) string {
	switch goos {
	case "linux", "darwin":
		return "Run the following command in your terminal:\n  curl -fsSL https://ollama.ai/install.sh | sh"
	case "windows":
		return "Download the Windows installer from: https://ollama.ai/download"
	default:
		return "Visit https://ollama.ai for installation instructions for your platform"
	}
}
