package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kalambet/culturelens/internal/api"
	"github.com/kalambet/culturelens/internal/catalog"
	"github.com/kalambet/culturelens/internal/composer"
	"github.com/kalambet/culturelens/internal/config"
	"github.com/kalambet/culturelens/internal/countries"
	"github.com/kalambet/culturelens/internal/importer"
	"github.com/kalambet/culturelens/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the culturelens service in the foreground",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context())
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running culturelens service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return stopServer()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show culturelens service status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatus(cmd.Context())
	},
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the comparison tools over MCP (stdio)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMCP(cmd.Context())
	},
}

// pidFile records the PID of a running "serve" so that "stop" can signal it.
type pidFile string

func pidFileIn(dataDir string) pidFile {
	return pidFile(filepath.Join(dataDir, "culturelens.pid"))
}

func (p pidFile) write() error {
	if err := os.MkdirAll(filepath.Dir(string(p)), 0o755); err != nil {
		return err
	}
	return os.WriteFile(string(p), []byte(strconv.Itoa(os.Getpid())+"\n"), 0o644)
}

func (p pidFile) read() (int, error) {
	data, err := os.ReadFile(string(p))
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("malformed PID file %s: %w", p, err)
	}
	return pid, nil
}

func (p pidFile) remove() {
	if err := os.Remove(string(p)); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("removing PID file", "path", string(p), "error", err)
	}
}

// setupLogging installs a text handler on stderr. Unknown levels fall back to info.
func setupLogging(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

// core bundles what both the HTTP and the MCP surfaces need.
type core struct {
	store    *storage.Store
	catalog  *catalog.Manager
	composer *composer.Composer
}

func openCore(cfg config.Config) (*core, error) {
	builtin, err := countries.Builtin()
	if err != nil {
		return nil, fmt.Errorf("loading built-in countries: %w", err)
	}
	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}
	return &core{
		store:    store,
		catalog:  catalog.NewManager(store, builtin, cfg.Catalog.CacheTTL),
		composer: composer.New(),
	}, nil
}

func (c *core) close() {
	if err := c.store.Close(); err != nil {
		slog.Warn("closing storage", "error", err)
	}
}

// alreadyRunning reports a live service on the configured port.
func alreadyRunning(ctx context.Context, cfg config.Config, pid pidFile) error {
	if err := clientFor(cfg, 2*time.Second).get(ctx, "/health", nil); err != nil {
		return nil
	}
	if n, err := pid.read(); err == nil {
		return fmt.Errorf("culturelens is already running (PID %d)", n)
	}
	return fmt.Errorf("culturelens is already running on port %d", cfg.Server.Port)
}

// runServer serves HTTP and drains the import queue until ctx is cancelled
// or a signal arrives.
func runServer(parent context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogging(cfg.Log.Level)

	pid := pidFileIn(cfg.Storage.DataDir)
	if err := alreadyRunning(parent, cfg, pid); err != nil {
		return err
	}
	if err := pid.write(); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer pid.remove()

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := openCore(cfg)
	if err != nil {
		return err
	}
	defer c.close()

	g, ctx := errgroup.WithContext(ctx)
	srv := &http.Server{
		Addr: fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port),
		Handler: api.NewHandler(api.Deps{
			Store:    c.store,
			Catalog:  c.catalog,
			Composer: c.composer,
			Token:    cfg.API.Token,
		}),
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	g.Go(func() error {
		importer.NewWorker(c.store, c.catalog, cfg.Import.PollInterval).Run(ctx)
		return nil
	})
	g.Go(func() error {
		slog.Info("culturelens listening", "addr", srv.Addr, "version", version)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// runMCP serves MCP on stdin/stdout, so nothing else may write to stdout.
func runMCP(parent context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogging(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := openCore(cfg)
	if err != nil {
		return err
	}
	defer c.close()

	mcpSrv := api.NewMCPServer(api.MCPDeps{
		Catalog:  c.catalog,
		Composer: c.composer,
		Store:    c.store,
	}, version)

	slog.Info("MCP server started", "transport", "stdio", "version", version)
	err = server.NewStdioServer(mcpSrv).Listen(ctx, os.Stdin, os.Stdout)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("MCP stdio server: %w", err)
	}
	return nil
}

func stopServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pid := pidFileIn(cfg.Storage.DataDir)
	n, err := pid.read()
	if errors.Is(err, os.ErrNotExist) {
		return errors.New("culturelens is not running (no PID file)")
	}
	if err != nil {
		return err
	}

	// FindProcess never fails on Unix; Signal reports a dead PID.
	process, _ := os.FindProcess(n)
	if err := process.Signal(syscall.SIGTERM); err != nil {
		pid.remove()
		return fmt.Errorf("stopping culturelens (PID %d): %w", n, err)
	}
	printSuccess("Sent stop signal to culturelens (PID %d)", n)
	return nil
}

func showStatus(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		printError("config error: %v", err)
		return nil
	}
	client := clientFor(cfg, 2*time.Second)

	if err := client.get(ctx, "/health", nil); err != nil {
		var se *statusError
		if errors.As(err, &se) {
			printStatus("Server", "error (HTTP %d)", se.Code)
		} else {
			printStatus("Server", "stopped")
		}
		printStatus("Data dir", "%s", cfg.Storage.DataDir)
		return nil
	}
	printStatus("Server", "running on port %d", cfg.Server.Port)

	var countries []json.RawMessage
	if err := client.get(ctx, "/v1/countries", &countries); err == nil {
		printStatus("Countries", "%d", len(countries))
	}
	var history []json.RawMessage
	switch err := client.get(ctx, "/v1/comparisons?limit=100", &history); {
	case err == nil:
		printStatus("Comparisons", "%s", countLabel(len(history), 100))
	case isStatus(err, http.StatusUnauthorized):
		printWarning("API token rejected; the service was started with a different token")
	}

	printStatus("Data dir", "%s", cfg.Storage.DataDir)
	printStatus("Log level", "%s", cfg.Log.Level)
	return nil
}

func countLabel(count, limit int) string {
	if count >= limit {
		return fmt.Sprintf("%d+", count)
	}
	return fmt.Sprintf("%d", count)
}
