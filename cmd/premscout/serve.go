package main

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/WTMsoft/PremScout/internal/catalog"
	"github.com/WTMsoft/PremScout/internal/config"
	"github.com/WTMsoft/PremScout/internal/logging"
	"github.com/WTMsoft/PremScout/internal/metrics"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

type toolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// server exposes one catalog holder over MCP and the JSON API.
type server struct {
	cfg      config.Config
	holder   *catalog.Holder
	logger   *slog.Logger
	metrics  *metrics.Recorder
	registry []toolInfo
	mcp      *mcp.Server
	promHTTP http.Handler
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve players over MCP and HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	flags := cmd.Flags()
	flags.String("addr", ":8080", "HTTP listen address")
	flags.String("mcp-path", "/mcp", "HTTP path for MCP endpoint")
	flags.Bool("require-auth", false, "require API key auth via PREMSCOUT_API_KEY")
	flags.String("auth-header", "X-API-Key", "HTTP header to read API key from")
	flags.Bool("metrics-enabled", true, "expose Prometheus metrics on /metrics")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rec, promHandler, shutdownMetrics, err := metrics.Setup(ctx, metrics.TelemetryConfig{
		Enabled:     a.cfg.MetricsEnabled,
		ServiceName: a.cfg.MetricsService,
	})
	if err != nil {
		return errors.Join(err, errApp)
	}
	defer func() {
		if err := shutdownMetrics(context.Background()); err != nil {
			a.logger.Error("Failed to shut down metrics", logging.Err(err))
		}
	}()
	a.metrics = rec

	if strings.TrimSpace(a.cfg.APIKey) == "" && a.cfg.RequireAuth {
		return fmt.Errorf("%w: PREMSCOUT_API_KEY is required (set env var or run with --require-auth=false)", errApp)
	}

	holder := catalog.NewHolder()
	loaded := holder.Start(ctx, a.catalogLoader(false).Load)
	go func() {
		<-loaded
		if _, err := holder.Catalog(); err != nil {
			a.logger.Error("Player data unavailable", logging.Err(err))
		}
	}()

	srv := newServer(a.cfg, holder, a.logger, rec)
	srv.promHTTP = promHandler

	httpServer := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server listening",
			slog.String("addr", a.cfg.Addr), slog.String("mcp_path", a.cfg.MCPPath))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return errors.Join(err, errApp)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func newServer(cfg config.Config, holder *catalog.Holder, logger *slog.Logger, rec *metrics.Recorder) *server {
	s := &server{
		cfg:      cfg,
		holder:   holder,
		logger:   logging.OrDiscard(logger),
		metrics:  rec,
		registry: make([]toolInfo, 0, 8),
	}
	s.mcp = mcp.NewServer(
		&mcp.Implementation{
			Name:    "premscout",
			Version: BuildVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

func (s *server) registerTools() {
	addTool(s.mcp, &s.registry, &mcp.Tool{
		Name:        "list_players",
		Description: "Filter, sort and page the player list",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ListPlayersArgs) (*mcp.CallToolResult, any, error) {
		return s.callTool("list_players", func(cat *catalog.Catalog) (any, error) {
			return buildListPlayers(cat, args, s.cfg.PageSize)
		})
	})

	addTool(s.mcp, &s.registry, &mcp.Tool{
		Name:        "team_of_the_week",
		Description: "Best predicted 1-4-3-3 lineup",
	}, func(ctx context.Context, req *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
		return s.callTool("team_of_the_week", func(cat *catalog.Catalog) (any, error) {
			return buildTeamOfTheWeek(cat), nil
		})
	})

	addTool(s.mcp, &s.registry, &mcp.Tool{
		Name:        "player_card",
		Description: "Card for one player by name: price, stats, value stars and headshot",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args PlayerCardArgs) (*mcp.CallToolResult, any, error) {
		return s.callTool("player_card", func(cat *catalog.Catalog) (any, error) {
			return buildPlayerCard(cat, args)
		})
	})

	addTool(s.mcp, &s.registry, &mcp.Tool{
		Name:        "list_teams",
		Description: "Sorted list of teams in the dataset",
	}, func(ctx context.Context, req *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
		return s.callTool("list_teams", func(cat *catalog.Catalog) (any, error) {
			return buildTeams(cat), nil
		})
	})

	addTool(s.mcp, &s.registry, &mcp.Tool{
		Name:        "dataset_status",
		Description: "Load state and summary of the player dataset",
	}, func(ctx context.Context, req *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
		out := buildStatus(s.holder)
		s.metrics.RecordToolCall("dataset_status", nil)
		b, _ := json.MarshalIndent(out, "", "  ")
		return toolJSONBytes(b), nil, nil
	})
}

// callTool resolves the catalog and turns build into a tool result.
func (s *server) callTool(name string, build func(*catalog.Catalog) (any, error)) (*mcp.CallToolResult, any, error) {
	cat, err := s.holder.Catalog()
	if err == nil {
		var out any
		out, err = build(cat)
		if err == nil {
			s.metrics.RecordToolCall(name, nil)
			b, _ := json.MarshalIndent(out, "", "  ")
			return toolJSONBytes(b), nil, nil
		}
	}
	s.metrics.RecordToolCall(name, err)
	s.logger.Debug("Tool call failed", slog.String(logging.FieldTool, name), logging.Err(err))
	return toolError(err), nil, nil
}

func addTool[T any](server *mcp.Server, registry *[]toolInfo, tool *mcp.Tool, handler func(context.Context, *mcp.CallToolRequest, T) (*mcp.CallToolResult, any, error)) {
	*registry = append(*registry, toolInfo{Name: tool.Name, Description: tool.Description})
	mcp.AddTool(server, tool, handler)
}

func toolJSONBytes(res []byte) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(res)},
		},
	}
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}

// withAuth checks the shared API key from the configured header or a Bearer token.
func (s *server) withAuth(next http.Handler) http.Handler {
	apiKey := strings.TrimSpace(s.cfg.APIKey)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if apiKey == "" {
			next.ServeHTTP(w, r)
			return
		}
		key := strings.TrimSpace(r.Header.Get(s.cfg.AuthHeader))
		if key == "" {
			if authz := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
				key = strings.TrimSpace(authz[7:])
			}
		}
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"unauthorized"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
