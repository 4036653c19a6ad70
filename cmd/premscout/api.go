package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/WTMsoft/PremScout/internal/catalog"
	"github.com/WTMsoft/PremScout/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ErrorResponse is the JSON body of every failed API request.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	if s.promHTTP != nil {
		r.Method(http.MethodGet, "/metrics", s.promHTTP)
	}

	r.Group(func(r chi.Router) {
		r.Use(s.withAuth)

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			status := s.holder.Status()
			code := http.StatusOK
			if status == catalog.StatusFailed {
				code = http.StatusServiceUnavailable
			}
			render.Status(r, code)
			render.JSON(w, r, map[string]string{"status": string(status)})
		})
		r.Get("/tools", func(w http.ResponseWriter, r *http.Request) {
			render.JSON(w, r, s.registry)
		})

		mcpHandler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
			return s.mcp
		}, &mcp.StreamableHTTPOptions{JSONResponse: true})
		r.Handle(s.cfg.MCPPath, mcpHandler)

		r.Route("/api", func(r chi.Router) {
			r.Use(render.SetContentType(render.ContentTypeJSON))
			r.Get("/status", s.handleStatus)
			r.Get("/players", s.handlePlayers)
			r.Get("/players/{name}", s.handlePlayer)
			r.Get("/lineup", s.handleLineup)
			r.Get("/teams", s.handleTeams)
		})
	})
	return r
}

// observe logs and records every request once the handler returns.
func (s *server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		elapsed := time.Since(start)

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.RecordHTTPRequest(r.Method, path, status, elapsed)
		s.logger.Debug("HTTP request",
			slog.String(logging.FieldMethod, r.Method),
			slog.String(logging.FieldPath, path),
			slog.Int(logging.FieldStatusCode, status),
			slog.Int64(logging.FieldDurationMS, elapsed.Milliseconds()),
		)
	})
}

func (s *server) handleStatus(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, buildStatus(s.holder))
}

func (s *server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	cat, ok := s.catalog(w, r)
	if !ok {
		return
	}
	args, err := parseListPlayersArgs(r.URL.Query())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := buildListPlayers(cat, args, s.cfg.PageSize)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, out)
}

func (s *server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	cat, ok := s.catalog(w, r)
	if !ok {
		return
	}
	card, err := buildPlayerCard(cat, PlayerCardArgs{Name: chi.URLParam(r, "name")})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, card)
}

func (s *server) handleLineup(w http.ResponseWriter, r *http.Request) {
	cat, ok := s.catalog(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, buildTeamOfTheWeek(cat))
}

func (s *server) handleTeams(w http.ResponseWriter, r *http.Request) {
	cat, ok := s.catalog(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, buildTeams(cat))
}

func (s *server) catalog(w http.ResponseWriter, r *http.Request) (*catalog.Catalog, bool) {
	cat, err := s.holder.Catalog()
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	return cat, true
}

func (s *server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.logger.Warn("API request failed", slog.String(logging.FieldPath, r.URL.Path), logging.Err(err))
	}
	render.Status(r, code)
	render.JSON(w, r, ErrorResponse{
		Error:     err.Error(),
		RequestID: middleware.GetReqID(r.Context()),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errInvalidArgs):
		return http.StatusBadRequest
	case errors.Is(err, errPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, catalog.ErrLoading), errors.Is(err, catalog.ErrNoData):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// parseListPlayersArgs maps query parameters onto the list_players arguments.
func parseListPlayersArgs(q url.Values) (ListPlayersArgs, error) {
	args := ListPlayersArgs{
		Name:     q.Get("name"),
		Position: q.Get("position"),
		Team:     q.Get("team"),
		Sort:     q.Get("sort"),
	}

	var err error
	if args.MinPrice, err = floatParam(q, "min_price"); err != nil {
		return args, err
	}
	if args.MaxPrice, err = floatParam(q, "max_price"); err != nil {
		return args, err
	}
	if v := q.Get("desc"); v != "" {
		desc, perr := strconv.ParseBool(v)
		if perr != nil {
			return args, fmt.Errorf("%w: desc: %q", errInvalidArgs, v)
		}
		args.Desc = &desc
	}
	if args.Page, err = intParam(q, "page"); err != nil {
		return args, err
	}
	if args.PageSize, err = intParam(q, "page_size"); err != nil {
		return args, err
	}
	return args, nil
}

func floatParam(q url.Values, key string) (*float64, error) {
	v := q.Get(key)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %q", errInvalidArgs, key, v)
	}
	return &f, nil
}

func intParam(q url.Values, key string) (int, error) {
	v := q.Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %q", errInvalidArgs, key, v)
	}
	return n, nil
}
