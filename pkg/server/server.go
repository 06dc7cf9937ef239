package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bastiangx/typesearch/internal/logger"
	"github.com/bastiangx/typesearch/internal/utils"
	"github.com/bastiangx/typesearch/pkg/config"
	"github.com/bastiangx/typesearch/pkg/index"
	"github.com/bastiangx/typesearch/pkg/search"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// ReloadFunc builds a fresh store, typically by refetching the feed.
type ReloadFunc func(ctx context.Context) (*index.Store, error)

// Server handles msgpack IPC for a Searcher.
type Server struct {
	searcher *search.Searcher
	reload   ReloadFunc
	config   config.ServerConfig
	reader   io.Reader
	writer   *bufio.Writer
	logger   *log.Logger
	requests int
}

// NewServer creates a server reading requests from r and writing responses to w.
// reload may be nil, in which case "reload" actions fail.
func NewServer(searcher *search.Searcher, reload ReloadFunc, cfg config.ServerConfig, r io.Reader, w io.Writer) *Server {
	return &Server{
		searcher: searcher,
		reload:   reload,
		config:   cfg,
		reader:   r,
		writer:   bufio.NewWriter(w),
		logger:   logger.New("ipc"),
	}
}

// Start processes requests until the input ends or ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Debug("Starting server")
	dec := msgpack.NewDecoder(bufio.NewReader(s.reader))

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		var req Request
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Debug("Input closed", "requests", s.requests)
				return nil
			}
			// The stream cannot be resynchronised after a bad frame.
			s.sendError("", fmt.Sprintf("invalid request: %v", err), CodeBadRequest)
			return fmt.Errorf("decoding request: %w", err)
		}

		s.requests++
		s.handleRequest(ctx, req)
	}
}

func (s *Server) handleRequest(ctx context.Context, req Request) {
	switch req.Action {
	case "":
		s.handleSearch(req)
	case "reload":
		s.handleReload(ctx, req)
	case "stats":
		stats := s.searcher.Stats()
		stats["requests"] = s.requests
		s.send(ActionResponse{ID: req.ID, Status: "ok", Stats: stats})
	default:
		s.sendError(req.ID, fmt.Sprintf("unknown action: %s", req.Action), CodeUnknownAction)
	}
}

func (s *Server) handleSearch(req Request) {
	if req.Term == "" {
		s.sendError(req.ID, search.ErrMissingTerm.Error(), CodeBadRequest)
		return
	}
	if s.config.MaxTermLen > 0 && len(req.Term) > s.config.MaxTermLen {
		s.sendError(req.ID, fmt.Sprintf("term exceeds maximum length of %d characters", s.config.MaxTermLen), CodeBadRequest)
		return
	}

	limit := req.Limit
	if s.config.MaxLimit > 0 && (limit <= 0 || limit > s.config.MaxLimit) {
		limit = s.config.MaxLimit
	}

	start := time.Now()
	results, err := s.searcher.SearchLimit(req.Term, limit)
	if err != nil {
		s.sendError(req.ID, err.Error(), CodeBadRequest)
		return
	}
	elapsed := time.Since(start)

	ranks := utils.CreateRankList(len(results))
	out := make([]SearchResult, len(results))
	for i, r := range results {
		out[i] = SearchResult{Package: r.Package, URL: r.URL, Downloads: r.Downloads, Rank: ranks[i]}
	}

	s.logger.Debug("search", "term", req.Term, "count", len(out), "took", elapsed)
	s.send(SearchResponse{
		ID:        req.ID,
		Results:   out,
		Count:     len(out),
		TimeTaken: elapsed.Microseconds(),
	})
}

func (s *Server) handleReload(ctx context.Context, req Request) {
	if s.reload == nil {
		s.sendError(req.ID, "reload not available", CodeInternal)
		return
	}
	store, err := s.reload(ctx)
	if err != nil {
		s.logger.Error("reload failed", "err", err)
		s.sendError(req.ID, fmt.Sprintf("reload failed: %v", err), CodeInternal)
		return
	}
	s.searcher.Swap(store)
	s.send(ActionResponse{ID: req.ID, Status: "ok", Stats: s.searcher.Stats()})
}

func (s *Server) send(response any) {
	if err := msgpack.NewEncoder(s.writer).Encode(response); err != nil {
		s.logger.Errorf("Encoding response: %v", err)
		return
	}
	if err := s.writer.Flush(); err != nil {
		s.logger.Errorf("Writing response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	s.send(ErrorResponse{ID: id, Error: message, Code: code})
}
