// Package cli handles interactive lookups from the terminal, mainly for
// debugging the index and ranking by hand.
package cli

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/bastiangx/typesearch/internal/utils"
	"github.com/bastiangx/typesearch/pkg/config"
	"github.com/bastiangx/typesearch/pkg/search"
	"github.com/charmbracelet/log"
)

// InputHandler reads one term per line and prints the ranked packages.
// A line ending in '*' lists indexed tokens starting with the rest of the line.
type InputHandler struct {
	searcher     *search.Searcher
	out          io.Writer
	namespace    string
	limit        int
	suggestions  int
	maxTermLen   int
	noFilter     bool
	requestCount int
}

// NewInputHandler builds a handler printing to out.
func NewInputHandler(searcher *search.Searcher, out io.Writer, cfg config.SearchConfig, maxTermLen int, noFilter bool) *InputHandler {
	return &InputHandler{
		searcher:    searcher,
		out:         out,
		namespace:   cfg.Namespace,
		limit:       cfg.Limit,
		suggestions: cfg.Suggestions,
		maxTermLen:  maxTermLen,
		noFilter:    noFilter,
	}
}

// Start runs the prompt loop until in is exhausted.
func (h *InputHandler) Start(in io.Reader) error {
	log.Print("TypeSearch CLI")
	log.Print("type a library, global or module name and press Enter (Ctrl+C to exit):")
	reader := bufio.NewReader(in)

	for {
		line, err := reader.ReadString('\n')
		if term := strings.TrimSpace(line); term != "" {
			h.HandleInput(term)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// HandleInput looks up a single term and prints the outcome.
func (h *InputHandler) HandleInput(term string) {
	h.requestCount++
	term = utils.StripNamespace(term, h.namespace)

	if h.maxTermLen > 0 && len(term) > h.maxTermLen {
		log.Errorf("Term too long: %d characters (max %d)", len(term), h.maxTermLen)
		return
	}

	if prefix, ok := strings.CutSuffix(term, "*"); ok {
		h.complete(prefix)
		return
	}

	if !h.noFilter && !utils.IsValidTerm(term) {
		log.Infof("Skipping term with unexpected characters: '%s'", term)
		return
	}

	start := time.Now()
	results, err := h.searcher.Search(term)
	if err != nil {
		log.Errorf("Search failed: %v", err)
		return
	}
	log.Debugf("Took [ %v ] for term '%s'", time.Since(start), term)

	if len(results) == 0 {
		log.Warnf("No type definitions found for '%s'", term)
		if hints := h.searcher.Suggest(term, h.suggestions); len(hints) > 0 {
			PrintHints(h.out, hints)
		}
		return
	}
	PrintResults(h.out, term, results)
}

func (h *InputHandler) complete(prefix string) {
	if prefix == "" {
		log.Errorf("Nothing to complete")
		return
	}
	limit := h.limit
	if limit <= 0 {
		limit = 20
	}
	tokens := h.searcher.Store().Complete(prefix, limit)
	if len(tokens) == 0 {
		log.Warnf("No tokens start with '%s'", prefix)
		return
	}
	PrintTokens(h.out, prefix, tokens)
}
