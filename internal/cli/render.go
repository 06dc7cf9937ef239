package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/bastiangx/typesearch/internal/utils"
	"github.com/bastiangx/typesearch/pkg/search"
	"github.com/charmbracelet/lipgloss"
)

var (
	packageStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#286983", Dark: "#9ccfd8"})
	exactStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#56949f", Dark: "#31748f"})
	urlStyle = lipgloss.NewStyle().Italic(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#797593", Dark: "#908caa"})
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
)

// PrintResults writes one line per result: rank, package, downloads and URL.
func PrintResults(w io.Writer, term string, results []search.Result) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Found %d packages for '%s':", len(results), term)))
	for i, r := range results {
		name := packageStyle.Render(r.Package)
		if r.Exact {
			name += exactStyle.Render(" *")
		}
		url := r.URL
		if url == "" {
			url = "-"
		}
		fmt.Fprintf(w, "%2d. %s  (downloads: %s)  %s\n", i+1, name, utils.FormatWithCommas(r.Downloads), urlStyle.Render(url))
	}
}

// PrintPlain writes "package url" pairs without styling, for scripts.
func PrintPlain(w io.Writer, results []search.Result) {
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\n", r.Package, r.URL)
	}
}

// PrintHints writes "did you mean" suggestions.
func PrintHints(w io.Writer, hints []string) {
	fmt.Fprintf(w, "%s %s\n", headerStyle.Render("Did you mean:"), strings.Join(hints, ", "))
}

// PrintTokens writes indexed tokens that complete prefix.
func PrintTokens(w io.Writer, prefix string, tokens []string) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Tokens starting with '%s':", prefix)))
	for _, t := range tokens {
		fmt.Fprintf(w, "  %s\n", t)
	}
}
