package cli

import (
	"fmt"

	"github.com/bastiangx/topserve/internal/utils"
	"github.com/bastiangx/topserve/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
)

// maxShown caps how many runes of a completion are printed.
const maxShown = 72

var (
	promptStyle   = lipgloss.NewStyle().Bold(true)
	sentenceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	countStyle    = lipgloss.NewStyle().Faint(true)
	missStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
)

// renderResult formats one answer for the terminal.
func renderResult(prompt string, best suggest.Suggestion, found, showCount bool) string {
	if !found {
		return missStyle.Render(fmt.Sprintf("no sentence starts with '%s'", prompt))
	}

	// The prompt part is bold, the completed tail colored.
	tail := best.Sentence[len(prompt):]
	line := promptStyle.Render(prompt) + sentenceStyle.Render(utils.Truncate(tail, maxShown))
	if best.Sentence == "" {
		line = sentenceStyle.Render("(empty sentence)")
	}
	if showCount {
		line += " " + countStyle.Render(fmt.Sprintf("(count: %s)", utils.FormatWithCommas(best.Count)))
	}
	return line
}

// renderStats formats corpus statistics in a stable key order.
func renderStats(stats map[string]int) string {
	keys := []string{"sentences", "distinct", "nodes", "maxCount", "alphabet"}
	out := ""
	for _, k := range keys {
		v, ok := stats[k]
		if !ok {
			continue
		}
		out += fmt.Sprintf("%-10s %s\n", k, utils.FormatWithCommas(v))
	}
	return out
}
