// Package cli handles cmd line input and completions for DBG and testing various features
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/topserve/internal/utils"
	"github.com/bastiangx/topserve/pkg/suggest"
	"github.com/charmbracelet/log"
)

// Commands recognised by the input loop besides plain prompts.
const (
	cmdStats = ":stats"
	cmdEmpty = ":empty"
	cmdQuit  = ":q"
)

// InputHandler reads prompts line by line and prints the best completion for each.
// An optional verifier answers every prompt too and any disagreement is reported.
type InputHandler struct {
	completer    suggest.ICompleter
	verifier     suggest.ICompleter
	in           io.Reader
	out          io.Writer
	maxPrompt    int
	foldCase     bool
	showCount    bool
	requestCount int
	mismatches   int
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(completer suggest.ICompleter, in io.Reader, out io.Writer, maxPrompt int, foldCase, showCount bool) *InputHandler {
	return &InputHandler{
		completer: completer,
		in:        in,
		out:       out,
		maxPrompt: maxPrompt,
		foldCase:  foldCase,
		showCount: showCount,
	}
}

// SetVerifier makes every answer get checked against v
func (h *InputHandler) SetVerifier(v suggest.ICompleter) {
	h.verifier = v
}

// Mismatches returns how many answers disagreed with the verifier
func (h *InputHandler) Mismatches() int {
	return h.mismatches
}

// Start begins the interface loop.
// It reads a line, trims it and hands it to handleInput.
// The loop ends cleanly at end of input or on :q.
func (h *InputHandler) Start() error {
	fmt.Fprintln(h.out, "topserve CLI [BETA]")
	fmt.Fprintf(h.out, "type a prompt and press Enter (%s for the empty prompt, %s for corpus stats, %s to exit):\n", cmdEmpty, cmdStats, cmdQuit)

	reader := bufio.NewReader(h.in)
	for {
		fmt.Fprint(h.out, "> ")
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		prompt := strings.TrimSpace(line)

		switch prompt {
		case "":
		case cmdQuit:
			return nil
		case cmdStats:
			fmt.Fprint(h.out, renderStats(h.completer.Stats()))
		case cmdEmpty:
			h.handleInput("")
		default:
			h.handleInput(prompt)
		}

		if err == io.EOF {
			fmt.Fprintln(h.out)
			return nil
		}
	}
}

// handleInput answers a single prompt
func (h *InputHandler) handleInput(prompt string) {
	h.requestCount++
	prompt = utils.FoldPrompt(prompt, h.foldCase)

	if h.maxPrompt > 0 && utf8.RuneCountInString(prompt) > h.maxPrompt {
		log.Errorf("Prompt too long: %s", utils.Truncate(prompt, h.maxPrompt))
		return
	}

	log.Debug("Processing request for", "prompt", prompt)
	start := time.Now()
	best, found, err := h.completer.Best(prompt)
	elapsed := time.Since(start)
	if err != nil {
		log.Errorf("Invalid prompt '%s': %v", prompt, err)
		return
	}
	log.Debugf("Took [ %v ] for prompt '%s'", elapsed, prompt)

	fmt.Fprintln(h.out, renderResult(prompt, best, found, h.showCount))

	if h.verifier != nil {
		h.verify(prompt, best, found)
	}
}

func (h *InputHandler) verify(prompt string, best suggest.Suggestion, found bool) {
	want, wantFound, err := h.verifier.Best(prompt)
	if err != nil {
		log.Errorf("Verifier failed on '%s': %v", prompt, err)
		return
	}
	if want != best || wantFound != found {
		h.mismatches++
		log.Errorf("Mismatch for '%s': got %+v (found=%v), verifier %+v (found=%v)", prompt, best, found, want, wantFound)
		return
	}
	log.Debug("Verified", "prompt", prompt)
}
