package suggest

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// Suggestion is the best completion for a prompt and its occurrence count.
type Suggestion struct {
	Sentence string
	Count    int
}

// Entry is a sentence with a pre-aggregated occurrence count.
type Entry struct {
	Sentence string
	Count    int
}

// Option configures Build and BuildEntries.
type Option func(*Trie)

// WithAlphabet selects the alphabet sentences and prompts are encoded with.
func WithAlphabet(a *Alphabet) Option {
	return func(t *Trie) {
		if a != nil {
			t.alphabet = a
		}
	}
}

// Trie answers "most frequent sentence starting with prompt" queries.
//
// Every node caches the best count reachable below it and the child that
// leads there, so a query follows cached pointers instead of scanning a
// subtree. The trie is filled once by Build and is read-only afterwards,
// which makes concurrent queries safe.
type Trie struct {
	alphabet  *Alphabet
	arena     *arena
	path      []int32
	sentences int
	distinct  int
}

// Build indexes every sentence, each one counting as a single occurrence.
func Build(sentences []string, opts ...Option) (*Trie, error) {
	t := newTrie(opts...)
	for i, s := range sentences {
		if err := t.insert(s, 1); err != nil {
			return nil, fmt.Errorf("sentence %d: %w", i, err)
		}
	}
	t.finish()
	return t, nil
}

// BuildEntries indexes pre-aggregated sentences. An entry with Count n is
// equivalent to n copies of its sentence passed to Build.
func BuildEntries(entries []Entry, opts ...Option) (*Trie, error) {
	t := newTrie(opts...)
	for i, e := range entries {
		if e.Count < 1 {
			return nil, fmt.Errorf("entry %d (%q): count must be positive, got %d", i, e.Sentence, e.Count)
		}
		if err := t.insert(e.Sentence, e.Count); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
	}
	t.finish()
	return t, nil
}

func newTrie(opts ...Option) *Trie {
	t := &Trie{alphabet: Lowercase}
	for _, opt := range opts {
		opt(t)
	}
	t.arena = newArena(t.alphabet.Size())
	return t
}

func (t *Trie) finish() {
	t.path = nil
	log.Debugf("Trie built: %d sentences, %d distinct, %d nodes", t.sentences, t.distinct, t.arena.len())
}

// insert adds weight occurrences of sentence and refreshes the cache of
// every node on its path, bottom-up.
func (t *Trie) insert(sentence string, weight int) error {
	codes, err := t.alphabet.Encode(sentence)
	if err != nil {
		return err
	}

	ar := t.arena
	path := append(t.path[:0], root)
	cur := root
	for _, code := range codes {
		cur = ar.childOrCreate(cur, code)
		path = append(path, cur)
	}
	term := ar.childOrCreate(cur, Terminator)
	path = append(path, term)
	t.path = path

	if ar.nodes[term].count == 0 {
		t.distinct++
	}
	ar.nodes[term].count += weight
	t.sentences += weight
	up := ar.nodes[term].count

	// Unwind from the last letter node to the root. Each node compares the
	// count flowing up against its accumulated best, never a stale value.
	for i := len(path) - 2; i >= 0; i-- {
		n := &ar.nodes[path[i]]
		child := path[i+1]
		switch {
		case up > n.count:
			n.count = up
			n.next = child
		case up == n.count && ar.nodes[child].code < ar.nodes[n.next].code:
			n.next = child
		}
	}
	return nil
}

// HasPrefix reports whether some indexed sentence starts with prefix.
func (t *Trie) HasPrefix(prefix string) (bool, error) {
	codes, err := t.alphabet.Encode(prefix)
	if err != nil {
		return false, err
	}
	n := t.locate(codes)
	if n == root && len(codes) > 0 {
		return false, nil
	}
	return t.arena.nodes[n].count > 0, nil
}

// locate returns the node spelling codes, or root when an edge is missing.
// It only follows existing edges and stops at the first missing one.
func (t *Trie) locate(codes []uint8) int32 {
	cur := root
	for _, code := range codes {
		cur = t.arena.child(cur, code)
		if cur == root {
			return root
		}
	}
	return cur
}

// Best returns the most frequent sentence starting with prompt together
// with its count. The boolean is false when no sentence has that prefix.
func (t *Trie) Best(prompt string) (Suggestion, bool, error) {
	codes, err := t.alphabet.Encode(prompt)
	if err != nil {
		return Suggestion{}, false, err
	}
	n := t.locate(codes)
	if n == root && len(codes) > 0 {
		return Suggestion{}, false, nil
	}

	ar := t.arena
	count := ar.nodes[n].count
	if count == 0 {
		return Suggestion{}, false, nil
	}

	var b strings.Builder
	b.Grow(len(prompt) + 16)
	b.WriteString(prompt)
	for cur := ar.nodes[n].next; cur != root; cur = ar.nodes[cur].next {
		code := ar.nodes[cur].code
		if code == Terminator {
			break
		}
		b.WriteRune(t.alphabet.Letter(code))
	}
	return Suggestion{Sentence: b.String(), Count: count}, true, nil
}

// Complete returns the most frequent sentence starting with prompt.
// The boolean is false when no sentence has that prefix.
func (t *Trie) Complete(prompt string) (string, bool, error) {
	s, ok, err := t.Best(prompt)
	return s.Sentence, ok, err
}

// Alphabet returns the alphabet the trie was built with.
func (t *Trie) Alphabet() *Alphabet { return t.alphabet }

// Stats returns statistics about the indexed corpus.
func (t *Trie) Stats() map[string]int {
	return map[string]int{
		"sentences": t.sentences,
		"distinct":  t.distinct,
		"nodes":     t.arena.len(),
		"maxCount":  t.arena.nodes[root].count,
		"alphabet":  t.alphabet.Size(),
	}
}
