package suggest

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Scan is a completer without any per-node cache: it keeps sentence counts
// in a patricia trie and scans the whole subtree below a prompt on every
// query. It is slow by construction and exists to cross-check Trie.
type Scan struct {
	alphabet   *Alphabet
	trie       *patricia.Trie
	emptyCount int
	sentences  int
	distinct   int
}

// NewScan indexes the entries into a fresh scan completer.
func NewScan(entries []Entry, alphabet *Alphabet) (*Scan, error) {
	if alphabet == nil {
		alphabet = Lowercase
	}
	s := &Scan{
		alphabet: alphabet,
		trie:     patricia.NewTrie(),
	}
	for i, e := range entries {
		if e.Count < 1 {
			return nil, fmt.Errorf("entry %d (%q): count must be positive, got %d", i, e.Sentence, e.Count)
		}
		if _, err := alphabet.Encode(e.Sentence); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		s.add(e.Sentence, e.Count)
	}
	return s, nil
}

func (s *Scan) add(sentence string, count int) {
	s.sentences += count
	if sentence == "" {
		if s.emptyCount == 0 {
			s.distinct++
		}
		s.emptyCount += count
		return
	}
	key := patricia.Prefix(sentence)
	if item := s.trie.Get(key); item != nil {
		s.trie.Set(key, item.(int)+count)
		return
	}
	s.trie.Insert(key, count)
	s.distinct++
}

// Best scans every sentence below prompt and keeps the most frequent one,
// breaking ties with Alphabet.Compare.
func (s *Scan) Best(prompt string) (Suggestion, bool, error) {
	if _, err := s.alphabet.Encode(prompt); err != nil {
		return Suggestion{}, false, err
	}

	var best Suggestion
	found := false
	consider := func(sentence string, count int) {
		if !found || count > best.Count || (count == best.Count && s.alphabet.Compare(sentence, best.Sentence) < 0) {
			best = Suggestion{Sentence: sentence, Count: count}
			found = true
		}
	}

	if prompt == "" && s.emptyCount > 0 {
		consider("", s.emptyCount)
	}

	err := s.trie.VisitSubtree(patricia.Prefix(prompt), func(p patricia.Prefix, item patricia.Item) error {
		count, ok := item.(int)
		if !ok {
			log.Errorf("Unknown item type: %T for sentence %s", item, p)
			return nil
		}
		consider(string(p), count)
		return nil
	})
	if err != nil {
		return Suggestion{}, false, fmt.Errorf("scanning subtree of %q: %w", prompt, err)
	}
	return best, found, nil
}

// Complete returns the sentence part of Best.
func (s *Scan) Complete(prompt string) (string, bool, error) {
	b, ok, err := s.Best(prompt)
	return b.Sentence, ok, err
}

// Stats returns statistics about the indexed corpus.
func (s *Scan) Stats() map[string]int {
	return map[string]int{
		"sentences": s.sentences,
		"distinct":  s.distinct,
		"alphabet":  s.alphabet.Size(),
	}
}
