// Package suggest is the core, indexing a sentence corpus into a trie that caches the best completion per node.
package suggest

// ICompleter defines the interface for sentence completion engines
type ICompleter interface {
	// Best returns the most frequent sentence starting with prompt and its count.
	// ok is false when no sentence has that prefix.
	Best(prompt string) (s Suggestion, ok bool, err error)

	// Complete is Best without the count
	Complete(prompt string) (sentence string, ok bool, err error)

	// Stats returns statistics about the loaded corpus
	Stats() map[string]int
}

var (
	_ ICompleter = (*Trie)(nil)
	_ ICompleter = (*Scan)(nil)
)
