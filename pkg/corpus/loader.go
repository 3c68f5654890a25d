// Package corpus reads and writes the sentence corpora topserve indexes.
package corpus

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/bastiangx/topserve/pkg/suggest"
	"github.com/charmbracelet/log"
	"golang.org/x/text/encoding/charmap"
)

// Entry is a sentence with its occurrence count
type Entry = suggest.Entry

// Text encodings accepted by ReadText
const (
	EncodingUTF8    = "utf-8"
	EncodingLatin1  = "latin1"
	EncodingWindows = "cp1252"
)

// preallocEntries caps how many entries ReadBinary reserves up front.
const preallocEntries = 4096

// Options controls how Load reads a corpus
type Options struct {
	// Encoding of text corpora, one of the Encoding* constants. Empty means utf-8.
	Encoding string
}

// Load reads a corpus file in any supported format and returns its
// sentences with their counts, in first-seen order.
func Load(path string, opts Options) ([]Entry, error) {
	format, err := DetectFileFormat(path)
	if err != nil {
		return nil, err
	}
	log.Debugf("Loading %s from %s", format, path)

	switch format {
	case FormatBinary:
		return LoadBinary(path)
	case FormatText:
		sentences, err := LoadText(path, opts.Encoding)
		if err != nil {
			return nil, err
		}
		return Aggregate(sentences), nil
	}
	return nil, fmt.Errorf("unsupported format for %s", path)
}

// LoadText reads a text corpus from path.
func LoadText(path, encoding string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus %s: %w", path, err)
	}
	defer file.Close()

	sentences, err := ReadText(file, encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus %s: %w", path, err)
	}
	log.Debugf("Read %d sentences from %s", len(sentences), path)
	return sentences, nil
}

// ReadText reads one sentence per line. Surrounding whitespace is trimmed,
// blank lines and lines starting with '#' are skipped.
func ReadText(r io.Reader, encoding string) ([]string, error) {
	switch strings.ToLower(encoding) {
	case "", EncodingUTF8, "utf8":
	case EncodingLatin1, "iso-8859-1":
		r = charmap.ISO8859_1.NewDecoder().Reader(r)
	case EncodingWindows, "windows-1252":
		r = charmap.Windows1252.NewDecoder().Reader(r)
	default:
		return nil, fmt.Errorf("unknown text encoding %q", encoding)
	}

	var sentences []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sentences = append(sentences, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return sentences, nil
}

// Aggregate counts duplicate sentences, keeping first-seen order.
func Aggregate(sentences []string) []Entry {
	index := make(map[string]int, len(sentences))
	var entries []Entry
	for _, s := range sentences {
		if i, ok := index[s]; ok {
			entries[i].Count++
			continue
		}
		index[s] = len(entries)
		entries = append(entries, Entry{Sentence: s, Count: 1})
	}
	return entries
}

// LoadBinary reads a binary corpus from path.
func LoadBinary(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus %s: %w", path, err)
	}
	defer file.Close()

	entries, err := ReadBinary(bufio.NewReader(file))
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus %s: %w", path, err)
	}
	log.Debugf("Read %d entries from %s", len(entries), path)
	return entries, nil
}

// ReadBinary decodes the binary layout: an int32 entry count, then per
// entry a uint16 length, the sentence bytes and a uint32 count, all
// little-endian.
func ReadBinary(r io.Reader) ([]Entry, error) {
	var total int32
	if err := binary.Read(r, binary.LittleEndian, &total); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if err := checkEntryCount(total); err != nil {
		return nil, err
	}

	// the header is untrusted, let append grow past the first chunk
	entries := make([]Entry, 0, min(int(total), preallocEntries))
	for i := 0; i < int(total); i++ {
		var sentenceLen uint16
		if err := binary.Read(r, binary.LittleEndian, &sentenceLen); err != nil {
			return nil, fmt.Errorf("entry %d: failed to read length: %w", i, err)
		}

		sentenceBytes := make([]byte, sentenceLen)
		if _, err := io.ReadFull(r, sentenceBytes); err != nil {
			return nil, fmt.Errorf("entry %d: failed to read sentence: %w", i, err)
		}

		var count uint32
		if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
			return nil, fmt.Errorf("entry %d: failed to read count: %w", i, err)
		}
		if count == 0 {
			return nil, fmt.Errorf("entry %d (%q): zero count", i, sentenceBytes)
		}

		entries = append(entries, Entry{Sentence: string(sentenceBytes), Count: int(count)})
	}
	return entries, nil
}

// WriteBinary writes entries to path in the binary layout.
func WriteBinary(path string, entries []Entry) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create corpus %s: %w", path, err)
	}

	w := bufio.NewWriter(file)
	if err := EncodeBinary(w, entries); err != nil {
		file.Close()
		return fmt.Errorf("failed to write corpus %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// EncodeBinary is the inverse of ReadBinary.
func EncodeBinary(w io.Writer, entries []Entry) error {
	if len(entries) > maxEntries {
		return fmt.Errorf("too many entries: %d", len(entries))
	}
	if err := binary.Write(w, binary.LittleEndian, int32(len(entries))); err != nil {
		return err
	}
	for i, e := range entries {
		if len(e.Sentence) > math.MaxUint16 {
			return fmt.Errorf("entry %d: sentence too long (%d bytes)", i, len(e.Sentence))
		}
		if e.Count < 1 || int64(e.Count) > math.MaxUint32 {
			return fmt.Errorf("entry %d (%q): count %d out of range", i, e.Sentence, e.Count)
		}
		if err := binary.Write(w, binary.LittleEndian, uint16(len(e.Sentence))); err != nil {
			return err
		}
		if _, err := io.WriteString(w, e.Sentence); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(e.Count)); err != nil {
			return err
		}
	}
	return nil
}
