package suggest

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Terminator is the code of the implicit end-of-sentence symbol.
// It sorts before every letter.
const Terminator uint8 = 0

// maxLetters keeps every code inside a uint8.
const maxLetters = 255

// ErrInvalidSymbol is returned when a sentence or prompt holds a rune
// outside the alphabet.
var ErrInvalidSymbol = errors.New("invalid symbol")

// SymbolError reports the first offending rune of an input.
type SymbolError struct {
	Input  string
	Rune   rune
	Offset int
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("%v: %q at offset %d in %q", ErrInvalidSymbol, e.Rune, e.Offset, e.Input)
}

func (e *SymbolError) Unwrap() error { return ErrInvalidSymbol }

// Alphabet maps a closed set of letters to codes 1..K, code 0 being the terminator.
type Alphabet struct {
	letters []rune
	ascii   [utf8.RuneSelf]uint8
	wide    map[rune]uint8
}

// Lowercase is the default a..z alphabet.
var Lowercase = MustAlphabet("abcdefghijklmnopqrstuvwxyz")

// NewAlphabet builds an alphabet whose letter order is the order of runes in letters.
// Whitespace is rejected since corpus lines and prompts are trimmed.
func NewAlphabet(letters string) (*Alphabet, error) {
	if letters == "" {
		return nil, errors.New("alphabet must hold at least one letter")
	}
	if !utf8.ValidString(letters) {
		return nil, errors.New("alphabet is not valid utf-8")
	}

	a := &Alphabet{wide: make(map[rune]uint8)}
	for _, r := range letters {
		if len(a.letters) == maxLetters {
			return nil, fmt.Errorf("alphabet exceeds %d letters", maxLetters)
		}
		if unicode.IsSpace(r) {
			return nil, fmt.Errorf("whitespace %q cannot be a letter", r)
		}
		if _, dup := a.lookup(r); dup {
			return nil, fmt.Errorf("duplicate letter %q in alphabet", r)
		}
		a.letters = append(a.letters, r)
		code := uint8(len(a.letters))
		if r < utf8.RuneSelf {
			a.ascii[r] = code
		} else {
			a.wide[r] = code
		}
	}
	return a, nil
}

// MustAlphabet is NewAlphabet for package-level defaults; it panics on error.
func MustAlphabet(letters string) *Alphabet {
	a, err := NewAlphabet(letters)
	if err != nil {
		panic(err)
	}
	return a
}

func (a *Alphabet) lookup(r rune) (uint8, bool) {
	if r >= 0 && r < utf8.RuneSelf {
		code := a.ascii[r]
		return code, code != Terminator
	}
	code, ok := a.wide[r]
	return code, ok
}

// Size returns K, the number of letters (terminator excluded).
func (a *Alphabet) Size() int { return len(a.letters) }

// Letters returns the letters in code order.
func (a *Alphabet) Letters() string { return string(a.letters) }

// Letter returns the rune for a letter code. The terminator has no rune.
func (a *Alphabet) Letter(code uint8) rune {
	if code == Terminator || int(code) > len(a.letters) {
		return utf8.RuneError
	}
	return a.letters[code-1]
}

// Encode converts s into letter codes.
func (a *Alphabet) Encode(s string) ([]uint8, error) {
	codes := make([]uint8, 0, len(s))
	for i, r := range s {
		code, ok := a.lookup(r)
		if !ok {
			return nil, &SymbolError{Input: s, Rune: r, Offset: i}
		}
		codes = append(codes, code)
	}
	return codes, nil
}

// Valid reports whether every rune of s belongs to the alphabet.
func (a *Alphabet) Valid(s string) bool {
	for _, r := range s {
		if _, ok := a.lookup(r); !ok {
			return false
		}
	}
	return true
}

// Compare orders two valid sentences the way tie-breaks do: letter by letter
// on code, with a proper prefix sorting before any of its extensions.
// Runes outside the alphabet sort after every letter.
func (a *Alphabet) Compare(x, y string) int {
	for x != "" && y != "" {
		rx, nx := utf8.DecodeRuneInString(x)
		ry, ny := utf8.DecodeRuneInString(y)
		cx, okx := a.lookup(rx)
		cy, oky := a.lookup(ry)
		switch {
		case !okx && !oky:
			if rx != ry {
				if rx < ry {
					return -1
				}
				return 1
			}
		case !okx:
			return 1
		case !oky:
			return -1
		case cx != cy:
			if cx < cy {
				return -1
			}
			return 1
		}
		x, y = x[nx:], y[ny:]
	}
	switch {
	case x == "" && y == "":
		return 0
	case x == "":
		return -1
	default:
		return 1
	}
}
