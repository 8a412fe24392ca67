// Package vocabulary implements the opaque token <-> id lookup consumed by
// Document, Model, and both samplers. Ids are dense indices assigned in
// file order; a token's first occurrence in the vocabulary file wins.
package vocabulary

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Vocabulary is a token <-> dense-id lookup table.
type Vocabulary struct {
	index map[string]int32
	words []string
}

// New creates an empty vocabulary.
func New() *Vocabulary {
	return &Vocabulary{index: make(map[string]int32)}
}

// Load reads a vocabulary file: newline-delimited, "token\t[count]" per
// line. The count field is optional and ignored; only the first field
// matters. Duplicate tokens keep their first-assigned index.
func Load(path string) (*Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("vocabulary: load %s: %w", path, err)
	}
	defer f.Close()

	v := New()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "\t", 2)
		token := fields[0]
		if token == "" {
			continue
		}
		v.add(token)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("vocabulary: scan %s: %w", path, err)
	}
	return v, nil
}

func (v *Vocabulary) add(token string) {
	if _, ok := v.index[token]; ok {
		return
	}
	v.index[token] = int32(len(v.words))
	v.words = append(v.words, token)
}

// WordIndex returns token's dense id, or -1 if the token is not in the
// vocabulary.
func (v *Vocabulary) WordIndex(token string) int32 {
	if id, ok := v.index[token]; ok {
		return id
	}
	return -1
}

// Word returns the token at index. index must be in [0, Size()).
func (v *Vocabulary) Word(index int32) string {
	if index < 0 || int(index) >= len(v.words) {
		panic(fmt.Sprintf("vocabulary: Word(%d) out of range [0, %d)", index, len(v.words)))
	}
	return v.words[index]
}

// HasWord reports whether token is in the vocabulary.
func (v *Vocabulary) HasWord(token string) bool {
	_, ok := v.index[token]
	return ok
}

// Size returns V, the vocabulary cardinality.
func (v *Vocabulary) Size() int32 { return int32(len(v.words)) }
