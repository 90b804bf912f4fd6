package words

import (
	"bufio"
	_ "embed"
	"errors"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed words.txt
var embeddedWords string

var ErrEmptyList = errors.New("empty-word-list")

// List hands out random words from a fixed set.
type List struct {
	words []string
}

// Default is the list compiled into the binary.
func Default() *List {
	return &List{words: parse(embeddedWords)}
}

func New(words []string) (*List, error) {
	cleaned := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			cleaned = append(cleaned, w)
		}
	}
	if len(cleaned) == 0 {
		return nil, ErrEmptyList
	}
	return &List{words: cleaned}, nil
}

// Load reads one word per line from path. Blank lines and lines starting
// with # are skipped.
func Load(path string) (*List, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	list, err := New(words)
	if err != nil {
		return nil, err
	}
	log.Info().Str("path", path).Int("count", list.Len()).Msg("words loaded")
	return list, nil
}

func parse(raw string) []string {
	var words []string
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" && !strings.HasPrefix(line, "#") {
			words = append(words, line)
		}
	}
	return words
}

func (l *List) Len() int {
	return len(l.words)
}

// Generate returns count words drawn with replacement.
func (l *List) Generate(count int) []string {
	if count <= 0 || len(l.words) == 0 {
		return []string{}
	}
	out := make([]string, count)
	for i := range out {
		out[i] = l.words[rand.IntN(len(l.words))]
	}
	return out
}

type generator interface {
	Generate(count int) []string
}

// Fallback tries each generator in order and returns the first non-empty
// result.
type Fallback []generator

func WithFallback(primary generator, rest ...generator) Fallback {
	return append(Fallback{primary}, rest...)
}

func (f Fallback) Generate(count int) []string {
	for _, g := range f {
		if words := g.Generate(count); len(words) > 0 {
			return words
		}
	}
	return []string{}
}
