// Package chunker splits long text into pieces small enough for one translation request.
package chunker

import (
	"strings"
	"unicode/utf8"
)

const (
	DefaultTargetSize = 1200
	DefaultMaxSize    = 1800
)

// Options configures chunking behavior. Sizes are in bytes of the source text.
type Options struct {
	TargetSize int
	MaxSize    int
}

// DefaultOptions returns default chunking options.
func DefaultOptions() Options {
	return Options{
		TargetSize: DefaultTargetSize,
		MaxSize:    DefaultMaxSize,
	}
}

// ChunkResult is one piece of the source and the separator that followed it.
type ChunkResult struct {
	Text string
	Sep  string
}

// Chunk splits text into chunks. Short text (<= MaxSize) returns a single chunk.
func Chunk(text string, opts Options) []ChunkResult {
	if opts.TargetSize == 0 || opts.MaxSize == 0 {
		opts = DefaultOptions()
	}

	text = strings.TrimSpace(text)
	if len(text) == 0 {
		return nil
	}

	if len(text) <= opts.MaxSize {
		return []ChunkResult{{Text: text}}
	}

	return mergeBlocks(splitBlocks(text), opts)
}

// Join reassembles translated chunk texts using the original separators.
func Join(chunks []ChunkResult, texts []string) string {
	var b strings.Builder
	for i, t := range texts {
		b.WriteString(t)
		if i < len(chunks) && i < len(texts)-1 {
			b.WriteString(chunks[i].Sep)
		}
	}
	return b.String()
}

// splitBlocks splits text on blank lines, then on sentence ends.
func splitBlocks(text string) []ChunkResult {
	var blocks []ChunkResult
	paras := strings.Split(text, "\n\n")
	for pi, para := range paras {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		sentences := splitSentences(para)
		for si, s := range sentences {
			sep := " "
			if si == len(sentences)-1 {
				sep = "\n\n"
				if pi == len(paras)-1 {
					sep = ""
				}
			}
			blocks = append(blocks, ChunkResult{Text: s, Sep: sep})
		}
	}
	return blocks
}

func splitSentences(para string) []string {
	var out []string
	rest := para
	from := 0
	for from < len(rest) {
		i := strings.IndexAny(rest[from:], ".!?")
		if i < 0 {
			break
		}
		end := from + i + 1
		// Decimal points and abbreviations like "U.S." are not sentence ends.
		if end < len(rest) && rest[end] != ' ' && rest[end] != '\n' {
			from = end
			continue
		}
		out = append(out, strings.TrimSpace(rest[:end]))
		rest = strings.TrimSpace(rest[end:])
		from = 0
	}
	if rest != "" {
		out = append(out, rest)
	}
	return out
}

// mergeBlocks combines small blocks up to TargetSize and splits oversized ones.
func mergeBlocks(blocks []ChunkResult, opts Options) []ChunkResult {
	var results []ChunkResult
	var accum ChunkResult
	started := false

	flushAccum := func() {
		if !started {
			return
		}
		if len(accum.Text) > opts.MaxSize {
			results = append(results, hardSplit(accum, opts)...)
		} else {
			results = append(results, accum)
		}
		accum = ChunkResult{}
		started = false
	}

	for _, b := range blocks {
		if !started {
			accum = b
			started = true
			continue
		}
		combined := accum.Text + accum.Sep + b.Text
		if len(combined) <= opts.TargetSize {
			accum.Text = combined
			accum.Sep = b.Sep
		} else {
			flushAccum()
			accum = b
			started = true
		}
	}
	flushAccum()

	return results
}

// hardSplit breaks a block that exceeds MaxSize on word boundaries.
func hardSplit(c ChunkResult, opts Options) []ChunkResult {
	words := strings.Fields(c.Text)
	var results []ChunkResult
	var current []string
	curLen := 0

	for _, w := range words {
		for len(w) > opts.MaxSize {
			cut := opts.MaxSize
			for cut > 0 && !utf8.RuneStart(w[cut]) {
				cut--
			}
			if len(current) > 0 {
				results = append(results, ChunkResult{Text: strings.Join(current, " "), Sep: " "})
				current, curLen = nil, 0
			}
			results = append(results, ChunkResult{Text: w[:cut], Sep: ""})
			w = w[cut:]
		}
		if curLen+len(w)+1 > opts.TargetSize && len(current) > 0 {
			results = append(results, ChunkResult{Text: strings.Join(current, " "), Sep: " "})
			current, curLen = nil, 0
		}
		current = append(current, w)
		curLen += len(w) + 1
	}

	if len(current) > 0 {
		results = append(results, ChunkResult{Text: strings.Join(current, " "), Sep: c.Sep})
	} else if len(results) > 0 {
		results[len(results)-1].Sep = c.Sep
	}

	return results
}
