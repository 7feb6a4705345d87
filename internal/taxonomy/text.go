package taxonomy

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// TextNormalizer folds free text so that spellings differing only in
// diacritics, letter variants, case or spacing compare equal.
type TextNormalizer interface {
	NormalizeText(s string) string
}

// TextNormalizerFunc adapts a plain function to TextNormalizer.
type TextNormalizerFunc func(string) string

// NormalizeText calls f(s).
func (f TextNormalizerFunc) NormalizeText(s string) string { return f(s) }

// TextSource normalizes a batch of values in one round trip. The database
// implementation runs the fold server-side; LocalText runs FoldArabic.
type TextSource interface {
	NormalizeTexts(ctx context.Context, values []string) (map[string]string, error)
}

var arabicLetterFold = map[rune]rune{
	'أ': 'ا',
	'إ': 'ا',
	'آ': 'ا',
	'ٱ': 'ا',
	'ى': 'ي',
	'ی': 'ي',
	'ة': 'ه',
	'ک': 'ك',
}

func isFoldDropped(r rune) bool {
	// tatweel and every combining mark (tashkeel, superscript alef)
	return r == 'ـ' || unicode.Is(unicode.Mn, r)
}

// FoldArabic is the in-process normalizer. It strips tashkeel and tatweel,
// unifies alef, yeh and teh-marbuta variants, lower-cases and collapses
// whitespace.
func FoldArabic(s string) string {
	// Chained transformers carry buffers, so build one per call.
	t := transform.Chain(
		norm.NFKD,
		runes.Remove(runes.Predicate(isFoldDropped)),
		runes.Map(func(r rune) rune {
			if m, ok := arabicLetterFold[r]; ok {
				return m
			}
			return r
		}),
		norm.NFC,
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return collapse(out)
}

// LocalText is a TextSource that never leaves the process.
type LocalText struct{}

// NormalizeTexts folds every value with FoldArabic.
func (LocalText) NormalizeTexts(_ context.Context, values []string) (map[string]string, error) {
	out := make(map[string]string, len(values))
	for _, v := range values {
		out[v] = FoldArabic(v)
	}
	return out, nil
}

type mapNormalizer struct {
	known    map[string]string
	fallback TextNormalizer
}

func (m mapNormalizer) NormalizeText(s string) string {
	if v, ok := m.known[s]; ok {
		return v
	}
	return m.fallback.NormalizeText(s)
}

// PrepareText normalizes values through src once and returns a
// TextNormalizer answering from that batch. Values outside the batch fall
// back to FoldArabic.
func PrepareText(ctx context.Context, src TextSource, values []string) (TextNormalizer, error) {
	fallback := TextNormalizerFunc(FoldArabic)
	if src == nil || len(values) == 0 {
		return fallback, nil
	}
	known, err := src.NormalizeTexts(ctx, dedupe(values))
	if err != nil {
		return nil, fmt.Errorf("normalizing text: %w", err)
	}
	return mapNormalizer{known: known, fallback: fallback}, nil
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
