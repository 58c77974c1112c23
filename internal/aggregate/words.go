package aggregate

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// WordCount is one word-cloud entry.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// stopWords is the English stop-word list used by common word-cloud
// generators.
var stopWords = toWordSet(`a about above after again against all also am an and any are aren't as at
be because been before being below between both but by can can't cannot com could couldn't
did didn't do does doesn't doing don't down during each else ever few for from further get
had hadn't has hasn't have haven't having he he'd he'll he's hence her here here's hers herself
him himself his how how's however http i i'd i'll i'm i've if in into is isn't it it's its itself
just k let's like me more most mustn't my myself no nor not of off on once only or other otherwise
ought our ours ourselves out over own r same shall shan't she she'd she'll she's should shouldn't
since so some such than that that's the their theirs them themselves then there there's therefore
these they they'd they'll they're they've this those through to too under until up very was wasn't
we we'd we'll we're we've were weren't what what's when when's where where's which while who who's
whom why why's with won't would wouldn't www you you'd you'll you're you've your yours yourself yourselves`)

func toWordSet(s string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, w := range strings.Fields(s) {
		out[w] = struct{}{}
	}
	return out
}

// WordFrequencies counts the words of text for a word cloud. Words are case
// folded and a trailing "'s" is stripped before bare numbers and stop words
// are dropped. The result is ordered by count descending then word, and cut to
// topN entries when topN > 0.
func WordFrequencies(text string, topN int) []WordCount {
	fold := cases.Fold()
	counts := map[string]int{}
	for _, tok := range tokenize(text) {
		w := strings.TrimSuffix(fold.String(tok), "'s")
		if w == "" || isNumber(w) {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		counts[w]++
	}
	out := make([]WordCount, 0, len(counts))
	for w, n := range counts {
		out = append(out, WordCount{Word: w, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

// tokenize splits text into runs of letters, digits, underscores and inner
// apostrophes.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '\'' || r == '’')
	})
	out := fields[:0]
	for _, f := range fields {
		f = strings.ReplaceAll(f, "’", "'")
		f = strings.Trim(f, "'")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func isNumber(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
