package lexical

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

var tokenRe = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*|\p{N}+`)

// index is a TF-IDF model over the sentences of one context.
type index struct {
	vocabulary map[string]int
	idf        []float64
	vectors    [][]float64
}

// buildIndex builds the vocabulary and IDF values from sentences and embeds each one.
func buildIndex(sentences []string) (*index, error) {
	if len(sentences) == 0 {
		return nil, errors.New("empty corpus")
	}
	df := make(map[string]int)
	for _, s := range sentences {
		seen := make(map[string]struct{})
		for _, tok := range tokenize(s) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	if len(df) == 0 {
		return nil, errors.New("no indexable tokens in context")
	}
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	idx := &index{
		vocabulary: make(map[string]int, len(terms)),
		idf:        make([]float64, len(terms)),
	}
	n := float64(len(sentences))
	for i, term := range terms {
		idx.vocabulary[term] = i
		// smoothed IDF
		idx.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	idx.vectors = make([][]float64, len(sentences))
	for i, s := range sentences {
		idx.vectors[i] = idx.embed(s)
	}
	return idx, nil
}

// embed returns the L2-normalized TF-IDF vector of text. Unknown terms are
// ignored, so the vector may be all zeros.
func (x *index) embed(text string) []float64 {
	vec := make([]float64, len(x.idf))
	tf := make(map[int]int)
	total := 0
	for _, tok := range tokenize(text) {
		if i, ok := x.vocabulary[tok]; ok {
			tf[i]++
			total++
		}
	}
	if total == 0 {
		return vec
	}
	for i, count := range tf {
		vec[i] = float64(count) / float64(total) * x.idf[i]
	}
	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

type scored struct {
	idx   int
	score float64
}

// rank scores every sentence against the query by cosine similarity,
// best first; ties keep sentence order.
func (x *index) rank(query []float64) []scored {
	out := make([]scored, len(x.vectors))
	for i, v := range x.vectors {
		out[i] = scored{i, dot(v, query)}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].score > out[j].score })
	return out
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

func tokenize(text string) []string {
	raw := tokenRe.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, stop := stopwords[t]; stop {
			continue
		}
		out = append(out, t)
	}
	return out
}

// stemSet is the distinct-stem view used by the overlap fallback. Stems are
// token prefixes, so "capitals" and "capital" match where TF-IDF terms do not.
func stemSet(text string) map[string]struct{} {
	toks := tokenize(text)
	m := make(map[string]struct{}, len(toks))
	for _, t := range toks {
		m[stem(t)] = struct{}{}
	}
	return m
}

func stem(t string) string {
	r := []rune(t)
	if len(r) > stemLen {
		r = r[:stemLen]
	}
	return string(r)
}

const stemLen = 5

// ochiai is |A∩B| / sqrt(|A||B|) over distinct stems.
func ochiai(query map[string]struct{}, sentence string) float64 {
	s := stemSet(sentence)
	if len(query) == 0 || len(s) == 0 {
		return 0
	}
	inter := 0
	for t := range s {
		if _, ok := query[t]; ok {
			inter++
		}
	}
	return float64(inter) / math.Sqrt(float64(len(query))*float64(len(s)))
}

var stopwords = func() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
		"what", "which", "who", "whom", "whose", "when", "where", "why", "how", "do", "does", "did", "tell", "me",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()
