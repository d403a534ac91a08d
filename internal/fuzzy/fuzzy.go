// Package fuzzy implements approximate string matching for champion name
// lookup. Queries may arrive in Latin or Cyrillic script, misspelled or
// abbreviated; the matcher transliterates, normalizes and scores them with a
// token-set ratio that tolerates word reordering and subset containment.
package fuzzy

import (
	"sort"
	"strings"
	"unicode"
)

// Transliteration table for Russian Cyrillic into a Latin approximation.
var cyrillicToLatin = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "yo",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "kh", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "shch",
	'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
}

// HasCyrillic reports whether s contains at least one Cyrillic rune.
func HasCyrillic(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Cyrillic, r) {
			return true
		}
	}
	return false
}

// Transliterate converts Cyrillic runes in s to their Latin approximation.
// Non-Cyrillic runes pass through unchanged.
func Transliterate(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if lat, ok := cyrillicToLatin[r]; ok {
			b.WriteString(lat)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Normalize lower-cases s and strips everything but ASCII letters and digits.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeQuery prepares a user-supplied query for matching: Cyrillic input
// is transliterated first, then normalized like any other choice string.
func NormalizeQuery(s string) string {
	if HasCyrillic(s) {
		s = Transliterate(s)
	}
	return Normalize(s)
}

// TokenSetRatio scores two strings on a 0-100 scale. Both strings are split
// into whitespace-separated tokens; the score is the best pairwise ratio of
// the sorted token intersection against each side's full sorted token set,
// which makes the measure insensitive to token order and tolerant of one
// side being a subset of the other.
func TokenSetRatio(a, b string) int {
	ta := tokenSet(a)
	tb := tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	inter := make([]string, 0, len(ta))
	onlyA := make([]string, 0, len(ta))
	for _, t := range ta {
		if contains(tb, t) {
			inter = append(inter, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	onlyB := make([]string, 0, len(tb))
	for _, t := range tb {
		if !contains(ta, t) {
			onlyB = append(onlyB, t)
		}
	}

	s0 := strings.Join(inter, " ")
	s1 := strings.TrimSpace(s0 + " " + strings.Join(onlyA, " "))
	s2 := strings.TrimSpace(s0 + " " + strings.Join(onlyB, " "))

	best := ratio(s1, s2)
	if s0 != "" {
		if r := ratio(s0, s1); r > best {
			best = r
		}
		if r := ratio(s0, s2); r > best {
			best = r
		}
	}
	return best
}

// BestMatch scores query against every choice and returns the index and score
// of the best one. Ties keep the first-encountered choice so results are
// stable with respect to input order. Returns index -1 for an empty input.
func BestMatch(query string, choices []string) (int, int) {
	if query == "" || len(choices) == 0 {
		return -1, 0
	}
	bestIdx, bestScore := -1, -1
	for i, c := range choices {
		if s := TokenSetRatio(query, c); s > bestScore {
			bestIdx, bestScore = i, s
		}
	}
	return bestIdx, bestScore
}

func tokenSet(s string) []string {
	fields := strings.Fields(s)
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

func contains(set []string, s string) bool {
	for _, t := range set {
		if t == s {
			return true
		}
	}
	return false
}

// ratio converts Levenshtein distance into a 0-100 similarity.
func ratio(a, b string) int {
	if a == b {
		return 100
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	dist := levenshteinDistance(a, b)
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	return 100 - (dist * 100 / maxLen)
}

// levenshteinDistance is the minimum number of single-character edits needed
// to turn s1 into s2.
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)
	for j := 0; j <= len(s2); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 0
			if s1[i-1] != s2[j-1] {
				cost = 1
			}
			curr[j] = minOf(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(s2)]
}

func minOf(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
