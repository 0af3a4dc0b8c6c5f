package berlin

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/mozillazg/go-unidecode"
)

// Tier names the rule of the name scorer that produced a score.
type Tier string

const (
	TierEmpty     Tier = "empty"
	TierExact     Tier = "exact"
	TierWord      Tier = "word"
	TierSubstring Tier = "substring"
	TierFuzzy     Tier = "fuzzy"
)

const (
	DefaultSubstringFactor = 1.4
	DefaultFuzzyScale      = 0.009

	// wordScore is both the whole-word score and the floor of the substring tier.
	wordScore = 0.9
)

// NameScorer scores a candidate text against a list of names.
//
// Rules are tried in order over all names and the first one that applies wins:
//
//  1. empty text scores 0
//  2. case-sensitive equality with a name scores 1
//  3. the text appearing as whole words in a name (case-insensitive) scores 0.9
//  4. a name contained in the text scores SubstringFactor*len(name)/len(text),
//     floored at 0.9 and capped at 1, using the longest contained name
//  5. otherwise FuzzyScale times the best token-sort ratio (0-100)
//
// With the default FuzzyScale the fuzzy tier only reaches 0.9 when the
// token-sorted strings are identical.
type NameScorer struct {
	SubstringFactor float64
	FuzzyScale      float64
}

// DefaultNameScorer uses the historical constants 1.4 and 0.009.
var DefaultNameScorer = NameScorer{
	SubstringFactor: DefaultSubstringFactor,
	FuzzyScale:      DefaultFuzzyScale,
}

// Score returns the score of test against names and the tier that fired.
func (s NameScorer) Score(names []string, test string) (float64, Tier) {
	if test == "" {
		return 0, TierEmpty
	}

	for _, name := range names {
		if name == test {
			return 1.0, TierExact
		}
	}

	word := strings.ToLower(test)
	for _, name := range names {
		if containsWord(strings.ToLower(name), word) {
			return wordScore, TierWord
		}
	}

	longest := 0
	for _, name := range names {
		if name == "" || !strings.Contains(test, name) {
			continue
		}
		if l := utf8.RuneCountInString(name); l > longest {
			longest = l
		}
	}
	if longest > 0 {
		ratio := float64(longest) / float64(utf8.RuneCountInString(test))
		return math.Min(1.0, math.Max(wordScore, s.SubstringFactor*ratio)), TierSubstring
	}

	best := 0
	for _, name := range names {
		if r := TokenSortRatio(test, name); r > best {
			best = r
		}
	}
	return s.FuzzyScale * float64(best), TierFuzzy
}

// containsWord reports whether word occurs in s with no word character
// directly before or after it. Letters and digits of any script count as
// word characters, so "malmö" is a word of "malmö airport".
func containsWord(s, word string) bool {
	for from := 0; from <= len(s)-len(word); {
		i := strings.Index(s[from:], word)
		if i < 0 {
			return false
		}
		i += from
		end := i + len(word)
		before, _ := utf8.DecodeLastRuneInString(s[:i])
		after, _ := utf8.DecodeRuneInString(s[end:])
		if (i == 0 || !isWordRune(before)) && (end == len(s) || !isWordRune(after)) {
			return true
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		from = i + size
	}
	return false
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

// TokenSortRatio compares two strings independently of word order and
// returns a similarity between 0 and 100. Both strings are transliterated to
// ASCII, lowercased and split on anything that is not a letter or digit; the
// sorted tokens are then compared by normalised Levenshtein distance.
func TokenSortRatio(a, b string) int {
	sa, sb := sortedTokens(a), sortedTokens(b)
	if sa == "" || sb == "" {
		return 0
	}
	if sa == sb {
		return 100
	}

	maxLen := utf8.RuneCountInString(sa)
	if l := utf8.RuneCountInString(sb); l > maxLen {
		maxLen = l
	}
	dist := levenshtein.ComputeDistance(sa, sb)
	return int(math.Round(100 * (1 - float64(dist)/float64(maxLen))))
}

func sortedTokens(s string) string {
	s = strings.ToLower(unidecode.Unidecode(s))
	tokens := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
