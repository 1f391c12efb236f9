package analysis

import (
	"regexp"
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"bfsiocr/models"
)

// TopWords is how many words the charts show.
const TopWords = 10

// wordPattern matches \b\w+\b with Unicode word characters.
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

var lower = cases.Lower(language.Und)

// WordFrequency counts case-insensitive words in text, most frequent first.
// Ties are ordered alphabetically.
func WordFrequency(text string) []models.WordCount {
	counts := make(map[string]int)
	for _, w := range wordPattern.FindAllString(lower.String(text), -1) {
		counts[w]++
	}

	out := make([]models.WordCount, 0, len(counts))
	for w, n := range counts {
		out = append(out, models.WordCount{Word: w, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	return out
}

// Top returns at most n leading entries.
func Top(counts []models.WordCount, n int) []models.WordCount {
	if len(counts) <= n {
		return counts
	}
	return counts[:n]
}
