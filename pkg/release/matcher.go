package release

import (
	"regexp"

	"github.com/hbollon/go-edlib"
)

var numberRegex = regexp.MustCompile(`\b(\d+)\b`)

// Score returns the similarity of name to a title in [0, 1]. Both sides go
// through CleanTitle and are compared with Jaro-Winkler, which favors shared
// prefixes. Sequence numbers in name ("Rocky 2") adjust the score: a title
// with the same number scores higher, a different or missing number lower.
func Score(name, title string) float64 {
	n, t := CleanTitle(name), CleanTitle(title)
	score := float64(edlib.JaroWinklerSimilarity(n, t))
	return adjustForNumbers(score, numberRegex.FindAllString(n, -1), numberRegex.FindAllString(t, -1))
}

func adjustForNumbers(score float64, nameNums, titleNums []string) float64 {
	if len(nameNums) == 0 {
		return score
	}
	if len(titleNums) == 0 {
		return score * 0.85
	}
	have := make(map[string]bool, len(titleNums))
	for _, n := range titleNums {
		have[n] = true
	}
	for _, n := range nameNums {
		if have[n] {
			return min(score*1.05, 1.0)
		}
	}
	return score * 0.90
}
