package baseline

import (
	"strings"
)

// Comparison reports how closely two readings of the same image agree.
type Comparison struct {
	EasyOCR   string `json:"easyocr"`
	Tesseract string `json:"tesseract"`

	// Match is true when the readings are equal after trimming surrounding
	// whitespace and line endings.
	Match bool `json:"match"`

	// Similarity is 1 - editDistance/maxLen over runes of the trimmed
	// readings. Two empty readings are fully similar.
	Similarity float64 `json:"similarity"`

	// Distance is the rune edit distance between the trimmed readings.
	Distance int `json:"distance"`
}

// Compare compares an EasyOCR reading against a Tesseract reading.
func Compare(easy, tess string) Comparison {
	a := normalize(easy)
	b := normalize(tess)

	ra, rb := []rune(a), []rune(b)
	dist := Levenshtein(ra, rb)

	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	similarity := 1.0
	if longest > 0 {
		similarity = 1 - float64(dist)/float64(longest)
	}

	return Comparison{
		EasyOCR:    easy,
		Tesseract:  tess,
		Match:      a == b,
		Similarity: similarity,
		Distance:   dist,
	}
}

// normalize trims the reading and drops trailing spaces on each line so
// Tesseract's line layout does not count as a difference.
func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}

// Levenshtein returns the edit distance between a and b.
func Levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
