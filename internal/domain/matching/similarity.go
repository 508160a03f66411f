package matching

import "strings"

func normalizeSkill(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}

// Similarity scores two skill strings in [0, 1]: 1.0 for an exact match after
// normalization, 0.8 for substring containment either way, otherwise a
// dampened edit-distance ratio.
func Similarity(a, b string) float64 {
	a = normalizeSkill(a)
	b = normalizeSkill(b)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.8
	}

	longer := len([]rune(a))
	if l := len([]rune(b)); l > longer {
		longer = l
	}

	sim := (1 - float64(levenshtein(a, b))/float64(longer)) * 0.7
	if sim < 0 {
		return 0
	}
	return sim
}

func levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = minInt(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func minInt(vals ...int) int {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
