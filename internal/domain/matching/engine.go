package matching

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

type Intent string

const (
	IntentNone     Intent = ""
	IntentTeaching Intent = "teaching"
	IntentLearning Intent = "learning"
)

func ParseIntent(s string) (Intent, bool) {
	switch Intent(strings.TrimSpace(strings.ToLower(s))) {
	case IntentNone:
		return IntentNone, true
	case IntentTeaching:
		return IntentTeaching, true
	case IntentLearning:
		return IntentLearning, true
	}
	return IntentNone, false
}

type Profile struct {
	ID             uuid.UUID
	Name           string
	TeachingSkills []string
	LearningSkills []string
	Timezone       string
}

type RankedCandidate struct {
	UserID uuid.UUID
	Score  float64
}

const (
	// Candidates at or below this score are noise, not matches.
	scoreThreshold = 0.15
	maxResults     = 10

	timezoneBonus    = 0.5
	taxonomyScore    = 4.5
	similarityWeight = 5.0

	// Being taught outweighs being asked to teach. Arbitrary product
	// weighting, kept as-is for compatibility.
	teachOverlapWeight = 3.0
	learnOverlapWeight = 1.0
)

// Rank scores every candidate against the requester and returns the top
// matches in descending score order. With a query the candidate's
// intent-complementary skill list is searched; without one the requester's own
// teach/learn lists are cross-matched.
func Rank(requester Profile, candidates []Profile, query string, intent Intent) []RankedCandidate {
	query = strings.TrimSpace(query)

	ranked := make([]RankedCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == requester.ID {
			continue
		}

		var score float64
		if query != "" {
			score = scoreByQuery(query, relevantSkills(c, intent))
		} else {
			score = scoreByOverlap(requester, c)
		}
		if sameTimezone(requester.Timezone, c.Timezone) {
			score += timezoneBonus
		}

		if score <= scoreThreshold {
			continue
		}
		ranked = append(ranked, RankedCandidate{UserID: c.ID, Score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}
	return ranked
}

// relevantSkills picks the candidate list complementary to the requester's
// intent: a requester who wants to teach is matched against what candidates
// want to learn, and vice versa. No intent searches both.
func relevantSkills(c Profile, intent Intent) []string {
	switch intent {
	case IntentTeaching:
		return c.LearningSkills
	case IntentLearning:
		return c.TeachingSkills
	default:
		out := make([]string, 0, len(c.TeachingSkills)+len(c.LearningSkills))
		out = append(out, c.TeachingSkills...)
		out = append(out, c.LearningSkills...)
		return out
	}
}

func scoreByQuery(query string, skills []string) float64 {
	best := 0.0
	if sharesGroup(query, skills) {
		best = taxonomyScore
	}
	for _, s := range skills {
		if v := similarityWeight * Similarity(query, s); v > best {
			best = v
		}
	}
	return best
}

func scoreByOverlap(requester, candidate Profile) float64 {
	teach := countOverlap(requester.LearningSkills, candidate.TeachingSkills)
	learn := countOverlap(requester.TeachingSkills, candidate.LearningSkills)
	return teachOverlapWeight*float64(teach) + learnOverlapWeight*float64(learn)
}

func countOverlap(a, b []string) int {
	set := make(map[string]struct{}, len(b))
	for _, s := range b {
		key := normalizeSkill(s)
		if key == "" {
			continue
		}
		set[key] = struct{}{}
	}

	n := 0
	for _, s := range a {
		if _, ok := set[normalizeSkill(s)]; ok {
			n++
		}
	}
	return n
}

func sameTimezone(a, b string) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	return a != "" && a == b
}
