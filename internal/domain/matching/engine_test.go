package matching

import (
	"math"
	"testing"

	"github.com/google/uuid"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRank_NoQuery_Deterministic(t *testing.T) {
	requester := Profile{
		ID:             uuid.New(),
		TeachingSkills: []string{"Python"},
		LearningSkills: []string{"Guitar", "Spanish"},
		Timezone:       "UTC",
	}
	candidates := []Profile{
		{ID: uuid.New(), TeachingSkills: []string{"Guitar"}, LearningSkills: []string{"Python"}, Timezone: "UTC"},
		{ID: uuid.New(), TeachingSkills: []string{"Spanish"}, Timezone: "PST"},
		{ID: uuid.New(), TeachingSkills: []string{"Cooking"}, Timezone: "CET"},
	}

	first := Rank(requester, candidates, "", IntentNone)
	for i := 0; i < 5; i++ {
		again := Rank(requester, candidates, "", IntentNone)
		if len(again) != len(first) {
			t.Fatalf("run %d: expected %d results, got %d", i, len(first), len(again))
		}
		for j := range first {
			if again[j].UserID != first[j].UserID || !almostEqual(again[j].Score, first[j].Score) {
				t.Fatalf("run %d: result %d diverged: %+v vs %+v", i, j, again[j], first[j])
			}
		}
	}
}

func TestRank_TaxonomyMatchDominatesFuzzySimilarity(t *testing.T) {
	requester := Profile{ID: uuid.New(), Timezone: "UTC"}
	candidate := Profile{
		ID:             uuid.New(),
		TeachingSkills: []string{"CSS"},
		Timezone:       "CET",
	}

	got := Rank(requester, []Profile{candidate}, "html", IntentLearning)
	if len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}
	if got[0].Score < 4.5 {
		t.Fatalf("expected taxonomy score >= 4.5, got %v", got[0].Score)
	}
}

func TestRank_ExactQueryMatchScoresFive(t *testing.T) {
	requester := Profile{ID: uuid.New(), Timezone: "UTC"}
	candidate := Profile{
		ID:             uuid.New(),
		TeachingSkills: []string{"  Guitar "},
		Timezone:       "CET",
	}

	got := Rank(requester, []Profile{candidate}, "guitar", IntentLearning)
	if len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}
	if !almostEqual(got[0].Score, 5.0) {
		t.Fatalf("expected exact-match score 5.0, got %v", got[0].Score)
	}
}

func TestRank_ThresholdFiltersLowScores(t *testing.T) {
	requester := Profile{
		ID:             uuid.New(),
		LearningSkills: []string{"Guitar"},
		Timezone:       "UTC",
	}
	// No skill overlap, no shared timezone: score 0, must be dropped.
	candidate := Profile{
		ID:             uuid.New(),
		TeachingSkills: []string{"Cooking"},
		Timezone:       "CET",
	}

	got := Rank(requester, []Profile{candidate}, "", IntentNone)
	if len(got) != 0 {
		t.Fatalf("expected no results, got %d", len(got))
	}
}

func TestRank_CapsAtTenWithStableTies(t *testing.T) {
	requester := Profile{
		ID:             uuid.New(),
		LearningSkills: []string{"Guitar"},
		Timezone:       "UTC",
	}

	candidates := make([]Profile, 0, 15)
	for i := 0; i < 15; i++ {
		candidates = append(candidates, Profile{
			ID:             uuid.New(),
			TeachingSkills: []string{"Guitar"},
			Timezone:       "CET",
		})
	}

	got := Rank(requester, candidates, "", IntentNone)
	if len(got) != 10 {
		t.Fatalf("expected 10 results, got %d", len(got))
	}
	// All scores tie, so the first ten candidates in enumeration order survive.
	for i := 0; i < 10; i++ {
		if got[i].UserID != candidates[i].ID {
			t.Fatalf("result %d: expected candidate %s, got %s", i, candidates[i].ID, got[i].UserID)
		}
	}
}

func TestRank_TimezoneBonusIsAdditive(t *testing.T) {
	requester := Profile{
		ID:             uuid.New(),
		LearningSkills: []string{"Guitar"},
		Timezone:       "UTC",
	}
	same := Profile{ID: uuid.New(), TeachingSkills: []string{"Guitar"}, Timezone: "UTC"}
	other := Profile{ID: uuid.New(), TeachingSkills: []string{"Guitar"}, Timezone: "PST"}

	got := Rank(requester, []Profile{same, other}, "", IntentNone)
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if !almostEqual(got[0].Score-got[1].Score, 0.5) {
		t.Fatalf("expected exactly 0.5 score delta, got %v", got[0].Score-got[1].Score)
	}
}

func TestRank_TeachLearnScenario(t *testing.T) {
	requester := Profile{
		ID:             uuid.New(),
		TeachingSkills: []string{"Python"},
		LearningSkills: []string{"Guitar"},
		Timezone:       "UTC",
	}
	a := Profile{ID: uuid.New(), TeachingSkills: []string{"Guitar"}, Timezone: "UTC"}
	b := Profile{ID: uuid.New(), TeachingSkills: []string{"Guitar"}, Timezone: "PST"}

	got := Rank(requester, []Profile{a, b}, "", IntentNone)
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0].UserID != a.ID || got[1].UserID != b.ID {
		t.Fatalf("expected order [A, B], got [%s, %s]", got[0].UserID, got[1].UserID)
	}
	if !almostEqual(got[0].Score, 3.5) {
		t.Fatalf("expected A score 3.5, got %v", got[0].Score)
	}
	if !almostEqual(got[1].Score, 3.0) {
		t.Fatalf("expected B score 3.0, got %v", got[1].Score)
	}
}

func TestRank_QueryIntentSelectsComplementaryList(t *testing.T) {
	requester := Profile{ID: uuid.New(), Timezone: "UTC"}
	// Candidate teaches guitar but does not want to learn it.
	candidate := Profile{
		ID:             uuid.New(),
		TeachingSkills: []string{"Guitar"},
		LearningSkills: []string{"Cooking"},
		Timezone:       "CET",
	}

	// A requester intending to teach guitar searches learning lists only.
	got := Rank(requester, []Profile{candidate}, "guitar", IntentTeaching)
	for _, r := range got {
		if r.UserID == candidate.ID && r.Score >= 4.0 {
			t.Fatalf("teaching intent must not match the candidate's teaching list, score %v", r.Score)
		}
	}

	got = Rank(requester, []Profile{candidate}, "guitar", IntentLearning)
	if len(got) != 1 || !almostEqual(got[0].Score, 5.0) {
		t.Fatalf("learning intent should match the teaching list at 5.0, got %+v", got)
	}
}

func TestRank_ExcludesRequester(t *testing.T) {
	requester := Profile{
		ID:             uuid.New(),
		TeachingSkills: []string{"Guitar"},
		LearningSkills: []string{"Guitar"},
		Timezone:       "UTC",
	}

	got := Rank(requester, []Profile{requester}, "", IntentNone)
	if len(got) != 0 {
		t.Fatalf("requester must never match themselves, got %d results", len(got))
	}
}

func TestSimilarity(t *testing.T) {
	cases := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "exact after normalization", a: "  Guitar ", b: "guitar", want: 1.0},
		{name: "substring containment", a: "javascript", b: "java", want: 0.8},
		{name: "empty input", a: "", b: "guitar", want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Similarity(tc.a, tc.b); !almostEqual(got, tc.want) {
				t.Fatalf("Similarity(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}

	// Edit-distance branch: "piano" vs "pianos" is substring, so use distinct
	// words with a known distance instead.
	got := Similarity("guitar", "guitars and amps")
	if got != 0.8 {
		t.Fatalf("expected substring branch, got %v", got)
	}
	got = Similarity("cat", "car")
	want := (1 - 1.0/3.0) * 0.7
	if !almostEqual(got, want) {
		t.Fatalf("Similarity(cat, car) = %v, want %v", got, want)
	}
}

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"guitar", "guitar", 0},
	}
	for _, tc := range cases {
		if got := levenshtein(tc.a, tc.b); got != tc.want {
			t.Fatalf("levenshtein(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestSharesGroup(t *testing.T) {
	if !sharesGroup("html", []string{"CSS"}) {
		t.Fatalf("html and CSS share the frontend group")
	}
	if sharesGroup("html", []string{"Guitar"}) {
		t.Fatalf("html and Guitar share no group")
	}
	if sharesGroup("underwater basket weaving", []string{"CSS"}) {
		t.Fatalf("unknown term belongs to no group")
	}
}

func TestParseIntent(t *testing.T) {
	cases := []struct {
		in   string
		want Intent
		ok   bool
	}{
		{"teaching", IntentTeaching, true},
		{" Learning ", IntentLearning, true},
		{"", IntentNone, true},
		{"both", IntentNone, false},
	}
	for _, tc := range cases {
		got, ok := ParseIntent(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ParseIntent(%q) = (%v, %v), want (%v, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
