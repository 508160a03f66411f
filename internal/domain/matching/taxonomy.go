package matching

// Skill taxonomy: a term belongs to a group only when literally listed here.
// Grouping catches domain-level matches that string similarity misses,
// e.g. "html" vs "css".
var skillGroups = map[string][]string{
	"frontend": {"frontend", "html", "css", "javascript", "typescript", "react", "vue", "angular", "svelte", "tailwind", "web design"},
	"backend":  {"backend", "node", "nodejs", "express", "go", "golang", "django", "flask", "spring", "rust", "api design", "graphql"},
	"data":     {"data science", "machine learning", "deep learning", "pandas", "numpy", "statistics", "sql", "python", "r"},
	"mobile":   {"mobile", "android", "ios", "swift", "kotlin", "react native", "flutter"},
	"devops":   {"devops", "docker", "kubernetes", "terraform", "aws", "gcp", "linux", "ci/cd"},
	"design":   {"design", "ui design", "ux design", "figma", "photoshop", "illustrator", "sketching"},
	"music":    {"music", "guitar", "piano", "violin", "drums", "singing", "music theory", "music production"},
	"language": {"english", "spanish", "french", "german", "japanese", "mandarin", "korean", "italian"},
	"business": {"marketing", "seo", "sales", "public speaking", "negotiation", "accounting", "excel"},
}

var groupsByTerm = buildGroupIndex(skillGroups)

func buildGroupIndex(groups map[string][]string) map[string][]string {
	idx := make(map[string][]string)
	for group, terms := range groups {
		for _, t := range terms {
			key := normalizeSkill(t)
			if key == "" {
				continue
			}
			idx[key] = append(idx[key], group)
		}
	}
	return idx
}

func groupsFor(term string) []string {
	return groupsByTerm[normalizeSkill(term)]
}

// sharesGroup reports whether the query and any of the skills fall into a
// common taxonomy group.
func sharesGroup(query string, skills []string) bool {
	queryGroups := groupsFor(query)
	if len(queryGroups) == 0 {
		return false
	}

	seen := make(map[string]struct{}, len(queryGroups))
	for _, g := range queryGroups {
		seen[g] = struct{}{}
	}

	for _, s := range skills {
		for _, g := range groupsFor(s) {
			if _, ok := seen[g]; ok {
				return true
			}
		}
	}
	return false
}
