package search

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/gcbaptista/findmyjob/internal/tokenizer"
	"github.com/gcbaptista/findmyjob/model"
)

// Suggest returns autocomplete suggestions for a partial keyword, drawn from job
// titles, company names and individual skills.
func (s *Service) Suggest(query string, jobs []model.JobRecord) []string {
	return rankSuggestions(query, jobs, keywordCandidates, tokenizer.Words, s.settings.MaxSuggestions)
}

// SuggestLocations returns autocomplete suggestions for a partial location.
// Candidates are whole location strings; words split on whitespace or commas.
func (s *Service) SuggestLocations(query string, jobs []model.JobRecord) []string {
	return rankSuggestions(query, jobs, locationCandidates, tokenizer.LocationWords, s.settings.MaxSuggestions)
}

func keywordCandidates(job model.JobRecord) []string {
	items := make([]string, 0, 2)
	if job.Title != "" {
		items = append(items, job.Title)
	}
	if job.Company != "" {
		items = append(items, job.Company)
	}
	return append(items, tokenizer.SkillTokens(job.Skills)...)
}

func locationCandidates(job model.JobRecord) []string {
	if job.Location == "" {
		return nil
	}
	return []string{job.Location}
}

// suggestion is a candidate string with its ranking keys precomputed
type suggestion struct {
	value      string
	lower      string
	exact      bool
	prefix     bool
	wordPrefix bool
	length     int
}

func rankSuggestions(
	query string,
	jobs []model.JobRecord,
	candidates func(model.JobRecord) []string,
	words func(string) []string,
	limit int,
) []string {
	if strings.TrimSpace(query) == "" || len(jobs) == 0 {
		return []string{}
	}
	kw := strings.ToLower(query)

	seen := make(map[string]struct{})
	var found []suggestion
	for _, job := range jobs {
		for _, item := range candidates(job) {
			lower := strings.ToLower(item)
			if !strings.Contains(lower, kw) {
				continue
			}
			// Dedup on the stored casing; first occurrence wins
			if _, dup := seen[item]; dup {
				continue
			}
			seen[item] = struct{}{}
			found = append(found, suggestion{
				value:      item,
				lower:      lower,
				exact:      lower == kw,
				prefix:     strings.HasPrefix(lower, kw),
				wordPrefix: tokenizer.HasWordPrefix(words(lower), kw),
				length:     utf8.RuneCountInString(lower),
			})
		}
	}

	// Stable so that fully tied candidates keep their first-seen order
	sort.SliceStable(found, func(i, j int) bool {
		a, b := found[i], found[j]
		if a.exact != b.exact {
			return a.exact
		}
		if a.prefix != b.prefix {
			return a.prefix
		}
		if a.wordPrefix != b.wordPrefix {
			return a.wordPrefix
		}
		return a.length < b.length
	})

	if limit > 0 && len(found) > limit {
		found = found[:limit]
	}
	out := make([]string, len(found))
	for i, f := range found {
		out[i] = f.value
	}
	return out
}
