package pipeline

import "strings"

// Dedupe removes duplicates across retrieval strategies. A candidate is
// a duplicate when either its normalized URL or its normalized
// (title, company) pair was already seen; first-seen wins.
func Dedupe(candidates []Enriched) []Enriched {
	seenURL := make(map[string]bool, len(candidates))
	seenTitleCompany := make(map[string]bool, len(candidates))

	out := make([]Enriched, 0, len(candidates))
	for _, c := range candidates {
		urlKey := NormalizeURL(c.Doc.URL)
		tcKey := strings.ToLower(strings.TrimSpace(c.Doc.Title)) + "|" + strings.ToLower(strings.TrimSpace(c.Company))

		if seenURL[urlKey] || seenTitleCompany[tcKey] {
			continue
		}
		seenURL[urlKey] = true
		seenTitleCompany[tcKey] = true
		out = append(out, c)
	}
	return out
}

// NormalizeURL lowercases and strips scheme, www prefix and trailing
// slash so trivially different URLs key identically.
func NormalizeURL(u string) string {
	u = strings.ToLower(strings.TrimSpace(u))
	u = strings.TrimPrefix(u, "https://")
	u = strings.TrimPrefix(u, "http://")
	u = strings.TrimPrefix(u, "www.")
	return strings.TrimSuffix(u, "/")
}
