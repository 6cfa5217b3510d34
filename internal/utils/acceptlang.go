package utils

import (
	"sort"
	"strconv"
	"strings"
)

// DetermineLocale resolves the locale for user-facing status text from an
// explicit query param and the Accept-Language header. Supported values are
// base tags like "en", "de".
func DetermineLocale(queryLang, acceptLang string, supported []string, def string) string {
	sup := map[string]struct{}{}
	for _, s := range supported {
		sup[strings.ToLower(s)] = struct{}{}
	}

	match := func(tag string) (string, bool) {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			return "", false
		}
		if _, ok := sup[tag]; ok {
			return tag, true
		}
		// de-DE -> de
		if i := strings.Index(tag, "-"); i > 0 {
			if _, ok := sup[tag[:i]]; ok {
				return tag[:i], true
			}
		}
		return "", false
	}

	if v, ok := match(queryLang); ok {
		return v
	}

	type cand struct {
		lang string
		q    float64
		pos  int
	}
	var cands []cand
	for i, part := range strings.Split(acceptLang, ",") {
		fields := strings.Split(strings.TrimSpace(part), ";")
		if fields[0] == "" {
			continue
		}
		q := 1.0
		for _, f := range fields[1:] {
			f = strings.TrimSpace(f)
			if strings.HasPrefix(f, "q=") {
				if v, err := strconv.ParseFloat(f[2:], 64); err == nil {
					q = v
				}
			}
		}
		cands = append(cands, cand{lang: fields[0], q: q, pos: i})
	}
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].q != cands[j].q {
			return cands[i].q > cands[j].q
		}
		return cands[i].pos < cands[j].pos
	})
	for _, c := range cands {
		if v, ok := match(c.lang); ok {
			return v
		}
	}
	return def
}
