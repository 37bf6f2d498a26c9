package domain

import (
	"strconv"
	"strings"

	perr "conflux/internal/platform/errors"

	"golang.org/x/text/language"
)

// ValidateLanguages trims, drops blanks and repeats, and checks each entry is a BCP 47 tag
// crowdin ids like zh-CN are passed through as given
func ValidateLanguages(in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for i, raw := range in {
		id := strings.TrimSpace(raw)
		if id == "" {
			continue
		}
		if _, err := language.Parse(id); err != nil {
			return nil, perr.WithField(perr.InvalidArgf("language %q is not a BCP 47 tag", id), "languages["+strconv.Itoa(i)+"]")
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil, perr.WithField(perr.InvalidArgf("at least one target language is required"), "languages")
	}
	return out, nil
}
