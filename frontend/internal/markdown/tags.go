package markdown

import (
	"strings"

	"github.com/whimsyboard/whimsy/shared/domain"
)

// ParseTags splits comma separated tag input into a clean list: trimmed,
// lower-cased, without leading '#', without blanks or duplicates. At most max
// tags are kept when max > 0.
func ParseTags(input string, max int) domain.Tags {
	tags := domain.Tags{}
	seen := make(map[string]struct{})
	for _, part := range strings.FieldsFunc(input, func(r rune) bool { return r == ',' || r == '\n' }) {
		tag := strings.ToLower(strings.TrimLeft(strings.TrimSpace(part), "#"))
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
		if max > 0 && len(tags) == max {
			break
		}
	}
	return tags
}

// JoinTags is the inverse of ParseTags for pre-filling edit forms.
func JoinTags(tags domain.Tags) string {
	return strings.Join(tags, ", ")
}
