// internal/app/system/sanitize/sanitize.go

// Package sanitize strips markup from user-authored profile text before it
// is stored. Taglines and summaries are plain text; anything that looks like
// HTML is removed entirely rather than escaped.
package sanitize

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	once   sync.Once
	policy *bluemonday.Policy
)

// Text strips all HTML from s and trims surrounding whitespace.
func Text(s string) string {
	once.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(policy.Sanitize(s))
}
