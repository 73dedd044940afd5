package keys

import (
	"fmt"
	"strings"

	"wikiquery/internal/models"
)

var keyReplacer = strings.NewReplacer(" ", "-", "_", "-", "/", "-", ":", "-")

// sanitizeKey lowercases s and replaces separators that would break an
// object key path.
func sanitizeKey(s string) string {
	return strings.ToLower(keyReplacer.Replace(strings.TrimSpace(s)))
}

// Article returns the canonical object key for an Article.
func Article(a models.Article) string {
	return fmt.Sprintf("articles/%s/%d-%s.json",
		sanitizeKey(strings.TrimPrefix(a.Category, "Category:")),
		a.PageID,
		sanitizeKey(a.Title),
	)
}
