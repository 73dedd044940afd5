package wikiquery

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func assertTargetContains(t *testing.T, q *Query, contains ...string) {
	t.Helper()
	target := q.RequestTarget()
	for _, c := range contains {
		assert.Contains(t, target, c)
	}
}

func queryPart(target string) string {
	_, query, _ := strings.Cut(target, "?")
	return query
}
