package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"wikiquery/internal/models"
	"wikiquery/pkg/wikiquery"
)

// fakeWiki answers the handful of requests the commands send.
func fakeWiki(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		switch {
		case q.Get("list") == "allcategories" && q.Get("accontinue") == "":
			io.WriteString(w, `{"continue":{"accontinue":"B","continue":"-||"},"query":{"allcategories":[{"category":"A","size":3}]}}`)
		case q.Get("list") == "allcategories":
			io.WriteString(w, `{"batchcomplete":true,"query":{"allcategories":[{"category":"B","size":5}]}}`)
		case q.Get("list") == "categorymembers" && q.Get("cmtitle") == "Category:Physics":
			io.WriteString(w, `{"batchcomplete":true,"query":{"categorymembers":[
				{"pageid":1,"ns":0,"title":"Force","type":"page"},
				{"pageid":2,"ns":0,"title":"Energy","type":"page"}]}}`)
		case q.Get("list") == "categorymembers":
			io.WriteString(w, `{"error":{"code":"invalidcategory","info":"The category name you entered is not valid."},"servedby":"mw1"}`)
		case q.Get("pageids") != "":
			io.WriteString(w, `{"batchcomplete":true,"query":{"pages":[{"pageid":`+q.Get("pageids")+`,"ns":0,"title":"T`+q.Get("pageids")+`",
				"description":"desc `+q.Get("pageids")+`","extract":"text","canonicalurl":"https://example.org/T"}]}}`)
		case q.Get("titles") != "":
			io.WriteString(w, `{"batchcomplete":true,"warnings":{"extracts":{"warnings":"exlimit was too large"}},"query":{"pages":[
				{"pageid":3434750,"ns":0,"title":"United States","description":"country in North America",
				 "extract":"The United States of America is a country.","canonicalurl":"https://en.wikipedia.org/wiki/United_States"}]}}`)
		default:
			http.Error(w, "unexpected request", http.StatusBadRequest)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func runCLI(t *testing.T, endpoint string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("WIKIQUERY_ENDPOINT", endpoint)
	t.Setenv("WIKIQUERY_RATE_LIMIT", "0")
	t.Setenv("LOG_LEVEL", "ERROR")

	out := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestQueryDryRun(t *testing.T) {
	srv := fakeWiki(t)
	out, err := runCLI(t, srv.URL, "query", "allcategories", "--dry-run", "--prefix", "Lists of", "--min", "1")
	require.NoError(t, err)
	assert.Equal(t,
		srv.URL+"/w/api.php?acmin=1&acprefix=Lists_of&action=query&format=json&formatversion=2&list=allcategories\n",
		out)
}

func TestQueryAllCategories(t *testing.T) {
	srv := fakeWiki(t)

	t.Run("single round", func(t *testing.T) {
		out, err := runCLI(t, srv.URL, "query", "allcategories", "--prop", "size")
		require.NoError(t, err)
		assert.Contains(t, out, "A\t3\n")
		assert.Contains(t, out, "rerun with --all")
	})

	t.Run("all rounds as json", func(t *testing.T) {
		out, err := runCLI(t, srv.URL, "--format", "json", "query", "allcategories", "--all")
		require.NoError(t, err)

		var result QueryResult
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.Equal(t, 2, result.Rounds)
		assert.True(t, result.Complete)
		assert.Nil(t, result.Continue)
		require.Len(t, result.Categories, 2)
		assert.Equal(t, "A", result.Categories[0].Category)
		assert.Equal(t, "B", result.Categories[1].Category)
	})

	t.Run("round cap", func(t *testing.T) {
		out, err := runCLI(t, srv.URL, "--format", "json", "query", "allcategories", "--all", "--max-rounds", "1")
		require.NoError(t, err)
		var result QueryResult
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.Equal(t, 1, result.Rounds)
		require.NotNil(t, result.Continue)
		assert.Equal(t, "B", result.Continue.ACContinue)
	})
}

func TestQueryPagesYAML(t *testing.T) {
	srv := fakeWiki(t)
	out, err := runCLI(t, srv.URL, "--format", "yaml", "query", "pages",
		"--titles", "United States", "--description", "--extracts", "--intro", "--plaintext")
	require.NoError(t, err)

	var result struct {
		Pages []struct {
			Title       string `yaml:"title"`
			Description string `yaml:"description"`
		} `yaml:"pages"`
		Warnings map[string]string `yaml:"warnings"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &result))
	require.Len(t, result.Pages, 1)
	assert.Equal(t, "country in North America", result.Pages[0].Description)
	assert.Equal(t, "exlimit was too large", result.Warnings["extracts"])
}

func TestQueryErrors(t *testing.T) {
	srv := fakeWiki(t)

	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, err error)
	}{
		{
			name: "invalid format",
			args: []string{"--format", "xml", "query", "allcategories"},
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "invalid format")
			},
		},
		{
			name: "categorymembers needs a title",
			args: []string{"query", "categorymembers"},
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "--title")
			},
		},
		{
			name: "api error surfaces",
			args: []string{"query", "categorymembers", "--title", "Category:Nope"},
			check: func(t *testing.T, err error) {
				var apiErr *wikiquery.APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, "invalidcategory", apiErr.Code)
				assert.Equal(t, "mw1", apiErr.ServedBy)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, srv.URL, tt.args...)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestSummary(t *testing.T) {
	srv := fakeWiki(t)
	out, err := runCLI(t, srv.URL, "summary", "United States")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "United States - country in North America\n"))
	assert.Contains(t, out, "https://en.wikipedia.org/wiki/United_States")
}

func TestCrawlToStdout(t *testing.T) {
	srv := fakeWiki(t)
	out, err := runCLI(t, srv.URL, "--format", "json", "crawl", "Physics", "--depth", "0", "--workers", "2")
	require.NoError(t, err)

	var titles []string
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		var a models.Article
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &a))
		assert.Equal(t, "Category:Physics", a.Category)
		assert.NotEmpty(t, a.RunID)
		assert.False(t, a.FetchedAt.IsZero())
		titles = append(titles, a.Title)
	}
	assert.ElementsMatch(t, []string{"Force", "Energy"}, titles)
}

func TestCrawlUnknownSink(t *testing.T) {
	srv := fakeWiki(t)
	_, err := runCLI(t, srv.URL, "crawl", "Physics", "--sink", "ftp")
	assert.ErrorContains(t, err, "unknown sink")
}

func TestConsumeRequiresKafka(t *testing.T) {
	srv := fakeWiki(t)
	t.Setenv("KAFKA_BROKER", "")
	_, err := runCLI(t, srv.URL, "consume")
	assert.ErrorContains(t, err, "KAFKA_")
}
