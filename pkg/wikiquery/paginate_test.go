package wikiquery

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedDoer replays responses in order and records the parameters of
// every request it receives.
type scriptedDoer struct {
	responses []*Response
	errs      []error
	seen      []Params
}

func (d *scriptedDoer) Do(_ context.Context, q *Query) (*Response, error) {
	snapshot := make(Params, len(q.Params()))
	for k, v := range q.Params() {
		snapshot[k] = v
	}
	i := len(d.seen)
	d.seen = append(d.seen, snapshot)
	if i < len(d.errs) && d.errs[i] != nil {
		return nil, d.errs[i]
	}
	return d.responses[i], nil
}

func TestPaginator_FollowsContinuation(t *testing.T) {
	doer := &scriptedDoer{responses: []*Response{
		{Continue: &ContinueBlock{Continue: "-||", ACContinue: "B", CMContinue: "x"}},
		{Continue: &ContinueBlock{Continue: "-||", ACContinue: "C"}},
		{BatchComplete: true},
	}}

	q := NewQuery()
	q.AllCategories().ACLimit("2")
	q.CategoryMembers().CMTitle("Category:War")

	metrics := NewMetrics(prometheus.NewRegistry())
	p := NewPaginator(doer, q, WithPaginatorMetrics(metrics))
	var rounds int
	err := p.All(context.Background(), func(*Response) error {
		rounds++
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 3, rounds)
	assert.Equal(t, 3, p.Rounds())
	require.Len(t, doer.seen, 3)

	_, ok := doer.seen[0].Get("continue")
	assert.False(t, ok)

	assert.Equal(t, "B", doer.seen[1]["accontinue"])
	assert.Equal(t, "x", doer.seen[1]["cmcontinue"])

	assert.Equal(t, "C", doer.seen[2]["accontinue"])
	_, stale := doer.seen[2].Get("cmcontinue")
	assert.False(t, stale, "token of a finished list must not be resent")
	assert.Equal(t, "Category:War", doer.seen[2]["cmtitle"])

	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.ContinuationRounds))

	_, err = p.Next(context.Background())
	assert.ErrorIs(t, err, ErrDone)
}

func TestPaginator_ErrorKeepsState(t *testing.T) {
	boom := errors.New("boom")
	doer := &scriptedDoer{
		responses: []*Response{
			{Continue: &ContinueBlock{Continue: "-||", CMContinue: "page|2"}},
			nil,
			{BatchComplete: true},
		},
		errs: []error{nil, boom, nil},
	}
	q := NewQuery()
	q.CategoryMembers().CMTitle("Category:War")
	p := NewPaginator(doer, q)

	_, err := p.Next(context.Background())
	require.NoError(t, err)

	_, err = p.Next(context.Background())
	assert.ErrorIs(t, err, boom)

	resp, err := p.Next(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.BatchComplete)
	assert.Equal(t, doer.seen[1], doer.seen[2])
	assert.Equal(t, 2, p.Rounds())
}

func TestPaginator_RoundLimit(t *testing.T) {
	doer := &scriptedDoer{responses: []*Response{
		{Continue: &ContinueBlock{Continue: "-||", ACContinue: "B"}},
		{Continue: &ContinueBlock{Continue: "-||", ACContinue: "C"}},
	}}
	q := NewQuery()
	q.AllCategories()

	err := NewPaginator(doer, q, WithMaxRounds(2)).All(context.Background(), func(*Response) error { return nil })
	assert.ErrorIs(t, err, ErrRoundLimit)
	assert.Len(t, doer.seen, 2)
}

func TestPaginator_VisitorErrorStops(t *testing.T) {
	stop := errors.New("stop")
	doer := &scriptedDoer{responses: []*Response{
		{Continue: &ContinueBlock{Continue: "-||", ACContinue: "B"}},
	}}
	q := NewQuery()
	q.AllCategories()

	err := NewPaginator(doer, q).All(context.Background(), func(*Response) error { return stop })
	assert.ErrorIs(t, err, stop)
	assert.Len(t, doer.seen, 1)
}

func TestAllCategoryMembers_Pagination(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(APIPath, func(w http.ResponseWriter, r *http.Request) {
		req := decodeAPIRequest(t, r)
		if req.List != "categorymembers" {
			t.Errorf("unexpected list param: %s", req.List)
		}
		if req.Format != "json" || req.FormatVersion != "2" {
			t.Errorf("format params lost: %s", r.URL.RawQuery)
		}

		var body map[string]any
		switch req.CMContinue {
		case "":
			body = map[string]any{
				"batchcomplete": true,
				"continue":      map[string]any{"cmcontinue": "next", "continue": "-||"},
				"query": map[string]any{"categorymembers": []map[string]any{
					{"pageid": 1, "ns": 0, "title": req.CMTitle + " Page A"},
				}},
			}
		case "next":
			if req.Continue != "-||" {
				t.Errorf("continue marker not echoed: %q", req.Continue)
			}
			body = map[string]any{
				"batchcomplete": true,
				"query": map[string]any{"categorymembers": []map[string]any{
					{"pageid": 2, "ns": 14, "title": req.CMTitle + " Subcat"},
				}},
			}
		default:
			t.Errorf("unexpected cmcontinue: %s", req.CMContinue)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(WithEndpoint(server.URL))

	tests := []struct {
		name   string
		input  string
		titles []string
		subcat []bool
	}{
		{
			name:   "aggregates pagination",
			input:  "Category:Museums in Testland",
			titles: []string{"Category:Museums_in_Testland Page A", "Category:Museums_in_Testland Subcat"},
			subcat: []bool{false, true},
		},
		{
			name:   "ampersand stays in the title",
			input:  "Category:Arts & crafts",
			titles: []string{"Category:Arts_&_crafts Page A", "Category:Arts_&_crafts Subcat"},
			subcat: []bool{false, true},
		},
		{
			name:   "hash does not start a fragment",
			input:  "Category:C# programming",
			titles: []string{"Category:C#_programming Page A", "Category:C#_programming Subcat"},
			subcat: []bool{false, true},
		},
		{
			name:   "plus is not read as a space",
			input:  "Category:C++ libraries",
			titles: []string{"Category:C++_libraries Page A", "Category:C++_libraries Subcat"},
			subcat: []bool{false, true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AllCategoryMembers(context.Background(), client, tt.input)
			require.NoError(t, err)
			require.Len(t, got, len(tt.titles))
			for i := range tt.titles {
				assert.Equal(t, tt.titles[i], got[i].Title)
				assert.Equal(t, tt.subcat[i], got[i].IsSubcategory())
			}
		})
	}
}

func TestAllCategories(t *testing.T) {
	doer := &scriptedDoer{responses: []*Response{
		{Continue: &ContinueBlock{Continue: "-||", ACContinue: "Warb"}, Query: QueryBlock{AllCategories: []Category{{Category: "War"}}}},
		{BatchComplete: true, Query: QueryBlock{AllCategories: []Category{{Category: "Warb"}, {Category: "Warc"}}}},
	}}

	got, err := AllCategories(context.Background(), doer, "War")
	require.NoError(t, err)
	assert.Equal(t, []Category{{Category: "War"}, {Category: "Warb"}, {Category: "Warc"}}, got)
	assert.Equal(t, "War", doer.seen[0]["acprefix"])
	assert.Equal(t, "size", doer.seen[0]["acprop"])
}

func TestPageSummary(t *testing.T) {
	doer := &scriptedDoer{responses: []*Response{
		{BatchComplete: true, Query: QueryBlock{Pages: []Page{{Title: "Death", PageID: 8221, Description: "permanent cessation of vital functions"}}}},
		{BatchComplete: true},
	}}

	page, err := PageSummary(context.Background(), doer, "Death")
	require.NoError(t, err)
	assert.Equal(t, int64(8221), page.PageID)
	assert.Equal(t, "description|extracts|info", doer.seen[0]["prop"])
	assert.Equal(t, "true", doer.seen[0]["exintro"])

	_, err = PageSummary(context.Background(), doer, "Nothing")
	assert.Error(t, err)
}

func TestPageSummary_EscapesTitle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := decodeAPIRequest(t, r)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"batchcomplete": true,
			"query": map[string]any{"pages": []map[string]any{
				{"pageid": 72038, "ns": 0, "title": req.Titles},
			}},
		})
	}))
	defer server.Close()

	client := NewClient(WithEndpoint(server.URL))
	for _, title := range []string{"AT&T", "C#", "C++", "100%"} {
		page, err := PageSummary(context.Background(), client, title)
		require.NoError(t, err, title)
		assert.Equal(t, title, page.Title)
	}
}
