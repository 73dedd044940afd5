package wikiquery

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gorilla/schema"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// apiRequest is the subset of parameters the fake API inspects.
type apiRequest struct {
	Action        string `schema:"action"`
	Format        string `schema:"format"`
	FormatVersion string `schema:"formatversion"`
	List          string `schema:"list"`
	Prop          string `schema:"prop"`
	Titles        string `schema:"titles"`
	CMTitle       string `schema:"cmtitle"`
	CMContinue    string `schema:"cmcontinue"`
	ACContinue    string `schema:"accontinue"`
	Continue      string `schema:"continue"`
}

var apiDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

func decodeAPIRequest(t *testing.T, r *http.Request) apiRequest {
	t.Helper()
	var req apiRequest
	if err := apiDecoder.Decode(&req, r.URL.Query()); err != nil {
		t.Errorf("decode query: %v", err)
	}
	return req
}

type rewriteRoundTripper struct{ base *url.URL }

func (r rewriteRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	c := req.Clone(req.Context())
	c.URL.Scheme = r.base.Scheme
	c.URL.Host = r.base.Host
	c.Host = r.base.Host
	return http.DefaultTransport.RoundTrip(c)
}

func newRewritingClient(t *testing.T, serverURL string, opts ...Option) *Client {
	t.Helper()
	u, err := url.Parse(serverURL)
	require.NoError(t, err)
	httpClient := &http.Client{Transport: rewriteRoundTripper{base: u}}
	return NewClient(append([]Option{WithHTTPClient(httpClient), WithUserAgent("test-agent")}, opts...)...)
}

func TestClient_Do(t *testing.T) {
	var gotUA, gotPath string
	var got apiRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotPath = r.URL.Path
		got = decodeAPIRequest(t, r)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(categoryMembersBody))
	}))
	defer server.Close()

	client := newRewritingClient(t, server.URL)
	q := NewQuery()
	q.CategoryMembers().CMTitle("Category:Lists_of_colors")

	resp, err := client.Do(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, "test-agent", gotUA)
	assert.Equal(t, APIPath, gotPath)
	assert.Equal(t, apiRequest{
		Action:        "query",
		Format:        "json",
		FormatVersion: "2",
		List:          "categorymembers",
		CMTitle:       "Category:Lists_of_colors",
	}, got)
	assert.Len(t, resp.Query.CategoryMembers, 2)
}

func TestClient_DoErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		check   func(t *testing.T, err error)
		outcome string
	}{
		{
			name:   "server error envelope",
			status: http.StatusOK,
			body:   `{"error":{"code":"badtitle","info":"Bad title","docref":"See api.php"},"servedby":"mw1"}`,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, "badtitle", apiErr.Code)
			},
			outcome: outcomeAPI,
		},
		{
			name:   "non 2xx status",
			status: http.StatusServiceUnavailable,
			body:   "busy",
			check: func(t *testing.T, err error) {
				var statusErr *StatusError
				require.True(t, errors.As(err, &statusErr))
				assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
			},
			outcome: outcomeStatus,
		},
		{
			name:   "malformed body",
			status: http.StatusOK,
			body:   "<html>",
			check: func(t *testing.T, err error) {
				var decodeErr *DecodeError
				require.True(t, errors.As(err, &decodeErr))
			},
			outcome: outcomeDecode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			metrics := NewMetrics(prometheus.NewRegistry())
			client := NewClient(WithEndpoint(server.URL), WithMetrics(metrics))

			q := NewQuery()
			q.Pages().Titles("X")
			resp, err := client.Do(context.Background(), q)
			require.Error(t, err)
			assert.Nil(t, resp)
			tt.check(t, err)
			assert.Equal(t, float64(1), testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues(tt.outcome)))
		})
	}
}

func TestClient_DoBuildError(t *testing.T) {
	client := NewClient(WithEndpoint("not a url"))
	q := NewQuery()
	q.Pages().Titles("X")

	_, err := client.Do(context.Background(), q)
	var buildErr *BuildError
	assert.True(t, errors.As(err, &buildErr))
}

func TestClient_RateLimitHonorsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(categoryMembersBody))
	}))
	defer server.Close()

	client := NewClient(WithEndpoint(server.URL), WithRateLimit(0.001, 1))
	q := NewQuery()
	q.CategoryMembers().CMTitle("Category:War")

	_, err := client.Do(context.Background(), q)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = client.Do(ctx, q)
	assert.Error(t, err)
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Category:Museums_in_Testland", Title("Category:Museums in Testland"))
	assert.Equal(t, "United+States", Escape("United States"))
	assert.Equal(t, "A%7CB", Escape("A|B"))
}
