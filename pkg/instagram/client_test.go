package instagram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"igstats/pkg/errors"
	"igstats/pkg/logger"
)

func newTestClient(serverURL string) *Client {
	c := NewClient(5*time.Second, logger.NewNopLogger())
	c.SetBaseURL(serverURL)
	return c
}

func TestFetchUserProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != ProfileEndpoint {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("username"); got != "natgeo" {
			t.Errorf("expected username natgeo, got %s", got)
		}
		w.Write([]byte(`{
			"data": {
				"user": {
					"id": "787132",
					"username": "natgeo",
					"full_name": "National Geographic",
					"is_private": false,
					"edge_followed_by": {"count": 283000000},
					"edge_owner_to_timeline_media": {"count": 29000}
				}
			},
			"status": "ok"
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	resp, err := client.FetchUserProfile(context.Background(), "natgeo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	user := resp.Data.User
	if user.ID != "787132" {
		t.Errorf("expected user ID 787132, got %s", user.ID)
	}
	if user.EdgeFollowedBy.Count != 283000000 {
		t.Errorf("expected 283M followers, got %d", user.EdgeFollowedBy.Count)
	}
}

func TestFetchUserProfileRequiresLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"requires_to_login": true, "status": "ok"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.FetchUserProfile(context.Background(), "private_user")
	if errors.TypeOf(err) != errors.ErrorTypeAuth {
		t.Errorf("expected auth error, got %v", err)
	}
}

func TestStatusCodeMapping(t *testing.T) {
	tests := []struct {
		status int
		want   errors.ErrorType
	}{
		{http.StatusUnauthorized, errors.ErrorTypeAuth},
		{http.StatusForbidden, errors.ErrorTypeAuth},
		{http.StatusNotFound, errors.ErrorTypeNotFound},
		{http.StatusTooManyRequests, errors.ErrorTypeRateLimit},
		{http.StatusInternalServerError, errors.ErrorTypeServerError},
		{http.StatusBadGateway, errors.ErrorTypeServerError},
		{http.StatusTeapot, errors.ErrorTypeUnknown},
	}

	for _, tt := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))

		client := newTestClient(server.URL)
		_, err := client.FetchUserProfile(context.Background(), "someone")
		if errors.TypeOf(err) != tt.want {
			t.Errorf("status %d: expected %s error, got %v", tt.status, tt.want, err)
		}
		server.Close()
	}
}

func TestFetchUserMediaPagination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("query_hash"); got != MediaQueryHash {
			t.Errorf("expected query hash %s, got %s", MediaQueryHash, got)
		}
		w.Write([]byte(`{
			"data": {
				"user": {
					"edge_owner_to_timeline_media": {
						"count": 100,
						"page_info": {"has_next_page": true, "end_cursor": "abc123"},
						"edges": [
							{"node": {
								"id": "1",
								"shortcode": "Cxyz",
								"taken_at_timestamp": 1709290800,
								"edge_liked_by": {"count": 500},
								"edge_media_to_comment": {"count": 42},
								"edge_media_to_caption": {"edges": [{"node": {"text": "sunset #nofilter"}}]}
							}}
						]
					}
				}
			},
			"status": "ok"
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	resp, err := client.FetchUserMedia(context.Background(), "787132", "", 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	media := resp.Data.User.EdgeOwnerToTimelineMedia
	if !media.PageInfo.HasNextPage {
		t.Error("expected has_next_page true")
	}
	if media.PageInfo.EndCursor != "abc123" {
		t.Errorf("expected cursor abc123, got %s", media.PageInfo.EndCursor)
	}
	if len(media.Edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(media.Edges))
	}

	node := media.Edges[0].Node
	if node.EdgeLikedBy.Count != 500 {
		t.Errorf("expected 500 likes, got %d", node.EdgeLikedBy.Count)
	}
	if node.Caption() != "sunset #nofilter" {
		t.Errorf("unexpected caption: %q", node.Caption())
	}
}

func TestMalformedJSONIsParsingError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.FetchUserProfile(context.Background(), "someone")
	if errors.TypeOf(err) != errors.ErrorTypeParsing {
		t.Errorf("expected parsing error, got %v", err)
	}
}

func TestCancellationPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	client := newTestClient(server.URL)
	_, err := client.FetchUserProfile(ctx, "someone")
	if err == nil {
		t.Fatal("expected error from cancelled request")
	}
	if errors.TypeOf(err) != errors.ErrorTypeUnknown {
		t.Errorf("cancellation must not be typed as a network fault, got %v", err)
	}
}

func TestUsernameHelpers(t *testing.T) {
	if !IsValidUsername("nat_geo.2024") {
		t.Error("expected valid username")
	}
	if IsValidUsername("bad user!") {
		t.Error("expected invalid username")
	}
	if IsValidUsername("") {
		t.Error("expected empty username to be invalid")
	}

	if got := SanitizeUsername("@natgeo/ "); got != "natgeo" {
		t.Errorf("expected natgeo, got %q", got)
	}
}
