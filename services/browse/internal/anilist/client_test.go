package anilist

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/example/anime-browser/services/browse/internal/domain"
)

type capturedRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// fakeAniList answers every POST with status/body and records the request.
func fakeAniList(t *testing.T, status int, body string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	var got capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected json content type, got %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func TestTrending_OK(t *testing.T) {
	srv, req := fakeAniList(t, http.StatusOK, `{"data":{"Page":{"media":[
		{"id":1,"title":{"romaji":"A","english":null},"coverImage":{"extraLarge":"u1","large":"l1"},"averageScore":80},
		null,
		{"id":2,"title":{"romaji":"B","english":"Bee"},"coverImage":{"extraLarge":"u2","large":"l2"},"averageScore":null,"description":"<i>x</i>"}
	]}}}`)
	c := New(srv.URL, ClientConfig{})

	list, err := c.Trending(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 anime (null skipped), got %d", len(list))
	}
	want := domain.Anime{ID: 1, Title: "A", CoverURL: "u1", Rating: 80, Description: NoDescription}
	if list[0] != want {
		t.Fatalf("got %+v, want %+v", list[0], want)
	}
	if list[1].Title != "Bee" || list[1].Rating != 0 || list[1].Description != "<i>x</i>" {
		t.Fatalf("unexpected second item: %+v", list[1])
	}
	if !strings.Contains(req.Query, "TRENDING_DESC") {
		t.Fatalf("expected trending sort in query, got %q", req.Query)
	}
	if req.Variables["perPage"] != float64(10) || req.Variables["page"] != float64(1) {
		t.Fatalf("unexpected variables: %v", req.Variables)
	}
}

func TestSeasonal_Variables(t *testing.T) {
	srv, req := fakeAniList(t, http.StatusOK, `{"data":{"Page":{"media":[]}}}`)
	c := New(srv.URL, ClientConfig{})

	list, err := c.Seasonal(context.Background(), "winter", 2026)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("expected empty non-nil list, got %v", list)
	}
	if req.Variables["season"] != "WINTER" || req.Variables["year"] != float64(2026) || req.Variables["perPage"] != float64(20) {
		t.Fatalf("unexpected variables: %v", req.Variables)
	}
	if !strings.Contains(req.Query, "POPULARITY_DESC") {
		t.Fatalf("expected popularity sort, got %q", req.Query)
	}
}

func TestSeasonal_InvalidSeason(t *testing.T) {
	c := New("http://127.0.0.1:1", ClientConfig{})
	_, err := c.Seasonal(context.Background(), "AUTUMN", 2026)
	if !errors.Is(err, domain.ErrUnknown) {
		t.Fatalf("expected ErrUnknown, got %v", err)
	}
}

func TestDetails_OK(t *testing.T) {
	srv, req := fakeAniList(t, http.StatusOK, `{"data":{"Media":{"id":151807,
		"title":{"romaji":"Ore dake Level Up na Ken","english":"Solo Leveling"},
		"coverImage":{"extraLarge":"xl","large":"l"},"averageScore":83,"description":"Arise.",
		"bannerImage":"banner","status":"FINISHED","season":"WINTER","seasonYear":2024,"nextAiringEpisode":null}}}`)
	c := New(srv.URL, ClientConfig{})

	a, err := c.Details(context.Background(), 151807)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ID != 151807 || a.Title != "Solo Leveling" || a.SeasonYear != "2024" || a.BannerURL != "banner" {
		t.Fatalf("unexpected anime: %+v", a)
	}
	if req.Variables["id"] != float64(151807) {
		t.Fatalf("unexpected variables: %v", req.Variables)
	}
}

func TestDetails_NullMedia(t *testing.T) {
	srv, _ := fakeAniList(t, http.StatusOK, `{"data":{"Media":null}}`)
	c := New(srv.URL, ClientConfig{})

	_, err := c.Details(context.Background(), 5)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDetails_Status404(t *testing.T) {
	srv, _ := fakeAniList(t, http.StatusNotFound, `{"errors":[{"message":"Not Found.","status":404}],"data":{"Media":null}}`)
	c := New(srv.URL, ClientConfig{})

	_, err := c.Details(context.Background(), 5)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "Not Found.") {
		t.Fatalf("expected remote message to be preserved, got %q", err.Error())
	}
}

func TestDetails_NonPositiveID(t *testing.T) {
	c := New("http://127.0.0.1:1", ClientConfig{})
	_, err := c.Details(context.Background(), 0)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestQuery_ServerError(t *testing.T) {
	srv, _ := fakeAniList(t, http.StatusInternalServerError, `oops`)
	c := New(srv.URL, ClientConfig{})

	_, err := c.Trending(context.Background())
	if !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	if !strings.Contains(err.Error(), "status 500") {
		t.Fatalf("expected status in message, got %q", err.Error())
	}
}

func TestQuery_BadJSON(t *testing.T) {
	srv, _ := fakeAniList(t, http.StatusOK, `{"data":{"Page":{"media":"nope"}}}`)
	c := New(srv.URL, ClientConfig{})

	_, err := c.Trending(context.Background())
	if !errors.Is(err, domain.ErrDeserialization) {
		t.Fatalf("expected ErrDeserialization, got %v", err)
	}
}

func TestQuery_GraphQLErrorWithoutData(t *testing.T) {
	srv, _ := fakeAniList(t, http.StatusOK, `{"errors":[{"message":"Syntax Error"}],"data":null}`)
	c := New(srv.URL, ClientConfig{})

	_, err := c.Trending(context.Background())
	if !errors.Is(err, domain.ErrUnknown) {
		t.Fatalf("expected ErrUnknown, got %v", err)
	}
	if !strings.Contains(err.Error(), "Syntax Error") {
		t.Fatalf("expected graphql message, got %q", err.Error())
	}
}

func TestQuery_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, ClientConfig{})
	_, err := c.Trending(context.Background())
	if !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestAiringSchedule_InclusiveWindow(t *testing.T) {
	srv, req := fakeAniList(t, http.StatusOK, `{"data":{"Page":{"airingSchedules":[
		{"id":9,"episode":3,"airingAt":1000,"media":{"id":7,"title":{"romaji":"R"}}},
		{"id":10,"episode":1,"airingAt":2000,"media":null}
	]}}}`)
	c := New(srv.URL, ClientConfig{})

	list, err := c.AiringSchedule(context.Background(), 1000, 2000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].ID != 7 {
		t.Fatalf("unexpected list: %+v", list)
	}
	if req.Variables["start"] != float64(999) || req.Variables["end"] != float64(2001) {
		t.Fatalf("expected widened bounds, got %v", req.Variables)
	}
}

func TestAiringSchedule_InvertedWindow(t *testing.T) {
	c := New("http://127.0.0.1:1", ClientConfig{})
	list, err := c.AiringSchedule(context.Background(), 10, 5)
	if err != nil || len(list) != 0 {
		t.Fatalf("expected empty list without error, got %v, %v", list, err)
	}
}

func TestAiringSchedule_SaturatedBounds(t *testing.T) {
	cases := []struct {
		name       string
		start, end int64
		lo, hi     float64
	}{
		{"open end", 100, math.MaxInt64, 99, math.MaxInt32},
		{"negative start", math.MinInt64, 50, -1, 51},
		{"end at int32 max", 0, math.MaxInt32, -1, math.MaxInt32},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv, req := fakeAniList(t, http.StatusOK, `{"data":{"Page":{"airingSchedules":[]}}}`)
			c := New(srv.URL, ClientConfig{})

			if _, err := c.AiringSchedule(context.Background(), tc.start, tc.end); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if req.Variables["start"] != tc.lo || req.Variables["end"] != tc.hi {
				t.Fatalf("expected %v..%v, got %v", tc.lo, tc.hi, req.Variables)
			}
		})
	}
}

func TestAiringSchedule_OutOfRangeWindow(t *testing.T) {
	c := New("http://127.0.0.1:1", ClientConfig{})
	for _, w := range [][2]int64{{math.MaxInt32 + 1, math.MaxInt64}, {math.MinInt64, -1}} {
		list, err := c.AiringSchedule(context.Background(), w[0], w[1])
		if err != nil || len(list) != 0 {
			t.Fatalf("window %v: expected empty list without a request, got %v, %v", w, list, err)
		}
	}
}

func TestRecommendations_OK(t *testing.T) {
	srv, req := fakeAniList(t, http.StatusOK, `{"data":{"Media":{"id":1,"recommendations":{"nodes":[
		{"mediaRecommendation":{"id":2,"title":{"english":"Two"}}},
		{"mediaRecommendation":null},
		null
	]}}}}`)
	c := New(srv.URL, ClientConfig{})

	list, err := c.Recommendations(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].Title != "Two" {
		t.Fatalf("unexpected list: %+v", list)
	}
	if !strings.Contains(req.Query, "mediaRecommendation") {
		t.Fatalf("unexpected query %q", req.Query)
	}
}

func TestRecommendations_NoConnection(t *testing.T) {
	srv, _ := fakeAniList(t, http.StatusOK, `{"data":{"Media":{"id":1,"recommendations":null}}}`)
	c := New(srv.URL, ClientConfig{})

	list, err := c.Recommendations(context.Background(), 1)
	if err != nil || len(list) != 0 {
		t.Fatalf("expected empty list, got %v, %v", list, err)
	}
}
