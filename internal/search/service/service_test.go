package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"leadflow_backend/internal/search/repository"
	"leadflow_backend/internal/search/transport"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/identity"

	"github.com/google/uuid"
)

type fakeSearcher struct {
	pattern string
	query   string
	limit   int
	results []repository.SearchResult
	err     error
}

func (f *fakeSearcher) GlobalSearch(_ context.Context, pattern, query string, limit int) ([]repository.SearchResult, error) {
	f.pattern, f.query, f.limit = pattern, query, limit
	return f.results, f.err
}

func TestLikePatternEscapesWildcards(t *testing.T) {
	cases := map[string]string{
		"acme":    "%acme%",
		"50%":     `%50\%%`,
		"a_b":     `%a\_b%`,
		`back\sl`: `%back\\sl%`,
	}
	for in, want := range cases {
		if got := likePattern(in); got != want {
			t.Fatalf("likePattern(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGlobalSearchMapsResults(t *testing.T) {
	dealID := uuid.New()
	repo := &fakeSearcher{results: []repository.SearchResult{
		{ID: dealID, Type: "deal", Title: "Website", Status: "won", Score: 0.5, CreatedAt: time.Now(), Total: 3},
	}}
	svc := New(repo)

	resp, err := svc.GlobalSearch(context.Background(), identity.New(uuid.New(), nil), transport.SearchRequest{Query: "  web  "})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if repo.query != "web" || repo.pattern != "%web%" || repo.limit != defaultLimit {
		t.Fatalf("unexpected repository call: %+v", repo)
	}
	if resp.Total != 3 || len(resp.Items) != 1 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.Items[0].Link != "/deals/"+dealID.String() {
		t.Fatalf("unexpected link %q", resp.Items[0].Link)
	}
}

func TestGlobalSearchErrors(t *testing.T) {
	svc := New(&fakeSearcher{err: errors.New("boom")})

	if _, err := svc.GlobalSearch(context.Background(), identity.Anonymous(), transport.SearchRequest{Query: "acme"}); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, err := svc.GlobalSearch(context.Background(), identity.New(uuid.New(), nil), transport.SearchRequest{Query: "acme"}); !apperr.Is(err, apperr.KindInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
}
