package repository

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestBuildDealListWhereNumbersPlaceholders(t *testing.T) {
	stage := "won"
	owner := uuid.New()
	where, args, next := buildDealListWhere(ListParams{Stage: &stage, OwnerID: &owner, Search: " acme "})

	want := "TRUE AND stage = $1 AND owner_id = $2 AND title ILIKE $3"
	if where != want {
		t.Fatalf("where = %q, want %q", where, want)
	}
	if len(args) != 3 || next != 4 {
		t.Fatalf("args=%d next=%d", len(args), next)
	}
	if args[2] != "%acme%" {
		t.Fatalf("search arg = %v", args[2])
	}
}

func TestBuildDealListWhereWithoutFilters(t *testing.T) {
	where, args, next := buildDealListWhere(ListParams{})
	if where != "TRUE" || len(args) != 0 || next != 1 {
		t.Fatalf("unexpected %q %v %d", where, args, next)
	}
}

func TestMapDealSortColumnFallsBackToCreatedAt(t *testing.T) {
	if got := mapDealSortColumn("deal_value; DROP TABLE deals"); got != "created_at" {
		t.Fatalf("got %q", got)
	}
	if got := mapDealSortColumn("dealValue"); !strings.EqualFold(got, "deal_value") {
		t.Fatalf("got %q", got)
	}
}
