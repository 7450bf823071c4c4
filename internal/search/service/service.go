package service

import (
	"context"
	"strings"

	"leadflow_backend/internal/search/repository"
	"leadflow_backend/internal/search/transport"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/identity"
)

const defaultLimit = 10

type Service struct {
	repo repository.Searcher
}

func New(repo repository.Searcher) *Service {
	return &Service{repo: repo}
}

func (s *Service) GlobalSearch(ctx context.Context, id identity.Identity, req transport.SearchRequest) (transport.SearchResponse, error) {
	if err := identity.Require(id); err != nil {
		return transport.SearchResponse{}, err
	}

	q := strings.TrimSpace(req.Query)
	if q == "" {
		return transport.SearchResponse{Items: []transport.SearchResultItem{}}, nil
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	results, err := s.repo.GlobalSearch(ctx, likePattern(q), q, limit)
	if err != nil {
		appErr := apperr.Internal("search failed").WithOp("search.GlobalSearch")
		appErr.Err = err
		return transport.SearchResponse{}, appErr
	}

	total := 0
	if len(results) > 0 {
		total = int(results[0].Total)
	}

	items := make([]transport.SearchResultItem, len(results))
	for i, r := range results {
		items[i] = transport.SearchResultItem{
			ID:           r.ID.String(),
			Type:         r.Type,
			Title:        r.Title,
			Subtitle:     r.Subtitle,
			Status:       r.Status,
			Link:         buildFrontendLink(r.Type, r.ID.String()),
			Score:        float64(r.Score),
			MatchedField: r.MatchedField,
			CreatedAt:    r.CreatedAt,
		}
	}

	return transport.SearchResponse{Items: items, Total: total}, nil
}

// likePattern wraps q for a contains match with LIKE wildcards escaped.
func likePattern(q string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(q)
	return "%" + escaped + "%"
}

func buildFrontendLink(entityType, id string) string {
	switch entityType {
	case "lead":
		return "/leads/" + id
	case "deal":
		return "/deals/" + id
	case "task":
		return "/tasks/" + id
	default:
		return "/"
	}
}
