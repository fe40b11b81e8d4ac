package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
	"github.com/zatekoja/matchsafe/internal/domain/entities"
	"github.com/zatekoja/matchsafe/internal/domain/repositories"
	tsclient "github.com/zatekoja/matchsafe/internal/infrastructure/clients/typesense"
)

const collectionName = tsclient.ProfilesCollection

// TypesenseAdapter implements candidate recall using Typesense. Only
// categorical facets are indexed; behavioral flags never leave Postgres,
// so every hit is hydrated through the profile repository before the
// pipeline sees it.
type TypesenseAdapter struct {
	client   *tsclient.Client
	profiles repositories.ProfileRepository
}

// Ensure TypesenseAdapter implements CandidateSource
var _ repositories.CandidateSource = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client, profiles repositories.ProfileRepository) *TypesenseAdapter {
	return &TypesenseAdapter{client: client, profiles: profiles}
}

// InitSchema ensures the collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	return a.client.InitSchema(ctx)
}

// Index indexes a profile's searchable facets
func (a *TypesenseAdapter) Index(ctx context.Context, profile *entities.Profile) error {
	document := map[string]interface{}{
		"id":           profile.ID,
		"interests":    buildFacetTokens(profile.Features.Interests),
		"values":       buildFacetTokens(profile.Features.Values),
		"demographics": buildDemographicTokens(profile.Features.Demographics),
		"is_active":    profile.IsActive,
		"created_at":   profile.CreatedAt.Unix(),
	}

	_, err := a.client.Client().Collection(collectionName).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index profile: %w", err)
	}

	return nil
}

// Delete removes a profile from the index
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	_, err := a.client.Client().Collection(collectionName).Document(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete profile from index: %w", err)
	}
	return nil
}

// Retrieve recalls candidate profiles sharing the requester's interests,
// most relevant first, hydrated from the profile store.
func (a *TypesenseAdapter) Retrieve(ctx context.Context, params repositories.CandidateParams) ([]*entities.Profile, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 100
	}

	query := "*"
	if len(params.Interests) > 0 {
		query = strings.Join(buildFacetTokens(params.Interests), " ")
	}

	searchParams := &api.SearchCollectionParams{
		Q:        pointer.String(query),
		QueryBy:  pointer.String("interests,values"),
		FilterBy: pointer.String(fmt.Sprintf("is_active:=true && id:!=%s", params.RequesterID)),
		PerPage:  pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(collectionName).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search candidates: %w", err)
	}

	ids := make([]string, 0, limit)
	for _, hit := range *result.Hits {
		doc := *hit.Document
		if id, ok := doc["id"].(string); ok {
			ids = append(ids, id)
		}
	}

	profiles, err := a.profiles.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to hydrate candidates: %w", err)
	}

	// Hit position carries the recall score: decay monotonically so the
	// pipeline can seed diversification from retrieval order.
	for i, p := range profiles {
		p.Relevance = 1.0 / float64(i+1)
	}

	return profiles, nil
}

// buildFacetTokens normalizes facet values for indexing and querying.
func buildFacetTokens(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	tokens := make([]string, 0, len(values))
	for _, v := range values {
		t := strings.ToLower(strings.TrimSpace(v))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		tokens = append(tokens, t)
	}
	return tokens
}

// buildDemographicTokens flattens demographic facets to "key:value" tokens.
func buildDemographicTokens(demographics map[string]string) []string {
	tokens := make([]string, 0, len(demographics))
	for k, v := range demographics {
		tokens = append(tokens, strings.ToLower(strings.TrimSpace(k))+":"+strings.ToLower(strings.TrimSpace(v)))
	}
	sort.Strings(tokens)
	return tokens
}
