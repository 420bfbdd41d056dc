package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/pariskandee/real-estate/internal/listing/domain"
	"github.com/pariskandee/real-estate/internal/platform/logger"
)

// PagePolicy bounds caller-supplied pagination.
type PagePolicy struct {
	DefaultPageSize int
	MaxPageSize     int
}

// Page is one page of browse results.
type Page struct {
	Items       []*domain.Listing `json:"items"`
	TotalPages  int64             `json:"totalPages"`
	CurrentPage int               `json:"currentPage"`
}

// QueryUsecase serves the public, unauthenticated read side. Browse only
// ever sees approved listings.
type QueryUsecase struct {
	repo   domain.ListingRepository
	cache  domain.Cache
	policy PagePolicy
	logger *logger.Logger
}

func NewQueryUsecase(repo domain.ListingRepository, cache domain.Cache, policy PagePolicy, log *logger.Logger) *QueryUsecase {
	return &QueryUsecase{
		repo:   repo,
		cache:  cache,
		policy: policy,
		logger: log.Named("query"),
	}
}

// Browse returns a page of approved listings matching the filter.
func (uc *QueryUsecase) Browse(ctx context.Context, filter domain.BrowseFilter) (*Page, error) {
	filter.Page, filter.PageSize = uc.clamp(filter.Page, filter.PageSize)

	listings, total, err := uc.repo.FindApproved(ctx, filter)
	if err != nil {
		uc.logger.Error("browse query failed", zap.Error(err))
		return nil, fmt.Errorf("failed to browse listings: %w", err)
	}
	if listings == nil {
		listings = []*domain.Listing{}
	}

	return &Page{
		Items:       listings,
		TotalPages:  int64(math.Ceil(float64(total) / float64(filter.PageSize))),
		CurrentPage: filter.Page,
	}, nil
}

// GetByID fetches one listing through the cache. Unapproved listings are
// visible only to their owner and to admins; everyone else gets not-found
// so the moderation gate cannot be probed by id.
func (uc *QueryUsecase) GetByID(ctx context.Context, id, callerID string, isAdmin bool) (*domain.Listing, error) {
	listing, err := uc.fromCache(ctx, id)
	if err != nil || listing == nil {
		listing, err = uc.repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrListingNotFound) {
				return nil, domain.ErrListingNotFound
			}
			return nil, fmt.Errorf("failed to fetch listing %s: %w", id, err)
		}
		uc.toCache(ctx, listing)
	}

	if !listing.IsApproved && !isAdmin && listing.PostedBy != callerID {
		return nil, domain.ErrListingNotFound
	}
	return listing, nil
}

// ByOwner returns every listing submitted by the given user, pending ones
// included. Callers may only read their own unless they are admins.
func (uc *QueryUsecase) ByOwner(ctx context.Context, ownerID, callerID string, isAdmin bool) ([]*domain.Listing, error) {
	if callerID != ownerID && !isAdmin {
		return nil, ErrForbidden
	}
	listings, err := uc.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listings for user %s: %w", ownerID, err)
	}
	if listings == nil {
		listings = []*domain.Listing{}
	}
	return listings, nil
}

func (uc *QueryUsecase) clamp(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = uc.policy.DefaultPageSize
	}
	if size > uc.policy.MaxPageSize {
		size = uc.policy.MaxPageSize
	}
	return page, size
}

func (uc *QueryUsecase) fromCache(ctx context.Context, id string) (*domain.Listing, error) {
	if uc.cache == nil {
		return nil, nil
	}
	listing, err := uc.cache.GetListing(ctx, id)
	if err != nil {
		uc.logger.Warn("listing cache read failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return listing, nil
}

func (uc *QueryUsecase) toCache(ctx context.Context, listing *domain.Listing) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.SetListing(ctx, listing); err != nil {
		uc.logger.Warn("listing cache write failed", zap.String("id", listing.ID), zap.Error(err))
	}
}
