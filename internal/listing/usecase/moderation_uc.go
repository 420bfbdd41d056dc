package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pariskandee/real-estate/internal/listing/domain"
	"github.com/pariskandee/real-estate/internal/platform/logger"
	"github.com/pariskandee/real-estate/internal/platform/metrics"
)

// UserResolver maps submitter ids to display emails for the admin table.
type UserResolver interface {
	EmailsByIDs(ctx context.Context, ids []string) (map[string]string, error)
}

// AdminListing is a listing enriched with the resolved submitter identity.
type AdminListing struct {
	*domain.Listing
	PostedByEmail string `json:"postedByEmail,omitempty"`
}

// ModerationUsecase is the admin-only side of the pipeline: full listing
// visibility, the approval gate and cascading deletion.
type ModerationUsecase struct {
	repo      domain.ListingRepository
	storage   domain.Storage
	cache     domain.Cache
	publisher domain.Publisher
	notifier  Notifier
	users     UserResolver
	metrics   *metrics.Manager
	logger    *logger.Logger
}

func NewModerationUsecase(
	repo domain.ListingRepository,
	storage domain.Storage,
	cache domain.Cache,
	publisher domain.Publisher,
	notifier Notifier,
	users UserResolver,
	m *metrics.Manager,
	log *logger.Logger,
) *ModerationUsecase {
	return &ModerationUsecase{
		repo:      repo,
		storage:   storage,
		cache:     cache,
		publisher: publisher,
		notifier:  notifier,
		users:     users,
		metrics:   m,
		logger:    log.Named("moderation"),
	}
}

// List returns every listing regardless of approval state, newest first,
// optionally narrowed by a free-text search, with submitter emails resolved.
func (uc *ModerationUsecase) List(ctx context.Context, filter domain.AdminFilter) ([]*AdminListing, int64, error) {
	listings, total, err := uc.repo.FindAll(ctx, filter)
	if err != nil {
		uc.logger.Error("failed to list listings", zap.String("search", filter.Search), zap.Error(err))
		return nil, 0, err
	}

	ids := make([]string, 0, len(listings))
	for _, l := range listings {
		ids = append(ids, l.PostedBy)
	}
	emails := map[string]string{}
	if uc.users != nil && len(ids) > 0 {
		emails, err = uc.users.EmailsByIDs(ctx, ids)
		if err != nil {
			// Display enrichment only; the listing page still renders.
			uc.logger.Warn("failed to resolve submitter emails", zap.Error(err))
			emails = map[string]string{}
		}
	}

	enriched := make([]*AdminListing, len(listings))
	for i, l := range listings {
		enriched[i] = &AdminListing{Listing: l, PostedByEmail: emails[l.PostedBy]}
	}
	return enriched, total, nil
}

// Approve flips the moderation gate open. Approving an already-approved
// listing is a no-op that still returns the listing.
func (uc *ModerationUsecase) Approve(ctx context.Context, id string) (*domain.Listing, error) {
	listing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			return nil, domain.ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to load listing %s: %w", id, err)
	}

	if listing.IsApproved {
		uc.logger.Info("listing already approved", zap.String("id", id))
		return listing, nil
	}

	listing.IsApproved = true
	listing.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, listing); err != nil {
		return nil, fmt.Errorf("failed to approve listing %s: %w", id, err)
	}

	uc.metrics.ListingsApprovedTotal.Inc()
	uc.invalidate(ctx, id)

	if err := uc.publisher.Publish(ctx, "listing.approved", listing); err != nil {
		uc.logger.Warn("failed to publish listing.approved", zap.String("id", id), zap.Error(err))
	}
	if uc.notifier != nil {
		if err := uc.notifier.SendListingApproved(listing.Contact.Email, listing.Title, listing.Reference); err != nil {
			uc.logger.Warn("failed to send approval mail", zap.String("id", id), zap.Error(err))
		}
	}

	uc.logger.Info("listing approved", zap.String("id", id), zap.String("reference", listing.Reference))
	return listing, nil
}

// Delete removes the listing record, then its images from the media store.
// Media deletion is best-effort: a failed object delete is logged and the
// overall operation still succeeds, per the moderation contract.
func (uc *ModerationUsecase) Delete(ctx context.Context, id string) error {
	listing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			return domain.ErrListingNotFound
		}
		return fmt.Errorf("failed to load listing %s: %w", id, err)
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete listing %s: %w", id, err)
	}

	for _, url := range listing.Images {
		if err := uc.storage.Delete(ctx, url); err != nil {
			uc.logger.Warn("failed to delete listing image", zap.String("id", id), zap.String("url", url), zap.Error(err))
		}
	}

	uc.metrics.ListingsDeletedTotal.Inc()
	uc.invalidate(ctx, id)

	if err := uc.publisher.Publish(ctx, "listing.deleted", map[string]string{"id": id, "reference": listing.Reference}); err != nil {
		uc.logger.Warn("failed to publish listing.deleted", zap.String("id", id), zap.Error(err))
	}

	uc.logger.Info("listing deleted", zap.String("id", id), zap.String("reference", listing.Reference), zap.Int("images", len(listing.Images)))
	return nil
}

func (uc *ModerationUsecase) invalidate(ctx context.Context, id string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeleteListing(ctx, id); err != nil {
		uc.logger.Warn("failed to invalidate listing cache", zap.String("id", id), zap.Error(err))
	}
}
