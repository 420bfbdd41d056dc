package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/pariskandee/real-estate/internal/listing/domain"
	"github.com/pariskandee/real-estate/internal/platform/logger"
	"github.com/pariskandee/real-estate/internal/platform/metrics"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("user not authorized to perform this action")
)

// Notifier sends listing lifecycle mail to the submitter. Implementations
// are best-effort; failures never fail the request.
type Notifier interface {
	SendSubmissionReceived(toEmail, title, reference string) error
	SendListingApproved(toEmail, title, reference string) error
}

// SubmissionPolicy is the deployment-variable part of the intake rules.
type SubmissionPolicy struct {
	MinImages int
	MaxImages int
}

// SubmitUsecase orchestrates listing intake: validation, image upload with
// rollback, reference allocation and persistence.
type SubmitUsecase struct {
	repo      domain.ListingRepository
	storage   domain.Storage
	publisher domain.Publisher
	notifier  Notifier
	policy    SubmissionPolicy
	metrics   *metrics.Manager
	validate  *validator.Validate
	logger    *logger.Logger
}

func NewSubmitUsecase(
	repo domain.ListingRepository,
	storage domain.Storage,
	publisher domain.Publisher,
	notifier Notifier,
	policy SubmissionPolicy,
	m *metrics.Manager,
	log *logger.Logger,
) *SubmitUsecase {
	return &SubmitUsecase{
		repo:      repo,
		storage:   storage,
		publisher: publisher,
		notifier:  notifier,
		policy:    policy,
		metrics:   m,
		validate:  newValidator(),
		logger:    log.Named("submit"),
	}
}

// Submit creates an unapproved listing for the authenticated caller, or
// fails without leaving orphaned media behind.
func (uc *SubmitUsecase) Submit(ctx context.Context, callerID, callerIP string, in *SubmitInput) (*domain.Listing, error) {
	if callerID == "" {
		return nil, ErrUnauthenticated
	}

	if verr := validateSubmit(uc.validate, in, uc.policy.MinImages, uc.policy.MaxImages); verr != nil {
		uc.logger.Info("submission rejected by validation",
			zap.String("user_id", callerID), zap.Int("violations", len(verr.Fields)))
		return nil, verr
	}

	urls, err := uc.uploadAll(ctx, in.Images)
	if err != nil {
		uc.rollbackUploads(ctx, urls)
		return nil, fmt.Errorf("image upload failed: %w", err)
	}

	reference, err := uc.repo.NextReference(ctx)
	if err != nil {
		uc.rollbackUploads(ctx, urls)
		return nil, fmt.Errorf("failed to allocate reference: %w", err)
	}

	location := domain.NewGeoPoint(0, 0)
	if len(in.Coordinates) == 2 {
		location = domain.NewGeoPoint(in.Coordinates[0], in.Coordinates[1])
	} else {
		uc.logger.Warn("submission without coordinates, defaulting location to [0,0]",
			zap.String("user_id", callerID), zap.String("reference", reference))
	}

	now := time.Now()
	listing := &domain.Listing{
		Reference:       reference,
		Title:           in.Title,
		Description:     in.Description,
		Price:           in.Price,
		PropertyType:    domain.PropertyType(in.PropertyType),
		TransactionType: domain.TransactionType(in.TransactionType),
		Rooms:           in.Rooms,
		Bedrooms:        in.Bedrooms,
		Bathrooms:       in.Bathrooms,
		Surface:         in.Surface,
		DPE:             in.DPE,
		Address: domain.Address{
			Street:     in.Address.Street,
			City:       in.Address.City,
			PostalCode: in.Address.PostalCode,
			Country:    in.Address.Country,
		},
		Contact: domain.Contact{
			Name:  in.Contact.Name,
			Phone: in.Contact.Phone,
			Email: in.Contact.Email,
		},
		Location:   location,
		Images:     urls,
		Features:   in.Features,
		IsApproved: false,
		PostedBy:   callerID,
		UserIP:     callerIP,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := uc.repo.Create(ctx, listing); err != nil {
		uc.logger.Error("failed to persist listing, compensating uploaded media",
			zap.String("reference", reference), zap.Error(err))
		uc.rollbackUploads(ctx, urls)
		return nil, fmt.Errorf("failed to persist listing: %w", err)
	}

	uc.metrics.ListingsSubmittedTotal.Inc()

	if err := uc.publisher.Publish(ctx, "listing.created", listing); err != nil {
		uc.logger.Warn("failed to publish listing.created", zap.String("id", listing.ID), zap.Error(err))
	}
	if uc.notifier != nil {
		if err := uc.notifier.SendSubmissionReceived(listing.Contact.Email, listing.Title, listing.Reference); err != nil {
			uc.logger.Warn("failed to send submission mail", zap.String("reference", reference), zap.Error(err))
		}
	}

	uc.logger.Info("listing submitted",
		zap.String("id", listing.ID),
		zap.String("reference", reference),
		zap.String("user_id", callerID),
		zap.Int("images", len(urls)))
	return listing, nil
}

// uploadAll pushes every image to the media store concurrently. It always
// returns the URLs that did complete so the caller can compensate; err is
// the first failure observed.
func (uc *SubmitUsecase) uploadAll(ctx context.Context, images []ImageUpload) ([]string, error) {
	results := make([]string, len(images))
	errs := make([]error, len(images))

	var wg sync.WaitGroup
	for i, img := range images {
		wg.Add(1)
		go func(i int, img ImageUpload) {
			defer wg.Done()
			url, err := uc.storage.Upload(ctx, img.FileName, img.Data)
			results[i], errs[i] = url, err
		}(i, img)
	}
	wg.Wait()

	uploaded := make([]string, 0, len(images))
	var firstErr error
	for i := range images {
		if errs[i] != nil {
			if firstErr == nil {
				firstErr = errs[i]
			}
			continue
		}
		uploaded = append(uploaded, results[i])
	}
	return uploaded, firstErr
}

// rollbackUploads deletes every object uploaded during this request.
// Compensation is idempotent and best-effort: failures are logged, not
// escalated.
func (uc *SubmitUsecase) rollbackUploads(ctx context.Context, urls []string) {
	if len(urls) == 0 {
		return
	}
	uc.metrics.UploadRollbacksTotal.Inc()
	for _, url := range urls {
		if err := uc.storage.Delete(ctx, url); err != nil {
			uc.logger.Warn("rollback: failed to delete uploaded image", zap.String("url", url), zap.Error(err))
		}
	}
}
