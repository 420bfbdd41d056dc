package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pariskandee/real-estate/internal/listing/domain"
	"github.com/pariskandee/real-estate/internal/platform/logger"
)

// EditInput carries the mutable fields of a listing. Nil pointers leave the
// current value untouched. Reference, images, approval state and provenance
// cannot be changed through an edit.
type EditInput struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Price       *float64       `json:"price"`
	Rooms       *int           `json:"rooms"`
	Bedrooms    *int           `json:"bedrooms"`
	Bathrooms   *int           `json:"bathrooms"`
	Surface     *int           `json:"surface"`
	DPE         *string        `json:"dpe"`
	Features    *[]string      `json:"features"`
	Contact     *SubmitContact `json:"contact"`
}

// EditUsecase lets the owner (or an admin) amend a listing after
// submission.
type EditUsecase struct {
	repo   domain.ListingRepository
	cache  domain.Cache
	logger *logger.Logger
}

func NewEditUsecase(repo domain.ListingRepository, cache domain.Cache, log *logger.Logger) *EditUsecase {
	return &EditUsecase{repo: repo, cache: cache, logger: log.Named("edit")}
}

func (uc *EditUsecase) Update(ctx context.Context, id, callerID string, isAdmin bool, in *EditInput) (*domain.Listing, error) {
	listing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			return nil, domain.ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to load listing %s: %w", id, err)
	}

	if listing.PostedBy != callerID && !isAdmin {
		uc.logger.Warn("edit forbidden",
			zap.String("id", id), zap.String("owner", listing.PostedBy), zap.String("caller", callerID))
		return nil, ErrForbidden
	}

	if verr := validateEdit(in); verr != nil {
		return nil, verr
	}

	if in.Title != nil {
		listing.Title = *in.Title
	}
	if in.Description != nil {
		listing.Description = *in.Description
	}
	if in.Price != nil {
		listing.Price = *in.Price
	}
	if in.Rooms != nil {
		listing.Rooms = *in.Rooms
	}
	if in.Bedrooms != nil {
		listing.Bedrooms = *in.Bedrooms
	}
	if in.Bathrooms != nil {
		listing.Bathrooms = *in.Bathrooms
	}
	if in.Surface != nil {
		listing.Surface = *in.Surface
	}
	if in.DPE != nil {
		listing.DPE = *in.DPE
	}
	if in.Features != nil {
		listing.Features = *in.Features
	}
	if in.Contact != nil {
		listing.Contact = domain.Contact{
			Name:  in.Contact.Name,
			Phone: in.Contact.Phone,
			Email: in.Contact.Email,
		}
	}
	listing.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, listing); err != nil {
		return nil, fmt.Errorf("failed to update listing %s: %w", id, err)
	}

	if uc.cache != nil {
		if err := uc.cache.DeleteListing(ctx, id); err != nil {
			uc.logger.Warn("failed to invalidate listing cache", zap.String("id", id), zap.Error(err))
		}
	}

	uc.logger.Info("listing updated", zap.String("id", id), zap.String("caller", callerID))
	return listing, nil
}

// validateEdit enforces the same bounds as submission on any field that is
// actually being changed.
func validateEdit(in *EditInput) *domain.ValidationError {
	var fields []domain.FieldError
	add := func(field, msg string) {
		fields = append(fields, domain.FieldError{Field: field, Message: msg})
	}

	if in.Title != nil && *in.Title == "" {
		add("title", fieldMessages["title"])
	}
	if in.Description != nil && *in.Description == "" {
		add("description", fieldMessages["description"])
	}
	if in.Price != nil && *in.Price < 0 {
		add("price", fieldMessages["price"])
	}
	if in.Rooms != nil && *in.Rooms < 1 {
		add("rooms", fieldMessages["rooms"])
	}
	if in.Bedrooms != nil && *in.Bedrooms < 0 {
		add("bedrooms", fieldMessages["bedrooms"])
	}
	if in.Bathrooms != nil && *in.Bathrooms < 0 {
		add("bathrooms", fieldMessages["bathrooms"])
	}
	if in.Surface != nil && *in.Surface < 1 {
		add("surface", fieldMessages["surface"])
	}
	if in.DPE != nil && !validDPE(*in.DPE) {
		add("dpe", fieldMessages["dpe"])
	}
	if in.Contact != nil {
		if in.Contact.Name == "" {
			add("contact.name", fieldMessages["contact.name"])
		}
		if in.Contact.Phone == "" {
			add("contact.phone", fieldMessages["contact.phone"])
		}
		if in.Contact.Email == "" {
			add("contact.email", fieldMessages["contact.email"])
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return &domain.ValidationError{Fields: fields}
}

func validDPE(v string) bool {
	switch v {
	case "A", "B", "C", "D", "E", "F", "G":
		return true
	}
	return false
}
