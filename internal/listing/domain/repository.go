package domain

import "context"

// ListingRepository persists listings in the document store.
type ListingRepository interface {
	Create(ctx context.Context, listing *Listing) error
	Update(ctx context.Context, listing *Listing) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Listing, error)
	FindApproved(ctx context.Context, filter BrowseFilter) ([]*Listing, int64, error)
	FindAll(ctx context.Context, filter AdminFilter) ([]*Listing, int64, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*Listing, error)
	// NextReference atomically allocates the next human-readable reference
	// number. Safe under concurrent submitters.
	NextReference(ctx context.Context) (string, error)
}

// Storage is the media store holding listing images.
type Storage interface {
	Upload(ctx context.Context, fileName string, data []byte) (string, error)
	// Delete removes the object behind a URL previously returned by Upload.
	// Deleting an object that is already gone is not an error.
	Delete(ctx context.Context, url string) error
}

// Publisher emits listing lifecycle events to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

// Cache is a read-through cache for single listings.
type Cache interface {
	GetListing(ctx context.Context, id string) (*Listing, error)
	SetListing(ctx context.Context, listing *Listing) error
	DeleteListing(ctx context.Context, id string) error
}
