package usecase

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pariskandee/real-estate/internal/listing/domain"
	"github.com/pariskandee/real-estate/internal/platform/logger"
	"github.com/pariskandee/real-estate/internal/platform/metrics"
)

func validSubmitInput(imageCount int) *SubmitInput {
	in := &SubmitInput{
		Title:           "Charming house near the river",
		Description:     "Bright, recently renovated, close to shops.",
		Price:           250000,
		PropertyType:    "house",
		TransactionType: "sale",
		Rooms:           4,
		Bedrooms:        3,
		Bathrooms:       1,
		Surface:         90,
		DPE:             "C",
		Address: SubmitAddress{
			Street:     "12 rue des Lilas",
			City:       "Nantes",
			PostalCode: "44000",
			Country:    "France",
		},
		Contact: SubmitContact{
			Name:  "Marie Dupont",
			Phone: "+33612345678",
			Email: "marie@example.com",
		},
		Coordinates: []float64{-1.5536, 47.2184},
	}
	for i := 0; i < imageCount; i++ {
		in.Images = append(in.Images, ImageUpload{
			FileName: string(rune('a'+i)) + ".jpg",
			Data:     []byte{0xFF, 0xD8, 0xFF},
		})
	}
	return in
}

func newSubmitUC(repo *MockListingRepository, storage *MockStorage, publisher *MockPublisher, notifier Notifier) *SubmitUsecase {
	return NewSubmitUsecase(repo, storage, publisher, notifier,
		SubmissionPolicy{MinImages: 3, MaxImages: 10},
		metrics.NewManager("test_submit"), logger.New())
}

func TestSubmit_Success(t *testing.T) {
	repo := new(MockListingRepository)
	storage := new(MockStorage)
	publisher := new(MockPublisher)
	notifier := new(MockNotifier)

	storage.On("Upload", mock.Anything, mock.Anything, mock.Anything).
		Return("http://media.local/listing-images/properties/x.jpg", nil).Times(3)
	repo.On("NextReference", mock.Anything).Return("PROP-000042", nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Listing")).Return(nil)
	publisher.On("Publish", mock.Anything, "listing.created", mock.Anything).Return(nil)
	notifier.On("SendSubmissionReceived", "marie@example.com", mock.Anything, "PROP-000042").Return(nil)

	uc := newSubmitUC(repo, storage, publisher, notifier)
	listing, err := uc.Submit(context.Background(), "user-1", "203.0.113.7", validSubmitInput(3))

	require.NoError(t, err)
	assert.False(t, listing.IsApproved)
	assert.Regexp(t, regexp.MustCompile(`^PROP-\d{6}$`), listing.Reference)
	assert.Equal(t, "user-1", listing.PostedBy)
	assert.Equal(t, "203.0.113.7", listing.UserIP)
	assert.Len(t, listing.Images, 3)
	assert.Equal(t, []float64{-1.5536, 47.2184}, listing.Location.Coordinates)
	assert.False(t, listing.UpdatedAt.Before(listing.CreatedAt))

	repo.AssertExpectations(t)
	storage.AssertExpectations(t)
	publisher.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestSubmit_Unauthenticated(t *testing.T) {
	uc := newSubmitUC(new(MockListingRepository), new(MockStorage), new(MockPublisher), nil)

	_, err := uc.Submit(context.Background(), "", "203.0.113.7", validSubmitInput(3))

	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestSubmit_ValidationCollectsAllViolations(t *testing.T) {
	repo := new(MockListingRepository)
	storage := new(MockStorage)
	uc := newSubmitUC(repo, storage, new(MockPublisher), nil)

	in := &SubmitInput{
		Price:        -1,
		PropertyType: "castle",
		DPE:          "Z",
		Rooms:        0,
		Bedrooms:     -1,
		Surface:      0,
		Contact:      SubmitContact{Email: "not-an-email"},
	}
	_, err := uc.Submit(context.Background(), "user-1", "", in)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)

	violated := map[string]bool{}
	for _, fe := range verr.Fields {
		violated[fe.Field] = true
	}
	for _, field := range []string{
		"title", "description", "price", "propertyType", "transactionType",
		"rooms", "bedrooms", "surface", "dpe",
		"address.street", "address.city", "address.postalCode",
		"contact.name", "contact.phone", "contact.email",
		"images",
	} {
		assert.True(t, violated[field], "expected violation for %s", field)
	}

	// Validation failures must have no side effects.
	storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmit_TooFewImages(t *testing.T) {
	storage := new(MockStorage)
	uc := newSubmitUC(new(MockListingRepository), storage, new(MockPublisher), nil)

	_, err := uc.Submit(context.Background(), "user-1", "", validSubmitInput(2))

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "images", verr.Fields[0].Field)
	storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmit_UploadFailureRollsBackUploaded(t *testing.T) {
	repo := new(MockListingRepository)
	storage := new(MockStorage)
	uc := newSubmitUC(repo, storage, new(MockPublisher), nil)

	storage.On("Upload", mock.Anything, "a.jpg", mock.Anything).Return("http://media.local/b/properties/a.jpg", nil)
	storage.On("Upload", mock.Anything, "b.jpg", mock.Anything).Return("", errors.New("connection reset"))
	storage.On("Upload", mock.Anything, "c.jpg", mock.Anything).Return("http://media.local/b/properties/c.jpg", nil)
	storage.On("Delete", mock.Anything, "http://media.local/b/properties/a.jpg").Return(nil)
	storage.On("Delete", mock.Anything, "http://media.local/b/properties/c.jpg").Return(nil)

	_, err := uc.Submit(context.Background(), "user-1", "", validSubmitInput(3))

	require.Error(t, err)
	storage.AssertExpectations(t)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmit_PersistFailureCompensatesUploads(t *testing.T) {
	repo := new(MockListingRepository)
	storage := new(MockStorage)
	uc := newSubmitUC(repo, storage, new(MockPublisher), nil)

	storage.On("Upload", mock.Anything, mock.Anything, mock.Anything).
		Return("http://media.local/b/properties/x.jpg", nil).Times(3)
	repo.On("NextReference", mock.Anything).Return("PROP-000007", nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("write conflict"))
	storage.On("Delete", mock.Anything, "http://media.local/b/properties/x.jpg").Return(nil).Times(3)

	_, err := uc.Submit(context.Background(), "user-1", "", validSubmitInput(3))

	require.Error(t, err)
	storage.AssertExpectations(t)
}

func TestSubmit_MissingCoordinatesDefaultToOrigin(t *testing.T) {
	repo := new(MockListingRepository)
	storage := new(MockStorage)
	publisher := new(MockPublisher)
	uc := newSubmitUC(repo, storage, publisher, nil)

	in := validSubmitInput(3)
	in.Coordinates = nil

	storage.On("Upload", mock.Anything, mock.Anything, mock.Anything).
		Return("http://media.local/b/properties/x.jpg", nil).Times(3)
	repo.On("NextReference", mock.Anything).Return("PROP-000001", nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	publisher.On("Publish", mock.Anything, "listing.created", mock.Anything).Return(nil)

	listing, err := uc.Submit(context.Background(), "user-1", "", in)

	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, listing.Location.Coordinates)
}
