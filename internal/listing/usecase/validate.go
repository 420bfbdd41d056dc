package usecase

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pariskandee/real-estate/internal/listing/domain"
)

// SubmitAddress and SubmitContact mirror the nested form fields of the
// submission payload.
type SubmitAddress struct {
	Street     string `json:"street" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
	Country    string `json:"country"`
}

type SubmitContact struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// SubmitInput is the full submission payload before any side effect.
// Coordinates are optional and ordered [longitude, latitude].
type SubmitInput struct {
	Title           string        `json:"title" validate:"required"`
	Description     string        `json:"description" validate:"required"`
	Price           float64       `json:"price" validate:"gte=0"`
	PropertyType    string        `json:"propertyType" validate:"required,oneof=house apartment land commercial"`
	TransactionType string        `json:"transactionType" validate:"required,oneof=sale rent"`
	Rooms           int           `json:"rooms" validate:"min=1"`
	Bedrooms        int           `json:"bedrooms" validate:"gte=0"`
	Bathrooms       int           `json:"bathrooms" validate:"gte=0"`
	Surface         int           `json:"surface" validate:"min=1"`
	DPE             string        `json:"dpe" validate:"required,oneof=A B C D E F G"`
	Address         SubmitAddress `json:"address"`
	Contact         SubmitContact `json:"contact"`
	Features        []string      `json:"features"`
	Coordinates     []float64     `json:"coordinates" validate:"omitempty,len=2"`

	Images []ImageUpload `json:"-"`
}

// ImageUpload is one image file attached to a submission.
type ImageUpload struct {
	FileName string
	Data     []byte
}

// fieldMessages are the caller-facing validation messages, keyed by the
// dotted json path of the violated field.
var fieldMessages = map[string]string{
	"title":              "Title is required",
	"description":        "Description is required",
	"price":              "Price must be a positive number",
	"propertyType":       "Invalid property type",
	"transactionType":    "Invalid transaction type",
	"rooms":              "Rooms must be at least 1",
	"bedrooms":           "Bedrooms cannot be negative",
	"bathrooms":          "Bathrooms cannot be negative",
	"surface":            "Surface must be at least 1",
	"dpe":                "Invalid DPE value",
	"address.street":     "Street is required",
	"address.city":       "City is required",
	"address.postalCode": "Postal code is required",
	"contact.name":       "Contact name is required",
	"contact.phone":      "Contact phone is required",
	"contact.email":      "Invalid email address",
	"coordinates":        "Coordinates must be [longitude, latitude]",
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateSubmit checks every structural constraint of the payload and the
// image count policy, collecting all violations instead of stopping at the
// first one.
func validateSubmit(v *validator.Validate, in *SubmitInput, minImages, maxImages int) *domain.ValidationError {
	var fields []domain.FieldError

	if err := v.Struct(in); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				path := strings.TrimPrefix(fe.Namespace(), "SubmitInput.")
				msg, ok := fieldMessages[path]
				if !ok {
					msg = "Invalid value"
				}
				fields = append(fields, domain.FieldError{Field: path, Message: msg})
			}
		} else {
			fields = append(fields, domain.FieldError{Field: "payload", Message: "Invalid payload"})
		}
	}

	if n := len(in.Images); n < minImages || n > maxImages {
		fields = append(fields, domain.FieldError{
			Field:   "images",
			Message: imageCountMessage(minImages, maxImages),
		})
	}

	if len(fields) == 0 {
		return nil
	}
	return &domain.ValidationError{Fields: fields}
}

func imageCountMessage(min, max int) string {
	if min == 1 {
		return "At least 1 image is required"
	}
	return fmt.Sprintf("Between %d and %d images are required", min, max)
}
