package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pariskandee/real-estate/internal/adapter/http/middleware"
	"github.com/pariskandee/real-estate/internal/config"
	"github.com/pariskandee/real-estate/internal/listing/domain"
	"github.com/pariskandee/real-estate/internal/listing/usecase"
	"github.com/pariskandee/real-estate/internal/platform/logger"
)

// ListingHandler serves the /api/properties surface.
type ListingHandler struct {
	submit     *usecase.SubmitUsecase
	moderation *usecase.ModerationUsecase
	query      *usecase.QueryUsecase
	edit       *usecase.EditUsecase
	policy     config.SubmissionConfig
	logger     *logger.Logger
}

func NewListingHandler(
	submit *usecase.SubmitUsecase,
	moderation *usecase.ModerationUsecase,
	query *usecase.QueryUsecase,
	edit *usecase.EditUsecase,
	policy config.SubmissionConfig,
	log *logger.Logger,
) *ListingHandler {
	return &ListingHandler{
		submit:     submit,
		moderation: moderation,
		query:      query,
		edit:       edit,
		policy:     policy,
		logger:     log.Named("http.listing"),
	}
}

// Browse handles GET /api/properties: the public, approved-only listing
// page with optional filters.
func (h *ListingHandler) Browse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.BrowseFilter{
		TransactionType: domain.TransactionType(q.Get("transactionType")),
		PropertyType:    domain.PropertyType(q.Get("propertyType")),
		MinPrice:        parseFloatOr(q.Get("minPrice"), 0),
		MaxPrice:        parseFloatOr(q.Get("maxPrice"), 0),
		MinRooms:        parseIntOr(q.Get("minRooms"), 0),
		City:            q.Get("location"),
		Page:            parseIntOr(q.Get("page"), 1),
		PageSize:        parseIntOr(q.Get("limit"), 0),
	}

	page, err := h.query.Browse(r.Context(), filter)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// GetByID handles GET /api/properties/{id}. Runs behind optional auth so
// owners and admins can see their unapproved listings.
func (h *ListingHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()

	listing, err := h.query.GetByID(ctx, id, middleware.CallerID(ctx), middleware.IsAdmin(ctx))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

// Submit handles POST /api/properties: multipart listing intake.
func (h *ListingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	input := h.submitInputFromForm(r)

	images, imageErrs := h.readImages(r)
	if len(imageErrs) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"errors": imageErrs})
		return
	}
	input.Images = images

	ctx := r.Context()
	listing, err := h.submit.Submit(ctx, middleware.CallerID(ctx), clientIP(r), input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, listing)
}

// Update handles PUT /api/properties/{id}: owner-or-admin edit of mutable
// fields.
func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var input usecase.EditInput
	if err := decodeJSON(r, &input); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx := r.Context()
	listing, err := h.edit.Update(ctx, id, middleware.CallerID(ctx), middleware.IsAdmin(ctx), &input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

// Approve handles PATCH /api/properties/{id}/approve (admin).
func (h *ListingHandler) Approve(w http.ResponseWriter, r *http.Request) {
	listing, err := h.moderation.Approve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

// Delete handles DELETE /api/properties/{id} (admin).
func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.moderation.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeMessage(w, http.StatusOK, "Property deleted successfully")
}

// AdminList handles GET /api/properties/admin/list (admin): the full
// moderation table with free-text search.
func (h *ListingHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.AdminFilter{
		Search:   q.Get("search"),
		Page:     parseIntOr(q.Get("page"), 1),
		PageSize: parseIntOr(q.Get("limit"), 10),
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > h.policy.MaxPageSize {
		filter.PageSize = 10
	}

	items, total, err := h.moderation.List(r.Context(), filter)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	totalPages := total / int64(filter.PageSize)
	if total%int64(filter.PageSize) != 0 {
		totalPages++
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items":       items,
		"totalPages":  totalPages,
		"currentPage": filter.Page,
	})
}

func (h *ListingHandler) submitInputFromForm(r *http.Request) *usecase.SubmitInput {
	form := func(key string) string { return strings.TrimSpace(r.FormValue(key)) }

	input := &usecase.SubmitInput{
		Title:           form("title"),
		Description:     form("description"),
		Price:           parseFloatOr(form("price"), -1),
		PropertyType:    form("propertyType"),
		TransactionType: form("transactionType"),
		Rooms:           parseIntOr(form("rooms"), -1),
		Bedrooms:        parseIntOr(form("bedrooms"), -1),
		Bathrooms:       parseIntOr(form("bathrooms"), -1),
		Surface:         parseIntOr(form("surface"), -1),
		DPE:             form("dpe"),
		Address: usecase.SubmitAddress{
			Street:     form("address.street"),
			City:       form("address.city"),
			PostalCode: form("address.postalCode"),
			Country:    form("address.country"),
		},
		Contact: usecase.SubmitContact{
			Name:  form("contact.name"),
			Phone: form("contact.phone"),
			Email: form("contact.email"),
		},
	}

	if features, ok := r.MultipartForm.Value["features"]; ok {
		for _, f := range features {
			if f = strings.TrimSpace(f); f != "" {
				input.Features = append(input.Features, f)
			}
		}
	}

	if coords, ok := r.MultipartForm.Value["coordinates"]; ok && len(coords) == 2 {
		lng, errLng := strconv.ParseFloat(coords[0], 64)
		lat, errLat := strconv.ParseFloat(coords[1], 64)
		if errLng == nil && errLat == nil {
			input.Coordinates = []float64{lng, lat}
		}
	}

	return input
}

// readImages pulls the uploaded files out of the form, enforcing the
// per-file size limit and the image mime check before any byte reaches the
// media store.
func (h *ListingHandler) readImages(r *http.Request) ([]usecase.ImageUpload, []domain.FieldError) {
	var images []usecase.ImageUpload
	var errs []domain.FieldError

	if r.MultipartForm == nil {
		return images, errs
	}

	for _, fh := range r.MultipartForm.File["images"] {
		if fh.Size > h.policy.MaxImageSize {
			errs = append(errs, domain.FieldError{
				Field:   "images",
				Message: fmt.Sprintf("Image %s exceeds the maximum size of %d bytes", fh.Filename, h.policy.MaxImageSize),
			})
			continue
		}

		file, err := fh.Open()
		if err != nil {
			errs = append(errs, domain.FieldError{Field: "images", Message: "Unable to read uploaded image"})
			continue
		}
		data := make([]byte, fh.Size)
		if _, err := io.ReadFull(file, data); err != nil {
			file.Close()
			errs = append(errs, domain.FieldError{Field: "images", Message: "Unable to read uploaded image"})
			continue
		}
		file.Close()

		if !strings.HasPrefix(http.DetectContentType(data), "image/") {
			errs = append(errs, domain.FieldError{Field: "images", Message: "Only images are allowed!"})
			continue
		}
		images = append(images, usecase.ImageUpload{FileName: fh.Filename, Data: data})
	}

	return images, errs
}
