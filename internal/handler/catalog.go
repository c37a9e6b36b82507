package handler

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/gorilla/schema"

	"github.com/tripora/tripora/internal/domain"
	"github.com/tripora/tripora/internal/service"
)

// 32MB in-memory cap for multipart bodies; avatar plus a few gallery images.
const maxMultipartMemory = 32 << 20

var formDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

// CatalogHandler handles product catalog HTTP requests for every kind.
type CatalogHandler struct {
	catalog *service.CatalogService
	media   *service.MediaService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalog *service.CatalogService, media *service.MediaService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, media: media}
}

// productForm carries the text fields of a multipart create request.
// List-valued fields arrive as JSON-encoded strings and are decoded
// leniently downstream.
type productForm struct {
	Name          string `schema:"name"`
	Location      string `schema:"location"`
	Price         string `schema:"price"`
	StartDate     string `schema:"startDate"`
	DurationLabel string `schema:"durationLabel"`
	Description   string `schema:"description"`
	Category      string `schema:"category"`

	Highlights            string `schema:"highlights"`
	Inclusions            string `schema:"inclusions"`
	Exclusions            string `schema:"exclusions"`
	Included              string `schema:"included"`
	AdditionalInformation string `schema:"additionalInformation"`

	Country     string `schema:"country"`
	Slug        string `schema:"slug"`
	GroupSize   string `schema:"groupSize"`
	Rating      string `schema:"rating"`
	ReviewCount string `schema:"reviewCount"`
}

func kindFromRequest(r *http.Request) (domain.Kind, error) {
	return domain.ParseKind(r.PathValue("kind"))
}

// HandleList returns every product of the kind, newest first.
// GET /api/{kind}
func (h *CatalogHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	kind, err := kindFromRequest(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Unknown product kind.")
		return
	}
	sch, _ := domain.SchemaFor(kind)

	products, err := h.catalog.List(r.Context(), kind)
	if err != nil {
		slog.Error("list products", "kind", kind, "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, toProductDTOs(sch, products))
}

// HandleListByCategory returns the products of the kind carrying the
// given category label.
// GET /api/{kind}/category/{category}
func (h *CatalogHandler) HandleListByCategory(w http.ResponseWriter, r *http.Request) {
	kind, err := kindFromRequest(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Unknown product kind.")
		return
	}
	sch, _ := domain.SchemaFor(kind)

	products, err := h.catalog.ListByCategory(r.Context(), kind, r.PathValue("category"))
	if err != nil {
		slog.Error("list products by category", "kind", kind, "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, toProductDTOs(sch, products))
}

// HandleCategories returns the distinct category labels of the kind.
// GET /api/{kind}/categories
func (h *CatalogHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	kind, err := kindFromRequest(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Unknown product kind.")
		return
	}

	labels, err := h.catalog.DistinctCategories(r.Context(), kind)
	if err != nil {
		slog.Error("distinct categories", "kind", kind, "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, labels)
}

// HandleGet returns a single product by id.
// GET /api/{kind}/{id}
func (h *CatalogHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	kind, err := kindFromRequest(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Unknown product kind.")
		return
	}
	sch, _ := domain.SchemaFor(kind)

	product, err := h.catalog.GetByID(r.Context(), kind, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Product not found.")
			return
		}
		slog.Error("get product", "kind", kind, "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, toProductDTO(sch, product))
}

// HandleCreate creates a product from a multipart form. The avatar image
// file is required; gallery files are stored in submission order.
// POST /api/{kind}
// Response: 201 {"message":"...","id":"..."}
func (h *CatalogHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	kind, err := kindFromRequest(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Unknown product kind.")
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form.")
		return
	}

	var form productForm
	if err := formDecoder.Decode(&form, r.MultipartForm.Value); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid form fields.")
		return
	}

	avatarRef, err := h.uploadFormFile(r, "avatarImage")
	if err != nil {
		if errors.Is(err, errNoFile) {
			writeError(w, http.StatusBadRequest, "avatar image is required")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("upload avatar", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	galleryRefs, err := h.uploadGallery(r)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("upload gallery", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	draft := &service.ProductDraft{
		Name:          form.Name,
		Location:      form.Location,
		Price:         form.Price,
		StartDate:     form.StartDate,
		DurationLabel: form.DurationLabel,
		Description:   form.Description,
		AvatarImage:   avatarRef,
		Category:      form.Category,
		GalleryImages: galleryRefs,

		Highlights:            form.Highlights,
		Inclusions:            form.Inclusions,
		Exclusions:            form.Exclusions,
		Included:              form.Included,
		AdditionalInformation: form.AdditionalInformation,

		Country:     form.Country,
		Slug:        form.Slug,
		GroupSize:   form.GroupSize,
		Rating:      form.Rating,
		ReviewCount: form.ReviewCount,
	}

	id, err := h.catalog.Create(r.Context(), kind, draft)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("create product", "kind", kind, "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "Product created successfully.",
		"id":      id,
	})
}

// HandleUpdate applies a sparse update built from the form fields that
// were actually submitted. A new avatar file replaces the stored one;
// absence leaves it untouched.
// PUT /api/{kind}/{id}
// Response: 200 {"message":"..."} or 404
func (h *CatalogHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	kind, err := kindFromRequest(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Unknown product kind.")
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form.")
		return
	}

	patch := patchFromForm(r.MultipartForm.Value)

	if hasFormFile(r, "avatarImage") {
		ref, err := h.uploadFormFile(r, "avatarImage")
		if err != nil {
			if errors.Is(err, domain.ErrInvalidInput) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			slog.Error("upload avatar", "error", err)
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
			return
		}
		patch.AvatarImage = &ref
	}

	if err := h.catalog.Update(r.Context(), kind, r.PathValue("id"), patch); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Product not found.")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("update product", "kind", kind, "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Product updated successfully.",
	})
}

// HandleDelete removes a product and its gallery rows.
// DELETE /api/{kind}/{id}
// Response: 200 {"message":"..."} or 404
func (h *CatalogHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	kind, err := kindFromRequest(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Unknown product kind.")
		return
	}

	if err := h.catalog.Delete(r.Context(), kind, r.PathValue("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Product not found.")
			return
		}
		slog.Error("delete product", "kind", kind, "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Product deleted successfully.",
	})
}

// patchFromForm builds a sparse patch from submitted keys only. A key
// that was not sent stays nil and the stored value survives.
func patchFromForm(values map[string][]string) *service.ProductPatchInput {
	patch := &service.ProductPatchInput{}
	fields := map[string]**string{
		"name":                  &patch.Name,
		"location":              &patch.Location,
		"price":                 &patch.Price,
		"startDate":             &patch.StartDate,
		"durationLabel":         &patch.DurationLabel,
		"description":           &patch.Description,
		"category":              &patch.Category,
		"highlights":            &patch.Highlights,
		"inclusions":            &patch.Inclusions,
		"exclusions":            &patch.Exclusions,
		"included":              &patch.Included,
		"additionalInformation": &patch.AdditionalInformation,
		"country":               &patch.Country,
		"slug":                  &patch.Slug,
		"groupSize":             &patch.GroupSize,
		"rating":                &patch.Rating,
		"reviewCount":           &patch.ReviewCount,
	}
	for key, dst := range fields {
		if vs, ok := values[key]; ok && len(vs) > 0 {
			v := vs[0]
			*dst = &v
		}
	}
	return patch
}

var errNoFile = errors.New("no file in form")

func hasFormFile(r *http.Request, field string) bool {
	return r.MultipartForm != nil && len(r.MultipartForm.File[field]) > 0
}

func (h *CatalogHandler) uploadFormFile(r *http.Request, field string) (string, error) {
	if !hasFormFile(r, field) {
		return "", errNoFile
	}
	return h.uploadFileHeader(r, r.MultipartForm.File[field][0])
}

// uploadGallery stores every galleryImages file in submission order.
func (h *CatalogHandler) uploadGallery(r *http.Request) ([]string, error) {
	if r.MultipartForm == nil {
		return []string{}, nil
	}
	headers := r.MultipartForm.File["galleryImages"]
	refs := make([]string, 0, len(headers))
	for _, fh := range headers {
		ref, err := h.uploadFileHeader(r, fh)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func (h *CatalogHandler) uploadFileHeader(r *http.Request, fh *multipart.FileHeader) (string, error) {
	file, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return h.media.Upload(r.Context(), fh.Filename, contentType, data)
}
