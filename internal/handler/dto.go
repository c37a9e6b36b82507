package handler

import (
	"time"

	"github.com/tripora/tripora/internal/domain"
)

// UserDTO is the JSON representation of a user.
type UserDTO struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   u.UpdatedAt.Format(time.RFC3339),
	}
}

// ProductDTO is the JSON representation of a catalog product. Category is
// a list of labels for package-style kinds and a single string for
// visa-style kinds, so it is typed as any.
type ProductDTO struct {
	ID            string   `json:"id"`
	Kind          string   `json:"kind"`
	Name          string   `json:"name"`
	Location      string   `json:"location"`
	Price         string   `json:"price"`
	StartDate     string   `json:"startDate"`
	DurationLabel string   `json:"durationLabel"`
	Description   string   `json:"description"`
	AvatarImage   string   `json:"avatarImage"`
	Category      any      `json:"category"`
	ImageURLs     []string `json:"imageUrls"`

	Highlights            []string `json:"highlights,omitempty"`
	Inclusions            []string `json:"inclusions,omitempty"`
	Exclusions            []string `json:"exclusions,omitempty"`
	Included              []string `json:"included,omitempty"`
	AdditionalInformation []string `json:"additionalInformation,omitempty"`

	Country     string `json:"country,omitempty"`
	Slug        string `json:"slug,omitempty"`
	GroupSize   string `json:"groupSize,omitempty"`
	Rating      string `json:"rating,omitempty"`
	ReviewCount string `json:"reviewCount,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toProductDTO(schema domain.Schema, p *domain.Product) ProductDTO {
	dto := ProductDTO{
		ID:            p.ID,
		Kind:          string(p.Kind),
		Name:          p.Name,
		Location:      p.Location,
		Price:         p.Price,
		StartDate:     p.StartDate,
		DurationLabel: p.DurationLabel,
		Description:   p.Description,
		AvatarImage:   p.AvatarImage,
		ImageURLs:     p.GalleryImages,

		Highlights:            p.Highlights,
		Inclusions:            p.Inclusions,
		Exclusions:            p.Exclusions,
		Included:              p.Included,
		AdditionalInformation: p.AdditionalInformation,

		Country:     p.Country,
		Slug:        p.Slug,
		GroupSize:   p.GroupSize,
		Rating:      p.Rating,
		ReviewCount: p.ReviewCount,

		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
	if dto.ImageURLs == nil {
		dto.ImageURLs = []string{}
	}
	if schema.CategoryList {
		cats := p.Categories
		if cats == nil {
			cats = []string{}
		}
		dto.Category = cats
	} else {
		category := ""
		if len(p.Categories) > 0 {
			category = p.Categories[0]
		}
		dto.Category = category
	}
	return dto
}

func toProductDTOs(schema domain.Schema, products []domain.Product) []ProductDTO {
	dtos := make([]ProductDTO, len(products))
	for i := range products {
		dtos[i] = toProductDTO(schema, &products[i])
	}
	return dtos
}
