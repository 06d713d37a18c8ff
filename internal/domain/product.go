package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Size is a garment size offered for a product.
type Size string

const (
	SizeXS Size = "XS"
	SizeS  Size = "S"
	SizeM  Size = "M"
	SizeL  Size = "L"
	SizeXL Size = "XL"
)

var validSizes = []Size{SizeXS, SizeS, SizeM, SizeL, SizeXL}

// Catalog images a product may reference.
const (
	ImageTShirt   = "tshirt.png"
	ImageHoodie   = "hoodie.png"
	ImageJeans    = "jeans.png"
	ImageJacket   = "jacket.png"
	ImageSneakers = "sneakers.png"
	ImageCap      = "cap.png"
)

var validImages = []string{ImageTShirt, ImageHoodie, ImageJeans, ImageJacket, ImageSneakers, ImageCap}

const (
	minRating = 1
	maxRating = 5
)

// Product is a catalog entry. Values are immutable; transitions return copies.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Categories  []string        `json:"categories"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Sizes       []Size          `json:"sizes"`
	Colors      []string        `json:"colors"`
	Rating      []int           `json:"rating"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ProductInput carries the fields needed to build a Product.
type ProductInput struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Categories  []string        `json:"categories"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Sizes       []Size          `json:"sizes"`
	Colors      []string        `json:"colors"`
	Rating      []int           `json:"rating"`
}

// ProductPatch is a partial update; nil fields keep their current value.
type ProductPatch struct {
	Name        *string          `json:"name"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
	Categories  []string         `json:"categories"`
	Description *string          `json:"description"`
	Image       *string          `json:"image"`
	Sizes       []Size           `json:"sizes"`
	Colors      []string         `json:"colors"`
}

// NewProduct validates in and returns the product it describes. Text fields
// are trimmed and blank category or color entries are dropped before
// validation, so already clean input comes back unchanged.
func NewProduct(in ProductInput) (Product, error) {
	p := Product{
		Name:        strings.TrimSpace(in.Name),
		Price:       in.Price,
		Stock:       in.Stock,
		Categories:  trimAll(in.Categories),
		Description: strings.TrimSpace(in.Description),
		Image:       strings.TrimSpace(in.Image),
		Sizes:       slices.Clone(in.Sizes),
		Colors:      trimAll(in.Colors),
		Rating:      slices.Clone(in.Rating),
	}
	if p.Rating == nil {
		p.Rating = []int{}
	}
	if err := p.validate(); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (p Product) validate() error {
	if p.Name == "" {
		return Validationf("Product name is required")
	}
	if !p.Price.IsPositive() {
		return Validationf("Price must be greater than 0")
	}
	if p.Stock < 0 {
		return Validationf("Stock cannot be negative")
	}
	if len(p.Categories) == 0 {
		return Validationf("At least one category is required")
	}
	if p.Description == "" {
		return Validationf("Description is required")
	}
	if !slices.Contains(validImages, p.Image) {
		return Validationf("Invalid image: %q", p.Image)
	}
	if len(p.Sizes) == 0 {
		return Validationf("At least one size is required")
	}
	for _, s := range p.Sizes {
		if !slices.Contains(validSizes, s) {
			return Validationf("Invalid size: %q", s)
		}
	}
	if len(p.Colors) == 0 {
		return Validationf("At least one color is required")
	}
	for _, r := range p.Rating {
		if err := validateRating(r); err != nil {
			return err
		}
	}
	return nil
}

// WithStockDelta returns the product with stock adjusted by delta.
// Stock never goes negative.
func (p Product) WithStockDelta(delta int) (Product, error) {
	if p.Stock+delta < 0 {
		return p, Validationf("Insufficient stock for product %s: available %d, requested %d", p.Name, p.Stock, -delta)
	}
	out := p.clone()
	out.Stock += delta
	return out, nil
}

// WithRating returns the product with rating appended.
func (p Product) WithRating(rating int) (Product, error) {
	if err := validateRating(rating); err != nil {
		return p, err
	}
	out := p.clone()
	out.Rating = append(out.Rating, rating)
	return out, nil
}

// Apply merges patch over the current values and re-validates the result.
func (p Product) Apply(patch ProductPatch) (Product, error) {
	in := ProductInput{
		Name:        p.Name,
		Price:       p.Price,
		Stock:       p.Stock,
		Categories:  p.Categories,
		Description: p.Description,
		Image:       p.Image,
		Sizes:       p.Sizes,
		Colors:      p.Colors,
		Rating:      p.Rating,
	}
	if patch.Name != nil {
		in.Name = *patch.Name
	}
	if patch.Price != nil {
		in.Price = *patch.Price
	}
	if patch.Stock != nil {
		in.Stock = *patch.Stock
	}
	if patch.Categories != nil {
		in.Categories = patch.Categories
	}
	if patch.Description != nil {
		in.Description = *patch.Description
	}
	if patch.Image != nil {
		in.Image = *patch.Image
	}
	if patch.Sizes != nil {
		in.Sizes = patch.Sizes
	}
	if patch.Colors != nil {
		in.Colors = patch.Colors
	}

	out, err := NewProduct(in)
	if err != nil {
		return p, err
	}
	out.ID = p.ID
	out.CreatedAt = p.CreatedAt
	return out, nil
}

func (p Product) clone() Product {
	out := p
	out.Categories = slices.Clone(p.Categories)
	out.Sizes = slices.Clone(p.Sizes)
	out.Colors = slices.Clone(p.Colors)
	out.Rating = slices.Clone(p.Rating)
	return out
}

func validateRating(r int) error {
	if r < minRating || r > maxRating {
		return Validationf("Rating must be between %d and %d", minRating, maxRating)
	}
	return nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}
