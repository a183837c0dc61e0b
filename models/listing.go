package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusAvailable         = "Available"
	StatusUnderConstruction = "Under Construction"
	StatusComingSoon        = "Coming Soon"
	StatusSoldOut           = "Sold Out"
	StatusCompleted         = "Completed"
)

type ListingSpec struct {
	Bedrooms  string `bson:"bedrooms" json:"bedrooms"`
	Bathrooms string `bson:"bathrooms" json:"bathrooms"`
	Parking   string `bson:"parking" json:"parking"`
	Floor     string `bson:"floor" json:"floor"`
	Type      string `bson:"type" json:"type"`
}

type Listing struct {
	ID               int64       `bson:"_id" json:"id"`
	Title            string      `bson:"title" json:"title"`
	ShortDescription string      `bson:"shortDescription" json:"shortDescription"`
	LongDescription  string      `bson:"longDescription" json:"longDescription"`
	Location         string      `bson:"location" json:"location"`
	Price            string      `bson:"price" json:"price"`
	Area             string      `bson:"area" json:"area"`
	CompletionDate   string      `bson:"completionDate" json:"completionDate"`
	Status           string      `bson:"status" json:"status"`
	Spec             ListingSpec `bson:"spec" json:"spec"`
	Features         []string    `bson:"features" json:"features"`
	Images           []string    `bson:"images" json:"images"`
	ChunkCount       int         `bson:"chunkCount" json:"-"`
	Featured         bool        `bson:"featured" json:"featured"`
	Views            int64       `bson:"views" json:"views"`
	RatingSum        float64     `bson:"ratingSum" json:"-"`
	RatingCount      int64       `bson:"ratingCount" json:"-"`
	CreatedAt        time.Time   `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time   `bson:"updatedAt" json:"updatedAt"`
	LastViewedAt     *time.Time  `bson:"lastViewedAt,omitempty" json:"-"`
}

// ImageChunk holds a slice of a listing's images that did not fit in the
// primary document. Index 0 lives embedded in the listing itself, so stored
// chunks start at index 1.
type ImageChunk struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ListingID int64              `bson:"listingId" json:"listingId"`
	Index     int                `bson:"index" json:"index"`
	Images    []string           `bson:"images" json:"images"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// ListingView is the display-safe shape handed to the site: RFC 3339
// timestamps, never-nil slices, derived rating summary.
type ListingView struct {
	ID               int64          `json:"id"`
	Title            string         `json:"title"`
	ShortDescription string         `json:"shortDescription"`
	LongDescription  string         `json:"longDescription"`
	Location         string         `json:"location"`
	Price            string         `json:"price"`
	Area             string         `json:"area"`
	CompletionDate   string         `json:"completionDate"`
	Status           string         `json:"status"`
	Spec             ListingSpec    `json:"spec"`
	Features         []string       `json:"features"`
	Images           []string       `json:"images"`
	Featured         bool           `json:"featured"`
	Views            int64          `json:"views"`
	Rating           *RatingSummary `json:"rating,omitempty"`
	CreatedAt        string         `json:"createdAt"`
	UpdatedAt        string         `json:"updatedAt"`
}

func (l *Listing) View() ListingView {
	v := ListingView{
		ID:               l.ID,
		Title:            l.Title,
		ShortDescription: l.ShortDescription,
		LongDescription:  l.LongDescription,
		Location:         l.Location,
		Price:            l.Price,
		Area:             l.Area,
		CompletionDate:   l.CompletionDate,
		Status:           l.Status,
		Spec:             l.Spec,
		Features:         l.Features,
		Images:           l.Images,
		Featured:         l.Featured,
		Views:            l.Views,
		CreatedAt:        l.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:        l.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if v.Features == nil {
		v.Features = []string{}
	}
	if v.Images == nil {
		v.Images = []string{}
	}
	if l.RatingCount > 0 {
		v.Rating = &RatingSummary{
			Average: l.RatingSum / float64(l.RatingCount),
			Count:   l.RatingCount,
		}
	}
	return v
}

type ListingInput struct {
	Title            string      `json:"title" validate:"required"`
	ShortDescription string      `json:"shortDescription"`
	LongDescription  string      `json:"longDescription"`
	Location         string      `json:"location" validate:"required"`
	Price            string      `json:"price"`
	Area             string      `json:"area"`
	CompletionDate   string      `json:"completionDate"`
	Status           string      `json:"status" validate:"required"`
	Spec             ListingSpec `json:"spec"`
	Features         []string    `json:"features"`
	Images           []string    `json:"images"`
	Featured         bool        `json:"featured"`
}

// ListingUpdate carries a partial edit; nil fields are left untouched.
// A non-nil Images re-runs the chunking decision in the store.
type ListingUpdate struct {
	Title            *string      `json:"title"`
	ShortDescription *string      `json:"shortDescription"`
	LongDescription  *string      `json:"longDescription"`
	Location         *string      `json:"location"`
	Price            *string      `json:"price"`
	Area             *string      `json:"area"`
	CompletionDate   *string      `json:"completionDate"`
	Status           *string      `json:"status"`
	Spec             *ListingSpec `json:"spec"`
	Features         *[]string    `json:"features"`
	Images           *[]string    `json:"images"`
}

type ListingFilter struct {
	Status   string
	Featured *bool
	Page     int
	Limit    int
}

type RatingRequest struct {
	Value int `json:"value" validate:"required,min=1,max=5"`
}

type ListingStats struct {
	Total      int64            `json:"total"`
	ByStatus   map[string]int64 `json:"byStatus"`
	Featured   int64            `json:"featured"`
	TotalViews int64            `json:"totalViews"`
}
