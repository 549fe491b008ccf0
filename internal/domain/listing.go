package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

const (
	ListingTypeSale = "sale"
	ListingTypeRent = "rent"
)

type Listing struct {
	ID          string `gorm:"primaryKey;type:varchar(32)" json:"id"`
	Name        string `gorm:"size:128;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Address     string `gorm:"size:255" json:"address"`

	RegularPrice  int64 `json:"regularPrice"`
	DiscountPrice int64 `json:"discountPrice"`
	Bathrooms     int   `json:"bathrooms"`
	Bedrooms      int   `json:"bedrooms"`

	Furnished bool   `json:"furnished"`
	Parking   bool   `json:"parking"`
	Offer     bool   `json:"offer"`
	Type      string `gorm:"size:8;not null" json:"type"` // sale / rent

	ImageURLs []string `gorm:"serializer:json" json:"imageUrls"`

	// UserRef 房源归属（users.id），归属校验只比较这一列
	UserRef string `gorm:"index;type:varchar(32);not null" json:"userRef"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Listing) TableName() string { return "listings" }

// ListingFilter GET /listings/get 的查询条件
type ListingFilter struct {
	SearchTerm string
	Type       string // sale / rent / all
	Offer      *bool
	Furnished  *bool
	Parking    *bool
	Sort       string // 列名，默认 created_at
	Order      string // asc / desc
	Limit      int
	Offset     int
}

type ListingRepository interface {
	Create(ctx context.Context, l *Listing) error
	FindByID(ctx context.Context, id string) (*Listing, error)
	FindByIDs(ctx context.Context, ids []string) ([]Listing, error)
	FindByOwner(ctx context.Context, userRef string) ([]Listing, error)
	Search(ctx context.Context, f ListingFilter) ([]Listing, error)
	Update(ctx context.Context, l *Listing) error
	SoftDelete(ctx context.Context, id string) error
}
