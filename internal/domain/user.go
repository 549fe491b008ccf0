package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

const (
	RoleCustomer = "customer"
	RoleOwner    = "owner"
)

const DefaultAvatar = "https://cdn.pixabay.com/photo/2015/10/05/22/37/blank-profile-picture-973460_1280.png"

// VisitedProperty 浏览记录：同一房源累计访问次数
type VisitedProperty struct {
	ListingID string `json:"listingId"`
	Visits    int    `json:"visits"`
}

type User struct {
	ID           string `gorm:"primaryKey;type:varchar(32)" json:"id"`
	Username     string `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email        string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string `gorm:"size:100;not null" json:"-"`
	Avatar       string `gorm:"size:512" json:"avatar"`
	Role         string `gorm:"size:16;not null;default:customer" json:"role"`

	// OTP 两个字段同生同灭：要么都为空，要么都有值
	OTPCode      *string    `gorm:"size:6" json:"-"`
	OTPExpiresAt *time.Time `json:"-"`

	Favorites         []string          `gorm:"serializer:json" json:"favorites"`
	SearchHistory     []string          `gorm:"serializer:json" json:"searchHistory"`
	VisitedProperties []VisitedProperty `gorm:"serializer:json" json:"visitedProperties"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

// HasActiveOTP 两个字段必须成对出现
func (u *User) HasActiveOTP() bool { return u.OTPCode != nil && u.OTPExpiresAt != nil }

// ClearOTP 验证成功（或覆盖）后立即作废
func (u *User) ClearOTP() {
	u.OTPCode = nil
	u.OTPExpiresAt = nil
}

// RecordVisit 同一房源只累加计数
func (u *User) RecordVisit(listingID string) {
	for i := range u.VisitedProperties {
		if u.VisitedProperties[i].ListingID == listingID {
			u.VisitedProperties[i].Visits++
			return
		}
	}
	u.VisitedProperties = append(u.VisitedProperties, VisitedProperty{ListingID: listingID, Visits: 1})
}

// ToggleFavorite 收藏/取消收藏，返回操作后是否已收藏
func (u *User) ToggleFavorite(listingID string) bool {
	for i, id := range u.Favorites {
		if id == listingID {
			u.Favorites = append(u.Favorites[:i], u.Favorites[i+1:]...)
			return false
		}
	}
	u.Favorites = append(u.Favorites, listingID)
	return true
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, q string, offset, limit int) ([]User, int64, error)
	Update(ctx context.Context, u *User) error
	SoftDelete(ctx context.Context, id string) error
}
