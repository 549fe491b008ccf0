package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/saharaestate/backend/internal/domain"
	httpez "github.com/saharaestate/backend/internal/transport/http/ez"
	mdw "github.com/saharaestate/backend/internal/transport/http/middleware"
)

type listingIn struct {
	Name          string   `json:"name"          binding:"required,max=128"`
	Description   string   `json:"description"`
	Address       string   `json:"address"`
	RegularPrice  int64    `json:"regularPrice"  binding:"required,min=0"`
	DiscountPrice int64    `json:"discountPrice" binding:"min=0"`
	Bathrooms     int      `json:"bathrooms"     binding:"min=0"`
	Bedrooms      int      `json:"bedrooms"      binding:"min=0"`
	Furnished     bool     `json:"furnished"`
	Parking       bool     `json:"parking"`
	Offer         bool     `json:"offer"`
	Type          string   `json:"type"          binding:"required,oneof=sale rent"`
	ImageURLs     []string `json:"imageUrls"`
}

func (in *listingIn) toDomain() *domain.Listing {
	return &domain.Listing{
		Name:          in.Name,
		Description:   in.Description,
		Address:       in.Address,
		RegularPrice:  in.RegularPrice,
		DiscountPrice: in.DiscountPrice,
		Bathrooms:     in.Bathrooms,
		Bedrooms:      in.Bedrooms,
		Furnished:     in.Furnished,
		Parking:       in.Parking,
		Offer:         in.Offer,
		Type:          in.Type,
		ImageURLs:     in.ImageURLs,
	}
}

func mountListingActions(public, authed *gin.RouterGroup, d APIDeps) {
	ezPublic := httpez.New(public)
	ezAuth := httpez.New(authed)

	// --- POST /api/v1/listings/create 完整安全链：先验身份，再过 owner 闸门 ---
	createGroup := authed.Group("")
	createGroup.Use(mdw.RequireOwner())
	ezCreate := httpez.New(createGroup)
	httpez.RegisterAction[listingIn, *domain.Listing](ezCreate, d.DB, httpez.Action[listingIn, *domain.Listing]{
		Method: http.MethodPost,
		Path:   "/listings/create",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, in *listingIn) (*domain.Listing, error) {
			return d.Listings.Create(c.Request.Context(), in.toDomain(), c.GetString("userId"))
		},
	})

	// --- POST /api/v1/listings/update/:id 归属校验在 service 里 ---
	httpez.RegisterAction[listingIn, *domain.Listing](ezAuth, d.DB, httpez.Action[listingIn, *domain.Listing]{
		Method: http.MethodPost,
		Path:   "/listings/update/:id",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, in *listingIn) (*domain.Listing, error) {
			return d.Listings.Update(c.Request.Context(), c.Param("id"), c.GetString("userId"), in.toDomain())
		},
	})

	// --- DELETE /api/v1/listings/delete/:id ---
	httpez.RegisterAction[struct{}, gin.H](ezAuth, d.DB, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/listings/delete/:id",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (gin.H, error) {
			if err := d.Listings.Delete(c.Request.Context(), c.Param("id"), c.GetString("userId")); err != nil {
				return nil, err
			}
			return gin.H{"message": "Listing has been deleted!"}, nil
		},
	})

	// --- GET /api/v1/listings/get/:id 公开详情；登录用户顺带记一次浏览 ---
	httpez.RegisterAction[struct{}, *domain.Listing](ezPublic, d.DB, httpez.Action[struct{}, *domain.Listing]{
		Method: http.MethodGet,
		Path:   "/listings/get/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (*domain.Listing, error) {
			l, err := d.Listings.Get(c.Request.Context(), c.Param("id"))
			if err != nil {
				return nil, err
			}
			if uid := c.GetString("userId"); uid != "" {
				d.Listings.RecordVisit(c.Request.Context(), uid, l.ID)
			}
			return l, nil
		},
	})

	// --- GET /api/v1/listings/get 公开搜索 ---
	type searchQ struct {
		SearchTerm string `form:"searchTerm"`
		Type       string `form:"type"`
		Offer      *bool  `form:"offer"`
		Furnished  *bool  `form:"furnished"`
		Parking    *bool  `form:"parking"`
		Sort       string `form:"sort"`
		Order      string `form:"order"`
		Limit      int    `form:"limit,default=9"`
		StartIndex int    `form:"startIndex,default=0"`
	}
	httpez.RegisterAction[searchQ, []domain.Listing](ezPublic, d.DB, httpez.Action[searchQ, []domain.Listing]{
		Method: http.MethodGet,
		Path:   "/listings/get",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, _ *gorm.DB, in *searchQ) ([]domain.Listing, error) {
			ls, err := d.Listings.Search(c.Request.Context(), domain.ListingFilter{
				SearchTerm: in.SearchTerm,
				Type:       in.Type,
				Offer:      in.Offer,
				Furnished:  in.Furnished,
				Parking:    in.Parking,
				Sort:       in.Sort,
				Order:      in.Order,
				Limit:      in.Limit,
				Offset:     in.StartIndex,
			})
			if err != nil {
				return nil, err
			}
			if uid := c.GetString("userId"); uid != "" {
				d.Listings.RecordSearch(c.Request.Context(), uid, in.SearchTerm)
			}
			return ls, nil
		},
	})

	// --- POST /api/v1/listings/favorite/:id 收藏开关 ---
	httpez.RegisterAction[struct{}, gin.H](ezAuth, d.DB, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/listings/favorite/:id",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (gin.H, error) {
			favored, err := d.Listings.ToggleFavorite(c.Request.Context(), c.GetString("userId"), c.Param("id"))
			if err != nil {
				return nil, err
			}
			return gin.H{"favorited": favored}, nil
		},
	})
}
