package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/saharaestate/backend/internal/domain"
	"github.com/saharaestate/backend/internal/service"
	httpez "github.com/saharaestate/backend/internal/transport/http/ez"
)

func mountUserActions(public, authed *gin.RouterGroup, d APIDeps) {
	ezPublic := httpez.New(public)
	ezAuth := httpez.New(authed)

	// --- GET /api/v1/users/get/:id 公开档案，哈希结构性剔除 ---
	httpez.RegisterAction[struct{}, *domain.User](ezPublic, d.DB, httpez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/users/get/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (*domain.User, error) {
			return d.User.Get(c.Request.Context(), c.Param("id"))
		},
	})

	// --- POST /api/v1/users/update/:id 只能改自己 ---
	type updateIn struct {
		Username string `json:"username" binding:"omitempty,max=64"`
		Email    string `json:"email"    binding:"omitempty,email"`
		Password string `json:"password" binding:"omitempty,min=6"`
		Avatar   string `json:"avatar"`
	}
	httpez.RegisterAction[updateIn, *domain.User](ezAuth, d.DB, httpez.Action[updateIn, *domain.User]{
		Method: http.MethodPost,
		Path:   "/users/update/:id",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, in *updateIn) (*domain.User, error) {
			if c.GetString("userId") != c.Param("id") {
				return nil, httpez.Unauthorized("You can only update your own account!")
			}
			return d.User.Update(c.Request.Context(), c.Param("id"), service.UpdateInput{
				Username: in.Username,
				Email:    in.Email,
				Password: in.Password,
				Avatar:   in.Avatar,
			})
		},
	})

	// --- DELETE /api/v1/users/delete/:id 自助注销，顺手清 cookie ---
	httpez.RegisterAction[struct{}, gin.H](ezAuth, d.DB, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/users/delete/:id",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (gin.H, error) {
			if c.GetString("userId") != c.Param("id") {
				return nil, httpez.Unauthorized("You can only delete your own account!")
			}
			if err := d.User.Delete(c.Request.Context(), c.Param("id")); err != nil {
				return nil, err
			}
			clearSession(c)
			return gin.H{"message": "User has been deleted!"}, nil
		},
	})

	// --- GET /api/v1/users/listings/:id 只能看自己的房源 ---
	httpez.RegisterAction[struct{}, []domain.Listing](ezAuth, d.DB, httpez.Action[struct{}, []domain.Listing]{
		Method: http.MethodGet,
		Path:   "/users/listings/:id",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) ([]domain.Listing, error) {
			if c.GetString("userId") != c.Param("id") {
				return nil, httpez.Unauthorized("You can only view your own listings!")
			}
			return d.Listings.ByOwner(c.Request.Context(), c.Param("id"))
		},
	})

	// --- POST /api/v1/users/contact-owner 询盘转发给房东 ---
	type contactIn struct {
		OwnerID       string `json:"ownerId"       binding:"required"`
		CustomerName  string `json:"customerName"  binding:"required"`
		CustomerEmail string `json:"customerEmail" binding:"required,email"`
		Message       string `json:"message"       binding:"required"`
		ListingName   string `json:"listingName"   binding:"required"`
	}
	httpez.RegisterAction[contactIn, gin.H](ezAuth, d.DB, httpez.Action[contactIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/users/contact-owner",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, in *contactIn) (gin.H, error) {
			if err := d.User.ContactOwner(c.Request.Context(), service.ContactOwnerInput{
				OwnerID:       in.OwnerID,
				CustomerName:  in.CustomerName,
				CustomerEmail: in.CustomerEmail,
				Message:       in.Message,
				ListingName:   in.ListingName,
			}); err != nil {
				return nil, err
			}
			return gin.H{"message": "Message sent successfully!"}, nil
		},
	})

	// --- POST /api/v1/email/send 针对房源的直发消息 ---
	type sendIn struct {
		ListingID      string `json:"listingId"      binding:"required"`
		Message        string `json:"message"        binding:"required"`
		RecipientEmail string `json:"recipientEmail" binding:"required,email"`
	}
	httpez.RegisterAction[sendIn, gin.H](ezAuth, d.DB, httpez.Action[sendIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/email/send",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, in *sendIn) (gin.H, error) {
			if err := d.User.SendListingMessage(c.Request.Context(), in.ListingID, in.Message, in.RecipientEmail); err != nil {
				return nil, err
			}
			return gin.H{"message": "Email sent successfully"}, nil
		},
	})
}
