package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/saharaestate/backend/internal/core/cache"
	"github.com/saharaestate/backend/internal/domain"
	"github.com/saharaestate/backend/pkg/utils"
)

const listingCacheTTL = 5 * time.Minute

type ListingService struct {
	listings domain.ListingRepository
	users    domain.UserRepository
	cache    *cache.Cache // 可为 nil（测试 / 未配 redis）
	log      *zap.Logger
}

func NewListingService(listings domain.ListingRepository, users domain.UserRepository, c *cache.Cache, log *zap.Logger) *ListingService {
	return &ListingService{listings: listings, users: users, cache: c, log: log}
}

func listingCacheKey(id string) string { return "listing:" + id }

func (s *ListingService) Create(ctx context.Context, l *domain.Listing, ownerID string) (*domain.Listing, error) {
	l.ID = utils.NewID()
	l.UserRef = ownerID // 归属强制为调用者，不信 body
	if err := s.listings.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *ListingService) Get(ctx context.Context, id string) (*domain.Listing, error) {
	if s.cache == nil {
		return s.getFromStore(ctx, id)
	}
	l, err := cache.GetOrLoadJSON(s.cache, ctx, listingCacheKey(id), listingCacheTTL, func(ctx context.Context) (*domain.Listing, error) {
		return s.getFromStore(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, domain.ErrNotFound
	}
	return l, nil
}

func (s *ListingService) getFromStore(ctx context.Context, id string) (*domain.Listing, error) {
	l, err := s.listings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, domain.ErrNotFound
	}
	return l, nil
}

// Update 归属校验只比较存库的 user_ref 和调用者 id
func (s *ListingService) Update(ctx context.Context, id, callerID string, in *domain.Listing) (*domain.Listing, error) {
	l, err := s.getFromStore(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.UserRef != callerID {
		return nil, domain.ErrForbidden
	}

	l.Name = in.Name
	l.Description = in.Description
	l.Address = in.Address
	l.RegularPrice = in.RegularPrice
	l.DiscountPrice = in.DiscountPrice
	l.Bathrooms = in.Bathrooms
	l.Bedrooms = in.Bedrooms
	l.Furnished = in.Furnished
	l.Parking = in.Parking
	l.Offer = in.Offer
	l.Type = in.Type
	l.ImageURLs = in.ImageURLs

	if err := s.listings.Update(ctx, l); err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Del(ctx, listingCacheKey(id))
	}
	return l, nil
}

func (s *ListingService) Delete(ctx context.Context, id, callerID string) error {
	l, err := s.getFromStore(ctx, id)
	if err != nil {
		return err
	}
	if l.UserRef != callerID {
		return domain.ErrForbidden
	}
	if err := s.listings.SoftDelete(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Del(ctx, listingCacheKey(id))
	}
	return nil
}

func (s *ListingService) Search(ctx context.Context, f domain.ListingFilter) ([]domain.Listing, error) {
	return s.listings.Search(ctx, f)
}

func (s *ListingService) ByOwner(ctx context.Context, ownerID string) ([]domain.Listing, error) {
	return s.listings.FindByOwner(ctx, ownerID)
}

// RecordVisit 登录用户打开详情页时累加浏览次数；失败只记日志，不影响读路径
func (s *ListingService) RecordVisit(ctx context.Context, userID, listingID string) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil || u == nil {
		return
	}
	u.RecordVisit(listingID)
	if err := s.users.Update(ctx, u); err != nil {
		s.log.Warn("record visit failed", zap.String("user_id", userID), zap.Error(err))
	}
}

// RecordSearch 登录用户的搜索词进历史，同样尽力而为
func (s *ListingService) RecordSearch(ctx context.Context, userID, term string) {
	if term == "" {
		return
	}
	u, err := s.users.FindByID(ctx, userID)
	if err != nil || u == nil {
		return
	}
	u.SearchHistory = append(u.SearchHistory, term)
	if err := s.users.Update(ctx, u); err != nil {
		s.log.Warn("record search failed", zap.String("user_id", userID), zap.Error(err))
	}
}

// ToggleFavorite 返回操作后是否处于已收藏状态
func (s *ListingService) ToggleFavorite(ctx context.Context, userID, listingID string) (bool, error) {
	if _, err := s.getFromStore(ctx, listingID); err != nil {
		return false, err
	}
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if u == nil {
		return false, domain.ErrNotFound
	}
	favored := u.ToggleFavorite(listingID)
	if err := s.users.Update(ctx, u); err != nil {
		return false, err
	}
	return favored, nil
}
