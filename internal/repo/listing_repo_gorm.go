package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/saharaestate/backend/internal/domain"
)

type ListingRepo struct{ db *gorm.DB }

func NewListingRepo(db *gorm.DB) *ListingRepo { return &ListingRepo{db: db} }

func (r *ListingRepo) Create(ctx context.Context, l *domain.Listing) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *ListingRepo) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	var l domain.Listing
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &l, err
}

func (r *ListingRepo) FindByIDs(ctx context.Context, ids []string) ([]domain.Listing, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var ls []domain.Listing
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ls).Error
	return ls, err
}

func (r *ListingRepo) FindByOwner(ctx context.Context, userRef string) ([]domain.Listing, error) {
	var ls []domain.Listing
	err := r.db.WithContext(ctx).Where("user_ref = ?", userRef).Order("created_at DESC").Find(&ls).Error
	return ls, err
}

func (r *ListingRepo) Search(ctx context.Context, f domain.ListingFilter) ([]domain.Listing, error) {
	q := r.db.WithContext(ctx).Model(&domain.Listing{})

	if f.SearchTerm != "" {
		q = q.Where("name LIKE ?", "%"+f.SearchTerm+"%")
	}
	if f.Type != "" && f.Type != "all" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Offer != nil {
		q = q.Where("offer = ?", *f.Offer)
	}
	if f.Furnished != nil {
		q = q.Where("furnished = ?", *f.Furnished)
	}
	if f.Parking != nil {
		q = q.Where("parking = ?", *f.Parking)
	}

	sort := f.Sort
	switch sort {
	case "regular_price", "created_at":
	default:
		sort = "created_at"
	}
	order := "DESC"
	if f.Order == "asc" {
		order = "ASC"
	}
	q = q.Order(sort + " " + order)

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 9
	}
	var ls []domain.Listing
	err := q.Offset(f.Offset).Limit(limit).Find(&ls).Error
	return ls, err
}

func (r *ListingRepo) Update(ctx context.Context, l *domain.Listing) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *ListingRepo) SoftDelete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Listing{}).Error
}
