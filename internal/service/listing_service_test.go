package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/saharaestate/backend/internal/domain"
	"github.com/saharaestate/backend/internal/repo"
)

func newListingFixture(t *testing.T) (*ListingService, *AuthService, *gorm.DB) {
	t.Helper()
	db := testDB(t)
	users := repo.NewUserRepo(db)
	listings := repo.NewListingRepo(db)
	auth := NewAuthService(users, &fakeSender{}, testLogger())
	svc := NewListingService(listings, users, nil, testLogger())
	return svc, auth, db
}

func sampleListing(name string) *domain.Listing {
	return &domain.Listing{
		Name:         name,
		Description:  "cozy two bedroom",
		Address:      "12 Palm St",
		RegularPrice: 1200,
		Bathrooms:    1,
		Bedrooms:     2,
		Type:         "rent",
		ImageURLs:    []string{"https://example.com/1.jpg"},
	}
}

func TestListingCreateForcesOwnership(t *testing.T) {
	svc, auth, _ := newListingFixture(t)
	owner := mustSignup(t, auth, "owner@x.com", domain.RoleOwner)

	in := sampleListing("Palm House")
	in.UserRef = "someone-else" // body 里伪造的归属必须被覆盖
	l, err := svc.Create(context.Background(), in, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, l.UserRef)
	assert.NotEmpty(t, l.ID)

	got, err := svc.Get(context.Background(), l.ID)
	require.NoError(t, err)
	assert.Equal(t, "Palm House", got.Name)
}

func TestListingGetNotFound(t *testing.T) {
	svc, _, _ := newListingFixture(t)
	_, err := svc.Get(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListingUpdateOwnershipGate(t *testing.T) {
	svc, auth, _ := newListingFixture(t)
	owner := mustSignup(t, auth, "owner@x.com", domain.RoleOwner)
	other := mustSignup(t, auth, "other@x.com", domain.RoleOwner)

	l, err := svc.Create(context.Background(), sampleListing("Palm House"), owner.ID)
	require.NoError(t, err)

	patch := sampleListing("Renamed House")
	_, err = svc.Update(context.Background(), l.ID, other.ID, patch)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	updated, err := svc.Update(context.Background(), l.ID, owner.ID, patch)
	require.NoError(t, err)
	assert.Equal(t, "Renamed House", updated.Name)
	// 归属不随更新体变化
	assert.Equal(t, owner.ID, updated.UserRef)
}

func TestListingDeleteOwnershipGate(t *testing.T) {
	svc, auth, _ := newListingFixture(t)
	owner := mustSignup(t, auth, "owner@x.com", domain.RoleOwner)
	other := mustSignup(t, auth, "other@x.com", domain.RoleOwner)

	l, err := svc.Create(context.Background(), sampleListing("Palm House"), owner.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(context.Background(), l.ID, other.ID), domain.ErrForbidden)
	require.NoError(t, svc.Delete(context.Background(), l.ID, owner.ID))

	_, err = svc.Get(context.Background(), l.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(context.Background(), "no-such-id", owner.ID), domain.ErrNotFound)
}

func TestListingSearch(t *testing.T) {
	svc, auth, _ := newListingFixture(t)
	owner := mustSignup(t, auth, "owner@x.com", domain.RoleOwner)

	mk := func(name, typ string, price int64, furnished bool) {
		l := sampleListing(name)
		l.Type = typ
		l.RegularPrice = price
		l.Furnished = furnished
		_, err := svc.Create(context.Background(), l, owner.ID)
		require.NoError(t, err)
	}
	mk("Palm House", "rent", 1200, true)
	mk("Palm Villa", "sale", 250000, false)
	mk("Cedar Flat", "rent", 900, true)

	ctx := context.Background()

	got, err := svc.Search(ctx, domain.ListingFilter{SearchTerm: "palm"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = svc.Search(ctx, domain.ListingFilter{Type: "rent"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	furnished := true
	got, err = svc.Search(ctx, domain.ListingFilter{Furnished: &furnished, Type: "all"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = svc.Search(ctx, domain.ListingFilter{Sort: "regular_price", Order: "asc"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Cedar Flat", got[0].Name)
	assert.Equal(t, "Palm Villa", got[2].Name)

	got, err = svc.Search(ctx, domain.ListingFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestListingByOwner(t *testing.T) {
	svc, auth, _ := newListingFixture(t)
	owner := mustSignup(t, auth, "owner@x.com", domain.RoleOwner)
	other := mustSignup(t, auth, "other@x.com", domain.RoleOwner)

	_, err := svc.Create(context.Background(), sampleListing("A"), owner.ID)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), sampleListing("B"), owner.ID)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), sampleListing("C"), other.ID)
	require.NoError(t, err)

	got, err := svc.ByOwner(context.Background(), owner.ID)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestToggleFavorite(t *testing.T) {
	svc, auth, db := newListingFixture(t)
	owner := mustSignup(t, auth, "owner@x.com", domain.RoleOwner)
	customer := mustSignup(t, auth, "cust@x.com", "")

	l, err := svc.Create(context.Background(), sampleListing("Palm House"), owner.ID)
	require.NoError(t, err)

	on, err := svc.ToggleFavorite(context.Background(), customer.ID, l.ID)
	require.NoError(t, err)
	assert.True(t, on)

	users := repo.NewUserRepo(db)
	u, err := users.FindByID(context.Background(), customer.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{l.ID}, u.Favorites)

	// 再切一次回到未收藏
	on, err = svc.ToggleFavorite(context.Background(), customer.ID, l.ID)
	require.NoError(t, err)
	assert.False(t, on)

	_, err = svc.ToggleFavorite(context.Background(), customer.ID, "no-such-id")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordVisitAndSearchHistory(t *testing.T) {
	svc, auth, db := newListingFixture(t)
	owner := mustSignup(t, auth, "owner@x.com", domain.RoleOwner)
	customer := mustSignup(t, auth, "cust@x.com", "")

	l, err := svc.Create(context.Background(), sampleListing("Palm House"), owner.ID)
	require.NoError(t, err)

	svc.RecordVisit(context.Background(), customer.ID, l.ID)
	svc.RecordVisit(context.Background(), customer.ID, l.ID)
	svc.RecordSearch(context.Background(), customer.ID, "palm")
	svc.RecordSearch(context.Background(), customer.ID, "") // 空词不入历史

	users := repo.NewUserRepo(db)
	u, err := users.FindByID(context.Background(), customer.ID)
	require.NoError(t, err)
	require.Len(t, u.VisitedProperties, 1)
	assert.Equal(t, l.ID, u.VisitedProperties[0].ListingID)
	assert.Equal(t, 2, u.VisitedProperties[0].Visits)
	assert.Equal(t, []string{"palm"}, u.SearchHistory)

	// 未知用户静默忽略
	svc.RecordVisit(context.Background(), "no-such-user", l.ID)
}
