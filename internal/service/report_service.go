package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/saharaestate/backend/internal/core/pdf"
	"github.com/saharaestate/backend/internal/domain"
)

// reportRow 报表里的一行；两种报表共用，最后一列含义不同
type reportRow struct {
	Name      string
	Address   string
	Type      string
	Price     string
	Bedrooms  string
	Bathrooms string
	Parking   string
	Furnished string
	Extra     string // owner 报表是创建日期，customer 报表是是否收藏
}

type reportData struct {
	Title       string
	GeneratedOn string
	Total       int
	ExtraHeader string
	Rows        []reportRow
}

var reportTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><style>
body { font-family: Helvetica, Arial, sans-serif; color: #333; margin: 24px; }
h1 { text-align: center; font-size: 22px; }
.meta { text-align: right; color: #666; font-size: 12px; }
.summary { font-size: 12px; color: #444; margin: 12px 0; }
table { width: 100%; border-collapse: collapse; font-size: 9px; }
th, td { border: 1px solid #999; padding: 5px; text-align: left; }
th { font-size: 10px; background: #eee; }
</style></head>
<body>
<h1>{{.Title}}</h1>
<p class="meta">Generated on: {{.GeneratedOn}}</p>
<p class="summary">Total Properties: {{.Total}}</p>
<table>
<tr><th>Name</th><th>Address</th><th>Type</th><th>Price</th><th>Beds</th><th>Baths</th><th>Parking</th><th>Furnished</th><th>{{.ExtraHeader}}</th></tr>
{{range .Rows}}<tr><td>{{.Name}}</td><td>{{.Address}}</td><td>{{.Type}}</td><td>{{.Price}}</td><td>{{.Bedrooms}}</td><td>{{.Bathrooms}}</td><td>{{.Parking}}</td><td>{{.Furnished}}</td><td>{{.Extra}}</td></tr>
{{end}}</table>
</body>
</html>`))

type ReportService struct {
	listings domain.ListingRepository
	users    domain.UserRepository
	renderer pdf.Renderer

	now func() time.Time
}

func NewReportService(listings domain.ListingRepository, users domain.UserRepository, r pdf.Renderer) *ReportService {
	return &ReportService{listings: listings, users: users, renderer: r, now: time.Now}
}

// OwnerReport 房东名下房源汇总
func (s *ReportService) OwnerReport(ctx context.Context, ownerID string) ([]byte, error) {
	listings, err := s.listings.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	rows := make([]reportRow, 0, len(listings))
	for _, l := range listings {
		r := rowFromListing(l)
		r.Extra = l.CreatedAt.Format("1/2/2006")
		rows = append(rows, r)
	}
	if len(rows) == 0 {
		// 没有数据也要渲染出表格
		rows = append(rows, emptyRow())
	}

	return s.render(ctx, reportData{
		Title:       "Owner Property Report",
		GeneratedOn: s.now().Format("1/2/2006"),
		Total:       len(listings),
		ExtraHeader: "Created",
		Rows:        rows,
	})
}

// CustomerReport 客户浏览过的房源，标注是否收藏
func (s *ReportService) CustomerReport(ctx context.Context, userID string) ([]byte, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}

	visitedIDs := make([]string, 0, len(u.VisitedProperties))
	for _, vp := range u.VisitedProperties {
		visitedIDs = append(visitedIDs, vp.ListingID)
	}
	visited, err := s.listings.FindByIDs(ctx, visitedIDs)
	if err != nil {
		return nil, err
	}

	favored := make(map[string]bool, len(u.Favorites))
	for _, id := range u.Favorites {
		favored[id] = true
	}

	rows := make([]reportRow, 0, len(visited))
	for _, l := range visited {
		r := rowFromListing(l)
		r.Extra = yesNo(favored[l.ID])
		rows = append(rows, r)
	}
	if len(rows) == 0 {
		rows = append(rows, emptyRow())
	}

	return s.render(ctx, reportData{
		Title:       "Customer Property Report",
		GeneratedOn: s.now().Format("1/2/2006"),
		Total:       len(visited),
		ExtraHeader: "Favorited",
		Rows:        rows,
	})
}

func (s *ReportService) render(ctx context.Context, data reportData) ([]byte, error) {
	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return s.renderer.RenderHTML(ctx, buf.String())
}

func rowFromListing(l domain.Listing) reportRow {
	price := "N/A"
	if l.RegularPrice > 0 {
		price = fmt.Sprintf("$%d", l.RegularPrice)
		if l.Type == domain.ListingTypeRent {
			price += "/month"
		}
	}
	return reportRow{
		Name:      orNA(l.Name),
		Address:   orNA(l.Address),
		Type:      orNA(l.Type),
		Price:     price,
		Bedrooms:  fmt.Sprint(l.Bedrooms),
		Bathrooms: fmt.Sprint(l.Bathrooms),
		Parking:   yesNo(l.Parking),
		Furnished: yesNo(l.Furnished),
	}
}

func emptyRow() reportRow {
	return reportRow{Name: "No Data", Address: "-", Type: "-", Price: "-", Bedrooms: "-", Bathrooms: "-", Parking: "-", Furnished: "-", Extra: "-"}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
