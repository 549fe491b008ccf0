package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httpez "github.com/saharaestate/backend/internal/transport/http/ez"
	mdw "github.com/saharaestate/backend/internal/transport/http/middleware"
)

// 报表直接回 PDF 字节流，不走 JSON 包装
func mountReportRoutes(authed *gin.RouterGroup, d APIDeps) {
	ownerOnly := authed.Group("")
	ownerOnly.Use(mdw.RequireOwner())

	ownerOnly.GET("/reports/owner", func(c *gin.Context) {
		data, err := d.Reports.OwnerReport(c.Request.Context(), c.GetString("userId"))
		if err != nil {
			httpez.Fail(c, err)
			return
		}
		c.Header("Content-Disposition", "attachment; filename=owner-report.pdf")
		c.Data(http.StatusOK, "application/pdf", data)
	})

	authed.GET("/reports/customer", func(c *gin.Context) {
		data, err := d.Reports.CustomerReport(c.Request.Context(), c.GetString("userId"))
		if err != nil {
			httpez.Fail(c, err)
			return
		}
		c.Header("Content-Disposition", "attachment; filename=customer-report.pdf")
		c.Data(http.StatusOK, "application/pdf", data)
	})
}
