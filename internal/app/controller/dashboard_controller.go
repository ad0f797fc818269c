package controller

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/evoapps/confeitaria-backend/internal/app/model"
	"github.com/evoapps/confeitaria-backend/internal/app/repository"
	"github.com/evoapps/confeitaria-backend/internal/app/service"
	apperrors "github.com/evoapps/confeitaria-backend/internal/errors"
	"github.com/evoapps/confeitaria-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type DashboardController struct {
	dashboardService service.DashboardService
	reportService    service.ReportService
	activityService  service.ActivityService
}

func NewDashboardController(
	dashboardService service.DashboardService,
	reportService service.ReportService,
	activityService service.ActivityService,
) *DashboardController {
	return &DashboardController{
		dashboardService: dashboardService,
		reportService:    reportService,
		activityService:  activityService,
	}
}

// Overview returns the dashboard cards, the seven day series and top products
// GET /api/v1/dashboard/overview
func (ctrl *DashboardController) Overview(c *gin.Context) {
	_, storeID := currentUser(c)
	overview, err := ctrl.dashboardService.Overview(storeID)
	if err != nil {
		respondServiceError(c, err, "dashboard")
		return
	}
	c.JSON(http.StatusOK, overview)
}

func reportQuery(c *gin.Context) service.ReportQuery {
	return service.ReportQuery{
		Type:  service.ReportType(c.Param("type")),
		Range: service.ReportRange(c.DefaultQuery("range", string(service.RangeToday))),
		Start: c.Query("start"),
		End:   c.Query("end"),
	}
}

// Report builds a sales, products or categories report
// GET /api/v1/reports/:type?range=&start=&end=
func (ctrl *DashboardController) Report(c *gin.Context) {
	_, storeID := currentUser(c)
	report, err := ctrl.reportService.Build(storeID, reportQuery(c))
	if err != nil {
		respondServiceError(c, err, "report")
		return
	}
	c.JSON(http.StatusOK, report)
}

// ExportReport writes the report rows as CSV or XLSX
// GET /api/v1/reports/:type/export?format=csv|xlsx
func (ctrl *DashboardController) ExportReport(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "Formato deve ser csv ou xlsx")
		return
	}

	_, storeID := currentUser(c)
	report, err := ctrl.reportService.Build(storeID, reportQuery(c))
	if err != nil {
		respondServiceError(c, err, "report")
		return
	}

	header, rows := report.Table()
	var buf bytes.Buffer
	contentType := "text/csv; charset=utf-8"
	if format == "xlsx" {
		contentType = xlsxContentType
		err = service.WriteXLSX(&buf, string(report.Type), header, rows)
	} else {
		err = service.WriteCSV(&buf, header, rows)
	}
	if err != nil {
		respondServiceError(c, err, "report export")
		return
	}

	filename := fmt.Sprintf("relatorio-%s-%s.%s", report.Type, time.Now().Format("20060102"), format)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// Activities lists the audit trail. Non-admins only see their own store.
// GET /api/v1/activities?user_id=&action=&limit=
func (ctrl *DashboardController) Activities(c *gin.Context) {
	userID, ok := optionalUint(c, "user_id")
	if !ok {
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "Parâmetro limit inválido")
			return
		}
		limit = n
	}

	filter := repository.ActivityFilter{
		UserID: userID,
		Action: c.Query("action"),
		Limit:  limit,
	}
	if role, _ := middleware.GetUserRole(c); role == model.RoleAdmin {
		storeID, ok := optionalUint(c, "store_id")
		if !ok {
			return
		}
		filter.StoreID = storeID
	} else {
		storeID := middleware.GetUserStoreID(c)
		filter.StoreID = &storeID
	}

	entries, err := ctrl.activityService.List(filter)
	if err != nil {
		respondServiceError(c, err, "activity")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"activities": entries,
		"count":      len(entries),
	})
}
