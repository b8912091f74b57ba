package adminapi

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
	"github.com/montanaflynn/stats"

	"github.com/multivend/marketd/internal/domain"
	"github.com/multivend/marketd/internal/webserver"
)

// registerOrderRoutes registers order oversight endpoints
func registerOrderRoutes() {
	webserver.ApiGET("/orders", listOrders)
	webserver.ApiGET("/orders/export", exportOrders)
	webserver.ApiGET("/orders/stats", orderStats)
	webserver.ApiGET("/orders/:id", getOrder)
}

func listOrders(c echo.Context) error {
	page, perPage := parsePagination(c)

	db := GetDB(c).Model(&domain.Order{})
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		db = db.Where("status = ?", status)
	}
	if shop := strings.TrimSpace(c.QueryParam("shop_id")); shop != "" {
		if id, err := strconv.ParseInt(shop, 10, 64); err == nil {
			db = db.Where("shop_id = ?", id)
		}
	}
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		db = db.Where("CAST(id AS TEXT) LIKE ?", "%"+q+"%")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}

	var rows []domain.Order
	if err := db.Preload("Items").Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}

	return paged(c, rows, total, page, perPage)
}

func getOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	var order domain.Order
	if err := GetDB(c).Preload("Items").Where("id = ?", id).First(&order).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Order not found", nil)
	}
	return ok(c, order)
}

type orderExportRow struct {
	ID            int64   `csv:"id"`
	ShopID        int64   `csv:"shop_id"`
	UserID        int64   `csv:"user_id"`
	TotalPrice    float64 `csv:"total_price"`
	Status        string  `csv:"status"`
	PaymentStatus string  `csv:"payment_status"`
	ShippingCity  string  `csv:"shipping_city"`
	CreatedAt     string  `csv:"created_at"`
}

// exportOrders streams the filtered order set as CSV (default) or XLSX.
func exportOrders(c echo.Context) error {
	db := GetDB(c).Model(&domain.Order{})
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		db = db.Where("status = ?", status)
	}
	if shop := strings.TrimSpace(c.QueryParam("shop_id")); shop != "" {
		if id, err := strconv.ParseInt(shop, 10, 64); err == nil {
			db = db.Where("shop_id = ?", id)
		}
	}

	var orders []domain.Order
	if err := db.Order("created_at DESC").Limit(10000).Find(&orders).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}

	rows := make([]orderExportRow, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, orderExportRow{
			ID:            o.ID,
			ShopID:        o.ShopID,
			UserID:        o.UserID,
			TotalPrice:    o.TotalPrice,
			Status:        o.Status,
			PaymentStatus: o.PaymentStatus,
			ShippingCity:  o.ShippingCity,
			CreatedAt:     o.CreatedAt.Format(time.RFC3339),
		})
	}

	filename := "orders-" + time.Now().Format("20060102")

	if strings.EqualFold(c.QueryParam("format"), "xlsx") {
		f := excelize.NewFile()
		headers := []string{"id", "shop_id", "user_id", "total_price", "status", "payment_status", "shipping_city", "created_at"}
		for i, h := range headers {
			f.SetCellValue("Sheet1", fmt.Sprintf("%c1", 'A'+i), h)
		}
		for i, r := range orders {
			row := i + 2
			f.SetCellValue("Sheet1", fmt.Sprintf("A%d", row), r.ID)
			f.SetCellValue("Sheet1", fmt.Sprintf("B%d", row), r.ShopID)
			f.SetCellValue("Sheet1", fmt.Sprintf("C%d", row), r.UserID)
			f.SetCellValue("Sheet1", fmt.Sprintf("D%d", row), r.TotalPrice)
			f.SetCellValue("Sheet1", fmt.Sprintf("E%d", row), r.Status)
			f.SetCellValue("Sheet1", fmt.Sprintf("F%d", row), r.PaymentStatus)
			f.SetCellValue("Sheet1", fmt.Sprintf("G%d", row), r.ShippingCity)
			f.SetCellValue("Sheet1", fmt.Sprintf("H%d", row), r.CreatedAt.Format(time.RFC3339))
		}
		var buf bytes.Buffer
		if err := f.Write(&buf); err != nil {
			return fail(c, http.StatusInternalServerError, "EXPORT_FAILED", "Failed to build XLSX", err.Error())
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`.xlsx"`)
		return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	}

	out, err := gocsv.MarshalString(&rows)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_FAILED", "Failed to build CSV", err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`.csv"`)
	return c.Blob(http.StatusOK, "text/csv", []byte(out))
}

type orderStatsResponse struct {
	Count        int64   `json:"count"`
	Revenue      float64 `json:"revenue"`
	MeanTotal    float64 `json:"mean_total"`
	MedianTotal  float64 `json:"median_total"`
	P90Total     float64 `json:"p90_total"`
	DeliveredPct float64 `json:"delivered_pct"`
}

// orderStats aggregates order totals for the console dashboard.
func orderStats(c echo.Context) error {
	db := GetDB(c).Model(&domain.Order{})
	if shop := strings.TrimSpace(c.QueryParam("shop_id")); shop != "" {
		if id, err := strconv.ParseInt(shop, 10, 64); err == nil {
			db = db.Where("shop_id = ?", id)
		}
	}

	var orders []domain.Order
	if err := db.Find(&orders).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}

	res := orderStatsResponse{Count: int64(len(orders))}
	if len(orders) == 0 {
		return ok(c, res)
	}

	totals := make([]float64, 0, len(orders))
	delivered := 0
	for _, o := range orders {
		totals = append(totals, o.TotalPrice)
		res.Revenue += o.TotalPrice
		if o.Status == domain.OrderDelivered {
			delivered++
		}
	}

	res.MeanTotal, _ = stats.Mean(totals)
	res.MedianTotal, _ = stats.Median(totals)
	res.P90Total, _ = stats.Percentile(totals, 90)
	res.DeliveredPct = float64(delivered) / float64(len(orders)) * 100

	return ok(c, res)
}
