package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menuqr-service/internal/model"
)

func TestGetPublicMenu_FixedDiscount(t *testing.T) {
	e := echo.New()
	db := newTestDB(t)
	h := NewPublicHandler(db, "http://localhost:8080")
	vendor := createVendor(t, db, model.Vendor{
		Email:          "chef@example.com",
		RestaurantName: "Spice Villa",
		Description:    "Family kitchen",
		DiscountType:   model.DiscountFixed,
		DiscountValue:  30,
	})
	require.NoError(t, db.Create(&model.MenuItem{
		VendorID: vendor.ID, Name: "Thali", Price: 100, Category: "Mains",
	}).Error)

	c, rec := jsonRequest(e, http.MethodGet, "/public/menu?restaurant=Spice+Villa", "")
	require.NoError(t, h.GetMenu(c))
	requireStatus(t, rec, http.StatusOK)

	var resp struct {
		Items []struct {
			Name           string  `json:"name"`
			Price          float64 `json:"price"`
			EffectivePrice float64 `json:"effective_price"`
			Savings        float64 `json:"savings"`
		} `json:"items"`
		Vendor publicVendor `json:"vendor"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 100.0, resp.Items[0].Price)
	assert.Equal(t, 70.0, resp.Items[0].EffectivePrice)
	assert.Equal(t, 30.0, resp.Items[0].Savings)
	assert.Equal(t, "Spice Villa", resp.Vendor.RestaurantName)
	assert.Equal(t, model.DiscountFixed, resp.Vendor.DiscountType)
}

// The public page and the vendor dashboard render prices through the same
// path, so the same item must quote identically on both.
func TestGetPublicMenu_MatchesDashboardPricing(t *testing.T) {
	e := echo.New()
	db := newTestDB(t)
	public := NewPublicHandler(db, "http://localhost:8080")
	dashboard := NewMenuHandler(db)
	vendor := createVendor(t, db, model.Vendor{
		Email:          "chef@example.com",
		RestaurantName: "Spice Villa",
		DiscountType:   model.DiscountFixed,
		DiscountValue:  30,
	})
	require.NoError(t, db.Create(&model.MenuItem{
		VendorID: vendor.ID, Name: "Thali", Price: 100, Category: "Mains",
	}).Error)

	c, rec := jsonRequest(e, http.MethodGet, "/public/menu?restaurant=Spice+Villa", "")
	require.NoError(t, public.GetMenu(c))
	requireStatus(t, rec, http.StatusOK)
	var publicResp menuListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &publicResp))

	c, rec = jsonRequest(e, http.MethodGet, "/api/vendor/menu", "")
	asVendor(c, vendor.ID)
	require.NoError(t, dashboard.ListMenu(c))
	requireStatus(t, rec, http.StatusOK)
	var dashboardResp menuListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dashboardResp))

	require.Len(t, publicResp.Items, 1)
	require.Len(t, dashboardResp.Items, 1)
	assert.Equal(t, dashboardResp.Items[0].EffectivePrice, publicResp.Items[0].EffectivePrice)
	assert.Equal(t, dashboardResp.Items[0].Savings, publicResp.Items[0].Savings)
}

func TestGetPublicMenu_DoesNotLeakCredentials(t *testing.T) {
	e := echo.New()
	db := newTestDB(t)
	h := NewPublicHandler(db, "http://localhost:8080")
	code := "654321"
	createVendor(t, db, model.Vendor{
		Email:          "chef@example.com",
		RestaurantName: "Spice Villa",
		OTP:            &code,
	})

	c, rec := jsonRequest(e, http.MethodGet, "/public/menu?restaurant=Spice+Villa", "")
	require.NoError(t, h.GetMenu(c))
	requireStatus(t, rec, http.StatusOK)
	assert.NotContains(t, rec.Body.String(), "chef@example.com")
	assert.NotContains(t, rec.Body.String(), "654321")
}

func TestGetPublicMenu_UnknownRestaurant(t *testing.T) {
	e := echo.New()
	h := NewPublicHandler(newTestDB(t), "http://localhost:8080")

	c, rec := jsonRequest(e, http.MethodGet, "/public/menu?restaurant=Nowhere", "")
	require.NoError(t, h.GetMenu(c))
	requireStatus(t, rec, http.StatusNotFound)
}

func TestGetPublicMenu_RequiresRestaurantParam(t *testing.T) {
	e := echo.New()
	h := NewPublicHandler(newTestDB(t), "http://localhost:8080")

	c, rec := jsonRequest(e, http.MethodGet, "/public/menu", "")
	require.NoError(t, h.GetMenu(c))
	requireStatus(t, rec, http.StatusBadRequest)
}

func TestGetQR(t *testing.T) {
	e := echo.New()
	db := newTestDB(t)
	h := NewPublicHandler(db, "https://menu.example.com")
	createVendor(t, db, model.Vendor{Email: "chef@example.com", RestaurantName: "Spice Villa"})

	c, rec := jsonRequest(e, http.MethodGet, "/public/qr?restaurant=Spice+Villa", "")
	require.NoError(t, h.GetQR(c))
	requireStatus(t, rec, http.StatusOK)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))
}

func TestGetQR_UnknownRestaurant(t *testing.T) {
	e := echo.New()
	h := NewPublicHandler(newTestDB(t), "https://menu.example.com")

	c, rec := jsonRequest(e, http.MethodGet, "/public/qr?restaurant=Nowhere", "")
	require.NoError(t, h.GetQR(c))
	requireStatus(t, rec, http.StatusNotFound)
}
