package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menuqr-service/internal/model"
)

type menuListResponse struct {
	Items []struct {
		ID             uint    `json:"id"`
		Name           string  `json:"name"`
		Category       string  `json:"category"`
		Price          float64 `json:"price"`
		EffectivePrice float64 `json:"effective_price"`
		Savings        float64 `json:"savings"`
	} `json:"items"`
}

func TestAddAndListMenu(t *testing.T) {
	e := echo.New()
	db := newTestDB(t)
	h := NewMenuHandler(db)
	vendor := createVendor(t, db, model.Vendor{
		Email:          "chef@example.com",
		RestaurantName: "Spice Villa",
		DiscountType:   model.DiscountPercentage,
		DiscountValue:  20,
	})

	c, rec := jsonRequest(e, http.MethodPost, "/api/vendor/menu",
		`{"name":"Paneer Tikka","price":100,"category":"Starters"}`)
	asVendor(c, vendor.ID)
	require.NoError(t, h.AddItem(c))
	requireStatus(t, rec, http.StatusCreated)

	c, rec = jsonRequest(e, http.MethodGet, "/api/vendor/menu", "")
	asVendor(c, vendor.ID)
	require.NoError(t, h.ListMenu(c))
	requireStatus(t, rec, http.StatusOK)

	var resp menuListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Paneer Tikka", resp.Items[0].Name)
	assert.Equal(t, 100.0, resp.Items[0].Price)
	assert.Equal(t, 80.0, resp.Items[0].EffectivePrice)
	assert.Equal(t, 20.0, resp.Items[0].Savings)
}

func TestAddItem_Validation(t *testing.T) {
	e := echo.New()
	db := newTestDB(t)
	h := NewMenuHandler(db)
	vendor := createVendor(t, db, model.Vendor{Email: "chef@example.com"})

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"price":100,"category":"Starters"}`},
		{"missing category", `{"name":"Dal","price":100}`},
		{"zero price", `{"name":"Dal","price":0,"category":"Mains"}`},
		{"negative price", `{"name":"Dal","price":-5,"category":"Mains"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := jsonRequest(e, http.MethodPost, "/api/vendor/menu", tt.body)
			asVendor(c, vendor.ID)
			require.NoError(t, h.AddItem(c))
			requireStatus(t, rec, http.StatusBadRequest)
		})
	}
}

func TestUpdateItem(t *testing.T) {
	e := echo.New()
	db := newTestDB(t)
	h := NewMenuHandler(db)
	vendor := createVendor(t, db, model.Vendor{Email: "chef@example.com"})
	item := model.MenuItem{VendorID: vendor.ID, Name: "Dal", Price: 80, Category: "Mains"}
	require.NoError(t, db.Create(&item).Error)

	c, rec := jsonRequest(e, http.MethodPut, "/api/vendor/menu/1", `{"name":"Dal Tadka","price":90}`)
	c.SetParamNames("id")
	c.SetParamValues("1")
	asVendor(c, vendor.ID)
	require.NoError(t, h.UpdateItem(c))
	requireStatus(t, rec, http.StatusOK)

	var updated model.MenuItem
	require.NoError(t, db.First(&updated, item.ID).Error)
	assert.Equal(t, "Dal Tadka", updated.Name)
	assert.Equal(t, 90.0, updated.Price)
	// Fields absent from the request are untouched
	assert.Equal(t, "Mains", updated.Category)
}

func TestUpdateItem_OtherVendorsItemIsNotFound(t *testing.T) {
	e := echo.New()
	db := newTestDB(t)
	h := NewMenuHandler(db)
	owner := createVendor(t, db, model.Vendor{Email: "owner@example.com"})
	intruder := createVendor(t, db, model.Vendor{Email: "intruder@example.com"})
	item := model.MenuItem{VendorID: owner.ID, Name: "Dal", Price: 80, Category: "Mains"}
	require.NoError(t, db.Create(&item).Error)

	c, rec := jsonRequest(e, http.MethodPut, "/api/vendor/menu/1", `{"price":1}`)
	c.SetParamNames("id")
	c.SetParamValues("1")
	asVendor(c, intruder.ID)
	require.NoError(t, h.UpdateItem(c))
	requireStatus(t, rec, http.StatusNotFound)
}

func TestDeleteItem(t *testing.T) {
	e := echo.New()
	db := newTestDB(t)
	h := NewMenuHandler(db)
	vendor := createVendor(t, db, model.Vendor{Email: "chef@example.com"})
	item := model.MenuItem{VendorID: vendor.ID, Name: "Dal", Price: 80, Category: "Mains"}
	require.NoError(t, db.Create(&item).Error)

	c, rec := jsonRequest(e, http.MethodDelete, "/api/vendor/menu/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	asVendor(c, vendor.ID)
	require.NoError(t, h.DeleteItem(c))
	requireStatus(t, rec, http.StatusOK)

	var count int64
	db.Model(&model.MenuItem{}).Where("vendor_id = ?", vendor.ID).Count(&count)
	assert.Zero(t, count)
}

func TestDeleteItem_NotFound(t *testing.T) {
	e := echo.New()
	db := newTestDB(t)
	h := NewMenuHandler(db)
	vendor := createVendor(t, db, model.Vendor{Email: "chef@example.com"})

	c, rec := jsonRequest(e, http.MethodDelete, "/api/vendor/menu/99", "")
	c.SetParamNames("id")
	c.SetParamValues("99")
	asVendor(c, vendor.ID)
	require.NoError(t, h.DeleteItem(c))
	requireStatus(t, rec, http.StatusNotFound)
}
