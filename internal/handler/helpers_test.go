package handler

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"menuqr-service/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Vendor{}, &model.MenuItem{}, &model.AnalyticsEvent{}))
	return db
}

// fakeMailer records dispatched messages
type fakeMailer struct {
	bodies []string
}

func (m *fakeMailer) Send(to, subject, htmlBody string) error {
	m.bodies = append(m.bodies, htmlBody)
	return nil
}

// jsonRequest builds an echo context for a JSON request and a recorder to
// inspect the response
func jsonRequest(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// asVendor marks the context as authenticated, the way the JWT middleware
// does after validating a token
func asVendor(c echo.Context, vendorID uint) {
	c.Set("vendor_id", vendorID)
}

func createVendor(t *testing.T, db *gorm.DB, v model.Vendor) model.Vendor {
	t.Helper()
	require.NoError(t, db.Create(&v).Error)
	return v
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, rec.Code, "unexpected status, body: %s", rec.Body.String())
}
