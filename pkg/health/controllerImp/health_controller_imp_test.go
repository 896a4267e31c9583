package controllerImp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cropcal/database"
)

type fixedCount int

func (f fixedCount) Len() int { return int(f) }

func TestHealthOK(t *testing.T) {
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "health.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	e := echo.New()
	rec := httptest.NewRecorder()
	h := NewHealthCtrl(db, fixedCount(3), nil)
	require.NoError(t, h.Health(e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 3, body["guest_sessions"])
}

func TestHealthWithoutDB(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	require.NoError(t, NewHealthCtrl(nil, nil, nil).Health(e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
