package menu_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lunch-tray/internal/menu"
	"github.com/noah-isme/lunch-tray/internal/pricing"
)

type centsFormatter struct{}

func (centsFormatter) Format(amount pricing.Money) string {
	return fmt.Sprintf("$%d.%02d", amount/100, amount%100)
}

type menuResponse struct {
	Data map[string][]menu.ItemResponse `json:"data"`
}

func TestListGroupsByCategory(t *testing.T) {
	handler := &menu.Handler{Catalog: menu.Default(), Formatter: centsFormatter{}}
	rec := httptest.NewRecorder()
	handler.List(rec, httptest.NewRequest(http.MethodGet, "/api/v1/menu", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp menuResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data["entree"], 4)
	require.Len(t, resp.Data["side"], 4)
	require.Len(t, resp.Data["accompaniment"], 3)
	require.Equal(t, "berries", resp.Data["accompaniment"][0].Name)
	require.Equal(t, "$1.00", resp.Data["accompaniment"][0].PriceFormatted)
}

func TestListWithoutCatalog(t *testing.T) {
	rec := httptest.NewRecorder()
	(&menu.Handler{}).List(rec, httptest.NewRequest(http.MethodGet, "/api/v1/menu", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
