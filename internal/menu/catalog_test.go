package menu_test

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lunch-tray/internal/menu"
)

func TestDefaultCatalog(t *testing.T) {
	c := menu.Default()
	require.Equal(t, 11, c.Len())
	require.Len(t, c.ByCategory(menu.CategoryEntree), 4)
	require.Len(t, c.ByCategory(menu.CategorySide), 4)
	require.Len(t, c.ByCategory(menu.CategoryAccompaniment), 3)

	item, ok := c.Lookup("cauliflower")
	require.True(t, ok)
	require.Equal(t, "Cauliflower", item.Title)
	require.EqualValues(t, 700, item.Price)
	require.Equal(t, menu.CategoryEntree, item.Category)
}

func TestLookupMiss(t *testing.T) {
	c := menu.Default()
	_, ok := c.Lookup("lobster")
	require.False(t, ok)

	var nilCatalog *menu.Catalog
	_, ok = nilCatalog.Lookup("cauliflower")
	require.False(t, ok)
	require.Zero(t, nilCatalog.Len())
}

func TestItemsOrderedByCategoryThenName(t *testing.T) {
	c, err := menu.NewCatalog(
		menu.Item{Name: "roll", Title: "Roll", Category: menu.CategoryAccompaniment, Price: 50},
		menu.Item{Name: "soup", Title: "Soup", Category: menu.CategorySide, Price: 300},
		menu.Item{Name: "pasta", Title: "Pasta", Category: menu.CategoryEntree, Price: 550},
		menu.Item{Name: "chili", Title: "Chili", Category: menu.CategoryEntree, Price: 400},
	)
	require.NoError(t, err)
	var names []string
	for _, it := range c.Items() {
		names = append(names, it.Name)
	}
	require.Equal(t, []string{"chili", "pasta", "soup", "roll"}, names)
}

func TestNewCatalogRejectsInvalidItems(t *testing.T) {
	_, err := menu.NewCatalog(menu.Item{Name: "x", Title: "X", Category: "dessert", Price: 100})
	require.ErrorIs(t, err, menu.ErrInvalidItem)

	_, err = menu.NewCatalog(menu.Item{Name: "x", Title: "X", Category: menu.CategorySide, Price: -1})
	require.ErrorIs(t, err, menu.ErrInvalidItem)

	_, err = menu.NewCatalog(menu.Item{Name: " ", Title: "X", Category: menu.CategorySide})
	require.ErrorIs(t, err, menu.ErrInvalidItem)

	_, err = menu.NewCatalog(
		menu.Item{Name: "x", Title: "X", Category: menu.CategorySide, Price: 1},
		menu.Item{Name: "x", Title: "Y", Category: menu.CategorySide, Price: 2},
	)
	require.ErrorIs(t, err, menu.ErrDuplicateItem)
}

func TestParsePrice(t *testing.T) {
	cases := map[string]int64{"5.50": 550, "0.5": 50, "7": 700, " 2.00 ": 200, "0": 0}
	for in, want := range cases {
		got, err := menu.ParsePrice(in, 2)
		require.NoError(t, err, in)
		require.EqualValues(t, want, got, in)
	}
	for _, bad := range []string{"", "abc", "1.005", "-1.00", "99999999999999999999"} {
		_, err := menu.ParsePrice(bad, 2)
		require.ErrorIs(t, err, menu.ErrInvalidPrice, bad)
	}
}

func TestParsePriceUsesCurrencyDigits(t *testing.T) {
	yen, err := menu.ParsePrice("700", 0)
	require.NoError(t, err)
	require.EqualValues(t, 700, yen)

	_, err = menu.ParsePrice("7.5", 0)
	require.ErrorIs(t, err, menu.ErrInvalidPrice)

	dinar, err := menu.ParsePrice("1.250", 3)
	require.NoError(t, err)
	require.EqualValues(t, 1250, dinar)

	_, err = menu.ParsePrice("1", -1)
	require.ErrorIs(t, err, menu.ErrInvalidPrice)
}

func TestPriceUpperBound(t *testing.T) {
	limit := strconv.FormatInt(menu.MaxPrice, 10)
	got, err := menu.ParsePrice(limit, 0)
	require.NoError(t, err)
	require.EqualValues(t, menu.MaxPrice, got)

	_, err = menu.ParsePrice(strconv.FormatInt(menu.MaxPrice+1, 10), 0)
	require.ErrorIs(t, err, menu.ErrInvalidPrice)

	_, err = menu.NewCatalog(menu.Item{Name: "gold", Title: "Gold", Category: menu.CategoryEntree, Price: menu.MaxPrice + 1})
	require.ErrorIs(t, err, menu.ErrInvalidItem)
}

func TestDefaultForDigits(t *testing.T) {
	c, err := menu.DefaultFor(menu.DefaultMinorDigits)
	require.NoError(t, err)
	require.Equal(t, menu.Default().Len(), c.Len())

	_, err = menu.DefaultFor(0)
	require.ErrorIs(t, err, menu.ErrCurrencyDigits)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.json")
	doc := `{"items":[
		{"name":"tofu","title":"Crispy Tofu","category":"entree","price":"6.50"},
		{"name":"slaw","title":"Slaw","category":"side","price":"2.00"}
	]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	c, err := menu.LoadFile(path, 2)
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())
	tofu, ok := c.Lookup("tofu")
	require.True(t, ok)
	require.EqualValues(t, 650, tofu.Price)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := menu.LoadFile(filepath.Join(t.TempDir(), "missing.json"), 2)
	require.Error(t, err)

	_, err = menu.Parse([]byte(`{"items":[{"name":"a","title":"A","category":"side","price":"1.234"}]}`), 2)
	require.ErrorIs(t, err, menu.ErrInvalidPrice)

	_, err = menu.Parse([]byte(`not json`), 2)
	require.Error(t, err)
}

func TestParseCategory(t *testing.T) {
	c, ok := menu.ParseCategory("side")
	require.True(t, ok)
	require.Equal(t, menu.CategorySide, c)
	_, ok = menu.ParseCategory("dessert")
	require.False(t, ok)
}
