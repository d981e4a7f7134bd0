package command

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rugurujane/storefront/internal/config"
	"github.com/rugurujane/storefront/internal/storage"
	"github.com/rugurujane/storefront/internal/testutil"
)

const productsJSON = `[
  {"id":"huarache-x-stussy-le","name":"Nike Air Huarache Le","description":"<p>Great sneakers</p>","inStock":true,"category":"clothes",
   "gallery":["a.jpg","b.jpg"],"prices":[{"amount":144.69,"currency":{"label":"USD","symbol":"$"}}],
   "attributes":[{"id":"Size","name":"Size","type":"text","items":[{"id":"40","displayValue":"40","value":"40"},{"id":"41","displayValue":"41","value":"41"}]}]},
  {"id":"ps-5","name":"PlayStation 5","inStock":true,"category":"tech","gallery":["ps.jpg"],
   "prices":[{"amount":844.02,"currency":{"label":"USD","symbol":"$"}}],
   "attributes":[{"id":"Color","name":"Color","type":"swatch","items":[{"id":"Green","displayValue":"Green","value":"#44FF03"},{"id":"Cyan","displayValue":"Cyan","value":"#03FFF7"}]},
                 {"id":"Capacity","name":"Capacity","type":"text","items":[{"id":"512G","displayValue":"512G","value":"512G"},{"id":"1T","displayValue":"1T","value":"1T"}]}]},
  {"id":"apple-airtag","name":"AirTag","inStock":false,"category":"tech","gallery":[],
   "prices":[{"amount":120.57,"currency":{"label":"USD","symbol":"$"}}],"attributes":[]},
  {"id":"jacket-denim","name":"Denim Jacket","inStock":true,"category":"clothes","gallery":["j.jpg"],
   "prices":[{"amount":60,"currency":{"label":"USD","symbol":"$"}}],
   "attributes":[{"id":"size","name":"Size","type":"text","items":[{"id":"S","displayValue":"Small","value":"S"},{"id":"M","displayValue":"Medium","value":"M"}]}]}
]`

// fakeAPI answers the products query and records createOrder calls.
type fakeAPI struct {
	mu         sync.Mutex
	orders     []json.RawMessage
	failOrders bool
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	var req struct {
		OperationName string          `json:"operationName"`
		Variables     json.RawMessage `json:"variables"`
	}
	_ = json.Unmarshal(body, &req)
	w.Header().Set("Content-Type", "application/json")

	switch req.OperationName {
	case "GetProducts":
		_, _ = io.WriteString(w, `{"data":{"products":`+productsJSON+`}}`)
	case "CreateOrder":
		f.mu.Lock()
		f.orders = append(f.orders, req.Variables)
		fail := f.failOrders
		f.mu.Unlock()
		if fail {
			_, _ = io.WriteString(w, `{"errors":[{"message":"order service unavailable"}]}`)
			return
		}
		_, _ = io.WriteString(w, `{"data":{"createOrder":{"id":"order-1","products":[],"totalPrice":289.38}}}`)
	default:
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"errors":[{"message":"unknown operation"}]}`)
	}
}

func (f *fakeAPI) orderCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}

// setupShop points every command at a fake API, an in-memory session unique
// to the test, and temporary config and session directories.
func setupShop(t *testing.T) (*fakeAPI, *config.Config) {
	t.Helper()
	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	storage.SetTestPaths(filepath.Join(dir, "sessions"))
	t.Cleanup(storage.ResetPaths)
	t.Cleanup(storage.ClearAllInMemorySessions)

	t.Setenv("STOREFRONT_API_URL", srv.URL)
	t.Setenv("STOREFRONT_STORAGE_BACKEND", "memory")
	t.Setenv("STOREFRONT_SESSION_ID", testutil.NewTestSessionID("shop", t.Name()))
	t.Setenv("STOREFRONT_CONFIG", filepath.Join(dir, "config"))
	t.Setenv("STOREFRONT_LOG_FILE", "")

	return api, config.NewConfig()
}
