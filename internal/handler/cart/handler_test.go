package cart

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	cartservice "github.com/sojo06/smartcart/internal/service/cart"
)

func setupRouter() *chi.Mux {
	svc := cartservice.NewService(cartservice.Config{})
	handler := New(svc)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func createSession(t *testing.T, r http.Handler) (code, hostID string) {
	t.Helper()
	resp := doJSON(t, r, http.MethodPost, "/cart", map[string]string{
		"hostId":   "alice",
		"hostName": "Alice",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("create cart: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var snap struct {
		Code         string `json:"code"`
		Participants []struct {
			ID string `json:"id"`
		} `json:"participants"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	return snap.Code, snap.Participants[0].ID
}

func TestCreateRequiresHostName(t *testing.T) {
	r := setupRouter()

	resp := doJSON(t, r, http.MethodPost, "/cart", map[string]string{})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestFullCartFlowOverHTTP(t *testing.T) {
	r := setupRouter()
	code, hostID := createSession(t, r)

	resp := doJSON(t, r, http.MethodPost, "/cart/"+code+"/join", map[string]string{
		"participantId": "bob",
		"name":          "Bob",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("join: expected 201, got %d", resp.Code)
	}

	resp = doJSON(t, r, http.MethodPost, "/cart/"+code+"/items", map[string]string{
		"participantId": hostID,
		"name":          "Milk",
		"price":         "4.99",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("add item: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var added struct {
		Item struct {
			ID string `json:"id"`
		} `json:"item"`
		Cart struct {
			Items []struct {
				ID string `json:"id"`
			} `json:"items"`
		} `json:"cart"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &added); err != nil {
		t.Fatalf("decode add response: %v", err)
	}
	if len(added.Cart.Items) != 1 {
		t.Fatalf("expected snapshot with 1 item, got %d", len(added.Cart.Items))
	}

	resp = doJSON(t, r, http.MethodPatch, "/cart/"+code+"/items/"+added.Item.ID, map[string]int{"quantity": 3})
	if resp.Code != http.StatusOK {
		t.Fatalf("set quantity: expected 200, got %d", resp.Code)
	}

	resp = doJSON(t, r, http.MethodPost, "/cart/"+code+"/checkout", map[string]string{"participantId": "bob"})
	if resp.Code != http.StatusForbidden {
		t.Fatalf("member checkout: expected 403, got %d", resp.Code)
	}

	resp = doJSON(t, r, http.MethodPost, "/cart/"+code+"/checkout", map[string]string{"participantId": hostID})
	if resp.Code != http.StatusOK {
		t.Fatalf("host checkout: expected 200, got %d", resp.Code)
	}
	var totals struct {
		SubtotalCents   int64 `json:"subtotalCents"`
		GrandTotalCents int64 `json:"grandTotalCents"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &totals); err != nil {
		t.Fatalf("decode totals: %v", err)
	}
	if totals.SubtotalCents != 1497 {
		t.Fatalf("expected subtotal 1497 cents, got %d", totals.SubtotalCents)
	}

	resp = doJSON(t, r, http.MethodPost, "/cart/"+code+"/items", map[string]string{
		"participantId": hostID,
		"name":          "Bread",
		"price":         "3.49",
	})
	if resp.Code != http.StatusConflict {
		t.Fatalf("add after checkout: expected 409, got %d", resp.Code)
	}
}

func TestAddItemRejectsBadPrice(t *testing.T) {
	r := setupRouter()
	code, hostID := createSession(t, r)

	for _, price := range []string{"abc", "", "1.999"} {
		resp := doJSON(t, r, http.MethodPost, "/cart/"+code+"/items", map[string]string{
			"participantId": hostID,
			"name":          "Milk",
			"price":         price,
		})
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("price %q: expected 400, got %d", price, resp.Code)
		}
	}

	resp := doJSON(t, r, http.MethodPost, "/cart/"+code+"/items", map[string]string{
		"participantId": hostID,
		"name":          "Milk",
		"price":         "-4.99",
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("negative price: expected 400, got %d", resp.Code)
	}
}

func TestUnknownSessionIs404(t *testing.T) {
	r := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/cart/NOPE1234", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestDuplicateJoinIs409(t *testing.T) {
	r := setupRouter()
	code, _ := createSession(t, r)

	first := doJSON(t, r, http.MethodPost, "/cart/"+code+"/join", map[string]string{
		"participantId": "bob", "name": "Bob",
	})
	if first.Code != http.StatusCreated {
		t.Fatalf("join: expected 201, got %d", first.Code)
	}
	second := doJSON(t, r, http.MethodPost, "/cart/"+code+"/join", map[string]string{
		"participantId": "bob", "name": "Bob",
	})
	if second.Code != http.StatusConflict {
		t.Fatalf("duplicate join: expected 409, got %d", second.Code)
	}
}
