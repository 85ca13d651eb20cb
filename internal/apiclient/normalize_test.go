package apiclient

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sovannvath/storefront-gateway/domain"
)

const productsJSON = `[{"id":1,"name":"Tea","price":"2.50","stock":5,"is_active":"true"},{"id":2,"name":"Rice","price":10,"stock":"0","is_active":false}]`

func TestNormalizeList_ProductEnvelopes(t *testing.T) {
	expected := []domain.Product{
		{ID: 1, Name: "Tea", Price: 2.5, Stock: 5, IsActive: true},
		{ID: 2, Name: "Rice", Price: 10, Stock: 0, IsActive: false},
	}

	tests := []struct {
		name string
		body string
	}{
		{"bare array", productsJSON},
		{"data array", `{"data":` + productsJSON + `}`},
		{"data products", `{"data":{"products":` + productsJSON + `}}`},
		{"products key", `{"products":` + productsJSON + `}`},
		{"laravel pagination", `{"data":{"current_page":1,"data":` + productsJSON + `,"total":2}}`},
		{"envelope with message", `{"success":true,"message":"ok","data":` + productsJSON + `}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeList[domain.Product](json.RawMessage(tt.body), "products")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(expected, got); diff != "" {
				t.Errorf("products mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalizeList_EmptyBodies(t *testing.T) {
	for _, body := range []string{``, `null`, `[]`, `{"data":[]}`, `{"data":{"products":[]}}`} {
		t.Run(body, func(t *testing.T) {
			got, err := NormalizeList[domain.Product](json.RawMessage(body), "products")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got == nil || len(got) != 0 {
				t.Errorf("expected empty non-nil list, got %#v", got)
			}
		})
	}
}

func TestNormalizeList_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"scalar", `"hello"`},
		{"object without list", `{"message":"ok"}`},
		{"wrong element type", `[1,2,3]`},
		{"html", `<html></html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeList[domain.Product](json.RawMessage(tt.body), "products")
			if !errors.Is(err, domain.ErrMalformedResponse) {
				t.Errorf("expected ErrMalformedResponse, got %v", err)
			}
		})
	}
}

func TestNormalizeItem(t *testing.T) {
	expected := &domain.Product{ID: 9, Name: "Milk", Price: 1.25}

	tests := []struct {
		name string
		body string
	}{
		{"bare object", `{"id":9,"name":"Milk","price":"1.25"}`},
		{"data object", `{"data":{"id":9,"name":"Milk","price":"1.25"}}`},
		{"keyed object", `{"product":{"id":9,"name":"Milk","price":"1.25"}}`},
		{"data keyed object", `{"message":"Created","data":{"product":{"id":9,"name":"Milk","price":1.25}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeItem[domain.Product](json.RawMessage(tt.body), "product")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(expected, got); diff != "" {
				t.Errorf("product mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if _, err := NormalizeItem[domain.Product](json.RawMessage(`[]`), "product"); !errors.Is(err, domain.ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse for array body, got %v", err)
	}
}

func TestNormalizeItem_Cart(t *testing.T) {
	body := `{"data":{"cart":{"id":3,"cart_items":[{"id":1,"product_id":7,"quantity":"2","price":"4.00"}],"total_amount":"8.00"}}}`

	cart, err := NormalizeItem[domain.Cart](json.RawMessage(body), "cart")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := &domain.Cart{
		ID:    3,
		Items: []domain.CartItem{{ID: 1, ProductID: 7, Quantity: 2, Price: 4}},
		Total: 8,
	}
	if diff := cmp.Diff(expected, cart); diff != "" {
		t.Errorf("cart mismatch (-want +got):\n%s", diff)
	}
}
