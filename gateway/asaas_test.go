package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return &Client{BaseURL: srv.URL, APIKey: "test-key", HTTPClient: srv.Client()}, srv
}

func TestCreateChargeExistingCustomer(t *testing.T) {
	var charged map[string]interface{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /customers", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("access_token"))
		assert.Equal(t, "maria@example.com", r.URL.Query().Get("email"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]string{{"id": "cus_123"}},
		})
	})
	mux.HandleFunc("POST /payments", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&charged)
		json.NewEncoder(w).Encode(map[string]string{
			"id":          "pay_456",
			"invoiceUrl":  "https://pay.example/i/pay_456",
			"billingType": "UNDEFINED",
		})
	})

	client, srv := newTestClient(mux)
	defer srv.Close()

	charge, err := client.CreateCharge(ChargeRequest{
		CustomerName:      "Maria Silva",
		CustomerEmail:     "maria@example.com",
		Value:             105.00,
		Description:       "Pedido #42",
		ExternalReference: OrderReference(42),
	})
	assert.NoError(t, err)
	assert.Equal(t, "pay_456", charge.ID)
	assert.Equal(t, "cus_123", charge.CustomerID)
	assert.Equal(t, "https://pay.example/i/pay_456", charge.InvoiceURL)

	assert.Equal(t, "cus_123", charged["customer"])
	assert.Equal(t, "order:42", charged["externalReference"])
	assert.Equal(t, "UNDEFINED", charged["billingType"])
	assert.InDelta(t, 105.00, charged["value"].(float64), 0.001)

	wantDue := time.Now().AddDate(0, 0, 3).Format("2006-01-02")
	assert.Equal(t, wantDue, charged["dueDate"])
}

func TestCreateChargeCreatesMissingCustomer(t *testing.T) {
	var createdCustomer map[string]interface{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /customers", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"data": []map[string]string{}})
	})
	mux.HandleFunc("POST /customers", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&createdCustomer)
		json.NewEncoder(w).Encode(map[string]string{"id": "cus_new"})
	})
	mux.HandleFunc("POST /payments", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "cus_new", body["customer"])
		json.NewEncoder(w).Encode(map[string]string{"id": "pay_1", "invoiceUrl": "https://pay.example/i/pay_1"})
	})

	client, srv := newTestClient(mux)
	defer srv.Close()

	charge, err := client.CreateCharge(ChargeRequest{
		CustomerName:  "Novo Cliente",
		CustomerEmail: "novo@example.com",
		Value:         50,
	})
	assert.NoError(t, err)
	assert.Equal(t, "cus_new", charge.CustomerID)
	assert.Equal(t, "Novo Cliente", createdCustomer["name"])
	assert.Equal(t, true, createdCustomer["notificationDisabled"])
}

func TestCreateChargePixFetchesPayload(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /customers", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"data": []map[string]string{{"id": "cus_1"}}})
	})
	mux.HandleFunc("POST /payments", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"id": "pay_pix", "invoiceUrl": "u", "billingType": "PIX"})
	})
	mux.HandleFunc("GET /payments/pay_pix/pixQrCode", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"payload": "00020126pixcode"})
	})

	client, srv := newTestClient(mux)
	defer srv.Close()

	charge, err := client.CreateCharge(ChargeRequest{
		CustomerName:  "A",
		CustomerEmail: "a@example.com",
		Value:         10,
		BillingType:   BillingTypePix,
	})
	assert.NoError(t, err)
	assert.Equal(t, "00020126pixcode", charge.PixPayload)
}

func TestCreateChargeGatewayError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /customers", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"data": []map[string]string{{"id": "cus_1"}}})
	})
	mux.HandleFunc("POST /payments", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"errors": []map[string]string{{"code": "invalid_value", "description": "Valor invalido"}},
		})
	})

	client, srv := newTestClient(mux)
	defer srv.Close()

	_, err := client.CreateCharge(ChargeRequest{CustomerName: "A", CustomerEmail: "a@example.com", Value: -1})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Valor invalido")
}

func TestParseReference(t *testing.T) {
	ref, ok := ParseReference("order:42")
	assert.True(t, ok)
	assert.Equal(t, Reference{Kind: RefKindOrder, ID: 42}, ref)

	ref, ok = ParseReference("enrollment:7")
	assert.True(t, ok)
	assert.Equal(t, Reference{Kind: RefKindEnrollment, ID: 7}, ref)

	for _, bad := range []string{"", "42", "order:", "order:0", "order:abc", "wallet:5", "order:42:extra"} {
		_, ok := ParseReference(bad)
		assert.False(t, ok, "expected %q to be rejected", bad)
	}
}

func TestReferenceRoundTrip(t *testing.T) {
	ref, ok := ParseReference(OrderReference(99))
	assert.True(t, ok)
	assert.Equal(t, uint(99), ref.ID)

	ref, ok = ParseReference(EnrollmentReference(3))
	assert.True(t, ok)
	assert.Equal(t, RefKindEnrollment, ref.Kind)
}
