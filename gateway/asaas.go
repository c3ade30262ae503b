// Package gateway is a thin client for the Asaas-style payment service.
// It creates charges during request handling and knows nothing about
// local persistence; the webhook controller consumes the asynchronous
// confirmations.
package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Billing types accepted by the gateway. Undefined lets the payer pick
// between PIX, boleto and card on the hosted invoice page.
const (
	BillingTypeUndefined = "UNDEFINED"
	BillingTypePix       = "PIX"
	BillingTypeBoleto    = "BOLETO"
)

// Client calls the remote payment gateway. It is a plain synchronous
// HTTP client with no retry policy of its own; a failed call surfaces as
// a checkout error and the order stays payable.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient builds a client from the environment.
func NewClient() *Client {
	return &Client{
		BaseURL:    strings.TrimRight(os.Getenv("ASAAS_API_URL"), "/"),
		APIKey:     os.Getenv("ASAAS_API_KEY"),
		HTTPClient: http.DefaultClient,
	}
}

// ChargeRequest describes the charge to create.
type ChargeRequest struct {
	CustomerName      string
	CustomerEmail     string
	Value             float64
	Description       string
	ExternalReference string
	BillingType       string
}

// Charge is the created remote charge. PixPayload is only populated for
// PIX charges, where the gateway exposes a scannable code.
type Charge struct {
	ID          string
	CustomerID  string
	InvoiceURL  string
	BillingType string
	PixPayload  string
}

type apiError struct {
	Errors []struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"errors"`
}

// CreateCharge resolves (or creates) the remote customer for the email
// and requests a charge due in three days. The external reference is
// round-tripped back to us on the confirmation webhook.
//
// Customer resolution is search-then-create: two concurrent first-time
// checkouts for the same email can create duplicate remote customers.
// Known limitation, tolerated because the charge itself is unaffected.
func (cl *Client) CreateCharge(req ChargeRequest) (*Charge, error) {
	customerID, err := cl.getOrCreateCustomer(req.CustomerName, req.CustomerEmail)
	if err != nil {
		return nil, err
	}

	billingType := req.BillingType
	if billingType == "" {
		billingType = BillingTypeUndefined
	}

	payload := map[string]interface{}{
		"customer":          customerID,
		"billingType":       billingType,
		"value":             req.Value,
		"dueDate":           time.Now().AddDate(0, 0, 3).Format("2006-01-02"),
		"description":       req.Description,
		"externalReference": req.ExternalReference,
		"postalService":     false,
	}

	var resp struct {
		ID          string `json:"id"`
		InvoiceURL  string `json:"invoiceUrl"`
		BillingType string `json:"billingType"`
	}
	if err := cl.post("/payments", payload, &resp); err != nil {
		return nil, fmt.Errorf("create charge: %w", err)
	}

	charge := &Charge{
		ID:          resp.ID,
		CustomerID:  customerID,
		InvoiceURL:  resp.InvoiceURL,
		BillingType: resp.BillingType,
	}

	if billingType == BillingTypePix {
		// Best effort: the invoice page still renders the code if this
		// lookup fails.
		if pix, err := cl.pixPayload(charge.ID); err == nil {
			charge.PixPayload = pix
		}
	}

	return charge, nil
}

// getOrCreateCustomer searches the remote customer registry by email and
// creates the customer when absent.
func (cl *Client) getOrCreateCustomer(name, email string) (string, error) {
	var search struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := cl.get("/customers?email="+url.QueryEscape(email), &search); err != nil {
		return "", fmt.Errorf("search customer: %w", err)
	}
	if len(search.Data) > 0 {
		return search.Data[0].ID, nil
	}

	payload := map[string]interface{}{
		"name":                 name,
		"email":                email,
		"notificationDisabled": true,
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := cl.post("/customers", payload, &created); err != nil {
		return "", fmt.Errorf("create customer: %w", err)
	}
	if created.ID == "" {
		return "", fmt.Errorf("create customer: empty id in response")
	}
	return created.ID, nil
}

// pixPayload fetches the scannable PIX code for a charge.
func (cl *Client) pixPayload(chargeID string) (string, error) {
	var resp struct {
		Payload string `json:"payload"`
	}
	if err := cl.get("/payments/"+chargeID+"/pixQrCode", &resp); err != nil {
		return "", err
	}
	return resp.Payload, nil
}

func (cl *Client) get(path string, out interface{}) error {
	req, err := http.NewRequest(http.MethodGet, cl.BaseURL+path, nil)
	if err != nil {
		return err
	}
	return cl.do(req, out)
}

func (cl *Client) post(path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, cl.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return cl.do(req, out)
}

func (cl *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set("access_token", cl.APIKey)
	req.Header.Set("User-Agent", "Emporio/1.0")

	resp, err := cl.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if json.Unmarshal(data, &apiErr) == nil && len(apiErr.Errors) > 0 {
			return fmt.Errorf("gateway returned %d: %s", resp.StatusCode, apiErr.Errors[0].Description)
		}
		return fmt.Errorf("gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

func (cl *Client) httpClient() *http.Client {
	if cl.HTTPClient != nil {
		return cl.HTTPClient
	}
	return http.DefaultClient
}
