package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStripeClient_CreatePaymentIntent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/payment_intents", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))

		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "10000", r.PostForm.Get("amount"))
		assert.Equal(t, "eur", r.PostForm.Get("currency"))
		assert.Equal(t, "allée 3", r.PostForm.Get("metadata[cemetery_location]"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"pi_1","status":"requires_payment_method","amount":10000,"currency":"eur","client_secret":"pi_1_secret"}`))
	}))
	defer server.Close()

	client := NewStripeClient(server.URL, "sk_test_123", 5*time.Second)
	intent, err := client.CreatePaymentIntent(context.Background(), 10000, "eur", map[string]string{
		"cemetery_location": "allée 3",
	})

	assert.NoError(t, err)
	assert.Equal(t, "pi_1", intent.ID)
	assert.Equal(t, "pi_1_secret", intent.ClientSecret)
}

func TestStripeClient_RetrievePaymentIntent_Metadata(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payment_intents/pi_1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"pi_1","status":"succeeded","amount":4900,"currency":"eur","metadata":{"cemetery_id":"abc"}}`))
	}))
	defer server.Close()

	client := NewStripeClient(server.URL, "sk_test_123", 5*time.Second)
	intent, err := client.RetrievePaymentIntent(context.Background(), "pi_1")

	assert.NoError(t, err)
	assert.Equal(t, IntentSucceeded, intent.Status)
	assert.Equal(t, "abc", intent.Metadata["cemetery_id"])
}

func TestStripeClient_CreateTransfer_Group(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "acct_1", r.PostForm.Get("destination"))
		assert.Equal(t, "order_42", r.PostForm.Get("transfer_group"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"tr_1","amount":8000,"currency":"eur"}`))
	}))
	defer server.Close()

	client := NewStripeClient(server.URL, "sk_test_123", 5*time.Second)
	transfer, err := client.CreateTransfer(context.Background(), 8000, "eur", "acct_1", "42")

	assert.NoError(t, err)
	assert.Equal(t, "tr_1", transfer.ID)
}

func TestStripeClient_APIErrorSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":{"type":"card_error","code":"card_declined","message":"Your card was declined."}}`))
	}))
	defer server.Close()

	client := NewStripeClient(server.URL, "sk_test_123", 5*time.Second)
	_, err := client.CreatePaymentIntent(context.Background(), 100, "eur", nil)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Your card was declined")
}
