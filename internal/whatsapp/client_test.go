package whatsapp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

var errSendFailed = errors.New("send failed")

func TestCloudClientSendText(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.abc123"}]}`))
	}))
	defer server.Close()

	client := NewCloudClient(CloudClientConfig{
		BaseURL:       server.URL,
		PhoneNumberID: "10987654321",
		AccessToken:   "token-xyz",
	})

	id, err := client.SendText(context.Background(), "5511999990000", "Olá!")
	if err != nil {
		t.Fatalf("SendText: %v", err)
	}
	if id != "wamid.abc123" {
		t.Fatalf("expected provider message id, got %q", id)
	}
	if gotPath != "/10987654321/messages" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotAuth != "Bearer token-xyz" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotBody["messaging_product"] != "whatsapp" {
		t.Fatalf("expected messaging_product whatsapp, got %v", gotBody["messaging_product"])
	}
	if gotBody["to"] != "5511999990000" {
		t.Fatalf("unexpected recipient %v", gotBody["to"])
	}
}

func TestCloudClientProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"invalid token"}}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewCloudClient(CloudClientConfig{
		BaseURL:       server.URL,
		PhoneNumberID: "10987654321",
		AccessToken:   "bad",
	})

	if _, err := client.SendText(context.Background(), "5511999990000", "Olá!"); err == nil {
		t.Fatal("expected error on provider failure")
	}
}

func TestFakeClientRecordsMessages(t *testing.T) {
	client := &FakeClient{}

	id1, err := client.SendText(context.Background(), "a", "one")
	if err != nil {
		t.Fatalf("SendText: %v", err)
	}
	id2, _ := client.SendText(context.Background(), "b", "two")

	if id1 == id2 {
		t.Fatalf("expected distinct ids, got %q twice", id1)
	}
	if len(client.Sent) != 2 {
		t.Fatalf("expected 2 recorded messages, got %d", len(client.Sent))
	}
	if client.Sent[1].To != "b" || client.Sent[1].Body != "two" {
		t.Fatalf("unexpected recorded message %+v", client.Sent[1])
	}
}

func TestFakeClientError(t *testing.T) {
	client := &FakeClient{Err: errSendFailed}

	if _, err := client.SendText(context.Background(), "a", "one"); !errors.Is(err, errSendFailed) {
		t.Fatalf("expected configured error, got %v", err)
	}
	if len(client.Sent) != 0 {
		t.Fatalf("failed sends must not be recorded, got %d", len(client.Sent))
	}
}
