package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCurrent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/current.json" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("expected api key in query, got %q", r.URL.Query().Get("key"))
		}
		if r.URL.Query().Get("q") != "London" {
			t.Errorf("expected location in query, got %q", r.URL.Query().Get("q"))
		}
		w.Write([]byte(`{
			"location": {"name": "London"},
			"current": {
				"temp_c": 18.5,
				"humidity": 72,
				"condition": {"text": "Partly cloudy"}
			}
		}`))
	}))
	defer srv.Close()

	client := NewClient("test-key")
	client.baseURL = srv.URL

	got, err := client.Current(context.Background(), "London")
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if got.Location != "London" {
		t.Errorf("Location = %q, want London", got.Location)
	}
	if got.TempC != 18.5 {
		t.Errorf("TempC = %v, want 18.5", got.TempC)
	}
	if got.Condition != "Partly cloudy" {
		t.Errorf("Condition = %q", got.Condition)
	}
	if got.Humidity != 72 {
		t.Errorf("Humidity = %d, want 72", got.Humidity)
	}
	if got.String() != "London 18.5°C, Partly cloudy" {
		t.Errorf("String() = %q", got.String())
	}
}

func TestCurrentErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"invalid key"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient("bad-key")
	client.baseURL = srv.URL

	if _, err := client.Current(context.Background(), "London"); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}
