package archive

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/docfold/docfold/internal/docmodel"
)

func testDoc() *docmodel.Document {
	return &docmodel.Document{Index: 3, Raw: "# A\n\nbody\n", Title: "A", Tags: []string{"x"}}
}

func putWithStatus(t *testing.T, status int) error {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key")
	defer c.Close()
	return c.PutDocument(context.Background(), "c1", testDoc())
}

func TestPutDocument_StatusClassification(t *testing.T) {
	tests := []struct {
		status    int
		wantErr   bool
		retryable bool
	}{
		{http.StatusOK, false, false},
		{http.StatusCreated, false, false},
		{http.StatusBadRequest, true, false},
		{http.StatusUnauthorized, true, false},
		{http.StatusNotFound, true, false},
		{http.StatusTooManyRequests, true, true},
		{http.StatusInternalServerError, true, true},
		{http.StatusBadGateway, true, true},
		{http.StatusServiceUnavailable, true, true},
	}
	for _, tt := range tests {
		err := putWithStatus(t, tt.status)
		if tt.wantErr && err == nil {
			t.Errorf("status %d: expected an error", tt.status)
			continue
		}
		if !tt.wantErr && err != nil {
			t.Errorf("status %d: unexpected error: %v", tt.status, err)
			continue
		}
		var re *RetryableError
		if got := errors.As(err, &re); got != tt.retryable {
			t.Errorf("status %d: retryable=%v, want %v (err: %v)", tt.status, got, tt.retryable, err)
		}
	}
}

func TestPutDocument_NetworkErrorRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(srv.URL, "key")
	defer c.Close()
	err := c.PutDocument(context.Background(), "c1", testDoc())
	if err == nil {
		t.Fatal("expected an error against a closed server")
	}
	var re *RetryableError
	if !errors.As(err, &re) {
		t.Errorf("expected network error to be retryable, got %v", err)
	}
}

func TestPutDocument_RequestShape(t *testing.T) {
	var gotMethod, gotPath, gotAuth string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	defer c.Close()
	if err := c.PutDocument(context.Background(), "c1", testDoc()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotMethod != http.MethodPut {
		t.Errorf("expected PUT, got %s", gotMethod)
	}
	if gotPath != "/kv/corpora/c1/documents/3" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("unexpected auth header %q", gotAuth)
	}

	var payload struct {
		Value struct {
			Index int    `json:"index"`
			Raw   string `json:"raw"`
		} `json:"value"`
	}
	if err := json.Unmarshal(gotBody, &payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if payload.Value.Index != 3 || payload.Value.Raw != "# A\n\nbody\n" {
		t.Errorf("unexpected payload %s", gotBody)
	}
}

func TestDeleteCollection_NotFoundIsSuccess(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key")
	defer c.Close()
	if err := c.DeleteCollection(context.Background(), "gone"); err != nil {
		t.Errorf("404 on delete must succeed, got %v", err)
	}
	if gotQuery != "children=true" {
		t.Errorf("expected children=true query, got %q", gotQuery)
	}
}

func TestDeleteCollection_ServerErrorRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key")
	defer c.Close()
	err := c.DeleteCollection(context.Background(), "c1")
	if err == nil {
		t.Fatal("expected an error on 500")
	}
	var re *RetryableError
	if !errors.As(err, &re) {
		t.Errorf("expected retryable error, got %v", err)
	}
}
