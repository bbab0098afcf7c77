package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type fakeTurns struct {
	response string
	err      error
	input    string
}

func (f *fakeTurns) Submit(ctx context.Context, input string) (string, error) {
	f.input = input
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestHandleSaga(t *testing.T) {
	turns := &fakeTurns{response: "The frost remembers: hello"}
	handler := NewHandler(turns)

	request := httptest.NewRequest(http.MethodPost, "/saga", strings.NewReader(`{"input":"hello"}`))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	if turns.input != "hello" {
		t.Fatalf("expected input to reach the processor, got %q", turns.input)
	}

	var payload map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["response"] != "The frost remembers: hello" {
		t.Fatalf("unexpected response %q", payload["response"])
	}
}

func TestHandleSagaTurnFailure(t *testing.T) {
	turns := &fakeTurns{err: errors.New("store broke")}
	handler := NewHandler(turns)

	request := httptest.NewRequest(http.MethodPost, "/saga", strings.NewReader(`{"input":"hello"}`))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", recorder.Code)
	}
	body := recorder.Body.String()
	if strings.Contains(body, "store broke") {
		t.Fatalf("technical error leaked to the client: %q", body)
	}
	if !strings.Contains(body, "The frost fractures") {
		t.Fatalf("expected narrated failure, got %q", body)
	}
}

func TestHandleSagaBadJSON(t *testing.T) {
	handler := NewHandler(&fakeTurns{})

	request := httptest.NewRequest(http.MethodPost, "/saga", strings.NewReader("{not json"))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
}

func TestHandleSagaMethodGuard(t *testing.T) {
	handler := NewHandler(&fakeTurns{})

	request := httptest.NewRequest(http.MethodGet, "/saga", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", recorder.Code)
	}
}

func TestHandleRootAndPing(t *testing.T) {
	handler := NewHandler(&fakeTurns{})

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200 from root, got %d", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "Covenant breath is cold and ready.") {
		t.Fatalf("unexpected root body %q", recorder.Body.String())
	}

	for _, method := range []string{http.MethodGet, http.MethodHead} {
		request = httptest.NewRequest(method, "/ping", nil)
		recorder = httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200 from %s /ping, got %d", method, recorder.Code)
		}
	}
}

func TestCORSHeaders(t *testing.T) {
	handler := NewHandler(&fakeTurns{})

	request := httptest.NewRequest(http.MethodOptions, "/saga", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusNoContent {
		t.Fatalf("expected 204 preflight, got %d", recorder.Code)
	}
	if recorder.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("missing CORS origin header")
	}
}

func TestNewServerValidation(t *testing.T) {
	if _, err := NewServer(Config{}, &fakeTurns{}); err == nil {
		t.Fatal("expected error for missing address")
	}
	if _, err := NewServer(Config{HTTPAddr: "localhost:0"}, nil); err == nil {
		t.Fatal("expected error for missing processor")
	}
	server, err := NewServer(Config{HTTPAddr: "localhost:0"}, &fakeTurns{})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	server.Close()
}
