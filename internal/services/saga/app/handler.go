package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
)

// turnFailedResponse is the narrated body for a failed turn. Store
// failures stay in character; technical detail goes to the log only.
const turnFailedResponse = "(The frost fractures. Whisper again.)"

// TurnSubmitter accepts one player utterance and returns the response.
type TurnSubmitter interface {
	Submit(ctx context.Context, input string) (string, error)
}

type sagaRequest struct {
	Input string `json:"input"`
}

type sagaResponse struct {
	Response string `json:"response"`
}

type statusResponse struct {
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
}

// NewHandler creates the saga routes.
func NewHandler(turns TurnSubmitter) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", handleRoot)
	mux.HandleFunc("/ping", handlePing)
	mux.HandleFunc("/saga", handleSaga(turns))
	return withCORS(mux)
}

// withCORS applies the permissive cross-origin policy the browser client
// relies on and answers preflight requests directly.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, HEAD, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{
		Status: "awake",
		Note:   "Covenant breath is cold and ready.",
	})
}

func handlePing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "awake"})
}

func handleSaga(turns TurnSubmitter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var request sagaRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			writeJSON(w, http.StatusBadRequest, sagaResponse{Response: turnFailedResponse})
			return
		}

		response, err := turns.Submit(r.Context(), request.Input)
		if err != nil {
			log.Printf("saga: turn failed: %v", err)
			writeJSON(w, http.StatusInternalServerError, sagaResponse{Response: turnFailedResponse})
			return
		}

		writeJSON(w, http.StatusOK, sagaResponse{Response: response})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("saga: encode response: %v", err)
	}
}
