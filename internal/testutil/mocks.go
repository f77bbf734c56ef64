package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"codeberg.org/snonux/estflash/internal/models"
)

// Response is a canned reply for one endpoint
type Response struct {
	Status int
	Body   string
}

// ImportedFile records one upload received by the fake service
type ImportedFile struct {
	Name    string
	Content string
}

// FakeService is an in-memory stand-in for the flashcard API, served
// under /api by an httptest server
type FakeService struct {
	Server *httptest.Server

	mu        sync.Mutex
	decks     []models.Deck
	audio     map[models.CardID][]byte
	overrides map[string]Response
	calls     []string
	counts    []int
	logs      []models.StudyLogEntry
	imports   []ImportedFile
}

// NewFakeService starts a fake service that is shut down with the test
func NewFakeService(t *testing.T) *FakeService {
	t.Helper()

	f := &FakeService{
		audio:     make(map[models.CardID][]byte),
		overrides: make(map[string]Response),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/import-words", f.handleImport)
	mux.HandleFunc("/api/recommendations", f.handleRecommendations)
	mux.HandleFunc("/api/study-sessions", f.handleStudySession)
	mux.HandleFunc("/api/audio/", f.handleAudio)

	f.Server = httptest.NewServer(f.record(mux))
	t.Cleanup(f.Server.Close)
	return f
}

// BaseURL returns the API base URL of the fake service
func (f *FakeService) BaseURL() string {
	return f.Server.URL + "/api"
}

// QueueDeck appends a deck to be served by the next recommendation request.
// Once the queue is empty, requests get an empty list.
func (f *FakeService) QueueDeck(deck models.Deck) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.decks = append(f.decks, deck)
}

// SetAudio registers the audio bytes served for a card
func (f *FakeService) SetAudio(id models.CardID, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.audio[id] = data
}

// Override makes the endpoint at path (e.g. "/api/study-sessions") reply
// with resp until ClearOverride is called
func (f *FakeService) Override(path string, resp Response) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.overrides[path] = resp
}

// ClearOverride restores the default behaviour of an endpoint
func (f *FakeService) ClearOverride(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.overrides, path)
}

// Calls returns "METHOD path" for every request received
func (f *FakeService) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// CallCount returns how many requests hit the given path
func (f *FakeService) CallCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if strings.HasSuffix(c, " "+path) {
			n++
		}
	}
	return n
}

// RequestedCounts returns the count parameter of every recommendation request
func (f *FakeService) RequestedCounts() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.counts...)
}

// StudyLogs returns the study log entries received so far
func (f *FakeService) StudyLogs() []models.StudyLogEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.StudyLogEntry(nil), f.logs...)
}

// Imports returns the uploads received so far
func (f *FakeService) Imports() []ImportedFile {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ImportedFile(nil), f.imports...)
}

func (f *FakeService) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.calls = append(f.calls, fmt.Sprintf("%s %s", r.Method, r.URL.Path))
		resp, overridden := f.overrides[r.URL.Path]
		f.mu.Unlock()

		if overridden {
			writeRaw(w, resp)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeService) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No file provided"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	words := 0
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) != "" {
			words++
		}
	}

	f.mu.Lock()
	f.imports = append(f.imports, ImportedFile{Name: header.Filename, Content: string(data)})
	f.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Imported %d words successfully", words),
	})
}

func (f *FakeService) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	count, err := strconv.Atoi(r.URL.Query().Get("count"))
	if err != nil {
		count = 10
	}

	f.mu.Lock()
	f.counts = append(f.counts, count)
	deck := models.Deck{}
	if len(f.decks) > 0 {
		deck = f.decks[0]
		f.decks = f.decks[1:]
	}
	f.mu.Unlock()

	writeJSON(w, http.StatusOK, deck)
}

func (f *FakeService) handleStudySession(w http.ResponseWriter, r *http.Request) {
	var entry models.StudyLogEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required fields"})
		return
	}

	f.mu.Lock()
	f.logs = append(f.logs, entry)
	f.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (f *FakeService) handleAudio(w http.ResponseWriter, r *http.Request) {
	id := models.CardID(strings.TrimPrefix(r.URL.Path, "/api/audio/"))

	f.mu.Lock()
	data, ok := f.audio[id]
	f.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Audio not found"})
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeRaw(w http.ResponseWriter, resp Response) {
	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, resp.Body)
}
