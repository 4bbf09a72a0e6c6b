package testutils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
)

// Upstream paths served by MockUpstreamServer, mirroring the real endpoints
const (
	ItemDetailsPath = "/items/v1/itemdetails"
	LatestRatesPath = "/latest"
)

// MockItemDetailsBody is a trimmed Rolimons item details document
const MockItemDetailsBody = `{"success":true,"item_count":2,"items":{"1028606":["Red Baseball Cap","",1207,1207,1207,-1,-1,-1,-1],"1365767":["Valkyrie Helm","",2500000,2600000,2600000,-1,-1,-1,-1]}}`

// MockUpstreamServer fakes both the Rolimons item catalog and the
// Frankfurter conversion API on one httptest server.
type MockUpstreamServer struct {
	server *httptest.Server

	mutex         sync.Mutex
	itemsBody     string
	itemsStatus   int
	itemsGate     chan struct{}
	rates         map[string]map[string]float64
	ratesStatus   int
	ratesBody     string
	hits          map[string]int
	lastQuery     map[string]string
	lastUserAgent string
}

// NewMockUpstreamServer creates a mock upstream with default catalog and rates
func NewMockUpstreamServer() *MockUpstreamServer {
	mock := &MockUpstreamServer{
		itemsBody:   MockItemDetailsBody,
		itemsStatus: http.StatusOK,
		ratesStatus: http.StatusOK,
		hits:        make(map[string]int),
	}
	mock.SetupDefaultRates()

	mock.server = httptest.NewServer(http.HandlerFunc(mock.handler))
	return mock
}

// SetupDefaultRates sets per-unit rates keyed by base currency
func (m *MockUpstreamServer) SetupDefaultRates() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.rates = map[string]map[string]float64{
		"USD": {"EUR": 0.923, "GBP": 0.79, "JPY": 149.5},
		"EUR": {"USD": 1.0834, "GBP": 0.856},
	}
}

func (m *MockUpstreamServer) handler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	m.mutex.Lock()
	m.hits[r.URL.Path]++
	m.lastUserAgent = r.Header.Get("User-Agent")
	itemsGate, itemsStatus, itemsBody := m.itemsGate, m.itemsStatus, m.itemsBody
	m.mutex.Unlock()

	switch r.URL.Path {
	case ItemDetailsPath:
		if itemsGate != nil {
			select {
			case <-itemsGate:
			case <-r.Context().Done():
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(itemsStatus)
		_, _ = w.Write([]byte(itemsBody))
	case LatestRatesPath:
		status, body := m.latest(r.URL.Query())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write(body)
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

// latest answers the way Frankfurter does: rates scaled by amount,
// and a 404 body for an unknown base currency.
func (m *MockUpstreamServer) latest(query url.Values) (int, []byte) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.lastQuery = map[string]string{
		"amount": query.Get("amount"),
		"from":   query.Get("from"),
		"to":     query.Get("to"),
	}

	if m.ratesStatus != http.StatusOK {
		return m.ratesStatus, []byte(`{"message":"upstream unavailable"}`)
	}
	if m.ratesBody != "" {
		return http.StatusOK, []byte(m.ratesBody)
	}

	from := query.Get("from")
	table, found := m.rates[from]
	if !found {
		return http.StatusNotFound, []byte(`{"message":"not found"}`)
	}

	amount := 1.0
	if raw := query.Get("amount"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
			amount = parsed
		}
	}

	rates := map[string]float64{}
	if to := query.Get("to"); to != "" {
		if rate, ok := table[to]; ok {
			rates[to] = rate * amount
		}
	} else {
		for code, rate := range table {
			rates[code] = rate * amount
		}
	}

	body, _ := json.Marshal(map[string]interface{}{
		"amount": amount,
		"base":   from,
		"date":   "2026-10-14",
		"rates":  rates,
	})
	return http.StatusOK, body
}

// BlockItems holds catalog responses until release is called.
// Call release before Close, which waits for outstanding requests.
func (m *MockUpstreamServer) BlockItems() (release func()) {
	gate := make(chan struct{})
	m.mutex.Lock()
	m.itemsGate = gate
	m.mutex.Unlock()

	var once sync.Once
	return func() { once.Do(func() { close(gate) }) }
}

// URL returns the mock server URL
func (m *MockUpstreamServer) URL() string {
	return m.server.URL
}

// ItemsURL returns the mock item details endpoint
func (m *MockUpstreamServer) ItemsURL() string {
	return m.server.URL + ItemDetailsPath
}

// RatesURL returns the mock latest rates endpoint
func (m *MockUpstreamServer) RatesURL() string {
	return m.server.URL + LatestRatesPath
}

// Close closes the mock server
func (m *MockUpstreamServer) Close() {
	m.server.Close()
}

// SetItems replaces the catalog status and body
func (m *MockUpstreamServer) SetItems(status int, body string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.itemsStatus = status
	m.itemsBody = body
}

// SetRates replaces the per-unit rate table for a base currency
func (m *MockUpstreamServer) SetRates(base string, rates map[string]float64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.rates[base] = rates
}

// SetRatesStatus makes the conversion endpoint answer with status
func (m *MockUpstreamServer) SetRatesStatus(status int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.ratesStatus = status
}

// SetRatesBody makes the conversion endpoint answer 200 with a raw body
func (m *MockUpstreamServer) SetRatesBody(body string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.ratesBody = body
}

// Hits returns how many requests reached path
func (m *MockUpstreamServer) Hits(path string) int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.hits[path]
}

// LastQuery returns the amount, from and to of the last conversion request
func (m *MockUpstreamServer) LastQuery() map[string]string {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.lastQuery
}

// LastUserAgent returns the User-Agent of the last request
func (m *MockUpstreamServer) LastUserAgent() string {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.lastUserAgent
}
