package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/ksred/liquidity-api/internal/auth"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	minTrades     = 10
	maxTrades     = 50
	numWorkers    = 3
	serverAddress = "http://localhost:8080"
)

// Pairs that settle a sell without chain interaction; buys need a running
// network, so the simulation trades sell-side only.
var pairs = []string{"XUS_USD", "XUS_EUR", "XUS_JPY", "XUS_CHF", "XUS_CAD"}

// init configures the logger for the simulation with pretty printing and timestamp
func init() {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
}

// routeStats tracks performance statistics for an API endpoint
type routeStats struct {
	name       string
	durations  []time.Duration
	totalCalls int
	failures   int
}

// addDuration records a new duration measurement for the route
func (rs *routeStats) addDuration(d time.Duration) {
	rs.durations = append(rs.durations, d)
	rs.totalCalls++
}

// calculate computes performance statistics from recorded durations
// Returns min, max, mean, median, 95th percentile, and 99th percentile durations
func (rs *routeStats) calculate() (min, max, mean, median, p95, p99 time.Duration) {
	if len(rs.durations) == 0 {
		return 0, 0, 0, 0, 0, 0
	}

	sort.Slice(rs.durations, func(i, j int) bool {
		return rs.durations[i] < rs.durations[j]
	})

	min = rs.durations[0]
	max = rs.durations[len(rs.durations)-1]

	var sum time.Duration
	for _, d := range rs.durations {
		sum += d
	}
	mean = sum / time.Duration(len(rs.durations))

	median = rs.durations[len(rs.durations)/2]

	p95idx := int(math.Ceil(float64(len(rs.durations))*0.95)) - 1
	p99idx := int(math.Ceil(float64(len(rs.durations))*0.99)) - 1
	p95 = rs.durations[p95idx]
	p99 = rs.durations[p99idx]

	return
}

// simulationClient handles HTTP communication with the liquidity provider API
type simulationClient struct {
	baseURL   string
	authToken string
	client    *http.Client
	mu        sync.Mutex
	stats     map[string]*routeStats
}

// newSimulationClient creates and initializes a new simulation client
// It authenticates with the API and prepares performance tracking
func newSimulationClient() (*simulationClient, error) {
	client := &http.Client{
		Timeout: 10 * time.Second,
	}

	sc := &simulationClient{
		baseURL: serverAddress,
		client:  client,
		stats: map[string]*routeStats{
			"auth":    {name: "Authentication"},
			"details": {name: "LP Details"},
			"quote":   {name: "Create Quote"},
			"trade":   {name: "Trade And Execute"},
			"info":    {name: "Trade Info"},
			"debts":   {name: "Get Debts"},
			"settle":  {name: "Settle Debt"},
		},
	}

	token, err := sc.authenticate()
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}
	sc.authToken = token

	return sc, nil
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// request performs an authenticated request against the API, recording the
// route duration and failures.
func (sc *simulationClient) request(stat, method, path string, payload, result interface{}) error {
	start := time.Now()
	defer func() {
		sc.mu.Lock()
		sc.stats[stat].addDuration(time.Since(start))
		sc.mu.Unlock()
	}()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, sc.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if sc.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+sc.authToken)
	}

	resp, err := sc.client.Do(req)
	if err != nil {
		sc.mu.Lock()
		sc.stats[stat].failures++
		sc.mu.Unlock()
		return err
	}
	defer resp.Body.Close()

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !envelope.Success {
		sc.mu.Lock()
		sc.stats[stat].failures++
		sc.mu.Unlock()
		if envelope.Error != nil {
			return fmt.Errorf("%s %s: %s (%s)", method, path, envelope.Error.Message, envelope.Error.Code)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	if result != nil {
		return json.Unmarshal(envelope.Data, result)
	}
	return nil
}

// authenticate performs API authentication and returns a JWT token
func (sc *simulationClient) authenticate() (string, error) {
	credentials := map[string]string{
		"api_key":    auth.TestAPIKey,
		"api_secret": auth.TestAPISecret,
	}

	var result struct {
		Token string `json:"jwt_token"`
	}
	if err := sc.request("auth", http.MethodPost, "/api/v1/auth/token", credentials, &result); err != nil {
		return "", err
	}
	return result.Token, nil
}

// runTradeFlow drives one full quote → sell trade → trade info round trip.
func (sc *simulationClient) runTradeFlow(workerID int) error {
	logger := log.With().Int("worker", workerID).Logger()

	var details struct {
		SubAddress string `json:"sub_address"`
		Address    string `json:"address"`
	}
	if err := sc.request("details", http.MethodGet, "/api/v1/lp", nil, &details); err != nil {
		return fmt.Errorf("lp details: %w", err)
	}

	pair := pairs[rand.Intn(len(pairs))]
	amount := int64(rand.Intn(1000)+1) * 1_000_000

	var quote struct {
		QuoteID string `json:"quote_id"`
		Rate    struct {
			Pair string `json:"pair"`
			Rate int64  `json:"rate"`
		} `json:"rate"`
	}
	quoteReq := map[string]interface{}{"pair": pair, "amount": amount}
	if err := sc.request("quote", http.MethodPost, "/api/v1/quotes", quoteReq, &quote); err != nil {
		return fmt.Errorf("create quote: %w", err)
	}

	logger.Info().
		Str("quote_id", quote.QuoteID).
		Str("pair", pair).
		Int64("amount", amount).
		Int64("rate", quote.Rate.Rate).
		Msg("quote created")

	tradeReq := map[string]interface{}{
		"quote_id":   quote.QuoteID,
		"direction":  "Sell",
		"tx_version": rand.Intn(1_000_000),
	}
	var trade struct {
		TradeID string `json:"trade_id"`
	}
	if err := sc.request("trade", http.MethodPost, "/api/v1/trades", tradeReq, &trade); err != nil {
		return fmt.Errorf("trade: %w", err)
	}

	var info struct {
		Status    string  `json:"status"`
		TxVersion *uint64 `json:"tx_version"`
	}
	if err := sc.request("info", http.MethodGet, "/api/v1/trades/"+trade.TradeID, nil, &info); err != nil {
		return fmt.Errorf("trade info: %w", err)
	}

	logger.Info().
		Str("trade_id", trade.TradeID).
		Str("status", info.Status).
		Msg("trade completed")

	return nil
}

// settleOutstandingDebts lists and settles every outstanding debt once the
// trade workers are done.
func (sc *simulationClient) settleOutstandingDebts() error {
	var debts []struct {
		DebtID   string `json:"debt_id"`
		Currency string `json:"currency"`
		Amount   int64  `json:"amount"`
	}
	if err := sc.request("debts", http.MethodGet, "/api/v1/internal/debts", nil, &debts); err != nil {
		return fmt.Errorf("get debts: %w", err)
	}

	log.Info().Int("count", len(debts)).Msg("settling outstanding debts")

	for _, debt := range debts {
		confirmation := fmt.Sprintf("WIRE-%d", rand.Int63())
		payload := map[string]string{"confirmation": confirmation}
		if err := sc.request("settle", http.MethodPost, "/api/v1/internal/debts/"+debt.DebtID+"/settle", payload, nil); err != nil {
			return fmt.Errorf("settle debt %s: %w", debt.DebtID, err)
		}
		log.Info().
			Str("debt_id", debt.DebtID).
			Str("currency", debt.Currency).
			Int64("amount", debt.Amount).
			Msg("debt settled")
	}
	return nil
}

// printStats renders the per-route performance summary.
func (sc *simulationClient) printStats() {
	fmt.Println("\nRoute Performance Statistics:")
	fmt.Println("============================")

	for _, stat := range sc.stats {
		if stat.totalCalls == 0 {
			continue
		}
		min, max, mean, median, p95, p99 := stat.calculate()
		fmt.Printf("\n%s (%d calls, %d failures)\n", stat.name, stat.totalCalls, stat.failures)
		fmt.Printf("  min=%v max=%v mean=%v median=%v p95=%v p99=%v\n",
			min, max, mean, median, p95, p99)
	}
}

func main() {
	sc, err := newSimulationClient()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize simulation client")
	}

	totalTrades := rand.Intn(maxTrades-minTrades+1) + minTrades
	log.Info().Int("trades", totalTrades).Int("workers", numWorkers).Msg("starting simulation")

	jobs := make(chan int, totalTrades)
	var wg sync.WaitGroup

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for range jobs {
				if err := sc.runTradeFlow(workerID); err != nil {
					log.Error().Err(err).Int("worker", workerID).Msg("trade flow failed")
				}
			}
		}(w)
	}

	for i := 0; i < totalTrades; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if err := sc.settleOutstandingDebts(); err != nil {
		log.Error().Err(err).Msg("settlement pass failed")
	}

	sc.printStats()
}
