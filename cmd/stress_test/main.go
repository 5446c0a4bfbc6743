// Oversell probe: fires concurrent single-unit orders for one book against
// a running server and checks that successes never exceed the starting
// stock. Run with BASE_URL, TOKEN and BOOK_ID set.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

const (
	defaultBaseURL  = "http://localhost:8080"
	defaultRequests = 50
)

func main() {
	baseURL := envOr("BASE_URL", defaultBaseURL)
	token := os.Getenv("TOKEN")
	if token == "" {
		log.Fatal("TOKEN is required (login first and export the bearer token)")
	}
	bookID, err := strconv.ParseInt(os.Getenv("BOOK_ID"), 10, 64)
	if err != nil {
		log.Fatal("BOOK_ID is required")
	}
	totalRequests := defaultRequests
	if raw := os.Getenv("REQUESTS"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			totalRequests = n
		}
	}

	initialStock, err := fetchStock(baseURL, bookID)
	if err != nil {
		log.Fatalf("failed to read initial stock: %v", err)
	}

	client := &http.Client{Timeout: 10 * time.Second}

	var successCount atomic.Int32
	var rejectedCount atomic.Int32
	var errorCount atomic.Int32

	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			status, err := placeOrder(client, baseURL, token, bookID)
			switch {
			case err != nil:
				errorCount.Add(1)
			case status == http.StatusCreated:
				successCount.Add(1)
			case status == http.StatusBadRequest:
				rejectedCount.Add(1)
			default:
				errorCount.Add(1)
			}
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)

	finalStock, err := fetchStock(baseURL, bookID)
	if err != nil {
		log.Fatalf("failed to read final stock: %v", err)
	}

	success := successCount.Load()

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Initial Stock:    %d\n", initialStock)
	fmt.Printf("Total Requests:   %d\n", totalRequests)
	fmt.Printf("Successful:       %d\n", success)
	fmt.Printf("Rejected:         %d\n", rejectedCount.Load())
	fmt.Printf("Errors:           %d\n", errorCount.Load())
	fmt.Printf("Final Stock:      %d\n", finalStock)
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	if int(success) == initialStock-finalStock && finalStock >= 0 {
		fmt.Println("PASS: successes match the stock decrement, no oversell")
	} else {
		fmt.Printf("FAIL: %d successes but stock went %d -> %d\n", success, initialStock, finalStock)
		os.Exit(1)
	}
}

func placeOrder(client *http.Client, baseURL, token string, bookID int64) (int, error) {
	body, _ := json.Marshal(map[string]any{
		"items":            []map[string]any{{"book_id": bookID, "quantity": 1}},
		"shipping_address": "stress test",
		"phone":            "0000000000",
	})

	req, err := http.NewRequest(http.MethodPost, baseURL+"/api/orders", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

func fetchStock(baseURL string, bookID int64) (int, error) {
	resp, err := http.Get(fmt.Sprintf("%s/api/books/%d", baseURL, bookID))
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var detail struct {
		Stock int `json:"stock"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		return 0, err
	}
	return detail.Stock, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
