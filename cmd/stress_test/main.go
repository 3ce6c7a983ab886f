// Command stress_test fires concurrent order placements at a running server
// and checks the stock accounting afterwards: final quantity must equal the
// starting quantity minus the number of committed orders, and never go
// negative.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
)

type loginResponse struct {
	AccessToken string `json:"accessToken"`
}

type productListResponse struct {
	Data []struct {
		ID  int64 `json:"id"`
		Qty int   `json:"qty"`
	} `json:"data"`
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "API base URL")
	email := flag.String("email", "alfonso@gmail.com", "login email")
	password := flag.String("password", "password123", "login password")
	productID := flag.Int64("product", 1, "product to order")
	totalRequests := flag.Int("n", 50, "concurrent order requests")
	flag.Parse()

	client := &http.Client{}

	token := login(client, *baseURL, *email, *password)

	before := productQty(client, *baseURL, token, *productID)
	log.Printf("product %d stock before: %d", *productID, before)

	var successCount atomic.Int32
	var failCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < *totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			body, _ := json.Marshal(map[string]interface{}{
				"items": []map[string]interface{}{
					{"productId": *productID, "qty": 1},
				},
			})

			req, err := http.NewRequest(http.MethodPost, *baseURL+"/api/orders", bytes.NewReader(body))
			if err != nil {
				failCount.Add(1)
				return
			}
			req.Header.Set("Authorization", "Bearer "+token)
			req.Header.Set("Content-Type", "application/json")

			resp, err := client.Do(req)
			if err != nil {
				failCount.Add(1)
				return
			}
			resp.Body.Close()

			if resp.StatusCode == http.StatusCreated {
				successCount.Add(1)
			} else {
				failCount.Add(1)
			}
		}()
	}

	wg.Wait()

	after := productQty(client, *baseURL, token, *productID)
	log.Printf("requests: %d, success: %d, fail: %d", *totalRequests, successCount.Load(), failCount.Load())
	log.Printf("product %d stock after: %d", *productID, after)

	if after < 0 || before-after != int(successCount.Load()) {
		log.Fatalf("stock accounting broken: before %d, after %d, committed %d",
			before, after, successCount.Load())
	}
	log.Println("stock accounting consistent")
}

func login(client *http.Client, baseURL, email, password string) string {
	req, err := http.NewRequest(http.MethodPost, baseURL+"/api/auth/login", nil)
	if err != nil {
		log.Fatalf("build login request: %v", err)
	}
	req.SetBasicAuth(email, password)

	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("login: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Fatalf("login failed with status %d", resp.StatusCode)
	}

	var lr loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		log.Fatalf("decode login response: %v", err)
	}
	return lr.AccessToken
}

func productQty(client *http.Client, baseURL, token string, id int64) int {
	req, err := http.NewRequest(http.MethodGet, baseURL+"/api/products", nil)
	if err != nil {
		log.Fatalf("build products request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("list products: %v", err)
	}
	defer resp.Body.Close()

	var list productListResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		log.Fatalf("decode products response: %v", err)
	}

	for _, p := range list.Data {
		if p.ID == id {
			return p.Qty
		}
	}

	log.Fatalf("product %d not found", id)
	return 0
}
