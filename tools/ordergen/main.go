// ordergen generates synthetic order events and posts them to the gateway.
package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

var (
	gatewayURL = flag.String("gateway-url", "http://localhost:8091", "gateway endpoint URL")
	token      = flag.String("token", "", "gateway authentication token")
	count      = flag.Int("count", 100, "number of orders to generate")
	interval   = flag.Duration("interval", 100*time.Millisecond, "interval between orders")
	customers  = flag.Int("customers", 30, "size of the customer pool")
	maxItems   = flag.Int("max-items", 3, "maximum product items per order")
)

var sizes = []string{"XXS", "XS", "S", "M", "L", "XL", "XXL", "XXXL"}

var paymentTypes = []string{"debit_card", "credit_card", "cash", "coupon", "wallet"}

type order struct {
	CustomerID      string          `json:"customer_id"`
	OrderID         string          `json:"order_id"`
	OrderDate       string          `json:"order_date"`
	Status          string          `json:"status"`
	ShippingAddress address         `json:"shipping_address"`
	PurchaseDetails purchaseDetails `json:"purchaise_details"`
	ProductDetails  []productItem   `json:"product_details"`
}

type address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

type purchaseDetails struct {
	PaymentType string  `json:"payment_type"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Instalments int     `json:"instalments"`
}

type productItem struct {
	ProductID string      `json:"product_id"`
	Name      string      `json:"name"`
	Quantity  int         `json:"quantity"`
	Details   itemDetails `json:"item_details"`
}

type itemDetails struct {
	Color string `json:"color"`
	Size  string `json:"size"`
}

type submission struct {
	Data string `json:"data"`
}

func main() {
	flag.Parse()

	gofakeit.Seed(time.Now().UnixNano())

	log.Printf("Starting order generator:")
	log.Printf("  Gateway URL: %s", *gatewayURL)
	log.Printf("  Order count: %d", *count)
	log.Printf("  Interval: %v", *interval)
	log.Printf("  Customer pool: %d", *customers)

	pool := make([]string, *customers)
	for i := range pool {
		pool[i] = fmt.Sprintf("user%04d", rand.Intn(10000))
	}

	client := &http.Client{
		Timeout: 10 * time.Second,
	}

	successCount := 0
	failCount := 0

	for i := 0; i < *count; i++ {
		o := generateOrder(pool)
		if err := sendOrder(client, o); err != nil {
			log.Printf("Failed to send order %s: %v", o.OrderID, err)
			failCount++
		} else {
			successCount++
			if successCount%50 == 0 {
				log.Printf("Progress: %d/%d orders sent", successCount, *count)
			}
		}

		if *interval > 0 && i < *count-1 {
			time.Sleep(*interval)
		}
	}

	log.Printf("\nGeneration complete:")
	log.Printf("  Success: %d orders", successCount)
	log.Printf("  Failed: %d orders", failCount)
}

func generateOrder(pool []string) order {
	items := make([]productItem, 1+rand.Intn(*maxItems))
	for i := range items {
		items[i] = productItem{
			ProductID: fmt.Sprintf("p%05d", rand.Intn(100000)),
			Name:      gofakeit.ProductName(),
			Quantity:  1 + rand.Intn(5),
			Details: itemDetails{
				Color: gofakeit.Color(),
				Size:  sizes[rand.Intn(len(sizes))],
			},
		}
	}

	return order{
		CustomerID: pool[rand.Intn(len(pool))],
		OrderID:    fmt.Sprintf("o%05d", rand.Intn(100000)),
		OrderDate:  gofakeit.DateRange(time.Now().AddDate(0, -1, 0), time.Now()).UTC().Format("2006-01-02T15:04:05") + "Z",
		Status:     "pending",
		ShippingAddress: address{
			Street:  gofakeit.Street(),
			City:    gofakeit.City(),
			State:   gofakeit.State(),
			Zip:     gofakeit.Zip(),
			Country: gofakeit.Country(),
		},
		PurchaseDetails: purchaseDetails{
			PaymentType: paymentTypes[rand.Intn(len(paymentTypes))],
			Amount:      gofakeit.Price(10, 100),
			Currency:    "USD",
			Instalments: 1 + rand.Intn(12),
		},
		ProductDetails: items,
	}
}

func sendOrder(client *http.Client, o order) error {
	payload, err := json.Marshal(o)
	if err != nil {
		return err
	}

	body, err := json.Marshal(submission{
		Data: base64.StdEncoding.EncodeToString(payload),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, *gatewayURL+"/api/v1/orders", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if *token != "" {
		req.Header.Set("Authorization", "Bearer "+*token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	return nil
}
