package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Unit        string    `json:"unit"`
	Quantity    float64   `json:"quantity"`
	FarmerID    int64     `json:"farmer_id"`
	FarmerName  string    `json:"farmer_name"`
	ImageURL    string    `json:"image_url,omitempty"`
	IsUrgent    bool      `json:"is_urgent"`
	CreatedAt   time.Time `json:"created_at"`
}

type ProductList struct {
	envelope
	Products   []Product `json:"products"`
	Page       int       `json:"page"`
	TotalPages int       `json:"total_pages"`
}

type ListProductsParams struct {
	Page     int
	PerPage  int
	Search   string
	Category string
	Urgent   bool
}

func (p ListProductsParams) query() string {
	values := url.Values{}
	if p.Page > 0 {
		values.Set("page", strconv.Itoa(p.Page))
	}
	if p.PerPage > 0 {
		values.Set("per_page", strconv.Itoa(p.PerPage))
	}
	if p.Search != "" {
		values.Set("search", p.Search)
	}
	if p.Category != "" {
		values.Set("category", p.Category)
	}
	if p.Urgent {
		values.Set("urgent", "true")
	}
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}

// ReservationStatus follows the server's lifecycle; the client only
// displays it.
type ReservationStatus string

const (
	ReservationPending  ReservationStatus = "pending"
	ReservationApproved ReservationStatus = "approved"
	ReservationRejected ReservationStatus = "rejected"
	ReservationComplete ReservationStatus = "completed"
)

type Reservation struct {
	ID          int64             `json:"id"`
	ProductID   int64             `json:"product_id"`
	ProductName string            `json:"product_name"`
	BuyerID     int64             `json:"buyer_id"`
	BuyerName   string            `json:"buyer_name"`
	Quantity    float64           `json:"quantity"`
	TotalPrice  float64           `json:"total_price"`
	Status      ReservationStatus `json:"status"`
	PickupDate  string            `json:"pickup_date,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

type ReservationList struct {
	envelope
	Reservations []Reservation `json:"reservations"`
}

type CreateReservationRequest struct {
	ProductID  int64   `json:"product_id"`
	Quantity   float64 `json:"quantity"`
	PickupDate string  `json:"pickup_date,omitempty"`
}

type CreateReservationResponse struct {
	envelope
	Reservation Reservation `json:"reservation"`
}

// ListProducts fetches the marketplace listing. Works without a
// session; prices and stock are public.
func (c *Client) ListProducts(ctx context.Context, params ListProductsParams) (*ProductList, error) {
	var result ProductList
	if err := c.getJSON(ctx, "/api/products/"+params.query(), &result); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return &result, nil
}

// GetProduct fetches a single product by id.
func (c *Client) GetProduct(ctx context.Context, id int64) (*Product, error) {
	var result struct {
		envelope
		Product Product `json:"product"`
	}
	path := fmt.Sprintf("/api/products/%d/", id)
	if err := c.getJSON(ctx, path, &result); err != nil {
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return &result.Product, nil
}

// CreateReservation reserves a quantity of a product. Requires a
// buyer session.
func (c *Client) CreateReservation(ctx context.Context, req *CreateReservationRequest) (*CreateReservationResponse, error) {
	var result CreateReservationResponse
	if err := c.postJSON(ctx, "/api/reservations/", req, &result); err != nil {
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}
	return &result, nil
}

// ListReservations fetches the caller's reservations: a buyer sees the
// ones they placed, a farmer the ones against their products.
func (c *Client) ListReservations(ctx context.Context) (*ReservationList, error) {
	var result ReservationList
	if err := c.getJSON(ctx, "/api/reservations/", &result); err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return &result, nil
}
