// Package downstream adapts internal/serviceclient's typed HTTP caller
// to each domain package's narrow port interface — one small client
// struct per external service, translating wire DTOs into the shape
// the calling package's port expects.
package downstream

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/orders"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/serviceclient"
)

// CustomerClient implements orders.CustomerService over the customer service's HTTP API.
type CustomerClient struct {
	client *serviceclient.Client
}

// NewCustomerClient creates a CustomerClient.
func NewCustomerClient(client *serviceclient.Client) *CustomerClient {
	return &CustomerClient{client: client}
}

type customerResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Phone   *string   `json:"phone"`
	Email   *string   `json:"email"`
	Address string    `json:"address"`
	City    string    `json:"city"`
	Country string    `json:"country"`
}

// GetCustomer implements orders.CustomerService.
func (c *CustomerClient) GetCustomer(ctx context.Context, customerID uuid.UUID) (orders.CustomerData, error) {
	var resp customerResponse
	if err := c.client.Get(ctx, fmt.Sprintf("/customers/%s", customerID), &resp); err != nil {
		return orders.CustomerData{}, err
	}
	return orders.CustomerData{
		ID:      resp.ID,
		Name:    resp.Name,
		Phone:   resp.Phone,
		Email:   resp.Email,
		Address: resp.Address,
		City:    resp.City,
		Country: resp.Country,
	}, nil
}
