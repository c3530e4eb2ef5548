package downstream

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/sellers/visit"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/serviceclient"
)

// ClientServiceClient implements visit.ClientService over the client service's HTTP API.
type ClientServiceClient struct {
	client *serviceclient.Client
}

// NewClientServiceClient creates a ClientServiceClient.
func NewClientServiceClient(client *serviceclient.Client) *ClientServiceClient {
	return &ClientServiceClient{client: client}
}

type clientResponse struct {
	ID               uuid.UUID  `json:"id"`
	AssignedSellerID *uuid.UUID `json:"assigned_seller_id"`
	Name             string     `json:"name"`
	Address          string     `json:"address"`
	City             string     `json:"city"`
	Country          string     `json:"country"`
}

// GetClient implements visit.ClientService.
func (c *ClientServiceClient) GetClient(ctx context.Context, clientID uuid.UUID) (visit.Client, error) {
	var resp clientResponse
	if err := c.client.Get(ctx, fmt.Sprintf("/clients/%s", clientID), &resp); err != nil {
		return visit.Client{}, err
	}
	return visit.Client{
		ID:               resp.ID,
		AssignedSellerID: resp.AssignedSellerID,
		Name:             resp.Name,
		Address:          resp.Address,
		City:             resp.City,
		Country:          resp.Country,
	}, nil
}

type assignSellerRequest struct {
	SellerID uuid.UUID `json:"seller_id"`
}

// AssignSeller implements visit.ClientService.
func (c *ClientServiceClient) AssignSeller(ctx context.Context, clientID, sellerID uuid.UUID) error {
	return c.client.Patch(ctx, fmt.Sprintf("/clients/%s/assign-seller", clientID), assignSellerRequest{SellerID: sellerID}, nil)
}
