package downstream

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/serviceclient"
)

// GeocoderClient implements delivery.GeocodingService over a geocoding
// service's HTTP API. Geocode uses only decimal values, so
// delivery.GeocodingService is satisfied structurally without this
// package importing delivery.
type GeocoderClient struct {
	client *serviceclient.Client
}

// NewGeocoderClient creates a GeocoderClient.
func NewGeocoderClient(client *serviceclient.Client) *GeocoderClient {
	return &GeocoderClient{client: client}
}

type geocodeRequest struct {
	Address string `json:"address"`
	City    string `json:"city"`
	Country string `json:"country"`
}

type geocodeResponse struct {
	Latitude  decimal.Decimal `json:"latitude"`
	Longitude decimal.Decimal `json:"longitude"`
}

// Geocode implements delivery.GeocodingService.
func (c *GeocoderClient) Geocode(ctx context.Context, address, city, country string) (decimal.Decimal, decimal.Decimal, error) {
	var resp geocodeResponse
	if err := c.client.Post(ctx, "/geocode", geocodeRequest{Address: address, City: city, Country: country}, &resp); err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, err
	}
	return resp.Latitude, resp.Longitude, nil
}
