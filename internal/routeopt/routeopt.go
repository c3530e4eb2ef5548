// Package routeopt implements the deterministic route optimizer (C3):
// cluster shipments round-robin across available vehicles, then order
// each vehicle's stops nearest-neighbor starting from the cluster's
// first shipment.
// Determinism matters more than optimality here — the same input must
// always produce the same routes, so retries and audits agree.
package routeopt

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/google/uuid"
)

const earthRadiusKm = 6371.0

// Coordinate is a latitude/longitude pair.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Shipment is the minimal view the optimizer needs of a shipment.
type Shipment struct {
	ID          uuid.UUID
	Destination Coordinate
}

// Vehicle is the minimal view the optimizer needs of a vehicle.
type Vehicle struct {
	ID uuid.UUID
}

// Result is one vehicle's optimized route.
type Result struct {
	Vehicle             Vehicle
	Shipments           []Shipment // ordered by delivery sequence
	TotalDistanceKm      decimal.Decimal
	EstimatedDurationMin int
}

// Config parameterizes duration estimation.
type Config struct {
	AvgSpeedKph  float64
	StopMinutes  int
}

// Optimize clusters shipments round-robin across vehicles (after a
// stable lexicographic sort by destination lat,lon), then orders each
// cluster via nearest-neighbor starting from the first shipment in
// cluster order, breaking distance ties by ascending shipment ID.
// Returns one Result per vehicle, in the same order as vehicles.
func Optimize(shipments []Shipment, vehicles []Vehicle, cfg Config) []Result {
	if len(vehicles) == 0 {
		return nil
	}

	sorted := make([]Shipment, len(shipments))
	copy(sorted, shipments)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i].Destination, sorted[j].Destination
		if a.Lat != b.Lat {
			return a.Lat < b.Lat
		}
		if a.Lon != b.Lon {
			return a.Lon < b.Lon
		}
		return sorted[i].ID.String() < sorted[j].ID.String()
	})

	clusters := make([][]Shipment, len(vehicles))
	for i, s := range sorted {
		v := i % len(vehicles)
		clusters[v] = append(clusters[v], s)
	}

	results := make([]Result, len(vehicles))
	for i, vehicle := range vehicles {
		ordered := nearestNeighborOrder(clusters[i])
		distance := routeDistanceKm(ordered)
		results[i] = Result{
			Vehicle:              vehicle,
			Shipments:             ordered,
			TotalDistanceKm:      distance,
			EstimatedDurationMin: estimateDurationMinutes(distance, len(ordered), cfg),
		}
	}

	return results
}

// nearestNeighborOrder greedily orders stops starting from the first
// element, always moving to the closest unvisited stop. Ties are broken
// by ascending shipment ID so the result is deterministic regardless of
// map/slice iteration order.
func nearestNeighborOrder(stops []Shipment) []Shipment {
	if len(stops) <= 1 {
		return stops
	}

	remaining := make([]Shipment, len(stops))
	copy(remaining, stops)

	ordered := make([]Shipment, 0, len(stops))
	current := remaining[0]
	ordered = append(ordered, current)
	remaining = remaining[1:]

	for len(remaining) > 0 {
		bestIdx := 0
		bestDist := haversineKm(current.Destination, remaining[0].Destination)
		for i := 1; i < len(remaining); i++ {
			d := haversineKm(current.Destination, remaining[i].Destination)
			if d < bestDist || (d == bestDist && remaining[i].ID.String() < remaining[bestIdx].ID.String()) {
				bestDist = d
				bestIdx = i
			}
		}
		current = remaining[bestIdx]
		ordered = append(ordered, current)
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return ordered
}

// routeDistanceKm sums consecutive Haversine distances along the route.
func routeDistanceKm(stops []Shipment) decimal.Decimal {
	total := 0.0
	for i := 1; i < len(stops); i++ {
		total += haversineKm(stops[i-1].Destination, stops[i].Destination)
	}
	return decimal.NewFromFloat(total).Round(3)
}

// estimateDurationMinutes combines driving time (distance / avg speed)
// with a fixed per-stop dwell time.
func estimateDurationMinutes(distanceKm decimal.Decimal, stopCount int, cfg Config) int {
	if cfg.AvgSpeedKph <= 0 {
		return stopCount * cfg.StopMinutes
	}
	dist, _ := distanceKm.Float64()
	drivingMinutes := (dist / cfg.AvgSpeedKph) * 60
	return int(math.Round(drivingMinutes)) + stopCount*cfg.StopMinutes
}

// haversineKm returns the great-circle distance between two coordinates in km.
func haversineKm(a, b Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}
