package pickup

import (
	"time"

	"github.com/sellwaste/sellwaste/pkg/seeded"
)

// optimizePickup synthesizes the pickup plan: route, stops, time window
// and illustrative optimization scores. Pure computation over the
// normalized request and the shared RNG; the advisory texts feed in only
// through the echoed routing-note labels. Every random draw comes from
// rng, so the plan is reproducible per seed; only the route id and the
// calendar date depend on the clock.
func (s *Service) optimizePickup(req NormalizedRequest, demand, riskAppetite string, rng seeded.RNG) (StageMessage, Pickup, time.Time) {
	now := s.now()
	routeID := newRouteID(now)

	stops := make([]Stop, 0, len(req.WasteItems))
	for _, item := range req.WasteItems {
		address := item.Location.Address
		if address == "" {
			address = "Default Pickup Zone"
		}
		stops = append(stops, Stop{Address: address, ExpectedQuantity: item.Quantity})
	}
	if len(stops) == 0 {
		// Unreachable after validation, but the route must never be empty.
		stops = append(stops, Stop{
			Address:          "Default Pickup Zone",
			ExpectedQuantity: float64(seeded.Int(80, 200, rng)),
		})
	}

	metrics := OptimizationMetrics{
		ProfitScore:       seeded.Between(0.68, 0.92, 2, rng),
		PoolingEfficiency: seeded.Between(0.6, 0.9, 2, rng),
		RouteOptimality:   seeded.Between(0.7, 0.95, 2, rng),
	}

	hour := seeded.Int(9, 17, rng)
	minute := seeded.Int(0, 45, rng)
	pickupTime := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	_, offsetSeconds := pickupTime.Zone()

	message := StageMessage{
		Layer:               LayerOptimization,
		Title:               TitleOptimization,
		Text:                "Optimizing for profit and pooling. Generating pickup route and carrier allocation.",
		Timestamp:           s.timestamp(),
		OptimizationMetrics: &metrics,
		RoutingNotes: &RoutingNotes{
			DemandSignal: orDefault(demand, "unknown"),
			RiskAppetite: orDefault(riskAppetite, "unknown"),
		},
	}

	pickup := Pickup{
		Scheduled:     true,
		Date:          now.Format("2006/01/02"),
		DateTime:      pickupTime.UTC().Format(time.RFC3339),
		DateTimeLocal: pickupTime.Format("2006/01/02 15:04"),
		// Minutes west of UTC, matching the wire format consumers expect.
		TimezoneOffsetMinutes: -offsetSeconds / 60,
		Route: Route{
			RouteID:    routeID,
			ETAMinutes: seeded.Int(60, 180, rng),
			Stops:      stops,
		},
	}

	return message, pickup, pickupTime
}
