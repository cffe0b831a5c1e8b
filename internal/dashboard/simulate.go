package dashboard

import (
	"context"
	"math"

	"github.com/Veraticus/compliance-sentinel/internal/model"
)

// simulationLocations mixes the directory's home countries with sanctioned ones.
var simulationLocations = []string{
	"UK", "Malta", "Indonesia", "Vietnam", "Nigeria", "Germany",
	"Brazil", "Japan", "UAE", "Singapore", "North Korea", "Iran", "Russia",
}

// amountBands weight simulated amounts toward everyday values.
var amountBands = []struct {
	min, max float64
	weight   int
}{
	{min: 20, max: 2000, weight: 6},
	{min: 2000, max: 9000, weight: 3},
	{min: 9000, max: 60000, weight: 1},
}

// RandomRequest draws a plausible inject request.
func (s *Service) RandomRequest() InjectRequest {
	users := model.CustomerIDs()
	return InjectRequest{
		User:     users[s.rng.IntN(len(users))],
		Location: simulationLocations[s.rng.IntN(len(simulationLocations))],
		Amount:   s.randomAmount(),
	}
}

func (s *Service) randomAmount() float64 {
	total := 0
	for _, b := range amountBands {
		total += b.weight
	}

	pick := s.rng.IntN(total)
	for _, b := range amountBands {
		if pick < b.weight {
			return math.Round(b.min + s.rng.Float64()*(b.max-b.min))
		}
		pick -= b.weight
	}
	return amountBands[0].min
}

// Simulate injects count random transactions, calling progress after each.
func (s *Service) Simulate(ctx context.Context, count int, progress func(model.Transaction)) ([]model.Transaction, error) {
	out := make([]model.Transaction, 0, count)
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		txn, err := s.Inject(ctx, s.RandomRequest())
		if err != nil {
			return out, err
		}
		out = append(out, txn)

		if progress != nil {
			progress(txn)
		}
	}
	return out, nil
}
