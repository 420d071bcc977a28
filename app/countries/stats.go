package countries

import (
	"context"

	"github.com/joefazee/visaguide/models"
)

type statsService struct {
	repo Repository
}

func NewStatsService(repo Repository) StatsService {
	return &statsService{repo: repo}
}

// Compute aggregates over every record, drafts included. Each known region
// appears in ByRegion even when its count is zero.
func (s *statsService) Compute(ctx context.Context) (*Stats, error) {
	countries, err := s.repo.ListForAdmin(ctx, nil)
	if err != nil {
		return nil, err
	}
	return Aggregate(countries), nil
}

// Aggregate is the pure part of Compute.
func Aggregate(countries []models.Country) *Stats {
	stats := &Stats{ByRegion: make(map[string]int, len(models.Regions()))}
	for _, r := range models.Regions() {
		stats.ByRegion[string(r)] = 0
	}

	for i := range countries {
		c := &countries[i]
		stats.Total++
		if c.Published {
			stats.Published++
		} else {
			stats.Drafts++
		}
		if c.Featured {
			stats.Featured++
		}
		if c.IsVisaRequired() {
			stats.VisaRequired++
		} else {
			stats.VisaFree++
		}
		if c.Region != "" {
			stats.ByRegion[string(c.Region)]++
		}
	}

	for _, n := range stats.ByRegion {
		if n > 0 {
			stats.Regions++
		}
	}
	return stats
}
