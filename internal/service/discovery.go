package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/siyaha-app/siyaha-backend/internal/repository"
)

// RankingCache is a short-TTL cache for per-user ranked feeds. The Redis
// service implements it; nil disables caching.
type RankingCache interface {
	GetRankedFeed(ctx context.Context, userID uint) ([]byte, error)
	SetRankedFeed(ctx context.Context, userID uint, payload []byte) error
}

type DiscoveryService struct {
	discovery repository.DiscoveryRepository
	users     repository.UserRepository
	cache     RankingCache
}

func NewDiscoveryService(discovery repository.DiscoveryRepository, users repository.UserRepository, cache RankingCache) *DiscoveryService {
	return &DiscoveryService{discovery: discovery, users: users, cache: cache}
}

// RecommendedFor returns published experiences ranked against the
// traveler's saved preferences, with a cache in front of the scan.
func (s *DiscoveryService) RecommendedFor(ctx context.Context, userID uint, limit int) ([]repository.RankedExperience, error) {
	if s.cache != nil {
		if payload, err := s.cache.GetRankedFeed(ctx, userID); err == nil && payload != nil {
			var cached []repository.RankedExperience
			if err := json.Unmarshal(payload, &cached); err == nil {
				return cached, nil
			}
		}
	}

	prefs, err := s.users.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	ranked, err := s.discovery.Rank(ctx, prefs, limit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(ranked); err == nil {
			if err := s.cache.SetRankedFeed(ctx, userID, payload); err != nil {
				log.Printf("failed to cache ranked feed for user %d: %v", userID, err)
			}
		}
	}
	return ranked, nil
}
