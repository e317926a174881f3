package repository

import (
	"context"
	"sort"

	"github.com/siyaha-app/siyaha-backend/internal/models"
	"gorm.io/gorm"
)

// RankedExperience is an experience with its preference score attached.
type RankedExperience struct {
	models.Experience
	Score float64 `json:"score"`
}

type DiscoveryRepository interface {
	// Rank returns published experiences ordered by a preference score:
	// matching category and region weigh most, staying under the traveler's
	// budget and the experience's own rating fill in the rest. With no
	// preferences the ranking degrades to rating order.
	Rank(ctx context.Context, prefs *models.TravelerPreferences, limit int) ([]RankedExperience, error)
}

type GormDiscoveryRepository struct {
	db *gorm.DB
}

func NewGormDiscoveryRepository(db *gorm.DB) *GormDiscoveryRepository {
	return &GormDiscoveryRepository{db: db}
}

func (r *GormDiscoveryRepository) Rank(ctx context.Context, prefs *models.TravelerPreferences, limit int) ([]RankedExperience, error) {
	var experiences []models.Experience
	err := r.db.WithContext(ctx).
		Where("status = ?", models.ExperienceStatusPublished).
		Find(&experiences).Error
	if err != nil {
		return nil, err
	}

	ranked := make([]RankedExperience, 0, len(experiences))
	for _, e := range experiences {
		ranked = append(ranked, RankedExperience{Experience: e, Score: score(e, prefs)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

func score(e models.Experience, prefs *models.TravelerPreferences) float64 {
	// Rating contributes up to 1 point so ties break on quality.
	s := e.AverageRating / 5

	if prefs == nil {
		return s
	}
	if prefs.PreferredCategory != "" && e.Category == prefs.PreferredCategory {
		s += 3
	}
	if prefs.PreferredRegion != "" && e.Region == prefs.PreferredRegion {
		s += 2
	}
	if prefs.MaxBudget > 0 && e.Price <= prefs.MaxBudget {
		s += 1
	}
	if prefs.GroupSize > 0 && e.MaxParticipants >= prefs.GroupSize {
		s += 0.5
	}
	return s
}
