package catalog

import "mainstream-shop/internal/models"

// Fallback returns the built-in video type catalog used when the remote
// catalog cannot be fetched. The purchase flow must never be blocked by
// catalog-service unavailability, so these four variants are always offered.
func Fallback() []models.VideoType {
	return []models.VideoType{
		{
			ID:          1,
			Name:        "TV version",
			Description: "Single-camera broadcast recording of the performance",
			Price:       999,
			IsActive:    true,
		},
		{
			ID:          2,
			Name:        "Sport version",
			Description: "Technical recording focused on the athlete",
			Price:       1499,
			IsActive:    true,
		},
		{
			ID:          3,
			Name:        "Backstage version",
			Description: "Warm-up and behind-the-scenes footage",
			Price:       1499,
			IsActive:    true,
		},
		{
			ID:          4,
			Name:        "Full package",
			Description: "All available recordings of the performance",
			Price:       2499,
			IsActive:    true,
		},
	}
}
