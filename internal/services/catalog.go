package services

import (
	"fmt"

	"mainstream-shop/internal/models"
	"mainstream-shop/internal/repositories"
)

// EventRepository interface for event and category data operations
type EventRepository interface {
	GetByID(id int) (*models.Event, error)
	ListActive(limit, offset int) ([]*models.Event, error)
	CountActive() (int, error)
	GetCategoryByID(id int) (*models.Category, error)
	ListCategoriesByEvent(eventID int) ([]*models.Category, error)
}

// AthleteRepository interface for athlete data operations
type AthleteRepository interface {
	GetByID(id int) (*models.Athlete, error)
	ListByCategory(categoryID int) ([]*models.Athlete, error)
	GetDetails(id int) (*repositories.AthleteDetails, error)
}

// VideoTypeRepository interface for video type data operations
type VideoTypeRepository interface {
	Create(req *models.VideoTypeCreateRequest) (*models.VideoType, error)
	GetByID(id int) (*models.VideoType, error)
	ListActive() ([]*models.VideoType, error)
}

// CatalogService exposes the browsable shop catalog: events, their
// categories, athletes and the purchasable video types.
type CatalogService struct {
	eventRepo     EventRepository
	athleteRepo   AthleteRepository
	videoTypeRepo VideoTypeRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(eventRepo EventRepository, athleteRepo AthleteRepository, videoTypeRepo VideoTypeRepository) *CatalogService {
	return &CatalogService{
		eventRepo:     eventRepo,
		athleteRepo:   athleteRepo,
		videoTypeRepo: videoTypeRepo,
	}
}

// EventPage is one page of active events
type EventPage struct {
	Events []*models.Event `json:"events"`
	Total  int             `json:"total"`
}

// ListEvents returns a page of active events
func (s *CatalogService) ListEvents(limit, offset int) (*EventPage, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	events, err := s.eventRepo.ListActive(limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.eventRepo.CountActive()
	if err != nil {
		return nil, err
	}
	return &EventPage{Events: events, Total: total}, nil
}

// GetEvent returns one event by ID
func (s *CatalogService) GetEvent(id int) (*models.Event, error) {
	return s.eventRepo.GetByID(id)
}

// ListCategories returns an event's categories with athlete counts
func (s *CatalogService) ListCategories(eventID int) ([]*models.Category, error) {
	if _, err := s.eventRepo.GetByID(eventID); err != nil {
		return nil, err
	}
	return s.eventRepo.ListCategoriesByEvent(eventID)
}

// ListAthletes returns a category's athletes
func (s *CatalogService) ListAthletes(categoryID int) ([]*models.Athlete, error) {
	if _, err := s.eventRepo.GetCategoryByID(categoryID); err != nil {
		return nil, err
	}
	return s.athleteRepo.ListByCategory(categoryID)
}

// GetAthleteDetails returns an athlete with its category and event names
func (s *CatalogService) GetAthleteDetails(athleteID int) (*repositories.AthleteDetails, error) {
	return s.athleteRepo.GetDetails(athleteID)
}

// ListVideoTypes returns the purchasable video types
func (s *CatalogService) ListVideoTypes() ([]*models.VideoType, error) {
	return s.videoTypeRepo.ListActive()
}

// EnsureDefaultVideoTypes seeds the standard video type catalog when the
// table is empty, so a fresh installation sells something immediately.
func (s *CatalogService) EnsureDefaultVideoTypes() error {
	existing, err := s.videoTypeRepo.ListActive()
	if err != nil {
		return fmt.Errorf("failed to check video types: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	defaults := []*models.VideoTypeCreateRequest{
		{Name: "TV version", Description: "Broadcast camera recording of the performance", Price: 999},
		{Name: "Sport version", Description: "Fixed full-carpet camera for judges and coaches", Price: 1499},
		{Name: "Backstage version", Description: "Warm-up and behind-the-scenes footage", Price: 1499},
		{Name: "Full package", Description: "All available videos of the performance", Price: 2499},
	}
	for _, req := range defaults {
		if _, err := s.videoTypeRepo.Create(req); err != nil {
			return fmt.Errorf("failed to seed video type %q: %w", req.Name, err)
		}
	}
	return nil
}
