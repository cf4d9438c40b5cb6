package cart

import (
	"context"
	"errors"
	"fmt"

	"mainstream-shop/internal/catalog"
	"mainstream-shop/internal/models"
)

// State of a video-type selection flow
type State string

const (
	StateClosed         State = "closed"
	StateLoading        State = "loading"
	StateLoaded         State = "loaded"
	StateFallbackLoaded State = "fallback_loaded"
	StateSelected       State = "selected"
)

// ErrNoSelection is returned when Confirm is called before a type was chosen
var ErrNoSelection = errors.New("no video type selected")

// Fetcher retrieves the video type catalog
type Fetcher interface {
	Fetch(ctx context.Context) catalog.Result
}

// Subject is the athlete/event/category context a video is ordered for
type Subject struct {
	AthleteID    int
	AthleteName  string
	EventID      int
	EventName    string
	CategoryID   int
	CategoryName string
}

// Selection drives one "pick a video type, add to cart" flow:
//
//	Closed -> Loading -> Loaded|FallbackLoaded -> Selected -> Closed
//
// Opening fetches the catalog (the only suspend point); selecting is
// single-select; confirming appends one line to the cart store; cancelling
// discards everything.
type Selection struct {
	fetcher Fetcher
	store   *Store

	state   State
	subject Subject
	options []models.VideoType
	chosen  *models.VideoType
}

// NewSelection creates a selection flow feeding the given cart store
func NewSelection(fetcher Fetcher, store *Store) *Selection {
	return &Selection{fetcher: fetcher, store: store, state: StateClosed}
}

// State returns the current flow state
func (s *Selection) State() State {
	return s.state
}

// Open starts the flow for the given subject and loads the catalog. A
// failed fetch does not block the flow; the fallback catalog is offered
// instead.
func (s *Selection) Open(ctx context.Context, subject Subject) error {
	if s.state != StateClosed {
		return fmt.Errorf("cannot open selection in state %q", s.state)
	}

	s.subject = subject
	s.state = StateLoading

	result := s.fetcher.Fetch(ctx)
	s.options = result.Types
	if result.IsFallback() {
		s.state = StateFallbackLoaded
	} else {
		s.state = StateLoaded
	}
	return nil
}

// Options returns the loaded catalog entries
func (s *Selection) Options() []models.VideoType {
	return s.options
}

// Select marks one video type as chosen. Choosing another type replaces the
// previous choice; at most one option is ever selected.
func (s *Selection) Select(videoTypeID int) error {
	switch s.state {
	case StateLoaded, StateFallbackLoaded, StateSelected:
	default:
		return fmt.Errorf("cannot select in state %q", s.state)
	}

	for i := range s.options {
		if s.options[i].ID == videoTypeID {
			s.chosen = &s.options[i]
			s.state = StateSelected
			return nil
		}
	}
	return fmt.Errorf("video type %d is not among the offered options", videoTypeID)
}

// Selected returns the currently chosen video type, if any
func (s *Selection) Selected() *models.VideoType {
	return s.chosen
}

// Confirm builds a cart line from the chosen type and the subject, appends
// it to the cart store and closes the flow.
func (s *Selection) Confirm(ctx context.Context) (models.CartItem, error) {
	if s.state != StateSelected || s.chosen == nil {
		return models.CartItem{}, ErrNoSelection
	}

	item := models.CartItem{
		AthleteID:     s.subject.AthleteID,
		AthleteName:   s.subject.AthleteName,
		EventID:       s.subject.EventID,
		EventName:     s.subject.EventName,
		CategoryID:    s.subject.CategoryID,
		CategoryName:  s.subject.CategoryName,
		VideoTypeID:   s.chosen.ID,
		VideoTypeName: s.chosen.Name,
		Price:         s.chosen.Price,
		Quantity:      1,
	}

	if err := s.store.Add(ctx, item); err != nil {
		return models.CartItem{}, err
	}

	s.reset()
	return item, nil
}

// Cancel discards the in-progress selection with no side effects
func (s *Selection) Cancel() {
	s.reset()
}

func (s *Selection) reset() {
	s.state = StateClosed
	s.subject = Subject{}
	s.options = nil
	s.chosen = nil
}
