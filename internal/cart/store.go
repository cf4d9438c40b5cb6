// Package cart implements the shopping cart: an ordered list of video line
// items persisted as a single JSON snapshot, plus the video-type selection
// flow that feeds it.
package cart

import (
	"context"
	"encoding/json"
	"log"

	"mainstream-shop/internal/models"
	"mainstream-shop/internal/notify"
)

// SnapshotKey is the single key the serialized cart is stored under
const SnapshotKey = "cart"

// SnapshotStore persists the serialized cart snapshot under a single key.
// Every write replaces the whole snapshot; there is no merge.
type SnapshotStore interface {
	// Read returns the raw snapshot and whether one was present
	Read(ctx context.Context) ([]byte, bool, error)
	// Write replaces the snapshot
	Write(ctx context.Context, data []byte) error
}

// Notifier receives user-facing feedback about cart mutations
type Notifier interface {
	Notify(message string, severity notify.Severity)
}

// Store owns the in-memory cart and its persisted snapshot. All operations
// are intended for single-request use; the snapshot is read-modify-written
// whole, so the last writer wins.
type Store struct {
	snapshots SnapshotStore
	notifier  Notifier
	items     []models.CartItem
}

// NewStore creates a cart store over the given snapshot backend
func NewStore(snapshots SnapshotStore) *Store {
	return &Store{snapshots: snapshots}
}

// WithNotifier attaches a feedback notifier to cart mutations
func (s *Store) WithNotifier(n Notifier) *Store {
	s.notifier = n
	return s
}

// Load reads the persisted snapshot into memory. A missing or unparsable
// snapshot yields an empty cart; Load never fails the caller.
func (s *Store) Load(ctx context.Context) {
	s.items = nil

	data, ok, err := s.snapshots.Read(ctx)
	if err != nil {
		log.Printf("Cart snapshot read failed, starting with empty cart: %v", err)
		return
	}
	if !ok {
		return
	}

	var items []models.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		// A corrupt snapshot is treated as "no cart"
		log.Printf("Cart snapshot is not valid JSON, starting with empty cart: %v", err)
		return
	}
	s.items = items
}

// Save serializes the cart and overwrites the persisted snapshot
func (s *Store) Save(ctx context.Context) error {
	items := s.items
	if items == nil {
		items = []models.CartItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.snapshots.Write(ctx, data)
}

// Add appends an item to the cart and persists. Duplicate selections are
// kept as separate lines; nothing merges by identity.
func (s *Store) Add(ctx context.Context, item models.CartItem) error {
	if item.Quantity == 0 {
		item.Quantity = 1
	}
	s.items = append(s.items, item)
	if err := s.Save(ctx); err != nil {
		return err
	}
	s.notify(item.VideoTypeName+" added to cart", notify.SeveritySuccess)
	return nil
}

// Remove deletes all lines matching the athlete/video type pair and persists
func (s *Store) Remove(ctx context.Context, athleteID, videoTypeID int) error {
	kept := s.items[:0]
	for _, item := range s.items {
		if item.AthleteID == athleteID && item.VideoTypeID == videoTypeID {
			continue
		}
		kept = append(kept, item)
	}
	s.items = kept
	if err := s.Save(ctx); err != nil {
		return err
	}
	s.notify("Item removed from cart", notify.SeverityInfo)
	return nil
}

// UpdateQuantity sets the quantity on lines matching the athlete/video type
// pair. A quantity of zero removes the lines.
func (s *Store) UpdateQuantity(ctx context.Context, athleteID, videoTypeID, quantity int) error {
	if quantity <= 0 {
		return s.Remove(ctx, athleteID, videoTypeID)
	}
	for i := range s.items {
		if s.items[i].AthleteID == athleteID && s.items[i].VideoTypeID == videoTypeID {
			s.items[i].Quantity = quantity
		}
	}
	return s.Save(ctx)
}

// Clear empties the cart and persists the empty snapshot
func (s *Store) Clear(ctx context.Context) error {
	s.items = []models.CartItem{}
	if err := s.Save(ctx); err != nil {
		return err
	}
	s.notify("Cart cleared", notify.SeverityInfo)
	return nil
}

// Total returns the sum of price times quantity over all items
func (s *Store) Total() int {
	total := 0
	for _, item := range s.items {
		total += item.Subtotal()
	}
	return total
}

// Count returns the number of units in the cart, for the badge
func (s *Store) Count() int {
	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// Items returns a copy of the cart lines in insertion order
func (s *Store) Items() []models.CartItem {
	items := make([]models.CartItem, len(s.items))
	copy(items, s.items)
	return items
}

func (s *Store) notify(message string, severity notify.Severity) {
	if s.notifier != nil {
		s.notifier.Notify(message, severity)
	}
}
