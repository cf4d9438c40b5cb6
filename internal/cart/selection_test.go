package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mainstream-shop/internal/catalog"
	"mainstream-shop/internal/models"
)

// stubFetcher returns a canned catalog result
type stubFetcher struct {
	result catalog.Result
}

func (f stubFetcher) Fetch(_ context.Context) catalog.Result {
	return f.result
}

func remoteFetcher() stubFetcher {
	return stubFetcher{result: catalog.Result{
		Types: []models.VideoType{
			{ID: 1, Name: "TV version", Price: 999},
			{ID: 2, Name: "Sport version", Price: 1499},
		},
		Source: catalog.SourceRemote,
	}}
}

func fallbackFetcher() stubFetcher {
	return stubFetcher{result: catalog.Result{
		Types:  catalog.Fallback(),
		Source: catalog.SourceFallback,
	}}
}

func testSubject() Subject {
	return Subject{
		AthleteID:    5,
		AthleteName:  "Anna Petrova",
		EventID:      1,
		EventName:    "Spring Cup",
		CategoryID:   2,
		CategoryName: "Juniors",
	}
}

func TestSelection_OpenLoadsCatalog(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemorySnapshot())
	store.Load(ctx)

	sel := NewSelection(remoteFetcher(), store)
	assert.Equal(t, StateClosed, sel.State())

	require.NoError(t, sel.Open(ctx, testSubject()))
	assert.Equal(t, StateLoaded, sel.State())
	assert.Len(t, sel.Options(), 2)
}

func TestSelection_OpenFallsBack(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemorySnapshot())
	store.Load(ctx)

	sel := NewSelection(fallbackFetcher(), store)
	require.NoError(t, sel.Open(ctx, testSubject()))

	assert.Equal(t, StateFallbackLoaded, sel.State())
	require.Len(t, sel.Options(), 4)
	for i, vt := range sel.Options() {
		assert.Equal(t, i+1, vt.ID)
	}
}

func TestSelection_SingleSelect(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemorySnapshot())
	store.Load(ctx)

	sel := NewSelection(remoteFetcher(), store)
	require.NoError(t, sel.Open(ctx, testSubject()))

	require.NoError(t, sel.Select(1))
	require.NotNil(t, sel.Selected())
	assert.Equal(t, 1, sel.Selected().ID)

	// Selecting B after A leaves exactly B selected
	require.NoError(t, sel.Select(2))
	require.NotNil(t, sel.Selected())
	assert.Equal(t, 2, sel.Selected().ID)
	assert.Equal(t, StateSelected, sel.State())
}

func TestSelection_SelectUnknownOption(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemorySnapshot())
	store.Load(ctx)

	sel := NewSelection(remoteFetcher(), store)
	require.NoError(t, sel.Open(ctx, testSubject()))

	assert.Error(t, sel.Select(99))
	assert.Nil(t, sel.Selected())
}

func TestSelection_ConfirmAddsToCart(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemorySnapshot())
	store.Load(ctx)

	sel := NewSelection(remoteFetcher(), store)
	require.NoError(t, sel.Open(ctx, testSubject()))
	require.NoError(t, sel.Select(2))

	item, err := sel.Confirm(ctx)
	require.NoError(t, err)

	assert.Equal(t, 5, item.AthleteID)
	assert.Equal(t, "Anna Petrova", item.AthleteName)
	assert.Equal(t, "Spring Cup", item.EventName)
	assert.Equal(t, "Juniors", item.CategoryName)
	assert.Equal(t, 2, item.VideoTypeID)
	assert.Equal(t, "Sport version", item.VideoTypeName)
	assert.Equal(t, 1499, item.Price)
	assert.Equal(t, 1, item.Quantity)

	require.Len(t, store.Items(), 1)
	assert.Equal(t, StateClosed, sel.State())
}

func TestSelection_ConfirmWithoutSelection(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemorySnapshot())
	store.Load(ctx)

	sel := NewSelection(remoteFetcher(), store)
	require.NoError(t, sel.Open(ctx, testSubject()))

	_, err := sel.Confirm(ctx)
	assert.ErrorIs(t, err, ErrNoSelection)
	assert.Empty(t, store.Items())
}

func TestSelection_CancelHasNoSideEffects(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemorySnapshot())
	store.Load(ctx)

	sel := NewSelection(remoteFetcher(), store)
	require.NoError(t, sel.Open(ctx, testSubject()))
	require.NoError(t, sel.Select(1))

	sel.Cancel()

	assert.Equal(t, StateClosed, sel.State())
	assert.Nil(t, sel.Selected())
	assert.Empty(t, store.Items())

	// The flow can be reopened after cancelling
	require.NoError(t, sel.Open(ctx, testSubject()))
}

func TestSelection_OpenTwiceIsRejected(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemorySnapshot())
	store.Load(ctx)

	sel := NewSelection(remoteFetcher(), store)
	require.NoError(t, sel.Open(ctx, testSubject()))
	assert.Error(t, sel.Open(ctx, testSubject()))
}
