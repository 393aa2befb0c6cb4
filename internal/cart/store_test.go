package cart

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kajarral-381/jarrals-kitchen-sub000/internal/domain"
	"github.com/kajarral-381/jarrals-kitchen-sub000/internal/persist"
)

func newTestStore(t *testing.T) (*Store, *persist.MemoryStore) {
	t.Helper()
	blobs := persist.NewMemoryStore()
	return New(context.Background(), "cart:test", blobs, zap.NewNop()), blobs
}

func product(id int64, price float64) domain.Product {
	return domain.Product{ID: id, Name: "Sourdough Loaf", Price: price}
}

func TestAddItem_NewLine(t *testing.T) {
	store, _ := newTestStore(t)

	state := store.AddItem(product(1, 6.50), 2, nil)

	require.Len(t, state.ActiveItems, 1)
	assert.Equal(t, int64(1), state.ActiveItems[0].ProductID)
	assert.Equal(t, 2, state.ActiveItems[0].Quantity)
	assert.Equal(t, 2, state.TotalItemCount())
	assert.InDelta(t, 13.0, state.TotalPrice(), 1e-9)
}

func TestAddItem_MergesQuantityForSameProduct(t *testing.T) {
	store, _ := newTestStore(t)

	store.AddItem(product(1, 6.50), 1, nil)
	store.AddItem(product(1, 6.50), 3, nil)
	state := store.AddItem(product(1, 6.50), 1, nil)

	// One line per product id, quantity equal to the sum of all adds.
	require.Len(t, state.ActiveItems, 1)
	assert.Equal(t, 5, state.ActiveItems[0].Quantity)
	assert.Equal(t, 5, state.TotalItemCount())
}

func TestAddItem_FirstWriteWinsForPriceAndCustomizations(t *testing.T) {
	store, _ := newTestStore(t)

	store.AddItem(product(1, 6.50), 1, &domain.Customizations{Size: "small"})
	state := store.AddItem(product(1, 9.99), 1, &domain.Customizations{Size: "large"})

	require.Len(t, state.ActiveItems, 1)
	assert.Equal(t, 2, state.ActiveItems[0].Quantity)
	assert.InDelta(t, 6.50, state.ActiveItems[0].UnitPrice, 1e-9)
	assert.Equal(t, "small", state.ActiveItems[0].Customizations.Size)
}

func TestAddItem_DefaultsQuantityToOne(t *testing.T) {
	store, _ := newTestStore(t)

	state := store.AddItem(product(1, 6.50), 0, nil)

	require.Len(t, state.ActiveItems, 1)
	assert.Equal(t, 1, state.ActiveItems[0].Quantity)
}

func TestRemoveItem_IsLeftInverseOfSingleAdd(t *testing.T) {
	store, _ := newTestStore(t)
	store.AddItem(product(1, 6.50), 2, nil)
	baseline := store.Snapshot()

	store.AddItem(product(2, 3.75), 1, nil)
	state := store.RemoveItem(2)

	assert.Equal(t, baseline.ActiveItems, state.ActiveItems)
	assert.Equal(t, baseline.TotalItemCount(), state.TotalItemCount())
	assert.InDelta(t, baseline.TotalPrice(), state.TotalPrice(), 1e-9)
}

func TestRemoveItem_DecrementsQuantity(t *testing.T) {
	store, _ := newTestStore(t)
	store.AddItem(product(1, 6.50), 3, nil)

	state := store.RemoveItem(1)

	require.Len(t, state.ActiveItems, 1)
	assert.Equal(t, 2, state.ActiveItems[0].Quantity)
}

func TestRemoveItem_DropsLineAtZero(t *testing.T) {
	store, _ := newTestStore(t)
	store.AddItem(product(1, 6.50), 1, nil)

	state := store.RemoveItem(1)

	assert.Empty(t, state.ActiveItems)
	assert.Zero(t, state.TotalItemCount())
}

func TestRemoveItem_UnknownProductIsNoop(t *testing.T) {
	store, _ := newTestStore(t)
	store.AddItem(product(1, 6.50), 1, nil)

	state := store.RemoveItem(42)

	require.Len(t, state.ActiveItems, 1)
	assert.Equal(t, 1, state.TotalItemCount())
}

func TestUpdateQuantity_SetsExactValue(t *testing.T) {
	store, _ := newTestStore(t)
	store.AddItem(product(1, 6.50), 7, nil)

	state := store.UpdateQuantity(1, 3)

	require.Len(t, state.ActiveItems, 1)
	assert.Equal(t, 3, state.ActiveItems[0].Quantity)
}

func TestUpdateQuantity_ZeroRemovesLine(t *testing.T) {
	store, _ := newTestStore(t)
	store.AddItem(product(1, 6.50), 2, nil)

	state := store.UpdateQuantity(1, 0)

	assert.Empty(t, state.ActiveItems)
}

func TestUpdateQuantity_UnknownProductIsNoop(t *testing.T) {
	store, _ := newTestStore(t)

	state := store.UpdateQuantity(42, 5)

	assert.Empty(t, state.ActiveItems)
}

func TestSaveForLater_MovesLineIntact(t *testing.T) {
	store, _ := newTestStore(t)
	store.AddItem(product(1, 6.50), 2, &domain.Customizations{Notes: "sliced"})

	state := store.SaveForLater(1)

	assert.Empty(t, state.ActiveItems)
	require.Len(t, state.SavedItems, 1)
	assert.Equal(t, 2, state.SavedItems[0].Quantity)
	assert.Equal(t, "sliced", state.SavedItems[0].Customizations.Notes)
	assert.Zero(t, state.TotalItemCount())
	assert.Zero(t, state.TotalPrice())
}

func TestSaveForLater_ThenMoveToCartRestoresLine(t *testing.T) {
	store, _ := newTestStore(t)
	store.AddItem(product(1, 6.50), 2, &domain.Customizations{Size: "large"})
	before := store.Snapshot()

	store.SaveForLater(1)
	state := store.MoveToCart(1)

	assert.Equal(t, before.ActiveItems, state.ActiveItems)
	assert.Empty(t, state.SavedItems)
}

func TestMoveToCart_MergesWithExistingActiveLine(t *testing.T) {
	store, _ := newTestStore(t)
	store.AddItem(product(1, 6.50), 2, nil)
	store.SaveForLater(1)
	store.AddItem(product(1, 6.50), 1, nil)

	state := store.MoveToCart(1)

	require.Len(t, state.ActiveItems, 1)
	assert.Equal(t, 3, state.ActiveItems[0].Quantity)
	assert.Empty(t, state.SavedItems)
}

func TestActiveAndSavedStayDisjoint(t *testing.T) {
	store, _ := newTestStore(t)
	store.AddItem(product(1, 6.50), 2, nil)
	store.AddItem(product(2, 3.75), 1, nil)

	ops := []func() domain.Cart{
		func() domain.Cart { return store.SaveForLater(1) },
		func() domain.Cart { return store.AddItem(product(1, 6.50), 1, nil) },
		func() domain.Cart { return store.SaveForLater(1) },
		func() domain.Cart { return store.MoveToCart(1) },
		func() domain.Cart { return store.SaveForLater(2) },
		func() domain.Cart { return store.MoveToCart(2) },
	}
	for _, op := range ops {
		state := op()
		for _, saved := range state.SavedItems {
			for _, active := range state.ActiveItems {
				assert.NotEqual(t, active.ProductID, saved.ProductID)
			}
		}
	}
}

func TestRemoveSavedItem_LeavesActiveAlone(t *testing.T) {
	store, _ := newTestStore(t)
	store.AddItem(product(1, 6.50), 1, nil)
	store.AddItem(product(2, 3.75), 1, nil)
	store.SaveForLater(2)

	state := store.RemoveSavedItem(2)

	assert.Empty(t, state.SavedItems)
	require.Len(t, state.ActiveItems, 1)
	assert.Equal(t, int64(1), state.ActiveItems[0].ProductID)
}

func TestClear_PreservesSavedItems(t *testing.T) {
	store, _ := newTestStore(t)
	store.AddItem(product(1, 6.50), 2, nil)
	store.AddItem(product(2, 3.75), 1, nil)
	store.SaveForLater(2)

	state := store.Clear()

	assert.Empty(t, state.ActiveItems)
	assert.Zero(t, state.TotalItemCount())
	assert.Zero(t, state.TotalPrice())
	require.Len(t, state.SavedItems, 1)
	assert.Equal(t, int64(2), state.SavedItems[0].ProductID)
}

func TestToggleVisibility_DoesNotTouchItems(t *testing.T) {
	store, _ := newTestStore(t)
	store.AddItem(product(1, 6.50), 2, nil)

	state := store.ToggleVisibility()
	assert.True(t, state.IsOpen)
	assert.Equal(t, 2, state.TotalItemCount())

	state = store.ToggleVisibility()
	assert.False(t, state.IsOpen)
}

func TestMutationsPersistFullState(t *testing.T) {
	store, blobs := newTestStore(t)
	store.AddItem(product(1, 6.50), 2, nil)
	store.SaveForLater(1)

	blob, err := blobs.Get(context.Background(), "cart:test")
	require.NoError(t, err)

	var persisted domain.Cart
	require.NoError(t, json.Unmarshal(blob, &persisted))
	assert.Empty(t, persisted.ActiveItems)
	require.Len(t, persisted.SavedItems, 1)
	assert.Equal(t, int64(1), persisted.SavedItems[0].ProductID)
}

func TestNew_RehydratesFromPersistedBlob(t *testing.T) {
	blobs := persist.NewMemoryStore()
	first := New(context.Background(), "cart:test", blobs, zap.NewNop())
	first.AddItem(product(1, 6.50), 2, nil)
	first.ToggleVisibility()

	second := New(context.Background(), "cart:test", blobs, zap.NewNop())
	state := second.Snapshot()

	require.Len(t, state.ActiveItems, 1)
	assert.Equal(t, 2, state.ActiveItems[0].Quantity)
	assert.True(t, state.IsOpen)
}

func TestNew_MergesDriftedBlobOverDefaults(t *testing.T) {
	blobs := persist.NewMemoryStore()
	// A blob from an older schema: no saved_items or is_open fields, one
	// line with a bad quantity.
	legacy := `{"active_items":[{"product_id":1,"name":"Sourdough Loaf","unit_price":6.5,"quantity":2},{"product_id":2,"quantity":0}]}`
	require.NoError(t, blobs.Set(context.Background(), "cart:test", []byte(legacy)))

	store := New(context.Background(), "cart:test", blobs, zap.NewNop())
	state := store.Snapshot()

	require.Len(t, state.ActiveItems, 1)
	assert.Equal(t, int64(1), state.ActiveItems[0].ProductID)
	assert.Empty(t, state.SavedItems)
	assert.False(t, state.IsOpen)
}

func TestNew_CorruptBlobStartsEmpty(t *testing.T) {
	blobs := persist.NewMemoryStore()
	require.NoError(t, blobs.Set(context.Background(), "cart:test", []byte("not json")))

	store := New(context.Background(), "cart:test", blobs, zap.NewNop())

	assert.Empty(t, store.Snapshot().ActiveItems)
}

func TestNew_DuplicateAcrossCollectionsKeepsActive(t *testing.T) {
	blobs := persist.NewMemoryStore()
	blob := `{"active_items":[{"product_id":1,"quantity":2}],"saved_items":[{"product_id":1,"quantity":1},{"product_id":2,"quantity":1}]}`
	require.NoError(t, blobs.Set(context.Background(), "cart:test", []byte(blob)))

	store := New(context.Background(), "cart:test", blobs, zap.NewNop())
	state := store.Snapshot()

	require.Len(t, state.ActiveItems, 1)
	assert.Equal(t, 2, state.ActiveItems[0].Quantity)
	require.Len(t, state.SavedItems, 1)
	assert.Equal(t, int64(2), state.SavedItems[0].ProductID)
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, error) { return nil, persist.ErrNotFound }
func (failingStore) Set(context.Context, string, []byte) error {
	return assert.AnError
}
func (failingStore) Delete(context.Context, string) error { return nil }

func TestPersistFailureDoesNotRollBackState(t *testing.T) {
	store := New(context.Background(), "cart:test", failingStore{}, zap.NewNop())

	state := store.AddItem(product(1, 6.50), 2, nil)

	require.Len(t, state.ActiveItems, 1)
	assert.Equal(t, 2, state.TotalItemCount())
}

func TestEndToEnd_AddSaveRestore(t *testing.T) {
	store, _ := newTestStore(t)

	store.AddItem(product(1, 100), 1, nil)
	state := store.AddItem(product(1, 100), 1, nil)
	assert.Equal(t, 2, state.TotalItemCount())
	assert.InDelta(t, 200, state.TotalPrice(), 1e-9)

	state = store.SaveForLater(1)
	assert.Empty(t, state.ActiveItems)
	require.Len(t, state.SavedItems, 1)
	assert.Equal(t, 2, state.SavedItems[0].Quantity)

	state = store.MoveToCart(1)
	require.Len(t, state.ActiveItems, 1)
	assert.Equal(t, 2, state.ActiveItems[0].Quantity)
	assert.Empty(t, state.SavedItems)
}
