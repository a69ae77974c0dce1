package cart

import (
	"sync"
	"testing"

	"giftyy-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roses(qty int) models.CartItem {
	return models.CartItem{ID: "roses", Name: "Dozen Roses", Price: "$39.99", Quantity: qty}
}

func TestAddItem_MergesByID(t *testing.T) {
	s := NewStore()
	s.AddItem(roses(1))
	s.AddItem(roses(2))

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, 3, s.TotalQuantity())
}

func TestAddItem_NonPositiveQuantityCountsAsOne(t *testing.T) {
	s := NewStore()
	s.AddItem(roses(0))
	s.AddItem(roses(-4))

	assert.Equal(t, 2, s.TotalQuantity())
}

func TestUpdateQuantity(t *testing.T) {
	s := NewStore()
	s.AddItem(roses(1))

	require.NoError(t, s.UpdateQuantity("roses", 5))
	assert.Equal(t, 5, s.TotalQuantity())

	require.NoError(t, s.UpdateQuantity("roses", 0))
	assert.True(t, s.IsEmpty())

	assert.ErrorIs(t, s.UpdateQuantity("roses", 1), ErrItemNotFound)
}

func TestUpdateQuantity_NegativeRemoves(t *testing.T) {
	s := NewStore()
	s.AddItem(roses(3))
	require.NoError(t, s.UpdateQuantity("roses", -1))
	assert.Empty(t, s.Items())
}

func TestRemoveItem(t *testing.T) {
	s := NewStore()
	s.AddItem(roses(1))
	s.AddItem(models.CartItem{ID: "mug", Name: "Mug", Price: "$12.00", Quantity: 2})

	require.NoError(t, s.RemoveItem("roses"))
	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "mug", items[0].ID)

	assert.ErrorIs(t, s.RemoveItem("roses"), ErrItemNotFound)
}

func TestTotalQuantity_AfterMixedOperations(t *testing.T) {
	s := NewStore()
	s.AddItem(roses(2))
	s.AddItem(models.CartItem{ID: "mug", Price: "$12.00", Quantity: 1})
	s.AddItem(models.CartItem{ID: "card", Price: "$3.00", Quantity: 4})
	require.NoError(t, s.UpdateQuantity("mug", 7))
	require.NoError(t, s.RemoveItem("card"))
	s.AddItem(roses(1))

	sum := 0
	for _, item := range s.Items() {
		sum += item.Quantity
	}
	assert.Equal(t, sum, s.TotalQuantity())
	assert.Equal(t, 10, s.TotalQuantity())
}

func TestItems_ReturnsCopy(t *testing.T) {
	s := NewStore()
	s.AddItem(roses(1))

	items := s.Items()
	items[0].Quantity = 100

	assert.Equal(t, 1, s.TotalQuantity())
}

func TestSubtotal(t *testing.T) {
	s := NewStore()
	s.AddItem(roses(2))
	s.AddItem(models.CartItem{ID: "mug", Price: "$12.00", Quantity: 1})
	s.AddItem(models.CartItem{ID: "bad", Price: "n/a", Quantity: 3})

	assert.InDelta(t, 91.98, s.Subtotal(), 1e-9)
}

func TestClear(t *testing.T) {
	s := NewStore()
	s.AddItem(roses(2))
	s.Clear()
	assert.True(t, s.IsEmpty())
	assert.Equal(t, 0, s.TotalQuantity())
}

func TestBadgeLabel_DisplayOnlyCap(t *testing.T) {
	s := NewStore()
	s.AddItem(roses(150))

	assert.Equal(t, 150, s.TotalQuantity())
	assert.Equal(t, "99+", BadgeLabel(s.TotalQuantity()))
	assert.Equal(t, "99", BadgeLabel(99))
	assert.Equal(t, "0", BadgeLabel(0))
}

func TestStore_ConcurrentAdds(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.AddItem(roses(1))
		}()
	}
	wg.Wait()

	require.Len(t, s.Items(), 1)
	assert.Equal(t, 50, s.TotalQuantity())
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	a := r.Get("session-a")
	a.AddItem(roses(1))

	assert.Same(t, a, r.Get("session-a"))
	assert.True(t, r.Get("session-b").IsEmpty())
	assert.Equal(t, 2, r.Len())

	r.Drop("session-a")
	assert.True(t, r.Get("session-a").IsEmpty())
}
