package shopping

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/cesta/internal/model"
)

func TestAddItemBestPriceScenario(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.AddItem(alice, AddItemRequest{ListID: f.list.ID, ProductID: f.milk.ID, Strategy: StrategyBest})
	require.NoError(t, err)
	require.NotNil(t, res.Item)
	assert.Nil(t, res.Selection)

	assert.Equal(t, f.milk.ID, res.Item.ProductID)
	assert.Equal(t, f.storeB.ID, res.Item.StoreID)
	assert.Equal(t, 1, res.Item.Quantity)
	assert.Equal(t, model.StatusPending, res.Item.Status)
	assert.True(t, res.Item.PriceSnapshot.Equal(dec("0.95")))

	// Adding again at B merges and keeps the snapshot.
	res, err = f.svc.AddItem(alice, AddItemRequest{ListID: f.list.ID, ProductID: f.milk.ID, StoreID: f.storeB.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Item.Quantity)
	assert.True(t, res.Item.PriceSnapshot.Equal(dec("0.95")))
	require.Len(t, f.items(t), 1)

	// Setting the quantity to zero removes it.
	l, err := f.svc.SetQuantity(alice, f.list.ID, f.milk.ID, f.storeB.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, l.Items)
}

func TestAddItemWithStore(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.AddItem(alice, AddItemRequest{ListID: f.list.ID, ProductID: f.milk.ID, StoreID: f.storeA.ID})
	require.NoError(t, err)
	assert.Equal(t, f.storeA.ID, res.Item.StoreID)
	assert.True(t, res.Item.PriceSnapshot.Equal(dec("1.10")))
}

func TestAddItemUsesCurrentStorePrice(t *testing.T) {
	f := newFixture(t)
	later := f.clock.AddDate(0, 0, 1)
	_, err := f.svc.AddPrice(PriceInput{ProductID: f.milk.ID, StoreID: f.storeA.ID, Price: dec("1.25"), Date: &later})
	require.NoError(t, err)

	res, err := f.svc.AddItem(alice, AddItemRequest{ListID: f.list.ID, ProductID: f.milk.ID, StoreID: f.storeA.ID})
	require.NoError(t, err)
	assert.True(t, res.Item.PriceSnapshot.Equal(dec("1.25")))
}

func TestAddItemNoPriceForStore(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AddItem(alice, AddItemRequest{ListID: f.list.ID, ProductID: f.bread.ID, StoreID: f.storeB.ID})
	require.ErrorIs(t, err, ErrNoPriceForStore)
	assert.Empty(t, f.items(t))
}

func TestAddItemNoPriceRecords(t *testing.T) {
	f := newFixture(t)
	eggs, err := f.svc.CreateProduct(ProductInput{Name: "Huevos", CategoryID: f.dairy.ID})
	require.NoError(t, err)

	_, err = f.svc.AddItem(alice, AddItemRequest{ListID: f.list.ID, ProductID: eggs.ID})
	require.ErrorIs(t, err, ErrNoPriceRecords)
	assert.Empty(t, f.items(t))
}

func TestAddItemSingleStoreAutoSelects(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.AddItem(alice, AddItemRequest{ListID: f.list.ID, ProductID: f.bread.ID})
	require.NoError(t, err)
	require.NotNil(t, res.Item)
	assert.Equal(t, f.storeA.ID, res.Item.StoreID)
	assert.True(t, res.Item.PriceSnapshot.Equal(dec("2.50")))
}

func TestAddItemSingleStoreWithHistoryAutoSelects(t *testing.T) {
	f := newFixture(t)
	f.price(t, f.bread.ID, f.storeA.ID, "2.40")

	res, err := f.svc.AddItem(alice, AddItemRequest{ListID: f.list.ID, ProductID: f.bread.ID})
	require.NoError(t, err)
	require.NotNil(t, res.Item)
	assert.True(t, res.Item.PriceSnapshot.Equal(dec("2.40")))
}

func TestAddItemSuspendsForSelection(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.AddItem(alice, AddItemRequest{ListID: f.list.ID, ProductID: f.milk.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Nil(t, res.Item)
	require.NotNil(t, res.Selection)
	assert.Empty(t, f.items(t), "a pending selection writes nothing")

	sel := res.Selection
	require.Len(t, sel.Options, 2)
	assert.Equal(t, f.storeB.ID, sel.Options[0].StoreID)
	assert.Equal(t, f.storeA.ID, sel.Options[1].StoreID)
	assert.Equal(t, 2, sel.Quantity)

	item, err := f.svc.CompleteSelection(alice, *sel, f.storeA.ID)
	require.NoError(t, err)
	assert.Equal(t, f.storeA.ID, item.StoreID)
	assert.Equal(t, 2, item.Quantity)
	assert.True(t, item.PriceSnapshot.Equal(dec("1.10")))
}

func TestCompleteSelectionRejectsUnofferedStore(t *testing.T) {
	f := newFixture(t)
	res, err := f.svc.AddItem(alice, AddItemRequest{ListID: f.list.ID, ProductID: f.milk.ID})
	require.NoError(t, err)

	_, err = f.svc.CompleteSelection(alice, *res.Selection, "store_elsewhere")
	require.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, f.items(t))
}

func TestAddItemValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AddItem(alice, AddItemRequest{ListID: f.list.ID, ProductID: f.milk.ID, Quantity: -1})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.AddItem(alice, AddItemRequest{ListID: f.list.ID, ProductID: "prod_missing"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.AddItem(alice, AddItemRequest{ListID: "list_missing", ProductID: f.milk.ID})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.AddItem(alice, AddItemRequest{ListID: f.list.ID, ProductID: f.milk.ID, Strategy: "cheapest"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestMergeInvariant(t *testing.T) {
	f := newFixture(t)

	reqs := []AddItemRequest{
		{ProductID: f.milk.ID, StoreID: f.storeA.ID},
		{ProductID: f.milk.ID, StoreID: f.storeB.ID, Quantity: 3},
		{ProductID: f.milk.ID, Strategy: StrategyBest},
		{ProductID: f.bread.ID},
		{ProductID: f.milk.ID, StoreID: f.storeA.ID, Quantity: 2},
		{ProductID: f.bread.ID, StoreID: f.storeA.ID},
	}
	for _, req := range reqs {
		req.ListID = f.list.ID
		_, err := f.svc.AddItem(alice, req)
		require.NoError(t, err)
	}

	seen := make(map[[2]string]int)
	for _, item := range f.items(t) {
		seen[[2]string{item.ProductID, item.StoreID}]++
	}
	for key, n := range seen {
		assert.Equal(t, 1, n, "duplicate item for %v", key)
	}
	assert.Len(t, seen, 3)

	qty := make(map[[2]string]int)
	for _, item := range f.items(t) {
		qty[[2]string{item.ProductID, item.StoreID}] = item.Quantity
	}
	assert.Equal(t, 3, qty[[2]string{f.milk.ID, f.storeA.ID}])
	assert.Equal(t, 4, qty[[2]string{f.milk.ID, f.storeB.ID}])
	assert.Equal(t, 2, qty[[2]string{f.bread.ID, f.storeA.ID}])
}

func TestMergeKeepsPickedStatus(t *testing.T) {
	f := newFixture(t)
	res, err := f.svc.AddItem(alice, AddItemRequest{ListID: f.list.ID, ProductID: f.bread.ID})
	require.NoError(t, err)
	_, err = f.svc.SetItemStatus(alice, f.list.ID, res.Item.ID, model.StatusPicked)
	require.NoError(t, err)

	res, err = f.svc.AddItem(alice, AddItemRequest{ListID: f.list.ID, ProductID: f.bread.ID})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPicked, res.Item.Status)
	assert.Equal(t, 2, res.Item.Quantity)
}

func TestSnapshotStability(t *testing.T) {
	f := newFixture(t)
	res, err := f.svc.AddItem(alice, AddItemRequest{ListID: f.list.ID, ProductID: f.bread.ID})
	require.NoError(t, err)

	records, err := f.svc.PricesFor(f.bread.ID)
	require.NoError(t, err)
	_, err = f.svc.UpdatePrice(records[0].ID, PriceInput{Price: dec("3.99")})
	require.NoError(t, err)

	items := f.items(t)
	require.Len(t, items, 1)
	assert.Equal(t, res.Item.ID, items[0].ID)
	assert.True(t, items[0].PriceSnapshot.Equal(dec("2.50")))
}

func TestDecrementItem(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.AddItem(alice, AddItemRequest{ListID: f.list.ID, ProductID: f.milk.ID, StoreID: f.storeA.ID, Quantity: 2})
	require.NoError(t, err)

	l, err := f.svc.DecrementItem(alice, f.list.ID, f.milk.ID, "")
	require.NoError(t, err)
	require.Len(t, l.Items, 1)
	assert.Equal(t, 1, l.Items[0].Quantity)

	l, err = f.svc.DecrementItem(alice, f.list.ID, f.milk.ID, f.storeA.ID)
	require.NoError(t, err)
	assert.Empty(t, l.Items)

	// Nothing left: no-op, no error.
	l, err = f.svc.DecrementItem(alice, f.list.ID, f.milk.ID, "")
	require.NoError(t, err)
	assert.Empty(t, l.Items)
}

func TestDecrementItemRespectsStore(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.AddItem(alice, AddItemRequest{ListID: f.list.ID, ProductID: f.milk.ID, StoreID: f.storeA.ID})
	require.NoError(t, err)
	_, err = f.svc.AddItem(alice, AddItemRequest{ListID: f.list.ID, ProductID: f.milk.ID, StoreID: f.storeB.ID})
	require.NoError(t, err)

	l, err := f.svc.DecrementItem(alice, f.list.ID, f.milk.ID, f.storeB.ID)
	require.NoError(t, err)
	require.Len(t, l.Items, 1)
	assert.Equal(t, f.storeA.ID, l.Items[0].StoreID)
}

func TestSetQuantity(t *testing.T) {
	f := newFixture(t)

	// Creates the item at the store's current price.
	l, err := f.svc.SetQuantity(alice, f.list.ID, f.milk.ID, f.storeA.ID, 4)
	require.NoError(t, err)
	require.Len(t, l.Items, 1)
	assert.Equal(t, 4, l.Items[0].Quantity)
	assert.True(t, l.Items[0].PriceSnapshot.Equal(dec("1.10")))

	l, err = f.svc.SetQuantity(alice, f.list.ID, f.milk.ID, f.storeA.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, l.Items[0].Quantity)

	// Negative clamps to zero, which removes.
	l, err = f.svc.SetQuantity(alice, f.list.ID, f.milk.ID, f.storeA.ID, -5)
	require.NoError(t, err)
	assert.Empty(t, l.Items)

	// No price at that store: silently nothing.
	l, err = f.svc.SetQuantity(alice, f.list.ID, f.bread.ID, f.storeB.ID, 3)
	require.NoError(t, err)
	assert.Empty(t, l.Items)

	_, err = f.svc.SetQuantity(alice, f.list.ID, f.bread.ID, "", 3)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestQuantityNeverNegative(t *testing.T) {
	f := newFixture(t)
	for _, q := range []int{3, -1, 0, 2, -10, 1} {
		_, err := f.svc.SetQuantity(alice, f.list.ID, f.milk.ID, f.storeB.ID, q)
		require.NoError(t, err)
		for _, item := range f.items(t) {
			assert.Positive(t, item.Quantity)
		}
	}
}

func TestSetQuantityAllAndRemoveProduct(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.AddItem(alice, AddItemRequest{ListID: f.list.ID, ProductID: f.milk.ID, StoreID: f.storeA.ID})
	require.NoError(t, err)
	_, err = f.svc.AddItem(alice, AddItemRequest{ListID: f.list.ID, ProductID: f.milk.ID, StoreID: f.storeB.ID})
	require.NoError(t, err)
	_, err = f.svc.AddItem(alice, AddItemRequest{ListID: f.list.ID, ProductID: f.bread.ID})
	require.NoError(t, err)

	l, err := f.svc.SetQuantityAll(alice, f.list.ID, f.milk.ID, "", 5)
	require.NoError(t, err)
	for _, item := range l.Items {
		if item.ProductID == f.milk.ID {
			assert.Equal(t, 5, item.Quantity)
		} else {
			assert.Equal(t, 1, item.Quantity)
		}
	}

	_, err = f.svc.SetQuantityAll(alice, f.list.ID, f.milk.ID, "", 0)
	assert.ErrorIs(t, err, ErrValidation)

	l, err = f.svc.RemoveProduct(alice, f.list.ID, f.milk.ID, f.storeA.ID)
	require.NoError(t, err)
	assert.Len(t, l.Items, 2)

	l, err = f.svc.RemoveProduct(alice, f.list.ID, f.milk.ID, "")
	require.NoError(t, err)
	require.Len(t, l.Items, 1)
	assert.Equal(t, f.bread.ID, l.Items[0].ProductID)
}

func TestDeleteItem(t *testing.T) {
	f := newFixture(t)
	res, err := f.svc.AddItem(alice, AddItemRequest{ListID: f.list.ID, ProductID: f.bread.ID, Quantity: 3})
	require.NoError(t, err)

	l, err := f.svc.DeleteItem(alice, f.list.ID, res.Item.ID)
	require.NoError(t, err)
	assert.Empty(t, l.Items)

	_, err = f.svc.DeleteItem(alice, f.list.ID, res.Item.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClearAndRenameList(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.AddItem(alice, AddItemRequest{ListID: f.list.ID, ProductID: f.bread.ID})
	require.NoError(t, err)

	l, err := f.svc.ClearList(alice, f.list.ID)
	require.NoError(t, err)
	assert.Empty(t, l.Items)

	l, err = f.svc.RenameList(alice, f.list.ID, "  Fiesta  ")
	require.NoError(t, err)
	assert.Equal(t, "Fiesta", l.Name)

	_, err = f.svc.RenameList(alice, f.list.ID, " ")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestListsForUser(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreateList(bob, "Bob's")
	require.NoError(t, err)

	assert.Len(t, f.svc.Lists(alice), 1)
	assert.Len(t, f.svc.Lists(bob), 1)
	assert.Empty(t, f.svc.Lists(carol))

	_, err = f.svc.CreateList(alice, "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPickStampsActorAndTime(t *testing.T) {
	f := newFixture(t)
	res, err := f.svc.AddItem(alice, AddItemRequest{ListID: f.list.ID, ProductID: f.bread.ID})
	require.NoError(t, err)

	item, err := f.svc.SetItemStatus(alice, f.list.ID, res.Item.ID, model.StatusPicked)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPicked, item.Status)
	assert.Equal(t, alice, item.PickedBy)
	require.NotNil(t, item.PickedAt)
	assert.True(t, item.PickedAt.Equal(f.clock))
}

func TestStatusRoundTrip(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.AddMember(alice, f.list.ID, bob, model.RoleEditor)
	require.NoError(t, err)
	res, err := f.svc.AddItem(alice, AddItemRequest{ListID: f.list.ID, ProductID: f.bread.ID})
	require.NoError(t, err)
	id := res.Item.ID

	_, err = f.svc.SetItemStatus(alice, f.list.ID, id, model.StatusPicked)
	require.NoError(t, err)

	// Setting picked again while picked does not restamp.
	f.clock = f.clock.Add(time.Minute)
	item, err := f.svc.SetItemStatus(bob, f.list.ID, id, model.StatusPicked)
	require.NoError(t, err)
	assert.Equal(t, alice, item.PickedBy)

	// Leaving picked always lands on pending, whatever was asked for.
	item, err = f.svc.SetItemStatus(alice, f.list.ID, id, model.StatusSkipped)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, item.Status)
	assert.Empty(t, item.PickedBy)
	assert.Nil(t, item.PickedAt)
}

func TestPickingSkippedItemStampsPicker(t *testing.T) {
	f := newFixture(t)
	res, err := f.svc.AddItem(alice, AddItemRequest{ListID: f.list.ID, ProductID: f.bread.ID})
	require.NoError(t, err)
	id := res.Item.ID

	item, err := f.svc.SetItemStatus(alice, f.list.ID, id, model.StatusSkipped)
	require.NoError(t, err)
	require.Equal(t, model.StatusSkipped, item.Status)

	item, err = f.svc.ToggleItem(alice, f.list.ID, id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPicked, item.Status)
	assert.Equal(t, alice, item.PickedBy)
	require.NotNil(t, item.PickedAt)
	assert.True(t, item.PickedAt.Equal(f.clock))

	_, err = f.svc.SetItemStatus(alice, f.list.ID, id, model.StatusSkipped)
	require.NoError(t, err)
	item, err = f.svc.SetItemStatus(alice, f.list.ID, id, model.StatusPicked)
	require.NoError(t, err)
	assert.Equal(t, alice, item.PickedBy)
	require.NotNil(t, item.PickedAt)
}

func TestRepickRecordsLatestPicker(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.AddMember(alice, f.list.ID, bob, model.RoleEditor)
	require.NoError(t, err)
	res, err := f.svc.AddItem(alice, AddItemRequest{ListID: f.list.ID, ProductID: f.bread.ID})
	require.NoError(t, err)
	id := res.Item.ID

	_, err = f.svc.ToggleItem(alice, f.list.ID, id)
	require.NoError(t, err)
	item, err := f.svc.ToggleItem(alice, f.list.ID, id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, item.Status)

	f.clock = f.clock.Add(time.Hour)
	item, err = f.svc.ToggleItem(bob, f.list.ID, id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPicked, item.Status)
	assert.Equal(t, bob, item.PickedBy)
	assert.True(t, item.PickedAt.Equal(f.clock))
}

func TestSetItemStatusErrors(t *testing.T) {
	f := newFixture(t)
	res, err := f.svc.AddItem(alice, AddItemRequest{ListID: f.list.ID, ProductID: f.bread.ID})
	require.NoError(t, err)

	_, err = f.svc.SetItemStatus(alice, f.list.ID, res.Item.ID, "lost")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.SetItemStatus(alice, f.list.ID, "item_missing", model.StatusPicked)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNonMemberCannotSeeList(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.List(bob, f.list.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.AddItem(bob, AddItemRequest{ListID: f.list.ID, ProductID: f.bread.ID})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestViewerIsReadOnly(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.AddMember(alice, f.list.ID, bob, model.RoleViewer)
	require.NoError(t, err)
	res, err := f.svc.AddItem(alice, AddItemRequest{ListID: f.list.ID, ProductID: f.bread.ID})
	require.NoError(t, err)

	_, err = f.svc.List(bob, f.list.ID)
	require.NoError(t, err)

	_, err = f.svc.AddItem(bob, AddItemRequest{ListID: f.list.ID, ProductID: f.bread.ID})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.svc.ToggleItem(bob, f.list.ID, res.Item.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.svc.ClearList(bob, f.list.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	assert.Len(t, f.items(t), 1)
}
