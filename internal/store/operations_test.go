package store_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmacie/m/domain"
	"pharmacie/m/internal/storage"
	"pharmacie/m/internal/store"
)

func TestAddProduct_AssignsFreshIDs(t *testing.T) {
	ctx := context.Background()
	s, err := store.New(ctx, storage.NewMemory(), store.WithDefaultProducts([]domain.Product{productA}))
	require.NoError(t, err)

	seen := map[string]bool{productA.ID: true}
	for i := 0; i < 20; i++ {
		p, err := s.AddProduct(ctx, domain.ProductInput{Name: "Crème", Price: 100, Category: domain.CategoryCosmetic})
		require.NoError(t, err)
		assert.NotEmpty(t, p.ID)
		assert.False(t, seen[p.ID], "id %s reused", p.ID)
		seen[p.ID] = true

		got, ok := s.Product(p.ID)
		require.True(t, ok)
		assert.Equal(t, p, got)
		assert.False(t, got.CreatedAt.IsZero())
	}
	assert.Len(t, s.Products(), 21)
}

func TestUpdateProduct(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, storage.NewMemory())

	name := "Vitamine C 1000"
	price := 650.0
	found, err := s.UpdateProduct(ctx, productA.ID, domain.ProductPatch{Name: &name, Price: &price})
	require.NoError(t, err)
	assert.True(t, found)

	got, _ := s.Product(productA.ID)
	assert.Equal(t, name, got.Name)
	assert.Equal(t, price, got.Price)
	assert.Equal(t, productA.Category, got.Category)
	assert.Equal(t, productA.CreatedAt, got.CreatedAt)

	found, err = s.UpdateProduct(ctx, "missing", domain.ProductPatch{Name: &name})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDeleteProduct_UnknownIDIsNoOp(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, storage.NewMemory())
	before := s.Products()

	found, err := s.DeleteProduct(ctx, "nope")

	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, before, s.Products())
}

func TestDeleteProduct_KeepsOrderSnapshots(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, storage.NewMemory())
	require.NoError(t, s.AddToCart(ctx, productA))
	order, err := s.AddOrder(ctx, domain.OrderInput{Items: s.Cart(), Subtotal: 500, Total: 500})
	require.NoError(t, err)

	found, err := s.DeleteProduct(ctx, productA.ID)
	require.NoError(t, err)
	assert.True(t, found)

	got, ok := s.Order(order.ID)
	require.True(t, ok)
	assert.Equal(t, productA, got.Items[0].Product)
}

func TestFilterProducts(t *testing.T) {
	s := newStore(t, storage.NewMemory())

	assert.Len(t, s.FilterProducts("", ""), 2)
	assert.Equal(t, []domain.Product{productA}, s.FilterProducts(domain.CategoryVitamin, ""))
	assert.Equal(t, []domain.Product{productB}, s.FilterProducts("", "TENSIO"))
	assert.Empty(t, s.FilterProducts(domain.CategoryVitamin, "tensio"))
	assert.Empty(t, s.FilterProducts(domain.CategoryCosmetic, ""))
}

func TestAddToCart_SameProductTwice(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, storage.NewMemory())

	require.NoError(t, s.AddToCart(ctx, productA))
	require.NoError(t, s.AddToCart(ctx, productA))

	cart := s.Cart()
	require.Len(t, cart, 1)
	assert.Equal(t, productA.ID, cart[0].Product.ID)
	assert.Equal(t, 2, cart[0].Quantity)
}

func TestAddToCart_KeepsFirstAddedOrder(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, storage.NewMemory())

	require.NoError(t, s.AddToCart(ctx, productB))
	require.NoError(t, s.AddToCart(ctx, productA))
	require.NoError(t, s.AddToCart(ctx, productB))

	cart := s.Cart()
	require.Len(t, cart, 2)
	assert.Equal(t, productB.ID, cart[0].Product.ID)
	assert.Equal(t, 2, cart[0].Quantity)
	assert.Equal(t, productA.ID, cart[1].Product.ID)
}

func TestUpdateCartQuantity(t *testing.T) {
	tests := []struct {
		name      string
		quantity  int
		wantFound bool
		wantCart  []domain.CartItem
	}{
		{name: "set", quantity: 5, wantFound: true, wantCart: []domain.CartItem{{Product: productA, Quantity: 5}}},
		{name: "zero removes", quantity: 0, wantFound: true, wantCart: []domain.CartItem{}},
		{name: "negative removes", quantity: -1, wantFound: true, wantCart: []domain.CartItem{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(t, storage.NewMemory())
			require.NoError(t, s.AddToCart(ctx, productA))

			found, err := s.UpdateCartQuantity(ctx, productA.ID, tt.quantity)

			require.NoError(t, err)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.wantCart, s.Cart())
		})
	}
}

func TestUpdateCartQuantity_AbsentEntry(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, storage.NewMemory())

	found, err := s.UpdateCartQuantity(ctx, productA.ID, 3)

	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, s.Cart())
}

func TestRemoveFromCart(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, storage.NewMemory())
	require.NoError(t, s.AddToCart(ctx, productA))
	require.NoError(t, s.AddToCart(ctx, productB))

	found, err := s.RemoveFromCart(ctx, productA.ID)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = s.RemoveFromCart(ctx, productA.ID)
	require.NoError(t, err)
	assert.False(t, found)

	assert.Equal(t, []domain.CartItem{{Product: productB, Quantity: 1}}, s.Cart())
}

func TestCartTotal(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, storage.NewMemory())
	assert.Equal(t, 0.0, s.CartTotal())

	require.NoError(t, s.AddToCart(ctx, productA))
	require.NoError(t, s.AddToCart(ctx, productA))
	require.NoError(t, s.AddToCart(ctx, productB))
	assert.Equal(t, 2000.0, s.CartTotal())

	require.NoError(t, s.ClearCart(ctx))
	assert.Equal(t, 0.0, s.CartTotal())
}

func TestCheckoutScenario(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, storage.NewMemory())
	require.NoError(t, s.AddToCart(ctx, productA))
	require.NoError(t, s.AddToCart(ctx, productA))
	require.NoError(t, s.AddToCart(ctx, productB))
	require.Equal(t, 2000.0, s.CartTotal())

	subtotal := s.CartTotal()
	order, err := s.AddOrder(ctx, domain.OrderInput{
		FullName:       "Yacine H.",
		Phone:          "0770000000",
		Region:         "Alger",
		SubRegion:      "Bab Ezzouar",
		DeliveryMethod: domain.DeliveryHome,
		Items:          s.Cart(),
		Subtotal:       subtotal,
		DeliveryFee:    400,
		Total:          subtotal + 400,
	})
	require.NoError(t, err)

	assert.Equal(t, 2400.0, order.Total)
	assert.Equal(t, domain.StatusPending, order.Status)
	assert.Equal(t, fixedNow, order.CreatedAt)
	assert.Len(t, order.Items, 2)
	assert.Empty(t, s.Cart())
	assert.Equal(t, []domain.Order{order}, s.Orders())
}

func TestAddOrder_AlwaysClearsCart(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, storage.NewMemory())

	_, err := s.AddOrder(ctx, domain.OrderInput{FullName: "empty cart"})
	require.NoError(t, err)
	assert.Empty(t, s.Cart())

	require.NoError(t, s.AddToCart(ctx, productB))
	_, err = s.AddOrder(ctx, domain.OrderInput{FullName: "unrelated items"})
	require.NoError(t, err)
	assert.Empty(t, s.Cart())
}

func TestOrderTotalFrozen(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, storage.NewMemory())
	require.NoError(t, s.AddToCart(ctx, productA))
	order, err := s.AddOrder(ctx, domain.OrderInput{Region: "Alger", Items: s.Cart(), Subtotal: 500, DeliveryFee: 400, Total: 900})
	require.NoError(t, err)

	price := 9999.0
	_, err = s.UpdateProduct(ctx, productA.ID, domain.ProductPatch{Price: &price})
	require.NoError(t, err)
	_, err = s.UpdateDeliveryPrice(ctx, "Alger", 2000, 2000)
	require.NoError(t, err)

	got, _ := s.Order(order.ID)
	assert.Equal(t, 900.0, got.Total)
	assert.Equal(t, 500.0, got.Items[0].Product.Price)
}

func TestOrdersAreCopies(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, storage.NewMemory())
	require.NoError(t, s.AddToCart(ctx, productA))
	order, err := s.AddOrder(ctx, domain.OrderInput{Items: s.Cart()})
	require.NoError(t, err)

	order.Items[0].Quantity = 42
	orders := s.Orders()
	orders[0].Items[0].Quantity = 7

	got, _ := s.Order(order.ID)
	assert.Equal(t, 1, got.Items[0].Quantity)
}

func TestUpdateOrderStatus(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, storage.NewMemory())
	order, err := s.AddOrder(ctx, domain.OrderInput{FullName: "A"})
	require.NoError(t, err)

	found, err := s.UpdateOrderStatus(ctx, order.ID, domain.StatusConfirmed)
	require.NoError(t, err)
	assert.True(t, found)
	got, _ := s.Order(order.ID)
	assert.Equal(t, domain.StatusConfirmed, got.Status)

	// The store does not police the value.
	found, err = s.UpdateOrderStatus(ctx, order.ID, domain.OrderStatus("shipped"))
	require.NoError(t, err)
	assert.True(t, found)
	got, _ = s.Order(order.ID)
	assert.Equal(t, domain.OrderStatus("shipped"), got.Status)

	found, err = s.UpdateOrderStatus(ctx, "missing", domain.StatusDelivered)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestOrdersByStatusAndDelete(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, storage.NewMemory())
	first, _ := s.AddOrder(ctx, domain.OrderInput{FullName: "first"})
	second, _ := s.AddOrder(ctx, domain.OrderInput{FullName: "second"})
	_, err := s.UpdateOrderStatus(ctx, second.ID, domain.StatusCancelled)
	require.NoError(t, err)

	assert.Len(t, s.OrdersByStatus(""), 2)
	pending := s.OrdersByStatus(domain.StatusPending)
	require.Len(t, pending, 1)
	assert.Equal(t, first.ID, pending[0].ID)

	found, err := s.DeleteOrder(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, found)
	found, err = s.DeleteOrder(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Len(t, s.Orders(), 1)
}

func TestDeliveryPrice(t *testing.T) {
	s := newStore(t, storage.NewMemory())

	assert.Equal(t, 400.0, s.DeliveryPrice("Alger", domain.DeliveryHome))
	assert.Equal(t, 350.0, s.DeliveryPrice("Oran", domain.DeliveryOffice))
	assert.Equal(t, store.DefaultDeliveryFee, s.DeliveryPrice("Atlantis", domain.DeliveryHome))
	assert.Equal(t, store.DefaultDeliveryFee, s.DeliveryPrice("Atlantis", domain.DeliveryOffice))
	assert.Equal(t, 600.0, s.DeliveryPrice("", domain.DeliveryOffice))
}

func TestUpdateDeliveryPrice(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, storage.NewMemory())

	found, err := s.UpdateDeliveryPrice(ctx, "Oran", 550, 375)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 550.0, s.DeliveryPrice("Oran", domain.DeliveryHome))
	assert.Equal(t, 375.0, s.DeliveryPrice("Oran", domain.DeliveryOffice))

	found, err = s.UpdateDeliveryPrice(ctx, "Atlantis", 1, 1)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Len(t, s.DeliveryPrices(), 2)
}

func TestSearchDeliveryPrices(t *testing.T) {
	s := newStore(t, storage.NewMemory())

	assert.Equal(t, []domain.DeliveryPrice{testPrices[1]}, s.SearchDeliveryPrices("ora"))
	assert.Len(t, s.SearchDeliveryPrices(""), 2)
	assert.Empty(t, s.SearchDeliveryPrices("tlemcen"))
}

func TestPrescriptions(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, storage.NewMemory())

	p, err := s.AddPrescription(ctx, domain.PrescriptionInput{
		Name:     "Nadia",
		Phone:    "0550123456",
		Note:     "Renouvellement",
		File:     "data:image/png;base64,iVBORw0KGgo=",
		FileName: "scan.png",
		FileType: "image/png",
	})
	require.NoError(t, err)
	assert.Equal(t, "id-1", p.ID)
	assert.Equal(t, fixedNow, p.CreatedAt)

	got, ok := s.Prescription(p.ID)
	require.True(t, ok)
	assert.Equal(t, p, got)

	found, err := s.DeletePrescription(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, found)
	found, err = s.DeletePrescription(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, s.Prescriptions())
}

func TestAdminLogin(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, storage.NewMemory())

	ok, err := s.AdminLogin(ctx, "0797939772", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, s.IsAdminAuthenticated())

	ok, err = s.AdminLogin(ctx, "0797939772", "000000")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, s.IsAdminAuthenticated())

	// A failed attempt leaves an open session alone.
	ok, err = s.AdminLogin(ctx, "0550000000", "000000")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, s.IsAdminAuthenticated())

	require.NoError(t, s.AdminLogout(ctx))
	assert.False(t, s.IsAdminAuthenticated())
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, storage.NewMemory())
	var ids []string
	for i := 0; i < 7; i++ {
		o, err := s.AddOrder(ctx, domain.OrderInput{FullName: "client"})
		require.NoError(t, err)
		ids = append(ids, o.ID)
	}
	_, err := s.UpdateOrderStatus(ctx, ids[0], domain.StatusDelivered)
	require.NoError(t, err)
	_, err = s.AddPrescription(ctx, domain.PrescriptionInput{Name: "N"})
	require.NoError(t, err)

	stats := s.Stats()

	assert.Equal(t, 2, stats.Products)
	assert.Equal(t, 7, stats.Orders)
	assert.Equal(t, 6, stats.PendingOrders)
	assert.Equal(t, 1, stats.Prescriptions)
	require.Len(t, stats.RecentOrders, 5)
	assert.Equal(t, ids[6], stats.RecentOrders[0].ID)
	assert.Equal(t, ids[2], stats.RecentOrders[4].ID)
}

func checkoutInput(region string, method domain.DeliveryMethod) domain.OrderInput {
	return domain.OrderInput{
		FullName:       "Yacine H.",
		Phone:          "0770000000",
		Region:         region,
		SubRegion:      "Centre",
		DeliveryMethod: method,
	}
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, storage.NewMemory())

	_, err := s.Checkout(ctx, checkoutInput("Alger", domain.DeliveryHome))
	require.ErrorIs(t, err, store.ErrEmptyCart)
	assert.Empty(t, s.Orders())

	require.NoError(t, s.AddToCart(ctx, productA))
	require.NoError(t, s.AddToCart(ctx, productA))
	require.NoError(t, s.AddToCart(ctx, productB))

	in := checkoutInput("Alger", domain.DeliveryHome)
	in.Total = 1
	order, err := s.Checkout(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, 2000.0, order.Subtotal)
	assert.Equal(t, 400.0, order.DeliveryFee)
	assert.Equal(t, 2400.0, order.Total)
	assert.Len(t, order.Items, 2)
	assert.Empty(t, s.Cart())

	require.NoError(t, s.AddToCart(ctx, productB))
	order, err = s.Checkout(ctx, checkoutInput("Atlantis", domain.DeliveryOffice))
	require.NoError(t, err)
	assert.Equal(t, store.DefaultDeliveryFee, order.DeliveryFee)
	assert.Equal(t, 1600.0, order.Total)
}

func TestCheckout_IncludesItemsAddedAfterCartWasRead(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, storage.NewMemory())
	require.NoError(t, s.AddToCart(ctx, productA))

	seen := s.Cart()
	require.NoError(t, s.AddToCart(ctx, productB))

	order, err := s.Checkout(ctx, checkoutInput("Oran", domain.DeliveryOffice))
	require.NoError(t, err)

	assert.Len(t, seen, 1)
	require.Len(t, order.Items, 2)
	assert.Equal(t, productB.ID, order.Items[1].Product.ID)
	assert.Equal(t, 1500.0, order.Subtotal)
	assert.Empty(t, s.Cart())
}

func TestCheckout_ConcurrentAddsAreNeverLost(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, storage.NewMemory())

	const adds = 50
	var wg sync.WaitGroup
	for i := 0; i < adds; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.AddToCart(ctx, productB))
		}()
		go func() {
			defer wg.Done()
			_, err := s.Checkout(ctx, checkoutInput("Alger", domain.DeliveryHome))
			if err != nil {
				assert.ErrorIs(t, err, store.ErrEmptyCart)
			}
		}()
	}
	wg.Wait()

	total := 0
	for _, o := range s.Orders() {
		for _, item := range o.Items {
			total += item.Quantity
		}
		assert.Equal(t, o.Subtotal+o.DeliveryFee, o.Total)
	}
	for _, item := range s.Cart() {
		total += item.Quantity
	}
	assert.Equal(t, adds, total)
}

func TestSearchProductsByName(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, storage.NewMemory())
	_, err := s.AddProduct(ctx, domain.ProductInput{Name: "Oméga 3", Description: "Riche en vitamine E", Category: domain.CategorySupplement})
	require.NoError(t, err)

	byName := s.SearchProductsByName("VITAMINE")
	require.Len(t, byName, 1)
	assert.Equal(t, productA.ID, byName[0].ID)

	assert.Len(t, s.FilterProducts("", "vitamine"), 2)
	assert.Len(t, s.SearchProductsByName(""), 3)
}

func TestUpdateDeliveryPrices(t *testing.T) {
	ctx := context.Background()
	kv := &failingStorage{Memory: storage.NewMemory()}
	s := newStore(t, kv)

	missing, err := s.UpdateDeliveryPrices(ctx, []domain.DeliveryPrice{
		{Region: "Alger", Home: 450, Office: 320},
		{Region: "Atlantis", Home: 1, Office: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Atlantis"}, missing)
	assert.Equal(t, testPrices, s.DeliveryPrices())

	kv.fail = true
	_, err = s.UpdateDeliveryPrices(ctx, []domain.DeliveryPrice{
		{Region: "Alger", Home: 450, Office: 320},
		{Region: "Oran", Home: 550, Office: 380},
	})
	require.Error(t, err)
	assert.Equal(t, testPrices, s.DeliveryPrices())

	kv.fail = false
	missing, err = s.UpdateDeliveryPrices(ctx, []domain.DeliveryPrice{
		{Region: "Alger", Home: 450, Office: 320},
		{Region: "Oran", Home: 550, Office: 380},
	})
	require.NoError(t, err)
	assert.Empty(t, missing)
	assert.Equal(t, []domain.DeliveryPrice{
		{Region: "Alger", Home: 450, Office: 320},
		{Region: "Oran", Home: 550, Office: 380},
	}, s.DeliveryPrices())
}

func TestAdminSession(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	s := newStore(t, kv)
	assert.Empty(t, s.AdminSession())

	_, err := s.AdminLogin(ctx, store.AdminPhone, "000000")
	require.NoError(t, err)
	first := s.AdminSession()
	require.NotEmpty(t, first)

	_, err = s.AdminLogin(ctx, store.AdminPhone, "000000")
	require.NoError(t, err)
	second := s.AdminSession()
	assert.NotEqual(t, first, second)

	assert.Equal(t, second, newStore(t, kv).AdminSession())

	require.NoError(t, s.AdminLogout(ctx))
	assert.Empty(t, s.AdminSession())
	assert.Empty(t, newStore(t, kv).AdminSession())
}
