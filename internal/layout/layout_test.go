package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shopData() ERData {
	return ERData{
		Entities: []Entity{
			{Name: "users", Columns: []Column{{Name: "id", IsPrimaryKey: true}, {Name: "email"}}},
			{Name: "orders", Columns: []Column{{Name: "id", IsPrimaryKey: true}, {Name: "user_id", IsForeignKey: true}}},
			{Name: "order_items", Columns: []Column{
				{Name: "id", IsPrimaryKey: true},
				{Name: "order_id", IsForeignKey: true},
				{Name: "product_id", IsForeignKey: true},
			}},
			{Name: "products", Columns: []Column{{Name: "id", IsPrimaryKey: true}, {Name: "sku"}}},
			{Name: "audit_log", Columns: []Column{{Name: "id", IsPrimaryKey: true}}},
		},
		Relationships: []Relationship{
			{FromEntity: "orders", FromColumn: "user_id", ToEntity: "users", ToColumn: "id"},
			{FromEntity: "order_items", FromColumn: "order_id", ToEntity: "orders", ToColumn: "id"},
			{FromEntity: "order_items", FromColumn: "product_id", ToEntity: "products", ToColumn: "id"},
			{FromEntity: "order_items", FromColumn: "coupon_id", ToEntity: "coupons", ToColumn: "id"},
		},
	}
}

func TestLayoutPlacesAndRoutes(t *testing.T) {
	data := shopData()
	d := Layout(data, nil, DefaultBoxMetrics())

	require.Len(t, d.Entities, 5)
	assert.Len(t, d.Connectors, 3)
	assert.Equal(t, 1, d.Skipped, "relationship to coupons is dangling")
	assert.Equal(t, [][]string{{"users", "orders", "order_items", "products"}, {"audit_log"}}, d.Clusters)

	for _, e := range d.Entities {
		assert.True(t, e.Computed, e.Name)
	}

	users, ok := d.Entity("users")
	require.True(t, ok)
	assert.Equal(t, Point{100, 100}, users.Position)
	audit, ok := d.Entity("audit_log")
	require.True(t, ok)
	assert.Equal(t, Point{700, 100}, audit.Position)

	var bounds []Rect
	for _, e := range d.Entities {
		bounds = append(bounds, e.Bounds)
	}
	for _, c := range d.Connectors {
		pts, err := ParsePathString(c.Path)
		require.NoError(t, err)
		assert.Equal(t, c.Points, pts)
		assert.Equal(t, c.From, c.Points[0])
		assert.Equal(t, c.To, c.Points[len(c.Points)-1])

		if c.CollisionFree {
			var obstacles []Rect
			for _, b := range bounds {
				if PointInRect(c.From, b) || PointInRect(c.To, b) {
					// own boxes may only be touched on the border
					if inner, ok := b.Inset(ownBoxInset); ok {
						obstacles = append(obstacles, inner)
					}
					continue
				}
				obstacles = append(obstacles, b)
			}
			assert.False(t, PathIntersectsAnyRect(c.Points, obstacles))
		} else {
			assert.Equal(t, directPath(c.From, c.To), c.Points)
		}
	}
}

func TestLayoutKeepsKnownPositions(t *testing.T) {
	data := shopData()
	data.Entities[1].Position = &Point{X: 900, Y: 900}
	data.Entities[3].Position = &Point{X: 10, Y: 10}
	saved := map[string]Point{
		"products": {X: 1500, Y: 40},
		"ghost":    {X: 1, Y: 1},
	}

	d := Layout(data, saved, DefaultBoxMetrics())

	orders, _ := d.Entity("orders")
	assert.Equal(t, Point{900, 900}, orders.Position)
	assert.False(t, orders.Computed)

	products, _ := d.Entity("products")
	assert.Equal(t, Point{1500, 40}, products.Position, "saved position wins")
	assert.False(t, products.Computed)

	users, _ := d.Entity("users")
	assert.True(t, users.Computed)

	_, ok := d.Entity("ghost")
	assert.False(t, ok)

	positions := d.Positions()
	assert.Len(t, positions, 5)
	assert.Equal(t, Point{900, 900}, positions["orders"])
}

func TestLayoutIsDeterministic(t *testing.T) {
	first := Layout(shopData(), nil, DefaultBoxMetrics())
	second := Layout(shopData(), nil, DefaultBoxMetrics())
	assert.Equal(t, first, second)
}

func TestLayoutDuplicateNames(t *testing.T) {
	data := ERData{Entities: []Entity{{Name: "a"}, {Name: "a"}, {Name: "b"}}}
	d := Layout(data, nil, DefaultBoxMetrics())

	require.Len(t, d.Entities, 2)
	assert.Equal(t, "a", d.Entities[0].Name)
	assert.Equal(t, "b", d.Entities[1].Name)
	assert.Equal(t, Point{450, 50}, d.Entities[1].Position, "grid slot follows the input index")
	assert.Zero(t, d.CollisionCount())
}
