package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCartTotals(t *testing.T) {
	cart := Cart{Lines: []CartLine{
		{ProductID: "p1", Name: "Mug", UnitPrice: 9.5, Quantity: 2},
		{ProductID: "p2", VariantKey: "size=L", Name: "Shirt", UnitPrice: 25, Quantity: 1},
	}}

	assert.Equal(t, 3, cart.ItemCount())
	assert.InDelta(t, 44.0, cart.TotalAmount(), 1e-9)
}

func TestCartTotalsEmpty(t *testing.T) {
	var cart Cart
	assert.Equal(t, 0, cart.ItemCount())
	assert.Zero(t, cart.TotalAmount())
}

func TestCartFindLine(t *testing.T) {
	cart := Cart{Lines: []CartLine{
		{ProductID: "p1", VariantKey: ""},
		{ProductID: "p1", VariantKey: "color=red"},
		{ProductID: "p2", VariantKey: ""},
	}}

	assert.Equal(t, 0, cart.FindLine("p1", ""))
	assert.Equal(t, 1, cart.FindLine("p1", "color=red"))
	assert.Equal(t, 2, cart.FindLine("p2", ""))
	assert.Equal(t, -1, cart.FindLine("p1", "color=blue"), "variant key distinguishes lines")
	assert.Equal(t, -1, cart.FindLine("p3", ""))
}

func TestUserFullName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", User{FirstName: "Ada", LastName: "Lovelace"}.FullName())
	assert.Equal(t, "Ada", User{FirstName: "Ada"}.FullName())
	assert.Equal(t, "ada@example.com", User{Email: "ada@example.com"}.FullName())
}
