package utils

import (
	"encoding/gob"
	"math"
	"strconv"

	"github.com/dellacasa/emporio/models"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Session key for cart lines.
const cartSessionKey = "cart"

func init() {
	// The cookie session store gob-encodes its values.
	gob.Register(map[string]CartLine{})
}

// CartLine is a single session cart entry. The unit price is snapshotted
// when the line is first created so a later catalog price change does not
// silently reprice the cart.
type CartLine struct {
	ProductID uint
	Quantity  int
	Price     float64
}

// CartItem is a cart line enriched with its catalog product for display.
type CartItem struct {
	Product   models.Product `json:"product"`
	Quantity  int            `json:"quantity"`
	Price     float64        `json:"price"`
	LineTotal float64        `json:"line_total"`
}

// Cart is the per-session shopping cart. It lives entirely in the session
// store; nothing is persisted until checkout creates the order.
type Cart struct {
	session sessions.Session
	lines   map[string]CartLine
}

// GetCart loads the cart from the request's session, creating an empty
// one when the session holds none.
func GetCart(c *gin.Context) *Cart {
	session := sessions.Default(c)
	cart := &Cart{session: session, lines: map[string]CartLine{}}
	if raw := session.Get(cartSessionKey); raw != nil {
		if lines, ok := raw.(map[string]CartLine); ok {
			cart.lines = lines
		}
	}
	return cart
}

// Save writes the cart back and marks the session dirty so it persists.
func (ct *Cart) Save() error {
	ct.session.Set(cartSessionKey, ct.lines)
	return ct.session.Save()
}

// Add inserts or updates the line for the product. Quantity accumulates
// unless override is set, in which case it replaces. The price snapshot
// is taken on first insert only.
func (ct *Cart) Add(product models.Product, quantity int, override bool) {
	key := strconv.FormatUint(uint64(product.ID), 10)
	line, ok := ct.lines[key]
	if !ok {
		line = CartLine{ProductID: product.ID, Price: product.Price}
	}
	if override {
		line.Quantity = quantity
	} else {
		line.Quantity += quantity
	}
	if line.Quantity <= 0 {
		delete(ct.lines, key)
		return
	}
	ct.lines[key] = line
}

// Remove deletes the product's line if present.
func (ct *Cart) Remove(productID uint) {
	delete(ct.lines, strconv.FormatUint(uint64(productID), 10))
}

// Clear empties the cart.
func (ct *Cart) Clear() {
	ct.lines = map[string]CartLine{}
}

// Len returns the total item quantity across all lines, used for the bag
// icon counter.
func (ct *Cart) Len() int {
	var n int
	for _, line := range ct.lines {
		n += line.Quantity
	}
	return n
}

// Total sums all line totals from the snapshotted prices.
func (ct *Cart) Total() float64 {
	var total float64
	for _, line := range ct.lines {
		total += line.Price * float64(line.Quantity)
	}
	return math.Round(total*100) / 100
}

// Lines returns the raw cart lines keyed by product id.
func (ct *Cart) Lines() map[string]CartLine {
	return ct.lines
}

// ProductLookup resolves a set of product ids to catalog rows.
type ProductLookup func(ids []uint) ([]models.Product, error)

// Items enriches each line with its catalog product and computed line
// total. Lines whose product no longer exists are silently skipped, so a
// stale session cart never breaks rendering.
func (ct *Cart) Items(lookup ProductLookup) ([]CartItem, error) {
	if len(ct.lines) == 0 {
		return nil, nil
	}

	ids := make([]uint, 0, len(ct.lines))
	for _, line := range ct.lines {
		ids = append(ids, line.ProductID)
	}
	products, err := lookup(ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var items []CartItem
	for _, line := range ct.lines {
		product, ok := byID[line.ProductID]
		if !ok {
			continue
		}
		items = append(items, CartItem{
			Product:   product,
			Quantity:  line.Quantity,
			Price:     line.Price,
			LineTotal: math.Round(line.Price*float64(line.Quantity)*100) / 100,
		})
	}
	return items, nil
}
