package product

import "github.com/shopspring/decimal"

func init() {
	// цена в JSON — обычное число, как её отдаёт каталог
	decimal.MarshalJSONWithoutQuotes = true
}

// Product - товар из каталога, после получения не меняется
type Product struct {
	ID    int             `json:"id"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
}

// CartItem - товар в корзине вместе с количеством
type CartItem struct {
	Product
	Amount int `json:"amount"`
}

// Stock - остаток товара на складе
type Stock struct {
	ID     int `json:"id"`
	Amount int `json:"amount"`
}

// UpdateProductAmount - форма для изменения количества товара в корзине
type UpdateProductAmount struct {
	ProductID int `json:"productId"`
	Amount    int `json:"amount"`
}

// Subtotal стоимость позиции: цена * количество
func (ci CartItem) Subtotal() decimal.Decimal {
	return ci.Price.Mul(decimal.NewFromInt(int64(ci.Amount)))
}

// Total сумма по всем позициям корзины
func Total(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}

	return total
}
