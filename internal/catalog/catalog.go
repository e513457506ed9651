package catalog

import (
	"github.com/vladislavdragonenkov/bakery/internal/domain"
)

// Product — карточка товара витрины. Ключом служит отображаемое название:
// канонического идентификатора товара у витрины нет.
type Product struct {
	Name       string `json:"name"`
	PriceMinor int64  `json:"price_minor"`
	Weight     string `json:"weight"`
	Rating     string `json:"rating"`
}

// Catalog — фиксированный ассортимент пекарни.
type Catalog struct {
	products []Product
	byName   map[string]Product
}

// New возвращает каталог SweetHomeBakery.
func New() *Catalog {
	products := []Product{
		{Name: "Торт Нежность", PriceMinor: 45_00, Weight: "1.5 кг", Rating: "4.9/5"},
		{Name: "Торт Медовый рай", PriceMinor: 60_00, Weight: "2 кг", Rating: "4.8/5"},
		{Name: "Капкейки Радуга", PriceMinor: 20_00, Weight: "6 шт", Rating: "4.5/5"},
		{Name: "Шоколадные капкейки", PriceMinor: 25_00, Weight: "4 шт", Rating: "4.7/5"},
		{Name: "Овсяное печенье", PriceMinor: 15_00, Weight: "350 г", Rating: "4.9/5"},
		{Name: "Яблочный пирог", PriceMinor: 32_00, Weight: "1 кг", Rating: "4.6/5"},
	}

	byName := make(map[string]Product, len(products))
	for _, p := range products {
		byName[p.Name] = p
	}

	return &Catalog{products: products, byName: byName}
}

// List возвращает все товары в порядке каталога.
func (c *Catalog) List() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Get возвращает карточку товара по названию.
func (c *Catalog) Get(name string) (Product, error) {
	p, ok := c.byName[name]
	if !ok {
		return Product{}, domain.ErrProductNotFound
	}
	return p, nil
}

// OrderValueMinor возвращает стоимость товара для конверсионной аналитики;
// неизвестный товар оценивается в ноль.
func (c *Catalog) OrderValueMinor(name string) int64 {
	if p, ok := c.byName[name]; ok {
		return p.PriceMinor
	}
	return 0
}

// CompareRow — строка таблицы сравнения: характеристика и значения по товарам.
type CompareRow struct {
	Attribute string   `json:"attribute"`
	Values    []string `json:"values"`
}

// CompareTable строит таблицу сравнения для набора товаров.
// Неизвестные товары получают прочерк.
func (c *Catalog) CompareTable(set domain.CompareSet) ([]CompareRow, error) {
	if len(set.Products) == 0 {
		return nil, domain.ErrCompareEmpty
	}

	prices := make([]string, 0, len(set.Products))
	weights := make([]string, 0, len(set.Products))
	ratings := make([]string, 0, len(set.Products))
	for _, name := range set.Products {
		p, ok := c.byName[name]
		if !ok {
			prices = append(prices, "—")
			weights = append(weights, "—")
			ratings = append(ratings, "—")
			continue
		}
		prices = append(prices, domain.FormatMinor(p.PriceMinor)+" BYN")
		weights = append(weights, p.Weight)
		ratings = append(ratings, p.Rating)
	}

	return []CompareRow{
		{Attribute: "Цена", Values: prices},
		{Attribute: "Вес", Values: weights},
		{Attribute: "Рейтинг", Values: ratings},
	}, nil
}
