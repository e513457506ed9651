package domain

// MaxCompareProducts — предел размера набора сравнения.
const MaxCompareProducts = 4

// CompareSet хранит названия товаров, отмеченных для сравнения.
// Порядок вставки сохраняется для отображения; дубликаты не допускаются.
type CompareSet struct {
	Products []string `json:"products"`
}

// Contains проверяет членство товара в наборе.
func (s CompareSet) Contains(name string) bool {
	for _, p := range s.Products {
		if p == name {
			return true
		}
	}
	return false
}
