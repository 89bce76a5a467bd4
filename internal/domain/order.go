package domain

import "time"

// Order связывает клиента с набором товаров.
// После сохранения и повторного чтения Products не содержит дублей
// и упорядочен по ID товара: связь заказ-товар хранится как множество.
type Order struct {
	ID       int64
	Customer Customer
	Products []Product
	// ShippedAt заполняется один раз, в момент отгрузки.
	ShippedAt *time.Time
}

// AddProduct добавляет товар в конец списка.
func (o *Order) AddProduct(p Product) {
	o.Products = append(o.Products, p)
}

// ProductIDs возвращает идентификаторы сохранённых товаров без повторов,
// в порядке первого появления.
func (o *Order) ProductIDs() []int64 {
	ids := make([]int64, 0, len(o.Products))
	seen := make(map[int64]struct{}, len(o.Products))
	for _, p := range o.Products {
		if p.ID == 0 {
			continue
		}
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		ids = append(ids, p.ID)
	}
	return ids
}

// IsShipped сообщает, отгружен ли заказ.
func (o *Order) IsShipped() bool {
	return o.ShippedAt != nil
}

// Ship фиксирует время отгрузки. Повторная отгрузка запрещена.
func (o *Order) Ship(at time.Time) error {
	if o.IsShipped() {
		return ErrOrderAlreadyShipped
	}
	o.ShippedAt = &at
	return nil
}
