package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Product — складская позиция. ID == 0 означает, что товар ещё не сохранён.
type Product struct {
	ID       int64
	Name     string
	Quantity int
	Price    decimal.Decimal
}

// Validate проверяет поля товара и возвращает список замечаний.
func (p *Product) Validate() []error {
	var errs []error
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, ErrNameRequired)
	}
	if p.Quantity < 0 {
		errs = append(errs, ErrInvalidQuantity)
	}
	if p.Price.IsNegative() {
		errs = append(errs, ErrInvalidPrice)
	}
	return errs
}
