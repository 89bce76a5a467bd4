package domain

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Email — адрес клиента, прошедший проверку формата.
type Email string

// NewEmail проверяет формат адреса и возвращает ErrInvalidEmail для пустых и некорректных значений.
func NewEmail(raw string) (Email, error) {
	raw = strings.TrimSpace(raw)
	if err := validate.Var(raw, "required,email"); err != nil {
		return "", ErrInvalidEmail
	}
	return Email(raw), nil
}

func (e Email) String() string {
	return string(e)
}

// Customer — покупатель. ID == 0 означает, что клиент ещё не сохранён.
type Customer struct {
	ID      int64
	Name    string
	Email   Email
	Address string
}

// Validate проверяет поля клиента и возвращает список замечаний.
func (c *Customer) Validate() []error {
	var errs []error
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, ErrNameRequired)
	}
	if _, err := NewEmail(string(c.Email)); err != nil {
		errs = append(errs, err)
	}
	return errs
}
