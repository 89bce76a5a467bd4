package domain

import "errors"

var (
	// ErrInvalidEmail — адрес пустой или не похож на email.
	ErrInvalidEmail = errors.New("email has invalid format")
	// ErrNameRequired — у клиента или товара не задано имя.
	ErrNameRequired = errors.New("name is required")
	// ErrInvalidQuantity — отрицательный остаток товара.
	ErrInvalidQuantity = errors.New("product quantity must be non-negative")
	// ErrInvalidPrice — отрицательная цена товара.
	ErrInvalidPrice = errors.New("product price must be non-negative")

	// ErrCustomerNotFound возвращается, если клиента нет в хранилище.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrProductNotFound возвращается, если товара нет в хранилище.
	ErrProductNotFound = errors.New("product not found")
	// ErrOrderNotFound возвращается при обновлении или отгрузке заказа, которого нет в хранилище.
	ErrOrderNotFound = errors.New("order not found")
	// ErrCustomerNotPersisted — заказ ссылается на клиента без идентификатора.
	ErrCustomerNotPersisted = errors.New("order customer is not persisted")
	// ErrOrderAlreadyShipped — время отгрузки уже установлено.
	ErrOrderAlreadyShipped = errors.New("order already shipped")

	// ErrAmbiguousResult — выборка по уникальному id вернула больше одной строки.
	// Это нарушение целостности хранилища, а не штатная ситуация.
	ErrAmbiguousResult = errors.New("multiple rows found for unique id")

	// ErrTransactionInProgress — попытка открыть вложенную транзакцию.
	ErrTransactionInProgress = errors.New("transaction already in progress")
	// ErrNoTransaction — commit/rollback без открытой транзакции.
	ErrNoTransaction = errors.New("no transaction in progress")
)

// IsNotFound проверяет, относится ли ошибка к отсутствующей сущности.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCustomerNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrOrderNotFound)
}

// IsValidation проверяет, является ли ошибка ошибкой валидации полей сущности.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidEmail) ||
		errors.Is(err, ErrNameRequired) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrInvalidPrice)
}
