package domain

import (
	"errors"
	"strings"
)

var (
	// ErrValidation: общий признак ошибки валидации сущности.
	ErrValidation = errors.New("validation failed")
	// ErrStorage: общий признак ошибки хранилища (связь, схема, ограничения).
	ErrStorage = errors.New("storage error")
	// ErrTimeout сигнализирует, что операция с хранилищем не уложилась в таймаут.
	ErrTimeout = errors.New("storage operation timed out")
	// ErrConstraintViolation: нарушение ограничения БД (FK, CHECK, UNIQUE).
	ErrConstraintViolation = errors.New("constraint violation")

	// Ошибка пустого названия товара.
	ErrProductNameRequired = errors.New("product name is required")
	// Ошибка отрицательной цены товара.
	ErrPriceNegative = errors.New("product price must be non-negative")
	// Ошибка цены, не помещающейся в numeric(18,2).
	ErrPriceOutOfRange = errors.New("product price exceeds numeric(18,2)")
	// Ошибка при некорректном количестве товара (< 1).
	ErrQuantityInvalid = errors.New("item quantity must be at least 1")
	// Ошибка отсутствующей ссылки на товар в позиции.
	ErrProductRequired = errors.New("item product_id is required")
	// Ошибка, если позиция ссылается на другой заказ.
	ErrItemOrderMismatch = errors.New("item belongs to another order")

	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrProductNotFound возвращается, если товар не найден в репозитории.
	ErrProductNotFound = errors.New("product not found")
	// ErrOrderItemNotFound возвращается, если позиция заказа не найдена.
	ErrOrderItemNotFound = errors.New("order item not found")
	// ErrProductInUse: товар нельзя удалить, пока на него ссылаются позиции заказов.
	ErrProductInUse = errors.New("product is referenced by order items")
)

// StorageError оборачивает ошибку хранилища, чтобы исключения драйвера не утекали наружу
// без классификации. errors.Is(err, ErrStorage) выполняется для любой StorageError.
type StorageError struct {
	Op  string
	Err error
}

// NewStorageError создаёт StorageError для операции op.
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return "storage: " + e.Op
	}
	return "storage: " + e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrStorage}
	}
	return []error{ErrStorage, e.Err}
}

// ValidationError собирает все нарушенные инварианты сущности.
type ValidationError struct {
	Errs []error
}

// NewValidationError возвращает nil, если errs пустой.
func NewValidationError(errs ...error) error {
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Errs: errs}
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errs))
	for _, err := range e.Errs {
		msgs = append(msgs, err.Error())
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() []error {
	return append([]error{ErrValidation}, e.Errs...)
}

// IsNotFound проверяет, относится ли ошибка к отсутствующей сущности.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrOrderItemNotFound)
}
