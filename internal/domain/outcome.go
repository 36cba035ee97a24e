package domain

// Outcome явно сообщает результат операции, которая не считает отсутствие сущности ошибкой.
type Outcome string

const (
	// OutcomeApplied: изменения зафиксированы.
	OutcomeApplied Outcome = "applied"
	// OutcomeOrderNotFound: заказ не найден, хранилище не изменилось.
	OutcomeOrderNotFound Outcome = "order_not_found"
	// OutcomeProductNotFound: товар не найден, хранилище не изменилось.
	OutcomeProductNotFound Outcome = "product_not_found"
)

// Applied сообщает, были ли зафиксированы изменения.
func (o Outcome) Applied() bool {
	return o == OutcomeApplied
}
