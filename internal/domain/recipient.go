package domain

// RecipientRecord is one resolved campaign recipient. It lives for a single
// resolution call and is never persisted by the engine.
type RecipientRecord struct {
	ID    string  `json:"id"`
	Name  *string `json:"name"`
	Phone string  `json:"phone"`
}
