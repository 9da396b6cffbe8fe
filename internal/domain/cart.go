package domain

import "encoding/json"

// Snapshot — содержимое корзины: последовательность идентификаторов товаров.
// Количество товара = число вхождений его идентификатора.
type Snapshot []string

// Count — количество вхождений id.
func (s Snapshot) Count(id string) int {
	n := 0
	for _, p := range s {
		if p == id {
			n++
		}
	}
	return n
}

// Len — общее число позиций (с повторами).
func (s Snapshot) Len() int { return len(s) }

// Clone — независимая копия (никогда не nil).
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	copy(out, s)
	return out
}

// Distinct — уникальные идентификаторы в порядке первого появления.
func (s Snapshot) Distinct() []string {
	seen := make(map[string]struct{}, len(s))
	out := make([]string, 0, len(s))
	for _, id := range s {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Tally — количество по каждому идентификатору.
func (s Snapshot) Tally() map[string]int {
	out := make(map[string]int, len(s))
	for _, id := range s {
		out[id]++
	}
	return out
}

// MarshalJSON — пустая корзина всегда сериализуется как [], а не null.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(s))
}

// HydrationState — стадия восстановления сохранённой корзины.
type HydrationState string

const (
	HydrationUnmounted HydrationState = "UNMOUNTED"
	HydrationLoading   HydrationState = "LOADING"
	HydrationReady     HydrationState = "READY"
)

// CartItemView — позиция корзины для отображения.
type CartItemView struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
	Ceiling  *int   `json:"ceiling,omitempty"`
	AtLimit  bool   `json:"atLimit"`
}

// CartView — то, что видит слой представления.
// До READY все значения — детерминированные заглушки.
type CartView struct {
	SessionID string         `json:"sessionId"`
	Ready     bool           `json:"ready"`
	State     HydrationState `json:"state"`
	Products  Snapshot       `json:"products"`
	Size      int            `json:"size"`
	Items     []CartItemView `json:"items"`
}
