package models

type Selection struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	OwnerID int64   `json:"owner"`
	Items   []int64 `json:"items"`
}

// SelectionSummary is the list representation of a selection.
type SelectionSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
