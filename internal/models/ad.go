package models

type Ad struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Price       int64   `json:"price"`
	Description string  `json:"description"`
	Image       *string `json:"image"`
	IsPublished bool    `json:"is_published"`
	AuthorID    int64   `json:"author"`
	CategoryID  int64   `json:"category"`
}

// AdImage is the body returned after an image upload.
type AdImage struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}
