package domain

// Category Model
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`                 // Primary key
	Name string `gorm:"size:100;not null;unique" json:"name"` // Display name
	Slug string `gorm:"size:100;not null;unique" json:"slug"` // URL-friendly identifier
}
