package entities

import "time"

// Record is the storage-facing shape of a book as persisted by the remote
// store. Optional columns are pointers so that an absent value can be told
// apart from a zero one; a Record with nil fields doubles as a partial update.
type Record struct {
	ID            string     `gorm:"primaryKey;size:64" json:"id,omitempty"`
	Title         string     `gorm:"size:512;not null" json:"title,omitempty"`
	Author        string     `gorm:"size:256;not null" json:"author,omitempty"`
	Category      *string    `gorm:"size:128" json:"category,omitempty"`
	Genre         *string    `gorm:"size:128" json:"genre,omitempty"` // legacy alias of category, read only
	Description   *string    `gorm:"type:text" json:"description,omitempty"`
	Notes         *string    `gorm:"type:text" json:"notes,omitempty"`
	Rating        *int       `json:"rating,omitempty"`
	ReadingStatus *string    `gorm:"size:20" json:"reading_status,omitempty"`
	Progress      *int       `json:"progress,omitempty"`
	CoverURL      *string    `gorm:"size:2048" json:"cover_url,omitempty"`
	CreatedAt     *time.Time `gorm:"index" json:"created_at,omitempty"`
	LastUpdated   *time.Time `json:"last_updated,omitempty"`
}

func (Record) TableName() string {
	return "books"
}
