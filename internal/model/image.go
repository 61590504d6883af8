package model

import "time"

// Image describes a generated image held in the image store.
// The file itself is the record; nothing else is persisted about it.
type Image struct {
	Filename    string    `json:"filename"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}
