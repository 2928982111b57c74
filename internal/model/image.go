package model

import "time"

// HostedImage is a stored raster with its content type. Questions reference
// hosted images by URL, never inline.
type HostedImage struct {
	ID          string    `json:"id"`
	Data        []byte    `json:"-"`
	ContentType string    `json:"contentType"`
	CreatedAt   time.Time `json:"createdAt"`
}
