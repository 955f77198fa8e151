package uploadimage

import "io"

// Input is one multipart file part.
type Input struct {
	Filename    string
	ContentType string
	Size        int64
	File        io.Reader
}

type Output struct {
	PublicID string `json:"publicId"`
	URL      string `json:"url"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}
