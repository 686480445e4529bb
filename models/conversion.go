package models

import "time"

type RefKind string

const (
	RefKindTagAttribute    RefKind = "tag-attribute"
	RefKindStyleBackground RefKind = "style-background"
)

type Workspace struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}

type ImageReference struct {
	Kind         RefKind `json:"kind"`
	RawPath      string  `json:"raw_path"`
	ResolvedPath string  `json:"resolved_path,omitempty"`
}

type ConversionStats struct {
	FileName        string `json:"fileName"`
	FileSize        string `json:"fileSize"`
	ImagesConverted int    `json:"imagesConverted"`
	TotalImages     int    `json:"totalImages"`
	Success         bool   `json:"success"`
}

type ConversionResult struct {
	HTML  string          `json:"html"`
	Stats ConversionStats `json:"stats"`
}
