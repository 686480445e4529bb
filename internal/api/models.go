package api

import "github.com/sunr3d/html-inliner/models"

type conversionResp struct {
	Success bool                     `json:"success"`
	Message string                   `json:"message"`
	Data    *models.ConversionResult `json:"data,omitempty"`
}

type healthResp struct {
	Status           string `json:"status"`
	Message          string `json:"message"`
	ActiveWorkspaces int    `json:"activeWorkspaces"`
}
