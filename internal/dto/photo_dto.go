package dto

import "github.com/google/uuid"

type UploadResponse struct {
	Success  bool      `json:"success"`
	PhotoID  uuid.UUID `json:"photoId"`
	ImageURL string    `json:"imageUrl"`
	Message  string    `json:"message"`
}

type PhotoStatusResponse struct {
	Status          string   `json:"status"`
	RecommendedTool *string  `json:"recommended_tool"`
	Tags            []string `json:"tags"`
}

type EnhanceRequest struct {
	ImageURL string    `json:"imageUrl"`
	Tool     string    `json:"tool"`
	PhotoID  uuid.UUID `json:"photoId"`
}

type EnhanceResponse struct {
	Output string `json:"output"`
}

type RatingRequest struct {
	Rating int `json:"rating"`
}

type SubscribeRequest struct {
	Tier string `json:"tier"`
}

type SubscribeResponse struct {
	Success bool   `json:"success"`
	NewTier string `json:"newTier"`
}
