package feeds

import "social/storage/models"

type Response struct {
	Cursor string             `json:"cursor"`
	Posts  []models.FeedEntry `json:"results"`
}
