package api

import (
	"context"
	"net/http"

	"github.com/farmhub/client-go/internal/models"
)

func (c *Client) Comments(ctx context.Context, productID string) ([]models.Comment, error) {
	var comments []models.Comment
	if err := c.do(ctx, http.MethodGet, "/products/"+productID+"/comments", nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// AddComment posts a comment on a product. Comments are append-only from
// this client; there is no edit or delete.
func (c *Client) AddComment(ctx context.Context, productID, text string) (*models.Comment, error) {
	body := struct {
		Text string `json:"text"`
	}{Text: text}
	var comment models.Comment
	if err := c.do(ctx, http.MethodPost, "/products/"+productID+"/comments", body, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}
