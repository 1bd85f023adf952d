package dto

import "github.com/google/uuid"

type AdminPostFilter struct {
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
	Search    string `form:"search"`
	Author    string `form:"author"`
	Published *bool  `form:"published"`
	Deleted   *bool  `form:"deleted"`
}

type AdminCommentFilter struct {
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
	Search   string `form:"search"`
	Approved *bool  `form:"approved"`
	Deleted  *bool  `form:"deleted"`
}

type FeaturePostRequest struct {
	Featured *bool `json:"featured" binding:"required"`
}

type BulkSoftDeleteRequest struct {
	IDs []uuid.UUID `json:"ids" binding:"required,min=1"`
}

type BulkSoftDeleteResponse struct {
	Deleted int64 `json:"deleted"`
}

type AdminPostRow struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Author      string    `json:"author"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   string    `json:"created_at"`
	DeletedAt   *string   `json:"deleted_at,omitempty"`
}

type AdminCommentRow struct {
	ID         uuid.UUID `json:"id"`
	Excerpt    string    `json:"excerpt"`
	AuthorName string    `json:"author_name"`
	PostTitle  string    `json:"post_title"`
	IsApproved bool      `json:"is_approved"`
	CreatedAt  string    `json:"created_at"`
	DeletedAt  *string   `json:"deleted_at,omitempty"`
}
