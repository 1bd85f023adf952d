package dto

import (
	"github.com/google/uuid"
)

type CreatePostRequest struct {
	Title      string   `json:"title" binding:"required,max=200"`
	Slug       string   `json:"slug" binding:"omitempty,max=200"`
	Excerpt    string   `json:"excerpt" binding:"max=500"`
	Content    string   `json:"content" binding:"required"`
	CategoryID string   `json:"category_id"`
	Tags       []string `json:"tags"`
	Publish    bool     `json:"publish"`
}

type UpdatePostRequest struct {
	Title      *string  `json:"title" binding:"omitempty,max=200"`
	Excerpt    *string  `json:"excerpt" binding:"omitempty,max=500"`
	Content    *string  `json:"content"`
	CategoryID *string  `json:"category_id"`
	Tags       []string `json:"tags"`
}

type PostFilter struct {
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
	Search   string `form:"search"`
	Category string `form:"category"`
	Tag      string `form:"tag"`
}

type PostResponse struct {
	ID          uuid.UUID      `json:"id"`
	Title       string         `json:"title"`
	Slug        string         `json:"slug"`
	Excerpt     string         `json:"excerpt"`
	Content     string         `json:"content,omitempty"`
	Author      AuthorResponse `json:"author"`
	Category    *string        `json:"category,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Featured    bool           `json:"featured"`
	Views       int            `json:"views"`
	PublishedAt string         `json:"published_at,omitempty"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at"`
}

type PostDetailResponse struct {
	Post     PostResponse      `json:"post"`
	Comments []CommentResponse `json:"comments"`
	Related  []PostResponse    `json:"related"`
}

type PaginatedPostResponse struct {
	Data []PostResponse `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

type HomeResponse struct {
	Featured   []PostResponse     `json:"featured"`
	Recent     []PostResponse     `json:"recent"`
	Categories []CategoryResponse `json:"categories"`
}

type ArchiveMonth struct {
	Year  int   `json:"year"`
	Month int   `json:"month"`
	Count int64 `json:"count"`
}

type CreateCommentRequest struct {
	AuthorName  string `json:"author_name" binding:"required,max=100"`
	AuthorEmail string `json:"author_email" binding:"required,email,max=100"`
	Website     string `json:"website" binding:"omitempty,max=200"`
	Content     string `json:"content" binding:"required,max=2000"`
}

type CommentResponse struct {
	ID         uuid.UUID `json:"id"`
	AuthorName string    `json:"author_name"`
	Website    string    `json:"website,omitempty"`
	Content    string    `json:"content"`
	CreatedAt  string    `json:"created_at"`
}
