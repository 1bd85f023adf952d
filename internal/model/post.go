package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post rows are never hard-deleted through the application; DeletedAt marks
// them invisible. gorm.DeletedAt is deliberately not used so admin queries
// can see deleted rows and public queries apply the predicate explicitly.
type Post struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_posts_author_published" json:"author_id"`
	Author      User       `gorm:"constraint:OnDelete:CASCADE" json:"author,omitempty"`
	CategoryID  *uuid.UUID `gorm:"type:uuid" json:"category_id,omitempty"`
	Category    *Category  `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Tags        []Tag      `gorm:"many2many:post_tags;constraint:OnDelete:CASCADE" json:"tags,omitempty"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Slug        string     `gorm:"size:200;uniqueIndex;not null" json:"slug"`
	Excerpt     string     `gorm:"size:500" json:"excerpt"`
	Content     string     `gorm:"type:text;not null" json:"content"`
	Featured    bool       `gorm:"default:false" json:"featured"`
	IsPublished bool       `gorm:"default:false;index:idx_posts_author_published;index:idx_posts_visibility" json:"is_published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Views       int        `gorm:"default:0" json:"views"`
	CreatedAt   time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   *time.Time `gorm:"index:idx_posts_visibility" json:"deleted_at,omitempty"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID, err = uuid.NewV7()
	}
	return
}

// IsDeleted reports whether the post has been soft-deleted.
func (p *Post) IsDeleted() bool {
	return p.DeletedAt != nil
}

// IsVisible is the public visibility predicate: published, not soft-deleted,
// and past its publish time.
func (p *Post) IsVisible(now time.Time) bool {
	if !p.IsPublished || p.DeletedAt != nil {
		return false
	}
	return p.PublishedAt == nil || !p.PublishedAt.After(now)
}

type Comment struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	PostID      uuid.UUID  `gorm:"type:uuid;not null;index:idx_comments_post_deleted" json:"post_id"`
	Post        Post       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	AuthorName  string     `gorm:"size:100;not null" json:"author_name"`
	AuthorEmail string     `gorm:"size:100;not null" json:"-"`
	Website     string     `gorm:"size:200" json:"website,omitempty"`
	Content     string     `gorm:"type:text;not null" json:"content"`
	IsApproved  bool       `gorm:"default:false" json:"is_approved"`
	CreatedAt   time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   *time.Time `gorm:"index:idx_comments_post_deleted" json:"deleted_at,omitempty"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID, err = uuid.NewV7()
	}
	return
}

// IsVisible reports whether the comment is shown to public readers.
func (c *Comment) IsVisible() bool {
	return c.IsApproved && c.DeletedAt == nil
}
