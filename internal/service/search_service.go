package service

import (
	"html"
	"strings"

	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/inkwell-cms/inkwell/internal/model"
)

// SearchService mirrors visible posts into a meilisearch index. All methods
// tolerate a nil receiver so deployments without meilisearch still work; the
// post list falls back to DB search in that case.
type SearchService interface {
	IndexPost(post *model.Post) error
	DeletePost(id string) error
}

type meiliSearchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

func NewMeiliSearchService(client meilisearch.ServiceManager) SearchService {
	s := &meiliSearchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndex()
	return s
}

func (s *meiliSearchService) initIndex() {
	filterableAttrs := []string{"category_slug", "tag_slugs", "featured"}
	filterableInterface := make([]any, len(filterableAttrs))
	for i, v := range filterableAttrs {
		filterableInterface[i] = v
	}
	if _, err := s.client.Index("posts").UpdateFilterableAttributes(&filterableInterface); err != nil {
		zap.L().Warn("failed to update posts filterable attributes", zap.Error(err))
	}

	sortableAttrs := []string{"published_at", "views"}
	if _, err := s.client.Index("posts").UpdateSortableAttributes(&sortableAttrs); err != nil {
		zap.L().Warn("failed to update posts sortable attributes", zap.Error(err))
	}
}

type meiliPostDoc struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Slug         string   `json:"slug"`
	Excerpt      string   `json:"excerpt"`
	Content      string   `json:"content"`
	CategorySlug string   `json:"category_slug"`
	TagSlugs     []string `json:"tag_slugs"`
	Featured     bool     `json:"featured"`
	Author       string   `json:"author"`
	Views        int      `json:"views"`
	PublishedAt  int64    `json:"published_at"`
}

func (s *meiliSearchService) cleanContentForIndex(content string) string {
	// Replace block tags with spaces to prevent text merging
	content = strings.ReplaceAll(content, "</p>", " ")
	content = strings.ReplaceAll(content, "<br>", " ")
	content = strings.ReplaceAll(content, "</div>", " ")

	sanitized := s.sanitizer.Sanitize(content)
	cleanText := html.UnescapeString(sanitized)

	return strings.Join(strings.Fields(cleanText), " ")
}

func (s *meiliSearchService) IndexPost(post *model.Post) error {
	if s == nil {
		return nil
	}

	doc := meiliPostDoc{
		ID:       post.ID.String(),
		Title:    post.Title,
		Slug:     post.Slug,
		Excerpt:  post.Excerpt,
		Content:  s.cleanContentForIndex(post.Content),
		Featured: post.Featured,
		Author:   post.Author.Username,
		Views:    post.Views,
	}
	if post.Category != nil {
		doc.CategorySlug = post.Category.Slug
	}
	for _, tag := range post.Tags {
		doc.TagSlugs = append(doc.TagSlugs, tag.Slug)
	}
	if post.PublishedAt != nil {
		doc.PublishedAt = post.PublishedAt.Unix()
	}

	_, err := s.client.Index("posts").AddDocuments([]meiliPostDoc{doc}, nil)
	return err
}

func (s *meiliSearchService) DeletePost(id string) error {
	if s == nil {
		return nil
	}
	_, err := s.client.Index("posts").DeleteDocument(id)
	return err
}
