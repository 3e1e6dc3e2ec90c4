package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post, bir blog yazısını temsil eder.
// DB'deki "posts" collection'ının Go karşılığı.
//
// Author ve Category alanları document'ta SAKLANMAZ (bson:"-") —
// read tarafında ayrı sorgularla doldurulur ama API response'unda
// birlikte döner. Bu sayede frontend tek istekle yazı + yazar +
// kategori bilgilerini alır.
type Post struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title      string              `bson:"title" json:"title"`
	Slug       string              `bson:"slug" json:"slug"`
	Content    string              `bson:"content" json:"content"`
	AuthorID   primitive.ObjectID  `bson:"author_id" json:"author_id"`
	CategoryID *primitive.ObjectID `bson:"category_id,omitempty" json:"category_id,omitempty"` // Nullable — kategorisiz yazı olabilir
	Tags       []string            `bson:"tags" json:"tags"`
	Published  bool                `bson:"published" json:"published"` // false = taslak, sadece yazarı ve admin görür
	CreatedAt  time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time           `bson:"updated_at" json:"updated_at"`

	Author   *User     `bson:"-" json:"author,omitempty"`   // Read tarafında doldurulan yazar bilgisi
	Category *Category `bson:"-" json:"category,omitempty"` // Read tarafında doldurulan kategori bilgisi
}

// PostPage, offset-based pagination (sayfalama) sonucu.
//
// Blog listelerinde cursor yerine page/limit kullanırız:
// içerik nadiren değişir, sayfa kayması problemi yoktur ve
// frontend "3. sayfa" gibi numaralı sayfalama gösterebilir.
type PostPage struct {
	Posts   []Post `json:"posts"`
	Total   int64  `json:"total"` // Filtreye uyan toplam yazı sayısı
	Page    int    `json:"page"`
	Limit   int    `json:"limit"`
	HasMore bool   `json:"has_more"` // Sonraki sayfa var mı?
}

// Yazı içeriği için sınırlar.
const (
	maxPostTitleLen   = 200
	maxPostContentLen = 100000
	maxPostTags       = 10
	maxPostTagLen     = 40
)

// CreatePostRequest, yeni yazı oluşturma isteği.
// Slug opsiyoneldir — boş bırakılırsa Title'dan türetilir.
// CategoryID, ObjectID'nin hex halidir; parse ve varlık kontrolü
// service katmanında yapılır.
type CreatePostRequest struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Slug       string   `json:"slug"`
	CategoryID string   `json:"category_id"`
	Tags       []string `json:"tags"`
	Published  bool     `json:"published"`
}

// Validate, CreatePostRequest'in geçerli olup olmadığını kontrol eder.
func (r *CreatePostRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	titleLen := utf8.RuneCountInString(r.Title)
	if titleLen < 1 {
		return fmt.Errorf("post title is required")
	}
	if titleLen > maxPostTitleLen {
		return fmt.Errorf("post title must be at most %d characters", maxPostTitleLen)
	}

	r.Content = strings.TrimSpace(r.Content)
	contentLen := utf8.RuneCountInString(r.Content)
	if contentLen < 1 {
		return fmt.Errorf("post content is required")
	}
	if contentLen > maxPostContentLen {
		return fmt.Errorf("post content must be at most %d characters", maxPostContentLen)
	}

	r.Slug = strings.TrimSpace(r.Slug)
	if r.Slug != "" && !IsValidSlug(r.Slug) {
		return fmt.Errorf("slug may only contain lowercase letters, digits, and hyphens")
	}
	if r.Slug == "" && Slugify(r.Title) == "" {
		return fmt.Errorf("post title must contain at least one letter or digit")
	}

	if err := validateTags(r.Tags); err != nil {
		return err
	}

	r.CategoryID = strings.TrimSpace(r.CategoryID)

	return nil
}

// UpdatePostRequest, yazı güncelleme isteği.
// Tüm alanlar pointer — nil ise o alan güncellenmez (partial update).
// CategoryID'ye boş string ("") göndermek kategoriyi kaldırır.
type UpdatePostRequest struct {
	Title      *string   `json:"title"`
	Content    *string   `json:"content"`
	Slug       *string   `json:"slug"`
	CategoryID *string   `json:"category_id"`
	Tags       *[]string `json:"tags"`
	Published  *bool     `json:"published"`
}

// Validate, UpdatePostRequest'in geçerli olup olmadığını kontrol eder.
func (r *UpdatePostRequest) Validate() error {
	if r.Title != nil {
		*r.Title = strings.TrimSpace(*r.Title)
		titleLen := utf8.RuneCountInString(*r.Title)
		if titleLen < 1 {
			return fmt.Errorf("post title is required")
		}
		if titleLen > maxPostTitleLen {
			return fmt.Errorf("post title must be at most %d characters", maxPostTitleLen)
		}
		if Slugify(*r.Title) == "" {
			return fmt.Errorf("post title must contain at least one letter or digit")
		}
	}

	if r.Content != nil {
		*r.Content = strings.TrimSpace(*r.Content)
		contentLen := utf8.RuneCountInString(*r.Content)
		if contentLen < 1 {
			return fmt.Errorf("post content is required")
		}
		if contentLen > maxPostContentLen {
			return fmt.Errorf("post content must be at most %d characters", maxPostContentLen)
		}
	}

	if r.Slug != nil {
		*r.Slug = strings.TrimSpace(*r.Slug)
		if !IsValidSlug(*r.Slug) {
			return fmt.Errorf("slug may only contain lowercase letters, digits, and hyphens")
		}
	}

	if r.Tags != nil {
		if err := validateTags(*r.Tags); err != nil {
			return err
		}
	}

	if r.CategoryID != nil {
		*r.CategoryID = strings.TrimSpace(*r.CategoryID)
	}

	return nil
}

// validateTags, tag listesini kontrol eder ve her tag'i normalize eder
// (trim + lowercase). Boş tag ve tekrar eden tag reddedilir.
func validateTags(tags []string) error {
	if len(tags) > maxPostTags {
		return fmt.Errorf("a post can have at most %d tags", maxPostTags)
	}

	seen := make(map[string]bool, len(tags))
	for i, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			return fmt.Errorf("tags cannot be empty")
		}
		if utf8.RuneCountInString(tag) > maxPostTagLen {
			return fmt.Errorf("tags must be at most %d characters", maxPostTagLen)
		}
		if seen[tag] {
			return fmt.Errorf("duplicate tag: %s", tag)
		}
		seen[tag] = true
		tags[i] = tag
	}

	return nil
}
