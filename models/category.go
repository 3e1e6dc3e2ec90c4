package models

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category, blog yazılarını gruplamak için kullanılan kategorileri temsil eder.
// "Go", "Web Geliştirme", "Kişisel" gibi başlıklar.
// Slug, Name'den türetilir ve URL'lerde kullanılır (/api/categories/web-gelistirme).
type Category struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// CreateCategoryRequest, yeni kategori oluşturma isteği (sadece admin).
type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Validate, CreateCategoryRequest'in geçerli olup olmadığını kontrol eder.
func (r *CreateCategoryRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	nameLen := utf8.RuneCountInString(r.Name)
	if nameLen < 1 || nameLen > 100 {
		return fmt.Errorf("category name must be between 1 and 100 characters")
	}

	// Kategori adı Unicode harf, rakam, boşluk, tire ve alt çizgi içerebilir.
	for _, ch := range r.Name {
		if !isValidCategoryNameChar(ch) {
			return fmt.Errorf("category name contains invalid characters")
		}
	}

	// Slug'ı türetemeyeceğimiz bir isim kabul edilmez ("!!!" gibi).
	if Slugify(r.Name) == "" {
		return fmt.Errorf("category name must contain at least one letter or digit")
	}

	r.Description = strings.TrimSpace(r.Description)
	if utf8.RuneCountInString(r.Description) > 500 {
		return fmt.Errorf("category description must be at most 500 characters")
	}

	return nil
}

// UpdateCategoryRequest, kategori güncelleme isteği.
// Pointer (*string) kullanılır — nil ise o alan güncellenmez (partial update).
type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Validate, UpdateCategoryRequest'in geçerli olup olmadığını kontrol eder.
func (r *UpdateCategoryRequest) Validate() error {
	if r.Name != nil {
		*r.Name = strings.TrimSpace(*r.Name)
		nameLen := utf8.RuneCountInString(*r.Name)
		if nameLen < 1 || nameLen > 100 {
			return fmt.Errorf("category name must be between 1 and 100 characters")
		}
		for _, ch := range *r.Name {
			if !isValidCategoryNameChar(ch) {
				return fmt.Errorf("category name contains invalid characters")
			}
		}
		if Slugify(*r.Name) == "" {
			return fmt.Errorf("category name must contain at least one letter or digit")
		}
	}

	if r.Description != nil {
		*r.Description = strings.TrimSpace(*r.Description)
		if utf8.RuneCountInString(*r.Description) > 500 {
			return fmt.Errorf("category description must be at most 500 characters")
		}
	}

	return nil
}

// isValidCategoryNameChar, kategori adında izin verilen karakterleri kontrol eder.
// Unicode harf/rakam, boşluk, tire, alt çizgi kabul edilir.
// unicode.IsLetter: tüm dillerdeki harfleri kapsar (Türkçe ş/ç/ğ/ı/ö/ü dahil).
// unicode.IsDigit: tüm Unicode rakamlarını kapsar.
func isValidCategoryNameChar(ch rune) bool {
	return unicode.IsLetter(ch) ||
		unicode.IsDigit(ch) ||
		ch == '-' || ch == '_' || ch == ' '
}
