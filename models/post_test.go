package models

import (
	"reflect"
	"strings"
	"testing"
)

func validCreatePost() CreatePostRequest {
	return CreatePostRequest{
		Title:   "Go ile Web Geliştirme",
		Content: "İlk bölüm: net/http paketi.",
	}
}

func TestCreatePostRequestValidate(t *testing.T) {
	req := validCreatePost()
	req.Title = "  Başlık  "
	req.Content = "  içerik  "
	req.CategoryID = "  abc  "

	if err := req.Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
	if req.Title != "Başlık" || req.Content != "içerik" {
		t.Fatalf("fields not trimmed: %q / %q", req.Title, req.Content)
	}
	if req.CategoryID != "abc" {
		t.Fatalf("category id not trimmed: %q", req.CategoryID)
	}
}

func TestCreatePostRequestValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(r *CreatePostRequest)
	}{
		{"empty title", func(r *CreatePostRequest) { r.Title = "   " }},
		{"long title", func(r *CreatePostRequest) { r.Title = strings.Repeat("a", 201) }},
		{"empty content", func(r *CreatePostRequest) { r.Content = "" }},
		{"long content", func(r *CreatePostRequest) { r.Content = strings.Repeat("a", 100001) }},
		{"uppercase slug", func(r *CreatePostRequest) { r.Slug = "Kotu-Slug" }},
		{"slug with space", func(r *CreatePostRequest) { r.Slug = "kotu slug" }},
		// Slug boş VE başlıktan slug türetilemiyor → reddedilir
		{"unsluggable title", func(r *CreatePostRequest) { r.Title = "!!!" }},
		{"too many tags", func(r *CreatePostRequest) {
			r.Tags = []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"}
		}},
		{"empty tag", func(r *CreatePostRequest) { r.Tags = []string{"go", "  "} }},
		{"long tag", func(r *CreatePostRequest) { r.Tags = []string{strings.Repeat("t", 41)} }},
		{"duplicate tag", func(r *CreatePostRequest) { r.Tags = []string{"Go", "go"} }},
	}

	for _, c := range cases {
		req := validCreatePost()
		c.mutate(&req)
		if err := req.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", c.name)
		}
	}
}

// Tag'ler yerinde normalize edilir: trim + lowercase.
func TestCreatePostRequestTagNormalization(t *testing.T) {
	req := validCreatePost()
	req.Tags = []string{" Go ", "WEB", "net-http"}

	if err := req.Validate(); err != nil {
		t.Fatalf("valid tags rejected: %v", err)
	}
	want := []string{"go", "web", "net-http"}
	if !reflect.DeepEqual(req.Tags, want) {
		t.Fatalf("tags = %v, want %v", req.Tags, want)
	}
}

func TestUpdatePostRequestValidate(t *testing.T) {
	// Boş istek geçerli — hiçbir alan güncellenmez
	if err := (&UpdatePostRequest{}).Validate(); err != nil {
		t.Fatalf("empty update rejected: %v", err)
	}

	title := "  Yeni Başlık  "
	slug := "yeni-baslik"
	req := UpdatePostRequest{Title: &title, Slug: &slug}
	if err := req.Validate(); err != nil {
		t.Fatalf("valid update rejected: %v", err)
	}
	if *req.Title != "Yeni Başlık" {
		t.Fatalf("title not trimmed: %q", *req.Title)
	}
}

func TestUpdatePostRequestValidateRejects(t *testing.T) {
	strPtr := func(s string) *string { return &s }

	cases := []struct {
		name string
		req  UpdatePostRequest
	}{
		{"empty title", UpdatePostRequest{Title: strPtr("  ")}},
		{"unsluggable title", UpdatePostRequest{Title: strPtr("???")}},
		{"empty content", UpdatePostRequest{Content: strPtr("")}},
		// Update'te slug gönderildiyse geçerli olmalı — boş string slug'ı
		// temizleyemez, her yazının slug'ı vardır
		{"empty slug", UpdatePostRequest{Slug: strPtr("")}},
		{"bad slug", UpdatePostRequest{Slug: strPtr("Kötü Slug")}},
		{"duplicate tags", UpdatePostRequest{Tags: &[]string{"go", "GO"}}},
	}

	for _, c := range cases {
		if err := c.req.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", c.name)
		}
	}
}
