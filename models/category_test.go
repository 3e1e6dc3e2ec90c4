package models

import (
	"strings"
	"testing"
)

func TestCreateCategoryRequestValidate(t *testing.T) {
	req := CreateCategoryRequest{Name: "  Web Geliştirme  ", Description: "  Frontend ve backend  "}
	if err := req.Validate(); err != nil {
		t.Fatalf("valid category rejected: %v", err)
	}
	if req.Name != "Web Geliştirme" {
		t.Fatalf("name not trimmed: %q", req.Name)
	}
	if req.Description != "Frontend ve backend" {
		t.Fatalf("description not trimmed: %q", req.Description)
	}

	// Türkçe harfler ve alt çizgi/tire geçerli
	ok := CreateCategoryRequest{Name: "Kişisel_Notlar-2024"}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unicode name rejected: %v", err)
	}
}

func TestCreateCategoryRequestValidateRejects(t *testing.T) {
	cases := []struct {
		name string
		req  CreateCategoryRequest
	}{
		{"empty name", CreateCategoryRequest{Name: "   "}},
		{"long name", CreateCategoryRequest{Name: strings.Repeat("a", 101)}},
		{"invalid chars", CreateCategoryRequest{Name: "Go & Web"}},
		// Sadece tire/alt çizgiden slug türetilemez
		{"unsluggable name", CreateCategoryRequest{Name: "---"}},
		{"long description", CreateCategoryRequest{Name: "Go", Description: strings.Repeat("d", 501)}},
	}

	for _, c := range cases {
		if err := c.req.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", c.name)
		}
	}
}

func TestUpdateCategoryRequestValidate(t *testing.T) {
	if err := (&UpdateCategoryRequest{}).Validate(); err != nil {
		t.Fatalf("empty update rejected: %v", err)
	}

	name := " Genel "
	desc := ""
	req := UpdateCategoryRequest{Name: &name, Description: &desc}
	if err := req.Validate(); err != nil {
		t.Fatalf("valid update rejected: %v", err)
	}
	if *req.Name != "Genel" {
		t.Fatalf("name not trimmed: %q", *req.Name)
	}

	bad := "!!!"
	if err := (&UpdateCategoryRequest{Name: &bad}).Validate(); err == nil {
		t.Fatal("expected error for unsluggable name")
	}
}
