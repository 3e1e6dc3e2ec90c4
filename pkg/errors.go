// Package pkg, projede paylaşılan utility'leri barındırır.
// Bu dosya domain-level error tanımlarını içerir.
//
// Service katmanı bu error'ları fmt.Errorf("%w: detay", pkg.ErrX) şeklinde
// sararak döner, handler katmanı pkg.Error ile HTTP status'a çevirir.
// Karşılaştırma errors.Is ile yapılır — wrap edilmiş error'lar da match eder:
//
//	if errors.Is(err, pkg.ErrNotFound) { ... }
package pkg

import "errors"

// Domain-level error'lar.
// Handler katmanı bu error'ları HTTP status code'larına map'ler.
var (
	ErrNotFound      = errors.New("not found")      // bilinmeyen id/slug → 404
	ErrUnauthorized  = errors.New("unauthorized")   // token yok/geçersiz, hesap deaktif → 401
	ErrForbidden     = errors.New("forbidden")      // yazar değil ve admin değil → 403
	ErrAlreadyExists = errors.New("already exists") // unique index ihlali (username, email, slug) → 409
	ErrBadRequest    = errors.New("bad request")    // validation hatası veya bozuk ObjectID → 400
	ErrInternal      = errors.New("internal error")
)
