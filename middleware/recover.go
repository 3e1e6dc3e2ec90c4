// Package middleware — RecoverMiddleware, panic yakalama katmanı.
//
// Zincirin EN DIŞINA sarılır: handler ağacının herhangi bir yerinde
// oluşan panic yakalanır, stack trace loglanır ve client'a statik bir
// 500 JSON fallback döner. Panic olmadan tamamlanan istekler hiç
// etkilenmez.
//
// "Devam edebilme" garantisi yapısal: her request kendi state'iyle
// çalışır, panic'leyen bir istek process'i düşürmez ve bir sonraki
// istek handler'ı sıfırdan dener.
//
// Debug modu: Panic değeri sadece debug açıkken response'a girer.
// Production'da client generic mesaj görür — internal detay sızmaz,
// detay logda durur.
package middleware

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"

	"github.com/akinalp/gunce/pkg"
)

// RecoverMiddleware, panic'leri 500 JSON response'una çeviren middleware.
type RecoverMiddleware struct {
	debugMode bool
}

// NewRecoverMiddleware, constructor.
// debugMode true ise panic değeri response body'sine eklenir.
func NewRecoverMiddleware(debugMode bool) *RecoverMiddleware {
	return &RecoverMiddleware{debugMode: debugMode}
}

// Wrap, next handler'ı panic boundary ile sarar.
func (m *RecoverMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			// http.ErrAbortHandler özel bir sentinel: bağlantı zaten
			// kopmuş demektir. net/http bu panic'i sessizce yutar —
			// yeniden fırlatıp ona bırakıyoruz.
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			log.Printf("[recover] panic on %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())

			message := "something went wrong"
			if m.debugMode {
				message = fmt.Sprintf("panic: %v", rec)
			}

			// Handler panic'ten önce header yazdıysa buradaki WriteHeader
			// no-op olur — net/http "superfluous WriteHeader" loglar ama
			// process ayakta kalır
			pkg.ErrorWithMessage(w, http.StatusInternalServerError, message)
		}()

		next.ServeHTTP(w, r)
	})
}
