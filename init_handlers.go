// Package main — Handler katmanı başlatma.
//
// initHandlers, tüm HTTP handler'larını oluşturur.
// Her handler, ihtiyaç duyduğu service interface'lerini constructor'dan alır.
// Handler'lar "thin"dir — sadece HTTP parse + service call + response write.
package main

import (
	"github.com/akinalp/gunce/handlers"
	"github.com/akinalp/gunce/ws"
)

// Handlers, tüm handler instance'larını tutan container struct.
type Handlers struct {
	Auth     *handlers.AuthHandler
	Post     *handlers.PostHandler
	Category *handlers.CategoryHandler
	User     *handlers.UserHandler
	Stats    *handlers.StatsHandler
	WS       *ws.Handler
}

// initHandlers, tüm handler'ları service ve rate limiter dependency'leri ile oluşturur.
//
// Stats handler service yerine doğrudan repo'ları alır — salt Count()
// çağrıları için ayrı bir service katmanı gereksiz olurdu.
// WS handler'a authService, TokenValidator interface'i olarak geçer.
func initHandlers(svcs *Services, repos *Repositories, limiters *RateLimiters, hub *ws.Hub) *Handlers {
	return &Handlers{
		Auth:     handlers.NewAuthHandler(svcs.Auth, limiters.Login),
		Post:     handlers.NewPostHandler(svcs.Post),
		Category: handlers.NewCategoryHandler(svcs.Category),
		User:     handlers.NewUserHandler(svcs.User),
		Stats:    handlers.NewStatsHandler(repos.Post, repos.User, repos.Category, hub),
		WS:       ws.NewHandler(hub, svcs.Auth),
	}
}
