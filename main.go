// Package main, gunce backend uygulamasının giriş noktasıdır.
//
// Bu dosyanın görevi — Dependency Injection "wire-up":
//  1. Config'i yükle
//  2. MongoDB'ye bağlan, index'leri kur
//  3. Repository'leri oluştur (init_repos.go)
//  4. WebSocket Hub'ı başlat
//  5. Service'leri ve rate limiter'ları oluştur (init_services.go)
//  6. Handler'ları oluştur (init_handlers.go)
//  7. Route'ları bağla (init_routes.go)
//  8. Recover + CORS middleware'leri ile sar, HTTP server'ı başlat
//  9. Graceful shutdown
//
// Global değişken YOK — her şey bu fonksiyonda oluşturulup birbirine bağlanıyor.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/akinalp/gunce/config"
	"github.com/akinalp/gunce/database"
	"github.com/akinalp/gunce/middleware"
	"github.com/akinalp/gunce/ws"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("[main] gunce server starting...")

	// ─── 1. Config ───
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[main] failed to load config: %v", err)
	}
	log.Printf("[main] config loaded (port=%d, db=%s)", cfg.Server.Port, cfg.Database.Name)

	// ─── 2. Database ───
	// New içinde bağlantı ping ile doğrulanır ve unique/TTL index'ler kurulur.
	db, err := database.New(context.Background(), cfg.Database.URI, cfg.Database.Name)
	if err != nil {
		log.Fatalf("[main] failed to initialize database: %v", err)
	}

	// ─── 3. Repository Layer ───
	repos := initRepositories(db.Database)

	// ─── 4. WebSocket Hub ───
	//
	// Hub, tüm WebSocket bağlantılarını yöneten merkezi yapıdır.
	// `go hub.Run()` ayrı bir goroutine'de event loop başlatır:
	// register/unregister channel'larını dinler ve client map'ini günceller.
	// Hub aynı zamanda EventPublisher interface'ini implement eder —
	// service'ler hub'a doğrudan bağımlı olmak yerine interface üzerinden erişir.
	hub := ws.NewHub()
	go hub.Run()

	// ─── 5. Service Layer ───
	svcs, limiters := initServices(repos, hub, cfg)

	// ─── 6. Handler Layer ───
	h := initHandlers(svcs, repos, limiters, hub)

	// ─── 7. Routes ───
	mux := http.NewServeMux()
	initRoutes(mux, h, svcs.Auth, repos.User)

	// ─── 8. Middleware Zinciri ───
	//
	// Recover mux'u sarar: herhangi bir handler panic'lerse stack trace
	// log'lanır ve 500 döner — process ayakta kalır, sonraki istekler
	// etkilenmez. CORS en dışta: panic durumunda bile response'a CORS
	// header'ları eklenir, yoksa tarayıcı 500'ün body'sini bile okuyamaz.
	recoverMw := middleware.NewRecoverMiddleware(cfg.Debug)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.Origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := corsHandler.Handler(recoverMw.Wrap(mux))

	// ─── 9. HTTP Server ───
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ─── 10. Graceful Shutdown ───
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("[main] server listening on %s", cfg.Server.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[main] server error: %v", err)
		}
	}()

	<-done
	log.Println("[main] shutting down...")

	// Önce WebSocket bağlantılarını kapat — client'lar reconnect deneyecek.
	// Sonra HTTP server'ı kapat — yeni request kabul etmeyi durdurur,
	// mevcut request'lerin bitmesini bekler (5sn timeout).
	hub.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("[main] forced shutdown: %v", err)
	}

	// Background goroutine'leri durdur (cache cleanup, limiter cleanup),
	// en son Mongo bağlantısını kapat — request'ler drain olduktan sonra.
	svcs.Category.Close()
	limiters.Login.Stop()

	if err := db.Close(shutdownCtx); err != nil {
		log.Printf("[main] mongo disconnect error: %v", err)
	}

	log.Println("[main] server stopped gracefully")
}
