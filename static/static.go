// Package static, React frontend build çıktısını binary'ye gömer ve servis eder.
//
// Build sırasında client/dist/ içeriği static/dist/ dizinine kopyalanır,
// ardından Go derleyicisi bu dosyaları binary'ye gömer. Tek binary deploy:
// frontend için ayrı bir web server (nginx vb.) gerekmez.
//
// Development modunda dist/ içi boş olabilir (.gitkeep) —
// bu durumda Vite dev server frontend'i servis eder.
package static

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"
)

// FrontendFS, dist/ dizinindeki frontend build dosyalarını içerir.
// "all:" prefix'i .gitkeep gibi nokta ile başlayan dosyaları da dahil eder.
//
//go:embed all:dist
var FrontendFS embed.FS

// Handler, gömülü frontend'i servis eden http.Handler döner.
//
// SPA fallback: dist/ içinde karşılığı olmayan her path index.html'e düşer.
// React Router routing'i tarayıcıda yapar — /posts/merhaba-dunya gibi bir
// URL sunucuda dosya olarak YOKTUR; index.html yüklenir ve router devralır.
// Asset'ler (/assets/index-*.js gibi) normal dosya olarak servis edilir.
func Handler() http.Handler {
	dist, err := fs.Sub(FrontendFS, "dist")
	if err != nil {
		// go:embed directive'i dist/ dizinini compile-time'da garanti eder.
		panic(err)
	}

	fileServer := http.FileServer(http.FS(dist))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/")

		// Eşleşmeyen /api path'leri SPA'ya düşmemeli — index.html yerine 404.
		// Yoksa yanlış yazılmış bir API çağrısı 200 + HTML döner ve client
		// tarafında anlaşılmaz JSON parse hatalarına dönüşür.
		if strings.HasPrefix(path, "api/") {
			http.NotFound(w, r)
			return
		}

		// İstenen path embed'de gerçek bir dosyaysa doğrudan servis et.
		if path != "" {
			if f, openErr := dist.Open(path); openErr == nil {
				info, statErr := f.Stat()
				f.Close()
				if statErr == nil && !info.IsDir() {
					fileServer.ServeHTTP(w, r)
					return
				}
			}
		}

		// SPA fallback — index.html'i servis et.
		if _, openErr := dist.Open("index.html"); openErr != nil {
			// dist/ boş (development modu) — frontend'i Vite servis ediyor.
			http.NotFound(w, r)
			return
		}
		r.URL.Path = "/"
		fileServer.ServeHTTP(w, r)
	})
}
