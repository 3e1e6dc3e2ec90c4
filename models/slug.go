package models

import "strings"

// turkishToASCII, Türkçe karakterleri ASCII karşılıklarına indirger.
// Slug'lar URL'de ASCII kalmalı — "ğüşıöç" gibi karakterler route
// eşleşmelerinde ve eski tarayıcılarda sorun çıkarır.
var turkishToASCII = map[rune]rune{
	'ç': 'c', 'Ç': 'c',
	'ğ': 'g', 'Ğ': 'g',
	'ı': 'i', 'İ': 'i',
	'ö': 'o', 'Ö': 'o',
	'ş': 's', 'Ş': 's',
	'ü': 'u', 'Ü': 'u',
}

// Slugify, başlık/isim metninden URL-safe slug türetir.
// "Go ile Web Geliştirme" → "go-ile-web-gelistirme".
//
// Deterministiktir (aynı girdi → aynı çıktı) ve idempotenttir
// (Slugify(Slugify(x)) == Slugify(x)) — güncellemelerde slug'ın
// kararlı kalması bu iki özelliğe dayanır.
//
// Kurallar:
//   - Türkçe karakterler ASCII'ye indirgenir
//   - Harf ve rakam dışındaki her karakter dizisi tek '-' olur
//   - Baştaki/sondaki '-' karakterleri atılır
//   - Sonuç tamamen küçük harftir
//
// Boş veya hiç alfanumerik içermeyen girdi boş string döner —
// çağıran taraf (service) bunu validation hatası olarak ele alır.
func Slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lastDash := true // baştaki '-' üretimini engeller
	for _, r := range s {
		if mapped, ok := turkishToASCII[r]; ok {
			r = mapped
		}
		switch {
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r - 'A' + 'a')
			lastDash = false
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}

// IsValidSlug, kullanıcı tarafından elle gönderilen slug'ın geçerli
// formda olup olmadığını kontrol eder: küçük harf/rakam blokları,
// aralarında tek '-'.
func IsValidSlug(s string) bool {
	return s != "" && Slugify(s) == s
}
