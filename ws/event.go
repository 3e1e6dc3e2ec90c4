// Package ws, WebSocket bağlantı yönetimi ve gerçek zamanlı event dağıtımını sağlar.
//
// Mimari:
// - Hub: Tüm bağlantıları yöneten merkezi yapı (Observer pattern)
// - Client: Her WebSocket bağlantısını temsil eder
// - Event: Client-server arası iletilen mesaj formatı
//
// Event akışı:
// 1. Yazar bir post yayınlar → HTTP POST → Service → DB kayıt
// 2. Service, Hub'ın BroadcastToAll metodunu çağırır
// 3. Hub, event'i tüm bağlı client'lara iletir
// 4. Her client'ın WritePump'ı event'i WebSocket'e yazar
// 5. Frontend event'i alır ve post listesini tazeler — sayfa yenilemeye gerek kalmaz
package ws

// Event, WebSocket üzerinden iletilen bir mesajı temsil eder.
//
// Op (operation): Event türü — "post_create", "heartbeat" vb.
// Data: Event'e özgü payload — post objesi, kategori bilgisi vb.
// Seq (sequence number): Her outbound event'e verilen artan sayı.
//   Frontend eksik event tespit etmek için seq'i takip eder.
//   Örnek: seq 5'ten sonra seq 7 gelirse, 6 kaybolmuş demektir.
type Event struct {
	Op   string `json:"op"`
	Data any    `json:"d,omitempty"`
	Seq  int64  `json:"seq,omitempty"`
}

// Client → Server operasyonları
const (
	OpHeartbeat = "heartbeat" // Client her 30sn'de gönderir — "hâlâ bağlıyım" sinyali
)

// Server → Client operasyonları
const (
	OpReady        = "ready"         // Bağlantı kurulduğunda ilk gönderilen
	OpHeartbeatAck = "heartbeat_ack" // Heartbeat'e yanıt — "seni duydum"

	OpPostCreate = "post_create" // Yeni yazı yayınlandı
	OpPostUpdate = "post_update" // Yazı düzenlendi
	OpPostDelete = "post_delete" // Yazı silindi

	OpCategoryCreate = "category_create" // Yeni kategori oluşturuldu
	OpCategoryUpdate = "category_update" // Kategori düzenlendi
	OpCategoryDelete = "category_delete" // Kategori silindi
)

// ReadyData, bağlantı kurulduğunda client'a gönderilen ilk event'in payload'ı.
// Frontend bu event ile bağlantının kimlik doğrulamasından geçtiğini anlar.
type ReadyData struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// DeletedData, *_delete event'lerinin payload'ı.
// Silinen kaydın sadece ID'si gönderilir — client listeden düşürür.
type DeletedData struct {
	ID string `json:"id"`
}
