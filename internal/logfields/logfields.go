package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyLang       = "lang"
	KeySlug       = "slug"
	KeyPath       = "path"
	KeyUID        = "uid"
	KeyStrategy   = "strategy"
	KeyStore      = "store"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
	KeyMethod     = "method"
	KeyStatus     = "status"
	KeyRemoteAddr = "remote_addr"
	KeyUserAgent  = "user_agent"
	KeyRequestID  = "request_id"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Lang(lang string) slog.Attr       { return slog.String(KeyLang, lang) }
func Slug(slug string) slog.Attr       { return slog.String(KeySlug, slug) }
func Path(path string) slog.Attr       { return slog.String(KeyPath, path) }
func UID(uid string) slog.Attr         { return slog.String(KeyUID, uid) }
func Strategy(name string) slog.Attr   { return slog.String(KeyStrategy, name) }
func Store(name string) slog.Attr      { return slog.String(KeyStore, name) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Method(m string) slog.Attr        { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr        { return slog.Int(KeyStatus, code) }
func RemoteAddr(addr string) slog.Attr { return slog.String(KeyRemoteAddr, addr) }
func UserAgent(ua string) slog.Attr    { return slog.String(KeyUserAgent, ua) }
func RequestID(id string) slog.Attr    { return slog.String(KeyRequestID, id) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
