package httpx

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/target/ims-ui/internal/http/ui/viewmodel"
)

// flashCookieName carries a one-shot message across a redirect.
const flashCookieName = "ims_flash"

const (
	flashSuccess = "success"
	flashError   = "error"
)

// setFlash stores a message to be shown on the next rendered page.
func setFlash(w http.ResponseWriter, f viewmodel.Flash, domain string, secure bool) {
	raw, err := json.Marshal(f)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		Domain:   domain,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   60,
	})
}

// consumeFlash returns the pending message, if any, and clears it.
// A cookie that does not decode is dropped silently.
func consumeFlash(w http.ResponseWriter, r *http.Request, domain string) *viewmodel.Flash {
	c, err := r.Cookie(flashCookieName)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		Domain:   domain,
		HttpOnly: true,
		MaxAge:   -1,
	})

	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var f viewmodel.Flash
	if err := json.Unmarshal(raw, &f); err != nil || f.Message == "" {
		return nil
	}
	if f.Kind != flashSuccess {
		f.Kind = flashError
	}
	return &f
}
