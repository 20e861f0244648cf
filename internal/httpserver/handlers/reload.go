package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/shelf/internal/logger"
	"github.com/MrSnakeDoc/shelf/internal/utils"
)

// Reload triggers a manual import of the seed library file.
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		client := logger.String("client_ip", utils.ClientIP(r, d.TrustProxy))
		if d.ReloadTrigger == nil {
			writeError(w, d, http.StatusNotFound, "seed library not configured")
			return
		}

		select {
		case d.ReloadTrigger <- struct{}{}:
			d.Logger.Info("manual seed reload requested", client)
			writeJSON(w, d, http.StatusAccepted, map[string]string{"status": "reload triggered"})
		default:
			d.Logger.Warn("seed reload already pending", client)
			writeError(w, d, http.StatusTooManyRequests, "a reload is already pending")
		}
	}
}
