package handler

import (
	"io/fs"
	"net/http"

	"github.com/gorilla/websocket"

	"shopreco/internal/app/console"
	"shopreco/internal/pkg/logx"
)

// HandleConsolePage serves the page shell.
func HandleConsolePage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := fs.ReadFile(console.Assets(), "index.html")
		if err != nil {
			logx.Error(err, "Console page missing from embedded assets")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	}
}

// HandleConsoleAssets serves /static/* from the embedded assets.
func HandleConsoleAssets() http.Handler {
	return http.StripPrefix("/static/", http.FileServer(http.FS(console.Assets())))
}

// HandleConsoleSocket upgrades the request and runs a console page on it until the
// browser disconnects.
func HandleConsoleSocket(hub *console.Hub, upgrader websocket.Upgrader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		hub.Serve(conn)
	}
}
