package main

import (
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rehoy/torre/game"
	"github.com/rehoy/torre/logger"
	"github.com/rehoy/torre/server"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	lg := logger.NewLogger("torre.log")
	lg.SetToPrintToTerminal()
	go lg.StartLogger()
	defer lg.Close()

	manager := game.NewManager()
	srv := server.New(manager, lg)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", srv.WsHandler)

	// Serve the client bundle from /public, with index.html fallback.
	distDir := "./public"
	fs := http.FileServer(http.Dir(distDir))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(distDir, r.URL.Path)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			fs.ServeHTTP(w, r)
			return
		}
		http.ServeFile(w, r, filepath.Join(distDir, "index.html"))
	})

	lg.Logf("server running on port %s", port)
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Fatal(err)
	}
}
