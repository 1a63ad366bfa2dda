package main

import (
	_ "embed"
	"html/template"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/starfall/internal/config"
	"github.com/tomz197/starfall/internal/storage"
)

const (
	defaultHost   = "0.0.0.0"
	defaultPort   = "8080"
	defaultDBPath = "/app/data/starfall.db"
	topRunsLimit  = 10
)

//go:embed index.html
var htmlPage string

var pageTemplate = template.Must(template.New("index").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(htmlPage))

// pageData is what the landing page renders.
type pageData struct {
	SSHHost   string
	SSHPort   string
	HighScore int
	Runs      []storage.RunEntry
}

// landing serves the connect instructions and the current scores.
type landing struct {
	store   storage.ScoreStore
	sshHost string
	sshPort string
	logger  *log.Logger
}

func (l *landing) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	data := pageData{SSHHost: l.sshHost, SSHPort: l.sshPort}

	high, err := l.store.Load()
	if err != nil {
		l.logger.Warn("failed to load high score", "err", err)
	}
	data.HighScore = high

	if rec, ok := l.store.(storage.RunRecorder); ok {
		runs, err := rec.TopRuns(topRunsLimit)
		if err != nil {
			l.logger.Warn("failed to load runs", "err", err)
		}
		data.Runs = runs
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		l.logger.Error("failed to render page", "err", err)
	}
}

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "starfall-web",
	})

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")
	sshPort := config.GetEnv("SSH_PORT", "2222")
	dbPath := config.GetEnv("STARFALL_DB", defaultDBPath)

	store, err := storage.Open(dbPath)
	if err != nil {
		logger.Fatal("failed to open score store", "err", err)
	}
	defer store.Close()

	mux := http.NewServeMux()
	mux.Handle("/", &landing{
		store:   store,
		sshHost: sshHost,
		sshPort: sshPort,
		logger:  logger,
	})

	addr := net.JoinHostPort(host, port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting web server", "addr", "http://"+addr)
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal("server error", "err", err)
	}
}
