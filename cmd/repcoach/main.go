package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/ayusman/repcoach/internal/app"
	"github.com/ayusman/repcoach/internal/exercise"
	"github.com/ayusman/repcoach/internal/server"
	"github.com/ayusman/repcoach/internal/source"
	"github.com/ayusman/repcoach/internal/store"
)

func main() {
	var (
		addr        = flag.String("addr", ":8080", "HTTP listen address")
		dbPath      = flag.String("db", "", "SQLite database path (default ~/.repcoach/repcoach.db)")
		catalogPath = flag.String("catalog", "", "exercise catalog TOML file (default built-in catalog)")
		replayPath  = flag.String("replay", "", "recorded frame log to replay")
		exerciseID  = flag.String("exercise", "squat", "exercise to track")
	)
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	fmt.Println("Repcoach - Exercise Rep Tracking")

	path := *dbPath
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}
		dbDir := filepath.Join(homeDir, ".repcoach")
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}
		path = filepath.Join(dbDir, "repcoach.db")
	}

	st, err := store.New(path)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	catalog := exercise.DefaultCatalog()
	if *catalogPath != "" {
		catalog, err = exercise.LoadCatalog(*catalogPath)
		if err != nil {
			log.Fatalf("Failed to load exercise catalog: %v", err)
		}
		log.WithField("exercises", catalog.Len()).Info("Loaded exercise catalog")
	}

	srv := server.New(server.Config{
		StaticDir: findWebDir(),
		Store:     st,
		Catalog:   catalog,
	})

	// Replay mode runs a recorded session through the pipeline, broadcasting
	// outcomes to any connected websocket clients.
	if *replayPath != "" {
		src, err := source.OpenReplay(*replayPath)
		if err != nil {
			log.Fatalf("Failed to open frame log: %v", err)
		}

		a, err := app.New(app.Config{
			Store:      st,
			Catalog:    catalog,
			ExerciseID: *exerciseID,
			Source:     src,
			Logger:     log,
		})
		if err != nil {
			log.Fatalf("Failed to initialize pipeline: %v", err)
		}
		a.OnOutcome(srv.Outcomes().Publish)

		if err := a.Start(); err != nil {
			log.Fatalf("Failed to start pipeline: %v", err)
		}
		defer a.Stop()
	}

	log.WithField("addr", *addr).Info("Starting server")
	if err := srv.ListenAndServe(*addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.repcoach/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".repcoach", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
