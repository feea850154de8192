// Command formsight runs the motion-form comparison server: it drives the
// pose frame loop over the configured sources and serves the recording and
// comparison API.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/formsight/formsight/internal/api"
	"github.com/formsight/formsight/internal/config"
	"github.com/formsight/formsight/internal/pose"
	"github.com/formsight/formsight/internal/series"
	"github.com/formsight/formsight/internal/session"
	"github.com/formsight/formsight/internal/timeutil"
)

var (
	listen       = flag.String("listen", ":8080", "Listen address")
	configPath   = flag.String("config", "", "Path to tuning config JSON (optional)")
	refFixtures  = flag.String("ref-fixtures", "", "Replay fixture file for the reference source")
	candFixtures = flag.String("cand-fixtures", "", "Replay fixture file for the candidate source")
	loopFixtures = flag.Bool("loop", true, "Loop replay fixtures when exhausted")
)

func main() {
	flag.Parse()

	if *listen == "" {
		log.Fatal("Listen address is required")
	}

	tuning := &config.TuningConfig{}
	if *configPath != "" {
		loaded, err := config.LoadTuningConfig(*configPath)
		if err != nil {
			log.Fatalf("failed to load tuning config: %v", err)
		}
		tuning = loaded
	}

	sources := make(map[series.Role]pose.Source)
	for role, path := range map[series.Role]string{
		series.Reference: *refFixtures,
		series.Candidate: *candFixtures,
	} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("failed to read fixture file for %s: %v", role, err)
		}
		src, err := pose.NewReplaySource(data, *loopFixtures)
		if err != nil {
			log.Fatalf("failed to parse fixtures for %s: %v", role, err)
		}
		sources[role] = src
	}
	if len(sources) == 0 {
		log.Print("no pose sources configured; recording endpoints will produce empty series")
	}

	sess := session.New(session.FromTuning(tuning), timeutil.RealClock{}, sources)
	defer func() {
		if err := sess.Close(); err != nil {
			log.Printf("failed to close session: %v", err)
		}
	}()
	log.Printf("session %s started", sess.ID())

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// frame loop
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := sess.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("frame loop terminated: %v", err)
		}
		log.Print("frame loop stopped")
	}()

	// HTTP server
	server := &http.Server{
		Addr:    *listen,
		Handler: api.LoggingMiddleware(api.NewServer(sess, tuning).ServeMux()),
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("listening on %s", *listen)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server terminated: %v", err)
		}
	}()

	<-ctx.Done()
	log.Print("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}

	wg.Wait()
}
