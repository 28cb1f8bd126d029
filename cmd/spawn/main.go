package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"spawn-admin/internal/seo_urls"
	"spawn-admin/pkg/app"
	"spawn-admin/pkg/config"
	"spawn-admin/pkg/controllers"
	"spawn-admin/pkg/handlers"
	spawnMiddleware "spawn-admin/pkg/middleware"
	"spawn-admin/pkg/module"
	"spawn-admin/pkg/status"
	"spawn-admin/pkg/version"

	_ "spawn-admin/internal/system"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "go.uber.org/automaxprocs"
)

const serviceName = "spawn"

func main() {
	displayBanner()

	versionInfo := version.Get()
	log.Printf("🏷️  Version: %s | Build: %s", version.GetVersionString(), versionInfo.BuildDate)
	log.Printf("🖥️  CPUs: %d | GOMAXPROCS: %d", runtime.NumCPU(), runtime.GOMAXPROCS(0))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appCtx, err := app.InitializeApp(ctx, serviceName, app.Options{})
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	log.Printf("💾 Memory: %s heap | %s total", humanize.IBytes(m.HeapAlloc), humanize.IBytes(m.Sys))

	seoUrlsModule, err := seo_urls.New(appCtx.MongoDB, appCtx.Redis, controllers.Default, config.GetSeoURLConfig())
	if err != nil {
		log.Fatalf("Failed to create SEO URL module: %v", err)
	}
	if err := seoUrlsModule.Initialize(ctx); err != nil {
		slog.Error("SEO URL module initialization failed", "error", err)
	}

	modules := []module.Module{seoUrlsModule}
	r := newRouter(modules, status.NewAggregator(5*time.Second, seoUrlsModule))

	for _, mod := range modules {
		go mod.StartBackgroundTasks(ctx)
	}

	port := app.GetPort("8080")
	host := config.GetHost()
	apiPrefix := config.GetAPIPrefix()

	srv := &http.Server{
		Addr:         host + ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: config.GetSeoURLConfig().RefreshTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if host == "0.0.0.0" {
		log.Printf("🚀 Server: http://localhost:%s%s | OpenAPI: %s/openapi.json", port, apiPrefix, apiPrefix)
	} else {
		log.Printf("🚀 Server: http://%s%s | OpenAPI: %s/openapi.json", srv.Addr, apiPrefix, apiPrefix)
	}

	go func() {
		slog.Info("Starting spawn admin server", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Received shutdown signal, initiating graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	for _, mod := range modules {
		mod.Stop()
	}
	cancel()

	if err := appCtx.Shutdown(shutdownCtx); err != nil {
		slog.Error("Application shutdown failed", "error", err)
	}

	slog.Info("Spawn shutdown completed successfully")
}

func newRouter(modules []module.Module, aggregator *status.Aggregator) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(spawnMiddleware.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(spawnMiddleware.CORS(spawnMiddleware.AllowedOrigins()))
	r.Use(spawnMiddleware.Tracing(serviceName))

	r.Get("/health", handlers.ServiceHealthHandler())

	api, prefixRouter := app.MountAPI(r, config.GetAPIPrefix())

	prefixRouter.Route("/modules", func(mr chi.Router) {
		for _, mod := range modules {
			mod.Routes(mr)
		}
	})
	for _, mod := range modules {
		mod.RegisterUnifiedRoutes(api)
	}
	aggregator.RegisterRoutes(api)

	return r
}

func displayBanner() {
	file, err := os.Open("banner.txt")
	if err != nil {
		printFallbackBanner()
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		printFallbackBanner()
		return
	}

	colors := []string{
		"\033[38;5;208m",
		"\033[38;5;214m",
		"\033[38;5;220m",
		"\033[38;5;214m",
		"\033[38;5;208m",
	}

	fmt.Print("\n")
	for i, line := range strings.Split(string(content), "\n") {
		if line != "" && i < len(colors) {
			fmt.Print(colors[i])
			fmt.Println(line)
		}
	}
	fmt.Print("\033[0m\n")
}

func printFallbackBanner() {
	fmt.Print("\033[38;5;208m")
	fmt.Print("SPAWN Admin Server\n")
	fmt.Print("\033[0m")
}
