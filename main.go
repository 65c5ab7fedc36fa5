package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

var (
	appConfig         Config
	store             *GormStore
	identityService   *IdentityService
	adminGate         *AdminGate
	listingCache      *ListingCache
	submissionService *SubmissionService
	pageRouter        *PageRouter
)

func main() {
	var err error
	appConfig, err = loadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	store, err = OpenStore(appConfig.DatabasePath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	if appConfig.DatabasePath == "" {
		log.Printf("WARN: no database configured; submissions are disabled and listings are empty")
	}

	identityService = NewIdentityService(store.DB(), appConfig.BootstrapToken)
	if appConfig.BootstrapToken != "" {
		if _, err := identityService.SignInWithToken(appConfig.BootstrapToken); err != nil {
			log.Printf("WARN: bootstrap token sign-in failed: %v", err)
			identityService.SignInAnonymous()
		}
	} else {
		identityService.SignInAnonymous()
	}

	adminGate = NewAdminGate(appConfig, identityService, NewStateFile(appConfig.AdminStateFile))

	listingCache, err = NewListingCache(16, 30*time.Second)
	if err != nil {
		log.Fatalf("failed to initialize listing cache: %v", err)
	}

	submissionService = NewSubmissionService(
		store,
		appConfig.CollectionPath(),
		listingCache,
		NotifySubmission(appConfig.NotifyEmail),
	)
	pageRouter = NewPageRouter()

	r := initRouter()
	server := &http.Server{Addr: appConfig.ListenAddr, Handler: r}

	color.New(color.FgGreen, color.Bold).Printf("solecraft studio\n")
	log.Printf("Running on http://localhost%s (admin mode: %s)", appConfig.ListenAddr, gateModeName(adminGate.Mode()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("WARN: shutdown: %v", err)
	}
}

func initRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)

	allowed := appConfig.AllowedOrigins
	if len(allowed) == 0 {
		allowed = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowed,
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.Use(VisitorIdentity)

	r.Get("/", HomePage)
	r.Get("/gallery", GalleryPage)
	r.Get("/pricing", PricingPage)
	r.Get("/about", AboutPage)

	// One attempt per user action; the rate limit only guards against abuse
	// of the public forms.
	submitLimit := httprate.LimitByIP(10, time.Minute)

	r.Route("/custom", func(r chi.Router) {
		r.Get("/", CustomForm)
		r.With(submitLimit).Post("/", CustomSubmit)
	})
	r.Route("/contact", func(r chi.Router) {
		r.Get("/", ContactForm)
		r.With(submitLimit).Post("/", ContactSubmit)
	})

	r.Route("/admin", func(r chi.Router) {
		r.With(RequireAdmin).Get("/", AdminSubmissions)
		r.Post("/login", AdminLogin)
		r.Post("/logout", AdminLogout)
	})

	return r
}

func gateModeName(m GateMode) string {
	if m == ModeDelegated {
		return "delegated"
	}
	return "shared-secret"
}
