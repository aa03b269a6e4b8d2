package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"synapse/docs" //this is required to generate swagger docs
	"synapse/internal/auth"
	"synapse/internal/domain/accommodations"
	"synapse/internal/mailer"
	"synapse/internal/payments"
	"synapse/internal/ratelimiter"
	"synapse/internal/store"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type application struct {
	config        config
	store         store.Storage
	logger        *zap.SugaredLogger
	cld           *cloudinary.Cloudinary
	mailer        mailer.Client
	authenticator auth.Authenticator
	payments      payments.Gateway
	pricing       accommodations.PricingConfig
	rateLimiter   ratelimiter.Limiter
}

type config struct {
	addr        string
	db          dbConfig
	env         string
	apiURL      string
	frontendURL string
	auth        authConfig
	razorpay    razorpayConfig
	mail        mailConfig
	rateLimiter ratelimiter.Config
}

type authConfig struct {
	basic basicConfig
	token tokenConfig
}

type tokenConfig struct {
	secret        string
	refreshSecret string
	iss           string
}

type basicConfig struct {
	user string
	pass string
}

type razorpayConfig struct {
	keyID     string
	keySecret string
}

type mailConfig struct {
	fromEmail string
	mailtrap  mailTrapConfig
}

type mailTrapConfig struct {
	apiKey string
}

type dbConfig struct {
	addr        string
	maxConns    int32
	maxIdleTime string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(app.RateLimiterMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Request-scoped timeout; handlers below also set tighter per-query timeouts.
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.With(app.BasicAuthMiddleware()).Get("/health", app.healthCheckHandler)
		docsURL := fmt.Sprintf("%s/swagger/doc.json", app.config.addr)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))

		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

		// Public site data
		r.Route("/events", func(r chi.Router) {
			r.Get("/", app.listEventsHandler)
			r.Get("/{eventID}", app.getEventHandler)
		})
		r.Get("/categories", app.listCategoriesHandler)
		r.Get("/artists", app.listArtistsHandler)
		r.Get("/concerts", app.listConcertsHandler)
		r.Get("/sponsors", app.listSponsorsHandler)
		r.Route("/merchandise", func(r chi.Router) {
			r.Get("/", app.listProductsHandler)
			r.Get("/{productID}", app.getProductHandler)
		})

		// Payment flows (guest checkout allowed, so no auth middleware)
		r.Route("/accommodation", func(r chi.Router) {
			r.Post("/create-order", app.createAccommodationOrderHandler)
			r.Post("/verify", app.verifyAccommodationPaymentHandler)
		})
		r.Route("/registrations", func(r chi.Router) {
			r.Post("/create-order", app.createRegistrationOrderHandler)
			r.Post("/verify", app.verifyRegistrationPaymentHandler)
		})
		r.Route("/store/orders", func(r chi.Router) {
			r.Post("/create-order", app.createMerchOrderHandler)
			r.Post("/verify", app.verifyMerchPaymentHandler)
		})

		// Public routes
		r.Route("/authentication", func(r chi.Router) {
			r.Post("/user", app.registerUserHandler)
			r.Post("/token", app.createTokenHandler)
			r.Post("/refresh", app.refreshTokenHandler)
		})

		// Admin dashboard
		r.Route("/admin", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Use(app.RequireAdmin)

			r.Get("/overview", app.adminOverviewHandler)
			r.Get("/stats/daily", app.adminDailyStatsHandler)
			r.Get("/analytics/traffic", app.adminTrafficHandler)

			r.Route("/events", func(r chi.Router) {
				r.Post("/", app.createEventHandler)
				r.Patch("/{eventID}", app.updateEventHandler)
				r.Delete("/{eventID}", app.deleteEventHandler)
			})
			r.Route("/categories", func(r chi.Router) {
				r.Post("/", app.createCategoryHandler)
				r.Put("/{categoryID}", app.updateCategoryHandler)
				r.Delete("/{categoryID}", app.deleteCategoryHandler)
			})
			r.Route("/artists", func(r chi.Router) {
				r.Post("/", app.createArtistHandler)
				r.Get("/{artistID}", app.getArtistHandler)
				r.Put("/{artistID}", app.updateArtistHandler)
				r.Delete("/{artistID}", app.deleteArtistHandler)
				r.Post("/{artistID}/image", app.uploadArtistImageHandler)
			})
			r.Route("/concerts", func(r chi.Router) {
				r.Post("/", app.createConcertHandler)
				r.Get("/{concertID}", app.getConcertHandler)
				r.Put("/{concertID}", app.updateConcertHandler)
				r.Delete("/{concertID}", app.deleteConcertHandler)
			})
			r.Route("/sponsors", func(r chi.Router) {
				r.Post("/", app.createSponsorHandler)
				r.Put("/{sponsorID}", app.updateSponsorHandler)
				r.Delete("/{sponsorID}", app.deleteSponsorHandler)
				r.Patch("/reorder", app.reorderSponsorsHandler)
			})
			r.Route("/merchandise", func(r chi.Router) {
				r.Get("/", app.adminListProductsHandler)
				r.Post("/", app.createProductHandler)
				r.Put("/{productID}", app.updateProductHandler)
				r.Delete("/{productID}", app.deleteProductHandler)
				r.Get("/orders", app.adminListMerchOrdersHandler)
			})
			r.Route("/registrations", func(r chi.Router) {
				r.Get("/", app.adminListRegistrationsHandler)
				r.Get("/summary", app.adminRevenueSummaryHandler)
				r.Get("/export", app.exportRegistrationsHandler)
				r.Get("/gateway-charges", app.listGatewayChargesHandler)
				r.Patch("/gateway-charges", app.updateGatewayChargesHandler)
			})
			r.Get("/accommodation/bookings", app.adminListBookingsHandler)
		})
	})
	return r
}

func (app *application) run(mux http.Handler) error {
	// Docs
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.apiURL
	docs.SwaggerInfo.BasePath = "/v1"

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	// Graceful shutdown
	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
