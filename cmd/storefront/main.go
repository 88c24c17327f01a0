package main

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/steadybroo69-afk/gym/internal/admin"
	"github.com/steadybroo69-afk/gym/internal/cart"
	"github.com/steadybroo69-afk/gym/internal/catalog"
	"github.com/steadybroo69-afk/gym/internal/checkout"
	"github.com/steadybroo69-afk/gym/internal/config"
	"github.com/steadybroo69-afk/gym/internal/engagement"
	"github.com/steadybroo69-afk/gym/internal/imaging"
	"github.com/steadybroo69-afk/gym/internal/mailer"
	"github.com/steadybroo69-afk/gym/internal/marketing"
	"github.com/steadybroo69-afk/gym/internal/promo"
	"github.com/steadybroo69-afk/gym/internal/repository"
	"github.com/steadybroo69-afk/gym/internal/server"
	"github.com/steadybroo69-afk/gym/internal/shipping"
	"github.com/steadybroo69-afk/gym/internal/waitlist"
	"github.com/steadybroo69-afk/gym/internal/webhook"
	"github.com/steadybroo69-afk/gym/pkg/breaker"
	"github.com/steadybroo69-afk/gym/pkg/logx"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logx.Fatal().Err(err).Msg("load config")
	}
	logx.Init(logx.LoggerOpts{Environment: cfg.Env()})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := repository.RunMigrations(cfg.PostgresURL); err != nil {
		logx.Fatal().Err(err).Msg("run migrations")
	}
	pool, err := repository.Connect(ctx, cfg.PostgresURL)
	if err != nil {
		logx.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logx.Fatal().Err(err).Msg("connect redis")
	}
	defer rdb.Close()

	promoRepo := repository.NewPromoRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	waitlistRepo := repository.NewWaitlistRepository(pool)
	subscriberRepo := repository.NewSubscriberRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	products := catalog.Default()
	carts := cart.NewService(cart.NewRedisStore(rdb))

	promos := promo.NewService(promoRepo)
	promos.SeedDefaults(ctx)

	sender := mailer.NewClient(cfg.MailAPIURL, cfg.MailAPIKey, cfg.SenderEmail)
	mail := mailer.NewService(sender, cfg.SenderEmail)
	hooks := webhook.NewNotifier(cfg.SignupWebhookURL, cfg.GiveawayWebhookURL)

	waitlists := waitlist.NewService(waitlistRepo, mail)

	gateway := checkout.NewGateway(cfg.PaymentGatewayURL, cfg.PaymentAPIKey, breaker.New[[]byte]("payment-gateway"))
	checkouts := checkout.NewService(carts, promos, orderRepo, gateway, mail, waitlists)

	shippingClient := shipping.NewClient(cfg.ShippingRatesURL, cfg.ShippingAPIKey, breaker.New[[]byte]("shipping-rates"))

	campaigns := marketing.NewService(subscriberRepo, userRepo, waitlistRepo, hooks, sender, cfg.SenderEmail)

	engagementStore := engagement.NewRedisStore(rdb)
	spots := engagement.NewSpotsCounter(engagementStore)
	popups := map[string]*engagement.PopupPolicy{
		"giveaway":     engagement.NewSelfManaged(engagementStore),
		"early-access": engagement.NewExternallyControlled(engagementStore),
	}

	sanitizer := imaging.NewSanitizer(
		cfg.PublicBaseURL+"/api/images/sanitized",
		imaging.WithProxy(func(originalURL string) string {
			return cfg.PublicBaseURL + "/api/proxy-image?url=" + url.QueryEscape(originalURL)
		}),
	)

	auth := admin.NewAuth(cfg.AdminPassword)
	stats := admin.NewStatsService(admin.Counters{
		Users:       userRepo,
		Subscribers: subscriberRepo,
		Orders:      orderRepo,
		Waitlist:    waitlistRepo,
	})

	router := server.NewRouter(server.Handlers{
		Catalog:  server.NewCatalogHandler(products),
		Cart:     server.NewCartHandler(carts, products),
		Promo:    server.NewPromoHandler(promos),
		Checkout: server.NewCheckoutHandler(checkouts),
		Orders:   server.NewOrdersHandler(orderRepo),
		Images:   server.NewImageHandler(sanitizer),
		Waitlist: server.NewWaitlistHandler(waitlists, spots),
		Popups:   server.NewPopupHandler(popups),
		Emails:   server.NewEmailsHandler(campaigns),
		Shipping: server.NewShippingHandler(shippingClient),
		Hooks:    server.NewHooksHandler(hooks),
		Admin: server.NewAdminHandler(
			auth, stats, userRepo, subscriberRepo, orderRepo,
			waitlists, campaigns, shippingClient,
		),
	})

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logx.Info().Str("addr", cfg.HTTPAddr).Msg("storefront starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	logx.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logx.Error().Err(err).Msg("forced shutdown")
		os.Exit(1)
	}
}
