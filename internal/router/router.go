package router

import (
	"context"
	"net/http"

	mem "taara-rescue/internal/adapters/storage/memory"
	mongostore "taara-rescue/internal/adapters/storage/mongo"
	"taara-rescue/internal/config"
	"taara-rescue/internal/domain/animals"
	"taara-rescue/internal/domain/applications"
	"taara-rescue/internal/domain/events"
	"taara-rescue/internal/domain/geocode"
	"taara-rescue/internal/domain/rescue"
	"taara-rescue/internal/domain/users"
	"taara-rescue/internal/middleware"
	"taara-rescue/internal/platform/logging"
	"taara-rescue/internal/ports/auth"
	"taara-rescue/internal/ports/geocoding"
	"taara-rescue/internal/upload"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.mongodb.org/mongo-driver/mongo"
)

// seedAdmins son las cuentas iniciales del panel. Se crean solo si no
// existen; las passwords se cambian desde el panel después del primer
// login.
var seedAdmins = []users.SeedAccount{
	{Username: "admin1", Password: "Admin1Pass!"},
	{Username: "admin2", Password: "Admin2Pass!"},
	{Username: "admin3", Password: "Admin3Pass!"},
}

type Options struct {
	Cfg    config.Config
	Logger zerolog.Logger

	// Opcional: si viene, usa MongoDB. Si no, in-memory.
	DB *mongo.Database

	Verifier auth.TokenVerifier // puede ser nil (modo dev)
	Issuer   users.TokenIssuer
	Geocoder geocoding.Geocoder
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(logging.Requests(opts.Logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Use(middleware.AuthContext(opts.Verifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var (
		animalRepo      animals.Repository
		eventRepo       events.Repository
		userRepo        users.Repository
		applicationRepo applications.Repository
		rescueRepo      rescue.Repository
	)

	if opts.DB != nil {
		animalRepo = mongostore.NewAnimalRepo(opts.DB)
		eventRepo = mongostore.NewEventRepo(opts.DB)
		userRepo = mongostore.NewUserRepo(opts.DB)
		applicationRepo = mongostore.NewApplicationRepo(opts.DB)
		rescueRepo = mongostore.NewRescueRepo(opts.DB)
	} else {
		animalRepo = mem.NewAnimalRepo()
		eventRepo = mem.NewEventRepo()
		userRepo = mem.NewUserRepo()
		applicationRepo = mem.NewApplicationRepo()
		rescueRepo = mem.NewRescueRepo()
	}

	// Services por módulo
	animalsSvc := animals.NewService(animalRepo)
	eventsSvc := events.NewService(eventRepo)
	usersSvc := users.NewService(userRepo)
	applicationsSvc := applications.NewService(applicationRepo)
	rescueSvc := rescue.NewService(rescueRepo)

	uploads := upload.NewStore(opts.Cfg.UploadDir)

	if opts.Cfg.SeedAdmins {
		if err := usersSvc.EnsureSeedAdmins(context.Background(), seedAdmins); err != nil {
			opts.Logger.Error().Err(err).Msg("seed admins")
		}
	}

	r.Route("/api", func(api chi.Router) {
		rescue.RegisterRoutes(api, rescueSvc, uploads)
		animals.RegisterRoutes(api, animalsSvc, uploads)
		events.RegisterRoutes(api, eventsSvc)
		applications.RegisterRoutes(api, applicationsSvc)
		users.RegisterRoutes(api, usersSvc, opts.Issuer)
		if opts.Geocoder != nil {
			geocode.RegisterRoutes(api, opts.Geocoder)
		}
	})

	// Fotos subidas desde los formularios públicos
	fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.Cfg.UploadDir)))
	r.Get("/uploads/*", fs.ServeHTTP)

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return r
}
