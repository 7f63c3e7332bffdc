package api

import (
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"parkingspots/internal/auth"
)

// RouterDeps collects the handlers and settings the router is built from.
type RouterDeps struct {
	Views       *ViewHandler
	Update      *UpdateHandler
	Health      *HealthHandler
	AdminAuth   *AdminAuthHandler // nil disables /admin/login
	Verifier    auth.TokenVerifier
	StaticDir   string
	CORSOrigins []string
	Logger      *zap.Logger
}

func NewRouter(d RouterDeps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := mux.NewRouter()
	r.Use(RequestLogger(logger))

	r.HandleFunc("/health", d.Health.Liveness).Methods(http.MethodGet)
	r.HandleFunc("/health/store", d.Health.Readiness).Methods(http.MethodGet)

	r.HandleFunc("/", d.Views.Home).Methods(http.MethodGet)
	r.HandleFunc("/home.html", d.Views.Home).Methods(http.MethodGet)
	r.HandleFunc("/parking.html", d.Views.Parking).Methods(http.MethodGet)
	r.HandleFunc("/map.html", d.Views.Map).Methods(http.MethodGet)
	r.HandleFunc("/update.html", d.Views.UpdateForm).Methods(http.MethodGet)

	update := r.Path("/update").Subrouter()
	update.Use(auth.AdminAuthMiddleware(d.Verifier))
	update.Methods(http.MethodPost).HandlerFunc(d.Update.UpdateAvailability)

	if d.AdminAuth != nil {
		r.HandleFunc("/admin/login", d.AdminAuth.Login).Methods(http.MethodPost)
	}

	if d.StaticDir != "" {
		if info, err := os.Stat(d.StaticDir); err == nil && info.IsDir() {
			r.PathPrefix("/").Handler(http.FileServer(http.Dir(d.StaticDir)))
		}
	}

	var h http.Handler = r
	h = handlers.CompressHandler(h)
	if len(d.CORSOrigins) > 0 {
		h = handlers.CORS(
			handlers.AllowedOrigins(d.CORSOrigins),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
			handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		)(h)
	}
	return handlers.RecoveryHandler(handlers.RecoveryLogger(zapRecoveryLogger{logger}))(h)
}

type zapRecoveryLogger struct {
	logger *zap.Logger
}

func (l zapRecoveryLogger) Println(v ...interface{}) {
	l.logger.Error("panic recovered", zap.Any("panic", v))
}
