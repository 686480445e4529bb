package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/sunr3d/html-inliner/internal/config"
	"github.com/sunr3d/html-inliner/internal/middleware"
)

func NewRouter(controller *ConverterAPI, cfg *config.Config, log *zap.Logger) http.Handler {
	router := mux.NewRouter()

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/convert", controller.ConvertArchive).Methods(http.MethodPost)
	api.HandleFunc("/docx-to-html", controller.ConvertDocument).Methods(http.MethodPost)
	api.HandleFunc("/health", controller.Health).Methods(http.MethodGet)

	router.Use(
		middleware.Recovery(log),
		middleware.ReqLogger(log),
		middleware.BodyLimit(cfg.MaxUploadSize),
		middleware.MultipartValidator(),
	)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})

	return c.Handler(router)
}
