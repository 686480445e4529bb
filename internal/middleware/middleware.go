package middleware

import (
	"mime"
	"net/http"
	"runtime/debug"
	"time"

	"go.uber.org/zap"
)

func ReqLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			log.Info("Входящий HTTP запрос",
				zap.String("method", r.Method),
				zap.String("url", r.URL.Path),
				zap.Int64("content_length", r.ContentLength),
			)
			next.ServeHTTP(w, r)
			log.Debug("HTTP запрос обработан",
				zap.String("method", r.Method),
				zap.String("url", r.URL.Path),
				zap.Duration("took", time.Since(started)),
			)
		})
	}
}

func MultipartValidator() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost && requiresMultipart(r.URL.Path) {
				mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
				if err != nil || mt != "multipart/form-data" {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusUnsupportedMediaType)
					w.Write([]byte(`{"success": false, "message": "Неверный Content-Type, ожидается multipart/form-data"}`))
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requiresMultipart(path string) bool {
	endpoints := map[string]bool{
		"/api/convert":      true,
		"/api/docx-to-html": true,
	}

	return endpoints[path]
}

// BodyLimit ограничивает размер тела запроса. Превышение всплывает
// как *http.MaxBytesError при чтении тела.
func BodyLimit(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit > 0 && r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func Recovery(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.Error("Паника в обработчике запроса",
						zap.Any("error", err),
						zap.String("stack", string(debug.Stack())),
						zap.String("url", r.URL.Path),
						zap.String("method", r.Method),
					)

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte(`{"success": false, "message": "Внутренняя ошибка сервера"}`))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
