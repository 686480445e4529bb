package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/sunr3d/html-inliner/internal/archive"
	"github.com/sunr3d/html-inliner/internal/config"
	"github.com/sunr3d/html-inliner/internal/infra/gateway"
	"github.com/sunr3d/html-inliner/internal/interfaces/services"
	"github.com/sunr3d/html-inliner/internal/services/converter_service"
)

const (
	archiveField  = "zipFile"
	documentField = "docxFile"
)

type ConverterAPI struct {
	service services.ConverterService
	logger  *zap.Logger
	cfg     *config.Config
}

func New(service services.ConverterService, logger *zap.Logger, cfg *config.Config) *ConverterAPI {
	return &ConverterAPI{
		service: service,
		logger:  logger,
		cfg:     cfg,
	}
}

// POST /api/convert
func (h *ConverterAPI) ConvertArchive(w http.ResponseWriter, r *http.Request) {
	data, name, status, err := h.readUpload(r, archiveField)
	if err != nil {
		h.writeJSON(w, status, conversionResp{Message: err.Error()})
		return
	}
	if !strings.HasSuffix(strings.ToLower(name), ".zip") {
		h.writeJSON(w, http.StatusBadRequest, conversionResp{Message: "Загруженный файл должен быть ZIP архивом"})
		return
	}

	result, err := h.service.ConvertArchive(r.Context(), data)
	if err != nil {
		h.logger.Error("ошибка обработки ZIP архива", zap.String("file", name), zap.Error(err))
		h.writeJSON(w, statusFor(err), conversionResp{
			Message: fmt.Sprintf("Ошибка обработки ZIP архива: %s", err.Error()),
		})
		return
	}

	h.writeJSON(w, http.StatusOK, conversionResp{
		Success: true,
		Message: "HTML успешно обработан",
		Data:    result,
	})
}

// POST /api/docx-to-html
func (h *ConverterAPI) ConvertDocument(w http.ResponseWriter, r *http.Request) {
	data, name, status, err := h.readUpload(r, documentField)
	if err != nil {
		h.writeJSON(w, status, conversionResp{Message: err.Error()})
		return
	}
	if !strings.HasSuffix(strings.ToLower(name), ".docx") {
		h.writeJSON(w, http.StatusBadRequest, conversionResp{Message: "Загруженный файл должен быть DOCX документом"})
		return
	}

	result, err := h.service.ConvertDocument(r.Context(), data, name)
	if err != nil {
		h.logger.Error("ошибка обработки DOCX документа", zap.String("file", name), zap.Error(err))
		h.writeJSON(w, statusFor(err), conversionResp{
			Message: fmt.Sprintf("Ошибка обработки DOCX документа: %s", err.Error()),
		})
		return
	}

	h.writeJSON(w, http.StatusOK, conversionResp{
		Success: true,
		Message: "DOCX успешно обработан",
		Data:    result,
	})
}

// GET /api/health
func (h *ConverterAPI) Health(w http.ResponseWriter, r *http.Request) {
	active, err := h.service.ActiveWorkspaces(r.Context())
	if err != nil {
		h.logger.Warn("не удалось получить количество активных конвертаций", zap.Error(err))
	}

	h.writeJSON(w, http.StatusOK, healthResp{
		Status:           "OK",
		Message:          "API работает",
		ActiveWorkspaces: active,
	})
}

// Вспомогательные функции
func (h *ConverterAPI) readUpload(r *http.Request, field string) ([]byte, string, int, error) {
	if err := r.ParseMultipartForm(h.cfg.MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "", http.StatusRequestEntityTooLarge,
				fmt.Errorf("Файл превышает допустимый размер %d байт", tooLarge.Limit)
		}
		return nil, "", http.StatusBadRequest, fmt.Errorf("Некорректный multipart запрос: %v", err)
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, "", http.StatusBadRequest, fmt.Errorf("Файл не загружен: ожидается поле %q", field)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", http.StatusBadRequest, fmt.Errorf("Не удалось прочитать загруженный файл: %v", err)
	}

	return data, header.Filename, http.StatusOK, nil
}

func (h *ConverterAPI) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("ошибка кодирования JSON ответа", zap.Error(err))
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, converter_service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, archive.ErrExtraction), errors.Is(err, archive.ErrNoDocument):
		return http.StatusUnprocessableEntity
	case errors.Is(err, gateway.ErrGateway):
		return http.StatusBadGateway
	case errors.Is(err, converter_service.ErrServerBusy):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
