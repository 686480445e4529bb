package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/sunr3d/html-inliner/internal/archive"
	"github.com/sunr3d/html-inliner/internal/config"
	"github.com/sunr3d/html-inliner/internal/interfaces/infra"
	"github.com/sunr3d/html-inliner/internal/retry"
)

var _ infra.Gateway = (*gatewayClient)(nil)

type State string

const (
	StateIdle           State = "idle"
	StateUploading      State = "uploading"
	StateAwaitingResult State = "awaiting_result"
	StateDownloading    State = "downloading"
	StateDone           State = "done"
	StateFailed         State = "failed"
)

const (
	uploadPath   = "/api/convert"
	downloadPath = "/api/Download"
	outputType   = "HTML"
	userAgent    = "html-inliner/1.0"
	maxErrorBody = 512
)

type conversionOptions struct {
	UseOcr    string  `json:"UseOcr"`
	Locale    string  `json:"Locale"`
	Password  *string `json:"Password"`
	PageRange *string `json:"PageRange"`
}

type uploadResp struct {
	ID string `json:"id"`
}

type gatewayClient struct {
	baseURL    string
	locale     string
	httpClient *http.Client
	policy     retry.Policy
	logger     *zap.Logger
}

func New(log *zap.Logger, cfg *config.Config) infra.Gateway {
	c := &gatewayClient{
		baseURL:    strings.TrimRight(cfg.GatewayURL, "/"),
		locale:     cfg.GatewayLocale,
		httpClient: &http.Client{Timeout: cfg.GatewayTimeout},
		logger:     log,
	}
	c.policy = retry.Policy{
		MaxAttempts: cfg.GatewayRetries + 1,
		Delay:       cfg.GatewayRetryDelay,
		OnRetry: func(attempt int, err error) {
			c.logger.Warn("попытка конвертации не удалась, повтор",
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", cfg.GatewayRetries+1),
				zap.Duration("delay", cfg.GatewayRetryDelay),
				zap.Error(err),
			)
		},
	}

	return c
}

// Convert загружает документ и скачивает результат. Загрузка и скачивание
// повторяются вместе как одна попытка.
func (c *gatewayClient) Convert(ctx context.Context, document []byte, fileName string) ([]byte, error) {
	data, err := retry.Do(ctx, c.policy, func(ctx context.Context, attempt int) ([]byte, error) {
		return c.attempt(ctx, attempt, document, fileName)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	return data, nil
}

func (c *gatewayClient) attempt(ctx context.Context, attempt int, document []byte, fileName string) ([]byte, error) {
	log := c.logger.With(zap.String("file", fileName), zap.Int("attempt", attempt))
	state := StateIdle
	transition := func(next State) {
		log.Debug("смена состояния конвертации",
			zap.String("from", string(state)),
			zap.String("to", string(next)),
		)
		state = next
	}

	transition(StateUploading)
	log.Info("загрузка документа на конвертацию", zap.String("size", fmt.Sprintf("%.2f MB", float64(len(document))/1024/1024)))
	id, err := c.upload(ctx, document, fileName)
	if err != nil {
		transition(StateFailed)
		return nil, err
	}

	transition(StateAwaitingResult)
	log.Info("получен ID конвертации", zap.String("conversion_id", id))

	transition(StateDownloading)
	data, err := c.download(ctx, id)
	if err != nil {
		transition(StateFailed)
		return nil, err
	}

	entries, err := archive.Validate(data)
	if err != nil {
		transition(StateFailed)
		return nil, retry.Permanent(fmt.Errorf("%w: %v", ErrInvalidArchive, err))
	}

	transition(StateDone)
	log.Info("результат конвертации скачан",
		zap.String("conversion_id", id),
		zap.Int("bytes", len(data)),
		zap.Int("entries", entries),
	)

	return data, nil
}

func (c *gatewayClient) upload(ctx context.Context, document []byte, fileName string) (string, error) {
	body, contentType, err := c.uploadBody(document, fileName)
	if err != nil {
		return "", retry.Permanent(fmt.Errorf("%w: %v", ErrUploadFailed, err))
	}

	endpoint := c.baseURL + uploadPath + "?outputType=" + outputType
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return "", retry.Permanent(fmt.Errorf("%w: %v", ErrUploadFailed, err))
	}
	req.Header.Set("Content-Type", contentType)
	setCommonHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: %w %d: %s", ErrUploadFailed, ErrUnexpectedState, resp.StatusCode, readSnippet(resp.Body))
	}

	var out uploadResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResp, err)
	}
	if strings.TrimSpace(out.ID) == "" {
		return "", fmt.Errorf("%w: отсутствует ID конвертации", ErrMalformedResp)
	}

	return out.ID, nil
}

func (c *gatewayClient) uploadBody(document []byte, fileName string) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile("1", fileName)
	if err != nil {
		return nil, "", err
	}
	if _, err := fw.Write(document); err != nil {
		return nil, "", err
	}

	if err := mw.WriteField("outputFileName", base64.StdEncoding.EncodeToString([]byte(fileName))); err != nil {
		return nil, "", err
	}

	opts, err := json.Marshal(conversionOptions{UseOcr: "false", Locale: c.locale})
	if err != nil {
		return nil, "", err
	}
	if err := mw.WriteField("ConversionOptions", string(opts)); err != nil {
		return nil, "", err
	}

	if err := mw.Close(); err != nil {
		return nil, "", err
	}

	return &buf, mw.FormDataContentType(), nil
}

func (c *gatewayClient) download(ctx context.Context, id string) ([]byte, error) {
	endpoint := c.baseURL + downloadPath + "?id=" + url.QueryEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("%w: %v", ErrDownloadFailed, err))
	}
	setCommonHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %w %d: %s", ErrDownloadFailed, ErrUnexpectedState, resp.StatusCode, readSnippet(resp.Body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}

	return data, nil
}

func setCommonHeaders(req *http.Request) {
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("User-Agent", userAgent)
}

func readSnippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	return strings.TrimSpace(string(b))
}
