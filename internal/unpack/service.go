package unpack

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/ytget/vrca-downloader/internal/model"
	"github.com/ytget/vrca-downloader/internal/platform"
	"github.com/ytget/vrca-downloader/internal/vrchat"
)

// AssetRipper endpoints and form fields
const (
	LocalHost      = "127.0.0.1"
	ResetPath      = "/Reset"
	LoadFilePath   = "/LoadFile"
	ExportPath     = "/Export/UnityProject"
	PathFormField  = "path"
	FormMediaType  = "application/x-www-form-urlencoded"
	drainBodyLimit = 4096
)

// Per-call timeouts
const (
	DefaultResetTimeout  = 2 * time.Second
	DefaultLoadTimeout   = 20 * time.Second
	DefaultExportTimeout = 30 * time.Second
)

// Service talks to AssetRipper over its local HTTP interface
type Service struct {
	httpClient    *http.Client
	logger        *slog.Logger
	host          string
	resetTimeout  time.Duration
	loadTimeout   time.Duration
	exportTimeout time.Duration
}

// NewService creates a new unpack service
func NewService(httpClient *http.Client, logger *slog.Logger) *Service {
	if httpClient == nil {
		httpClient = vrchat.NewHTTPClient()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		httpClient:    httpClient,
		logger:        logger,
		host:          LocalHost,
		resetTimeout:  DefaultResetTimeout,
		loadTimeout:   DefaultLoadTimeout,
		exportTimeout: DefaultExportTimeout,
	}
}

// BaseURL returns the service address for port
func (s *Service) BaseURL(port string) string {
	return "http://" + net.JoinHostPort(s.host, strings.TrimSpace(port))
}

// Run implements Unpacker
func (s *Service) Run(ctx context.Context, filePath, port string) model.UnpackResult {
	outputDir := platform.UnpackDirFor(filePath)
	result := model.UnpackResult{OutputDir: outputDir}

	if err := platform.CreateDirectoryIfNotExists(outputDir); err != nil {
		return s.fail(result, model.NewError(model.KindUnpackError, "create output directory", err))
	}

	base := s.BaseURL(port)
	s.logger.Info("unpack started", "file", filePath, "output", outputDir, "service", base)

	if _, err := s.post(ctx, base+ResetPath, nil, s.resetTimeout); err != nil {
		s.logger.Debug("reset ignored", "error", err)
	}

	status, err := s.post(ctx, base+LoadFilePath, url.Values{PathFormField: {filePath}}, s.loadTimeout)
	if err != nil {
		return s.fail(result, classify("load file", err))
	}
	s.logger.Debug("file loaded", "status", status)

	status, err = s.post(ctx, base+ExportPath, url.Values{PathFormField: {outputDir}}, s.exportTimeout)
	if err != nil {
		return s.fail(result, classify("export project", err))
	}

	result.StatusCode = status
	if status >= 200 && status < 400 {
		result.State = model.FlowUnpackOk
		s.logger.Info("unpack finished", "output", outputDir, "status", status)
		return result
	}

	result.State = model.FlowUnpackWarning
	result.Err = &model.Error{Kind: model.KindUnpackWarning, Op: "export project", Status: status,
		Err: fmt.Errorf("unexpected status %d", status)}
	s.logger.Warn("unpack export returned unexpected status", "status", status)
	return result
}

// post sends a form POST bounded by timeout and returns the status code
func (s *Service) post(ctx context.Context, endpoint string, form url.Values, timeout time.Duration) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	if form != nil {
		req.Header.Set("Content-Type", FormMediaType)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, drainBodyLimit))

	return resp.StatusCode, nil
}

func (s *Service) fail(result model.UnpackResult, err *model.Error) model.UnpackResult {
	switch err.Kind {
	case model.KindUnpackSkipped:
		result.State = model.FlowUnpackSkipped
		s.logger.Info("unpack service not reachable", "error", err)
	default:
		result.State = model.FlowUnpackError
		s.logger.Error("unpack failed", "error", err)
	}
	result.Err = err
	return result
}

// classify maps a transport failure to a skip when nothing listens on the
// port, and to an unpack error otherwise
func classify(op string, err error) *model.Error {
	if IsUnreachable(err) {
		return model.NewError(model.KindUnpackSkipped, op, err)
	}
	return model.NewError(model.KindUnpackError, op, err)
}

// IsUnreachable reports whether err means the service could not be
// connected to at all
func IsUnreachable(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}
