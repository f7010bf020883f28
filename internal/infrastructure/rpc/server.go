package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"gateway-console/internal/application/usecases"
	"gateway-console/internal/domain/entities"
	"gateway-console/internal/domain/errors"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const maxBodyBytes = 4 << 20

// InterfaceLister lists flat interface records
type InterfaceLister interface {
	Execute(ctx context.Context, input usecases.ListInterfaceConfigsInput) (*usecases.ListInterfaceConfigsOutput, error)
}

// InterfaceUpdater assembles and submits one interface record
type InterfaceUpdater interface {
	Execute(ctx context.Context, input usecases.UpdateInterfaceConfigInput) (*usecases.UpdateInterfaceConfigOutput, error)
}

// FirewallService reads and replaces firewall rule lists
type FirewallService interface {
	GetOpenPorts(ctx context.Context) ([]entities.FirewallOpenPortEntry, error)
	UpdateOpenPorts(ctx context.Context, entries []entities.FirewallOpenPortEntry) error
	GetPortForwards(ctx context.Context) ([]entities.FirewallPortForwardEntry, error)
	UpdatePortForwards(ctx context.Context, entries []entities.FirewallPortForwardEntry) error
	GetNatEntries(ctx context.Context) ([]entities.FirewallNatEntry, error)
	UpdateNatEntries(ctx context.Context, entries []entities.FirewallNatEntry) error
}

// SnapshotService lists, creates and restores configuration snapshots
type SnapshotService interface {
	ListSnapshots(ctx context.Context) ([]int64, error)
	CreateSnapshot(ctx context.Context) (int64, error)
	Rollback(ctx context.Context, id int64) error
}

// ComponentService reads and updates component configurations
type ComponentService interface {
	List(ctx context.Context) ([]entities.ComponentConfiguration, error)
	Update(ctx context.Context, pid string, properties map[string]interface{}) error
}

// DeviceStatusService reports the gateway status
type DeviceStatusService interface {
	Execute(ctx context.Context) (*entities.DeviceStatus, error)
}

// PackageService manages OS packages
type PackageService interface {
	List(ctx context.Context) ([]entities.PackageInfo, error)
	Install(ctx context.Context, path string) error
	Uninstall(ctx context.Context, name string) error
}

// CertificateService manages installed certificates
type CertificateService interface {
	List() ([]entities.CertificateInfo, error)
	Install(alias string, pemData []byte) (*entities.CertificateInfo, error)
	Remove(alias string) error
}

// RequestRecorder observes served requests
type RequestRecorder interface {
	RecordRequest(route, method string, status int, duration time.Duration)
}

// Services are the operations served by the API
type Services struct {
	Interfaces      InterfaceLister
	InterfaceUpdate InterfaceUpdater
	Firewall        FirewallService
	Snapshots       SnapshotService
	Components      ComponentService
	Device          DeviceStatusService
	Packages        PackageService
	Certificates    CertificateService
}

// Server routes API requests to the console services
type Server struct {
	services Services
	router   *mux.Router
	recorder RequestRecorder
	logger   *logrus.Logger
}

// NewServer builds the router. health and metrics may be nil.
func NewServer(services Services, health http.Handler, metrics http.Handler, recorder RequestRecorder, logger *logrus.Logger) *Server {
	s := &Server{
		services: services,
		router:   mux.NewRouter(),
		recorder: recorder,
		logger:   logger,
	}

	s.router.Use(s.instrument)

	if health != nil {
		s.router.Handle("/healthz", health).Methods(http.MethodGet)
	}
	if metrics != nil {
		s.router.Handle("/metrics", metrics).Methods(http.MethodGet)
	}

	api := s.router.PathPrefix("/api").Subrouter()
	s.RegisterRoutes(api)

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, errors.NewNotFoundError(fmt.Sprintf("no route for %s", r.URL.Path)), s.logger)
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, Response{
			Success: false,
			Error:   &ErrorInfo{Code: "METHOD_NOT_ALLOWED", Message: r.Method + " not allowed"},
		}, s.logger)
	})

	return s
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// RegisterRoutes registers the API routes on router
func (s *Server) RegisterRoutes(router *mux.Router) {
	// Network interfaces
	router.HandleFunc("/network/interfaces", s.handleListInterfaces).Methods(http.MethodGet)
	router.HandleFunc("/network/interfaces/{name}", s.handleGetInterface).Methods(http.MethodGet)
	router.HandleFunc("/network/interfaces/{name}", s.handleUpdateInterface).Methods(http.MethodPut)

	// Firewall
	router.HandleFunc("/firewall/open-ports", s.handleGetOpenPorts).Methods(http.MethodGet)
	router.HandleFunc("/firewall/open-ports", s.handleUpdateOpenPorts).Methods(http.MethodPut)
	router.HandleFunc("/firewall/port-forwards", s.handleGetPortForwards).Methods(http.MethodGet)
	router.HandleFunc("/firewall/port-forwards", s.handleUpdatePortForwards).Methods(http.MethodPut)
	router.HandleFunc("/firewall/nat", s.handleGetNatEntries).Methods(http.MethodGet)
	router.HandleFunc("/firewall/nat", s.handleUpdateNatEntries).Methods(http.MethodPut)

	// Snapshots
	router.HandleFunc("/snapshots", s.handleListSnapshots).Methods(http.MethodGet)
	router.HandleFunc("/snapshots", s.handleCreateSnapshot).Methods(http.MethodPost)
	router.HandleFunc("/snapshots/{id}/rollback", s.handleRollback).Methods(http.MethodPost)

	// Components
	router.HandleFunc("/components", s.handleListComponents).Methods(http.MethodGet)
	router.HandleFunc("/components/{pid}", s.handleUpdateComponent).Methods(http.MethodPut)

	// Device
	router.HandleFunc("/device", s.handleDeviceStatus).Methods(http.MethodGet)
	router.HandleFunc("/packages", s.handleListPackages).Methods(http.MethodGet)
	router.HandleFunc("/packages", s.handleInstallPackage).Methods(http.MethodPost)
	router.HandleFunc("/packages/{name}", s.handleUninstallPackage).Methods(http.MethodDelete)
	router.HandleFunc("/certificates", s.handleListCertificates).Methods(http.MethodGet)
	router.HandleFunc("/certificates/{alias}", s.handleInstallCertificate).Methods(http.MethodPut)
	router.HandleFunc("/certificates/{alias}", s.handleRemoveCertificate).Methods(http.MethodDelete)
}

// instrument records the route template, status and latency of each request
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		duration := time.Since(start)
		if s.recorder != nil {
			s.recorder.RecordRequest(route, r.Method, rec.status, duration)
		}

		s.logger.WithFields(logrus.Fields{
			"method":   r.Method,
			"route":    route,
			"status":   rec.status,
			"duration": duration.String(),
		}).Debug("request served")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// decodeBody decodes a JSON request body into v
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.NewValidationError("invalid request body", err)
	}
	return nil
}
