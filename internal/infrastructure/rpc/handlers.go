package rpc

import (
	"net/http"
	"strconv"

	"gateway-console/internal/application/usecases"
	"gateway-console/internal/domain/entities"
	"gateway-console/internal/domain/errors"

	"github.com/gorilla/mux"
)

func (s *Server) handleListInterfaces(w http.ResponseWriter, r *http.Request) {
	out, err := s.services.Interfaces.Execute(r.Context(), usecases.ListInterfaceConfigsInput{
		Name: r.URL.Query().Get("name"),
	})
	if err != nil {
		respondError(w, r, err, s.logger)
		return
	}
	respondOK(w, http.StatusOK, out.Interfaces, s.logger)
}

func (s *Server) handleGetInterface(w http.ResponseWriter, r *http.Request) {
	out, err := s.services.Interfaces.Execute(r.Context(), usecases.ListInterfaceConfigsInput{
		Name: mux.Vars(r)["name"],
	})
	if err != nil {
		respondError(w, r, err, s.logger)
		return
	}
	respondOK(w, http.StatusOK, out.Interfaces[0], s.logger)
}

type updateInterfaceResponse struct {
	Name       string   `json:"name"`
	Kinds      []string `json:"configs"`
	SnapshotID int64    `json:"snapshotId,omitempty"`
}

func (s *Server) handleUpdateInterface(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	var cfg entities.NetworkInterfaceConfig
	if err := decodeBody(w, r, &cfg); err != nil {
		respondError(w, r, err, s.logger)
		return
	}
	if cfg.Name == "" {
		cfg.Name = name
	}
	if cfg.Name != name {
		respondError(w, r, errors.NewValidationError("interface name does not match the path", nil), s.logger)
		return
	}

	out, err := s.services.InterfaceUpdate.Execute(r.Context(), usecases.UpdateInterfaceConfigInput{Config: cfg})
	if err != nil {
		respondError(w, r, err, s.logger)
		return
	}

	kinds := make([]string, 0, len(out.Configs))
	for _, c := range out.Configs {
		kinds = append(kinds, string(c.Kind()))
	}
	respondOK(w, http.StatusOK, updateInterfaceResponse{Name: name, Kinds: kinds, SnapshotID: out.SnapshotID}, s.logger)
}

func (s *Server) handleGetOpenPorts(w http.ResponseWriter, r *http.Request) {
	entries, err := s.services.Firewall.GetOpenPorts(r.Context())
	if err != nil {
		respondError(w, r, err, s.logger)
		return
	}
	respondOK(w, http.StatusOK, entries, s.logger)
}

func (s *Server) handleUpdateOpenPorts(w http.ResponseWriter, r *http.Request) {
	var entries []entities.FirewallOpenPortEntry
	if err := decodeBody(w, r, &entries); err != nil {
		respondError(w, r, err, s.logger)
		return
	}
	if err := s.services.Firewall.UpdateOpenPorts(r.Context(), entries); err != nil {
		respondError(w, r, err, s.logger)
		return
	}
	respondOK(w, http.StatusOK, entries, s.logger)
}

func (s *Server) handleGetPortForwards(w http.ResponseWriter, r *http.Request) {
	entries, err := s.services.Firewall.GetPortForwards(r.Context())
	if err != nil {
		respondError(w, r, err, s.logger)
		return
	}
	respondOK(w, http.StatusOK, entries, s.logger)
}

func (s *Server) handleUpdatePortForwards(w http.ResponseWriter, r *http.Request) {
	var entries []entities.FirewallPortForwardEntry
	if err := decodeBody(w, r, &entries); err != nil {
		respondError(w, r, err, s.logger)
		return
	}
	if err := s.services.Firewall.UpdatePortForwards(r.Context(), entries); err != nil {
		respondError(w, r, err, s.logger)
		return
	}
	respondOK(w, http.StatusOK, entries, s.logger)
}

func (s *Server) handleGetNatEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.services.Firewall.GetNatEntries(r.Context())
	if err != nil {
		respondError(w, r, err, s.logger)
		return
	}
	respondOK(w, http.StatusOK, entries, s.logger)
}

func (s *Server) handleUpdateNatEntries(w http.ResponseWriter, r *http.Request) {
	var entries []entities.FirewallNatEntry
	if err := decodeBody(w, r, &entries); err != nil {
		respondError(w, r, err, s.logger)
		return
	}
	if err := s.services.Firewall.UpdateNatEntries(r.Context(), entries); err != nil {
		respondError(w, r, err, s.logger)
		return
	}
	respondOK(w, http.StatusOK, entries, s.logger)
}

type snapshotList struct {
	Snapshots []int64 `json:"snapshots"`
}

type snapshotID struct {
	ID int64 `json:"id"`
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	ids, err := s.services.Snapshots.ListSnapshots(r.Context())
	if err != nil {
		respondError(w, r, err, s.logger)
		return
	}
	respondOK(w, http.StatusOK, snapshotList{Snapshots: ids}, s.logger)
}

func (s *Server) handleCreateSnapshot(w http.ResponseWriter, r *http.Request) {
	id, err := s.services.Snapshots.CreateSnapshot(r.Context())
	if err != nil {
		respondError(w, r, err, s.logger)
		return
	}
	respondOK(w, http.StatusCreated, snapshotID{ID: id}, s.logger)
}

func (s *Server) handleRollback(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id < 0 {
		respondError(w, r, errors.NewValidationError("snapshot id must be a non-negative integer", err), s.logger)
		return
	}
	if err := s.services.Snapshots.Rollback(r.Context(), id); err != nil {
		respondError(w, r, err, s.logger)
		return
	}
	respondOK(w, http.StatusOK, snapshotID{ID: id}, s.logger)
}

func (s *Server) handleListComponents(w http.ResponseWriter, r *http.Request) {
	components, err := s.services.Components.List(r.Context())
	if err != nil {
		respondError(w, r, err, s.logger)
		return
	}
	respondOK(w, http.StatusOK, components, s.logger)
}

type componentUpdate struct {
	Properties map[string]interface{} `json:"properties"`
}

func (s *Server) handleUpdateComponent(w http.ResponseWriter, r *http.Request) {
	pid := mux.Vars(r)["pid"]

	var body componentUpdate
	if err := decodeBody(w, r, &body); err != nil {
		respondError(w, r, err, s.logger)
		return
	}
	if err := s.services.Components.Update(r.Context(), pid, body.Properties); err != nil {
		respondError(w, r, err, s.logger)
		return
	}
	respondOK(w, http.StatusOK, entities.ComponentConfiguration{PID: pid, Properties: body.Properties}, s.logger)
}

func (s *Server) handleDeviceStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.services.Device.Execute(r.Context())
	if err != nil {
		respondError(w, r, err, s.logger)
		return
	}
	respondOK(w, http.StatusOK, status, s.logger)
}

func (s *Server) handleListPackages(w http.ResponseWriter, r *http.Request) {
	packages, err := s.services.Packages.List(r.Context())
	if err != nil {
		respondError(w, r, err, s.logger)
		return
	}
	respondOK(w, http.StatusOK, packages, s.logger)
}

type packageInstall struct {
	Path string `json:"path"`
}

func (s *Server) handleInstallPackage(w http.ResponseWriter, r *http.Request) {
	var body packageInstall
	if err := decodeBody(w, r, &body); err != nil {
		respondError(w, r, err, s.logger)
		return
	}
	if err := s.services.Packages.Install(r.Context(), body.Path); err != nil {
		respondError(w, r, err, s.logger)
		return
	}
	respondOK(w, http.StatusCreated, body, s.logger)
}

func (s *Server) handleUninstallPackage(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Packages.Uninstall(r.Context(), mux.Vars(r)["name"]); err != nil {
		respondError(w, r, err, s.logger)
		return
	}
	respondOK(w, http.StatusOK, nil, s.logger)
}

func (s *Server) handleListCertificates(w http.ResponseWriter, r *http.Request) {
	certs, err := s.services.Certificates.List()
	if err != nil {
		respondError(w, r, err, s.logger)
		return
	}
	respondOK(w, http.StatusOK, certs, s.logger)
}

type certificateInstall struct {
	PEM string `json:"pem"`
}

func (s *Server) handleInstallCertificate(w http.ResponseWriter, r *http.Request) {
	var body certificateInstall
	if err := decodeBody(w, r, &body); err != nil {
		respondError(w, r, err, s.logger)
		return
	}
	info, err := s.services.Certificates.Install(mux.Vars(r)["alias"], []byte(body.PEM))
	if err != nil {
		respondError(w, r, err, s.logger)
		return
	}
	respondOK(w, http.StatusOK, info, s.logger)
}

func (s *Server) handleRemoveCertificate(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Certificates.Remove(mux.Vars(r)["alias"]); err != nil {
		respondError(w, r, err, s.logger)
		return
	}
	respondOK(w, http.StatusOK, nil, s.logger)
}
