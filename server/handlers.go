package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/lakedeck/lakedeck/catalog"
	"github.com/lakedeck/lakedeck/form"
	"github.com/lakedeck/lakedeck/types"
	"github.com/lakedeck/lakedeck/utils/logger"
)

type errorReply struct {
	Error string `json:"error"`
}

func replyJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Errorf("Failed to write response: %s", err)
	}
}

func replyError(w http.ResponseWriter, status int, format string, args ...any) {
	replyJSON(w, status, errorReply{Error: fmt.Sprintf(format, args...)})
}

func (a *App) requireStore(w http.ResponseWriter) bool {
	if a.store == nil {
		replyError(w, http.StatusServiceUnavailable, "no connection store configured")
		return false
	}

	return true
}

func (a *App) listConnectionsHandler(w http.ResponseWriter, r *http.Request) {
	if !a.requireStore(w) {
		return
	}

	connections, err := a.store.ListConnections(r.Context())
	if err != nil {
		replyError(w, http.StatusInternalServerError, "failed to list connections: %s", err)
		return
	}
	if connections == nil {
		connections = []*types.Connection{}
	}

	replyJSON(w, http.StatusOK, connections)
}

func (a *App) getConnectionHandler(w http.ResponseWriter, r *http.Request) {
	if !a.requireStore(w) {
		return
	}

	connection, err := a.store.GetConnection(r.Context(), r.PathValue("id"))
	if err != nil {
		status := http.StatusInternalServerError
		if strings.Contains(err.Error(), "not found") {
			status = http.StatusNotFound
		}
		replyError(w, status, "%s", err)
		return
	}

	replyJSON(w, http.StatusOK, connection)
}

// putConnectionRequest carries the submitted form plus the optional
// destination capability descriptor the surrounding application knows.
type putConnectionRequest struct {
	WorkspaceID  string                         `json:"workspaceId,omitempty"`
	Values       *form.Values                   `json:"values"`
	Capabilities *types.DestinationCapabilities `json:"capabilities,omitempty"`
}

func (a *App) putConnectionHandler(w http.ResponseWriter, r *http.Request) {
	if !a.requireStore(w) {
		return
	}

	var request putConnectionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		replyError(w, http.StatusBadRequest, "invalid request body: %s", err)
		return
	}
	if request.Values == nil {
		replyError(w, http.StatusBadRequest, "missing form values")
		return
	}

	result, err := a.validator.ValidateForm(request.Values, request.Capabilities)
	if err != nil {
		replyError(w, http.StatusInternalServerError, "validation failed to run: %s", err)
		return
	}
	if !result.Valid {
		validationFailuresTotal.Inc()
		replyJSON(w, http.StatusUnprocessableEntity, result)
		return
	}

	connectionID := r.PathValue("id")
	connection, err := a.store.GetConnection(r.Context(), connectionID)
	if err != nil {
		if !strings.Contains(err.Error(), "not found") {
			replyError(w, http.StatusInternalServerError, "%s", err)
			return
		}
		connection = &types.Connection{
			ConnectionID: connectionID,
			WorkspaceID:  request.WorkspaceID,
			Status:       types.ConnectionActive,
		}
	}

	changed, err := catalog.CatalogChanged(connection.SyncCatalog, request.Values.SyncCatalog)
	if err != nil {
		replyError(w, http.StatusInternalServerError, "failed to diff catalogs: %s", err)
		return
	}
	if !changed {
		catalogNoopWritesTotal.Inc()
		logger.Debugf("Catalog for connection %s is unchanged", connectionID)
	}

	request.Values.ApplyTo(connection)
	if err := a.store.SaveConnection(r.Context(), connection); err != nil {
		replyError(w, http.StatusInternalServerError, "failed to save connection: %s", err)
		return
	}
	connectionsSavedTotal.Inc()

	replyJSON(w, http.StatusOK, connection)
}

func (a *App) deleteConnectionHandler(w http.ResponseWriter, r *http.Request) {
	if !a.requireStore(w) {
		return
	}

	if err := a.store.DeleteConnection(r.Context(), r.PathValue("id")); err != nil {
		status := http.StatusInternalServerError
		if strings.Contains(err.Error(), "not found") {
			status = http.StatusNotFound
		}
		replyError(w, status, "%s", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *App) deriveCatalogHandler(w http.ResponseWriter, r *http.Request) {
	var input types.SyncCatalog
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		replyError(w, http.StatusBadRequest, "invalid catalog: %s", err)
		return
	}

	replyJSON(w, http.StatusOK, catalog.DeriveInitialCatalog(&input))
}

type validateRequest struct {
	Values       *form.Values                   `json:"values"`
	Capabilities *types.DestinationCapabilities `json:"capabilities,omitempty"`
}

func (a *App) validateHandler(w http.ResponseWriter, r *http.Request) {
	var request validateRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		replyError(w, http.StatusBadRequest, "invalid request body: %s", err)
		return
	}
	if request.Values == nil {
		replyError(w, http.StatusBadRequest, "missing form values")
		return
	}

	result, err := a.validator.ValidateForm(request.Values, request.Capabilities)
	if err != nil {
		replyError(w, http.StatusInternalServerError, "validation failed to run: %s", err)
		return
	}

	status := http.StatusOK
	if !result.Valid {
		validationFailuresTotal.Inc()
		status = http.StatusUnprocessableEntity
	}

	replyJSON(w, status, result)
}

func (a *App) frequenciesHandler(w http.ResponseWriter, _ *http.Request) {
	replyJSON(w, http.StatusOK, form.Frequencies(a.validator.Translator()))
}
