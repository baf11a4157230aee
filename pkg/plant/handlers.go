package plant

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Registry bundles the workflow services behind the HTTP surface.
type Registry struct {
	Assets      *AssetManager
	Customers   *CustomerManager
	Assignments *AssignmentCoordinator
	Tasks       *TaskCoordinator
	Topology    *TopologyBuilder
	Infra       *InfraManager
	Audit       *AuditStore
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeWorkflowError maps the typed workflow errors onto HTTP statuses:
// missing entities are 404, bad input 400, wrong-state transitions 422,
// and dependent or competing-claim conflicts 409.
func writeWorkflowError(w http.ResponseWriter, err error) {
	var (
		notFoundErr   *NotFoundError
		validationErr *ValidationError
		stateErr      *InvalidStateError
		conflictErr   *ConflictError
	)
	switch {
	case errors.As(err, &notFoundErr):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &stateErr):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &conflictErr):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return id, nil
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// operatorRef is embedded in mutating requests that carry explicit
// operator attribution.
type operatorRef struct {
	OperatorID *int64 `json:"operatorId,omitempty"`
}

func assignHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AssignmentRequest
		if err := decode(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := reg.Assignments.AssignNetworkPath(req); err != nil {
			writeWorkflowError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func completeTaskHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taskID, err := pathID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		var req CompleteTaskRequest
		if err := decode(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := reg.Tasks.Complete(taskID, req); err != nil {
			writeWorkflowError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func createTaskHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateTaskRequest
		if err := decode(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		task, err := reg.Tasks.Create(req)
		if err != nil {
			writeWorkflowError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, task)
	}
}

func listTasksHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := TaskStatus(r.URL.Query().Get("status"))
		if tech := r.URL.Query().Get("technicianId"); tech != "" {
			technicianID, err := strconv.ParseInt(tech, 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid technicianId")
				return
			}
			tasks, err := reg.Tasks.ByTechnician(technicianID, status)
			if err != nil {
				writeWorkflowError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, tasks)
			return
		}
		tasks, err := reg.Tasks.List(status)
		if err != nil {
			writeWorkflowError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, tasks)
	}
}

func getTaskHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		task, err := reg.Tasks.Get(id)
		if err != nil {
			writeWorkflowError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, task)
	}
}

func createAssetHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateAssetRequest
		if err := decode(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		asset, err := reg.Assets.Create(req)
		if err != nil {
			writeWorkflowError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, asset)
	}
}

func deleteAssetHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		var ref operatorRef
		if r.ContentLength > 0 {
			if err := decode(r, &ref); err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
		}
		if err := reg.Assets.Delete(id, ref.OperatorID); err != nil {
			writeWorkflowError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func getAssetHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		asset, err := reg.Assets.Get(id)
		if err != nil {
			writeWorkflowError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, asset)
	}
}

func listAssetsHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assetType := AssetType(r.URL.Query().Get("type"))
		status := AssetStatus(r.URL.Query().Get("status"))
		if string(status) == "ALL" {
			status = ""
		}
		assets, err := reg.Assets.Find(assetType, status)
		if err != nil {
			writeWorkflowError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, assets)
	}
}

func availableAssetsHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assetType := AssetType(r.URL.Query().Get("type"))
		if assetType == "" {
			writeError(w, http.StatusBadRequest, "type query parameter is required")
			return
		}
		assets, err := reg.Assets.AvailableByType(assetType)
		if err != nil {
			writeWorkflowError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, assets)
	}
}

func searchFaultyHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serial := r.URL.Query().Get("serial")
		if serial == "" {
			writeError(w, http.StatusBadRequest, "serial query parameter is required")
			return
		}
		asset, err := reg.Assets.FindSwappableBySerial(serial)
		if err != nil {
			writeWorkflowError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, asset)
	}
}

func createCustomerHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateCustomerRequest
		if err := decode(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		customer, err := reg.Customers.Create(req)
		if err != nil {
			writeWorkflowError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, customer)
	}
}

func updateCustomerHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		var req UpdateCustomerRequest
		if err := decode(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		customer, err := reg.Customers.Update(id, req)
		if err != nil {
			writeWorkflowError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, customer)
	}
}

func getCustomerHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		customer, err := reg.Customers.Get(id)
		if err != nil {
			writeWorkflowError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, customer)
	}
}

func listCustomersHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		city := r.URL.Query().Get("city")
		status := CustomerStatus(r.URL.Query().Get("status"))
		customers, err := reg.Customers.Find(city, status)
		if err != nil {
			writeWorkflowError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, customers)
	}
}

func deactivateCustomerHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		var ref operatorRef
		if r.ContentLength > 0 {
			if err := decode(r, &ref); err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
		}
		if err := reg.Customers.Deactivate(id, ref.OperatorID); err != nil {
			writeWorkflowError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func topologyHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		city := chi.URLParam(r, "city")
		nodes, err := reg.Topology.ByCity(city)
		if err != nil {
			writeWorkflowError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, nodes)
	}
}

func createHeadendHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateHeadendRequest
		if err := decode(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		headend, err := reg.Infra.CreateHeadend(req)
		if err != nil {
			writeWorkflowError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, headend)
	}
}

func createFdhHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateFdhRequest
		if err := decode(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		fdh, err := reg.Infra.CreateFdh(req)
		if err != nil {
			writeWorkflowError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, fdh)
	}
}

func listFdhsHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		city := r.URL.Query().Get("city")
		region := r.URL.Query().Get("region")
		if city == "" {
			writeError(w, http.StatusBadRequest, "city query parameter is required")
			return
		}
		fdhs, err := reg.Infra.FdhsByCity(city, region)
		if err != nil {
			writeWorkflowError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, fdhs)
	}
}

func listRegionsHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		regions, err := reg.Infra.Regions(r.URL.Query().Get("city"))
		if err != nil {
			writeWorkflowError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, regions)
	}
}

func createSplitterHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateSplitterRequest
		if err := decode(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		splitter, err := reg.Infra.CreateSplitter(req)
		if err != nil {
			writeWorkflowError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, splitter)
	}
}

func listSplittersHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fdhID, err := pathID(r, "fdhId")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		splitters, err := reg.Infra.SplittersByFdh(fdhID)
		if err != nil {
			writeWorkflowError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, splitters)
	}
}

func createTechnicianHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateTechnicianRequest
		if err := decode(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		technician, err := reg.Infra.CreateTechnician(req)
		if err != nil {
			writeWorkflowError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, technician)
	}
}

func listTechniciansHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		technicians, err := reg.Infra.Technicians()
		if err != nil {
			writeWorkflowError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, technicians)
	}
}

func listAuditHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if l := r.URL.Query().Get("limit"); l != "" {
			if v, err := strconv.Atoi(l); err == nil && v > 0 {
				limit = v
			}
		}
		events, err := reg.Audit.List(r.URL.Query().Get("actionType"), limit)
		if err != nil {
			writeWorkflowError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, events)
	}
}

func healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
