package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/vendio/machine-api/internal/config"
	httpopenapi "github.com/vendio/machine-api/internal/http/openapi"
	"github.com/vendio/machine-api/internal/machine"
	"github.com/vendio/machine-api/internal/model"
	"github.com/vendio/machine-api/internal/store"
)

// App wires the HTTP handlers to the machine service.
type App struct {
	Cfg     config.Config
	Machine *machine.Service
	started time.Time
}

// NewApp constructs the handler set.
func NewApp(cfg config.Config, m *machine.Service) *App {
	return &App{Cfg: cfg, Machine: m, started: time.Now()}
}

type productCreateRequest struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

type slotCreateRequest struct {
	Code      string `json:"code"`
	Capacity  int64  `json:"capacity"`
	ProductID *int64 `json:"product_id"`
	Quantity  *int64 `json:"quantity"`
}

type buyRequest struct {
	Slot   string `json:"slot"`
	Amount int64  `json:"amount"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// idParam parses the {id} path segment; a non-integer id is a validation
// failure, not a missing record.
func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		WriteJSONError(w, http.StatusUnprocessableEntity, "id must be an integer")
		return 0, false
	}
	return id, true
}

func (a *App) indexHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"msg": "This is the MACHINE api"})
}

func (a *App) infoHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.Machine.Info())
}

func (a *App) buyHandler(w http.ResponseWriter, r *http.Request) {
	var req buyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	t, err := a.Machine.Vend(req.Slot, req.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// ---- products ----

func (a *App) listProductsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.Machine.Products())
}

func (a *App) createProductHandler(w http.ResponseWriter, r *http.Request) {
	var req productCreateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	p, err := a.Machine.CreateProduct(req.Name, req.Price)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			WriteJSONError(w, http.StatusBadRequest, fmt.Sprintf("Product with name %s already exists", req.Name))
			return
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *App) getProductHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	p, err := a.Machine.Product(id)
	if err != nil {
		WriteJSONError(w, http.StatusNotFound, fmt.Sprintf("Product with ID %d not found", id))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *App) updateProductHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var upd model.ProductUpdate
	if !decodeBody(w, r, &upd) {
		return
	}
	p, err := a.Machine.UpdateProduct(id, upd)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			WriteJSONError(w, http.StatusNotFound, fmt.Sprintf("Product with ID %d not found", id))
		case errors.Is(err, store.ErrConflict):
			WriteJSONError(w, http.StatusBadRequest, fmt.Sprintf("Product with name %s already exists", *upd.Name))
		default:
			writeDomainError(w, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *App) deleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := a.Machine.DeleteProduct(id); err != nil {
		WriteJSONError(w, http.StatusNotFound, fmt.Sprintf("Product with ID %d not found", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- slots ----

func (a *App) listSlotsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.Machine.Slots())
}

func (a *App) createSlotHandler(w http.ResponseWriter, r *http.Request) {
	var req slotCreateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	sl, err := a.Machine.CreateSlot(req.Code, req.Capacity, req.ProductID, req.Quantity)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			WriteJSONError(w, http.StatusBadRequest, fmt.Sprintf("Slot with code %s already exists", req.Code))
			return
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sl)
}

func (a *App) getSlotHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	sl, err := a.Machine.Slot(id)
	if err != nil {
		WriteJSONError(w, http.StatusNotFound, fmt.Sprintf("Slot with ID %d not found", id))
		return
	}
	writeJSON(w, http.StatusOK, sl)
}

func (a *App) updateSlotHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var upd model.SlotUpdate
	if !decodeBody(w, r, &upd) {
		return
	}
	sl, err := a.Machine.UpdateSlot(id, upd)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteJSONError(w, http.StatusNotFound, fmt.Sprintf("Slot with ID %d not found", id))
			return
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sl)
}

func (a *App) deleteSlotHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := a.Machine.DeleteSlot(id); err != nil {
		WriteJSONError(w, http.StatusNotFound, fmt.Sprintf("Slot with ID %d not found", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- transactions (read-only ledger) ----

func (a *App) listTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.Machine.Transactions())
}

func (a *App) getTransactionHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	t, err := a.Machine.Transaction(id)
	if err != nil {
		WriteJSONError(w, http.StatusNotFound, fmt.Sprintf("Transaction with ID %d not found", id))
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// ---- operational endpoints ----

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) metricsHandler(w http.ResponseWriter, r *http.Request) {
	st := a.Machine.Stats()
	writeJSON(w, http.StatusOK, map[string]any{
		"products":     st.Products,
		"slots":        st.Slots,
		"transactions": st.Transactions,
		"vends_total":  st.VendsTotal,
		"vends_failed": st.VendsFailed,
		"uptime_sec":   time.Since(a.started).Seconds(),
	})
}

func (a *App) openapiHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(httpopenapi.YAML)
}

func (a *App) docsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	html := `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui'
      });
    </script>
  </body>
</html>`
	_, _ = w.Write([]byte(html))
}
