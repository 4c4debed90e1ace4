package sheets

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
)

// Handler exposes direct spreadsheet access for operational tooling. It is
// stateless: every request reads the spreadsheet as it currently is.
type Handler struct {
	client *Client
}

func NewHandler(client *Client) *Handler {
	return &Handler{client: client}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/sheets/tables", h.ListTables).Methods("GET")
	router.HandleFunc("/api/sheets/tables/{name}/export", h.ExportTable).Methods("GET")
}

// ListTables reports the row count of each worksheet and the spreadsheet's
// last modification time.
func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.client.LoadAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	type tableInfo struct {
		Name string `json:"name"`
		Rows int    `json:"rows"`
	}
	resp := struct {
		Tables    []tableInfo `json:"tables"`
		UpdatedAt string      `json:"updatedAt,omitempty"`
	}{
		Tables: []tableInfo{
			{SheetPivot, len(tables.Pivot)},
			{SheetMoves, len(tables.MovesHistory)},
			{SheetInbound, len(tables.Inbound)},
			{SheetOutbound, len(tables.Outbound)},
		},
	}
	if !tables.UpdatedAt.IsZero() {
		resp.UpdatedAt = tables.UpdatedAt.Format("2006-01-02 15:04:05")
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// ExportTable streams one worksheet as CSV.
func (h *Handler) ExportTable(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	switch name {
	case SheetPivot, SheetMoves, SheetInbound, SheetOutbound:
	default:
		http.Error(w, fmt.Sprintf("unknown table: %s", name), http.StatusNotFound)
		return
	}

	values, err := h.client.readSheet(r.Context(), name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".csv"))

	cw := csv.NewWriter(w)
	record := make([]string, 0, 20)
	for _, row := range values {
		record = record[:0]
		for _, cell := range row {
			record = append(record, fmt.Sprint(cell))
		}
		if err := cw.Write(record); err != nil {
			return
		}
	}
	cw.Flush()
}
