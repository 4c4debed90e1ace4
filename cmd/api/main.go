package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/seriseptian210525/odoo-stock-dashboard/internal/config"
	"github.com/seriseptian210525/odoo-stock-dashboard/internal/sheets"
)

// The admin API exposes direct spreadsheet access (table listing and CSV
// export) on a separate port from the dashboard server.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	creds, err := cfg.Sheets.SheetsCredentials()
	if err != nil {
		log.Fatalf("Google credentials not configured: %v", err)
	}

	client, err := sheets.NewClient(context.Background(), creds, cfg.Sheets.SpreadsheetID)
	if err != nil {
		log.Fatalf("Failed to create sheets client: %v", err)
	}

	r := mux.NewRouter()

	sheetsHandler := sheets.NewHandler(client)
	sheetsHandler.RegisterRoutes(r)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Admin API starting on %s\n", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}
