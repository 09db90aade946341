package handlers

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Mandeep003/nestle-truck-monitor/engine"
	"github.com/Mandeep003/nestle-truck-monitor/middleware"
	"github.com/Mandeep003/nestle-truck-monitor/models"
)

// ExportHandler streams the board as a downloadable CSV or Excel workbook,
// filtered by the caller's visibility exactly like the list endpoint.
type ExportHandler struct {
	engine *engine.Engine
}

func NewExportHandler(workflowEngine *engine.Engine) *ExportHandler {
	return &ExportHandler{engine: workflowEngine}
}

var exportHeader = []string{
	models.FieldDate,
	models.FieldTruckNumber,
	models.FieldDriverPhone,
	models.FieldEntryTime,
	models.FieldVendorMaterial,
	models.FieldStatus,
	models.FieldUpdatedBy,
}

func exportRow(record models.TruckRecord) []string {
	return []string{
		record.Date,
		record.TruckNumber,
		record.DriverPhone,
		record.EntryTime,
		record.VendorMaterial,
		record.Status.Display(),
		string(record.UpdatedBy),
	}
}

// Export handles GET /api/trucks/export?format=csv|xlsx.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	role := middleware.GetRoleFromContext(r.Context())

	records, err := h.engine.ListFor(r.Context(), role)
	if err != nil {
		log.Printf("❌ Failed to list trucks for export: %v", err)
		writeEngineError(w, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	switch format {
	case "csv":
		h.exportCSV(w, records, timestamp, role)
	case "xlsx":
		h.exportXLSX(w, records, timestamp, role)
	default:
		writeError(w, "Unknown export format (expected csv or xlsx)", http.StatusBadRequest)
	}
}

func (h *ExportHandler) exportCSV(w http.ResponseWriter, records []models.TruckRecord, timestamp string, role models.Role) {
	filename := fmt.Sprintf("truck_board_%s.csv", timestamp)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(exportHeader); err != nil {
		log.Printf("❌ Failed to write CSV header: %v", err)
		return
	}
	for _, record := range records {
		if err := writer.Write(exportRow(record)); err != nil {
			log.Printf("❌ Failed to write CSV row: %v", err)
			return
		}
	}

	log.Printf("📊 CSV export by %s: %d records", role, len(records))
}

func (h *ExportHandler) exportXLSX(w http.ResponseWriter, records []models.TruckRecord, timestamp string, role models.Role) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Truck Board"
	f.SetSheetName("Sheet1", sheetName)

	for i, header := range exportHeader {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}
	for rowIdx, record := range records {
		for colIdx, value := range exportRow(record) {
			cell := fmt.Sprintf("%c%d", 'A'+colIdx, rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	filename := fmt.Sprintf("truck_board_%s.xlsx", timestamp)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	if err := f.Write(w); err != nil {
		log.Printf("❌ Failed to write workbook: %v", err)
		return
	}

	log.Printf("📊 Excel export by %s: %d records", role, len(records))
}
