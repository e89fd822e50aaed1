package handler

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"todo-ledger/internal/apperr"
	"todo-ledger/internal/models"
	"todo-ledger/internal/todo"
	"todo-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler downloads the caller's todos as CSV or XLSX.
type ExportHandler struct {
	Todos *todo.Service
	Log   *slog.Logger
	now   func() time.Time
}

func NewExportHandler(svc *todo.Service, log *slog.Logger) *ExportHandler {
	return &ExportHandler{Todos: svc, Log: log, now: time.Now}
}

var exportHeader = []string{"ID", "Title", "Completed"}

func exportRow(t models.Task) []string {
	return []string{
		strconv.FormatUint(uint64(t.ID), 10),
		t.Title,
		strconv.FormatBool(t.Completed),
	}
}

func (h *ExportHandler) load(c *gin.Context) ([]models.Task, bool) {
	id, ok := identity(c)
	if !ok {
		return nil, false
	}
	tasks, err := h.Todos.List(c.Request.Context(), id)
	if err != nil {
		util.Fail(c, h.Log, err)
		return nil, false
	}
	return tasks, true
}

func (h *ExportHandler) attachment(c *gin.Context, ext string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"todos_%s.%s\"",
		h.now().Format("20060102"), ext))
}

// ExportCSV handles GET /export/csv.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	tasks, ok := h.load(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	h.attachment(c, "csv")
	c.Status(http.StatusOK)

	// UTF-8 BOM so spreadsheet apps detect the encoding
	_, _ = c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	_ = writer.Write(exportHeader)
	for _, t := range tasks {
		_ = writer.Write(exportRow(t))
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		h.Log.Warn("csv export interrupted", "error", err)
	}
}

// ExportXLSX handles GET /export/xlsx.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	tasks, ok := h.load(c)
	if !ok {
		return
	}

	f, err := buildWorkbook(tasks)
	if err != nil {
		util.Fail(c, h.Log, apperr.Internal("build workbook", err))
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	h.attachment(c, "xlsx")
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		h.Log.Warn("xlsx export interrupted", "error", err)
	}
}

const sheetName = "Todos"

func buildWorkbook(tasks []models.Task) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		f.Close()
		return nil, err
	}

	if err := f.SetSheetRow(sheetName, "A1", &exportHeader); err != nil {
		f.Close()
		return nil, err
	}
	for i, t := range tasks {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		row := []any{t.ID, t.Title, t.Completed}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			f.Close()
			return nil, err
		}
	}
	_ = f.SetColWidth(sheetName, "B", "B", 48)
	return f, nil
}
