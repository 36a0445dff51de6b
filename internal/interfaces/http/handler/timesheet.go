package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	ingestapp "github.com/propertyops/billback/internal/application/ingest"
	timesheetapp "github.com/propertyops/billback/internal/application/timesheet"
	"github.com/propertyops/billback/internal/domain/timesheet"
	"github.com/propertyops/billback/internal/infrastructure/ingest"
	"github.com/propertyops/billback/internal/interfaces/http/dto"
)

const (
	// Maximum upload size for time entry files (10MB)
	maxUploadFileSize = 10 * 1024 * 1024
)

// TimesheetHandler exposes the billback working set over HTTP.
type TimesheetHandler struct {
	BaseHandler
	service *timesheetapp.Service
}

// NewTimesheetHandler creates a new TimesheetHandler
func NewTimesheetHandler(service *timesheetapp.Service) *TimesheetHandler {
	return &TimesheetHandler{service: service}
}

// RegisterRoutes registers all period routes
func (h *TimesheetHandler) RegisterRoutes(rg *gin.RouterGroup) {
	periods := rg.Group("/periods/:period")
	{
		periods.POST("/ingest", h.Ingest)
		periods.GET("/rows", h.Rows)
		periods.POST("/rows", h.AddRow)
		periods.PATCH("/rows/:rowId", h.EditRow)
		periods.DELETE("/rows/:rowId", h.DeleteRow)
		periods.GET("/draft", h.LoadDraft)
		periods.POST("/draft", h.SaveDraft)
		periods.POST("/commit", h.Commit)
	}
}

// Ingest accepts a raw time entry file and replaces the working set with its
// resolved rows. An unrecognized layout rejects the whole file.
func (h *TimesheetHandler) Ingest(c *gin.Context) {
	periodID := c.Param("period")

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}
	defer file.Close()

	if header.Size > maxUploadFileSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeValidation, "file exceeds maximum size of 10MB")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxUploadFileSize+1))
	if err != nil {
		h.InternalError(c, "failed to read uploaded file")
		return
	}

	parser, err := ingest.ParseFromBytes(data)
	if err != nil {
		h.handleParseError(c, err)
		return
	}
	if err := parser.ParseHeader(); err != nil {
		h.handleParseError(c, err)
		return
	}
	raw, err := parser.ReadAllRows()
	if err != nil {
		h.BadRequest(c, "malformed file: "+err.Error())
		return
	}

	rows, err := h.service.Ingest(c.Request.Context(), periodID, raw)
	if err != nil {
		var formatErr *ingestapp.FormatError
		if errors.As(err, &formatErr) {
			h.Error(c, http.StatusUnprocessableEntity, dto.ErrCodeUnknownFormat, formatErr.Error())
			return
		}
		h.HandleError(c, err)
		return
	}

	h.Success(c, h.workingSet(periodID, rows))
}

// Rows returns the working set, optionally narrowed by filters.
func (h *TimesheetHandler) Rows(c *gin.Context) {
	periodID := c.Param("period")

	var req dto.RowFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "invalid filter parameters")
		return
	}
	h.service.SetFilter(req.ToDomain())

	h.Success(c, h.workingSet(periodID, h.service.Rows()))
}

// AddRow prepends a blank row to the working set.
func (h *TimesheetHandler) AddRow(c *gin.Context) {
	row := h.service.AddRow()
	h.Created(c, dto.NewRowResponse(row))
}

// EditRow applies a single-field mutation to one row.
func (h *TimesheetHandler) EditRow(c *gin.Context) {
	rowID, err := uuid.Parse(c.Param("rowId"))
	if err != nil {
		h.BadRequest(c, "invalid row ID")
		return
	}

	var req dto.EditRowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, []dto.ValidationDetail{
			{Field: "field", Message: "field must be one of employee, category, hours, mileage, property, date, notes"},
		})
		return
	}

	row, err := h.service.EditRow(rowID, timesheet.Field(req.Field), req.Value)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.NewRowResponse(row))
}

// DeleteRow removes a row from the working set.
func (h *TimesheetHandler) DeleteRow(c *gin.Context) {
	rowID, err := uuid.Parse(c.Param("rowId"))
	if err != nil {
		h.BadRequest(c, "invalid row ID")
		return
	}

	if err := h.service.DeleteRow(rowID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// LoadDraft makes the period active and loads its saved draft.
func (h *TimesheetHandler) LoadDraft(c *gin.Context) {
	periodID := c.Param("period")

	rows, err := h.service.SwitchPeriod(c.Request.Context(), periodID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, h.workingSet(periodID, rows))
}

// SaveDraft persists the working set regardless of validity. The URL period
// must name the active working set; rows never persist under another period.
func (h *TimesheetHandler) SaveDraft(c *gin.Context) {
	if !h.requireActivePeriod(c) {
		return
	}
	if err := h.service.SaveDraft(c.Request.Context()); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"saved": true})
}

// Commit invoices the working set. A single invalid row blocks the commit.
func (h *TimesheetHandler) Commit(c *gin.Context) {
	if !h.requireActivePeriod(c) {
		return
	}
	summary, err := h.service.Commit(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.NewCommitSummaryResponse(summary))
}

// requireActivePeriod rejects requests whose URL period does not match the
// loaded working set.
func (h *TimesheetHandler) requireActivePeriod(c *gin.Context) bool {
	if periodID := c.Param("period"); periodID != h.service.Period() {
		h.Error(c, http.StatusConflict, dto.ErrCodeConflict,
			"period "+periodID+" is not the active working set")
		return false
	}
	return true
}

func (h *TimesheetHandler) workingSet(periodID string, rows []*timesheet.TimeEntryRow) dto.WorkingSetResponse {
	allValid := true
	for _, r := range rows {
		if r.IsError {
			allValid = false
			break
		}
	}
	return dto.WorkingSetResponse{
		Period:            periodID,
		Rows:              dto.NewRowListResponse(rows),
		AllValid:          allValid,
		HasUnsavedChanges: h.service.HasUnsavedChanges(),
	}
}

func (h *TimesheetHandler) handleParseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ingest.ErrEmptyFile):
		h.BadRequest(c, "file is empty")
	case errors.Is(err, ingest.ErrInvalidEncoding):
		h.BadRequest(c, "file has invalid encoding, must be UTF-8")
	case errors.Is(err, ingest.ErrMissingHeader):
		h.BadRequest(c, "file is missing a header row")
	default:
		h.BadRequest(c, "malformed file: "+err.Error())
	}
}
