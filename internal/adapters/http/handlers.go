package http

import (
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/rfarias/geocapture/internal/core/domain"
	"github.com/rfarias/geocapture/internal/pkg/metrics"
)

// CaptureResponse is returned for every processed photo submission. Status
// mirrors the pipeline outcome; Message is the human-readable wording the
// sender sees.
type CaptureResponse struct {
	Status         domain.CaptureStatus   `json:"status"`
	Message        string                 `json:"message"`
	Record         *domain.CapturedRecord `json:"record,omitempty"`
	Client         string                 `json:"client,omitempty"`
	RawCoordinates string                 `json:"raw_coordinates,omitempty"`
	ProcessedAt    string                 `json:"processed_at"`
}

// SubmitCaptureHandler accepts a photo upload and runs the full pipeline.
// The upload is staged in a temp file removed after processing.
func SubmitCaptureHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("photo")
		if err != nil {
			return errBadRequest(c, "multipart field 'photo' is required")
		}

		ext := filepath.Ext(fileHeader.Filename)
		if ext == "" {
			ext = ".jpg"
		}
		tmp, err := os.CreateTemp("", "geocapture-upload-*"+ext)
		if err != nil {
			return errInternal(c, "stage upload: "+err.Error())
		}
		tmpPath := tmp.Name()
		tmp.Close()
		defer os.Remove(tmpPath)

		if err := c.SaveFile(fileHeader, tmpPath); err != nil {
			return errInternal(c, "stage upload: "+err.Error())
		}

		result, err := deps.Captures.Submit(c.Context(), tmpPath)
		if err != nil {
			// The record may or may not have landed; the sender is told
			// the submission did not complete.
			return errInternal(c, "capture did not complete: "+err.Error())
		}

		metrics.CapturesProcessed.WithLabelValues(string(result.Status)).Inc()

		resp := CaptureResponse{
			Status:         result.Status,
			Client:         result.Client,
			RawCoordinates: result.RawCoordinates,
			Record:         result.Record,
			ProcessedAt:    time.Now().Format(domain.TimestampLayout),
		}

		code := fiber.StatusOK
		switch result.Status {
		case domain.StatusSuccess:
			code = fiber.StatusCreated
			resp.Message = "capture " + strconv.Itoa(result.Record.Seq) + " stored for " + result.Client +
				" at " + result.Record.Coordinate().Display()
		case domain.StatusUnresolved:
			code = fiber.StatusCreated
			resp.Message = "capture " + strconv.Itoa(result.Record.Seq) + " stored at " +
				result.Record.Coordinate().Display() + ", no client matched"
		case domain.StatusDuplicate:
			metrics.DuplicatesSuppressed.Inc()
			resp.Message = "an equivalent capture is already on file"
		case domain.StatusInvalid:
			code = fiber.StatusUnprocessableEntity
			resp.Message = "photo is tagged with an unknown client"
		case domain.StatusNotFound:
			resp.Message = "no usable timestamp and coordinates found in the photo"
		}

		return c.Status(code).JSON(resp)
	}
}

// ListCapturesHandler returns stored records, optionally filtered by client.
func ListCapturesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var (
			records []domain.CapturedRecord
			err     error
		)
		if client := c.Query("client"); client != "" {
			records, err = deps.Records.ListByClient(c.Context(), client)
		} else {
			records, err = deps.Records.List(c.Context())
		}
		if err != nil {
			return errInternal(c, err.Error())
		}

		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 100)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 500 {
			limit = 100
		}

		total := len(records)
		if offset >= total {
			records = nil
		} else {
			end := offset + limit
			if end > total {
				end = total
			}
			records = records[offset:end]
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: records, Pagination: pg})
	}
}

// GetCaptureHandler returns one record by sequence number.
func GetCaptureHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		seq, err := c.ParamsInt("seq")
		if err != nil || seq <= 0 {
			return errBadRequest(c, "seq must be a positive integer")
		}

		rec, err := deps.Records.GetBySeq(c.Context(), seq)
		if err != nil {
			return errNotFound(c, "no capture with seq "+strconv.Itoa(seq))
		}
		return c.JSON(rec)
	}
}

// ListClientsHandler returns the configured site table.
func ListClientsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("Cache-Control", "public, max-age=600")
		return c.JSON(deps.Registry.Sites())
	}
}

// ClientCapturesHandler returns all records attributed to one client.
func ClientCapturesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, err := decodeParam(c, "name")
		if err != nil {
			return errBadRequest(c, "invalid client name")
		}
		if _, ok := deps.Registry.FindByName(name); !ok {
			return errNotFound(c, "unknown client: "+name)
		}

		records, err := deps.Records.ListByClient(c.Context(), name)
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(records)
	}
}

// ReportHandler serves the capture map. By default the most recently
// delivered report is returned; ?fresh=true renders the current record set
// on demand without going through the scheduler.
func ReportHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.QueryBool("fresh", false) {
			records, err := deps.Records.List(c.Context())
			if err != nil {
				return errInternal(c, err.Error())
			}
			if len(records) == 0 {
				return errNotFound(c, "no captures to render")
			}
			artifact, err := deps.Renderer.Render(c.Context(), records, deps.Registry.Sites())
			if err != nil {
				return errInternal(c, "render report: "+err.Error())
			}
			c.Set(fiber.HeaderContentType, "image/png")
			return c.Send(artifact)
		}

		if deps.Reports == nil {
			return errNotFound(c, "no report has been generated yet")
		}
		artifact, ok, err := deps.Reports.Latest()
		if err != nil {
			return errInternal(c, "read report: "+err.Error())
		}
		if !ok {
			return errNotFound(c, "no report has been generated yet")
		}
		c.Set(fiber.HeaderContentType, "image/png")
		return c.Send(artifact)
	}
}

// CaptureStats summarizes the stored collection.
type CaptureStats struct {
	Total      int            `json:"total"`
	ByClient   map[string]int `json:"by_client"`
	Unresolved int            `json:"unresolved"`
	Clients    int            `json:"clients"`
}

// StatsHandler returns per-client capture counts.
func StatsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		records, err := deps.Records.List(c.Context())
		if err != nil {
			return errInternal(c, err.Error())
		}

		stats := CaptureStats{
			ByClient: make(map[string]int),
			Clients:  len(deps.Registry.Sites()),
		}
		for _, rec := range records {
			stats.Total++
			if rec.Client == "" {
				stats.Unresolved++
				continue
			}
			stats.ByClient[rec.Client]++
		}

		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(stats)
	}
}

// decodeParam unescapes a path parameter; client names contain spaces.
func decodeParam(c *fiber.Ctx, name string) (string, error) {
	return url.PathUnescape(c.Params(name))
}
