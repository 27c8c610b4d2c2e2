package apihttp

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"metabohunter/internal/catalog"
	"metabohunter/internal/identify"
	"metabohunter/internal/logger"
	"metabohunter/internal/peaks"
	"metabohunter/internal/report"
	"metabohunter/internal/settings"

	"github.com/gin-gonic/gin"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"
)

const maxRequestBytes = 4 << 20

// Identifier runs one identification. *identify.Service satisfies it.
type Identifier interface {
	IdentifyPeaks(ctx context.Context, list peaks.List, opts ...identify.Option) (identify.Result, error)
}

// Router serves the /api group.
type Router struct {
	identifier     Identifier
	panel          *settings.Panel
	identifySchema *jsonschema.Schema
	settingsSchema *jsonschema.Schema
}

func NewRouter(identifier Identifier, panel *settings.Panel) (*Router, error) {
	idSchema, err := compileSchema("identify.json", identifyRequestSchema)
	if err != nil {
		return nil, err
	}
	setSchema, err := compileSchema("settings.json", settingsPatchSchema)
	if err != nil {
		return nil, err
	}
	return &Router{
		identifier:     identifier,
		panel:          panel,
		identifySchema: idSchema,
		settingsSchema: setSchema,
	}, nil
}

// Register mounts the routes on group.
func (r *Router) Register(group *gin.RouterGroup) {
	if group == nil {
		return
	}
	group.GET("/parameters", r.handleParameters)
	group.GET("/settings", r.handleGetSettings)
	group.PATCH("/settings", r.handlePatchSettings)
	group.POST("/identify", r.handleIdentify)
	group.POST("/identify/chart", r.handleIdentifyChart)
}

func (r *Router) handleParameters(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"fields": settings.Fields()})
}

func (r *Router) handleGetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, r.panel.Parameters())
}

func (r *Router) handlePatchSettings(c *gin.Context) {
	doc, ok := r.readDocument(c, r.settingsSchema)
	if !ok {
		return
	}
	values, _ := doc.Value().(map[string]any)
	if err := r.panel.Apply(values); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, r.panel.Parameters())
}

func (r *Router) handleIdentify(c *gin.Context) {
	result, ok := r.identify(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"matches":        result,
		"metabolite_ids": result.IDs(),
		"matched":        result.MatchedCount(),
	})
}

func (r *Router) handleIdentifyChart(c *gin.Context) {
	result, ok := r.identify(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := report.Render(&buf, result); err != nil {
		logger.Errorf("[api] chart render failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (r *Router) identify(c *gin.Context) (identify.Result, bool) {
	doc, ok := r.readDocument(c, r.identifySchema)
	if !ok {
		return nil, false
	}
	list, err := peaks.Normalize(doc.Get("shifts").Value(), doc.Get("intensities").Value())
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	params := r.panel.Parameters()
	if overrides, ok := doc.Get("parameters").Value().(map[string]any); ok && len(overrides) > 0 {
		if params, err = settings.Merge(params, overrides); err != nil {
			writeError(c, err)
			return nil, false
		}
	}
	result, err := r.identifier.IdentifyPeaks(c.Request.Context(), list, identify.WithParameters(params))
	if err != nil {
		logger.Warnf("[api] identify failed ip=%s peaks=%d err=%v", c.ClientIP(), len(list), err)
		writeError(c, err)
		return nil, false
	}
	return result, true
}

// readDocument reads the body, checks it is JSON and validates it against
// schema. On failure the response is already written.
func (r *Router) readDocument(c *gin.Context, schema *jsonschema.Schema) (gjson.Result, bool) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxRequestBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return gjson.Result{}, false
	}
	if !gjson.ValidBytes(raw) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body is not valid JSON"})
		return gjson.Result{}, false
	}
	doc := gjson.ParseBytes(raw)
	if err := schema.Validate(doc.Value()); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return gjson.Result{}, false
	}
	return doc, true
}

func writeError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, catalog.ErrInvalidParameter),
		errors.Is(err, peaks.ErrShape),
		errors.Is(err, peaks.ErrLengthMismatch):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		// parse failures, non-2xx answers and transport errors
		return http.StatusBadGateway
	}
}
