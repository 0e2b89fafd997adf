package main

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ubleipzig/fincconv/internal/sources"
)

// response content types per output format
var contentTypes = map[string]string{
	sources.FormatBinary: "application/marc",
	sources.FormatXML:    "application/xml",
	sources.FormatNDJSON: "application/x-ndjson",
}

func (s *svcContext) ignoreHandler(c *gin.Context) {
}

func (s *svcContext) versionHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.version)
}

func (s *svcContext) identifyHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.identity)
}

func (s *svcContext) sourcesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.identity.Sources)
}

func (s *svcContext) healthCheckHandler(c *gin.Context) {
	type hcResp struct {
		Healthy bool   `json:"healthy"`
		Message string `json:"message,omitempty"`
	}

	hcMap := make(map[string]hcResp)
	healthy := true

	for _, src := range s.identity.Sources {
		resp := hcResp{Healthy: src.Available}

		if src.Available == false {
			resp.Message = "source not available"
			healthy = false
		}

		hcMap[src.Name] = resp
	}

	hcStatus := http.StatusOK
	if healthy == false {
		hcStatus = http.StatusInternalServerError
	}

	c.JSON(hcStatus, hcMap)
}

// convertHandler converts the request body, a delivered record stream
// for one source, and returns the converted records. The output format
// defaults per source and can be overridden with the format query
// parameter.
func (s *svcContext) convertHandler(c *gin.Context) {
	cl := clientContext{}
	cl.init(c)

	cl.logRequest()

	format := c.Query("format")

	runner, src, err := s.lookupRunner(c.Param("source"), format)
	if err != nil {
		cl.logResponse(http.StatusBadRequest, err)
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	if format == "" {
		format = src.OutputExt
	}

	var out bytes.Buffer

	stats, err := runner.Run(c.Request.Context(), c.Request.Body, &out)
	if err != nil {
		cl.logResponse(http.StatusUnprocessableEntity, err)
		c.String(http.StatusUnprocessableEntity, err.Error())
		return
	}

	cl.log("[CONVERT] source %s: read = [%d]  written = [%d]  skipped = [%d]", stats.SID, stats.Read, stats.Written, stats.Skipped)

	c.Header("X-Records-Read", itoa(stats.Read))
	c.Header("X-Records-Written", itoa(stats.Written))
	c.Header("X-Records-Skipped", itoa(stats.Skipped))

	cl.logResponse(http.StatusOK, nil)
	c.Data(http.StatusOK, contentTypes[format], out.Bytes())
}
