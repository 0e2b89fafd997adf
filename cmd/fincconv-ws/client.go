package main

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type clientContext struct {
	reqID  string       // internally generated
	start  time.Time    // internally set
	ginCtx *gin.Context // gin context
}

func (c *clientContext) init(ctx *gin.Context) {
	c.ginCtx = ctx
	c.start = time.Now()
	c.reqID = uuid.NewString()[:8]
}

func (c *clientContext) logRequest() {
	query := ""
	if c.ginCtx.Request.URL.RawQuery != "" {
		query = fmt.Sprintf("?%s", c.ginCtx.Request.URL.RawQuery)
	}

	c.log("[REQUEST] %s %s%s", c.ginCtx.Request.Method, c.ginCtx.Request.URL.Path, query)
}

func (c *clientContext) logResponse(status int, err error) {
	msg := fmt.Sprintf("[RESPONSE] status: %d (%s)", status, time.Since(c.start))

	if err != nil {
		msg = msg + fmt.Sprintf(", error: %s", err.Error())
	}

	c.log("%s", msg)
}

func (c *clientContext) printf(prefix, format string, args ...interface{}) {
	str := fmt.Sprintf(format, args...)

	if prefix != "" {
		str = strings.Join([]string{prefix, str}, " ")
	}

	log.Printf("[%s] %s", c.reqID, str)
}

func (c *clientContext) log(format string, args ...interface{}) {
	c.printf("", format, args...)
}

func (c *clientContext) err(format string, args ...interface{}) {
	c.printf("ERROR:", format, args...)
}
