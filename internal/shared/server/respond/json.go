package respond

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// OK writes a 200 OK JSON response.
func OK(c *gin.Context, payload any) {
	JSON(c, http.StatusOK, payload)
}

// Created writes a 201 JSON response.
func Created(c *gin.Context, payload any) {
	JSON(c, http.StatusCreated, payload)
}

// Attachment sends body as a downloadable file.
func Attachment(c *gin.Context, fileName, contentType string, body []byte) {
	c.Header("Content-Disposition", disposition(fileName))
	c.Data(http.StatusOK, contentType, body)
}

// StreamAttachment copies r to the client as a downloadable file.
func StreamAttachment(c *gin.Context, fileName, contentType string, r io.Reader) {
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", disposition(fileName))
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, r)
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\r", "", "\n", "")

func disposition(fileName string) string {
	return `attachment; filename="` + quoteEscaper.Replace(fileName) + `"`
}
