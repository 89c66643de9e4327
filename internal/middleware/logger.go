package middleware

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// sensitiveHeaderPatterns match headers that must never reach the logs.
var sensitiveHeaderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)authorization`),
	regexp.MustCompile(`(?i)api[-_]?key`),
	regexp.MustCompile(`(?i)token`),
	regexp.MustCompile(`(?i)secret`),
	regexp.MustCompile(`(?i)cookie`),
	regexp.MustCompile(`(?i)session`),
}

// LoggerConfig holds configuration for the logger middleware
type LoggerConfig struct {
	Format string // "json" or "pretty"
	Level  string // "debug", "info", "warn", "error"
}

// LogEntry represents a structured request log entry
type LogEntry struct {
	Timestamp   string              `json:"timestamp"`
	Method      string              `json:"method"`
	Path        string              `json:"path"`
	StatusCode  int                 `json:"status_code"`
	Latency     string              `json:"latency"`
	ClientIP    string              `json:"client_ip"`
	UserAgent   string              `json:"user_agent"`
	Headers     map[string]string   `json:"headers,omitempty"`
	QueryParams map[string][]string `json:"query_params,omitempty"`
	Error       string              `json:"error,omitempty"`
}

// RequestLogger creates a middleware that logs every request with redacted
// headers. Bodies are not captured: exports are large binaries and the
// remaining payloads are reproducible from the stored document.
func RequestLogger(config LoggerConfig) gin.HandlerFunc {
	verbose := config.Level == "debug"

	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		entry := LogEntry{
			Timestamp:  time.Now().Format(time.RFC3339),
			Method:     c.Request.Method,
			Path:       c.Request.URL.Path,
			StatusCode: c.Writer.Status(),
			Latency:    time.Since(startTime).String(),
			ClientIP:   c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
		}
		if verbose {
			entry.Headers = redactHeaders(c.Request.Header)
			entry.QueryParams = c.Request.URL.Query()
		}
		if len(c.Errors) > 0 {
			entry.Error = c.Errors.String()
		}

		if config.Format == "pretty" {
			printPrettyLog(entry)
		} else {
			printJSONLog(entry)
		}
	}
}

// redactHeaders redacts sensitive headers
func redactHeaders(headers map[string][]string) map[string]string {
	redacted := make(map[string]string)
	for key, values := range headers {
		if isSensitiveHeader(key) {
			redacted[key] = "[REDACTED]"
		} else {
			redacted[key] = strings.Join(values, ", ")
		}
	}
	return redacted
}

// isSensitiveHeader checks if a header name is sensitive
func isSensitiveHeader(headerName string) bool {
	for _, pattern := range sensitiveHeaderPatterns {
		if pattern.MatchString(headerName) {
			return true
		}
	}
	return false
}

// printJSONLog outputs the log entry as JSON
func printJSONLog(entry LogEntry) {
	jsonBytes, err := json.Marshal(entry)
	if err != nil {
		fmt.Printf(`{"error": "failed to marshal log entry: %v"}%s`, err, "\n")
		return
	}
	fmt.Println(string(jsonBytes))
}

// printPrettyLog outputs the log entry in a human-readable format
func printPrettyLog(entry LogEntry) {
	fmt.Printf("%s | %3d | %8s | %s %s (%s)\n",
		entry.Timestamp, entry.StatusCode, entry.Latency, entry.Method, entry.Path, entry.ClientIP)
	if entry.Error != "" {
		fmt.Printf("  error: %s\n", entry.Error)
	}
}
