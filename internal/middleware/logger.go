package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// sensitiveHeader matches header names whose values are never logged
var sensitiveHeader = regexp.MustCompile(`(?i)authorization|api[-_]?key|token|secret|password|bearer|cookie|session`)

// sensitiveFields lists JSON field-name substrings that get redacted
// from logged bodies
var sensitiveFields = []string{
	"password",
	"token",
	"api_key",
	"apikey",
	"secret",
	"authorization",
	"credential",
	"session",
	"cookie",
}

// responseWriter tees the response body into a buffer
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// LoggerConfig holds configuration for the logger middleware
type LoggerConfig struct {
	Format string // "json" or "pretty"
	Level  string // request/response bodies are only logged at "debug"
}

// RequestResponseLogger logs every request with redacted headers, and at
// debug level the redacted request and response bodies as well.
func RequestResponseLogger(config LoggerConfig) gin.HandlerFunc {
	logBodies := config.Level == "debug"

	return func(c *gin.Context) {
		startTime := time.Now()

		// Multipart uploads carry whole invoice scans, so those bodies
		// are never buffered or logged.
		var requestBody []byte
		if logBodies && c.Request.Body != nil && !strings.HasPrefix(c.ContentType(), "multipart/") {
			requestBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		var responseBodyWriter *responseWriter
		if logBodies {
			responseBodyWriter = &responseWriter{
				ResponseWriter: c.Writer,
				body:           &bytes.Buffer{},
			}
			c.Writer = responseBodyWriter
		}

		c.Next()

		var responseBody []byte
		if responseBodyWriter != nil {
			responseBody = responseBodyWriter.body.Bytes()
		}
		entry := buildLogEntry(c, requestBody, responseBody, time.Since(startTime))

		if config.Format == "pretty" {
			printPrettyLog(entry)
		} else {
			printJSONLog(entry)
		}
	}
}

// LogEntry represents a structured log entry
type LogEntry struct {
	Timestamp    string              `json:"timestamp"`
	Method       string              `json:"method"`
	Path         string              `json:"path"`
	StatusCode   int                 `json:"status_code"`
	Latency      string              `json:"latency"`
	ClientIP     string              `json:"client_ip"`
	UserAgent    string              `json:"user_agent"`
	Headers      map[string]string   `json:"headers"`
	QueryParams  map[string][]string `json:"query_params,omitempty"`
	RequestBody  interface{}         `json:"request_body,omitempty"`
	ResponseBody interface{}         `json:"response_body,omitempty"`
	Error        string              `json:"error,omitempty"`
}

func buildLogEntry(c *gin.Context, requestBody, responseBody []byte, latency time.Duration) LogEntry {
	entry := LogEntry{
		Timestamp:   time.Now().Format(time.RFC3339),
		Method:      c.Request.Method,
		Path:        c.Request.URL.Path,
		StatusCode:  c.Writer.Status(),
		Latency:     latency.String(),
		ClientIP:    c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
		Headers:     redactHeaders(c.Request.Header),
		QueryParams: c.Request.URL.Query(),
	}

	if len(requestBody) > 0 {
		entry.RequestBody = parseAndRedactBody(requestBody)
	}
	if len(responseBody) > 0 {
		entry.ResponseBody = parseAndRedactBody(responseBody)
	}
	if len(c.Errors) > 0 {
		entry.Error = c.Errors.String()
	}

	return entry
}

// redactHeaders replaces sensitive header values with a placeholder
func redactHeaders(headers map[string][]string) map[string]string {
	redacted := make(map[string]string)
	for key, values := range headers {
		if sensitiveHeader.MatchString(key) {
			redacted[key] = "[REDACTED]"
		} else {
			redacted[key] = strings.Join(values, ", ")
		}
	}
	return redacted
}

// parseAndRedactBody parses a JSON body and redacts sensitive fields.
// Non-JSON bodies are logged as a truncated string.
func parseAndRedactBody(body []byte) interface{} {
	var jsonBody interface{}
	if err := json.Unmarshal(body, &jsonBody); err != nil {
		bodyStr := string(body)
		if len(bodyStr) > 1000 {
			bodyStr = bodyStr[:1000] + "... (truncated)"
		}
		return bodyStr
	}

	redactSensitiveFields(jsonBody)
	return jsonBody
}

// redactSensitiveFields recursively redacts sensitive fields in JSON data
func redactSensitiveFields(data interface{}) {
	switch v := data.(type) {
	case map[string]interface{}:
		for key, value := range v {
			if isSensitiveField(key) {
				v[key] = "[REDACTED]"
			} else {
				redactSensitiveFields(value)
			}
		}
	case []interface{}:
		for _, item := range v {
			redactSensitiveFields(item)
		}
	}
}

func isSensitiveField(fieldName string) bool {
	lowerField := strings.ToLower(fieldName)
	for _, sensitive := range sensitiveFields {
		if strings.Contains(lowerField, sensitive) {
			return true
		}
	}
	return false
}

func printJSONLog(entry LogEntry) {
	jsonBytes, err := json.Marshal(entry)
	if err != nil {
		fmt.Printf(`{"error": "failed to marshal log entry: %v"}%s`, err, "\n")
		return
	}
	fmt.Println(string(jsonBytes))
}

// printPrettyLog outputs a compact human-readable line, with bodies on
// following lines when they were captured
func printPrettyLog(entry LogEntry) {
	fmt.Printf("%s | %3d | %8s | %s | %s %s\n",
		entry.Timestamp, entry.StatusCode, entry.Latency, entry.ClientIP,
		entry.Method, entry.Path)

	if entry.RequestBody != nil {
		fmt.Printf("  request:  %s\n", compactJSON(entry.RequestBody))
	}
	if entry.ResponseBody != nil {
		fmt.Printf("  response: %s\n", compactJSON(entry.ResponseBody))
	}
	if entry.Error != "" {
		fmt.Printf("  error: %s\n", entry.Error)
	}
}

func compactJSON(data interface{}) string {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(jsonBytes)
}
