package handler

import (
	"encoding/json"
	"log"

	"github.com/gin-gonic/gin"
)

// logError emits a structured error line for a failed request. Field
// values must already be safe to log; never pass credentials.
func logError(c *gin.Context, event string, err error, fields map[string]interface{}) {
	entry := map[string]interface{}{
		"event":  event,
		"error":  err.Error(),
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
	}
	for k, v := range fields {
		entry[k] = v
	}

	encoded, marshalErr := json.Marshal(entry)
	if marshalErr != nil {
		log.Printf("event=%s error=%v", event, err)
		return
	}
	log.Println(string(encoded))
}
