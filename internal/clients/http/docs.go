package http

import (
	"net/http"

	apidocs "github.com/aussiebroadwan/clientdesk/api/clients"
	"github.com/aussiebroadwan/clientdesk/pkg/clientsdk"
	"github.com/aussiebroadwan/clientdesk/pkg/httpx"
	"github.com/aussiebroadwan/clientdesk/pkg/slogx"
	"github.com/swaggo/swag"
)

const schemaPath = "/api/schema/"

// SchemaHandler serves the generated Swagger 2.0 document.
func SchemaHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := swag.ReadDoc(apidocs.SwaggerInfo.InstanceName())
		if err != nil {
			slogx.FromContext(r.Context()).Error("failed to render schema", "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, clientsdk.ErrorCodeServerError,
				"A server error occurred.")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(doc))
	}
}

// RedocHandler renders the schema with ReDoc.
func RedocHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(redocHTML))
	}
}

const redocHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Client Management API</title>
</head>
<body>
  <redoc spec-url="` + schemaPath + `"></redoc>
  <script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
</body>
</html>`
