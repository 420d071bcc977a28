package doc

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/swaggo/swag"

	"github.com/joefazee/visaguide/internal/router"
)

type docHandler struct {
	env       string
	publicURL string
}

func (h *docHandler) serveSwaggerJSON(c *gin.Context) {
	// Get the original swagger JSON
	originalJSON, err := swag.ReadDoc()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read Swagger doc"})
		return
	}

	var swaggerData map[string]interface{}
	if err := json.Unmarshal([]byte(originalJSON), &swaggerData); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse Swagger doc"})
		return
	}

	swaggerData["servers"] = getServersForEnvironment(h.env, h.publicURL)

	components, ok := swaggerData["components"].(map[string]interface{})
	if !ok {
		components = make(map[string]interface{})
		swaggerData["components"] = components
	}
	securitySchemes, ok := components["securitySchemes"].(map[string]interface{})
	if !ok {
		securitySchemes = make(map[string]interface{})
		components["securitySchemes"] = securitySchemes
	}
	securitySchemes["AdminCookie"] = map[string]interface{}{
		"type":        "apiKey",
		"in":          "cookie",
		"name":        "admin_token",
		"description": "Session cookie set by POST /api/v1/admin/login",
	}
	securitySchemes["BearerAuth"] = map[string]interface{}{
		"type":         "http",
		"scheme":       "bearer",
		"bearerFormat": "PASETO",
		"description":  "The admin session token sent as a Bearer token",
	}

	modifiedJSON, err := json.Marshal(swaggerData)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate modified Swagger doc"})
		return
	}

	c.Data(http.StatusOK, "application/json", modifiedJSON)
}

func getServersForEnvironment(environment, publicURL string) []map[string]interface{} {
	servers := []map[string]interface{}{}

	if publicURL != "" {
		servers = append(servers, map[string]interface{}{
			"url":         strings.TrimRight(publicURL, "/") + router.BasePath,
			"description": serverDescription(environment),
		})
	}

	if environment == "development" || environment == "test" {
		local := "http://localhost:8080" + router.BasePath
		if len(servers) == 0 || servers[0]["url"] != local {
			servers = append(servers, map[string]interface{}{
				"url":         local,
				"description": "Local Development Server",
			})
		}
	}

	return servers
}

func serverDescription(environment string) string {
	switch environment {
	case "production":
		return "Production Server"
	case "staging":
		return "Staging Server"
	}
	return "Local Development Server"
}

func serveElements(c *gin.Context) {
	elementsHTML := `
<!DOCTYPE html>
<html>
<head>
    <title>Visa Guide API Documentation</title>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <script src="https://unpkg.com/@stoplight/elements/web-components.min.js"></script>
    <link rel="stylesheet" href="https://unpkg.com/@stoplight/elements/styles.min.css">
    <style>
        body { margin: 0; padding: 0; height: 100vh; }
        elements-api { height: 100%; }
    </style>
</head>
<body>
    <elements-api
        apiDescriptionUrl="/swagger/doc.json"
        router="hash"
        layout="sidebar"
        tryItCredentialsPolicy="include"
        tryItCorsProxy=""
        hideInternal="false"
    ></elements-api>
</body>
</html>`
	c.Header("Content-Type", "text/html")
	c.String(http.StatusOK, elementsHTML)
}

// Init serves the OpenAPI document and the Elements viewer.
func Init(r *gin.Engine, env, publicURL string) {
	h := &docHandler{env: env, publicURL: publicURL}
	r.GET("/swagger/doc.json", h.serveSwaggerJSON)

	r.GET("/docs/*any", serveElements)
}
