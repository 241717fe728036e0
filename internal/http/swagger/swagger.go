package swagger

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	apicontract "github.com/tuanvumaihuynh/catalog-service/api-contract"
)

const (
	// URL is the path where the Swagger UI is served.
	URL = "/docs"

	// SpecURL is the path where the embedded OpenAPI contract is served.
	SpecURL = "/docs/openapi.yml"
)

// Register serves the Swagger UI and the embedded contract on r.
func Register(r chi.Router) {
	page := []byte(renderPage("Catalog Service API", SpecURL))
	spec := apicontract.GetSpecBytes()

	r.Get(URL, staticHandler("text/html; charset=utf-8", page))
	r.Get(SpecURL, staticHandler("application/yaml", spec))
}

func staticHandler(contentType string, body []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "no-cache")
		w.WriteHeader(http.StatusOK)
		//nolint:errcheck
		w.Write(body)
	}
}

func renderPage(title, specPath string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>%s</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.29.3/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.29.3/swagger-ui-bundle.js" crossorigin></script>
<script>
  window.onload = () => {
    window.ui = SwaggerUIBundle({
      url: '%s',
      dom_id: '#swagger-ui',
      deepLinking: true,
      docExpansion: 'list',
      tryItOutEnabled: true,
    });
  };
</script>
</body>
</html>
`, title, specPath)
}
