package swagger

import (
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/vitalvas/swagdoc/mux"
	"gopkg.in/yaml.v3"
)

// HandleConfig configures the endpoints registered by Handle.
type HandleConfig struct {
	// Prefix is the path the endpoints are mounted under
	// (default: "/swagger").
	Prefix string

	// BaseURL is resolved against the request URL to produce the basePath
	// of the declaration (default: "/").
	BaseURL string

	// Title overrides the HTML page title (default: "API documentation").
	Title string

	// Description is the text of the resource listing and of its single
	// API reference (default: "API Spec").
	Description string

	// APIKey, when set, is sent by the UI as the "api_key" query parameter.
	APIKey string

	// NotFoundOnEmpty answers 404 on the declaration endpoints when no
	// route carries a documented operation.
	NotFoundOnEmpty bool

	// DisableDocs disables the interactive HTML page.
	DisableDocs bool

	// DisableYAML disables the YAML declaration endpoint.
	DisableYAML bool

	// SwaggerUIConfig provides additional SwaggerUi options, rendered as
	// JavaScript object properties next to url and dom_id.
	SwaggerUIConfig map[string]any
}

func (cfg HandleConfig) prefix() string {
	if cfg.Prefix == "" {
		return "/swagger"
	}
	return strings.TrimRight(cfg.Prefix, "/")
}

func (cfg HandleConfig) baseURL() string {
	if cfg.BaseURL == "" {
		return "/"
	}
	return cfg.BaseURL
}

func (cfg HandleConfig) title() string {
	if cfg.Title == "" {
		return "API documentation"
	}
	return cfg.Title
}

func (cfg HandleConfig) description() string {
	if cfg.Description == "" {
		return "API Spec"
	}
	return cfg.Description
}

// Handle registers the documentation endpoints on the router:
//
//	<prefix>/spec.html  - Swagger UI page (unless DisableDocs)
//	<prefix>/spec.json  - resource listing
//	<prefix>/spec       - API declaration as JSON
//	<prefix>/spec.yaml  - API declaration as YAML (unless DisableYAML)
//
// The declaration is assembled from the routing table of r on first request
// and cached; its basePath is derived from each request. JSON endpoints
// accept a "pretty" query parameter.
func (d *Docs) Handle(r *mux.Router, cfg *HandleConfig) {
	if cfg == nil {
		cfg = &HandleConfig{}
	}

	prefix := cfg.prefix()
	decl := &declarationHandler{docs: d, router: r, cfg: cfg}

	if !cfg.DisableDocs {
		r.Handle(routePattern(prefix, "/spec.html"), &uiHandler{
			page: swaggerUITemplate(cfg.title(), prefix+"/spec.json", cfg.APIKey, cfg.SwaggerUIConfig),
		}).Name("swagger-api-docs")
	}
	r.Handle(routePattern(prefix, "/spec.json"), &listingHandler{
		docs:     d,
		specPath: prefix + "/spec",
		cfg:      cfg,
	}).Name("swagger-api-list")
	r.Handle(routePattern(prefix, "/spec"), decl).Name("swagger-api-spec")
	if !cfg.DisableYAML {
		r.Handle(routePattern(prefix, "/spec.yaml"), &yamlDeclarationHandler{decl}).Name("swagger-api-spec-yaml")
	}
}

func routePattern(prefix, name string) string {
	return regexp.QuoteMeta(prefix + name)
}

// uiHandler serves the interactive documentation page.
type uiHandler struct {
	page string
}

func (h *uiHandler) Get(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(h.page))
}

// listingHandler serves the resource listing pointing at the declaration.
type listingHandler struct {
	docs     *Docs
	specPath string
	cfg      *HandleConfig
}

func (h *listingHandler) Get(w http.ResponseWriter, r *http.Request) {
	u := requestURL(r)
	listing := ResourceListing{
		APIVersion:     h.docs.info.APIVersion,
		SwaggerVersion: SwaggerVersion,
		BasePath:       u.Scheme + "://" + u.Host,
		Produces:       []string{"application/json"},
		Description:    h.cfg.description(),
		APIs: []ResourceRef{{
			Path:        h.specPath,
			Description: h.cfg.description(),
		}},
	}
	writeJSON(w, r, listing)
}

// declarationHandler serves the API declaration as JSON.
type declarationHandler struct {
	docs   *Docs
	router *mux.Router
	cfg    *HandleConfig

	once     sync.Once
	doc      *APIDeclaration
	buildErr error
}

func (h *declarationHandler) Get(w http.ResponseWriter, r *http.Request) {
	doc, code, err := h.declaration(r)
	if err != nil {
		http.Error(w, err.Error(), code)
		return
	}
	writeJSON(w, r, doc)
}

// declaration returns a per-request copy of the cached declaration with the
// basePath resolved against the request URL.
func (h *declarationHandler) declaration(r *http.Request) (*APIDeclaration, int, error) {
	h.once.Do(func() {
		h.doc, h.buildErr = h.docs.BuildRouter(h.router)
	})
	if h.buildErr != nil {
		return nil, http.StatusInternalServerError, h.buildErr
	}
	if h.cfg.NotFoundOnEmpty && len(h.doc.APIs) == 0 {
		return nil, http.StatusNotFound, ErrNoEligibleRoutes
	}

	ref, err := url.Parse(h.cfg.baseURL())
	if err != nil {
		return nil, http.StatusInternalServerError, fmt.Errorf("swagger: invalid base url: %w", err)
	}

	doc := *h.doc
	doc.BasePath = strings.TrimSuffix(requestURL(r).ResolveReference(ref).String(), "/")
	return &doc, http.StatusOK, nil
}

// yamlDeclarationHandler serves the API declaration as YAML.
type yamlDeclarationHandler struct {
	decl *declarationHandler
}

func (h *yamlDeclarationHandler) Get(w http.ResponseWriter, r *http.Request) {
	doc, code, err := h.decl.declaration(r)
	if err != nil {
		http.Error(w, err.Error(), code)
		return
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		http.Error(w, "failed to serialize spec as YAML", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/x-yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// requestURL reconstructs the absolute URL of a request. A scheme already
// set on r.URL by a proxy middleware wins over X-Forwarded-Proto, which
// wins over the connection state.
func requestURL(r *http.Request) *url.URL {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
	}
	if r.URL.Scheme != "" {
		scheme = r.URL.Scheme
	}

	return &url.URL{
		Scheme:   scheme,
		Host:     r.Host,
		Path:     r.URL.Path,
		RawQuery: r.URL.RawQuery,
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	var (
		data []byte
		err  error
	)
	if _, pretty := r.URL.Query()["pretty"]; pretty {
		data, err = json.MarshalIndent(v, "", "    ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		http.Error(w, "failed to serialize spec as JSON", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func swaggerUITemplate(title, listingPath, apiKey string, config map[string]any) string {
	var extra string
	if len(config) > 0 {
		keys := make([]string, 0, len(config))
		for k := range config {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var buf strings.Builder
		for _, k := range keys {
			v, err := json.Marshal(config[k])
			if err != nil {
				continue
			}
			fmt.Fprintf(&buf, ", %q: %s", k, v)
		}
		extra = buf.String()
	}

	var auth string
	if apiKey != "" {
		key, _ := json.Marshal(apiKey)
		auth = fmt.Sprintf(`
  onComplete: function() {
    window.swaggerUi.api.clientAuthorizations.add("api_key", new SwaggerClient.ApiKeyAuthorization("api_key", %s, "query"));
  },`, key)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<link rel="stylesheet" href="https://unpkg.com/swagger-ui@2.2.10/dist/css/screen.css">
<script src="https://unpkg.com/swagger-ui@2.2.10/dist/lib/object-assign-pollyfill.js"></script>
<script src="https://unpkg.com/swagger-ui@2.2.10/dist/lib/jquery-1.8.0.min.js"></script>
<script src="https://unpkg.com/swagger-ui@2.2.10/dist/lib/handlebars-4.0.5.js"></script>
<script src="https://unpkg.com/swagger-ui@2.2.10/dist/lib/lodash.min.js"></script>
<script src="https://unpkg.com/swagger-ui@2.2.10/dist/lib/backbone-min.js"></script>
<script src="https://unpkg.com/swagger-ui@2.2.10/dist/lib/highlight.9.1.0.pack.js"></script>
<script src="https://unpkg.com/swagger-ui@2.2.10/dist/lib/marked.js"></script>
<script src="https://unpkg.com/swagger-ui@2.2.10/dist/swagger-ui.min.js"></script>
</head>
<body class="swagger-section">
<div id="swagger-ui-container" class="swagger-ui-wrap"></div>
<script>
window.swaggerUi = new SwaggerUi({
  url: window.location.origin + %q,
  dom_id: "swagger-ui-container",%s
  supportedSubmitMethods: ["get", "post", "put", "patch", "delete"]%s
});
window.swaggerUi.load();
</script>
</body>
</html>`, html.EscapeString(title), listingPath, auth, extra)
}
