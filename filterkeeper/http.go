package filterkeeper

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hazyhaar/pkg/shield"

	"github.com/hazyhaar/elpick/filterkeeper/internal/fetch"
)

// Router returns the management UI and JSON API.
func (k *Keeper) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(shield.SecurityHeaders(shield.DefaultHeaders()))
	r.Use(shield.MaxFormBody(k.config.MaxBody))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/", k.handleIndex)
	r.Post("/filters/{id}/toggle", k.handleFormToggle)
	r.Post("/filters/{id}/delete", k.handleFormDelete)

	r.Route("/api/filters", func(r chi.Router) {
		r.Get("/", k.handleList)
		r.Post("/", k.handleAdd)
		r.Get("/export", k.handleExport)
		r.Delete("/{id}", k.handleDelete)
		r.Post("/{id}/enabled", k.handleSetEnabled)
	})
	r.Post("/api/synthesize", k.handleSynthesize)
	return r
}

// Serve runs the HTTP server on the configured address until ctx is done.
func (k *Keeper) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              k.config.Listen,
		Handler:           k.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	k.logger.Info("filterkeeper: listening", "addr", k.config.Listen)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// ManageURL is the management page address.
func (k *Keeper) ManageURL() string {
	return "http://" + k.config.Listen + "/"
}

var indexTmpl = template.Must(template.New("index").Parse(`<!doctype html>
<html><head><meta charset="utf-8"><title>elpick filters</title>
<style>body{font-family:sans-serif;margin:2em}td{padding:.2em .8em}.off{color:#999}</style>
</head><body>
<h1>Cosmetic filters</h1>
<p><a href="/api/filters/export">Export</a></p>
<table>
<tr><th>Host</th><th>Selector</th><th>Enabled</th><th>ID</th><th></th></tr>
{{range .}}<tr{{if not .Enabled}} class="off"{{end}}><td>{{.Host}}</td><td><code>{{.Selector}}</code></td><td>{{.Enabled}}</td><td>{{.ID}}</td>
<td><form method="post" action="/filters/{{.ID}}/toggle"><input type="hidden" name="enabled" value="{{not .Enabled}}"><button>{{if .Enabled}}Disable{{else}}Enable{{end}}</button></form>
<form method="post" action="/filters/{{.ID}}/delete"><button>Delete</button></form></td></tr>
{{else}}<tr><td colspan="5">No filters yet.</td></tr>
{{end}}</table>
</body></html>
`))

func (k *Keeper) handleIndex(w http.ResponseWriter, r *http.Request) {
	fs, err := k.ListFilters(r.Context(), "")
	if err != nil {
		k.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, fs); err != nil {
		k.logger.Warn("filterkeeper: render index", "error", err)
	}
}

func (k *Keeper) handleFormToggle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	enabled := r.PostFormValue("enabled") == "true"
	if err := k.SetEnabled(r.Context(), chi.URLParam(r, "id"), enabled); err != nil {
		k.writeError(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (k *Keeper) handleFormDelete(w http.ResponseWriter, r *http.Request) {
	if err := k.DeleteFilter(r.Context(), chi.URLParam(r, "id")); err != nil {
		k.writeError(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (k *Keeper) handleList(w http.ResponseWriter, r *http.Request) {
	fs, err := k.ListFilters(r.Context(), r.URL.Query().Get("host"))
	if err != nil {
		k.writeError(w, err)
		return
	}
	if fs == nil {
		fs = []*Filter{}
	}
	writeJSON(w, http.StatusOK, fs)
}

type addFilterBody struct {
	Host     string `json:"host"`
	Selector string `json:"selector"`
}

func (k *Keeper) handleAdd(w http.ResponseWriter, r *http.Request) {
	var body addFilterBody
	if err := k.decodeJSON(w, r, &body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	f, err := k.AddFilter(r.Context(), body.Host, body.Selector)
	if err != nil {
		k.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

func (k *Keeper) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := k.DeleteFilter(r.Context(), chi.URLParam(r, "id")); err != nil {
		k.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (k *Keeper) handleSetEnabled(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Enabled bool `json:"enabled"`
	}
	if err := k.decodeJSON(w, r, &body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	id := chi.URLParam(r, "id")
	if err := k.SetEnabled(r.Context(), id, body.Enabled); err != nil {
		k.writeError(w, err)
		return
	}
	f, err := k.GetFilter(r.Context(), id)
	if err != nil {
		k.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (k *Keeper) handleExport(w http.ResponseWriter, r *http.Request) {
	rules, err := k.Export(r.Context(), r.URL.Query().Get("host"))
	if err != nil {
		k.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	for _, line := range rules {
		w.Write([]byte(line + "\n"))
	}
}

func (k *Keeper) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	var req SynthesizeRequest
	if err := k.decodeJSON(w, r, &req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	res, err := k.Synthesize(r.Context(), req)
	if err != nil {
		k.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (k *Keeper) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrInvalidSelector), errors.Is(err, ErrInvalidHost),
		errors.Is(err, ErrNoSource), errors.Is(err, ErrNoMatch),
		errors.Is(err, fetch.ErrSSRF), errors.Is(err, fetch.ErrUnsafeScheme):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		k.logger.Error("filterkeeper: request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// decodeJSON reads a JSON request body capped at the configured size.
func (k *Keeper) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, k.config.MaxBody)
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
