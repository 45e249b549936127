package handlers

import (
	"bytes"
	"net/http"
	"toilet-finder/middleware"
	"toilet-finder/utils/errors"
	"toilet-finder/web"
)

func Page(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := web.RenderPage(&buf, web.PageData{}); err != nil {
		middleware.WriteError(w, errors.Wrap(err, "RENDER_FAILED", "Failed to render page", http.StatusInternalServerError))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
