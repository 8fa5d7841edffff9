package response

import (
	"net/http"

	"github.com/gin-gonic/gin/render"
)

// problemRender is render.JSON with the problem media type.
type problemRender struct {
	body Problem
}

var _ render.Render = problemRender{}

func (r problemRender) Render(w http.ResponseWriter) error {
	r.WriteContentType(w)
	return render.JSON{Data: r.body}.Render(w)
}

func (r problemRender) WriteContentType(w http.ResponseWriter) {
	w.Header()["Content-Type"] = []string{problemContentType + "; charset=utf-8"}
}
