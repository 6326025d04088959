package web

import (
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templates embed.FS

// Handler serves the catalog page. Every action is a POST followed by a redirect to the page.
type Handler struct {
	ctr *Controller
	now func() time.Time
}

// NewHandler creates the page handlers around a controller.
func NewHandler(ctr *Controller) *Handler {
	return &Handler{ctr: ctr, now: time.Now}
}

// Templates parses the embedded page templates.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templates, "templates/*.html"))
}

// Register installs the templates and routes on the engine.
func (h *Handler) Register(server *gin.Engine) {
	server.SetHTMLTemplate(Templates())

	server.GET("/", h.Index)
	server.POST("/refresh", h.Refresh)
	server.POST("/products", h.Submit)
	server.POST("/products/:id/edit", h.Edit)
	server.POST("/products/:id/delete", h.RequestDelete)
	server.POST("/cancel", h.Cancel)
	server.POST("/delete/confirm", h.ConfirmDelete)
	server.POST("/delete/cancel", h.CancelDelete)
}

func (h *Handler) redirect(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}

// Index renders the page, loading the list on first visit.
func (h *Handler) Index(c *gin.Context) {
	if !h.ctr.State().Loaded {
		_ = h.ctr.Refresh(c.Request.Context())
	}
	c.HTML(http.StatusOK, "index.html", Render(h.ctr.State(), h.now()))
}

func (h *Handler) Refresh(c *gin.Context) {
	_ = h.ctr.Refresh(c.Request.Context())
	h.redirect(c)
}

func (h *Handler) Submit(c *gin.Context) {
	err := h.ctr.Submit(c.Request.Context(), Form{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Price:       c.PostForm("price"),
		Stock:       c.PostForm("stock"),
		Category:    c.PostForm("category"),
	})
	if errors.Is(err, ErrBusy) {
		slog.Warn("submit rejected while another change is in flight")
	}
	h.redirect(c)
}

func (h *Handler) Edit(c *gin.Context) {
	_ = h.ctr.BeginEdit(c.Request.Context(), c.Param("id"))
	h.redirect(c)
}

func (h *Handler) Cancel(c *gin.Context) {
	h.ctr.Cancel()
	h.redirect(c)
}

func (h *Handler) RequestDelete(c *gin.Context) {
	h.ctr.RequestDelete(c.Param("id"), c.PostForm("name"))
	h.redirect(c)
}

func (h *Handler) ConfirmDelete(c *gin.Context) {
	if err := h.ctr.ConfirmDelete(c.Request.Context()); errors.Is(err, ErrBusy) {
		slog.Warn("delete rejected while another change is in flight")
	}
	h.redirect(c)
}

func (h *Handler) CancelDelete(c *gin.Context) {
	h.ctr.CancelDelete()
	h.redirect(c)
}
