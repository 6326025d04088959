package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/iyhunko/product-catalog/internal/client"
	"github.com/iyhunko/product-catalog/internal/model"
)

const (
	successNoticeTTL = 3 * time.Second
	errorNoticeTTL   = 5 * time.Second
)

// ErrBusy is returned when a mutation is requested while another one is in flight.
var ErrBusy = errors.New("another change is still in progress")

// errInvalidForm marks form values rejected before any API call.
var errInvalidForm = errors.New("invalid form")

// API is the subset of the catalog client the controller drives.
type API interface {
	ListProducts(ctx context.Context) ([]*model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	CreateProduct(ctx context.Context, fields model.ProductFields) (*model.Product, error)
	UpdateProduct(ctx context.Context, id string, fields model.ProductFields) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) (*model.Product, error)
}

// Mode is the form mode of the controller.
type Mode int

const (
	// ModeCreate submits the form as a new product.
	ModeCreate Mode = iota
	// ModeEdit submits the form as a replacement of the remembered product.
	ModeEdit
)

// NoticeKind tells success and error notices apart.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a transient message shown above the form.
type Notice struct {
	Kind      NoticeKind
	Text      string
	ExpiresAt time.Time
}

// Form holds the raw form values as typed by the user.
type Form struct {
	Name        string
	Description string
	Price       string
	Stock       string
	Category    string
}

// PendingDelete is a delete waiting for confirmation.
type PendingDelete struct {
	ID   string
	Name string
}

// State is everything the page is rendered from.
type State struct {
	Mode          Mode
	EditingID     string
	Form          Form
	Products      []*model.Product
	Loaded        bool
	LoadError     string
	Notices       []Notice
	PendingDelete *PendingDelete
	Busy          bool
}

// Controller turns user actions into API calls and API results into State.
type Controller struct {
	mu    sync.Mutex
	api   API
	now   func() time.Time
	state State
}

// NewController creates a controller in create mode with an empty list.
func NewController(api API) *Controller {
	return &Controller{
		api: api,
		now: time.Now,
	}
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	s.Products = append([]*model.Product(nil), c.state.Products...)
	s.Notices = append([]Notice(nil), c.state.Notices...)
	if c.state.PendingDelete != nil {
		pd := *c.state.PendingDelete
		s.PendingDelete = &pd
	}
	return s
}

// Refresh re-fetches the full product list.
func (c *Controller) Refresh(ctx context.Context) error {
	products, err := c.api.ListProducts(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state.LoadError = describe(err)
		c.notifyError("Error loading products", err)
		return err
	}
	c.state.Products = products
	c.state.Loaded = true
	c.state.LoadError = ""
	return nil
}

// BeginEdit loads the product into the form and switches to edit mode.
func (c *Controller) BeginEdit(ctx context.Context, id string) error {
	product, err := c.api.GetProduct(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.notifyError("Error loading product", err)
		return err
	}

	c.state.Mode = ModeEdit
	c.state.EditingID = product.ID
	c.state.Form = Form{
		Name:        product.Name,
		Description: product.Description,
		Price:       strconv.FormatFloat(product.Price, 'f', -1, 64),
		Stock:       strconv.Itoa(product.Stock),
		Category:    product.Category,
	}
	return nil
}

// Cancel leaves edit mode and clears the form without calling the API.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetForm()
}

// Submit creates or updates a product depending on the mode.
func (c *Controller) Submit(ctx context.Context, form Form) error {
	c.mu.Lock()
	if c.state.Busy {
		c.mu.Unlock()
		return ErrBusy
	}
	c.state.Form = form
	fields, err := ParseForm(form)
	if err != nil {
		c.notifyError(c.failurePrefix(), err)
		c.mu.Unlock()
		return err
	}
	mode, id := c.state.Mode, c.state.EditingID
	c.state.Busy = true
	c.mu.Unlock()

	if mode == ModeEdit {
		_, err = c.api.UpdateProduct(ctx, id, fields)
	} else {
		_, err = c.api.CreateProduct(ctx, fields)
	}

	c.mu.Lock()
	c.state.Busy = false
	if err != nil {
		c.notifyError(c.failurePrefix(), err)
		c.mu.Unlock()
		return err
	}
	c.resetForm()
	if mode == ModeEdit {
		c.notifySuccess("Product updated successfully")
	} else {
		c.notifySuccess("Product created successfully")
	}
	c.mu.Unlock()

	// the mutation succeeded even when the list cannot be reloaded
	_ = c.Refresh(ctx)
	return nil
}

// RequestDelete asks for confirmation before deleting.
func (c *Controller) RequestDelete(id, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.PendingDelete = &PendingDelete{ID: id, Name: name}
}

// CancelDelete drops the pending delete.
func (c *Controller) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.PendingDelete = nil
}

// ConfirmDelete performs the pending delete. It is a no-op without one.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Busy {
		c.mu.Unlock()
		return ErrBusy
	}
	pending := c.state.PendingDelete
	if pending == nil {
		c.mu.Unlock()
		return nil
	}
	c.state.PendingDelete = nil
	c.state.Busy = true
	c.mu.Unlock()

	_, err := c.api.DeleteProduct(ctx, pending.ID)

	c.mu.Lock()
	c.state.Busy = false
	if err != nil {
		c.notifyError("Error deleting product", err)
		c.mu.Unlock()
		return err
	}
	if c.state.Mode == ModeEdit && c.state.EditingID == pending.ID {
		c.resetForm()
	}
	c.notifySuccess("Product deleted successfully")
	c.mu.Unlock()

	_ = c.Refresh(ctx)
	return nil
}

func (c *Controller) failurePrefix() string {
	if c.state.Mode == ModeEdit {
		return "Error updating product"
	}
	return "Error creating product"
}

func (c *Controller) resetForm() {
	c.state.Mode = ModeCreate
	c.state.EditingID = ""
	c.state.Form = Form{}
}

func (c *Controller) notifySuccess(text string) {
	c.addNotice(NoticeSuccess, text, successNoticeTTL)
}

func (c *Controller) notifyError(prefix string, err error) {
	slog.Error(prefix, slog.Any("err", err))
	c.addNotice(NoticeError, prefix+": "+describe(err), errorNoticeTTL)
}

func (c *Controller) addNotice(kind NoticeKind, text string, ttl time.Duration) {
	now := c.now()
	kept := c.state.Notices[:0]
	for _, n := range c.state.Notices {
		if now.Before(n.ExpiresAt) {
			kept = append(kept, n)
		}
	}
	c.state.Notices = append(kept, Notice{Kind: kind, Text: text, ExpiresAt: now.Add(ttl)})
}

// describe prefers the message the server sent.
func describe(err error) string {
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Error()
	case errors.As(err, &apiErr):
		return fmt.Sprintf("server responded with status %d", apiErr.StatusCode)
	case errors.Is(err, errInvalidForm):
		return strings.TrimPrefix(err.Error(), errInvalidForm.Error()+": ")
	default:
		return "catalog API is unavailable"
	}
}

// ParseForm converts raw form values into the API payload. A blank price is
// sent as missing so the server reports it; a non-numeric one is rejected here.
func ParseForm(form Form) (model.ProductFields, error) {
	fields := model.ProductFields{
		Name:        strings.TrimSpace(form.Name),
		Description: strings.TrimSpace(form.Description),
		Category:    strings.TrimSpace(form.Category),
	}
	if fields.Category == "" {
		fields.Category = model.DefaultCategory
	}

	if raw := strings.TrimSpace(form.Price); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
			return fields, fmt.Errorf("%w: price must be a number", errInvalidForm)
		}
		fields.Price = &price
	}

	if raw := strings.TrimSpace(form.Stock); raw != "" {
		stock, err := strconv.Atoi(raw)
		if err != nil {
			return fields, fmt.Errorf("%w: stock must be a whole number", errInvalidForm)
		}
		fields.Stock = &stock
	}

	return fields, nil
}
