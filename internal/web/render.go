package web

import (
	"fmt"
	"time"
)

// ProductView is one product card.
type ProductView struct {
	ID          string
	Name        string
	Description string
	Category    string
	Price       string
	Stock       int
}

// NoticeView is a notice with the time it has left on screen.
type NoticeView struct {
	Kind        NoticeKind
	Text        string
	RemainingMS int64
}

// Page is the template data of the catalog page.
type Page struct {
	Title         string
	SubmitLabel   string
	Editing       bool
	EditingID     string
	Form          Form
	Products      []ProductView
	Count         int
	Loaded        bool
	LoadError     string
	Notices       []NoticeView
	PendingDelete *PendingDelete
	Busy          bool
}

// Render builds the page for the given state. Notices expired at now are dropped.
func Render(state State, now time.Time) Page {
	page := Page{
		Title:         "Add New Product",
		SubmitLabel:   "Add Product",
		Form:          state.Form,
		Count:         len(state.Products),
		Loaded:        state.Loaded,
		LoadError:     state.LoadError,
		PendingDelete: state.PendingDelete,
		Busy:          state.Busy,
		Products:      make([]ProductView, 0, len(state.Products)),
	}
	if state.Mode == ModeEdit {
		page.Title = "Edit Product"
		page.SubmitLabel = "Save Changes"
		page.Editing = true
		page.EditingID = state.EditingID
	}

	for _, p := range state.Products {
		page.Products = append(page.Products, ProductView{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Category:    p.Category,
			Price:       fmt.Sprintf("$%.2f", p.Price),
			Stock:       p.Stock,
		})
	}

	for _, n := range state.Notices {
		if now.Before(n.ExpiresAt) {
			page.Notices = append(page.Notices, NoticeView{
				Kind:        n.Kind,
				Text:        n.Text,
				RemainingMS: n.ExpiresAt.Sub(now).Milliseconds(),
			})
		}
	}

	return page
}
