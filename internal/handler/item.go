package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hackerbomzzzhack-lab/fast-apiv1/internal/errs"
	"github.com/hackerbomzzzhack-lab/fast-apiv1/internal/model"
	"github.com/hackerbomzzzhack-lab/fast-apiv1/internal/queue"
	"github.com/hackerbomzzzhack-lab/fast-apiv1/internal/service"
	"github.com/hackerbomzzzhack-lab/fast-apiv1/internal/validation"
)

// ItemStore is the persistence the item endpoints need. A false boolean
// means the item does not exist; errors are store failures only.
type ItemStore interface {
	Insert(ctx context.Context, name, description string) (model.Item, error)
	ListAll(ctx context.Context) ([]model.Item, error)
	GetByID(ctx context.Context, id int64) (model.Item, bool, error)
	Update(ctx context.Context, id int64, name, description string) (model.Item, bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// ItemHandler implements the /items endpoints. Each request performs
// exactly one store call.
type ItemHandler struct {
	Items  ItemStore
	Events service.Publisher
	Log    zerolog.Logger

	pending sync.WaitGroup // in-flight event publications
}

// NewItemHandler constructs an ItemHandler and panics if a dependency is nil.
func NewItemHandler(items ItemStore, events service.Publisher, log zerolog.Logger) *ItemHandler {
	if items == nil || events == nil {
		panic("nil dependency passed to NewItemHandler")
	}
	return &ItemHandler{Items: items, Events: events, Log: log}
}

// ----- DTOs -----

// ItemCreate is the body of POST /items and PUT /items/:id. Pointers tell
// an absent or null field apart from an empty string.
type ItemCreate struct {
	Name        *string `json:"name" validate:"required"`
	Description *string `json:"description" validate:"required"`
}

func (p *ItemCreate) Validate() error { return validation.Struct(p) }

// ItemResponse is the JSON form of a stored item.
type ItemResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func toResponse(it model.Item) ItemResponse {
	return ItemResponse{ID: it.ID, Name: it.Name, Description: it.Description}
}

var errItemNotFound = errs.NewNotFoundError("Item not found")

// Create handles POST /items.
func (h *ItemHandler) Create(c echo.Context) error {
	var body ItemCreate
	if err := validation.BindAndValidate(c, &body); err != nil {
		return err
	}
	item, err := h.Items.Insert(c.Request().Context(), *body.Name, *body.Description)
	if err != nil {
		return err
	}
	h.publish(c, queue.ItemCreated, item)
	return c.JSON(http.StatusCreated, toResponse(item))
}

// List handles GET /items.
func (h *ItemHandler) List(c echo.Context) error {
	items, err := h.Items.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toResponse(it))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /items/:id.
func (h *ItemHandler) Get(c echo.Context) error {
	id, err := validation.ParamInt64(c, "id")
	if err != nil {
		return err
	}
	item, found, err := h.Items.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if !found {
		return errItemNotFound
	}
	return c.JSON(http.StatusOK, toResponse(item))
}

// Update handles PUT /items/:id.
func (h *ItemHandler) Update(c echo.Context) error {
	id, err := validation.ParamInt64(c, "id")
	if err != nil {
		return err
	}
	var body ItemCreate
	if err := validation.BindAndValidate(c, &body); err != nil {
		return err
	}
	item, found, err := h.Items.Update(c.Request().Context(), id, *body.Name, *body.Description)
	if err != nil {
		return err
	}
	if !found {
		return errItemNotFound
	}
	h.publish(c, queue.ItemUpdated, item)
	return c.JSON(http.StatusOK, toResponse(item))
}

// Delete handles DELETE /items/:id.
func (h *ItemHandler) Delete(c echo.Context) error {
	id, err := validation.ParamInt64(c, "id")
	if err != nil {
		return err
	}
	deleted, err := h.Items.Delete(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if !deleted {
		return errItemNotFound
	}
	h.publish(c, queue.ItemDeleted, model.Item{ID: id})
	return c.JSON(http.StatusOK, echo.Map{"message": "Item deleted successfully"})
}

// publish sends the event in the background; the response never waits
// for the broker.
func (h *ItemHandler) publish(c echo.Context, kind string, item model.Item) {
	ev := queue.ItemEvent{
		Type:        kind,
		ItemID:      item.ID,
		Name:        item.Name,
		Description: item.Description,
		OccurredAt:  time.Now().UTC().Format(time.RFC3339),
	}
	ctx := context.WithoutCancel(c.Request().Context())
	h.pending.Add(1)
	go func() {
		defer h.pending.Done()
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := h.Events.Publish(ctx, ev); err != nil {
			h.Log.Warn().Err(err).Str("event", ev.Type).Int64("item_id", ev.ItemID).Msg("publish item event")
		}
	}()
}

// WaitEvents blocks until every event publication started so far has
// finished, or until ctx ends.
func (h *ItemHandler) WaitEvents(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
