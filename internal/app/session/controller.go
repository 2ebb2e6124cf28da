/*
Package session implements the console's Session Controller.

A Controller belongs to exactly one console page. It keeps the page's selected user,
turns UI events into backend calls and redraws the affected regions of its View.
Every operation has two halves. The Begin method runs the synchronous half: it validates
input, reads or changes the selection and draws what can be drawn at once. It returns a
Pending holding the backend call and the redraw that follows it. Callers that dispatch
events run the Begin methods in event order and may run the Pending halves concurrently;
a response is always drawn when it arrives, even if the selection changed while it was
in flight.

Failures of the history and recommendation reads are only logged: the region keeps
whatever it showed before (for recommendations, the loading placeholder). Failures of
the two writes are shown to the user as an error notice.
*/
package session

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"shopreco/internal/app/render"
	"shopreco/internal/app/shop"
)

// Success notices.
const (
	UserCreatedMessage  = "User created successfully!"
	ProductAddedMessage = "Product added successfully!"
)

// Controller coordinates one page's Session, its Backend and its View.
type Controller struct {
	backend Backend
	view    View
	session *Session
	logger  zerolog.Logger
}

// NewController returns a Controller with no user selected.
func NewController(backend Backend, view View, logger zerolog.Logger) *Controller {
	return &Controller{
		backend: backend,
		view:    view,
		session: &Session{},
		logger:  logger,
	}
}

// Session exposes the controller's state for inspection.
func (c *Controller) Session() *Session {
	return c.session
}

// Initialize loads the user list and the catalog concurrently. A failure of one does
// not affect the other; the first error is returned after both finished.
func (c *Controller) Initialize(ctx context.Context) error {
	var g errgroup.Group

	g.Go(func() error { return c.RefreshUserList(ctx) })
	g.Go(func() error { return c.RefreshCatalog(ctx) })

	return g.Wait()
}

// Pending is the asynchronous half of an operation: the backend call and the redraw
// after it.
type Pending func(ctx context.Context) error

// finish runs next unless the synchronous half already ended the operation.
func finish(ctx context.Context, next Pending, err error) error {
	if err != nil || next == nil {
		return err
	}
	return next(ctx)
}

// RefreshUserList redraws the user selector.
func (c *Controller) RefreshUserList(ctx context.Context) error {
	users, err := c.backend.ListUsers(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("Error loading users")
		return err
	}

	c.view.ReplaceRegion(RegionUserSelect, render.RenderUserList(users))
	return nil
}

// CreateUser registers rawID (trimmed) with the backend.
func (c *Controller) CreateUser(ctx context.Context, rawID string) error {
	next, err := c.BeginCreateUser(rawID)
	return finish(ctx, next, err)
}

// BeginCreateUser validates rawID and returns the registration call.
func (c *Controller) BeginCreateUser(rawID string) (Pending, error) {
	id := strings.TrimSpace(rawID)
	if id == "" {
		return nil, c.reject(ErrEmptyUserID)
	}

	return func(ctx context.Context) error {
		if err := c.backend.CreateUser(ctx, id); err != nil {
			c.logger.Error().Err(err).Str("user_id", id).Msg("Error creating user")
			c.notifyFailure(err)
			return err
		}

		c.view.SetInput(FieldUserInput, "")
		_ = c.RefreshUserList(ctx)
		c.view.Notify(Notice{Kind: NoticeSuccess, Message: UserCreatedMessage})

		return nil
	}, nil
}

// SelectUser changes the selected user. An empty id means the placeholder option was
// chosen: the user panels are reset and nothing is fetched.
func (c *Controller) SelectUser(ctx context.Context, id shop.UserID) error {
	return finish(ctx, c.BeginSelectUser(id), nil)
}

// BeginSelectUser stores the selection and returns the history fetch for id, or nil
// when the selection was cleared.
func (c *Controller) BeginSelectUser(id shop.UserID) Pending {
	c.session.Select(id)

	if id == "" {
		c.view.SetVisible(RegionUserInfo, false)
		c.view.ReplaceRegion(RegionPurchaseHistory, render.Placeholder(render.SelectUserForHistory))
		c.view.ReplaceRegion(RegionRecommendations, render.Placeholder(render.SelectUserForRecs))
		return nil
	}

	c.view.SetText(FieldCurrentUserName, id)
	c.view.SetVisible(RegionUserInfo, true)

	return func(ctx context.Context) error { return c.loadHistory(ctx, id) }
}

// RefreshPurchaseHistory redraws the selected user's history and purchase count.
// It does nothing when no user is selected.
func (c *Controller) RefreshPurchaseHistory(ctx context.Context) error {
	id, ok := c.session.Selected()
	if !ok {
		return nil
	}
	return c.loadHistory(ctx, id)
}

func (c *Controller) loadHistory(ctx context.Context, id shop.UserID) error {
	history, err := c.backend.UserHistory(ctx, id)
	if err != nil {
		c.logger.Error().Err(err).Str("user_id", id).Msg("Error loading purchase history")
		return err
	}

	c.view.SetText(FieldPurchaseCount, strconv.Itoa(len(history)))
	c.view.ReplaceRegion(RegionPurchaseHistory, render.RenderPurchaseHistory(history))

	return nil
}

// RefreshRecommendations shows the loading placeholder, then the top count
// recommendations for the selected user.
func (c *Controller) RefreshRecommendations(ctx context.Context, count int) error {
	next, err := c.BeginRefreshRecommendations(count)
	return finish(ctx, next, err)
}

// BeginRefreshRecommendations captures the selected user, shows the loading
// placeholder and returns the fetch.
func (c *Controller) BeginRefreshRecommendations(count int) (Pending, error) {
	id, ok := c.session.Selected()
	if !ok {
		return nil, c.reject(ErrNoUserSelected)
	}

	c.view.ReplaceRegion(RegionRecommendations, render.Placeholder(render.LoadingRecommendations))

	return func(ctx context.Context) error {
		recs, err := c.backend.Recommendations(ctx, id, count)
		if err != nil {
			c.logger.Error().Err(err).Str("user_id", id).Int("count", count).Msg("Error loading recommendations")
			return err
		}

		c.view.ReplaceRegion(RegionRecommendations, render.RenderRecommendations(recs))
		return nil
	}, nil
}

// AddProductToUser records a purchase of rawSKU (trimmed) for the selected user.
func (c *Controller) AddProductToUser(ctx context.Context, rawSKU string) error {
	next, err := c.BeginAddProductToUser(rawSKU)
	return finish(ctx, next, err)
}

// BeginAddProductToUser captures the selected user, validates rawSKU and returns the
// purchase call.
func (c *Controller) BeginAddProductToUser(rawSKU string) (Pending, error) {
	id, ok := c.session.Selected()
	if !ok {
		return nil, c.reject(ErrNoUserSelected)
	}

	sku := strings.TrimSpace(rawSKU)
	if sku == "" {
		return nil, c.reject(ErrEmptySKU)
	}

	return func(ctx context.Context) error {
		if err := c.backend.AddPurchase(ctx, id, sku); err != nil {
			c.logger.Error().Err(err).Str("user_id", id).Str("sku", sku).Msg("Error adding product")
			c.notifyFailure(err)
			return err
		}

		c.view.SetInput(FieldSKUInput, "")
		_ = c.RefreshPurchaseHistory(ctx)
		c.view.Notify(Notice{Kind: NoticeSuccess, Message: ProductAddedMessage})

		return nil
	}, nil
}

// RefreshCatalog redraws the product catalog.
func (c *Controller) RefreshCatalog(ctx context.Context) error {
	products, err := c.backend.Products(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("Error loading products")
		return err
	}

	c.view.ReplaceRegion(RegionCatalog, render.RenderCatalog(products))
	return nil
}

// PickCatalogSKU copies a catalog entry's sku into the purchase input.
func (c *Controller) PickCatalogSKU(sku string) {
	c.view.SetInput(FieldSKUInput, sku)
}

func (c *Controller) reject(err error) error {
	c.view.Notify(Notice{Kind: NoticeValidation, Message: Prompt(err)})
	return err
}

func (c *Controller) notifyFailure(err error) {
	c.view.Notify(Notice{Kind: NoticeError, Message: "Error: " + failureMessage(err)})
}
