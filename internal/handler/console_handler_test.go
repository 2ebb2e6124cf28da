package handler

import (
	"context"
	"html/template"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopreco/internal/app/console"
	"shopreco/internal/app/render"
	"shopreco/internal/app/session"
	"shopreco/internal/app/transport"
)

func TestConsoleRouter_ServesShell(t *testing.T) {
	hub := console.NewHub(nil)
	t.Cleanup(hub.Shutdown)

	srv := httptest.NewServer(ConsoleRouter(&ConsoleDeps{Config: testConfig(), Hub: hub}))
	t.Cleanup(srv.Close)

	for path, want := range map[string]string{
		"/":               `id="purchaseHistory"`,
		"/static/app.js": "new WebSocket",
	} {
		res, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		body, err := io.ReadAll(res.Body)
		res.Body.Close()
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, res.StatusCode, path)
		assert.Contains(t, string(body), want, path)
	}
}

// recordingView is a minimal session.View for driving a controller against the
// real API over HTTP.
type recordingView struct {
	regions map[session.Region]string
	texts   map[session.Field]string
	notices []session.Notice
}

func (v *recordingView) ReplaceRegion(r session.Region, html template.HTML) {
	v.regions[r] = string(html)
}

func (v *recordingView) SetText(f session.Field, text string) {
	v.texts[f] = text
}

func (v *recordingView) SetVisible(session.Region, bool) {}

func (v *recordingView) SetInput(session.Field, string) {}

func (v *recordingView) Notify(n session.Notice) {
	v.notices = append(v.notices, n)
}

func TestController_AgainstAPI(t *testing.T) {
	srv, _ := newAPI(t)
	client := transport.New(srv.URL, 2*time.Second)
	view := &recordingView{regions: map[session.Region]string{}, texts: map[session.Field]string{}}
	c := session.NewController(client, view, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, c.CreateUser(ctx, " alice "))
	assert.Contains(t, view.regions[session.RegionUserSelect], `<option value="alice">`)

	err := c.CreateUser(ctx, "alice")
	require.Error(t, err)
	assert.Equal(t, "Error: User already exists or invalid ID", view.notices[len(view.notices)-1].Message)

	require.NoError(t, c.SelectUser(ctx, "alice"))
	assert.Equal(t, "0", view.texts[session.FieldPurchaseCount])

	require.NoError(t, c.AddProductToUser(ctx, "A1"))
	assert.Equal(t, "1", view.texts[session.FieldPurchaseCount])
	assert.Contains(t, view.regions[session.RegionPurchaseHistory], "$9.50")

	require.Error(t, c.AddProductToUser(ctx, "ZZ"))
	assert.Equal(t, "Error: Invalid SKU", view.notices[len(view.notices)-1].Message)

	require.NoError(t, c.RefreshRecommendations(ctx, 1))
	assert.Contains(t, view.regions[session.RegionRecommendations], "SKU: A2")
	assert.Contains(t, view.regions[session.RegionRecommendations], "Match Score:")

	require.NoError(t, c.RefreshCatalog(ctx))
	assert.NotContains(t, view.regions[session.RegionCatalog], render.NoProducts)
}
