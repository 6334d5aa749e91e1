package session

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCartStore(t *testing.T) (*CartStore, *miniredis.Miniredis) {
	t.Helper()
	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewCartStore(client, time.Hour), server
}

func TestCartStoreToggleTwiceRestoresCart(t *testing.T) {
	store, _ := newTestCartStore(t)
	ctx := context.Background()
	sid := uuid.NewString()
	a, b := uuid.NewString(), uuid.NewString()

	size, added, err := store.Toggle(ctx, sid, a)
	require.NoError(t, err)
	require.True(t, added)
	require.Equal(t, 1, size)

	size, added, err = store.Toggle(ctx, sid, b)
	require.NoError(t, err)
	require.True(t, added)
	require.Equal(t, 2, size)

	size, added, err = store.Toggle(ctx, sid, a)
	require.NoError(t, err)
	require.False(t, added)
	require.Equal(t, 1, size)

	ids, err := store.List(ctx, sid)
	require.NoError(t, err)
	require.Equal(t, []string{b}, ids)

	size, _, err = store.Toggle(ctx, sid, a)
	require.NoError(t, err)
	require.Equal(t, 2, size)

	ids, err = store.List(ctx, sid)
	require.NoError(t, err)
	require.Equal(t, []string{b, a}, ids)
}

func TestCartStoreSessionsAreIsolated(t *testing.T) {
	store, _ := newTestCartStore(t)
	ctx := context.Background()
	id := uuid.NewString()

	_, _, err := store.Toggle(ctx, "session-one", id)
	require.NoError(t, err)

	ids, err := store.List(ctx, "session-two")
	require.NoError(t, err)
	require.Empty(t, ids)
}

func TestCartStoreDrainEmptiesCart(t *testing.T) {
	store, server := newTestCartStore(t)
	ctx := context.Background()
	sid := uuid.NewString()
	a, b := uuid.NewString(), uuid.NewString()

	_, _, err := store.Toggle(ctx, sid, a)
	require.NoError(t, err)
	_, _, err = store.Toggle(ctx, sid, b)
	require.NoError(t, err)
	require.True(t, server.Exists(cartKey(sid)))
	require.Equal(t, time.Hour, server.TTL(cartKey(sid)))

	drained, err := store.Drain(ctx, sid)
	require.NoError(t, err)
	require.Equal(t, []string{a, b}, drained)
	require.False(t, server.Exists(cartKey(sid)))

	drained, err = store.Drain(ctx, sid)
	require.NoError(t, err)
	require.Empty(t, drained)
}

func TestCartStoreRestorePrependsDrainedIDs(t *testing.T) {
	store, _ := newTestCartStore(t)
	ctx := context.Background()
	sid := uuid.NewString()
	a, b, c := uuid.NewString(), uuid.NewString(), uuid.NewString()

	_, _, err := store.Toggle(ctx, sid, c)
	require.NoError(t, err)
	_, _, err = store.Toggle(ctx, sid, a)
	require.NoError(t, err)

	require.NoError(t, store.Restore(ctx, sid, []string{a, b}))

	ids, err := store.List(ctx, sid)
	require.NoError(t, err)
	require.Equal(t, []string{a, b, c}, ids)
}

func TestCartStoreClearIsIdempotent(t *testing.T) {
	store, _ := newTestCartStore(t)
	ctx := context.Background()
	sid := uuid.NewString()

	_, _, err := store.Toggle(ctx, sid, uuid.NewString())
	require.NoError(t, err)
	require.NoError(t, store.Clear(ctx, sid))
	require.NoError(t, store.Clear(ctx, sid))

	ids, err := store.List(ctx, sid)
	require.NoError(t, err)
	require.Empty(t, ids)
}

func TestCartStoreRequiresSession(t *testing.T) {
	store, _ := newTestCartStore(t)

	_, _, err := store.Toggle(context.Background(), "", uuid.NewString())
	require.ErrorIs(t, err, ErrNoSession)
	_, err = store.Drain(context.Background(), "")
	require.ErrorIs(t, err, ErrNoSession)
}

func TestMiddlewareIssuesAndKeepsSessionCookie(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware(Config{TTL: time.Hour}))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(ID(c))
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	var issued string
	for _, cookie := range resp.Cookies() {
		if cookie.Name == CookieName {
			issued = cookie.Value
			require.True(t, cookie.HttpOnly)
		}
	}
	_, err = uuid.Parse(issued)
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set("Cookie", CookieName+"="+issued)
	resp, err = app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, issued, string(body))

	req = httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set("Cookie", CookieName+"=not-a-uuid")
	resp, err = app.Test(req)
	require.NoError(t, err)
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NotEqual(t, "not-a-uuid", string(body))
}
