package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/wadjakorntonsri/knowhub/internal/seed"
	"github.com/wadjakorntonsri/knowhub/pkg/adapters/repository/memory"
	"github.com/wadjakorntonsri/knowhub/pkg/config"
	"github.com/wadjakorntonsri/knowhub/pkg/core/domain"
	"github.com/wadjakorntonsri/knowhub/pkg/core/ledger"
	"github.com/wadjakorntonsri/knowhub/pkg/core/services"
)

type fakeProvider struct {
	chunks []string
	err    error
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) StreamChat(ctx context.Context, msgs []domain.ChatMessage, emit func(string) error) error {
	for _, c := range f.chunks {
		if err := emit(c); err != nil {
			return err
		}
	}
	return f.err
}

type fakePinner struct {
	name    string
	content any
	err     error
}

func (f *fakePinner) PinJSON(ctx context.Context, name string, content any) (string, error) {
	f.name, f.content = name, content
	if f.err != nil {
		return "", f.err
	}
	return "QmFake", nil
}

func (f *fakePinner) GatewayURL(hash string) string { return "https://gw.test/ipfs/" + hash }

func newTestRouter(t *testing.T, provider *fakeProvider, pinner *fakePinner) http.Handler {
	t.Helper()
	logger := zaptest.NewLogger(t)
	cat, err := seed.Default()
	require.NoError(t, err)
	repo := memory.NewCatalogRepository(cat)

	cfg := &config.Config{SessionSecret: "test", SessionIdleTTL: time.Minute}
	return NewRouter(cfg, logger,
		services.NewCatalogService(repo, logger),
		services.NewInteractionService(repo, ledger.NewSessions(nil), logger),
		services.NewChatService(provider, "", logger),
		services.NewPublishService(pinner, logger),
	)
}

type client struct {
	t       *testing.T
	handler http.Handler
	cookies []*http.Cookie
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rr := httptest.NewRecorder()
	c.handler.ServeHTTP(rr, req)
	if cks := rr.Result().Cookies(); len(cks) > 0 {
		c.cookies = cks
	}
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestListItems_ByYearMonth(t *testing.T) {
	c := &client{t: t, handler: newTestRouter(t, &fakeProvider{}, &fakePinner{})}

	rr := c.do("GET", "/api/v1/items?year=2023&month=06", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	res := decode[struct {
		Data  []domain.ContentItem `json:"data"`
		Total int                  `json:"total"`
	}](t, rr)
	require.Equal(t, 3, res.Total)
	assert.Equal(t, "pub-001", res.Data[0].ID)
	assert.Equal(t, "pub-002", res.Data[1].ID)
	assert.Equal(t, "pub-003", res.Data[2].ID)
}

func TestListItems_BadInput(t *testing.T) {
	c := &client{t: t, handler: newTestRouter(t, &fakeProvider{}, &fakePinner{})}

	for _, path := range []string{
		"/api/v1/items?year=23",
		"/api/v1/items?year=2023&month=13",
		"/api/v1/items?category=cooking",
		"/api/v1/leaderboard?metric=karma",
		"/api/v1/leaderboard?top=abc",
	} {
		rr := c.do("GET", path, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code, path)
		assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")
	}
}

func TestAuthorArchive_NotFound(t *testing.T) {
	c := &client{t: t, handler: newTestRouter(t, &fakeProvider{}, &fakePinner{})}

	rr := c.do("GET", "/api/v1/authors/a-ghost/archive", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	res := decode[map[string]string](t, rr)
	assert.Contains(t, res["error"], "not found")

	rr = c.do("GET", "/api/v1/authors/a-ada/archive", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	archive := decode[domain.AuthorArchive](t, rr)
	assert.Equal(t, 3, archive.Total)
}

func TestLeaderboard_Top(t *testing.T) {
	c := &client{t: t, handler: newTestRouter(t, &fakeProvider{}, &fakePinner{})}

	rr := c.do("GET", "/api/v1/leaderboard?top=1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	res := decode[struct {
		Data []domain.LeaderboardEntry `json:"data"`
	}](t, rr)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "a-ada", res.Data[0].AuthorID)
	assert.Equal(t, 1, res.Data[0].Rank)
}

func TestReactions_AccumulatePerSession(t *testing.T) {
	router := newTestRouter(t, &fakeProvider{}, &fakePinner{})
	c := &client{t: t, handler: router}

	first := decode[domain.ReactionResult](t, c.do("POST", "/api/v1/items/pub-001/reactions", ReactRequest{Kind: "like"}))
	second := decode[domain.ReactionResult](t, c.do("POST", "/api/v1/items/pub-001/reactions", ReactRequest{Kind: "like"}))
	assert.Equal(t, int64(43), first.Count)
	assert.Equal(t, int64(44), second.Count)

	events := decode[struct {
		Data []domain.ReactionEvent `json:"data"`
	}](t, c.do("GET", "/api/v1/reactions/events", nil))
	assert.Len(t, events.Data, 2)

	// A fresh session starts from the catalog counts again.
	other := &client{t: t, handler: router}
	res := decode[domain.ReactionResult](t, other.do("POST", "/api/v1/items/pub-001/reactions", ReactRequest{Kind: "like"}))
	assert.Equal(t, int64(43), res.Count)

	rr := c.do("POST", "/api/v1/items/pub-404/reactions", ReactRequest{Kind: "like"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr = c.do("POST", "/api/v1/items/pub-001/reactions", ReactRequest{Kind: "boo"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestItemReads_ShowSessionCounts(t *testing.T) {
	router := newTestRouter(t, &fakeProvider{}, &fakePinner{})
	c := &client{t: t, handler: router}

	res := decode[domain.ReactionResult](t, c.do("POST", "/api/v1/items/pub-001/reactions", ReactRequest{Kind: "like"}))
	require.Equal(t, int64(43), res.Count)

	item := decode[domain.ContentItem](t, c.do("GET", "/api/v1/items/pub-001", nil))
	assert.Equal(t, int64(43), item.ReactionCounts[domain.ReactionLike])

	list := decode[struct {
		Data []domain.ContentItem `json:"data"`
	}](t, c.do("GET", "/api/v1/items?year=2023&month=6", nil))
	require.NotEmpty(t, list.Data)
	assert.Equal(t, "pub-001", list.Data[0].ID)
	assert.Equal(t, int64(43), list.Data[0].ReactionCounts[domain.ReactionLike])

	// Anonymous reads see the catalog counts and get no cookie.
	anon := &client{t: t, handler: router}
	rr := anon.do("GET", "/api/v1/items/pub-001", nil)
	assert.Empty(t, rr.Result().Cookies())
	item = decode[domain.ContentItem](t, rr)
	assert.Equal(t, int64(42), item.ReactionCounts[domain.ReactionLike])
}

func TestCartFlow(t *testing.T) {
	c := &client{t: t, handler: newTestRouter(t, &fakeProvider{}, &fakePinner{})}

	cart := decode[domain.Cart](t, c.do("POST", "/api/v1/cart", CartRequest{ProductID: "prod-001", Quantity: 2}))
	assert.Equal(t, 2, cart.ItemCount)
	assert.Equal(t, int64(3600), cart.Subtotal)

	cart = decode[domain.Cart](t, c.do("PUT", "/api/v1/cart/prod-001", CartRequest{Quantity: 0}))
	assert.Equal(t, 1, cart.Lines[0].Quantity)

	rr := c.do("PUT", "/api/v1/cart/prod-999", CartRequest{Quantity: 3})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = c.do("POST", "/api/v1/cart/checkout", nil)
	require.Equal(t, http.StatusCreated, rr.Code)
	receipt := decode[domain.Receipt](t, rr)
	assert.Equal(t, int64(1800), receipt.Total)

	cart = decode[domain.Cart](t, c.do("GET", "/api/v1/cart", nil))
	assert.Empty(t, cart.Lines)

	rr = c.do("POST", "/api/v1/cart/checkout", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestNotifications_ToggleAndUnread(t *testing.T) {
	c := &client{t: t, handler: newTestRouter(t, &fakeProvider{}, &fakePinner{})}

	type list struct {
		Data []domain.Notification `json:"data"`
	}
	unread := decode[list](t, c.do("GET", "/api/v1/notifications?unread=true", nil))
	assert.Len(t, unread.Data, 3)

	n := decode[domain.Notification](t, c.do("POST", "/api/v1/notifications/n-001/toggle", nil))
	assert.True(t, n.Read)

	unread = decode[list](t, c.do("GET", "/api/v1/notifications?unread=true", nil))
	assert.Len(t, unread.Data, 2)

	all := decode[list](t, c.do("POST", "/api/v1/notifications/read-all", nil))
	for _, n := range all.Data {
		assert.True(t, n.Read)
	}

	rr := c.do("POST", "/api/v1/notifications/n-404/toggle", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func chatBody(msgs ...domain.ChatMessage) ChatRequest {
	return ChatRequest{Messages: msgs}
}

func TestChat_Streams(t *testing.T) {
	c := &client{t: t, handler: newTestRouter(t, &fakeProvider{chunks: []string{"Hello", ", ", "world"}}, &fakePinner{})}

	rr := c.do("POST", "/api/chat", chatBody(domain.ChatMessage{Role: domain.RoleUser, Content: "hi"}))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Hello, world", rr.Body.String())
	assert.True(t, rr.Flushed)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/plain")
}

func TestChat_UpstreamFailureBeforeFirstChunk(t *testing.T) {
	provider := &fakeProvider{err: &domain.UpstreamError{Service: "fake", StatusCode: 500, Err: errors.New("boom")}}
	c := &client{t: t, handler: newTestRouter(t, provider, &fakePinner{})}

	rr := c.do("POST", "/api/chat", chatBody(domain.ChatMessage{Role: domain.RoleUser, Content: "hi"}))
	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestChat_FailureAfterFirstChunkKeepsPartialOutput(t *testing.T) {
	provider := &fakeProvider{chunks: []string{"partial"}, err: errors.New("connection reset")}
	c := &client{t: t, handler: newTestRouter(t, provider, &fakePinner{})}

	rr := c.do("POST", "/api/chat", chatBody(domain.ChatMessage{Role: domain.RoleUser, Content: "hi"}))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "partial", rr.Body.String())
}

func TestChat_InvalidMessages(t *testing.T) {
	c := &client{t: t, handler: newTestRouter(t, &fakeProvider{}, &fakePinner{})}

	rr := c.do("POST", "/api/chat", chatBody())
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = c.do("POST", "/api/chat", chatBody(domain.ChatMessage{Role: "robot", Content: "hi"}))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChat_BodyTooLarge(t *testing.T) {
	provider := &fakeProvider{chunks: []string{"never"}}
	c := &client{t: t, handler: newTestRouter(t, provider, &fakePinner{})}

	big := strings.Repeat("a", maxChatBody)
	rr := c.do("POST", "/api/chat", chatBody(domain.ChatMessage{Role: domain.RoleUser, Content: big}))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	assert.NotContains(t, rr.Body.String(), "never")
}

func multipartRequest(t *testing.T, fields map[string][]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, vs := range fields {
		for _, v := range vs {
			require.NoError(t, mw.WriteField(k, v))
		}
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest("POST", "/api/forms-ipfs", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestFormsIPFS_Success(t *testing.T) {
	pinner := &fakePinner{}
	router := newTestRouter(t, &fakeProvider{}, pinner)

	req := multipartRequest(t, map[string][]string{
		"title":        {"Hello"},
		"content":      {`<p>Hi</p><script>alert(1)</script>`},
		"slug":         {"hello"},
		"collection":   {"notes"},
		"categories[]": {"tech", " "},
		"categories":   {"art"},
	})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	res := decode[map[string]string](t, rr)
	assert.Equal(t, "QmFake", res["ipfsHash"])
	assert.Equal(t, "https://gw.test/ipfs/QmFake", res["url"])

	doc, ok := pinner.content.(domain.PublishedDocument)
	require.True(t, ok)
	assert.Equal(t, "hello", pinner.name)
	assert.Equal(t, "<p>Hi</p>", doc.Content)
	assert.Equal(t, []string{"tech", "art"}, doc.Categories)
}

func TestFormsIPFS_Failures(t *testing.T) {
	tests := []struct {
		name   string
		pinner *fakePinner
		fields map[string][]string
	}{
		{"missing title", &fakePinner{}, map[string][]string{"slug": {"x"}}},
		{"pin error", &fakePinner{err: errors.New("quota exceeded")}, map[string][]string{"title": {"T"}, "slug": {"x"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, &fakeProvider{}, tt.pinner)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, multipartRequest(t, tt.fields))

			assert.Equal(t, http.StatusInternalServerError, rr.Code)
			assert.JSONEq(t, `{"error":"Internal Server Error"}`, rr.Body.String())
		})
	}
}
