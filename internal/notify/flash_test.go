package notify

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFlash(t *testing.T) *Flash {
	t.Helper()

	store := sessions.NewCookieStore([]byte("test-secret"))
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	session, err := store.Get(r, "session")
	require.NoError(t, err)

	return NewFlash(session, r, w)
}

func TestFlash_NotifyAndDrain(t *testing.T) {
	flash := newTestFlash(t)

	flash.Notify("Item added to cart", SeveritySuccess)
	flash.Notify("Cart cleared", SeverityInfo)
	flash.Notify("Something went wrong", SeverityError)

	notifications := flash.Drain()
	require.Len(t, notifications, 3)
	assert.Equal(t, "Item added to cart", notifications[0].Message)
	assert.Equal(t, SeveritySuccess, notifications[0].Severity)
	assert.Equal(t, SeverityInfo, notifications[1].Severity)
	assert.Equal(t, SeverityError, notifications[2].Severity)

	// Draining empties the stack
	assert.Empty(t, flash.Drain())
}

func TestFlash_DrainEmpty(t *testing.T) {
	flash := newTestFlash(t)
	assert.Empty(t, flash.Drain())
}

func TestFlash_StackingIsUnbounded(t *testing.T) {
	flash := newTestFlash(t)

	for i := 0; i < 50; i++ {
		flash.Notify("message", SeverityInfo)
	}
	assert.Len(t, flash.Drain(), 50)
}
