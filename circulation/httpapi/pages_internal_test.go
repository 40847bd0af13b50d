package httpapi

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation/testutil/testdoubles"
)

var errClientGone = errors.New("client went away")

type brokenResponseWriter struct {
	*httptest.ResponseRecorder
}

func (w brokenResponseWriter) Write([]byte) (int, error) {
	return 0, errClientGone
}

func Test_RenderPage_LogsWriteFailures(t *testing.T) {
	// arrange
	logger := testdoubles.NewContextualLoggerSpy()
	s := &Server{logger: logger}
	r := httptest.NewRequest(http.MethodGet, "/login", nil)

	// act
	s.renderPage(brokenResponseWriter{httptest.NewRecorder()}, r, pageData{Title: "Login"})

	// assert
	records := logger.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "error", records[0].Level)
	assert.Equal(t, LogMsgRenderFailed, records[0].Message)
	assert.Equal(t, "/login", records[0].Attr(LogAttrPath))
	assert.Equal(t, errClientGone.Error(), records[0].Attr(LogAttrError))
}

func Test_RenderPage_WritesTheWholePage(t *testing.T) {
	// arrange
	logger := testdoubles.NewContextualLoggerSpy()
	s := &Server{logger: logger}
	rec := httptest.NewRecorder()

	// act
	s.renderPage(rec, httptest.NewRequest(http.MethodGet, "/librarian", nil), pageData{Title: "Librarian", Username: "grace"})

	// assert
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Signed in as <strong>grace</strong>")
	assert.Contains(t, rec.Body.String(), "</html>")
	assert.Empty(t, logger.Records())
}
