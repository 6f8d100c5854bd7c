package translate

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"sparksound/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 2*time.Second, logger.NewLogger("error")), srv
}

func TestTranslateSuccess(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/get", r.URL.Path)
		assert.Equal(t, "Hello", r.URL.Query().Get("q"))
		assert.Equal(t, "en|ta", r.URL.Query().Get("langpair"))
		fmt.Fprint(w, `{"responseData":{"translatedText":"வணக்கம்"}}`)
	})

	result := client.Translate(context.Background(), "Hello", "en-US", "ta-IN")
	assert.Equal(t, StatusTranslated, result.Status)
	assert.Equal(t, "வணக்கம்", result.Text)
	assert.Equal(t, "Hello", result.Original)
	assert.True(t, result.Translated())
}

func TestTranslateSameBaseLanguage(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})

	// en-US和en-IN折叠为同一种基础语言，不发起网络请求
	result := client.Translate(context.Background(), "Hello", "en-US", "en-IN")
	assert.Equal(t, StatusUnchanged, result.Status)
	assert.Equal(t, "Hello", result.Text)
	assert.False(t, result.Translated())
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestTranslateEmptyText(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("不应发起网络请求")
	})

	result := client.Translate(context.Background(), "", "en-US", "hi-IN")
	assert.Equal(t, StatusUnchanged, result.Status)
}

func TestTranslateServerError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	// 失败回退为原文，原文永远可读
	result := client.Translate(context.Background(), "Hello", "en-US", "hi-IN")
	assert.Equal(t, StatusFailed, result.Status)
	assert.Equal(t, "Hello", result.Text)
	assert.NotEmpty(t, result.Text)
	assert.False(t, result.Translated())
}

func TestTranslateMalformedResponse(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json`)
	})

	result := client.Translate(context.Background(), "Hello", "en-US", "hi-IN")
	assert.Equal(t, StatusFailed, result.Status)
	assert.Equal(t, "Hello", result.Text)
}

func TestTranslateEmptyTranslation(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"responseData":{"translatedText":""}}`)
	})

	result := client.Translate(context.Background(), "Hello", "en-US", "hi-IN")
	assert.Equal(t, StatusFailed, result.Status)
	assert.Equal(t, "Hello", result.Text)
}

func TestTranslateAll(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		if q == "boom" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprintf(w, `{"responseData":{"translatedText":"T(%s)"}}`, q)
	})

	texts := []string{"one", "boom", "two"}
	results := client.TranslateAll(context.Background(), texts, "en-US", "hi-IN")
	require.Len(t, results, 3)

	// 单条失败只降级该条，整批按原顺序返回
	assert.Equal(t, StatusTranslated, results[0].Status)
	assert.Equal(t, "T(one)", results[0].Text)
	assert.Equal(t, StatusFailed, results[1].Status)
	assert.Equal(t, "boom", results[1].Text)
	assert.Equal(t, StatusTranslated, results[2].Status)
	assert.Equal(t, "T(two)", results[2].Text)
}

func TestTranslateAllEmpty(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	results := client.TranslateAll(context.Background(), nil, "en-US", "hi-IN")
	assert.Empty(t, results)
}
