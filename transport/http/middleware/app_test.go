package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"eventro/config"
	otelMocks "eventro/infras/otel/mocks"
	"eventro/shared/cache"
	cacheMocks "eventro/shared/cache/mocks"
	"eventro/transport/http/middleware"
)

func newAppMiddleware(t *testing.T, maxRequests int) (middleware.AppMiddleware, *cacheMocks.MockRedisCache) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	cacheMock := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.App.Name = "eventro"
	cfg.App.RateLimiter.Enable = maxRequests > 0
	cfg.App.RateLimiter.MaxRequests = maxRequests
	cfg.App.RateLimiter.WindowSeconds = 60

	return middleware.NewAppMiddleware(otelMocks.NewOtel(), cfg, cacheMock), cacheMock
}

func TestAppMiddleware_Tracing(t *testing.T) {
	appMiddleware, _ := newAppMiddleware(t, 0)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"created"}`))
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", nil)

	appMiddleware.Tracing(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"message":"created"}`, rec.Body.String())
}

func TestAppMiddleware_RateLimit(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("disabled limiter passes requests through", func(t *testing.T) {
		appMiddleware, _ := newAppMiddleware(t, 0)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)

		appMiddleware.RateLimit()(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	})

	t.Run("first request within the window is counted", func(t *testing.T) {
		appMiddleware, cacheMock := newAppMiddleware(t, 5)

		cacheMock.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
		cacheMock.EXPECT().Save(gomock.Any(), gomock.Any(), 1, 60).Return(nil)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)

		appMiddleware.RateLimit()(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "5", rec.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "4", rec.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("request over the limit is rejected", func(t *testing.T) {
		appMiddleware, cacheMock := newAppMiddleware(t, 5)

		cacheMock.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any) error {
				count, ok := value.(*int)
				assert.True(t, ok)
				*count = 5

				return nil
			})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)

		appMiddleware.RateLimit()(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	})

	t.Run("cache failure lets the request through", func(t *testing.T) {
		appMiddleware, cacheMock := newAppMiddleware(t, 5)

		cacheMock.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(assert.AnError)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)

		appMiddleware.RateLimit()(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
