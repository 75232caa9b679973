package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dayflow/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func newIdempotentRouter(rdb *redis.Client, calls *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/leaves", func(c *gin.Context) {
		c.Set("user_id", "u1")
		c.Next()
	}, middleware.Idempotency(rdb), func(c *gin.Context) {
		*calls++
		c.Data(http.StatusCreated, "application/json; charset=utf-8", []byte(`{"id":"1"}`))
	})
	return r
}

func postWithKey(r *gin.Engine, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/leaves", nil)
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotency(t *testing.T) {
	cacheKey := "idemp:/leaves:u1:abc"
	lockKey := cacheKey + ":lock"

	t.Run("first request is stored", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		calls := 0
		r := newIdempotentRouter(db, &calls)

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(true)
		mock.ExpectSet(cacheKey, []byte(`{"status":201,"body":{"id":"1"}}`), 24*time.Hour).SetVal("OK")
		mock.ExpectDel(lockKey).SetVal(1)

		w := postWithKey(r, "abc")

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("repeat is replayed", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		calls := 0
		r := newIdempotentRouter(db, &calls)

		mock.ExpectGet(cacheKey).SetVal(`{"status":201,"body":{"id":"1"}}`)

		w := postWithKey(r, "abc")

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, `{"id":"1"}`, w.Body.String())
		assert.Zero(t, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("in flight duplicate conflicts", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		calls := 0
		r := newIdempotentRouter(db, &calls)

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(false)

		w := postWithKey(r, "abc")

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Zero(t, calls)
	})

	t.Run("no key or no redis passes through", func(t *testing.T) {
		calls := 0
		w := postWithKey(newIdempotentRouter(nil, &calls), "abc")
		assert.Equal(t, http.StatusCreated, w.Code)

		db, mock := redismock.NewClientMock()
		w = postWithKey(newIdempotentRouter(db, &calls), "")
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 2, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
