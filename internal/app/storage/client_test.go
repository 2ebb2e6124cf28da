package storage

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBucket = "shop-bucket"

// fakeS3 serves path-style GETs for the objects it holds and answers NoSuchKey
// for everything else.
func fakeS3(t *testing.T, objects map[string]string) ObjectStore {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := objects[r.URL.Path]
		if r.Method != http.MethodGet || !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = fmt.Fprint(w, `<?xml version="1.0" encoding="UTF-8"?>`+
				`<Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
			return
		}

		w.Header().Set("Content-Range", fmt.Sprintf("bytes 0-%d/%d", len(body)-1, len(body)))
		w.Header().Set("Content-Length", fmt.Sprint(len(body)))
		w.WriteHeader(http.StatusPartialContent)
		_, _ = fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)

	store, err := NewObjectStore(context.Background(), ServiceConfig{
		S3BucketName:      testBucket,
		S3Endpoint:        srv.URL,
		S3AccessKeyID:     "test",
		S3SecretAccessKey: "test",
	})
	require.NoError(t, err)
	return store
}

func TestFetch(t *testing.T) {
	csv := "sku,color,size,unit_price\nA1,red,M,9.5\n"
	store := fakeS3(t, map[string]string{"/" + testBucket + "/catalog.csv": csv})

	data, err := store.Fetch(context.Background(), "catalog.csv")
	require.NoError(t, err)
	assert.Equal(t, csv, string(data))
}

func TestFetch_MissingKey(t *testing.T) {
	store := fakeS3(t, nil)

	_, err := store.Fetch(context.Background(), "nope.csv")
	assert.ErrorIs(t, err, ErrNotFound)
}
