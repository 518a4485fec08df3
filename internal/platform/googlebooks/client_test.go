package googlebooks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "http://googlebooks.test"

func newTestClient(transport *httpmock.MockTransport) *Client {
	c := NewClient(testBaseURL, "bibliomatch-test", 1000, 5*time.Second, nil)
	c.httpClient.Transport = transport
	return c
}

func TestClient_DescriptionByISBN(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the first volume's description", func(t *testing.T) {
		transport := httpmock.NewMockTransport()
		transport.RegisterResponder("GET", testBaseURL+"/books/v1/volumes?q=isbn%3A9780441013593",
			httpmock.NewStringResponder(200, `{
				"totalItems": 1,
				"items": [{"id": "v1", "volumeInfo": {"title": "Dune", "description": "Arrakis, the desert planet."}}]
			}`))

		desc, err := newTestClient(transport).DescriptionByISBN(ctx, "9780441013593")
		require.NoError(t, err)
		assert.Equal(t, "Arrakis, the desert planet.", desc)
	})

	t.Run("no items is an empty result, not an error", func(t *testing.T) {
		transport := httpmock.NewMockTransport()
		transport.RegisterResponder("GET", testBaseURL+"/books/v1/volumes?q=isbn%3A0000",
			httpmock.NewStringResponder(200, `{"totalItems": 0}`))

		desc, err := newTestClient(transport).DescriptionByISBN(ctx, "0000")
		assert.NoError(t, err)
		assert.Empty(t, desc)
	})

	t.Run("server errors propagate", func(t *testing.T) {
		transport := httpmock.NewMockTransport()
		transport.RegisterResponder("GET", testBaseURL+"/books/v1/volumes?q=isbn%3A123",
			httpmock.NewStringResponder(500, ""))

		_, err := newTestClient(transport).DescriptionByISBN(ctx, "123")
		assert.Error(t, err)
	})

	t.Run("network errors propagate", func(t *testing.T) {
		transport := httpmock.NewMockTransport()
		transport.RegisterResponder("GET", testBaseURL+"/books/v1/volumes?q=isbn%3A123",
			httpmock.NewErrorResponder(errors.New("connection refused")))

		_, err := newTestClient(transport).DescriptionByISBN(ctx, "123")
		assert.Error(t, err)
	})
}

func TestClient_DescriptionByTitle(t *testing.T) {
	ctx := context.Background()

	t.Run("queries intitle and returns the first description", func(t *testing.T) {
		transport := httpmock.NewMockTransport()
		transport.RegisterResponder("GET", testBaseURL+"/books/v1/volumes?q=intitle%3ADune",
			httpmock.NewStringResponder(200, `{
				"totalItems": 2,
				"items": [
					{"id": "v1", "volumeInfo": {"title": "Dune", "description": "Arrakis, the desert planet."}},
					{"id": "v2", "volumeInfo": {"title": "Dune Messiah", "description": "The sequel."}}
				]
			}`))

		desc, err := newTestClient(transport).DescriptionByTitle(ctx, "Dune")
		require.NoError(t, err)
		assert.Equal(t, "Arrakis, the desert planet.", desc)
	})

	t.Run("volume without description is an empty result", func(t *testing.T) {
		transport := httpmock.NewMockTransport()
		transport.RegisterResponder("GET", testBaseURL+"/books/v1/volumes?q=intitle%3ADune",
			httpmock.NewStringResponder(200, `{
				"totalItems": 1,
				"items": [{"id": "v1", "volumeInfo": {"title": "Dune"}}]
			}`))

		desc, err := newTestClient(transport).DescriptionByTitle(ctx, "Dune")
		assert.NoError(t, err)
		assert.Empty(t, desc)
	})
}
