package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupDisplayName(t *testing.T) {
	testCases := []struct {
		name         string
		status       int
		body         string
		expectedName string
		expectedErr  error
		wantErr      bool
	}{
		{
			name:         "given_name",
			status:       http.StatusOK,
			body:         `{"givenName": "Mario", "displayName": "Mario Rossi"}`,
			expectedName: "Mario",
		},
		{
			name:         "display_name_only",
			status:       http.StatusOK,
			body:         `{"displayName": "Mario Rossi"}`,
			expectedName: "Mario Rossi",
		},
		{
			name:        "no_name",
			status:      http.StatusOK,
			body:        `{"id": "123"}`,
			expectedErr: ErrNoName,
			wantErr:     true,
		},
		{
			name:    "unauthorized",
			status:  http.StatusUnauthorized,
			body:    `{"error": {"code": "InvalidAuthenticationToken"}}`,
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/v1.0/me", r.URL.Path)
				assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := NewGraphClient(srv.URL + "/v1.0/")

			name, err := c.LookupDisplayName(context.Background(), "secret-token")
			if tc.wantErr {
				require.Error(t, err)
				if tc.expectedErr != nil {
					assert.ErrorIs(t, err, tc.expectedErr)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedName, name)
		})
	}
}

func TestLookupDisplayNameUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewGraphClient(url).LookupDisplayName(context.Background(), "token")
	assert.Error(t, err)
}
