package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqrts/internal/logging"
)

type staticToken string

func (s staticToken) AccessToken() string { return string(s) }

func newTestClient(t *testing.T, h http.Handler, opts ...Option) (*Client, *bytes.Buffer) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	var logs bytes.Buffer
	opts = append([]Option{WithLogger(logging.New(&logs))}, opts...)
	c, err := New(srv.URL+"/qr_gen_api/api/v1", opts...)
	require.NoError(t, err)
	return c, &logs
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := New("qr_gen_api/api/v1")
	assert.Error(t, err)
}

func TestURLResolvesEndpoints(t *testing.T) {
	c, err := New("http://localhost:8071/qr_gen_api/api/v1/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8071/qr_gen_api/api/v1/auth/Register", c.URL(Register))
	assert.Equal(t, "http://localhost:8071/qr_gen_api/api/v1/", c.BaseURL())

	seen := map[Endpoint]bool{}
	for _, ep := range Endpoints {
		assert.False(t, seen[ep], "duplicate endpoint %s", ep)
		seen[ep] = true
	}
}

func TestRegisterDecodesTokens(t *testing.T) {
	var got RegistrationData
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/qr_gen_api/api/v1/auth/Register", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"accessToken":"a1","refreshToken":"r1","userName":"tan","email":"tan@example.com","role":"ROLE_USER"}`)
	}))

	in := RegistrationData{UserName: "tan", PhoneNumber: "91234567", Email: "tan@example.com", Password: "Abcdef1!", Role: RoleUser}
	out, err := c.Register(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, in, got)
	assert.Equal(t, &AuthResponse{AccessToken: "a1", RefreshToken: "r1", UserName: "tan", Email: "tan@example.com", Role: RoleUser}, out)
}

func TestLoginNon2xxIsHTTPError(t *testing.T) {
	c, logs := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":"invalid credentials"}`)
	}))

	_, err := c.Login(context.Background(), LoginData{Email: "tan@example.com", Password: "nope"})
	var he *HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Status)
	assert.Contains(t, logs.String(), "Error data: 401")
}

func TestTransportFailureLogsRequestBranch(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	var logs bytes.Buffer
	c, err := New(base, WithLogger(logging.New(&logs)))
	require.NoError(t, err)

	_, err = c.Register(context.Background(), RegistrationData{})
	require.Error(t, err)
	assert.Contains(t, logs.String(), "Error request: Post")

	_, err = c.Post(context.Background(), ChangePassword, map[string]string{}, nil)
	assert.ErrorIs(t, err, ErrPostFailed)

	_, err = c.Get(context.Background(), GetUsers)
	assert.ErrorIs(t, err, ErrFetchFailed)

	resp := c.SendFeedback(context.Background(), FeedbackData{"rating": 5})
	assert.Equal(t, http.StatusInternalServerError, resp.Status)
}

func TestPostReturnsErrorResponses(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"ResponseMsg":"Wrong password"}`)
	}))

	resp, err := c.ChangePassword(context.Background(), ChangePasswordData{Email: "tan@example.com"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.False(t, resp.OK())
	assert.Equal(t, "Wrong password", resp.Field("ResponseMsg"))
	assert.Empty(t, resp.Field("missing"))
}

func TestGetWithParamsEncodesQuery(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/qr_gen_api/api/v1/tickets/Tickets", r.URL.Path)
		assert.Equal(t, "tan@example.com", r.URL.Query().Get("email"))
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `[{"ticketId":"t1"}]`)
	}), WithTokenSource(staticToken("tok-123")))

	resp, err := c.GetTickets(context.Background(), "tan@example.com")
	require.NoError(t, err)
	var tickets []map[string]string
	require.NoError(t, resp.Decode(&tickets))
	assert.Equal(t, "t1", tickets[0]["ticketId"])
}

func TestGetNon2xxIsFetchFailure(t *testing.T) {
	c, logs := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	_, err := c.GetWithParams(context.Background(), GetBusFare, url.Values{"from": {"A"}})
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.Contains(t, logs.String(), "Error fetching data")
}

func TestSendFeedbackForwardsPayload(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var m map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&m))
		assert.Equal(t, "great app", m["comment"])
		w.WriteHeader(http.StatusCreated)
	}))
	resp := c.SendFeedback(context.Background(), FeedbackData{"comment": "great app"})
	assert.Equal(t, http.StatusCreated, resp.Status)

	c, _ = newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	resp = c.SendFeedback(context.Background(), FeedbackData{})
	assert.Equal(t, http.StatusInternalServerError, resp.Status)
}

func TestWithTimeout(t *testing.T) {
	block := make(chan struct{})
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}), WithTimeout(50*time.Millisecond))
	defer close(block)

	_, err := c.Get(context.Background(), ServiceStatus)
	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestResponseDecodeEmptyBody(t *testing.T) {
	r := &Response{Status: http.StatusOK}
	var v map[string]any
	assert.Error(t, r.Decode(&v))
}

func TestDeviceIDHeader(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "dev-42", r.Header.Get("X-Device-ID"))
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}), WithDeviceID("dev-42"))

	resp, err := c.ServiceStatus(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.OK())
}
