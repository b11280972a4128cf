package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	domainNotify "ticket_reminder_service/internal/domain/notify"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestNew_SelectsKind(t *testing.T) {
	cases := []struct {
		kind    string
		cfg     Config
		wantErr bool
	}{
		{kind: "", cfg: Config{}},
		{kind: "log", cfg: Config{Kind: "log"}},
		{kind: "noop", cfg: Config{Kind: "noop"}},
		{kind: "fail", cfg: Config{Kind: "fail"}},
		{kind: "webhook", cfg: Config{Kind: "webhook", WebhookURL: "http://relay.local/send"}},
		{kind: "webhook missing url", cfg: Config{Kind: "webhook"}, wantErr: true},
		{kind: "telegram missing token", cfg: Config{Kind: "telegram"}, wantErr: true},
		{kind: "bogus", cfg: Config{Kind: "bogus"}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.kind, func(t *testing.T) {
			n, err := New(tc.cfg, testLogger())
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, n)
		})
	}
}

func TestFailNotifier_ReturnsDeliveryError(t *testing.T) {
	err := FailNotifier{}.Send(context.Background(), "a@b.c", "s", "b")
	require.Error(t, err)
	var derr *domainNotify.DeliveryError
	assert.ErrorAs(t, err, &derr)
}

func TestNoopAndLogNotifiers_Succeed(t *testing.T) {
	assert.NoError(t, NoopNotifier{}.Send(context.Background(), "a@b.c", "s", "b"))
	logN := &LogNotifier{logger: testLogger()}
	assert.NoError(t, logN.Send(context.Background(), "a@b.c", "s", "b"))
}

func TestWebhookNotifier_PostsPayload(t *testing.T) {
	var gotAuth string
	var gotPayload webhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotPayload)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	n, err := New(Config{Kind: "webhook", WebhookURL: server.URL, WebhookToken: "secret", ReplyTo: "suporte@example.com"}, testLogger())
	require.NoError(t, err)

	err = n.Send(context.Background(), "ana@example.com", "Lembrete", "<p>corpo</p>")
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "ana@example.com", gotPayload.To)
	assert.Equal(t, "Lembrete", gotPayload.Subject)
	assert.Equal(t, "<p>corpo</p>", gotPayload.Body)
	assert.Equal(t, "suporte@example.com", gotPayload.ReplyTo)
}

func TestWebhookNotifier_RejectionIsDeliveryError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	n, err := New(Config{Kind: "webhook", WebhookURL: server.URL}, testLogger())
	require.NoError(t, err)

	err = n.Send(context.Background(), "ana@example.com", "Lembrete", "corpo")
	require.Error(t, err)
	var derr *domainNotify.DeliveryError
	require.ErrorAs(t, err, &derr)
	assert.Contains(t, derr.Reason, "429")
}

func TestWebhookNotifier_ContextTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	n, err := New(Config{Kind: "webhook", WebhookURL: server.URL}, testLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = n.Send(ctx, "ana@example.com", "Lembrete", "corpo")
	require.Error(t, err)
	var derr *domainNotify.DeliveryError
	assert.ErrorAs(t, err, &derr)
}
