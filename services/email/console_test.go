package emailsvc

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhavyajain7773/ATF-Design/core"
	"github.com/bhavyajain7773/ATF-Design/core/course"
	"github.com/bhavyajain7773/ATF-Design/core/order"
	"github.com/bhavyajain7773/ATF-Design/core/user"
)

type confirmation struct {
	Order     order.Order
	PortalURL string
}

func newConfirmation(t *testing.T) *core.EmailMessage {
	t.Helper()
	buyer := user.User{ID: "USR-1A2B3C4D", Name: "Asha Verma", Email: "asha@test.in"}
	items := []course.Course{
		{ID: "forex", Title: "Forex Management", Level: course.TierMiddle, Price: 500},
		{ID: "stock-market", Title: "Stock Market Fundamentals", Level: course.TierTop, Price: 300},
	}
	o := order.New(buyer, items, 80, 720, order.PaymentUPI, "TXN-1234567")

	msg := &core.EmailMessage{
		To:           []mail.Address{{Name: buyer.Name, Address: buyer.Email}},
		Subject:      "Enrollment confirmed: " + o.ID,
		TemplateName: "order_confirmation",
		TemplateData: confirmation{Order: o, PortalURL: "https://portal.atf.test"},
	}
	require.NoError(t, msg.Attach(strings.NewReader(o.Receipt()), o.ID+".txt", "text/plain"))
	return msg
}

func TestConsoleService_SendMessage(t *testing.T) {
	var out bytes.Buffer
	svc := newConsoleService(core.NewTestConfig(), &out)

	sent, err := svc.sendMessage(newConfirmation(t))
	require.NoError(t, err)
	assert.True(t, sent)

	body := out.String()
	assert.Contains(t, body, "Subject: [ATF Academy] Enrollment confirmed: ATF-")
	assert.Contains(t, body, `To: "Asha Verma" <asha@test.in>`)
	assert.Contains(t, body, "multipart/mixed")
	assert.Contains(t, body, "text/html; charset=utf-8")
	assert.Contains(t, body, "TXN-1234567")
	assert.Contains(t, body, "Forex Management")
	assert.Contains(t, body, "https://portal.atf.test")
	assert.Contains(t, body, "Content-Disposition: attachment; filename=ATF-")
}

func TestConsoleService_NothingToSend(t *testing.T) {
	tests := []struct {
		name string
		msg  *core.EmailMessage
	}{
		{"no recipients", &core.EmailMessage{Subject: "hi", BodyStr: "hello"}},
		{"no content", &core.EmailMessage{To: []mail.Address{{Address: "a@test.in"}}, Subject: "hi"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			svc := newConsoleService(core.NewTestConfig(), &out)

			sent, err := svc.sendMessage(tc.msg)
			require.NoError(t, err)
			assert.False(t, sent)
			assert.Empty(t, out.String())
		})
	}
}

func TestConsoleServiceMock(t *testing.T) {
	svc := NewConsoleServiceMock(core.NewTestConfig())
	svc.SendMessages(
		newConfirmation(t),
		&core.EmailMessage{Subject: "dropped", BodyStr: "no recipients"},
	)

	sent := svc.Sent()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].TextContent, "Asha Verma")
	assert.Contains(t, sent[0].HTMLContent, "Stock Market Fundamentals")
	assert.True(t, sent[0].HasAttachments())
}

func TestSendgridService_Prepare(t *testing.T) {
	conf := core.NewTestConfig()
	svc := newSendgridService(conf, nil, sendgridHost)

	msg := newConfirmation(t)
	require.NoError(t, msg.Render())
	m := svc.prepare(*msg)

	require.Len(t, m.Personalizations, 1)
	assert.Equal(t, "[ATF Academy] "+msg.Subject, m.Personalizations[0].Subject)
	require.Len(t, m.Personalizations[0].To, 1)
	assert.Equal(t, "asha@test.in", m.Personalizations[0].To[0].Address)
	assert.Empty(t, m.Personalizations[0].CC)
	assert.Equal(t, []string{"order_confirmation"}, m.Categories)
	require.Len(t, m.Content, 2)
	assert.Equal(t, "text/plain", m.Content[0].Type)
	assert.Equal(t, "text/html", m.Content[1].Type)
	require.Len(t, m.Attachments, 1)
	assert.Equal(t, "attachment", m.Attachments[0].Disposition)

	plain := svc.prepare(core.EmailMessage{Subject: "plain", TextContent: "hello"})
	assert.Len(t, plain.Content, 1)
	assert.Empty(t, plain.Categories)
}

func TestSendgridService_SendMessage(t *testing.T) {
	tests := []struct {
		name     string
		msg      *core.EmailMessage
		status   int
		wantPost bool
		wantErr  bool
	}{
		{name: "confirmation", msg: newConfirmation(t), status: http.StatusAccepted, wantPost: true},
		{name: "rejected", msg: newConfirmation(t), status: http.StatusBadRequest, wantPost: true, wantErr: true},
		{name: "no recipients", msg: &core.EmailMessage{Subject: "hi", BodyStr: "hello"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			bodies := make(chan []byte, 1)
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, sendgridEndpoint, r.URL.Path)
				assert.Equal(t, "Bearer SG.key", r.Header.Get("Authorization"))
				body, _ := io.ReadAll(r.Body)
				bodies <- body
				w.WriteHeader(tc.status)
			}))
			defer srv.Close()

			conf := core.NewTestConfig()
			conf.SendgridApiKey = " SG.key "
			svc := newSendgridService(conf, nil, srv.URL)

			err := svc.sendMessage(tc.msg)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			if !tc.wantPost {
				assert.Len(t, bodies, 0)
				return
			}
			require.Len(t, bodies, 1)
			posted := <-bodies
			assert.Contains(t, string(posted), `"categories":["order_confirmation"]`)
			assert.Contains(t, string(posted), "asha@test.in")
		})
	}
}

func TestNewService(t *testing.T) {
	tests := []struct {
		name         string
		debug        bool
		key          string
		wantSendgrid bool
	}{
		{name: "debug without key", debug: true},
		{name: "debug with key", debug: true, key: "SG.key"},
		{name: "no key", key: ""},
		{name: "blank key", key: "   "},
		{name: "key", key: "SG.key", wantSendgrid: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			conf := core.NewTestConfig()
			conf.Debug = tc.debug
			conf.SendgridApiKey = tc.key

			svc := NewService(conf, nil)
			_, isSendgrid := svc.(*sendgridService)
			_, isConsole := svc.(*consoleService)
			assert.Equal(t, tc.wantSendgrid, isSendgrid)
			assert.Equal(t, !tc.wantSendgrid, isConsole)
		})
	}
}
