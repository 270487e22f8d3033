package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(to, subject, body string) error {
	args := m.Called(to, subject, body)
	return args.Error(0)
}

func TestRenderStatusEmail_Suspended(t *testing.T) {
	until := time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC)
	subject, body, ok, err := RenderStatusEmail(StatusEmail{
		Name:              "Maria",
		Status:            "suspended",
		Reason:            "No-show <twice>",
		SuspensionEndDate: &until,
		SuspensionCount:   2,
	})
	require.NoError(t, err)
	require.True(t, ok)

	assert.Contains(t, subject, "suspended")
	assert.Contains(t, body, "Hi Maria")
	assert.Contains(t, body, "May 4, 2026")
	assert.Contains(t, body, "No-show &lt;twice&gt;")
	assert.Contains(t, body, "suspension number 2")
}

func TestRenderStatusEmail_NoTemplate(t *testing.T) {
	_, _, ok, err := RenderStatusEmail(StatusEmail{Status: "inactive"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMailer_SendStatusEmail(t *testing.T) {
	sender := new(mockSender)
	mailer := NewMailer(sender)

	sender.On("Send", "ana@example.com", "Your iYaya account has been banned", mock.AnythingOfType("string")).
		Return(nil)

	err := mailer.SendStatusEmail(context.Background(), StatusEmail{Email: "ana@example.com", Status: "banned"})
	assert.NoError(t, err)
	sender.AssertExpectations(t)
}

func TestMailer_SkipsUnknownStatusAndPropagatesSendError(t *testing.T) {
	sender := new(mockSender)
	mailer := NewMailer(sender)

	assert.NoError(t, mailer.SendStatusEmail(context.Background(), StatusEmail{Email: "a@b.c", Status: "inactive"}))
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)

	sender.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))
	assert.Error(t, mailer.SendStatusEmail(context.Background(), StatusEmail{Email: "a@b.c", Status: "active"}))

	assert.Error(t, mailer.SendStatusEmail(context.Background(), StatusEmail{Status: "active"}))
}
