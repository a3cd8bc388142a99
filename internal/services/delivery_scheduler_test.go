package services

import (
	"context"
	"testing"
	"time"

	"github.com/homesignal/backend/internal/entities"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockPendingNotifications struct {
	mock.Mock
}

func (m *mockPendingNotifications) ListUnsent(ctx context.Context, limit int) ([]entities.PendingNotification, error) {
	args := m.Called(ctx, limit)
	pending, _ := args.Get(0).([]entities.PendingNotification)
	return pending, args.Error(1)
}

func (m *mockPendingNotifications) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	return m.Called(ctx, id, sentAt).Error(0)
}

func (m *mockPendingNotifications) CountUnsent(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendNotification(to string, title string, message string, actionURL string, agencyName string) error {
	return m.Called(to, title, message, actionURL, agencyName).Error(0)
}

func newTestDeliveryScheduler(t *testing.T, notifications *mockPendingNotifications,
	mailer *mockMailer) *DeliveryScheduler {

	scheduler, err := NewDeliveryScheduler(notifications, mailer, DeliverySchedulerOptions{
		BatchSize: 10,
		SendDelay: time.Millisecond,
	})
	assert.NoError(t, err)
	return scheduler
}

func pendingFor(id, email string) entities.PendingNotification {
	return entities.PendingNotification{
		ID:             id,
		UserID:         "user-" + id,
		Title:          "New properties",
		Message:        "Click to view them.",
		ActionURL:      "/search?savedSearchId=" + id,
		RecipientEmail: email,
		AgencyName:     "Acme Realty",
	}
}

func Test_DeliveryRun_ShouldSendAndMarkEachNotification(t *testing.T) {

	first := pendingFor("n1", "first@example.com")
	second := pendingFor("n2", "second@example.com")

	notifications := &mockPendingNotifications{}
	notifications.On("ListUnsent", mock.Anything, 10).
		Return([]entities.PendingNotification{first, second}, nil).Once()
	notifications.On("MarkSent", mock.Anything, "n1", mock.Anything).Return(nil).Once()
	notifications.On("MarkSent", mock.Anything, "n2", mock.Anything).Return(nil).Once()
	notifications.On("CountUnsent", mock.Anything).Return(int64(0), nil).Once()

	mailer := &mockMailer{}
	var order []string
	mailer.On("SendNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			order = append(order, args.String(0))
		}).
		Return(nil).Twice()

	scheduler := newTestDeliveryScheduler(t, notifications, mailer)
	scheduler.run()

	notifications.AssertExpectations(t)
	mailer.AssertExpectations(t)
	assert.Equal(t, []string{"first@example.com", "second@example.com"}, order)
}

func Test_DeliveryRun_WhenTransportFails_ShouldLeaveNotificationPending(t *testing.T) {

	pending := pendingFor("n1", "first@example.com")

	notifications := &mockPendingNotifications{}
	notifications.On("ListUnsent", mock.Anything, 10).
		Return([]entities.PendingNotification{pending}, nil).Once()
	notifications.On("CountUnsent", mock.Anything).Return(int64(1), nil).Once()

	mailer := &mockMailer{}
	mailer.On("SendNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("connection refused")).Once()

	scheduler := newTestDeliveryScheduler(t, notifications, mailer)
	scheduler.run()

	notifications.AssertNotCalled(t, "MarkSent", mock.Anything, mock.Anything, mock.Anything)
}

func Test_DeliveryRun_WhenOneSendFails_ShouldContinueWithOthers(t *testing.T) {

	failing := pendingFor("n1", "broken@example.com")
	healthy := pendingFor("n2", "second@example.com")

	notifications := &mockPendingNotifications{}
	notifications.On("ListUnsent", mock.Anything, 10).
		Return([]entities.PendingNotification{failing, healthy}, nil).Once()
	notifications.On("MarkSent", mock.Anything, "n2", mock.Anything).Return(nil).Once()
	notifications.On("CountUnsent", mock.Anything).Return(int64(1), nil).Once()

	mailer := &mockMailer{}
	mailer.On("SendNotification", "broken@example.com", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("mailbox unavailable")).Once()
	mailer.On("SendNotification", "second@example.com", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil).Once()

	scheduler := newTestDeliveryScheduler(t, notifications, mailer)
	scheduler.run()

	notifications.AssertExpectations(t)
	mailer.AssertExpectations(t)
}

func Test_DeliveryRun_WhenRecipientHasNoEmail_ShouldNotTouchTransport(t *testing.T) {

	pending := pendingFor("n1", "")

	notifications := &mockPendingNotifications{}
	notifications.On("ListUnsent", mock.Anything, 10).
		Return([]entities.PendingNotification{pending}, nil).Once()
	notifications.On("CountUnsent", mock.Anything).Return(int64(1), nil).Once()

	mailer := &mockMailer{}

	scheduler := newTestDeliveryScheduler(t, notifications, mailer)
	scheduler.run()

	mailer.AssertNotCalled(t, "SendNotification",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	notifications.AssertNotCalled(t, "MarkSent", mock.Anything, mock.Anything, mock.Anything)
}

func Test_DeliveryRun_WhenNothingPending_ShouldDoNothing(t *testing.T) {

	notifications := &mockPendingNotifications{}
	notifications.On("ListUnsent", mock.Anything, 10).
		Return([]entities.PendingNotification{}, nil).Once()

	mailer := &mockMailer{}

	scheduler := newTestDeliveryScheduler(t, notifications, mailer)
	scheduler.run()

	notifications.AssertNotCalled(t, "CountUnsent", mock.Anything)
	mailer.AssertNotCalled(t, "SendNotification",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func Test_DeliveryRun_WhenAlreadyProcessing_ShouldSkipTrigger(t *testing.T) {

	notifications := &mockPendingNotifications{}
	scheduler := newTestDeliveryScheduler(t, notifications, &mockMailer{})

	scheduler.processing.Store(true)
	scheduler.run()

	notifications.AssertNotCalled(t, "ListUnsent", mock.Anything, mock.Anything)
}

func Test_DeliveryScheduler_StartStop(t *testing.T) {

	scheduler := newTestDeliveryScheduler(t, &mockPendingNotifications{}, &mockMailer{})

	assert.NoError(t, scheduler.Start("*/5 * * * *"))
	assert.True(t, scheduler.Status().Running)

	scheduler.Stop()
	assert.False(t, scheduler.Status().Running)
}
