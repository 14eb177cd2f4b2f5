package notification

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RepairService/internal/domain"
	"github.com/m04kA/SMC-RepairService/internal/integrations/mailer"
	"github.com/m04kA/SMC-RepairService/pkg/logger"
)

type mockMailClient struct {
	mock.Mock
}

func (m *mockMailClient) Send(ctx context.Context, msg *mailer.Message) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}

type mockEnqueuer struct {
	mock.Mock
}

func (m *mockEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(ctx, task)
	info, _ := args.Get(0).(*asynq.TaskInfo)
	return info, args.Error(1)
}

type recordingSender struct {
	mu     sync.Mutex
	events []StatusChanged
	err    error
}

func (s *recordingSender) SendStatusChanged(_ context.Context, event StatusChanged) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return s.err
}

func sampleEvent() StatusChanged {
	res := &domain.Reservation{
		ID:            7,
		CustomerName:  "Budi",
		CustomerEmail: "budi@example.com",
		Status:        domain.StatusInProgress,
		ScheduledDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		DeviceName:    "Samsung A52",
		ShiftName:     "Shift A",
		SlotStartTime: "09:00",
		SlotEndTime:   "12:00",
	}
	return NewStatusChanged(res, domain.StatusPending, time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC))
}

func TestRender(t *testing.T) {
	subject, body, err := Render(sampleEvent())
	require.NoError(t, err)

	assert.Equal(t, "Repair #7: In progress", subject)
	assert.Contains(t, body, "Hello Budi")
	assert.Contains(t, body, "#7 (Samsung A52)")
	assert.Contains(t, body, "from Pending to In progress")
	assert.Contains(t, body, "2025-03-01, shift Shift A (09:00-12:00)")
}

func TestStatusChangedTask_RoundTrip(t *testing.T) {
	event := sampleEvent()

	task, opts, err := NewStatusChangedTask(event, 3)
	require.NoError(t, err)
	assert.Equal(t, TypeStatusChanged, task.Type())
	require.Len(t, opts, 4)

	values := make(map[asynq.OptionType]interface{}, len(opts))
	for _, opt := range opts {
		values[opt.Type()] = opt.Value()
	}
	assert.Equal(t, TaskID(event), values[asynq.TaskIDOpt])
	assert.Equal(t, QueueName, values[asynq.QueueOpt])
	assert.Equal(t, 3, values[asynq.MaxRetryOpt])
	assert.Equal(t, 30*time.Second, values[asynq.TimeoutOpt])

	parsed, err := ParseStatusChangedTask(task)
	require.NoError(t, err)
	assert.Equal(t, event.ReservationID, parsed.ReservationID)
	assert.Equal(t, domain.StatusPending, parsed.OldStatus)
	assert.Equal(t, domain.StatusInProgress, parsed.NewStatus)

	_, err = ParseStatusChangedTask(asynq.NewTask(TypeStatusChanged, []byte("{")))
	assert.Error(t, err)
}

func TestTaskID(t *testing.T) {
	event := sampleEvent()

	assert.Equal(t, TaskID(event), TaskID(sampleEvent()))
	assert.Contains(t, TaskID(event), "status_changed:7:PENDING:IN_PROGRESS:")

	other := event
	other.NewStatus = domain.StatusCompleted
	assert.NotEqual(t, TaskID(event), TaskID(other))

	// тот же переход позже, например IN_PROGRESS -> AWAITING -> IN_PROGRESS
	later := event
	later.OccurredAt = event.OccurredAt.Add(time.Minute)
	assert.NotEqual(t, TaskID(event), TaskID(later))
}

func TestEmailSender(t *testing.T) {
	client := new(mockMailClient)
	client.On("Send", mock.Anything, mock.MatchedBy(func(msg *mailer.Message) bool {
		return msg.From == "noreply@example.com" && msg.To[0] == "budi@example.com"
	})).Return("msg-1", nil).Once()

	sender := NewEmailSender(client, "noreply@example.com")
	require.NoError(t, sender.SendStatusChanged(context.Background(), sampleEvent()))
	client.AssertExpectations(t)

	noRecipient := sampleEvent()
	noRecipient.Recipient = ""
	assert.ErrorIs(t, sender.SendStatusChanged(context.Background(), noRecipient), ErrNoRecipient)

	client.On("Send", mock.Anything, mock.Anything).Return("", mailer.ErrRateLimited).Once()
	err := sender.SendStatusChanged(context.Background(), sampleEvent())
	assert.ErrorIs(t, err, ErrSendFailed)
	assert.ErrorIs(t, err, mailer.ErrRateLimited)
}

func TestQueueDispatcher(t *testing.T) {
	queue := new(mockEnqueuer)
	queue.On("EnqueueContext", mock.Anything, mock.MatchedBy(func(task *asynq.Task) bool {
		return task.Type() == TypeStatusChanged
	})).Return(&asynq.TaskInfo{ID: "task-1"}, nil).Once()

	d := NewQueueDispatcher(queue, 5, logger.NewNop())
	require.NoError(t, d.Dispatch(context.Background(), sampleEvent()))

	queue.On("EnqueueContext", mock.Anything, mock.Anything).Return(nil, errors.New("redis down")).Once()
	assert.ErrorIs(t, d.Dispatch(context.Background(), sampleEvent()), ErrEnqueueFailed)

	// повторная публикация того же события не считается ошибкой
	queue.On("EnqueueContext", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("enqueue: %w", asynq.ErrTaskIDConflict)).Once()
	assert.NoError(t, d.Dispatch(context.Background(), sampleEvent()))

	queue.AssertExpectations(t)
}

func TestDirectDispatcher_SendsInBackground(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp down")}
	d := NewDirectDispatcher(sender, time.Second, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// отмененный контекст запроса не мешает отправке, ошибка отправки не возвращается
	require.NoError(t, d.Dispatch(ctx, sampleEvent()))
	d.Wait()

	require.Len(t, sender.events, 1)
	assert.Equal(t, int64(7), sender.events[0].ReservationID)
}
