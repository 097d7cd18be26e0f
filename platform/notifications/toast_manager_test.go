package notifications

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sentinel/domain/notifications"
	"sentinel/platform/clock"
)

// MockSurface for asserting calls made by the manager
type MockSurface struct {
	mock.Mock
}

func (m *MockSurface) ShowToast(toast notifications.Toast) {
	m.Called(toast)
}

func (m *MockSurface) BeginToastExit(toast notifications.Toast) {
	m.Called(toast)
}

func (m *MockSurface) RemoveToast(toast notifications.Toast) {
	m.Called(toast)
}

// recordingSurface keeps the call sequence for timeline assertions
type recordingSurface struct {
	mu      sync.Mutex
	events  []string
	removed map[string]int
}

func newRecordingSurface() *recordingSurface {
	return &recordingSurface{removed: make(map[string]int)}
}

func (s *recordingSurface) ShowToast(toast notifications.Toast) {
	s.record("show:" + toast.Message)
}

func (s *recordingSurface) BeginToastExit(toast notifications.Toast) {
	s.record("exit:" + toast.Message)
}

func (s *recordingSurface) RemoveToast(toast notifications.Toast) {
	s.mu.Lock()
	s.removed[toast.ID]++
	s.mu.Unlock()
	s.record("remove:" + toast.Message)
}

func (s *recordingSurface) record(event string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recordingSurface) Events() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.events...)
}

var epoch = time.Date(2026, 2, 12, 10, 0, 0, 0, time.UTC)

func TestToastManager_Notify_FollowsExitThenRemovalTimeline(t *testing.T) {
	// Arrange
	fake := clock.Fake(epoch)
	surface := &MockSurface{}
	manager := NewToastManager(surface, fake)

	surface.On("ShowToast", mock.AnythingOfType("notifications.Toast")).Return()
	surface.On("BeginToastExit", mock.AnythingOfType("notifications.Toast")).Return()
	surface.On("RemoveToast", mock.AnythingOfType("notifications.Toast")).Return()

	// Act
	manager.Notify("Saved", notifications.SeveritySuccess, 100*time.Millisecond)

	// Assert - visible immediately
	visible := manager.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "Saved", visible[0].Message)
	assert.Equal(t, "✓", visible[0].Glyph())
	assert.Equal(t, epoch, visible[0].CreatedAt)
	assert.False(t, visible[0].Exiting)
	surface.AssertNumberOfCalls(t, "ShowToast", 1)
	surface.AssertNotCalled(t, "BeginToastExit", mock.Anything)

	// Exit transition starts at the duration
	fake.Advance(99 * time.Millisecond)
	assert.False(t, manager.Visible()[0].Exiting)
	fake.Advance(time.Millisecond)
	require.Len(t, manager.Visible(), 1)
	assert.True(t, manager.Visible()[0].Exiting)
	surface.AssertNumberOfCalls(t, "BeginToastExit", 1)

	// Removal follows after the grace period
	fake.Advance(ExitGrace - time.Millisecond)
	assert.Len(t, manager.Visible(), 1)
	fake.Advance(time.Millisecond)
	assert.Empty(t, manager.Visible())
	surface.AssertNumberOfCalls(t, "RemoveToast", 1)
	assert.Zero(t, fake.Pending())
}

func TestToastManager_Notify_DefaultsProduceIndependentToasts(t *testing.T) {
	// Arrange
	fake := clock.Fake(epoch)
	surface := newRecordingSurface()
	manager := NewToastManager(surface, fake)

	// Act
	manager.NotifyDefault("one")
	manager.NotifyDefault("two")
	manager.Info("three")

	// Assert
	visible := manager.Visible()
	require.Len(t, visible, 3)
	assert.Equal(t, []string{"one", "two", "three"}, []string{visible[0].Message, visible[1].Message, visible[2].Message})
	for _, toast := range visible {
		assert.Equal(t, notifications.SeverityInfo, toast.Severity)
		assert.Equal(t, DefaultDuration, toast.Duration)
	}
	assert.NotEqual(t, visible[0].ID, visible[1].ID)

	fake.Advance(DefaultDuration)
	for _, toast := range manager.Visible() {
		assert.True(t, toast.Exiting)
	}

	fake.Advance(ExitGrace)
	assert.Empty(t, manager.Visible())
	assert.Len(t, surface.removed, 3)
	for id, count := range surface.removed {
		assert.Equal(t, 1, count, "toast %s removed more than once", id)
	}
}

func TestToastManager_Notify_ShorterDurationRemovedFirst(t *testing.T) {
	tests := []struct {
		name  string
		first time.Duration
		then  time.Duration
	}{
		{"short first", 50 * time.Millisecond, 500 * time.Millisecond},
		{"long first", 500 * time.Millisecond, 50 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := clock.Fake(epoch)
			surface := newRecordingSurface()
			manager := NewToastManager(surface, fake)

			manager.Notify(tt.first.String(), notifications.SeverityInfo, tt.first)
			manager.Notify(tt.then.String(), notifications.SeverityInfo, tt.then)

			fake.Advance(time.Second)

			var removals []string
			for _, event := range surface.Events() {
				if message, ok := strings.CutPrefix(event, "remove:"); ok {
					removals = append(removals, message)
				}
			}
			assert.Equal(t, []string{"50ms", "500ms"}, removals)
			assert.Empty(t, manager.Visible())
		})
	}
}

func TestToastManager_Notify_ShowsBeforeExitBeforeRemove(t *testing.T) {
	fake := clock.Fake(epoch)
	surface := newRecordingSurface()
	manager := NewToastManager(surface, fake)

	manager.Warning("Careful")
	fake.Advance(DefaultDuration + ExitGrace)

	assert.Equal(t, []string{"show:Careful", "exit:Careful", "remove:Careful"}, surface.Events())
}

func TestToastManager_Notify_UnknownSeverityFallsBackToInfoGlyph(t *testing.T) {
	fake := clock.Fake(epoch)
	manager := NewToastManager(newRecordingSurface(), fake)

	manager.Notify("odd", notifications.Severity("critical"), time.Second)

	visible := manager.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, notifications.Severity("critical"), visible[0].Severity)
	assert.Equal(t, "ℹ", visible[0].Glyph())
}

func TestToastManager_Notify_ZeroDurationExitsImmediately(t *testing.T) {
	// Arrange
	fake := clock.Fake(epoch)
	surface := newRecordingSurface()
	manager := NewToastManager(surface, fake)

	// Act
	manager.Notify("zero", notifications.SeverityError, 0)
	manager.Notify("negative", notifications.SeverityError, -time.Second)

	// Assert
	visible := manager.Visible()
	require.Len(t, visible, 2)
	for _, toast := range visible {
		assert.Zero(t, toast.Duration)
		assert.True(t, toast.Exiting)
	}
	fake.Advance(ExitGrace)
	assert.Empty(t, manager.Visible())
	assert.Equal(t, []string{"show:zero", "exit:zero", "show:negative", "exit:negative", "remove:zero", "remove:negative"}, surface.Events())
}

func TestToastManager_DefaultForms_UseConfiguredDuration(t *testing.T) {
	fake := clock.Fake(epoch)
	manager := NewToastManager(newRecordingSurface(), fake)
	manager.SetDefaultDuration(2 * time.Second)
	manager.SetDefaultDuration(0)

	manager.NotifyDefault("default")
	manager.NotifyAs("as", notifications.SeverityWarning)
	manager.Error("error")

	visible := manager.Visible()
	require.Len(t, visible, 3)
	for _, toast := range visible {
		assert.Equal(t, 2*time.Second, toast.Duration)
		assert.False(t, toast.Exiting)
	}
	assert.Equal(t, notifications.SeverityWarning, visible[1].Severity)
}

func TestToastManager_ConcurrentNotify_EveryToastRemovedExactlyOnce(t *testing.T) {
	// Arrange
	surface := newRecordingSurface()
	manager := NewToastManager(surface, clock.Real())

	const numGoroutines = 10
	const toastsPerGoroutine = 5

	// Act
	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < toastsPerGoroutine; j++ {
				manager.Notify("burst", notifications.SeverityInfo, time.Millisecond)
			}
		}()
	}
	wg.Wait()

	// Assert
	assert.Eventually(t, func() bool {
		surface.mu.Lock()
		removed := len(surface.removed)
		surface.mu.Unlock()
		return len(manager.Visible()) == 0 && removed == numGoroutines*toastsPerGoroutine
	}, 2*time.Second, 10*time.Millisecond)

	surface.mu.Lock()
	defer surface.mu.Unlock()
	assert.Len(t, surface.removed, numGoroutines*toastsPerGoroutine)
	for _, count := range surface.removed {
		assert.Equal(t, 1, count)
	}
}
