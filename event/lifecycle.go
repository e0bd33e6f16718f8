package event

import (
	"context"

	"github.com/Nnenty/telers/telerrors"
)

// LifecycleCallback runs on startup or shutdown. Arguments beyond the
// context are bound by closure at registration time.
type LifecycleCallback func(ctx context.Context) telerrors.Error

// LifecycleObserver collects startup or shutdown callbacks for a router.
type LifecycleObserver struct {
	name      string
	callbacks []LifecycleCallback
}

func NewLifecycleObserver(name string) *LifecycleObserver {
	return &LifecycleObserver{name: name}
}

func (o *LifecycleObserver) Name() string {
	return o.name
}

// Register appends a callback; callbacks run in registration order.
func (o *LifecycleObserver) Register(callbacks ...LifecycleCallback) {
	o.callbacks = append(o.callbacks, callbacks...)
}

// Freeze copies the observer into its immutable runtime form.
func (o *LifecycleObserver) Freeze() *LifecycleService {
	service := &LifecycleService{
		name:      o.name,
		callbacks: make([]LifecycleCallback, len(o.callbacks)),
	}

	copy(service.callbacks, o.callbacks)

	return service
}

// LifecycleService is the frozen runtime form of a LifecycleObserver.
type LifecycleService struct {
	name      string
	callbacks []LifecycleCallback
}

func (s *LifecycleService) Name() string {
	return s.name
}

// Trigger runs every callback in order, aborting on the first error.
func (s *LifecycleService) Trigger(ctx context.Context) telerrors.Error {
	for _, callback := range s.callbacks {
		if err := callback(ctx); err != nil {
			return err.Wrap("lifecycle callback failed")
		}
	}

	return nil
}
