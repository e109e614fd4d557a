package runtime

import (
	"context"
	"time"

	"github.com/priceflex/intercept/pkg/domain"
)

// Hook emitters. Events are built only when a hook is installed; hooks run
// synchronously on the trigger goroutine.

func (d *Dispatcher) fireTriggerStart(ctx context.Context, sess *domain.Session, action domain.Action) {
	if d.hooks.OnTriggerStart == nil {
		return
	}
	d.hooks.OnTriggerStart(ctx, &domain.TriggerEvent{
		EventBase: eventBase(domain.EventTriggerStart, sess),
		Action:    action,
	})
}

func (d *Dispatcher) fireTriggerEnd(ctx context.Context, sess *domain.Session, action domain.Action, status domain.Status, took time.Duration, err error) {
	if d.hooks.OnTriggerEnd == nil {
		return
	}
	d.hooks.OnTriggerEnd(ctx, &domain.TriggerEvent{
		EventBase: eventBase(domain.EventTriggerEnd, sess),
		Action:    action,
		Status:    status,
		Duration:  took,
		Error:     errString(err),
	})
}

func (d *Dispatcher) firePhase(ctx context.Context, sess *domain.Session, action domain.Action, phase domain.Phase, bound, canceled bool, took time.Duration, err error) {
	if d.hooks.OnPhase == nil {
		return
	}
	d.hooks.OnPhase(ctx, &domain.PhaseEvent{
		EventBase: eventBase(domain.EventPhaseDone, sess),
		Action:    action,
		Phase:     phase,
		Bound:     bound,
		Canceled:  canceled,
		Duration:  took,
		Error:     errString(err),
	})
}

func (d *Dispatcher) fireActionExecute(ctx context.Context, sess *domain.Session, action domain.Action, took time.Duration, err error) {
	if d.hooks.OnActionExecute == nil {
		return
	}
	d.hooks.OnActionExecute(ctx, &domain.ActionEvent{
		EventBase: eventBase(domain.EventActionExecute, sess),
		Action:    action,
		Duration:  took,
		Error:     errString(err),
	})
}

func eventBase(t domain.EventType, sess *domain.Session) domain.EventBase {
	base := domain.EventBase{Timestamp: time.Now().UTC(), Type: t}
	if sess != nil {
		base.SessionID = sess.ID
	}
	return base
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
