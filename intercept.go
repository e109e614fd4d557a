package intercept

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"log/slog"

	"github.com/priceflex/intercept/internal/logging"
	"github.com/priceflex/intercept/internal/runtime"
	loamAdapter "github.com/priceflex/intercept/pkg/adapters/loam"
	"github.com/priceflex/intercept/pkg/adapters/memory"
	"github.com/priceflex/intercept/pkg/capability"
	"github.com/priceflex/intercept/pkg/config"
	"github.com/priceflex/intercept/pkg/crm"
	"github.com/priceflex/intercept/pkg/domain"
	"github.com/priceflex/intercept/pkg/ports"
	"github.com/priceflex/intercept/pkg/registry"
	"github.com/priceflex/intercept/pkg/session"
)

// Engine is the high-level entry point for the intercept library. It wires
// the action vocabulary, the handler registry, sessions, configuration and
// the CRM surface into one trigger dispatcher.
type Engine struct {
	logger     *slog.Logger
	actions    *domain.ActionSet
	registry   *registry.Registry
	catalog    *registry.Catalog
	sessions   *session.Manager
	service    *config.Service
	crm        crm.Manager
	records    ports.RecordSource
	dispatcher *runtime.Dispatcher

	// construction-time staging, consumed by New
	hooks        domain.LifecycleHooks
	policy       registry.ConflictPolicy
	runners      map[domain.Action]ports.ActionRunner
	fallback     ports.ActionRunner
	sessionStore ports.SessionStore
	sessionOpts  []session.Option
	configSource ports.ConfigSource
	recordsPath  string

	applyMu sync.Mutex
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithActions replaces the compiled-in action vocabulary.
func WithActions(set *domain.ActionSet) Option {
	return func(e *Engine) {
		e.actions = set
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithConflictPolicy sets the duplicate-binding policy. Default LastWins.
func WithConflictPolicy(p registry.ConflictPolicy) Option {
	return func(e *Engine) {
		e.policy = p
	}
}

// WithRunner installs the catch-all runner for actions without a dedicated
// one. Without it, triggering an action absent from the runner table fails
// with KindNoRunner.
func WithRunner(r ports.ActionRunner) Option {
	return func(e *Engine) {
		e.fallback = r
	}
}

// WithActionRunner installs the built-in implementation for one action.
func WithActionRunner(action domain.Action, r ports.ActionRunner) Option {
	return func(e *Engine) {
		e.runners[action] = r
	}
}

// WithSessionStore selects the session persistence backend. Default is the
// in-memory store.
func WithSessionStore(store ports.SessionStore) Option {
	return func(e *Engine) {
		e.sessionStore = store
	}
}

// WithDistributedLock serializes per-session access across engine replicas.
func WithDistributedLock(locker ports.DistributedLocker, ttl time.Duration) Option {
	return func(e *Engine) {
		e.sessionOpts = append(e.sessionOpts, session.WithDistributedLock(locker, ttl))
	}
}

// WithConfigSource sets the base configuration tree handlers read through
// RetrieveConfig.
func WithConfigSource(src ports.ConfigSource) Option {
	return func(e *Engine) {
		e.configSource = src
	}
}

// WithCRM binds the surrounding CRM. Default is the Standalone variant,
// where every CRM operation fails with KindUnsupportedOnBackend.
func WithCRM(m crm.Manager) Option {
	return func(e *Engine) {
		e.crm = m
	}
}

// WithRecordSource injects a custom record source, bypassing the default
// Loam initialization.
func WithRecordSource(src ports.RecordSource) Option {
	return func(e *Engine) {
		e.records = src
	}
}

// WithRecordsPath loads interceptor records from a Loam repository at the
// given path. Ignored when WithRecordSource is also given.
func WithRecordsPath(path string) Option {
	return func(e *Engine) {
		e.recordsPath = path
	}
}

// New initializes an intercept Engine. Without options it recognizes the
// default vocabulary, keeps sessions in memory, resolves no base
// configuration and runs without a CRM.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{
		policy:  registry.LastWins,
		runners: make(map[domain.Action]ports.ActionRunner),
	}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.actions == nil {
		eng.actions = domain.DefaultActions()
	}

	// If no record source was injected, initialize the default Loam adapter.
	if eng.records == nil && eng.recordsPath != "" {
		src, err := loamAdapter.Open(eng.recordsPath)
		if err != nil {
			return nil, fmt.Errorf("open records repository: %w", err)
		}
		eng.records = src
	}

	if eng.crm == nil {
		eng.crm = crm.NewStandalone()
	}
	if eng.sessionStore == nil {
		eng.sessionStore = memory.NewSessionStore()
	}
	sessionOpts := append([]session.Option{session.WithLogger(eng.logger)}, eng.sessionOpts...)
	eng.sessions = session.NewManager(eng.sessionStore, sessionOpts...)

	eng.service = config.NewService(eng.configSource)
	eng.registry = registry.New(registry.WithConflictPolicy(eng.policy))
	eng.catalog = registry.NewCatalog()

	builder := capability.NewBuilder(capability.BuilderConfig{
		Actions: eng.actions,
		Config:  eng.service,
		CRM:     eng.crm,
		Logger:  eng.logger,
	})

	eng.dispatcher = runtime.NewDispatcher(runtime.Config{
		Actions:  eng.actions,
		Registry: eng.registry,
		Builder:  builder,
		Runners:  eng.runners,
		Fallback: eng.fallback,
		Hooks:    eng.hooks,
		Logger:   eng.logger,
	})

	return eng, nil
}

// Trigger runs one action through its interception sequence: PRE handler,
// built-in action, POST handler. An empty sessionID runs without a session,
// so handlers see no configuration overlay and no page context. The session
// is persisted after the sequence, carrying any configuration overrides the
// handlers wrote.
func (e *Engine) Trigger(ctx context.Context, sessionID string, action domain.Action, input any) (domain.Result, error) {
	if sessionID == "" {
		return e.dispatcher.Trigger(ctx, nil, action, input)
	}

	sess, err := e.sessions.LoadOrStart(ctx, sessionID, domain.User{})
	if err != nil {
		return domain.Result{Status: domain.StatusFailed}, fmt.Errorf("load session %q: %w", sessionID, err)
	}
	res, err := e.dispatcher.Trigger(ctx, sess, action, input)
	if saveErr := e.sessions.Save(ctx, sess); saveErr != nil {
		e.logger.Warn("session save failed", "session", sessionID, "err", saveErr)
	}
	return res, err
}

// StartSession creates (or resumes) a session for the given user. Use the
// returned session's ID on later Trigger calls.
func (e *Engine) StartSession(ctx context.Context, id string, user domain.User) (*domain.Session, error) {
	return e.sessions.LoadOrStart(ctx, id, user)
}

// Sessions returns the session manager for host-side session control.
func (e *Engine) Sessions() *session.Manager {
	return e.sessions
}

// Actions returns the vocabulary this engine recognizes.
func (e *Engine) Actions() *domain.ActionSet {
	return e.actions
}

// Bindings lists the occupied (action, phase) slots.
func (e *Engine) Bindings() []registry.Binding {
	return e.registry.Bindings()
}

// Pre binds a handler to run before the given action. The handler may veto
// the action by returning literal false, or substitute its input by
// returning any other value.
func (e *Engine) Pre(action domain.Action, fn registry.Handler) error {
	return e.bind(action, domain.PhasePre, fn)
}

// Post binds a handler to run after the given action. The handler's return
// value becomes the final outcome of the trigger.
func (e *Engine) Post(action domain.Action, fn registry.Handler) error {
	return e.bind(action, domain.PhasePost, fn)
}

func (e *Engine) bind(action domain.Action, phase domain.Phase, fn registry.Handler) error {
	if !e.actions.Contains(action) {
		return domain.Newf(domain.KindUnknownAction, "unknown action %q", action)
	}
	return e.registry.Bind(action, phase, fn)
}

// Unbind removes the handler for (action, phase), reporting whether one was
// bound.
func (e *Engine) Unbind(action domain.Action, phase domain.Phase) bool {
	return e.registry.Unbind(action, phase)
}

// RegisterHandler adds a named handler to the catalog so interceptor records
// can reference it.
func (e *Engine) RegisterHandler(ref string, fn registry.Handler) error {
	return e.catalog.Register(ref, fn)
}

// HandlerRefs lists the registered catalog refs in lexical order.
func (e *Engine) HandlerRefs() []string {
	return e.catalog.Refs()
}

// ApplyRecords loads the interceptor records and rebinds the registry from
// them: enabled records apply in lexical name order, bindings within a
// record in lexical binding-name order. Nothing is rebound if any record
// fails to resolve. Bindings made through Pre/Post survive; stale bindings
// from records that disappeared are removed.
func (e *Engine) ApplyRecords(ctx context.Context) error {
	if e.records == nil {
		return domain.New(domain.KindBadRecord, "no record source configured")
	}
	recs, err := e.records.List(ctx)
	if err != nil {
		return fmt.Errorf("list records: %w", err)
	}

	type resolvedBinding struct {
		action domain.Action
		phase  domain.Phase
		ref    string
		fn     registry.Handler
	}
	var binds []resolvedBinding
	enabled := 0
	for _, rec := range recs {
		if !rec.Enabled {
			continue
		}
		enabled++

		names := make([]string, 0, len(rec.Bindings))
		for name := range rec.Bindings {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			ref := rec.Bindings[name]
			action, phase, err := e.actions.ParseBindingName(name)
			if err != nil {
				return domain.Wrap(domain.KindBadRecord,
					fmt.Sprintf("record %s: binding %q", rec.Name, name), err)
			}
			fn, ok := e.catalog.Resolve(ref)
			if !ok {
				return domain.Newf(domain.KindBadRecord,
					"record %s: binding %q references unknown handler %q", rec.Name, name, ref)
			}
			binds = append(binds, resolvedBinding{action: action, phase: phase, ref: ref, fn: fn})
		}
	}

	e.applyMu.Lock()
	defer e.applyMu.Unlock()

	for _, b := range e.registry.Bindings() {
		if b.Ref != "" {
			e.registry.Unbind(b.Action, b.Phase)
		}
	}
	for _, b := range binds {
		if err := e.registry.BindRef(b.action, b.phase, b.ref, b.fn); err != nil {
			return err
		}
	}

	e.logger.Info("records applied", "records", enabled, "bindings", len(binds))
	return nil
}

// Watch returns a channel that signals when the underlying records change.
// Returns an error if the record source does not support watching. Callers
// typically respond to a signal with ApplyRecords.
func (e *Engine) Watch(ctx context.Context) (<-chan struct{}, error) {
	if w, ok := e.records.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, fmt.Errorf("record source does not support watching")
}

// Records returns the underlying record source used by the engine.
func (e *Engine) Records() ports.RecordSource {
	return e.records
}
