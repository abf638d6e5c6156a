package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// Client is the typed database client. Each model is reached through its
// delegate field. A Client is safe for concurrent use.
type Client struct {
	engine *engine
	db     *gorm.DB
	tx     *txState

	Project        ProjectDelegate
	Conversation   ConversationDelegate
	Message        MessageDelegate
	APIKey         APIKeyDelegate
	VoiceConfig    VoiceConfigDelegate
	ClaudeConfig   ClaudeConfigDelegate
	Settings       SettingsDelegate
	ProjectContext ProjectContextDelegate
	Todo           TodoDelegate
}

// engine is the state shared by a client and its transaction clients.
type engine struct {
	sqlDB    *sql.DB
	provider Provider
	options  ClientOptions
	omit     map[string][]string
	events   *eventLogger
	group    singleflight.Group
	crashed  atomic.Pointer[PanicError]
}

func newClient(e *engine, db *gorm.DB, tx *txState) *Client {
	c := &Client{engine: e, db: db, tx: tx}
	c.Project = newProjectDelegate(c)
	c.Conversation = newConversationDelegate(c)
	c.Message = newMessageDelegate(c)
	c.APIKey = newAPIKeyDelegate(c)
	c.VoiceConfig = newVoiceConfigDelegate(c)
	c.ClaudeConfig = newClaudeConfigDelegate(c)
	c.Settings = newSettingsDelegate(c)
	c.ProjectContext = newProjectContextDelegate(c)
	c.Todo = newTodoDelegate(c)
	return c
}

// New opens a client for opts.DatasourceURL. The database is not contacted
// until the first query or an explicit Connect.
func New(opts ClientOptions) (*Client, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	ds, err := parseDatasource(opts.DatasourceURL)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(ds.driver, ds.dsn)
	if err != nil {
		return nil, &InitializationError{ErrorCode: CodeInvalidDatasource, Message: "failed to open database", err: err}
	}
	if ds.provider == ProviderSQLite {
		db.SetMaxOpenConns(1)
	}
	c, err := NewFromDB(ds.provider, db, opts)
	if err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

// NewFromDB builds a client over an already opened database handle.
// opts.DatasourceURL is ignored.
func NewFromDB(provider Provider, db *sql.DB, opts ClientOptions) (*Client, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	omit, err := opts.Omit.byModel()
	if err != nil {
		return nil, invalidOptions("invalid omit option: %v", err)
	}
	d, err := dialector(provider, db)
	if err != nil {
		return nil, err
	}
	events := newEventLogger(opts.Log, opts.Logger)
	gdb, err := gorm.Open(d, &gorm.Config{
		Logger:                 events,
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
		NowFunc:                func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, &InitializationError{ErrorCode: CodeUnreachable, Message: "failed to initialize database", err: err}
	}
	opts.Transaction = TransactionOptions{MaxWait: defaultMaxWait, Timeout: defaultTimeout}.merge(opts.Transaction)
	e := &engine{
		sqlDB:    db,
		provider: provider,
		options:  opts,
		omit:     omit,
		events:   events,
	}
	return newClient(e, gdb, nil), nil
}

// Provider returns the database provider of the client.
func (c *Client) Provider() Provider { return c.engine.provider }

// Connect verifies the database is reachable.
func (c *Client) Connect(ctx context.Context) error {
	if err := c.engine.sqlDB.PingContext(ctx); err != nil {
		return &InitializationError{ErrorCode: CodeUnreachable, Message: "Can't reach database server", err: err}
	}
	return nil
}

// Disconnect closes every pooled connection.
func (c *Client) Disconnect() error {
	return c.engine.sqlDB.Close()
}

// PushSchema creates missing tables, columns, indexes and foreign keys.
func (c *Client) PushSchema(ctx context.Context) error {
	err := c.db.WithContext(ctx).AutoMigrate(schemaModels()...)
	if err != nil {
		return fmt.Errorf("push schema: %w", c.translate("", "pushSchema", err))
	}
	return nil
}

// On registers fn for events of level. Only levels configured with
// EmitEvent are delivered.
func (c *Client) On(level LogLevel, fn func(LogEvent)) {
	c.engine.events.on(level, fn)
}

// run executes fn with the client session, translating errors and
// recovering panics. A recovered panic marks the client as crashed.
func (c *Client) run(ctx context.Context, model, op string, fn func(db *gorm.DB) error) (err error) {
	if p := c.engine.crashed.Load(); p != nil {
		return p
	}
	if c.tx != nil && c.tx.expired.Load() {
		return c.tx.expiredError(nil)
	}
	defer func() {
		if r := recover(); r != nil {
			p := &PanicError{Message: fmt.Sprint(r), Model: model, Operation: op}
			c.engine.crashed.CompareAndSwap(nil, p)
			err = p
		}
		if err != nil {
			err = c.translate(model, op, err)
			if c.engine.events.enabled(LogError) {
				target := op
				if model != "" {
					target = model + "." + op
				}
				c.engine.events.publish(LogEvent{Level: LogError, Message: err.Error(), Target: target})
			}
		}
	}()
	return fn(c.db.WithContext(ctx))
}

// atomic runs fn inside the current transaction, or a new one when the
// client is not transactional.
func (c *Client) atomic(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if c.tx != nil {
		return fn(db)
	}
	return db.Transaction(fn)
}

func (c *Client) now() time.Time { return time.Now().UTC() }

type txState struct {
	expired atomic.Bool
	started time.Time
	timeout time.Duration
}

func (t *txState) expiredError(err error) *KnownRequestError {
	return &KnownRequestError{
		Code: CodeTransaction,
		Message: fmt.Sprintf("Transaction API error: Transaction already closed: A query cannot be executed on an expired transaction. "+
			"The timeout for this transaction was %d ms, however %d ms passed since the start of the transaction.",
			t.timeout.Milliseconds(), time.Since(t.started).Milliseconds()),
		err: err,
	}
}

// Transaction runs fn inside an interactive transaction. fn receives a
// client bound to the transaction. The transaction commits when fn returns
// nil and rolls back otherwise. Beginning must complete within MaxWait and
// the whole transaction within Timeout.
func (c *Client) Transaction(ctx context.Context, fn func(tx *Client) error, opts ...TransactionOptions) error {
	if c.tx != nil {
		return &ValidationError{Message: "Nested transactions are not supported."}
	}
	if p := c.engine.crashed.Load(); p != nil {
		return p
	}
	o := c.engine.options.Transaction
	for _, opt := range opts {
		o = o.merge(opt)
	}
	level, ok := o.IsolationLevel.sqlLevel()
	if !ok {
		return &ValidationError{Message: fmt.Sprintf("Invalid isolation level %q.", o.IsolationLevel)}
	}
	if c.engine.provider == ProviderSQLite {
		if o.IsolationLevel != "" && o.IsolationLevel != Serializable {
			return &ValidationError{Message: fmt.Sprintf("Isolation level %s is not supported by sqlite, only Serializable is.", o.IsolationLevel)}
		}
		level = sql.LevelDefault
	}

	txCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	state := &txState{timeout: o.Timeout}
	var waited atomic.Bool
	wait := time.AfterFunc(o.MaxWait, func() {
		waited.Store(true)
		cancel()
	})
	gtx := c.db.WithContext(txCtx).Begin(&sql.TxOptions{Isolation: level})
	if gtx.Error != nil {
		wait.Stop()
		if waited.Load() {
			return poolTimeout(o.MaxWait, gtx.Error)
		}
		return c.translate("", "transaction", gtx.Error)
	}
	if !wait.Stop() {
		gtx.Rollback()
		return poolTimeout(o.MaxWait, context.Canceled)
	}

	state.started = time.Now()
	timer := time.AfterFunc(o.Timeout, func() {
		state.expired.Store(true)
		cancel()
	})
	defer timer.Stop()

	committed := false
	defer func() {
		if !committed {
			gtx.Rollback()
		}
	}()
	if err := fn(newClient(c.engine, gtx, state)); err != nil {
		var known *KnownRequestError
		if state.expired.Load() && !errors.As(err, &known) {
			return state.expiredError(err)
		}
		return err
	}
	if state.expired.Load() {
		return state.expiredError(nil)
	}
	if err := gtx.Commit().Error; err != nil {
		if state.expired.Load() {
			return state.expiredError(err)
		}
		return c.translate("", "commit", err)
	}
	committed = true
	return nil
}

func poolTimeout(wait time.Duration, err error) *KnownRequestError {
	return &KnownRequestError{
		Code:    CodePoolTimeout,
		Message: fmt.Sprintf("Timed out fetching a new connection from the connection pool. (timeout: %d ms)", wait.Milliseconds()),
		err:     err,
	}
}
