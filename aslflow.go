package aslflow

import (
	"context"
	"database/sql"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/petrijr/aslflow/internal/persistence"
	"github.com/petrijr/aslflow/internal/render"
	"github.com/petrijr/aslflow/pkg/api"
)

// Re-export key types so users don't need to dig into pkg/api.

type (
	State                = api.State
	Kind                 = api.Kind
	Chain                = api.Chain
	Chainable            = api.Chainable
	Condition            = api.Condition
	Retrier              = api.Retrier
	CatchProps           = api.CatchProps
	Document             = api.Document
	ConfigurationError   = api.ConfigurationError
	StoredDefinition     = api.StoredDefinition
	DefinitionStore      = persistence.DefinitionStore
	Observer             = api.Observer
	LoggingObserver      = api.LoggingObserver
	BasicMetrics         = api.BasicMetrics
	BasicMetricsSnapshot = api.BasicMetricsSnapshot
	CompositeObserver    = api.CompositeObserver
	NoopObserver         = api.NoopObserver

	Common        = api.Common
	PassProps     = api.PassProps
	TaskProps     = api.TaskProps
	ChoiceProps   = api.ChoiceProps
	WaitProps     = api.WaitProps
	SucceedProps  = api.SucceedProps
	FailProps     = api.FailProps
	ParallelProps = api.ParallelProps
	MapProps      = api.MapProps
)

// ErrorsAll matches every error in a Retry or Catch clause.
const ErrorsAll = api.ErrorsAll

// Re-export constructors and helpers.

var (
	NewPass     = api.NewPass
	NewTask     = api.NewTask
	NewChoice   = api.NewChoice
	NewWait     = api.NewWait
	NewSucceed  = api.NewSucceed
	NewFail     = api.NewFail
	NewParallel = api.NewParallel
	NewMap      = api.NewMap
	NewCustom   = api.NewCustom
	Start       = api.Start

	NewLoggingObserver   = api.NewLoggingObserver
	NewCompositeObserver = api.NewCompositeObserver
	IsConfigurationError = api.IsConfigurationError
	FingerprintOf        = api.FingerprintOf

	ErrDefinitionNotFound = persistence.ErrDefinitionNotFound
	ErrRevisionExists     = persistence.ErrRevisionExists
)

// Re-export the rules reported by ConfigurationError.

var (
	ErrMutuallyExclusive  = api.ErrMutuallyExclusive
	ErrEmptyChoice        = api.ErrEmptyChoice
	ErrTerminatedChain    = api.ErrTerminatedChain
	ErrNoBranches         = api.ErrNoBranches
	ErrDanglingReference  = api.ErrDanglingReference
	ErrDuplicateName      = api.ErrDuplicateName
	ErrAmbiguousStart     = api.ErrAmbiguousStart
	ErrNoTerminalPath     = api.ErrNoTerminalPath
	ErrCrossScope         = api.ErrCrossScope
	ErrTransitionConflict = api.ErrTransitionConflict
	ErrNotSingleState     = api.ErrNotSingleState
	ErrInvalidWait        = api.ErrInvalidWait
	ErrMissingResource    = api.ErrMissingResource
	ErrInvalidErrorEquals = api.ErrInvalidErrorEquals
	ErrInvalidCondition   = api.ErrInvalidCondition
	ErrInvalidCustomState = api.ErrInvalidCustomState
	ErrUnsupported        = api.ErrUnsupported
	ErrNilState           = api.ErrNilState
	ErrInvalidName        = api.ErrInvalidName
)

// RenderOption configures Render and RenderDocument.
type RenderOption func(*render.Options)

// WithWorkflowName names the graph in observer callbacks.
func WithWorkflowName(name string) RenderOption {
	return func(o *render.Options) { o.Workflow = name }
}

// WithComment sets the top-level "Comment".
func WithComment(comment string) RenderOption {
	return func(o *render.Options) { o.Comment = comment }
}

// WithTimeoutSeconds sets the top-level "TimeoutSeconds".
func WithTimeoutSeconds(seconds int) RenderOption {
	return func(o *render.Options) { o.TimeoutSeconds = seconds }
}

// WithVersion sets the top-level "Version".
func WithVersion(version string) RenderOption {
	return func(o *render.Options) { o.Version = version }
}

// WithObserver reports render events to obs.
func WithObserver(obs Observer) RenderOption {
	return func(o *render.Options) { o.Observer = obs }
}

// WithContext passes ctx to observer callbacks. Rendering itself never
// blocks and is not cancelled by ctx.
func WithContext(ctx context.Context) RenderOption {
	return func(o *render.Options) { o.Context = ctx }
}

// RenderDocument walks the graph entered at head, validates it and
// returns the rendered document.
func RenderDocument(head Chainable, opts ...RenderOption) (*Document, error) {
	var o render.Options
	for _, opt := range opts {
		opt(&o)
	}
	return render.Render(head, o)
}

// Render is like RenderDocument but returns the compact JSON encoding.
// Rendering an unchanged graph twice yields byte-identical output.
func Render(head Chainable, opts ...RenderOption) (string, error) {
	doc, err := RenderDocument(head, opts...)
	if err != nil {
		return "", err
	}
	return doc.JSON()
}

// MustRender is like Render but panics on error.
// Useful for initialization in main().
func MustRender(head Chainable, opts ...RenderOption) string {
	out, err := Render(head, opts...)
	if err != nil {
		panic(err)
	}
	return out
}

// Store constructors
// These wrap the internal/persistence package so external callers
// never need to import internal packages.

// NewInMemoryStore returns a non-durable DefinitionStore.
func NewInMemoryStore() DefinitionStore {
	return persistence.NewInMemoryStore()
}

// NewSQLiteStore returns a DefinitionStore persisted in SQLite. The caller
// imports the driver, e.g. _ "modernc.org/sqlite".
func NewSQLiteStore(db *sql.DB) (DefinitionStore, error) {
	return persistence.NewSQLiteDefinitionStore(db)
}

// NewPostgresStore returns a DefinitionStore persisted in PostgreSQL. The
// caller opens db with the pgx driver (_ "github.com/jackc/pgx/v5/stdlib").
func NewPostgresStore(db *sql.DB) (DefinitionStore, error) {
	return persistence.NewPostgresDefinitionStore(db)
}

// NewRedisStore returns a DefinitionStore persisted in Redis under prefix.
func NewRedisStore(client *redis.Client, prefix string) DefinitionStore {
	return persistence.NewRedisDefinitionStore(client, prefix)
}

// NewMongoStore returns a DefinitionStore persisted in a MongoDB collection.
func NewMongoStore(ctx context.Context, client *mongo.Client, dbName, collName string) (DefinitionStore, error) {
	return persistence.NewMongoDefinitionStore(ctx, client, dbName, collName)
}
