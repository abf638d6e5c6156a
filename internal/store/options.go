package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// LogLevel selects a category of client log events.
type LogLevel string

const (
	LogQuery LogLevel = "query"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// EmitMode routes log events to the slog logger or to handlers registered
// with Client.On.
type EmitMode string

const (
	EmitStdout EmitMode = "stdout"
	EmitEvent  EmitMode = "event"
)

// LogDefinition enables one log level.
type LogDefinition struct {
	Level LogLevel `yaml:"level"`
	Emit  EmitMode `yaml:"emit"`
}

// IsolationLevel of an interactive transaction.
type IsolationLevel string

const (
	ReadUncommitted IsolationLevel = "ReadUncommitted"
	ReadCommitted   IsolationLevel = "ReadCommitted"
	RepeatableRead  IsolationLevel = "RepeatableRead"
	Snapshot        IsolationLevel = "Snapshot"
	Serializable    IsolationLevel = "Serializable"
)

func (l IsolationLevel) sqlLevel() (sql.IsolationLevel, bool) {
	switch l {
	case "":
		return sql.LevelDefault, true
	case ReadUncommitted:
		return sql.LevelReadUncommitted, true
	case ReadCommitted:
		return sql.LevelReadCommitted, true
	case RepeatableRead:
		return sql.LevelRepeatableRead, true
	case Snapshot:
		return sql.LevelSnapshot, true
	case Serializable:
		return sql.LevelSerializable, true
	}
	return 0, false
}

// TransactionOptions configures an interactive transaction.
type TransactionOptions struct {
	// MaxWait bounds how long beginning the transaction may take.
	MaxWait time.Duration `yaml:"maxWait"`
	// Timeout bounds the whole transaction, commit included.
	Timeout        time.Duration  `yaml:"timeout"`
	IsolationLevel IsolationLevel `yaml:"isolationLevel"`
}

const (
	defaultMaxWait = 2 * time.Second
	defaultTimeout = 5 * time.Second
)

func (o TransactionOptions) merge(with TransactionOptions) TransactionOptions {
	if with.MaxWait != 0 {
		o.MaxWait = with.MaxWait
	}
	if with.Timeout != 0 {
		o.Timeout = with.Timeout
	}
	if with.IsolationLevel != "" {
		o.IsolationLevel = with.IsolationLevel
	}
	return o
}

// GlobalOmit lists fields left out of every query result per model unless a
// query selects them explicitly.
type GlobalOmit struct {
	Project        []ProjectScalarField
	Conversation   []ConversationScalarField
	Message        []MessageScalarField
	APIKey         []APIKeyScalarField
	VoiceConfig    []VoiceConfigScalarField
	ClaudeConfig   []ClaudeConfigScalarField
	Settings       []SettingsScalarField
	ProjectContext []ProjectContextScalarField
	Todo           []TodoScalarField
}

// ParseGlobalOmit builds a GlobalOmit from model and field names, as found
// in configuration files.
func ParseGlobalOmit(byModel map[string][]string) (GlobalOmit, error) {
	var g GlobalOmit
	for model, fields := range byModel {
		meta, ok := metaByName[model]
		if !ok {
			return GlobalOmit{}, &ValidationError{Message: fmt.Sprintf("Unknown model `%s` in omit configuration.", model)}
		}
		for _, f := range fields {
			if _, ok := meta.field(f); !ok {
				return GlobalOmit{}, meta.unknownField(f)
			}
		}
		switch model {
		case projectMeta.name:
			g.Project = scalarFields[ProjectScalarField](fields)
		case conversationMeta.name:
			g.Conversation = scalarFields[ConversationScalarField](fields)
		case messageMeta.name:
			g.Message = scalarFields[MessageScalarField](fields)
		case apiKeyMeta.name:
			g.APIKey = scalarFields[APIKeyScalarField](fields)
		case voiceConfigMeta.name:
			g.VoiceConfig = scalarFields[VoiceConfigScalarField](fields)
		case claudeConfigMeta.name:
			g.ClaudeConfig = scalarFields[ClaudeConfigScalarField](fields)
		case settingsMeta.name:
			g.Settings = scalarFields[SettingsScalarField](fields)
		case projectContextMeta.name:
			g.ProjectContext = scalarFields[ProjectContextScalarField](fields)
		case todoMeta.name:
			g.Todo = scalarFields[TodoScalarField](fields)
		}
	}
	return g, nil
}

func scalarFields[F ~string](names []string) []F {
	out := make([]F, len(names))
	for i, n := range names {
		out[i] = F(n)
	}
	return out
}

func (g GlobalOmit) byModel() (map[string][]string, error) {
	out := map[string][]string{}
	add := func(meta *modelMeta, fields []string, err error) error {
		if err != nil {
			return err
		}
		if len(fields) > 0 {
			out[meta.name] = fields
		}
		return nil
	}
	for _, err := range []error{
		add(unwrapFields(projectMeta, g.Project)),
		add(unwrapFields(conversationMeta, g.Conversation)),
		add(unwrapFields(messageMeta, g.Message)),
		add(unwrapFields(apiKeyMeta, g.APIKey)),
		add(unwrapFields(voiceConfigMeta, g.VoiceConfig)),
		add(unwrapFields(claudeConfigMeta, g.ClaudeConfig)),
		add(unwrapFields(settingsMeta, g.Settings)),
		add(unwrapFields(projectContextMeta, g.ProjectContext)),
		add(unwrapFields(todoMeta, g.Todo)),
	} {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func unwrapFields[F ~string](meta *modelMeta, fields []F) (*modelMeta, []string, error) {
	names, err := checkFields(meta, fields)
	return meta, names, err
}

// ClientOptions configures New.
type ClientOptions struct {
	// DatasourceURL selects the database: file:<path> for SQLite,
	// postgres:// or postgresql:// for Postgres and mysql:// for MySQL.
	DatasourceURL string
	Log           []LogDefinition
	Transaction   TransactionOptions
	Omit          GlobalOmit
	// Logger receives stdout log events. Defaults to slog.Default().
	Logger *slog.Logger
}

func (o ClientOptions) validate() error {
	for _, d := range o.Log {
		switch d.Level {
		case LogQuery, LogInfo, LogWarn, LogError:
		default:
			return invalidOptions("invalid log level %q", d.Level)
		}
		switch d.Emit {
		case "", EmitStdout, EmitEvent:
		default:
			return invalidOptions("invalid log emit %q", d.Emit)
		}
	}
	if o.Transaction.MaxWait < 0 || o.Transaction.Timeout < 0 {
		return invalidOptions("transaction durations must not be negative")
	}
	if _, ok := o.Transaction.IsolationLevel.sqlLevel(); !ok {
		return invalidOptions("invalid isolation level %q", o.Transaction.IsolationLevel)
	}
	return nil
}

func invalidOptions(format string, args ...any) *InitializationError {
	return &InitializationError{ErrorCode: CodeInvalidOptions, Message: fmt.Sprintf(format, args...)}
}
