package diagnostics

import "github.com/rs/zerolog"

// Level is a diagnostic severity, following syslog's eight levels (§6)
// rather than a truncated ad hoc set, so a host embedding the core can
// map straight onto its own log pipeline's severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelNotice
	LevelWarning
	LevelErr
	LevelAlert
	LevelCrit
	LevelEmerg
)

// String renders the level's syslog name.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelNotice:
		return "notice"
	case LevelWarning:
		return "warning"
	case LevelErr:
		return "err"
	case LevelAlert:
		return "alert"
	case LevelCrit:
		return "crit"
	case LevelEmerg:
		return "emerg"
	default:
		return "unknown"
	}
}

// zerologLevel maps Level onto zerolog's narrower level set (zerolog has
// no notice/alert/emerg distinctions); non-goal §6 excludes pretty
// printing, so collapsing to the nearest zerolog level is sufficient for
// the core's own structured-log emission.
func (l Level) zerologLevel() zerolog.Level {
	switch {
	case l <= LevelDebug:
		return zerolog.DebugLevel
	case l == LevelInfo || l == LevelNotice:
		return zerolog.InfoLevel
	case l == LevelWarning:
		return zerolog.WarnLevel
	case l >= LevelCrit:
		return zerolog.FatalLevel
	default:
		return zerolog.ErrorLevel
	}
}

// Notice is a non-fatal diagnostic message emitted during evaluation
// (e.g. a deprecation warning, a function's "notice()" call) distinct
// from an *Error, which always aborts the enclosing operation.
type Notice struct {
	Level   Level
	Message string
	HasPos  bool
	Position string
}

// Sink receives diagnostics as evaluation proceeds. pkg/eval holds one
// Sink for the lifetime of a compile.
type Sink interface {
	Notice(n Notice)
	Error(err *Error)
}

// ZerologSink is a Sink backed by a zerolog.Logger, mirroring the
// teacher's telemetry.Logger wiring: every diagnostic becomes one
// structured log event rather than formatted text.
type ZerologSink struct {
	log zerolog.Logger
}

// NewZerologSink wraps an existing zerolog.Logger as a Sink.
func NewZerologSink(log zerolog.Logger) *ZerologSink {
	return &ZerologSink{log: log}
}

// Notice logs n at its mapped zerolog level.
func (s *ZerologSink) Notice(n Notice) {
	ev := s.log.WithLevel(n.Level.zerologLevel())
	if n.HasPos {
		ev = ev.Str("position", n.Position)
	}
	ev.Msg(n.Message)
}

// Error logs err as a structured event including its kind and symbol.
func (s *ZerologSink) Error(err *Error) {
	ev := s.log.Error().Str("kind", string(err.Kind))
	if err.HasPos {
		ev = ev.Str("position", err.Position.String())
	}
	if err.Symbol != "" {
		ev = ev.Str("symbol", err.Symbol)
	}
	for k, v := range err.Details {
		ev = ev.Interface(k, v)
	}
	ev.Msg(err.Message)
}
