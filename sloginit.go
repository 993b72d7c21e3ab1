package sloginit

import (
	"fmt"
	"log/slog"
)

// JournalLiteral is the reserved output value naming the system journal.
// Every other non-empty output string is a file path.
const JournalLiteral = "journal"

type outputKind int

const (
	outputStderr outputKind = iota
	outputFile
	outputJournal
)

// Output names one requested log destination. The zero value is Stderr.
type Output struct {
	kind outputKind
	path string
}

var (
	// Stderr requests the standard error sink.
	Stderr = Output{kind: outputStderr}
	// Journal requests the system journal sink.
	Journal = Output{kind: outputJournal}
)

// File requests an append-only file sink at path.
func File(path string) Output {
	return Output{kind: outputFile, path: path}
}

// ParseOutput maps a configuration string to an Output: empty means standard
// error, the reserved literal "journal" means the system journal, anything
// else is a file path.
func ParseOutput(s string) Output {
	switch s {
	case "":
		return Stderr
	case JournalLiteral:
		return Journal
	default:
		return File(s)
	}
}

func (o Output) String() string {
	switch o.kind {
	case outputJournal:
		return JournalLiteral
	case outputFile:
		return o.path
	default:
		return "stderr"
	}
}

// Compose translates the requested outputs and a default filter directive
// into an uninstalled backend. The filter comes from GO_LOG when set, else
// filterDefault.
//
// At most two outputs are accepted:
//
//	none               stderr only
//	[Stderr]           stderr only
//	[Journal]          journal only; the journal replaces stderr here
//	[File(p)]          file only; a single file output redirects stderr
//	[Stderr, Journal]  both; the journal sink carries no filter
//	[Stderr, File(p)]  both
//
// Any other two-output shape is a configuration error.
func Compose(outputs []Output, filterDefault string) (*Backend, error) {
	opts, err := outputOptions(outputs)
	if err != nil {
		return nil, err
	}
	return NewBackend(append(opts, WithFilterOr(filterDefault))...)
}

func outputOptions(outputs []Output) ([]Option, error) {
	switch len(outputs) {
	case 0:
		return []Option{WithStderr()}, nil
	case 1:
		switch outputs[0].kind {
		case outputStderr:
			return []Option{WithStderr()}, nil
		case outputJournal:
			return []Option{WithJournalSink()}, nil
		default:
			return []Option{WithFileSink(outputs[0].path)}, nil
		}
	case 2:
		if outputs[0].kind != outputStderr {
			return nil, newError(ErrCodeInvalidOutputs,
				fmt.Sprintf("two outputs must have the shape (stderr, other), got (%s, %s)", outputs[0], outputs[1]), nil)
		}
		switch outputs[1].kind {
		case outputJournal:
			return []Option{WithStderr(), WithJournalSink()}, nil
		case outputFile:
			return []Option{WithStderr(), WithFileSink(outputs[1].path)}, nil
		default:
			return nil, newError(ErrCodeInvalidOutputs, "second output must name a file or the journal", nil)
		}
	default:
		return nil, newError(ErrCodeInvalidOutputs,
			fmt.Sprintf("at most two outputs are supported, got %d", len(outputs)), nil)
	}
}

// Init composes the outputs with the resolved filter and installs the
// result as the process-wide default logger.
func Init(outputs []Output, filterDefault string) error {
	b, err := Compose(outputs, filterDefault)
	if err != nil {
		return err
	}
	return b.Install()
}

// MustInit is Init for programs that treat logging as a hard prerequisite
// for everything else: any composition or installation failure panics.
func MustInit(outputs []Output, filterDefault string) {
	if err := Init(outputs, filterDefault); err != nil {
		panic(err)
	}
}

// Logger returns the default logger tagged with a module name. The module
// is the target matched by filter directives.
func Logger(module string) *slog.Logger {
	return slog.Default().With(ModuleKey, module)
}
