package errors

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/getsentry/sentry-go"
	pkgerrors "github.com/pkg/errors"

	"github.com/hostwire/hostwire/pkg/config"
	"github.com/hostwire/hostwire/pkg/featureflag"
)

type ErrorReporter interface {
	Setup() func()
	Flush()
	ReportMessage(string) string
	ReportError(error) string
	AddTag(key string, value string)
}

func GetDefaultErrorReporter() ErrorReporter {
	return SentryErrorReporter{}
}

type SentryErrorReporter struct{}

var _ ErrorReporter = SentryErrorReporter{}

func (s SentryErrorReporter) Setup() func() {
	if !featureflag.IsDev() {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:     config.GlobalConfig.GetSentryURL(),
			Release: config.Version,
		})
		if err != nil {
			fmt.Println(err)
		}
	}
	return func() {
		err := recover()
		if err != nil {
			sentry.CurrentHub().Recover(err)
			sentry.Flush(time.Second * 5)
			panic(err)
		}
		sentry.Flush(2 * time.Second)
	}
}

func (s SentryErrorReporter) Flush() {
	sentry.Flush(time.Second * 2)
}

func (s SentryErrorReporter) ReportMessage(msg string) string {
	event := sentry.CaptureMessage(msg)
	if event != nil {
		return string(*event)
	}
	return ""
}

func (s SentryErrorReporter) ReportError(e error) string {
	event := sentry.CaptureException(e)
	if event != nil {
		return string(*event)
	}
	return ""
}

func (s SentryErrorReporter) AddTag(key string, value string) {
	scope := sentry.CurrentHub().Scope()
	scope.SetTag(key, value)
}

// InvalidRequestError covers missing required fields and references to
// aliases that are not present in the registry.
type InvalidRequestError struct {
	Message string
}

func NewInvalidRequestError(message string) *InvalidRequestError {
	return &InvalidRequestError{Message: message}
}

func (e *InvalidRequestError) Error() string {
	return e.Message
}

// MethodNotFoundError is returned for unrecognized protocol methods and
// unknown tool names.
type MethodNotFoundError struct {
	Method string
}

func (e *MethodNotFoundError) Error() string {
	return fmt.Sprintf("method not found: %s", e.Method)
}

// ExecutionFailedError covers subprocess spawn failures and nonzero-exit
// file transfers. A nonzero exit from a remote command is NOT one of these.
type ExecutionFailedError struct {
	Message string
	Err     error
}

func (e *ExecutionFailedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExecutionFailedError) Unwrap() error { return e.Err }

// TimeoutError reports a command or script that exceeded its deadline and
// was forcibly terminated.
type TimeoutError struct {
	Seconds int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("command timed out after %d seconds", e.Seconds)
}

func WrapAndTrace(err error, messages ...string) error {
	message := ""
	for _, m := range messages {
		message += fmt.Sprintf(" %s", m)
	}
	return pkgerrors.Wrap(err, MakeErrorMessage(message))
}

func MakeErrorMessage(message string) string {
	_, fn, line, _ := runtime.Caller(2)
	return fmt.Sprintf("[error] %s:%d %s\n\t", fn, line, message)
}

func New(message string) error {
	return pkgerrors.New(message)
}

func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...) //nolint:err113 // wrapped at call sites
}

func Wrap(err error, message string) error {
	return pkgerrors.Wrap(err, message)
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

func Unwrap(err error) error {
	return errors.Unwrap(err)
}
