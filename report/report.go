// Package report turns errors into messages a user can act on and forwards
// unexpected ones to Sentry when a DSN is configured.
package report

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/getsentry/sentry-go"

	"github.com/jsphweid/ustxroll/logger"
	"github.com/jsphweid/ustxroll/model"
)

// Init starts the Sentry client. With an empty dsn reporting stays off and
// the returned flush does nothing.
func Init(dsn string) (flush func(), err error) {
	if dsn == "" {
		return func() {}, nil
	}
	err = sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		AttachStacktrace: true,
	})
	if err != nil {
		return func() {}, fmt.Errorf("sentry init: %w", err)
	}
	logger.L().Info("error reporting enabled")
	return func() { sentry.Flush(2 * time.Second) }, nil
}

// Describe wraps err with a message for the user and a kind that hosts map
// to a status. what names the operation that failed.
func Describe(err error, what string) error {
	if err == nil {
		return nil
	}

	var (
		pe *model.ParseError
		ge *model.GeometryError
		se *model.SurfaceError
	)
	switch {
	case errors.As(err, &pe):
		return fault.Wrap(err,
			ftag.With(ftag.InvalidArgument),
			fmsg.WithDesc(what, fmt.Sprintf("The score could not be read: %s.", pe.Reason)))
	case errors.As(err, &ge):
		return fault.Wrap(err,
			ftag.With(ftag.InvalidArgument),
			fmsg.WithDesc(what, fmt.Sprintf("The score cannot be drawn: %s.", ge.Reason)))
	case errors.As(err, &se):
		return fault.Wrap(err,
			ftag.With(ftag.Internal),
			fmsg.WithDesc(what, "Drawing failed."))
	case errors.Is(err, fs.ErrNotExist):
		return fault.Wrap(err,
			ftag.With(ftag.NotFound),
			fmsg.WithDesc(what, "The file does not exist."))
	}
	return fault.Wrap(err, fmsg.With(what))
}

// Invalid marks err as caused by bad input, such as a malformed request.
func Invalid(err error, what string) error {
	return fault.Wrap(err,
		ftag.With(ftag.InvalidArgument),
		fmsg.WithDesc(what, fmt.Sprintf("Invalid request: %s.", what)))
}

// Message is the user-facing text for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if issue := fmsg.GetIssue(err); issue != "" {
		return issue
	}
	chain := fault.Flatten(err)
	if len(chain) > 0 && chain[0].Message != "" {
		return chain[0].Message
	}
	return err.Error()
}

// Status maps the kind attached by Describe to an HTTP status.
func Status(err error) int {
	switch ftag.Get(err) {
	case ftag.InvalidArgument:
		return http.StatusBadRequest
	case ftag.NotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// Error logs err and sends it to Sentry. Errors caused by the input are only
// logged.
func Error(err error) {
	if err == nil {
		return
	}
	if Status(err) < http.StatusInternalServerError {
		logger.L().Warn("request failed", "err", err)
		return
	}
	logger.L().Error("unexpected error", "err", err)
	if sentry.CurrentHub().Client() != nil {
		sentry.CaptureException(err)
	}
}
