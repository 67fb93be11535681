package model

import "fmt"

// ParseError reports a score document that cannot become a Project. The
// previously loaded Project stays in place.
type ParseError struct {
	Source string // file name or "<input>"
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("parse %s: %s", e.Source, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// GeometryError aborts a single render call: a bad key count or a tone the
// key range cannot place.
type GeometryError struct {
	Op     string
	Reason string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// SurfaceError means the drawing surface instance is unusable and must be
// disposed and recreated.
type SurfaceError struct {
	Op  string
	Err error
}

func (e *SurfaceError) Error() string {
	if e.Err == nil {
		return "surface " + e.Op + " failed"
	}
	return fmt.Sprintf("surface %s: %s", e.Op, e.Err.Error())
}

func (e *SurfaceError) Unwrap() error {
	return e.Err
}
