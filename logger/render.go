package logger

import (
	"errors"
	"fmt"

	"github.com/code19m/errx"
	jsoniter "github.com/json-iterator/go"
)

const (
	// CodeSerializationFailed marks a data payload that could not be rendered as JSON.
	CodeSerializationFailed = "SERIALIZATION_FAILED"

	// UnserializablePlaceholder replaces a payload that could not be rendered.
	UnserializablePlaceholder = "[unserializable data]"
)

//nolint:gochecknoglobals // frozen config, safe for concurrent use
var payloadJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// renderData marshals data into a JSON string. Any failure, including a panic
// raised by a custom marshaller, is returned as an error instead of propagating.
func renderData(data any) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = serializationError(fmt.Errorf("panic while rendering: %v", r))
		}
	}()

	out, err = payloadJSON.MarshalToString(data)
	if err != nil {
		return "", serializationError(err)
	}
	return out, nil
}

func serializationError(cause error) error {
	return errx.Wrap(cause,
		errx.WithCode(CodeSerializationFailed),
		errx.WithDetails(errx.D{"cause": cause.Error()}),
	)
}

const plainErrorKind = "error"

// errorKind names err for the error segment: the errx code when present,
// otherwise "error".
func errorKind(err error) string {
	var e errx.ErrorX
	if errors.As(err, &e) && e.Code() != "" {
		return e.Code()
	}
	return plainErrorKind
}

// errorTrace returns the trace recorded by errx, empty for plain errors.
func errorTrace(err error) string {
	var e errx.ErrorX
	if errors.As(err, &e) {
		return e.Trace()
	}
	return ""
}
