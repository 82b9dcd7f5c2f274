package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for the user-facing message.
type Kind int

const (
	Internal Kind = iota
	InvalidInput
	Configuration
	Connectivity
	NotFound
	Rendering
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "invalid_input"
	case Configuration:
		return "configuration"
	case Connectivity:
		return "connectivity"
	case NotFound:
		return "not_found"
	case Rendering:
		return "rendering"
	default:
		return "internal"
	}
}

// Error is a classified failure. Msg is safe to show to chat users; Err is
// the underlying cause and only ends up in logs.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	if e.Msg == "" {
		return e.Err.Error()
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

func Wrap(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the outermost classified error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Message maps err to the single line shown to the user.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if !errors.As(err, &e) {
		return "⛔ 查詢失敗: internal error"
	}
	detail := e.Msg
	switch e.Kind {
	case InvalidInput:
		return "⛔ 輸入錯誤: " + detail
	case Configuration:
		return "⛔ 設定錯誤: " + detail
	case Connectivity:
		return "⛔ 連線失敗: " + detail
	case NotFound:
		return "⛔ 查詢返回无结果: " + detail
	case Rendering:
		return "⛔ 圖片產生失敗: " + detail
	default:
		return "⛔ 查詢失敗: internal error"
	}
}
