package errs

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestMessageKinds(t *testing.T) {
	cause := errors.New("i/o timeout")
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"invalid", New(InvalidInput, "port must be numeric"), "⛔ 輸入錯誤: port must be numeric"},
		{"config", New(Configuration, "steam api key is not set"), "⛔ 設定錯誤: steam api key is not set"},
		{"connectivity", Wrap(Connectivity, "a2s info query", cause), "⛔ 連線失敗: a2s info query"},
		{"not found", New(NotFound, "no servers"), "⛔ 查詢返回无结果: no servers"},
		{"rendering", Wrap(Rendering, "screenshot", cause), "⛔ 圖片產生失敗: screenshot"},
		{"unclassified", cause, "⛔ 查詢失敗: internal error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Message(tt.err); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMessageHidesCause(t *testing.T) {
	cause := errors.New("read udp 10.0.0.2:41234->1.2.3.4:27015: i/o timeout")
	err := Wrap(Connectivity, "server info query failed", cause)
	if msg := Message(err); strings.Contains(msg, "udp") || strings.Contains(msg, "timeout") {
		t.Errorf("Message() = %q leaks the cause", msg)
	}
	if !strings.Contains(err.Error(), "i/o timeout") {
		t.Errorf("Error() = %q should keep the cause for logs", err.Error())
	}
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("find: %w", New(NotFound, "nothing"))
	if got := KindOf(err); got != NotFound {
		t.Errorf("KindOf() = %v, want %v", got, NotFound)
	}
	if !strings.HasPrefix(Message(err), "⛔") {
		t.Errorf("Message() missing failure glyph: %q", Message(err))
	}
	if KindOf(errors.New("x")) != Internal {
		t.Error("plain errors should be Internal")
	}
}

func TestUnwrap(t *testing.T) {
	sentinel := errors.New("sentinel")
	err := Wrap(NotFound, "lookup", sentinel)
	if !errors.Is(err, sentinel) {
		t.Error("errors.Is should see the wrapped cause")
	}
}
