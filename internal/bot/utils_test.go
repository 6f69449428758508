package bot

import (
	"errors"
	"testing"
)

func TestIsNotModified(t *testing.T) {
	if !isNotModified(errors.New("Bad Request: message is not modified")) {
		t.Fatalf("telegram no-op edit response must be recognized")
	}
	if isNotModified(errors.New("Bad Request: chat not found")) {
		t.Fatalf("other transport errors must not be swallowed")
	}
	if isNotModified(nil) {
		t.Fatalf("nil error is not a no-op response")
	}
}
