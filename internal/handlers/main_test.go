// internal/handlers/main_test.go
package handlers_test

import (
	"io"
	"log/slog"
	"os"
	"testing"
)

// テスト中のログ出力を抑制する
func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	os.Exit(m.Run())
}
