package proxy

import (
	"os"
	"testing"

	"github.com/mesh-intelligence/rodlayout/internal/logging"
)

func TestMain(m *testing.M) {
	logging.ConfigureTests()
	os.Exit(m.Run())
}
