package memory

import (
	"testing"

	"github.com/newsdesk/newsroom/internal/docstore/docstoretest"
)

func TestStore(t *testing.T) {
	docstoretest.Run(t, NewStore())
}
