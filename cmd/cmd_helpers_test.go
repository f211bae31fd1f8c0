package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"

	"github.com/mouse-blink/f2fguard/internal/domain"
	domainmocks "github.com/mouse-blink/f2fguard/internal/domain/mocks"
)

// newTestRoot builds a fresh command tree wired to a mock workflow.
func newTestRoot(t *testing.T) (*cobra.Command, *domainmocks.MockWorkflow, *bytes.Buffer) {
	t.Helper()

	mockWorkflow := domainmocks.NewMockWorkflow(t)

	originalWorkflow := workflow
	originalSettings := settings
	workflow = mockWorkflow

	t.Cleanup(func() {
		workflow = originalWorkflow
		settings = originalSettings
	})

	var out bytes.Buffer

	cmd := newRootCmd()
	cmd.AddCommand(newCheckCmd(), newListCmd(), newFuncCmd(), newViewCmd())
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	return cmd, mockWorkflow, &out
}

var _ domain.Workflow = (*domainmocks.MockWorkflow)(nil)
