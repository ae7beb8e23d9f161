package main

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/domain-events-go/example/shared/shell"
	"github.com/AntonStoeckl/domain-events-go/publisher"
	"github.com/AntonStoeckl/domain-events-go/testutil/helper"
)

func executeRootCmd(t *testing.T, args ...string) (string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	require.NoError(t, cmd.ExecuteContext(context.Background()))

	return stdout.String(), stderr.String()
}

func Test_VersionCmd(t *testing.T) {
	stdout, _ := executeRootCmd(t, "version")

	assert.Equal(t, "publisher-demo dev\n", stdout)
}

func Test_RunCmd_PrintsProjection(t *testing.T) {
	for _, concurrent := range []bool{false, true} {
		t.Run(fmt.Sprintf("concurrent=%v", concurrent), func(t *testing.T) {
			path := writeConfig(t, fmt.Sprintf(`
log:
  level: warn
  console: false
dispatch:
  concurrent: %v
scenario:
  book_copies: 4
`, concurrent))

			stdout, stderr := executeRootCmd(t, "run", "--config", path)

			// 4 added + 4 lent + 2 returned + 1 removed
			assert.Contains(t, stdout, "published events: 11\n")
			assert.Contains(t, stdout, "books lent out:   2\n")
			assert.Contains(t, stderr, "lending rejected")
		})
	}
}

func Test_RunCmd_LogLevelFlagOverridesConfig(t *testing.T) {
	_, stderr := executeRootCmd(t, "run", "--log-level", "error")

	assert.NotContains(t, stderr, "lending rejected")
}

func Test_RunCmd_RejectsUnknownLogLevel(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"run", "--log-level", "loud"})

	err := cmd.ExecuteContext(context.Background())

	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func Test_RunScenario_StopsOnCanceledContext(t *testing.T) {
	p, err := publisher.NewPublisher()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	published, err := runScenario(ctx, p, newLogger(&bytes.Buffer{}, 0, false), 3)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, published)
}

func Test_RunScenario_ProjectionMatchesAggregates(t *testing.T) {
	p, err := publisher.NewPublisher()
	require.NoError(t, err)

	projection := shell.NewBooksLentOut()
	spy := helper.NewListenerSpy("all", nil)
	p.Subscribe(projection)
	p.Subscribe(spy)

	published, err := runScenario(context.Background(), p, newLogger(&bytes.Buffer{}, 0, false), 8)

	require.NoError(t, err)
	// 8 added + 8 lent + 4 returned + 2 removed
	assert.Equal(t, 22, published)
	assert.Equal(t, published, spy.CallCount())
	assert.Equal(t, 4, projection.Result().Count)
}
