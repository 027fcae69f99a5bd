package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConsoleReporterSuppressesSkipsByDefault(t *testing.T) {
	var buf bytes.Buffer
	c := &ConsoleReporter{Out: &buf}
	r := c.Reporter()

	r(Action{Kind: SkipFile, Path: "x"})
	require.Empty(t, buf.String())

	r(Action{Kind: CreateFile, Path: "y"})
	require.Contains(t, buf.String(), "y")
}

func TestConsoleReporterVerboseShowsSkips(t *testing.T) {
	var buf bytes.Buffer
	c := &ConsoleReporter{Out: &buf, Verbose: true}
	r := c.Reporter()

	r(Action{Kind: SkipFile, Path: "x", Reason: "identical"})
	require.Contains(t, buf.String(), "x")
	require.Contains(t, buf.String(), "identical")
}

func TestConsoleReporterSummary(t *testing.T) {
	var buf bytes.Buffer
	c := &ConsoleReporter{Out: &buf}
	c.Reporter()(Action{Kind: CreateFile, Path: "a"})
	c.Summary(1024, 512)
	require.Contains(t, buf.String(), "1")
}
