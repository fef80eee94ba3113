// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/statement-runner/pkg/types"
)

// mockExecutor records the last invocation and returns a configured result.
type mockExecutor struct {
	stdout string
	stderr string
	err    error

	gotName string
	gotArgs []string
}

func (m *mockExecutor) Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error {
	m.gotName = name
	m.gotArgs = args
	_, _ = io.WriteString(stdout, m.stdout)
	_, _ = io.WriteString(stderr, m.stderr)
	return m.err
}

func testConfig() types.ConverterConfig {
	return types.ConverterConfig{
		Command:   "python",
		Args:      []string{"pdf_to_excel.py"},
		OutputExt: ".xlsx",
	}
}

func TestProcessConverter_Arguments(t *testing.T) {
	ex := &mockExecutor{stdout: "ok\n"}
	pc := newProcessConverter(testConfig(), ex)

	_, err := pc.Convert(context.Background(), "Test/Bank Statement/july.pdf")
	require.NoError(t, err)

	assert.Equal(t, "python", ex.gotName)
	assert.Equal(t, []string{"pdf_to_excel.py", "Test/Bank Statement/july.pdf"}, ex.gotArgs)
	assert.Equal(t, "python", pc.Command())
}

func TestProcessConverter_ArgsNotShared(t *testing.T) {
	cfg := testConfig()
	pc := newProcessConverter(cfg, &mockExecutor{})
	cfg.Args[0] = "changed.py"

	ex := &mockExecutor{}
	pc.exec = ex
	_, err := pc.Convert(context.Background(), "a.pdf")
	require.NoError(t, err)
	assert.Equal(t, []string{"pdf_to_excel.py", "a.pdf"}, ex.gotArgs)
}

func TestProcessConverter_LaunchFailure(t *testing.T) {
	ex := &mockExecutor{err: &exec.Error{Name: "python", Err: exec.ErrNotFound}}
	pc := newProcessConverter(testConfig(), ex)

	_, err := pc.Convert(context.Background(), "a.pdf")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLaunch), "error should wrap ErrLaunch: %v", err)
	assert.True(t, errors.Is(err, exec.ErrNotFound), "error should keep the cause: %v", err)
	assert.Contains(t, err.Error(), "python")
}

// The tests below run the real os/exec path against this test binary, which
// impersonates the converter when GO_WANT_HELPER_PROCESS is set.

func helperConverter(t *testing.T, mode string, timeout time.Duration) *ProcessConverter {
	t.Helper()
	t.Setenv("GO_WANT_HELPER_PROCESS", "1")
	return NewProcessConverter(types.ConverterConfig{
		Command:   os.Args[0],
		Args:      []string{"-test.run=TestHelperProcess", "--", mode},
		Timeout:   timeout,
		OutputExt: ".xlsx",
	})
}

func TestProcessConverter_Success(t *testing.T) {
	pc := helperConverter(t, "ok", 0)

	out, err := pc.Convert(context.Background(), "a.pdf")
	require.NoError(t, err)
	assert.Equal(t, 0, out.ExitCode)
	assert.True(t, out.Succeeded())
	assert.Contains(t, out.Stdout, "Excel file created successfully -> a.xlsx")
	assert.Empty(t, out.Stderr)
}

func TestProcessConverter_NonZeroExit(t *testing.T) {
	pc := helperConverter(t, "fail", 0)

	out, err := pc.Convert(context.Background(), "b.pdf")
	require.NoError(t, err, "a non-zero exit is a result, not an error")
	assert.Equal(t, 1, out.ExitCode)
	assert.Equal(t, "corrupt PDF", out.Stderr)
}

func TestProcessConverter_LargeOutputBothStreams(t *testing.T) {
	pc := helperConverter(t, "flood", 0)

	out, err := pc.Convert(context.Background(), "big.pdf")
	require.NoError(t, err)
	assert.Equal(t, 0, out.ExitCode)
	assert.Equal(t, floodSize, len(out.Stderr))
	assert.True(t, strings.HasSuffix(out.Stdout, "Excel file created successfully -> big.xlsx\n"))
}

func TestProcessConverter_Timeout(t *testing.T) {
	pc := helperConverter(t, "hang", 200*time.Millisecond)

	out, err := pc.Convert(context.Background(), "slow.pdf")
	require.NoError(t, err)
	assert.NotEqual(t, 0, out.ExitCode)
	assert.Less(t, out.Elapsed, 10*time.Second)
}

func TestProcessConverter_MissingBinary(t *testing.T) {
	pc := NewProcessConverter(types.ConverterConfig{
		Command:   "statement-runner-no-such-converter",
		OutputExt: ".xlsx",
	})

	_, err := pc.Convert(context.Background(), "a.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLaunch)
}

const floodSize = 1 << 20

// TestHelperProcess is not a real test. It is the converter stand-in started
// by the tests above.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	args := os.Args
	for len(args) > 0 && args[0] != "--" {
		args = args[1:]
	}
	if len(args) < 3 {
		fmt.Fprintln(os.Stderr, "usage: -- mode pdf")
		os.Exit(2)
	}
	mode, pdf := args[1], args[2]
	base := strings.TrimSuffix(pdf, ".pdf")

	switch mode {
	case "ok":
		fmt.Printf("processing %s\n✅ Excel file created successfully -> %s.xlsx\n", pdf, base)
		os.Exit(0)
	case "fail":
		fmt.Fprint(os.Stderr, "corrupt PDF")
		os.Exit(1)
	case "flood":
		chunk := strings.Repeat("e", 1024)
		for i := 0; i < floodSize/len(chunk); i++ {
			fmt.Fprint(os.Stderr, chunk)
			fmt.Println("page line")
		}
		fmt.Printf("Excel file created successfully -> %s.xlsx\n", base)
		os.Exit(0)
	case "hang":
		time.Sleep(time.Minute)
		os.Exit(0)
	case "spawn", "orphan":
		child := exec.Command(os.Args[0], "-test.run=TestHelperProcess", "--", "hang", pdf)
		child.Stdout = os.Stdout
		child.Stderr = os.Stderr
		if err := child.Start(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(4)
		}
		fmt.Printf("grandchild %d\n", child.Process.Pid)
		if mode == "orphan" {
			os.Exit(0)
		}
		time.Sleep(time.Minute)
		os.Exit(0)
	}
	os.Exit(3)
}
