package cli_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-flows/internal/cli"
	"github.com/askiada/go-flows/internal/config"
	"github.com/askiada/go-flows/pkg/pipeline"
)

func greet(ctx context.Context, out io.Writer, opts ...pipeline.Option) (string, error) {
	pipe, err := pipeline.New("greet", opts...)
	if err != nil {
		return "", err
	}

	step, err := pipeline.AddRootStep(pipe, "greet_task", func(context.Context) (string, error) {
		return "hi", nil
	})
	if err != nil {
		return "", err
	}

	res, err := pipeline.Execute(ctx, pipe, step)
	if err != nil {
		return "", err
	}

	fmt.Fprintln(out, res)

	return res, nil
}

func broken(context.Context, io.Writer, ...pipeline.Option) (string, error) {
	return "", assert.AnError
}

func TestRun(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		args       []string
		flow       cli.FlowFunc
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		"success": {
			flow:       greet,
			wantStdout: "hi\n",
			wantStderr: `"msg":"flow run finished"`,
		},
		"help": {
			args:       []string{"-h"},
			flow:       greet,
			wantStderr: "-config",
		},
		"unknown flag": {
			args:     []string{"-nope"},
			flow:     greet,
			wantCode: 2,
		},
		"missing config": {
			args:       []string{"-config", "does-not-exist.yaml"},
			flow:       greet,
			wantCode:   1,
			wantStderr: "invalid configuration",
		},
		"invalid log level": {
			args:       []string{"-log-level", "loud"},
			flow:       greet,
			wantCode:   1,
			wantStderr: "invalid logger configuration",
		},
		"text logs": {
			args:       []string{"-log-format", "text"},
			flow:       greet,
			wantStdout: "hi\n",
			wantStderr: `msg="flow run finished"`,
		},
		"flow error": {
			flow:       broken,
			wantCode:   1,
			wantStderr: `"msg":"flow failed"`,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

			code := cli.Run(t.Context(), "greet", tc.args, stdout, stderr, tc.flow)
			assert.Equal(t, tc.wantCode, code)
			assert.Equal(t, tc.wantStdout, stdout.String())
			assert.Contains(t, stderr.String(), tc.wantStderr)
		})
	}
}

func TestRunWithConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dotFile := filepath.Join(dir, "greet.dot")
	configFile := filepath.Join(dir, "flows.yaml")

	require.NoError(t, os.WriteFile(configFile, []byte(`
log:
  level: debug
flows:
  greet:
    steps:
      greet_task:
        retries: 2
`), 0o600))

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

	code := cli.Run(t.Context(), "greet", []string{"-config", configFile, "-dot", dotFile}, stdout, stderr, greet)
	require.Equal(t, 0, code)
	assert.Equal(t, "hi\n", stdout.String())
	assert.Contains(t, stderr.String(), `"msg":"registered step"`)

	content, err := os.ReadFile(dotFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"start" -> "greet_task"`)
	assert.Contains(t, string(content), `"greet_task" -> "end"`)
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		cfg     config.LogConfig
		wantErr bool
		want    string
	}{
		"defaults to json off a terminal": {
			want: `"msg":"hello"`,
		},
		"text": {
			cfg:  config.LogConfig{Format: "text"},
			want: `msg=hello`,
		},
		"level filters": {
			cfg: config.LogConfig{Level: "error"},
		},
		"invalid level": {
			cfg:     config.LogConfig{Level: "loud"},
			wantErr: true,
		},
		"invalid format": {
			cfg:     config.LogConfig{Format: "xml"},
			wantErr: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			out := &bytes.Buffer{}

			log, err := cli.NewLogger(out, tc.cfg)
			if tc.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			log.Info("hello")

			if tc.want == "" {
				assert.Empty(t, out.String())

				return
			}

			assert.Contains(t, out.String(), tc.want)
		})
	}
}
