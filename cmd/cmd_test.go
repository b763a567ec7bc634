package cmd

import (
	"bytes"
	"io"
	"io/ioutil"
	"net"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	e "github.com/pkg/errors"
	"github.com/sahib/config"
	"github.com/sahib/grass/client/clienttest"
	"github.com/sahib/grass/defaults"
	"github.com/sahib/grass/util/testutil"
	"github.com/stretchr/testify/require"
)

type scriptSource struct {
	lines []string
}

func (ss *scriptSource) ReadLine() (string, error) {
	if len(ss.lines) == 0 {
		return "", io.EOF
	}

	line := ss.lines[0]
	ss.lines = ss.lines[1:]
	return line, nil
}

func (ss *scriptSource) Close() error {
	return nil
}

// withTestConfig writes a config that keeps everything inside a temp dir.
func withTestConfig(t *testing.T, fn func(dir, cfgPath string)) {
	dir := testutil.TempDir(t)
	defer testutil.Remover(t, dir)

	cfg, err := defaults.OpenDefaultConfig()
	require.NoError(t, err)
	require.NoError(t, cfg.Set("transfer.directory", dir))
	require.NoError(t, cfg.Set("journal.path", filepath.Join(dir, "journal")))
	require.NoError(t, cfg.Set("shell.history_file", ""))

	cfgPath := filepath.Join(dir, "config.yml")
	require.NoError(t, defaults.SaveConfig(cfgPath, cfg))

	fn(dir, cfgPath)
}

func withOutput(fn func(buf *bytes.Buffer)) {
	oldStdout := stdout
	defer func() { stdout = oldStdout }()

	buf := &bytes.Buffer{}
	stdout = buf
	fn(buf)
}

func withErrors(fn func(buf *bytes.Buffer)) {
	oldStderr := stderr
	defer func() { stderr = oldStderr }()

	buf := &bytes.Buffer{}
	stderr = buf
	fn(buf)
}

func withScript(lines []string, fn func()) {
	oldSource := newLineSource
	defer func() { newLineSource = oldSource }()

	newLineSource = func(cfg *config.Config, useColor bool) (lineSource, error) {
		return &scriptSource{lines: lines}, nil
	}

	fn()
}

func TestParsePort(t *testing.T) {
	for _, valid := range []string{"1", "80", "65535"} {
		_, err := parsePort(valid)
		require.NoError(t, err)
	}

	for _, invalid := range []string{"0", "65536", "-1", "http", ""} {
		_, err := parsePort(invalid)
		require.Error(t, err, invalid)
	}
}

func TestBadArgs(t *testing.T) {
	require.Equal(t, BadArgs, RunCmdline([]string{"grass"}))
	require.Equal(t, BadArgs, RunCmdline([]string{"grass", "localhost"}))
	require.Equal(t, BadArgs, RunCmdline([]string{"grass", "a", "b", "c"}))
	require.Equal(t, BadArgs, RunCmdline([]string{"grass", "localhost", "99999"}))
	require.Equal(t, BadArgs, RunCmdline([]string{"grass", "localhost", "port"}))
}

func TestConnectionFailed(t *testing.T) {
	withTestConfig(t, func(dir, cfgPath string) {
		lst, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		port := lst.Addr().(*net.TCPAddr).Port
		require.NoError(t, lst.Close())

		code := RunCmdline([]string{"grass", "-c", cfgPath, "127.0.0.1", strconv.Itoa(port)})
		require.Equal(t, ConnectionFailed, code)
	})
}

func TestConfigSetGet(t *testing.T) {
	withTestConfig(t, func(dir, cfgPath string) {
		withOutput(func(buf *bytes.Buffer) {
			code := RunCmdline([]string{"grass", "-c", cfgPath, "config", "set", "shell.drain_grace", "40ms"})
			require.Equal(t, Success, code)

			buf.Reset()
			code = RunCmdline([]string{"grass", "-c", cfgPath, "config", "get", "shell.drain_grace"})
			require.Equal(t, Success, code)
			require.Equal(t, "40ms\n", buf.String())
		})
	})
}

func TestConfigInvalid(t *testing.T) {
	withTestConfig(t, func(dir, cfgPath string) {
		withOutput(func(buf *bytes.Buffer) {
			code := RunCmdline([]string{"grass", "-c", cfgPath, "config", "get", "no.such.key"})
			require.Equal(t, BadArgs, code)

			code = RunCmdline([]string{"grass", "-c", cfgPath, "config", "set", "log.level", "loud"})
			require.Equal(t, BadArgs, code)

			code = RunCmdline([]string{"grass", "-c", cfgPath, "config", "set", "journal.enabled", "maybe"})
			require.Equal(t, BadArgs, code)

			code = RunCmdline([]string{"grass", "-c", cfgPath, "config", "get"})
			require.Equal(t, BadArgs, code)
		})
	})
}

func TestConfigListAndDoc(t *testing.T) {
	withTestConfig(t, func(dir, cfgPath string) {
		withOutput(func(buf *bytes.Buffer) {
			code := RunCmdline([]string{"grass", "-c", cfgPath, "config", "list"})
			require.Equal(t, Success, code)
			require.Contains(t, buf.String(), "shell.legacy_matching: false")
			require.Contains(t, buf.String(), "log.level: warning")

			buf.Reset()
			code = RunCmdline([]string{"grass", "-c", cfgPath, "config", "doc", "transfer.progress"})
			require.Equal(t, Success, code)
			require.Contains(t, buf.String(), "Documentation: Show a progress bar")
		})
	})
}

func TestSessionAndHistory(t *testing.T) {
	peer := clienttest.NewPeer()
	data := testutil.CreateDummyBuf(4096 + 7)
	peer.SetFile("data.bin", data)
	require.NoError(t, peer.Start())
	defer peer.Close()

	withTestConfig(t, func(dir, cfgPath string) {
		withOutput(func(buf *bytes.Buffer) {
			script := []string{"ping", "get data.bin", "exit"}
			withScript(script, func() {
				code := RunCmdline([]string{
					"grass", "-c", cfgPath,
					peer.Host(), strconv.Itoa(peer.Port()),
				})
				require.Equal(t, Success, code)
			})

			require.Equal(t, "welcome\nping\n", buf.String())

			stored, err := ioutil.ReadFile(filepath.Join(dir, "data.bin"))
			require.NoError(t, err)
			require.Equal(t, data, stored)

			buf.Reset()
			code := RunCmdline([]string{"grass", "-c", cfgPath, "history", "--limit", "5"})
			require.Equal(t, Success, code)

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			require.Len(t, lines, 1)
			require.Contains(t, lines[0], "get")
			require.Contains(t, lines[0], "data.bin")
		})
	})
}

func TestSessionEndOfInput(t *testing.T) {
	peer := clienttest.NewPeer()
	require.NoError(t, peer.Start())
	defer peer.Close()

	withTestConfig(t, func(dir, cfgPath string) {
		withOutput(func(buf *bytes.Buffer) {
			withScript([]string{"hello"}, func() {
				code := RunCmdline([]string{
					"grass", "-c", cfgPath,
					peer.Host(), strconv.Itoa(peer.Port()),
				})
				require.Equal(t, Success, code)
			})

			require.Equal(t, "welcome\nhello\n", buf.String())
		})
	})
}

func TestFindSimilar(t *testing.T) {
	keys := []string{"shell.color", "shell.prompt", "journal.path", "log.level"}

	similars := findSimilar("shell.colr", keys)
	require.NotEmpty(t, similars)
	require.Equal(t, "shell.color", similars[0].name)

	require.Empty(t, findSimilar("xyz", keys))
	require.Equal(t, "", formatSuggestions(nil))
}

func TestVersionCommand(t *testing.T) {
	withOutput(func(buf *bytes.Buffer) {
		require.Equal(t, Success, RunCmdline([]string{"grass", "version"}))
		require.Contains(t, buf.String(), "Version: v0.1.0")
		require.Contains(t, buf.String(), "Rev: (unknown)")
	})
}

func TestMistypedCommandHint(t *testing.T) {
	withErrors(func(buf *bytes.Buffer) {
		code := RunCmdline([]string{"grass", "confg", "list"})
		require.Equal(t, BadArgs, code)
		require.Contains(t, buf.String(), "port is not a number")
		require.Contains(t, buf.String(), "Did you maybe mean `config`?")

		buf.Reset()
		code = RunCmdline([]string{"grass", "histroy"})
		require.Equal(t, BadArgs, code)
		require.Contains(t, buf.String(), "Usage: grass [HOST] [PORT]")
		require.Contains(t, buf.String(), "`history`")

		buf.Reset()
		code = RunCmdline([]string{"grass", "localhost", "http"})
		require.Equal(t, BadArgs, code)
		require.NotContains(t, buf.String(), "Did you maybe mean")
	})
}

func TestLineSourceFailureEndsSession(t *testing.T) {
	peer := clienttest.NewPeer()
	require.NoError(t, peer.Start())
	defer peer.Close()

	oldSource := newLineSource
	defer func() { newLineSource = oldSource }()

	newLineSource = func(cfg *config.Config, useColor bool) (lineSource, error) {
		return nil, e.New("no terminal")
	}

	withTestConfig(t, func(dir, cfgPath string) {
		withErrors(func(buf *bytes.Buffer) {
			code := RunCmdline([]string{
				"grass", "-c", cfgPath,
				peer.Host(), strconv.Itoa(peer.Port()),
			})
			require.Equal(t, UnknownError, code)
			require.Contains(t, buf.String(), "no terminal")
		})
	})

	require.Eventually(t, func() bool {
		return peer.Exits() == 1
	}, time.Second, 5*time.Millisecond)
}
