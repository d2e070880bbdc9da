package core

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/josephlewis42/liteshell/core/config"
	"github.com/josephlewis42/liteshell/core/logger"
	"github.com/josephlewis42/liteshell/core/vos"
	"github.com/josephlewis42/liteshell/core/vos/vostest"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeOS() *vostest.FakeOS {
	fakeOS := vostest.NewFakeOS()
	fakeOS.Programs["echo"] = vostest.Echo
	fakeOS.Programs["false"] = vostest.Exit(1)
	fakeOS.Programs["ls"] = func(argv []string, files vos.VIO) int {
		fmt.Fprintln(files.Stdout(), "file.txt")
		return 0
	}
	fakeOS.Programs["pwd"] = func(argv []string, files vos.VIO) int {
		fmt.Fprintln(files.Stdout(), fakeOS.Dir)
		return 0
	}
	return fakeOS
}

func newTestShell(t *testing.T, virtOS vos.VOS, script string, stdout, stderr *bytes.Buffer, cfg *config.Configuration) *Shell {
	t.Helper()

	if cfg == nil {
		cfg = config.Default()
	}
	cfg.Color = config.ColorNever

	input := NewPlainReader(strings.NewReader(script), stdout, cfg.Prompt)
	files := vos.NewVIOAdapter(nil, stdout, stderr)

	s, err := NewShell(virtOS, files, input, cfg)
	require.Nil(t, err)
	return s
}

func historyLines(s *Shell) []string {
	var out []string
	for e := range s.History.All() {
		out = append(out, e.String())
	}
	return out
}

func TestShell_transcript(t *testing.T) {
	script := strings.Join([]string{
		"ls",
		"pwd",
		"",
		"   ",
		"cd /tmp",
		"pwd",
		"not_a_real_binary",
		"history",
		"exit",
		"pwd",
	}, "\n")

	var out bytes.Buffer
	s := newTestShell(t, newFakeOS(), script, &out, &out, nil)
	assert.Equal(t, StatusExit, s.Run())

	g := goldie.New(
		t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
		goldie.WithDiffEngine(goldie.ColoredDiff),
		goldie.WithTestNameForDir(true),
	)
	g.Assert(t, "transcript", out.Bytes())
}

func TestShell_Run(t *testing.T) {
	longLine := "echo " + strings.Repeat("x", 95)

	cases := map[string]struct {
		script string
		setup  func(*vostest.FakeOS, *config.Configuration)

		wantStatus         int
		wantStdout         string
		wantStderr         string
		wantStderrContains string
		wantHistory        []string
		wantSpawned        [][]string
		wantDir            string
	}{
		"ls-pwd-history": {
			script:      "ls\npwd\nhistory\n",
			wantStatus:  StatusInputClosed,
			wantStdout:  "$ file.txt\n$ /\n$ 4508 ls\n4509 pwd\n4507 history\n$ \n",
			wantHistory: []string{"4508 ls", "4509 pwd", "4507 history"},
			wantSpawned: [][]string{{"ls"}, {"pwd"}},
		},
		"exit": {
			script:      "exit\nls\n",
			wantStatus:  StatusExit,
			wantStdout:  "$ ",
			wantHistory: []string{"4507 exit"},
		},
		"closed-input": {
			script:     "",
			wantStatus: StatusInputClosed,
			wantStdout: "$ \n",
		},
		"blank-lines": {
			script:      "\n  \n\t\n\nhistory\n",
			wantStatus:  StatusInputClosed,
			wantHistory: []string{"4507 history"},
		},
		"collapsed-whitespace": {
			script:      "  echo   a  b  \n",
			wantStatus:  StatusInputClosed,
			wantStdout:  "$ a b\n$ \n",
			wantHistory: []string{"4508   echo   a  b  "},
			wantSpawned: [][]string{{"echo", "a", "b"}},
		},
		"cd": {
			script:      "cd /tmp\npwd\n",
			wantStatus:  StatusInputClosed,
			wantStdout:  "$ $ /tmp\n$ \n",
			wantHistory: []string{"4507 cd /tmp", "4508 pwd"},
			wantDir:     "/tmp",
		},
		"cd-relative": {
			script:      "cd /tmp\ncd ..\n",
			wantStatus:  StatusInputClosed,
			wantHistory: []string{"4507 cd /tmp", "4507 cd .."},
			wantDir:     "/",
		},
		"cd-nonexistent": {
			script:      "cd /nonexistent\npwd\n",
			wantStatus:  StatusInputClosed,
			wantStdout:  "$ $ /\n$ \n",
			wantStderr:  "liteshell: cd: chdir /nonexistent: file does not exist\n",
			wantHistory: []string{"4507 cd /nonexistent", "4508 pwd"},
			wantDir:     "/",
		},
		"cd-missing-operand": {
			script:             "cd\n",
			wantStatus:         StatusInputClosed,
			wantStderrContains: "liteshell: cd: missing directory operand\n",
			wantHistory:        []string{"4507 cd"},
			wantDir:            "/",
		},
		"cd-too-many-arguments": {
			script:      "cd /tmp /\n",
			wantStatus:  StatusInputClosed,
			wantStderr:  "liteshell: cd: too many arguments\n",
			wantHistory: []string{"4507 cd /tmp /"},
			wantDir:     "/",
		},
		"cd-help": {
			script:             "cd --help\n",
			wantStatus:         StatusInputClosed,
			wantStderrContains: "Usage: cd [-h] DIR\n",
			wantHistory:        []string{"4507 cd --help"},
			wantDir:            "/",
		},
		"builtin-line-match": {
			script:             "history -x\nexit 3\n",
			wantStatus:         StatusInputClosed,
			wantStderrContains: `"history"`,
			wantHistory:        []string{"4508 history -x", "4509 exit 3"},
			wantSpawned:        [][]string{{"history", "-x"}, {"exit", "3"}},
		},
		"builtin-trailing-whitespace": {
			script:      "history \nexit\t\n",
			wantStatus:  StatusExit,
			wantStdout:  "$ 4507 history \n$ ",
			wantHistory: []string{"4507 history ", "4507 exit\t"},
		},
		"not-a-real-binary": {
			script:      "not_a_real_binary\nls\n",
			wantStatus:  StatusInputClosed,
			wantStdout:  "$ $ file.txt\n$ \n",
			wantStderr:  "liteshell: exec: \"not_a_real_binary\": executable file not found in $PATH\n",
			wantHistory: []string{"4508 not_a_real_binary", "4509 ls"},
		},
		"nonzero-status": {
			script:      "false\nhistory\n",
			wantStatus:  StatusInputClosed,
			wantHistory: []string{"4508 false", "4507 history"},
		},
		"line-too-long": {
			script:      "echo " + strings.Repeat("x", 96) + "\nexit\n",
			wantStatus:  StatusExit,
			wantStdout:  "$ $ ",
			wantStderr:  "liteshell: read: line too long: 101 bytes, limit is 100\n",
			wantHistory: []string{"4507 exit"},
		},
		"line-at-limit-truncated": {
			script:      longLine + "\n",
			wantStatus:  StatusInputClosed,
			wantHistory: []string{"4508 " + longLine[:99]},
		},
		"spawn-failure": {
			script: "ls\nhistory\n",
			setup: func(f *vostest.FakeOS, _ *config.Configuration) {
				f.StartErr = errors.New("resource temporarily unavailable")
			},
			wantStatus:  StatusInputClosed,
			wantStderr:  "liteshell: ls: resource temporarily unavailable\n",
			wantHistory: []string{"4507 history"},
		},
		"wait-failure": {
			script: "ls\n",
			setup: func(f *vostest.FakeOS, _ *config.Configuration) {
				f.WaitErr = errors.New("no child processes")
			},
			wantStatus:  StatusInputClosed,
			wantStderr:  "liteshell: wait: no child processes\n",
			wantHistory: []string{"4508 ls"},
		},
		"quoting": {
			script: "echo \"a  b\" 'c'\necho \"oops\n",
			setup: func(_ *vostest.FakeOS, cfg *config.Configuration) {
				cfg.PosixQuoting = true
			},
			wantStatus:         StatusInputClosed,
			wantStderrContains: "liteshell: parse: syntax error",
			wantHistory:        []string{"4508 echo \"a  b\" 'c'"},
			wantSpawned:        [][]string{{"echo", "a  b", "c"}},
		},
		"overflow-evict": {
			script: "ls\npwd\nhistory\n",
			setup: func(_ *vostest.FakeOS, cfg *config.Configuration) {
				cfg.HistoryCapacity = 2
			},
			wantStatus:  StatusInputClosed,
			wantHistory: []string{"4509 pwd", "4507 history"},
		},
		"overflow-reject": {
			script: "ls\npwd\nhistory\n",
			setup: func(_ *vostest.FakeOS, cfg *config.Configuration) {
				cfg.HistoryCapacity = 2
				cfg.HistoryOverflow = config.OverflowReject
			},
			wantStatus:  StatusInputClosed,
			wantHistory: []string{"4508 ls", "4509 pwd"},
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			fakeOS := newFakeOS()
			cfg := config.Default()
			if tc.setup != nil {
				tc.setup(fakeOS, cfg)
			}

			var stdout, stderr bytes.Buffer
			s := newTestShell(t, fakeOS, tc.script, &stdout, &stderr, cfg)

			assert.Equal(t, tc.wantStatus, s.Run())
			if tc.wantStdout != "" {
				assert.Equal(t, tc.wantStdout, stdout.String())
			}
			if tc.wantStderrContains != "" {
				assert.Contains(t, stderr.String(), tc.wantStderrContains)
			} else {
				assert.Equal(t, tc.wantStderr, stderr.String())
			}
			assert.Equal(t, tc.wantHistory, historyLines(s))
			if tc.wantSpawned != nil {
				assert.Equal(t, tc.wantSpawned, fakeOS.Spawned)
			}
			if tc.wantDir != "" {
				assert.Equal(t, tc.wantDir, fakeOS.Dir)
			}
		})
	}
}

func TestShell_Execute(t *testing.T) {
	var stdout, stderr bytes.Buffer
	fakeOS := newFakeOS()
	s := newTestShell(t, fakeOS, "", &stdout, &stderr, nil)

	s.Execute("echo hello")
	s.Execute("   ")
	s.Execute("history")

	assert.Equal(t, "hello\n4508 echo hello\n4507 history\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestShell_events(t *testing.T) {
	var events bytes.Buffer
	eventLogger := logger.NewJsonLinesLogRecorder(&events)
	eventLogger.Now = func() time.Time { return time.UnixMicro(1650000000000000) }

	fakeOS := newFakeOS()
	var stdout, stderr bytes.Buffer
	s := newTestShell(t, fakeOS, "ls\nfalse\ncd /tmp\nnope\n\"\n", &stdout, &stderr, nil)
	s.Events = eventLogger.NewSession()
	s.Now = eventLogger.Now
	assert.Equal(t, StatusInputClosed, s.Run())

	var got []*logger.LogEntry
	require.Nil(t, logger.ReadJSONLinesLog(&events, func(le *logger.LogEntry) {
		got = append(got, le)
	}))

	var types []logger.EventType
	for _, le := range got {
		types = append(types, le.Type)
		assert.Equal(t, s.Events.SessionID(), le.SessionID)
	}
	assert.Equal(t, []logger.EventType{
		logger.EventSessionStart,
		logger.EventRunCommand,
		logger.EventRunCommand,
		logger.EventBuiltin,
		logger.EventRunCommand,
		logger.EventRunCommand,
	}, types)

	assert.Equal(t, vostest.ShellPID, got[0].PID)

	assert.Equal(t, []string{"ls"}, got[1].Command)
	assert.Equal(t, 4508, got[1].PID)
	assert.Equal(t, 0, *got[1].ExitStatus)
	assert.Equal(t, "/", got[1].Dir)

	assert.Equal(t, 1, *got[2].ExitStatus)

	assert.Equal(t, []string{"cd", "/tmp"}, got[3].Command)
	assert.Equal(t, vostest.ShellPID, got[3].PID)

	assert.Equal(t, []string{"nope"}, got[4].Command)
	assert.Equal(t, 1, *got[4].ExitStatus)
	assert.Equal(t, "/tmp", got[4].Dir)

	// The lone quote is a program name without quoting enabled.
	assert.Equal(t, []string{"\""}, got[5].Command)
}

func TestShell_eventsErrors(t *testing.T) {
	var events bytes.Buffer
	fakeOS := newFakeOS()
	fakeOS.StartErr = errors.New("boom")

	cfg := config.Default()
	cfg.PosixQuoting = true

	var stdout, stderr bytes.Buffer
	s := newTestShell(t, fakeOS, "ls\n'\n"+strings.Repeat("y", 101)+"\n", &stdout, &stderr, cfg)
	s.Events = logger.NewJsonLinesLogRecorder(&events).Sessionless()
	s.Run()

	report := logger.NewReport()
	require.Nil(t, logger.ReadJSONLinesLog(&events, report.Update))
	assert.Equal(t, 4, report.LogEntries)

	out, err := report.Errors.MarshalJSON()
	require.Nil(t, err)
	assert.Contains(t, string(out), `"type":"spawn_error"`)
	assert.Contains(t, string(out), `"type":"syntax_error"`)
	assert.Contains(t, string(out), `"type":"line_too_long"`)
}

func TestNewShell_badOverflow(t *testing.T) {
	cfg := config.Default()
	cfg.HistoryOverflow = "grow"

	_, err := NewShell(newFakeOS(), vos.NewNullIO(), NewPlainReader(strings.NewReader(""), nil, ""), cfg)
	assert.Error(t, err)
}

func TestShell_host(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires fork and exec")
	}
	if _, err := exec.LookPath("touch"); err != nil {
		t.Skip("touch not found in PATH")
	}

	wd, err := os.Getwd()
	require.Nil(t, err)
	t.Cleanup(func() { os.Chdir(wd) })

	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.Nil(t, err)

	script := fmt.Sprintf("cd %s\ntouch marker\nnot_a_real_binary\nhistory\nexit\n", dir)
	var stdout, stderr bytes.Buffer
	s := newTestShell(t, vos.NewHostOS(), script, &stdout, &stderr, nil)

	assert.Equal(t, StatusExit, s.Run())
	assert.FileExists(t, filepath.Join(dir, "marker"))
	assert.Contains(t, stderr.String(), "not_a_real_binary")

	var entries []int
	for e := range s.History.All() {
		entries = append(entries, e.PID)
	}
	require.Len(t, entries, 5)
	assert.Equal(t, os.Getpid(), entries[0], "cd runs in the shell")
	assert.NotEqual(t, os.Getpid(), entries[1], "touch runs in a child")
	assert.NotEqual(t, os.Getpid(), entries[2], "not_a_real_binary runs in a child")
	assert.Equal(t, os.Getpid(), entries[3], "history runs in the shell")
	assert.Equal(t, os.Getpid(), entries[4], "exit runs in the shell")
	assert.Contains(t, stdout.String(), fmt.Sprintf("%d touch marker\n", entries[1]))
}
