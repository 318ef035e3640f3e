package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

type ExitMocks struct {
	mock.Mock
	fatalCalls int
	messages   []string
}

func (m *ExitMocks) Fatalf(format string, v ...interface{}) {
	m.fatalCalls++
	m.messages = append(m.messages, fmt.Sprintf(format, v...))
}

func (m *ExitMocks) Fatalln(v ...interface{}) {
	m.fatalCalls++
	m.messages = append(m.messages, fmt.Sprintln(v...))
}

// https://github.com/stretchr/testify/issues/610
func MakeFatalfMock(m *ExitMocks) func(string, ...interface{}) {
	return func(format string, v ...interface{}) {
		m.Fatalf(format, v...)
	}
}

func MakeFatallnMock(m *ExitMocks) func(...interface{}) {
	return func(v ...interface{}) {
		m.Fatalln(v...)
	}
}

func resetFlags() {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	rootCmd.Flags().VisitAll(reset)
	rootCmd.PersistentFlags().VisitAll(reset)
}

// setupSIP creates a source package with count objects in a temporary directory
func setupSIP(t testing.TB, count int, delimiter string) (source, target string) {
	t.Helper()
	dir := t.TempDir()
	source = filepath.Join(dir, "Foobar-SIP")
	target = filepath.Join(dir, "Foobar-SIP-splitted")

	write := func(file, content string) {
		require.NoError(t, os.MkdirAll(filepath.Dir(file), 0o755))
		require.NoError(t, os.WriteFile(file, []byte(content), 0o644))
	}

	var csv strings.Builder
	csv.WriteString("filename" + delimiter + "dc.title\n")
	for i := 0; i < count; i++ {
		name := fmt.Sprintf("object-%02d", i)
		write(filepath.Join(source, "objects", "edited", name, "image.tif"), "edited "+name)
		write(filepath.Join(source, "objects", "unedited", name, "image.dng"), "unedited "+name)
		csv.WriteString("objects/edited/" + name + delimiter + "Title " + name + "\n")
	}
	require.NoError(t, os.MkdirAll(filepath.Join(source, "objects", "edited"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(source, "objects", "unedited"), 0o755))
	write(filepath.Join(source, "metadata", "metadata.csv"), csv.String())
	write(filepath.Join(source, "metadata", "submissionDocumentation", "agreement.pdf"), "signed")
	return source, target
}

func runCommand(t testing.TB, args ...string) (string, *ExitMocks) {
	t.Helper()

	resetFlags()
	exitMocks := new(ExitMocks)
	savedFatalf, savedFatalln := logFatalf, logFatalln
	logFatalf = MakeFatalfMock(exitMocks)
	logFatalln = MakeFatallnMock(exitMocks)
	t.Cleanup(func() {
		logFatalf, logFatalln = savedFatalf, savedFatalln
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--loglevel", "none"}, args...))
	require.NoError(t, rootCmd.Execute())
	return out.String(), exitMocks
}

func listDir(t testing.TB, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestSplit(t *testing.T) {
	source, target := setupSIP(t, 5, ",")

	out, exits := runCommand(t, "--max_objects", "2", "--prefix", "Foobar_", source, target)
	require.Equal(t, 0, exits.fatalCalls, exits.messages)

	assert.Equal(t, []string{"Foobar_01", "Foobar_02", "Foobar_03"}, listDir(t, target))
	assert.Equal(t, []string{"object-04"}, listDir(t, filepath.Join(target, "Foobar_03", "objects", "edited")))
	assert.Equal(t, []string{"object-02", "object-03"}, listDir(t, filepath.Join(target, "Foobar_02", "objects", "unedited")))

	b, err := os.ReadFile(filepath.Join(target, "Foobar_02", "metadata", "metadata.csv"))
	require.NoError(t, err)
	assert.Equal(t, "filename,dc.title\r\nobjects/edited/object-02,Title object-02\r\nobjects/edited/object-03,Title object-03\r\n", string(b))

	b, err = os.ReadFile(filepath.Join(target, "Foobar_03", "metadata", "submissionDocumentation", "agreement.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "signed", string(b))

	assert.Contains(t, out, "Transfer will be split into 3 packages:")
	assert.Contains(t, out, "PACKAGE")
	assert.Contains(t, out, "Foobar_03")
}

func TestSplitSymlinkedObject(t *testing.T) {
	source, target := setupSIP(t, 2, ",")
	stored := filepath.Join(filepath.Dir(source), "storage")
	for _, tree := range []string{"edited", "unedited"} {
		dir := filepath.Join(stored, tree, "linked")
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "scan.tif"), []byte(tree+" scan"), 0o644))
		if err := os.Symlink(dir, filepath.Join(source, "objects", tree, "linked")); err != nil {
			t.Skipf("symbolic links not supported: %v", err)
		}
	}

	out, exits := runCommand(t, "--max_objects", "2", "--prefix", "p", source, target)
	require.Equal(t, 0, exits.fatalCalls, exits.messages)
	assert.Contains(t, out, "Transfer will be split into 2 packages:")

	assert.Equal(t, []string{"linked", "object-00"}, listDir(t, filepath.Join(target, "p01", "objects", "edited")))
	b, err := os.ReadFile(filepath.Join(target, "p01", "objects", "unedited", "linked", "scan.tif"))
	require.NoError(t, err)
	assert.Equal(t, "unedited scan", string(b))

	fi, err := os.Lstat(filepath.Join(target, "p01", "objects", "edited", "linked"))
	require.NoError(t, err)
	assert.True(t, fi.IsDir())
	assert.Contains(t, out, "No metadata for linked")
}

func TestSplitFlagAlias(t *testing.T) {
	source, target := setupSIP(t, 3, ",")

	_, exits := runCommand(t, "--max-objects", "1", "--prefix", "p", source, target)
	require.Equal(t, 0, exits.fatalCalls, exits.messages)
	assert.Equal(t, []string{"p01", "p02", "p03"}, listDir(t, target))
}

func TestSplitTabDelimiter(t *testing.T) {
	source, target := setupSIP(t, 3, "\t")

	_, exits := runCommand(t, "--max_objects", "2", "--prefix", "p", "--csv-delimiter", `\t`, source, target)
	require.Equal(t, 0, exits.fatalCalls, exits.messages)

	// the output delimiter does not follow the input delimiter
	b, err := os.ReadFile(filepath.Join(target, "p01", "metadata", "metadata.csv"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "filename,dc.title\r\n"))
}

func TestNoSplit(t *testing.T) {
	source, target := setupSIP(t, 3, ",")

	out, exits := runCommand(t, source, target)
	require.Equal(t, 0, exits.fatalCalls, exits.messages)
	assert.Contains(t, out, "Not over max object limit. No need to split!")
	assert.NoDirExists(t, target)
}

func TestSplitFromEnv(t *testing.T) {
	source, target := setupSIP(t, 3, ",")
	t.Setenv("SPLITSIP_MAX_OBJECTS", "2")
	t.Setenv("SPLITSIP_PREFIX", "env_")

	_, exits := runCommand(t, source, target)
	require.Equal(t, 0, exits.fatalCalls, exits.messages)
	assert.Equal(t, []string{"env_01", "env_02"}, listDir(t, target))
}

func TestSplitFromConfigFile(t *testing.T) {
	source, target := setupSIP(t, 3, ",")
	cfg := filepath.Join(t.TempDir(), "splitsip.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("max_objects: 1\nprefix: cfg_\n"), 0o644))
	t.Setenv("SPLITSIP_CONFIG", cfg)

	// command line flags take precedence over the config file
	_, exits := runCommand(t, "--prefix", "flag_", source, target)
	require.Equal(t, 0, exits.fatalCalls, exits.messages)
	assert.Equal(t, []string{"flag_01", "flag_02", "flag_03"}, listDir(t, target))
}

func TestSplitReport(t *testing.T) {
	source, target := setupSIP(t, 3, ",")
	reportFile := filepath.Join(t.TempDir(), "report.yaml")

	_, exits := runCommand(t, "--max_objects", "2", "--prefix", "p", "--report", reportFile, source, target)
	require.Equal(t, 0, exits.fatalCalls, exits.messages)

	b, err := os.ReadFile(reportFile)
	require.NoError(t, err)
	var report struct {
		Outcome  string `yaml:"outcome"`
		Objects  int    `yaml:"objects"`
		Packages []struct {
			Name    string   `yaml:"name"`
			Objects []string `yaml:"objects"`
		} `yaml:"packages"`
	}
	require.NoError(t, yaml.Unmarshal(b, &report))
	assert.Equal(t, "split", report.Outcome)
	assert.Equal(t, 3, report.Objects)
	require.Len(t, report.Packages, 2)
	assert.Equal(t, []string{"object-02"}, report.Packages[1].Objects)
}

func TestSplitFailures(t *testing.T) {
	t.Run("missing metadata csv", func(t *testing.T) {
		source, target := setupSIP(t, 3, ",")
		require.NoError(t, os.Remove(filepath.Join(source, "metadata", "metadata.csv")))

		_, exits := runCommand(t, "--max_objects", "2", source, target)
		assert.Equal(t, 1, exits.fatalCalls)
		assert.NoDirExists(t, target)
	})

	t.Run("missing source", func(t *testing.T) {
		dir := t.TempDir()
		_, exits := runCommand(t, filepath.Join(dir, "nowhere"), filepath.Join(dir, "out"))
		assert.Equal(t, 1, exits.fatalCalls)
	})

	t.Run("invalid delimiter", func(t *testing.T) {
		source, target := setupSIP(t, 3, ",")
		_, exits := runCommand(t, "--csv-delimiter", ";;", source, target)
		assert.Equal(t, 1, exits.fatalCalls)
	})

	t.Run("unknown copier", func(t *testing.T) {
		source, target := setupSIP(t, 3, ",")
		_, exits := runCommand(t, "--copier", "scp", source, target)
		assert.Equal(t, 1, exits.fatalCalls)
		assert.Contains(t, exits.messages[0], "unknown copier")
	})

	t.Run("invalid max objects", func(t *testing.T) {
		source, target := setupSIP(t, 3, ",")
		_, exits := runCommand(t, "--max_objects", "0", source, target)
		assert.Equal(t, 1, exits.fatalCalls)
	})
}

func TestArgs(t *testing.T) {
	resetFlags()
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"only-one-arg"})
	require.Error(t, rootCmd.Execute())
}
