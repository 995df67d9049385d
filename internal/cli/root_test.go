package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootCommandHelp(t *testing.T) {
	rootCmd.SetArgs([]string{"--help"})
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	// rootCmd is shared across tests and pflag keeps flag values between
	// parses; reset --help so later tests are not answered with help output.
	t.Cleanup(func() { _ = rootCmd.Flags().Set("help", "false") })

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(buf.String(), "kbsetup") {
		t.Error("expected help output to mention kbsetup")
	}
}

func TestRootCommandVersion(t *testing.T) {
	SetVersion("1.2.3")
	rootCmd.SetArgs([]string{"--version"})
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(buf.String(), "1.2.3") {
		t.Errorf("expected version output to contain 1.2.3, got %q", buf.String())
	}
}

func TestRootCommandSubcommands(t *testing.T) {
	for _, name := range []string{"plan", "apply", "rollback"} {
		t.Run(name, func(t *testing.T) {
			subCmd, _, err := rootCmd.Find([]string{name})
			if err != nil || subCmd == nil {
				t.Errorf("Find(%q) = %v, %v", name, subCmd, err)
			}
		})
	}
}

func TestApplyRequiresManifest(t *testing.T) {
	flagManifest = ""
	rootCmd.SetArgs([]string{"apply"})
	var buf bytes.Buffer
	rootCmd.SetErr(&buf)

	if err := rootCmd.Execute(); err == nil {
		t.Error("expected an error when --manifest is missing")
	}
}
