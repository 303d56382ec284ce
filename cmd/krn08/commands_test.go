package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/terassyi/krn08/internal/config"
	krnerrors "github.com/terassyi/krn08/internal/errors"
	"github.com/terassyi/krn08/internal/script"
	"github.com/terassyi/krn08/internal/terminal"
)

// testEnvironment loads an environment from an empty config dir and
// disables the sequencer sleeps.
func testEnvironment() *environment {
	GinkgoHelper()
	env, err := loadEnvironment(globalOptions{configDir: GinkgoT().TempDir(), logLevel: "error"})
	Expect(err).NotTo(HaveOccurred())
	env.clock = terminal.ClockFunc(func(time.Duration) {})
	return env
}

func writeConfig(dir, content string) {
	GinkgoHelper()
	Expect(os.WriteFile(filepath.Join(dir, config.ConfigFileName), []byte(content), 0o644)).To(Succeed())
}

var _ = Describe("loadEnvironment", func() {
	It("falls back to the defaults without config.cue", func() {
		env := testEnvironment()
		Expect(env.config).To(Equal(config.DefaultConfig()))
		Expect(env.catalog.Recommended()).To(HaveLen(5))
	})

	It("reads config.cue from the config directory", func() {
		dir := GinkgoT().TempDir()
		writeConfig(dir, "package krn08\n\nconfig: {\n\texpertMode: true\n\tdelay: \"1s\"\n}\n")

		env, err := loadEnvironment(globalOptions{configDir: dir})
		Expect(err).NotTo(HaveOccurred())
		Expect(env.config.ExpertMode).To(BeTrue())
		Expect(env.config.SequencerDelay()).To(Equal(time.Second))
	})

	It("lets --delay override the configured delay", func() {
		env, err := loadEnvironment(globalOptions{configDir: GinkgoT().TempDir(), delay: "50ms"})
		Expect(err).NotTo(HaveOccurred())
		Expect(env.config.SequencerDelay()).To(Equal(50 * time.Millisecond))
	})

	It("rejects an invalid --delay", func() {
		_, err := loadEnvironment(globalOptions{configDir: GinkgoT().TempDir(), delay: "soon"})
		var ce *krnerrors.ConfigError
		Expect(err).To(BeAssignableToTypeOf(ce))
		Expect(err.Error()).To(ContainSubstring("delay"))
	})
})

var _ = Describe("run", func() {
	var (
		env *environment
		out *bytes.Buffer
	)

	BeforeEach(func() {
		env = testEnvironment()
		out = &bytes.Buffer{}
	})

	It("prints every line of an install and a summary", func() {
		By("Installing two packages")
		err := runAction(context.Background(), out, env, actionInstall, []string{"Google.Chrome", "Git.Git"}, false)
		Expect(err).NotTo(HaveOccurred())

		By("Checking the command output")
		output := out.String()
		Expect(output).To(ContainSubstring("> winget install -e --id Google.Chrome"))
		Expect(output).To(ContainSubstring("Found Git.Git"))
		Expect(strings.Count(output, "> Done.")).To(Equal(2))

		By("Checking the summary")
		Expect(output).To(ContainSubstring("Commands: 2"))
		Expect(output).To(ContainSubstring("Lines:    12"))
		Expect(output).To(ContainSubstring("Installation Complete"))
		Expect(output).To(ContainSubstring("Successfully installed 2 application(s)."))
	})

	It("applies the preselected tweaks when none are given", func() {
		Expect(runAction(context.Background(), out, env, actionTweaks, nil, false)).To(Succeed())
		Expect(out.String()).To(ContainSubstring("Checkpoint-Computer"))
	})

	It("rejects risky tweaks outside expert mode before running", func() {
		err := runAction(context.Background(), out, env, actionTweaks, []string{"defender"}, false)
		Expect(err).To(HaveOccurred())
		var ve *krnerrors.ValidationError
		Expect(err).To(BeAssignableToTypeOf(ve))
		Expect(out.String()).NotTo(ContainSubstring(">"))
	})

	It("runs risky tweaks in expert mode", func() {
		Expect(runAction(context.Background(), out, env, actionTweaks, []string{"defender"}, true)).To(Succeed())
		Expect(out.String()).To(ContainSubstring("Apply-Tweak -Id defender"))
	})

	It("reports the release check", func() {
		Expect(runAction(context.Background(), out, env, actionRelease, nil, false)).To(Succeed())
		Expect(out.String()).To(ContainSubstring("is up to date."))
	})

	It("updates the winget source", func() {
		err := runAction(context.Background(), out, env, actionSource, []string{"https://example.com/cache"}, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.String()).To(ContainSubstring("Source updated: https://example.com/cache"))
	})

	DescribeTable("rejects bad invocations",
		func(name string, ids []string, field string) {
			err := runAction(context.Background(), out, env, name, ids, false)
			var ve *krnerrors.ValidationError
			Expect(err).To(BeAssignableToTypeOf(ve))
			ve = err.(*krnerrors.ValidationError)
			Expect(ve.Field).To(Equal(field))
			Expect(out.Len()).To(BeZero())
		},
		Entry("unknown action", "defrag", nil, "action"),
		Entry("arguments to optimize", actionOptimize, []string{"now"}, "args"),
		Entry("source without url", actionSource, nil, "url"),
		Entry("install without packages", actionInstall, nil, "ids"),
	)

	It("does not start when the context is already cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := runAction(ctx, out, env, actionOptimize, nil, false)
		Expect(err).To(MatchError(context.Canceled))
		Expect(out.String()).NotTo(ContainSubstring("Invoke-KrnOptimization"))
	})
})

var _ = Describe("export", func() {
	It("writes the installer script", func() {
		env := testEnvironment()
		path := filepath.Join(GinkgoT().TempDir(), script.DefaultFileName)
		out := &bytes.Buffer{}

		Expect(runExport(out, env.catalog, []string{"Valve.Steam"}, path)).To(Succeed())
		Expect(out.String()).To(ContainSubstring("Exported 1 package(s)"))

		data, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal(script.Build([]string{"Valve.Steam"})))
	})

	It("refuses unknown packages without writing", func() {
		env := testEnvironment()
		path := filepath.Join(GinkgoT().TempDir(), "out.ps1")

		err := runExport(&bytes.Buffer{}, env.catalog, []string{"Valve.Steam", "Acme.Nope"}, path)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring(`"Acme.Nope"`))
		Expect(path).NotTo(BeAnExistingFile())
	})
})

var _ = Describe("config show", func() {
	It("prints the effective config as CUE", func() {
		env, err := loadEnvironment(globalOptions{configDir: GinkgoT().TempDir(), delay: "250ms"})
		Expect(err).NotTo(HaveOccurred())

		out := &bytes.Buffer{}
		Expect(showConfig(out, env)).To(Succeed())
		Expect(out.String()).To(HavePrefix("package krn08\n"))
		Expect(out.String()).To(ContainSubstring(`delay:`))
		Expect(out.String()).To(ContainSubstring(`"250ms"`))
	})
})

var _ = Describe("version", func() {
	It("prints text", func() {
		out := &bytes.Buffer{}
		Expect(printVersion(out, "text")).To(Succeed())
		Expect(out.String()).To(ContainSubstring("krn08 version dev"))
	})

	It("prints JSON", func() {
		out := &bytes.Buffer{}
		Expect(printVersion(out, outputJSON)).To(Succeed())

		var info VersionInfo
		Expect(json.Unmarshal(out.Bytes(), &info)).To(Succeed())
		Expect(info.Version).To(Equal("dev"))
		Expect(info.GoVersion).To(HavePrefix("go"))
	})
})

var _ = Describe("root command", func() {
	It("lists recommendations as JSON", func() {
		out := &bytes.Buffer{}
		rootCmd.SetOut(out)
		rootCmd.SetArgs([]string{"catalog", "rec", "-o", "json", "--config", GinkgoT().TempDir()})
		DeferCleanup(func() {
			rootCmd.SetOut(nil)
			rootCmd.SetArgs(nil)
		})

		Expect(rootCmd.Execute()).To(Succeed())

		var items []map[string]string
		Expect(json.Unmarshal(out.Bytes(), &items)).To(Succeed())
		Expect(items).To(HaveLen(5))
		Expect(items[0]).To(HaveKeyWithValue("id", "bloat"))
	})

	It("refuses to open the dashboard without a terminal", func() {
		if isTerminal() {
			Skip("stdout is a terminal")
		}
		rootCmd.SetArgs([]string{"dashboard", "--config", GinkgoT().TempDir()})
		DeferCleanup(func() { rootCmd.SetArgs(nil) })

		err := rootCmd.Execute()
		Expect(err).To(MatchError(ContainSubstring("interactive terminal")))
	})
})
