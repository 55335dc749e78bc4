package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/pflag"

	"github.com/papercomputeco/talktodo/pkg/config"
)

var _ = Describe("Load", func() {
	var missingEnvFile string

	BeforeEach(func() {
		for _, key := range []string{
			"OPENROUTER_API_KEY",
			"OPENROUTER_MODEL",
			"TALKTODO_LISTEN",
			"TALKTODO_DEBUG",
			"TALKTODO_SESSION_TTL",
		} {
			setenv(key, "")
		}
		missingEnvFile = filepath.Join(GinkgoT().TempDir(), "missing.env")
	})

	writeEnvFile := func(contents string) string {
		path := filepath.Join(GinkgoT().TempDir(), ".env")
		Expect(os.WriteFile(path, []byte(contents), 0o600)).To(Succeed())
		return path
	}

	It("fails with ErrConfigMissing when no API key is set", func() {
		_, err := config.Load(config.LoadOptions{EnvFile: missingEnvFile})

		Expect(err).To(HaveOccurred())
		Expect(errors.Is(err, config.ErrConfigMissing)).To(BeTrue())
	})

	It("treats a whitespace-only API key as missing", func() {
		setenv("OPENROUTER_API_KEY", "   ")

		_, err := config.Load(config.LoadOptions{EnvFile: missingEnvFile})

		Expect(err).To(MatchError(config.ErrConfigMissing))
	})

	It("applies defaults when only the API key is set", func() {
		setenv("OPENROUTER_API_KEY", "sk-test")

		cfg, err := config.Load(config.LoadOptions{EnvFile: missingEnvFile})

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.APIKey).To(Equal("sk-test"))
		Expect(cfg.Model).To(Equal(config.DefaultModel))
		Expect(cfg.EndpointURL).To(Equal(config.EndpointURL))
		Expect(cfg.ListenAddr).To(Equal(config.DefaultListenAddr))
		Expect(cfg.Debug).To(BeFalse())
		Expect(cfg.SessionTTL).To(Equal(config.DefaultSessionTTL))
	})

	It("reads the model from the environment", func() {
		setenv("OPENROUTER_API_KEY", "sk-test")
		setenv("OPENROUTER_MODEL", "openai/gpt-4o-mini")

		cfg, err := config.Load(config.LoadOptions{EnvFile: missingEnvFile})

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Model).To(Equal("openai/gpt-4o-mini"))
	})

	It("reads values from a dotenv file", func() {
		path := writeEnvFile("OPENROUTER_API_KEY=sk-from-file\nOPENROUTER_MODEL=file/model\nTALKTODO_SESSION_TTL=2h\n")

		cfg, err := config.Load(config.LoadOptions{EnvFile: path})

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.APIKey).To(Equal("sk-from-file"))
		Expect(cfg.Model).To(Equal("file/model"))
		Expect(cfg.SessionTTL).To(Equal(2 * time.Hour))
	})

	It("prefers the environment over the dotenv file", func() {
		path := writeEnvFile("OPENROUTER_API_KEY=sk-from-file\n")
		setenv("OPENROUTER_API_KEY", "sk-from-env")

		cfg, err := config.Load(config.LoadOptions{EnvFile: path})

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.APIKey).To(Equal("sk-from-env"))
	})

	It("prefers changed flags over the environment", func() {
		setenv("OPENROUTER_API_KEY", "sk-test")
		setenv("TALKTODO_LISTEN", ":9000")

		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.String("listen", config.DefaultListenAddr, "")
		flags.Bool("debug", false, "")
		Expect(flags.Parse([]string{"--listen", ":7000", "--debug"})).To(Succeed())

		cfg, err := config.Load(config.LoadOptions{EnvFile: missingEnvFile, Flags: flags})

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.ListenAddr).To(Equal(":7000"))
		Expect(cfg.Debug).To(BeTrue())
	})

	It("keeps the environment when flags are left unset", func() {
		setenv("OPENROUTER_API_KEY", "sk-test")
		setenv("TALKTODO_LISTEN", ":9000")

		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.String("listen", config.DefaultListenAddr, "")
		Expect(flags.Parse(nil)).To(Succeed())

		cfg, err := config.Load(config.LoadOptions{EnvFile: missingEnvFile, Flags: flags})

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.ListenAddr).To(Equal(":9000"))
	})
})
