package servecmder

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/talktodo/pkg/config"
)

var _ = Describe("Serve Command", func() {
	BeforeEach(func() {
		old, had := os.LookupEnv("OPENROUTER_API_KEY")
		os.Unsetenv("OPENROUTER_API_KEY")
		DeferCleanup(func() {
			if had {
				os.Setenv("OPENROUTER_API_KEY", old)
			}
		})
	})

	It("refuses to start without an API key", func() {
		envFile := filepath.Join(GinkgoT().TempDir(), "absent.env")

		cmd := NewServeCmd()
		cmd.SetArgs([]string{"--env-file", envFile, "--listen", "127.0.0.1:0"})
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})

		err := cmd.Execute()

		Expect(err).To(HaveOccurred())
		Expect(errors.Is(err, config.ErrConfigMissing)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("OPENROUTER_API_KEY"))
	})

	It("registers its flags with defaults", func() {
		cmd := NewServeCmd()

		Expect(cmd.Flags().Lookup("listen").DefValue).To(Equal(config.DefaultListenAddr))
		Expect(cmd.Flags().Lookup("debug").DefValue).To(Equal("false"))
		Expect(cmd.Flags().Lookup("env-file").DefValue).To(Equal(config.DefaultEnvFile))
	})

	It("rejects positional arguments", func() {
		cmd := NewServeCmd()
		cmd.SetArgs([]string{"extra"})
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})

		Expect(cmd.Execute()).NotTo(Succeed())
	})
})
