package chat

import (
	"strings"
	"unicode/utf8"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("truncate", func() {
	It("leaves short strings alone apart from newlines", func() {
		Expect(truncate("a\nb", 10)).To(Equal("a b"))
	})

	It("cuts long strings and marks the cut", func() {
		Expect(truncate(strings.Repeat("x", 20), 5)).To(Equal("xxxxx..."))
	})

	It("never splits a multi-byte rune", func() {
		out := truncate("a"+strings.Repeat("é", 10), 4)

		Expect(utf8.ValidString(out)).To(BeTrue())
		Expect(out).To(Equal("aé..."))
	})
})
