package llm_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/talktodo/pkg/llm"
)

var _ = Describe("NewChatRequest", func() {
	It("projects every turn in insertion order", func() {
		history := []llm.Turn{
			llm.UserTurn("Hello"),
			llm.AssistantTurn("Hi there"),
			llm.UserTurn("What is Do?"),
		}

		req := llm.NewChatRequest("test-model", history, 0.7)

		Expect(req.Model).To(Equal("test-model"))
		Expect(req.Temperature).To(Equal(0.7))
		Expect(req.Messages).To(Equal([]llm.Message{
			{Role: "user", Content: "Hello"},
			{Role: "assistant", Content: "Hi there"},
			{Role: "user", Content: "What is Do?"},
		}))
	})

	It("encodes an empty history as an empty array", func() {
		data, err := json.Marshal(llm.NewChatRequest("m", nil, 0.7))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(MatchJSON(`{"model":"m","messages":[],"temperature":0.7}`))
	})

	It("passes content through verbatim", func() {
		content := "  line one\n\n**line two**  "
		req := llm.NewChatRequest("m", []llm.Turn{llm.UserTurn(content)}, 0.7)

		Expect(req.Messages[0].Content).To(Equal(content))
	})
})
