package server

import (
	"encoding/json"
	"html/template"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"

	"github.com/papercomputeco/talktodo/pkg/llm"
	"github.com/papercomputeco/talktodo/pkg/render"
)

type pageView struct {
	Title string
	Model string
	Turns []turnView
}

type turnView struct {
	Role string
	HTML template.HTML
}

// HistoryResponse is the conversation of the requesting session.
type HistoryResponse struct {
	Model string     `json:"model"`
	Turns []llm.Turn `json:"turns"`
	Count int        `json:"count"`
}

// MessageRequest submits one user message.
type MessageRequest struct {
	Content string `json:"content"`
}

// MessageResponse carries the assistant turn appended for a submission.
// A failed completion is reported here as an assistant turn, not as an
// HTTP error.
type MessageResponse struct {
	Reply llm.Turn `json:"reply"`
	Count int      `json:"count"`
}

// handleIndex renders the session's conversation. It never modifies it.
func (s *Server) handleIndex(c *fiber.Ctx) error {
	store, err := s.conversation(c)
	if err != nil {
		return err
	}

	turns := store.All()
	view := pageView{
		Title: pageTitle,
		Model: s.config.Model,
		Turns: make([]turnView, len(turns)),
	}
	for i, turn := range turns {
		view.Turns[i] = turnView{
			Role: string(turn.Role),
			HTML: render.Markdown(turn.Content),
		}
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return s.page.Execute(c, view)
}

// handleChatForm runs a submission from the page's form and sends the browser
// back to the page.
func (s *Server) handleChatForm(c *fiber.Ctx) error {
	store, err := s.conversation(c)
	if err != nil {
		return err
	}

	// FormValue points into a reused request buffer; the store keeps the turn.
	prompt := utils.CopyString(c.FormValue("prompt"))
	if strings.TrimSpace(prompt) != "" {
		s.chat.Submit(c.UserContext(), store, prompt)
	}

	return c.Redirect("/", fiber.StatusSeeOther)
}

// handleHistory returns the session's conversation, oldest first.
func (s *Server) handleHistory(c *fiber.Ctx) error {
	store, err := s.conversation(c)
	if err != nil {
		return err
	}

	turns := store.All()
	if turns == nil {
		turns = []llm.Turn{}
	}

	return c.JSON(HistoryResponse{
		Model: s.config.Model,
		Turns: turns,
		Count: len(turns),
	})
}

// handlePostMessage runs a submission from the JSON API.
func (s *Server) handlePostMessage(c *fiber.Ctx) error {
	var req MessageRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		s.logger.Debug("failed to parse message request", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "invalid request body"})
	}
	if strings.TrimSpace(req.Content) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "content is required"})
	}

	store, err := s.conversation(c)
	if err != nil {
		return err
	}

	reply := s.chat.Submit(c.UserContext(), store, req.Content)

	return c.JSON(MessageResponse{
		Reply: reply,
		Count: store.Len(),
	})
}
