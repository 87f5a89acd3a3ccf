package testutil

import (
	"fmt"

	tele "gopkg.in/telebot.v3"
)

// FakeContext records what a handler sends. Methods it does not override panic.
type FakeContext struct {
	tele.Context

	User *tele.User
	Cb   *tele.Callback
	Msg  *tele.Message

	EditErr error

	Sent      []string
	Edited    []string
	Responses []*tele.CallbackResponse
}

// NewCommandContext fakes a plain message from userID
func NewCommandContext(userID int64, text string) *FakeContext {
	return &FakeContext{
		User: &tele.User{ID: userID},
		Msg:  &tele.Message{Text: text},
	}
}

// NewCallbackContext fakes an inline button press from userID
func NewCallbackContext(userID int64, data string) *FakeContext {
	return &FakeContext{
		User: &tele.User{ID: userID},
		Cb:   &tele.Callback{ID: "cb-1", Data: data},
		Msg:  &tele.Message{},
	}
}

func (c *FakeContext) Sender() *tele.User       { return c.User }
func (c *FakeContext) Callback() *tele.Callback { return c.Cb }
func (c *FakeContext) Message() *tele.Message   { return c.Msg }

func (c *FakeContext) Data() string {
	if c.Cb != nil {
		return c.Cb.Data
	}
	if c.Msg != nil {
		return c.Msg.Payload
	}
	return ""
}

func (c *FakeContext) Send(what interface{}, _ ...interface{}) error {
	c.Sent = append(c.Sent, fmt.Sprint(what))
	return nil
}

func (c *FakeContext) Edit(what interface{}, _ ...interface{}) error {
	if c.EditErr != nil {
		return c.EditErr
	}
	c.Edited = append(c.Edited, fmt.Sprint(what))
	return nil
}

func (c *FakeContext) Respond(resp ...*tele.CallbackResponse) error {
	if len(resp) == 0 {
		c.Responses = append(c.Responses, &tele.CallbackResponse{})
		return nil
	}
	c.Responses = append(c.Responses, resp[0])
	return nil
}

// LastResponse returns the most recent callback acknowledgement
func (c *FakeContext) LastResponse() *tele.CallbackResponse {
	if len(c.Responses) == 0 {
		return nil
	}
	return c.Responses[len(c.Responses)-1]
}
