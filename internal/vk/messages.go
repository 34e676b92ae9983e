package vk

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/url"
	"strconv"

	"vkinder-bot/internal/models"
)

// Send delivers a message to the user on behalf of the community
func (c *Client) Send(ctx context.Context, msg *models.OutgoingMessage) error {
	params := url.Values{}
	params.Set("user_id", strconv.FormatInt(msg.UserID, 10))
	params.Set("message", msg.Text)
	// random_id lets VK drop duplicates of a retried send
	params.Set("random_id", strconv.Itoa(rand.Intn(10_000_000)))

	if msg.Keyboard != nil {
		keyboard, err := MarshalKeyboard(msg.Keyboard)
		if err != nil {
			return err
		}
		params.Set("keyboard", string(keyboard))
	}
	if msg.Attachment != "" {
		params.Set("attachment", msg.Attachment)
	}

	var messageID json.RawMessage
	return c.call(ctx, "messages.send", c.groupToken, params, &messageID)
}

type keyboardAction struct {
	Type    string `json:"type"`
	Label   string `json:"label"`
	Link    string `json:"link,omitempty"`
	Payload string `json:"payload,omitempty"`
}

type keyboardButton struct {
	Action keyboardAction `json:"action"`
	Color  string         `json:"color,omitempty"`
}

type keyboard struct {
	OneTime bool               `json:"one_time"`
	Inline  bool               `json:"inline"`
	Buttons [][]keyboardButton `json:"buttons"`
}

// MarshalKeyboard renders a keyboard layout to the VK JSON format
func MarshalKeyboard(kb *models.Keyboard) ([]byte, error) {
	out := keyboard{
		OneTime: kb.OneTime && !kb.Inline,
		Inline:  kb.Inline,
		Buttons: make([][]keyboardButton, 0, len(kb.Rows)),
	}

	for _, row := range kb.Rows {
		buttons := make([]keyboardButton, 0, len(row))
		for _, b := range row {
			if b.Link != "" {
				buttons = append(buttons, keyboardButton{
					Action: keyboardAction{Type: "open_link", Label: b.Label, Link: b.Link},
				})
				continue
			}
			color := b.Color
			if color == "" {
				color = models.ColorSecondary
			}
			buttons = append(buttons, keyboardButton{
				Action: keyboardAction{Type: "text", Label: b.Label},
				Color:  string(color),
			})
		}
		out.Buttons = append(out.Buttons, buttons)
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal keyboard: %w", err)
	}
	return data, nil
}
