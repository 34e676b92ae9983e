package vk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"vkinder-bot/internal/models"

	"github.com/rs/zerolog/log"
)

// MessageHandler processes one inbound message
type MessageHandler func(ctx context.Context, msg models.IncomingMessage) error

// eventTS accepts ts both as a JSON string and as a number
type eventTS string

func (t *eventTS) UnmarshalJSON(data []byte) error {
	*t = eventTS(strings.Trim(string(data), `"`))
	return nil
}

type longPollServer struct {
	Key    string  `json:"key"`
	Server string  `json:"server"`
	TS     eventTS `json:"ts"`
}

type longPollUpdate struct {
	Type   string          `json:"type"`
	Object json.RawMessage `json:"object"`
}

type longPollResponse struct {
	TS      eventTS          `json:"ts"`
	Updates []longPollUpdate `json:"updates"`
	Failed  int              `json:"failed"`
}

// MessageNew is the object of a message_new event, shared with the Callback API
type MessageNew struct {
	Message struct {
		FromID int64  `json:"from_id"`
		PeerID int64  `json:"peer_id"`
		Text   string `json:"text"`
	} `json:"message"`
}

// Incoming converts a message_new object to an inbound message
func (m *MessageNew) Incoming() models.IncomingMessage {
	return models.IncomingMessage{UserID: m.Message.FromID, Text: m.Message.Text}
}

// Listen runs the Bots Long Poll loop and hands every new message to handle
// in the order VK delivers them. It returns when ctx is done.
func (c *Client) Listen(ctx context.Context, handle MessageHandler) error {
	server, err := c.longPollServer(ctx)
	if err != nil {
		return err
	}

	log.Info().Int64("group_id", c.groupID).Msg("Long poll started")

	for {
		if ctx.Err() != nil {
			return nil
		}

		resp, err := c.poll(ctx, server)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Error().Err(err).Msg("Long poll request failed")
			if !sleep(ctx, time.Second) {
				return nil
			}
			continue
		}

		switch resp.Failed {
		case 0:
		case 1:
			// history is partially lost, continue from the fresh ts
			server.TS = resp.TS
			continue
		default:
			// key expired or information lost, request a new server
			server, err = c.longPollServer(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			continue
		}

		server.TS = resp.TS
		for _, update := range resp.Updates {
			if update.Type != "message_new" {
				continue
			}
			var obj MessageNew
			if err := json.Unmarshal(update.Object, &obj); err != nil {
				log.Error().Err(err).Msg("Failed to parse message_new event")
				continue
			}
			if err := handle(ctx, obj.Incoming()); err != nil {
				log.Error().Err(err).Int64("user_id", obj.Message.FromID).Msg("Failed to handle message")
			}
		}
	}
}

func (c *Client) longPollServer(ctx context.Context) (*longPollServer, error) {
	params := url.Values{}
	params.Set("group_id", strconv.FormatInt(c.groupID, 10))

	var server longPollServer
	if err := c.call(ctx, "groups.getLongPollServer", c.groupToken, params, &server); err != nil {
		return nil, err
	}
	return &server, nil
}

func (c *Client) poll(ctx context.Context, server *longPollServer) (*longPollResponse, error) {
	query := url.Values{}
	query.Set("act", "a_check")
	query.Set("key", server.Key)
	query.Set("ts", string(server.TS))
	query.Set("wait", strconv.Itoa(c.wait))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.Server+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build long poll request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected long poll status: %s", resp.Status)
	}

	var out longPollResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode long poll response: %w", err)
	}
	if out.Failed == 0 && out.TS == "" {
		return nil, errors.New("long poll response without ts")
	}
	return &out, nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
