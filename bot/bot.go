package bot

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/Nnenty/telers/telerrors"
	"github.com/Nnenty/telers/types"
)

// Bot is the handle for one bot identity: its id, token and the RPC client
// used to reach the remote API. Shared read-only by every dispatch stage.
type Bot struct {
	ID     int64
	Token  string
	client Client
}

// New creates a Bot from a token. The bot id is the numeric head of the
// token, so no remote call is needed to know it.
func New(token string, client Client) (*Bot, telerrors.Error) {
	head, _, _ := strings.Cut(token, ":")

	id, err := strconv.ParseInt(strings.TrimSpace(head), 10, 64)
	if err != nil || id <= 0 {
		return nil, telerrors.FromError(
			telerrors.KindInternal,
			err,
			"invalid bot token provided",
		)
	}

	if client == nil {
		client = NewHTTPClient("")
	}

	return &Bot{
		ID:     id,
		Token:  token,
		client: client,
	}, nil
}

// Send calls the named remote method and returns the raw result payload.
func (b *Bot) Send(ctx context.Context, method string, params any) ([]byte, telerrors.Error) {
	result, err := b.client.Send(ctx, b.Token, method, params)
	if err != nil {
		return nil, err.Wrap("bot send failed")
	}

	return result, nil
}

// getUpdatesParams mirrors the wire shape of the getUpdates method.
type getUpdatesParams struct {
	Offset         int64    `json:"offset,omitempty"`
	Timeout        int64    `json:"timeout,omitempty"`
	AllowedUpdates []string `json:"allowed_updates,omitempty"`
}

// GetUpdates fetches the next batch of updates starting at offset, holding
// the request open up to timeout seconds. allowedUpdates narrows the
// subscription to the given event kinds; empty keeps the server default.
func (b *Bot) GetUpdates(
	ctx context.Context,
	offset int64,
	timeoutSeconds int64,
	allowedUpdates []types.UpdateType,
) ([]types.Update, telerrors.Error) {
	params := getUpdatesParams{
		Offset:  offset,
		Timeout: timeoutSeconds,
	}

	for _, updateType := range allowedUpdates {
		params.AllowedUpdates = append(params.AllowedUpdates, string(updateType))
	}

	result, sendErr := b.Send(ctx, "getUpdates", params)
	if sendErr != nil {
		return nil, sendErr.Wrap("failed to get updates")
	}

	var updates []types.Update
	if err := json.Unmarshal(result, &updates); err != nil {
		return nil, telerrors.FromError(
			telerrors.KindInternal,
			err,
			"failed to decode updates batch",
		)
	}

	return updates, nil
}
