package gateway

import (
	"context"
	"net/http"

	"github.com/darasa/darasa-client/core/assistant"
)

var _ assistant.API = (*Gateway)(nil)

func (gw *Gateway) Chat(ctx context.Context, req assistant.ChatRequest) (string, error) {
	var out string
	err := gw.do(ctx, http.MethodPost, "/ai/chat", req, &out)
	return out, err
}
