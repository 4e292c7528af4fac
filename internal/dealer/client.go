package dealer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	contentTypeProtobuf = "application/x-protobuf"
	maxResponseBytes    = 1 << 20
)

// HTTPClient 远程发牌服务客户端，一次请求对应一次完整发牌
type HTTPClient struct {
	baseURL string
	http    *http.Client
	log     logrus.FieldLogger
}

// NewHTTPClient 创建发牌客户端
func NewHTTPClient(baseURL string, timeout time.Duration, log logrus.FieldLogger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Deal 请求发牌；任何传输、解码或一致性错误都不会返回部分结果
func (c *HTTPClient) Deal(ctx context.Context, playerCount int) (*Deal, error) {
	req, err := EncodeRequest(playerCount)
	if err != nil {
		return nil, err
	}
	body, err := proto.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal deal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/deal", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", contentTypeProtobuf)
	httpReq.Header.Set("Accept", contentTypeProtobuf)

	log := c.log.WithField("player_count", playerCount)
	log.Debug("requesting deal")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("deal request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read deal response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dealer responded %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var out structpb.Struct
	if err := proto.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("unmarshal deal response: %w", err)
	}

	deal, err := DecodeDeal(&out)
	if err != nil {
		return nil, fmt.Errorf("decode deal response: %w", err)
	}
	if err := deal.Validate(playerCount); err != nil {
		return nil, err
	}

	log.WithField("flop", deal.Board.Flop).Debug("deal received")
	return deal, nil
}
