package dealer

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Dealer 发牌能力，Service 与 HTTPClient 都实现了它
type Dealer interface {
	Deal(ctx context.Context, playerCount int) (*Deal, error)
}

// maxRequestBytes 发牌请求只有一个 player_count 字段
const maxRequestBytes = 4 << 10

type handler struct {
	dealer Dealer
	log    logrus.FieldLogger
}

// NewRouter 返回发牌服务的 HTTP 路由
//
//	POST /deal    protobuf Struct { player_count } -> { hands, board }
//	GET  /health
func NewRouter(d Dealer, log logrus.FieldLogger) http.Handler {
	h := &handler{dealer: d, log: log}

	r := mux.NewRouter()
	r.HandleFunc("/deal", h.deal).Methods(http.MethodPost)
	r.HandleFunc("/health", h.health).Methods(http.MethodGet)

	return handlers.RecoveryHandler()(r)
}

func (h *handler) deal(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "could not read body", http.StatusBadRequest)
		return
	}

	var req structpb.Struct
	if err := proto.Unmarshal(data, &req); err != nil {
		http.Error(w, "invalid protobuf body", http.StatusBadRequest)
		return
	}
	playerCount, err := DecodeRequest(&req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	deal, err := h.dealer.Deal(r.Context(), playerCount)
	if err != nil {
		if errors.Is(err, ErrInvalidPlayerCount) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.log.WithError(err).Error("could not deal")
		http.Error(w, "could not deal", http.StatusInternalServerError)
		return
	}

	out, err := EncodeDeal(deal)
	if err != nil {
		h.log.WithError(err).Error("could not encode deal")
		http.Error(w, "could not encode deal", http.StatusInternalServerError)
		return
	}
	body, err := proto.Marshal(out)
	if err != nil {
		h.log.WithError(err).Error("could not marshal deal")
		http.Error(w, "could not marshal deal", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentTypeProtobuf)
	if _, err := w.Write(body); err != nil {
		h.log.WithError(err).Warn("could not write deal response")
	}
	h.log.WithField("player_count", playerCount).Info("dealt hand")
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ok"))
}
